package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/barber-queue/internal/audit"
	domain "github.com/BruksfildServices01/barber-queue/internal/domain/queue"
	"github.com/BruksfildServices01/barber-queue/internal/httperr"
	"github.com/BruksfildServices01/barber-queue/internal/httpresp"
	"github.com/BruksfildServices01/barber-queue/internal/middleware"
)

// AuditLogsHandler lists the queue audit trail of the barbershop.
type AuditLogsHandler struct {
	logs *audit.Logger
	loc  *time.Location
}

func NewAuditLogsHandler(logs *audit.Logger, loc *time.Location) *AuditLogsHandler {
	if loc == nil {
		loc = time.UTC
	}
	return &AuditLogsHandler{logs: logs, loc: loc}
}

type auditLogsQuery struct {
	Action   string `form:"action"`
	Entity   string `form:"entity"`
	EntityID uint   `form:"entity_id"`
	From     string `form:"from"`
	To       string `form:"to"`
	Page     int    `form:"page"`
	Limit    int    `form:"limit"`
}

func (h *AuditLogsHandler) List(c *gin.Context) {
	var q auditLogsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		httperr.BadRequest(c, "invalid_query", err.Error())
		return
	}

	f := audit.Filter{
		BarbershopID: c.MustGet(middleware.ContextBarbershopID).(uint),
		Action:       q.Action,
		Entity:       q.Entity,
		EntityID:     q.EntityID,
		Page:         q.Page,
		Limit:        q.Limit,
	}

	// datas são dias inteiros no fuso da barbearia; "to" é inclusivo
	if q.From != "" {
		from, err := time.ParseInLocation(domain.DateLayout, q.From, h.loc)
		if err != nil {
			httperr.BadRequest(c, "invalid_date", "Data inicial inválida.")
			return
		}
		f.From = from
	}
	if q.To != "" {
		to, err := time.ParseInLocation(domain.DateLayout, q.To, h.loc)
		if err != nil {
			httperr.BadRequest(c, "invalid_date", "Data final inválida.")
			return
		}
		f.To = to.AddDate(0, 0, 1)
	}

	page, err := h.logs.List(c.Request.Context(), f)
	if err != nil {
		httperr.Internal(c, "audit_list_failed", "Erro ao listar logs.")
		return
	}
	httpresp.OK(c, page)
}
