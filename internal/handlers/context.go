package handlers

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	domain "github.com/BruksfildServices01/barber-queue/internal/domain/queue"
	"github.com/BruksfildServices01/barber-queue/internal/httperr"
	"github.com/BruksfildServices01/barber-queue/internal/middleware"
	ucQueue "github.com/BruksfildServices01/barber-queue/internal/usecase/queue"
)

// --------------------------------------------------
// Context helpers
// --------------------------------------------------

// barberKey resolves the partition from the authenticated barber and :date.
func barberKey(c *gin.Context) domain.Key {
	return domain.Key{
		BarberID: c.MustGet(middleware.ContextUserID).(uint),
		Date:     c.Param("date"),
	}
}

func actorFrom(c *gin.Context) ucQueue.Actor {
	return ucQueue.Actor{
		BarbershopID: c.MustGet(middleware.ContextBarbershopID).(uint),
		UserID:       c.MustGet(middleware.ContextUserID).(uint),
	}
}

func appointmentID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		httperr.BadRequest(c, "invalid_appointment_id", "ID do agendamento inválido.")
		return 0, false
	}
	return uint(id), true
}

// bindOptionalJSON accepts an empty body for endpoints whose fields all have
// defaults.
func bindOptionalJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error_code": "invalid_request",
			"message":    err.Error(),
		})
		return false
	}
	return true
}
