package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/barber-queue/internal/httperr"
	"github.com/BruksfildServices01/barber-queue/internal/httpresp"
	ucQueue "github.com/BruksfildServices01/barber-queue/internal/usecase/queue"
)

type TimelineHandler struct {
	composeUC *ucQueue.ComposeTimeline
}

func NewTimelineHandler(composeUC *ucQueue.ComposeTimeline) *TimelineHandler {
	return &TimelineHandler{composeUC: composeUC}
}

func (h *TimelineHandler) Get(c *gin.Context) {
	tl, err := h.composeUC.Execute(c.Request.Context(), barberKey(c))
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	httpresp.OK(c, tl)
}
