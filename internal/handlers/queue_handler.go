package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/barber-queue/internal/dto"
	"github.com/BruksfildServices01/barber-queue/internal/httperr"
	"github.com/BruksfildServices01/barber-queue/internal/httpresp"
	ucQueue "github.com/BruksfildServices01/barber-queue/internal/usecase/queue"
)

// ======================================================
// HANDLER
// ======================================================

type QueueHandler struct {
	insertUC     *ucQueue.InsertIntoQueue
	moveUC       *ucQueue.MoveToPosition
	priorityUC   *ucQueue.ChangePriority
	reorderUC    *ucQueue.ReorderQueue
	transitionUC *ucQueue.TransitionStatus
	convertUC    *ucQueue.AddScheduledToQueue
	listUC       *ucQueue.ListQueue
}

func NewQueueHandler(
	insertUC *ucQueue.InsertIntoQueue,
	moveUC *ucQueue.MoveToPosition,
	priorityUC *ucQueue.ChangePriority,
	reorderUC *ucQueue.ReorderQueue,
	transitionUC *ucQueue.TransitionStatus,
	convertUC *ucQueue.AddScheduledToQueue,
	listUC *ucQueue.ListQueue,
) *QueueHandler {
	return &QueueHandler{
		insertUC:     insertUC,
		moveUC:       moveUC,
		priorityUC:   priorityUC,
		reorderUC:    reorderUC,
		transitionUC: transitionUC,
		convertUC:    convertUC,
		listUC:       listUC,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type InsertRequest struct {
	Urgent bool `json:"urgent"`
}

type MoveRequest struct {
	Position int `json:"position"`
}

type PriorityRequest struct {
	Priority string `json:"priority" binding:"required"`
	Reorder  bool   `json:"reorder"`
}

type StatusRequest struct {
	Status string `json:"status" binding:"required"`
	Reason string `json:"reason"`
}

// ======================================================
// LIST
// ======================================================

func (h *QueueHandler) List(c *gin.Context) {
	view, err := h.listUC.Execute(c.Request.Context(), barberKey(c))
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	httpresp.OK(c, dto.FromQueueView(view))
}

// ======================================================
// MUTATIONS
// ======================================================

func (h *QueueHandler) Insert(c *gin.Context) {
	id, ok := appointmentID(c)
	if !ok {
		return
	}
	var req InsertRequest
	if !bindOptionalJSON(c, &req) {
		return
	}

	res, err := h.insertUC.Execute(c.Request.Context(), actorFrom(c), barberKey(c), id, req.Urgent)
	respond(c, res, err)
}

func (h *QueueHandler) Move(c *gin.Context) {
	id, ok := appointmentID(c)
	if !ok {
		return
	}
	var req MoveRequest
	if !bindOptionalJSON(c, &req) {
		return
	}

	res, err := h.moveUC.Execute(c.Request.Context(), actorFrom(c), barberKey(c), id, req.Position)
	respond(c, res, err)
}

func (h *QueueHandler) ChangePriority(c *gin.Context) {
	id, ok := appointmentID(c)
	if !ok {
		return
	}
	var req PriorityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	res, err := h.priorityUC.Execute(c.Request.Context(), actorFrom(c), barberKey(c), id, req.Priority, req.Reorder)
	respond(c, res, err)
}

func (h *QueueHandler) Reorder(c *gin.Context) {
	res, err := h.reorderUC.Execute(c.Request.Context(), actorFrom(c), barberKey(c))
	respond(c, res, err)
}

func (h *QueueHandler) ChangeStatus(c *gin.Context) {
	id, ok := appointmentID(c)
	if !ok {
		return
	}
	var req StatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	res, err := h.transitionUC.Execute(c.Request.Context(), actorFrom(c), barberKey(c), id, req.Status, req.Reason)
	respond(c, res, err)
}

func (h *QueueHandler) Convert(c *gin.Context) {
	id, ok := appointmentID(c)
	if !ok {
		return
	}
	var req InsertRequest
	if !bindOptionalJSON(c, &req) {
		return
	}

	res, err := h.convertUC.Execute(c.Request.Context(), actorFrom(c), barberKey(c), id, req.Urgent)
	respond(c, res, err)
}

func respond(c *gin.Context, res *ucQueue.Result, err error) {
	if err != nil {
		_ = c.Error(err)
		httperr.FromError(c, err)
		return
	}
	httpresp.OK(c, dto.FromResult(res))
}
