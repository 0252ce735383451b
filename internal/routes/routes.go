package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/barber-queue/internal/app"
	"github.com/BruksfildServices01/barber-queue/internal/handlers"
	"github.com/BruksfildServices01/barber-queue/internal/middleware"
	ucQueue "github.com/BruksfildServices01/barber-queue/internal/usecase/queue"
)

func RegisterRoutes(r *gin.Engine, a *app.App) {

	// ======================================================
	// MIDDLEWARE GLOBAL
	// ======================================================
	r.Use(middleware.RequestLogger(a.Log))
	r.Use(middleware.CORSMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// ======================================================
	// USE CASES - QUEUE
	// ======================================================
	insertUC := ucQueue.NewInsertIntoQueue(a.Engine)
	moveUC := ucQueue.NewMoveToPosition(a.Engine)
	priorityUC := ucQueue.NewChangePriority(a.Engine)
	reorderUC := ucQueue.NewReorderQueue(a.Engine)
	transitionUC := ucQueue.NewTransitionStatus(a.Engine)
	convertUC := ucQueue.NewAddScheduledToQueue(a.Engine)
	listUC := ucQueue.NewListQueue(a.Engine)
	composeUC := ucQueue.NewComposeTimeline(a.Engine)

	// ======================================================
	// HANDLERS
	// ======================================================
	queueHandler := handlers.NewQueueHandler(
		insertUC,
		moveUC,
		priorityUC,
		reorderUC,
		transitionUC,
		convertUC,
		listUC,
	)
	timelineHandler := handlers.NewTimelineHandler(composeUC)
	eventsHandler := handlers.NewEventsHandler(a.Feed, a.Log)
	workingHoursHandler := handlers.NewWorkingHoursHandler(a.DB)
	auditLogsHandler := handlers.NewAuditLogsHandler(a.Trail, a.Config.Schedule.Location)

	// ======================================================
	// API PRIVADA
	// ======================================================
	secured := r.Group("/api/me")
	secured.Use(middleware.AuthMiddleware(a.Config.JWTSecret))

	// stream fica fora do timeout por requisição
	secured.GET("/queue/:date/events", eventsHandler.Stream)

	timed := secured.Group("")
	timed.Use(middleware.Timeout(a.Config.RequestTimeout))
	{
		timed.GET("/working-hours", workingHoursHandler.Get)
		timed.PUT("/working-hours", workingHoursHandler.Update)

		// ------------------------------
		// QUEUE
		// ------------------------------
		timed.GET("/queue/:date", queueHandler.List)
		timed.POST("/queue/:date/reorder", queueHandler.Reorder)
		timed.POST("/queue/:date/appointments/:id/insert", queueHandler.Insert)
		timed.PATCH("/queue/:date/appointments/:id/position", queueHandler.Move)
		timed.PATCH("/queue/:date/appointments/:id/priority", queueHandler.ChangePriority)
		timed.PATCH("/queue/:date/appointments/:id/status", queueHandler.ChangeStatus)
		timed.POST("/queue/:date/appointments/:id/convert", queueHandler.Convert)

		// ------------------------------
		// TIMELINE
		// ------------------------------
		timed.GET("/timeline/:date", timelineHandler.Get)

		timed.GET("/audit-logs", auditLogsHandler.List)
	}
}
