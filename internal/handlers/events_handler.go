package handlers

import (
	"io"
	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/barber-queue/internal/changefeed"
	domain "github.com/BruksfildServices01/barber-queue/internal/domain/queue"
	"github.com/BruksfildServices01/barber-queue/internal/httperr"
)

// EventsHandler streams partition commits to the barber's panel over SSE.
type EventsHandler struct {
	feed changefeed.Feed
	log  *slog.Logger
}

func NewEventsHandler(feed changefeed.Feed, log *slog.Logger) *EventsHandler {
	return &EventsHandler{feed: feed, log: log}
}

func (h *EventsHandler) Stream(c *gin.Context) {
	key := barberKey(c)
	if _, err := domain.ParseDate(key.Date, nil); err != nil {
		httperr.FromError(c, err)
		return
	}

	ctx := c.Request.Context()
	events, err := h.feed.Subscribe(ctx, key)
	if err != nil {
		h.log.Error("change feed subscribe failed", "barber_id", key.BarberID, "date", key.Date, "err", err)
		httperr.Internal(c, "feed_unavailable", "Atualizações em tempo real indisponíveis.")
		return
	}

	c.Header("Cache-Control", "no-cache")
	c.Header("X-Accel-Buffering", "no")
	c.SSEvent("ready", gin.H{"barber_id": key.BarberID, "date": key.Date})
	c.Writer.Flush()

	c.Stream(func(w io.Writer) bool {
		select {
		case <-ctx.Done():
			return false
		case ev, ok := <-events:
			if !ok {
				return false
			}
			c.SSEvent("partition_changed", ev)
			return true
		}
	})
}
