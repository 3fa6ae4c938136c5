package notification

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/gatherhub/event-manager/internal/handler"
	"github.com/gin-contrib/sse"
	"github.com/gin-gonic/gin"
)

func NewHandler(logger *slog.Logger, hub *Hub) Handler {
	return Handler{logger, hub}
}

type Handler struct {
	logger *slog.Logger
	hub    *Hub
}

// Stream opens an SSE stream. The first event is always `connected` carrying
// the connection id the client needs when subscribing to rooms.
func (h Handler) Stream(c *gin.Context) {
	id, messages := h.hub.Connect()

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	c.Writer.Header().Set("Transfer-Encoding", "chunked")

	defer func() {
		h.hub.Disconnect(id)
		h.logger.InfoContext(c.Request.Context(), "Closing client", "connectionId", id)
	}()

	c.Render(http.StatusOK, sse.Event{Event: "connected", Data: id})
	c.Writer.Flush()

	clientGone := c.Request.Context().Done()
	c.Stream(func(w io.Writer) bool {
		select {
		case message, ok := <-messages:
			if !ok {
				return false
			}
			c.SSEvent(message.Event, message.Payload)
			return true
		case <-clientGone:
			return false
		}
	})
}

type SubscribeRequest struct {
	EventID uint `json:"eventId" binding:"required"`
}

// Subscribe adds the connection to the room of the named event.
func (h Handler) Subscribe(c *gin.Context) {
	connectionId := c.Param("connectionId")

	var request SubscribeRequest
	if err := handler.DataBinder(c, &request); err != nil {
		_ = c.Error(err)
		return
	}

	if err := h.hub.SubscribeToRoom(connectionId, request.EventID); err != nil {
		_ = c.Error(err)
		return
	}

	c.Status(http.StatusNoContent)
}
