package handlers

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/charlesng35/roomrental/internal/realtime"
	"github.com/charlesng35/roomrental/pkg/errors"
	"github.com/charlesng35/roomrental/pkg/response"
)

// RealtimeHandler upgrades HTTP connections into websocket event streams.
type RealtimeHandler struct {
	hub *realtime.Hub
}

// NewRealtimeHandler constructs a realtime handler. A nil hub disables streaming.
func NewRealtimeHandler(hub *realtime.Hub) *RealtimeHandler {
	return &RealtimeHandler{hub: hub}
}

// Stream subscribes the client to the requested streams (`?stream=` or `?streams=a,b`),
// defaulting to every known stream.
func (h *RealtimeHandler) Stream(c *gin.Context) {
	if h.hub == nil {
		response.Error(c, errors.ErrNotFound)
		return
	}

	streams := gatherStreams(c)
	if len(streams) == 0 {
		streams = realtime.KnownStreams
	}

	for _, stream := range streams {
		if !realtime.IsKnownStream(stream) {
			response.Error(c, errors.NewBadRequest("unknown stream "+stream))
			return
		}
	}

	h.hub.Serve(streams, c.Writer, c.Request)
}

func gatherStreams(c *gin.Context) []string {
	streams := append([]string{}, c.QueryArray("stream")...)
	if raw := c.Query("streams"); raw != "" {
		streams = append(streams, strings.Split(raw, ",")...)
	}
	return realtime.UniqueStreams(streams)
}
