package handlers

import (
	"bytes"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"go-fieldwatch/dashboard"
	"go-fieldwatch/hub"
	"go-fieldwatch/types"
)

// Broadcaster pushes a recomputed view to connected dashboards.
type Broadcaster interface {
	Broadcast(kind string, payload interface{})
}

func GetTelemetry(c *gin.Context, state *dashboard.State) {
	c.JSON(http.StatusOK, state.Telemetry())
}

// GetChannelChart renders one channel window as a PNG.
func GetChannelChart(c *gin.Context, state *dashboard.State) {
	series, err := state.Series(types.Channel(c.Param("channel")))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	var buf bytes.Buffer
	if err := dashboard.RenderChart(&buf, series); err != nil {
		log.Error().Err(err).Str("channel", string(series.Channel)).Msg("chart render failed")
		status := http.StatusInternalServerError
		if errors.Is(err, dashboard.ErrNotEnoughSamples) {
			status = http.StatusConflict
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, "image/png", buf.Bytes())
}

func GetMarkers(c *gin.Context, state *dashboard.State) {
	c.JSON(http.StatusOK, state.Markers())
}

type clickRequest struct {
	Clicks []types.ClickCount `json:"clicks"`
}

// PostMarkerClicks feeds a click batch to the selection reducer.
func PostMarkerClicks(c *gin.Context, state *dashboard.State, push Broadcaster) {
	var request clickRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	view := state.Click(request.Clicks)
	push.Broadcast(hub.KindMarkers, view)
	c.JSON(http.StatusOK, view)
}

func GetChat(c *gin.Context, state *dashboard.State) {
	c.JSON(http.StatusOK, state.Chat())
}

type chatRequest struct {
	Text      string `json:"text"`
	SendCount int    `json:"sendCount"`
}

// PostChat appends a message and its bot echo. Empty text or a zero send
// counter returns the log unchanged.
func PostChat(c *gin.Context, state *dashboard.State, push Broadcaster) {
	var request chatRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	view, changed := state.Send(request.Text, request.SendCount)
	if changed {
		push.Broadcast(hub.KindChat, view)
	}
	c.JSON(http.StatusOK, view)
}

func HandleWebSocket(c *gin.Context, h *hub.Hub) {
	if err := h.Serve(c.Writer, c.Request); err != nil {
		// the upgrader already wrote the HTTP error
		log.Warn().Err(err).Msg("websocket upgrade failed")
	}
}
