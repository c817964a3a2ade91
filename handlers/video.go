package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"go-fieldwatch/stream"
)

// VideoFeed streams the camera as multipart/x-mixed-replace until the client
// disconnects or the camera fails.
func VideoFeed(c *gin.Context, streamer *stream.Streamer) {
	st, err := streamer.Open()
	if err != nil {
		if errors.Is(err, stream.ErrCameraBusy) {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
			return
		}
		log.Error().Err(err).Msg("could not open camera")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "camera unavailable"})
		return
	}

	c.Header("Content-Type", stream.ContentType)
	c.Header("Cache-Control", "no-cache")
	c.Status(http.StatusOK)

	sent, err := stream.Pipe(c.Request.Context(), st, c.Writer)
	log.Info().Str("stream", st.ID).Int("frames", sent).AnErr("reason", err).Msg("video feed ended")
}
