package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"go-fieldwatch/db"
	"go-fieldwatch/snapshot"
)

func GetLatestSnapshot(c *gin.Context, store db.DocumentStore, collection string) {
	snap, ok := snapshot.Latest(c.Request.Context(), store, collection)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "no snapshot available"})
		return
	}
	c.JSON(http.StatusOK, snap)
}

func GetLatestSnapshotImage(c *gin.Context, store db.DocumentStore, collection string) {
	snap, ok := snapshot.Latest(c.Request.Context(), store, collection)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "no snapshot available"})
		return
	}
	data, err := snapshot.Decode(snap)
	if err != nil {
		log.Warn().Err(err).Msg("could not decode the image")
		c.JSON(http.StatusNotFound, gin.H{"error": "no valid image data found"})
		return
	}
	c.Header("X-Snapshot-Id", snap.ID)
	c.Data(http.StatusOK, "image/jpeg", data)
}
