package routes

import (
	"github.com/gin-gonic/gin"

	"go-fieldwatch/dashboard"
	"go-fieldwatch/db"
	"go-fieldwatch/handlers"
	"go-fieldwatch/hub"
	"go-fieldwatch/stream"
)

// Deps is everything the router hands to its handlers.
type Deps struct {
	State              *dashboard.State
	Hub                *hub.Hub
	Streamer           *stream.Streamer
	Store              db.DocumentStore
	SnapshotCollection string
}

func SetupRouter(d Deps) *gin.Engine {
	r := gin.Default()

	r.GET("/", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "Hello, welcome to Go Fieldwatch!",
		})
	})

	// media endpoint
	r.GET("/video_feed", func(c *gin.Context) {
		handlers.VideoFeed(c, d.Streamer)
	})

	r.GET("/ws", func(c *gin.Context) {
		handlers.HandleWebSocket(c, d.Hub)
	})

	api := r.Group("/api/dashboard")
	{
		api.GET("/telemetry", func(c *gin.Context) { handlers.GetTelemetry(c, d.State) })
		api.GET("/telemetry/:channel/chart.png", func(c *gin.Context) { handlers.GetChannelChart(c, d.State) })
		api.GET("/markers", func(c *gin.Context) { handlers.GetMarkers(c, d.State) })
		api.POST("/markers/clicks", func(c *gin.Context) { handlers.PostMarkerClicks(c, d.State, d.Hub) })
		api.GET("/chat", func(c *gin.Context) { handlers.GetChat(c, d.State) })
		api.POST("/chat", func(c *gin.Context) { handlers.PostChat(c, d.State, d.Hub) })
	}

	snapshots := r.Group("/api/snapshots")
	{
		snapshots.GET("/latest", func(c *gin.Context) {
			handlers.GetLatestSnapshot(c, d.Store, d.SnapshotCollection)
		})
		snapshots.GET("/latest.jpg", func(c *gin.Context) {
			handlers.GetLatestSnapshotImage(c, d.Store, d.SnapshotCollection)
		})
	}

	return r
}
