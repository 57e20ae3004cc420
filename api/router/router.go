package router

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"blogme/api/handlers"
	"blogme/api/middleware"
	"blogme/api/ws"
	"blogme/engagement"
	"blogme/feed"
)

// Deps carries everything the routes need.
type Deps struct {
	Sync      *feed.Sync
	Engine    *engagement.Engine
	Hub       *ws.Hub
	JWTSecret string
	// MongoDB is pinged by the health check; nil skips the ping (tests,
	// memory-store runs).
	MongoDB *mongo.Database
}

func New(d Deps) *gin.Engine {
	r := gin.Default()

	// Health check
	r.GET("/health", func(c *gin.Context) {
		if d.MongoDB != nil {
			if err := d.MongoDB.RunCommand(context.Background(), bson.D{{Key: "ping", Value: 1}}).Err(); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "mongo": "down", "error": err.Error()})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.Use(middleware.RequestLogging())
	r.Use(middleware.Auth(d.JWTSecret))

	r.GET("/ws/feed", gin.WrapF(d.Hub.Handler()))

	// v1 routes
	api := r.Group("/api/v1")
	{
		api.GET("/feed", handlers.FeedHandler(d.Sync))
		api.GET("/posts/:id", handlers.OpenPostHandler(d.Engine))
		api.POST("/posts/:id/like", handlers.ToggleLikeHandler(d.Engine))
		api.POST("/posts/:id/comments", handlers.AddCommentHandler(d.Engine))
		api.DELETE("/posts/:id/comments/:commentId", handlers.RemoveCommentHandler(d.Engine))
	}

	return r
}
