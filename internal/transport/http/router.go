package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/iamasit07/cube4/internal/transport/http/middleware"
)

type RouterConfig struct {
	Moves       MoveChooser
	History     DecisionLister
	WebSocket   http.HandlerFunc
	RequireAuth bool
	JWTSecret   string
}

// NewRouter wires the public API. /healthz is never authenticated.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(middleware.RequestLogger(), gin.Recovery())
	router.Use(middleware.SecurityHeadersMiddleware())

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api")
	if cfg.RequireAuth {
		api.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	}
	{
		api.POST("/move", NewMoveHandler(cfg.Moves).ChooseMove)
		api.GET("/decisions", NewHistoryHandler(cfg.History).GetDecisions)
	}

	// WebSocket auth happens in the init message
	if cfg.WebSocket != nil {
		router.GET("/ws", gin.WrapF(cfg.WebSocket))
	}
	return router
}
