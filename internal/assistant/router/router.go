// Package router wires the assistant routes and middleware chain.
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kart-io/logger"

	"github.com/WaliBandawu/Clinical-Notes-Assistant/internal/assistant/handler"
	"github.com/WaliBandawu/Clinical-Notes-Assistant/internal/pkg/middleware"
	"github.com/WaliBandawu/Clinical-Notes-Assistant/pkg/app"
)

// New builds the gin engine with the full middleware chain and routes.
func New(h *handler.Handler) *gin.Engine {
	engine := gin.New()

	engine.Use(
		middleware.RequestID(),
		middleware.Recovery(),
		middleware.CORS(),
		middleware.AccessLog(),
	)

	Register(engine, h)
	return engine
}

// Register registers the assistant routes on an existing engine.
func Register(engine *gin.Engine, h *handler.Handler) {
	logger.Info("Registering assistant routes...")

	engine.GET("/", serviceInfo)

	api := engine.Group("/api")
	{
		api.POST("/ask", h.Ask)
		api.GET("/health", h.Health)

		api.POST("/documents", h.Upload)
		api.GET("/documents", h.ListDocuments)
		api.GET("/documents/count", h.Count)
		api.DELETE("/documents/:key", h.DeleteDocument)

		api.POST("/reload", h.Reload)
		api.POST("/clear", h.Clear)
	}

	logger.Info("HTTP routes registered")
}

func serviceInfo(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"name":        "Clinical Notes Assistant",
		"version":     app.GetVersion(),
		"description": "Retrieval-augmented question answering over clinical text notes",
		"health":      "/api/health",
	})
}
