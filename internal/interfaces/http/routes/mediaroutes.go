package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/filegate-io/filegate/internal/interfaces/http/handlers"
)

// MediaRouteConfig holds the configuration for the public file routes
type MediaRouteConfig struct {
	Handler *handlers.MediaHandler
}

// SetupMediaRoutes configures the public file delivery endpoint. Both GET and
// HEAD go through the full access pipeline.
func SetupMediaRoutes(engine *gin.Engine, config *MediaRouteConfig) {
	engine.GET("/uploads/*path", config.Handler.ServeMedia)
	engine.HEAD("/uploads/*path", config.Handler.ServeMedia)
}
