// Package http wires the gin engine: public file delivery plus the
// administrative token API.
package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/filegate-io/filegate/internal/interfaces/http/handlers"
	"github.com/filegate-io/filegate/internal/interfaces/http/middleware"
	"github.com/filegate-io/filegate/internal/interfaces/http/routes"
	"github.com/filegate-io/filegate/internal/shared/logger"
)

type Router struct {
	engine *gin.Engine

	mediaHandler     *handlers.MediaHandler
	tokenHandler     *handlers.TokenHandler
	adminAuthHandler *handlers.AdminAuthHandler
	authMiddleware   *middleware.AuthMiddleware
	logger           logger.Interface
}

func NewRouter(
	mediaHandler *handlers.MediaHandler,
	tokenHandler *handlers.TokenHandler,
	adminAuthHandler *handlers.AdminAuthHandler,
	authMiddleware *middleware.AuthMiddleware,
	logger logger.Interface,
) *Router {
	return &Router{
		engine:           gin.New(),
		mediaHandler:     mediaHandler,
		tokenHandler:     tokenHandler,
		adminAuthHandler: adminAuthHandler,
		authMiddleware:   authMiddleware,
		logger:           logger,
	}
}

// SetupRoutes configures all HTTP routes
func (r *Router) SetupRoutes() {
	r.engine.Use(middleware.RequestID())
	r.engine.Use(middleware.Logger(r.logger))
	r.engine.Use(middleware.Recovery(r.logger))

	r.engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	routes.SetupMediaRoutes(r.engine, &routes.MediaRouteConfig{
		Handler: r.mediaHandler,
	})

	routes.SetupAdminRoutes(r.engine, &routes.AdminRouteConfig{
		AuthHandler:    r.adminAuthHandler,
		TokenHandler:   r.tokenHandler,
		AuthMiddleware: r.authMiddleware,
	})
}

// GetEngine returns the underlying gin engine
func (r *Router) GetEngine() *gin.Engine {
	return r.engine
}
