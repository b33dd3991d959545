package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/filegate-io/filegate/internal/interfaces/http/handlers"
	"github.com/filegate-io/filegate/internal/interfaces/http/middleware"
)

// AdminRouteConfig holds the configuration for administrative routes
type AdminRouteConfig struct {
	AuthHandler    *handlers.AdminAuthHandler
	TokenHandler   *handlers.TokenHandler
	AuthMiddleware *middleware.AuthMiddleware
}

// SetupAdminRoutes configures the administrative API. Everything except login
// requires a bearer token.
func SetupAdminRoutes(engine *gin.Engine, config *AdminRouteConfig) {
	admin := engine.Group("/api/admin")

	admin.POST("/login", config.AuthHandler.Login)

	protected := admin.Group("")
	protected.Use(config.AuthMiddleware.RequireAuth())
	{
		protected.POST("/tokens", config.TokenHandler.IssueToken)
		protected.GET("/resources/:id/tokens", config.TokenHandler.ListTokens)
		protected.POST("/tokens/:value/revoke", config.TokenHandler.RevokeToken)
		protected.POST("/tokens/:value/reinstate", config.TokenHandler.ReinstateToken)
		protected.PUT("/tokens/:value/max-uses", config.TokenHandler.UpdateMaxUses)
		protected.DELETE("/tokens/:value", config.TokenHandler.DeleteToken)
		protected.POST("/cleanup", config.TokenHandler.RunCleanup)
	}
}
