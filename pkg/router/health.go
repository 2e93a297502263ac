package router

import (
	"world-entity-demo/backend/internal/api"

	"github.com/gin-gonic/gin"
)

// setupHealthRoutes registers health check and metrics endpoints
func (r *Router) setupHealthRoutes() {
	healthHandler := api.NewHealthHandler(r.Container.Health, r.Config.Server.Version)
	healthHandler.RegisterHealthRoutes(r.Engine)

	if r.metrics != nil {
		r.Engine.GET("/metrics", gin.WrapH(r.metrics))
	}
}
