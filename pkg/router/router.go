package router

import (
	"net/http"
	"strings"

	"world-entity-demo/backend/internal/api"
	"world-entity-demo/backend/pkg/config"
	"world-entity-demo/backend/pkg/di"
	"world-entity-demo/backend/pkg/errors"
	"world-entity-demo/backend/pkg/logger"
	"world-entity-demo/backend/pkg/middleware"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// Router is the main router for the application
type Router struct {
	Engine    *gin.Engine
	Container *di.Container
	Logger    *logger.Logger
	Config    *config.Config

	metrics     http.Handler
	rateLimiter *middleware.RateLimiter
}

// New creates a router with the global middleware chain installed.
// metrics may be nil when metrics export is disabled.
func New(container *di.Container, metrics http.Handler) *Router {
	logger.SetGlobal(container.Logger)
	cfg := container.Config

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()

	// Logger first so every later middleware sees the request-scoped logger
	engine.Use(logger.Middleware(container.Logger))
	engine.Use(errors.ErrorHandler())
	engine.Use(errors.RecoveryWithLogger())
	engine.Use(middleware.CORS(cfg.Security.AllowedOrigins))
	engine.Use(middleware.BodyLimit(cfg.Security.MaxBodySize))

	r := &Router{
		Engine:    engine,
		Container: container,
		Logger:    container.Logger,
		Config:    cfg,
		metrics:   metrics,
	}

	if cfg.Security.RateLimit > 0 {
		r.rateLimiter = middleware.NewRateLimiter(container.Logger, middleware.RateLimiterOptions{
			Limit: rate.Limit(cfg.Security.RateLimit),
			Burst: cfg.Security.RateLimitBurst,
		})
	}

	return r
}

// SetupRoutes registers all application routes
func (r *Router) SetupRoutes() {
	// Health and metrics are registered before validation and rate limiting
	r.setupHealthRoutes()

	if r.rateLimiter != nil {
		r.Engine.Use(r.rateLimiter.Middleware())
		r.Logger.Info("Rate limiting enabled",
			"limit", r.Config.Security.RateLimit,
			"burst", r.Config.Security.RateLimitBurst,
		)
	}

	if r.Config.OpenAPISchemaPath != "" {
		r.AddOpenAPIValidation(r.Config.OpenAPISchemaPath)
	}

	relayHandler := api.NewRelayHandler(r.Container.Relay)
	relayHandler.RegisterRoutes(r.Engine.Group("/api"))

	// Catch-all, rendered by errors.ErrorHandler
	r.Engine.NoRoute(func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/api/") {
			c.Error(errors.NewNotFoundError(errors.CodeNotFound, "API endpoint not found").
				WithDetail("path", c.Request.URL.Path))
			c.Abort()
			return
		}
		c.Error(errors.NewNotFoundError(errors.CodeNotFound, "Not found"))
		c.Abort()
	})
}

// Close releases background resources held by middleware
func (r *Router) Close() {
	if r.rateLimiter != nil {
		r.rateLimiter.Stop()
	}
}
