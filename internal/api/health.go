package api

import (
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"

	"world-entity-demo/backend/pkg/health"
)

// HealthHandler reports component status collected by the health checker
type HealthHandler struct {
	checker   *health.Checker
	version   string
	startTime time.Time
}

// HealthResponse represents the health check response structure
type HealthResponse struct {
	Status     string                       `json:"status"`
	Timestamp  time.Time                    `json:"timestamp"`
	Version    string                       `json:"version"`
	Uptime     string                       `json:"uptime"`
	Components map[string]*health.Component `json:"components"`
	Memory     MemoryStats                  `json:"memory"`
}

// MemoryStats is a small subset of runtime.MemStats
type MemoryStats struct {
	AllocMB  uint64 `json:"alloc_mb"`
	SysMB    uint64 `json:"sys_mb"`
	GCCycles uint32 `json:"gc_cycles"`
}

// NewHealthHandler creates a health handler
func NewHealthHandler(checker *health.Checker, version string) *HealthHandler {
	return &HealthHandler{
		checker:   checker,
		version:   version,
		startTime: time.Now(),
	}
}

// Health returns 200 when every critical component is up and 503 otherwise
func (h *HealthHandler) Health(c *gin.Context) {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	response := HealthResponse{
		Status:     "ok",
		Timestamp:  time.Now(),
		Version:    h.version,
		Uptime:     time.Since(h.startTime).Round(time.Second).String(),
		Components: h.checker.GetStatus(),
		Memory: MemoryStats{
			AllocMB:  memStats.Alloc / 1024 / 1024,
			SysMB:    memStats.Sys / 1024 / 1024,
			GCCycles: memStats.NumGC,
		},
	}

	status := http.StatusOK
	if !h.checker.IsSystemHealthy() {
		status = http.StatusServiceUnavailable
		response.Status = "unhealthy"
	}
	c.JSON(status, response)
}

// RegisterHealthRoutes registers both health paths
func (h *HealthHandler) RegisterHealthRoutes(engine *gin.Engine) {
	engine.GET("/health", h.Health)
	engine.GET("/api/health", h.Health)
}
