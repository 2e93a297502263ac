package router

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"world-entity-demo/backend/pkg/config"
	"world-entity-demo/backend/pkg/di"
	"world-entity-demo/backend/pkg/logger"
)

const upstreamReply = `{"id":"1","object":"chat.completion","model":"llama3-8b-8192","choices":[{"index":0,"message":{"role":"assistant","content":"Well met"}}]}`

func setupRouter(t *testing.T, customize func(*config.Config), metrics http.Handler) *Router {
	t.Helper()
	gin.SetMode(gin.TestMode)
	t.Setenv("VAULT_ENABLED", "false")

	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(upstreamReply))
	}))
	t.Cleanup(upstream.Close)

	cfg := config.Load()
	cfg.Upstream.APIKey = "gsk_test"
	cfg.Upstream.BaseURL = upstream.URL + "/openai/v1/"
	cfg.Security.AllowedOrigins = []string{"http://localhost:5173"}
	if customize != nil {
		customize(cfg)
	}

	container, err := di.New(context.Background(), cfg, logger.Discard())
	require.NoError(t, err)
	container.Health.RunChecks()

	r := New(container, metrics)
	r.SetupRoutes()
	t.Cleanup(r.Close)
	return r
}

func do(r *Router, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Origin", "http://localhost:5173")
	w := httptest.NewRecorder()
	r.Engine.ServeHTTP(w, req)
	return w
}

func TestChatRoute(t *testing.T) {
	r := setupRouter(t, nil, nil)

	w := do(r, http.MethodPost, "/api/chat", `{"messages":[{"role":"user","content":"hello"}]}`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":{"role":"assistant","content":"Well met"}}`, w.Body.String())
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
	assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestHealthRoutes(t *testing.T) {
	r := setupRouter(t, nil, nil)

	for _, path := range []string{"/health", "/api/health"} {
		w := do(r, http.MethodGet, path, "")
		assert.Equal(t, http.StatusOK, w.Code, path)
	}
}

func TestUnknownAPIRoute(t *testing.T) {
	r := setupRouter(t, nil, nil)

	w := do(r, http.MethodGet, "/api/characters", "")

	assert.Equal(t, http.StatusNotFound, w.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, map[string]any{
		"error": "API endpoint not found",
		"code":  "NOT_FOUND",
		"path":  "/api/characters",
	}, body)

	w = do(r, http.MethodGet, "/favicon.ico", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"Not found","code":"NOT_FOUND"}`, w.Body.String())
}

func TestMetricsRoute(t *testing.T) {
	metrics := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("relay_upstream_requests_total 1\n"))
	})
	r := setupRouter(t, nil, metrics)

	w := do(r, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "relay_upstream_requests_total")

	r = setupRouter(t, nil, nil)
	w = do(r, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRateLimitedRoutes(t *testing.T) {
	r := setupRouter(t, func(cfg *config.Config) {
		cfg.Security.RateLimit = 1
		cfg.Security.RateLimitBurst = 1
	}, nil)

	first := do(r, http.MethodPost, "/api/chat", `{"messages":[]}`)
	second := do(r, http.MethodPost, "/api/chat", `{"messages":[]}`)

	assert.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, http.StatusTooManyRequests, second.Code)

	// Health stays reachable
	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/health", "").Code)
}

func TestOpenAPIValidation(t *testing.T) {
	r := setupRouter(t, func(cfg *config.Config) {
		cfg.OpenAPISchemaPath = "../../api/openapi.yaml"
	}, nil)

	w := do(r, http.MethodPost, "/api/stage2", `{"world":"Middle-earth","name":""}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"World and name are required","code":"INVALID_REQUEST"}`, w.Body.String())

	w = do(r, http.MethodPost, "/api/chat", `{"messages":[{"role":"user","content":"hello"}]}`)
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(r, http.MethodGet, "/api/docs/openapi.yaml", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "World Entity Relay")
}
