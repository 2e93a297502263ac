package validator

import (
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"world-entity-demo/backend/pkg/errors"
)

const schemaPath = "../../api/openapi.yaml"

func setupValidatedRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	v, err := NewOpenAPIValidator(schemaPath)
	require.NoError(t, err)

	r := gin.New()
	r.Use(errors.ErrorHandler())
	r.Use(v.Middleware())

	echo := func(c *gin.Context) {
		body, _ := io.ReadAll(c.Request.Body)
		c.Data(http.StatusOK, "application/json", body)
	}
	r.POST("/api/chat", echo)
	r.POST("/api/stage2", echo)
	r.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })
	return r
}

func send(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestValidRequestPassesWithBodyIntact(t *testing.T) {
	r := setupValidatedRouter(t)
	body := `{"messages":[{"role":"user","content":"hi"}]}`

	w := send(r, http.MethodPost, "/api/chat", body)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, body, w.Body.String())
}

func TestInvalidRequestUsesOperationMessage(t *testing.T) {
	r := setupValidatedRouter(t)

	w := send(r, http.MethodPost, "/api/chat", `{"messages":"hello"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"Invalid messages format","code":"INVALID_REQUEST"}`, w.Body.String())

	w = send(r, http.MethodPost, "/api/chat", `{"messages":[{"role":"narrator","content":"x"}]}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = send(r, http.MethodPost, "/api/stage2", `{"world":"Middle-earth"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"World and name are required","code":"INVALID_REQUEST"}`, w.Body.String())
}

func TestUnknownRoutesPassThrough(t *testing.T) {
	r := setupValidatedRouter(t)

	w := send(r, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestNewOpenAPIValidatorErrors(t *testing.T) {
	_, err := NewOpenAPIValidator(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("openapi: 3.0.3\ninfo: {}\npaths: {}\n"), 0o600))
	_, err = NewOpenAPIValidator(bad)
	assert.Error(t, err)
}

func TestReloadSchema(t *testing.T) {
	v, err := NewOpenAPIValidator(schemaPath)
	require.NoError(t, err)
	assert.NoError(t, v.ReloadSchema())
}
