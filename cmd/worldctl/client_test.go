package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"world-entity-demo/backend/internal/models"
	apperrors "world-entity-demo/backend/pkg/errors"
)

func TestClientChat(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/chat", r.URL.Path)
		var req models.ChatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Messages, 1)
		assert.Equal(t, models.RoleUser, req.Messages[0].Role)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"message":{"role":"assistant","content":"Well met"}}`))
	}))
	defer srv.Close()

	reply, err := newRelayClient(srv.URL+"/").Chat(context.Background(), []models.ChatMessage{
		{Role: models.RoleUser, Content: "hello"},
	})

	require.NoError(t, err)
	assert.Equal(t, "Well met", reply.Content)
}

func TestClientGenerateEntityPicksRoute(t *testing.T) {
	var paths []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		_, _ = w.Write([]byte(`{"worldEntity":{"name":"Aslan","type":"lion","description":"","abilities":[]}}`))
	}))
	defer srv.Close()

	client := newRelayClient(srv.URL)
	entity, err := client.GenerateEntity(context.Background(), "Narnia", "Aslan", false)
	require.NoError(t, err)
	assert.Equal(t, "Aslan", entity.Name)

	_, err = client.GenerateEntity(context.Background(), "Narnia", "Aslan", true)
	require.NoError(t, err)

	assert.Equal(t, []string{"/api/stage2", "/api/world"}, paths)
}

func TestClientErrors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		message string
	}{
		{"relay error", http.StatusBadRequest, `{"error":"World and name are required","code":"INVALID_REQUEST"}`, "World and name are required"},
		{"upstream payload", http.StatusTooManyRequests, `{"error":{"message":"Rate limit reached","type":"tokens"},"code":"UPSTREAM_ERROR"}`, "Rate limit reached"},
		{"upstream payload without message", http.StatusBadRequest, `{"error":{"type":"invalid_request_error"},"code":"UPSTREAM_ERROR"}`, `{"type":"invalid_request_error"}`},
		{"plain text", http.StatusBadGateway, "bad gateway\n", "bad gateway"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := newRelayClient(srv.URL).Chat(context.Background(), nil)

			var apiErr *apiError
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, tt.status, apiErr.Status)
			assert.Equal(t, tt.message, apiErr.Message)
		})
	}
}

func TestClientReadsRelayUpstreamError(t *testing.T) {
	appErr := apperrors.NewUpstreamError(http.StatusTooManyRequests,
		json.RawMessage(`{"message":"Rate limit reached","type":"tokens","code":"rate_limit_exceeded"}`), "Chat failed")
	body, err := json.Marshal(appErr.Body())
	require.NoError(t, err)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(appErr.StatusCode)
		_, _ = w.Write(body)
	}))
	defer srv.Close()

	_, err = newRelayClient(srv.URL).Chat(context.Background(), nil)

	var apiErr *apiError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusTooManyRequests, apiErr.Status)
	assert.Equal(t, "Rate limit reached", apiErr.Message)
}
