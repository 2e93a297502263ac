package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"world-entity-demo/backend/internal/models"
)

// relayClient calls the relay's HTTP API
type relayClient struct {
	baseURL string
	http    *http.Client
}

func newRelayClient(baseURL string) *relayClient {
	return &relayClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 90 * time.Second},
	}
}

// apiError is a non-2xx relay response
type apiError struct {
	Status  int
	Message string
}

func (e *apiError) Error() string {
	return fmt.Sprintf("relay returned %d: %s", e.Status, e.Message)
}

func (c *relayClient) Chat(ctx context.Context, messages []models.ChatMessage) (models.ChatMessage, error) {
	var resp models.ChatResponse
	if err := c.post(ctx, "/api/chat", models.ChatRequest{Messages: messages}, &resp); err != nil {
		return models.ChatMessage{}, err
	}
	return resp.Message, nil
}

func (c *relayClient) GenerateEntity(ctx context.Context, world, name string, withImage bool) (models.WorldEntity, error) {
	path := "/api/stage2"
	if withImage {
		path = "/api/world"
	}
	var resp models.EntityResponse
	if err := c.post(ctx, path, models.EntityRequest{World: world, Name: name}, &resp); err != nil {
		return models.WorldEntity{}, err
	}
	return resp.WorldEntity, nil
}

func (c *relayClient) post(ctx context.Context, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("calling relay: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading relay response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &apiError{Status: resp.StatusCode, Message: errorMessage(data)}
	}
	return json.Unmarshal(data, out)
}

// errorMessage extracts the "error" field, which is a string for relay
// errors and the raw upstream payload when the model provider failed.
func errorMessage(data []byte) string {
	if !gjson.ValidBytes(data) {
		return strings.TrimSpace(string(data))
	}
	field := gjson.GetBytes(data, "error")
	switch {
	case !field.Exists():
		return strings.TrimSpace(string(data))
	case field.Type == gjson.String:
		return field.Str
	case field.Get("message").Type == gjson.String:
		return field.Get("message").Str
	default:
		return field.Raw
	}
}
