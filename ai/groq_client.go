package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/shared"
	"github.com/tidwall/gjson"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"world-entity-demo/backend/internal/models"
	"world-entity-demo/backend/pkg/logger"
)

const instrumentationName = "world-entity-demo/backend/ai"

// GroqConfig configures the chat-completion client
type GroqConfig struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
	// HTTPClient overrides the client built from Timeout
	HTTPClient *http.Client
}

// GroqClient talks to Groq's OpenAI-compatible chat-completions endpoint.
// It never retries; every call maps to exactly one upstream request.
type GroqClient struct {
	client openai.Client
	model  string

	tracer   trace.Tracer
	requests metric.Int64Counter
	duration metric.Float64Histogram
}

// NewGroqClient creates a client from config
func NewGroqClient(cfg GroqConfig) (*GroqClient, error) {
	if strings.TrimSpace(cfg.Model) == "" {
		return nil, errors.New("upstream model is required")
	}
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, errors.New("upstream base url is required")
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}

	client := openai.NewClient(
		option.WithAPIKey(cfg.APIKey),
		option.WithBaseURL(cfg.BaseURL),
		option.WithHTTPClient(httpClient),
		option.WithMaxRetries(0),
	)

	meter := otel.Meter(instrumentationName)
	requests, err := meter.Int64Counter("relay_upstream_requests_total",
		metric.WithDescription("Chat-completion requests sent upstream, by operation and outcome"))
	if err != nil {
		return nil, fmt.Errorf("creating request counter: %w", err)
	}
	duration, err := meter.Float64Histogram("relay_upstream_duration_seconds",
		metric.WithDescription("Latency of upstream chat-completion requests"),
		metric.WithUnit("s"))
	if err != nil {
		return nil, fmt.Errorf("creating duration histogram: %w", err)
	}

	return &GroqClient{
		client:   client,
		model:    cfg.Model,
		tracer:   otel.Tracer(instrumentationName),
		requests: requests,
		duration: duration,
	}, nil
}

// Model returns the model identifier sent with every request
func (c *GroqClient) Model() string {
	return c.model
}

// Complete sends one chat-completion request and returns the first choice
func (c *GroqClient) Complete(ctx context.Context, req CompletionRequest) (Completion, error) {
	params, err := c.buildParams(req)
	if err != nil {
		return Completion{}, err
	}

	ctx, span := c.tracer.Start(ctx, "upstream."+req.Operation, trace.WithAttributes(
		attribute.String("llm.model", c.model),
		attribute.Int("llm.messages", len(req.Messages)),
	))
	defer span.End()

	log := logger.FromContext(ctx)
	start := time.Now()

	var httpResp *http.Response
	resp, err := c.client.Chat.Completions.New(ctx, params, option.WithResponseInto(&httpResp))

	outcome := "ok"
	defer func() {
		attrs := metric.WithAttributes(
			attribute.String("operation", req.Operation),
			attribute.String("outcome", outcome),
		)
		c.requests.Add(ctx, 1, attrs)
		c.duration.Record(ctx, time.Since(start).Seconds(), attrs)
	}()

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "upstream request failed")

		if upstreamErr := upstreamErrorFrom(httpResp, err); upstreamErr != nil {
			outcome = "rejected"
			span.SetAttributes(attribute.Int("http.status_code", upstreamErr.StatusCode))
			log.Warn("Upstream rejected request",
				"operation", req.Operation,
				"status", upstreamErr.StatusCode,
				"payload", string(upstreamErr.Payload),
			)
			return Completion{}, upstreamErr
		}

		outcome = "failed"
		return Completion{}, fmt.Errorf("upstream request failed: %w", err)
	}

	log.Debug("Upstream completion received",
		"operation", req.Operation,
		"model", resp.Model,
		"choices", len(resp.Choices),
		"latency_ms", time.Since(start).Milliseconds(),
	)

	if len(resp.Choices) == 0 {
		return Completion{Empty: true}, nil
	}

	return Completion{
		Message: models.ChatMessage{
			Role:    models.RoleAssistant,
			Content: resp.Choices[0].Message.Content,
		},
	}, nil
}

func (c *GroqClient) buildParams(req CompletionRequest) (openai.ChatCompletionNewParams, error) {
	messages := make([]openai.ChatCompletionMessageParamUnion, 0, len(req.Messages))
	for _, msg := range req.Messages {
		param, err := toMessageParam(msg)
		if err != nil {
			return openai.ChatCompletionNewParams{}, err
		}
		messages = append(messages, param)
	}

	params := openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(c.model),
		Messages: messages,
	}
	if req.MaxTokens > 0 {
		params.MaxTokens = openai.Int(int64(req.MaxTokens))
	}
	if req.Temperature > 0 {
		params.Temperature = openai.Float(req.Temperature)
	}
	if req.JSONMode {
		params.ResponseFormat = openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &shared.ResponseFormatJSONObjectParam{},
		}
	}

	return params, nil
}

func toMessageParam(msg models.ChatMessage) (openai.ChatCompletionMessageParamUnion, error) {
	switch msg.Role {
	case models.RoleSystem:
		return openai.SystemMessage(msg.Content), nil
	case models.RoleUser:
		return openai.UserMessage(msg.Content), nil
	case models.RoleAssistant:
		return openai.AssistantMessage(msg.Content), nil
	}
	return openai.ChatCompletionMessageParamUnion{}, fmt.Errorf("unsupported message role %q", msg.Role)
}

// upstreamErrorFrom returns nil unless the upstream answered with an error status
func upstreamErrorFrom(resp *http.Response, err error) *UpstreamError {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) && apiErr.Response != nil {
		resp = apiErr.Response
	}
	if resp == nil || resp.StatusCode < http.StatusBadRequest {
		return nil
	}

	var body []byte
	if resp.Body != nil {
		body, _ = io.ReadAll(resp.Body)
	}

	return &UpstreamError{
		StatusCode: resp.StatusCode,
		Payload:    errorPayload(body),
		Cause:      err,
	}
}

// errorPayload picks the "error" member of a JSON error body. Bodies that are
// not JSON, lack the member, or carry a null, false, zero or empty value yield nil.
func errorPayload(body []byte) json.RawMessage {
	if len(body) == 0 || !gjson.ValidBytes(body) {
		return nil
	}
	member := gjson.GetBytes(body, "error")
	if !member.Exists() || !truthy(member) {
		return nil
	}
	return json.RawMessage(member.Raw)
}

func truthy(v gjson.Result) bool {
	switch v.Type {
	case gjson.Null, gjson.False:
		return false
	case gjson.Number:
		return v.Num != 0
	case gjson.String:
		return v.Str != ""
	}
	return true
}

var _ ChatCompleter = (*GroqClient)(nil)
