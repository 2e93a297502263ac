package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"world-entity-demo/backend/ai"
	"world-entity-demo/backend/internal/models"
	"world-entity-demo/backend/pkg/config"
	"world-entity-demo/backend/pkg/logger"
)

// Sampling parameters sent with every upstream request
const (
	ChatMaxTokens   = 800
	EntityMaxTokens = 600
	Temperature     = 0.7
)

// FallbackReply is returned when the upstream answers with no choices
const FallbackReply = "Sorry, no response."

var (
	// ErrInvalidMessages means the chat history was missing or had an unknown role
	ErrInvalidMessages = errors.New("invalid messages format")
	// ErrMissingEntityFields means world or name was empty
	ErrMissingEntityFields = errors.New("world and name are required")
)

// RelayService shapes requests for the upstream model and reshapes its replies
type RelayService struct {
	completer    ai.ChatCompleter
	images       *ai.ImageURLBuilder
	prompts      config.Prompts
	historyLimit int
}

// NewRelayService creates a relay. historyLimit <= 0 forwards the full chat history.
func NewRelayService(completer ai.ChatCompleter, images *ai.ImageURLBuilder, prompts config.Prompts, historyLimit int) *RelayService {
	if images == nil {
		images = ai.NewImageURLBuilder("", prompts.Image)
	}
	return &RelayService{
		completer:    completer,
		images:       images,
		prompts:      prompts,
		historyLimit: historyLimit,
	}
}

// Chat forwards the most recent messages and returns the assistant's reply
func (s *RelayService) Chat(ctx context.Context, messages []models.ChatMessage) (models.ChatMessage, error) {
	if messages == nil {
		return models.ChatMessage{}, ErrInvalidMessages
	}
	for _, msg := range messages {
		if !msg.Role.Valid() {
			return models.ChatMessage{}, fmt.Errorf("%w: unknown role %q", ErrInvalidMessages, msg.Role)
		}
	}

	forwarded := TrimHistory(messages, s.historyLimit)
	logger.FromContext(ctx).Debug("Relaying chat",
		"received", len(messages),
		"forwarded", len(forwarded),
	)

	completion, err := s.completer.Complete(ctx, ai.CompletionRequest{
		Operation:   "chat",
		Messages:    forwarded,
		MaxTokens:   ChatMaxTokens,
		Temperature: Temperature,
	})
	if err != nil {
		return models.ChatMessage{}, err
	}

	if completion.Empty {
		return models.ChatMessage{Role: models.RoleAssistant, Content: FallbackReply}, nil
	}
	return completion.Message, nil
}

// GenerateEntity asks the model for a world entity and normalizes its reply.
// With withImage set, the entity carries an image URL built from its fields.
func (s *RelayService) GenerateEntity(ctx context.Context, world, name string, withImage bool) (models.WorldEntity, error) {
	if strings.TrimSpace(world) == "" || strings.TrimSpace(name) == "" {
		return models.WorldEntity{}, ErrMissingEntityFields
	}

	vars := map[string]string{"world": world, "name": name}
	completion, err := s.completer.Complete(ctx, ai.CompletionRequest{
		Operation: "entity",
		Messages: []models.ChatMessage{
			{Role: models.RoleSystem, Content: config.Render(s.prompts.EntitySystem, vars)},
			{Role: models.RoleUser, Content: config.Render(s.prompts.EntityUser, vars)},
		},
		MaxTokens:   EntityMaxTokens,
		Temperature: Temperature,
		JSONMode:    true,
	})
	if err != nil {
		return models.WorldEntity{}, err
	}

	content := completion.Message.Content
	if strings.TrimSpace(content) == "" {
		content = "{}"
	}

	entity, err := ParseWorldEntity(content)
	if err != nil {
		logger.FromContext(ctx).Warn("Model returned unparsable entity",
			"world", world,
			"name", name,
			"content", content,
		)
		return models.WorldEntity{}, err
	}

	if withImage {
		entity.Image = s.images.URL(world, entity)
	}
	return entity, nil
}

// TrimHistory keeps the last limit messages. A limit <= 0 keeps everything.
func TrimHistory(messages []models.ChatMessage, limit int) []models.ChatMessage {
	if limit <= 0 || len(messages) <= limit {
		return messages
	}
	return messages[len(messages)-limit:]
}
