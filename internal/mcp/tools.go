package mcp

import (
	"context"
	"fmt"
	"strings"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"world-entity-demo/backend/internal/models"
)

type ChatInput struct {
	Messages []models.ChatMessage `json:"messages" jsonschema:"conversation so far, oldest first; roles are system, user or assistant"`
}

type ChatOutput struct {
	Message models.ChatMessage `json:"message"`
}

type GenerateEntityInput struct {
	World     string `json:"world" jsonschema:"name of the fictional world"`
	Name      string `json:"name" jsonschema:"name of the entity to generate"`
	WithImage bool   `json:"with_image,omitempty" jsonschema:"attach an image URL built from the entity"`
}

type GenerateEntityOutput struct {
	WorldEntity models.WorldEntity `json:"worldEntity"`
}

func (s *Server) registerTools() {
	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "chat",
		Description: "Send a conversation to the language model and return its reply",
	}, s.handleChat)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "generate_entity",
		Description: "Generate a structured entity (name, type, description, abilities) for a world",
	}, s.handleGenerateEntity)
}

func (s *Server) handleChat(ctx context.Context, req *sdk.CallToolRequest, input ChatInput) (*sdk.CallToolResult, ChatOutput, error) {
	if input.Messages == nil {
		input.Messages = []models.ChatMessage{}
	}
	message, err := s.relay.Chat(ctx, input.Messages)
	if err != nil {
		return nil, ChatOutput{}, err
	}
	return nil, ChatOutput{Message: message}, nil
}

func (s *Server) handleGenerateEntity(ctx context.Context, req *sdk.CallToolRequest, input GenerateEntityInput) (*sdk.CallToolResult, GenerateEntityOutput, error) {
	if strings.TrimSpace(input.World) == "" || strings.TrimSpace(input.Name) == "" {
		return nil, GenerateEntityOutput{}, fmt.Errorf("world and name are required")
	}
	entity, err := s.relay.GenerateEntity(ctx, input.World, input.Name, input.WithImage)
	if err != nil {
		return nil, GenerateEntityOutput{}, err
	}
	return nil, GenerateEntityOutput{WorldEntity: entity}, nil
}
