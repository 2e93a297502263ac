package mcp

import (
	"context"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"world-entity-demo/backend/internal/models"
)

// Relay is the subset of the relay service exposed as MCP tools
type Relay interface {
	Chat(ctx context.Context, messages []models.ChatMessage) (models.ChatMessage, error)
	GenerateEntity(ctx context.Context, world, name string, withImage bool) (models.WorldEntity, error)
}

type Server struct {
	relay Relay
	mcp   *sdk.Server
}

func NewServer(relay Relay, version string) *Server {
	s := &Server{
		relay: relay,
		mcp: sdk.NewServer(&sdk.Implementation{
			Name:    "worldctl",
			Version: version,
		}, nil),
	}
	s.registerTools()
	return s
}

func (s *Server) Run(ctx context.Context, transport sdk.Transport) error {
	return s.mcp.Run(ctx, transport)
}
