package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"world-entity-demo/backend/internal/mcp"
	"world-entity-demo/backend/pkg/config"
	"world-entity-demo/backend/pkg/di"
	"world-entity-demo/backend/pkg/logger"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"
)

func mcpCmd() *cobra.Command {
	var remote bool
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Serve chat and entity generation as MCP tools over stdio",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMCP(cmd, remote)
		},
	}
	cmd.Flags().BoolVar(&remote, "remote", false, "Proxy tool calls to a running relay instead of calling the model directly")
	return cmd
}

func runMCP(cmd *cobra.Command, remote bool) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if remote {
		server := mcp.NewServer(newRelayClient(serverFlag(cmd)), version)
		return server.Run(ctx, &sdk.StdioTransport{})
	}

	cfg := config.New()
	// stdout carries the protocol
	log := logger.New(logger.Config{
		Level:  cfg.Logging.Level,
		JSON:   true,
		Output: os.Stderr,
		File:   cfg.Logging.File,
	})

	container, err := di.New(ctx, cfg, log)
	if err != nil {
		return err
	}

	server := mcp.NewServer(container.Relay, version)
	return server.Run(ctx, &sdk.StdioTransport{})
}
