package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"world-entity-demo/backend/internal/models"
)

func chatCmd() *cobra.Command {
	var system string
	cmd := &cobra.Command{
		Use:   "chat <message>",
		Short: "Send one message and print the reply",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChat(cmd, strings.Join(args, " "), system)
		},
	}
	cmd.Flags().StringVar(&system, "system", "", "Optional system message sent before the user message")
	return cmd
}

func runChat(cmd *cobra.Command, text, system string) error {
	var messages []models.ChatMessage
	if system != "" {
		messages = append(messages, models.ChatMessage{Role: models.RoleSystem, Content: system})
	}
	messages = append(messages, models.ChatMessage{Role: models.RoleUser, Content: text})

	reply, err := newRelayClient(serverFlag(cmd)).Chat(context.Background(), messages)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), reply.Content)
	return nil
}
