package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func entityCmd() *cobra.Command {
	var (
		world     string
		name      string
		withImage bool
		asJSON    bool
	)
	cmd := &cobra.Command{
		Use:   "entity",
		Short: "Generate a world entity",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEntity(cmd, world, name, withImage, asJSON)
		},
	}
	cmd.Flags().StringVar(&world, "world", "", "World or setting the entity belongs to")
	cmd.Flags().StringVar(&name, "name", "", "Entity name")
	cmd.Flags().BoolVar(&withImage, "image", false, "Also attach a generated image URL")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the raw JSON record")
	_ = cmd.MarkFlagRequired("world")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func runEntity(cmd *cobra.Command, world, name string, withImage, asJSON bool) error {
	entity, err := newRelayClient(serverFlag(cmd)).GenerateEntity(context.Background(), world, name, withImage)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(entity)
	}

	fmt.Fprintf(out, "Name: %s\n", entity.Name)
	fmt.Fprintf(out, "Type: %s\n", entity.Type)
	if entity.Description != "" {
		fmt.Fprintf(out, "Description: %s\n", entity.Description)
	}
	if len(entity.Abilities) > 0 {
		fmt.Fprintf(out, "Abilities: %s\n", strings.Join(entity.Abilities, ", "))
	}
	if entity.Image != "" {
		fmt.Fprintf(out, "Image: %s\n", entity.Image)
	}
	return nil
}
