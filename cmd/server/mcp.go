package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/rpg-lore/internal/handlers/mcp"
)

var (
	disabledTools []string
	version       = "dev"
)

var serveMCPCmd = &cobra.Command{
	Use:   "serve-mcp",
	Short: "Serve reference tools over MCP stdio",
	Long:  `Expose render_markup, resolve_reference and roll_dice as MCP tools on stdin/stdout.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := newApp(cmd.Context(), cfg, false)
		if err != nil {
			return err
		}
		defer a.Close()

		return mcp.Run(&mcp.Config{
			Markup:        a.markup,
			Resolver:      a.resolver,
			Renderer:      a.registry,
			Dice:          a.dice,
			Version:       version,
			DisabledTools: disabledTools,
			Logger:        slog.Default(),
		})
	},
}

func init() {
	serveMCPCmd.Flags().StringSliceVar(&disabledTools, "disable-tool", nil, "tool names to leave unregistered")
}
