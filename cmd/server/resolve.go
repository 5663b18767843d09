package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/rpg-lore/internal/termview"
)

var (
	resolveSource string
	resolveWidth  int
	resolveJSON   bool
)

var resolveCmd = &cobra.Command{
	Use:   "resolve <type> <name>",
	Short: "Look up a reference and print its tooltip",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context(), cfg, false)
		if err != nil {
			return err
		}
		defer a.Close()

		result := a.resolver.Resolve(cmd.Context(), args[0], args[1], resolveSource)
		body := a.registry.RenderResult(result)

		out := cmd.OutOrStdout()
		if resolveJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(map[string]any{"result": result, "html": body})
		}

		box, err := termview.RenderResult(result, body, termview.Config{Width: resolveWidth})
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(out, box)
		return err
	},
}

func init() {
	resolveCmd.Flags().StringVar(&resolveSource, "source", "", "source book code (default PHB)")
	resolveCmd.Flags().IntVar(&resolveWidth, "width", termview.DefaultWidth, "tooltip box width")
	resolveCmd.Flags().BoolVar(&resolveJSON, "json", false, "print the raw result and HTML as JSON")
}
