package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/rpg-lore/internal/markup"
)

var renderMode string

var renderCmd = &cobra.Command{
	Use:   "render [text]",
	Short: "Render markup to HTML",
	Long: `Render {@kind args} markup to HTML. Text is read from the arguments, or from
stdin when none are given.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		text := strings.Join(args, " ")
		if len(args) == 0 {
			data, err := io.ReadAll(cmd.InOrStdin())
			if err != nil {
				return fmt.Errorf("failed to read stdin: %w", err)
			}
			text = string(data)
		}

		r := markup.NewRenderer(nil)
		var out string
		switch renderMode {
		case "markup":
			out = r.ProcessString(text)
		case "text":
			out = r.ProcessText(text)
		case "display":
			out = r.DisplayText(text)
		default:
			return fmt.Errorf("unknown mode %q", renderMode)
		}

		_, err := fmt.Fprintln(cmd.OutOrStdout(), out)
		return err
	},
}

func init() {
	renderCmd.Flags().StringVar(&renderMode, "mode", "markup", "markup, text or display")
}
