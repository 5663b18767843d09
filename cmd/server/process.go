package main

import (
	"bytes"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/net/html"

	"github.com/KirkDiggler/rpg-lore/internal/batch"
	"github.com/KirkDiggler/rpg-lore/internal/markup"
)

var (
	processOut    string
	processForce  bool
	processInline bool
)

var processCmd = &cobra.Command{
	Use:   "process <file.html>",
	Short: "Render markup inside an HTML document",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("failed to open %s: %w", args[0], err)
		}
		defer func() { _ = f.Close() }()

		doc, err := html.Parse(f)
		if err != nil {
			return fmt.Errorf("failed to parse %s: %w", args[0], err)
		}

		processor, err := batch.NewProcessor(&batch.Config{
			Markup:               markup.NewRenderer(nil),
			ContentSelectors:     cfg.Batch.ContentSelectors,
			DisplayNameSelectors: cfg.Batch.DisplayNameSelectors,
		})
		if err != nil {
			return err
		}

		stats, err := processor.ProcessRegion(cmd.Context(), doc, batch.Options{
			Force:            processForce,
			InlineFormatting: processInline || cfg.Batch.InlineFormatting,
		})
		if err != nil {
			return err
		}

		var buf bytes.Buffer
		if err := html.Render(&buf, doc); err != nil {
			return fmt.Errorf("failed to render document: %w", err)
		}

		fmt.Fprintf(cmd.ErrOrStderr(), "elements=%d rendered=%d formatted=%d legacy=%d\n",
			stats.Elements, stats.Rendered, stats.Formatted, stats.Legacy)

		if processOut == "" {
			_, err = cmd.OutOrStdout().Write(buf.Bytes())
			return err
		}
		return os.WriteFile(processOut, buf.Bytes(), 0o644)
	},
}

func init() {
	processCmd.Flags().StringVarP(&processOut, "out", "o", "", "write the result to a file instead of stdout")
	processCmd.Flags().BoolVar(&processForce, "force", false, "reprocess elements already marked processed")
	processCmd.Flags().BoolVar(&processInline, "inline-formatting", false, "apply inline markdown to plain text")
}
