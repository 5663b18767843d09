package mcp

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/KirkDiggler/rpg-lore/internal/entities/reference"
	"github.com/KirkDiggler/rpg-lore/internal/errors"
	"github.com/KirkDiggler/rpg-lore/internal/markup"
	"github.com/KirkDiggler/rpg-lore/internal/services/dice"
	"github.com/KirkDiggler/rpg-lore/internal/tooltip"
)

// Render modes
const (
	ModeMarkup  = "markup"
	ModeText    = "text"
	ModeDisplay = "display"
)

// Handlers holds dependencies for the tool handlers
type Handlers struct {
	markup   *markup.Renderer
	resolver tooltip.Resolver
	renderer tooltip.Renderer
	dice     dice.Service
	logger   *slog.Logger
}

// NewHandlers creates handlers from a validated config
func NewHandlers(cfg *Config) *Handlers {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Handlers{
		markup:   cfg.Markup,
		resolver: cfg.Resolver,
		renderer: cfg.Renderer,
		dice:     cfg.Dice,
		logger:   logger,
	}
}

// RenderMarkupRequest represents the arguments for render_markup
type RenderMarkupRequest struct {
	Text string `json:"text"`
	Mode string `json:"mode,omitempty"`
}

// RenderMarkupResult is the render_markup output
type RenderMarkupResult struct {
	HTML string `json:"html"`
}

// ResolveReferenceRequest represents the arguments for resolve_reference
type ResolveReferenceRequest struct {
	Type   string `json:"type"`
	Name   string `json:"name"`
	Source string `json:"source,omitempty"`
}

// ResolveReferenceResult is the resolve_reference output
type ResolveReferenceResult struct {
	Result *reference.Result `json:"result"`
	HTML   string            `json:"html"`
}

// RollDiceRequest represents the arguments for roll_dice
type RollDiceRequest struct {
	Notation string `json:"notation"`
}

// HandleRenderMarkup handles the render_markup tool call
func (h *Handlers) HandleRenderMarkup(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[RenderMarkupRequest](req)
	if err != nil {
		return errorResult(err), nil
	}

	var out string
	switch input.Mode {
	case "", ModeMarkup:
		out = h.markup.ProcessString(input.Text)
	case ModeText:
		out = h.markup.ProcessText(input.Text)
	case ModeDisplay:
		out = h.markup.DisplayText(input.Text)
	default:
		return errorResult(errors.InvalidArgumentf("unknown mode %q", input.Mode)), nil
	}

	return successResult(RenderMarkupResult{HTML: out})
}

// HandleResolveReference handles the resolve_reference tool call. Lookup
// failures are reported inside the result, not as tool errors.
func (h *Handlers) HandleResolveReference(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ResolveReferenceRequest](req)
	if err != nil {
		return errorResult(err), nil
	}
	if strings.TrimSpace(input.Type) == "" || strings.TrimSpace(input.Name) == "" {
		return errorResult(errors.InvalidArgument("type and name are required")), nil
	}

	result := h.resolver.Resolve(ctx, input.Type, input.Name, input.Source)
	return successResult(ResolveReferenceResult{
		Result: result,
		HTML:   h.renderer.RenderResult(result),
	})
}

// HandleRollDice handles the roll_dice tool call
func (h *Handlers) HandleRollDice(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[RollDiceRequest](req)
	if err != nil {
		return errorResult(err), nil
	}

	result, err := h.dice.Roll(ctx, input.Notation)
	if err != nil {
		h.logger.Debug("roll failed", "notation", input.Notation, "error", err)
		return errorResult(err), nil
	}

	return successResult(result)
}

// errorResult builds an IsError tool result. Internal errors are reported
// without their message.
func errorResult(err error) *mcp.CallToolResult {
	code := errors.GetCode(err)
	message := errors.GetMessage(err)
	if code == errors.CodeInternal {
		message = "an internal error occurred"
	}

	content, _ := json.Marshal(map[string]any{
		"error": map[string]any{
			"code":    code.String(),
			"message": message,
			"status":  code.HTTPStatus(),
		},
	})
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.TextContent{Type: "text", Text: string(content)}},
		IsError: true,
	}
}

func successResult(data any) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultJSON(data)
}
