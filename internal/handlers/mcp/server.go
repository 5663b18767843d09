// Package mcp exposes the reference engine as MCP tools over stdio
package mcp

import (
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/KirkDiggler/rpg-lore/internal/errors"
	"github.com/KirkDiggler/rpg-lore/internal/markup"
	"github.com/KirkDiggler/rpg-lore/internal/services/dice"
	"github.com/KirkDiggler/rpg-lore/internal/tooltip"
)

// ServerName is reported to MCP clients
const ServerName = "rpg-lore"

// toolEntry pairs a tool definition with a handler factory
type toolEntry struct {
	def     mcp.Tool
	handler func(*Handlers) server.ToolHandlerFunc
}

var toolRegistry = map[string]toolEntry{
	"render_markup": {
		def:     renderMarkupToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleRenderMarkup },
	},
	"resolve_reference": {
		def:     resolveReferenceToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleResolveReference },
	},
	"roll_dice": {
		def:     rollDiceToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleRollDice },
	},
}

// AllToolNames returns every registered tool name
func AllToolNames() []string {
	names := make([]string, 0, len(toolRegistry))
	for name := range toolRegistry {
		names = append(names, name)
	}
	return names
}

// Config holds dependencies for the MCP server
type Config struct {
	Markup   *markup.Renderer
	Resolver tooltip.Resolver
	Renderer tooltip.Renderer
	Dice     dice.Service
	Version  string
	// DisabledTools are left unregistered
	DisabledTools []string
	Logger        *slog.Logger
}

// Validate ensures all required dependencies are present
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()
	if c.Markup == nil {
		vb.RequiredField("Markup")
	}
	if c.Resolver == nil {
		vb.RequiredField("Resolver")
	}
	if c.Renderer == nil {
		vb.RequiredField("Renderer")
	}
	if c.Dice == nil {
		vb.RequiredField("Dice")
	}
	for _, name := range c.DisabledTools {
		if _, ok := toolRegistry[name]; !ok {
			vb.InvalidField("DisabledTools", "unknown tool "+name)
		}
	}
	return vb.Build()
}

// NewServer creates an MCP server with the reference tools registered
func NewServer(cfg *Config) (*server.MCPServer, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	version := cfg.Version
	if version == "" {
		version = "dev"
	}

	s := server.NewMCPServer(
		ServerName,
		version,
		server.WithToolCapabilities(true),
	)

	h := NewHandlers(cfg)

	disabled := make(map[string]bool, len(cfg.DisabledTools))
	for _, name := range cfg.DisabledTools {
		disabled[name] = true
	}
	for name, entry := range toolRegistry {
		if disabled[name] {
			continue
		}
		s.AddTool(entry.def, entry.handler(h))
	}

	return s, nil
}

// Run serves the tools over stdio until stdin closes
func Run(cfg *Config) error {
	s, err := NewServer(cfg)
	if err != nil {
		return err
	}
	return server.ServeStdio(s)
}
