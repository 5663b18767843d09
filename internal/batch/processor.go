// Package batch renders markup inside HTML documents.
//
// The Processor walks a parsed document, finds the elements that carry game
// text and replaces raw `{@...}` text with rendered anchors. The Observer
// batches newly inserted nodes and processes them once per display tick.
package batch

import (
	"context"
	"html"
	"log/slog"
	"strings"

	nethtml "golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/KirkDiggler/rpg-lore/internal/errors"
	"github.com/KirkDiggler/rpg-lore/internal/markup"
)

var (
	// DefaultContentSelectors match elements whose text may contain markup
	DefaultContentSelectors = []string{
		"[data-markup]",
		".markup",
		".feature-description",
		".item-description",
		".spell-description",
		".class-description",
		".trait-description",
	}

	// DefaultDisplayNameSelectors match labels that only get display text
	DefaultDisplayNameSelectors = []string{
		"[data-markup-display]",
		".display-name",
		".choice-label",
	}

	// skipped elements never have their text rendered
	skipped = map[atom.Atom]bool{
		atom.A:        true,
		atom.Script:   true,
		atom.Style:    true,
		atom.Textarea: true,
		atom.Code:     true,
		atom.Pre:      true,
	}
)

// Options tune one ProcessRegion call
type Options struct {
	// Force reprocesses elements already marked processed
	Force bool
	// InlineFormatting applies inline markdown to text without tags too
	InlineFormatting bool
}

// Stats counts the work done by a pass
type Stats struct {
	Elements  int `json:"elements"`
	Rendered  int `json:"rendered"`
	Formatted int `json:"formatted"`
	Legacy    int `json:"legacy"`
}

// Add accumulates another pass
func (s *Stats) Add(other Stats) {
	s.Elements += other.Elements
	s.Rendered += other.Rendered
	s.Formatted += other.Formatted
	s.Legacy += other.Legacy
}

type mode int

const (
	modeContent mode = iota
	modeDisplay
)

// Config holds the dependencies for a Processor
type Config struct {
	Markup *markup.Renderer

	// ContentSelectors default to DefaultContentSelectors
	ContentSelectors []string
	// DisplayNameSelectors default to DefaultDisplayNameSelectors
	DisplayNameSelectors []string

	Logger *slog.Logger
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.Markup == nil {
		vb.RequiredField("Markup")
	}

	return vb.Build()
}

// Processor renders markup within element trees
type Processor struct {
	text    *markup.Renderer
	content []Selector
	display []Selector
	logger  *slog.Logger
}

// NewProcessor creates a processor
func NewProcessor(cfg *Config) (*Processor, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	contentRaw := cfg.ContentSelectors
	if len(contentRaw) == 0 {
		contentRaw = DefaultContentSelectors
	}
	displayRaw := cfg.DisplayNameSelectors
	if len(displayRaw) == 0 {
		displayRaw = DefaultDisplayNameSelectors
	}

	content, err := ParseSelectors(contentRaw)
	if err != nil {
		return nil, errors.Wrap(err, "invalid content selectors")
	}
	display, err := ParseSelectors(displayRaw)
	if err != nil {
		return nil, errors.Wrap(err, "invalid display name selectors")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Processor{
		text:    cfg.Markup,
		content: content,
		display: display,
		logger:  logger,
	}, nil
}

// ProcessRegion renders every matching element under root, root included.
// Elements are marked processed whether or not anything changed.
func (p *Processor) ProcessRegion(ctx context.Context, root *nethtml.Node, opts Options) (Stats, error) {
	var stats Stats
	if root == nil {
		return stats, errors.InvalidArgument("root node is required")
	}

	stats.Legacy = NormalizeLegacyAnchors(root)

	type target struct {
		node *nethtml.Node
		mode mode
	}
	var targets []target
	walkElements(root, func(n *nethtml.Node) {
		if !opts.Force && hasAttr(n, markup.ProcessedKey) {
			return
		}
		switch {
		case matchesAny(n, p.display):
			targets = append(targets, target{n, modeDisplay})
		case matchesAny(n, p.content):
			targets = append(targets, target{n, modeContent})
		}
	})

	for _, t := range targets {
		if err := ctx.Err(); err != nil {
			return stats, errors.WrapWithCode(err, errors.GetCode(err), "region processing interrupted")
		}
		p.processElement(t.node, t.mode, opts, &stats)
		setAttr(t.node, markup.ProcessedKey, "true")
		stats.Elements++
	}

	return stats, nil
}

// processElement rewrites the text nodes owned by el. Descendants that are
// themselves targets are left for their own visit.
func (p *Processor) processElement(el *nethtml.Node, m mode, opts Options, stats *Stats) {
	var texts []*nethtml.Node
	var collect func(n *nethtml.Node)
	collect = func(n *nethtml.Node) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			switch c.Type {
			case nethtml.TextNode:
				texts = append(texts, c)
			case nethtml.ElementNode:
				if p.skip(c, opts) {
					continue
				}
				collect(c)
			}
		}
	}
	collect(el)

	for _, n := range texts {
		switch {
		case m == modeDisplay:
			if markup.HasTags(n.Data) {
				n.Data = html.UnescapeString(p.text.DisplayText(n.Data))
				stats.Rendered++
			}
		case markup.HasTags(n.Data):
			escaped := html.EscapeString(n.Data)
			out := p.text.ProcessText(n.Data)
			if opts.InlineFormatting {
				out = inlineFormat(out)
			}
			if out != escaped && p.replace(n, out) {
				stats.Rendered++
			}
		case opts.InlineFormatting:
			escaped := html.EscapeString(n.Data)
			if out := inlineFormat(escaped); out != escaped && p.replace(n, out) {
				stats.Formatted++
			}
		}
	}
}

func (p *Processor) skip(n *nethtml.Node, opts Options) bool {
	switch {
	case skipped[n.DataAtom]:
		return true
	case hasClass(n, markup.MarkerClass), hasClass(n, markup.RollClass):
		return true
	case !opts.Force && hasAttr(n, markup.ProcessedKey):
		return true
	case matchesAny(n, p.content), matchesAny(n, p.display):
		return true
	}
	return false
}

// replace swaps a text node for the parsed fragment
func (p *Processor) replace(n *nethtml.Node, fragment string) bool {
	parent := n.Parent
	if parent == nil {
		return false
	}

	fragmentCtx := parent
	if fragmentCtx.Type != nethtml.ElementNode {
		fragmentCtx = &nethtml.Node{Type: nethtml.ElementNode, Data: "div", DataAtom: atom.Div}
	}
	nodes, err := nethtml.ParseFragment(strings.NewReader(fragment), fragmentCtx)
	if err != nil {
		p.logger.Warn("failed to parse rendered fragment", "error", err)
		return false
	}

	for _, node := range nodes {
		parent.InsertBefore(node, n)
	}
	parent.RemoveChild(n)
	return true
}

// inlineFormat applies inline markdown while keeping surrounding whitespace
func inlineFormat(escaped string) string {
	core := strings.TrimSpace(escaped)
	if core == "" {
		return escaped
	}

	out := markup.InlineMarkdown(core)

	lead := escaped[:strings.Index(escaped, core)]
	trail := escaped[len(lead)+len(core):]
	return lead + out + trail
}

// walkElements visits every element in document order, n included
func walkElements(n *nethtml.Node, visit func(*nethtml.Node)) {
	if n.Type == nethtml.ElementNode {
		visit(n)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walkElements(c, visit)
	}
}
