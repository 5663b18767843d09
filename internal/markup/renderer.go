package markup

import (
	"fmt"
	"html"
	"log/slog"
	"slices"
	"strings"
	"sync"

	"github.com/KirkDiggler/rpg-lore/internal/entities/reference"
)

// Handler turns the raw args of a tag into an HTML fragment. Handlers must be
// pure and total.
type Handler func(args string) string

// Config holds the dependencies for a Renderer
type Config struct {
	Logger *slog.Logger

	// SkipBuiltins leaves the registry empty
	SkipBuiltins bool
}

// Renderer maps tag kinds to handlers
type Renderer struct {
	mu       sync.RWMutex
	handlers map[string]Handler
	logger   *slog.Logger
}

// NewRenderer creates a renderer with the built-in handlers registered
func NewRenderer(cfg *Config) *Renderer {
	if cfg == nil {
		cfg = &Config{}
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r := &Renderer{
		handlers: make(map[string]Handler),
		logger:   logger,
	}
	if !cfg.SkipBuiltins {
		RegisterBuiltins(r)
	}

	return r
}

// RegisterHandler adds or replaces the handler for a kind
func (r *Renderer) RegisterHandler(kind string, fn Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers[kind] = fn
}

// Kinds lists registered kinds in sorted order
func (r *Renderer) Kinds() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	kinds := make([]string, 0, len(r.handlers))
	for kind := range r.handlers {
		kinds = append(kinds, kind)
	}
	slices.Sort(kinds)

	return kinds
}

// Render renders a single tag. Unknown kinds and panicking handlers degrade to
// the escaped first field.
func (r *Renderer) Render(kind, args string) (out string) {
	r.mu.RLock()
	handler, ok := r.handlers[kind]
	r.mu.RUnlock()

	fallback := html.EscapeString(reference.SplitArgs(args)[0])
	if !ok {
		r.logger.Warn("unknown markup tag", "kind", kind, "args", args)
		return fallback
	}

	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Warn("markup handler failed",
				"kind", kind,
				"args", args,
				"panic", fmt.Sprint(rec))
			out = fallback
		}
	}()

	return handler(args)
}

// ProcessString replaces every tag with its rendered output. Literal text is
// passed through untouched.
func (r *Renderer) ProcessString(text string) string {
	return r.process(text, false)
}

// ProcessText is ProcessString for raw text nodes: literal segments are HTML
// escaped so the result can be parsed as a fragment.
func (r *Renderer) ProcessText(text string) string {
	return r.process(text, true)
}

func (r *Renderer) process(text string, escapeLiterals bool) string {
	if !HasTags(text) {
		if escapeLiterals {
			return html.EscapeString(text)
		}
		return text
	}

	var b strings.Builder
	for _, seg := range Scan(text) {
		if seg.Token == nil {
			if escapeLiterals {
				b.WriteString(html.EscapeString(seg.Literal))
			} else {
				b.WriteString(seg.Literal)
			}
			continue
		}
		b.WriteString(r.Render(seg.Token.Kind, seg.Token.RawArgs))
	}

	return b.String()
}

// DisplayText replaces every tag with its display text and escapes the whole
// result. Used for titles and labels where anchors are not wanted.
func (r *Renderer) DisplayText(text string) string {
	if !HasTags(text) {
		return html.EscapeString(text)
	}

	var b strings.Builder
	for _, seg := range Scan(text) {
		if seg.Token == nil {
			b.WriteString(seg.Literal)
			continue
		}
		b.WriteString(displayFor(*seg.Token))
	}

	return html.EscapeString(b.String())
}

// displayFor picks the visible label of a tag without rendering it
func displayFor(token reference.Token) string {
	if _, ok := referenceKinds[token.Kind]; ok {
		return token.DisplayText()
	}

	fields := token.Fields()
	switch token.Kind {
	case "dice", "damage", "d20", "hit":
		if len(fields) > 1 && fields[1] != "" {
			return fields[1]
		}
		if token.Kind == "hit" || token.Kind == "d20" {
			return signed(fields[0])
		}
	case "dc":
		return "DC " + fields[0]
	case "atk":
		return attackLabel(fields[0])
	case "recharge":
		return rechargeLabel(fields[0])
	case "chance":
		return fields[0] + " percent"
	case "b", "bold", "i", "italic", "u", "s", "strike", "note":
		return token.RawArgs
	}

	return fields[0]
}
