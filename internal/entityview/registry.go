// Package entityview turns resolved lookup payloads into tooltip HTML.
//
// Payloads carry no type tag, so the registry infers a Kind from the fields
// present using an ordered rule list and picks a formatter for it. Formatter
// failures fall back to the generic layout.
package entityview

import (
	"fmt"
	"html"
	"log/slog"
	"sync"

	"github.com/KirkDiggler/rpg-lore/internal/entities/reference"
	"github.com/KirkDiggler/rpg-lore/internal/errors"
	"github.com/KirkDiggler/rpg-lore/internal/markup"
)

// ErrorMessage is shown when nothing better can be rendered
const ErrorMessage = "Error loading details"

// Config holds the dependencies for the registry
type Config struct {
	Markup *markup.Renderer
	// Rules overrides DefaultRules
	Rules  []Rule
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

// Registry detects payload kinds and renders them
type Registry struct {
	mu         sync.RWMutex
	rules      []Rule
	formatters map[Kind]Formatter
	text       *markup.Renderer
	logger     *slog.Logger
}

// NewRegistry creates a registry with the default formatters
func NewRegistry(cfg *Config) (*Registry, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	rules := cfg.Rules
	if rules == nil {
		rules = DefaultRules
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Registry{
		rules:      rules,
		formatters: DefaultFormatters(),
		text:       cfg.Markup,
		logger:     logger,
	}, nil
}

// Detect returns the first matching kind, or KindGeneric
func (r *Registry) Detect(e reference.Entity) Kind {
	for _, rule := range r.rules {
		if rule.Predicate(e) {
			return rule.Kind
		}
	}
	return KindGeneric
}

// Matches returns every kind whose rule matches, in rule order
func (r *Registry) Matches(e reference.Entity) []Kind {
	var kinds []Kind
	for _, rule := range r.rules {
		if rule.Predicate(e) {
			kinds = append(kinds, rule.Kind)
		}
	}
	return kinds
}

// Register adds or replaces the formatter for a kind
func (r *Registry) Register(kind Kind, f Formatter) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.formatters[kind] = f
}

// Render formats an entity as the given kind. Kinds without a formatter and
// formatters that panic use the generic layout instead.
func (r *Registry) Render(kind Kind, e reference.Entity) string {
	r.mu.RLock()
	formatter, ok := r.formatters[kind]
	generic := r.formatters[KindGeneric]
	r.mu.RUnlock()

	if generic == nil {
		generic = formatGeneric
	}
	if !ok {
		formatter = generic
		kind = KindGeneric
	}

	out, err := r.format(formatter, e)
	if err == nil {
		return wrapContent(kind, out)
	}
	r.logger.Warn("entity formatter failed",
		"kind", kind,
		"name", e.Name(),
		"error", err)

	out, err = r.format(generic, e)
	if err != nil {
		r.logger.Error("generic formatter failed", "name", e.Name(), "error", err)
		return errorBody(ErrorMessage)
	}
	return wrapContent(KindGeneric, out)
}

// RenderResult renders a resolver result: error bodies for failures,
// detection plus formatting for entities.
func (r *Registry) RenderResult(result *reference.Result) string {
	switch {
	case result == nil:
		return errorBody(ErrorMessage)
	case result.Error != "":
		return errorBody(result.Error)
	case result.Entity == nil:
		return errorBody(result.Type + " not found")
	}

	return r.Render(r.Detect(result.Entity), result.Entity)
}

func (r *Registry) format(f Formatter, e reference.Entity) (out string, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = errors.Internalf("formatter panic: %v", rec)
		}
	}()

	v := newView(r.text)
	f(v, e)
	return v.String(), nil
}

func wrapContent(kind Kind, body string) string {
	return fmt.Sprintf(`<div class="tooltip-content tooltip-%s">%s</div>`, kind, body)
}

func errorBody(message string) string {
	return `<div class="tooltip-error">` + html.EscapeString(message) + `</div>`
}
