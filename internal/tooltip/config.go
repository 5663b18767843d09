package tooltip

//go:generate mockgen -destination=mock/mock_tooltip.go -package=tooltipmock github.com/KirkDiggler/rpg-lore/internal/tooltip Resolver,Renderer,Copier

import (
	"context"
	"log/slog"
	"time"

	"github.com/KirkDiggler/rpg-toolkit/events"

	"github.com/KirkDiggler/rpg-lore/internal/entities/reference"
	"github.com/KirkDiggler/rpg-lore/internal/errors"
	"github.com/KirkDiggler/rpg-lore/internal/pkg/clock"
	"github.com/KirkDiggler/rpg-lore/internal/pkg/idgen"
)

// Defaults applied by Config.Validate
const (
	DefaultShowDelay      = 200 * time.Millisecond
	DefaultHideDelay      = 300 * time.Millisecond
	DefaultResolveTimeout = 5 * time.Second
	DefaultOffset         = 12.0
)

var (
	// DefaultViewport is used until the host reports its size
	DefaultViewport = Size{Width: 1280, Height: 800}
	// DefaultTooltipSize is used when no Measure function is configured
	DefaultTooltipSize = Size{Width: 320, Height: 240}
)

// Resolver looks up the entity behind an anchor
type Resolver interface {
	Resolve(ctx context.Context, entityType, name, source string) *reference.Result
}

// Renderer turns a resolver result into tooltip content
type Renderer interface {
	RenderResult(result *reference.Result) string
}

// Copier receives the top tooltip on the copy shortcut
type Copier interface {
	Copy(t Tooltip, text string) error
}

// Config holds the dependencies and tunables for a Manager
type Config struct {
	Resolver Resolver
	Renderer Renderer

	Clock       clock.Clock
	IDGenerator idgen.Generator
	// Go launches asynchronous resolution. Defaults to a new goroutine.
	Go func(func())
	// Measure sizes rendered content for positioning
	Measure func(content string) Size
	Copier  Copier
	// OnChange receives a snapshot after every stack change. It is called
	// with the manager locked and must not call back into the manager.
	OnChange func([]Tooltip)
	// EventBus receives EventOpened and EventClosed. Handlers run with the
	// manager locked, the same as OnChange.
	EventBus events.EventBus

	ShowDelay      time.Duration
	HideDelay      time.Duration
	ResolveTimeout time.Duration
	Offset         Point
	Viewport       Size

	Logger *slog.Logger
}

// Validate checks required dependencies and fills in defaults
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.Resolver == nil {
		vb.RequiredField("Resolver")
	}
	if c.Renderer == nil {
		vb.RequiredField("Renderer")
	}
	if c.ShowDelay < 0 {
		vb.InvalidField("ShowDelay", "must not be negative")
	}
	if c.HideDelay < 0 {
		vb.InvalidField("HideDelay", "must not be negative")
	}
	if err := vb.Build(); err != nil {
		return err
	}

	if c.Clock == nil {
		c.Clock = clock.New()
	}
	if c.IDGenerator == nil {
		c.IDGenerator = idgen.NewULID("tt")
	}
	if c.Go == nil {
		c.Go = func(f func()) { go f() }
	}
	if c.Measure == nil {
		c.Measure = func(string) Size { return DefaultTooltipSize }
	}
	if c.ShowDelay == 0 {
		c.ShowDelay = DefaultShowDelay
	}
	if c.HideDelay == 0 {
		c.HideDelay = DefaultHideDelay
	}
	if c.ResolveTimeout == 0 {
		c.ResolveTimeout = DefaultResolveTimeout
	}
	if c.Offset == (Point{}) {
		c.Offset = Point{X: DefaultOffset, Y: DefaultOffset}
	}
	if c.Viewport.Width <= 0 || c.Viewport.Height <= 0 {
		c.Viewport = DefaultViewport
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}

	return nil
}
