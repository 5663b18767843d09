package batch

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/net/html"

	"github.com/KirkDiggler/rpg-lore/internal/errors"
	"github.com/KirkDiggler/rpg-lore/internal/pkg/clock"
)

// DefaultTick approximates one display frame
const DefaultTick = 16 * time.Millisecond

// ObserverConfig holds the dependencies for an Observer
type ObserverConfig struct {
	Processor *Processor
	Clock     clock.Clock
	Tick      time.Duration
	// Locker guards the document while a flush mutates it
	Locker  sync.Locker
	Options Options
	// OnFlush receives the outcome of every timed flush
	OnFlush func(Stats, error)
	Logger  *slog.Logger
}

// Validate ensures all required dependencies are provided
func (c *ObserverConfig) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.Processor == nil {
		vb.RequiredField("Processor")
	}
	if c.Tick < 0 {
		vb.InvalidField("Tick", "must not be negative")
	}

	return vb.Build()
}

// Observer batches inserted nodes and processes them after one tick
type Observer struct {
	mu      sync.Mutex
	cfg     ObserverConfig
	queue   []*html.Node
	timer   clock.Timer
	token   uint64
	stopped bool
}

// NewObserver creates an observer
func NewObserver(cfg *ObserverConfig) (*Observer, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	c := *cfg
	if c.Clock == nil {
		c.Clock = clock.New()
	}
	if c.Tick == 0 {
		c.Tick = DefaultTick
	}
	if c.Locker == nil {
		c.Locker = &sync.Mutex{}
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}

	return &Observer{cfg: c}, nil
}

// Inserted queues newly inserted nodes. The first insertion of a burst
// schedules a flush one tick later; later insertions join that flush.
func (o *Observer) Inserted(nodes ...*html.Node) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.stopped {
		return
	}
	for _, n := range nodes {
		if n != nil && n.Type == html.ElementNode {
			o.queue = append(o.queue, n)
		}
	}
	if len(o.queue) == 0 || o.timer != nil {
		return
	}

	o.token++
	token := o.token
	o.timer = o.cfg.Clock.AfterFunc(o.cfg.Tick, func() {
		stats, err := o.flush(context.Background(), token)
		if err != nil {
			o.cfg.Logger.Warn("batch flush failed", "error", err)
		}
		if o.cfg.OnFlush != nil {
			o.cfg.OnFlush(stats, err)
		}
	})
}

// Pending returns the number of queued nodes
func (o *Observer) Pending() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.queue)
}

// Flush processes queued nodes immediately
func (o *Observer) Flush(ctx context.Context) (Stats, error) {
	return o.flush(ctx, 0)
}

// Stop cancels a pending tick and ignores further insertions
func (o *Observer) Stop() {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.stopped = true
	if o.timer != nil {
		o.timer.Stop()
		o.timer = nil
	}
	o.queue = nil
}

// flush drains the queue. A non-zero token must match the scheduled tick.
func (o *Observer) flush(ctx context.Context, token uint64) (Stats, error) {
	o.mu.Lock()
	if token != 0 && token != o.token {
		o.mu.Unlock()
		return Stats{}, nil
	}
	if o.timer != nil {
		o.timer.Stop()
		o.timer = nil
	}
	roots := outermost(o.queue)
	o.queue = nil
	o.mu.Unlock()

	var total Stats
	if len(roots) == 0 {
		return total, nil
	}

	o.cfg.Locker.Lock()
	defer o.cfg.Locker.Unlock()

	for _, root := range roots {
		stats, err := o.cfg.Processor.ProcessRegion(ctx, root, o.cfg.Options)
		total.Add(stats)
		if err != nil {
			return total, err
		}
	}

	return total, nil
}

// outermost drops duplicates and nodes contained in other queued nodes
func outermost(nodes []*html.Node) []*html.Node {
	queued := make(map[*html.Node]bool, len(nodes))
	for _, n := range nodes {
		queued[n] = true
	}

	var out []*html.Node
	seen := make(map[*html.Node]bool, len(nodes))
	for _, n := range nodes {
		if seen[n] {
			continue
		}
		seen[n] = true

		contained := false
		for p := n.Parent; p != nil; p = p.Parent {
			if queued[p] {
				contained = true
				break
			}
		}
		if !contained {
			out = append(out, n)
		}
	}
	return out
}
