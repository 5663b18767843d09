package gamedata

import (
	"context"
	"log/slog"
	"time"

	"github.com/KirkDiggler/rpg-lore/internal/entities/reference"
	"github.com/KirkDiggler/rpg-lore/internal/errors"
	referencecache "github.com/KirkDiggler/rpg-lore/internal/repositories/reference_cache"
)

// CachedConfig holds the dependencies of a Cached store
type CachedConfig struct {
	Store      Store
	Repository referencecache.Repository
	// TTL for found entities; zero uses the repository default
	TTL time.Duration
	// MissTTL for remembered misses; zero disables negative caching
	MissTTL time.Duration
	Logger  *slog.Logger
}

// Validate ensures the wrapped store and repository are set
func (c *CachedConfig) Validate() error {
	vb := errors.NewValidationBuilder()
	if c.Store == nil {
		vb.RequiredField("Store")
	}
	if c.Repository == nil {
		vb.RequiredField("Repository")
	}
	if c.TTL < 0 {
		vb.InvalidField("TTL", "must not be negative")
	}
	if c.MissTTL < 0 {
		vb.InvalidField("MissTTL", "must not be negative")
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
	return vb.Build()
}

// Cached is a read-through cache over a store. The cache is an optimization:
// when it cannot be read or written the lookup goes straight to the store.
type Cached struct {
	store   Store
	repo    referencecache.Repository
	ttl     time.Duration
	missTTL time.Duration
	logger  *slog.Logger
}

// NewCached creates a read-through cached store
func NewCached(cfg *CachedConfig) (*Cached, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	return &Cached{
		store:   cfg.Store,
		repo:    cfg.Repository,
		ttl:     cfg.TTL,
		missTTL: cfg.MissTTL,
		logger:  cfg.Logger,
	}, nil
}

// Find implements Store
func (c *Cached) Find(ctx context.Context, category, name, source string) (reference.Entity, error) {
	out, err := c.repo.Get(ctx, referencecache.GetInput{Category: category, Name: name, Source: source})
	switch {
	case err == nil:
		if out.Entry.Missing {
			return nil, errors.NotFoundf("%s %q not found", category, name)
		}
		return out.Entry.Entity, nil
	case !errors.IsNotFound(err):
		c.logger.Warn("reference cache read failed",
			"category", category,
			"name", name,
			"error", err)
	}

	entity, err := c.store.Find(ctx, category, name, source)
	if err != nil && !errors.IsNotFound(err) {
		return nil, err
	}

	if err != nil || entity == nil {
		if c.missTTL > 0 {
			c.put(ctx, referencecache.PutInput{
				Category: category,
				Name:     name,
				Source:   source,
				Missing:  true,
				TTL:      c.missTTL,
			})
		}
		if err == nil {
			err = errors.NotFoundf("%s %q not found", category, name)
		}
		return nil, err
	}

	c.put(ctx, referencecache.PutInput{
		Category: category,
		Name:     name,
		Source:   source,
		Entity:   entity,
		TTL:      c.ttl,
	})
	return entity, nil
}

// Invalidate evicts a cached lookup
func (c *Cached) Invalidate(ctx context.Context, category, name, source string) error {
	_, err := c.repo.Delete(ctx, referencecache.DeleteInput{Category: category, Name: name, Source: source})
	if err != nil {
		return errors.Wrap(err, "failed to invalidate cached reference")
	}
	return nil
}

func (c *Cached) put(ctx context.Context, input referencecache.PutInput) {
	if _, err := c.repo.Put(ctx, input); err != nil {
		c.logger.Warn("reference cache write failed",
			"category", input.Category,
			"name", input.Name,
			"error", err)
	}
}
