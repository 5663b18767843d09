package main

import (
	"context"
	"log/slog"

	"github.com/KirkDiggler/rpg-lore/internal/batch"
	"github.com/KirkDiggler/rpg-lore/internal/catalog"
	"github.com/KirkDiggler/rpg-lore/internal/clients/external"
	"github.com/KirkDiggler/rpg-lore/internal/config"
	"github.com/KirkDiggler/rpg-lore/internal/entityview"
	"github.com/KirkDiggler/rpg-lore/internal/errors"
	"github.com/KirkDiggler/rpg-lore/internal/markup"
	"github.com/KirkDiggler/rpg-lore/internal/redis"
	referencecache "github.com/KirkDiggler/rpg-lore/internal/repositories/reference_cache"
	"github.com/KirkDiggler/rpg-lore/internal/resolver"
	"github.com/KirkDiggler/rpg-lore/internal/services/dice"
	"github.com/KirkDiggler/rpg-lore/internal/services/gamedata"
	"github.com/KirkDiggler/rpg-lore/internal/services/session"
	"github.com/KirkDiggler/rpg-lore/internal/tooltip"
)

// app is the wired object graph shared by every command
type app struct {
	markup    *markup.Renderer
	registry  *entityview.Registry
	resolver  *resolver.Resolver
	processor *batch.Processor
	dice      dice.Service
	sessions  *session.Service

	redis  redis.Client
	logger *slog.Logger
}

// newApp builds the lookup chain: catalog, then SRD API, behind an optional
// redis cache
func newApp(ctx context.Context, cfg *config.Config, withSessions bool) (*app, error) {
	logger := slog.Default()
	a := &app{logger: logger}

	a.markup = markup.NewRenderer(&markup.Config{Logger: logger})

	var stores []gamedata.Store
	if cfg.Catalog.Dir != "" {
		cat, err := catalog.Load(&catalog.Config{Dir: cfg.Catalog.Dir, Logger: logger})
		if err != nil {
			return nil, errors.Wrap(err, "failed to load catalog")
		}
		logger.Info("catalog loaded", "dir", cfg.Catalog.Dir)
		stores = append(stores, cat)
	}
	if !cfg.SRD.Disabled {
		srd, err := external.New(&external.Config{
			BaseURL:     cfg.SRD.BaseURL,
			HTTPTimeout: cfg.SRD.Timeout,
			Logger:      logger,
		})
		if err != nil {
			return nil, errors.Wrap(err, "failed to create SRD store")
		}
		stores = append(stores, srd)
	}
	if len(stores) == 0 {
		logger.Warn("no game data stores configured; every lookup will fail")
	}

	var store gamedata.Store = gamedata.NewChain(stores...)
	if cfg.Redis.Enabled() {
		client, err := redis.Open(cfg.RedisClientConfig())
		if err != nil {
			return nil, errors.Wrap(err, "failed to open redis")
		}
		if err := redis.Ping(ctx, client); err != nil {
			_ = client.Close()
			return nil, err
		}
		a.redis = client

		repo, err := referencecache.NewRedisRepository(&referencecache.Config{Client: client})
		if err != nil {
			a.Close()
			return nil, err
		}
		cached, err := gamedata.NewCached(&gamedata.CachedConfig{
			Store:      store,
			Repository: repo,
			TTL:        cfg.Redis.CacheTTL,
			MissTTL:    max(cfg.Redis.MissTTL, 0),
			Logger:     logger,
		})
		if err != nil {
			a.Close()
			return nil, err
		}
		store = cached
	}

	var err error
	a.resolver, err = resolver.New(&resolver.Config{
		Services: gamedata.NewServices(store),
		Logger:   logger,
	})
	if err != nil {
		a.Close()
		return nil, err
	}

	a.registry, err = entityview.NewRegistry(&entityview.Config{Markup: a.markup, Logger: logger})
	if err != nil {
		a.Close()
		return nil, err
	}

	a.processor, err = batch.NewProcessor(&batch.Config{
		Markup:               a.markup,
		ContentSelectors:     cfg.Batch.ContentSelectors,
		DisplayNameSelectors: cfg.Batch.DisplayNameSelectors,
		Logger:               logger,
	})
	if err != nil {
		a.Close()
		return nil, err
	}

	a.dice, err = dice.NewService(&dice.Config{Logger: logger})
	if err != nil {
		a.Close()
		return nil, err
	}

	if withSessions && !cfg.Sessions.Disabled {
		a.sessions, err = session.NewService(&session.Config{
			Resolver:  a.resolver,
			Renderer:  a.registry,
			Processor: a.processor,
			IdleTTL:   cfg.Sessions.IdleTTL,
			Tick:      cfg.Batch.Tick,
			Tooltip: tooltip.Config{
				ShowDelay:      cfg.Tooltip.ShowDelay,
				HideDelay:      cfg.Tooltip.HideDelay,
				ResolveTimeout: cfg.Tooltip.ResolveTimeout,
				Viewport: tooltip.Size{
					Width:  cfg.Tooltip.Viewport.Width,
					Height: cfg.Tooltip.Viewport.Height,
				},
			},
			Options: batch.Options{InlineFormatting: cfg.Batch.InlineFormatting},
			Logger:  logger,
		})
		if err != nil {
			a.Close()
			return nil, err
		}
	}

	return a, nil
}

// Close releases the redis connection when one was opened
func (a *app) Close() {
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.logger.Warn("failed to close redis", "error", err)
		}
		a.redis = nil
	}
}
