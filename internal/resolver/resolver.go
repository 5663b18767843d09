// Package resolver dispatches reference lookups to typed game data services
// and normalizes every outcome into a reference.Result.
package resolver

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/KirkDiggler/rpg-lore/internal/entities/reference"
	"github.com/KirkDiggler/rpg-lore/internal/errors"
)

// Config holds the dependencies for the resolver
type Config struct {
	// Services maps registry names (ServiceSpells, ...) to lookup services.
	// Missing entries are reported per lookup, not at construction.
	Services map[string]any
	Logger   *slog.Logger
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.Services == nil {
		vb.RequiredField("Services")
	}

	return vb.Build()
}

// Resolver is total: Resolve never returns an error and never panics
type Resolver struct {
	services map[string]any
	logger   *slog.Logger
}

// New creates a resolver over the given service registry
func New(cfg *Config) (*Resolver, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	services := make(map[string]any, len(cfg.Services))
	for name, svc := range cfg.Services {
		services[name] = svc
	}

	return &Resolver{services: services, logger: logger}, nil
}

// Resolve looks up an entity by type, name and source. Failures of any kind
// come back as a result with Error set.
func (r *Resolver) Resolve(ctx context.Context, entityType, name, source string) (result *reference.Result) {
	if source == "" {
		source = reference.DefaultSource
	}

	rt, ok := routes[entityType]
	if !ok {
		r.logger.Warn("unknown reference type", "type", entityType, "name", name)
		return reference.Failed(entityType, name, source, "Unknown reference type: "+entityType)
	}

	svc, ok := r.services[rt.service]
	if !ok || svc == nil {
		r.logger.Warn("reference service not configured",
			"type", entityType,
			"service", rt.service)
		return reference.Failed(entityType, name, source,
			fmt.Sprintf("No %s service available for %s", rt.service, entityType))
	}

	lookup, ok := rt.bind(svc)
	if !ok {
		r.logger.Warn("reference service missing accessor",
			"type", entityType,
			"service", rt.service,
			"accessor", rt.accessor)
		return reference.Failed(entityType, name, source,
			fmt.Sprintf("Service %s does not support %s", rt.service, rt.accessor))
	}

	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Error("reference lookup panicked",
				"type", entityType,
				"name", name,
				"source", source,
				"panic", fmt.Sprint(rec))
			result = reference.Failed(entityType, name, source, panicMessage(rec))
		}
	}()

	entity, err := lookup(ctx, name, source)
	switch {
	case err != nil && errors.IsNotFound(err):
		return reference.Failed(entityType, name, source, entityType+" not found")
	case err != nil:
		r.logger.Error("reference lookup failed",
			"type", entityType,
			"name", name,
			"source", source,
			"error", err)
		return reference.Failed(entityType, name, source, errors.GetMessage(err))
	case entity == nil:
		return reference.Failed(entityType, name, source, entityType+" not found")
	}

	return reference.Found(entityType, name, source, entity)
}

func panicMessage(rec any) string {
	var msg string
	switch v := rec.(type) {
	case error:
		msg = errors.GetMessage(v)
	case string:
		msg = v
	case fmt.Stringer:
		msg = v.String()
	}
	if msg == "" {
		return "Error loading details"
	}
	return msg
}
