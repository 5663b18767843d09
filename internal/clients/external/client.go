// Package external serves reference lookups from the D&D 5e SRD API
package external

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/fadedpez/dnd5e-api/clients/dnd5e"

	"github.com/KirkDiggler/rpg-lore/internal/entities/reference"
	"github.com/KirkDiggler/rpg-lore/internal/errors"
)

// Source is the source code stamped on every entity from the API
const Source = "SRD"

// Lookup categories this store understands
const (
	CategorySpells           = "spells"
	CategoryClasses          = "classes"
	CategoryRaces            = "races"
	CategoryOptionalFeatures = "optionalfeatures"
	CategoryItems            = "items"
	CategoryMonsters         = "monsters"
	CategorySkills           = "skills"
	CategoryBackgrounds      = "backgrounds"
)

var (
	// slugPattern matches characters that should be replaced in slugs
	slugPattern   = regexp.MustCompile(`[^a-z0-9-]+`)
	hyphenPattern = regexp.MustCompile(`-+`)
)

// generateSlug turns a display name into an API key: "Magic Missile" -> "magic-missile"
func generateSlug(s string) string {
	slug := strings.ToLower(strings.TrimSpace(s))
	slug = strings.ReplaceAll(slug, " ", "-")
	slug = strings.ReplaceAll(slug, "'", "")
	slug = slugPattern.ReplaceAllString(slug, "-")
	slug = hyphenPattern.ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-")
}

// Config contains configuration options for the SRD store
type Config struct {
	// BaseURL for the D&D 5e API (optional, defaults to https://www.dnd5eapi.co/api/2014/)
	BaseURL string
	// HTTPTimeout for API requests (optional, defaults to 30 seconds)
	HTTPTimeout time.Duration
	// CacheTTL for the in-process response cache (optional, defaults to 24 hours)
	CacheTTL time.Duration
	// API replaces the HTTP client, mainly for tests
	API    dnd5e.Interface
	Logger *slog.Logger
}

// Validate validates the Config and sets defaults if not provided
func (cfg *Config) Validate() error {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://www.dnd5eapi.co/api/2014/"
	}
	if cfg.HTTPTimeout == 0 {
		cfg.HTTPTimeout = 30 * time.Second
	}
	if cfg.CacheTTL == 0 {
		cfg.CacheTTL = 24 * time.Hour
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	vb := errors.NewValidationBuilder()
	errors.ValidatePositiveDuration("HTTPTimeout", cfg.HTTPTimeout, vb)
	errors.ValidatePositiveDuration("CacheTTL", cfg.CacheTTL, vb)
	return vb.Build()
}

// Store finds SRD entities and reshapes them into reference payloads
type Store struct {
	api    dnd5e.Interface
	logger *slog.Logger
}

// New creates an SRD store with the given configuration
func New(cfg *Config) (*Store, error) {
	if cfg == nil {
		cfg = &Config{}
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	api := cfg.API
	if api == nil {
		baseClient, err := dnd5e.NewDND5eAPI(&dnd5e.DND5eAPIConfig{
			Client:  &http.Client{Timeout: cfg.HTTPTimeout},
			BaseURL: cfg.BaseURL,
		})
		if err != nil {
			return nil, errors.Wrap(err, "failed to create D&D 5e API client")
		}
		api = dnd5e.NewCachedClient(baseClient, cfg.CacheTTL)
	}

	return &Store{api: api, logger: cfg.Logger}, nil
}

// Find looks up an entity by category and name. The source is ignored: the
// SRD only has one edition of everything. Categories the API does not carry
// report NotFound so a fallback chain can move on.
func (s *Store) Find(ctx context.Context, category, name, _ string) (reference.Entity, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.WrapWithCode(err, errors.GetCode(err), "lookup canceled")
	}

	slug := generateSlug(name)
	if slug == "" {
		return nil, errors.InvalidArgument("name is required")
	}

	var (
		entity reference.Entity
		err    error
	)
	switch category {
	case CategorySpells:
		entity, err = s.spell(slug)
	case CategoryClasses:
		entity, err = s.class(slug)
	case CategoryRaces:
		entity, err = s.race(slug)
	case CategoryOptionalFeatures:
		entity, err = s.feature(slug)
	case CategoryItems:
		entity, err = s.equipment(slug)
	case CategoryMonsters:
		entity, err = s.monster(slug)
	case CategorySkills:
		entity, err = s.skill(slug)
	case CategoryBackgrounds:
		entity, err = s.background(slug)
	default:
		return nil, errors.NotFoundf("%s are not available from the SRD API", category)
	}

	if err != nil {
		s.logger.Debug("SRD lookup failed",
			"category", category,
			"name", name,
			"slug", slug,
			"error", err)
		return nil, classify(err, category, name)
	}
	if entity == nil {
		return nil, errors.NotFoundf("%s %q not found in the SRD", category, name)
	}

	return entity, nil
}

// classify maps API failures onto error codes. The API client only exposes
// plain errors, so a missing key is recognized by its message.
func classify(err error, category, name string) error {
	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "404") || strings.Contains(msg, "not found") {
		return errors.WrapWithCode(err, errors.CodeNotFound,
			fmt.Sprintf("%s %q not found in the SRD", category, name))
	}
	return errors.WrapWithCode(err, errors.CodeUnavailable,
		fmt.Sprintf("failed to get %s %q from the SRD API", category, name))
}
