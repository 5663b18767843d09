package referencecache

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/KirkDiggler/rpg-lore/internal/entities/reference"
	"github.com/KirkDiggler/rpg-lore/internal/errors"
	"github.com/KirkDiggler/rpg-lore/internal/pkg/clock"
	redisclient "github.com/KirkDiggler/rpg-lore/internal/redis"
)

const (
	// Key pattern: reference:{category}:{source}:{normalized name}
	keyPrefix  = "reference:"
	defaultTTL = time.Hour

	errCategoryEmpty = "category cannot be empty"
	errNameEmpty     = "name cannot be empty"
	errEntityNil     = "entity cannot be nil unless the entry is a miss"
)

// Config holds the configuration for the Redis repository
type Config struct {
	Client redisclient.Client
	Clock  clock.Clock
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	if c.Client == nil {
		return errors.InvalidArgument("redis client is required")
	}
	if c.Clock == nil {
		c.Clock = clock.New()
	}
	return nil
}

type redisRepository struct {
	client redisclient.Client
	clock  clock.Clock
}

// NewRedisRepository creates a new Redis repository for cached references
func NewRedisRepository(cfg *Config) (Repository, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	return &redisRepository{
		client: cfg.Client,
		clock:  cfg.Clock,
	}, nil
}

var _ Repository = (*redisRepository)(nil)

// Get retrieves a cached entry
func (r *redisRepository) Get(ctx context.Context, input GetInput) (*GetOutput, error) {
	key, err := buildKey(input.Category, input.Name, input.Source)
	if err != nil {
		return nil, err
	}

	data, err := r.client.Get(ctx, key).Result()
	if err != nil {
		if err == redisclient.Nil {
			return nil, errors.NotFoundf("no cached %s %q", input.Category, input.Name)
		}
		return nil, errors.WrapWithCode(err, errors.CodeUnavailable, "failed to read reference cache")
	}

	var entry Entry
	if err := json.Unmarshal([]byte(data), &entry); err != nil {
		// A corrupt entry is as good as a miss; drop it so the next put wins.
		_ = r.client.Del(ctx, key)
		return nil, errors.Wrap(err, "failed to unmarshal cached reference")
	}

	return &GetOutput{Entry: &entry}, nil
}

// Put stores an entry with a TTL
func (r *redisRepository) Put(ctx context.Context, input PutInput) (*PutOutput, error) {
	key, err := buildKey(input.Category, input.Name, input.Source)
	if err != nil {
		return nil, err
	}
	if input.Entity == nil && !input.Missing {
		return nil, errors.InvalidArgument(errEntityNil)
	}

	ttl := input.TTL
	if ttl <= 0 {
		ttl = defaultTTL
	}

	entry := &Entry{
		Category: input.Category,
		Name:     input.Name,
		Source:   sourceOrDefault(input.Source),
		Entity:   input.Entity,
		Missing:  input.Missing,
		CachedAt: r.clock.Now(),
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal reference")
	}

	if err := r.client.Set(ctx, key, data, ttl).Err(); err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeUnavailable, "failed to write reference cache")
	}

	return &PutOutput{Entry: entry}, nil
}

// Delete evicts an entry
func (r *redisRepository) Delete(ctx context.Context, input DeleteInput) (*DeleteOutput, error) {
	key, err := buildKey(input.Category, input.Name, input.Source)
	if err != nil {
		return nil, err
	}

	removed, err := r.client.Del(ctx, key).Result()
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeUnavailable, "failed to delete cached reference")
	}

	return &DeleteOutput{Deleted: removed > 0}, nil
}

func sourceOrDefault(source string) string {
	if source == "" {
		return reference.DefaultSource
	}
	return source
}

func buildKey(category, name, source string) (string, error) {
	if category == "" {
		return "", errors.InvalidArgument(errCategoryEmpty)
	}
	normalized := reference.NormalizeName(name)
	if normalized == "" {
		return "", errors.InvalidArgument(errNameEmpty)
	}
	return keyPrefix + category + ":" + strings.ToLower(sourceOrDefault(source)) + ":" + normalized, nil
}
