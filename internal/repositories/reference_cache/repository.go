// Package referencecache stores resolved reference payloads so repeat lookups
// skip the upstream stores
package referencecache

import (
	"context"
	"time"

	"github.com/KirkDiggler/rpg-lore/internal/entities/reference"
)

//go:generate mockgen -destination=mock/mock_repository.go -package=referencecachemock github.com/KirkDiggler/rpg-lore/internal/repositories/reference_cache Repository

// Entry is a cached lookup. Missing entries remember that the upstream
// stores had nothing for the key.
type Entry struct {
	Category string           `json:"category"`
	Name     string           `json:"name"`
	Source   string           `json:"source"`
	Entity   reference.Entity `json:"entity,omitempty"`
	Missing  bool             `json:"missing,omitempty"`
	CachedAt time.Time        `json:"cached_at"`
}

// GetInput identifies a cached lookup
type GetInput struct {
	Category string
	Name     string
	Source   string
}

// GetOutput contains the cached entry
type GetOutput struct {
	Entry *Entry
}

// PutInput contains an entity, or a miss, to cache
type PutInput struct {
	Category string
	Name     string
	Source   string
	Entity   reference.Entity
	Missing  bool
	TTL      time.Duration // defaults to 1 hour
}

// PutOutput contains the stored entry
type PutOutput struct {
	Entry *Entry
}

// DeleteInput identifies a cached lookup to evict
type DeleteInput struct {
	Category string
	Name     string
	Source   string
}

// DeleteOutput reports whether anything was evicted
type DeleteOutput struct {
	Deleted bool
}

// Repository defines storage for cached references
type Repository interface {
	// Get returns NotFound when nothing is cached for the key
	Get(ctx context.Context, input GetInput) (*GetOutput, error)

	// Put stores an entry with the given TTL
	Put(ctx context.Context, input PutInput) (*PutOutput, error)

	// Delete evicts an entry
	Delete(ctx context.Context, input DeleteInput) (*DeleteOutput, error)
}
