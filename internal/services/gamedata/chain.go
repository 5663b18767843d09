package gamedata

import (
	"context"

	"github.com/KirkDiggler/rpg-lore/internal/entities/reference"
	"github.com/KirkDiggler/rpg-lore/internal/errors"
)

// Chain asks each store in order until one has the entity. A miss moves on
// to the next store; any other failure stops the walk.
type Chain struct {
	stores []Store
}

// NewChain creates a chain over the given stores, skipping nils
func NewChain(stores ...Store) *Chain {
	c := &Chain{}
	for _, s := range stores {
		if s != nil {
			c.stores = append(c.stores, s)
		}
	}
	return c
}

// Len returns the number of stores in the chain
func (c *Chain) Len() int {
	return len(c.stores)
}

// Find implements Store
func (c *Chain) Find(ctx context.Context, category, name, source string) (reference.Entity, error) {
	for _, s := range c.stores {
		entity, err := s.Find(ctx, category, name, source)
		if err != nil {
			if errors.IsNotFound(err) {
				continue
			}
			return nil, err
		}
		if entity != nil {
			return entity, nil
		}
	}
	return nil, errors.NotFoundf("%s %q not found", category, name)
}
