// Package gamedata adapts entity stores to the typed lookup services the
// reference resolver dispatches to
package gamedata

import (
	"context"

	"github.com/KirkDiggler/rpg-lore/internal/entities/reference"
	"github.com/KirkDiggler/rpg-lore/internal/resolver"
)

//go:generate mockgen -destination=mock/mock_store.go -package=gamedatamock github.com/KirkDiggler/rpg-lore/internal/services/gamedata Store

// Categories match the resolver's service registry names
const (
	CategoryActions          = resolver.ServiceActions
	CategoryBackgrounds      = resolver.ServiceBackgrounds
	CategoryClasses          = resolver.ServiceClasses
	CategoryConditions       = resolver.ServiceConditions
	CategoryFeats            = resolver.ServiceFeats
	CategoryOptionalFeatures = resolver.ServiceOptionalFeatures
	CategoryItems            = resolver.ServiceItems
	CategoryMonsters         = resolver.ServiceMonsters
	CategoryRaces            = resolver.ServiceRaces
	CategorySkills           = resolver.ServiceSkills
	CategorySpells           = resolver.ServiceSpells
	CategoryVariantRules     = resolver.ServiceVariantRules
)

// Categories lists every category in registry order
var Categories = []string{
	CategoryActions,
	CategoryBackgrounds,
	CategoryClasses,
	CategoryConditions,
	CategoryFeats,
	CategoryOptionalFeatures,
	CategoryItems,
	CategoryMonsters,
	CategoryRaces,
	CategorySkills,
	CategorySpells,
	CategoryVariantRules,
}

// Store finds a single entity. A NotFound error or a nil entity both mean
// the store has nothing for the key.
type Store interface {
	Find(ctx context.Context, category, name, source string) (reference.Entity, error)
}

// StoreFunc adapts a function to a Store
type StoreFunc func(ctx context.Context, category, name, source string) (reference.Entity, error)

// Find calls f
func (f StoreFunc) Find(ctx context.Context, category, name, source string) (reference.Entity, error) {
	return f(ctx, category, name, source)
}
