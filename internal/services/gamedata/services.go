package gamedata

import (
	"context"

	"github.com/KirkDiggler/rpg-lore/internal/entities/reference"
	"github.com/KirkDiggler/rpg-lore/internal/resolver"
)

// Actions serves action lookups from a store
type Actions struct{ store Store }

// GetAction finds an action
func (s *Actions) GetAction(ctx context.Context, name, source string) (reference.Entity, error) {
	return s.store.Find(ctx, CategoryActions, name, source)
}

// Backgrounds serves background lookups from a store
type Backgrounds struct{ store Store }

// GetBackground finds a background
func (s *Backgrounds) GetBackground(ctx context.Context, name, source string) (reference.Entity, error) {
	return s.store.Find(ctx, CategoryBackgrounds, name, source)
}

// Classes serves class lookups from a store
type Classes struct{ store Store }

// GetClass finds a class
func (s *Classes) GetClass(ctx context.Context, name, source string) (reference.Entity, error) {
	return s.store.Find(ctx, CategoryClasses, name, source)
}

// Conditions serves condition lookups from a store
type Conditions struct{ store Store }

// GetCondition finds a condition in any source
func (s *Conditions) GetCondition(ctx context.Context, name string) (reference.Entity, error) {
	return s.store.Find(ctx, CategoryConditions, name, "")
}

// Feats serves feat lookups from a store
type Feats struct{ store Store }

// GetFeat finds a feat
func (s *Feats) GetFeat(ctx context.Context, name, source string) (reference.Entity, error) {
	return s.store.Find(ctx, CategoryFeats, name, source)
}

// OptionalFeatures serves class feature and optional feature lookups
type OptionalFeatures struct{ store Store }

// GetOptionalFeatureByName finds a feature
func (s *OptionalFeatures) GetOptionalFeatureByName(ctx context.Context, name, source string) (reference.Entity, error) {
	return s.store.Find(ctx, CategoryOptionalFeatures, name, source)
}

// Items serves item lookups from a store
type Items struct{ store Store }

// GetItem finds an item
func (s *Items) GetItem(ctx context.Context, name, source string) (reference.Entity, error) {
	return s.store.Find(ctx, CategoryItems, name, source)
}

// Monsters serves creature lookups from a store
type Monsters struct{ store Store }

// GetMonster finds a creature
func (s *Monsters) GetMonster(ctx context.Context, name, source string) (reference.Entity, error) {
	return s.store.Find(ctx, CategoryMonsters, name, source)
}

// Races serves race lookups from a store
type Races struct{ store Store }

// GetRace finds a race
func (s *Races) GetRace(ctx context.Context, name, source string) (reference.Entity, error) {
	return s.store.Find(ctx, CategoryRaces, name, source)
}

// Skills serves skill lookups from a store
type Skills struct{ store Store }

// GetSkill finds a skill in any source
func (s *Skills) GetSkill(ctx context.Context, name string) (reference.Entity, error) {
	return s.store.Find(ctx, CategorySkills, name, "")
}

// Spells serves spell lookups from a store
type Spells struct{ store Store }

// GetSpell finds a spell
func (s *Spells) GetSpell(ctx context.Context, name, source string) (reference.Entity, error) {
	return s.store.Find(ctx, CategorySpells, name, source)
}

// VariantRules serves variant rule lookups from a store
type VariantRules struct{ store Store }

// GetVariantRule finds a variant rule
func (s *VariantRules) GetVariantRule(ctx context.Context, name, source string) (reference.Entity, error) {
	return s.store.Find(ctx, CategoryVariantRules, name, source)
}

var (
	_ resolver.ActionService          = (*Actions)(nil)
	_ resolver.BackgroundService      = (*Backgrounds)(nil)
	_ resolver.ClassService           = (*Classes)(nil)
	_ resolver.ConditionService       = (*Conditions)(nil)
	_ resolver.FeatService            = (*Feats)(nil)
	_ resolver.OptionalFeatureService = (*OptionalFeatures)(nil)
	_ resolver.ItemService            = (*Items)(nil)
	_ resolver.MonsterService         = (*Monsters)(nil)
	_ resolver.RaceService            = (*Races)(nil)
	_ resolver.SkillService           = (*Skills)(nil)
	_ resolver.SpellService           = (*Spells)(nil)
	_ resolver.VariantRuleService     = (*VariantRules)(nil)
)

// NewServices builds the resolver's service registry over one store
func NewServices(store Store) map[string]any {
	return map[string]any{
		CategoryActions:          &Actions{store: store},
		CategoryBackgrounds:      &Backgrounds{store: store},
		CategoryClasses:          &Classes{store: store},
		CategoryConditions:       &Conditions{store: store},
		CategoryFeats:            &Feats{store: store},
		CategoryOptionalFeatures: &OptionalFeatures{store: store},
		CategoryItems:            &Items{store: store},
		CategoryMonsters:         &Monsters{store: store},
		CategoryRaces:            &Races{store: store},
		CategorySkills:           &Skills{store: store},
		CategorySpells:           &Spells{store: store},
		CategoryVariantRules:     &VariantRules{store: store},
	}
}
