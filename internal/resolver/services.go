package resolver

//go:generate mockgen -destination=mock/mock_services.go -package=resolvermock github.com/KirkDiggler/rpg-lore/internal/resolver SpellService,SkillService,MonsterService

import (
	"context"

	"github.com/KirkDiggler/rpg-lore/internal/entities/reference"
)

// Service registry names
const (
	ServiceActions          = "actions"
	ServiceBackgrounds      = "backgrounds"
	ServiceClasses          = "classes"
	ServiceConditions       = "conditions"
	ServiceFeats            = "feats"
	ServiceOptionalFeatures = "optionalfeatures"
	ServiceItems            = "items"
	ServiceMonsters         = "monsters"
	ServiceRaces            = "races"
	ServiceSkills           = "skills"
	ServiceSpells           = "spells"
	ServiceVariantRules     = "variantrules"
)

// ActionService looks up actions
type ActionService interface {
	GetAction(ctx context.Context, name, source string) (reference.Entity, error)
}

// BackgroundService looks up backgrounds
type BackgroundService interface {
	GetBackground(ctx context.Context, name, source string) (reference.Entity, error)
}

// ClassService looks up classes
type ClassService interface {
	GetClass(ctx context.Context, name, source string) (reference.Entity, error)
}

// ConditionService looks up conditions. Conditions are not source qualified.
type ConditionService interface {
	GetCondition(ctx context.Context, name string) (reference.Entity, error)
}

// FeatService looks up feats
type FeatService interface {
	GetFeat(ctx context.Context, name, source string) (reference.Entity, error)
}

// OptionalFeatureService looks up class features and optional features
type OptionalFeatureService interface {
	GetOptionalFeatureByName(ctx context.Context, name, source string) (reference.Entity, error)
}

// ItemService looks up items
type ItemService interface {
	GetItem(ctx context.Context, name, source string) (reference.Entity, error)
}

// MonsterService looks up creatures
type MonsterService interface {
	GetMonster(ctx context.Context, name, source string) (reference.Entity, error)
}

// RaceService looks up races
type RaceService interface {
	GetRace(ctx context.Context, name, source string) (reference.Entity, error)
}

// SkillService looks up skills. Skills are not source qualified.
type SkillService interface {
	GetSkill(ctx context.Context, name string) (reference.Entity, error)
}

// SpellService looks up spells
type SpellService interface {
	GetSpell(ctx context.Context, name, source string) (reference.Entity, error)
}

// VariantRuleService looks up variant rules
type VariantRuleService interface {
	GetVariantRule(ctx context.Context, name, source string) (reference.Entity, error)
}
