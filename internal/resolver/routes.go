package resolver

import (
	"context"
	"slices"

	"github.com/KirkDiggler/rpg-lore/internal/entities/reference"
)

type (
	lookupFunc func(ctx context.Context, name, source string) (reference.Entity, error)
	nameLookup func(ctx context.Context, name string) (reference.Entity, error)
)

// route binds an entity type to the service and accessor that serve it
type route struct {
	service  string
	accessor string
	bind     func(svc any) (lookupFunc, bool)
}

func sourced[T any](get func(T) lookupFunc) func(any) (lookupFunc, bool) {
	return func(svc any) (lookupFunc, bool) {
		typed, ok := svc.(T)
		if !ok {
			return nil, false
		}
		return get(typed), true
	}
}

func nameOnly[T any](get func(T) nameLookup) func(any) (lookupFunc, bool) {
	return func(svc any) (lookupFunc, bool) {
		typed, ok := svc.(T)
		if !ok {
			return nil, false
		}
		fn := get(typed)
		return func(ctx context.Context, name, _ string) (reference.Entity, error) {
			return fn(ctx, name)
		}, true
	}
}

var routes = map[string]route{
	"action": {
		service:  ServiceActions,
		accessor: "GetAction",
		bind:     sourced(func(s ActionService) lookupFunc { return s.GetAction }),
	},
	"background": {
		service:  ServiceBackgrounds,
		accessor: "GetBackground",
		bind:     sourced(func(s BackgroundService) lookupFunc { return s.GetBackground }),
	},
	"class": {
		service:  ServiceClasses,
		accessor: "GetClass",
		bind:     sourced(func(s ClassService) lookupFunc { return s.GetClass }),
	},
	"condition": {
		service:  ServiceConditions,
		accessor: "GetCondition",
		bind:     nameOnly(func(s ConditionService) nameLookup { return s.GetCondition }),
	},
	"feat": {
		service:  ServiceFeats,
		accessor: "GetFeat",
		bind:     sourced(func(s FeatService) lookupFunc { return s.GetFeat }),
	},
	"feature": {
		service:  ServiceOptionalFeatures,
		accessor: "GetOptionalFeatureByName",
		bind:     sourced(func(s OptionalFeatureService) lookupFunc { return s.GetOptionalFeatureByName }),
	},
	"item": {
		service:  ServiceItems,
		accessor: "GetItem",
		bind:     sourced(func(s ItemService) lookupFunc { return s.GetItem }),
	},
	"creature": {
		service:  ServiceMonsters,
		accessor: "GetMonster",
		bind:     sourced(func(s MonsterService) lookupFunc { return s.GetMonster }),
	},
	"monster": {
		service:  ServiceMonsters,
		accessor: "GetMonster",
		bind:     sourced(func(s MonsterService) lookupFunc { return s.GetMonster }),
	},
	"race": {
		service:  ServiceRaces,
		accessor: "GetRace",
		bind:     sourced(func(s RaceService) lookupFunc { return s.GetRace }),
	},
	"skill": {
		service:  ServiceSkills,
		accessor: "GetSkill",
		bind:     nameOnly(func(s SkillService) nameLookup { return s.GetSkill }),
	},
	"spell": {
		service:  ServiceSpells,
		accessor: "GetSpell",
		bind:     sourced(func(s SpellService) lookupFunc { return s.GetSpell }),
	},
	"variantrule": {
		service:  ServiceVariantRules,
		accessor: "GetVariantRule",
		bind:     sourced(func(s VariantRuleService) lookupFunc { return s.GetVariantRule }),
	},
}

// Types lists every entity type the resolver can dispatch, sorted
func Types() []string {
	types := make([]string, 0, len(routes))
	for t := range routes {
		types = append(types, t)
	}
	slices.Sort(types)
	return types
}

// ServiceFor returns the registry name serving an entity type
func ServiceFor(entityType string) (string, bool) {
	r, ok := routes[entityType]
	return r.service, ok
}
