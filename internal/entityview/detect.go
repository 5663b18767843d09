package entityview

import "github.com/KirkDiggler/rpg-lore/internal/entities/reference"

// Kind is the detected shape of a lookup payload
type Kind string

// Detected kinds
const (
	KindCreature    Kind = "creature"
	KindClass       Kind = "class"
	KindSpell       Kind = "spell"
	KindFeat        Kind = "feat"
	KindBackground  Kind = "background"
	KindRace        Kind = "race"
	KindFeature     Kind = "feature"
	KindItem        Kind = "item"
	KindAction      Kind = "action"
	KindSkill       Kind = "skill"
	KindVariantRule Kind = "variantrule"
	KindCondition   Kind = "condition"
	KindGeneric     Kind = "generic"
)

// Rule is one step of shape detection
type Rule struct {
	Kind      Kind
	Predicate func(reference.Entity) bool
}

// DefaultRules is the detection order. Several payload shapes overlap (a
// feat and a feature can both carry prerequisite), so order matters and the
// first match wins.
var DefaultRules = []Rule{
	{KindCreature, has("cr")},
	{KindClass, has("hd")},
	{KindSpell, allOf(has("level"), has("school"))},
	{KindFeat, allOf(has("prerequisite"), not(has("skillProficiencies")))},
	{KindBackground, has("skillProficiencies")},
	{KindRace, allOf(has("size"), has("speed"))},
	{KindFeature, has("featureType")},
	{KindItem, anyOf(has("rarity"), has("weaponCategory"), has("weight"), has("value"))},
	{KindAction, has("time")},
	{KindSkill, stringField("ability")},
	{KindVariantRule, has("ruleType")},
	{KindCondition, has("entries")},
}

func has(field string) func(reference.Entity) bool {
	return func(e reference.Entity) bool { return e.Has(field) }
}

func stringField(field string) func(reference.Entity) bool {
	return func(e reference.Entity) bool {
		_, ok := e[field].(string)
		return ok
	}
}

func not(p func(reference.Entity) bool) func(reference.Entity) bool {
	return func(e reference.Entity) bool { return !p(e) }
}

func allOf(preds ...func(reference.Entity) bool) func(reference.Entity) bool {
	return func(e reference.Entity) bool {
		for _, p := range preds {
			if !p(e) {
				return false
			}
		}
		return true
	}
}

func anyOf(preds ...func(reference.Entity) bool) func(reference.Entity) bool {
	return func(e reference.Entity) bool {
		for _, p := range preds {
			if p(e) {
				return true
			}
		}
		return false
	}
}
