package entityview

import (
	"fmt"
	"strings"

	"github.com/KirkDiggler/rpg-lore/internal/entities/reference"
)

// Formatter writes the body of a tooltip for one entity kind. Formatters may
// assume nothing about field types; Render recovers a formatter that panics.
type Formatter func(v *View, e reference.Entity)

// DefaultFormatters returns the built-in formatter for every detected kind
func DefaultFormatters() map[Kind]Formatter {
	return map[Kind]Formatter{
		KindGeneric:     formatGeneric,
		KindCreature:    formatCreature,
		KindClass:       formatClass,
		KindSpell:       formatSpell,
		KindFeat:        formatFeat,
		KindBackground:  formatBackground,
		KindRace:        formatRace,
		KindFeature:     formatFeature,
		KindItem:        formatItem,
		KindAction:      formatAction,
		KindSkill:       formatSkill,
		KindVariantRule: formatVariantRule,
		KindCondition:   formatCondition,
	}
}

func header(v *View, e reference.Entity, subtitle string) {
	v.Title(e.Name(), subtitle)
	page, _ := e.String("page")
	v.Source(e.Source(), page)
}

func formatGeneric(v *View, e reference.Entity) {
	header(v, e, "")
	v.Entries(e.Entries())
}

func formatSpell(v *View, e reference.Entity) {
	header(v, e, spellLevelLine(e))
	v.Field("Casting Time", castingTime(e["time"]))
	v.Field("Range", spellRange(e["range"]))
	v.Field("Components", spellComponents(e["components"]))
	v.Field("Duration", spellDuration(e["duration"]))
	v.Entries(e.Entries())

	if higher, ok := e["entriesHigherLevel"].([]any); ok {
		v.Entries(higher)
	}
}

func formatCreature(v *View, e reference.Entity) {
	subtitle := strings.TrimSpace(sizeLine(e["size"]) + " " + creatureType(e["type"]))
	header(v, e, subtitle)
	v.Field("Armor Class", armorClass(e["ac"]))
	v.Field("Hit Points", hitPoints(e["hp"]))
	v.Field("Speed", speedLine(e["speed"]))
	v.Raw(abilityTable(e))
	v.Field("Senses", stringList(e["senses"]))
	v.Field("Languages", stringList(e["languages"]))
	v.Field("Challenge", challenge(e["cr"]))

	traits, _ := e["trait"].([]any)
	v.Entries(traits)
	actions, _ := e["action"].([]any)
	v.Section("Actions", actions)
	reactions, _ := e["reaction"].([]any)
	v.Section("Reactions", reactions)
	legendary, _ := e["legendary"].([]any)
	v.Section("Legendary Actions", legendary)
	v.Entries(e.Entries())
}

func formatClass(v *View, e reference.Entity) {
	header(v, e, "Class")
	v.Field("Hit Die", hitDie(e["hd"]))
	v.Field("Saving Throws", abilityList(e["proficiency"]))
	if proficiencies, ok := e["startingProficiencies"].(map[string]any); ok {
		v.Field("Armor", stringList(proficiencies["armor"]))
		v.Field("Weapons", stringList(proficiencies["weapons"]))
	}
	v.Entries(e.Entries())
}

func formatFeat(v *View, e reference.Entity) {
	header(v, e, "Feat")
	v.Field("Prerequisite", prerequisites(e["prerequisite"]))
	v.Field("Ability Score Increase", abilityBonuses(e["ability"]))
	v.Entries(e.Entries())
}

func formatBackground(v *View, e reference.Entity) {
	header(v, e, "Background")
	v.Field("Skill Proficiencies", keyedTrue(e["skillProficiencies"]))
	v.Field("Tool Proficiencies", keyedTrue(e["toolProficiencies"]))
	v.Entries(e.Entries())
}

func formatRace(v *View, e reference.Entity) {
	header(v, e, "Race")
	v.Field("Size", sizeLine(e["size"]))
	v.Field("Speed", speedLine(e["speed"]))
	v.Field("Ability Scores", abilityBonuses(e["ability"]))
	v.Field("Traits", stringList(e["traitTags"]))
	v.Entries(e.Entries())
}

func formatFeature(v *View, e reference.Entity) {
	subtitle := "Feature"
	if class, ok := e.String("className"); ok && class != "" {
		subtitle = class + " feature"
		if level, ok := asInt(e["level"]); ok {
			subtitle = fmt.Sprintf("%s %s", ordinal(level)+"-level", subtitle)
		}
	}
	header(v, e, subtitle)
	v.Field("Prerequisite", prerequisites(e["prerequisite"]))
	v.Entries(e.Entries())
}

func formatItem(v *View, e reference.Entity) {
	var subtitle []string
	if category, ok := e.String("weaponCategory"); ok && category != "" {
		subtitle = append(subtitle, capitalize(category)+" weapon")
	}
	if rarity, ok := e.String("rarity"); ok && rarity != "" && rarity != "none" {
		subtitle = append(subtitle, rarity)
	}
	if e["reqAttune"] == true {
		subtitle = append(subtitle, "(requires attunement)")
	} else if attune, ok := e["reqAttune"].(string); ok {
		subtitle = append(subtitle, "(requires attunement "+attune+")")
	}
	header(v, e, strings.Join(subtitle, ", "))

	v.Field("Damage", itemDamage(e))
	v.Field("Armor Class", asString(e["ac"]))
	v.Field("Properties", stringList(e["property"]))
	if weight := asString(e["weight"]); weight != "" {
		v.Field("Weight", weight+" lb.")
	}
	v.Field("Value", itemValue(e["value"]))
	v.Entries(e.Entries())
}

func formatAction(v *View, e reference.Entity) {
	header(v, e, "Action")
	v.Field("Time", castingTime(e["time"]))
	v.Entries(e.Entries())
}

func formatSkill(v *View, e reference.Entity) {
	ability := asString(e["ability"])
	if name, ok := abilityNames[ability]; ok {
		ability = name
	}
	header(v, e, "Skill ("+ability+")")
	v.Entries(e.Entries())
}

func formatVariantRule(v *View, e reference.Entity) {
	header(v, e, "Variant Rule")
	v.Entries(e.Entries())
}

func formatCondition(v *View, e reference.Entity) {
	header(v, e, "Condition")
	v.Entries(e.Entries())
}
