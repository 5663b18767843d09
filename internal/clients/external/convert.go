package external

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/fadedpez/dnd5e-api/clients/dnd5e"
	"github.com/fadedpez/dnd5e-api/entities"

	"github.com/KirkDiggler/rpg-lore/internal/entities/reference"
)

var schoolCodes = map[string]string{
	"abjuration":    "A",
	"conjuration":   "C",
	"divination":    "D",
	"enchantment":   "E",
	"evocation":     "V",
	"illusion":      "I",
	"necromancy":    "N",
	"transmutation": "T",
}

var sizeCodes = map[string]string{
	"tiny":       "T",
	"small":      "S",
	"medium":     "M",
	"large":      "L",
	"huge":       "H",
	"gargantuan": "G",
}

// coinValues converts a cost unit to copper pieces
var coinValues = map[string]float64{
	"cp": 1,
	"sp": 10,
	"ep": 50,
	"gp": 100,
	"pp": 1000,
}

func newEntity(name string) reference.Entity {
	return reference.Entity{
		"name":   name,
		"source": Source,
	}
}

func (s *Store) spell(slug string) (reference.Entity, error) {
	spell, err := s.api.GetSpell(slug)
	if err != nil || spell == nil {
		return nil, err
	}
	return convertSpell(spell), nil
}

func convertSpell(spell *entities.Spell) reference.Entity {
	e := newEntity(spell.Name)
	e["level"] = float64(spell.SpellLevel)
	if spell.SpellSchool != nil {
		school := strings.ToLower(spell.SpellSchool.Name)
		if code, ok := schoolCodes[school]; ok {
			e["school"] = code
		} else {
			e["school"] = spell.SpellSchool.Name
		}
	}
	if spell.CastingTime != "" {
		e["time"] = spell.CastingTime
	}
	if spell.Range != "" {
		e["range"] = spell.Range
	}
	if spell.Duration != "" {
		duration := spell.Duration
		if spell.Concentration && !strings.Contains(strings.ToLower(duration), "concentration") {
			duration = "Concentration, " + strings.ToLower(duration[:1]) + duration[1:]
		}
		e["duration"] = duration
	}
	if spell.Ritual {
		e["meta"] = map[string]any{"ritual": true}
	}

	var entries []any
	if spell.SpellDamage != nil && spell.SpellDamage.SpellDamageType != nil {
		entries = append(entries, fmt.Sprintf("This spell deals %s damage.",
			strings.ToLower(spell.SpellDamage.SpellDamageType.Name)))
	}
	if spell.DC != nil && spell.DC.DCType != nil {
		save := fmt.Sprintf("Targets make a %s saving throw", spell.DC.DCType.Name)
		if spell.DC.DCSuccess != "" {
			save += fmt.Sprintf(" (%s on a success)", spell.DC.DCSuccess)
		}
		entries = append(entries, save+".")
	}
	if spell.AreaOfEffect != nil {
		entries = append(entries, fmt.Sprintf("Area: %d-foot %s.", spell.AreaOfEffect.Size, spell.AreaOfEffect.Type))
	}
	var classes []string
	for _, class := range spell.SpellClasses {
		if class != nil {
			classes = append(classes, fmt.Sprintf("{@class %s}", class.Name))
		}
	}
	if len(classes) > 0 {
		entries = append(entries, "Classes: "+strings.Join(classes, ", "))
	}
	if entries != nil {
		e["entries"] = entries
	}
	return e
}

func (s *Store) class(slug string) (reference.Entity, error) {
	class, err := s.api.GetClass(slug)
	if err != nil || class == nil {
		return nil, err
	}
	return convertClass(class), nil
}

func convertClass(class *entities.Class) reference.Entity {
	e := newEntity(class.Name)
	e["hd"] = map[string]any{
		"number": float64(1),
		"faces":  float64(class.HitDie),
	}

	saves := make([]any, 0, len(class.SavingThrows))
	for _, st := range class.SavingThrows {
		if st != nil {
			saves = append(saves, strings.ToLower(st.Name))
		}
	}
	e["proficiency"] = saves

	proficiencies := map[string]any{}
	if armor := referenceNames(class.ArmorProficiencies); len(armor) > 0 {
		proficiencies["armor"] = armor
	}
	if weapons := referenceNames(class.WeaponProficiencies); len(weapons) > 0 {
		proficiencies["weapons"] = weapons
	}
	if len(proficiencies) > 0 {
		e["startingProficiencies"] = proficiencies
	}
	if class.Description != "" {
		e["entries"] = []any{class.Description}
	}
	return e
}

func (s *Store) race(slug string) (reference.Entity, error) {
	race, err := s.api.GetRace(slug)
	if err != nil || race == nil {
		return nil, err
	}
	return convertRace(race), nil
}

func convertRace(race *entities.Race) reference.Entity {
	e := newEntity(race.Name)
	if code, ok := sizeCodes[strings.ToLower(race.Size)]; ok {
		e["size"] = []any{code}
	}
	e["speed"] = float64(race.Speed)

	bonuses := map[string]any{}
	for _, bonus := range race.AbilityBonuses {
		if bonus != nil && bonus.AbilityScore != nil {
			bonuses[strings.ToLower(bonus.AbilityScore.Key)] = float64(bonus.Bonus)
		}
	}
	if len(bonuses) > 0 {
		e["ability"] = []any{bonuses}
	}
	if languages := referenceNames(race.Languages); len(languages) > 0 {
		e["languages"] = languages
	}

	var entries []any
	if race.SizeDescription != "" {
		entries = append(entries, race.SizeDescription)
	}
	if traits := referenceNames(race.Traits); len(traits) > 0 {
		entries = append(entries, map[string]any{
			"type":    "entries",
			"name":    "Traits",
			"entries": []any{strings.Join(anyStrings(traits), ", ")},
		})
	}
	if entries != nil {
		e["entries"] = entries
	}
	return e
}

func (s *Store) feature(slug string) (reference.Entity, error) {
	feature, err := s.api.GetFeature(slug)
	if err != nil || feature == nil {
		return nil, err
	}
	return convertFeature(feature), nil
}

func convertFeature(feature *entities.Feature) reference.Entity {
	e := newEntity(feature.Name)
	e["featureType"] = []any{"CF"}
	e["level"] = float64(feature.Level)
	if feature.Class != nil {
		e["className"] = feature.Class.Name
		e["entries"] = []any{
			fmt.Sprintf("A {@class %s} feature gained at level %d.", feature.Class.Name, feature.Level),
		}
	}
	return e
}

func (s *Store) equipment(slug string) (reference.Entity, error) {
	equipment, err := s.api.GetEquipment(slug)
	if err != nil || equipment == nil {
		return nil, err
	}
	return convertEquipment(equipment), nil
}

func convertEquipment(equipment dnd5e.EquipmentInterface) reference.Entity {
	switch eq := equipment.(type) {
	case *entities.Weapon:
		e := newEntity(eq.Name)
		e["type"] = weaponType(eq.WeaponRange)
		e["weaponCategory"] = strings.ToLower(eq.WeaponCategory)
		e["weight"] = float64(eq.Weight)
		setValue(e, eq.Cost)
		if eq.Damage != nil {
			e["dmg1"] = eq.Damage.DamageDice
			if eq.Damage.DamageType != nil {
				e["dmgType"] = eq.Damage.DamageType.Name
			}
		}
		if properties := referenceNames(eq.Properties); len(properties) > 0 {
			e["property"] = properties
		}
		return e
	case *entities.Armor:
		e := newEntity(eq.Name)
		e["armor"] = true
		e["weight"] = float64(eq.Weight)
		setValue(e, eq.Cost)
		var entries []any
		if eq.ArmorClass != nil {
			ac := fmt.Sprintf("%d", eq.ArmorClass.Base)
			if eq.ArmorClass.DexBonus {
				ac += " + Dex modifier"
			}
			e["ac"] = float64(eq.ArmorClass.Base)
			entries = append(entries, "Armor Class "+ac+".")
		}
		if eq.ArmorCategory != "" {
			entries = append(entries, eq.ArmorCategory+" armor.")
		}
		if eq.StrMinimum > 0 {
			e["strength"] = fmt.Sprintf("%d", eq.StrMinimum)
		}
		if eq.StealthDisadvantage {
			e["stealth"] = true
			entries = append(entries, "The wearer has disadvantage on Dexterity ({@skill Stealth}) checks.")
		}
		if entries != nil {
			e["entries"] = entries
		}
		return e
	case *entities.Equipment:
		e := newEntity(eq.Name)
		e["weight"] = float64(eq.Weight)
		setValue(e, eq.Cost)
		return e
	default:
		return toEntity(equipment)
	}
}

func weaponType(weaponRange string) string {
	if strings.EqualFold(weaponRange, "ranged") {
		return "R"
	}
	return "M"
}

func setValue(e reference.Entity, cost *entities.Cost) {
	if cost == nil {
		return
	}
	if per, ok := coinValues[strings.ToLower(cost.Unit)]; ok {
		e["value"] = float64(cost.Quantity) * per
	}
}

func (s *Store) monster(slug string) (reference.Entity, error) {
	monster, err := s.api.GetMonster(slug)
	if err != nil || monster == nil {
		return nil, err
	}
	e := toEntity(monster)
	if cr := pick(e, "challenge_rating", "ChallengeRating", "challengeRating"); cr != nil {
		e["cr"] = fmt.Sprintf("%v", cr)
	} else {
		e["cr"] = "0"
	}
	return e, nil
}

func (s *Store) skill(slug string) (reference.Entity, error) {
	skill, err := s.api.GetSkill(slug)
	if err != nil || skill == nil {
		return nil, err
	}
	e := toEntity(skill)
	ability := ""
	if ref, ok := pick(e, "ability_score", "AbilityScore", "abilityScore").(map[string]any); ok {
		ability = strings.ToLower(nameOf(ref))
	}
	e["ability"] = ability
	return e, nil
}

func (s *Store) background(slug string) (reference.Entity, error) {
	background, err := s.api.GetBackground(slug)
	if err != nil || background == nil {
		return nil, err
	}
	e := toEntity(background)
	skills := map[string]any{}
	if list, ok := pick(e, "starting_proficiencies", "StartingProficiencies", "startingProficiencies").([]any); ok {
		for _, item := range list {
			ref, ok := item.(map[string]any)
			if !ok {
				continue
			}
			name := strings.TrimPrefix(nameOf(ref), "Skill: ")
			if name != "" {
				skills[strings.ToLower(name)] = true
			}
		}
	}
	e["skillProficiencies"] = []any{skills}
	return e, nil
}

// toEntity flattens an API struct through its JSON form. Used for entities
// whose shape only matters for name, source and a couple of probed fields.
func toEntity(v any) reference.Entity {
	e := reference.Entity{}
	data, err := json.Marshal(v)
	if err == nil {
		_ = json.Unmarshal(data, &e)
	}
	if !e.Has("name") {
		if name, ok := e["Name"].(string); ok {
			e["name"] = name
		}
	}
	e["source"] = Source
	return e
}

func pick(e reference.Entity, keys ...string) any {
	for _, key := range keys {
		if v, ok := e[key]; ok && v != nil {
			return v
		}
	}
	return nil
}

func nameOf(ref map[string]any) string {
	for _, key := range []string{"name", "Name", "index", "key", "Key"} {
		if s, ok := ref[key].(string); ok && s != "" {
			return s
		}
	}
	return ""
}

func referenceNames(refs []*entities.ReferenceItem) []any {
	names := make([]any, 0, len(refs))
	for _, ref := range refs {
		if ref != nil && ref.Name != "" {
			names = append(names, ref.Name)
		}
	}
	return names
}

func anyStrings(values []any) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
