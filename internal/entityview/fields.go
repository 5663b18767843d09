package entityview

import (
	"fmt"
	"slices"
	"strings"

	"github.com/KirkDiggler/rpg-lore/internal/entities/reference"
)

var (
	schoolNames = map[string]string{
		"A": "abjuration",
		"C": "conjuration",
		"D": "divination",
		"E": "enchantment",
		"V": "evocation",
		"I": "illusion",
		"N": "necromancy",
		"T": "transmutation",
	}

	sizeNames = map[string]string{
		"T": "Tiny",
		"S": "Small",
		"M": "Medium",
		"L": "Large",
		"H": "Huge",
		"G": "Gargantuan",
	}

	abilityNames = map[string]string{
		"str": "Strength",
		"dex": "Dexterity",
		"con": "Constitution",
		"int": "Intelligence",
		"wis": "Wisdom",
		"cha": "Charisma",
	}

	abilityOrder = []string{"str", "dex", "con", "int", "wis", "cha"}

	damageTypes = map[string]string{
		"A": "acid",
		"B": "bludgeoning",
		"C": "cold",
		"F": "fire",
		"O": "force",
		"L": "lightning",
		"N": "necrotic",
		"P": "piercing",
		"I": "poison",
		"Y": "psychic",
		"R": "radiant",
		"S": "slashing",
		"T": "thunder",
	}
)

func asInt(v any) (int, bool) {
	switch n := v.(type) {
	case float64:
		return int(n), true
	case int:
		return n, true
	case int64:
		return int(n), true
	default:
		return 0, false
	}
}

func asString(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case float64, int, int64, bool:
		return fmt.Sprint(s)
	default:
		return ""
	}
}

func ordinal(n int) string {
	suffix := "th"
	switch {
	case n%100 >= 11 && n%100 <= 13:
	case n%10 == 1:
		suffix = "st"
	case n%10 == 2:
		suffix = "nd"
	case n%10 == 3:
		suffix = "rd"
	}
	return fmt.Sprintf("%d%s", n, suffix)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// spellLevelLine renders "3rd-level evocation" or "Evocation cantrip"
func spellLevelLine(e reference.Entity) string {
	school := asString(e["school"])
	if name, ok := schoolNames[strings.ToUpper(school)]; ok {
		school = name
	}
	school = strings.ToLower(school)

	level, ok := asInt(e["level"])
	if !ok {
		return capitalize(school)
	}
	if level == 0 {
		return capitalize(school) + " cantrip"
	}

	line := fmt.Sprintf("%s-level %s", ordinal(level), school)
	if meta, ok := e["meta"].(map[string]any); ok && meta["ritual"] == true {
		line += " (ritual)"
	}
	return line
}

// castingTime renders [{number, unit}] lists
func castingTime(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	list, _ := v.([]any)
	var parts []string
	for _, item := range list {
		switch t := item.(type) {
		case string:
			parts = append(parts, t)
		case map[string]any:
			number, _ := asInt(t["number"])
			unit := asString(t["unit"])
			if unit == "bonus" {
				unit = "bonus action"
			}
			if number != 1 && unit != "" {
				unit += "s"
			}
			part := strings.TrimSpace(fmt.Sprintf("%d %s", number, unit))
			if cond := asString(t["condition"]); cond != "" {
				part += ", " + cond
			}
			parts = append(parts, part)
		}
	}
	return strings.Join(parts, " or ")
}

func spellRange(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	r, ok := v.(map[string]any)
	if !ok {
		return ""
	}

	rangeType := asString(r["type"])
	distance, _ := r["distance"].(map[string]any)
	distType := asString(distance["type"])
	amount, hasAmount := asInt(distance["amount"])

	switch {
	case rangeType == "special":
		return "Special"
	case distType == "self" || distType == "touch" || distType == "sight" || distType == "unlimited":
		return capitalize(distType)
	case hasAmount && rangeType != "point" && rangeType != "":
		return fmt.Sprintf("Self (%d-%s %s)", amount, strings.TrimSuffix(distType, "s"), rangeType)
	case hasAmount:
		return fmt.Sprintf("%d %s", amount, distType)
	}
	return capitalize(distType)
}

func spellComponents(v any) string {
	c, ok := v.(map[string]any)
	if !ok {
		return asString(v)
	}

	var parts []string
	if c["v"] == true {
		parts = append(parts, "V")
	}
	if c["s"] == true {
		parts = append(parts, "S")
	}
	switch m := c["m"].(type) {
	case string:
		parts = append(parts, "M ("+m+")")
	case map[string]any:
		parts = append(parts, "M ("+asString(m["text"])+")")
	case bool:
		if m {
			parts = append(parts, "M")
		}
	}
	return strings.Join(parts, ", ")
}

func spellDuration(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	list, _ := v.([]any)
	var parts []string
	for _, item := range list {
		d, ok := item.(map[string]any)
		if !ok {
			continue
		}
		switch asString(d["type"]) {
		case "instant":
			parts = append(parts, "Instantaneous")
		case "permanent":
			parts = append(parts, "Until dispelled")
		case "special":
			parts = append(parts, "Special")
		case "timed":
			inner, _ := d["duration"].(map[string]any)
			amount, _ := asInt(inner["amount"])
			unit := asString(inner["type"])
			if amount != 1 {
				unit += "s"
			}
			text := fmt.Sprintf("%d %s", amount, unit)
			if d["concentration"] == true {
				text = "Concentration, up to " + text
			}
			parts = append(parts, text)
		}
	}
	return strings.Join(parts, " or ")
}

func sizeLine(v any) string {
	var codes []string
	switch s := v.(type) {
	case string:
		codes = []string{s}
	case []any:
		for _, code := range s {
			codes = append(codes, asString(code))
		}
	}

	names := make([]string, 0, len(codes))
	for _, code := range codes {
		if name, ok := sizeNames[code]; ok {
			names = append(names, name)
		} else if code != "" {
			names = append(names, code)
		}
	}
	return strings.Join(names, " or ")
}

func creatureType(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case map[string]any:
		base := asString(t["type"])
		if tags, ok := t["tags"].([]any); ok && len(tags) > 0 {
			names := make([]string, 0, len(tags))
			for _, tag := range tags {
				names = append(names, asString(tag))
			}
			base += " (" + strings.Join(names, ", ") + ")"
		}
		return base
	}
	return ""
}

func armorClass(v any) string {
	list, ok := v.([]any)
	if !ok {
		return asString(v)
	}
	parts := make([]string, 0, len(list))
	for _, item := range list {
		switch ac := item.(type) {
		case map[string]any:
			part := asString(ac["ac"])
			if from, ok := ac["from"].([]any); ok && len(from) > 0 {
				sources := make([]string, 0, len(from))
				for _, f := range from {
					sources = append(sources, asString(f))
				}
				part += " (" + strings.Join(sources, ", ") + ")"
			}
			parts = append(parts, part)
		default:
			parts = append(parts, asString(ac))
		}
	}
	return strings.Join(parts, ", ")
}

func hitPoints(v any) string {
	hp, ok := v.(map[string]any)
	if !ok {
		return asString(v)
	}
	average := asString(hp["average"])
	if formula := asString(hp["formula"]); formula != "" {
		return fmt.Sprintf("%s ({@dice %s})", average, formula)
	}
	return average
}

func speedLine(v any) string {
	speeds, ok := v.(map[string]any)
	if !ok {
		if n, ok := asInt(v); ok {
			return fmt.Sprintf("%d ft.", n)
		}
		return asString(v)
	}

	var parts []string
	if walk, ok := asInt(speeds["walk"]); ok {
		parts = append(parts, fmt.Sprintf("%d ft.", walk))
	}
	for _, mode := range []string{"burrow", "climb", "fly", "swim"} {
		switch s := speeds[mode].(type) {
		case float64:
			parts = append(parts, fmt.Sprintf("%s %d ft.", mode, int(s)))
		case map[string]any:
			if n, ok := asInt(s["number"]); ok {
				parts = append(parts, fmt.Sprintf("%s %d ft.", mode, n))
			}
		}
	}
	return strings.Join(parts, ", ")
}

func challenge(v any) string {
	if cr, ok := v.(map[string]any); ok {
		return asString(cr["cr"])
	}
	return asString(v)
}

func abilityModifier(score int) string {
	diff := score - 10
	mod := diff / 2
	if diff < 0 && diff%2 != 0 {
		mod--
	}
	return fmt.Sprintf("%+d", mod)
}

// abilityTable renders the six scores when present
func abilityTable(e reference.Entity) string {
	var b strings.Builder
	found := false
	b.WriteString(`<table class="tooltip-abilities"><tr>`)
	for _, ab := range abilityOrder {
		fmt.Fprintf(&b, "<th>%s</th>", strings.ToUpper(ab))
	}
	b.WriteString("</tr><tr>")
	for _, ab := range abilityOrder {
		score, ok := asInt(e[ab])
		if !ok {
			b.WriteString("<td>-</td>")
			continue
		}
		found = true
		fmt.Fprintf(&b, "<td>%d (%s)</td>", score, abilityModifier(score))
	}
	b.WriteString("</tr></table>")
	if !found {
		return ""
	}
	return b.String()
}

// abilityBonuses renders race ability lists such as [{"dex": 2, "int": 1}]
func abilityBonuses(v any) string {
	list, _ := v.([]any)
	var parts []string
	for _, item := range list {
		bonuses, ok := item.(map[string]any)
		if !ok {
			continue
		}
		for _, ab := range abilityOrder {
			if n, ok := asInt(bonuses[ab]); ok {
				parts = append(parts, fmt.Sprintf("%s %+d", abilityNames[ab], n))
			}
		}
	}
	return strings.Join(parts, ", ")
}

// keyedTrue renders lists of {"athletics": true} objects as names
func keyedTrue(v any) string {
	list, _ := v.([]any)
	var names []string
	for _, item := range list {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		keys := make([]string, 0, len(m))
		for k, val := range m {
			if val == true {
				keys = append(keys, k)
			}
		}
		slices.Sort(keys)
		for _, k := range keys {
			names = append(names, capitalize(k))
		}
	}
	return strings.Join(names, ", ")
}

// stringList joins a list of scalars, or returns a lone scalar
func stringList(v any) string {
	list, ok := v.([]any)
	if !ok {
		return asString(v)
	}
	parts := make([]string, 0, len(list))
	for _, item := range list {
		if s := asString(item); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, ", ")
}

// prerequisites renders 5etools prerequisite objects loosely
func prerequisites(v any) string {
	list, ok := v.([]any)
	if !ok {
		return asString(v)
	}

	var parts []string
	for _, item := range list {
		p, ok := item.(map[string]any)
		if !ok {
			if s := asString(item); s != "" {
				parts = append(parts, s)
			}
			continue
		}

		keys := make([]string, 0, len(p))
		for k := range p {
			keys = append(keys, k)
		}
		slices.Sort(keys)
		for _, k := range keys {
			switch k {
			case "level":
				if n, ok := asInt(p[k]); ok {
					parts = append(parts, ordinal(n)+" level")
				} else if lvl, ok := p[k].(map[string]any); ok {
					if n, ok := asInt(lvl["level"]); ok {
						parts = append(parts, ordinal(n)+" level")
					}
				}
			case "spellcasting", "spellcasting2020":
				parts = append(parts, "The ability to cast at least one spell")
			case "ability":
				parts = append(parts, abilityRequirement(p[k]))
			case "other":
				parts = append(parts, asString(p[k]))
			default:
				if s := stringList(p[k]); s != "" {
					parts = append(parts, s)
				}
			}
		}
	}
	return strings.Join(parts, "; ")
}

func abilityRequirement(v any) string {
	list, _ := v.([]any)
	var parts []string
	for _, item := range list {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		for _, ab := range abilityOrder {
			if n, ok := asInt(m[ab]); ok {
				parts = append(parts, fmt.Sprintf("%s %d or higher", abilityNames[ab], n))
			}
		}
	}
	return strings.Join(parts, " or ")
}

// itemValue renders copper piece values in the largest whole coin
func itemValue(v any) string {
	cp, ok := asInt(v)
	if !ok {
		return asString(v)
	}
	switch {
	case cp >= 100 && cp%100 == 0:
		return fmt.Sprintf("%d gp", cp/100)
	case cp >= 10 && cp%10 == 0:
		return fmt.Sprintf("%d sp", cp/10)
	default:
		return fmt.Sprintf("%d cp", cp)
	}
}

func itemDamage(e reference.Entity) string {
	dmg := asString(e["dmg1"])
	if dmg == "" {
		return ""
	}
	out := "{@damage " + dmg + "}"
	dmgType := asString(e["dmgType"])
	if name, ok := damageTypes[dmgType]; ok {
		dmgType = name
	}
	if dmgType != "" {
		out += " " + dmgType
	}
	if versatile := asString(e["dmg2"]); versatile != "" {
		out += " (versatile {@damage " + versatile + "})"
	}
	return out
}

func hitDie(v any) string {
	hd, ok := v.(map[string]any)
	if !ok {
		return asString(v)
	}
	number, okN := asInt(hd["number"])
	faces, okF := asInt(hd["faces"])
	if !okN || !okF {
		return ""
	}
	return fmt.Sprintf("{@dice %dd%d}", number, faces)
}

func abilityList(v any) string {
	list, _ := v.([]any)
	names := make([]string, 0, len(list))
	for _, item := range list {
		code := asString(item)
		if name, ok := abilityNames[code]; ok {
			names = append(names, name)
		} else if code != "" {
			names = append(names, code)
		}
	}
	return strings.Join(names, ", ")
}
