package markup

import (
	"fmt"
	"html"
	"strings"

	"github.com/KirkDiggler/rpg-lore/internal/entities/reference"
)

// referenceKinds maps reference tag kinds to the entity type their anchors carry
var referenceKinds = map[string]string{
	"action":          "action",
	"background":      "background",
	"class":           "class",
	"condition":       "condition",
	"creature":        "creature",
	"feat":            "feat",
	"feature":         "feature",
	"item":            "item",
	"monster":         "monster",
	"optionalfeature": "feature",
	"race":            "race",
	"skill":           "skill",
	"spell":           "spell",
	"variantrule":     "variantrule",
}

var attackLabels = map[string]string{
	"mw":    "Melee Weapon Attack:",
	"rw":    "Ranged Weapon Attack:",
	"mw,rw": "Melee or Ranged Weapon Attack:",
	"ms":    "Melee Spell Attack:",
	"rs":    "Ranged Spell Attack:",
	"ms,rs": "Melee or Ranged Spell Attack:",
}

// RegisterBuiltins registers the standard reference and formatting kinds
func RegisterBuiltins(r *Renderer) {
	for kind, entityType := range referenceKinds {
		r.RegisterHandler(kind, referenceHandler(entityType))
	}

	for _, kind := range []string{"b", "bold"} {
		r.RegisterHandler(kind, wrap("strong"))
	}
	for _, kind := range []string{"i", "italic"} {
		r.RegisterHandler(kind, wrap("em"))
	}
	for _, kind := range []string{"s", "strike"} {
		r.RegisterHandler(kind, wrap("s"))
	}
	r.RegisterHandler("u", wrap("u"))
	r.RegisterHandler("note", func(args string) string {
		return `<span class="note">` + html.EscapeString(args) + `</span>`
	})

	r.RegisterHandler("dice", rollHandler(RollClass))
	r.RegisterHandler("damage", rollHandler(RollClass+" damage"))
	r.RegisterHandler("hit", bonusHandler)
	r.RegisterHandler("d20", bonusHandler)

	r.RegisterHandler("dc", func(args string) string {
		return "DC " + html.EscapeString(reference.SplitArgs(args)[0])
	})
	r.RegisterHandler("recharge", func(args string) string {
		return html.EscapeString(rechargeLabel(reference.SplitArgs(args)[0]))
	})
	r.RegisterHandler("chance", func(args string) string {
		fields := reference.SplitArgs(args)
		if len(fields) > 1 && fields[1] != "" {
			return html.EscapeString(fields[1])
		}
		return html.EscapeString(fields[0]) + " percent"
	})
	r.RegisterHandler("atk", func(args string) string {
		return "<em>" + html.EscapeString(attackLabel(reference.SplitArgs(args)[0])) + "</em>"
	})
	r.RegisterHandler("filter", func(args string) string {
		return html.EscapeString(reference.SplitArgs(args)[0])
	})
	r.RegisterHandler("link", linkHandler)
}

func referenceHandler(entityType string) Handler {
	return func(args string) string {
		token := reference.Token{Kind: entityType, RawArgs: args}
		name := token.Name()
		if name == "" {
			return ""
		}
		return Anchor(entityType, name, token.Source(), token.DisplayText())
	}
}

func wrap(element string) Handler {
	return func(args string) string {
		return fmt.Sprintf("<%s>%s</%s>", element, html.EscapeString(args), element)
	}
}

func rollHandler(class string) Handler {
	return func(args string) string {
		fields := reference.SplitArgs(args)
		notation := strings.ReplaceAll(fields[0], " ", "")
		display := fields[0]
		if len(fields) > 1 && fields[1] != "" {
			display = fields[1]
		}
		return Roll(class, notation, display)
	}
}

// bonusHandler renders an attack or check bonus that rolls as 1d20+N
func bonusHandler(args string) string {
	fields := reference.SplitArgs(args)
	bonus := signed(fields[0])
	display := bonus
	if len(fields) > 1 && fields[1] != "" {
		display = fields[1]
	}
	return Roll(RollClass, "1d20"+bonus, display)
}

func linkHandler(args string) string {
	fields := reference.SplitArgs(args)
	text := fields[0]
	if len(fields) < 2 {
		return html.EscapeString(text)
	}

	href := fields[1]
	if !strings.HasPrefix(href, "https://") && !strings.HasPrefix(href, "http://") {
		return html.EscapeString(text)
	}

	return fmt.Sprintf(`<a href="%s" target="_blank" rel="noopener noreferrer">%s</a>`,
		html.EscapeString(href), html.EscapeString(text))
}

// signed prefixes a bare number with "+"
func signed(value string) string {
	value = strings.TrimSpace(value)
	if value == "" || strings.HasPrefix(value, "+") || strings.HasPrefix(value, "-") {
		return value
	}
	return "+" + value
}

func attackLabel(code string) string {
	code = strings.ReplaceAll(strings.ToLower(code), " ", "")
	if label, ok := attackLabels[code]; ok {
		return label
	}
	return "Attack:"
}

func rechargeLabel(value string) string {
	switch value {
	case "", "6":
		return "(Recharge 6)"
	default:
		return fmt.Sprintf("(Recharge %s-6)", value)
	}
}
