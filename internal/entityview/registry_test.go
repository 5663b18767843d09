package entityview_test

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/rpg-lore/internal/entities/reference"
	"github.com/KirkDiggler/rpg-lore/internal/entityview"
	"github.com/KirkDiggler/rpg-lore/internal/markup"
)

type RegistryTestSuite struct {
	suite.Suite
	logs     *bytes.Buffer
	registry *entityview.Registry
}

func (s *RegistryTestSuite) SetupTest() {
	s.logs = &bytes.Buffer{}
	logger := slog.New(slog.NewTextHandler(s.logs, nil))

	var err error
	s.registry, err = entityview.NewRegistry(&entityview.Config{
		Markup: markup.NewRenderer(&markup.Config{Logger: logger}),
		Logger: logger,
	})
	s.Require().NoError(err)
}

func (s *RegistryTestSuite) TestNewRegistryRequiresMarkup() {
	_, err := entityview.NewRegistry(&entityview.Config{})
	s.Error(err)
}

func (s *RegistryTestSuite) TestDetect() {
	testCases := []struct {
		name     string
		entity   reference.Entity
		expected entityview.Kind
	}{
		{"creature", reference.Entity{"cr": "1/4", "size": []any{"S"}, "speed": map[string]any{"walk": 30.0}}, entityview.KindCreature},
		{"class", reference.Entity{"hd": map[string]any{"number": 1.0, "faces": 10.0}}, entityview.KindClass},
		{"spell", reference.Entity{"level": 3.0, "school": "V", "time": []any{}}, entityview.KindSpell},
		{"feat", reference.Entity{"prerequisite": []any{}, "entries": []any{}}, entityview.KindFeat},
		{"background", reference.Entity{"prerequisite": []any{}, "skillProficiencies": []any{}}, entityview.KindBackground},
		{"race", reference.Entity{"size": []any{"M"}, "speed": 30.0}, entityview.KindRace},
		{"feature", reference.Entity{"featureType": []any{"EI"}}, entityview.KindFeature},
		{"item by weight", reference.Entity{"weight": 3.0}, entityview.KindItem},
		{"item by value", reference.Entity{"value": 1500.0}, entityview.KindItem},
		{"action", reference.Entity{"time": []any{"Action"}, "entries": []any{}}, entityview.KindAction},
		{"skill", reference.Entity{"ability": "str", "entries": []any{}}, entityview.KindSkill},
		{"non-string ability is not a skill", reference.Entity{"ability": []any{}}, entityview.KindGeneric},
		{"variant rule", reference.Entity{"ruleType": "O", "entries": []any{}}, entityview.KindVariantRule},
		{"condition", reference.Entity{"entries": []any{"You can't see."}}, entityview.KindCondition},
		{"generic", reference.Entity{"name": "Mystery"}, entityview.KindGeneric},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			s.Equal(tc.expected, s.registry.Detect(tc.entity))
		})
	}
}

func (s *RegistryTestSuite) TestMatchesFlagsAmbiguousPayloads() {
	entity := reference.Entity{"cr": "1", "size": []any{"M"}, "speed": 30.0, "entries": []any{}}

	s.Equal([]entityview.Kind{
		entityview.KindCreature,
		entityview.KindRace,
		entityview.KindCondition,
	}, s.registry.Matches(entity))
	s.Equal(entityview.KindCreature, s.registry.Detect(entity))
}

func (s *RegistryTestSuite) TestRenderSpell() {
	spell := reference.Entity{
		"name":   "Fireball",
		"source": "PHB",
		"page":   241.0,
		"level":  3.0,
		"school": "V",
		"time":   []any{map[string]any{"number": 1.0, "unit": "action"}},
		"range": map[string]any{
			"type":     "point",
			"distance": map[string]any{"type": "feet", "amount": 150.0},
		},
		"components": map[string]any{"v": true, "s": true, "m": "a tiny ball of bat guano and sulfur"},
		"duration":   []any{map[string]any{"type": "instant"}},
		"entries": []any{
			"A bright streak flashes. Each creature takes {@damage 8d6} fire damage.",
		},
	}

	out := s.registry.Render(s.registry.Detect(spell), spell)

	s.Contains(out, `tooltip-spell`)
	s.Contains(out, `<div class="tooltip-title">Fireball</div>`)
	s.Contains(out, "3rd-level evocation")
	s.Contains(out, "PHB p. 241")
	s.Contains(out, "1 action")
	s.Contains(out, "150 feet")
	s.Contains(out, "V, S, M (a tiny ball of bat guano and sulfur)")
	s.Contains(out, "Instantaneous")
	s.Contains(out, `data-roll="8d6"`)
}

func (s *RegistryTestSuite) TestEntriesContainNestedAnchors() {
	condition := reference.Entity{
		"name":   "Blinded",
		"source": "PHB",
		"entries": []any{
			map[string]any{
				"type": "list",
				"items": []any{
					"A blinded creature can't see and automatically fails any ability check that requires sight.",
					"Attack rolls against the creature have advantage, as per {@condition Invisible}.",
				},
			},
		},
	}

	out := s.registry.RenderResult(reference.Found("condition", "Blinded", "PHB", condition))

	s.Contains(out, "tooltip-condition")
	s.Contains(out, "<ul><li>")
	s.Contains(out, `data-hover-type="condition"`)
	s.Contains(out, `data-hover-name="Invisible"`)
}

func (s *RegistryTestSuite) TestNamedEntriesAndMarkdown() {
	feat := reference.Entity{
		"name":         "Alert",
		"prerequisite": []any{map[string]any{"level": 4.0}},
		"entries": []any{
			map[string]any{
				"type":    "entries",
				"name":    "Always Ready",
				"entries": []any{"You gain a **+5** bonus to initiative."},
			},
		},
	}

	out := s.registry.Render(entityview.KindFeat, feat)

	s.Contains(out, "4th level")
	s.Contains(out, "<strong><em>Always Ready.</em></strong>")
	s.Contains(out, "<strong>+5</strong>")
}

func (s *RegistryTestSuite) TestEntriesNeverNestBlocks() {
	condition := reference.Entity{
		"name":    "Grappled",
		"entries": []any{"1. Speed becomes 0.", "# Not a heading", "- ends early"},
	}

	out := s.registry.Render(entityview.KindCondition, condition)

	s.Contains(out, "<p>1. Speed becomes 0.</p>")
	s.Contains(out, "<p># Not a heading</p>")
	s.Contains(out, "<p>- ends early</p>")
	s.NotContains(out, "<ol")
	s.NotContains(out, "<h1")
	s.NotContains(out, "<ul")
}

func (s *RegistryTestSuite) TestRenderCreature() {
	goblin := reference.Entity{
		"name":   "Goblin",
		"source": "MM",
		"size":   []any{"S"},
		"type":   map[string]any{"type": "humanoid", "tags": []any{"goblinoid"}},
		"ac":     []any{map[string]any{"ac": 15.0, "from": []any{"leather armor", "shield"}}},
		"hp":     map[string]any{"average": 7.0, "formula": "2d6"},
		"speed":  map[string]any{"walk": 30.0},
		"str":    8.0,
		"dex":    14.0,
		"con":    10.0,
		"int":    10.0,
		"wis":    8.0,
		"cha":    8.0,
		"cr":     "1/4",
		"action": []any{
			map[string]any{"name": "Scimitar", "entries": []any{"{@atk mw} {@hit 4} to hit."}},
		},
	}

	out := s.registry.Render(s.registry.Detect(goblin), goblin)

	s.Contains(out, "Small humanoid (goblinoid)")
	s.Contains(out, "15 (leather armor, shield)")
	s.Contains(out, `data-roll="2d6"`)
	s.Contains(out, "30 ft.")
	s.Contains(out, "8 (-1)")
	s.Contains(out, "14 (+2)")
	s.Contains(out, "1/4")
	s.Contains(out, "Melee Weapon Attack:")
	s.Contains(out, `data-roll="1d20+4"`)
}

func (s *RegistryTestSuite) TestMistypedFieldsNeverPanic() {
	weird := reference.Entity{
		"name":       42.0,
		"level":      "three",
		"school":     []any{1, 2},
		"time":       "whenever",
		"range":      7.0,
		"components": nil,
		"duration":   map[string]any{"type": 1},
		"entries":    []any{nil, 3.0, map[string]any{"type": "table", "rows": "nope"}, []any{"deep"}},
	}

	s.NotPanics(func() {
		out := s.registry.Render(s.registry.Detect(weird), weird)
		s.NotEmpty(out)
	})
}

func (s *RegistryTestSuite) TestPanickingFormatterFallsBackToGeneric() {
	s.registry.Register(entityview.KindSpell, func(*entityview.View, reference.Entity) {
		panic("bad formatter")
	})
	spell := reference.Entity{"name": "Shield", "level": 1.0, "school": "A", "entries": []any{"A wall."}}

	out := s.registry.Render(entityview.KindSpell, spell)

	s.Contains(out, "tooltip-generic")
	s.Contains(out, "Shield")
	s.Contains(out, "<p>A wall.</p>")
	s.Contains(s.logs.String(), "entity formatter failed")
}

func (s *RegistryTestSuite) TestUnknownKindUsesGeneric() {
	out := s.registry.Render(entityview.Kind("deity"), reference.Entity{"name": "Pelor"})

	s.Contains(out, "tooltip-generic")
	s.Contains(out, "Pelor")
}

func (s *RegistryTestSuite) TestRenderResultErrors() {
	s.Equal(`<div class="tooltip-error">spell not found</div>`,
		s.registry.RenderResult(reference.Failed("spell", "Nope", "PHB", "spell not found")))
	s.Equal(`<div class="tooltip-error">Error loading details</div>`,
		s.registry.RenderResult(nil))
	s.Contains(s.registry.RenderResult(reference.Failed("x", "y", "z", "<b>")), "&lt;b&gt;")
}

func (s *RegistryTestSuite) TestTable() {
	rule := reference.Entity{
		"name":     "Exhaustion",
		"ruleType": "C",
		"entries": []any{
			map[string]any{
				"type":      "table",
				"colLabels": []any{"Level", "Effect"},
				"rows": []any{
					[]any{"1", "Disadvantage on ability checks"},
					[]any{"2", "Speed halved"},
				},
			},
		},
	}

	out := s.registry.Render(s.registry.Detect(rule), rule)

	s.Contains(out, "tooltip-variantrule")
	s.Contains(out, "<th>Level</th>")
	s.Contains(out, "<td>Speed halved</td>")
}

func TestRegistrySuite(t *testing.T) {
	suite.Run(t, new(RegistryTestSuite))
}
