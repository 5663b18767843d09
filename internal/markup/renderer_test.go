package markup_test

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/rpg-lore/internal/markup"
)

type RendererTestSuite struct {
	suite.Suite
	logs     *bytes.Buffer
	renderer *markup.Renderer
}

func (s *RendererTestSuite) SetupTest() {
	s.logs = &bytes.Buffer{}
	s.renderer = markup.NewRenderer(&markup.Config{
		Logger: slog.New(slog.NewTextHandler(s.logs, &slog.HandlerOptions{Level: slog.LevelDebug})),
	})
}

func (s *RendererTestSuite) TestReferenceTagBecomesAnchor() {
	out := s.renderer.ProcessString("Cast {@spell Fireball|PHB} for damage.")

	s.Equal(
		`Cast <span class="hover-link" tabindex="0" data-hover-type="spell" data-hover-name="Fireball" data-hover-source="PHB">Fireball</span> for damage.`,
		out,
	)
}

func (s *RendererTestSuite) TestReferenceDefaultsSourceAndDisplayOverride() {
	s.Run("default source", func() {
		out := s.renderer.Render("item", "Longsword")
		s.Contains(out, `data-hover-source="PHB"`)
		s.Contains(out, `>Longsword</span>`)
	})

	s.Run("display override", func() {
		out := s.renderer.Render("creature", "Goblin|MM|goblins")
		s.Contains(out, `data-hover-type="creature"`)
		s.Contains(out, `data-hover-name="Goblin"`)
		s.Contains(out, `data-hover-source="MM"`)
		s.Contains(out, `>goblins</span>`)
	})

	s.Run("optional feature maps to feature", func() {
		out := s.renderer.Render("optionalfeature", "Agonizing Blast|PHB")
		s.Contains(out, `data-hover-type="feature"`)
	})
}

func (s *RendererTestSuite) TestUnknownKindDegradesToEscapedFirstField() {
	out := s.renderer.ProcessString("See {@unknownkind <Name>|XYZ} now")

	s.Equal("See &lt;Name&gt; now", out)
	s.NotContains(out, "{@")
	s.Contains(s.logs.String(), "unknown markup tag")
}

func (s *RendererTestSuite) TestPanickingHandlerIsRecovered() {
	s.renderer.RegisterHandler("boom", func(string) string {
		panic("handler exploded")
	})

	var out string
	s.NotPanics(func() {
		out = s.renderer.Render("boom", "Thing|SRC")
	})
	s.Equal("Thing", out)
	s.Contains(s.logs.String(), "markup handler failed")
}

func (s *RendererTestSuite) TestRegisterHandlerLastWins() {
	s.renderer.RegisterHandler("spell", func(args string) string { return "first" })
	s.renderer.RegisterHandler("spell", func(args string) string { return "second" })

	s.Equal("second", s.renderer.Render("spell", "Fireball"))
	s.Contains(s.renderer.Kinds(), "spell")
}

func (s *RendererTestSuite) TestDiceKinds() {
	testCases := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "dice",
			input:    "{@dice 2d6}",
			expected: `<span class="roll" data-roll="2d6">2d6</span>`,
		},
		{
			name:     "damage with spaces",
			input:    "{@damage 1d8 + 3}",
			expected: `<span class="roll damage" data-roll="1d8+3">1d8 + 3</span>`,
		},
		{
			name:     "hit bonus",
			input:    "{@hit 5}",
			expected: `<span class="roll" data-roll="1d20+5">+5</span>`,
		},
		{
			name:     "negative bonus",
			input:    "{@d20 -1}",
			expected: `<span class="roll" data-roll="1d20-1">-1</span>`,
		},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			s.Equal(tc.expected, s.renderer.ProcessString(tc.input))
		})
	}
}

func (s *RendererTestSuite) TestFormattingKinds() {
	testCases := []struct {
		input    string
		expected string
	}{
		{"{@b bold text}", "<strong>bold text</strong>"},
		{"{@italic slanted}", "<em>slanted</em>"},
		{"{@dc 15}", "DC 15"},
		{"{@recharge 5}", "(Recharge 5-6)"},
		{"{@recharge}", "(Recharge 6)"},
		{"{@chance 25}", "25 percent"},
		{"{@atk mw}", "<em>Melee Weapon Attack:</em>"},
		{"{@filter spells|spells|level=1}", "spells"},
		{"{@link SRD|https://example.com/srd}", `<a href="https://example.com/srd" target="_blank" rel="noopener noreferrer">SRD</a>`},
		{"{@link bad|javascript:alert(1)}", "bad"},
	}

	for _, tc := range testCases {
		s.Run(tc.input, func() {
			s.Equal(tc.expected, s.renderer.ProcessString(tc.input))
		})
	}
}

func (s *RendererTestSuite) TestScanEdgeCases() {
	s.Run("unclosed tag stays literal", func() {
		s.Equal("broken {@spell Fireball", s.renderer.ProcessString("broken {@spell Fireball"))
	})

	s.Run("escaped brace inside args", func() {
		out := s.renderer.ProcessString(`{@b a\}b}`)
		s.Equal("<strong>a}b</strong>", out)
	})

	s.Run("adjacent tags", func() {
		out := s.renderer.ProcessString("{@b x}{@i y}")
		s.Equal("<strong>x</strong><em>y</em>", out)
	})

	s.Run("literal text untouched", func() {
		s.Equal("a < b & c", s.renderer.ProcessString("a < b & c"))
	})

	s.Run("sentinel without kind", func() {
		s.Equal("{@ nothing}", s.renderer.ProcessString("{@ nothing}"))
	})
}

func (s *RendererTestSuite) TestProcessTextEscapesLiterals() {
	out := s.renderer.ProcessText("a < b {@spell Shield}")

	s.True(strings.HasPrefix(out, "a &lt; b "))
	s.Contains(out, `data-hover-name="Shield"`)
}

func (s *RendererTestSuite) TestDisplayText() {
	out := s.renderer.DisplayText("{@spell Fireball|PHB|Big Boom} & {@dice 2d6}")

	s.Equal("Big Boom &amp; 2d6", out)
	s.NotContains(out, "hover-link")
}

func (s *RendererTestSuite) TestScanSegments() {
	segments := markup.Scan("x {@spell A|B} y")

	s.Require().Len(segments, 3)
	s.Equal("x ", segments[0].Literal)
	s.Require().NotNil(segments[1].Token)
	s.Equal("spell", segments[1].Token.Kind)
	s.Equal("A|B", segments[1].Token.RawArgs)
	s.Equal(" y", segments[2].Literal)
}

func (s *RendererTestSuite) TestInlineMarkdown() {
	s.Equal("<em>hello</em> world", markup.InlineMarkdown("*hello* world"))
	s.Equal("plain", markup.InlineMarkdown("plain"))

	anchor := markup.Anchor("spell", "Fireball", "PHB", "Fireball")
	s.Equal(anchor+" <strong>now</strong>", markup.InlineMarkdown(anchor+" **now**"))

	s.Equal("1. First step", markup.InlineMarkdown("1. First step"))
	s.Equal("# Heading", markup.InlineMarkdown("# Heading"))
	s.Equal("one\n\ntwo", markup.InlineMarkdown("one\n\ntwo"))
}

func (s *RendererTestSuite) TestEmptyRegistry() {
	r := markup.NewRenderer(&markup.Config{SkipBuiltins: true, Logger: slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))})

	s.Empty(r.Kinds())
	s.Equal("Fireball", r.ProcessString("{@spell Fireball|PHB}"))
}

func TestRendererSuite(t *testing.T) {
	suite.Run(t, new(RendererTestSuite))
}
