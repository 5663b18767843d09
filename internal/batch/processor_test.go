package batch_test

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/suite"
	"golang.org/x/net/html"

	"github.com/KirkDiggler/rpg-lore/internal/batch"
	"github.com/KirkDiggler/rpg-lore/internal/errors"
	"github.com/KirkDiggler/rpg-lore/internal/markup"
)

const fireballAnchor = `<span class="hover-link" tabindex="0" data-hover-type="spell" ` +
	`data-hover-name="Fireball" data-hover-source="PHB">Fireball</span>`

type ProcessorTestSuite struct {
	suite.Suite
	processor *batch.Processor
	ctx       context.Context
}

func (s *ProcessorTestSuite) SetupTest() {
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))

	var err error
	s.processor, err = batch.NewProcessor(&batch.Config{
		Markup: markup.NewRenderer(&markup.Config{Logger: logger}),
		Logger: logger,
	})
	s.Require().NoError(err)
	s.ctx = context.Background()
}

func (s *ProcessorTestSuite) parse(doc string) *html.Node {
	root, err := html.Parse(strings.NewReader(doc))
	s.Require().NoError(err)
	return root
}

func (s *ProcessorTestSuite) render(n *html.Node) string {
	var buf bytes.Buffer
	s.Require().NoError(html.Render(&buf, n))
	return buf.String()
}

func (s *ProcessorTestSuite) TestNewProcessorValidation() {
	_, err := batch.NewProcessor(&batch.Config{})
	s.Error(err)

	_, err = batch.NewProcessor(&batch.Config{
		Markup:           markup.NewRenderer(nil),
		ContentSelectors: []string{"div > p"},
	})
	s.Error(err)
	s.True(errors.IsInvalidArgument(err))
}

func (s *ProcessorTestSuite) TestContentRendersAnchors() {
	root := s.parse(`<div class="feature-description">Cast {@spell Fireball|PHB} now &amp; then</div>`)

	stats, err := s.processor.ProcessRegion(s.ctx, root, batch.Options{})
	s.Require().NoError(err)

	out := s.render(root)
	s.Contains(out, fireballAnchor)
	s.Contains(out, "Cast "+fireballAnchor+" now &amp; then")
	s.Contains(out, `data-markup-processed="true"`)
	s.Equal(1, stats.Elements)
	s.Equal(1, stats.Rendered)
}

func (s *ProcessorTestSuite) TestProcessedElementsSkippedUnlessForced() {
	root := s.parse(`<div class="markup">{@spell Fireball}</div>`)

	_, err := s.processor.ProcessRegion(s.ctx, root, batch.Options{})
	s.Require().NoError(err)

	stats, err := s.processor.ProcessRegion(s.ctx, root, batch.Options{})
	s.Require().NoError(err)
	s.Equal(0, stats.Elements)

	stats, err = s.processor.ProcessRegion(s.ctx, root, batch.Options{Force: true})
	s.Require().NoError(err)
	s.Equal(1, stats.Elements)
	s.Equal(0, stats.Rendered)
	s.Equal(1, strings.Count(s.render(root), "hover-link"))
}

func (s *ProcessorTestSuite) TestDisplayNameUsesPlainText() {
	root := s.parse(`<ul><li><span class="display-name">{@item Longsword|PHB|Sword} &amp; board</span></li></ul>`)

	_, err := s.processor.ProcessRegion(s.ctx, root, batch.Options{})
	s.Require().NoError(err)

	out := s.render(root)
	s.Contains(out, `>Sword &amp; board</span>`)
	s.NotContains(out, "hover-link")
}

func (s *ProcessorTestSuite) TestSkipsScriptsAndExistingAnchors() {
	root := s.parse(`<div class="markup"><script>var x = "{@spell Nope}";</script>` +
		`<span class="hover-link">{@spell Keep}</span> {@b bold}</div>`)

	_, err := s.processor.ProcessRegion(s.ctx, root, batch.Options{})
	s.Require().NoError(err)

	out := s.render(root)
	s.Contains(out, `"{@spell Nope}"`)
	s.Contains(out, `<span class="hover-link">{@spell Keep}</span>`)
	s.Contains(out, "<strong>bold</strong>")
}

func (s *ProcessorTestSuite) TestUnmatchedElementsUntouched() {
	root := s.parse(`<p>{@spell Fireball}</p>`)

	stats, err := s.processor.ProcessRegion(s.ctx, root, batch.Options{})
	s.Require().NoError(err)

	s.Equal(0, stats.Elements)
	s.Contains(s.render(root), "<p>{@spell Fireball}</p>")
}

func (s *ProcessorTestSuite) TestLegacyAnchorsNormalized() {
	root := s.parse(`<p><span class="reference-link" data-type="spell" data-name="Shield">Shield</span></p>`)

	stats, err := s.processor.ProcessRegion(s.ctx, root, batch.Options{})
	s.Require().NoError(err)

	out := s.render(root)
	s.Equal(1, stats.Legacy)
	s.Contains(out, `class="reference-link hover-link"`)
	s.Contains(out, `data-hover-type="spell"`)
	s.Contains(out, `data-hover-name="Shield"`)
	s.Contains(out, `data-hover-source="PHB"`)
	s.Contains(out, `tabindex="0"`)
}

func (s *ProcessorTestSuite) TestInlineFormatting() {
	doc := `<div class="markup">some *emphasis* here</div>`

	root := s.parse(doc)
	stats, err := s.processor.ProcessRegion(s.ctx, root, batch.Options{})
	s.Require().NoError(err)
	s.Equal(0, stats.Formatted)
	s.Contains(s.render(root), "some *emphasis* here")

	root = s.parse(doc)
	stats, err = s.processor.ProcessRegion(s.ctx, root, batch.Options{InlineFormatting: true})
	s.Require().NoError(err)
	s.Equal(1, stats.Formatted)
	s.Contains(s.render(root), "some <em>emphasis</em> here")
}

func (s *ProcessorTestSuite) TestCanceledContext() {
	root := s.parse(`<div class="markup">{@spell Fireball}</div>`)
	ctx, cancel := context.WithCancel(s.ctx)
	cancel()

	_, err := s.processor.ProcessRegion(ctx, root, batch.Options{})

	s.Error(err)
	s.True(errors.IsCanceled(err))
}

func (s *ProcessorTestSuite) TestNilRoot() {
	_, err := s.processor.ProcessRegion(s.ctx, nil, batch.Options{})
	s.True(errors.IsInvalidArgument(err))
}

func TestProcessorSuite(t *testing.T) {
	suite.Run(t, new(ProcessorTestSuite))
}
