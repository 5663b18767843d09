package batch_test

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"golang.org/x/net/html"

	"github.com/KirkDiggler/rpg-lore/internal/batch"
	"github.com/KirkDiggler/rpg-lore/internal/markup"
	"github.com/KirkDiggler/rpg-lore/internal/pkg/clock"
)

type ObserverTestSuite struct {
	suite.Suite
	clock    *clock.Manual
	observer *batch.Observer
	flushes  []batch.Stats
	root     *html.Node
}

func (s *ObserverTestSuite) SetupTest() {
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	processor, err := batch.NewProcessor(&batch.Config{
		Markup: markup.NewRenderer(&markup.Config{Logger: logger}),
		Logger: logger,
	})
	s.Require().NoError(err)

	s.clock = clock.NewManual(time.Unix(0, 0))
	s.flushes = nil
	s.observer, err = batch.NewObserver(&batch.ObserverConfig{
		Processor: processor,
		Clock:     s.clock,
		OnFlush: func(stats batch.Stats, err error) {
			s.NoError(err)
			s.flushes = append(s.flushes, stats)
		},
		Logger: logger,
	})
	s.Require().NoError(err)

	s.root, err = html.Parse(strings.NewReader(
		`<section id="outer"><div class="markup" id="a">{@spell Shield}</div></section>` +
			`<div class="markup" id="b">{@condition Blinded}</div>`))
	s.Require().NoError(err)
}

func (s *ObserverTestSuite) byID(id string) *html.Node {
	var found *html.Node
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		for _, a := range n.Attr {
			if a.Key == "id" && a.Val == id {
				found = n
				return
			}
		}
		for c := n.FirstChild; c != nil && found == nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(s.root)
	s.Require().NotNil(found, id)
	return found
}

func (s *ObserverTestSuite) rendered() string {
	var buf bytes.Buffer
	s.Require().NoError(html.Render(&buf, s.root))
	return buf.String()
}

func (s *ObserverTestSuite) TestBurstFlushesOncePerTick() {
	s.observer.Inserted(s.byID("outer"), s.byID("a"))
	s.observer.Inserted(s.byID("b"))
	s.Equal(3, s.observer.Pending())
	s.Equal(1, s.clock.Pending())

	s.clock.Advance(batch.DefaultTick - time.Millisecond)
	s.Empty(s.flushes)

	s.clock.Advance(time.Millisecond)
	s.Require().Len(s.flushes, 1)
	s.Equal(2, s.flushes[0].Elements)
	s.Equal(2, s.flushes[0].Rendered)
	s.Equal(0, s.observer.Pending())
	s.Contains(s.rendered(), `data-hover-name="Shield"`)
	s.Contains(s.rendered(), `data-hover-name="Blinded"`)
}

func (s *ObserverTestSuite) TestManualFlushCancelsTick() {
	s.observer.Inserted(s.byID("a"))

	stats, err := s.observer.Flush(context.Background())
	s.Require().NoError(err)
	s.Equal(1, stats.Elements)
	s.Equal(0, s.clock.Pending())

	s.clock.Advance(time.Second)
	s.Empty(s.flushes)
}

func (s *ObserverTestSuite) TestStopDropsQueue() {
	s.observer.Inserted(s.byID("a"))
	s.observer.Stop()
	s.clock.Advance(time.Second)

	s.Empty(s.flushes)
	s.NotContains(s.rendered(), "hover-link")

	s.observer.Inserted(s.byID("b"))
	s.Equal(0, s.observer.Pending())
}

func (s *ObserverTestSuite) TestTextNodesIgnored() {
	s.observer.Inserted(&html.Node{Type: html.TextNode, Data: "{@spell Shield}"})

	s.Equal(0, s.observer.Pending())
	s.Equal(0, s.clock.Pending())
}

func TestObserverSuite(t *testing.T) {
	suite.Run(t, new(ObserverTestSuite))
}
