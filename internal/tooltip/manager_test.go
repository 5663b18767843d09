package tooltip_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/KirkDiggler/rpg-toolkit/events"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"github.com/KirkDiggler/rpg-lore/internal/entities/reference"
	"github.com/KirkDiggler/rpg-lore/internal/pkg/clock"
	"github.com/KirkDiggler/rpg-lore/internal/pkg/idgen"
	"github.com/KirkDiggler/rpg-lore/internal/tooltip"
	tooltipmock "github.com/KirkDiggler/rpg-lore/internal/tooltip/mock"
)

type ManagerTestSuite struct {
	suite.Suite
	ctrl         *gomock.Controller
	mockResolver *tooltipmock.MockResolver
	mockRenderer *tooltipmock.MockRenderer
	mockCopier   *tooltipmock.MockCopier
	clock        *clock.Manual
	logs         *bytes.Buffer
	changes      [][]tooltip.Tooltip
	published    []string

	// queued holds resolutions when asyncQueue is set
	asyncQueue bool
	queued     []func()

	manager *tooltip.Manager

	fireball tooltip.Anchor
}

func (s *ManagerTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.mockResolver = tooltipmock.NewMockResolver(s.ctrl)
	s.mockRenderer = tooltipmock.NewMockRenderer(s.ctrl)
	s.mockCopier = tooltipmock.NewMockCopier(s.ctrl)
	s.clock = clock.NewManual(time.Unix(0, 0))
	s.logs = &bytes.Buffer{}
	s.changes = nil
	s.published = nil
	s.asyncQueue = false
	s.queued = nil

	s.mockRenderer.EXPECT().RenderResult(gomock.Any()).DoAndReturn(
		func(r *reference.Result) string {
			return "<div>" + r.Name + "</div>"
		}).AnyTimes()

	bus := events.NewBus()
	bus.SubscribeFunc(tooltip.EventOpened, 0, s.recordEvent)
	bus.SubscribeFunc(tooltip.EventClosed, 0, s.recordEvent)

	var err error
	s.manager, err = tooltip.NewManager(&tooltip.Config{
		Resolver:    s.mockResolver,
		Renderer:    s.mockRenderer,
		Copier:      s.mockCopier,
		Clock:       s.clock,
		IDGenerator: idgen.NewSequential("tt"),
		Go: func(f func()) {
			if s.asyncQueue {
				s.queued = append(s.queued, f)
				return
			}
			f()
		},
		OnChange: func(snapshot []tooltip.Tooltip) {
			s.changes = append(s.changes, snapshot)
		},
		EventBus: bus,
		Logger: slog.New(slog.NewTextHandler(s.logs, &slog.HandlerOptions{Level: slog.LevelDebug})),
	})
	s.Require().NoError(err)

	s.fireball = tooltip.Anchor{ID: "a-fireball", Type: "spell", Name: "Fireball", Source: "PHB"}
}

func (s *ManagerTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *ManagerTestSuite) recordEvent(_ context.Context, e events.Event) error {
	s.published = append(s.published, e.Type()+" "+e.Source().GetID()+" "+e.Target().GetID())
	return nil
}

func (s *ManagerTestSuite) expectResolve(a tooltip.Anchor) {
	s.mockResolver.EXPECT().Resolve(gomock.Any(), a.Type, a.Name, a.Source).
		Return(reference.Found(a.Type, a.Name, a.Source, reference.Entity{"name": a.Name}))
}

func (s *ManagerTestSuite) open(a tooltip.Anchor) {
	s.expectResolve(a)
	s.manager.HoverEnter(a)
	s.clock.Advance(tooltip.DefaultShowDelay)
}

func (s *ManagerTestSuite) nested(parentID, entityType, name string) tooltip.Anchor {
	return tooltip.Anchor{
		ID:        "a-" + name,
		Type:      entityType,
		Name:      name,
		Source:    "PHB",
		TooltipID: parentID,
	}
}

func (s *ManagerTestSuite) runQueued() {
	queued := s.queued
	s.queued = nil
	for _, f := range queued {
		f()
	}
}

func (s *ManagerTestSuite) TestNewManagerValidates() {
	_, err := tooltip.NewManager(&tooltip.Config{})
	s.Error(err)

	_, err = tooltip.NewManager(nil)
	s.Error(err)
}

func (s *ManagerTestSuite) TestShowAfterDelay() {
	s.expectResolve(s.fireball)
	s.manager.PointerMove(tooltip.Point{X: 100, Y: 100})
	s.manager.HoverEnter(s.fireball)

	s.clock.Advance(199 * time.Millisecond)
	s.Empty(s.manager.Snapshot())

	s.clock.Advance(time.Millisecond)
	stack := s.manager.Snapshot()
	s.Require().Len(stack, 1)
	s.Equal("tt_1", stack[0].ID)
	s.Equal(0, stack[0].Depth)
	s.Empty(stack[0].ParentID)
	s.Equal("<div>Fireball</div>", stack[0].Content)
	s.Equal(reference.NewKey("spell", "Fireball"), stack[0].Key)
	s.Equal(tooltip.Point{X: 112, Y: 112}, stack[0].Position)
	s.Require().Len(s.changes, 1)
}

func (s *ManagerTestSuite) TestNestedChain() {
	s.open(s.fireball)
	s.open(s.nested("tt_1", "condition", "Blinded"))

	stack := s.manager.Snapshot()
	s.Require().Len(stack, 2)
	s.Equal(1, stack[1].Depth)
	s.Equal("tt_1", stack[1].ParentID)
}

func (s *ManagerTestSuite) TestCircularReferenceIgnored() {
	s.open(s.fireball)

	again := s.nested("tt_1", "spell", "  FIREBALL ")
	s.manager.HoverEnter(again)
	s.Equal(0, s.clock.Pending())
	s.clock.Advance(time.Second)

	s.Len(s.manager.Snapshot(), 1)
	s.Contains(s.logs.String(), "skipping circular reference")
}

func (s *ManagerTestSuite) TestAnchorInsideUnknownTooltipIgnored() {
	s.manager.HoverEnter(s.nested("tt_missing", "spell", "Shield"))

	s.Equal(0, s.clock.Pending())
}

func (s *ManagerTestSuite) TestLeaveBeforeDelayCancelsShow() {
	s.manager.HoverEnter(s.fireball)
	s.clock.Advance(100 * time.Millisecond)
	s.manager.HoverLeave(s.fireball, tooltip.Outside())
	s.clock.Advance(time.Second)

	s.Empty(s.manager.Snapshot())
}

func (s *ManagerTestSuite) TestHideAfterLeavingSystem() {
	s.open(s.fireball)
	s.manager.HoverLeave(s.fireball, tooltip.Outside())

	s.clock.Advance(299 * time.Millisecond)
	s.Len(s.manager.Snapshot(), 1)

	s.clock.Advance(time.Millisecond)
	s.Empty(s.manager.Snapshot())
}

func (s *ManagerTestSuite) TestEnteringTooltipCancelsHide() {
	s.open(s.fireball)
	s.manager.HoverLeave(s.fireball, tooltip.Target{Kind: tooltip.TargetTooltip, TooltipID: "tt_1"})
	s.manager.TooltipLeave("tt_1", tooltip.Outside())
	s.clock.Advance(100 * time.Millisecond)
	s.manager.TooltipEnter("tt_1")
	s.clock.Advance(time.Second)

	s.Len(s.manager.Snapshot(), 1)
}

func (s *ManagerTestSuite) TestHideStopsAtFirstPinned() {
	s.open(s.fireball)
	s.open(s.nested("tt_1", "condition", "Blinded"))
	third := s.nested("tt_2", "condition", "Deafened")
	s.open(third)
	s.Require().True(s.manager.TogglePin("tt_2"))

	s.manager.HoverLeave(third, tooltip.Outside())
	s.clock.Advance(tooltip.DefaultHideDelay)

	stack := s.manager.Snapshot()
	s.Require().Len(stack, 2)
	s.Equal("tt_1", stack[0].ID)
	s.Equal("tt_2", stack[1].ID)
	s.True(stack[1].Pinned)
}

func (s *ManagerTestSuite) TestReenteringAnchorCancelsHide() {
	s.open(s.fireball)
	s.manager.HoverLeave(s.fireball, tooltip.Outside())
	s.clock.Advance(100 * time.Millisecond)

	s.manager.HoverEnter(s.fireball)
	s.clock.Advance(time.Second)

	s.Len(s.manager.Snapshot(), 1)
}

func (s *ManagerTestSuite) TestEnteringOpenNestedAnchorCancelsHide() {
	s.open(s.fireball)
	blinded := s.nested("tt_1", "condition", "Blinded")
	s.open(blinded)
	s.manager.HoverLeave(blinded, tooltip.Outside())
	s.clock.Advance(100 * time.Millisecond)

	s.manager.HoverEnter(s.nested("tt_1", "condition", "blinded"))
	s.clock.Advance(time.Second)

	s.Len(s.manager.Snapshot(), 2)
}

func (s *ManagerTestSuite) TestPinnedRootSurvivesSiblingHover() {
	s.open(s.fireball)
	s.Require().True(s.manager.TogglePin("tt_1"))

	s.open(tooltip.Anchor{ID: "a-shield", Type: "spell", Name: "Shield", Source: "PHB"})

	stack := s.manager.Snapshot()
	s.Require().Len(stack, 2)
	s.Equal("tt_1", stack[0].ID)
	s.True(stack[0].Pinned)
	s.Equal("tt_2", stack[1].ID)
	s.Equal(1, stack[1].Depth)
}

func (s *ManagerTestSuite) TestPinnedRootSurvivesNestedHover() {
	s.open(s.fireball)
	s.open(s.nested("tt_1", "condition", "Blinded"))
	s.Require().True(s.manager.TogglePin("tt_1"))

	s.open(s.nested("tt_1", "condition", "Deafened"))

	stack := s.manager.Snapshot()
	s.Require().Len(stack, 2)
	s.Equal("tt_1", stack[0].ID)
	s.True(stack[0].Pinned)
	s.Equal("tt_3", stack[1].ID)
	s.Equal("Deafened", stack[1].Anchor.Name)
}

func (s *ManagerTestSuite) TestDepthsStayContiguous() {
	assertContiguous := func() {
		for i, t := range s.manager.Snapshot() {
			s.Equal(i, t.Depth, "tooltip %s", t.ID)
		}
	}

	s.open(s.fireball)
	s.open(s.nested("tt_1", "condition", "Blinded"))
	s.open(s.nested("tt_2", "condition", "Deafened"))
	assertContiguous()

	s.Require().True(s.manager.TogglePin("tt_2"))
	s.Require().True(s.manager.Close("tt_1"))
	assertContiguous()

	s.open(tooltip.Anchor{ID: "a-shield", Type: "spell", Name: "Shield", Source: "PHB"})
	assertContiguous()

	s.open(s.nested("tt_4", "condition", "Prone"))
	assertContiguous()

	s.manager.HoverLeave(s.nested("tt_4", "condition", "Prone"), tooltip.Outside())
	s.clock.Advance(tooltip.DefaultHideDelay)
	assertContiguous()

	stack := s.manager.Snapshot()
	s.Require().Len(stack, 1)
	s.Equal("tt_2", stack[0].ID)
}

func (s *ManagerTestSuite) TestEscapeClosesPinnedTop() {
	s.open(s.fireball)
	s.open(s.nested("tt_1", "condition", "Blinded"))
	s.Require().True(s.manager.TogglePin("tt_2"))

	s.True(s.manager.HandleKey(tooltip.KeyPress{Name: "Escape"}))

	stack := s.manager.Snapshot()
	s.Require().Len(stack, 1)
	s.Equal("tt_1", stack[0].ID)
}

func (s *ManagerTestSuite) TestPublishesStackEvents() {
	s.open(s.fireball)
	blinded := s.nested("tt_1", "condition", "Blinded")
	s.open(blinded)
	s.True(s.manager.Close("tt_2"))

	s.manager.HoverLeave(blinded, tooltip.Outside())
	s.clock.Advance(tooltip.DefaultHideDelay)

	s.Equal([]string{
		"tooltip.opened spell:fireball tt_1",
		"tooltip.opened condition:blinded tt_2",
		"tooltip.closed condition:blinded tt_2",
		"tooltip.closed spell:fireball tt_1",
	}, s.published)
}

func (s *ManagerTestSuite) TestClearPublishesTopFirst() {
	s.open(s.fireball)
	s.open(s.nested("tt_1", "condition", "Blinded"))
	s.published = nil

	s.manager.Clear()

	s.Equal([]string{
		"tooltip.closed condition:blinded tt_2",
		"tooltip.closed spell:fireball tt_1",
	}, s.published)
}

func (s *ManagerTestSuite) TestShowTrimsToDepth() {
	s.open(s.fireball)
	s.open(s.nested("tt_1", "condition", "Blinded"))

	s.open(tooltip.Anchor{ID: "a-shield", Type: "spell", Name: "Shield", Source: "PHB"})

	stack := s.manager.Snapshot()
	s.Require().Len(stack, 1)
	s.Equal("tt_3", stack[0].ID)
	s.Equal(0, stack[0].Depth)
}

func (s *ManagerTestSuite) TestStaleResultDiscarded() {
	s.asyncQueue = true
	shield := tooltip.Anchor{ID: "a-shield", Type: "spell", Name: "Shield", Source: "PHB"}

	s.expectResolve(s.fireball)
	s.manager.HoverEnter(s.fireball)
	s.clock.Advance(tooltip.DefaultShowDelay)
	s.Require().Len(s.queued, 1)

	s.manager.HoverLeave(s.fireball, tooltip.Target{Kind: tooltip.TargetAnchor})
	s.manager.HoverEnter(shield)
	s.runQueued()

	s.Empty(s.manager.Snapshot())
	s.Contains(s.logs.String(), "discarding stale tooltip")

	s.expectResolve(shield)
	s.clock.Advance(tooltip.DefaultShowDelay)
	s.runQueued()

	stack := s.manager.Snapshot()
	s.Require().Len(stack, 1)
	s.Equal("Shield", stack[0].Anchor.Name)
}

func (s *ManagerTestSuite) TestCloseKeepsChildrenAndReindexes() {
	s.open(s.fireball)
	s.open(s.nested("tt_1", "condition", "Blinded"))
	s.open(s.nested("tt_2", "condition", "Deafened"))

	s.True(s.manager.Close("tt_2"))
	s.False(s.manager.Close("tt_2"))

	stack := s.manager.Snapshot()
	s.Require().Len(stack, 2)
	s.Equal("tt_1", stack[0].ID)
	s.Equal(0, stack[0].Depth)
	s.Equal("tt_3", stack[1].ID)
	s.Equal(1, stack[1].Depth)
}

func (s *ManagerTestSuite) TestClear() {
	s.open(s.fireball)
	s.manager.Clear()

	s.Empty(s.manager.Snapshot())
	s.Equal(0, s.clock.Pending())
}

func (s *ManagerTestSuite) TestKeyboardShortcuts() {
	s.False(s.manager.HandleKey(tooltip.KeyPress{Name: "Escape"}))

	s.open(s.fireball)

	s.Run("ctrl+p toggles pin", func() {
		s.True(s.manager.HandleKey(tooltip.KeyPress{Name: "p", Ctrl: true}))
		s.True(s.manager.Snapshot()[0].Pinned)
		s.True(s.manager.HandleKey(tooltip.KeyPress{Name: "p", Meta: true}))
		s.False(s.manager.Snapshot()[0].Pinned)
	})

	s.Run("plain p is ignored", func() {
		s.False(s.manager.HandleKey(tooltip.KeyPress{Name: "p"}))
	})

	s.Run("copy defers to text selection", func() {
		s.False(s.manager.HandleKey(tooltip.KeyPress{Name: "c", Ctrl: true, HasSelection: true}))
	})

	s.Run("copy", func() {
		s.mockCopier.EXPECT().Copy(gomock.Any(), "Fireball").Return(nil)
		s.True(s.manager.HandleKey(tooltip.KeyPress{Name: "c", Meta: true}))
	})

	s.Run("escape removes the top", func() {
		s.True(s.manager.HandleKey(tooltip.KeyPress{Name: "Escape"}))
		s.Empty(s.manager.Snapshot())
	})
}

func (s *ManagerTestSuite) TestDragPinnedOnly() {
	s.manager.PointerMove(tooltip.Point{X: 100, Y: 100})
	s.open(s.fireball)
	start := s.manager.Snapshot()[0].Position

	s.False(s.manager.DragStart("tt_1", start, false))

	s.manager.TogglePin("tt_1")
	s.False(s.manager.DragStart("tt_1", start, true))
	s.True(s.manager.DragStart("tt_1", tooltip.Point{X: start.X + 10, Y: start.Y + 10}, false))

	s.manager.DragMove(tooltip.Point{X: 500, Y: 400})
	s.Equal(tooltip.Point{X: 490, Y: 390}, s.manager.Snapshot()[0].Position)

	s.manager.DragMove(tooltip.Point{X: 5000, Y: 5000})
	s.Equal(tooltip.Point{X: 960, Y: 560}, s.manager.Snapshot()[0].Position)

	s.manager.DragEnd()
	s.manager.DragMove(tooltip.Point{X: 10, Y: 10})
	s.Equal(tooltip.Point{X: 960, Y: 560}, s.manager.Snapshot()[0].Position)
}

func (s *ManagerTestSuite) TestSetViewportReclamps() {
	s.manager.PointerMove(tooltip.Point{X: 1000, Y: 500})
	s.open(s.fireball)
	s.Equal(tooltip.Point{X: 668, Y: 512}, s.manager.Snapshot()[0].Position)

	s.manager.SetViewport(tooltip.Size{Width: 800, Height: 600})

	s.Equal(tooltip.Point{X: 480, Y: 360}, s.manager.Snapshot()[0].Position)
}

func TestManagerSuite(t *testing.T) {
	suite.Run(t, new(ManagerTestSuite))
}
