package session

import (
	"bytes"
	"context"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/KirkDiggler/rpg-toolkit/events"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/KirkDiggler/rpg-lore/internal/batch"
	"github.com/KirkDiggler/rpg-lore/internal/errors"
	"github.com/KirkDiggler/rpg-lore/internal/pkg/clock"
	"github.com/KirkDiggler/rpg-lore/internal/tooltip"
)

// Session is one host page: a tooltip stack plus the document it hovers over
type Session struct {
	id        string
	createdAt time.Time
	manager   *tooltip.Manager
	observer  *batch.Observer
	processor *batch.Processor
	options   batch.Options

	// guarded by Service.mu
	expiry    clock.Timer
	expiryGen uint64

	version atomic.Uint64

	mu         sync.Mutex
	lastActive time.Time
	lastCopied string
	lastFlush  batch.Stats
	viewed     []Viewed

	// docMu guards body; it is also the observer's Locker
	docMu sync.Mutex
	body  *html.Node
}

func newSession(s *Service, input CreateInput) (*Session, error) {
	now := s.cfg.Clock.Now()
	sess := &Session{
		id:         s.cfg.IDGenerator.Generate(),
		createdAt:  now,
		lastActive: now,
		processor:  s.cfg.Processor,
		options:    s.cfg.Options,
		body:       emptyBody(),
	}

	tcfg := s.cfg.Tooltip
	tcfg.Resolver = s.cfg.Resolver
	tcfg.Renderer = s.cfg.Renderer
	tcfg.Clock = s.cfg.Clock
	tcfg.Copier = sess
	tcfg.OnChange = func([]tooltip.Tooltip) { sess.version.Add(1) }
	bus := events.NewBus()
	bus.SubscribeFunc(tooltip.EventOpened, 0, sess.recordOpened)
	tcfg.EventBus = bus
	if tcfg.Logger == nil {
		tcfg.Logger = s.cfg.Logger
	}
	if input.Viewport.Width > 0 && input.Viewport.Height > 0 {
		tcfg.Viewport = input.Viewport
	}
	manager, err := tooltip.NewManager(&tcfg)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create tooltip manager")
	}
	sess.manager = manager

	observer, err := batch.NewObserver(&batch.ObserverConfig{
		Processor: s.cfg.Processor,
		Clock:     s.cfg.Clock,
		Tick:      s.cfg.Tick,
		Locker:    &sess.docMu,
		Options:   s.cfg.Options,
		OnFlush:   sess.recordFlush,
		Logger:    s.cfg.Logger.With("session_id", sess.id),
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create document observer")
	}
	sess.observer = observer

	return sess, nil
}

// Copy implements tooltip.Copier by remembering the text for the client
func (sess *Session) Copy(_ tooltip.Tooltip, text string) error {
	sess.mu.Lock()
	defer sess.mu.Unlock()
	sess.lastCopied = text
	return nil
}

// recordOpened keeps the most recently opened references, newest last
func (sess *Session) recordOpened(_ context.Context, e events.Event) error {
	source := e.Source()
	if source == nil {
		return nil
	}
	entry := Viewed{ID: source.GetID(), Type: source.GetType()}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	sess.viewed = slices.DeleteFunc(sess.viewed, func(v Viewed) bool { return v.ID == entry.ID })
	sess.viewed = append(sess.viewed, entry)
	if len(sess.viewed) > MaxViewed {
		sess.viewed = sess.viewed[len(sess.viewed)-MaxViewed:]
	}
	return nil
}

func (sess *Session) recordFlush(stats batch.Stats, _ error) {
	sess.mu.Lock()
	defer sess.mu.Unlock()
	sess.lastFlush = stats
}

func (sess *Session) markActive(now time.Time) {
	sess.mu.Lock()
	defer sess.mu.Unlock()
	sess.lastActive = now
}

func (sess *Session) view() *View {
	tooltips := sess.manager.Snapshot()
	pending := sess.observer.Pending()

	sess.mu.Lock()
	defer sess.mu.Unlock()
	return &View{
		ID:           sess.id,
		Tooltips:     tooltips,
		Version:      sess.version.Load(),
		LastCopied:   sess.lastCopied,
		Viewed:       slices.Clone(sess.viewed),
		LastFlush:    sess.lastFlush,
		PendingNodes: pending,
		CreatedAt:    sess.createdAt,
		LastActive:   sess.lastActive,
	}
}

func (sess *Session) close() {
	sess.observer.Stop()
	sess.manager.Clear()
}

func (sess *Session) dispatch(e Event) (bool, error) {
	m := sess.manager
	next := tooltip.Outside()
	if e.Next != nil {
		next = *e.Next
	}

	switch e.Type {
	case EventHoverEnter, EventFocusEnter:
		if e.Anchor == nil {
			return false, errors.InvalidArgumentf("%s requires an anchor", e.Type)
		}
		if e.Type == EventHoverEnter {
			m.HoverEnter(*e.Anchor)
		} else {
			m.FocusEnter(*e.Anchor)
		}
		return true, nil
	case EventHoverLeave, EventFocusLeave:
		if e.Anchor == nil {
			return false, errors.InvalidArgumentf("%s requires an anchor", e.Type)
		}
		if e.Type == EventHoverLeave {
			m.HoverLeave(*e.Anchor, next)
		} else {
			m.FocusLeave(*e.Anchor, next)
		}
		return true, nil
	case EventTooltipEnter:
		if e.TooltipID == "" {
			return false, errors.InvalidArgument("tooltip_enter requires tooltip_id")
		}
		m.TooltipEnter(e.TooltipID)
		return true, nil
	case EventTooltipLeave:
		if e.TooltipID == "" {
			return false, errors.InvalidArgument("tooltip_leave requires tooltip_id")
		}
		m.TooltipLeave(e.TooltipID, next)
		return true, nil
	case EventPointerMove:
		if e.Point == nil {
			return false, errors.InvalidArgument("pointer_move requires point")
		}
		m.PointerMove(*e.Point)
		return true, nil
	case EventPin:
		return m.TogglePin(e.TooltipID), nil
	case EventClose:
		return m.Close(e.TooltipID), nil
	case EventClear:
		m.Clear()
		return true, nil
	case EventKey:
		if e.Key == nil {
			return false, errors.InvalidArgument("key requires key")
		}
		return m.HandleKey(*e.Key), nil
	case EventDragStart:
		if e.Point == nil {
			return false, errors.InvalidArgument("drag_start requires point")
		}
		return m.DragStart(e.TooltipID, *e.Point, e.OnInteractive), nil
	case EventDragMove:
		if e.Point == nil {
			return false, errors.InvalidArgument("drag_move requires point")
		}
		m.DragMove(*e.Point)
		return true, nil
	case EventDragEnd:
		m.DragEnd()
		return true, nil
	case EventResize:
		if e.Size == nil {
			return false, errors.InvalidArgument("resize requires size")
		}
		m.SetViewport(*e.Size)
		return true, nil
	default:
		return false, errors.InvalidArgumentf("unknown event type %q", e.Type)
	}
}

func (sess *Session) setDocument(ctx context.Context, src string) (batch.Stats, error) {
	doc, err := html.Parse(strings.NewReader(src))
	if err != nil {
		return batch.Stats{}, errors.WrapWithCode(err, errors.CodeInvalidArgument, "failed to parse document")
	}
	body := findElement(doc, func(n *html.Node) bool { return n.DataAtom == atom.Body })
	if body == nil {
		body = emptyBody()
	}
	body.Parent = nil
	body.PrevSibling = nil
	body.NextSibling = nil

	sess.docMu.Lock()
	defer sess.docMu.Unlock()
	sess.body = body
	return sess.processor.ProcessRegion(ctx, body, sess.options)
}

func (sess *Session) insertFragment(parentID, src string) (int, error) {
	sess.docMu.Lock()
	parent := sess.body
	if parentID != "" {
		parent = findElement(sess.body, batch.Selector{ID: parentID}.Matches)
	}
	if parent == nil {
		sess.docMu.Unlock()
		return 0, errors.NotFoundf("element %s not found", parentID)
	}

	nodes, err := html.ParseFragment(strings.NewReader(src), parent)
	if err != nil {
		sess.docMu.Unlock()
		return 0, errors.WrapWithCode(err, errors.CodeInvalidArgument, "failed to parse fragment")
	}
	for _, n := range nodes {
		parent.AppendChild(n)
	}
	sess.docMu.Unlock()

	sess.observer.Inserted(nodes...)
	return len(nodes), nil
}

func (sess *Session) document() (string, error) {
	sess.docMu.Lock()
	defer sess.docMu.Unlock()

	var buf bytes.Buffer
	for c := sess.body.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&buf, c); err != nil {
			return "", errors.Wrap(err, "failed to render document")
		}
	}
	return buf.String(), nil
}

func emptyBody() *html.Node {
	return &html.Node{Type: html.ElementNode, DataAtom: atom.Body, Data: "body"}
}

func findElement(n *html.Node, match func(*html.Node) bool) *html.Node {
	if n.Type == html.ElementNode && match(n) {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElement(c, match); found != nil {
			return found
		}
	}
	return nil
}
