// Package tooltip manages the stack of recursive hover tooltips.
//
// The host reports pointer, focus and keyboard events; the manager decides
// when tooltips open and close, resolves and renders their content, and
// reports every stack change through OnChange. All state sits behind one
// mutex so the manager behaves like a single-threaded UI loop regardless of
// which goroutine delivers events or fires timers.
//
// Resolution is asynchronous and cannot be aborted. When a lookup completes
// after the pointer moved on, its result is discarded by comparing the
// generation token captured at show time with the current hover target.
package tooltip

import (
	"context"
	"slices"
	"sync"

	"github.com/KirkDiggler/rpg-lore/internal/entities/reference"
	"github.com/KirkDiggler/rpg-lore/internal/errors"
)

// hoverTarget is the anchor the pointer or focus currently rests on
type hoverTarget struct {
	anchor Anchor
	depth  int
	token  uint64
}

// pendingTimer pairs a clock timer with the token its callback must match
type pendingTimer struct {
	token uint64
	stop  func() bool
}

type dragState struct {
	id   string
	grab Point
}

// Manager owns the tooltip stack
type Manager struct {
	mu  sync.Mutex
	cfg Config

	stack    []*Tooltip
	pointer  Point
	viewport Size

	active    *hoverTarget
	showTimer *pendingTimer
	hideTimer *pendingTimer
	drag      *dragState
	tokens    uint64
}

// NewManager creates a manager with an empty stack
func NewManager(cfg *Config) (*Manager, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	return &Manager{
		cfg:      *cfg,
		viewport: cfg.Viewport,
	}, nil
}

// HoverEnter starts the show delay for an anchor
func (m *Manager) HoverEnter(anchor Anchor) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.enterLocked(anchor)
}

// FocusEnter is HoverEnter for keyboard focus
func (m *Manager) FocusEnter(anchor Anchor) {
	m.HoverEnter(anchor)
}

// HoverLeave handles the pointer leaving an anchor for next
func (m *Manager) HoverLeave(anchor Anchor, next Target) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.active != nil && m.active.anchor == anchor {
		m.cancelLocked(&m.showTimer)
		m.active = nil
	}
	if next.Kind == TargetOutside {
		m.startHideLocked()
	}
}

// FocusLeave is HoverLeave for keyboard focus
func (m *Manager) FocusLeave(anchor Anchor, next Target) {
	m.HoverLeave(anchor, next)
}

// TooltipEnter keeps the stack open while the pointer is over a tooltip
func (m *Manager) TooltipEnter(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cancelLocked(&m.hideTimer)
}

// TooltipLeave starts the hide delay when the pointer leaves the system
func (m *Manager) TooltipLeave(id string, next Target) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if next.Kind == TargetOutside {
		m.startHideLocked()
	}
}

// PointerMove records the pointer position used to place new tooltips
func (m *Manager) PointerMove(p Point) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pointer = p
}

// SetViewport updates the viewport and re-clamps open tooltips into it
func (m *Manager) SetViewport(size Size) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if size.Width <= 0 || size.Height <= 0 {
		return
	}
	m.viewport = size
	for _, t := range m.stack {
		t.Position = Clamp(t.Position, t.Size, size)
	}
	m.changedLocked()
}

// TogglePin flips the pinned state of a tooltip
func (m *Manager) TogglePin(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	t := m.findLocked(id)
	if t == nil {
		return false
	}
	t.Pinned = !t.Pinned
	m.changedLocked()
	return true
}

// Close removes a single tooltip. Tooltips opened from it stay open.
func (m *Manager) Close(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.removeLocked(id)
}

// Clear removes every tooltip and cancels pending work
func (m *Manager) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.cancelLocked(&m.showTimer)
	m.cancelLocked(&m.hideTimer)
	m.active = nil
	m.drag = nil
	if len(m.stack) == 0 {
		return
	}
	closed := m.stack
	m.stack = nil
	for i := len(closed) - 1; i >= 0; i-- {
		m.publishLocked(EventClosed, closed[i])
	}
	m.changedLocked()
}

// HandleKey applies the keyboard shortcuts. It reports whether the key was
// consumed; keys are ignored while no tooltip is open.
func (m *Manager) HandleKey(key KeyPress) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.stack) == 0 {
		return false
	}
	top := m.stack[len(m.stack)-1]

	switch {
	case key.modified() && (key.Name == "p" || key.Name == "P"):
		top.Pinned = !top.Pinned
		m.changedLocked()
		return true
	case key.modified() && (key.Name == "c" || key.Name == "C"):
		if key.HasSelection || m.cfg.Copier == nil {
			return false
		}
		if err := m.cfg.Copier.Copy(*top, PlainText(top.Content)); err != nil {
			m.cfg.Logger.Warn("failed to copy tooltip", "id", top.ID, "error", err)
		}
		return true
	case key.Name == "Escape":
		return m.removeLocked(top.ID)
	}

	return false
}

// DragStart begins moving a pinned tooltip. Unpinned tooltips and presses on
// interactive children do not start a drag.
func (m *Manager) DragStart(id string, p Point, onInteractive bool) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	t := m.findLocked(id)
	if t == nil || !t.Pinned || onInteractive {
		return false
	}
	m.drag = &dragState{
		id:   id,
		grab: Point{X: p.X - t.Position.X, Y: p.Y - t.Position.Y},
	}
	return true
}

// DragMove repositions the dragged tooltip, clamped into the viewport
func (m *Manager) DragMove(p Point) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.drag == nil {
		return
	}
	t := m.findLocked(m.drag.id)
	if t == nil {
		m.drag = nil
		return
	}
	t.Position = Clamp(Point{X: p.X - m.drag.grab.X, Y: p.Y - m.drag.grab.Y}, t.Size, m.viewport)
	m.changedLocked()
}

// DragEnd finishes a drag
func (m *Manager) DragEnd() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.drag = nil
}

// Snapshot returns copies of every open tooltip, bottom first
func (m *Manager) Snapshot() []Tooltip {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshotLocked()
}

func (m *Manager) enterLocked(anchor Anchor) {
	if anchor.Type == "" || anchor.Name == "" {
		return
	}
	m.cancelLocked(&m.hideTimer)

	depth := 0
	if anchor.TooltipID != "" {
		idx := m.indexLocked(anchor.TooltipID)
		if idx < 0 {
			m.cfg.Logger.Debug("anchor inside unknown tooltip", "tooltip_id", anchor.TooltipID)
			return
		}
		depth = idx + 1
	}

	if m.openLocked(anchor) {
		m.cfg.Logger.Debug("skipping circular reference",
			"type", anchor.Type,
			"name", anchor.Name)
		return
	}

	m.cancelLocked(&m.showTimer)

	token := m.nextTokenLocked()
	m.active = &hoverTarget{anchor: anchor, depth: depth, token: token}
	timer := m.cfg.Clock.AfterFunc(m.cfg.ShowDelay, func() { m.show(token) })
	m.showTimer = &pendingTimer{token: token, stop: timer.Stop}
}

// show runs when the show delay elapses
func (m *Manager) show(token uint64) {
	m.mu.Lock()
	if m.showTimer == nil || m.showTimer.token != token ||
		m.active == nil || m.active.token != token {
		m.mu.Unlock()
		return
	}
	m.showTimer = nil

	if m.trimLocked(m.active.depth) {
		m.changedLocked()
	}
	anchor := m.active.anchor
	m.mu.Unlock()

	m.cfg.Go(func() {
		ctx, cancel := context.WithTimeout(context.Background(), m.cfg.ResolveTimeout)
		defer cancel()

		result := m.cfg.Resolver.Resolve(ctx, anchor.Type, anchor.Name, anchor.Source)
		content := m.cfg.Renderer.RenderResult(result)
		m.complete(token, anchor, result, content)
	})
}

// complete pushes a resolved tooltip if its anchor is still the hover target
func (m *Manager) complete(token uint64, anchor Anchor, result *reference.Result, content string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.active == nil || m.active.token != token {
		m.cfg.Logger.Debug("discarding stale tooltip",
			"type", anchor.Type,
			"name", anchor.Name)
		return
	}
	if anchor.TooltipID != "" && m.indexLocked(anchor.TooltipID) < 0 {
		m.cfg.Logger.Debug("parent tooltip closed before content arrived", "parent_id", anchor.TooltipID)
		return
	}
	if m.openLocked(anchor) {
		return
	}

	size := m.cfg.Measure(content)
	t := &Tooltip{
		ID:       m.cfg.IDGenerator.Generate(),
		Anchor:   anchor,
		ParentID: anchor.TooltipID,
		Key:      anchor.Key(),
		Content:  content,
		Depth:    len(m.stack),
		Position: Place(m.pointer, size, m.viewport, m.cfg.Offset),
		Size:     size,
		result:   result,
	}
	if t.result == nil {
		t.result = reference.Failed(anchor.Type, anchor.Name, anchor.Source, "")
	}
	m.stack = append(m.stack, t)
	m.publishLocked(EventOpened, t)
	m.changedLocked()
}

// hide runs when the hide delay elapses
func (m *Manager) hide(token uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.hideTimer == nil || m.hideTimer.token != token {
		return
	}
	m.hideTimer = nil
	if m.trimLocked(0) {
		m.changedLocked()
	}
}

func (m *Manager) startHideLocked() {
	m.cancelLocked(&m.hideTimer)
	token := m.nextTokenLocked()
	timer := m.cfg.Clock.AfterFunc(m.cfg.HideDelay, func() { m.hide(token) })
	m.hideTimer = &pendingTimer{token: token, stop: timer.Stop}
}

func (m *Manager) cancelLocked(slot **pendingTimer) {
	if *slot == nil {
		return
	}
	(*slot).stop()
	*slot = nil
}

func (m *Manager) nextTokenLocked() uint64 {
	m.tokens++
	return m.tokens
}

// trimLocked pops unpinned tooltips above depth, stopping at the first
// pinned one. It reports whether anything was removed.
func (m *Manager) trimLocked(depth int) bool {
	removed := false
	for len(m.stack) > depth {
		top := m.stack[len(m.stack)-1]
		if top.Pinned {
			break
		}
		m.stack = m.stack[:len(m.stack)-1]
		m.publishLocked(EventClosed, top)
		removed = true
	}
	return removed
}

func (m *Manager) removeLocked(id string) bool {
	idx := m.indexLocked(id)
	if idx < 0 {
		return false
	}
	closed := m.stack[idx]
	m.stack = slices.Delete(m.stack, idx, idx+1)
	for i, t := range m.stack {
		t.Depth = i
	}
	if m.drag != nil && m.drag.id == id {
		m.drag = nil
	}
	m.publishLocked(EventClosed, closed)
	m.changedLocked()
	return true
}

func (m *Manager) openLocked(anchor Anchor) bool {
	key := anchor.Key()
	return slices.ContainsFunc(m.stack, func(t *Tooltip) bool { return t.Key == key })
}

func (m *Manager) indexLocked(id string) int {
	return slices.IndexFunc(m.stack, func(t *Tooltip) bool { return t.ID == id })
}

func (m *Manager) findLocked(id string) *Tooltip {
	if idx := m.indexLocked(id); idx >= 0 {
		return m.stack[idx]
	}
	return nil
}

func (m *Manager) snapshotLocked() []Tooltip {
	out := make([]Tooltip, len(m.stack))
	for i, t := range m.stack {
		out[i] = *t
	}
	return out
}

func (m *Manager) changedLocked() {
	if m.cfg.OnChange != nil {
		m.cfg.OnChange(m.snapshotLocked())
	}
}
