package session

import (
	"time"

	"github.com/KirkDiggler/rpg-lore/internal/batch"
	"github.com/KirkDiggler/rpg-lore/internal/tooltip"
)

// Event types accepted by Dispatch
const (
	EventHoverEnter   = "hover_enter"
	EventHoverLeave   = "hover_leave"
	EventFocusEnter   = "focus_enter"
	EventFocusLeave   = "focus_leave"
	EventTooltipEnter = "tooltip_enter"
	EventTooltipLeave = "tooltip_leave"
	EventPointerMove  = "pointer_move"
	EventPin          = "pin"
	EventClose        = "close"
	EventClear        = "clear"
	EventKey          = "key"
	EventDragStart    = "drag_start"
	EventDragMove     = "drag_move"
	EventDragEnd      = "drag_end"
	EventResize       = "resize"
)

// Event is a host interaction forwarded to a session's tooltip manager.
// Which fields matter depends on Type.
type Event struct {
	Type      string            `json:"type"`
	Anchor    *tooltip.Anchor   `json:"anchor,omitempty"`
	TooltipID string            `json:"tooltip_id,omitempty"`
	Next      *tooltip.Target   `json:"next,omitempty"`
	Point     *tooltip.Point    `json:"point,omitempty"`
	Size      *tooltip.Size     `json:"size,omitempty"`
	Key       *tooltip.KeyPress `json:"key,omitempty"`
	// OnInteractive marks a drag that started on a link or button
	OnInteractive bool `json:"on_interactive,omitempty"`
}

// MaxViewed caps the opened-reference history kept per session
const MaxViewed = 20

// Viewed is a reference that was opened in a tooltip
type Viewed struct {
	// ID is the reference key, type:name
	ID   string `json:"id"`
	Type string `json:"type"`
}

// View is a snapshot of a session
type View struct {
	ID         string            `json:"id"`
	Tooltips   []tooltip.Tooltip `json:"tooltips"`
	Version    uint64            `json:"version"`
	LastCopied string            `json:"last_copied,omitempty"`
	// Viewed lists opened references, most recent last
	Viewed []Viewed `json:"viewed,omitempty"`
	// LastFlush is the outcome of the most recent tick-driven document pass
	LastFlush    batch.Stats `json:"last_flush"`
	PendingNodes int         `json:"pending_nodes"`
	CreatedAt    time.Time   `json:"created_at"`
	LastActive   time.Time   `json:"last_active"`
}

// EventResult reports whether an event was consumed
type EventResult struct {
	Handled bool  `json:"handled"`
	View    *View `json:"view"`
}

// CreateInput configures a new session
type CreateInput struct {
	Viewport tooltip.Size
}
