package tooltip

import (
	"github.com/KirkDiggler/rpg-lore/internal/entities/reference"
)

// Anchor is a hover target in the host document
type Anchor struct {
	// ID identifies the anchor element within the host
	ID     string `json:"id"`
	Type   string `json:"type"`
	Name   string `json:"name"`
	Source string `json:"source,omitempty"`
	// TooltipID is the tooltip containing the anchor, empty for page content
	TooltipID string `json:"tooltip_id,omitempty"`
}

// Key returns the circularity key of the anchor's target
func (a Anchor) Key() reference.Key {
	return reference.NewKey(a.Type, a.Name)
}

// Point is a position in viewport coordinates
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Size is a width and height in viewport units
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// TargetKind classifies where the pointer or focus went next
type TargetKind int

const (
	// TargetOutside is anything outside anchors and tooltips
	TargetOutside TargetKind = iota
	// TargetTooltip is inside an open tooltip
	TargetTooltip
	// TargetAnchor is another anchor
	TargetAnchor
)

// Target describes the element receiving the pointer after a leave event
type Target struct {
	Kind      TargetKind `json:"kind"`
	TooltipID string     `json:"tooltip_id,omitempty"`
}

// Outside is the target for leave events that exit the reference system
func Outside() Target {
	return Target{Kind: TargetOutside}
}

// Tooltip is a value snapshot of one stack entry
type Tooltip struct {
	ID       string        `json:"id"`
	Anchor   Anchor        `json:"anchor"`
	ParentID string        `json:"parent_id,omitempty"`
	Key      reference.Key `json:"key"`
	Pinned   bool          `json:"pinned"`
	Content  string        `json:"content"`
	Depth    int           `json:"depth"`
	Position Point         `json:"position"`
	Size     Size          `json:"size"`

	result *reference.Result
}

// KeyPress is a keyboard event delivered while tooltips are open
type KeyPress struct {
	Name string `json:"name"`
	Ctrl bool   `json:"ctrl,omitempty"`
	Meta bool   `json:"meta,omitempty"`
	// HasSelection reports a non-empty text selection in the host
	HasSelection bool `json:"has_selection,omitempty"`
}

func (k KeyPress) modified() bool {
	return k.Ctrl || k.Meta
}
