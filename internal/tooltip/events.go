package tooltip

import (
	"context"

	"github.com/KirkDiggler/rpg-toolkit/core"
	"github.com/KirkDiggler/rpg-toolkit/events"
)

// Event types published on Config.EventBus. The event source is the
// resolved reference result and the target is the tooltip snapshot.
const (
	EventOpened = "tooltip.opened"
	EventClosed = "tooltip.closed"
)

// EntityType is the core.Entity type reported by a Tooltip
const EntityType = "tooltip"

// GetID returns the tooltip id
func (t *Tooltip) GetID() string {
	return t.ID
}

// GetType returns EntityType
func (t *Tooltip) GetType() string {
	return EntityType
}

var _ core.Entity = (*Tooltip)(nil)

func (m *Manager) publishLocked(eventType string, t *Tooltip) {
	if m.cfg.EventBus == nil {
		return
	}

	snapshot := *t
	event := events.NewGameEvent(eventType, t.result, &snapshot)
	if err := m.cfg.EventBus.Publish(context.Background(), event); err != nil {
		m.cfg.Logger.Warn("failed to publish tooltip event",
			"event", eventType,
			"id", t.ID,
			"error", err)
	}
}
