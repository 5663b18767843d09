package tooltip_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/KirkDiggler/rpg-lore/internal/tooltip"
)

func TestPlace(t *testing.T) {
	viewport := tooltip.Size{Width: 1280, Height: 800}
	size := tooltip.Size{Width: 320, Height: 240}
	offset := tooltip.Point{X: 12, Y: 12}

	testCases := []struct {
		name     string
		pointer  tooltip.Point
		size     tooltip.Size
		expected tooltip.Point
	}{
		{"fits below right", tooltip.Point{X: 100, Y: 100}, size, tooltip.Point{X: 112, Y: 112}},
		{"flips left", tooltip.Point{X: 1200, Y: 100}, size, tooltip.Point{X: 868, Y: 112}},
		{"flips up", tooltip.Point{X: 100, Y: 700}, size, tooltip.Point{X: 112, Y: 448}},
		{"oversized clamps to origin", tooltip.Point{X: 100, Y: 100}, tooltip.Size{Width: 2000, Height: 100}, tooltip.Point{X: 0, Y: 112}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, tooltip.Place(tc.pointer, tc.size, viewport, offset))
		})
	}
}

func TestPlainText(t *testing.T) {
	content := `<div class="tooltip-content"><div class="tooltip-title">Fireball</div>` +
		`<div class="tooltip-body"><p>Deals <span class="roll">8d6</span> fire &amp; more.</p></div></div>`

	assert.Equal(t, "Fireball\nDeals 8d6 fire & more.", tooltip.PlainText(content))
}
