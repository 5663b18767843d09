package batch

import (
	"golang.org/x/net/html"

	"github.com/KirkDiggler/rpg-lore/internal/entities/reference"
	"github.com/KirkDiggler/rpg-lore/internal/markup"
)

var legacyAttrs = [][2]string{
	{markup.LegacyAttrType, markup.AttrType},
	{markup.LegacyAttrName, markup.AttrName},
	{markup.LegacyAttrSource, markup.AttrSource},
}

// NormalizeLegacyAnchors upgrades `reference-link` elements to the hover
// anchor contract: the marker class is added, `data-type/name/source` are
// copied to their `data-hover-*` names and the element becomes focusable.
// Existing hover attributes win. It returns the number of anchors upgraded.
func NormalizeLegacyAnchors(root *html.Node) int {
	count := 0
	walkElements(root, func(n *html.Node) {
		if !hasClass(n, markup.LegacyMarkerClass) || hasClass(n, markup.MarkerClass) {
			return
		}

		addClass(n, markup.MarkerClass)
		for _, pair := range legacyAttrs {
			legacy, current := pair[0], pair[1]
			if hasAttr(n, current) || !hasAttr(n, legacy) {
				continue
			}
			setAttr(n, current, attr(n, legacy))
		}
		if !hasAttr(n, markup.AttrSource) {
			setAttr(n, markup.AttrSource, reference.DefaultSource)
		}
		if !hasAttr(n, "tabindex") {
			setAttr(n, "tabindex", "0")
		}
		count++
	})
	return count
}
