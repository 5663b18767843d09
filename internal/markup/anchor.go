package markup

import (
	"fmt"
	"html"
)

// Anchor contract shared with the tooltip manager and the batch processor
const (
	MarkerClass  = "hover-link"
	AttrType     = "data-hover-type"
	AttrName     = "data-hover-name"
	AttrSource   = "data-hover-source"
	RollClass    = "roll"
	AttrRoll     = "data-roll"
	ProcessedKey = "data-markup-processed"

	// Older content used a different class and unprefixed attributes
	LegacyMarkerClass = "reference-link"
	LegacyAttrType    = "data-type"
	LegacyAttrName    = "data-name"
	LegacyAttrSource  = "data-source"
)

// Anchor renders a focusable hover anchor. All values are escaped.
func Anchor(entityType, name, source, display string) string {
	return fmt.Sprintf(
		`<span class="%s" tabindex="0" %s="%s" %s="%s" %s="%s">%s</span>`,
		MarkerClass,
		AttrType, html.EscapeString(entityType),
		AttrName, html.EscapeString(name),
		AttrSource, html.EscapeString(source),
		html.EscapeString(display),
	)
}

// Roll renders a non-interactive dice expression
func Roll(class, notation, display string) string {
	return fmt.Sprintf(`<span class="%s" %s="%s">%s</span>`,
		class, AttrRoll, html.EscapeString(notation), html.EscapeString(display))
}
