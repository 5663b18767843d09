package entityview

import (
	"fmt"
	"html"
	"strings"

	"github.com/KirkDiggler/rpg-lore/internal/markup"
)

// maxEntryDepth bounds recursion into nested entry objects
const maxEntryDepth = 8

// View accumulates the HTML body of one tooltip
type View struct {
	b    strings.Builder
	text *markup.Renderer
}

func newView(text *markup.Renderer) *View {
	return &View{text: text}
}

// Title writes the entity name and an optional subtitle line
func (v *View) Title(name, subtitle string) {
	if name == "" {
		name = "Unknown"
	}
	fmt.Fprintf(&v.b, `<div class="tooltip-title">%s</div>`, v.text.DisplayText(name))
	if subtitle != "" {
		fmt.Fprintf(&v.b, `<div class="tooltip-subtitle">%s</div>`, v.inline(subtitle))
	}
}

// Source writes the source line when a source is known
func (v *View) Source(source string, page string) {
	if source == "" {
		return
	}
	line := source
	if page != "" {
		line += " p. " + page
	}
	fmt.Fprintf(&v.b, `<div class="tooltip-source">%s</div>`, html.EscapeString(line))
}

// Field writes a labelled property. Empty values are skipped.
func (v *View) Field(label, value string) {
	if value == "" {
		return
	}
	fmt.Fprintf(&v.b, `<div class="tooltip-field"><strong>%s:</strong> %s</div>`,
		html.EscapeString(label), v.inline(value))
}

// Raw writes already rendered HTML
func (v *View) Raw(fragment string) {
	v.b.WriteString(fragment)
}

// Entries writes a free-form entries list as the tooltip body
func (v *View) Entries(entries []any) {
	if len(entries) == 0 {
		return
	}
	v.b.WriteString(`<div class="tooltip-body">`)
	v.entries(entries, 0)
	v.b.WriteString(`</div>`)
}

// Section writes a titled group of named blocks, such as creature actions
func (v *View) Section(title string, blocks []any) {
	if len(blocks) == 0 {
		return
	}
	fmt.Fprintf(&v.b, `<div class="tooltip-section"><div class="tooltip-section-title">%s</div>`,
		html.EscapeString(title))
	v.entries(blocks, 0)
	v.b.WriteString(`</div>`)
}

func (v *View) String() string {
	return v.b.String()
}

// inline renders tags to anchors, then applies inline markdown
func (v *View) inline(text string) string {
	return markup.InlineMarkdown(v.text.ProcessText(text))
}

func (v *View) entries(entries []any, depth int) {
	if depth > maxEntryDepth {
		return
	}
	for _, entry := range entries {
		v.entry(entry, depth)
	}
}

func (v *View) entry(entry any, depth int) {
	switch e := entry.(type) {
	case string:
		fmt.Fprintf(&v.b, "<p>%s</p>", v.inline(e))
	case map[string]any:
		v.object(e, depth)
	case []any:
		v.entries(e, depth+1)
	}
}

func (v *View) object(obj map[string]any, depth int) {
	entryType, _ := obj["type"].(string)
	name, _ := obj["name"].(string)
	children, _ := obj["entries"].([]any)

	switch entryType {
	case "list":
		items, _ := obj["items"].([]any)
		v.list(items, depth)
	case "table":
		v.table(obj)
	case "quote":
		v.b.WriteString("<blockquote>")
		v.named(name, children, depth)
		if by, ok := obj["by"].(string); ok && by != "" {
			fmt.Fprintf(&v.b, `<p class="quote-by">%s</p>`, v.inline(by))
		}
		v.b.WriteString("</blockquote>")
	case "inset", "insetReadaloud":
		v.b.WriteString(`<div class="tooltip-inset">`)
		v.named(name, children, depth)
		v.b.WriteString("</div>")
	case "item":
		if single, ok := obj["entry"].(string); ok {
			children = append([]any{single}, children...)
		}
		v.named(name, children, depth)
	default:
		if single, ok := obj["entry"].(string); ok && children == nil {
			children = []any{single}
		}
		v.named(name, children, depth)
	}
}

// named writes children with the name folded into the first paragraph
func (v *View) named(name string, children []any, depth int) {
	if name == "" {
		v.entries(children, depth+1)
		return
	}

	lead := fmt.Sprintf("<strong><em>%s.</em></strong>", v.text.DisplayText(name))
	if len(children) > 0 {
		if first, ok := children[0].(string); ok {
			fmt.Fprintf(&v.b, "<p>%s %s</p>", lead, v.inline(first))
			v.entries(children[1:], depth+1)
			return
		}
	}

	fmt.Fprintf(&v.b, "<p>%s</p>", lead)
	v.entries(children, depth+1)
}

func (v *View) list(items []any, depth int) {
	if len(items) == 0 || depth > maxEntryDepth {
		return
	}
	v.b.WriteString("<ul>")
	for _, item := range items {
		switch it := item.(type) {
		case string:
			fmt.Fprintf(&v.b, "<li>%s</li>", v.inline(it))
		case map[string]any:
			v.b.WriteString("<li>")
			v.object(it, depth+1)
			v.b.WriteString("</li>")
		}
	}
	v.b.WriteString("</ul>")
}

func (v *View) table(obj map[string]any) {
	v.b.WriteString(`<table class="tooltip-table">`)
	if caption, ok := obj["caption"].(string); ok && caption != "" {
		fmt.Fprintf(&v.b, "<caption>%s</caption>", v.inline(caption))
	}
	if labels, ok := obj["colLabels"].([]any); ok && len(labels) > 0 {
		v.b.WriteString("<thead><tr>")
		for _, label := range labels {
			fmt.Fprintf(&v.b, "<th>%s</th>", v.inline(cellText(label)))
		}
		v.b.WriteString("</tr></thead>")
	}
	v.b.WriteString("<tbody>")
	rows, _ := obj["rows"].([]any)
	for _, row := range rows {
		cells, ok := row.([]any)
		if !ok {
			continue
		}
		v.b.WriteString("<tr>")
		for _, cell := range cells {
			fmt.Fprintf(&v.b, "<td>%s</td>", v.inline(cellText(cell)))
		}
		v.b.WriteString("</tr>")
	}
	v.b.WriteString("</tbody></table>")
}

func cellText(cell any) string {
	switch c := cell.(type) {
	case string:
		return c
	case float64, int, int64:
		return fmt.Sprint(c)
	case map[string]any:
		if entry, ok := c["entry"].(string); ok {
			return entry
		}
		if roll, ok := c["roll"].(map[string]any); ok {
			if exact, ok := asInt(roll["exact"]); ok {
				return fmt.Sprint(exact)
			}
			lo, okMin := asInt(roll["min"])
			hi, okMax := asInt(roll["max"])
			if okMin && okMax {
				return fmt.Sprintf("%d-%d", lo, hi)
			}
		}
	}
	return ""
}
