// Package termview draws tooltip bodies as boxes in a terminal.
//
// Input is the HTML produced by the entity renderers. Block elements become
// lines, hover links and emphasis keep their styling, and every output line
// has the same visible width with the theme background applied.
package termview

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/KirkDiggler/rpg-lore/internal/entities/reference"
	"github.com/KirkDiggler/rpg-lore/internal/errors"
)

// Width bounds, including one column of padding on each side
const (
	DefaultWidth = 60
	MinWidth     = 12
)

type styleKind int

const (
	stylePlain styleKind = iota
	styleBold
	styleItalic
	styleTitle
	styleMuted
	styleLink
	styleError
)

// Config controls box layout
type Config struct {
	Theme Theme
	// Width is the total visible width; DefaultWidth when zero
	Width int
	// MaxLines truncates the box; zero means no limit
	MaxLines int
}

type segment struct {
	text  string
	style styleKind
}

type block struct {
	prefix   string
	style    styleKind
	segments []segment
}

// Render lays out a tooltip body. The result has one string per line.
func Render(body string, cfg Config) ([]string, error) {
	width := cfg.Width
	if width == 0 {
		width = DefaultWidth
	}
	if width < MinWidth {
		width = MinWidth
	}
	theme := cfg.Theme
	if theme == (Theme{}) {
		theme = DefaultTheme
	}

	root := &html.Node{Type: html.ElementNode, DataAtom: atom.Div, Data: "div"}
	nodes, err := html.ParseFragment(strings.NewReader(body), root)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeInvalidArgument, "failed to parse tooltip body")
	}

	c := &collector{}
	for _, n := range nodes {
		c.walk(n, stylePlain)
	}
	c.flush()

	st := newStyles(theme)
	innerWidth := width - 2
	var lines []string
	for _, b := range c.blocks {
		for _, line := range wrap(b, innerWidth, st) {
			lines = append(lines, padLine(line, innerWidth, st.background))
		}
	}
	if len(lines) == 0 {
		lines = append(lines, padLine("", innerWidth, st.background))
	}

	if cfg.MaxLines > 0 && len(lines) > cfg.MaxLines {
		lines = lines[:cfg.MaxLines]
		last := st.muted.Render("…")
		lines[len(lines)-1] = padLine(last, innerWidth, st.background)
	}
	return lines, nil
}

// RenderResult renders a resolver result with its tooltip body as one
// string, prefixed by a type and source line
func RenderResult(result *reference.Result, body string, cfg Config) (string, error) {
	if result != nil && result.Type != "" {
		meta := strings.ToUpper(result.Type)
		if result.Source != "" {
			meta += " · " + result.Source
		}
		body = `<div class="tooltip-meta">` + html.EscapeString(meta) + `</div>` + body
	}

	lines, err := Render(body, cfg)
	if err != nil {
		return "", err
	}
	return strings.Join(lines, "\n"), nil
}

// padLine pads styled content to the inner width with one column of
// background on either side
func padLine(styled string, innerWidth int, bg lipgloss.Style) string {
	rightPad := innerWidth - ansi.StringWidth(styled)
	if rightPad < 0 {
		rightPad = 0
	}
	return bg.Render(" ") + styled + bg.Render(strings.Repeat(" ", rightPad+1))
}

// collector flattens the HTML tree into blocks of styled segments
type collector struct {
	blocks  []block
	current *block
}

func (c *collector) open(prefix string, style styleKind) {
	c.flush()
	c.current = &block{prefix: prefix, style: style}
}

func (c *collector) flush() {
	if c.current != nil && len(c.current.segments) > 0 {
		c.blocks = append(c.blocks, *c.current)
	}
	c.current = nil
}

func (c *collector) text(s string, style styleKind) {
	if c.current == nil {
		c.current = &block{}
	}
	if c.current.style != stylePlain && style == stylePlain {
		style = c.current.style
	}
	c.current.segments = append(c.current.segments, segment{text: s, style: style})
}

func (c *collector) walk(n *html.Node, style styleKind) {
	switch n.Type {
	case html.TextNode:
		c.text(n.Data, style)
		return
	case html.ElementNode:
	default:
		return
	}

	switch n.DataAtom {
	case atom.Strong, atom.B:
		style = styleBold
	case atom.Em, atom.I:
		if style == stylePlain {
			style = styleItalic
		}
	case atom.Span:
		if hasClass(n, "hover-link") {
			style = styleLink
		}
	case atom.Br:
		c.flush()
		return
	case atom.Li:
		c.open("• ", stylePlain)
	case atom.Td, atom.Th:
		if n.PrevSibling != nil {
			c.text(" | ", styleMuted)
		}
	case atom.P, atom.Tr, atom.Caption, atom.Blockquote:
		c.open("", stylePlain)
	case atom.Div:
		switch {
		case hasClass(n, "tooltip-title"):
			c.open("", styleTitle)
		case hasClass(n, "tooltip-subtitle"), hasClass(n, "tooltip-source"), hasClass(n, "tooltip-meta"):
			c.open("", styleMuted)
		case hasClass(n, "tooltip-error"):
			c.open("", styleError)
		case hasClass(n, "tooltip-field"), hasClass(n, "tooltip-section-title"):
			c.open("", stylePlain)
		}
	}

	for child := n.FirstChild; child != nil; child = child.NextSibling {
		c.walk(child, style)
	}

	switch n.DataAtom {
	case atom.P, atom.Li, atom.Tr, atom.Caption, atom.Blockquote, atom.Div:
		c.flush()
	}
}

type word struct {
	text  string
	style styleKind
	// glued words follow the previous word without a space
	glued bool
}

func words(b block) []word {
	var out []word
	trailingSpace := true
	for _, seg := range b.segments {
		fields := strings.Fields(seg.text)
		if len(fields) == 0 {
			if seg.text != "" {
				trailingSpace = true
			}
			continue
		}
		leadingSpace := strings.TrimLeft(seg.text, " \t\n\r") != seg.text
		for i, f := range fields {
			glued := i == 0 && !leadingSpace && !trailingSpace
			out = append(out, word{text: f, style: seg.style, glued: glued})
		}
		trailingSpace = strings.TrimRight(seg.text, " \t\n\r") != seg.text
	}
	return out
}

// wrap greedily fills lines. Glued runs move together; a run wider than
// the line is truncated.
func wrap(b block, width int, st styles) []string {
	ws := words(b)
	if len(ws) == 0 {
		return nil
	}

	var lines []string
	var line strings.Builder
	lineWidth := 0
	if b.prefix != "" {
		line.WriteString(st.of(b.style).Render(b.prefix))
		lineWidth = ansi.StringWidth(b.prefix)
	}
	indent := ansi.StringWidth(b.prefix)

	for i := 0; i < len(ws); {
		// gather a glued run
		j := i + 1
		runWidth := ansi.StringWidth(ws[i].text)
		for j < len(ws) && ws[j].glued {
			runWidth += ansi.StringWidth(ws[j].text)
			j++
		}

		sep := 0
		if lineWidth > indent {
			sep = 1
		}
		if lineWidth+sep+runWidth > width && lineWidth > indent {
			lines = append(lines, line.String())
			line.Reset()
			line.WriteString(st.background.Render(strings.Repeat(" ", indent)))
			lineWidth = indent
			sep = 0
		}
		if sep == 1 {
			line.WriteString(st.of(ws[i].style).Render(" "))
			lineWidth++
		}

		var run strings.Builder
		for k := i; k < j; k++ {
			run.WriteString(st.of(ws[k].style).Render(ws[k].text))
		}
		styled := run.String()
		if avail := width - lineWidth; runWidth > avail {
			styled = ansi.Truncate(styled, avail-1, "…")
			runWidth = ansi.StringWidth(styled)
		}
		line.WriteString(styled)
		lineWidth += runWidth
		i = j
	}
	lines = append(lines, line.String())
	return lines
}

func hasClass(n *html.Node, class string) bool {
	for _, a := range n.Attr {
		if a.Key == "class" {
			for _, c := range strings.Fields(a.Val) {
				if c == class {
					return true
				}
			}
		}
	}
	return false
}
