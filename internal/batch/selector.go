package batch

import (
	"slices"
	"strings"

	"golang.org/x/net/html"

	"github.com/KirkDiggler/rpg-lore/internal/errors"
)

// Selector is a simple element matcher: `tag`, `.class`, `tag.class`, `#id`,
// `[attr]` or `tag[attr]`
type Selector struct {
	Tag   string
	Class string
	ID    string
	Attr  string
}

// ParseSelector parses the supported selector subset
func ParseSelector(raw string) (Selector, error) {
	var sel Selector
	s := strings.TrimSpace(raw)
	if s == "" || strings.ContainsAny(s, " >+~,:") {
		return sel, errors.InvalidArgumentf("unsupported selector %q", raw)
	}

	if open := strings.IndexByte(s, '['); open >= 0 {
		if !strings.HasSuffix(s, "]") || open == len(s)-2 {
			return sel, errors.InvalidArgumentf("malformed attribute selector %q", raw)
		}
		sel.Attr = s[open+1 : len(s)-1]
		s = s[:open]
	}

	switch {
	case strings.HasPrefix(s, "#"):
		sel.ID = s[1:]
	case strings.Contains(s, "."):
		dot := strings.IndexByte(s, '.')
		sel.Tag = s[:dot]
		sel.Class = s[dot+1:]
		if sel.Class == "" {
			return sel, errors.InvalidArgumentf("empty class in selector %q", raw)
		}
	default:
		sel.Tag = s
	}
	sel.Tag = strings.ToLower(sel.Tag)

	return sel, nil
}

// ParseSelectors parses a list, failing on the first bad entry
func ParseSelectors(raw []string) ([]Selector, error) {
	out := make([]Selector, 0, len(raw))
	for _, r := range raw {
		sel, err := ParseSelector(r)
		if err != nil {
			return nil, err
		}
		out = append(out, sel)
	}
	return out, nil
}

// Matches reports whether an element node satisfies the selector
func (s Selector) Matches(n *html.Node) bool {
	if n == nil || n.Type != html.ElementNode {
		return false
	}
	if s.Tag != "" && n.Data != s.Tag {
		return false
	}
	if s.ID != "" && attr(n, "id") != s.ID {
		return false
	}
	if s.Class != "" && !hasClass(n, s.Class) {
		return false
	}
	if s.Attr != "" && !hasAttr(n, s.Attr) {
		return false
	}
	return true
}

func matchesAny(n *html.Node, selectors []Selector) bool {
	return slices.ContainsFunc(selectors, func(s Selector) bool { return s.Matches(n) })
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val
		}
	}
	return ""
}

func hasAttr(n *html.Node, key string) bool {
	return slices.ContainsFunc(n.Attr, func(a html.Attribute) bool {
		return a.Namespace == "" && a.Key == key
	})
}

func setAttr(n *html.Node, key, val string) {
	for i, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

func hasClass(n *html.Node, class string) bool {
	return slices.Contains(strings.Fields(attr(n, "class")), class)
}

func addClass(n *html.Node, class string) {
	if hasClass(n, class) {
		return
	}
	classes := strings.TrimSpace(attr(n, "class") + " " + class)
	setAttr(n, "class", classes)
}
