package reference

import "strings"

// DefaultSource is the source code applied when a tag omits one
const DefaultSource = "PHB"

// Token is a single `{@kind args}` occurrence. Tokens are values; nothing in
// the rendering pipeline mutates the text they were scanned from.
type Token struct {
	Kind    string
	RawArgs string
}

// SplitArgs splits a raw argument string on `|` and trims each field
func SplitArgs(raw string) []string {
	parts := strings.Split(raw, "|")
	for i, part := range parts {
		parts[i] = strings.TrimSpace(part)
	}
	return parts
}

// Fields returns the trimmed pipe-delimited fields of the token
func (t Token) Fields() []string {
	return SplitArgs(t.RawArgs)
}

// Name returns field 0, the display and lookup name
func (t Token) Name() string {
	return t.Fields()[0]
}

// Source returns field 1, or DefaultSource when it is absent or blank
func (t Token) Source() string {
	fields := t.Fields()
	if len(fields) > 1 && fields[1] != "" {
		return fields[1]
	}
	return DefaultSource
}

// DisplayText returns field 2 when present, otherwise the name
func (t Token) DisplayText() string {
	fields := t.Fields()
	if len(fields) > 2 && fields[2] != "" {
		return fields[2]
	}
	return fields[0]
}
