package markup

import (
	"strings"

	"github.com/KirkDiggler/rpg-lore/internal/entities/reference"
)

// OpenSentinel marks the start of a tag. Text without it never needs rendering.
const OpenSentinel = "{@"

// Segment is either a run of literal text or a single tag token
type Segment struct {
	Literal string
	Token   *reference.Token
}

// Scan splits text into literal and tag segments, left to right, without
// overlap. A tag's args end at the first closing brace not preceded by a
// backslash; `\}` inside args is unescaped to `}`. Nested braces are not
// supported. A `{@` that does not start a well-formed tag stays literal.
func Scan(text string) []Segment {
	var segments []Segment
	var literal strings.Builder

	flush := func() {
		if literal.Len() > 0 {
			segments = append(segments, Segment{Literal: literal.String()})
			literal.Reset()
		}
	}

	i := 0
	for i < len(text) {
		start := strings.Index(text[i:], OpenSentinel)
		if start < 0 {
			literal.WriteString(text[i:])
			break
		}
		start += i
		literal.WriteString(text[i:start])

		token, end, ok := scanTag(text, start)
		if !ok {
			literal.WriteString(OpenSentinel)
			i = start + len(OpenSentinel)
			continue
		}

		flush()
		segments = append(segments, Segment{Token: token})
		i = end
	}
	flush()

	return segments
}

// scanTag parses the tag starting at text[start] ("{@") and returns the token
// and the index just past its closing brace
func scanTag(text string, start int) (*reference.Token, int, bool) {
	pos := start + len(OpenSentinel)

	kindStart := pos
	for pos < len(text) && isKindByte(text[pos]) {
		pos++
	}
	if pos == kindStart || pos >= len(text) {
		return nil, 0, false
	}
	kind := text[kindStart:pos]

	// The kind must be followed by whitespace or the closing brace.
	if text[pos] != '}' && text[pos] != ' ' && text[pos] != '\t' && text[pos] != '\n' {
		return nil, 0, false
	}

	var args strings.Builder
	for pos < len(text) {
		c := text[pos]
		switch {
		case c == '\\' && pos+1 < len(text) && text[pos+1] == '}':
			args.WriteByte('}')
			pos += 2
		case c == '}':
			return &reference.Token{
				Kind:    kind,
				RawArgs: strings.TrimSpace(args.String()),
			}, pos + 1, true
		default:
			args.WriteByte(c)
			pos++
		}
	}

	return nil, 0, false
}

func isKindByte(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' || c == '_' || c == '-'
}

// HasTags reports whether text contains the tag-open sentinel
func HasTags(text string) bool {
	return strings.Contains(text, OpenSentinel)
}
