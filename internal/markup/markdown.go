package markup

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark"
	gmhtml "github.com/yuin/goldmark/renderer/html"
)

// markdown passes raw HTML through so rendered anchors survive conversion
var markdown = goldmark.New(
	goldmark.WithRendererOptions(gmhtml.WithUnsafe()),
)

// Markdown converts block markdown to HTML. Conversion failures return the
// input unchanged.
func Markdown(src string) string {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(src), &buf); err != nil {
		return src
	}
	return strings.TrimSpace(buf.String())
}

// blockTags are elements inline conversion must never introduce
var blockTags = []string{"<p>", "<ol", "<ul", "<h1", "<h2", "<h3", "<h4", "<h5", "<h6", "<blockquote", "<pre", "<hr"}

// InlineMarkdown converts a single paragraph of markdown (emphasis, code,
// links) and strips the wrapping paragraph element. Text that goldmark reads
// as block content, such as "1. " or "# " prefixes, comes back unchanged.
func InlineMarkdown(src string) string {
	if strings.TrimSpace(src) == "" {
		return src
	}

	out := Markdown(src)
	if strings.HasPrefix(out, "<p>") && strings.HasSuffix(out, "</p>") &&
		strings.Count(out, "<p>") == 1 {
		out = strings.TrimSuffix(strings.TrimPrefix(out, "<p>"), "</p>")
	}
	for _, tag := range blockTags {
		if strings.Contains(out, tag) {
			return src
		}
	}

	return out
}
