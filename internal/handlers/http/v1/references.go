package v1

import (
	"bytes"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/KirkDiggler/rpg-lore/internal/batch"
	"github.com/KirkDiggler/rpg-lore/internal/entities/reference"
	"github.com/KirkDiggler/rpg-lore/internal/errors"
)

// Render modes
const (
	ModeMarkup  = "markup"
	ModeText    = "text"
	ModeDisplay = "display"
)

// RenderRequest renders a string of markup
type RenderRequest struct {
	Text string `json:"text"`
	// Mode is markup (default), text or display
	Mode string `json:"mode,omitempty"`
}

// RenderResponse carries rendered HTML
type RenderResponse struct {
	HTML string `json:"html"`
}

// ReferenceResponse is a resolved reference and its tooltip body
type ReferenceResponse struct {
	Result *reference.Result `json:"result"`
	HTML   string            `json:"html"`
}

// ProcessRequest is an HTML fragment to batch process
type ProcessRequest struct {
	HTML             string `json:"html"`
	Force            bool   `json:"force,omitempty"`
	InlineFormatting bool   `json:"inline_formatting,omitempty"`
}

// ProcessResponse is the processed fragment
type ProcessResponse struct {
	HTML  string      `json:"html"`
	Stats batch.Stats `json:"stats"`
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request) {
	var req RenderRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	var out string
	switch req.Mode {
	case "", ModeMarkup:
		out = h.markup.ProcessString(req.Text)
	case ModeText:
		out = h.markup.ProcessText(req.Text)
	case ModeDisplay:
		out = h.markup.DisplayText(req.Text)
	default:
		h.writeError(w, r, errors.InvalidArgumentf("mode must be one of: %s, %s, %s", ModeMarkup, ModeText, ModeDisplay))
		return
	}

	writeJSON(w, http.StatusOK, RenderResponse{HTML: out})
}

// resolveReference always answers 200: lookup failures travel inside the
// result and render as an error body
func (h *Handler) resolveReference(w http.ResponseWriter, r *http.Request) {
	entityType := chi.URLParam(r, "type")
	name := chi.URLParam(r, "name")
	if strings.TrimSpace(name) == "" {
		h.writeError(w, r, errors.InvalidArgument("name is required"))
		return
	}

	result := h.resolver.Resolve(r.Context(), entityType, name, r.URL.Query().Get("source"))
	writeJSON(w, http.StatusOK, ReferenceResponse{
		Result: result,
		HTML:   h.renderer.RenderResult(result),
	})
}

func (h *Handler) processDocument(w http.ResponseWriter, r *http.Request) {
	var req ProcessRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	root := &html.Node{Type: html.ElementNode, DataAtom: atom.Div, Data: "div"}
	nodes, err := html.ParseFragment(strings.NewReader(req.HTML), root)
	if err != nil {
		h.writeError(w, r, errors.WrapWithCode(err, errors.CodeInvalidArgument, "invalid html"))
		return
	}
	for _, n := range nodes {
		root.AppendChild(n)
	}

	stats, err := h.processor.ProcessRegion(r.Context(), root, batch.Options{
		Force:            req.Force,
		InlineFormatting: req.InlineFormatting,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	var buf bytes.Buffer
	for c := root.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&buf, c); err != nil {
			h.writeError(w, r, errors.Wrap(err, "failed to render html"))
			return
		}
	}

	writeJSON(w, http.StatusOK, ProcessResponse{HTML: buf.String(), Stats: stats})
}
