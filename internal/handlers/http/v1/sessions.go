package v1

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/KirkDiggler/rpg-lore/internal/batch"
	"github.com/KirkDiggler/rpg-lore/internal/services/session"
	"github.com/KirkDiggler/rpg-lore/internal/tooltip"
)

// CreateSessionRequest opens a session
type CreateSessionRequest struct {
	Viewport tooltip.Size `json:"viewport"`
}

// DocumentRequest replaces a session document
type DocumentRequest struct {
	HTML string `json:"html"`
}

// DocumentResponse is a serialized session document
type DocumentResponse struct {
	HTML  string       `json:"html"`
	Stats *batch.Stats `json:"stats,omitempty"`
}

// FragmentRequest appends HTML inside a session document
type FragmentRequest struct {
	// ParentID is the id attribute of the parent element; empty means body
	ParentID string `json:"parent_id,omitempty"`
	HTML     string `json:"html"`
}

// FragmentResponse reports what was queued
type FragmentResponse struct {
	Inserted int `json:"inserted"`
}

func (h *Handler) createSession(w http.ResponseWriter, r *http.Request) {
	var req CreateSessionRequest
	if r.ContentLength != 0 {
		if err := decodeJSON(w, r, &req); err != nil {
			h.writeError(w, r, err)
			return
		}
	}

	view, err := h.sessions.Create(r.Context(), session.CreateInput{Viewport: req.Viewport})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, view)
}

func (h *Handler) getSession(w http.ResponseWriter, r *http.Request) {
	view, err := h.sessions.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *Handler) deleteSession(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) dispatchEvent(w http.ResponseWriter, r *http.Request) {
	var event session.Event
	if err := decodeJSON(w, r, &event); err != nil {
		h.writeError(w, r, err)
		return
	}

	result, err := h.sessions.Dispatch(r.Context(), chi.URLParam(r, "id"), event)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *Handler) getDocument(w http.ResponseWriter, r *http.Request) {
	doc, err := h.sessions.Document(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, DocumentResponse{HTML: doc})
}

func (h *Handler) setDocument(w http.ResponseWriter, r *http.Request) {
	var req DocumentRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	id := chi.URLParam(r, "id")
	stats, err := h.sessions.SetDocument(r.Context(), id, req.HTML)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	doc, err := h.sessions.Document(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, DocumentResponse{HTML: doc, Stats: &stats})
}

func (h *Handler) insertFragment(w http.ResponseWriter, r *http.Request) {
	var req FragmentRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	n, err := h.sessions.InsertFragment(r.Context(), chi.URLParam(r, "id"), req.ParentID, req.HTML)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusAccepted, FragmentResponse{Inserted: n})
}

func (h *Handler) flushDocument(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	stats, err := h.sessions.FlushDocument(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	doc, err := h.sessions.Document(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, DocumentResponse{HTML: doc, Stats: &stats})
}
