package v1

import (
	"net/http"
)

// RollRequest carries dice notation from a roll anchor
type RollRequest struct {
	Notation string `json:"notation"`
}

func (h *Handler) rollDice(w http.ResponseWriter, r *http.Request) {
	var req RollRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	result, err := h.dice.Roll(r.Context(), req.Notation)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}
