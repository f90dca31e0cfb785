package web

import (
	"net/http"

	"factory-erp/internal/core"
)

func (h *Handler) listParties(w http.ResponseWriter, r *http.Request) {
	parties, err := h.svc.ListParties(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if parties == nil {
		parties = []core.Party{}
	}
	writeJSON(w, http.StatusOK, parties)
}

func (h *Handler) createParty(w http.ResponseWriter, r *http.Request) {
	var input core.PartyInput
	if !decodeBody(w, r, &input) {
		return
	}
	party, err := h.svc.CreateParty(r.Context(), input)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, party)
}

func (h *Handler) updateParty(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	var patch core.PartyPatch
	if !decodeBody(w, r, &patch) {
		return
	}
	party, err := h.svc.UpdateParty(r.Context(), id, patch)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, party)
}

func (h *Handler) deleteParty(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	if err := h.svc.DeleteParty(r.Context(), id); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
