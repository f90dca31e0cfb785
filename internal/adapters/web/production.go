package web

import (
	"net/http"

	"factory-erp/internal/core"
)

func (h *Handler) listProduction(w http.ResponseWriter, r *http.Request) {
	records, err := h.svc.ListProduction(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if records == nil {
		records = []core.ProductionWithProduct{}
	}
	writeJSON(w, http.StatusOK, records)
}

func (h *Handler) createProductionRecord(w http.ResponseWriter, r *http.Request) {
	var input core.ProductionInput
	if !decodeBody(w, r, &input) {
		return
	}
	record, err := h.svc.CreateProductionRecord(r.Context(), input)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, record)
}

func (h *Handler) updateProductionRecord(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	var patch core.ProductionPatch
	if !decodeBody(w, r, &patch) {
		return
	}
	record, err := h.svc.UpdateProductionRecord(r.Context(), id, patch)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, record)
}

func (h *Handler) deleteProductionRecord(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	if err := h.svc.DeleteProductionRecord(r.Context(), id); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
