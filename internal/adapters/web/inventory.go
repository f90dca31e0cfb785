package web

import (
	"net/http"

	"factory-erp/internal/core"
)

func (h *Handler) getInventory(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.GetInventory(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if items == nil {
		items = []core.InventoryItem{}
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *Handler) listStockAdjustments(w http.ResponseWriter, r *http.Request) {
	adjustments, err := h.svc.ListStockAdjustments(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if adjustments == nil {
		adjustments = []core.StockAdjustment{}
	}
	writeJSON(w, http.StatusOK, adjustments)
}

func (h *Handler) createStockAdjustment(w http.ResponseWriter, r *http.Request) {
	var input core.StockAdjustmentInput
	if !decodeBody(w, r, &input) {
		return
	}
	adjustment, err := h.svc.CreateStockAdjustment(r.Context(), input)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, adjustment)
}
