package web

import (
	"net/http"

	"factory-erp/internal/core"
)

func (h *Handler) listSalesOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.svc.ListSalesOrders(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if orders == nil {
		orders = []core.SalesOrderWithParty{}
	}
	writeJSON(w, http.StatusOK, orders)
}

func (h *Handler) getSalesOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	order, err := h.svc.GetSalesOrder(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

func (h *Handler) createSalesOrder(w http.ResponseWriter, r *http.Request) {
	var input core.SalesOrderInput
	if !decodeBody(w, r, &input) {
		return
	}
	order, err := h.svc.CreateSalesOrder(r.Context(), input)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, order)
}

type fulfillRequest struct {
	Fulfillments []core.FulfillmentRequest `json:"fulfillments"`
}

func (h *Handler) fulfillSalesOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	var req fulfillRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if len(req.Fulfillments) == 0 {
		writeError(w, r, "fulfillments must not be empty", "VALIDATION_ERROR", http.StatusBadRequest)
		return
	}
	if err := h.svc.FulfillSalesOrderItems(r.Context(), id, req.Fulfillments); err != nil {
		writeServiceError(w, r, err)
		return
	}
	order, err := h.svc.GetSalesOrder(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

func (h *Handler) cancelInvoice(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	order, err := h.svc.CancelInvoice(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

func (h *Handler) deleteSalesOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	if err := h.svc.DeleteSalesOrder(r.Context(), id); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
