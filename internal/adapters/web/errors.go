package web

import (
	"encoding/json"
	"net/http"

	"factory-erp/internal/core"
)

type errorResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code"`
	RequestID string `json:"request_id,omitempty"`
}

// writeError writes a structured JSON error response.
func writeError(w http.ResponseWriter, r *http.Request, message, code string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	resp := errorResponse{
		Error:     message,
		Code:      code,
		RequestID: requestIDFromContext(r.Context()),
	}
	_ = json.NewEncoder(w).Encode(resp)
}

// writeJSON writes a JSON response with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeServiceError maps a domain error to an HTTP response using its stable
// category code. Errors without a domain code surface as HTTP 500 with a
// generic message; the wrapped detail stays in the server log.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	code := core.CodeOf(err)
	status, ok := statusByCode[code]
	if !ok {
		writeError(w, r, "internal server error", "INTERNAL_ERROR", http.StatusInternalServerError)
		return
	}
	writeError(w, r, err.Error(), string(code), status)
}

var statusByCode = map[core.ErrorCode]int{
	core.ErrNotFound:          http.StatusNotFound,
	core.ErrValidation:        http.StatusBadRequest,
	core.ErrHasDependents:     http.StatusConflict,
	core.ErrOverFulfillment:   http.StatusConflict,
	core.ErrInsufficientStock: http.StatusConflict,
	core.ErrComputation:       http.StatusUnprocessableEntity,
}
