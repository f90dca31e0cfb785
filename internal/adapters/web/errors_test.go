package web

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"factory-erp/internal/core"
)

func TestWriteServiceError_StatusMapping(t *testing.T) {
	cases := []struct {
		code core.ErrorCode
		want int
	}{
		{core.ErrNotFound, http.StatusNotFound},
		{core.ErrValidation, http.StatusBadRequest},
		{core.ErrHasDependents, http.StatusConflict},
		{core.ErrOverFulfillment, http.StatusConflict},
		{core.ErrInsufficientStock, http.StatusConflict},
		{core.ErrComputation, http.StatusUnprocessableEntity},
	}
	for _, tc := range cases {
		t.Run(string(tc.code), func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			writeServiceError(rec, req, &core.DomainError{Code: tc.code, Message: "boom"})

			if rec.Code != tc.want {
				t.Errorf("status = %d, want %d", rec.Code, tc.want)
			}
			var body errorResponse
			if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
				t.Fatalf("decode body: %v", err)
			}
			if body.Code != string(tc.code) || body.Error != "boom" {
				t.Errorf("body = %+v", body)
			}
		})
	}
}

func TestWriteServiceError_UnknownErrorIsOpaque(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	writeServiceError(rec, req, http.ErrBodyNotAllowed)

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
	var body errorResponse
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	// Internal detail must not leak to clients.
	if body.Error != "internal server error" || body.Code != "INTERNAL_ERROR" {
		t.Errorf("body = %+v", body)
	}
}
