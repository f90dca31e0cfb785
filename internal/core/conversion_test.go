package core_test

import (
	"testing"

	"github.com/shopspring/decimal"

	"factory-erp/internal/core"
)

func TestPiecesFromMass(t *testing.T) {
	cases := []struct {
		name        string
		quantityKg  string
		weightGrams string
		want        int
	}{
		{"exact division", "1", "10", 100},
		{"truncates partial piece", "2.505", "10", 250},
		{"floor not round", "1", "3", 333},
		{"less than one piece", "0.999", "1000", 0},
		{"fractional weight", "1", "2.5", 400},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := core.PiecesFromMass(
				decimal.RequireFromString(tc.quantityKg),
				decimal.RequireFromString(tc.weightGrams),
			)
			if err != nil {
				t.Fatalf("PiecesFromMass(%s, %s) failed: %v", tc.quantityKg, tc.weightGrams, err)
			}
			if got != tc.want {
				t.Errorf("PiecesFromMass(%s, %s) = %d, want %d", tc.quantityKg, tc.weightGrams, got, tc.want)
			}
		})
	}
}

func TestPiecesFromMass_InvalidWeight(t *testing.T) {
	for _, weight := range []string{"0", "-5"} {
		_, err := core.PiecesFromMass(decimal.RequireFromString("1"), decimal.RequireFromString(weight))
		if err == nil {
			t.Fatalf("expected error for unit weight %s, got none", weight)
		}
		if core.CodeOf(err) != core.ErrComputation {
			t.Errorf("unit weight %s: error code = %s, want %s", weight, core.CodeOf(err), core.ErrComputation)
		}
	}
}
