package core

import "github.com/shopspring/decimal"

var gramsPerKg = decimal.NewFromInt(1000)

// PiecesFromMass converts a production quantity in kilograms into a whole
// piece count using the product's unit weight in grams:
//
//	pieces = floor(quantityKg × 1000 / weightGrams)
//
// The result is truncated, never rounded: a partially formed piece is not
// countable output. A zero or negative unit weight cannot be divided by and
// fails with ErrComputation — the caller must fail the production write
// rather than record zero pieces.
func PiecesFromMass(quantityKg, weightGrams decimal.Decimal) (int, error) {
	if weightGrams.LessThanOrEqual(decimal.Zero) {
		return 0, domainErrorf(ErrComputation,
			"cannot compute pieces: product unit weight must be positive, got %s g", weightGrams)
	}
	pieces := quantityKg.Mul(gramsPerKg).Div(weightGrams).Floor()
	return int(pieces.IntPart()), nil
}
