package core

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
)

// pgxQuerier is satisfied by both *pgxpool.Pool and pgx.Tx, enabling shared
// query helpers that run either standalone or inside a caller's transaction.
type pgxQuerier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

const dateLayout = "2006-01-02"

// validateDate checks that s is a calendar date in YYYY-MM-DD form. Dates are
// stored and compared as strings, so the format must be strict for lexical
// comparisons to behave like calendar comparisons.
func validateDate(field, s string) error {
	if _, err := time.Parse(dateLayout, s); err != nil {
		return domainErrorf(ErrValidation, "%s must be a calendar date in YYYY-MM-DD form, got %q", field, s)
	}
	return nil
}

// projectStock folds the three ledgers into a product's stock position:
// currentStock = totalProduced − totalSold + adjustments. totalSold counts
// only fulfilled pieces — the unfulfilled remainder of a pending order does
// not reduce stock.
func projectStock(ctx context.Context, q pgxQuerier, productID int) (produced, sold, adjusted int, err error) {
	err = q.QueryRow(ctx, `
		SELECT
			COALESCE((SELECT SUM(pieces)    FROM production        WHERE product_id = $1), 0),
			COALESCE((SELECT SUM(fulfilled) FROM sales_order_items WHERE product_id = $1), 0),
			COALESCE((SELECT SUM(quantity)  FROM stock_adjustments WHERE product_id = $1), 0)
	`, productID).Scan(&produced, &sold, &adjusted)
	return produced, sold, adjusted, err
}
