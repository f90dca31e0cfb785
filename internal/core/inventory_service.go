package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// StockAdjustmentInput carries the writable adjustment fields. Quantity is
// signed: positive increases stock, negative decreases it.
type StockAdjustmentInput struct {
	Date      string `json:"date"`
	ProductID int    `json:"product_id"`
	Quantity  int    `json:"quantity"`
	Reason    string `json:"reason"`
}

// InventoryService exposes the derived stock projection and the manual
// adjustment ledger.
type InventoryService interface {
	// GetInventory folds the production, fulfillment, and adjustment ledgers
	// into one InventoryItem per product. Nothing is cached: every call
	// recomputes the sums, so the projection is always consistent with the
	// ledgers.
	GetInventory(ctx context.Context) ([]InventoryItem, error)
	GetStockAdjustments(ctx context.Context) ([]StockAdjustment, error)
	CreateStockAdjustment(ctx context.Context, input StockAdjustmentInput) (*StockAdjustment, error)
}

type inventoryService struct {
	pool *pgxpool.Pool
}

// NewInventoryService constructs an InventoryService backed by PostgreSQL.
func NewInventoryService(pool *pgxpool.Pool) InventoryService {
	return &inventoryService{pool: pool}
}

func (s *inventoryService) GetInventory(ctx context.Context) ([]InventoryItem, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT p.id, p.name, p.weight_grams, p.raw_material_type, p.raw_material_price_per_kg, p.created_at,
		       COALESCE(pr.total, 0), COALESCE(so.total, 0), COALESCE(adj.total, 0)
		FROM products p
		LEFT JOIN (SELECT product_id, SUM(pieces)    AS total FROM production        GROUP BY product_id) pr  ON pr.product_id  = p.id
		LEFT JOIN (SELECT product_id, SUM(fulfilled) AS total FROM sales_order_items GROUP BY product_id) so  ON so.product_id  = p.id
		LEFT JOIN (SELECT product_id, SUM(quantity)  AS total FROM stock_adjustments GROUP BY product_id) adj ON adj.product_id = p.id
		ORDER BY p.created_at DESC, p.id DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("query inventory projection: %w", err)
	}
	defer rows.Close()

	var inventory []InventoryItem
	for rows.Next() {
		var item InventoryItem
		if err := rows.Scan(
			&item.ID, &item.Name, &item.WeightGrams, &item.RawMaterialType, &item.RawMaterialPricePerKg, &item.CreatedAt,
			&item.TotalProduced, &item.TotalSold, &item.Adjustments,
		); err != nil {
			return nil, fmt.Errorf("scan inventory item: %w", err)
		}
		// Negative stock is preserved, not clamped: it signals inconsistent
		// ledger data and hiding it would mask the problem.
		item.CurrentStock = item.TotalProduced - item.TotalSold + item.Adjustments
		inventory = append(inventory, item)
	}
	return inventory, rows.Err()
}

const adjustmentColumns = "id, date, product_id, quantity, reason, created_at"

func scanAdjustment(row pgx.Row, a *StockAdjustment) error {
	return row.Scan(&a.ID, &a.Date, &a.ProductID, &a.Quantity, &a.Reason, &a.CreatedAt)
}

func (s *inventoryService) GetStockAdjustments(ctx context.Context) ([]StockAdjustment, error) {
	rows, err := s.pool.Query(ctx,
		"SELECT "+adjustmentColumns+" FROM stock_adjustments ORDER BY created_at DESC, id DESC")
	if err != nil {
		return nil, fmt.Errorf("query stock adjustments: %w", err)
	}
	defer rows.Close()

	var adjustments []StockAdjustment
	for rows.Next() {
		var a StockAdjustment
		if err := scanAdjustment(rows, &a); err != nil {
			return nil, fmt.Errorf("scan stock adjustment: %w", err)
		}
		adjustments = append(adjustments, a)
	}
	return adjustments, rows.Err()
}

func (s *inventoryService) CreateStockAdjustment(ctx context.Context, input StockAdjustmentInput) (*StockAdjustment, error) {
	if err := validateDate("date", input.Date); err != nil {
		return nil, err
	}
	if input.Quantity == 0 {
		return nil, domainErrorf(ErrValidation, "adjustment quantity must not be zero")
	}
	if input.Reason == "" {
		return nil, domainErrorf(ErrValidation, "adjustment reason must not be empty")
	}

	var productID int
	err := s.pool.QueryRow(ctx, "SELECT id FROM products WHERE id = $1", input.ProductID).Scan(&productID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrorf(ErrNotFound, "product %d not found", input.ProductID)
		}
		return nil, fmt.Errorf("resolve product %d: %w", input.ProductID, err)
	}

	var a StockAdjustment
	err = scanAdjustment(s.pool.QueryRow(ctx, `
		INSERT INTO stock_adjustments (date, product_id, quantity, reason)
		VALUES ($1, $2, $3, $4)
		RETURNING `+adjustmentColumns,
		input.Date, input.ProductID, input.Quantity, input.Reason,
	), &a)
	if err != nil {
		return nil, fmt.Errorf("insert stock adjustment: %w", err)
	}
	return &a, nil
}
