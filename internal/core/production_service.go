package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// ProductionInput carries the writable production-record fields. Pieces is
// never accepted from callers; it is derived from QuantityKg and the
// product's unit weight.
type ProductionInput struct {
	Date       string          `json:"date"`
	ProductID  int             `json:"product_id"`
	QuantityKg decimal.Decimal `json:"quantity_kg"`
}

// ProductionPatch is a partial update; nil fields are left unchanged.
type ProductionPatch struct {
	Date       *string          `json:"date,omitempty"`
	ProductID  *int             `json:"product_id,omitempty"`
	QuantityKg *decimal.Decimal `json:"quantity_kg,omitempty"`
}

// ProductionService manages the production ledger. Every write derives the
// piece count inside the same transaction as the insert or update, so a
// record with a stale or missing piece count can never be observed.
type ProductionService interface {
	GetProduction(ctx context.Context) ([]ProductionWithProduct, error)
	GetProductionRecord(ctx context.Context, id int) (*ProductionWithProduct, error)
	CreateProductionRecord(ctx context.Context, input ProductionInput) (*ProductionRecord, error)
	// UpdateProductionRecord merges the patch over the stored record first and
	// recomputes pieces from the merged product and quantity whenever either
	// changed. Updating only the quantity therefore uses the record's current
	// product weight, and swapping the product re-derives pieces against the
	// new product's weight.
	UpdateProductionRecord(ctx context.Context, id int, patch ProductionPatch) (*ProductionRecord, error)
	DeleteProductionRecord(ctx context.Context, id int) error
}

type productionService struct {
	pool *pgxpool.Pool
}

// NewProductionService constructs a ProductionService backed by PostgreSQL.
func NewProductionService(pool *pgxpool.Pool) ProductionService {
	return &productionService{pool: pool}
}

const productionColumns = "id, date, product_id, quantity_kg, pieces, created_at"

func scanProduction(row pgx.Row, r *ProductionRecord) error {
	return row.Scan(&r.ID, &r.Date, &r.ProductID, &r.QuantityKg, &r.Pieces, &r.CreatedAt)
}

func (s *productionService) GetProduction(ctx context.Context) ([]ProductionWithProduct, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT pr.id, pr.date, pr.product_id, pr.quantity_kg, pr.pieces, pr.created_at,
		       p.id, p.name, p.weight_grams, p.raw_material_type, p.raw_material_price_per_kg, p.created_at
		FROM production pr
		JOIN products p ON p.id = pr.product_id
		ORDER BY pr.created_at DESC, pr.id DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("query production records: %w", err)
	}
	defer rows.Close()

	var records []ProductionWithProduct
	for rows.Next() {
		var r ProductionWithProduct
		if err := rows.Scan(
			&r.ID, &r.Date, &r.ProductID, &r.QuantityKg, &r.Pieces, &r.CreatedAt,
			&r.Product.ID, &r.Product.Name, &r.Product.WeightGrams,
			&r.Product.RawMaterialType, &r.Product.RawMaterialPricePerKg, &r.Product.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan production record: %w", err)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

func (s *productionService) GetProductionRecord(ctx context.Context, id int) (*ProductionWithProduct, error) {
	var r ProductionWithProduct
	err := s.pool.QueryRow(ctx, `
		SELECT pr.id, pr.date, pr.product_id, pr.quantity_kg, pr.pieces, pr.created_at,
		       p.id, p.name, p.weight_grams, p.raw_material_type, p.raw_material_price_per_kg, p.created_at
		FROM production pr
		JOIN products p ON p.id = pr.product_id
		WHERE pr.id = $1
	`, id).Scan(
		&r.ID, &r.Date, &r.ProductID, &r.QuantityKg, &r.Pieces, &r.CreatedAt,
		&r.Product.ID, &r.Product.Name, &r.Product.WeightGrams,
		&r.Product.RawMaterialType, &r.Product.RawMaterialPricePerKg, &r.Product.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrorf(ErrNotFound, "production record %d not found", id)
		}
		return nil, fmt.Errorf("fetch production record %d: %w", id, err)
	}
	return &r, nil
}

func validateProductionInput(input ProductionInput) error {
	if err := validateDate("date", input.Date); err != nil {
		return err
	}
	if input.QuantityKg.LessThanOrEqual(decimal.Zero) {
		return domainErrorf(ErrValidation, "produced quantity must be positive, got %s kg", input.QuantityKg)
	}
	return nil
}

// productWeight resolves a product's unit weight within the caller's querier.
func productWeight(ctx context.Context, q pgxQuerier, productID int) (decimal.Decimal, error) {
	var weight decimal.Decimal
	err := q.QueryRow(ctx, "SELECT weight_grams FROM products WHERE id = $1", productID).Scan(&weight)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return decimal.Zero, domainErrorf(ErrNotFound, "product %d not found", productID)
		}
		return decimal.Zero, fmt.Errorf("fetch product %d weight: %w", productID, err)
	}
	return weight, nil
}

func (s *productionService) CreateProductionRecord(ctx context.Context, input ProductionInput) (*ProductionRecord, error) {
	if err := validateProductionInput(input); err != nil {
		return nil, err
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin production create: %w", err)
	}
	defer tx.Rollback(ctx)

	weight, err := productWeight(ctx, tx, input.ProductID)
	if err != nil {
		return nil, err
	}
	pieces, err := PiecesFromMass(input.QuantityKg, weight)
	if err != nil {
		return nil, err
	}

	var r ProductionRecord
	err = scanProduction(tx.QueryRow(ctx, `
		INSERT INTO production (date, product_id, quantity_kg, pieces)
		VALUES ($1, $2, $3, $4)
		RETURNING `+productionColumns,
		input.Date, input.ProductID, input.QuantityKg, pieces,
	), &r)
	if err != nil {
		return nil, fmt.Errorf("insert production record: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit production create: %w", err)
	}
	return &r, nil
}

func (s *productionService) UpdateProductionRecord(ctx context.Context, id int, patch ProductionPatch) (*ProductionRecord, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin production update: %w", err)
	}
	defer tx.Rollback(ctx)

	var current ProductionRecord
	err = scanProduction(tx.QueryRow(ctx,
		"SELECT "+productionColumns+" FROM production WHERE id = $1 FOR UPDATE", id), &current)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrorf(ErrNotFound, "production record %d not found", id)
		}
		return nil, fmt.Errorf("lock production record %d: %w", id, err)
	}

	// Merge the patch over the stored record, then recompute from the merged
	// values. The merged product id decides which unit weight applies even
	// when only the quantity changed.
	merged := ProductionInput{Date: current.Date, ProductID: current.ProductID, QuantityKg: current.QuantityKg}
	if patch.Date != nil {
		merged.Date = *patch.Date
	}
	if patch.ProductID != nil {
		merged.ProductID = *patch.ProductID
	}
	if patch.QuantityKg != nil {
		merged.QuantityKg = *patch.QuantityKg
	}
	if err := validateProductionInput(merged); err != nil {
		return nil, err
	}

	pieces := current.Pieces
	if patch.QuantityKg != nil || patch.ProductID != nil {
		weight, err := productWeight(ctx, tx, merged.ProductID)
		if err != nil {
			return nil, err
		}
		pieces, err = PiecesFromMass(merged.QuantityKg, weight)
		if err != nil {
			return nil, err
		}
	}

	var r ProductionRecord
	err = scanProduction(tx.QueryRow(ctx, `
		UPDATE production
		SET date = $1, product_id = $2, quantity_kg = $3, pieces = $4
		WHERE id = $5
		RETURNING `+productionColumns,
		merged.Date, merged.ProductID, merged.QuantityKg, pieces, id,
	), &r)
	if err != nil {
		return nil, fmt.Errorf("update production record %d: %w", id, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit production update: %w", err)
	}
	return &r, nil
}

func (s *productionService) DeleteProductionRecord(ctx context.Context, id int) error {
	tag, err := s.pool.Exec(ctx, "DELETE FROM production WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete production record %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return domainErrorf(ErrNotFound, "production record %d not found", id)
	}
	return nil
}
