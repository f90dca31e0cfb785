package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// ProductInput carries the writable product fields.
type ProductInput struct {
	Name                  string          `json:"name"`
	WeightGrams           decimal.Decimal `json:"weight_grams"`
	RawMaterialType       string          `json:"raw_material_type"`
	RawMaterialPricePerKg decimal.Decimal `json:"raw_material_price_per_kg"`
}

// ProductPatch is a partial update; nil fields are left unchanged.
type ProductPatch struct {
	Name                  *string          `json:"name,omitempty"`
	WeightGrams           *decimal.Decimal `json:"weight_grams,omitempty"`
	RawMaterialType       *string          `json:"raw_material_type,omitempty"`
	RawMaterialPricePerKg *decimal.Decimal `json:"raw_material_price_per_kg,omitempty"`
}

// ProductService manages the product master. A product referenced by any
// production, sales, or adjustment record cannot be deleted.
type ProductService interface {
	GetProducts(ctx context.Context) ([]Product, error)
	GetProduct(ctx context.Context, id int) (*Product, error)
	CreateProduct(ctx context.Context, input ProductInput) (*Product, error)
	UpdateProduct(ctx context.Context, id int, patch ProductPatch) (*Product, error)
	// DeleteProduct fails with ErrHasDependents if any production, sales, or
	// adjustment record references the product.
	DeleteProduct(ctx context.Context, id int) error
}

type productService struct {
	pool *pgxpool.Pool
}

// NewProductService constructs a ProductService backed by PostgreSQL.
func NewProductService(pool *pgxpool.Pool) ProductService {
	return &productService{pool: pool}
}

const productColumns = "id, name, weight_grams, raw_material_type, raw_material_price_per_kg, created_at"

func scanProduct(row pgx.Row, p *Product) error {
	return row.Scan(&p.ID, &p.Name, &p.WeightGrams, &p.RawMaterialType, &p.RawMaterialPricePerKg, &p.CreatedAt)
}

func (s *productService) GetProducts(ctx context.Context) ([]Product, error) {
	rows, err := s.pool.Query(ctx,
		"SELECT "+productColumns+" FROM products ORDER BY created_at DESC, id DESC")
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}
	defer rows.Close()

	var products []Product
	for rows.Next() {
		var p Product
		if err := scanProduct(rows, &p); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

func (s *productService) GetProduct(ctx context.Context, id int) (*Product, error) {
	var p Product
	err := scanProduct(s.pool.QueryRow(ctx,
		"SELECT "+productColumns+" FROM products WHERE id = $1", id), &p)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrorf(ErrNotFound, "product %d not found", id)
		}
		return nil, fmt.Errorf("fetch product %d: %w", id, err)
	}
	return &p, nil
}

func validateProductInput(input ProductInput) error {
	if input.Name == "" {
		return domainErrorf(ErrValidation, "product name must not be empty")
	}
	if input.WeightGrams.LessThanOrEqual(decimal.Zero) {
		return domainErrorf(ErrValidation, "product unit weight must be positive, got %s g", input.WeightGrams)
	}
	if input.RawMaterialPricePerKg.IsNegative() {
		return domainErrorf(ErrValidation, "raw material price must not be negative, got %s", input.RawMaterialPricePerKg)
	}
	return nil
}

func (s *productService) CreateProduct(ctx context.Context, input ProductInput) (*Product, error) {
	if err := validateProductInput(input); err != nil {
		return nil, err
	}

	var p Product
	err := scanProduct(s.pool.QueryRow(ctx, `
		INSERT INTO products (name, weight_grams, raw_material_type, raw_material_price_per_kg)
		VALUES ($1, $2, $3, $4)
		RETURNING `+productColumns,
		input.Name, input.WeightGrams, input.RawMaterialType, input.RawMaterialPricePerKg,
	), &p)
	if err != nil {
		return nil, fmt.Errorf("create product %q: %w", input.Name, err)
	}
	return &p, nil
}

func (s *productService) UpdateProduct(ctx context.Context, id int, patch ProductPatch) (*Product, error) {
	existing, err := s.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	merged := ProductInput{
		Name:                  existing.Name,
		WeightGrams:           existing.WeightGrams,
		RawMaterialType:       existing.RawMaterialType,
		RawMaterialPricePerKg: existing.RawMaterialPricePerKg,
	}
	if patch.Name != nil {
		merged.Name = *patch.Name
	}
	if patch.WeightGrams != nil {
		merged.WeightGrams = *patch.WeightGrams
	}
	if patch.RawMaterialType != nil {
		merged.RawMaterialType = *patch.RawMaterialType
	}
	if patch.RawMaterialPricePerKg != nil {
		merged.RawMaterialPricePerKg = *patch.RawMaterialPricePerKg
	}
	if err := validateProductInput(merged); err != nil {
		return nil, err
	}

	var p Product
	err = scanProduct(s.pool.QueryRow(ctx, `
		UPDATE products
		SET name = $1, weight_grams = $2, raw_material_type = $3, raw_material_price_per_kg = $4
		WHERE id = $5
		RETURNING `+productColumns,
		merged.Name, merged.WeightGrams, merged.RawMaterialType, merged.RawMaterialPricePerKg, id,
	), &p)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrorf(ErrNotFound, "product %d not found", id)
		}
		return nil, fmt.Errorf("update product %d: %w", id, err)
	}
	return &p, nil
}

// DeleteProduct checks referential integrity in the domain rather than relying
// on the database's foreign-key error, so the failure can report how many
// related records block the delete.
func (s *productService) DeleteProduct(ctx context.Context, id int) error {
	var productionCount, salesCount, adjustmentCount int
	err := s.pool.QueryRow(ctx, `
		SELECT
			(SELECT COUNT(*) FROM production        WHERE product_id = $1),
			(SELECT COUNT(*) FROM sales_order_items WHERE product_id = $1),
			(SELECT COUNT(*) FROM stock_adjustments WHERE product_id = $1)
	`, id).Scan(&productionCount, &salesCount, &adjustmentCount)
	if err != nil {
		return fmt.Errorf("count product %d dependents: %w", id, err)
	}

	if total := productionCount + salesCount + adjustmentCount; total > 0 {
		return domainErrorf(ErrHasDependents,
			"cannot delete product %d: it has %d related records (production, sales, or stock adjustments)", id, total)
	}

	tag, err := s.pool.Exec(ctx, "DELETE FROM products WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete product %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return domainErrorf(ErrNotFound, "product %d not found", id)
	}
	return nil
}
