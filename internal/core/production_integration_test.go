package core_test

import (
	"context"
	"testing"

	"factory-erp/internal/core"
)

func TestCreateProductionRecord(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	ctx := context.Background()

	production := core.NewProductionService(pool)
	productID := seedProduct(t, pool, "Bracket", "10", "120.00")

	record, err := production.CreateProductionRecord(ctx, core.ProductionInput{
		Date: "2026-08-01", ProductID: productID, QuantityKg: mustDecimal(t, "2.505"),
	})
	if err != nil {
		t.Fatalf("create production record: %v", err)
	}
	// 2.505 kg of 10 g pieces: 250 whole pieces, the half piece is not counted.
	if record.Pieces != 250 {
		t.Errorf("pieces = %d, want 250", record.Pieces)
	}

	if _, err := production.CreateProductionRecord(ctx, core.ProductionInput{
		Date: "2026-08-01", ProductID: 9999, QuantityKg: mustDecimal(t, "1"),
	}); core.CodeOf(err) != core.ErrNotFound {
		t.Errorf("unknown product: error = %v, want %s", err, core.ErrNotFound)
	}

	if _, err := production.CreateProductionRecord(ctx, core.ProductionInput{
		Date: "bad-date", ProductID: productID, QuantityKg: mustDecimal(t, "1"),
	}); core.CodeOf(err) != core.ErrValidation {
		t.Errorf("malformed date: error = %v, want %s", err, core.ErrValidation)
	}

	if _, err := production.CreateProductionRecord(ctx, core.ProductionInput{
		Date: "2026-08-01", ProductID: productID, QuantityKg: mustDecimal(t, "0"),
	}); core.CodeOf(err) != core.ErrValidation {
		t.Errorf("zero quantity: error = %v, want %s", err, core.ErrValidation)
	}
}

func TestCreateProductionRecord_ZeroWeightProduct(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	production := core.NewProductionService(pool)
	productID := seedProduct(t, pool, "Broken", "0", "120.00")

	_, err := production.CreateProductionRecord(context.Background(), core.ProductionInput{
		Date: "2026-08-01", ProductID: productID, QuantityKg: mustDecimal(t, "1"),
	})
	if core.CodeOf(err) != core.ErrComputation {
		t.Fatalf("error = %v, want %s", err, core.ErrComputation)
	}

	// The failed conversion must not leave a record behind.
	records, err := production.GetProduction(context.Background())
	if err != nil {
		t.Fatalf("get production: %v", err)
	}
	if len(records) != 0 {
		t.Errorf("failed write left %d records behind", len(records))
	}
}

func TestUpdateProductionRecord_RecomputesPieces(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	ctx := context.Background()

	production := core.NewProductionService(pool)
	lightID := seedProduct(t, pool, "Light", "10", "120.00")
	heavyID := seedProduct(t, pool, "Heavy", "50", "120.00")

	record, err := production.CreateProductionRecord(ctx, core.ProductionInput{
		Date: "2026-08-01", ProductID: lightID, QuantityKg: mustDecimal(t, "1"),
	})
	if err != nil {
		t.Fatalf("create production record: %v", err)
	}
	if record.Pieces != 100 {
		t.Fatalf("initial pieces = %d, want 100", record.Pieces)
	}

	// Quantity-only update recomputes against the record's current product.
	qty := mustDecimal(t, "2")
	updated, err := production.UpdateProductionRecord(ctx, record.ID, core.ProductionPatch{QuantityKg: &qty})
	if err != nil {
		t.Fatalf("quantity update: %v", err)
	}
	if updated.Pieces != 200 {
		t.Errorf("pieces after quantity update = %d, want 200", updated.Pieces)
	}

	// Swapping the product recomputes against the new product's unit weight,
	// keeping the already-updated quantity.
	updated, err = production.UpdateProductionRecord(ctx, record.ID, core.ProductionPatch{ProductID: &heavyID})
	if err != nil {
		t.Fatalf("product update: %v", err)
	}
	if updated.Pieces != 40 {
		t.Errorf("pieces after product swap = %d, want 40", updated.Pieces)
	}

	// A date-only update leaves the derived piece count untouched.
	date := "2026-08-02"
	updated, err = production.UpdateProductionRecord(ctx, record.ID, core.ProductionPatch{Date: &date})
	if err != nil {
		t.Fatalf("date update: %v", err)
	}
	if updated.Pieces != 40 || updated.Date != date {
		t.Errorf("date update changed pieces: pieces=%d date=%s", updated.Pieces, updated.Date)
	}
}

func TestDeleteProductionRecord(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	ctx := context.Background()

	production := core.NewProductionService(pool)
	productID := seedProduct(t, pool, "Bracket", "10", "120.00")

	record, err := production.CreateProductionRecord(ctx, core.ProductionInput{
		Date: "2026-08-01", ProductID: productID, QuantityKg: mustDecimal(t, "1"),
	})
	if err != nil {
		t.Fatalf("create production record: %v", err)
	}

	if err := production.DeleteProductionRecord(ctx, record.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := production.DeleteProductionRecord(ctx, record.ID); core.CodeOf(err) != core.ErrNotFound {
		t.Errorf("second delete: error = %v, want %s", err, core.ErrNotFound)
	}
}
