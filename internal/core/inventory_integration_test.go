package core_test

import (
	"context"
	"testing"

	"factory-erp/internal/core"
)

func findItem(t *testing.T, items []core.InventoryItem, productID int) core.InventoryItem {
	t.Helper()
	for _, item := range items {
		if item.ID == productID {
			return item
		}
	}
	t.Fatalf("product %d not in inventory projection", productID)
	return core.InventoryItem{}
}

func TestInventoryProjection(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	ctx := context.Background()

	inventory := core.NewInventoryService(pool)
	orders := core.NewOrderService(pool)

	bracketID := seedProduct(t, pool, "Bracket", "10", "120.00")
	hingeID := seedProduct(t, pool, "Hinge", "25", "95.50")
	partyID := seedParty(t, pool, "Mehta Traders")

	seedProduction(t, pool, bracketID, "2026-07-01", 80)
	seedProduction(t, pool, bracketID, "2026-07-02", 20)

	order := createOrder(t, orders, "SO-200", partyID, []core.SalesOrderItemInput{
		{ProductID: bracketID, Quantity: 30},
	})
	detail := orderDetail(t, orders, order.ID)
	if err := orders.FulfillSalesOrderItems(ctx, order.ID, []core.FulfillmentRequest{
		{ItemID: detail.Items[0].ID, Quantity: 25},
	}); err != nil {
		t.Fatalf("fulfillment failed: %v", err)
	}

	if _, err := inventory.CreateStockAdjustment(ctx, core.StockAdjustmentInput{
		Date: "2026-07-03", ProductID: bracketID, Quantity: -5, Reason: "damaged in handling",
	}); err != nil {
		t.Fatalf("create adjustment: %v", err)
	}

	items, err := inventory.GetInventory(ctx)
	if err != nil {
		t.Fatalf("get inventory: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("projection has %d items, want 2", len(items))
	}

	bracket := findItem(t, items, bracketID)
	if bracket.TotalProduced != 100 || bracket.TotalSold != 25 || bracket.Adjustments != -5 {
		t.Errorf("bracket sums: produced=%d sold=%d adjusted=%d, want 100/25/-5",
			bracket.TotalProduced, bracket.TotalSold, bracket.Adjustments)
	}
	if bracket.CurrentStock != 70 {
		t.Errorf("bracket current stock = %d, want 70", bracket.CurrentStock)
	}
	if bracket.StockStatus() != core.StockGood {
		t.Errorf("bracket stock status = %s, want %s", bracket.StockStatus(), core.StockGood)
	}

	// Only unfulfilled quantity is pending; it must not reduce stock.
	hinge := findItem(t, items, hingeID)
	if hinge.TotalProduced != 0 || hinge.TotalSold != 0 || hinge.CurrentStock != 0 {
		t.Errorf("untouched product has nonzero sums: %+v", hinge)
	}
}

func TestInventoryProjection_NegativeStockIsPreserved(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	ctx := context.Background()

	inventory := core.NewInventoryService(pool)
	productID := seedProduct(t, pool, "Bracket", "10", "120.00")
	seedProduction(t, pool, productID, "2026-07-01", 10)

	if _, err := inventory.CreateStockAdjustment(ctx, core.StockAdjustmentInput{
		Date: "2026-07-02", ProductID: productID, Quantity: -25, Reason: "stocktake correction",
	}); err != nil {
		t.Fatalf("create adjustment: %v", err)
	}

	items, err := inventory.GetInventory(ctx)
	if err != nil {
		t.Fatalf("get inventory: %v", err)
	}
	item := findItem(t, items, productID)
	if item.CurrentStock != -15 {
		t.Errorf("current stock = %d, want -15 (not clamped to zero)", item.CurrentStock)
	}
	if item.StockStatus() != core.StockCritical {
		t.Errorf("stock status = %s, want %s", item.StockStatus(), core.StockCritical)
	}
}

func TestCreateStockAdjustment_Validation(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	ctx := context.Background()

	inventory := core.NewInventoryService(pool)
	productID := seedProduct(t, pool, "Bracket", "10", "120.00")

	cases := []struct {
		name  string
		input core.StockAdjustmentInput
		want  core.ErrorCode
	}{
		{"zero quantity", core.StockAdjustmentInput{Date: "2026-07-01", ProductID: productID, Quantity: 0, Reason: "x"}, core.ErrValidation},
		{"empty reason", core.StockAdjustmentInput{Date: "2026-07-01", ProductID: productID, Quantity: 5}, core.ErrValidation},
		{"malformed date", core.StockAdjustmentInput{Date: "01/07/2026", ProductID: productID, Quantity: 5, Reason: "x"}, core.ErrValidation},
		{"unknown product", core.StockAdjustmentInput{Date: "2026-07-01", ProductID: 9999, Quantity: 5, Reason: "x"}, core.ErrNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := inventory.CreateStockAdjustment(ctx, tc.input)
			if core.CodeOf(err) != tc.want {
				t.Errorf("error = %v, want code %s", err, tc.want)
			}
		})
	}

	adjustments, err := inventory.GetStockAdjustments(ctx)
	if err != nil {
		t.Fatalf("get adjustments: %v", err)
	}
	if len(adjustments) != 0 {
		t.Errorf("rejected inputs left %d adjustments behind", len(adjustments))
	}
}
