// verify-stock audits the ledgers for consistency: items whose fulfilled
// count escaped its bounds, orders whose stored status disagrees with their
// items, and products projecting negative stock.
//
// Usage: go run ./cmd/verify-stock
package main

import (
	"context"
	"log"
	"os"

	"github.com/joho/godotenv"

	"factory-erp/internal/config"
	"factory-erp/internal/core"
	"factory-erp/internal/db"
)

func main() {
	_ = godotenv.Load()

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config/example.yaml"
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("[CONFIG] failed to load %s: %v", configPath, err)
	}

	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg.Postgres.DSN)
	if err != nil {
		log.Fatalf("[CONNECT] %v", err)
	}
	defer pool.Close()
	log.Println("[CONNECT] success")

	problems := 0

	// Item bounds: 0 <= fulfilled <= quantity. The CHECK constraint should
	// make this impossible; a hit means the schema was tampered with.
	rows, err := pool.Query(ctx, `
		SELECT id, sales_order_id, quantity, fulfilled
		FROM sales_order_items
		WHERE fulfilled < 0 OR fulfilled > quantity
	`)
	if err != nil {
		log.Fatalf("[ITEMS] query failed: %v", err)
	}
	for rows.Next() {
		var id, orderID, quantity, fulfilled int
		if err := rows.Scan(&id, &orderID, &quantity, &fulfilled); err != nil {
			log.Fatalf("[ITEMS] scan failed: %v", err)
		}
		log.Printf("[ITEMS] item %d on order %d: fulfilled %d outside [0, %d]", id, orderID, fulfilled, quantity)
		problems++
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		log.Fatalf("[ITEMS] iterate failed: %v", err)
	}

	// Order status must match what the items derive, unless cancelled.
	rows, err = pool.Query(ctx, `
		SELECT o.id, o.order_number, o.status, i.quantity, i.fulfilled
		FROM sales_orders o
		JOIN sales_order_items i ON i.sales_order_id = o.id
		WHERE o.status <> 'cancelled'
		ORDER BY o.id, i.id
	`)
	if err != nil {
		log.Fatalf("[STATUS] query failed: %v", err)
	}
	type orderState struct {
		number string
		status core.OrderStatus
		items  []core.SalesOrderItem
	}
	orders := make(map[int]*orderState)
	var orderIDs []int
	for rows.Next() {
		var id int
		var number string
		var status core.OrderStatus
		var item core.SalesOrderItem
		if err := rows.Scan(&id, &number, &status, &item.Quantity, &item.Fulfilled); err != nil {
			log.Fatalf("[STATUS] scan failed: %v", err)
		}
		state, ok := orders[id]
		if !ok {
			state = &orderState{number: number, status: status}
			orders[id] = state
			orderIDs = append(orderIDs, id)
		}
		state.items = append(state.items, item)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		log.Fatalf("[STATUS] iterate failed: %v", err)
	}
	for _, id := range orderIDs {
		state := orders[id]
		if derived := core.DeriveOrderStatus(state.items); derived != state.status {
			log.Printf("[STATUS] order %s: stored %s, items derive %s", state.number, state.status, derived)
			problems++
		}
	}

	// Negative projected stock is legal but worth surfacing.
	inventory, err := core.NewInventoryService(pool).GetInventory(ctx)
	if err != nil {
		log.Fatalf("[STOCK] projection failed: %v", err)
	}
	for _, item := range inventory {
		if item.CurrentStock < 0 {
			log.Printf("[STOCK] product %d (%s): current stock %d (produced %d, sold %d, adjusted %d)",
				item.ID, item.Name, item.CurrentStock, item.TotalProduced, item.TotalSold, item.Adjustments)
			problems++
		}
	}

	if problems > 0 {
		log.Fatalf("[DONE] %d problem(s) found", problems)
	}
	log.Println("[DONE] ledgers are consistent")
}
