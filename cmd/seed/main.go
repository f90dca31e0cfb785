// seed is a one-shot tool that loads a small set of demo data into an empty
// development database: a product catalogue, a few parties, and enough
// production to fulfill orders against.
//
// Usage: go run ./cmd/seed
package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"factory-erp/internal/config"
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
		log.Fatalf("Failed to load config %s: %v", configPath, err)
	}

	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg.Postgres.DSN)
	if err != nil {
		log.Fatalf("Failed to connect: %v", err)
	}
	defer pool.Close()

	var count int
	if err := pool.QueryRow(ctx, "SELECT COUNT(*) FROM products").Scan(&count); err != nil {
		log.Fatalf("Failed to inspect products: %v", err)
	}
	if count > 0 {
		log.Fatalf("Database already has %d products; refusing to seed on top of existing data", count)
	}

	tx, err := pool.Begin(ctx)
	if err != nil {
		log.Fatalf("Failed to begin transaction: %v", err)
	}
	defer tx.Rollback(ctx)

	log.Println("Seeding products...")
	_, err = tx.Exec(ctx, `
		INSERT INTO products (name, weight_grams, raw_material_type, raw_material_price_per_kg) VALUES
		('Shelf Bracket 150mm', 85.000, 'mild steel', 78.50),
		('Door Hinge 4in', 120.000, 'stainless steel', 240.00),
		('Corner Brace 50mm', 32.500, 'mild steel', 78.50),
		('Gate Latch', 210.000, 'galvanized steel', 96.00)
	`)
	if err != nil {
		log.Fatalf("Failed to seed products: %v", err)
	}

	log.Println("Seeding parties...")
	_, err = tx.Exec(ctx, `
		INSERT INTO parties (name, address, pin_code, phone_number, gst_number) VALUES
		('Mehta Hardware Traders', '12 Foundry Lane, Peenya', '560058', '9845012345', '29ABCDE1234F1Z5'),
		('Sunrise Builders', '4 Market Road, Hosur', '635109', '9845098765', NULL),
		('Kaveri Fabrication', '88 Industrial Estate, Mysuru', '570016', '9900011223', '29FGHIJ5678K2Z9')
	`)
	if err != nil {
		log.Fatalf("Failed to seed parties: %v", err)
	}

	log.Println("Seeding production...")
	today := time.Now().Format("2006-01-02")
	yesterday := time.Now().AddDate(0, 0, -1).Format("2006-01-02")
	_, err = tx.Exec(ctx, `
		INSERT INTO production (date, product_id, quantity_kg, pieces) VALUES
		($1, 1, 42.500, 500),
		($1, 2, 24.000, 200),
		($2, 3, 9.750, 300),
		($2, 4, 31.500, 150)
	`, today, yesterday)
	if err != nil {
		log.Fatalf("Failed to seed production: %v", err)
	}

	if err := tx.Commit(ctx); err != nil {
		log.Fatalf("Failed to commit: %v", err)
	}
	log.Println("Seed complete.")
}
