package core_test

import (
	"context"
	"os"
	"sync"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"
	"github.com/shopspring/decimal"
)

var migrateOnce sync.Once

// setupTestDB connects to the dedicated test database, applies the schema and
// truncates every ledger. Set TEST_DATABASE_URL in your .env or environment to
// run integration tests; without it they are skipped.
func setupTestDB(t *testing.T) *pgxpool.Pool {
	t.Helper()
	_ = godotenv.Load("../../.env")

	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL not set — skipping integration test to protect live database")
	}

	migrateOnce.Do(func() {
		sqlDB, err := goose.OpenDBWithDriver("postgres", dbURL)
		if err != nil {
			t.Fatalf("open migration connection: %v", err)
		}
		defer func() { _ = sqlDB.Close() }()
		if err := goose.Up(sqlDB, "../../migrations"); err != nil {
			t.Fatalf("apply migrations: %v", err)
		}
	})

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		t.Fatalf("connect to test database: %v", err)
	}

	_, err = pool.Exec(ctx, `
		TRUNCATE TABLE stock_adjustments, sales_order_items, sales_orders, production, parties, products
		RESTART IDENTITY CASCADE
	`)
	if err != nil {
		t.Fatalf("truncate test database: %v", err)
	}

	return pool
}

func seedProduct(t *testing.T, pool *pgxpool.Pool, name, weightGrams, pricePerKg string) int {
	t.Helper()
	var id int
	err := pool.QueryRow(context.Background(), `
		INSERT INTO products (name, weight_grams, raw_material_type, raw_material_price_per_kg)
		VALUES ($1, $2, 'steel', $3)
		RETURNING id
	`, name, weightGrams, pricePerKg).Scan(&id)
	if err != nil {
		t.Fatalf("seed product %s: %v", name, err)
	}
	return id
}

func seedParty(t *testing.T, pool *pgxpool.Pool, name string) int {
	t.Helper()
	var id int
	err := pool.QueryRow(context.Background(), `
		INSERT INTO parties (name, address, pin_code, phone_number)
		VALUES ($1, '12 Foundry Lane', '560001', '9000000001')
		RETURNING id
	`, name).Scan(&id)
	if err != nil {
		t.Fatalf("seed party %s: %v", name, err)
	}
	return id
}

func seedProduction(t *testing.T, pool *pgxpool.Pool, productID int, date string, pieces int) {
	t.Helper()
	// quantity_kg is not load-bearing for projection tests; pieces is.
	_, err := pool.Exec(context.Background(), `
		INSERT INTO production (date, product_id, quantity_kg, pieces)
		VALUES ($1, $2, 1.000, $3)
	`, date, productID, pieces)
	if err != nil {
		t.Fatalf("seed production for product %d: %v", productID, err)
	}
}

func mustDecimal(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("bad decimal literal %q: %v", s, err)
	}
	return d
}
