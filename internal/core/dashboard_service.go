package core

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// DashboardService derives read-only KPIs from the same ledgers the write
// paths maintain. All date windows are calendar dates compared as strings.
type DashboardService interface {
	GetDashboardMetrics(ctx context.Context) (*DashboardMetrics, error)
}

type dashboardService struct {
	pool *pgxpool.Pool
	now  func() time.Time
}

// NewDashboardService constructs a DashboardService backed by PostgreSQL.
func NewDashboardService(pool *pgxpool.Pool) DashboardService {
	return &dashboardService{pool: pool, now: time.Now}
}

func (s *dashboardService) GetDashboardMetrics(ctx context.Context) (*DashboardMetrics, error) {
	now := s.now()
	today := now.Format(dateLayout)
	yesterday := now.AddDate(0, 0, -1).Format(dateLayout)
	sevenDaysAgo := now.AddDate(0, 0, -7).Format(dateLayout)
	thisMonth := now.Format("2006-01")

	var m DashboardMetrics

	err := s.pool.QueryRow(ctx, `
		SELECT COALESCE((SELECT SUM(pieces) FROM production WHERE date = $1), 0),
		       COALESCE((SELECT SUM(pieces) FROM production WHERE date = $2), 0)
	`, today, yesterday).Scan(&m.TodayProduction, &m.YesterdayProduction)
	if err != nil {
		return nil, fmt.Errorf("production totals: %w", err)
	}

	// Urgent orders are pending orders at least 7 days old; ISO date strings
	// compare lexically in calendar order.
	err = s.pool.QueryRow(ctx, `
		SELECT COUNT(*) FILTER (WHERE status = $1),
		       COUNT(*) FILTER (WHERE status = $1 AND date <= $2)
		FROM sales_orders
	`, OrderPending, sevenDaysAgo).Scan(&m.PendingOrders, &m.UrgentOrders)
	if err != nil {
		return nil, fmt.Errorf("order counts: %w", err)
	}

	err = s.pool.QueryRow(ctx, `
		SELECT COUNT(*)
		FROM products p
		WHERE COALESCE((SELECT SUM(pieces)    FROM production        WHERE product_id = p.id), 0)
		    - COALESCE((SELECT SUM(fulfilled) FROM sales_order_items WHERE product_id = p.id), 0)
		    + COALESCE((SELECT SUM(quantity)  FROM stock_adjustments WHERE product_id = p.id), 0) < $1
	`, LowStockLevel).Scan(&m.LowStockItems)
	if err != nil {
		return nil, fmt.Errorf("low stock count: %w", err)
	}

	// Material expense for the current calendar month: kilograms produced
	// times the product's raw material price per kilogram.
	err = s.pool.QueryRow(ctx, `
		SELECT COALESCE(SUM(pr.quantity_kg * p.raw_material_price_per_kg), 0)
		FROM production pr
		JOIN products p ON p.id = pr.product_id
		WHERE pr.date LIKE $1 || '-%'
	`, thisMonth).Scan(&m.MonthlyExpense)
	if err != nil {
		return nil, fmt.Errorf("monthly expense: %w", err)
	}

	return &m, nil
}
