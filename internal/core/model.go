package core

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderPending        OrderStatus = "pending"
	OrderPartialInvoice OrderStatus = "partial_invoice"
	OrderFullyInvoiced  OrderStatus = "fully_invoiced"
	OrderCancelled      OrderStatus = "cancelled"
)

type StockStatus string

const (
	StockCritical StockStatus = "critical"
	StockLow      StockStatus = "low"
	StockGood     StockStatus = "good"
)

// Fixed classification thresholds, in pieces. Stock below CriticalStockLevel
// is critical, below LowStockLevel is low, anything else is good.
const (
	CriticalStockLevel = 20
	LowStockLevel      = 50
)

// Product is a manufactured article. WeightGrams is the unit weight used to
// convert produced mass into countable pieces.
type Product struct {
	ID                    int             `json:"id"`
	Name                  string          `json:"name"`
	WeightGrams           decimal.Decimal `json:"weight_grams"`
	RawMaterialType       string          `json:"raw_material_type"`
	RawMaterialPricePerKg decimal.Decimal `json:"raw_material_price_per_kg"`
	CreatedAt             time.Time       `json:"created_at"`
}

// Party is a business counterparty (customer or supplier).
type Party struct {
	ID          int       `json:"id"`
	Name        string    `json:"name"`
	Address     string    `json:"address"`
	PinCode     string    `json:"pin_code"`
	PhoneNumber string    `json:"phone_number"`
	GSTNumber   *string   `json:"gst_number,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// ProductionRecord is one production run. Pieces is derived from QuantityKg
// and the product's unit weight at write time and is the authoritative
// "produced" contribution to inventory.
type ProductionRecord struct {
	ID         int             `json:"id"`
	Date       string          `json:"date"` // calendar date, YYYY-MM-DD
	ProductID  int             `json:"product_id"`
	QuantityKg decimal.Decimal `json:"quantity_kg"`
	Pieces     int             `json:"pieces"`
	CreatedAt  time.Time       `json:"created_at"`
}

type ProductionWithProduct struct {
	ProductionRecord
	Product Product `json:"product"`
}

type SalesOrder struct {
	ID          int         `json:"id"`
	OrderNumber string      `json:"order_number"`
	PartyID     int         `json:"party_id"`
	Date        string      `json:"date"` // calendar date, YYYY-MM-DD
	Status      OrderStatus `json:"status"`
	ItemCount   int         `json:"item_count"`
	CreatedAt   time.Time   `json:"created_at"`
}

type SalesOrderWithParty struct {
	SalesOrder
	Party Party `json:"party"`
}

// SalesOrderItem is one ordered product line. Fulfilled starts at 0 and only
// ever increases, up to Quantity.
type SalesOrderItem struct {
	ID           int       `json:"id"`
	SalesOrderID int       `json:"sales_order_id"`
	ProductID    int       `json:"product_id"`
	Quantity     int       `json:"quantity"`
	Fulfilled    int       `json:"fulfilled"`
	CreatedAt    time.Time `json:"created_at"`
}

type SalesOrderItemWithProduct struct {
	SalesOrderItem
	Product Product `json:"product"`
}

type SalesOrderDetail struct {
	SalesOrder
	Party Party                       `json:"party"`
	Items []SalesOrderItemWithProduct `json:"items"`
}

// StockAdjustment is an append-only manual correction to a product's stock.
// Quantity is signed: positive increases stock, negative decreases it.
type StockAdjustment struct {
	ID        int       `json:"id"`
	Date      string    `json:"date"` // calendar date, YYYY-MM-DD
	ProductID int       `json:"product_id"`
	Quantity  int       `json:"quantity"`
	Reason    string    `json:"reason"`
	CreatedAt time.Time `json:"created_at"`
}

// InventoryItem is the derived read model for a product's stock position.
// It is recomputed from the three ledgers on every read; no stock counter is
// persisted anywhere, so CurrentStock cannot drift from the write paths.
// CurrentStock may be negative — that is a visible data problem, not an error.
type InventoryItem struct {
	Product
	CurrentStock  int `json:"current_stock"`
	TotalProduced int `json:"total_produced"`
	TotalSold     int `json:"total_sold"`
	Adjustments   int `json:"adjustments"`
}

// StockStatus classifies the item's current stock for display and alerting.
func (i InventoryItem) StockStatus() StockStatus {
	return ClassifyStock(i.CurrentStock)
}

func ClassifyStock(currentStock int) StockStatus {
	switch {
	case currentStock < CriticalStockLevel:
		return StockCritical
	case currentStock < LowStockLevel:
		return StockLow
	default:
		return StockGood
	}
}

// DeriveOrderStatus computes an order's status from its items' fulfillment
// state: fully_invoiced when every item is complete, partial_invoice when at
// least one item has shipped pieces, pending otherwise. Cancellation is a
// separate transition and is never derived.
func DeriveOrderStatus(items []SalesOrderItem) OrderStatus {
	allFulfilled := len(items) > 0
	anyFulfilled := false
	for _, item := range items {
		if item.Fulfilled > 0 {
			anyFulfilled = true
		}
		if item.Fulfilled < item.Quantity {
			allFulfilled = false
		}
	}
	switch {
	case allFulfilled:
		return OrderFullyInvoiced
	case anyFulfilled:
		return OrderPartialInvoice
	default:
		return OrderPending
	}
}

// DashboardMetrics are the time-windowed KPIs derived from the ledgers.
type DashboardMetrics struct {
	TodayProduction     int             `json:"today_production"`
	YesterdayProduction int             `json:"yesterday_production"`
	PendingOrders       int             `json:"pending_orders"`
	UrgentOrders        int             `json:"urgent_orders"`
	LowStockItems       int             `json:"low_stock_items"`
	MonthlyExpense      decimal.Decimal `json:"monthly_expense"`
}
