package core

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// SalesOrderItemInput is one ordered product line; quantities are whole pieces.
type SalesOrderItemInput struct {
	ProductID int `json:"product_id"`
	Quantity  int `json:"quantity"`
}

// SalesOrderInput carries the writable order fields plus its lines.
type SalesOrderInput struct {
	OrderNumber string                `json:"order_number"`
	PartyID     int                   `json:"party_id"`
	Date        string                `json:"date"`
	Items       []SalesOrderItemInput `json:"items"`
}

// FulfillmentRequest asks to ship quantity pieces against one order item.
type FulfillmentRequest struct {
	ItemID   int `json:"item_id"`
	Quantity int `json:"quantity"`
}

// OrderService manages the sales order ledger and the fulfillment engine.
//
// A fulfillment batch is a single transaction: the order, its items, and the
// affected product rows are locked, every request is validated against the
// remaining orderable quantity and the stock projection, and only then are
// the fulfilled increments applied and the order status re-derived. Either
// the whole batch lands or none of it does. Locking the product rows
// serializes concurrent fulfillments against the same product, so two
// requests racing for the last pieces cannot oversell.
type OrderService interface {
	GetSalesOrders(ctx context.Context) ([]SalesOrderWithParty, error)
	GetSalesOrder(ctx context.Context, id int) (*SalesOrderDetail, error)
	CreateSalesOrder(ctx context.Context, input SalesOrderInput) (*SalesOrder, error)
	FulfillSalesOrderItems(ctx context.Context, orderID int, requests []FulfillmentRequest) error
	// CancelInvoice forces the order to cancelled regardless of fulfillment
	// state. It is idempotent and not reversible through this service.
	CancelInvoice(ctx context.Context, orderID int) (*SalesOrder, error)
	// DeleteSalesOrder removes the order and its items. Shipped pieces are
	// NOT credited back to inventory: each fulfilled total is carried into
	// the adjustment ledger so the stock projection is unchanged.
	DeleteSalesOrder(ctx context.Context, orderID int) error
}

type orderService struct {
	pool *pgxpool.Pool
}

// NewOrderService constructs an OrderService backed by PostgreSQL.
func NewOrderService(pool *pgxpool.Pool) OrderService {
	return &orderService{pool: pool}
}

const orderColumns = "id, order_number, party_id, date, status, item_count, created_at"

func scanOrder(row pgx.Row, o *SalesOrder) error {
	return row.Scan(&o.ID, &o.OrderNumber, &o.PartyID, &o.Date, &o.Status, &o.ItemCount, &o.CreatedAt)
}

func (s *orderService) GetSalesOrders(ctx context.Context) ([]SalesOrderWithParty, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT so.id, so.order_number, so.party_id, so.date, so.status, so.item_count, so.created_at,
		       p.id, p.name, p.address, p.pin_code, p.phone_number, p.gst_number, p.created_at
		FROM sales_orders so
		JOIN parties p ON p.id = so.party_id
		ORDER BY so.created_at DESC, so.id DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("query sales orders: %w", err)
	}
	defer rows.Close()

	var orders []SalesOrderWithParty
	for rows.Next() {
		var o SalesOrderWithParty
		if err := rows.Scan(
			&o.ID, &o.OrderNumber, &o.PartyID, &o.Date, &o.Status, &o.ItemCount, &o.CreatedAt,
			&o.Party.ID, &o.Party.Name, &o.Party.Address, &o.Party.PinCode,
			&o.Party.PhoneNumber, &o.Party.GSTNumber, &o.Party.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan sales order: %w", err)
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

func (s *orderService) GetSalesOrder(ctx context.Context, id int) (*SalesOrderDetail, error) {
	var d SalesOrderDetail
	err := s.pool.QueryRow(ctx, `
		SELECT so.id, so.order_number, so.party_id, so.date, so.status, so.item_count, so.created_at,
		       p.id, p.name, p.address, p.pin_code, p.phone_number, p.gst_number, p.created_at
		FROM sales_orders so
		JOIN parties p ON p.id = so.party_id
		WHERE so.id = $1
	`, id).Scan(
		&d.ID, &d.OrderNumber, &d.PartyID, &d.Date, &d.Status, &d.ItemCount, &d.CreatedAt,
		&d.Party.ID, &d.Party.Name, &d.Party.Address, &d.Party.PinCode,
		&d.Party.PhoneNumber, &d.Party.GSTNumber, &d.Party.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrorf(ErrNotFound, "sales order %d not found", id)
		}
		return nil, fmt.Errorf("fetch sales order %d: %w", id, err)
	}

	rows, err := s.pool.Query(ctx, `
		SELECT i.id, i.sales_order_id, i.product_id, i.quantity, i.fulfilled, i.created_at,
		       pr.id, pr.name, pr.weight_grams, pr.raw_material_type, pr.raw_material_price_per_kg, pr.created_at
		FROM sales_order_items i
		JOIN products pr ON pr.id = i.product_id
		WHERE i.sales_order_id = $1
		ORDER BY i.id
	`, id)
	if err != nil {
		return nil, fmt.Errorf("query items for order %d: %w", id, err)
	}
	defer rows.Close()

	for rows.Next() {
		var it SalesOrderItemWithProduct
		if err := rows.Scan(
			&it.ID, &it.SalesOrderID, &it.ProductID, &it.Quantity, &it.Fulfilled, &it.CreatedAt,
			&it.Product.ID, &it.Product.Name, &it.Product.WeightGrams,
			&it.Product.RawMaterialType, &it.Product.RawMaterialPricePerKg, &it.Product.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		d.Items = append(d.Items, it)
	}
	return &d, rows.Err()
}

func (s *orderService) CreateSalesOrder(ctx context.Context, input SalesOrderInput) (*SalesOrder, error) {
	if input.OrderNumber == "" {
		return nil, domainErrorf(ErrValidation, "order number must not be empty")
	}
	if err := validateDate("date", input.Date); err != nil {
		return nil, err
	}
	if len(input.Items) == 0 {
		return nil, domainErrorf(ErrValidation, "sales order must have at least one item")
	}
	for i, item := range input.Items {
		if item.Quantity <= 0 {
			return nil, domainErrorf(ErrValidation, "item %d: ordered quantity must be positive, got %d", i+1, item.Quantity)
		}
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin order creation: %w", err)
	}
	defer tx.Rollback(ctx)

	var partyID int
	err = tx.QueryRow(ctx, "SELECT id FROM parties WHERE id = $1", input.PartyID).Scan(&partyID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrorf(ErrNotFound, "party %d not found", input.PartyID)
		}
		return nil, fmt.Errorf("resolve party %d: %w", input.PartyID, err)
	}

	var o SalesOrder
	err = scanOrder(tx.QueryRow(ctx, `
		INSERT INTO sales_orders (order_number, party_id, date, status, item_count)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+orderColumns,
		input.OrderNumber, input.PartyID, input.Date, OrderPending, len(input.Items),
	), &o)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, domainErrorf(ErrValidation, "order number %q already exists", input.OrderNumber)
		}
		return nil, fmt.Errorf("insert sales order %q: %w", input.OrderNumber, err)
	}

	for i, item := range input.Items {
		var productID int
		err = tx.QueryRow(ctx, "SELECT id FROM products WHERE id = $1", item.ProductID).Scan(&productID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, domainErrorf(ErrNotFound, "item %d: product %d not found", i+1, item.ProductID)
			}
			return nil, fmt.Errorf("item %d: resolve product %d: %w", i+1, item.ProductID, err)
		}
		_, err = tx.Exec(ctx, `
			INSERT INTO sales_order_items (sales_order_id, product_id, quantity, fulfilled)
			VALUES ($1, $2, $3, 0)
		`, o.ID, item.ProductID, item.Quantity)
		if err != nil {
			return nil, fmt.Errorf("insert order item %d: %w", i+1, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit order creation: %w", err)
	}
	return &o, nil
}

func (s *orderService) FulfillSalesOrderItems(ctx context.Context, orderID int, requests []FulfillmentRequest) error {
	if len(requests) == 0 {
		return domainErrorf(ErrValidation, "fulfillment batch must not be empty")
	}

	// Collapse duplicate item ids so one row lock covers each item, and walk
	// the batch in id order so two overlapping batches lock in the same order.
	requested := make(map[int]int, len(requests))
	for _, req := range requests {
		if req.Quantity <= 0 {
			return domainErrorf(ErrValidation, "fulfillment quantity for item %d must be positive, got %d", req.ItemID, req.Quantity)
		}
		requested[req.ItemID] += req.Quantity
	}
	itemIDs := make([]int, 0, len(requested))
	for id := range requested {
		itemIDs = append(itemIDs, id)
	}
	sort.Ints(itemIDs)

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin fulfillment: %w", err)
	}
	defer tx.Rollback(ctx)

	var status OrderStatus
	err = tx.QueryRow(ctx,
		"SELECT status FROM sales_orders WHERE id = $1 FOR UPDATE", orderID).Scan(&status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domainErrorf(ErrNotFound, "sales order %d not found", orderID)
		}
		return fmt.Errorf("lock sales order %d: %w", orderID, err)
	}
	if status == OrderCancelled {
		return domainErrorf(ErrValidation, "sales order %d is cancelled and cannot be fulfilled", orderID)
	}

	// Lock and validate every item before any write.
	perProduct := make(map[int]int)
	for _, itemID := range itemIDs {
		var item SalesOrderItem
		err = tx.QueryRow(ctx, `
			SELECT id, sales_order_id, product_id, quantity, fulfilled
			FROM sales_order_items
			WHERE id = $1 AND sales_order_id = $2
			FOR UPDATE
		`, itemID, orderID).Scan(&item.ID, &item.SalesOrderID, &item.ProductID, &item.Quantity, &item.Fulfilled)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return domainErrorf(ErrNotFound, "order item %d not found on sales order %d", itemID, orderID)
			}
			return fmt.Errorf("lock order item %d: %w", itemID, err)
		}

		remaining := item.Quantity - item.Fulfilled
		if qty := requested[itemID]; qty > remaining {
			return domainErrorf(ErrOverFulfillment,
				"cannot fulfill %d pieces of item %d: only %d pieces remaining to fulfill", qty, itemID, remaining)
		}
		perProduct[item.ProductID] += requested[itemID]
	}

	// Lock the affected product rows in id order, then check the projected
	// stock against the batch's per-product total. The product lock is what
	// serializes concurrent fulfillments of the same product.
	productIDs := make([]int, 0, len(perProduct))
	for id := range perProduct {
		productIDs = append(productIDs, id)
	}
	sort.Ints(productIDs)
	for _, productID := range productIDs {
		var locked int
		if err := tx.QueryRow(ctx,
			"SELECT id FROM products WHERE id = $1 FOR UPDATE", productID).Scan(&locked); err != nil {
			return fmt.Errorf("lock product %d: %w", productID, err)
		}
		produced, sold, adjusted, err := projectStock(ctx, tx, productID)
		if err != nil {
			return fmt.Errorf("project stock for product %d: %w", productID, err)
		}
		currentStock := produced - sold + adjusted
		if qty := perProduct[productID]; qty > currentStock {
			return domainErrorf(ErrInsufficientStock,
				"insufficient stock for product %d: available %d pieces, requested %d pieces", productID, currentStock, qty)
		}
	}

	// All checks passed: apply the increments. Incrementing rather than
	// overwriting keeps interleaved partial fulfillments across calls additive.
	for _, itemID := range itemIDs {
		if _, err := tx.Exec(ctx,
			"UPDATE sales_order_items SET fulfilled = fulfilled + $1 WHERE id = $2",
			requested[itemID], itemID); err != nil {
			return fmt.Errorf("apply fulfillment to item %d: %w", itemID, err)
		}
	}

	// Re-derive the order status from all of its items.
	rows, err := tx.Query(ctx,
		"SELECT quantity, fulfilled FROM sales_order_items WHERE sales_order_id = $1", orderID)
	if err != nil {
		return fmt.Errorf("query items for status derivation: %w", err)
	}
	var items []SalesOrderItem
	for rows.Next() {
		var item SalesOrderItem
		if err := rows.Scan(&item.Quantity, &item.Fulfilled); err != nil {
			rows.Close()
			return fmt.Errorf("scan item for status derivation: %w", err)
		}
		items = append(items, item)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate items for status derivation: %w", err)
	}

	if _, err := tx.Exec(ctx,
		"UPDATE sales_orders SET status = $1 WHERE id = $2",
		DeriveOrderStatus(items), orderID); err != nil {
		return fmt.Errorf("update status of order %d: %w", orderID, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit fulfillment: %w", err)
	}
	return nil
}

func (s *orderService) CancelInvoice(ctx context.Context, orderID int) (*SalesOrder, error) {
	var o SalesOrder
	err := scanOrder(s.pool.QueryRow(ctx, `
		UPDATE sales_orders SET status = $1 WHERE id = $2
		RETURNING `+orderColumns,
		OrderCancelled, orderID,
	), &o)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrorf(ErrNotFound, "sales order %d not found", orderID)
		}
		return nil, fmt.Errorf("cancel sales order %d: %w", orderID, err)
	}
	return &o, nil
}

func (s *orderService) DeleteSalesOrder(ctx context.Context, orderID int) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin order deletion: %w", err)
	}
	defer tx.Rollback(ctx)

	var orderNumber string
	err = tx.QueryRow(ctx,
		"SELECT order_number FROM sales_orders WHERE id = $1 FOR UPDATE", orderID).Scan(&orderNumber)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domainErrorf(ErrNotFound, "sales order %d not found", orderID)
		}
		return fmt.Errorf("lock sales order %d: %w", orderID, err)
	}

	// Fulfilled quantities are never credited back to inventory. The item rows
	// leave the sold ledger with the order, so each shipped total is carried
	// over into the adjustment ledger to keep the stock projection unchanged.
	rows, err := tx.Query(ctx, `
		SELECT product_id, SUM(fulfilled)
		FROM sales_order_items
		WHERE sales_order_id = $1
		GROUP BY product_id
		HAVING SUM(fulfilled) > 0
	`, orderID)
	if err != nil {
		return fmt.Errorf("sum fulfilled pieces of order %d: %w", orderID, err)
	}
	type shipped struct {
		productID int
		pieces    int
	}
	var carryOver []shipped
	for rows.Next() {
		var s shipped
		if err := rows.Scan(&s.productID, &s.pieces); err != nil {
			rows.Close()
			return fmt.Errorf("scan fulfilled pieces of order %d: %w", orderID, err)
		}
		carryOver = append(carryOver, s)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate fulfilled pieces of order %d: %w", orderID, err)
	}

	today := time.Now().Format(dateLayout)
	for _, s := range carryOver {
		if _, err := tx.Exec(ctx, `
			INSERT INTO stock_adjustments (date, product_id, quantity, reason)
			VALUES ($1, $2, $3, $4)
		`, today, s.productID, -s.pieces,
			fmt.Sprintf("sales order %s deleted; %d fulfilled pieces retained as sold", orderNumber, s.pieces)); err != nil {
			return fmt.Errorf("carry over fulfilled pieces of product %d: %w", s.productID, err)
		}
	}

	if _, err := tx.Exec(ctx,
		"DELETE FROM sales_order_items WHERE sales_order_id = $1", orderID); err != nil {
		return fmt.Errorf("delete items of order %d: %w", orderID, err)
	}
	if _, err := tx.Exec(ctx, "DELETE FROM sales_orders WHERE id = $1", orderID); err != nil {
		return fmt.Errorf("delete sales order %d: %w", orderID, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit order deletion: %w", err)
	}
	return nil
}
