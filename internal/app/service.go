package app

import (
	"context"

	"factory-erp/internal/core"
)

// ApplicationService is the single interface UI adapters call. It decouples
// presentation from the domain services and keeps adapter code free of any
// knowledge about how the core is wired.
type ApplicationService interface {
	// Products
	ListProducts(ctx context.Context) ([]core.Product, error)
	GetProduct(ctx context.Context, id int) (*core.Product, error)
	CreateProduct(ctx context.Context, input core.ProductInput) (*core.Product, error)
	UpdateProduct(ctx context.Context, id int, patch core.ProductPatch) (*core.Product, error)
	DeleteProduct(ctx context.Context, id int) error

	// Parties
	ListParties(ctx context.Context) ([]core.Party, error)
	CreateParty(ctx context.Context, input core.PartyInput) (*core.Party, error)
	UpdateParty(ctx context.Context, id int, patch core.PartyPatch) (*core.Party, error)
	DeleteParty(ctx context.Context, id int) error

	// Production
	ListProduction(ctx context.Context) ([]core.ProductionWithProduct, error)
	CreateProductionRecord(ctx context.Context, input core.ProductionInput) (*core.ProductionRecord, error)
	UpdateProductionRecord(ctx context.Context, id int, patch core.ProductionPatch) (*core.ProductionRecord, error)
	DeleteProductionRecord(ctx context.Context, id int) error

	// Sales orders and fulfillment
	ListSalesOrders(ctx context.Context) ([]core.SalesOrderWithParty, error)
	GetSalesOrder(ctx context.Context, id int) (*core.SalesOrderDetail, error)
	CreateSalesOrder(ctx context.Context, input core.SalesOrderInput) (*core.SalesOrder, error)
	FulfillSalesOrderItems(ctx context.Context, orderID int, requests []core.FulfillmentRequest) error
	CancelInvoice(ctx context.Context, orderID int) (*core.SalesOrder, error)
	DeleteSalesOrder(ctx context.Context, orderID int) error

	// Inventory
	GetInventory(ctx context.Context) ([]core.InventoryItem, error)
	ListStockAdjustments(ctx context.Context) ([]core.StockAdjustment, error)
	CreateStockAdjustment(ctx context.Context, input core.StockAdjustmentInput) (*core.StockAdjustment, error)

	// Dashboard
	GetDashboardMetrics(ctx context.Context) (*core.DashboardMetrics, error)
}

type appService struct {
	products   core.ProductService
	parties    core.PartyService
	production core.ProductionService
	orders     core.OrderService
	inventory  core.InventoryService
	dashboard  core.DashboardService
}

// NewAppService wires the domain services behind the ApplicationService facade.
func NewAppService(
	products core.ProductService,
	parties core.PartyService,
	production core.ProductionService,
	orders core.OrderService,
	inventory core.InventoryService,
	dashboard core.DashboardService,
) ApplicationService {
	return &appService{
		products:   products,
		parties:    parties,
		production: production,
		orders:     orders,
		inventory:  inventory,
		dashboard:  dashboard,
	}
}

func (s *appService) ListProducts(ctx context.Context) ([]core.Product, error) {
	return s.products.GetProducts(ctx)
}

func (s *appService) GetProduct(ctx context.Context, id int) (*core.Product, error) {
	return s.products.GetProduct(ctx, id)
}

func (s *appService) CreateProduct(ctx context.Context, input core.ProductInput) (*core.Product, error) {
	return s.products.CreateProduct(ctx, input)
}

func (s *appService) UpdateProduct(ctx context.Context, id int, patch core.ProductPatch) (*core.Product, error) {
	return s.products.UpdateProduct(ctx, id, patch)
}

func (s *appService) DeleteProduct(ctx context.Context, id int) error {
	return s.products.DeleteProduct(ctx, id)
}

func (s *appService) ListParties(ctx context.Context) ([]core.Party, error) {
	return s.parties.GetParties(ctx)
}

func (s *appService) CreateParty(ctx context.Context, input core.PartyInput) (*core.Party, error) {
	return s.parties.CreateParty(ctx, input)
}

func (s *appService) UpdateParty(ctx context.Context, id int, patch core.PartyPatch) (*core.Party, error) {
	return s.parties.UpdateParty(ctx, id, patch)
}

func (s *appService) DeleteParty(ctx context.Context, id int) error {
	return s.parties.DeleteParty(ctx, id)
}

func (s *appService) ListProduction(ctx context.Context) ([]core.ProductionWithProduct, error) {
	return s.production.GetProduction(ctx)
}

func (s *appService) CreateProductionRecord(ctx context.Context, input core.ProductionInput) (*core.ProductionRecord, error) {
	return s.production.CreateProductionRecord(ctx, input)
}

func (s *appService) UpdateProductionRecord(ctx context.Context, id int, patch core.ProductionPatch) (*core.ProductionRecord, error) {
	return s.production.UpdateProductionRecord(ctx, id, patch)
}

func (s *appService) DeleteProductionRecord(ctx context.Context, id int) error {
	return s.production.DeleteProductionRecord(ctx, id)
}

func (s *appService) ListSalesOrders(ctx context.Context) ([]core.SalesOrderWithParty, error) {
	return s.orders.GetSalesOrders(ctx)
}

func (s *appService) GetSalesOrder(ctx context.Context, id int) (*core.SalesOrderDetail, error) {
	return s.orders.GetSalesOrder(ctx, id)
}

func (s *appService) CreateSalesOrder(ctx context.Context, input core.SalesOrderInput) (*core.SalesOrder, error) {
	return s.orders.CreateSalesOrder(ctx, input)
}

func (s *appService) FulfillSalesOrderItems(ctx context.Context, orderID int, requests []core.FulfillmentRequest) error {
	return s.orders.FulfillSalesOrderItems(ctx, orderID, requests)
}

func (s *appService) CancelInvoice(ctx context.Context, orderID int) (*core.SalesOrder, error) {
	return s.orders.CancelInvoice(ctx, orderID)
}

func (s *appService) DeleteSalesOrder(ctx context.Context, orderID int) error {
	return s.orders.DeleteSalesOrder(ctx, orderID)
}

func (s *appService) GetInventory(ctx context.Context) ([]core.InventoryItem, error) {
	return s.inventory.GetInventory(ctx)
}

func (s *appService) ListStockAdjustments(ctx context.Context) ([]core.StockAdjustment, error) {
	return s.inventory.GetStockAdjustments(ctx)
}

func (s *appService) CreateStockAdjustment(ctx context.Context, input core.StockAdjustmentInput) (*core.StockAdjustment, error) {
	return s.inventory.CreateStockAdjustment(ctx, input)
}

func (s *appService) GetDashboardMetrics(ctx context.Context) (*core.DashboardMetrics, error) {
	return s.dashboard.GetDashboardMetrics(ctx)
}
