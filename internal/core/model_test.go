package core_test

import (
	"testing"

	"factory-erp/internal/core"
)

func item(quantity, fulfilled int) core.SalesOrderItem {
	return core.SalesOrderItem{Quantity: quantity, Fulfilled: fulfilled}
}

func TestDeriveOrderStatus(t *testing.T) {
	cases := []struct {
		name  string
		items []core.SalesOrderItem
		want  core.OrderStatus
	}{
		{"no items", nil, core.OrderPending},
		{"nothing fulfilled", []core.SalesOrderItem{item(10, 0), item(5, 0)}, core.OrderPending},
		{"one item partially fulfilled", []core.SalesOrderItem{item(10, 3), item(5, 0)}, core.OrderPartialInvoice},
		{"one item complete, one untouched", []core.SalesOrderItem{item(10, 10), item(5, 0)}, core.OrderPartialInvoice},
		{"all items complete", []core.SalesOrderItem{item(10, 10), item(5, 5)}, core.OrderFullyInvoiced},
		{"single item complete", []core.SalesOrderItem{item(1, 1)}, core.OrderFullyInvoiced},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := core.DeriveOrderStatus(tc.items); got != tc.want {
				t.Errorf("DeriveOrderStatus = %s, want %s", got, tc.want)
			}
		})
	}
}

func TestClassifyStock(t *testing.T) {
	cases := []struct {
		stock int
		want  core.StockStatus
	}{
		{-10, core.StockCritical},
		{0, core.StockCritical},
		{19, core.StockCritical},
		{20, core.StockLow},
		{49, core.StockLow},
		{50, core.StockGood},
		{1000, core.StockGood},
	}
	for _, tc := range cases {
		if got := core.ClassifyStock(tc.stock); got != tc.want {
			t.Errorf("ClassifyStock(%d) = %s, want %s", tc.stock, got, tc.want)
		}
	}
}
