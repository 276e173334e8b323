package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransitionSale(t *testing.T) {
	cases := []struct {
		from, to string
		ok       bool
	}{
		{SaleStatusPending, SaleStatusCompleted, true},
		{SaleStatusPending, SaleStatusCancelled, true},
		{SaleStatusCompleted, SaleStatusCancelled, true},
		{SaleStatusCompleted, SaleStatusPartiallyRefunded, true},
		{SaleStatusCompleted, SaleStatusRefunded, true},
		{SaleStatusPartiallyRefunded, SaleStatusRefunded, true},
		{SaleStatusPartiallyRefunded, SaleStatusCancelled, true},
		// cancelled es terminal: no hay salida.
		{SaleStatusCancelled, SaleStatusCompleted, false},
		{SaleStatusCancelled, SaleStatusPending, false},
		{SaleStatusCancelled, SaleStatusRefunded, false},
		{SaleStatusRefunded, SaleStatusCancelled, false},
		{SaleStatusCompleted, SaleStatusPending, false},
	}
	for _, c := range cases {
		assert.Equal(t, c.ok, CanTransitionSale(c.from, c.to), "%s -> %s", c.from, c.to)
	}
}

func TestSaleItemProfit(t *testing.T) {
	item := SaleItem{
		Quantity:        dec("3"),
		UnitPrice:       dec("100"),
		CostPriceAtSale: dec("60"),
		Discount:        dec("20"),
		Total:           dec("280"), // 3*100 - 20
	}
	// 280 - 60*3 = 100
	assert.True(t, dec("100").Equal(item.Profit()))
}
