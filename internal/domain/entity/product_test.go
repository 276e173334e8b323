package entity

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestProfitMargin(t *testing.T) {
	p := &Product{Price: dec("1300"), CostPrice: dec("1000")}
	assert.True(t, dec("30").Equal(p.ProfitMargin()), "costo 1000 y venta 1300 es 30%% de margen")

	p = &Product{Price: dec("500"), CostPrice: decimal.Zero}
	assert.True(t, p.ProfitMargin().IsZero(), "margen indefinido con costo cero")
}

func TestUpdatePriceNoOp(t *testing.T) {
	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	p := &Product{ID: "p1", Price: dec("100"), CostPrice: dec("60")}

	entry, applied := p.UpdatePrice(dec("100"), "user-1", "sin cambio", "", ChangeTypeManual, "", now)
	assert.False(t, applied)
	assert.Nil(t, entry)
	assert.Nil(t, p.LastPriceChange)
}

func TestUpdatePriceRegistraPrecioSaliente(t *testing.T) {
	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	p := &Product{ID: "p1", Price: dec("100"), CostPrice: dec("60")}

	entry, applied := p.UpdatePrice(dec("120"), "user-1", "ajuste de mercado", "", ChangeTypeManual, "", now)
	require.True(t, applied)
	require.NotNil(t, entry)

	// La entrada captura el precio SALIENTE, no el nuevo.
	assert.True(t, dec("100").Equal(entry.SellingPrice))
	assert.True(t, dec("60").Equal(entry.CostPrice))
	assert.Equal(t, ChangeTypeManual, entry.ChangeType)

	assert.True(t, dec("120").Equal(p.Price))
	assert.True(t, p.PriceManuallyEdited)
	require.NotNil(t, p.OriginalSellingPrice)
	assert.True(t, dec("100").Equal(*p.OriginalSellingPrice), "el primer precio registrado es el saliente")
	require.NotNil(t, p.LastPriceChange)
	assert.True(t, dec("100").Equal(p.LastPriceChange.PreviousPrice))
	assert.True(t, dec("120").Equal(p.LastPriceChange.NewPrice))
}

func TestUpdatePriceVentaNoMarcaManual(t *testing.T) {
	now := time.Now()
	p := &Product{ID: "p1", Price: dec("100"), CostPrice: dec("60"), PriceManuallyEdited: true}

	_, applied := p.UpdatePrice(dec("110"), "user-1", "precio ajustado en venta", "VTA-1", ChangeTypeSale, "", now)
	require.True(t, applied)
	assert.False(t, p.PriceManuallyEdited, "un cambio por venta no cuenta como edición manual")
}

func TestAssignFirstPrice(t *testing.T) {
	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	p := &Product{
		ID:              "p1",
		Price:           decimal.Zero,
		CostPrice:       dec("800"),
		RequiresPricing: true,
		Source:          &CertifiedSource{OrderID: "o1", ItemID: "i1"},
	}

	entry := p.AssignFirstPrice(dec("1000"), "user-1", "VTA-99", now)
	require.NotNil(t, entry)

	assert.True(t, dec("1000").Equal(p.Price))
	assert.False(t, p.RequiresPricing)
	require.NotNil(t, p.OriginalSellingPrice)
	assert.True(t, dec("1000").Equal(*p.OriginalSellingPrice))

	// La entrada de primera venta registra el precio ENTRANTE.
	assert.True(t, dec("1000").Equal(entry.SellingPrice))
	assert.Equal(t, "VTA-99", entry.SaleReference)
	assert.Equal(t, ChangeTypeManual, entry.ChangeType)
}

func TestCheckLowStockConStockOriginal(t *testing.T) {
	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	floor := dec("5")
	p := &Product{
		Quantity:          dec("10"),
		OriginalStock:     dec("10"),
		LowStockThreshold: dec("0.2"),
	}

	assert.False(t, p.CheckLowStock(now, floor))
	assert.Nil(t, p.LowStockSince)

	// Cae al 20% del stock original: entra en alerta y se estampa el timestamp.
	p.Quantity = dec("2")
	assert.True(t, p.CheckLowStock(now, floor))
	require.NotNil(t, p.LowStockSince)
	first := *p.LowStockSince

	// Chequeos repetidos no re-estampan.
	later := now.Add(2 * time.Hour)
	assert.True(t, p.CheckLowStock(later, floor))
	assert.Equal(t, first, *p.LowStockSince)

	// Al salir de la alerta el timestamp se limpia.
	p.Quantity = dec("9")
	assert.False(t, p.CheckLowStock(later, floor))
	assert.Nil(t, p.LowStockSince)
}

func TestCheckLowStockSinStockOriginal(t *testing.T) {
	now := time.Now()
	p := &Product{Quantity: dec("4"), OriginalStock: decimal.Zero}

	assert.True(t, p.CheckLowStock(now, dec("5")), "sin stock original aplica el piso absoluto")

	p.Quantity = dec("6")
	assert.False(t, p.CheckLowStock(now, dec("5")))
}
