package ingestion

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Mayorista-api/internal/application/apptest"
	"github.com/jhoicas/Mayorista-api/internal/application/dto"
	"github.com/jhoicas/Mayorista-api/internal/domain"
	"github.com/jhoicas/Mayorista-api/internal/domain/entity"
	"github.com/jhoicas/Mayorista-api/pkg/clock"
)

const (
	wholesalerID = "mayorista-1"
	userID       = "user-1"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

type fixture struct {
	uc     *UseCase
	runner *apptest.FakeTxRunner
	orders *apptest.FakeOrderRepo
	clk    *clock.Fixed
}

func newFixture() *fixture {
	runner := apptest.NewFakeTxRunner()
	orders := apptest.NewFakeOrderRepo()
	clk := clock.NewFixed(time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC))
	return &fixture{
		uc:     NewUseCase(runner, orders, runner.Products, clk, dec("30")),
		runner: runner,
		orders: orders,
		clk:    clk,
	}
}

func (f *fixture) seedCertifiedOrder(items ...entity.OrderItem) *entity.SupplierOrder {
	certifiedAt := f.clk.Now().Add(-24 * time.Hour)
	order := &entity.SupplierOrder{
		ID:           uuid.New().String(),
		WholesalerID: wholesalerID,
		SupplierID:   "proveedor-1",
		Status:       entity.OrderStatusCertified,
		CertifiedAt:  &certifiedAt,
		Items:        items,
		CreatedAt:    certifiedAt.Add(-time.Hour),
	}
	for i := range order.Items {
		if order.Items[i].ID == "" {
			order.Items[i].ID = uuid.New().String()
		}
		order.Items[i].OrderID = order.ID
	}
	f.orders.Seed(order)
	return order
}

func TestAddCertifiedOrderCreaProductos(t *testing.T) {
	f := newFixture()
	order := f.seedCertifiedOrder(
		entity.OrderItem{ProductName: "Café orgánico", Quantity: dec("100"), UnitPrice: dec("1000")},
		entity.OrderItem{ProductName: "Panela", Quantity: dec("40"), UnitPrice: dec("500")},
	)

	out, err := f.uc.AddCertifiedOrderToStock(context.Background(), wholesalerID, userID, order.ID, map[string]decimal.Decimal{
		order.Items[0].ID: dec("1300"),
	})
	require.NoError(t, err)
	require.Len(t, out.Products, 2)

	priced := out.Products[0]
	assert.True(t, dec("1300").Equal(priced.Price))
	assert.False(t, priced.RequiresPricing)
	require.NotNil(t, priced.Source)
	assert.Equal(t, order.ID, priced.Source.OrderID)
	assert.Contains(t, priced.SKU, "CERT-")

	unpriced := out.Products[1]
	assert.True(t, unpriced.Price.IsZero())
	assert.True(t, unpriced.RequiresPricing, "sin precio entra pendiente de precio")
	assert.Nil(t, unpriced.OriginalSellingPrice)

	// Solo las líneas con precio siembran entrada initial en el ledger.
	require.Len(t, f.runner.History.Entries, 1)
	assert.Equal(t, entity.ChangeTypeInitial, f.runner.History.Entries[0].ChangeType)
}

func TestAddCertifiedOrderResumenDePrecios(t *testing.T) {
	f := newFixture()
	order := f.seedCertifiedOrder(
		entity.OrderItem{ProductName: "A", Quantity: dec("10"), UnitPrice: dec("1000")},
		entity.OrderItem{ProductName: "B", Quantity: dec("5"), UnitPrice: dec("200")},
	)

	out, err := f.uc.AddCertifiedOrderToStock(context.Background(), wholesalerID, userID, order.ID, map[string]decimal.Decimal{
		order.Items[0].ID: dec("1300"), // margen 30%
		order.Items[1].ID: dec("300"),  // margen 50%
	})
	require.NoError(t, err)

	s := out.Summary
	assert.True(t, dec("11000").Equal(s.TotalCost), "10*1000 + 5*200")
	assert.True(t, dec("14500").Equal(s.TotalPotentialRevenue), "10*1300 + 5*300")
	assert.True(t, dec("3500").Equal(s.TotalPotentialProfit))
	assert.True(t, dec("40").Equal(s.AverageProfitMargin), "media simple de 30 y 50, sin ponderar")
}

func TestAddCertifiedOrderEsUnicaPorPedido(t *testing.T) {
	f := newFixture()
	order := f.seedCertifiedOrder(
		entity.OrderItem{ProductName: "Café", Quantity: dec("10"), UnitPrice: dec("1000")},
	)

	_, err := f.uc.AddCertifiedOrderToStock(context.Background(), wholesalerID, userID, order.ID, nil)
	require.NoError(t, err)
	require.Equal(t, 1, f.runner.Products.Len())

	_, err = f.uc.AddCertifiedOrderToStock(context.Background(), wholesalerID, userID, order.ID, nil)
	assert.ErrorIs(t, err, domain.ErrDuplicate)
	assert.Equal(t, 1, f.runner.Products.Len(), "el reintento no duplica productos")
}

func TestAddCertifiedOrderRechazaNoCertificado(t *testing.T) {
	f := newFixture()
	order := f.seedCertifiedOrder(entity.OrderItem{ProductName: "Café", Quantity: dec("10"), UnitPrice: dec("1000")})
	order.Status = entity.OrderStatusPending
	f.orders.Seed(order) // re-seed con estado pendiente

	_, err := f.uc.AddCertifiedOrderToStock(context.Background(), wholesalerID, userID, order.ID, nil)
	assert.ErrorIs(t, err, domain.ErrOrderNotCertified)
}

func TestAddCertifiedOrderValidaciones(t *testing.T) {
	f := newFixture()

	_, err := f.uc.AddCertifiedOrderToStock(context.Background(), wholesalerID, userID, "no-es-uuid", nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.uc.AddCertifiedOrderToStock(context.Background(), wholesalerID, userID, uuid.New().String(), nil)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	order := f.seedCertifiedOrder(entity.OrderItem{ProductName: "Café", Quantity: dec("10"), UnitPrice: dec("1000")})
	_, err = f.uc.AddCertifiedOrderToStock(context.Background(), wholesalerID, userID, order.ID, map[string]decimal.Decimal{
		order.Items[0].ID: dec("-5"),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "precio negativo")
}

func TestAddCertifiedOrderPrecioBajoCostoAdvierte(t *testing.T) {
	f := newFixture()
	order := f.seedCertifiedOrder(entity.OrderItem{ProductName: "Café", Quantity: dec("10"), UnitPrice: dec("1000")})

	out, err := f.uc.AddCertifiedOrderToStock(context.Background(), wholesalerID, userID, order.ID, map[string]decimal.Decimal{
		order.Items[0].ID: dec("900"),
	})
	require.NoError(t, err, "bajo costo en ingesta es advertencia, no fallo")
	require.Len(t, out.Warnings, 1)
	assert.Contains(t, out.Warnings[0], "por debajo del costo")
}

func TestBulkAddToStockExitoParcial(t *testing.T) {
	f := newFixture()
	ok1 := f.seedCertifiedOrder(entity.OrderItem{ProductName: "A", Quantity: dec("10"), UnitPrice: dec("100")})
	ok2 := f.seedCertifiedOrder(entity.OrderItem{ProductName: "B", Quantity: dec("5"), UnitPrice: dec("200")})

	out, err := f.uc.BulkAddToStock(context.Background(), wholesalerID, userID, dto.BulkIngestRequest{
		OrderIDs: []string{ok1.ID, ok2.ID, "no-es-uuid"},
	})
	require.NoError(t, err, "el fallo de un pedido no aborta el lote")

	assert.Equal(t, 2, out.TotalAdded)
	assert.Equal(t, 2, out.TotalProducts)
	require.Len(t, out.Failed, 1)
	assert.Equal(t, "INVALID_ID", out.Failed[0].Code)
	assert.True(t, out.SuccessRate.Round(2).Equal(dec("66.67")), "2 de 3")
}

func TestCheckOrderStockStatus(t *testing.T) {
	f := newFixture()
	order := f.seedCertifiedOrder(entity.OrderItem{ProductName: "Café", Quantity: dec("10"), UnitPrice: dec("1000")})

	out, err := f.uc.CheckOrderStockStatus(wholesalerID, order.ID)
	require.NoError(t, err)
	assert.False(t, out.InStock)

	_, err = f.uc.AddCertifiedOrderToStock(context.Background(), wholesalerID, userID, order.ID, nil)
	require.NoError(t, err)

	out, err = f.uc.CheckOrderStockStatus(wholesalerID, order.ID)
	require.NoError(t, err)
	assert.True(t, out.InStock)
	assert.Len(t, out.Products, 1)
}

func TestListCertifiedForIngestion(t *testing.T) {
	f := newFixture()
	order := f.seedCertifiedOrder(entity.OrderItem{ProductName: "Café", Quantity: dec("10"), UnitPrice: dec("1000")})

	out, err := f.uc.ListCertifiedForIngestion(wholesalerID, "", dto.PageRequest{})
	require.NoError(t, err)
	require.Len(t, out.Items, 1)

	item := out.Items[0].Items[0]
	assert.True(t, dec("1300").Equal(item.SuggestedPrice), "costo 1000 + recargo 30%%")
	assert.False(t, out.Items[0].AlreadyAdded)
	assert.True(t, dec("10000").Equal(out.Items[0].TotalCost))

	_, err = f.uc.AddCertifiedOrderToStock(context.Background(), wholesalerID, userID, order.ID, nil)
	require.NoError(t, err)

	out, err = f.uc.ListCertifiedForIngestion(wholesalerID, "", dto.PageRequest{})
	require.NoError(t, err)
	assert.True(t, out.Items[0].AlreadyAdded)
}
