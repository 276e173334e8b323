package analytics

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Mayorista-api/internal/application/apptest"
	"github.com/jhoicas/Mayorista-api/internal/application/dto"
	"github.com/jhoicas/Mayorista-api/internal/domain"
	"github.com/jhoicas/Mayorista-api/internal/domain/entity"
	"github.com/jhoicas/Mayorista-api/internal/domain/repository"
	"github.com/jhoicas/Mayorista-api/pkg/clock"
)

const wholesalerID = "mayorista-1"

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

type fixture struct {
	uc        *UseCase
	analytics *apptest.FakeAnalyticsRepo
	products  *apptest.FakeProductRepo
	history   *apptest.FakeHistoryRepo
	clk       *clock.Fixed
}

func newFixture() *fixture {
	analytics := &apptest.FakeAnalyticsRepo{}
	products := apptest.NewFakeProductRepo()
	history := apptest.NewFakeHistoryRepo()
	clk := clock.NewFixed(time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC))
	return &fixture{
		uc:        NewUseCase(analytics, products, history, clk),
		analytics: analytics,
		products:  products,
		history:   history,
		clk:       clk,
	}
}

func TestGetSummary(t *testing.T) {
	f := newFixture()
	f.analytics.Summary = repository.SalesSummaryResult{
		SaleCount:    12,
		GrossRevenue: dec("100000"),
		TotalCOGS:    dec("70000"),
		TotalProfit:  dec("30000"),
	}
	f.analytics.TopProducts = []repository.ProductSalesResult{
		{ProductID: "p1", ProductName: "Arroz", UnitsSold: dec("80"), Revenue: dec("60000"), Profit: dec("15000")},
		{ProductID: "p2", ProductName: "Panela", UnitsSold: dec("40"), Revenue: dec("40000"), Profit: dec("15000")},
	}
	f.analytics.LowStock = 3

	out, err := f.uc.GetSummary(context.Background(), wholesalerID, dto.SummaryRequest{})
	require.NoError(t, err)

	assert.Equal(t, 12, out.SaleCount)
	assert.True(t, dec("30000").Equal(out.TotalProfit))
	// Margen sobre costo: (100000 - 70000) / 70000.
	assert.True(t, out.MarginPct.Round(2).Equal(dec("42.86")))
	assert.Equal(t, 3, out.LowStockCount)

	require.Len(t, out.TopProducts, 2)
	// El margen por producto es sobre ingreso, no sobre costo.
	assert.True(t, dec("25").Equal(out.TopProducts[0].MarginPct))
	assert.True(t, dec("37.5").Equal(out.TopProducts[1].MarginPct))

	// Sin fechas, el período son los últimos 30 días del reloj inyectado.
	assert.Equal(t, "2025-05-02", out.Period.StartDate)
	assert.Equal(t, "2025-06-01", out.Period.EndDate)
}

func TestGetSummaryFechasInvalidas(t *testing.T) {
	f := newFixture()

	_, err := f.uc.GetSummary(context.Background(), wholesalerID, dto.SummaryRequest{StartDate: "01/06/2025"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.uc.GetSummary(context.Background(), wholesalerID, dto.SummaryRequest{
		StartDate: "2025-06-30",
		EndDate:   "2025-06-01",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "rango invertido")
}

func TestGetProductTrend(t *testing.T) {
	f := newFixture()
	f.products.Seed(&entity.Product{ID: "p1", WholesalerID: wholesalerID, Name: "Arroz"})

	now := f.clk.Now()
	entries := []entity.PriceHistory{
		{ProductID: "p1", SellingPrice: dec("900"), ChangedAt: now.Add(-3 * time.Hour)},
		{ProductID: "p1", SellingPrice: dec("1000"), ChangedAt: now.Add(-2 * time.Hour)},
		{ProductID: "p1", SellingPrice: dec("1200"), ChangedAt: now.Add(-time.Hour)},
	}
	for i := range entries {
		require.NoError(t, f.history.Append(&entries[i]))
	}

	out, err := f.uc.GetProductTrend(wholesalerID, "p1")
	require.NoError(t, err)
	// Solo cuentan las dos entradas más recientes: 1200 vs 1000.
	assert.Equal(t, "increases", out.Trend)

	_, err = f.uc.GetProductTrend(wholesalerID, "inexistente")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = f.uc.GetProductTrend("otro-mayorista", "p1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestGetProductTrendSinHistorial(t *testing.T) {
	f := newFixture()
	f.products.Seed(&entity.Product{ID: "p1", WholesalerID: wholesalerID})

	out, err := f.uc.GetProductTrend(wholesalerID, "p1")
	require.NoError(t, err)
	assert.Equal(t, "stable", out.Trend)
}

func TestListLowStock(t *testing.T) {
	f := newFixture()
	since := f.clk.Now().Add(-48 * time.Hour)
	f.products.Seed(&entity.Product{
		ID: "p1", WholesalerID: wholesalerID, Name: "Arroz",
		Quantity: dec("2"), OriginalStock: dec("50"),
		LowStockAlert: true, LowStockSince: &since,
	})
	f.products.Seed(&entity.Product{
		ID: "p2", WholesalerID: wholesalerID, Name: "Panela",
		Quantity: dec("40"), OriginalStock: dec("50"),
	})

	out, err := f.uc.ListLowStock(wholesalerID, dto.PageRequest{})
	require.NoError(t, err)

	require.Len(t, out.Items, 1)
	assert.Equal(t, "Arroz", out.Items[0].Name)
	assert.True(t, out.Items[0].LowStockAlert)
}
