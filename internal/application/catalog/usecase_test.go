package catalog

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

func newTestUseCase() (*UseCase, *apptest.FakeTxRunner, *clock.Fixed) {
	runner := apptest.NewFakeTxRunner()
	clk := clock.NewFixed(time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC))
	uc := NewUseCase(runner, runner.Products, runner.History, clk, dec("5"))
	return uc, runner, clk
}

func TestCreateSiembraHistorialInicial(t *testing.T) {
	uc, runner, clk := newTestUseCase()

	out, warning, err := uc.Create(context.Background(), wholesalerID, userID, dto.CreateProductRequest{
		SKU:       "ARR-001",
		Name:      "Arroz premium",
		Price:     dec("1300"),
		CostPrice: dec("1000"),
		Quantity:  dec("50"),
	})
	require.NoError(t, err)
	require.NotNil(t, out)
	assert.Empty(t, warning)

	assert.True(t, dec("30").Equal(out.ProfitMargin), "1000 -> 1300 es 30%%")
	assert.True(t, dec("50").Equal(out.OriginalStock))

	require.Len(t, runner.History.Entries, 1)
	seed := runner.History.Entries[0]
	assert.Equal(t, entity.ChangeTypeInitial, seed.ChangeType)
	assert.True(t, dec("1300").Equal(seed.SellingPrice))
	assert.Equal(t, clk.Now(), seed.ChangedAt)
}

func TestCreatePrecioBajoCostoAdvierte(t *testing.T) {
	uc, _, _ := newTestUseCase()

	_, warning, err := uc.Create(context.Background(), wholesalerID, userID, dto.CreateProductRequest{
		SKU:       "OFE-001",
		Name:      "Oferta de liquidación",
		Price:     dec("800"),
		CostPrice: dec("1000"),
		Quantity:  dec("10"),
	})
	require.NoError(t, err)
	assert.NotEmpty(t, warning, "vender a pérdida se permite pero advierte")
}

func TestCreateValidaEntrada(t *testing.T) {
	uc, _, _ := newTestUseCase()

	_, _, err := uc.Create(context.Background(), wholesalerID, userID, dto.CreateProductRequest{Name: "sin sku"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	bad := dec("0.95") // fuera del rango 0.1–0.9
	_, _, err = uc.Create(context.Background(), wholesalerID, userID, dto.CreateProductRequest{
		SKU: "X", Name: "X", Price: dec("10"), CostPrice: dec("5"), Quantity: dec("1"),
		LowStockThreshold: &bad,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestUpdatePriceAgregaAlLedger(t *testing.T) {
	uc, runner, clk := newTestUseCase()

	created, _, err := uc.Create(context.Background(), wholesalerID, userID, dto.CreateProductRequest{
		SKU: "ARR-001", Name: "Arroz", Price: dec("1000"), CostPrice: dec("700"), Quantity: dec("10"),
	})
	require.NoError(t, err)
	clk.Advance(time.Hour)

	out, err := uc.UpdatePrice(context.Background(), wholesalerID, userID, created.ID, dto.UpdatePriceRequest{
		NewPrice: dec("1200"),
		Reason:   "ajuste de mercado",
	})
	require.NoError(t, err)

	assert.True(t, out.Applied)
	assert.True(t, dec("1000").Equal(out.PreviousPrice))
	assert.True(t, dec("1200").Equal(out.NewPrice))
	assert.True(t, dec("20").Equal(out.ChangePct))
	assert.True(t, out.Product.PriceManuallyEdited)

	// seed inicial + cambio manual
	require.Len(t, runner.History.Entries, 2)
	assert.True(t, dec("1000").Equal(runner.History.Entries[1].SellingPrice), "la entrada captura el precio saliente")
}

func TestUpdatePriceMismoPrecioEsNoOp(t *testing.T) {
	uc, runner, _ := newTestUseCase()

	created, _, err := uc.Create(context.Background(), wholesalerID, userID, dto.CreateProductRequest{
		SKU: "ARR-001", Name: "Arroz", Price: dec("1000"), CostPrice: dec("700"), Quantity: dec("10"),
	})
	require.NoError(t, err)
	before := len(runner.History.Entries)

	out, err := uc.UpdatePrice(context.Background(), wholesalerID, userID, created.ID, dto.UpdatePriceRequest{
		NewPrice: dec("1000"),
	})
	require.NoError(t, err)

	assert.False(t, out.Applied)
	assert.Len(t, runner.History.Entries, before, "un no-op no agrega nada al ledger")
}

func TestUpdatePriceProductoAjeno(t *testing.T) {
	uc, runner, _ := newTestUseCase()

	runner.Products.Seed(&entity.Product{ID: "ajeno", WholesalerID: "otro-mayorista", Price: dec("10")})

	_, err := uc.UpdatePrice(context.Background(), wholesalerID, userID, "ajeno", dto.UpdatePriceRequest{NewPrice: dec("20")})
	assert.ErrorIs(t, err, domain.ErrNotFound, "el producto de otro mayorista no existe para este")
}

func TestGetPriceHistoryEstadisticasSobreHistorialCompleto(t *testing.T) {
	uc, _, clk := newTestUseCase()

	created, _, err := uc.Create(context.Background(), wholesalerID, userID, dto.CreateProductRequest{
		SKU: "ARR-001", Name: "Arroz", Price: dec("1000"), CostPrice: dec("700"), Quantity: dec("10"),
	})
	require.NoError(t, err)

	for _, p := range []string{"1100", "1200", "900"} {
		clk.Advance(time.Hour)
		_, err := uc.UpdatePrice(context.Background(), wholesalerID, userID, created.ID, dto.UpdatePriceRequest{NewPrice: dec(p)})
		require.NoError(t, err)
	}

	out, err := uc.GetPriceHistory(wholesalerID, created.ID, "", "", "", dto.PageRequest{Limit: 2})
	require.NoError(t, err)

	assert.Len(t, out.Entries, 2, "página limitada")
	assert.Equal(t, 4, out.Page.Total)
	// Estadísticas sobre el historial completo ∪ precio vigente, no sobre la página.
	assert.Equal(t, 4, out.Statistics.PriceChangeCount)
	assert.True(t, dec("1200").Equal(out.Statistics.HighestPrice))
	assert.True(t, dec("900").Equal(out.Statistics.LowestPrice))
	// Últimos registros salientes: 1200 (más nuevo) vs 1100 → subiendo.
	assert.Equal(t, "increases", out.Trend)
}

func TestGetPriceHistoryFiltroInvalido(t *testing.T) {
	uc, runner, _ := newTestUseCase()
	runner.Products.Seed(&entity.Product{ID: "p1", WholesalerID: wholesalerID})

	_, err := uc.GetPriceHistory(wholesalerID, "p1", "tipo-inexistente", "", "", dto.PageRequest{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.GetPriceHistory(wholesalerID, "p1", "", "2025-06-30", "2025-06-01", dto.PageRequest{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "rango invertido")
}
