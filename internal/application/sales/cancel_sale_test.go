package sales

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Mayorista-api/internal/application/apptest"
	"github.com/jhoicas/Mayorista-api/internal/application/dto"
	"github.com/jhoicas/Mayorista-api/internal/domain"
	"github.com/jhoicas/Mayorista-api/internal/domain/entity"
	"github.com/jhoicas/Mayorista-api/pkg/clock"
)

type reversalFixture struct {
	create   *CreateSaleUseCase
	reversal *ReversalUseCase
	runner   *apptest.FakeTxRunner
	clk      *clock.Fixed
}

func newReversalFixture() *reversalFixture {
	runner := apptest.NewFakeTxRunner()
	clk := clock.NewFixed(time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC))
	return &reversalFixture{
		create:   NewCreateSaleUseCase(runner, clk, dec("5")),
		reversal: NewReversalUseCase(runner, runner.Sales, clk, dec("5")),
		runner:   runner,
		clk:      clk,
	}
}

// sellUnits vende qty unidades del producto p1 y retorna la venta creada.
func (f *reversalFixture) sellUnits(t *testing.T, qty string) *dto.SaleResponse {
	t.Helper()
	out, err := f.create.CreateSale(context.Background(), wholesalerID, userID, dto.CreateSaleRequest{
		Channel:      entity.SaleChannelWholesale,
		CustomerName: "Tienda La Esquina",
		Items: []dto.SaleItemRequest{
			{ProductRef: "p1", Quantity: dec(qty), UnitPrice: dec("100")},
		},
	})
	require.NoError(t, err)
	return out
}

func TestCancelSaleTotalRestauraStock(t *testing.T) {
	f := newReversalFixture()
	seedProduct(f.runner, entity.Product{
		ID: "p1", SKU: "ARR-001", Name: "Arroz", Price: dec("100"), CostPrice: dec("60"),
		Quantity: dec("50"), OriginalStock: dec("50"),
	})
	sale := f.sellUnits(t, "10")
	require.True(t, dec("40").Equal(f.runner.Products.Get("p1").Quantity))
	f.clk.Advance(time.Hour)

	out, err := f.reversal.CancelSale(context.Background(), wholesalerID, sale.ID, dto.CancelSaleRequest{
		Reason: "cliente desistió",
	})
	require.NoError(t, err)

	assert.Equal(t, entity.SaleStatusCancelled, out.Status)
	assert.Equal(t, "cliente desistió", out.CancelReason)
	// Cada línea restaura exactamente una vez: vuelta completa al stock inicial.
	assert.True(t, dec("50").Equal(f.runner.Products.Get("p1").Quantity))

	stored := f.runner.Sales.Get(sale.ID)
	require.NotNil(t, stored)
	assert.Equal(t, entity.SaleStatusCancelled, stored.Status)
}

func TestCancelSaleReembolsoParcialNoRestaura(t *testing.T) {
	f := newReversalFixture()
	seedProduct(f.runner, entity.Product{
		ID: "p1", Name: "Arroz", Price: dec("100"), CostPrice: dec("60"),
		Quantity: dec("50"), OriginalStock: dec("50"),
	})
	sale := f.sellUnits(t, "10")

	refund := dec("300")
	out, err := f.reversal.CancelSale(context.Background(), wholesalerID, sale.ID, dto.CancelSaleRequest{
		Partial:      true,
		RefundAmount: &refund,
		Reason:       "unidades dañadas",
	})
	require.NoError(t, err)

	assert.Equal(t, entity.SaleStatusPartiallyRefunded, out.Status)
	require.NotNil(t, out.RefundAmount)
	assert.True(t, dec("300").Equal(*out.RefundAmount))
	assert.Contains(t, out.Notes, "reembolso parcial: unidades dañadas")
	// La mercancía no volvió: el stock sigue descontado.
	assert.True(t, dec("40").Equal(f.runner.Products.Get("p1").Quantity))
}

func TestCancelSaleReembolsoMayorAlTotal(t *testing.T) {
	f := newReversalFixture()
	seedProduct(f.runner, entity.Product{
		ID: "p1", Name: "Arroz", Price: dec("100"), CostPrice: dec("60"),
		Quantity: dec("50"), OriginalStock: dec("50"),
	})
	sale := f.sellUnits(t, "10") // total 1000

	refund := dec("1500")
	_, err := f.reversal.CancelSale(context.Background(), wholesalerID, sale.ID, dto.CancelSaleRequest{
		Partial:      true,
		RefundAmount: &refund,
	})
	assert.ErrorIs(t, err, domain.ErrRefundExceedsTotal)
}

func TestCancelSaleYaCancelada(t *testing.T) {
	f := newReversalFixture()
	seedProduct(f.runner, entity.Product{
		ID: "p1", Name: "Arroz", Price: dec("100"), CostPrice: dec("60"),
		Quantity: dec("50"), OriginalStock: dec("50"),
	})
	sale := f.sellUnits(t, "10")

	_, err := f.reversal.CancelSale(context.Background(), wholesalerID, sale.ID, dto.CancelSaleRequest{})
	require.NoError(t, err)

	_, err = f.reversal.CancelSale(context.Background(), wholesalerID, sale.ID, dto.CancelSaleRequest{})
	assert.ErrorIs(t, err, domain.ErrAlreadyCancelled)
	// La doble cancelación no duplica la restauración.
	assert.True(t, dec("50").Equal(f.runner.Products.Get("p1").Quantity))
}

func TestCancelSaleDeOtroMayorista(t *testing.T) {
	f := newReversalFixture()
	seedProduct(f.runner, entity.Product{
		ID: "p1", Name: "Arroz", Price: dec("100"), CostPrice: dec("60"),
		Quantity: dec("50"), OriginalStock: dec("50"),
	})
	sale := f.sellUnits(t, "1")

	_, err := f.reversal.CancelSale(context.Background(), "otro-mayorista", sale.ID, dto.CancelSaleRequest{})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDeleteSaleRestauraYElimina(t *testing.T) {
	f := newReversalFixture()
	seedProduct(f.runner, entity.Product{
		ID: "p1", SKU: "ARR-001", Name: "Arroz", Price: dec("100"), CostPrice: dec("60"),
		Quantity: dec("50"), OriginalStock: dec("50"),
	})
	sale := f.sellUnits(t, "10")

	out, err := f.reversal.DeleteSale(context.Background(), wholesalerID, sale.ID)
	require.NoError(t, err)

	assert.True(t, out.Deleted)
	require.Len(t, out.Restorations, 1)
	assert.True(t, out.Restorations[0].Restored)
	assert.Equal(t, "Arroz", out.Restorations[0].ProductName)
	assert.True(t, dec("10").Equal(out.Restorations[0].Quantity))

	assert.True(t, dec("50").Equal(f.runner.Products.Get("p1").Quantity))
	assert.Nil(t, f.runner.Sales.Get(sale.ID), "la venta desaparece de forma permanente")
}

func TestDeleteSaleProductoDesaparecidoSeReporta(t *testing.T) {
	f := newReversalFixture()
	seedProduct(f.runner, entity.Product{
		ID: "p1", Name: "Arroz", Price: dec("100"), CostPrice: dec("60"),
		Quantity: dec("50"), OriginalStock: dec("50"),
	})
	sale := f.sellUnits(t, "10")

	// El producto fue eliminado del catálogo después de la venta.
	f.runner.Products.Remove("p1")

	out, err := f.reversal.DeleteSale(context.Background(), wholesalerID, sale.ID)
	require.NoError(t, err, "la línea irrestaurable no bloquea el borrado")

	assert.True(t, out.Deleted)
	require.Len(t, out.Restorations, 1)
	assert.False(t, out.Restorations[0].Restored)
	assert.NotEmpty(t, out.Restorations[0].Error)
	assert.Nil(t, f.runner.Sales.Get(sale.ID))
}

func TestCancelSaleRecuperaDeAlertaDeStock(t *testing.T) {
	f := newReversalFixture()
	seedProduct(f.runner, entity.Product{
		ID: "p1", Name: "Arroz", Price: dec("100"), CostPrice: dec("60"),
		Quantity: dec("10"), OriginalStock: dec("10"), LowStockThreshold: dec("0.2"),
	})
	sale := f.sellUnits(t, "9")
	require.True(t, f.runner.Products.Get("p1").LowStockAlert)

	_, err := f.reversal.CancelSale(context.Background(), wholesalerID, sale.ID, dto.CancelSaleRequest{})
	require.NoError(t, err)

	stored := f.runner.Products.Get("p1")
	assert.False(t, stored.LowStockAlert, "al restaurar el stock la alerta se limpia")
	assert.Nil(t, stored.LowStockSince)
	assert.True(t, dec("10").Equal(stored.Quantity))
}
