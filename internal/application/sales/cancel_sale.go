package sales

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Mayorista-api/internal/application/dto"
	"github.com/jhoicas/Mayorista-api/internal/domain"
	"github.com/jhoicas/Mayorista-api/internal/domain/entity"
	"github.com/jhoicas/Mayorista-api/internal/domain/repository"
	"github.com/jhoicas/Mayorista-api/pkg/clock"
)

// ReversalUseCase flujos de reversa: cancelación (total o reembolso parcial)
// y borrado con restauración de stock.
type ReversalUseCase struct {
	txRunner      TxRunner
	saleRepo      repository.SaleRepository
	clk           clock.Clock
	lowStockFloor decimal.Decimal
}

// NewReversalUseCase construye el caso de uso.
func NewReversalUseCase(txRunner TxRunner, saleRepo repository.SaleRepository, clk clock.Clock, lowStockFloor decimal.Decimal) *ReversalUseCase {
	return &ReversalUseCase{txRunner: txRunner, saleRepo: saleRepo, clk: clk, lowStockFloor: lowStockFloor}
}

// CancelSale cancela una venta.
//
// Reembolso parcial (partial=true + refund_amount): la venta pasa a
// partially_refunded, se anota el motivo y NO se restaura stock (se asume que
// la mercancía no fue devuelta).
//
// Cancelación total: estado cancelled y cada línea restaura su cantidad al
// producto referenciado exactamente una vez, resuelto con el mismo lookup
// polimórfico de la creación. Todo dentro de una transacción.
//
// Rechaza ventas ya canceladas y reembolsos mayores al total.
func (uc *ReversalUseCase) CancelSale(ctx context.Context, wholesalerID, saleID string, in dto.CancelSaleRequest) (*dto.SaleResponse, error) {
	sale, err := uc.saleRepo.GetByID(saleID)
	if err != nil {
		return nil, err
	}
	if sale == nil || sale.WholesalerID != wholesalerID {
		return nil, domain.ErrNotFound
	}
	if sale.IsCancelled() {
		return nil, domain.ErrAlreadyCancelled
	}
	if in.RefundAmount != nil && in.RefundAmount.GreaterThan(sale.TotalAmount) {
		return nil, domain.ErrRefundExceedsTotal
	}

	now := uc.clk.Now()

	if in.Partial && in.RefundAmount != nil {
		if !in.RefundAmount.GreaterThan(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
		if !entity.CanTransitionSale(sale.Status, entity.SaleStatusPartiallyRefunded) {
			return nil, domain.ErrInvalidInput
		}
		sale.Status = entity.SaleStatusPartiallyRefunded
		sale.RefundAmount = in.RefundAmount
		sale.CancelReason = in.Reason
		if in.Reason != "" {
			sale.Notes = appendNote(sale.Notes, "reembolso parcial: "+in.Reason)
		}
		sale.UpdatedAt = now
		if err := uc.saleRepo.UpdateStatus(sale); err != nil {
			return nil, err
		}
		out := dto.FromSale(sale)
		return &out, nil
	}

	if !entity.CanTransitionSale(sale.Status, entity.SaleStatusCancelled) {
		return nil, domain.ErrInvalidInput
	}

	err = uc.txRunner.RunSale(ctx, func(
		productRepo repository.ProductRepository,
		_ repository.PriceHistoryRepository,
		saleRepo repository.SaleRepository,
	) error {
		for _, item := range sale.Items {
			product, err := resolveItemProduct(productRepo, wholesalerID, item)
			if err != nil {
				return err
			}
			if product == nil {
				return domain.ErrNotFound
			}
			if err := productRepo.IncrementStock(product.ID, item.Quantity); err != nil {
				return err
			}
			product.Quantity = product.Quantity.Add(item.Quantity)
			product.CheckLowStock(now, uc.lowStockFloor)
			if err := productRepo.Update(product); err != nil {
				return err
			}
		}
		sale.Status = entity.SaleStatusCancelled
		sale.CancelReason = in.Reason
		sale.UpdatedAt = now
		return saleRepo.UpdateStatus(sale)
	})
	if err != nil {
		return nil, err
	}

	out := dto.FromSale(sale)
	return &out, nil
}

// DeleteSale restaura el stock de cada línea (los fallos de resolución se
// reportan por línea y no bloquean el resto ni el borrado) y elimina la venta
// de forma permanente. Retorna el reporte de restauración.
func (uc *ReversalUseCase) DeleteSale(ctx context.Context, wholesalerID, saleID string) (*dto.DeleteSaleResponse, error) {
	sale, err := uc.saleRepo.GetByID(saleID)
	if err != nil {
		return nil, err
	}
	if sale == nil || sale.WholesalerID != wholesalerID {
		return nil, domain.ErrNotFound
	}

	now := uc.clk.Now()
	out := &dto.DeleteSaleResponse{SaleID: saleID}

	err = uc.txRunner.RunSale(ctx, func(
		productRepo repository.ProductRepository,
		_ repository.PriceHistoryRepository,
		saleRepo repository.SaleRepository,
	) error {
		for _, item := range sale.Items {
			result := dto.RestorationResultDTO{
				ProductRef:  item.ProductID,
				ProductName: item.ProductName,
				Quantity:    item.Quantity,
			}
			product, err := resolveItemProduct(productRepo, wholesalerID, item)
			if err != nil {
				return err
			}
			if product == nil {
				result.Error = "producto no resoluble"
			} else if err := productRepo.IncrementStock(product.ID, item.Quantity); err != nil {
				return err
			} else {
				product.Quantity = product.Quantity.Add(item.Quantity)
				product.CheckLowStock(now, uc.lowStockFloor)
				if err := productRepo.Update(product); err != nil {
					return err
				}
				result.Restored = true
			}
			out.Restorations = append(out.Restorations, result)
		}
		return saleRepo.Delete(sale.ID)
	})
	if err != nil {
		return nil, err
	}

	out.Deleted = true
	return out, nil
}

// resolveItemProduct resuelve el producto de una línea: primero por ID y,
// si el producto fue re-identificado, por la cadena sku/nombre.
func resolveItemProduct(productRepo repository.ProductRepository, wholesalerID string, item entity.SaleItem) (*entity.Product, error) {
	product, err := productRepo.Resolve(wholesalerID, item.ProductID)
	if err != nil {
		return nil, err
	}
	if product != nil {
		return product, nil
	}
	return productRepo.Resolve(wholesalerID, item.ProductName)
}

func appendNote(notes, extra string) string {
	if notes == "" {
		return extra
	}
	return notes + " | " + extra
}
