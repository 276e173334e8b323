package sales

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Mayorista-api/internal/application/dto"
	"github.com/jhoicas/Mayorista-api/internal/domain"
	"github.com/jhoicas/Mayorista-api/internal/domain/entity"
	"github.com/jhoicas/Mayorista-api/internal/domain/repository"
	"github.com/jhoicas/Mayorista-api/pkg/clock"
)

// CreateSaleUseCase procesa una venta: resuelve cada línea contra el catálogo
// (lookup polimórfico id → sku → nombre), valida stock y restricciones de
// precio, descuenta stock y registra la venta. Ambos canales (wholesale y
// supplier) corren el flujo completo dentro de una sola transacción; el canal
// mayorista heredaba un flujo sin transacción que aquí quedó unificado.
type CreateSaleUseCase struct {
	txRunner      TxRunner
	clk           clock.Clock
	lowStockFloor decimal.Decimal // piso absoluto cuando no se conoce el stock original
}

// NewCreateSaleUseCase construye el caso de uso.
func NewCreateSaleUseCase(txRunner TxRunner, clk clock.Clock, lowStockFloor decimal.Decimal) *CreateSaleUseCase {
	return &CreateSaleUseCase{txRunner: txRunner, clk: clk, lowStockFloor: lowStockFloor}
}

// CreateSale valida la solicitud y ejecuta la venta. Por cada línea, en orden:
//
//  1. Resolver el producto (ErrNotFound si no existe).
//  2. Verificar stock (ErrInsufficientStock sin mutar nada).
//  3. Producto certificado sin precio: el precio del caller se convierte en su
//     PRIMER precio de venta (ErrPricingRequired si no viene).
//  4. Precio distinto al vigente: pasa por UpdatePrice con change_type "sale"
//     y la referencia de la venta, para que quede en el ledger.
//  5. Productos certificados exigen precio >= costo (restricción dura en el
//     punto de venta, a diferencia de la advertencia en la ingesta).
//  6. Descuento condicional y atómico del stock.
//
// Cualquier fallo revierte la transacción completa: ninguna línea queda mutada.
func (uc *CreateSaleUseCase) CreateSale(ctx context.Context, wholesalerID, userID string, in dto.CreateSaleRequest) (*dto.SaleResponse, error) {
	if in.Channel != entity.SaleChannelWholesale && in.Channel != entity.SaleChannelSupplier {
		return nil, domain.ErrInvalidInput
	}
	if in.CustomerName == "" || len(in.Items) == 0 {
		return nil, domain.ErrInvalidInput
	}
	for _, it := range in.Items {
		if it.ProductRef == "" || !it.Quantity.GreaterThan(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
		if it.UnitPrice.LessThan(decimal.Zero) || it.Discount.LessThan(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
	}

	now := uc.clk.Now()
	sale := &entity.Sale{
		ID:            uuid.New().String(),
		WholesalerID:  wholesalerID,
		Channel:       in.Channel,
		Reference:     fmt.Sprintf("VTA-%d", now.Unix()),
		CustomerName:  in.CustomerName,
		CustomerPhone: in.CustomerPhone,
		Status:        entity.SaleStatusCompleted,
		Notes:         in.Notes,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	err := uc.txRunner.RunSale(ctx, func(
		productRepo repository.ProductRepository,
		historyRepo repository.PriceHistoryRepository,
		saleRepo repository.SaleRepository,
	) error {
		for _, req := range in.Items {
			product, err := productRepo.ResolveForUpdate(wholesalerID, req.ProductRef)
			if err != nil {
				return err
			}
			if product == nil {
				return domain.ErrNotFound
			}
			if product.Quantity.LessThan(req.Quantity) {
				return domain.ErrInsufficientStock
			}

			unpriced := product.RequiresPricing || product.Price.IsZero()
			if unpriced && !req.UnitPrice.GreaterThan(decimal.Zero) {
				return domain.ErrPricingRequired
			}

			// Sin precio en la línea se vende al precio vigente.
			price := req.UnitPrice
			if !price.GreaterThan(decimal.Zero) {
				price = product.Price
			}
			if product.IsCertifiedOrigin() && price.LessThan(product.CostPrice) {
				return domain.ErrPriceBelowCost
			}

			if unpriced {
				entry := product.AssignFirstPrice(price, userID, sale.Reference, now)
				entry.ID = uuid.New().String()
				if err := historyRepo.Append(entry); err != nil {
					return err
				}
			} else if !price.Equal(product.Price) {
				entry, applied := product.UpdatePrice(price, userID, "precio ajustado en venta", sale.Reference, entity.ChangeTypeSale, "", now)
				if applied {
					entry.ID = uuid.New().String()
					if err := historyRepo.Append(entry); err != nil {
						return err
					}
				}
			}

			if err := productRepo.DecrementStock(product.ID, req.Quantity); err != nil {
				return err
			}
			product.Quantity = product.Quantity.Sub(req.Quantity)
			product.CheckLowStock(now, uc.lowStockFloor)
			if err := productRepo.Update(product); err != nil {
				return err
			}

			total := req.Quantity.Mul(price).Sub(req.Discount)
			item := entity.SaleItem{
				ID:              uuid.New().String(),
				SaleID:          sale.ID,
				ProductID:       product.ID,
				ProductName:     product.Name,
				Quantity:        req.Quantity,
				UnitPrice:       price,
				CostPriceAtSale: product.CostPrice,
				Discount:        req.Discount,
				Total:           total,
			}
			sale.Items = append(sale.Items, item)
			sale.TotalAmount = sale.TotalAmount.Add(total)
			sale.TotalProfit = sale.TotalProfit.Add(item.Profit())
		}

		return saleRepo.Create(sale)
	})
	if err != nil {
		return nil, err
	}

	out := dto.FromSale(sale)
	return &out, nil
}
