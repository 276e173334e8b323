package ingestion

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Mayorista-api/internal/application/dto"
	"github.com/jhoicas/Mayorista-api/internal/domain"
	"github.com/jhoicas/Mayorista-api/internal/domain/entity"
	"github.com/jhoicas/Mayorista-api/internal/domain/pricing"
	"github.com/jhoicas/Mayorista-api/internal/domain/repository"
	"github.com/jhoicas/Mayorista-api/pkg/clock"
	"github.com/jhoicas/Mayorista-api/pkg/search"
)

// UseCase convierte pedidos certificados en stock propio del mayorista,
// exactamente una vez por pedido. La garantía de unicidad tiene dos capas:
// un pre-chequeo de lectura (respuesta rápida) y el índice único persistido
// sobre (wholesaler_id, source_order_id, source_item_id) que convierte la
// carrera de doble ingesta en un conflicto de escritura.
type UseCase struct {
	txRunner    TxRunner
	orderRepo   repository.OrderRepository
	productRepo repository.ProductRepository
	clk         clock.Clock
	markupPct   decimal.Decimal // recargo sugerido al listar (ej. 30 => +30%)
}

// NewUseCase construye el caso de uso.
func NewUseCase(txRunner TxRunner, orderRepo repository.OrderRepository, productRepo repository.ProductRepository, clk clock.Clock, markupPct decimal.Decimal) *UseCase {
	return &UseCase{
		txRunner:    txRunner,
		orderRepo:   orderRepo,
		productRepo: productRepo,
		clk:         clk,
		markupPct:   markupPct,
	}
}

// AddCertifiedOrderToStock crea un producto por cada línea del pedido, dentro
// de una sola transacción. Los precios de venta son opcionales por línea: sin
// precio el producto entra con requires_pricing y precio 0. Un precio por
// debajo del costo de la línea se permite con advertencia (decisión de
// negocio: a veces se vende a pérdida), no es un fallo duro.
func (uc *UseCase) AddCertifiedOrderToStock(ctx context.Context, wholesalerID, userID, orderID string, sellingPrices map[string]decimal.Decimal) (*dto.IngestOrderResponse, error) {
	if _, err := uuid.Parse(orderID); err != nil {
		return nil, domain.ErrInvalidInput
	}

	order, err := uc.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order == nil || order.WholesalerID != wholesalerID {
		return nil, domain.ErrNotFound
	}
	if !order.IsCertified() {
		return nil, domain.ErrOrderNotCertified
	}

	// Pre-chequeo de idempotencia; la carrera residual la ataja el índice único.
	exists, err := uc.productRepo.ExistsBySourceOrder(wholesalerID, orderID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.ErrDuplicate
	}

	var warnings []string
	for itemID, price := range sellingPrices {
		if price.LessThan(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
		for _, it := range order.Items {
			if it.ID == itemID && price.GreaterThan(decimal.Zero) && price.LessThan(it.UnitPrice) {
				warnings = append(warnings, fmt.Sprintf("línea %s (%s): precio de venta %s por debajo del costo %s", it.ID, it.ProductName, price, it.UnitPrice))
			}
		}
	}

	now := uc.clk.Now()
	certifiedAt := now
	if order.CertifiedAt != nil {
		certifiedAt = *order.CertifiedAt
	}

	products := make([]*entity.Product, 0, len(order.Items))
	for _, it := range order.Items {
		price := decimal.Zero
		if p, ok := sellingPrices[it.ID]; ok {
			price = p
		}
		first := price
		product := &entity.Product{
			ID:                uuid.New().String(),
			WholesalerID:      wholesalerID,
			SKU:               certifiedSKU(it.ID),
			Name:              it.ProductName,
			Category:          it.Category,
			MeasurementUnit:   it.MeasurementUnit,
			Price:             price,
			CostPrice:         it.UnitPrice,
			Quantity:          it.Quantity,
			OriginalStock:     it.Quantity,
			LowStockThreshold: entity.LowStockThresholdDefault,
			RequiresPricing:   price.IsZero(),
			Source: &entity.CertifiedSource{
				OrderID:           order.ID,
				ItemID:            it.ID,
				SupplierID:        order.SupplierID,
				CertifiedAt:       certifiedAt,
				OriginalUnitPrice: it.UnitPrice,
			},
			CreatedAt: now,
			UpdatedAt: now,
		}
		if !price.IsZero() {
			product.OriginalSellingPrice = &first
		}
		products = append(products, product)
	}

	err = uc.txRunner.Run(ctx, func(productRepo repository.ProductRepository, historyRepo repository.PriceHistoryRepository) error {
		for _, p := range products {
			if err := productRepo.Create(p); err != nil {
				return err
			}
			if p.Price.IsZero() {
				continue
			}
			seed := &entity.PriceHistory{
				ID:           uuid.New().String(),
				ProductID:    p.ID,
				SellingPrice: p.Price,
				CostPrice:    p.CostPrice,
				ChangedAt:    now,
				ChangedBy:    userID,
				Reason:       "ingesta de pedido certificado " + order.ID,
				ChangeType:   entity.ChangeTypeInitial,
			}
			if err := historyRepo.Append(seed); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	out := &dto.IngestOrderResponse{
		OrderID:  order.ID,
		Summary:  buildPricingSummary(products),
		Warnings: warnings,
	}
	for _, p := range products {
		out.Products = append(out.Products, dto.FromProduct(p))
	}
	return out, nil
}

// BulkAddToStock procesa cada pedido de forma independiente: el fallo de uno
// (id inválido, no certificado, ya ingerido, inexistente) se registra en
// failed y NO aborta el resto del lote. No hay transacción entre pedidos,
// por diseño, para soportar éxito parcial.
func (uc *UseCase) BulkAddToStock(ctx context.Context, wholesalerID, userID string, in dto.BulkIngestRequest) (*dto.BulkIngestResponse, error) {
	if len(in.OrderIDs) == 0 {
		return nil, domain.ErrInvalidInput
	}

	out := &dto.BulkIngestResponse{
		Successful: []dto.IngestOrderResponse{},
		Failed:     []dto.BulkIngestFailure{},
	}
	for _, orderID := range in.OrderIDs {
		res, err := uc.AddCertifiedOrderToStock(ctx, wholesalerID, userID, orderID, in.SellingPrices[orderID])
		if err != nil {
			out.Failed = append(out.Failed, dto.BulkIngestFailure{
				OrderID: orderID,
				Code:    failureCode(err),
				Message: err.Error(),
			})
			continue
		}
		out.Successful = append(out.Successful, *res)
		out.TotalAdded++
		out.TotalProducts += len(res.Products)
	}
	out.SuccessRate = decimal.NewFromInt(int64(out.TotalAdded)).
		Div(decimal.NewFromInt(int64(len(in.OrderIDs)))).
		Mul(decimal.NewFromInt(100))
	return out, nil
}

// CheckOrderStockStatus indica si un pedido ya fue convertido en stock y con
// qué productos.
func (uc *UseCase) CheckOrderStockStatus(wholesalerID, orderID string) (*dto.OrderStockStatusResponse, error) {
	if _, err := uuid.Parse(orderID); err != nil {
		return nil, domain.ErrInvalidInput
	}
	order, err := uc.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order == nil || order.WholesalerID != wholesalerID {
		return nil, domain.ErrNotFound
	}

	products, err := uc.productRepo.ListBySourceOrder(wholesalerID, orderID)
	if err != nil {
		return nil, err
	}
	out := &dto.OrderStockStatusResponse{
		OrderID: orderID,
		InStock: len(products) > 0,
	}
	for _, p := range products {
		out.Products = append(out.Products, dto.FromProduct(p))
	}
	return out, nil
}

// ListCertifiedForIngestion lista pedidos certificados con el precio sugerido
// por línea (costo + recargo por defecto) y la marca de ya-ingerido.
func (uc *UseCase) ListCertifiedForIngestion(wholesalerID, searchTerm string, page dto.PageRequest) (*dto.CertifiedOrderListResponse, error) {
	page.DefaultPage()
	term := search.NormalizeTerm(searchTerm)

	orders, err := uc.orderRepo.ListCertified(wholesalerID, term, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	total, err := uc.orderRepo.CountCertified(wholesalerID, term)
	if err != nil {
		return nil, err
	}

	items := make([]dto.CertifiedOrderDTO, 0, len(orders))
	for _, o := range orders {
		added, err := uc.productRepo.ExistsBySourceOrder(wholesalerID, o.ID)
		if err != nil {
			return nil, err
		}
		d := dto.CertifiedOrderDTO{
			ID:           o.ID,
			SupplierID:   o.SupplierID,
			Status:       o.Status,
			CertifiedAt:  o.CertifiedAt,
			TotalCost:    o.TotalCost(),
			AlreadyAdded: added,
		}
		for _, it := range o.Items {
			d.Items = append(d.Items, dto.CertifiedOrderItemDTO{
				ID:              it.ID,
				ProductName:     it.ProductName,
				Category:        it.Category,
				MeasurementUnit: it.MeasurementUnit,
				Quantity:        it.Quantity,
				UnitPrice:       it.UnitPrice,
				SuggestedPrice:  pricing.Markup(it.UnitPrice, uc.markupPct),
			})
		}
		items = append(items, d)
	}
	return &dto.CertifiedOrderListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Total: total},
	}, nil
}

// buildPricingSummary agrega costo, ingreso y utilidad potenciales del pedido.
// AverageProfitMargin es la media aritmética de los márgenes por ítem con
// precio asignado (sin ponderar por cantidad ni ingreso).
func buildPricingSummary(products []*entity.Product) dto.PricingSummaryDTO {
	var totalCost, totalRevenue, marginSum decimal.Decimal
	priced := 0
	for _, p := range products {
		totalCost = totalCost.Add(p.CostPrice.Mul(p.Quantity))
		totalRevenue = totalRevenue.Add(p.Price.Mul(p.Quantity))
		if p.Price.GreaterThan(decimal.Zero) {
			marginSum = marginSum.Add(pricing.Margin(p.Price, p.CostPrice))
			priced++
		}
	}
	avgMargin := decimal.Zero
	if priced > 0 {
		avgMargin = marginSum.Div(decimal.NewFromInt(int64(priced)))
	}
	return dto.PricingSummaryDTO{
		TotalCost:             totalCost,
		TotalPotentialRevenue: totalRevenue,
		TotalPotentialProfit:  totalRevenue.Sub(totalCost),
		AverageProfitMargin:   avgMargin,
	}
}

// certifiedSKU genera el SKU de un producto de origen certificado a partir de
// la línea del pedido (estable ante reintentos).
func certifiedSKU(itemID string) string {
	short := strings.ReplaceAll(itemID, "-", "")
	if len(short) > 12 {
		short = short[:12]
	}
	return "CERT-" + strings.ToUpper(short)
}

// failureCode clasifica un error de ingesta para el reporte del lote.
func failureCode(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return "INVALID_ID"
	case errors.Is(err, domain.ErrNotFound):
		return "NOT_FOUND"
	case errors.Is(err, domain.ErrOrderNotCertified):
		return "NOT_CERTIFIED"
	case errors.Is(err, domain.ErrDuplicate):
		return "ALREADY_ADDED"
	default:
		return "INTERNAL"
	}
}
