package catalog

import (
	"context"
	"time"

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

const belowCostWarning = "el precio de venta quedó por debajo del costo"

// UseCase operaciones de catálogo sobre el ledger de productos: alta manual,
// cambio manual de precio y consulta del historial.
type UseCase struct {
	txRunner      TxRunner
	productRepo   repository.ProductRepository
	historyRepo   repository.PriceHistoryRepository
	clk           clock.Clock
	lowStockFloor decimal.Decimal
}

// NewUseCase construye el caso de uso.
func NewUseCase(txRunner TxRunner, productRepo repository.ProductRepository, historyRepo repository.PriceHistoryRepository, clk clock.Clock, lowStockFloor decimal.Decimal) *UseCase {
	return &UseCase{txRunner: txRunner, productRepo: productRepo, historyRepo: historyRepo, clk: clk, lowStockFloor: lowStockFloor}
}

// Create alta manual de catálogo: precio y costo los aporta el caller y el
// historial se siembra con una entrada "initial". Precio por debajo del costo
// se permite con advertencia (a veces se vende a pérdida).
func (uc *UseCase) Create(ctx context.Context, wholesalerID, userID string, in dto.CreateProductRequest) (*dto.ProductResponse, string, error) {
	if in.SKU == "" || in.Name == "" {
		return nil, "", domain.ErrInvalidInput
	}
	if in.Price.LessThan(decimal.Zero) || in.CostPrice.LessThan(decimal.Zero) || in.Quantity.LessThan(decimal.Zero) {
		return nil, "", domain.ErrInvalidInput
	}
	threshold := entity.LowStockThresholdDefault
	if in.LowStockThreshold != nil {
		threshold = *in.LowStockThreshold
		if threshold.LessThan(entity.LowStockThresholdMin) || threshold.GreaterThan(entity.LowStockThresholdMax) {
			return nil, "", domain.ErrInvalidInput
		}
	}

	now := uc.clk.Now()
	first := in.Price
	product := &entity.Product{
		ID:                   uuid.New().String(),
		WholesalerID:         wholesalerID,
		SKU:                  in.SKU,
		Name:                 in.Name,
		Category:             in.Category,
		MeasurementUnit:      in.MeasurementUnit,
		Tags:                 in.Tags,
		Price:                in.Price,
		CostPrice:            in.CostPrice,
		Quantity:             in.Quantity,
		OriginalStock:        in.Quantity,
		LowStockThreshold:    threshold,
		OriginalSellingPrice: &first,
		CreatedAt:            now,
		UpdatedAt:            now,
	}
	product.CheckLowStock(now, uc.lowStockFloor)

	err := uc.txRunner.Run(ctx, func(productRepo repository.ProductRepository, historyRepo repository.PriceHistoryRepository) error {
		if err := productRepo.Create(product); err != nil {
			return err
		}
		seed := &entity.PriceHistory{
			ID:           uuid.New().String(),
			ProductID:    product.ID,
			SellingPrice: in.Price,
			CostPrice:    in.CostPrice,
			ChangedAt:    now,
			ChangedBy:    userID,
			Reason:       "alta de catálogo",
			ChangeType:   entity.ChangeTypeInitial,
		}
		return historyRepo.Append(seed)
	})
	if err != nil {
		return nil, "", err
	}

	warning := ""
	if in.Price.LessThan(in.CostPrice) {
		warning = belowCostWarning
	}
	out := dto.FromProduct(product)
	return &out, warning, nil
}

// GetByID obtiene un producto del mayorista.
func (uc *UseCase) GetByID(wholesalerID, id string) (*dto.ProductResponse, error) {
	product, err := uc.productRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil || product.WholesalerID != wholesalerID {
		return nil, domain.ErrNotFound
	}
	out := dto.FromProduct(product)
	return &out, nil
}

// List lista productos del mayorista con paginación y búsqueda normalizada.
func (uc *UseCase) List(wholesalerID, searchTerm string, page dto.PageRequest) (*dto.ProductListResponse, error) {
	page.DefaultPage()
	list, err := uc.productRepo.ListByWholesaler(wholesalerID, search.NormalizeTerm(searchTerm), page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, dto.FromProduct(p))
	}
	return &dto.ProductListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}, nil
}

// UpdatePrice cambio manual de precio. Aplica la mutación de dominio
// (UpdatePrice con change_type manual) y persiste producto + entrada de
// historial en una sola transacción. Con el mismo precio es un no-op que no
// agrega nada al ledger.
func (uc *UseCase) UpdatePrice(ctx context.Context, wholesalerID, userID, productID string, in dto.UpdatePriceRequest) (*dto.UpdatePriceResponse, error) {
	if in.NewPrice.LessThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}

	product, err := uc.productRepo.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if product == nil || product.WholesalerID != wholesalerID {
		return nil, domain.ErrNotFound
	}

	previous := product.Price
	now := uc.clk.Now()
	entry, applied := product.UpdatePrice(in.NewPrice, userID, in.Reason, "", entity.ChangeTypeManual, in.Note, now)
	if applied {
		err = uc.txRunner.Run(ctx, func(productRepo repository.ProductRepository, historyRepo repository.PriceHistoryRepository) error {
			entry.ID = uuid.New().String()
			if err := historyRepo.Append(entry); err != nil {
				return err
			}
			return productRepo.Update(product)
		})
		if err != nil {
			return nil, err
		}
	}

	changePct := decimal.Zero
	if applied && previous.GreaterThan(decimal.Zero) {
		changePct = in.NewPrice.Sub(previous).Div(previous).Mul(decimal.NewFromInt(100))
	}
	warning := ""
	if in.NewPrice.LessThan(product.CostPrice) {
		warning = belowCostWarning
	}
	out := dto.FromProduct(product)
	return &dto.UpdatePriceResponse{
		Product:       out,
		PreviousPrice: previous,
		NewPrice:      product.Price,
		ChangePct:     changePct,
		Applied:       applied,
		Warning:       warning,
	}, nil
}

// GetPriceHistory historial filtrado (descendente) con estadísticas y tendencia.
func (uc *UseCase) GetPriceHistory(wholesalerID, productID, changeType, fromStr, toStr string, page dto.PageRequest) (*dto.PriceHistoryResponse, error) {
	product, err := uc.productRepo.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if product == nil || product.WholesalerID != wholesalerID {
		return nil, domain.ErrNotFound
	}
	if changeType != "" && !entity.IsValidChangeType(changeType) {
		return nil, domain.ErrInvalidInput
	}

	from, to, err := parseDateRange(fromStr, toStr)
	if err != nil {
		return nil, err
	}
	page.DefaultPage()
	filter := repository.HistoryFilter{
		ChangeType: changeType,
		From:       from,
		To:         to,
		Limit:      page.Limit,
		Offset:     page.Offset,
	}

	entries, err := uc.historyRepo.ListByProduct(productID, filter)
	if err != nil {
		return nil, err
	}
	total, err := uc.historyRepo.CountByProduct(productID, filter)
	if err != nil {
		return nil, err
	}

	// Estadísticas y tendencia se calculan sobre el historial completo, no
	// sobre la página filtrada.
	full, err := uc.historyRepo.ListByProduct(productID, repository.HistoryFilter{})
	if err != nil {
		return nil, err
	}

	items := make([]dto.PriceHistoryEntryDTO, 0, len(entries))
	for _, h := range entries {
		items = append(items, dto.FromPriceHistory(h))
	}
	return &dto.PriceHistoryResponse{
		ProductID:  productID,
		Entries:    items,
		Statistics: dto.FromPriceStatistics(pricing.ComputeStatistics(full, product.Price)),
		Trend:      pricing.Trend(full),
		Page:       dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Total: total},
	}, nil
}

// parseDateRange interpreta fechas YYYY-MM-DD; "to" es inclusivo hasta fin de día.
func parseDateRange(fromStr, toStr string) (*time.Time, *time.Time, error) {
	var from, to *time.Time
	if fromStr != "" {
		t, err := time.Parse("2006-01-02", fromStr)
		if err != nil {
			return nil, nil, domain.ErrInvalidInput
		}
		from = &t
	}
	if toStr != "" {
		t, err := time.Parse("2006-01-02", toStr)
		if err != nil {
			return nil, nil, domain.ErrInvalidInput
		}
		end := t.Add(24*time.Hour - time.Nanosecond)
		to = &end
	}
	if from != nil && to != nil && from.After(*to) {
		return nil, nil, domain.ErrInvalidInput
	}
	return from, to, nil
}
