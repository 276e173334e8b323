package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Mayorista-api/internal/application/dto"
	"github.com/jhoicas/Mayorista-api/internal/domain"
	"github.com/jhoicas/Mayorista-api/internal/domain/pricing"
	"github.com/jhoicas/Mayorista-api/internal/domain/repository"
	"github.com/jhoicas/Mayorista-api/pkg/clock"
)

const (
	defaultTopN = 10
	maxTopN     = 100
)

var hundred = decimal.NewFromInt(100)

// UseCase lado de lectura: rollups de utilidad y margen, conteo de stock bajo
// y clasificación de tendencia de precios. Sin invariantes propios; solo debe
// ser consistente con el estado de productos y ventas al momento de la lectura.
type UseCase struct {
	analyticsRepo repository.AnalyticsRepository
	productRepo   repository.ProductRepository
	historyRepo   repository.PriceHistoryRepository
	clk           clock.Clock
}

// NewUseCase construye el caso de uso.
func NewUseCase(analyticsRepo repository.AnalyticsRepository, productRepo repository.ProductRepository, historyRepo repository.PriceHistoryRepository, clk clock.Clock) *UseCase {
	return &UseCase{analyticsRepo: analyticsRepo, productRepo: productRepo, historyRepo: historyRepo, clk: clk}
}

// GetSummary rollup de rentabilidad del período (por defecto los últimos 30
// días). Las consultas independientes van en paralelo.
func (uc *UseCase) GetSummary(ctx context.Context, wholesalerID string, req dto.SummaryRequest) (*dto.SummaryResponse, error) {
	start, end, err := uc.parsePeriod(req.StartDate, req.EndDate)
	if err != nil {
		return nil, err
	}
	topN := req.TopN
	if topN <= 0 {
		topN = defaultTopN
	}
	if topN > maxTopN {
		topN = maxTopN
	}

	type summaryResult struct {
		summary repository.SalesSummaryResult
		err     error
	}
	type topResult struct {
		rows []repository.ProductSalesResult
		err  error
	}
	type lowStockResult struct {
		count int
		err   error
	}

	sumCh := make(chan summaryResult, 1)
	topCh := make(chan topResult, 1)
	lowCh := make(chan lowStockResult, 1)

	go func() {
		s, err := uc.analyticsRepo.GetSalesSummary(ctx, wholesalerID, start, end)
		sumCh <- summaryResult{s, err}
	}()
	go func() {
		rows, err := uc.analyticsRepo.GetTopProducts(ctx, wholesalerID, start, end, topN)
		topCh <- topResult{rows, err}
	}()
	go func() {
		n, err := uc.analyticsRepo.CountLowStock(ctx, wholesalerID)
		lowCh <- lowStockResult{n, err}
	}()

	sumRes := <-sumCh
	topRes := <-topCh
	lowRes := <-lowCh

	if sumRes.err != nil {
		return nil, fmt.Errorf("analytics: resumen de ventas: %w", sumRes.err)
	}
	if topRes.err != nil {
		return nil, fmt.Errorf("analytics: ranking de productos: %w", topRes.err)
	}
	if lowRes.err != nil {
		return nil, fmt.Errorf("analytics: stock bajo: %w", lowRes.err)
	}

	out := &dto.SummaryResponse{
		Period: dto.PeriodDTO{
			StartDate: start.Format("2006-01-02"),
			EndDate:   end.Format("2006-01-02"),
		},
		SaleCount:     sumRes.summary.SaleCount,
		GrossRevenue:  sumRes.summary.GrossRevenue,
		TotalCOGS:     sumRes.summary.TotalCOGS,
		TotalProfit:   sumRes.summary.TotalProfit,
		MarginPct:     pricing.Margin(sumRes.summary.GrossRevenue, sumRes.summary.TotalCOGS),
		LowStockCount: lowRes.count,
	}
	for _, r := range topRes.rows {
		marginPct := decimal.Zero
		if r.Revenue.GreaterThan(decimal.Zero) {
			marginPct = r.Profit.Div(r.Revenue).Mul(hundred)
		}
		out.TopProducts = append(out.TopProducts, dto.TopProductDTO{
			ProductID:   r.ProductID,
			ProductName: r.ProductName,
			UnitsSold:   r.UnitsSold,
			Revenue:     r.Revenue,
			Profit:      r.Profit,
			MarginPct:   marginPct,
		})
	}
	return out, nil
}

// GetProductTrend clasifica la tendencia de precio de un producto comparando
// las dos entradas más recientes de su historial.
func (uc *UseCase) GetProductTrend(wholesalerID, productID string) (*dto.ProductTrendResponse, error) {
	product, err := uc.productRepo.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if product == nil || product.WholesalerID != wholesalerID {
		return nil, domain.ErrNotFound
	}
	history, err := uc.historyRepo.ListByProduct(productID, repository.HistoryFilter{Limit: 2})
	if err != nil {
		return nil, err
	}
	return &dto.ProductTrendResponse{
		ProductID: productID,
		Trend:     pricing.Trend(history),
	}, nil
}

// ListLowStock productos del mayorista en alerta de stock bajo.
func (uc *UseCase) ListLowStock(wholesalerID string, page dto.PageRequest) (*dto.LowStockListResponse, error) {
	page.DefaultPage()
	list, err := uc.productRepo.ListLowStock(wholesalerID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := &dto.LowStockListResponse{
		Items: make([]dto.ProductResponse, 0, len(list)),
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}
	for _, p := range list {
		out.Items = append(out.Items, dto.FromProduct(p))
	}
	return out, nil
}

// parsePeriod interpreta el rango YYYY-MM-DD; vacío = últimos 30 días.
func (uc *UseCase) parsePeriod(startStr, endStr string) (time.Time, time.Time, error) {
	now := uc.clk.Now()
	start := now.AddDate(0, 0, -30)
	end := now
	if startStr != "" {
		t, err := time.Parse("2006-01-02", startStr)
		if err != nil {
			return time.Time{}, time.Time{}, domain.ErrInvalidInput
		}
		start = t
	}
	if endStr != "" {
		t, err := time.Parse("2006-01-02", endStr)
		if err != nil {
			return time.Time{}, time.Time{}, domain.ErrInvalidInput
		}
		end = t.Add(24*time.Hour - time.Nanosecond)
	}
	if start.After(end) {
		return time.Time{}, time.Time{}, domain.ErrInvalidInput
	}
	return start, end, nil
}
