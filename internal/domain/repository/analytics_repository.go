package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// SalesSummaryResult agregado de ventas de un período (solo ventas no canceladas).
type SalesSummaryResult struct {
	SaleCount    int
	GrossRevenue decimal.Decimal
	TotalCOGS    decimal.Decimal
	TotalProfit  decimal.Decimal
}

// ProductSalesResult agregado de ventas por producto.
type ProductSalesResult struct {
	ProductID   string
	ProductName string
	UnitsSold   decimal.Decimal
	Revenue     decimal.Decimal
	Profit      decimal.Decimal
}

// AnalyticsRepository puerto de solo lectura para los agregados de reporting.
// Sin invariantes propios: consistente con el estado de productos y ventas al
// momento de la consulta.
type AnalyticsRepository interface {
	GetSalesSummary(ctx context.Context, wholesalerID string, start, end time.Time) (SalesSummaryResult, error)
	GetTopProducts(ctx context.Context, wholesalerID string, start, end time.Time, topN int) ([]ProductSalesResult, error)
	CountLowStock(ctx context.Context, wholesalerID string) (int, error)
}
