package dto

import "github.com/shopspring/decimal"

// SummaryRequest período del reporte (YYYY-MM-DD). Vacío = últimos 30 días.
type SummaryRequest struct {
	StartDate string `query:"start_date"`
	EndDate   string `query:"end_date"`
	TopN      int    `query:"top_n"`
}

// PeriodDTO período resuelto del reporte.
type PeriodDTO struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

// TopProductDTO producto en el ranking de ventas del período.
type TopProductDTO struct {
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	UnitsSold   decimal.Decimal `json:"units_sold"`
	Revenue     decimal.Decimal `json:"revenue"`
	Profit      decimal.Decimal `json:"profit"`
	MarginPct   decimal.Decimal `json:"margin_pct"`
}

// SummaryResponse rollup de rentabilidad del período.
type SummaryResponse struct {
	Period        PeriodDTO       `json:"period"`
	SaleCount     int             `json:"sale_count"`
	GrossRevenue  decimal.Decimal `json:"gross_revenue"`
	TotalCOGS     decimal.Decimal `json:"total_cogs"`
	TotalProfit   decimal.Decimal `json:"total_profit"`
	MarginPct     decimal.Decimal `json:"margin_pct"`
	LowStockCount int             `json:"low_stock_count"`
	TopProducts   []TopProductDTO `json:"top_products"`
}

// ProductTrendResponse tendencia de precio de un producto
// (comparación de las dos entradas más recientes del historial).
type ProductTrendResponse struct {
	ProductID string `json:"product_id"`
	Trend     string `json:"trend"` // increases | decreases | stable
}

// LowStockListResponse productos en alerta de stock bajo.
type LowStockListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}
