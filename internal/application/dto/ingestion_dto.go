package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// IngestOrderRequest precios de venta opcionales por línea del pedido
// (clave: ID de la línea). Sin precio, el producto entra con requires_pricing.
type IngestOrderRequest struct {
	SellingPrices map[string]decimal.Decimal `json:"selling_prices"`
}

// PricingSummaryDTO resumen de la ingesta de un pedido.
// AverageProfitMargin es la media aritmética de los márgenes por ítem
// (no ponderada por cantidad ni ingreso).
type PricingSummaryDTO struct {
	TotalCost             decimal.Decimal `json:"total_cost"`
	TotalPotentialRevenue decimal.Decimal `json:"total_potential_revenue"`
	TotalPotentialProfit  decimal.Decimal `json:"total_potential_profit"`
	AverageProfitMargin   decimal.Decimal `json:"average_profit_margin"`
}

// IngestOrderResponse productos creados + resumen de precios + advertencias
// (ej. línea con precio de venta por debajo del costo).
type IngestOrderResponse struct {
	OrderID  string            `json:"order_id"`
	Products []ProductResponse `json:"products"`
	Summary  PricingSummaryDTO `json:"summary"`
	Warnings []string          `json:"warnings,omitempty"`
}

// BulkIngestRequest ingesta de varios pedidos; cada pedido se procesa de forma
// independiente (el fallo de uno no aborta el resto).
type BulkIngestRequest struct {
	OrderIDs      []string                              `json:"order_ids"`
	SellingPrices map[string]map[string]decimal.Decimal `json:"selling_prices"` // por pedido -> por línea
}

// BulkIngestFailure fallo de un pedido dentro de la ingesta masiva.
type BulkIngestFailure struct {
	OrderID string `json:"order_id"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// BulkIngestResponse resultado de la ingesta masiva.
type BulkIngestResponse struct {
	Successful    []IngestOrderResponse `json:"successful"`
	Failed        []BulkIngestFailure   `json:"failed"`
	TotalAdded    int                   `json:"total_added"`    // pedidos ingeridos
	TotalProducts int                   `json:"total_products"` // productos creados
	SuccessRate   decimal.Decimal       `json:"success_rate"`   // porcentaje de pedidos exitosos
}

// OrderStockStatusResponse indica si un pedido ya fue convertido en stock.
type OrderStockStatusResponse struct {
	OrderID  string            `json:"order_id"`
	InStock  bool              `json:"in_stock"`
	Products []ProductResponse `json:"products,omitempty"`
}

// CertifiedOrderItemDTO línea de pedido con el precio sugerido de venta
// (costo + recargo por defecto).
type CertifiedOrderItemDTO struct {
	ID              string          `json:"id"`
	ProductName     string          `json:"product_name"`
	Category        string          `json:"category,omitempty"`
	MeasurementUnit string          `json:"measurement_unit,omitempty"`
	Quantity        decimal.Decimal `json:"quantity"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	SuggestedPrice  decimal.Decimal `json:"suggested_price"`
}

// CertifiedOrderDTO pedido certificado elegible para ingesta.
type CertifiedOrderDTO struct {
	ID           string                  `json:"id"`
	SupplierID   string                  `json:"supplier_id"`
	Status       string                  `json:"status"`
	CertifiedAt  *time.Time              `json:"certified_at,omitempty"`
	TotalCost    decimal.Decimal         `json:"total_cost"`
	Items        []CertifiedOrderItemDTO `json:"items"`
	AlreadyAdded bool                    `json:"already_added"`
}

// CertifiedOrderListResponse listado paginado de pedidos certificados.
type CertifiedOrderListResponse struct {
	Items []CertifiedOrderDTO `json:"items"`
	Page  PageResponse        `json:"page"`
}
