package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest alta manual de catálogo: precio y costo vienen del caller.
type CreateProductRequest struct {
	SKU               string           `json:"sku"`
	Name              string           `json:"name"`
	Category          string           `json:"category"`
	MeasurementUnit   string           `json:"measurement_unit"`
	Tags              []string         `json:"tags"`
	Price             decimal.Decimal  `json:"price"`
	CostPrice         decimal.Decimal  `json:"cost_price"`
	Quantity          decimal.Decimal  `json:"quantity"`
	LowStockThreshold *decimal.Decimal `json:"low_stock_threshold"` // fracción 0.1–0.9, default 0.2
}

// UpdatePriceRequest cambio manual de precio.
type UpdatePriceRequest struct {
	NewPrice decimal.Decimal `json:"new_price"`
	Reason   string          `json:"reason"`
	Note     string          `json:"note"`
}

// CertifiedSourceDTO referencia al pedido certificado de origen.
type CertifiedSourceDTO struct {
	OrderID           string          `json:"order_id"`
	ItemID            string          `json:"item_id"`
	SupplierID        string          `json:"supplier_id"`
	CertifiedAt       time.Time       `json:"certified_at"`
	OriginalUnitPrice decimal.Decimal `json:"original_unit_price"`
}

// PriceTransitionDTO snapshot del último cambio de precio.
type PriceTransitionDTO struct {
	PreviousPrice decimal.Decimal `json:"previous_price"`
	NewPrice      decimal.Decimal `json:"new_price"`
	ChangedAt     time.Time       `json:"changed_at"`
	ChangedBy     string          `json:"changed_by"`
	Reason        string          `json:"reason,omitempty"`
}

// ProductResponse representación de un producto en stock.
type ProductResponse struct {
	ID                   string              `json:"id"`
	WholesalerID         string              `json:"wholesaler_id"`
	SKU                  string              `json:"sku"`
	Name                 string              `json:"name"`
	Category             string              `json:"category"`
	MeasurementUnit      string              `json:"measurement_unit"`
	Tags                 []string            `json:"tags,omitempty"`
	Price                decimal.Decimal     `json:"price"`
	CostPrice            decimal.Decimal     `json:"cost_price"`
	ProfitMargin         decimal.Decimal     `json:"profit_margin"`
	Quantity             decimal.Decimal     `json:"quantity"`
	OriginalStock        decimal.Decimal     `json:"original_stock"`
	LowStockThreshold    decimal.Decimal     `json:"low_stock_threshold"`
	LowStockAlert        bool                `json:"low_stock_alert"`
	LowStockSince        *time.Time          `json:"low_stock_since,omitempty"`
	RequiresPricing      bool                `json:"requires_pricing"`
	PriceManuallyEdited  bool                `json:"price_manually_edited"`
	OriginalSellingPrice *decimal.Decimal    `json:"original_selling_price,omitempty"`
	Source               *CertifiedSourceDTO `json:"certified_order_source,omitempty"`
	LastPriceChange      *PriceTransitionDTO `json:"last_price_change,omitempty"`
	CreatedAt            time.Time           `json:"created_at"`
	UpdatedAt            time.Time           `json:"updated_at"`
}

// CreateProductResponse producto creado + advertencia opcional
// (precio de venta por debajo del costo).
type CreateProductResponse struct {
	Product ProductResponse `json:"product"`
	Warning string          `json:"warning,omitempty"`
}

// ProductListResponse listado paginado de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}

// UpdatePriceResponse resultado de un cambio manual de precio.
type UpdatePriceResponse struct {
	Product       ProductResponse `json:"product"`
	PreviousPrice decimal.Decimal `json:"previous_price"`
	NewPrice      decimal.Decimal `json:"new_price"`
	ChangePct     decimal.Decimal `json:"change_pct"`
	Applied       bool            `json:"applied"` // false cuando el precio no cambió (no-op)
	Warning       string          `json:"warning,omitempty"`
}

// PriceHistoryEntryDTO una entrada del ledger de precios.
type PriceHistoryEntryDTO struct {
	ID            string          `json:"id"`
	SellingPrice  decimal.Decimal `json:"selling_price"`
	CostPrice     decimal.Decimal `json:"cost_price"`
	ChangedAt     time.Time       `json:"changed_at"`
	ChangedBy     string          `json:"changed_by"`
	Reason        string          `json:"reason,omitempty"`
	SaleReference string          `json:"sale_reference,omitempty"`
	ChangeType    string          `json:"change_type"`
	Note          string          `json:"note,omitempty"`
}

// PriceStatisticsDTO estadísticas derivadas del historial ∪ precio vigente.
type PriceStatisticsDTO struct {
	HighestPrice     decimal.Decimal `json:"highest_price"`
	LowestPrice      decimal.Decimal `json:"lowest_price"`
	AveragePrice     decimal.Decimal `json:"average_price"`
	PriceChangeCount int             `json:"price_change_count"`
}

// PriceHistoryResponse historial filtrado (descendente) con estadísticas y tendencia.
type PriceHistoryResponse struct {
	ProductID  string                 `json:"product_id"`
	Entries    []PriceHistoryEntryDTO `json:"entries"`
	Statistics PriceStatisticsDTO     `json:"statistics"`
	Trend      string                 `json:"trend"` // increases | decreases | stable
	Page       PageResponse           `json:"page"`
}
