package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// SaleItemRequest línea solicitada de venta. ProductRef se resuelve de forma
// polimórfica (id → sku → nombre).
type SaleItemRequest struct {
	ProductRef string          `json:"product_ref"`
	Quantity   decimal.Decimal `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	Discount   decimal.Decimal `json:"discount"`
}

// CreateSaleRequest creación de venta (canal wholesale o supplier).
type CreateSaleRequest struct {
	Channel       string            `json:"channel"`
	CustomerName  string            `json:"customer_name"`
	CustomerPhone string            `json:"customer_phone"`
	Items         []SaleItemRequest `json:"items"`
	Notes         string            `json:"notes"`
}

// SaleItemResponse línea de venta persistida.
type SaleItemResponse struct {
	ID              string          `json:"id"`
	ProductID       string          `json:"product_id"`
	ProductName     string          `json:"product_name"`
	Quantity        decimal.Decimal `json:"quantity"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	CostPriceAtSale decimal.Decimal `json:"cost_price_at_sale"`
	Discount        decimal.Decimal `json:"discount"`
	Total           decimal.Decimal `json:"total"`
}

// SaleResponse venta con sus líneas.
type SaleResponse struct {
	ID            string             `json:"id"`
	WholesalerID  string             `json:"wholesaler_id"`
	Channel       string             `json:"channel"`
	Reference     string             `json:"reference"`
	CustomerName  string             `json:"customer_name"`
	CustomerPhone string             `json:"customer_phone,omitempty"`
	Items         []SaleItemResponse `json:"items"`
	Status        string             `json:"status"`
	TotalAmount   decimal.Decimal    `json:"total_amount"`
	TotalProfit   decimal.Decimal    `json:"total_profit"`
	RefundAmount  *decimal.Decimal   `json:"refund_amount,omitempty"`
	CancelReason  string             `json:"cancel_reason,omitempty"`
	Notes         string             `json:"notes,omitempty"`
	CreatedAt     time.Time          `json:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at"`
}

// CancelSaleRequest cancelación total o reembolso parcial.
// Con Partial=true y RefundAmount>0 la venta pasa a partially_refunded y NO se
// restaura stock (se asume que la mercancía no fue devuelta).
type CancelSaleRequest struct {
	Reason       string           `json:"reason"`
	Partial      bool             `json:"partial"`
	RefundAmount *decimal.Decimal `json:"refund_amount"`
}

// RestorationResultDTO resultado de restauración de stock por línea al
// eliminar una venta.
type RestorationResultDTO struct {
	ProductRef  string          `json:"product_ref"`
	ProductName string          `json:"product_name"`
	Quantity    decimal.Decimal `json:"quantity"`
	Restored    bool            `json:"restored"`
	Error       string          `json:"error,omitempty"`
}

// DeleteSaleResponse confirmación de borrado + reporte de restauración.
type DeleteSaleResponse struct {
	SaleID       string                 `json:"sale_id"`
	Deleted      bool                   `json:"deleted"`
	Restorations []RestorationResultDTO `json:"restorations"`
}
