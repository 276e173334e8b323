package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Canales de venta. Estructuralmente idénticos; el canal solo distingue el
// flujo de negocio (mayorista→minorista vs proveedor→cliente final).
const (
	SaleChannelWholesale = "wholesale"
	SaleChannelSupplier  = "supplier"
)

// Estados de una venta y su máquina de transiciones.
const (
	SaleStatusPending           = "pending"
	SaleStatusCompleted         = "completed"
	SaleStatusCancelled         = "cancelled"
	SaleStatusPartiallyRefunded = "partially_refunded"
	SaleStatusRefunded          = "refunded"
)

// saleTransitions transiciones válidas. cancelled y refunded son terminales:
// no hay salida de cancelled.
var saleTransitions = map[string][]string{
	SaleStatusPending:           {SaleStatusCompleted, SaleStatusCancelled},
	SaleStatusCompleted:         {SaleStatusCancelled, SaleStatusPartiallyRefunded, SaleStatusRefunded},
	SaleStatusPartiallyRefunded: {SaleStatusCancelled, SaleStatusRefunded},
}

// CanTransitionSale valida una transición de estado de venta.
func CanTransitionSale(from, to string) bool {
	for _, t := range saleTransitions[from] {
		if t == to {
			return true
		}
	}
	return false
}

// Sale venta registrada. Inmutable una vez creada salvo el estado y los campos
// de reembolso/cancelación. Invariante: Σ Items[i].Total == TotalAmount.
type Sale struct {
	ID            string
	WholesalerID  string
	Channel       string // wholesale | supplier
	Reference     string // número de referencia (VTA-...)
	CustomerName  string
	CustomerPhone string
	Items         []SaleItem
	Status        string
	TotalAmount   decimal.Decimal
	TotalProfit   decimal.Decimal
	RefundAmount  *decimal.Decimal
	CancelReason  string
	Notes         string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// SaleItem línea de venta. CostPriceAtSale congela el costo del producto al
// momento de la venta para que las utilidades no cambien retroactivamente.
type SaleItem struct {
	ID              string
	SaleID          string
	ProductID       string
	ProductName     string
	Quantity        decimal.Decimal // > 0
	UnitPrice       decimal.Decimal // >= 0
	CostPriceAtSale decimal.Decimal // >= 0
	Discount        decimal.Decimal
	Total           decimal.Decimal // cantidad*precio - descuento
}

// Profit utilidad de la línea: total - costo congelado * cantidad.
func (i SaleItem) Profit() decimal.Decimal {
	return i.Total.Sub(i.CostPriceAtSale.Mul(i.Quantity))
}

// IsCancelled indica si la venta está en estado terminal cancelado.
func (s *Sale) IsCancelled() bool {
	return s.Status == SaleStatusCancelled
}
