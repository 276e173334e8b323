package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de cambio de precio registrados en el historial.
const (
	ChangeTypeManual           = "manual"
	ChangeTypeSale             = "sale"
	ChangeTypeMarketAdjustment = "market_adjustment"
	ChangeTypeCostChange       = "cost_change"
	ChangeTypePromotional      = "promotional"
	ChangeTypeBulkUpdate       = "bulk_update"
	ChangeTypeInitial          = "initial"
	ChangeTypeAutoAdjustment   = "auto_adjustment"
)

// IsValidChangeType valida que el tipo de cambio pertenezca al catálogo.
func IsValidChangeType(t string) bool {
	switch t {
	case ChangeTypeManual, ChangeTypeSale, ChangeTypeMarketAdjustment,
		ChangeTypeCostChange, ChangeTypePromotional, ChangeTypeBulkUpdate,
		ChangeTypeInitial, ChangeTypeAutoAdjustment:
		return true
	}
	return false
}

// PriceHistory registra cada cambio de precio de un producto.
// Los registros son inmutables: nunca se eliminan ni modifican (append-only).
// El orden de inserción es significativo; los consumidores lo leen descendente.
type PriceHistory struct {
	ID            string
	ProductID     string
	SellingPrice  decimal.Decimal // precio de venta saliente (o entrante en entradas "initial")
	CostPrice     decimal.Decimal // costo vigente al momento del cambio
	ChangedAt     time.Time
	ChangedBy     string // UserID del actor
	Reason        string
	SaleReference string // referencia de la venta cuando ChangeType == sale
	ChangeType    string
	Note          string
}

// PriceTransition snapshot del cambio de precio más reciente de un producto.
type PriceTransition struct {
	PreviousPrice decimal.Decimal
	NewPrice      decimal.Decimal
	ChangedAt     time.Time
	ChangedBy     string
	Reason        string
}
