package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Umbral de stock bajo permitido (fracción del stock original).
var (
	LowStockThresholdMin     = decimal.NewFromFloat(0.1)
	LowStockThresholdMax     = decimal.NewFromFloat(0.9)
	LowStockThresholdDefault = decimal.NewFromFloat(0.2)
)

// CertifiedSource referencia al pedido certificado que originó un producto.
// Presente solo en productos creados por la ingesta de pedidos certificados.
type CertifiedSource struct {
	OrderID           string
	ItemID            string // línea del pedido que originó este producto
	SupplierID        string
	CertifiedAt       time.Time
	OriginalUnitPrice decimal.Decimal // precio unitario del pedido (costo de adquisición)
}

// Product representa un producto en stock del mayorista, con su precio vigente,
// costo, cantidad y la metadata del ledger de precios. El historial de cambios
// vive en la tabla price_history (append-only); aquí solo queda el snapshot
// del último cambio.
type Product struct {
	ID              string
	WholesalerID    string
	SKU             string // código único por mayorista
	Name            string
	Category        string
	MeasurementUnit string
	Tags            []string

	Price     decimal.Decimal // precio de venta vigente (>= 0)
	CostPrice decimal.Decimal // costo de adquisición (>= 0)

	Quantity          decimal.Decimal // stock actual (>= 0)
	OriginalStock     decimal.Decimal // cantidad con la que entró al catálogo
	LowStockThreshold decimal.Decimal // fracción 0.1–0.9 del stock original
	LowStockAlert     bool
	LowStockSince     *time.Time // se estampa solo al entrar en alerta

	RequiresPricing      bool // producto certificado sin precio de venta asignado
	PriceManuallyEdited  bool
	OriginalSellingPrice *decimal.Decimal // primer precio de venta asignado

	Source          *CertifiedSource // nil si fue creación directa de catálogo
	LastPriceChange *PriceTransition

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsCertifiedOrigin indica si el producto proviene de la ingesta de un pedido certificado.
func (p *Product) IsCertifiedOrigin() bool {
	return p.Source != nil
}

// ProfitMargin margen porcentual sobre el costo: (precio - costo) / costo * 100.
// Retorna cero si el costo es cero (margen indefinido).
func (p *Product) ProfitMargin() decimal.Decimal {
	if p.CostPrice.IsZero() {
		return decimal.Zero
	}
	return p.Price.Sub(p.CostPrice).Div(p.CostPrice).Mul(decimal.NewFromInt(100))
}

// UpdatePrice aplica un cambio de precio ordinario. Retorna la entrada de
// historial a persistir y false si el cambio es un no-op (mismo precio).
//
// La entrada de historial captura el precio/costo SALIENTE, antes de la
// mutación. El caller es responsable de persistir producto e historial
// (idealmente en la misma transacción).
func (p *Product) UpdatePrice(newPrice decimal.Decimal, actorID, reason, saleReference, changeType, note string, now time.Time) (*PriceHistory, bool) {
	if newPrice.Equal(p.Price) {
		return nil, false
	}

	outgoing := &PriceHistory{
		ProductID:     p.ID,
		SellingPrice:  p.Price,
		CostPrice:     p.CostPrice,
		ChangedAt:     now,
		ChangedBy:     actorID,
		Reason:        reason,
		SaleReference: saleReference,
		ChangeType:    changeType,
		Note:          note,
	}

	p.LastPriceChange = &PriceTransition{
		PreviousPrice: p.Price,
		NewPrice:      newPrice,
		ChangedAt:     now,
		ChangedBy:     actorID,
		Reason:        reason,
	}
	if p.OriginalSellingPrice == nil {
		first := p.Price
		if first.IsZero() {
			first = newPrice
		}
		p.OriginalSellingPrice = &first
	}
	p.Price = newPrice
	p.PriceManuallyEdited = changeType == ChangeTypeManual
	if p.IsCertifiedOrigin() && p.RequiresPricing && newPrice.GreaterThan(decimal.Zero) {
		p.RequiresPricing = false
	}
	p.UpdatedAt = now

	return outgoing, true
}

// AssignFirstPrice asigna el PRIMER precio de venta de un producto certificado
// que entró al catálogo sin precio. Es una transición distinguida: no hay
// precio saliente significativo, así que fija Price directamente y la entrada
// de historial registra el precio entrante con una nota de primera venta.
func (p *Product) AssignFirstPrice(price decimal.Decimal, actorID, saleReference string, now time.Time) *PriceHistory {
	p.LastPriceChange = &PriceTransition{
		PreviousPrice: decimal.Zero,
		NewPrice:      price,
		ChangedAt:     now,
		ChangedBy:     actorID,
		Reason:        "primer precio asignado en venta",
	}
	p.Price = price
	p.RequiresPricing = false
	if p.OriginalSellingPrice == nil {
		first := price
		p.OriginalSellingPrice = &first
	}
	p.UpdatedAt = now

	return &PriceHistory{
		ProductID:     p.ID,
		SellingPrice:  price,
		CostPrice:     p.CostPrice,
		ChangedAt:     now,
		ChangedBy:     actorID,
		Reason:        "primera venta",
		SaleReference: saleReference,
		ChangeType:    ChangeTypeManual,
		Note:          "precio asignado en la primera venta del producto",
	}
}

// CheckLowStock recalcula la alerta de stock bajo. Con stock original conocido,
// alerta cuando Quantity <= OriginalStock * LowStockThreshold; sin stock
// original usa el piso absoluto (absoluteFloor). El timestamp LowStockSince se
// estampa solo en la transición hacia la alerta, no en chequeos repetidos.
func (p *Product) CheckLowStock(now time.Time, absoluteFloor decimal.Decimal) bool {
	var alert bool
	if p.OriginalStock.GreaterThan(decimal.Zero) {
		threshold := p.LowStockThreshold
		if threshold.IsZero() {
			threshold = LowStockThresholdDefault
		}
		alert = p.Quantity.LessThanOrEqual(p.OriginalStock.Mul(threshold))
	} else {
		alert = p.Quantity.LessThanOrEqual(absoluteFloor)
	}

	if alert && !p.LowStockAlert {
		ts := now
		p.LowStockSince = &ts
	}
	if !alert {
		p.LowStockSince = nil
	}
	p.LowStockAlert = alert
	return alert
}
