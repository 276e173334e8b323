package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados del pedido a proveedor. Solo los pedidos "certified" son elegibles
// para convertirse en stock propio del mayorista.
const (
	OrderStatusPending   = "pending"
	OrderStatusCertified = "certified"
	OrderStatusRejected  = "rejected"
)

// SupplierOrder pedido a proveedor. Lo produce el flujo de compras (colaborador
// externo); este motor solo lo lee para la ingesta.
type SupplierOrder struct {
	ID           string
	WholesalerID string
	SupplierID   string
	Status       string
	CertifiedAt  *time.Time
	Items        []OrderItem
	CreatedAt    time.Time
}

// OrderItem línea de un pedido a proveedor.
type OrderItem struct {
	ID              string
	OrderID         string
	ProductName     string
	Category        string
	MeasurementUnit string
	Quantity        decimal.Decimal // > 0
	UnitPrice       decimal.Decimal // costo unitario de adquisición (>= 0)
}

// IsCertified indica si el pedido está en estado certificado.
func (o *SupplierOrder) IsCertified() bool {
	return o.Status == OrderStatusCertified
}

// TotalCost costo total del pedido (Σ cantidad * precio unitario).
func (o *SupplierOrder) TotalCost() decimal.Decimal {
	total := decimal.Zero
	for _, it := range o.Items {
		total = total.Add(it.Quantity.Mul(it.UnitPrice))
	}
	return total
}
