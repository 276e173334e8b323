package repository

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Mayorista-api/internal/domain/entity"
)

// ProductRepository define el puerto de persistencia para Product (DIP).
//
// Resolve es la capacidad de resolución polimórfica: un ítem de venta puede
// referenciar un producto regular o uno de origen certificado, y la búsqueda
// prueba claves en orden (id → sku → nombre) en una sola operación.
type ProductRepository interface {
	Create(product *entity.Product) error
	GetByID(id string) (*entity.Product, error)
	Resolve(wholesalerID, ref string) (*entity.Product, error)
	// ResolveForUpdate resuelve y bloquea la fila (SELECT FOR UPDATE). Solo
	// tiene sentido dentro de una transacción.
	ResolveForUpdate(wholesalerID, ref string) (*entity.Product, error)
	Update(product *entity.Product) error
	// DecrementStock descuenta stock de forma condicional y atómica
	// (quantity = quantity - n WHERE quantity >= n). Retorna
	// domain.ErrInsufficientStock si la condición no se cumple.
	DecrementStock(productID string, qty decimal.Decimal) error
	IncrementStock(productID string, qty decimal.Decimal) error
	ListByWholesaler(wholesalerID, search string, limit, offset int) ([]*entity.Product, error)
	ListBySourceOrder(wholesalerID, orderID string) ([]*entity.Product, error)
	ExistsBySourceOrder(wholesalerID, orderID string) (bool, error)
	ListLowStock(wholesalerID string, limit, offset int) ([]*entity.Product, error)
}
