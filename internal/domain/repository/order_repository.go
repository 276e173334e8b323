package repository

import "github.com/jhoicas/Mayorista-api/internal/domain/entity"

// OrderRepository puerto de lectura de pedidos a proveedor. Este motor no crea
// ni certifica pedidos; eso lo hace el flujo de compras.
type OrderRepository interface {
	// GetByID retorna el pedido con sus líneas, o nil si no existe.
	GetByID(id string) (*entity.SupplierOrder, error)
	ListCertified(wholesalerID, search string, limit, offset int) ([]*entity.SupplierOrder, error)
	CountCertified(wholesalerID, search string) (int, error)
}
