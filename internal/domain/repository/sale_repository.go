package repository

import "github.com/jhoicas/Mayorista-api/internal/domain/entity"

// SaleRepository puerto de persistencia para ventas.
type SaleRepository interface {
	// Create persiste cabecera y líneas.
	Create(sale *entity.Sale) error
	// GetByID retorna la venta con sus líneas, o nil si no existe.
	GetByID(id string) (*entity.Sale, error)
	// UpdateStatus persiste estado, reembolso, motivo y notas.
	UpdateStatus(sale *entity.Sale) error
	Delete(id string) error
	ListByWholesaler(wholesalerID string, limit, offset int) ([]*entity.Sale, error)
}
