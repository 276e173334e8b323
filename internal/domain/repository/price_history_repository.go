package repository

import (
	"time"

	"github.com/jhoicas/Mayorista-api/internal/domain/entity"
)

// HistoryFilter filtros para consultar el historial de precios.
// Limit == 0 significa sin paginación (historial completo).
type HistoryFilter struct {
	ChangeType string
	From       *time.Time
	To         *time.Time
	Limit      int
	Offset     int
}

// PriceHistoryRepository puerto de persistencia del ledger de precios.
// El ledger es append-only: no existe Update ni Delete.
type PriceHistoryRepository interface {
	Append(h *entity.PriceHistory) error
	// ListByProduct retorna el historial ordenado descendente por fecha de
	// cambio (el más reciente primero).
	ListByProduct(productID string, f HistoryFilter) ([]entity.PriceHistory, error)
	CountByProduct(productID string, f HistoryFilter) (int, error)
}
