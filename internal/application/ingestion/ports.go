package ingestion

import (
	"context"

	"github.com/jhoicas/Mayorista-api/internal/domain/repository"
)

// TxRunner ejecuta fn dentro de una transacción con los repos atados a la tx.
// La ingesta de un pedido (N productos + semillas de historial) es atómica.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		productRepo repository.ProductRepository,
		historyRepo repository.PriceHistoryRepository,
	) error) error
}
