package sales

import (
	"context"

	"github.com/jhoicas/Mayorista-api/internal/domain/entity"
	"github.com/jhoicas/Mayorista-api/internal/domain/repository"
)

// TxRunner ejecuta fn dentro de una transacción con los repos de venta atados
// a la tx. Toda venta (validación, mutación de stock y creación del registro)
// corre dentro de un único límite atómico; cualquier fallo revierte todo.
type TxRunner interface {
	RunSale(ctx context.Context, fn func(
		productRepo repository.ProductRepository,
		historyRepo repository.PriceHistoryRepository,
		saleRepo repository.SaleRepository,
	) error) error
}

// ReceiptGenerator genera el comprobante PDF de una venta.
// Implementado por pdf.MarotoReceiptGenerator.
type ReceiptGenerator interface {
	GenerateReceiptPDF(ctx context.Context, sale *entity.Sale) ([]byte, error)
}
