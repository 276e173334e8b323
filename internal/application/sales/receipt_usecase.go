package sales

import (
	"context"

	"github.com/jhoicas/Mayorista-api/internal/domain"
	"github.com/jhoicas/Mayorista-api/internal/domain/repository"
)

// ReceiptUseCase genera el comprobante PDF de una venta.
type ReceiptUseCase struct {
	saleRepo  repository.SaleRepository
	generator ReceiptGenerator
}

// NewReceiptUseCase construye el caso de uso.
func NewReceiptUseCase(saleRepo repository.SaleRepository, generator ReceiptGenerator) *ReceiptUseCase {
	return &ReceiptUseCase{saleRepo: saleRepo, generator: generator}
}

// GetReceipt carga la venta y genera su comprobante en PDF.
func (uc *ReceiptUseCase) GetReceipt(ctx context.Context, wholesalerID, saleID string) ([]byte, error) {
	sale, err := uc.saleRepo.GetByID(saleID)
	if err != nil {
		return nil, err
	}
	if sale == nil || sale.WholesalerID != wholesalerID {
		return nil, domain.ErrNotFound
	}
	return uc.generator.GenerateReceiptPDF(ctx, sale)
}
