package sales

import (
	"github.com/jhoicas/Mayorista-api/internal/application/dto"
	"github.com/jhoicas/Mayorista-api/internal/domain"
	"github.com/jhoicas/Mayorista-api/internal/domain/repository"
)

// QueryUseCase lado de lectura de ventas.
type QueryUseCase struct {
	saleRepo repository.SaleRepository
}

// NewQueryUseCase construye el caso de uso.
func NewQueryUseCase(saleRepo repository.SaleRepository) *QueryUseCase {
	return &QueryUseCase{saleRepo: saleRepo}
}

// GetSale retorna una venta del mayorista con sus líneas.
func (uc *QueryUseCase) GetSale(wholesalerID, saleID string) (*dto.SaleResponse, error) {
	sale, err := uc.saleRepo.GetByID(saleID)
	if err != nil {
		return nil, err
	}
	if sale == nil || sale.WholesalerID != wholesalerID {
		return nil, domain.ErrNotFound
	}
	out := dto.FromSale(sale)
	return &out, nil
}

// ListSales ventas del mayorista, las más recientes primero.
func (uc *QueryUseCase) ListSales(wholesalerID string, page dto.PageRequest) ([]dto.SaleResponse, error) {
	page.DefaultPage()
	list, err := uc.saleRepo.ListByWholesaler(wholesalerID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.SaleResponse, 0, len(list))
	for _, s := range list {
		out = append(out, dto.FromSale(s))
	}
	return out, nil
}
