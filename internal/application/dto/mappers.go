package dto

import (
	"github.com/jhoicas/Mayorista-api/internal/domain/entity"
	"github.com/jhoicas/Mayorista-api/internal/domain/pricing"
)

// FromProduct convierte la entidad a su representación de API.
func FromProduct(p *entity.Product) ProductResponse {
	out := ProductResponse{
		ID:                   p.ID,
		WholesalerID:         p.WholesalerID,
		SKU:                  p.SKU,
		Name:                 p.Name,
		Category:             p.Category,
		MeasurementUnit:      p.MeasurementUnit,
		Tags:                 p.Tags,
		Price:                p.Price,
		CostPrice:            p.CostPrice,
		ProfitMargin:         p.ProfitMargin(),
		Quantity:             p.Quantity,
		OriginalStock:        p.OriginalStock,
		LowStockThreshold:    p.LowStockThreshold,
		LowStockAlert:        p.LowStockAlert,
		LowStockSince:        p.LowStockSince,
		RequiresPricing:      p.RequiresPricing,
		PriceManuallyEdited:  p.PriceManuallyEdited,
		OriginalSellingPrice: p.OriginalSellingPrice,
		CreatedAt:            p.CreatedAt,
		UpdatedAt:            p.UpdatedAt,
	}
	if p.Source != nil {
		out.Source = &CertifiedSourceDTO{
			OrderID:           p.Source.OrderID,
			ItemID:            p.Source.ItemID,
			SupplierID:        p.Source.SupplierID,
			CertifiedAt:       p.Source.CertifiedAt,
			OriginalUnitPrice: p.Source.OriginalUnitPrice,
		}
	}
	if p.LastPriceChange != nil {
		out.LastPriceChange = &PriceTransitionDTO{
			PreviousPrice: p.LastPriceChange.PreviousPrice,
			NewPrice:      p.LastPriceChange.NewPrice,
			ChangedAt:     p.LastPriceChange.ChangedAt,
			ChangedBy:     p.LastPriceChange.ChangedBy,
			Reason:        p.LastPriceChange.Reason,
		}
	}
	return out
}

// FromPriceHistory convierte una entrada del ledger.
func FromPriceHistory(h entity.PriceHistory) PriceHistoryEntryDTO {
	return PriceHistoryEntryDTO{
		ID:            h.ID,
		SellingPrice:  h.SellingPrice,
		CostPrice:     h.CostPrice,
		ChangedAt:     h.ChangedAt,
		ChangedBy:     h.ChangedBy,
		Reason:        h.Reason,
		SaleReference: h.SaleReference,
		ChangeType:    h.ChangeType,
		Note:          h.Note,
	}
}

// FromPriceStatistics convierte las estadísticas derivadas.
func FromPriceStatistics(s pricing.Statistics) PriceStatisticsDTO {
	return PriceStatisticsDTO{
		HighestPrice:     s.HighestPrice,
		LowestPrice:      s.LowestPrice,
		AveragePrice:     s.AveragePrice,
		PriceChangeCount: s.PriceChangeCount,
	}
}

// FromSale convierte la venta con sus líneas.
func FromSale(s *entity.Sale) SaleResponse {
	items := make([]SaleItemResponse, 0, len(s.Items))
	for _, it := range s.Items {
		items = append(items, SaleItemResponse{
			ID:              it.ID,
			ProductID:       it.ProductID,
			ProductName:     it.ProductName,
			Quantity:        it.Quantity,
			UnitPrice:       it.UnitPrice,
			CostPriceAtSale: it.CostPriceAtSale,
			Discount:        it.Discount,
			Total:           it.Total,
		})
	}
	return SaleResponse{
		ID:            s.ID,
		WholesalerID:  s.WholesalerID,
		Channel:       s.Channel,
		Reference:     s.Reference,
		CustomerName:  s.CustomerName,
		CustomerPhone: s.CustomerPhone,
		Items:         items,
		Status:        s.Status,
		TotalAmount:   s.TotalAmount,
		TotalProfit:   s.TotalProfit,
		RefundAmount:  s.RefundAmount,
		CancelReason:  s.CancelReason,
		Notes:         s.Notes,
		CreatedAt:     s.CreatedAt,
		UpdatedAt:     s.UpdatedAt,
	}
}
