package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Mayorista-api/internal/domain/entity"
)

var hundred = decimal.NewFromInt(100)

// Clasificación de tendencia de precio.
const (
	TrendIncreases = "increases"
	TrendDecreases = "decreases"
	TrendStable    = "stable"
)

// Statistics estadísticas derivadas del historial de precios de un producto.
type Statistics struct {
	HighestPrice     decimal.Decimal
	LowestPrice      decimal.Decimal
	AveragePrice     decimal.Decimal
	PriceChangeCount int
}

// Margin margen porcentual sobre el costo: (venta - costo) / costo * 100.
// Retorna cero con costo cero (margen indefinido).
func Margin(sellingPrice, costPrice decimal.Decimal) decimal.Decimal {
	if costPrice.IsZero() {
		return decimal.Zero
	}
	return sellingPrice.Sub(costPrice).Div(costPrice).Mul(hundred)
}

// Markup aplica un recargo porcentual sobre el costo (ej. 30 => costo * 1.30).
// Se usa para el precio sugerido al listar pedidos certificados pendientes de ingesta.
func Markup(costPrice, markupPct decimal.Decimal) decimal.Decimal {
	factor := decimal.NewFromInt(1).Add(markupPct.Div(hundred))
	return costPrice.Mul(factor)
}

// ComputeStatistics calcula max/min/promedio sobre historial ∪ {precio vigente}.
// Las entradas con precio cero (productos que entraron sin precio) no cuentan
// para min/promedio, igual que un precio vigente en cero.
func ComputeStatistics(history []entity.PriceHistory, currentPrice decimal.Decimal) Statistics {
	stats := Statistics{PriceChangeCount: len(history)}

	prices := make([]decimal.Decimal, 0, len(history)+1)
	for _, h := range history {
		if h.SellingPrice.GreaterThan(decimal.Zero) {
			prices = append(prices, h.SellingPrice)
		}
	}
	if currentPrice.GreaterThan(decimal.Zero) {
		prices = append(prices, currentPrice)
	}
	if len(prices) == 0 {
		return stats
	}

	stats.HighestPrice = prices[0]
	stats.LowestPrice = prices[0]
	sum := decimal.Zero
	for _, p := range prices {
		if p.GreaterThan(stats.HighestPrice) {
			stats.HighestPrice = p
		}
		if p.LessThan(stats.LowestPrice) {
			stats.LowestPrice = p
		}
		sum = sum.Add(p)
	}
	stats.AveragePrice = sum.Div(decimal.NewFromInt(int64(len(prices))))
	return stats
}

// Trend clasifica la tendencia comparando las dos entradas más recientes del
// historial (recibido en orden descendente: la más nueva primero).
func Trend(historyDesc []entity.PriceHistory) string {
	if len(historyDesc) < 2 {
		return TrendStable
	}
	newest, previous := historyDesc[0].SellingPrice, historyDesc[1].SellingPrice
	switch {
	case newest.GreaterThan(previous):
		return TrendIncreases
	case newest.LessThan(previous):
		return TrendDecreases
	default:
		return TrendStable
	}
}
