package pricing

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/Mayorista-api/internal/domain/entity"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestMargin(t *testing.T) {
	assert.True(t, dec("30").Equal(Margin(dec("1300"), dec("1000"))))
	assert.True(t, dec("-10").Equal(Margin(dec("900"), dec("1000"))))
	assert.True(t, Margin(dec("500"), decimal.Zero).IsZero(), "costo cero = margen indefinido")
}

func TestMarkup(t *testing.T) {
	assert.True(t, dec("1300").Equal(Markup(dec("1000"), dec("30"))))
	assert.True(t, dec("1000").Equal(Markup(dec("1000"), decimal.Zero)))
}

func TestComputeStatistics(t *testing.T) {
	history := []entity.PriceHistory{
		{SellingPrice: dec("120")},
		{SellingPrice: dec("100")},
		{SellingPrice: decimal.Zero}, // entrada sin precio: no cuenta para min/promedio
	}

	stats := ComputeStatistics(history, dec("140"))

	assert.Equal(t, 3, stats.PriceChangeCount, "el conteo incluye todas las entradas")
	assert.True(t, dec("140").Equal(stats.HighestPrice))
	assert.True(t, dec("100").Equal(stats.LowestPrice))
	assert.True(t, dec("120").Equal(stats.AveragePrice), "(120+100+140)/3")
}

func TestComputeStatisticsSinPrecios(t *testing.T) {
	stats := ComputeStatistics(nil, decimal.Zero)
	assert.Equal(t, 0, stats.PriceChangeCount)
	assert.True(t, stats.HighestPrice.IsZero())
	assert.True(t, stats.AveragePrice.IsZero())
}

func TestTrend(t *testing.T) {
	now := time.Now()
	mk := func(newest, previous string) []entity.PriceHistory {
		return []entity.PriceHistory{
			{SellingPrice: dec(newest), ChangedAt: now},
			{SellingPrice: dec(previous), ChangedAt: now.Add(-time.Hour)},
		}
	}

	assert.Equal(t, TrendIncreases, Trend(mk("120", "100")))
	assert.Equal(t, TrendDecreases, Trend(mk("80", "100")))
	assert.Equal(t, TrendStable, Trend(mk("100", "100")))
	assert.Equal(t, TrendStable, Trend(nil), "sin historial suficiente")
	assert.Equal(t, TrendStable, Trend([]entity.PriceHistory{{SellingPrice: dec("100")}}))
}
