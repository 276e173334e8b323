package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/Mayorista-api/internal/domain/repository"
)

// AnalyticsRepository agregados de reporting calculados en SQL. Las ventas
// canceladas se excluyen de todos los agregados; las parcialmente
// reembolsadas cuentan por su monto original.
type AnalyticsRepository struct {
	db Querier
}

// NewAnalyticsRepository crea el repositorio sobre el pool.
func NewAnalyticsRepository(db Querier) *AnalyticsRepository {
	return &AnalyticsRepository{db: db}
}

var _ repository.AnalyticsRepository = (*AnalyticsRepository)(nil)

// GetSalesSummary conteo de ventas, ingreso bruto, costo y utilidad del período.
func (r *AnalyticsRepository) GetSalesSummary(ctx context.Context, wholesalerID string, start, end time.Time) (repository.SalesSummaryResult, error) {
	var res repository.SalesSummaryResult
	err := r.db.QueryRow(ctx, `
		SELECT COUNT(DISTINCT s.id),
		       COALESCE(SUM(i.total), 0),
		       COALESCE(SUM(i.cost_price_at_sale * i.quantity), 0),
		       COALESCE(SUM(i.total - i.cost_price_at_sale * i.quantity), 0)
		FROM sales s
		JOIN sale_items i ON i.sale_id = s.id
		WHERE s.wholesaler_id = $1
		  AND s.status <> 'cancelled'
		  AND s.created_at BETWEEN $2 AND $3`,
		wholesalerID, start, end,
	).Scan(&res.SaleCount, &res.GrossRevenue, &res.TotalCOGS, &res.TotalProfit)
	if err != nil {
		return repository.SalesSummaryResult{}, fmt.Errorf("resumen de ventas: %w", err)
	}
	return res, nil
}

// GetTopProducts ranking de productos por ingreso en el período.
func (r *AnalyticsRepository) GetTopProducts(ctx context.Context, wholesalerID string, start, end time.Time, topN int) ([]repository.ProductSalesResult, error) {
	rows, err := r.db.Query(ctx, `
		SELECT i.product_id,
		       MAX(i.product_name),
		       COALESCE(SUM(i.quantity), 0),
		       COALESCE(SUM(i.total), 0),
		       COALESCE(SUM(i.total - i.cost_price_at_sale * i.quantity), 0)
		FROM sales s
		JOIN sale_items i ON i.sale_id = s.id
		WHERE s.wholesaler_id = $1
		  AND s.status <> 'cancelled'
		  AND s.created_at BETWEEN $2 AND $3
		GROUP BY i.product_id
		ORDER BY SUM(i.total) DESC
		LIMIT $4`,
		wholesalerID, start, end, topN,
	)
	if err != nil {
		return nil, fmt.Errorf("ranking de productos: %w", err)
	}
	defer rows.Close()

	var list []repository.ProductSalesResult
	for rows.Next() {
		var p repository.ProductSalesResult
		if err := rows.Scan(&p.ProductID, &p.ProductName, &p.UnitsSold, &p.Revenue, &p.Profit); err != nil {
			return nil, fmt.Errorf("escanear ranking: %w", err)
		}
		list = append(list, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterar ranking: %w", err)
	}
	return list, nil
}

// CountLowStock productos del mayorista en alerta de stock bajo.
func (r *AnalyticsRepository) CountLowStock(ctx context.Context, wholesalerID string) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `
		SELECT COUNT(*) FROM products WHERE wholesaler_id = $1 AND low_stock_alert = true`,
		wholesalerID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("contar stock bajo: %w", err)
	}
	return count, nil
}
