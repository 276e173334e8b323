package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Mayorista-api/internal/domain"
	"github.com/jhoicas/Mayorista-api/internal/domain/entity"
	"github.com/jhoicas/Mayorista-api/internal/domain/repository"
)

// SaleRepository implementación PostgreSQL de ventas (cabecera + líneas).
type SaleRepository struct {
	db Querier
}

// NewSaleRepository crea el repositorio sobre un pool o una transacción.
func NewSaleRepository(db Querier) *SaleRepository {
	return &SaleRepository{db: db}
}

var _ repository.SaleRepository = (*SaleRepository)(nil)

// Create persiste cabecera y líneas. Debe llamarse dentro de la transacción
// de venta para que la venta y los descuentos de stock sean un solo commit.
func (r *SaleRepository) Create(s *entity.Sale) error {
	ctx := context.Background()
	_, err := r.db.Exec(ctx, `
		INSERT INTO sales (
			id, wholesaler_id, channel, reference, customer_name, customer_phone,
			status, total_amount, total_profit, refund_amount, cancel_reason, notes,
			created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)`,
		s.ID, s.WholesalerID, s.Channel, s.Reference, s.CustomerName, s.CustomerPhone,
		s.Status, s.TotalAmount, s.TotalProfit, s.RefundAmount, s.CancelReason, s.Notes,
		s.CreatedAt, s.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insertar venta: %w", err)
	}

	for _, it := range s.Items {
		_, err := r.db.Exec(ctx, `
			INSERT INTO sale_items (
				id, sale_id, product_id, product_name, quantity,
				unit_price, cost_price_at_sale, discount, total
			) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
			it.ID, it.SaleID, it.ProductID, it.ProductName, it.Quantity,
			it.UnitPrice, it.CostPriceAtSale, it.Discount, it.Total,
		)
		if err != nil {
			return fmt.Errorf("insertar línea de venta: %w", err)
		}
	}
	return nil
}

// GetByID retorna la venta con sus líneas, o nil si no existe.
func (r *SaleRepository) GetByID(id string) (*entity.Sale, error) {
	ctx := context.Background()
	row := r.db.QueryRow(ctx, `
		SELECT id, wholesaler_id, channel, reference, customer_name, customer_phone,
		       status, total_amount, total_profit, refund_amount, cancel_reason, notes,
		       created_at, updated_at
		FROM sales
		WHERE id = $1`, id)

	var s entity.Sale
	err := row.Scan(
		&s.ID, &s.WholesalerID, &s.Channel, &s.Reference, &s.CustomerName, &s.CustomerPhone,
		&s.Status, &s.TotalAmount, &s.TotalProfit, &s.RefundAmount, &s.CancelReason, &s.Notes,
		&s.CreatedAt, &s.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("buscar venta: %w", err)
	}

	items, err := r.loadItems(ctx, s.ID)
	if err != nil {
		return nil, err
	}
	s.Items = items
	return &s, nil
}

// UpdateStatus persiste estado, reembolso, motivo de cancelación y notas.
// Las líneas nunca cambian después de creadas.
func (r *SaleRepository) UpdateStatus(s *entity.Sale) error {
	ctx := context.Background()
	tag, err := r.db.Exec(ctx, `
		UPDATE sales
		SET status = $2, refund_amount = $3, cancel_reason = $4, notes = $5, updated_at = $6
		WHERE id = $1`,
		s.ID, s.Status, s.RefundAmount, s.CancelReason, s.Notes, s.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("actualizar estado de venta: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina la venta y sus líneas.
func (r *SaleRepository) Delete(id string) error {
	ctx := context.Background()
	if _, err := r.db.Exec(ctx, `DELETE FROM sale_items WHERE sale_id = $1`, id); err != nil {
		return fmt.Errorf("eliminar líneas de venta: %w", err)
	}
	tag, err := r.db.Exec(ctx, `DELETE FROM sales WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("eliminar venta: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListByWholesaler ventas del mayorista, las más recientes primero.
func (r *SaleRepository) ListByWholesaler(wholesalerID string, limit, offset int) ([]*entity.Sale, error) {
	ctx := context.Background()
	rows, err := r.db.Query(ctx, `
		SELECT id, wholesaler_id, channel, reference, customer_name, customer_phone,
		       status, total_amount, total_profit, refund_amount, cancel_reason, notes,
		       created_at, updated_at
		FROM sales
		WHERE wholesaler_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`,
		wholesalerID, limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("listar ventas: %w", err)
	}
	defer rows.Close()

	var list []*entity.Sale
	for rows.Next() {
		var s entity.Sale
		if err := rows.Scan(
			&s.ID, &s.WholesalerID, &s.Channel, &s.Reference, &s.CustomerName, &s.CustomerPhone,
			&s.Status, &s.TotalAmount, &s.TotalProfit, &s.RefundAmount, &s.CancelReason, &s.Notes,
			&s.CreatedAt, &s.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("escanear venta: %w", err)
		}
		list = append(list, &s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterar ventas: %w", err)
	}

	for _, s := range list {
		items, err := r.loadItems(ctx, s.ID)
		if err != nil {
			return nil, err
		}
		s.Items = items
	}
	return list, nil
}

func (r *SaleRepository) loadItems(ctx context.Context, saleID string) ([]entity.SaleItem, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, sale_id, product_id, product_name, quantity,
		       unit_price, cost_price_at_sale, discount, total
		FROM sale_items
		WHERE sale_id = $1
		ORDER BY id`, saleID)
	if err != nil {
		return nil, fmt.Errorf("listar líneas de venta: %w", err)
	}
	defer rows.Close()

	var items []entity.SaleItem
	for rows.Next() {
		var it entity.SaleItem
		if err := rows.Scan(
			&it.ID, &it.SaleID, &it.ProductID, &it.ProductName, &it.Quantity,
			&it.UnitPrice, &it.CostPriceAtSale, &it.Discount, &it.Total,
		); err != nil {
			return nil, fmt.Errorf("escanear línea de venta: %w", err)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterar líneas de venta: %w", err)
	}
	return items, nil
}
