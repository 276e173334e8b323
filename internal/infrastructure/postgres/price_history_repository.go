package postgres

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/jhoicas/Mayorista-api/internal/domain/entity"
	"github.com/jhoicas/Mayorista-api/internal/domain/repository"
)

// PriceHistoryRepository implementación PostgreSQL del ledger de precios.
// Solo INSERT y SELECT: el historial es append-only por contrato.
type PriceHistoryRepository struct {
	db Querier
}

// NewPriceHistoryRepository crea el repositorio sobre un pool o una transacción.
func NewPriceHistoryRepository(db Querier) *PriceHistoryRepository {
	return &PriceHistoryRepository{db: db}
}

var _ repository.PriceHistoryRepository = (*PriceHistoryRepository)(nil)

// Append inserta una entrada del historial.
func (r *PriceHistoryRepository) Append(h *entity.PriceHistory) error {
	ctx := context.Background()
	_, err := r.db.Exec(ctx, `
		INSERT INTO price_history (
			id, product_id, selling_price, cost_price, changed_at,
			changed_by, reason, sale_reference, change_type, note
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`,
		h.ID, h.ProductID, h.SellingPrice, h.CostPrice, h.ChangedAt,
		h.ChangedBy, h.Reason, h.SaleReference, h.ChangeType, h.Note,
	)
	if err != nil {
		return fmt.Errorf("insertar historial de precio: %w", err)
	}
	return nil
}

// ListByProduct historial descendente por fecha de cambio, con filtros
// opcionales por tipo y rango de fechas. Limit cero = sin paginación.
func (r *PriceHistoryRepository) ListByProduct(productID string, f repository.HistoryFilter) ([]entity.PriceHistory, error) {
	ctx := context.Background()
	where, args := historyConditions(productID, f)

	query := `
		SELECT id, product_id, selling_price, cost_price, changed_at,
		       changed_by, reason, sale_reference, change_type, note
		FROM price_history
		WHERE ` + where + `
		ORDER BY changed_at DESC, id DESC`
	if f.Limit > 0 {
		query += " LIMIT $" + strconv.Itoa(len(args)+1) + " OFFSET $" + strconv.Itoa(len(args)+2)
		args = append(args, f.Limit, f.Offset)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listar historial: %w", err)
	}
	defer rows.Close()

	var list []entity.PriceHistory
	for rows.Next() {
		var h entity.PriceHistory
		if err := rows.Scan(
			&h.ID, &h.ProductID, &h.SellingPrice, &h.CostPrice, &h.ChangedAt,
			&h.ChangedBy, &h.Reason, &h.SaleReference, &h.ChangeType, &h.Note,
		); err != nil {
			return nil, fmt.Errorf("escanear historial: %w", err)
		}
		list = append(list, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterar historial: %w", err)
	}
	return list, nil
}

// CountByProduct total de entradas que matchean el filtro (sin paginación).
func (r *PriceHistoryRepository) CountByProduct(productID string, f repository.HistoryFilter) (int, error) {
	ctx := context.Background()
	where, args := historyConditions(productID, f)

	var count int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM price_history WHERE `+where, args...).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("contar historial: %w", err)
	}
	return count, nil
}

// historyConditions arma el WHERE compartido entre List y Count.
func historyConditions(productID string, f repository.HistoryFilter) (string, []any) {
	conds := []string{"product_id = $1"}
	args := []any{productID}

	if f.ChangeType != "" {
		args = append(args, f.ChangeType)
		conds = append(conds, "change_type = $"+strconv.Itoa(len(args)))
	}
	if f.From != nil {
		args = append(args, *f.From)
		conds = append(conds, "changed_at >= $"+strconv.Itoa(len(args)))
	}
	if f.To != nil {
		args = append(args, *f.To)
		conds = append(conds, "changed_at <= $"+strconv.Itoa(len(args)))
	}
	return strings.Join(conds, " AND "), args
}
