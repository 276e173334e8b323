package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Mayorista-api/internal/domain/entity"
	"github.com/jhoicas/Mayorista-api/internal/domain/repository"
)

// OrderRepository implementación PostgreSQL (solo lectura) de pedidos a proveedor.
type OrderRepository struct {
	db Querier
}

// NewOrderRepository crea el repositorio sobre un pool o una transacción.
func NewOrderRepository(db Querier) *OrderRepository {
	return &OrderRepository{db: db}
}

var _ repository.OrderRepository = (*OrderRepository)(nil)

// GetByID retorna el pedido con sus líneas, o nil si no existe.
func (r *OrderRepository) GetByID(id string) (*entity.SupplierOrder, error) {
	ctx := context.Background()
	row := r.db.QueryRow(ctx, `
		SELECT id, wholesaler_id, supplier_id, status, certified_at, created_at
		FROM supplier_orders
		WHERE id = $1`, id)

	var o entity.SupplierOrder
	err := row.Scan(&o.ID, &o.WholesalerID, &o.SupplierID, &o.Status, &o.CertifiedAt, &o.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("buscar pedido: %w", err)
	}

	items, err := r.loadItems(ctx, o.ID)
	if err != nil {
		return nil, err
	}
	o.Items = items
	return &o, nil
}

// ListCertified pedidos certificados del mayorista, los certificados más
// recientemente primero. El término de búsqueda matchea proveedor o nombre
// de producto de alguna línea.
func (r *OrderRepository) ListCertified(wholesalerID, search string, limit, offset int) ([]*entity.SupplierOrder, error) {
	ctx := context.Background()
	rows, err := r.db.Query(ctx, `
		SELECT o.id, o.wholesaler_id, o.supplier_id, o.status, o.certified_at, o.created_at
		FROM supplier_orders o
		WHERE o.wholesaler_id = $1
		  AND o.status = 'certified'
		  AND ($2 = ''
		       OR lower(o.supplier_id) LIKE '%'||$2||'%'
		       OR EXISTS (
		              SELECT 1 FROM supplier_order_items i
		              WHERE i.order_id = o.id AND lower(i.product_name) LIKE '%'||$2||'%'))
		ORDER BY o.certified_at DESC NULLS LAST
		LIMIT $3 OFFSET $4`,
		wholesalerID, search, limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("listar pedidos certificados: %w", err)
	}
	defer rows.Close()

	var list []*entity.SupplierOrder
	for rows.Next() {
		var o entity.SupplierOrder
		if err := rows.Scan(&o.ID, &o.WholesalerID, &o.SupplierID, &o.Status, &o.CertifiedAt, &o.CreatedAt); err != nil {
			return nil, fmt.Errorf("escanear pedido: %w", err)
		}
		list = append(list, &o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterar pedidos: %w", err)
	}

	for _, o := range list {
		items, err := r.loadItems(ctx, o.ID)
		if err != nil {
			return nil, err
		}
		o.Items = items
	}
	return list, nil
}

// CountCertified total de pedidos certificados que matchean la búsqueda.
func (r *OrderRepository) CountCertified(wholesalerID, search string) (int, error) {
	ctx := context.Background()
	var count int
	err := r.db.QueryRow(ctx, `
		SELECT COUNT(*)
		FROM supplier_orders o
		WHERE o.wholesaler_id = $1
		  AND o.status = 'certified'
		  AND ($2 = ''
		       OR lower(o.supplier_id) LIKE '%'||$2||'%'
		       OR EXISTS (
		              SELECT 1 FROM supplier_order_items i
		              WHERE i.order_id = o.id AND lower(i.product_name) LIKE '%'||$2||'%'))`,
		wholesalerID, search,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("contar pedidos certificados: %w", err)
	}
	return count, nil
}

func (r *OrderRepository) loadItems(ctx context.Context, orderID string) ([]entity.OrderItem, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, order_id, product_name, category, measurement_unit, quantity, unit_price
		FROM supplier_order_items
		WHERE order_id = $1
		ORDER BY id`, orderID)
	if err != nil {
		return nil, fmt.Errorf("listar líneas del pedido: %w", err)
	}
	defer rows.Close()

	var items []entity.OrderItem
	for rows.Next() {
		var it entity.OrderItem
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ProductName, &it.Category, &it.MeasurementUnit, &it.Quantity, &it.UnitPrice); err != nil {
			return nil, fmt.Errorf("escanear línea del pedido: %w", err)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterar líneas del pedido: %w", err)
	}
	return items, nil
}
