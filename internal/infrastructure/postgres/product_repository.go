package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Mayorista-api/internal/domain"
	"github.com/jhoicas/Mayorista-api/internal/domain/entity"
	"github.com/jhoicas/Mayorista-api/internal/domain/repository"
)

// productColumns columnas en el orden que esperan los scans.
const productColumns = `
	id, wholesaler_id, sku, name, category, measurement_unit, tags,
	price, cost_price, quantity, original_stock,
	low_stock_threshold, low_stock_alert, low_stock_since,
	requires_pricing, price_manually_edited, original_selling_price,
	source_order_id, source_item_id, source_supplier_id, source_certified_at, source_unit_price,
	last_prev_price, last_new_price, last_changed_at, last_changed_by, last_reason,
	created_at, updated_at`

// ProductRepository implementación PostgreSQL de repository.ProductRepository.
type ProductRepository struct {
	db Querier
}

// NewProductRepository crea el repositorio sobre un pool o una transacción.
func NewProductRepository(db Querier) *ProductRepository {
	return &ProductRepository{db: db}
}

var _ repository.ProductRepository = (*ProductRepository)(nil)

// Create inserta un producto. Una violación del índice único de origen
// (wholesaler_id, source_order_id, source_item_id) se traduce a ErrDuplicate:
// es la garantía de ingesta única de pedidos certificados.
func (r *ProductRepository) Create(p *entity.Product) error {
	ctx := context.Background()

	var (
		srcOrderID, srcItemID, srcSupplierID *string
		srcCertifiedAt                       *time.Time
		srcUnitPrice                         *decimal.Decimal
	)
	if p.Source != nil {
		srcOrderID = &p.Source.OrderID
		srcItemID = &p.Source.ItemID
		srcSupplierID = &p.Source.SupplierID
		srcCertifiedAt = &p.Source.CertifiedAt
		srcUnitPrice = &p.Source.OriginalUnitPrice
	}
	var (
		lastPrev, lastNew  *decimal.Decimal
		lastChangedAt      *time.Time
		lastBy, lastReason *string
	)
	if p.LastPriceChange != nil {
		lastPrev = &p.LastPriceChange.PreviousPrice
		lastNew = &p.LastPriceChange.NewPrice
		lastChangedAt = &p.LastPriceChange.ChangedAt
		lastBy = &p.LastPriceChange.ChangedBy
		lastReason = &p.LastPriceChange.Reason
	}

	query := `
		INSERT INTO products (` + productColumns + `)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,
		        $18,$19,$20,$21,$22,$23,$24,$25,$26,$27,$28,$29)`

	_, err := r.db.Exec(ctx, query,
		p.ID, p.WholesalerID, p.SKU, p.Name, p.Category, p.MeasurementUnit, p.Tags,
		p.Price, p.CostPrice, p.Quantity, p.OriginalStock,
		p.LowStockThreshold, p.LowStockAlert, p.LowStockSince,
		p.RequiresPricing, p.PriceManuallyEdited, p.OriginalSellingPrice,
		srcOrderID, srcItemID, srcSupplierID, srcCertifiedAt, srcUnitPrice,
		lastPrev, lastNew, lastChangedAt, lastBy, lastReason,
		p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insertar producto: %w", err)
	}
	return nil
}

// GetByID busca un producto por su ID. Retorna nil si no existe.
func (r *ProductRepository) GetByID(id string) (*entity.Product, error) {
	ctx := context.Background()
	row := r.db.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id)

	p, err := scanProduct(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("buscar producto: %w", err)
	}
	return p, nil
}

// Resolve prueba claves en orden (id → sku → nombre) en una sola consulta:
// el CASE del ORDER BY hace que gane la coincidencia más específica.
func (r *ProductRepository) Resolve(wholesalerID, ref string) (*entity.Product, error) {
	return r.resolve(wholesalerID, ref, false)
}

// ResolveForUpdate igual que Resolve pero bloqueando la fila (SELECT FOR UPDATE).
func (r *ProductRepository) ResolveForUpdate(wholesalerID, ref string) (*entity.Product, error) {
	return r.resolve(wholesalerID, ref, true)
}

func (r *ProductRepository) resolve(wholesalerID, ref string, forUpdate bool) (*entity.Product, error) {
	ctx := context.Background()
	query := `
		SELECT ` + productColumns + `
		FROM products
		WHERE wholesaler_id = $1
		  AND (id = $2 OR sku = $2 OR lower(name) = lower($2))
		ORDER BY CASE WHEN id = $2 THEN 0 WHEN sku = $2 THEN 1 ELSE 2 END
		LIMIT 1`
	if forUpdate {
		query += ` FOR UPDATE`
	}

	row := r.db.QueryRow(ctx, query, wholesalerID, ref)
	p, err := scanProduct(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("resolver producto: %w", err)
	}
	return p, nil
}

// Update persiste los campos mutables del producto. El stock NO se toca aquí:
// los movimientos de cantidad pasan por DecrementStock/IncrementStock.
func (r *ProductRepository) Update(p *entity.Product) error {
	ctx := context.Background()

	var (
		lastPrev, lastNew  *decimal.Decimal
		lastChangedAt      *time.Time
		lastBy, lastReason *string
	)
	if p.LastPriceChange != nil {
		lastPrev = &p.LastPriceChange.PreviousPrice
		lastNew = &p.LastPriceChange.NewPrice
		lastChangedAt = &p.LastPriceChange.ChangedAt
		lastBy = &p.LastPriceChange.ChangedBy
		lastReason = &p.LastPriceChange.Reason
	}

	query := `
		UPDATE products SET
			name = $2, category = $3, measurement_unit = $4, tags = $5,
			price = $6, cost_price = $7,
			low_stock_threshold = $8, low_stock_alert = $9, low_stock_since = $10,
			requires_pricing = $11, price_manually_edited = $12, original_selling_price = $13,
			last_prev_price = $14, last_new_price = $15, last_changed_at = $16,
			last_changed_by = $17, last_reason = $18,
			updated_at = $19
		WHERE id = $1`

	tag, err := r.db.Exec(ctx, query,
		p.ID, p.Name, p.Category, p.MeasurementUnit, p.Tags,
		p.Price, p.CostPrice,
		p.LowStockThreshold, p.LowStockAlert, p.LowStockSince,
		p.RequiresPricing, p.PriceManuallyEdited, p.OriginalSellingPrice,
		lastPrev, lastNew, lastChangedAt, lastBy, lastReason,
		p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("actualizar producto: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// DecrementStock descuenta stock de forma condicional: el UPDATE solo aplica
// si hay cantidad suficiente, así dos ventas concurrentes no pueden dejar el
// stock negativo. Cero filas afectadas distingue falta de stock de producto
// inexistente.
func (r *ProductRepository) DecrementStock(productID string, qty decimal.Decimal) error {
	ctx := context.Background()
	tag, err := r.db.Exec(ctx, `
		UPDATE products
		SET quantity = quantity - $2, updated_at = now()
		WHERE id = $1 AND quantity >= $2`,
		productID, qty,
	)
	if err != nil {
		return fmt.Errorf("descontar stock: %w", err)
	}
	if tag.RowsAffected() == 0 {
		var exists bool
		if err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM products WHERE id = $1)`, productID).Scan(&exists); err != nil {
			return fmt.Errorf("verificar producto: %w", err)
		}
		if !exists {
			return domain.ErrNotFound
		}
		return domain.ErrInsufficientStock
	}
	return nil
}

// IncrementStock restaura stock (reverso de venta).
func (r *ProductRepository) IncrementStock(productID string, qty decimal.Decimal) error {
	ctx := context.Background()
	tag, err := r.db.Exec(ctx, `
		UPDATE products
		SET quantity = quantity + $2, updated_at = now()
		WHERE id = $1`,
		productID, qty,
	)
	if err != nil {
		return fmt.Errorf("restaurar stock: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListByWholesaler lista el catálogo del mayorista, con búsqueda opcional por
// nombre, SKU o categoría (el término llega ya normalizado).
func (r *ProductRepository) ListByWholesaler(wholesalerID, search string, limit, offset int) ([]*entity.Product, error) {
	ctx := context.Background()
	rows, err := r.db.Query(ctx, `
		SELECT `+productColumns+`
		FROM products
		WHERE wholesaler_id = $1
		  AND ($2 = '' OR lower(name) LIKE '%'||$2||'%' OR lower(sku) LIKE '%'||$2||'%' OR lower(category) LIKE '%'||$2||'%')
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4`,
		wholesalerID, search, limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("listar productos: %w", err)
	}
	defer rows.Close()
	return scanProducts(rows)
}

// ListBySourceOrder productos originados por un pedido certificado específico.
func (r *ProductRepository) ListBySourceOrder(wholesalerID, orderID string) ([]*entity.Product, error) {
	ctx := context.Background()
	rows, err := r.db.Query(ctx, `
		SELECT `+productColumns+`
		FROM products
		WHERE wholesaler_id = $1 AND source_order_id = $2
		ORDER BY created_at`,
		wholesalerID, orderID,
	)
	if err != nil {
		return nil, fmt.Errorf("listar productos por pedido: %w", err)
	}
	defer rows.Close()
	return scanProducts(rows)
}

// ExistsBySourceOrder indica si el pedido ya fue ingresado al stock.
func (r *ProductRepository) ExistsBySourceOrder(wholesalerID, orderID string) (bool, error) {
	ctx := context.Background()
	var exists bool
	err := r.db.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM products WHERE wholesaler_id = $1 AND source_order_id = $2)`,
		wholesalerID, orderID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("verificar pedido ingresado: %w", err)
	}
	return exists, nil
}

// ListLowStock productos en alerta de stock bajo, los más antiguos en alerta primero.
func (r *ProductRepository) ListLowStock(wholesalerID string, limit, offset int) ([]*entity.Product, error) {
	ctx := context.Background()
	rows, err := r.db.Query(ctx, `
		SELECT `+productColumns+`
		FROM products
		WHERE wholesaler_id = $1 AND low_stock_alert = true
		ORDER BY low_stock_since NULLS LAST
		LIMIT $2 OFFSET $3`,
		wholesalerID, limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("listar stock bajo: %w", err)
	}
	defer rows.Close()
	return scanProducts(rows)
}

// scanProduct mapea una fila (en el orden de productColumns) a la entidad,
// reconstruyendo los grupos opcionales de origen certificado y último cambio.
func scanProduct(row pgx.Row) (*entity.Product, error) {
	var (
		p entity.Product

		srcOrderID, srcItemID, srcSupplierID *string
		srcCertifiedAt                       *time.Time
		srcUnitPrice                         *decimal.Decimal

		lastPrev, lastNew  *decimal.Decimal
		lastChangedAt      *time.Time
		lastBy, lastReason *string
	)

	err := row.Scan(
		&p.ID, &p.WholesalerID, &p.SKU, &p.Name, &p.Category, &p.MeasurementUnit, &p.Tags,
		&p.Price, &p.CostPrice, &p.Quantity, &p.OriginalStock,
		&p.LowStockThreshold, &p.LowStockAlert, &p.LowStockSince,
		&p.RequiresPricing, &p.PriceManuallyEdited, &p.OriginalSellingPrice,
		&srcOrderID, &srcItemID, &srcSupplierID, &srcCertifiedAt, &srcUnitPrice,
		&lastPrev, &lastNew, &lastChangedAt, &lastBy, &lastReason,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if srcOrderID != nil {
		src := &entity.CertifiedSource{
			OrderID: *srcOrderID,
		}
		if srcItemID != nil {
			src.ItemID = *srcItemID
		}
		if srcSupplierID != nil {
			src.SupplierID = *srcSupplierID
		}
		if srcCertifiedAt != nil {
			src.CertifiedAt = *srcCertifiedAt
		}
		if srcUnitPrice != nil {
			src.OriginalUnitPrice = *srcUnitPrice
		}
		p.Source = src
	}
	if lastChangedAt != nil {
		lt := &entity.PriceTransition{ChangedAt: *lastChangedAt}
		if lastPrev != nil {
			lt.PreviousPrice = *lastPrev
		}
		if lastNew != nil {
			lt.NewPrice = *lastNew
		}
		if lastBy != nil {
			lt.ChangedBy = *lastBy
		}
		if lastReason != nil {
			lt.Reason = *lastReason
		}
		p.LastPriceChange = lt
	}
	return &p, nil
}

func scanProducts(rows pgx.Rows) ([]*entity.Product, error) {
	var list []*entity.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("escanear producto: %w", err)
		}
		list = append(list, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterar productos: %w", err)
	}
	return list, nil
}
