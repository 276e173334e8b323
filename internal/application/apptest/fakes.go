// Package apptest provee fakes en memoria de los puertos de repositorio para
// los tests de los casos de uso. El FakeTxRunner toma un snapshot del estado
// antes del callback y lo restaura si falla, imitando el rollback de una
// transacción real.
package apptest

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Mayorista-api/internal/domain"
	"github.com/jhoicas/Mayorista-api/internal/domain/entity"
	"github.com/jhoicas/Mayorista-api/internal/domain/repository"
)

// ── Productos ─────────────────────────────────────────────────────────────────

// FakeProductRepo repositorio de productos en memoria. Devuelve copias, como
// haría un scan de base de datos, para que las mutaciones del caso de uso no
// toquen el estado hasta Update.
type FakeProductRepo struct {
	byID  map[string]*entity.Product
	order []string
}

// NewFakeProductRepo crea el fake vacío.
func NewFakeProductRepo() *FakeProductRepo {
	return &FakeProductRepo{byID: map[string]*entity.Product{}}
}

var _ repository.ProductRepository = (*FakeProductRepo)(nil)

// Seed inserta directamente sin pasar por Create (sin chequeo de duplicados).
func (f *FakeProductRepo) Seed(p *entity.Product) {
	clone := *p
	f.byID[p.ID] = &clone
	f.order = append(f.order, p.ID)
}

// Get acceso directo para aserciones.
func (f *FakeProductRepo) Get(id string) *entity.Product {
	p, ok := f.byID[id]
	if !ok {
		return nil
	}
	clone := *p
	return &clone
}

// Len cantidad de productos almacenados.
func (f *FakeProductRepo) Len() int { return len(f.byID) }

// Remove elimina un producto directamente (para simular borrados de catálogo).
func (f *FakeProductRepo) Remove(id string) {
	delete(f.byID, id)
	for i, oid := range f.order {
		if oid == id {
			f.order = append(f.order[:i], f.order[i+1:]...)
			break
		}
	}
}

func (f *FakeProductRepo) Create(p *entity.Product) error {
	if _, ok := f.byID[p.ID]; ok {
		return domain.ErrDuplicate
	}
	// Índice único (wholesaler, source_order, source_item).
	if p.Source != nil {
		for _, existing := range f.byID {
			if existing.Source != nil &&
				existing.WholesalerID == p.WholesalerID &&
				existing.Source.OrderID == p.Source.OrderID &&
				existing.Source.ItemID == p.Source.ItemID {
				return domain.ErrDuplicate
			}
		}
	}
	f.Seed(p)
	return nil
}

func (f *FakeProductRepo) GetByID(id string) (*entity.Product, error) {
	return f.Get(id), nil
}

func (f *FakeProductRepo) Resolve(wholesalerID, ref string) (*entity.Product, error) {
	// id → sku → nombre, en ese orden.
	if p, ok := f.byID[ref]; ok && p.WholesalerID == wholesalerID {
		clone := *p
		return &clone, nil
	}
	for _, id := range f.order {
		p := f.byID[id]
		if p != nil && p.WholesalerID == wholesalerID && p.SKU == ref {
			clone := *p
			return &clone, nil
		}
	}
	for _, id := range f.order {
		p := f.byID[id]
		if p != nil && p.WholesalerID == wholesalerID && strings.EqualFold(p.Name, ref) {
			clone := *p
			return &clone, nil
		}
	}
	return nil, nil
}

func (f *FakeProductRepo) ResolveForUpdate(wholesalerID, ref string) (*entity.Product, error) {
	return f.Resolve(wholesalerID, ref)
}

func (f *FakeProductRepo) Update(p *entity.Product) error {
	if _, ok := f.byID[p.ID]; !ok {
		return domain.ErrNotFound
	}
	stored := f.byID[p.ID]
	quantity := stored.Quantity // Update no toca stock
	clone := *p
	clone.Quantity = quantity
	f.byID[p.ID] = &clone
	return nil
}

func (f *FakeProductRepo) DecrementStock(productID string, qty decimal.Decimal) error {
	p, ok := f.byID[productID]
	if !ok {
		return domain.ErrNotFound
	}
	if p.Quantity.LessThan(qty) {
		return domain.ErrInsufficientStock
	}
	p.Quantity = p.Quantity.Sub(qty)
	return nil
}

func (f *FakeProductRepo) IncrementStock(productID string, qty decimal.Decimal) error {
	p, ok := f.byID[productID]
	if !ok {
		return domain.ErrNotFound
	}
	p.Quantity = p.Quantity.Add(qty)
	return nil
}

func (f *FakeProductRepo) ListByWholesaler(wholesalerID, search string, limit, offset int) ([]*entity.Product, error) {
	var list []*entity.Product
	for _, id := range f.order {
		p := f.byID[id]
		if p == nil || p.WholesalerID != wholesalerID {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(p.Name), search) &&
			!strings.Contains(strings.ToLower(p.SKU), search) &&
			!strings.Contains(strings.ToLower(p.Category), search) {
			continue
		}
		clone := *p
		list = append(list, &clone)
	}
	return paginate(list, limit, offset), nil
}

func (f *FakeProductRepo) ListBySourceOrder(wholesalerID, orderID string) ([]*entity.Product, error) {
	var list []*entity.Product
	for _, id := range f.order {
		p := f.byID[id]
		if p != nil && p.WholesalerID == wholesalerID && p.Source != nil && p.Source.OrderID == orderID {
			clone := *p
			list = append(list, &clone)
		}
	}
	return list, nil
}

func (f *FakeProductRepo) ExistsBySourceOrder(wholesalerID, orderID string) (bool, error) {
	list, _ := f.ListBySourceOrder(wholesalerID, orderID)
	return len(list) > 0, nil
}

func (f *FakeProductRepo) ListLowStock(wholesalerID string, limit, offset int) ([]*entity.Product, error) {
	var list []*entity.Product
	for _, id := range f.order {
		p := f.byID[id]
		if p != nil && p.WholesalerID == wholesalerID && p.LowStockAlert {
			clone := *p
			list = append(list, &clone)
		}
	}
	return paginate(list, limit, offset), nil
}

func (f *FakeProductRepo) snapshot() map[string]entity.Product {
	s := make(map[string]entity.Product, len(f.byID))
	for id, p := range f.byID {
		s[id] = *p
	}
	return s
}

func (f *FakeProductRepo) restore(s map[string]entity.Product) {
	f.byID = make(map[string]*entity.Product, len(s))
	var order []string
	for _, id := range f.order {
		if p, ok := s[id]; ok {
			clone := p
			f.byID[id] = &clone
			order = append(order, id)
		}
	}
	f.order = order
}

// ── Historial de precios ──────────────────────────────────────────────────────

// FakeHistoryRepo ledger de precios en memoria, append-only.
type FakeHistoryRepo struct {
	Entries []entity.PriceHistory
}

// NewFakeHistoryRepo crea el fake vacío.
func NewFakeHistoryRepo() *FakeHistoryRepo { return &FakeHistoryRepo{} }

var _ repository.PriceHistoryRepository = (*FakeHistoryRepo)(nil)

func (f *FakeHistoryRepo) Append(h *entity.PriceHistory) error {
	f.Entries = append(f.Entries, *h)
	return nil
}

func (f *FakeHistoryRepo) ListByProduct(productID string, filter repository.HistoryFilter) ([]entity.PriceHistory, error) {
	matched := f.matching(productID, filter)
	// Descendente por fecha; a igual fecha, la insertada después primero.
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].ChangedAt.After(matched[j].ChangedAt)
	})
	if filter.Limit <= 0 {
		return matched, nil
	}
	return paginate(matched, filter.Limit, filter.Offset), nil
}

func (f *FakeHistoryRepo) CountByProduct(productID string, filter repository.HistoryFilter) (int, error) {
	return len(f.matching(productID, filter)), nil
}

func (f *FakeHistoryRepo) matching(productID string, filter repository.HistoryFilter) []entity.PriceHistory {
	var out []entity.PriceHistory
	for i := len(f.Entries) - 1; i >= 0; i-- {
		h := f.Entries[i]
		if h.ProductID != productID {
			continue
		}
		if filter.ChangeType != "" && h.ChangeType != filter.ChangeType {
			continue
		}
		if filter.From != nil && h.ChangedAt.Before(*filter.From) {
			continue
		}
		if filter.To != nil && h.ChangedAt.After(*filter.To) {
			continue
		}
		out = append(out, h)
	}
	return out
}

// ── Pedidos ───────────────────────────────────────────────────────────────────

// FakeOrderRepo pedidos a proveedor en memoria (solo lectura, como el puerto).
type FakeOrderRepo struct {
	byID  map[string]*entity.SupplierOrder
	order []string
}

// NewFakeOrderRepo crea el fake vacío.
func NewFakeOrderRepo() *FakeOrderRepo {
	return &FakeOrderRepo{byID: map[string]*entity.SupplierOrder{}}
}

var _ repository.OrderRepository = (*FakeOrderRepo)(nil)

// Seed inserta un pedido.
func (f *FakeOrderRepo) Seed(o *entity.SupplierOrder) {
	clone := *o
	f.byID[o.ID] = &clone
	f.order = append(f.order, o.ID)
}

func (f *FakeOrderRepo) GetByID(id string) (*entity.SupplierOrder, error) {
	o, ok := f.byID[id]
	if !ok {
		return nil, nil
	}
	clone := *o
	return &clone, nil
}

func (f *FakeOrderRepo) ListCertified(wholesalerID, search string, limit, offset int) ([]*entity.SupplierOrder, error) {
	var list []*entity.SupplierOrder
	for _, id := range f.order {
		o := f.byID[id]
		if o == nil || o.WholesalerID != wholesalerID || o.Status != entity.OrderStatusCertified {
			continue
		}
		if search != "" && !orderMatches(o, search) {
			continue
		}
		clone := *o
		list = append(list, &clone)
	}
	return paginate(list, limit, offset), nil
}

func (f *FakeOrderRepo) CountCertified(wholesalerID, search string) (int, error) {
	list, _ := f.ListCertified(wholesalerID, search, 0, 0)
	return len(list), nil
}

func orderMatches(o *entity.SupplierOrder, search string) bool {
	if strings.Contains(strings.ToLower(o.SupplierID), search) {
		return true
	}
	for _, it := range o.Items {
		if strings.Contains(strings.ToLower(it.ProductName), search) {
			return true
		}
	}
	return false
}

// ── Ventas ────────────────────────────────────────────────────────────────────

// FakeSaleRepo ventas en memoria.
type FakeSaleRepo struct {
	byID  map[string]*entity.Sale
	order []string
}

// NewFakeSaleRepo crea el fake vacío.
func NewFakeSaleRepo() *FakeSaleRepo {
	return &FakeSaleRepo{byID: map[string]*entity.Sale{}}
}

var _ repository.SaleRepository = (*FakeSaleRepo)(nil)

// Get acceso directo para aserciones.
func (f *FakeSaleRepo) Get(id string) *entity.Sale {
	s, ok := f.byID[id]
	if !ok {
		return nil
	}
	clone := *s
	return &clone
}

// Len cantidad de ventas almacenadas.
func (f *FakeSaleRepo) Len() int { return len(f.byID) }

func (f *FakeSaleRepo) Create(s *entity.Sale) error {
	if _, ok := f.byID[s.ID]; ok {
		return domain.ErrDuplicate
	}
	clone := *s
	f.byID[s.ID] = &clone
	f.order = append(f.order, s.ID)
	return nil
}

func (f *FakeSaleRepo) GetByID(id string) (*entity.Sale, error) {
	return f.Get(id), nil
}

func (f *FakeSaleRepo) UpdateStatus(s *entity.Sale) error {
	stored, ok := f.byID[s.ID]
	if !ok {
		return domain.ErrNotFound
	}
	stored.Status = s.Status
	stored.RefundAmount = s.RefundAmount
	stored.CancelReason = s.CancelReason
	stored.Notes = s.Notes
	stored.UpdatedAt = s.UpdatedAt
	return nil
}

func (f *FakeSaleRepo) Delete(id string) error {
	if _, ok := f.byID[id]; !ok {
		return domain.ErrNotFound
	}
	delete(f.byID, id)
	for i, oid := range f.order {
		if oid == id {
			f.order = append(f.order[:i], f.order[i+1:]...)
			break
		}
	}
	return nil
}

func (f *FakeSaleRepo) ListByWholesaler(wholesalerID string, limit, offset int) ([]*entity.Sale, error) {
	var list []*entity.Sale
	for i := len(f.order) - 1; i >= 0; i-- {
		s := f.byID[f.order[i]]
		if s != nil && s.WholesalerID == wholesalerID {
			clone := *s
			list = append(list, &clone)
		}
	}
	return paginate(list, limit, offset), nil
}

func (f *FakeSaleRepo) snapshot() map[string]entity.Sale {
	s := make(map[string]entity.Sale, len(f.byID))
	for id, sale := range f.byID {
		s[id] = *sale
	}
	return s
}

func (f *FakeSaleRepo) restore(snap map[string]entity.Sale) {
	restored := make(map[string]*entity.Sale, len(snap))
	var order []string
	for _, id := range f.order {
		if s, ok := snap[id]; ok {
			clone := s
			restored[id] = &clone
			order = append(order, id)
		}
	}
	f.byID = restored
	f.order = order
}

// ── Analytics ─────────────────────────────────────────────────────────────────

// FakeAnalyticsRepo agregados precargados para los tests del lado de lectura.
type FakeAnalyticsRepo struct {
	Summary     repository.SalesSummaryResult
	TopProducts []repository.ProductSalesResult
	LowStock    int
}

var _ repository.AnalyticsRepository = (*FakeAnalyticsRepo)(nil)

func (f *FakeAnalyticsRepo) GetSalesSummary(_ context.Context, _ string, _, _ time.Time) (repository.SalesSummaryResult, error) {
	return f.Summary, nil
}

func (f *FakeAnalyticsRepo) GetTopProducts(_ context.Context, _ string, _, _ time.Time, topN int) ([]repository.ProductSalesResult, error) {
	if topN < len(f.TopProducts) {
		return f.TopProducts[:topN], nil
	}
	return f.TopProducts, nil
}

func (f *FakeAnalyticsRepo) CountLowStock(_ context.Context, _ string) (int, error) {
	return f.LowStock, nil
}

// ── TxRunner ──────────────────────────────────────────────────────────────────

// FakeTxRunner ejecuta los callbacks transaccionales contra los fakes,
// restaurando el estado previo cuando el callback falla (rollback).
type FakeTxRunner struct {
	Products *FakeProductRepo
	History  *FakeHistoryRepo
	Sales    *FakeSaleRepo
}

// NewFakeTxRunner construye el runner con fakes nuevos.
func NewFakeTxRunner() *FakeTxRunner {
	return &FakeTxRunner{
		Products: NewFakeProductRepo(),
		History:  NewFakeHistoryRepo(),
		Sales:    NewFakeSaleRepo(),
	}
}

// Run versión de dos repos (catálogo e ingesta).
func (r *FakeTxRunner) Run(_ context.Context, fn func(
	productRepo repository.ProductRepository,
	historyRepo repository.PriceHistoryRepository,
) error) error {
	productSnap := r.Products.snapshot()
	historySnap := append([]entity.PriceHistory(nil), r.History.Entries...)

	if err := fn(r.Products, r.History); err != nil {
		r.Products.restore(productSnap)
		r.History.Entries = historySnap
		return err
	}
	return nil
}

// RunSale versión de tres repos (flujo de ventas).
func (r *FakeTxRunner) RunSale(_ context.Context, fn func(
	productRepo repository.ProductRepository,
	historyRepo repository.PriceHistoryRepository,
	saleRepo repository.SaleRepository,
) error) error {
	productSnap := r.Products.snapshot()
	historySnap := append([]entity.PriceHistory(nil), r.History.Entries...)
	saleSnap := r.Sales.snapshot()

	if err := fn(r.Products, r.History, r.Sales); err != nil {
		r.Products.restore(productSnap)
		r.History.Entries = historySnap
		r.Sales.restore(saleSnap)
		return err
	}
	return nil
}

func paginate[T any](list []T, limit, offset int) []T {
	if offset > 0 {
		if offset >= len(list) {
			return nil
		}
		list = list[offset:]
	}
	if limit > 0 && limit < len(list) {
		list = list[:limit]
	}
	return list
}
