package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/branch-fulfillment-api/internal/domain/entity"
	"github.com/jhoicas/branch-fulfillment-api/internal/domain/repository"
)

var (
	_ repository.ItemRepository             = (*ItemRepository)(nil)
	_ repository.BOMRepository              = (*BOMRepository)(nil)
	_ repository.OrderRepository            = (*OrderRepository)(nil)
	_ repository.StockTransactionRepository = (*StockTransactionRepository)(nil)
	_ repository.ConsumptionRepository      = (*ConsumptionRepository)(nil)
)

// ItemRepository Item Store en memoria.
type ItemRepository struct {
	store *Store
	tx    *state
}

func (r *ItemRepository) Create(_ context.Context, item *entity.InventoryItem) error {
	return r.store.write(r.tx, func(st *state) error {
		if _, ok := st.items[item.ID]; ok {
			return fmt.Errorf("ítem %s ya existe", item.ID)
		}
		st.items[item.ID] = cloneItem(item)
		return nil
	})
}

func (r *ItemRepository) GetByID(_ context.Context, id string) (*entity.InventoryItem, error) {
	var out *entity.InventoryItem
	r.store.read(r.tx, func(st *state) { out = cloneItem(st.items[id]) })
	return out, nil
}

// GetForUpdate dentro de Run el almacén ya está bloqueado en exclusiva.
func (r *ItemRepository) GetForUpdate(ctx context.Context, id string) (*entity.InventoryItem, error) {
	return r.GetByID(ctx, id)
}

func (r *ItemRepository) List(_ context.Context, filter repository.ItemFilter) ([]*entity.InventoryItem, error) {
	var ids map[string]struct{}
	if len(filter.IDs) > 0 {
		ids = make(map[string]struct{}, len(filter.IDs))
		for _, id := range filter.IDs {
			ids[id] = struct{}{}
		}
	}
	var out []*entity.InventoryItem
	r.store.read(r.tx, func(st *state) {
		for _, it := range st.items {
			if filter.Type != "" && it.Type != filter.Type {
				continue
			}
			if filter.BranchName != "" && it.BranchName != filter.BranchName {
				continue
			}
			if ids != nil {
				if _, ok := ids[it.ID]; !ok {
					continue
				}
			}
			out = append(out, cloneItem(it))
		}
	})
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *ItemRepository) UpdateStock(_ context.Context, id string, quantity, unitPrice decimal.Decimal, updatedAt time.Time) error {
	return r.store.write(r.tx, func(st *state) error {
		it, ok := st.items[id]
		if !ok {
			return fmt.Errorf("ítem %s no existe", id)
		}
		if quantity.IsNegative() {
			return fmt.Errorf("ítem %s: stock negativo %s", id, quantity.String())
		}
		it.Quantity = quantity
		it.UnitPrice = unitPrice
		it.UpdatedAt = updatedAt
		return nil
	})
}

// BOMRepository BOM Store en memoria; conserva el orden de inserción.
type BOMRepository struct {
	store *Store
	tx    *state
}

func (r *BOMRepository) ListByFinishedItem(_ context.Context, finishedItemID string) ([]*entity.BOMItem, error) {
	var out []*entity.BOMItem
	r.store.read(r.tx, func(st *state) {
		for _, row := range st.bom {
			if row.FinishedItemID == finishedItemID {
				out = append(out, cloneBOM(row))
			}
		}
	})
	return out, nil
}

func (r *BOMRepository) ListAll(_ context.Context) ([]*entity.BOMItem, error) {
	var out []*entity.BOMItem
	r.store.read(r.tx, func(st *state) {
		for _, row := range st.bom {
			out = append(out, cloneBOM(row))
		}
	})
	return out, nil
}

func (r *BOMRepository) DeleteByFinishedItem(_ context.Context, finishedItemID string) error {
	return r.store.write(r.tx, func(st *state) error {
		kept := st.bom[:0:0]
		for _, row := range st.bom {
			if row.FinishedItemID != finishedItemID {
				kept = append(kept, row)
			}
		}
		st.bom = kept
		return nil
	})
}

func (r *BOMRepository) CreateBatch(_ context.Context, rows []*entity.BOMItem) error {
	return r.store.write(r.tx, func(st *state) error {
		for _, row := range rows {
			st.bom = append(st.bom, cloneBOM(row))
		}
		return nil
	})
}

// OrderRepository Order Store en memoria.
type OrderRepository struct {
	store *Store
	tx    *state
}

func (r *OrderRepository) Create(_ context.Context, order *entity.Order) error {
	return r.store.write(r.tx, func(st *state) error {
		if _, ok := st.orders[order.ID]; ok {
			return fmt.Errorf("pedido %s ya existe", order.ID)
		}
		st.orders[order.ID] = cloneOrder(order)
		return nil
	})
}

func (r *OrderRepository) GetByID(_ context.Context, id string) (*entity.Order, error) {
	var out *entity.Order
	r.store.read(r.tx, func(st *state) { out = cloneOrder(st.orders[id]) })
	return out, nil
}

func (r *OrderRepository) GetForUpdate(ctx context.Context, id string) (*entity.Order, error) {
	return r.GetByID(ctx, id)
}

// List más recientes primero.
func (r *OrderRepository) List(_ context.Context, filter repository.OrderFilter) ([]*entity.Order, error) {
	var out []*entity.Order
	r.store.read(r.tx, func(st *state) {
		for _, o := range st.orders {
			if filter.Status != "" && o.Status != filter.Status {
				continue
			}
			if filter.BranchName != "" && o.BranchName != filter.BranchName {
				continue
			}
			out = append(out, cloneOrder(o))
		}
	})
	sort.Slice(out, func(i, j int) bool {
		if !out[i].OrderDate.Equal(out[j].OrderDate) {
			return out[i].OrderDate.After(out[j].OrderDate)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *OrderRepository) Update(_ context.Context, order *entity.Order) error {
	return r.store.write(r.tx, func(st *state) error {
		if _, ok := st.orders[order.ID]; !ok {
			return fmt.Errorf("pedido %s no existe", order.ID)
		}
		st.orders[order.ID] = cloneOrder(order)
		return nil
	})
}

// StockTransactionRepository Transaction Log en memoria (solo inserción).
type StockTransactionRepository struct {
	store *Store
	tx    *state
}

func (r *StockTransactionRepository) Create(_ context.Context, t *entity.StockTransaction) error {
	return r.store.write(r.tx, func(st *state) error {
		c := *t
		st.transactions = append(st.transactions, &c)
		return nil
	})
}

// ListByItem más recientes primero, con paginación; limit <= 0 devuelve todo.
func (r *StockTransactionRepository) ListByItem(_ context.Context, itemID string, from, to *time.Time, limit, offset int) ([]*entity.StockTransaction, error) {
	var out []*entity.StockTransaction
	r.store.read(r.tx, func(st *state) {
		for i := len(st.transactions) - 1; i >= 0; i-- {
			t := st.transactions[i]
			if t.ItemID != itemID || !inRange(t.CreatedAt, from, to) {
				continue
			}
			c := *t
			out = append(out, &c)
		}
	})
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return paginate(out, limit, offset), nil
}

func (r *StockTransactionRepository) ListByOrder(_ context.Context, orderID string) ([]*entity.StockTransaction, error) {
	var out []*entity.StockTransaction
	r.store.read(r.tx, func(st *state) {
		for _, t := range st.transactions {
			if t.OrderID == orderID {
				c := *t
				out = append(out, &c)
			}
		}
	})
	return out, nil
}

// ConsumptionRepository Consumption Log en memoria (solo inserción).
type ConsumptionRepository struct {
	store *Store
	tx    *state
}

func (r *ConsumptionRepository) Create(_ context.Context, rec *entity.ConsumptionRecord) error {
	return r.store.write(r.tx, func(st *state) error {
		c := *rec
		st.consumptions = append(st.consumptions, &c)
		return nil
	})
}

func (r *ConsumptionRepository) ListByItem(_ context.Context, itemID string, from, to *time.Time) ([]*entity.ConsumptionRecord, error) {
	var out []*entity.ConsumptionRecord
	r.store.read(r.tx, func(st *state) {
		for i := len(st.consumptions) - 1; i >= 0; i-- {
			rec := st.consumptions[i]
			if rec.ItemID != itemID || !inRange(rec.ProcessedAt, from, to) {
				continue
			}
			c := *rec
			out = append(out, &c)
		}
	})
	sort.SliceStable(out, func(i, j int) bool { return out[i].ProcessedAt.After(out[j].ProcessedAt) })
	return out, nil
}

func (r *ConsumptionRepository) ListByOrder(_ context.Context, orderID string) ([]*entity.ConsumptionRecord, error) {
	var out []*entity.ConsumptionRecord
	r.store.read(r.tx, func(st *state) {
		for _, rec := range st.consumptions {
			if rec.OrderID == orderID {
				c := *rec
				out = append(out, &c)
			}
		}
	})
	return out, nil
}

func inRange(at time.Time, from, to *time.Time) bool {
	if from != nil && at.Before(*from) {
		return false
	}
	if to != nil && at.After(*to) {
		return false
	}
	return true
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
