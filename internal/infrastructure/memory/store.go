package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/branch-fulfillment-api/internal/application/ports"
	"github.com/jhoicas/branch-fulfillment-api/internal/domain/entity"
)

var _ ports.TxRunner = (*Store)(nil)

// state datos del almacén. Las transacciones trabajan sobre una copia y la publican al confirmar.
type state struct {
	items        map[string]*entity.InventoryItem
	bom          []*entity.BOMItem
	orders       map[string]*entity.Order
	transactions []*entity.StockTransaction
	consumptions []*entity.ConsumptionRecord
}

func newState() *state {
	return &state{
		items:  map[string]*entity.InventoryItem{},
		orders: map[string]*entity.Order{},
	}
}

func (st *state) clone() *state {
	out := &state{
		items:        make(map[string]*entity.InventoryItem, len(st.items)),
		bom:          make([]*entity.BOMItem, 0, len(st.bom)),
		orders:       make(map[string]*entity.Order, len(st.orders)),
		transactions: append([]*entity.StockTransaction(nil), st.transactions...),
		consumptions: append([]*entity.ConsumptionRecord(nil), st.consumptions...),
	}
	for id, it := range st.items {
		out.items[id] = cloneItem(it)
	}
	for _, r := range st.bom {
		out.bom = append(out.bom, cloneBOM(r))
	}
	for id, o := range st.orders {
		out.orders[id] = cloneOrder(o)
	}
	return out
}

// Store almacén en memoria para desarrollo y tests. Implementa ports.TxRunner:
// una transacción a la vez, sobre una copia del estado que solo se publica si fn no falla.
type Store struct {
	mu    sync.RWMutex
	state *state
}

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{state: newState()}
}

// Run ejecuta fn con repos atados a una copia del estado; si fn devuelve error la copia se descarta.
func (s *Store) Run(ctx context.Context, fn func(r ports.Repos) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	tx := s.state.clone()
	if err := fn(s.repos(tx)); err != nil {
		return err
	}
	s.state = tx
	return nil
}

// Repos repositorios fuera de transacción; cada llamada es atómica por sí sola.
func (s *Store) Repos() ports.Repos {
	return s.repos(nil)
}

func (s *Store) repos(tx *state) ports.Repos {
	return ports.Repos{
		Items:        &ItemRepository{store: s, tx: tx},
		BOM:          &BOMRepository{store: s, tx: tx},
		Orders:       &OrderRepository{store: s, tx: tx},
		Transactions: &StockTransactionRepository{store: s, tx: tx},
		Consumptions: &ConsumptionRepository{store: s, tx: tx},
	}
}

// read ejecuta fn sobre el estado de la tx o, fuera de ella, bajo bloqueo de lectura.
func (s *Store) read(tx *state, fn func(st *state)) {
	if tx != nil {
		fn(tx)
		return
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	fn(s.state)
}

func (s *Store) write(tx *state, fn func(st *state) error) error {
	if tx != nil {
		return fn(tx)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.state)
}

func cloneItem(it *entity.InventoryItem) *entity.InventoryItem {
	if it == nil {
		return nil
	}
	c := *it
	return &c
}

func cloneBOM(r *entity.BOMItem) *entity.BOMItem {
	c := *r
	return &c
}

func cloneOrder(o *entity.Order) *entity.Order {
	if o == nil {
		return nil
	}
	c := *o
	c.ProcessedAt = clonePtr(o.ProcessedAt)
	c.ShippedAt = clonePtr(o.ShippedAt)
	c.ReceivedAt = clonePtr(o.ReceivedAt)
	if o.ShippedQuantity != nil {
		q := *o.ShippedQuantity
		c.ShippedQuantity = &q
	}
	return &c
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
