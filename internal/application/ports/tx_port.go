package ports

import (
	"context"
	"sort"

	"github.com/jhoicas/branch-fulfillment-api/internal/domain/repository"
)

// Repos repositorios atados a una misma transacción.
type Repos struct {
	Items        repository.ItemRepository
	BOM          repository.BOMRepository
	Orders       repository.OrderRepository
	Transactions repository.StockTransactionRepository
	Consumptions repository.ConsumptionRepository
}

// TxRunner ejecuta fn dentro de una transacción: Commit si fn devuelve nil, Rollback si no.
// Es el límite de atomicidad del despacho: o se aplican todos los descuentos y registros o ninguno.
type TxRunner interface {
	Run(ctx context.Context, fn func(r Repos) error) error
}

// KeyLocker serializa escrituras por clave (ítem, pedido, BOM) entre llamadas concurrentes.
// Lock bloquea hasta obtener todas las claves o hasta que ctx expire; release libera todas.
type KeyLocker interface {
	Lock(ctx context.Context, keys ...string) (release func(), err error)
}

// Prefijos de clave para KeyLocker.
const (
	LockPrefixItem  = "item:"
	LockPrefixOrder = "order:"
	LockPrefixBOM   = "bom:"
)

// NormalizeKeys deduplica y ordena las claves; adquirir siempre en el mismo orden evita interbloqueos.
func NormalizeKeys(keys []string) []string {
	seen := make(map[string]struct{}, len(keys))
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		if k == "" {
			continue
		}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
