package inventory

import (
	"context"
	"time"

	"github.com/jhoicas/branch-fulfillment-api/internal/domain"
	"github.com/jhoicas/branch-fulfillment-api/internal/domain/entity"
	"github.com/jhoicas/branch-fulfillment-api/internal/domain/repository"
)

// HistoryUseCase consultas de solo lectura sobre el Transaction Log y el Consumption Log.
type HistoryUseCase struct {
	itemRepo        repository.ItemRepository
	orderRepo       repository.OrderRepository
	transactionRepo repository.StockTransactionRepository
	consumptionRepo repository.ConsumptionRepository
}

// NewHistoryUseCase construye el caso de uso.
func NewHistoryUseCase(
	itemRepo repository.ItemRepository,
	orderRepo repository.OrderRepository,
	transactionRepo repository.StockTransactionRepository,
	consumptionRepo repository.ConsumptionRepository,
) *HistoryUseCase {
	return &HistoryUseCase{
		itemRepo:        itemRepo,
		orderRepo:       orderRepo,
		transactionRepo: transactionRepo,
		consumptionRepo: consumptionRepo,
	}
}

// ConsumptionEntry registro de consumo con el producto terminado ya resuelto.
type ConsumptionEntry struct {
	Record         *entity.ConsumptionRecord
	FinishedItemID string
}

// ListTransactions movimientos de un ítem, más recientes primero.
func (uc *HistoryUseCase) ListTransactions(ctx context.Context, itemID string, from, to *time.Time, limit, offset int) ([]*entity.StockTransaction, error) {
	if err := uc.ensureItem(ctx, itemID); err != nil {
		return nil, err
	}
	list, err := uc.transactionRepo.ListByItem(ctx, itemID, from, to, limit, offset)
	if err != nil {
		return nil, domain.AsPersistence("listar movimientos", err)
	}
	return list, nil
}

// ListConsumptions consumos de un ítem en el rango, con el producto terminado resuelto en filas de material.
func (uc *HistoryUseCase) ListConsumptions(ctx context.Context, itemID string, from, to *time.Time) ([]ConsumptionEntry, error) {
	if err := uc.ensureItem(ctx, itemID); err != nil {
		return nil, err
	}
	records, err := uc.consumptionRepo.ListByItem(ctx, itemID, from, to)
	if err != nil {
		return nil, domain.AsPersistence("listar consumos", err)
	}
	orders := map[string]*entity.Order{}
	out := make([]ConsumptionEntry, 0, len(records))
	for _, rec := range records {
		finishedID, err := uc.resolveFinishedItem(ctx, rec, orders)
		if err != nil {
			return nil, err
		}
		out = append(out, ConsumptionEntry{Record: rec, FinishedItemID: finishedID})
	}
	return out, nil
}

// ResolveFinishedItem responde "qué producto terminado consumió este material".
// Paso 1: FinishedItemID del registro, autoritativo cuando existe.
// Paso 2: registros antiguos sin ese campo se resuelven por el pedido referenciado.
// Devuelve "" si el pedido ya no existe.
func (uc *HistoryUseCase) ResolveFinishedItem(ctx context.Context, rec *entity.ConsumptionRecord) (string, error) {
	return uc.resolveFinishedItem(ctx, rec, map[string]*entity.Order{})
}

func (uc *HistoryUseCase) resolveFinishedItem(ctx context.Context, rec *entity.ConsumptionRecord, cache map[string]*entity.Order) (string, error) {
	if rec.FinishedItemID != "" {
		return rec.FinishedItemID, nil
	}
	if rec.ItemType == entity.ItemTypeFinished {
		return rec.ItemID, nil
	}
	order, ok := cache[rec.OrderID]
	if !ok {
		var err error
		order, err = uc.orderRepo.GetByID(ctx, rec.OrderID)
		if err != nil {
			return "", domain.AsPersistence("obtener pedido", err)
		}
		cache[rec.OrderID] = order
	}
	if order == nil {
		return "", nil
	}
	return order.FinishedItemID, nil
}

func (uc *HistoryUseCase) ensureItem(ctx context.Context, itemID string) error {
	item, err := uc.itemRepo.GetByID(ctx, itemID)
	if err != nil {
		return domain.AsPersistence("obtener ítem", err)
	}
	if item == nil {
		return domain.NewNotFoundError("ítem", itemID)
	}
	return nil
}
