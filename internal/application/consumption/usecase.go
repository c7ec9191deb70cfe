package consumption

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/branch-fulfillment-api/internal/domain"
	"github.com/jhoicas/branch-fulfillment-api/internal/domain/entity"
	"github.com/jhoicas/branch-fulfillment-api/internal/domain/inventory"
	"github.com/jhoicas/branch-fulfillment-api/internal/domain/repository"
)

// UseCase cálculos de consumo y faltantes. Solo lectura: nunca modifica stock.
type UseCase struct {
	itemRepo  repository.ItemRepository
	bomRepo   repository.BOMRepository
	orderRepo repository.OrderRepository
}

// NewUseCase construye el caso de uso.
func NewUseCase(itemRepo repository.ItemRepository, bomRepo repository.BOMRepository, orderRepo repository.OrderRepository) *UseCase {
	return &UseCase{itemRepo: itemRepo, bomRepo: bomRepo, orderRepo: orderRepo}
}

// CalculateConsumption materiales necesarios para producir quantity unidades del producto.
// quantity = 0 devuelve requeridos en cero; negativa es un error de validación.
func (uc *UseCase) CalculateConsumption(ctx context.Context, finishedItemID string, quantity decimal.Decimal) (*inventory.ConsumptionReport, error) {
	if finishedItemID == "" {
		return nil, domain.NewValidationError("finished_item_id", "es requerido")
	}
	if quantity.IsNegative() {
		return nil, domain.NewValidationError("quantity", "no puede ser negativa")
	}
	finished, err := uc.itemRepo.GetByID(ctx, finishedItemID)
	if err != nil {
		return nil, domain.AsPersistence("obtener producto terminado", err)
	}
	if finished == nil {
		return nil, domain.NewNotFoundError("producto terminado", finishedItemID)
	}
	rows, err := uc.bomRepo.ListByFinishedItem(ctx, finishedItemID)
	if err != nil {
		return nil, domain.AsPersistence("obtener BOM", err)
	}
	lookup, err := uc.stockSnapshot(ctx, materialIDs(rows))
	if err != nil {
		return nil, err
	}
	return &inventory.ConsumptionReport{
		FinishedItemID: finishedItemID,
		Quantity:       quantity,
		HasBOM:         len(rows) > 0,
		Materials:      inventory.CalculateConsumption(rows, quantity, lookup),
	}, nil
}

// CalculateAllPendingConsumption demanda total de materiales de los pedidos pending contra el stock actual.
func (uc *UseCase) CalculateAllPendingConsumption(ctx context.Context) ([]entity.MaterialShortage, error) {
	orders, bomByItem, lookup, err := uc.pendingInputs(ctx)
	if err != nil {
		return nil, err
	}
	return inventory.AggregateMaterials(orders, bomByItem, lookup), nil
}

// CalculateBranchShortages faltantes por sucursal, cada una evaluada por separado contra el stock completo.
func (uc *UseCase) CalculateBranchShortages(ctx context.Context) ([]entity.BranchShortage, error) {
	orders, bomByItem, lookup, err := uc.pendingInputs(ctx)
	if err != nil {
		return nil, err
	}
	return inventory.AggregateByBranch(orders, bomByItem, lookup), nil
}

func (uc *UseCase) pendingInputs(ctx context.Context) ([]*entity.Order, map[string][]*entity.BOMItem, inventory.StockLookup, error) {
	orders, err := uc.orderRepo.List(ctx, repository.OrderFilter{Status: entity.OrderStatusPending})
	if err != nil {
		return nil, nil, nil, domain.AsPersistence("listar pedidos pendientes", err)
	}
	all, err := uc.bomRepo.ListAll(ctx)
	if err != nil {
		return nil, nil, nil, domain.AsPersistence("listar BOMs", err)
	}
	bomByItem := make(map[string][]*entity.BOMItem)
	for _, r := range all {
		bomByItem[r.FinishedItemID] = append(bomByItem[r.FinishedItemID], r)
	}
	lookup, err := uc.stockSnapshot(ctx, materialIDs(all))
	if err != nil {
		return nil, nil, nil, err
	}
	return orders, bomByItem, lookup, nil
}

// stockSnapshot una sola lectura de stock para todo el cálculo.
func (uc *UseCase) stockSnapshot(ctx context.Context, ids []string) (inventory.StockLookup, error) {
	byID := make(map[string]*entity.InventoryItem, len(ids))
	if len(ids) > 0 {
		items, err := uc.itemRepo.List(ctx, repository.ItemFilter{IDs: ids})
		if err != nil {
			return nil, domain.AsPersistence("listar materiales", err)
		}
		for _, it := range items {
			byID[it.ID] = it
		}
	}
	return func(id string) *entity.InventoryItem { return byID[id] }, nil
}

func materialIDs(rows []*entity.BOMItem) []string {
	seen := make(map[string]struct{}, len(rows))
	out := make([]string, 0, len(rows))
	for _, r := range rows {
		if _, ok := seen[r.MaterialItemID]; ok {
			continue
		}
		seen[r.MaterialItemID] = struct{}{}
		out = append(out, r.MaterialItemID)
	}
	return out
}
