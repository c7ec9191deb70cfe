package inventory

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/jhoicas/branch-fulfillment-api/internal/domain"
	"github.com/jhoicas/branch-fulfillment-api/internal/domain/entity"
	"github.com/jhoicas/branch-fulfillment-api/internal/domain/inventory"
	"github.com/jhoicas/branch-fulfillment-api/internal/domain/repository"
)

// ReplenishmentSuggestion ítem a reponer con la cantidad sugerida.
type ReplenishmentSuggestion struct {
	Item          *entity.InventoryItem
	PendingDemand decimal.Decimal // materiales requeridos por pedidos pending
	TargetStock   decimal.Decimal
	SuggestedQty  decimal.Decimal
	EstimatedCost decimal.Decimal
	Priority      int
}

// ReplenishmentUseCase genera la lista de reposición: ítems en stock bajo o que no alcanzan
// para la demanda pendiente de las sucursales.
type ReplenishmentUseCase struct {
	itemRepo  repository.ItemRepository
	bomRepo   repository.BOMRepository
	orderRepo repository.OrderRepository
}

// NewReplenishmentUseCase construye el caso de uso de reposición.
func NewReplenishmentUseCase(
	itemRepo repository.ItemRepository,
	bomRepo repository.BOMRepository,
	orderRepo repository.OrderRepository,
) *ReplenishmentUseCase {
	return &ReplenishmentUseCase{itemRepo: itemRepo, bomRepo: bomRepo, orderRepo: orderRepo}
}

// GenerateReplenishmentList sugerencias ordenadas por urgencia (1 = más urgente).
// Objetivo de stock: MaxQuantity si está definido, si no 1.5 × MinQuantity; a eso se suma la demanda pendiente.
func (uc *ReplenishmentUseCase) GenerateReplenishmentList(ctx context.Context, itemType entity.ItemType) ([]ReplenishmentSuggestion, error) {
	items, err := uc.itemRepo.List(ctx, repository.ItemFilter{Type: itemType})
	if err != nil {
		return nil, domain.AsPersistence("listar ítems", err)
	}
	orders, err := uc.orderRepo.List(ctx, repository.OrderFilter{Status: entity.OrderStatusPending})
	if err != nil {
		return nil, domain.AsPersistence("listar pedidos pendientes", err)
	}
	all, err := uc.bomRepo.ListAll(ctx)
	if err != nil {
		return nil, domain.AsPersistence("listar BOMs", err)
	}

	byID := make(map[string]*entity.InventoryItem, len(items))
	for _, it := range items {
		byID[it.ID] = it
	}
	bomByItem := make(map[string][]*entity.BOMItem)
	for _, r := range all {
		bomByItem[r.FinishedItemID] = append(bomByItem[r.FinishedItemID], r)
	}
	demand := make(map[string]decimal.Decimal)
	for _, m := range inventory.AggregateMaterials(orders, bomByItem, func(id string) *entity.InventoryItem { return byID[id] }) {
		demand[m.MaterialItemID] = m.RequiredQuantity
	}
	// El producto terminado también tiene demanda directa: lo que piden las sucursales.
	for _, o := range orders {
		demand[o.FinishedItemID] = demand[o.FinishedItemID].Add(o.Quantity)
	}

	onePointFive := decimal.RequireFromString("1.5")
	out := make([]ReplenishmentSuggestion, 0)
	for _, it := range items {
		pending := demand[it.ID]
		short := pending.GreaterThan(it.Quantity)
		if !it.IsLowStock() && !short {
			continue
		}
		target := it.MaxQuantity
		if !target.IsPositive() {
			target = it.MinQuantity.Mul(onePointFive)
		}
		suggested := decimal.Max(decimal.Zero, target.Add(pending).Sub(it.Quantity))
		out = append(out, ReplenishmentSuggestion{
			Item:          it,
			PendingDemand: pending,
			TargetStock:   target,
			SuggestedQty:  suggested,
			EstimatedCost: suggested.Mul(it.UnitPrice),
		})
	}

	// Primero el mayor faltante contra la demanda pendiente, luego el mayor déficit bajo el mínimo.
	col := collate.New(language.Spanish, collate.IgnoreCase)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		shA := decimal.Max(decimal.Zero, a.PendingDemand.Sub(a.Item.Quantity))
		shB := decimal.Max(decimal.Zero, b.PendingDemand.Sub(b.Item.Quantity))
		if !shA.Equal(shB) {
			return shA.GreaterThan(shB)
		}
		defA := a.Item.MinQuantity.Sub(a.Item.Quantity)
		defB := b.Item.MinQuantity.Sub(b.Item.Quantity)
		if !defA.Equal(defB) {
			return defA.GreaterThan(defB)
		}
		return col.CompareString(a.Item.Name, b.Item.Name) < 0
	})
	for i := range out {
		out[i].Priority = i + 1
	}
	return out, nil
}
