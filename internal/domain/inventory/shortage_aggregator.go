package inventory

import (
	"sort"

	"github.com/shopspring/decimal"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/jhoicas/branch-fulfillment-api/internal/domain/entity"
)

// materialFold acumula demanda por material; el faltante se recalcula al final
// contra una sola foto del stock actual (no se descuenta pedido a pedido).
type materialFold struct {
	order  []string
	demand map[string]decimal.Decimal
	orders map[string]int
}

func newMaterialFold() *materialFold {
	return &materialFold{demand: map[string]decimal.Decimal{}, orders: map[string]int{}}
}

func (f *materialFold) add(reqs []entity.MaterialRequirement) {
	for _, r := range reqs {
		cur, ok := f.demand[r.MaterialItemID]
		if !ok {
			f.order = append(f.order, r.MaterialItemID)
			cur = decimal.Zero
		}
		f.demand[r.MaterialItemID] = cur.Add(r.Quantity)
		f.orders[r.MaterialItemID]++
	}
}

func (f *materialFold) result(lookup StockLookup) []entity.MaterialShortage {
	out := make([]entity.MaterialShortage, 0, len(f.order))
	for _, id := range f.order {
		out = append(out, entity.MaterialShortage{
			MaterialConsumption: NewMaterialConsumption(id, lookup(id), f.demand[id]),
			OrderCount:          f.orders[id],
		})
	}
	return out
}

// AggregateMaterials suma la demanda de todos los pedidos pending por material.
// Responde "¿el stock actual alcanza para toda la demanda pendiente junta?".
// Pedidos en otros estados se ignoran. Orden: mayor faltante primero, luego nombre.
func AggregateMaterials(orders []*entity.Order, bomByItem map[string][]*entity.BOMItem, lookup StockLookup) []entity.MaterialShortage {
	fold := newMaterialFold()
	for _, o := range orders {
		if o.Status != entity.OrderStatusPending {
			continue
		}
		fold.add(entity.ExpandBOM(bomByItem[o.FinishedItemID], o.Quantity))
	}
	out := fold.result(lookup)
	less := shortageLess()
	sort.SliceStable(out, func(i, j int) bool {
		return less(out[i].MaterialConsumption, out[j].MaterialConsumption)
	})
	return out
}

// AggregateByBranch agrupa los pedidos pending por sucursal y pliega cada grupo por separado:
// la demanda de una sucursal no cuenta contra el faltante de otra aunque compartan material.
// Solo se conservan materiales en faltante y se omiten sucursales sin faltantes.
func AggregateByBranch(orders []*entity.Order, bomByItem map[string][]*entity.BOMItem, lookup StockLookup) []entity.BranchShortage {
	var branches []string
	folds := map[string]*materialFold{}
	branchOrders := map[string][]*entity.Order{}
	for _, o := range orders {
		if o.Status != entity.OrderStatusPending {
			continue
		}
		f, ok := folds[o.BranchName]
		if !ok {
			f = newMaterialFold()
			folds[o.BranchName] = f
			branches = append(branches, o.BranchName)
		}
		f.add(entity.ExpandBOM(bomByItem[o.FinishedItemID], o.Quantity))
		branchOrders[o.BranchName] = append(branchOrders[o.BranchName], o)
	}

	out := make([]entity.BranchShortage, 0, len(branches))
	for _, b := range branches {
		var shortages []entity.MaterialConsumption
		for _, ms := range folds[b].result(lookup) {
			if ms.IsShortage {
				shortages = append(shortages, ms.MaterialConsumption)
			}
		}
		if len(shortages) == 0 {
			continue
		}
		less := shortageLess()
		sort.SliceStable(shortages, func(i, j int) bool { return less(shortages[i], shortages[j]) })
		out = append(out, entity.BranchShortage{
			BranchName:         b,
			Shortages:          shortages,
			Orders:             branchOrders[b],
			TotalShortageCount: len(shortages),
		})
	}

	col := newCollator()
	sort.SliceStable(out, func(i, j int) bool {
		return col.CompareString(out[i].BranchName, out[j].BranchName) < 0
	})
	return out
}

func newCollator() *collate.Collator {
	return collate.New(language.Spanish, collate.IgnoreCase)
}

// shortageLess ordena por faltante descendente y luego por nombre de material (collation española).
func shortageLess() func(a, b entity.MaterialConsumption) bool {
	col := newCollator()
	return func(a, b entity.MaterialConsumption) bool {
		if !a.Shortage.Equal(b.Shortage) {
			return a.Shortage.GreaterThan(b.Shortage)
		}
		return col.CompareString(a.MaterialName, b.MaterialName) < 0
	}
}
