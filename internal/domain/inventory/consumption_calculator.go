package inventory

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/branch-fulfillment-api/internal/domain/entity"
)

// StockLookup devuelve el ítem con su stock actual, o nil si no existe.
type StockLookup func(itemID string) *entity.InventoryItem

// ConsumptionReport consumo de materiales para producir Quantity unidades de FinishedItemID.
// HasBOM distingue "sin BOM configurada" de "BOM que no requiere material": ambos dan Materials vacío.
type ConsumptionReport struct {
	FinishedItemID string
	Quantity       decimal.Decimal
	HasBOM         bool
	Materials      []entity.MaterialConsumption
}

// HasShortage indica si algún material queda en faltante.
func (r *ConsumptionReport) HasShortage() bool {
	for _, m := range r.Materials {
		if m.IsShortage {
			return true
		}
	}
	return false
}

// CalculateConsumption multiplica la BOM por quantity y compara contra el stock actual.
// Función pura: no modifica nada y se puede llamar en cada pulsación del formulario.
func CalculateConsumption(rows []*entity.BOMItem, quantity decimal.Decimal, lookup StockLookup) []entity.MaterialConsumption {
	reqs := entity.ExpandBOM(rows, quantity)
	out := make([]entity.MaterialConsumption, 0, len(reqs))
	for _, req := range reqs {
		out = append(out, NewMaterialConsumption(req.MaterialItemID, lookup(req.MaterialItemID), req.Quantity))
	}
	return out
}

// NewMaterialConsumption arma la fila con shortage = max(0, required - available).
// Un material inexistente cuenta con disponible 0.
func NewMaterialConsumption(materialID string, material *entity.InventoryItem, required decimal.Decimal) entity.MaterialConsumption {
	mc := entity.MaterialConsumption{
		MaterialItemID:    materialID,
		MaterialName:      materialID,
		RequiredQuantity:  required,
		AvailableQuantity: decimal.Zero,
	}
	if material != nil {
		mc.MaterialName = material.Name
		mc.Unit = material.Unit
		mc.AvailableQuantity = material.Quantity
	}
	mc.Shortage = decimal.Max(decimal.Zero, required.Sub(mc.AvailableQuantity))
	mc.IsShortage = mc.Shortage.IsPositive()
	return mc
}
