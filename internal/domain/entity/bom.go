package entity

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/branch-fulfillment-api/internal/domain"
)

// BOMItem es una fila de la lista de materiales: unidades de MaterialItemID
// consumidas por cada unidad de FinishedItemID.
type BOMItem struct {
	ID             string
	FinishedItemID string
	MaterialItemID string
	Quantity       decimal.Decimal
}

// NewBOMItem valida y construye una fila de BOM.
func NewBOMItem(finishedItemID, materialItemID string, quantity decimal.Decimal) (*BOMItem, error) {
	if finishedItemID == "" {
		return nil, domain.NewValidationError("finished_item_id", "es requerido")
	}
	if materialItemID == "" {
		return nil, domain.NewValidationError("material_item_id", "es requerido")
	}
	if finishedItemID == materialItemID {
		return nil, domain.NewValidationError("material_item_id", "no puede ser el mismo producto terminado")
	}
	if !quantity.IsPositive() {
		return nil, domain.NewValidationError("quantity", "debe ser mayor que cero")
	}
	return &BOMItem{
		ID:             uuid.New().String(),
		FinishedItemID: finishedItemID,
		MaterialItemID: materialItemID,
		Quantity:       quantity,
	}, nil
}

// MaterialRequirement cantidad total de un material para una orden de producción.
type MaterialRequirement struct {
	MaterialItemID string
	Quantity       decimal.Decimal
}

// ExpandBOM multiplica las filas por quantity. Filas repetidas del mismo material se suman
// y el resultado conserva el orden de primera aparición.
func ExpandBOM(rows []*BOMItem, quantity decimal.Decimal) []MaterialRequirement {
	out := make([]MaterialRequirement, 0, len(rows))
	idx := make(map[string]int, len(rows))
	for _, row := range rows {
		req := row.Quantity.Mul(quantity)
		if i, ok := idx[row.MaterialItemID]; ok {
			out[i].Quantity = out[i].Quantity.Add(req)
			continue
		}
		idx[row.MaterialItemID] = len(out)
		out = append(out, MaterialRequirement{MaterialItemID: row.MaterialItemID, Quantity: req})
	}
	return out
}
