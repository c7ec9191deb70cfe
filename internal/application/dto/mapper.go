package dto

import (
	"github.com/jhoicas/branch-fulfillment-api/internal/domain"
	"github.com/jhoicas/branch-fulfillment-api/internal/domain/entity"
)

// ToItemResponse convierte un ítem a su DTO.
func ToItemResponse(i *entity.InventoryItem) ItemResponse {
	return ItemResponse{
		ID:          i.ID,
		Name:        i.Name,
		Category:    i.Category,
		Type:        string(i.Type),
		BranchName:  i.BranchName,
		Quantity:    i.Quantity,
		MinQuantity: i.MinQuantity,
		MaxQuantity: i.MaxQuantity,
		Unit:        i.Unit,
		UnitPrice:   i.UnitPrice,
		Location:    i.Location,
		Description: i.Description,
		LowStock:    i.IsLowStock(),
		Full:        i.IsFull(),
		CreatedAt:   i.CreatedAt,
		UpdatedAt:   i.UpdatedAt,
	}
}

// ToOrderResponse convierte un pedido a su DTO.
func ToOrderResponse(o *entity.Order) OrderResponse {
	return OrderResponse{
		ID:              o.ID,
		BranchName:      o.BranchName,
		FinishedItemID:  o.FinishedItemID,
		Quantity:        o.Quantity,
		OrderDate:       o.OrderDate,
		Status:          string(o.Status),
		ProcessedAt:     o.ProcessedAt,
		ProcessedBy:     o.ProcessedBy,
		ShippedAt:       o.ShippedAt,
		ShippedBy:       o.ShippedBy,
		ShippedQuantity: o.ShippedQuantity,
		ReceivedAt:      o.ReceivedAt,
		ReceivedBy:      o.ReceivedBy,
		Notes:           o.Notes,
	}
}

// ToOrderList convierte una lista de pedidos.
func ToOrderList(list []*entity.Order) []OrderResponse {
	out := make([]OrderResponse, 0, len(list))
	for _, o := range list {
		out = append(out, ToOrderResponse(o))
	}
	return out
}

// ToMaterialConsumption convierte una fila de consumo.
func ToMaterialConsumption(m entity.MaterialConsumption) MaterialConsumptionDTO {
	return MaterialConsumptionDTO{
		MaterialItemID:    m.MaterialItemID,
		MaterialName:      m.MaterialName,
		Unit:              m.Unit,
		RequiredQuantity:  m.RequiredQuantity,
		AvailableQuantity: m.AvailableQuantity,
		Shortage:          m.Shortage,
		IsShortage:        m.IsShortage,
	}
}

// ToMaterialConsumptions convierte una lista de consumos (nunca nil para JSON).
func ToMaterialConsumptions(list []entity.MaterialConsumption) []MaterialConsumptionDTO {
	out := make([]MaterialConsumptionDTO, 0, len(list))
	for _, m := range list {
		out = append(out, ToMaterialConsumption(m))
	}
	return out
}

// ToStockTransaction convierte un movimiento.
func ToStockTransaction(t *entity.StockTransaction) StockTransactionResponse {
	return StockTransactionResponse{
		ID:          t.ID,
		OperationID: t.OperationID,
		ItemID:      t.ItemID,
		Direction:   string(t.Direction),
		Quantity:    t.Quantity,
		Reason:      t.Reason,
		OrderID:     t.OrderID,
		CreatedAt:   t.CreatedAt,
		CreatedBy:   t.CreatedBy,
	}
}

// ToConsumptionRecord convierte un registro de consumo; finishedItemID es el ya resuelto.
func ToConsumptionRecord(r *entity.ConsumptionRecord, finishedItemID string) ConsumptionRecordResponse {
	return ConsumptionRecordResponse{
		ID:             r.ID,
		OrderID:        r.OrderID,
		ItemID:         r.ItemID,
		ItemType:       string(r.ItemType),
		Quantity:       r.Quantity,
		BranchName:     r.BranchName,
		OrderDate:      r.OrderDate,
		ProcessedAt:    r.ProcessedAt,
		ProcessedBy:    r.ProcessedBy,
		FinishedItemID: finishedItemID,
	}
}

// ToDeficiencies convierte el detalle de un InsufficientStockError.
func ToDeficiencies(list []domain.StockDeficiency) []StockDeficiencyDTO {
	out := make([]StockDeficiencyDTO, 0, len(list))
	for _, d := range list {
		out = append(out, StockDeficiencyDTO{
			ItemID:    d.ItemID,
			ItemName:  d.ItemName,
			ItemType:  d.ItemType,
			Unit:      d.Unit,
			Required:  d.Required,
			Available: d.Available,
			Shortfall: d.Shortfall,
		})
	}
	return out
}
