package dto

import "github.com/shopspring/decimal"

// MaterialConsumptionDTO consumo calculado de un material.
type MaterialConsumptionDTO struct {
	MaterialItemID    string          `json:"material_item_id"`
	MaterialName      string          `json:"material_name"`
	Unit              string          `json:"unit"`
	RequiredQuantity  decimal.Decimal `json:"required_quantity"`
	AvailableQuantity decimal.Decimal `json:"available_quantity"`
	Shortage          decimal.Decimal `json:"shortage"`
	IsShortage        bool            `json:"is_shortage"`
}

// ConsumptionReportDTO respuesta de GET /api/consumption/calculate.
type ConsumptionReportDTO struct {
	FinishedItemID string                   `json:"finished_item_id"`
	Quantity       decimal.Decimal          `json:"quantity"`
	HasBOM         bool                     `json:"has_bom"`
	HasShortage    bool                     `json:"has_shortage"`
	Materials      []MaterialConsumptionDTO `json:"materials"`
	Warning        string                   `json:"warning,omitempty"`
}

// MaterialShortageDTO fila de la agregación global de pedidos pendientes.
type MaterialShortageDTO struct {
	MaterialConsumptionDTO
	OrderCount int `json:"order_count"`
}

// BranchShortageDTO faltantes de una sucursal.
type BranchShortageDTO struct {
	BranchName         string                   `json:"branch_name"`
	Shortages          []MaterialConsumptionDTO `json:"shortages"`
	Orders             []OrderResponse          `json:"orders"`
	TotalShortageCount int                      `json:"total_shortage_count"`
}

// StockDeficiencyDTO detalle de un faltante en errores de stock insuficiente.
type StockDeficiencyDTO struct {
	ItemID    string          `json:"item_id"`
	ItemName  string          `json:"item_name"`
	ItemType  string          `json:"item_type"`
	Unit      string          `json:"unit,omitempty"`
	Required  decimal.Decimal `json:"required"`
	Available decimal.Decimal `json:"available"`
	Shortfall decimal.Decimal `json:"shortfall"`
}
