package dto

import "github.com/shopspring/decimal"

// BOMRowRequest fila de BOM en PUT /api/bom/:finishedItemId.
type BOMRowRequest struct {
	MaterialItemID string          `json:"material_item_id"`
	Quantity       decimal.Decimal `json:"quantity"`
}

// ReplaceBOMRequest body para reemplazar la BOM completa de un producto terminado.
type ReplaceBOMRequest struct {
	Rows []BOMRowRequest `json:"rows" validate:"dive"`
}

// BOMRowResponse fila de BOM con datos del material.
type BOMRowResponse struct {
	ID             string          `json:"id"`
	MaterialItemID string          `json:"material_item_id"`
	MaterialName   string          `json:"material_name"`
	Unit           string          `json:"unit"`
	Quantity       decimal.Decimal `json:"quantity"`
}

// BOMResponse BOM de un producto terminado. Warning avisa que despachar no descontará materiales.
type BOMResponse struct {
	FinishedItemID string           `json:"finished_item_id"`
	Rows           []BOMRowResponse `json:"rows"`
	Warning        string           `json:"warning,omitempty"`
}
