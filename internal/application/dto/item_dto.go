package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateItemRequest body para POST /api/items.
type CreateItemRequest struct {
	Name        string          `json:"name" validate:"required,min=1,max=200"`
	Category    string          `json:"category" validate:"max=100"`
	Type        string          `json:"type" validate:"required,oneof=finished material"`
	BranchName  string          `json:"branch_name,omitempty"`
	Quantity    decimal.Decimal `json:"quantity"`
	MinQuantity decimal.Decimal `json:"min_quantity"`
	MaxQuantity decimal.Decimal `json:"max_quantity"`
	Unit        string          `json:"unit"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Location    string          `json:"location"`
	Description string          `json:"description"`
}

// ItemResponse salida de un ítem de inventario.
type ItemResponse struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Category    string          `json:"category"`
	Type        string          `json:"type"`
	BranchName  string          `json:"branch_name,omitempty"`
	Quantity    decimal.Decimal `json:"quantity"`
	MinQuantity decimal.Decimal `json:"min_quantity"`
	MaxQuantity decimal.Decimal `json:"max_quantity"`
	Unit        string          `json:"unit"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Location    string          `json:"location"`
	Description string          `json:"description"`
	LowStock    bool            `json:"low_stock"`
	Full        bool            `json:"full"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// ItemListResponse lista de ítems.
type ItemListResponse struct {
	Items []ItemResponse `json:"items"`
	Total int            `json:"total"`
}

// RegisterMovementRequest body para POST /api/items/:id/movements.
type RegisterMovementRequest struct {
	Direction string           `json:"direction" validate:"required,oneof=in out"`
	Quantity  decimal.Decimal  `json:"quantity"`
	UnitPrice *decimal.Decimal `json:"unit_price,omitempty"`
	Reason    string           `json:"reason" validate:"max=300"`
}

// StockTransactionResponse registro del Transaction Log.
type StockTransactionResponse struct {
	ID          string          `json:"id"`
	OperationID string          `json:"operation_id"`
	ItemID      string          `json:"item_id"`
	Direction   string          `json:"direction"`
	Quantity    decimal.Decimal `json:"quantity"`
	Reason      string          `json:"reason"`
	OrderID     string          `json:"order_id,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	CreatedBy   string          `json:"created_by"`
}

// ConsumptionRecordResponse registro del Consumption Log con el producto terminado resuelto.
type ConsumptionRecordResponse struct {
	ID             string          `json:"id"`
	OrderID        string          `json:"order_id"`
	ItemID         string          `json:"item_id"`
	ItemType       string          `json:"item_type"`
	Quantity       decimal.Decimal `json:"quantity"`
	BranchName     string          `json:"branch_name"`
	OrderDate      time.Time       `json:"order_date"`
	ProcessedAt    time.Time       `json:"processed_at"`
	ProcessedBy    string          `json:"processed_by"`
	FinishedItemID string          `json:"finished_item_id,omitempty"`
}

// ReplenishmentSuggestionDTO sugerencia de reposición.
type ReplenishmentSuggestionDTO struct {
	Item          ItemResponse    `json:"item"`
	PendingDemand decimal.Decimal `json:"pending_demand"`
	TargetStock   decimal.Decimal `json:"target_stock"`
	SuggestedQty  decimal.Decimal `json:"suggested_qty"`
	EstimatedCost decimal.Decimal `json:"estimated_cost"`
	Priority      int             `json:"priority"`
}
