package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateOrderRequest body para POST /api/orders. BranchName vacío toma la sucursal del token.
type CreateOrderRequest struct {
	BranchName     string          `json:"branch_name" validate:"max=120"`
	FinishedItemID string          `json:"finished_item_id" validate:"required"`
	Quantity       decimal.Decimal `json:"quantity"`
	Notes          string          `json:"notes" validate:"max=1000"`
}

// CreateOrderResponse pedido creado más el cálculo de consumo (aviso de faltantes, no bloquea).
type CreateOrderResponse struct {
	Order       OrderResponse        `json:"order"`
	Consumption ConsumptionReportDTO `json:"consumption"`
}

// ProcessOrdersRequest body para POST /api/orders/process.
type ProcessOrdersRequest struct {
	OrderIDs []string `json:"order_ids" validate:"required,min=1,dive,required"`
}

// RejectOrderRequest body para POST /api/orders/:id/reject.
type RejectOrderRequest struct {
	Reason string `json:"reason" validate:"required,max=1000"`
}

// ShipOrderRequest body para POST /api/orders/:id/ship.
type ShipOrderRequest struct {
	ShippedQuantity decimal.Decimal `json:"shipped_quantity"`
}

// ShipOrderResponse resultado del despacho.
type ShipOrderResponse struct {
	OperationID  string                      `json:"operation_id"`
	Order        OrderResponse               `json:"order"`
	HasBOM       bool                        `json:"has_bom"`
	Transactions []StockTransactionResponse  `json:"transactions"`
	Consumptions []ConsumptionRecordResponse `json:"consumptions"`
	Warning      string                      `json:"warning,omitempty"`
}

// OrderResponse salida de un pedido.
type OrderResponse struct {
	ID              string           `json:"id"`
	BranchName      string           `json:"branch_name"`
	FinishedItemID  string           `json:"finished_item_id"`
	Quantity        decimal.Decimal  `json:"quantity"`
	OrderDate       time.Time        `json:"order_date"`
	Status          string           `json:"status"`
	ProcessedAt     *time.Time       `json:"processed_at,omitempty"`
	ProcessedBy     string           `json:"processed_by,omitempty"`
	ShippedAt       *time.Time       `json:"shipped_at,omitempty"`
	ShippedBy       string           `json:"shipped_by,omitempty"`
	ShippedQuantity *decimal.Decimal `json:"shipped_quantity,omitempty"`
	ReceivedAt      *time.Time       `json:"received_at,omitempty"`
	ReceivedBy      string           `json:"received_by,omitempty"`
	Notes           string           `json:"notes,omitempty"`
}

// OrderListResponse lista de pedidos.
type OrderListResponse struct {
	Items []OrderResponse `json:"items"`
	Total int             `json:"total"`
}
