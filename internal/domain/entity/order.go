package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/branch-fulfillment-api/internal/domain"
)

// OrderStatus estado del pedido de sucursal.
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipping   OrderStatus = "shipping"
	OrderStatusReceived   OrderStatus = "received"
	OrderStatusCompleted  OrderStatus = "completed"
	OrderStatusRejected   OrderStatus = "rejected"
)

// IsValid indica si el estado es conocido.
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusShipping,
		OrderStatusReceived, OrderStatusCompleted, OrderStatusRejected:
		return true
	}
	return false
}

// IsTerminal completed y rejected no admiten más transiciones.
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusCompleted || s == OrderStatusRejected
}

// CanTransitionTo tabla de transiciones válidas.
// pending → processing → shipping → received → completed; rejected desde pending o processing.
func (s OrderStatus) CanTransitionTo(target OrderStatus) bool {
	switch s {
	case OrderStatusPending:
		return target == OrderStatusProcessing || target == OrderStatusRejected
	case OrderStatusProcessing:
		return target == OrderStatusShipping || target == OrderStatusRejected
	case OrderStatusShipping:
		return target == OrderStatusReceived
	case OrderStatusReceived:
		return target == OrderStatusCompleted
	}
	return false
}

// Order pedido de una sucursal por N unidades de un producto terminado.
type Order struct {
	ID              string
	BranchName      string
	FinishedItemID  string
	Quantity        decimal.Decimal
	OrderDate       time.Time
	Status          OrderStatus
	ProcessedAt     *time.Time
	ProcessedBy     string
	ShippedAt       *time.Time
	ShippedBy       string
	ShippedQuantity *decimal.Decimal
	ReceivedAt      *time.Time
	ReceivedBy      string
	Notes           string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// NewOrder construye un pedido en estado pending.
func NewOrder(branchName, finishedItemID string, quantity decimal.Decimal, notes string, at time.Time) (*Order, error) {
	if strings.TrimSpace(branchName) == "" {
		return nil, domain.NewValidationError("branch_name", "es requerido")
	}
	if finishedItemID == "" {
		return nil, domain.NewValidationError("finished_item_id", "es requerido")
	}
	if !quantity.IsPositive() {
		return nil, domain.NewValidationError("quantity", "debe ser mayor que cero")
	}
	return &Order{
		ID:             uuid.New().String(),
		BranchName:     strings.TrimSpace(branchName),
		FinishedItemID: finishedItemID,
		Quantity:       quantity,
		OrderDate:      at,
		Status:         OrderStatusPending,
		Notes:          notes,
		CreatedAt:      at,
		UpdatedAt:      at,
	}, nil
}

func (o *Order) transition(to OrderStatus) error {
	if !o.Status.CanTransitionTo(to) {
		return &domain.InvalidTransitionError{OrderID: o.ID, From: string(o.Status), To: string(to)}
	}
	return nil
}

// StartProcessing pending → processing.
func (o *Order) StartProcessing(actor string, at time.Time) error {
	if err := o.transition(OrderStatusProcessing); err != nil {
		return err
	}
	o.Status = OrderStatusProcessing
	o.stampProcessed(actor, at)
	return nil
}

// Reject pending|processing → rejected. El motivo es obligatorio y queda en Notes.
func (o *Order) Reject(reason, actor string, at time.Time) error {
	if strings.TrimSpace(reason) == "" {
		return domain.NewValidationError("reason", "el motivo de rechazo es requerido")
	}
	if err := o.transition(OrderStatusRejected); err != nil {
		return err
	}
	o.Status = OrderStatusRejected
	o.Notes = strings.TrimSpace(reason)
	o.stampProcessed(actor, at)
	return nil
}

// MarkShipped processing → shipping. Solo valida el pedido; el movimiento de stock
// lo hace el motor de despacho en la misma transacción.
func (o *Order) MarkShipped(qty decimal.Decimal, actor string, at time.Time) error {
	if err := o.transition(OrderStatusShipping); err != nil {
		return err
	}
	if err := o.ValidateShipQuantity(qty); err != nil {
		return err
	}
	o.Status = OrderStatusShipping
	shipped := qty
	o.ShippedQuantity = &shipped
	o.ShippedAt = &at
	o.ShippedBy = actor
	o.stampProcessed(actor, at)
	return nil
}

// ValidateShipQuantity 0 < qty ≤ cantidad pedida (despacho parcial permitido, exceso no).
func (o *Order) ValidateShipQuantity(qty decimal.Decimal) error {
	if !qty.IsPositive() {
		return domain.NewValidationError("shipped_quantity", "debe ser mayor que cero")
	}
	if qty.GreaterThan(o.Quantity) {
		return domain.NewValidationError("shipped_quantity", "no puede superar la cantidad pedida ("+o.Quantity.String()+")")
	}
	return nil
}

// ConfirmReceipt shipping → received. Sin efecto de stock.
func (o *Order) ConfirmReceipt(actor string, at time.Time) error {
	if err := o.transition(OrderStatusReceived); err != nil {
		return err
	}
	o.Status = OrderStatusReceived
	o.ReceivedAt = &at
	o.ReceivedBy = actor
	o.UpdatedAt = at
	return nil
}

// Complete received → completed (cierre administrativo).
func (o *Order) Complete(actor string, at time.Time) error {
	if err := o.transition(OrderStatusCompleted); err != nil {
		return err
	}
	o.Status = OrderStatusCompleted
	o.stampProcessed(actor, at)
	return nil
}

// IsPartialShipment indica si se despachó menos de lo pedido.
func (o *Order) IsPartialShipment() bool {
	return o.ShippedQuantity != nil && o.ShippedQuantity.LessThan(o.Quantity)
}

func (o *Order) stampProcessed(actor string, at time.Time) {
	o.ProcessedAt = &at
	o.ProcessedBy = actor
	o.UpdatedAt = at
}
