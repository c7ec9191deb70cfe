package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Dirección de un movimiento de stock.
type Direction string

const (
	DirectionIn  Direction = "in"  // entrada
	DirectionOut Direction = "out" // salida
)

// IsValid indica si la dirección es conocida.
func (d Direction) IsValid() bool {
	return d == DirectionIn || d == DirectionOut
}

// Motivos estándar de movimientos generados por el sistema.
const (
	ReasonBranchShipment = "branch_shipment"
	ReasonBOMDeduction   = "bom_auto_deduction"
	ReasonManual         = "manual"
)

// StockTransaction registro inmutable de entrada/salida de stock.
// OperationID agrupa todos los registros de una misma operación (p. ej. un despacho).
type StockTransaction struct {
	ID          string
	OperationID string
	ItemID      string
	Direction   Direction
	Quantity    decimal.Decimal // siempre positivo; la dirección da el signo
	Reason      string
	OrderID     string // opcional
	CreatedAt   time.Time
	CreatedBy   string
}
