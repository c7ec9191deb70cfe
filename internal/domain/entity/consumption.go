package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// ConsumptionRecord registro de auditoría inmutable creado al despachar,
// uno por par (pedido, ítem) afectado.
type ConsumptionRecord struct {
	ID             string
	OrderID        string
	ItemID         string
	ItemType       ItemType
	Quantity       decimal.Decimal
	BranchName     string
	OrderDate      time.Time
	ProcessedAt    time.Time
	ProcessedBy    string
	FinishedItemID string // solo en filas de material; vacío en registros antiguos
}

// MaterialConsumption resultado calculado (no persistido) por material.
type MaterialConsumption struct {
	MaterialItemID    string
	MaterialName      string
	Unit              string
	RequiredQuantity  decimal.Decimal
	AvailableQuantity decimal.Decimal
	Shortage          decimal.Decimal
	IsShortage        bool
}

// MaterialShortage agregación global de demanda pendiente por material.
type MaterialShortage struct {
	MaterialConsumption
	OrderCount int
}

// BranchShortage agregación por sucursal: solo materiales en faltante.
type BranchShortage struct {
	BranchName         string
	Shortages          []MaterialConsumption
	Orders             []*Order
	TotalShortageCount int
}
