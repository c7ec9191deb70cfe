package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/branch-fulfillment-api/internal/domain"
)

// ItemType distingue producto terminado de material (componente).
type ItemType string

const (
	ItemTypeFinished ItemType = "finished"
	ItemTypeMaterial ItemType = "material"
)

// IsValid indica si el tipo es conocido.
func (t ItemType) IsValid() bool {
	return t == ItemTypeFinished || t == ItemTypeMaterial
}

// InventoryItem representa un SKU de inventario (producto terminado o material).
// MinQuantity/MaxQuantity son umbrales blandos de "stock bajo"/"lleno", no restricciones.
type InventoryItem struct {
	ID          string
	Name        string
	Category    string
	Type        ItemType
	BranchName  string // opcional
	Quantity    decimal.Decimal
	MinQuantity decimal.Decimal
	MaxQuantity decimal.Decimal
	Unit        string
	UnitPrice   decimal.Decimal
	Location    string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewInventoryItem valida y construye un ítem nuevo.
func NewInventoryItem(name string, itemType ItemType, quantity decimal.Decimal) (*InventoryItem, error) {
	if name == "" {
		return nil, domain.NewValidationError("name", "es requerido")
	}
	if !itemType.IsValid() {
		return nil, domain.NewValidationError("type", "debe ser finished o material")
	}
	if quantity.IsNegative() {
		return nil, domain.NewValidationError("quantity", "no puede ser negativa")
	}
	now := time.Now()
	return &InventoryItem{
		ID:        uuid.New().String(),
		Name:      name,
		Type:      itemType,
		Quantity:  quantity,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// IsLowStock indica stock en o bajo el mínimo configurado.
func (i *InventoryItem) IsLowStock() bool {
	return i.MinQuantity.IsPositive() && i.Quantity.LessThanOrEqual(i.MinQuantity)
}

// IsFull indica stock en o sobre el máximo configurado (si hay máximo).
func (i *InventoryItem) IsFull() bool {
	return i.MaxQuantity.IsPositive() && i.Quantity.GreaterThanOrEqual(i.MaxQuantity)
}

// CanFulfill indica si hay stock para retirar qty.
func (i *InventoryItem) CanFulfill(qty decimal.Decimal) bool {
	return i.Quantity.GreaterThanOrEqual(qty)
}

// Withdraw descuenta qty; falla sin modificar nada si dejaría stock negativo.
func (i *InventoryItem) Withdraw(qty decimal.Decimal, at time.Time) error {
	if !i.CanFulfill(qty) {
		return &domain.InsufficientStockError{Deficiencies: []domain.StockDeficiency{i.Deficiency(qty)}}
	}
	i.Quantity = i.Quantity.Sub(qty)
	i.UpdatedAt = at
	return nil
}

// Deposit suma qty al stock.
func (i *InventoryItem) Deposit(qty decimal.Decimal, at time.Time) {
	i.Quantity = i.Quantity.Add(qty)
	i.UpdatedAt = at
}

// Deficiency describe el faltante para retirar required.
func (i *InventoryItem) Deficiency(required decimal.Decimal) domain.StockDeficiency {
	return domain.StockDeficiency{
		ItemID:    i.ID,
		ItemName:  i.Name,
		ItemType:  string(i.Type),
		Unit:      i.Unit,
		Required:  required,
		Available: i.Quantity,
		Shortfall: decimal.Max(decimal.Zero, required.Sub(i.Quantity)),
	}
}
