package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/branch-fulfillment-api/internal/domain/entity"
)

// ItemFilter filtros opcionales para listar ítems.
type ItemFilter struct {
	Type       entity.ItemType
	BranchName string
	IDs        []string
}

// ItemRepository define el puerto de persistencia para InventoryItem (Item Store).
// GetByID devuelve (nil, nil) si no existe.
type ItemRepository interface {
	Create(ctx context.Context, item *entity.InventoryItem) error
	GetByID(ctx context.Context, id string) (*entity.InventoryItem, error)
	// GetForUpdate bloquea la fila hasta el fin de la transacción (SELECT FOR UPDATE).
	GetForUpdate(ctx context.Context, id string) (*entity.InventoryItem, error)
	List(ctx context.Context, filter ItemFilter) ([]*entity.InventoryItem, error)
	UpdateStock(ctx context.Context, id string, quantity, unitPrice decimal.Decimal, updatedAt time.Time) error
}
