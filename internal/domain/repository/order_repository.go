package repository

import (
	"context"

	"github.com/jhoicas/branch-fulfillment-api/internal/domain/entity"
)

// OrderFilter filtros opcionales para listar pedidos.
type OrderFilter struct {
	Status     entity.OrderStatus
	BranchName string
}

// OrderRepository define el puerto de persistencia para pedidos (Order Store).
type OrderRepository interface {
	Create(ctx context.Context, order *entity.Order) error
	GetByID(ctx context.Context, id string) (*entity.Order, error)
	GetForUpdate(ctx context.Context, id string) (*entity.Order, error)
	List(ctx context.Context, filter OrderFilter) ([]*entity.Order, error)
	Update(ctx context.Context, order *entity.Order) error
}
