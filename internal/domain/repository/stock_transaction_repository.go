package repository

import (
	"context"
	"time"

	"github.com/jhoicas/branch-fulfillment-api/internal/domain/entity"
)

// StockTransactionRepository define el puerto del Transaction Log (solo inserción).
type StockTransactionRepository interface {
	Create(ctx context.Context, tx *entity.StockTransaction) error
	ListByItem(ctx context.Context, itemID string, from, to *time.Time, limit, offset int) ([]*entity.StockTransaction, error)
	ListByOrder(ctx context.Context, orderID string) ([]*entity.StockTransaction, error)
}
