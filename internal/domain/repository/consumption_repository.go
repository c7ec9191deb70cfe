package repository

import (
	"context"
	"time"

	"github.com/jhoicas/branch-fulfillment-api/internal/domain/entity"
)

// ConsumptionRepository define el puerto del Consumption Log (solo inserción).
type ConsumptionRepository interface {
	Create(ctx context.Context, record *entity.ConsumptionRecord) error
	ListByItem(ctx context.Context, itemID string, from, to *time.Time) ([]*entity.ConsumptionRecord, error)
	ListByOrder(ctx context.Context, orderID string) ([]*entity.ConsumptionRecord, error)
}
