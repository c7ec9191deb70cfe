package repository

import (
	"context"

	"github.com/jhoicas/branch-fulfillment-api/internal/domain/entity"
)

// BOMRepository define el puerto de persistencia para filas de BOM (BOM Store).
// Las filas de un producto terminado se reemplazan completas: DeleteByFinishedItem + CreateBatch.
type BOMRepository interface {
	ListByFinishedItem(ctx context.Context, finishedItemID string) ([]*entity.BOMItem, error)
	ListAll(ctx context.Context) ([]*entity.BOMItem, error)
	DeleteByFinishedItem(ctx context.Context, finishedItemID string) error
	CreateBatch(ctx context.Context, rows []*entity.BOMItem) error
}
