package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/branch-fulfillment-api/internal/domain/entity"
	"github.com/jhoicas/branch-fulfillment-api/internal/domain/repository"
)

var _ repository.BOMRepository = (*BOMRepo)(nil)

// BOMRepo filas de BOM sobre PostgreSQL. position conserva el orden en que se guardaron.
type BOMRepo struct {
	q Querier
}

// NewBOMRepository construye el adaptador.
func NewBOMRepository(q Querier) *BOMRepo {
	return &BOMRepo{q: q}
}

func (r *BOMRepo) ListByFinishedItem(ctx context.Context, finishedItemID string) ([]*entity.BOMItem, error) {
	return r.list(ctx, `SELECT id, finished_item_id, material_item_id, quantity FROM bom_items
		WHERE finished_item_id = $1 ORDER BY position`, finishedItemID)
}

func (r *BOMRepo) ListAll(ctx context.Context) ([]*entity.BOMItem, error) {
	return r.list(ctx, `SELECT id, finished_item_id, material_item_id, quantity FROM bom_items
		ORDER BY finished_item_id, position`)
}

func (r *BOMRepo) list(ctx context.Context, query string, args ...any) ([]*entity.BOMItem, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list bom: %w", err)
	}
	defer rows.Close()
	var out []*entity.BOMItem
	for rows.Next() {
		var b entity.BOMItem
		if err := rows.Scan(&b.ID, &b.FinishedItemID, &b.MaterialItemID, &b.Quantity); err != nil {
			return nil, fmt.Errorf("scan bom: %w", err)
		}
		out = append(out, &b)
	}
	return out, rows.Err()
}

func (r *BOMRepo) DeleteByFinishedItem(ctx context.Context, finishedItemID string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM bom_items WHERE finished_item_id = $1`, finishedItemID); err != nil {
		return fmt.Errorf("delete bom: %w", err)
	}
	return nil
}

// CreateBatch inserta con pgx.Batch; position sigue el orden del slice.
func (r *BOMRepo) CreateBatch(ctx context.Context, rows []*entity.BOMItem) error {
	if len(rows) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for i, b := range rows {
		batch.Queue(`INSERT INTO bom_items (id, finished_item_id, material_item_id, quantity, position)
			VALUES ($1, $2, $3, $4, $5)`, b.ID, b.FinishedItemID, b.MaterialItemID, b.Quantity, i)
	}
	br := r.q.SendBatch(ctx, batch)
	defer br.Close()
	for range rows {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("insert bom: %w", err)
		}
	}
	return nil
}
