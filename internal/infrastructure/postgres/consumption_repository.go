package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/branch-fulfillment-api/internal/domain/entity"
	"github.com/jhoicas/branch-fulfillment-api/internal/domain/repository"
)

var _ repository.ConsumptionRepository = (*ConsumptionRepo)(nil)

const consumptionColumns = `id, order_id, item_id, item_type, quantity, branch_name, order_date,
	processed_at, processed_by, finished_item_id`

// ConsumptionRepo Consumption Log sobre PostgreSQL (solo inserción).
// finished_item_id es NULL en registros anteriores a la vinculación con el producto terminado.
type ConsumptionRepo struct {
	q Querier
}

// NewConsumptionRepository construye el adaptador.
func NewConsumptionRepository(q Querier) *ConsumptionRepo {
	return &ConsumptionRepo{q: q}
}

func (r *ConsumptionRepo) Create(ctx context.Context, c *entity.ConsumptionRecord) error {
	_, err := r.q.Exec(ctx, `INSERT INTO consumption_records (`+consumptionColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		c.ID, c.OrderID, c.ItemID, string(c.ItemType), c.Quantity, c.BranchName, c.OrderDate,
		c.ProcessedAt, c.ProcessedBy, nullString(c.FinishedItemID),
	)
	if err != nil {
		return fmt.Errorf("insert consumption record: %w", err)
	}
	return nil
}

func (r *ConsumptionRepo) ListByItem(ctx context.Context, itemID string, from, to *time.Time) ([]*entity.ConsumptionRecord, error) {
	args := []any{itemID}
	cond, args := timeRange("processed_at", from, to, args)
	return r.list(ctx, `SELECT `+consumptionColumns+` FROM consumption_records WHERE item_id = $1`+cond+
		` ORDER BY processed_at DESC, id`, args...)
}

func (r *ConsumptionRepo) ListByOrder(ctx context.Context, orderID string) ([]*entity.ConsumptionRecord, error) {
	return r.list(ctx, `SELECT `+consumptionColumns+` FROM consumption_records WHERE order_id = $1 ORDER BY processed_at, id`, orderID)
}

func (r *ConsumptionRepo) list(ctx context.Context, query string, args ...any) ([]*entity.ConsumptionRecord, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list consumption records: %w", err)
	}
	defer rows.Close()
	var out []*entity.ConsumptionRecord
	for rows.Next() {
		c, err := scanConsumption(rows)
		if err != nil {
			return nil, fmt.Errorf("scan consumption record: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func scanConsumption(row pgx.Row) (*entity.ConsumptionRecord, error) {
	var (
		c        entity.ConsumptionRecord
		itemType string
		finished *string
	)
	if err := row.Scan(&c.ID, &c.OrderID, &c.ItemID, &itemType, &c.Quantity, &c.BranchName, &c.OrderDate,
		&c.ProcessedAt, &c.ProcessedBy, &finished); err != nil {
		return nil, err
	}
	c.ItemType = entity.ItemType(itemType)
	c.FinishedItemID = derefString(finished)
	return &c, nil
}
