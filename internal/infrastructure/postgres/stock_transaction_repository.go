package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/branch-fulfillment-api/internal/domain/entity"
	"github.com/jhoicas/branch-fulfillment-api/internal/domain/repository"
)

var _ repository.StockTransactionRepository = (*StockTransactionRepo)(nil)

const stockTxColumns = `id, operation_id, item_id, direction, quantity, reason, order_id, created_at, created_by`

// StockTransactionRepo Transaction Log sobre PostgreSQL (solo inserción).
type StockTransactionRepo struct {
	q Querier
}

// NewStockTransactionRepository construye el adaptador.
func NewStockTransactionRepository(q Querier) *StockTransactionRepo {
	return &StockTransactionRepo{q: q}
}

func (r *StockTransactionRepo) Create(ctx context.Context, t *entity.StockTransaction) error {
	_, err := r.q.Exec(ctx, `INSERT INTO stock_transactions (`+stockTxColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		t.ID, t.OperationID, t.ItemID, string(t.Direction), t.Quantity, t.Reason,
		nullString(t.OrderID), t.CreatedAt, t.CreatedBy,
	)
	if err != nil {
		return fmt.Errorf("insert stock transaction: %w", err)
	}
	return nil
}

// ListByItem más recientes primero; limit <= 0 sin límite.
func (r *StockTransactionRepo) ListByItem(ctx context.Context, itemID string, from, to *time.Time, limit, offset int) ([]*entity.StockTransaction, error) {
	args := []any{itemID}
	cond, args := timeRange("created_at", from, to, args)
	query := `SELECT ` + stockTxColumns + ` FROM stock_transactions WHERE item_id = $1` + cond +
		` ORDER BY created_at DESC, id`
	if limit > 0 {
		args = append(args, limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if offset > 0 {
		args = append(args, offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}
	return r.list(ctx, query, args...)
}

func (r *StockTransactionRepo) ListByOrder(ctx context.Context, orderID string) ([]*entity.StockTransaction, error) {
	return r.list(ctx, `SELECT `+stockTxColumns+` FROM stock_transactions WHERE order_id = $1 ORDER BY created_at, id`, orderID)
}

func (r *StockTransactionRepo) list(ctx context.Context, query string, args ...any) ([]*entity.StockTransaction, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list stock transactions: %w", err)
	}
	defer rows.Close()
	var out []*entity.StockTransaction
	for rows.Next() {
		t, err := scanStockTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan stock transaction: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func scanStockTransaction(row pgx.Row) (*entity.StockTransaction, error) {
	var (
		t       entity.StockTransaction
		dir     string
		orderID *string
	)
	if err := row.Scan(&t.ID, &t.OperationID, &t.ItemID, &dir, &t.Quantity, &t.Reason, &orderID, &t.CreatedAt, &t.CreatedBy); err != nil {
		return nil, err
	}
	t.Direction = entity.Direction(dir)
	t.OrderID = derefString(orderID)
	return &t, nil
}
