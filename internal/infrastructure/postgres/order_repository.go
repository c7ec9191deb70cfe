package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/branch-fulfillment-api/internal/domain"
	"github.com/jhoicas/branch-fulfillment-api/internal/domain/entity"
	"github.com/jhoicas/branch-fulfillment-api/internal/domain/repository"
)

var _ repository.OrderRepository = (*OrderRepo)(nil)

const orderColumns = `id, branch_name, finished_item_id, quantity, order_date, status,
	processed_at, processed_by, shipped_at, shipped_by, shipped_quantity,
	received_at, received_by, notes, created_at, updated_at`

// OrderRepo pedidos de sucursal sobre PostgreSQL.
type OrderRepo struct {
	q Querier
}

// NewOrderRepository construye el adaptador.
func NewOrderRepository(q Querier) *OrderRepo {
	return &OrderRepo{q: q}
}

func (r *OrderRepo) Create(ctx context.Context, o *entity.Order) error {
	query := `INSERT INTO branch_orders (` + orderColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`
	_, err := r.q.Exec(ctx, query,
		o.ID, o.BranchName, o.FinishedItemID, o.Quantity, o.OrderDate, string(o.Status),
		o.ProcessedAt, nullString(o.ProcessedBy), o.ShippedAt, nullString(o.ShippedBy), o.ShippedQuantity,
		o.ReceivedAt, nullString(o.ReceivedBy), o.Notes, o.CreatedAt, o.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: pedido %s ya existe", domain.ErrConflict, o.ID)
		}
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

func (r *OrderRepo) GetByID(ctx context.Context, id string) (*entity.Order, error) {
	return r.get(ctx, `SELECT `+orderColumns+` FROM branch_orders WHERE id = $1`, id)
}

func (r *OrderRepo) GetForUpdate(ctx context.Context, id string) (*entity.Order, error) {
	return r.get(ctx, `SELECT `+orderColumns+` FROM branch_orders WHERE id = $1 FOR UPDATE`, id)
}

func (r *OrderRepo) get(ctx context.Context, query, id string) (*entity.Order, error) {
	o, err := scanOrder(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get order: %w", err)
	}
	return o, nil
}

// List más recientes primero.
func (r *OrderRepo) List(ctx context.Context, filter repository.OrderFilter) ([]*entity.Order, error) {
	var (
		where []string
		args  []any
	)
	if filter.Status != "" {
		args = append(args, string(filter.Status))
		where = append(where, fmt.Sprintf("status = $%d", len(args)))
	}
	if filter.BranchName != "" {
		args = append(args, filter.BranchName)
		where = append(where, fmt.Sprintf("branch_name = $%d", len(args)))
	}
	query := `SELECT ` + orderColumns + ` FROM branch_orders`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY order_date DESC, id"

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()
	var out []*entity.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

func (r *OrderRepo) Update(ctx context.Context, o *entity.Order) error {
	query := `UPDATE branch_orders SET status = $2, processed_at = $3, processed_by = $4,
		shipped_at = $5, shipped_by = $6, shipped_quantity = $7, received_at = $8, received_by = $9,
		notes = $10, updated_at = $11
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		o.ID, string(o.Status), o.ProcessedAt, nullString(o.ProcessedBy),
		o.ShippedAt, nullString(o.ShippedBy), o.ShippedQuantity, o.ReceivedAt, nullString(o.ReceivedBy),
		o.Notes, o.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update order: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update order: pedido %s no existe", o.ID)
	}
	return nil
}

func scanOrder(row pgx.Row) (*entity.Order, error) {
	var (
		o                                  entity.Order
		status                             string
		processedBy, shippedBy, receivedBy *string
	)
	err := row.Scan(&o.ID, &o.BranchName, &o.FinishedItemID, &o.Quantity, &o.OrderDate, &status,
		&o.ProcessedAt, &processedBy, &o.ShippedAt, &shippedBy, &o.ShippedQuantity,
		&o.ReceivedAt, &receivedBy, &o.Notes, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, err
	}
	o.Status = entity.OrderStatus(status)
	o.ProcessedBy = derefString(processedBy)
	o.ShippedBy = derefString(shippedBy)
	o.ReceivedBy = derefString(receivedBy)
	return &o, nil
}
