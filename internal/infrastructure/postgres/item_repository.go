package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/branch-fulfillment-api/internal/domain"
	"github.com/jhoicas/branch-fulfillment-api/internal/domain/entity"
	"github.com/jhoicas/branch-fulfillment-api/internal/domain/repository"
)

var _ repository.ItemRepository = (*ItemRepo)(nil)

const itemColumns = `id, name, category, type, branch_name, quantity, min_quantity, max_quantity,
	unit, unit_price, location, description, created_at, updated_at`

// ItemRepo implementación de ItemRepository sobre PostgreSQL (usable con pool o tx).
type ItemRepo struct {
	q Querier
}

// NewItemRepository construye el adaptador. Pasar pool o tx (Querier).
func NewItemRepository(q Querier) *ItemRepo {
	return &ItemRepo{q: q}
}

func (r *ItemRepo) Create(ctx context.Context, it *entity.InventoryItem) error {
	query := `INSERT INTO inventory_items (` + itemColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	_, err := r.q.Exec(ctx, query,
		it.ID, it.Name, it.Category, string(it.Type), nullString(it.BranchName), it.Quantity,
		it.MinQuantity, it.MaxQuantity, it.Unit, it.UnitPrice, it.Location, it.Description,
		it.CreatedAt, it.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: ítem %s ya existe", domain.ErrConflict, it.ID)
		}
		return fmt.Errorf("insert item: %w", err)
	}
	return nil
}

func (r *ItemRepo) GetByID(ctx context.Context, id string) (*entity.InventoryItem, error) {
	return r.get(ctx, `SELECT `+itemColumns+` FROM inventory_items WHERE id = $1`, id)
}

// GetForUpdate bloquea la fila hasta el fin de la transacción.
func (r *ItemRepo) GetForUpdate(ctx context.Context, id string) (*entity.InventoryItem, error) {
	return r.get(ctx, `SELECT `+itemColumns+` FROM inventory_items WHERE id = $1 FOR UPDATE`, id)
}

func (r *ItemRepo) get(ctx context.Context, query, id string) (*entity.InventoryItem, error) {
	it, err := scanItem(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get item: %w", err)
	}
	return it, nil
}

func (r *ItemRepo) List(ctx context.Context, filter repository.ItemFilter) ([]*entity.InventoryItem, error) {
	var (
		where []string
		args  []any
	)
	if filter.Type != "" {
		args = append(args, string(filter.Type))
		where = append(where, fmt.Sprintf("type = $%d", len(args)))
	}
	if filter.BranchName != "" {
		args = append(args, filter.BranchName)
		where = append(where, fmt.Sprintf("branch_name = $%d", len(args)))
	}
	if len(filter.IDs) > 0 {
		args = append(args, filter.IDs)
		where = append(where, fmt.Sprintf("id = ANY($%d)", len(args)))
	}
	query := `SELECT ` + itemColumns + ` FROM inventory_items`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY name, id"

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()
	var out []*entity.InventoryItem
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

func (r *ItemRepo) UpdateStock(ctx context.Context, id string, quantity, unitPrice decimal.Decimal, updatedAt time.Time) error {
	tag, err := r.q.Exec(ctx,
		`UPDATE inventory_items SET quantity = $2, unit_price = $3, updated_at = $4 WHERE id = $1`,
		id, quantity, unitPrice, updatedAt)
	if err != nil {
		return fmt.Errorf("update item stock: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update item stock: ítem %s no existe", id)
	}
	return nil
}

func scanItem(row pgx.Row) (*entity.InventoryItem, error) {
	var (
		it     entity.InventoryItem
		typ    string
		branch *string
	)
	err := row.Scan(&it.ID, &it.Name, &it.Category, &typ, &branch, &it.Quantity, &it.MinQuantity,
		&it.MaxQuantity, &it.Unit, &it.UnitPrice, &it.Location, &it.Description, &it.CreatedAt, &it.UpdatedAt)
	if err != nil {
		return nil, err
	}
	it.Type = entity.ItemType(typ)
	it.BranchName = derefString(branch)
	return &it, nil
}
