package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/eagl/fieldops-api/internal/core/domain"
	"github.com/eagl/fieldops-api/internal/core/ports"
)

type WorkOrderRepository struct {
	db *sql.DB
}

func NewWorkOrderRepository(db *sql.DB) *WorkOrderRepository {
	return &WorkOrderRepository{db: db}
}

const workOrderColumns = `id, client_id, asset_id, title, description, status, opened_at, closed_at, created_by, created_at`

func (r *WorkOrderRepository) Create(ctx context.Context, wo *domain.WorkOrder) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO work_orders (id, client_id, asset_id, title, description, status, opened_at, closed_at, created_by, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		wo.ID, wo.ClientID, nullStr(wo.AssetID), wo.Title, nullStr(wo.Description),
		wo.Status, wo.OpenedAt, wo.ClosedAt, nullStr(wo.CreatedBy), wo.CreatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return r.missingParent(ctx, wo)
		}
		return fmt.Errorf("insert work order: %w", err)
	}
	return nil
}

// missingParent decides which reference broke the insert. SQLite reports a
// bare "FOREIGN KEY constraint failed" with no constraint name, so the
// parent rows are checked one by one.
func (r *WorkOrderRepository) missingParent(ctx context.Context, wo *domain.WorkOrder) error {
	exists := func(table, id string) bool {
		var n int
		err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM `+table+` WHERE id = ?`, id).Scan(&n)
		return err == nil && n > 0
	}
	if wo.AssetID != "" && !exists("assets", wo.AssetID) {
		return domain.ErrAssetNotFound
	}
	if wo.CreatedBy != "" && !exists("users", wo.CreatedBy) {
		return domain.ErrUserNotFound
	}
	return domain.ErrClientNotFound
}

func (r *WorkOrderRepository) FindByID(ctx context.Context, id string) (*domain.WorkOrder, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+workOrderColumns+` FROM work_orders WHERE id = ?`, id)
	return scanWorkOrder(row)
}

// List returns a page of work orders matching filter plus the total count.
func (r *WorkOrderRepository) List(ctx context.Context, f ports.ListWorkOrdersFilter) ([]*domain.WorkOrder, int64, error) {
	where := ` WHERE 1=1`
	var args []any
	if f.ClientID != "" {
		where += ` AND client_id = ?`
		args = append(args, f.ClientID)
	}
	if f.AssetID != "" {
		where += ` AND asset_id = ?`
		args = append(args, f.AssetID)
	}
	if f.Status != "" {
		where += ` AND status = ?`
		args = append(args, f.Status)
	}

	var total int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM work_orders`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count work orders: %w", err)
	}

	limit := f.Limit
	if limit <= 0 {
		limit = 20
	}
	page := f.Page
	if page <= 0 {
		page = 1
	}
	query := `SELECT ` + workOrderColumns + ` FROM work_orders` + where +
		` ORDER BY opened_at DESC LIMIT ? OFFSET ?`
	args = append(args, limit, (page-1)*limit)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list work orders: %w", err)
	}
	defer rows.Close()

	var orders []*domain.WorkOrder
	for rows.Next() {
		wo, err := scanWorkOrder(rows)
		if err != nil {
			return nil, 0, err
		}
		orders = append(orders, wo)
	}
	return orders, total, rows.Err()
}

func (r *WorkOrderRepository) Update(ctx context.Context, wo *domain.WorkOrder) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE work_orders SET title = ?, description = ?, status = ?, closed_at = ? WHERE id = ?`,
		wo.Title, nullStr(wo.Description), wo.Status, wo.ClosedAt, wo.ID,
	)
	if err != nil {
		return fmt.Errorf("update work order: %w", err)
	}
	return requireAffected(res, domain.ErrWorkOrderNotFound)
}

func (r *WorkOrderRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM work_orders`).Scan(&n)
	return n, err
}

func scanWorkOrder(row rowScanner) (*domain.WorkOrder, error) {
	var wo domain.WorkOrder
	var assetID, description, createdBy sql.NullString
	var closedAt sql.NullTime
	err := row.Scan(&wo.ID, &wo.ClientID, &assetID, &wo.Title, &description,
		&wo.Status, &wo.OpenedAt, &closedAt, &createdBy, &wo.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrWorkOrderNotFound
		}
		return nil, fmt.Errorf("scan work order: %w", err)
	}
	wo.AssetID = fromNull(assetID)
	wo.Description = fromNull(description)
	wo.CreatedBy = fromNull(createdBy)
	if closedAt.Valid {
		t := closedAt.Time.UTC()
		wo.ClosedAt = &t
	}
	return &wo, nil
}
