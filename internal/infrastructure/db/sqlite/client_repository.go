package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/eagl/fieldops-api/internal/core/domain"
)

type ClientRepository struct {
	db *sql.DB
}

func NewClientRepository(db *sql.DB) *ClientRepository {
	return &ClientRepository{db: db}
}

const clientColumns = `id, name, document, address, is_active, created_at`

func (r *ClientRepository) Create(ctx context.Context, c *domain.Client) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO clients (id, name, document, address, is_active, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		c.ID, c.Name, nullStr(c.Document), nullStr(c.Address), c.IsActive, c.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert client: %w", err)
	}
	return nil
}

func (r *ClientRepository) FindByID(ctx context.Context, id string) (*domain.Client, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+clientColumns+` FROM clients WHERE id = ?`, id)
	return scanClient(row)
}

func (r *ClientRepository) List(ctx context.Context, includeInactive bool) ([]*domain.Client, error) {
	query := `SELECT ` + clientColumns + ` FROM clients`
	if !includeInactive {
		query += ` WHERE is_active = 1`
	}
	query += ` ORDER BY name`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}
	defer rows.Close()

	var clients []*domain.Client
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, err
		}
		clients = append(clients, c)
	}
	return clients, rows.Err()
}

func (r *ClientRepository) Update(ctx context.Context, c *domain.Client) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE clients SET name = ?, document = ?, address = ? WHERE id = ?`,
		c.Name, nullStr(c.Document), nullStr(c.Address), c.ID,
	)
	if err != nil {
		return fmt.Errorf("update client: %w", err)
	}
	return requireAffected(res, domain.ErrClientNotFound)
}

func (r *ClientRepository) Deactivate(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE clients SET is_active = 0 WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deactivate client: %w", err)
	}
	return requireAffected(res, domain.ErrClientNotFound)
}

func (r *ClientRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM clients`).Scan(&n)
	return n, err
}

func scanClient(row rowScanner) (*domain.Client, error) {
	var c domain.Client
	var document, address sql.NullString
	err := row.Scan(&c.ID, &c.Name, &document, &address, &c.IsActive, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrClientNotFound
		}
		return nil, fmt.Errorf("scan client: %w", err)
	}
	c.Document = fromNull(document)
	c.Address = fromNull(address)
	return &c, nil
}
