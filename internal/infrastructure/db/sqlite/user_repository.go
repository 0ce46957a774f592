package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/eagl/fieldops-api/internal/core/domain"
)

type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = `id, name, email, role, password_hash, client_id, is_active, created_at`

func (r *UserRepository) Create(ctx context.Context, u *domain.User) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO users (id, name, email, role, password_hash, client_id, is_active, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		u.ID, u.Name, u.Email, u.Role, nullStr(u.PasswordHash), nullStr(u.ClientID), u.IsActive, u.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrUserExists
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	return scanUser(row)
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = ?`, email)
	return scanUser(row)
}

func (r *UserRepository) List(ctx context.Context, includeInactive bool) ([]*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users`
	if !includeInactive {
		query += ` WHERE is_active = 1`
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var users []*domain.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (r *UserRepository) Update(ctx context.Context, u *domain.User) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE users SET name = ?, role = ?, password_hash = ?, client_id = ? WHERE id = ?`,
		u.Name, u.Role, nullStr(u.PasswordHash), nullStr(u.ClientID), u.ID,
	)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	return requireAffected(res, domain.ErrUserNotFound)
}

func (r *UserRepository) Deactivate(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE users SET is_active = 0 WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deactivate user: %w", err)
	}
	return requireAffected(res, domain.ErrUserNotFound)
}

func scanUser(row rowScanner) (*domain.User, error) {
	var u domain.User
	var hash, clientID sql.NullString
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.Role, &hash, &clientID, &u.IsActive, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}
	u.PasswordHash = fromNull(hash)
	u.ClientID = fromNull(clientID)
	return &u, nil
}
