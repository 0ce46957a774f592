package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/eagl/fieldops-api/internal/core/domain"
)

type AssetRepository struct {
	db *sql.DB
}

func NewAssetRepository(db *sql.DB) *AssetRepository {
	return &AssetRepository{db: db}
}

const assetColumns = `id, client_id, name, asset_type, location, status, is_active, created_at`

func (r *AssetRepository) Create(ctx context.Context, a *domain.Asset) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO assets (id, client_id, name, asset_type, location, status, is_active, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.ClientID, a.Name, nullStr(a.AssetType), nullStr(a.Location), a.Status, a.IsActive, a.CreatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrClientNotFound
		}
		return fmt.Errorf("insert asset: %w", err)
	}
	return nil
}

func (r *AssetRepository) FindByID(ctx context.Context, id string) (*domain.Asset, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+assetColumns+` FROM assets WHERE id = ?`, id)
	return scanAsset(row)
}

func (r *AssetRepository) ListByClient(ctx context.Context, clientID string, includeInactive bool) ([]*domain.Asset, error) {
	query := `SELECT ` + assetColumns + ` FROM assets WHERE client_id = ?`
	if !includeInactive {
		query += ` AND is_active = 1`
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, clientID)
	if err != nil {
		return nil, fmt.Errorf("list assets: %w", err)
	}
	defer rows.Close()
	return collectAssets(rows)
}

func (r *AssetRepository) ListAll(ctx context.Context) ([]*domain.Asset, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+assetColumns+` FROM assets WHERE is_active = 1 ORDER BY client_id, name`)
	if err != nil {
		return nil, fmt.Errorf("list assets: %w", err)
	}
	defer rows.Close()
	return collectAssets(rows)
}

func (r *AssetRepository) Update(ctx context.Context, a *domain.Asset) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE assets SET name = ?, asset_type = ?, location = ?, status = ? WHERE id = ?`,
		a.Name, nullStr(a.AssetType), nullStr(a.Location), a.Status, a.ID,
	)
	if err != nil {
		return fmt.Errorf("update asset: %w", err)
	}
	return requireAffected(res, domain.ErrAssetNotFound)
}

func (r *AssetRepository) Deactivate(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE assets SET is_active = 0 WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deactivate asset: %w", err)
	}
	return requireAffected(res, domain.ErrAssetNotFound)
}

func (r *AssetRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM assets`).Scan(&n)
	return n, err
}

func collectAssets(rows *sql.Rows) ([]*domain.Asset, error) {
	var assets []*domain.Asset
	for rows.Next() {
		a, err := scanAsset(rows)
		if err != nil {
			return nil, err
		}
		assets = append(assets, a)
	}
	return assets, rows.Err()
}

func scanAsset(row rowScanner) (*domain.Asset, error) {
	var a domain.Asset
	var assetType, location sql.NullString
	err := row.Scan(&a.ID, &a.ClientID, &a.Name, &assetType, &location, &a.Status, &a.IsActive, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrAssetNotFound
		}
		return nil, fmt.Errorf("scan asset: %w", err)
	}
	a.AssetType = fromNull(assetType)
	a.Location = fromNull(location)
	return &a, nil
}
