package ports

import (
	"context"

	"github.com/eagl/fieldops-api/internal/core/domain"
)

// AssetRepository defines persistence operations for assets.
type AssetRepository interface {
	Create(ctx context.Context, asset *domain.Asset) error
	FindByID(ctx context.Context, id string) (*domain.Asset, error)
	ListByClient(ctx context.Context, clientID string, includeInactive bool) ([]*domain.Asset, error)
	ListAll(ctx context.Context) ([]*domain.Asset, error)
	Update(ctx context.Context, asset *domain.Asset) error
	Deactivate(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
}
