package ports

import (
	"context"

	"github.com/eagl/fieldops-api/internal/core/domain"
)

// CreateAssetInput carries the fields accepted when registering an asset
// under a client.
type CreateAssetInput struct {
	ClientID  string
	Name      string
	AssetType string
	Location  string
	Status    string // defaults to "operating" when empty
}

// UpdateAssetInput carries the mutable asset fields. Nil pointers leave the
// current value untouched.
type UpdateAssetInput struct {
	Name      *string
	AssetType *string
	Location  *string
	Status    *string
}

// AssetService defines use-case operations for assets.
type AssetService interface {
	Create(ctx context.Context, input CreateAssetInput) (*domain.Asset, error)
	Get(ctx context.Context, id string) (*domain.Asset, error)
	ListByClient(ctx context.Context, clientID string, includeInactive bool) ([]*domain.Asset, error)
	Update(ctx context.Context, id string, input UpdateAssetInput) (*domain.Asset, error)
	Deactivate(ctx context.Context, id string) error
}
