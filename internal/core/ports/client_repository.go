package ports

import (
	"context"

	"github.com/eagl/fieldops-api/internal/core/domain"
)

// ClientRepository defines persistence operations for clients.
type ClientRepository interface {
	Create(ctx context.Context, client *domain.Client) error
	FindByID(ctx context.Context, id string) (*domain.Client, error)
	List(ctx context.Context, includeInactive bool) ([]*domain.Client, error)
	Update(ctx context.Context, client *domain.Client) error
	Deactivate(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
}
