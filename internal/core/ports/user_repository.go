package ports

import (
	"context"

	"github.com/eagl/fieldops-api/internal/core/domain"
)

// UserRepository defines persistence operations for users.
// Delete is a soft delete: it clears is_active, never removes the row.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	List(ctx context.Context, includeInactive bool) ([]*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
	Deactivate(ctx context.Context, id string) error
}
