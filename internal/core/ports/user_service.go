package ports

import (
	"context"

	"github.com/eagl/fieldops-api/internal/core/domain"
)

// CreateUserInput carries all data needed to provision a user account.
type CreateUserInput struct {
	Name     string
	Email    string
	Password string
	Role     string // defaults to "user" when empty
	ClientID string
}

// UpdateUserInput carries the mutable user fields. Nil pointers leave the
// current value untouched.
type UpdateUserInput struct {
	Name     *string
	Role     *string
	ClientID *string
	Password *string
}

// UserService defines use-case operations for user management.
type UserService interface {
	Create(ctx context.Context, input CreateUserInput) (*domain.User, error)
	Get(ctx context.Context, id string) (*domain.User, error)
	List(ctx context.Context, includeInactive bool) ([]*domain.User, error)
	Update(ctx context.Context, id string, input UpdateUserInput) (*domain.User, error)
	Deactivate(ctx context.Context, id string) error
}
