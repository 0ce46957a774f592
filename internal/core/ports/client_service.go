package ports

import (
	"context"

	"github.com/eagl/fieldops-api/internal/core/domain"
)

// CreateClientInput carries the fields accepted when registering a client.
type CreateClientInput struct {
	Name     string
	Document string
	Address  string
}

// UpdateClientInput carries the mutable client fields. Nil pointers leave
// the current value untouched.
type UpdateClientInput struct {
	Name     *string
	Document *string
	Address  *string
}

// ClientService defines use-case operations for clients.
type ClientService interface {
	Create(ctx context.Context, input CreateClientInput) (*domain.Client, error)
	Get(ctx context.Context, id string) (*domain.Client, error)
	List(ctx context.Context, includeInactive bool) ([]*domain.Client, error)
	Update(ctx context.Context, id string, input UpdateClientInput) (*domain.Client, error)
	Deactivate(ctx context.Context, id string) error
}
