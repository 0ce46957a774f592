package ports

import (
	"context"

	"github.com/eagl/fieldops-api/internal/core/domain"
)

// AuthService authenticates users and mints access tokens.
type AuthService interface {
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
	// Me resolves the user behind a validated token's subject claim.
	Me(ctx context.Context, userID string) (*domain.User, error)
}
