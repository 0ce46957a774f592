package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/eagl/fieldops-api/internal/core/domain"
	"github.com/eagl/fieldops-api/internal/core/ports"
)

func TestUserService_Create_Defaults(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewUserService(repo, zerolog.Nop())

	user, err := svc.Create(context.Background(), ports.CreateUserInput{
		Name:     "Ana",
		Email:    "  Ana@Example.com ",
		Password: "secret",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if user.Role != domain.RoleUser {
		t.Errorf("role = %s, want user", user.Role)
	}
	if user.Email != "ana@example.com" {
		t.Errorf("email not normalized: %q", user.Email)
	}
	if !user.IsActive || user.ID == "" {
		t.Errorf("unexpected user: %+v", user)
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("secret")) != nil {
		t.Errorf("password hash does not verify")
	}
}

func TestUserService_Create_UnknownRole(t *testing.T) {
	svc := NewUserService(newStubUserRepo(), zerolog.Nop())

	_, err := svc.Create(context.Background(), ports.CreateUserInput{
		Name:  "Ana",
		Email: "ana@example.com",
		Role:  "superadmin",
	})
	if !errors.Is(err, domain.ErrInvalidUserData) {
		t.Fatalf("expected ErrInvalidUserData, got %v", err)
	}
}

func TestUserService_Create_MissingFields(t *testing.T) {
	svc := NewUserService(newStubUserRepo(), zerolog.Nop())

	_, err := svc.Create(context.Background(), ports.CreateUserInput{Email: "ana@example.com"})
	if !errors.Is(err, domain.ErrInvalidUserData) {
		t.Fatalf("expected ErrInvalidUserData, got %v", err)
	}
}

func TestUserService_Update_UnknownRole(t *testing.T) {
	repo := newStubUserRepo()
	seedUser(t, repo, "u1", "ana@example.com", "secret", true)
	svc := NewUserService(repo, zerolog.Nop())

	role := "root"
	_, err := svc.Update(context.Background(), "u1", ports.UpdateUserInput{Role: &role})
	if !errors.Is(err, domain.ErrInvalidUserData) {
		t.Fatalf("expected ErrInvalidUserData, got %v", err)
	}
}

func TestUserService_Create_DuplicateEmail(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewUserService(repo, zerolog.Nop())

	input := ports.CreateUserInput{Name: "Ana", Email: "ana@example.com"}
	if _, err := svc.Create(context.Background(), input); err != nil {
		t.Fatalf("first create: %v", err)
	}
	if _, err := svc.Create(context.Background(), input); !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestUserService_Update_PasswordRehash(t *testing.T) {
	repo := newStubUserRepo()
	seedUser(t, repo, "u1", "ana@example.com", "old", true)
	svc := NewUserService(repo, zerolog.Nop())

	pw := "new-password"
	user, err := svc.Update(context.Background(), "u1", ports.UpdateUserInput{Password: &pw})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(pw)) != nil {
		t.Errorf("new password does not verify")
	}
}

func TestUserService_Deactivate(t *testing.T) {
	repo := newStubUserRepo()
	seedUser(t, repo, "u1", "ana@example.com", "secret", true)
	svc := NewUserService(repo, zerolog.Nop())

	if err := svc.Deactivate(context.Background(), "u1"); err != nil {
		t.Fatalf("deactivate: %v", err)
	}
	if repo.users["u1"].IsActive {
		t.Errorf("user still active after deactivate")
	}

	if err := svc.Deactivate(context.Background(), "missing"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}
