package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/eagl/fieldops-api/internal/core/domain"
)

func TestAuthHandler_Login(t *testing.T) {
	svc := &stubAuthService{
		token: "signed-token",
		user:  &domain.User{ID: "u1", Email: "ana@example.com", Role: domain.RoleManager},
	}
	h := NewAuthHandler(svc)

	body := `{"email":"ana@example.com","password":"secret"}`
	c, rec := newTestContext(t, http.MethodPost, "/api/v1/auth/login", echo.MIMEApplicationJSON, strings.NewReader(body))

	if err := h.Login(c); err != nil {
		t.Fatalf("login: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d", rec.Code)
	}

	var resp struct {
		Token string       `json:"token"`
		User  *domain.User `json:"user"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Token != "signed-token" || resp.User == nil || resp.User.ID != "u1" {
		t.Errorf("unexpected response: %+v", resp)
	}
}

func TestAuthHandler_Login_InvalidPayload(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{})

	body := `{"email":"not-an-email","password":""}`
	c, _ := newTestContext(t, http.MethodPost, "/api/v1/auth/login", echo.MIMEApplicationJSON, strings.NewReader(body))

	err := h.Login(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 HTTPError, got %v", err)
	}
}

func TestAuthHandler_Login_BadCredentials(t *testing.T) {
	svc := &stubAuthService{
		loginFn: func(email, password string) error { return domain.ErrInvalidCredentials },
	}
	h := NewAuthHandler(svc)

	body := `{"email":"ana@example.com","password":"wrong"}`
	c, _ := newTestContext(t, http.MethodPost, "/api/v1/auth/login", echo.MIMEApplicationJSON, strings.NewReader(body))

	// The domain error flows through to the central error handler untouched.
	if err := h.Login(c); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthHandler_Me(t *testing.T) {
	svc := &stubAuthService{user: &domain.User{ID: "u1", Email: "ana@example.com"}}
	h := NewAuthHandler(svc)

	c, rec := newTestContext(t, http.MethodGet, "/api/v1/me", "", nil)
	setClaims(c, "u1", "manager", "")

	if err := h.Me(c); err != nil {
		t.Fatalf("me: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d", rec.Code)
	}
}

func TestAuthHandler_Me_NoClaims(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{})

	c, _ := newTestContext(t, http.MethodGet, "/api/v1/me", "", nil)

	err := h.Me(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 HTTPError, got %v", err)
	}
}
