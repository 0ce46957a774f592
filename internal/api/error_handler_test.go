package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/eagl/fieldops-api/internal/bulk"
	"github.com/eagl/fieldops-api/internal/core/domain"
	"github.com/eagl/fieldops-api/internal/infrastructure/storage"
)

func renderError(t *testing.T, err error) (*httptest.ResponseRecorder, string) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	NewHTTPErrorHandler(zerolog.Nop())(err, c)

	var resp errorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	return rec, resp.Error
}

func TestHTTPErrorHandler_DomainErrors(t *testing.T) {
	cases := []struct {
		err  error
		code int
	}{
		{domain.ErrUserNotFound, http.StatusNotFound},
		{domain.ErrClientNotFound, http.StatusNotFound},
		{domain.ErrWorkOrderNotFound, http.StatusNotFound},
		{domain.ErrJobNotFound, http.StatusNotFound},
		{domain.ErrUserExists, http.StatusConflict},
		{domain.ErrDuplicateFile, http.StatusConflict},
		{domain.ErrImportInProgress, http.StatusConflict},
		{domain.ErrInvalidCredentials, http.StatusUnauthorized},
		{domain.ErrForbidden, http.StatusForbidden},
		{domain.ErrInvalidTransition, http.StatusUnprocessableEntity},
		{domain.ErrInvalidUserData, http.StatusUnprocessableEntity},
		{domain.ErrJobNotValidated, http.StatusBadRequest},
		{domain.ErrUnsupportedEntity, http.StatusBadRequest},
		{bulk.ErrUnsupportedFormat, http.StatusBadRequest},
		{storage.ErrTooLarge, http.StatusRequestEntityTooLarge},
	}
	for _, tc := range cases {
		t.Run(tc.err.Error(), func(t *testing.T) {
			rec, _ := renderError(t, tc.err)
			if rec.Code != tc.code {
				t.Errorf("%v: status = %d, want %d", tc.err, rec.Code, tc.code)
			}
		})
	}
}

func TestHTTPErrorHandler_WrappedError(t *testing.T) {
	err := fmt.Errorf("%w (from closed to in_progress)", domain.ErrInvalidTransition)
	rec, msg := renderError(t, err)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("status = %d, want 422", rec.Code)
	}
	if msg == "" {
		t.Errorf("expected error message in body")
	}
}

func TestHTTPErrorHandler_EchoError(t *testing.T) {
	rec, msg := renderError(t, echo.NewHTTPError(http.StatusBadRequest, "invalid payload"))
	if rec.Code != http.StatusBadRequest || msg != "invalid payload" {
		t.Errorf("got %d %q", rec.Code, msg)
	}
}

func TestHTTPErrorHandler_UnknownError(t *testing.T) {
	rec, msg := renderError(t, errors.New("database exploded"))
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
	// Internal detail must not leak to the client.
	if msg != "internal server error" {
		t.Errorf("message = %q", msg)
	}
}
