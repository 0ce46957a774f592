package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/eagl/fieldops-api/internal/bulk"
	"github.com/eagl/fieldops-api/internal/core/domain"
	"github.com/eagl/fieldops-api/internal/infrastructure/storage"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Error string `json:"error"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their appropriate HTTP status codes.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders a consistent JSON envelope: {"error": "<message>"}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := resolveError(err, log, c)
		_ = c.JSON(code, errorResponse{Error: msg})
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	// Known domain errors → deterministic HTTP codes.
	switch {
	case errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound, "user not found"
	case errors.Is(err, domain.ErrClientNotFound):
		return http.StatusNotFound, "client not found"
	case errors.Is(err, domain.ErrAssetNotFound):
		return http.StatusNotFound, "asset not found"
	case errors.Is(err, domain.ErrWorkOrderNotFound):
		return http.StatusNotFound, "work order not found"
	case errors.Is(err, domain.ErrJobNotFound):
		return http.StatusNotFound, "bulk job not found"
	case errors.Is(err, domain.ErrUserExists):
		return http.StatusConflict, "user already exists"
	case errors.Is(err, domain.ErrDuplicateFile):
		return http.StatusConflict, err.Error()
	case errors.Is(err, domain.ErrImportInProgress):
		return http.StatusConflict, "another import is already in progress for this entity"
	case errors.Is(err, domain.ErrJobAlreadyRun):
		return http.StatusConflict, "job already executed"
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, "invalid credentials"
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, "access forbidden"
	case errors.Is(err, domain.ErrInvalidTransition):
		return http.StatusUnprocessableEntity, err.Error()
	case errors.Is(err, domain.ErrInvalidStatus):
		return http.StatusUnprocessableEntity, err.Error()
	case errors.Is(err, domain.ErrInvalidUserData):
		return http.StatusUnprocessableEntity, err.Error()
	case errors.Is(err, domain.ErrJobNotValidated):
		return http.StatusBadRequest, "job has not been validated yet"
	case errors.Is(err, domain.ErrUnsupportedEntity):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, domain.ErrInvalidMode):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, bulk.ErrUnsupportedFormat):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, bulk.ErrEmptyFile):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, storage.ErrTooLarge):
		return http.StatusRequestEntityTooLarge, err.Error()
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, "internal server error"
}
