package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// authClaims is the identity the Auth middleware injected into the request
// context.
type authClaims struct {
	UserID   string
	Email    string
	Role     string
	ClientID string
}

// ctxClaims extracts the auth claims and fast-fails when the middleware did
// not run: a non-empty role proves the token was validated.
func ctxClaims(c echo.Context) (authClaims, error) {
	claims := authClaims{}
	claims.UserID, _ = c.Get("user_id").(string)
	claims.Email, _ = c.Get("email").(string)
	claims.Role, _ = c.Get("role").(string)
	claims.ClientID, _ = c.Get("client_id").(string)

	if claims.Role == "" {
		return authClaims{}, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return claims, nil
}
