package auth

import (
	"net/http"
	"strings"

	"github.com/airenas/scribe/internal/pkg/roles"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

const identityKey = "scribe-identity"

// Verifier resolves an identity from a bearer credential
type Verifier interface {
	Verify(token string) (*Identity, error)
}

// Authenticate is echo middleware resolving the caller from the Authorization header
func Authenticate(v Verifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			h := c.Request().Header.Get(echo.HeaderAuthorization)
			if h == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "No token, authorization denied")
			}
			if !strings.HasPrefix(h, "Bearer ") {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid token format")
			}
			id, err := v.Verify(strings.TrimPrefix(h, "Bearer "))
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "Token is not valid")
			}
			c.Set(identityKey, id)
			return next(c)
		}
	}
}

// RequireRole is echo middleware allowing only the listed roles through
func RequireRole(allowed ...roles.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id, err := IdentityFor(c)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "No token, authorization denied")
			}
			if !roles.Allowed(id.Role, allowed...) {
				return echo.NewHTTPError(http.StatusForbidden, "Access denied")
			}
			return next(c)
		}
	}
}

// IdentityFor returns the identity stored by Authenticate
func IdentityFor(c echo.Context) (*Identity, error) {
	id, ok := c.Get(identityKey).(*Identity)
	if !ok || id == nil {
		return nil, errors.New("no identity in context")
	}
	return id, nil
}
