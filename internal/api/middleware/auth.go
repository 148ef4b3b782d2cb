package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/campuslink/campus-api/internal/core/domain"
	"github.com/campuslink/campus-api/internal/core/ports"
)

const identityKey = "identity"

// Auth resolves the bearer token into a domain.Identity and injects it into
// the request context. Any failure is reported as unauthenticated.
func Auth(resolver ports.IdentityResolver) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
			if authHeader == "" {
				return domain.ErrUnauthenticated
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return domain.ErrInvalidToken
			}

			identity, err := resolver.Resolve(c.Request().Context(), strings.TrimSpace(parts[1]))
			if err != nil {
				return err
			}

			c.Set(identityKey, identity)
			return next(c)
		}
	}
}

// IdentityFrom returns the identity injected by Auth.
func IdentityFrom(c echo.Context) (domain.Identity, bool) {
	identity, ok := c.Get(identityKey).(domain.Identity)
	if !ok || identity.UserID == "" {
		return domain.Identity{}, false
	}
	return identity, true
}

// WithIdentity stores identity on the context. Used by tests and by routes
// that resolve identity some other way.
func WithIdentity(c echo.Context, identity domain.Identity) {
	c.Set(identityKey, identity)
}
