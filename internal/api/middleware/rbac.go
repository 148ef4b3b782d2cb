package middleware

import (
	"context"
	"slices"

	"github.com/labstack/echo/v4"

	"github.com/campuslink/campus-api/internal/core/domain"
)

// RoleLookup is the subset of the role service RBAC needs.
type RoleLookup interface {
	GetRole(ctx context.Context, userID string) (domain.Role, error)
}

// RBAC enforces role-based access control. The role is read from the role
// store on every request, so a change applies to the caller's next call.
// denied is returned when the role does not match.
func RBAC(roles RoleLookup, denied error, allowedRoles ...domain.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			identity, ok := IdentityFrom(c)
			if !ok {
				return domain.ErrUnauthenticated
			}

			role, err := roles.GetRole(c.Request().Context(), identity.UserID)
			if err != nil {
				return err
			}
			if !slices.Contains(allowedRoles, role) {
				return denied
			}
			return next(c)
		}
	}
}
