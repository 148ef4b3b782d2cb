package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/campuslink/campus-api/internal/core/domain"
)

type stubRoles map[string]domain.Role

func (s stubRoles) GetRole(_ context.Context, userID string) (domain.Role, error) {
	if r, ok := s[userID]; ok {
		return r, nil
	}
	return domain.DefaultRole, nil
}

func newRBACContext(userID string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
	if userID != "" {
		WithIdentity(c, domain.Identity{UserID: userID})
	}
	return c, rec
}

func TestRBAC_Allows(t *testing.T) {
	c, rec := newRBACContext("admin1")

	called := false
	mw := RBAC(stubRoles{"admin1": domain.RoleAdmin}, domain.ErrAdminRequired, domain.RoleAdmin)
	handler := mw(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next handler not called")
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestRBAC_Forbids(t *testing.T) {
	c, _ := newRBACContext("s1")

	mw := RBAC(stubRoles{}, domain.ErrAlumniRequired, domain.RoleAlumni)
	handler := mw(func(c echo.Context) error {
		t.Fatalf("should not reach next handler")
		return nil
	})

	if err := handler(c); !errors.Is(err, domain.ErrAlumniRequired) {
		t.Fatalf("expected alumni_required, got %v", err)
	}
}

func TestRBAC_DefaultRoleIsStudent(t *testing.T) {
	c, _ := newRBACContext("newcomer")

	called := false
	mw := RBAC(stubRoles{}, domain.ErrStudentRequired, domain.RoleStudent)
	handler := mw(func(c echo.Context) error {
		called = true
		return nil
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("user without a role row should pass as student")
	}
}

func TestRBAC_NoIdentity(t *testing.T) {
	c, _ := newRBACContext("")

	handler := RBAC(stubRoles{}, domain.ErrAdminRequired, domain.RoleAdmin)(func(c echo.Context) error {
		t.Fatalf("should not reach next handler")
		return nil
	})

	if err := handler(c); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected unauthenticated, got %v", err)
	}
}
