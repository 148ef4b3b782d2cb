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

type stubResolver struct {
	token    string
	identity domain.Identity
}

func (s *stubResolver) Resolve(_ context.Context, token string) (domain.Identity, error) {
	if token != s.token {
		return domain.Identity{}, domain.ErrInvalidToken
	}
	return s.identity, nil
}

func newAuthContext(header string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set(echo.HeaderAuthorization, header)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	resolver := &stubResolver{token: "good", identity: domain.Identity{UserID: "u1", Email: "a@example.com"}}
	c, rec := newAuthContext("Bearer good")

	called := false
	handler := Auth(resolver)(func(c echo.Context) error {
		called = true
		identity, ok := IdentityFrom(c)
		if !ok || identity.UserID != "u1" {
			t.Fatalf("identity not set: %+v", identity)
		}
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next not called")
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestAuthMiddleware_MissingHeader(t *testing.T) {
	c, _ := newAuthContext("")

	handler := Auth(&stubResolver{})(func(c echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	})

	if err := handler(c); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected unauthenticated, got %v", err)
	}
}

func TestAuthMiddleware_InvalidHeaderFormat(t *testing.T) {
	c, _ := newAuthContext("Token abc")

	handler := Auth(&stubResolver{token: "abc"})(func(c echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	})

	if err := handler(c); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected invalid token, got %v", err)
	}
}

func TestAuthMiddleware_InvalidToken(t *testing.T) {
	c, _ := newAuthContext("Bearer not-a-token")

	handler := Auth(&stubResolver{token: "good"})(func(c echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	})

	err := handler(c)
	if !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected an unauthenticated-kind error, got %v", err)
	}
	if _, ok := IdentityFrom(c); ok {
		t.Fatalf("identity must not be set on failure")
	}
}
