package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/campuslink/campus-api/internal/api/middleware"
	"github.com/campuslink/campus-api/internal/core/domain"
)

// ctxIdentity extracts the identity injected by the Auth middleware and
// fails fast before any service call when it is absent.
func ctxIdentity(c echo.Context) (domain.Identity, error) {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		return domain.Identity{}, domain.ErrUnauthenticated
	}
	return identity, nil
}

// bind decodes and validates a request body. Both failures are reported as
// invalid arguments.
func bind(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return domain.Invalid("invalid payload")
	}
	if err := c.Validate(req); err != nil {
		return domain.Invalid(err.Error())
	}
	return nil
}

// envelope is the success body of every API response.
type envelope struct {
	Success bool `json:"success"`
	Data    any  `json:"data,omitempty"`
}

func respond(c echo.Context, status int, data any) error {
	return c.JSON(status, envelope{Success: true, Data: data})
}

// errorDoc documents the error envelope rendered by the API error handler.
type errorDoc struct {
	Success bool   `json:"success" example:"false"`
	Error   string `json:"error"`
	Code    string `json:"code"`
}
