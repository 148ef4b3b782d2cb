package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/campuslink/campus-api/internal/api/metrics"
	"github.com/campuslink/campus-api/internal/core/domain"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Code    string `json:"code"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps domain error kinds to HTTP status codes.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders a consistent JSON envelope: {"success": false, "error": "<message>", "code": "<code>"}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status, body := resolveError(err, log, c)
		metrics.ErrorsTotal.WithLabelValues(body.Code).Inc()
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(status)
			return
		}
		_ = c.JSON(status, body)
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, errorResponse) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, errorResponse{Error: fmt.Sprintf("%v", he.Message), Code: httpCode(he.Code)}
	}

	var de *domain.Error
	if errors.As(err, &de) && de.Kind != domain.KindUpstream {
		// Missing-field errors carry the field name in the wrapping message.
		return statusFor(de.Kind), errorResponse{Error: err.Error(), Code: de.Code}
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Str("request_id", c.Response().Header().Get(echo.HeaderXRequestID)).
		Msg("unhandled error")

	return http.StatusInternalServerError, errorResponse{
		Error: domain.ErrUpstream.Message,
		Code:  domain.ErrUpstream.Code,
	}
}

func statusFor(kind domain.Kind) int {
	switch kind {
	case domain.KindUnauthenticated:
		return http.StatusUnauthorized
	case domain.KindForbidden:
		return http.StatusForbidden
	case domain.KindNotFound:
		return http.StatusNotFound
	case domain.KindInvalidArgument, domain.KindConflict:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func httpCode(status int) string {
	switch status {
	case http.StatusBadRequest:
		return domain.ErrInvalidArgument.Code
	case http.StatusUnauthorized:
		return domain.ErrUnauthenticated.Code
	case http.StatusForbidden:
		return domain.ErrForbidden.Code
	case http.StatusNotFound:
		return domain.ErrNotFound.Code
	case http.StatusMethodNotAllowed:
		return "method_not_allowed"
	default:
		if status >= http.StatusInternalServerError {
			return domain.ErrUpstream.Code
		}
		return "http_error"
	}
}
