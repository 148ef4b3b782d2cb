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

	"github.com/campuslink/campus-api/internal/core/domain"
)

func render(t *testing.T, err error) (int, errorResponse) {
	t.Helper()
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

	NewHTTPErrorHandler(zerolog.Nop())(err, c)

	var body errorResponse
	if jerr := json.Unmarshal(rec.Body.Bytes(), &body); jerr != nil {
		t.Fatalf("invalid json: %v", jerr)
	}
	return rec.Code, body
}

func TestErrorHandler_KindMapping(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{domain.ErrInvalidToken, http.StatusUnauthorized, "invalid_token"},
		{domain.ErrNotMember, http.StatusForbidden, "not_member"},
		{domain.ErrInvalidRole, http.StatusBadRequest, "invalid_role"},
		{domain.ErrReferralNotFound, http.StatusNotFound, "referral_not_found"},
		{domain.ErrDuplicateApplication, http.StatusBadRequest, "duplicate_application"},
		{domain.ErrAlreadyMember, http.StatusBadRequest, "already_member"},
		{domain.Missing("title"), http.StatusBadRequest, "missing_field"},
	}
	for _, tc := range cases {
		status, body := render(t, tc.err)
		if status != tc.status || body.Code != tc.code {
			t.Errorf("%v: got %d %s, want %d %s", tc.err, status, body.Code, tc.status, tc.code)
		}
		if body.Success {
			t.Errorf("%v: success must be false", tc.err)
		}
	}
}

func TestErrorHandler_MissingFieldNamesField(t *testing.T) {
	_, body := render(t, domain.Missing("job_title"))
	if body.Error != "missing required field: job_title" {
		t.Errorf("unexpected message %q", body.Error)
	}
}

func TestErrorHandler_UpstreamHidesCause(t *testing.T) {
	status, body := render(t, domain.Upstream("insert referral", errors.New("pq: connection reset")))

	if status != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", status)
	}
	if body.Error != "internal server error" || body.Code != "upstream" {
		t.Errorf("cause leaked or wrong code: %+v", body)
	}
}

func TestErrorHandler_UnknownErrorIs500(t *testing.T) {
	status, body := render(t, fmt.Errorf("boom"))
	if status != http.StatusInternalServerError || body.Error != "internal server error" {
		t.Errorf("unexpected response %d %+v", status, body)
	}
}

func TestErrorHandler_EchoHTTPError(t *testing.T) {
	status, body := render(t, echo.ErrNotFound)
	if status != http.StatusNotFound || body.Code != "not_found" {
		t.Errorf("unexpected response %d %+v", status, body)
	}
}
