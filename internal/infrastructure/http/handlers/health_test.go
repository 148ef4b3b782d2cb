package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func readiness(t *testing.T, deps ...Dependency) (*httptest.ResponseRecorder, readinessResponse) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/health/ready", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := NewHealthDependenciesHandler(deps...).Readiness(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var body readinessResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	return rec, body
}

func ok(context.Context) error { return nil }

func TestReadiness_AllHealthy(t *testing.T) {
	rec, body := readiness(t, Dependency{Name: "mongodb", Check: ok}, Dependency{Name: "redis", Check: ok})

	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
	if body.Status != "ok" || len(body.Dependencies) != 2 {
		t.Errorf("unexpected body: %+v", body)
	}
}

func TestReadiness_OneDown(t *testing.T) {
	down := func(context.Context) error { return errors.New("connection refused") }
	rec, body := readiness(t, Dependency{Name: "postgres", Check: ok}, Dependency{Name: "redis", Check: down})

	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("expected 503, got %d", rec.Code)
	}
	if body.Status != "degraded" {
		t.Errorf("expected degraded, got %s", body.Status)
	}
	if body.Dependencies["redis"].Error != "connection refused" {
		t.Errorf("expected redis error, got %+v", body.Dependencies["redis"])
	}
	if body.Dependencies["postgres"].Status != "ok" {
		t.Errorf("expected postgres ok, got %+v", body.Dependencies["postgres"])
	}
}

func TestLiveness(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/health", nil), rec)

	if err := NewHealthHandler().Liveness(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
}
