package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/campuslink/campus-api/internal/core/domain"
	"github.com/campuslink/campus-api/internal/core/ports"
)

var student = domain.Identity{UserID: "s1"}

func TestReferralHandler_Apply_Success(t *testing.T) {
	stub := &stubReferralService{
		applyFn: func(ctx context.Context, actor domain.Identity, in ports.ApplyInput) (*domain.Application, error) {
			if actor.UserID != "s1" || in.ReferralID != "r1" || in.Message != "m1" {
				t.Fatalf("unexpected args: %+v %+v", actor, in)
			}
			return &domain.Application{ID: "a1", ReferralID: in.ReferralID, StudentID: actor.UserID, Status: domain.ApplicationPending}, nil
		},
	}
	handler := NewReferralHandler(stub)

	c, rec := newContext(http.MethodPost, "/v1/referrals/r1/applications", `{"message":"m1"}`, student)
	c.SetParamNames("id")
	c.SetParamValues("r1")

	if err := handler.Apply(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var resp struct {
		Data domain.Application `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.Data.Status != domain.ApplicationPending {
		t.Fatalf("expected pending, got %s", resp.Data.Status)
	}
}

func TestReferralHandler_Apply_Duplicate(t *testing.T) {
	stub := &stubReferralService{
		applyFn: func(ctx context.Context, actor domain.Identity, in ports.ApplyInput) (*domain.Application, error) {
			return nil, domain.ErrDuplicateApplication
		},
	}
	handler := NewReferralHandler(stub)

	c, _ := newContext(http.MethodPost, "/v1/referrals/r1/applications", `{"message":"m1"}`, student)
	c.SetParamNames("id")
	c.SetParamValues("r1")

	err := handler.Apply(c)
	if !errors.Is(err, domain.ErrDuplicateApplication) || !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected duplicate application conflict, got %v", err)
	}
}

func TestReferralHandler_Apply_InvalidResumeURL(t *testing.T) {
	stub := &stubReferralService{
		applyFn: func(ctx context.Context, actor domain.Identity, in ports.ApplyInput) (*domain.Application, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	handler := NewReferralHandler(stub)

	c, _ := newContext(http.MethodPost, "/v1/referrals/r1/applications", `{"message":"m1","resume_url":"not a url"}`, student)

	if err := handler.Apply(c); !errors.Is(err, domain.ErrInvalidArgument) {
		t.Fatalf("expected invalid argument, got %v", err)
	}
}

func TestReferralHandler_Decide_PassesStatus(t *testing.T) {
	stub := &stubReferralService{
		decideFn: func(ctx context.Context, actor domain.Identity, id, status string) (*domain.Application, error) {
			if id != "a1" || status != "accepted" {
				t.Fatalf("unexpected args: %s %s", id, status)
			}
			return &domain.Application{ID: id, Status: domain.ApplicationAccepted}, nil
		},
	}
	handler := NewReferralHandler(stub)

	c, rec := newContext(http.MethodPut, "/v1/applications/a1/status", `{"status":"accepted"}`, domain.Identity{UserID: "al1"})
	c.SetParamNames("id")
	c.SetParamValues("a1")

	if err := handler.Decide(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestReferralHandler_Post_AlumniRequired(t *testing.T) {
	stub := &stubReferralService{
		postFn: func(ctx context.Context, actor domain.Identity, in ports.ReferralInput) (*domain.Referral, error) {
			return nil, domain.ErrAlumniRequired
		},
	}
	handler := NewReferralHandler(stub)

	c, _ := newContext(http.MethodPost, "/v1/referrals", `{"job_title":"SWE","company":"Acme","description":"d"}`, student)

	err := handler.Post(c)
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected a forbidden-kind error, got %v", err)
	}
}
