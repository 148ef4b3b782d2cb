package service

import (
	"context"
	"errors"
	"testing"

	"github.com/campuslink/campus-api/internal/core/domain"
	"github.com/campuslink/campus-api/internal/core/ports"
)

type referralFixture struct {
	svc          *ReferralService
	referrals    *stubReferralRepo
	applications *stubApplicationRepo
	notifier     *recordingNotifier
}

// newReferralFixture knows alumni "alum" and "alum2"; every other user
// resolves to student.
func newReferralFixture() *referralFixture {
	roles := newStubRoleRepo()
	roles.set("alum", domain.RoleAlumni)
	roles.set("alum2", domain.RoleAlumni)
	roles.set("root", domain.RoleAdmin)
	f := &referralFixture{
		referrals:    newStubReferralRepo(),
		applications: newStubApplicationRepo(),
		notifier:     &recordingNotifier{},
	}
	f.svc = NewReferralService(f.referrals, f.applications, NewRoleService(roles, newStubAccountRepo(), discardLogger), f.notifier, discardLogger)
	return f
}

func (f *referralFixture) postReferral(t *testing.T) *domain.Referral {
	t.Helper()
	r, err := f.svc.PostReferral(context.Background(), who("alum"), ports.ReferralInput{
		JobTitle:    "Backend Engineer",
		Company:     "Acme",
		Description: "Go services",
	})
	if err != nil {
		t.Fatalf("post referral: %v", err)
	}
	return r
}

func (f *referralFixture) apply(t *testing.T, student, referralID string) *domain.Application {
	t.Helper()
	app, err := f.svc.Apply(context.Background(), who(student), ports.ApplyInput{ReferralID: referralID, Message: "m1"})
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	return app
}

func (f *referralFixture) countFor(referralID, student string) int {
	n := 0
	for _, a := range f.applications.byID {
		if a.ReferralID == referralID && a.StudentID == student {
			n++
		}
	}
	return n
}

func TestReferralService_PostReferral_AlumniOnly(t *testing.T) {
	f := newReferralFixture()
	in := ports.ReferralInput{JobTitle: "SWE", Company: "Acme", Description: "d"}

	for _, actor := range []string{"s1", "root"} {
		if _, err := f.svc.PostReferral(context.Background(), who(actor), in); !errors.Is(err, domain.ErrAlumniRequired) {
			t.Errorf("%s: expected ErrAlumniRequired, got %v", actor, err)
		}
	}

	r := f.postReferral(t)
	if r.Status != domain.ReferralOpen || r.AlumnusID != "alum" {
		t.Errorf("unexpected referral %+v", r)
	}
}

func TestReferralService_PostReferral_MissingField(t *testing.T) {
	f := newReferralFixture()

	_, err := f.svc.PostReferral(context.Background(), who("alum"), ports.ReferralInput{JobTitle: "SWE", Description: "d"})
	if !errors.Is(err, domain.ErrInvalidArgument) {
		t.Fatalf("expected invalid argument, got %v", err)
	}
}

func TestReferralService_Apply_DuplicateScenario(t *testing.T) {
	f := newReferralFixture()
	r := f.postReferral(t)

	app := f.apply(t, "s1", r.ID)
	if app.Status != domain.ApplicationPending {
		t.Fatalf("expected pending, got %q", app.Status)
	}

	_, err := f.svc.Apply(context.Background(), who("s1"), ports.ApplyInput{ReferralID: r.ID, Message: "again"})
	if !errors.Is(err, domain.ErrDuplicateApplication) {
		t.Fatalf("expected ErrDuplicateApplication, got %v", err)
	}
	if n := f.countFor(r.ID, "s1"); n != 1 {
		t.Errorf("expected exactly one application row, got %d", n)
	}
	if len(f.notifier.submitted) != 1 {
		t.Errorf("expected one submission notification, got %d", len(f.notifier.submitted))
	}
}

func TestReferralService_Apply_RaceCaughtByStorage(t *testing.T) {
	f := newReferralFixture()
	r := f.postReferral(t)
	f.apply(t, "s1", r.ID)
	f.applications.hidePairs = true

	_, err := f.svc.Apply(context.Background(), who("s1"), ports.ApplyInput{ReferralID: r.ID, Message: "racing"})
	if !errors.Is(err, domain.ErrDuplicateApplication) {
		t.Fatalf("expected ErrDuplicateApplication from storage, got %v", err)
	}
	if errors.Is(err, domain.ErrUpstream) {
		t.Error("unique violation must not surface as upstream")
	}
	if n := f.countFor(r.ID, "s1"); n != 1 {
		t.Errorf("expected exactly one application row, got %d", n)
	}
}

func TestReferralService_Apply_ClosedReferralRejected(t *testing.T) {
	f := newReferralFixture()
	r := f.postReferral(t)
	if _, err := f.svc.CloseReferral(context.Background(), who("alum"), r.ID); err != nil {
		t.Fatalf("close: %v", err)
	}

	_, err := f.svc.Apply(context.Background(), who("s1"), ports.ApplyInput{ReferralID: r.ID, Message: "late"})
	if !errors.Is(err, domain.ErrReferralClosed) {
		t.Fatalf("expected ErrReferralClosed, got %v", err)
	}
	if f.countFor(r.ID, "s1") != 0 {
		t.Error("no application may be stored for a closed referral")
	}
}

func TestReferralService_Apply_StudentsOnly(t *testing.T) {
	f := newReferralFixture()
	r := f.postReferral(t)

	_, err := f.svc.Apply(context.Background(), who("alum2"), ports.ApplyInput{ReferralID: r.ID, Message: "m"})
	if !errors.Is(err, domain.ErrStudentRequired) {
		t.Fatalf("expected ErrStudentRequired, got %v", err)
	}
}

func TestReferralService_Apply_UnknownReferral(t *testing.T) {
	f := newReferralFixture()

	_, err := f.svc.Apply(context.Background(), who("s1"), ports.ApplyInput{ReferralID: "missing", Message: "m"})
	if !errors.Is(err, domain.ErrReferralNotFound) {
		t.Fatalf("expected ErrReferralNotFound, got %v", err)
	}
}

func TestReferralService_Decide_TerminalScenario(t *testing.T) {
	f := newReferralFixture()
	r := f.postReferral(t)
	app := f.apply(t, "s1", r.ID)
	ctx := context.Background()

	decided, err := f.svc.DecideApplication(ctx, who("alum"), app.ID, "accepted")
	if err != nil {
		t.Fatalf("accept: %v", err)
	}
	if decided.Status != domain.ApplicationAccepted {
		t.Fatalf("expected accepted, got %q", decided.Status)
	}

	_, err = f.svc.DecideApplication(ctx, who("alum"), app.ID, "rejected")
	if !errors.Is(err, domain.ErrInvalidStateTransition) {
		t.Fatalf("expected ErrInvalidStateTransition, got %v", err)
	}
	if got := f.applications.byID[app.ID].Status; got != domain.ApplicationAccepted {
		t.Errorf("status must remain accepted, got %q", got)
	}
	if len(f.notifier.decided) != 1 {
		t.Errorf("expected one decision notification, got %v", f.notifier.decided)
	}
}

func TestReferralService_Decide_NonOwnerForbidden(t *testing.T) {
	f := newReferralFixture()
	r := f.postReferral(t)
	app := f.apply(t, "s1", r.ID)
	ctx := context.Background()

	for _, actor := range []string{"s2", "s1", "alum2", "root"} {
		_, err := f.svc.DecideApplication(ctx, who(actor), app.ID, "accepted")
		if !errors.Is(err, domain.ErrForbidden) {
			t.Errorf("%s: expected forbidden, got %v", actor, err)
		}
	}
	if got := f.applications.byID[app.ID].Status; got != domain.ApplicationPending {
		t.Errorf("status must remain pending, got %q", got)
	}
}

func TestReferralService_Decide_InvalidStatus(t *testing.T) {
	f := newReferralFixture()
	r := f.postReferral(t)
	app := f.apply(t, "s1", r.ID)

	for _, status := range []string{"pending", "withdrawn", ""} {
		_, err := f.svc.DecideApplication(context.Background(), who("alum"), app.ID, status)
		if !errors.Is(err, domain.ErrInvalidStatus) {
			t.Errorf("%q: expected ErrInvalidStatus, got %v", status, err)
		}
	}
}

func TestReferralService_Decide_StaleWriteLoses(t *testing.T) {
	f := newReferralFixture()
	r := f.postReferral(t)
	app := f.apply(t, "s1", r.ID)

	// Another writer moved the row after we would have read it.
	f.applications.byID[app.ID].Status = domain.ApplicationRejected
	_, err := f.svc.DecideApplication(context.Background(), who("alum"), app.ID, "accepted")
	if !errors.Is(err, domain.ErrInvalidStateTransition) {
		t.Fatalf("expected ErrInvalidStateTransition, got %v", err)
	}
}

func TestReferralService_Close_OwnerOnlyAndNoCascade(t *testing.T) {
	f := newReferralFixture()
	r := f.postReferral(t)
	app := f.apply(t, "s1", r.ID)
	ctx := context.Background()

	if _, err := f.svc.CloseReferral(ctx, who("alum2"), r.ID); !errors.Is(err, domain.ErrNotOwner) {
		t.Fatalf("expected ErrNotOwner, got %v", err)
	}
	closed, err := f.svc.CloseReferral(ctx, who("alum"), r.ID)
	if err != nil {
		t.Fatalf("close: %v", err)
	}
	if closed.Status != domain.ReferralClosed {
		t.Errorf("expected closed, got %q", closed.Status)
	}
	if got := f.applications.byID[app.ID].Status; got != domain.ApplicationPending {
		t.Errorf("closing must not touch pending applications, got %q", got)
	}

	if _, err := f.svc.CloseReferral(ctx, who("alum"), r.ID); !errors.Is(err, domain.ErrInvalidStateTransition) {
		t.Errorf("closing twice: expected ErrInvalidStateTransition, got %v", err)
	}

	// The owner can still decide applications of a closed referral.
	if _, err := f.svc.DecideApplication(ctx, who("alum"), app.ID, "rejected"); err != nil {
		t.Errorf("decide after close: %v", err)
	}
}

func TestReferralService_Listings(t *testing.T) {
	f := newReferralFixture()
	r := f.postReferral(t)
	f.apply(t, "s1", r.ID)
	f.apply(t, "s2", r.ID)
	ctx := context.Background()

	open, err := f.svc.ListOpen(ctx, who("s3"))
	if err != nil || len(open) != 1 {
		t.Fatalf("list open: %v %d", err, len(open))
	}
	mine, _ := f.svc.ListMine(ctx, who("alum"))
	if len(mine) != 1 {
		t.Errorf("expected one own referral, got %d", len(mine))
	}
	apps, err := f.svc.ListApplications(ctx, who("alum"), r.ID)
	if err != nil || len(apps) != 2 {
		t.Fatalf("list applications: %v %d", err, len(apps))
	}
	if _, err := f.svc.ListApplications(ctx, who("s1"), r.ID); !errors.Is(err, domain.ErrNotReferralOwner) {
		t.Errorf("applicant must not list applications, got %v", err)
	}
	myApps, _ := f.svc.ListMyApplications(ctx, who("s1"))
	if len(myApps) != 1 || myApps[0].StudentID != "s1" {
		t.Errorf("unexpected own applications %+v", myApps)
	}
}
