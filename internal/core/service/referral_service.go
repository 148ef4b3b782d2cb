package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/campuslink/campus-api/internal/core/domain"
	"github.com/campuslink/campus-api/internal/core/policy"
	"github.com/campuslink/campus-api/internal/core/ports"
)

// ReferralService runs the referral and application state machines. Every
// transition is checked against the current stored row and applied with a
// conditional write, so a stale precondition surfaces as
// domain.ErrInvalidStateTransition instead of a lost update.
type ReferralService struct {
	referrals    ports.ReferralRepository
	applications ports.ApplicationRepository
	roles        roleGate
	notifier     ports.Notifier
	logger       zerolog.Logger
}

func NewReferralService(
	referrals ports.ReferralRepository,
	applications ports.ApplicationRepository,
	roles ports.RoleService,
	notifier ports.Notifier,
	logger zerolog.Logger,
) *ReferralService {
	return &ReferralService{
		referrals:    referrals,
		applications: applications,
		roles:        roles,
		notifier:     notifier,
		logger:       logger,
	}
}

func (s *ReferralService) PostReferral(ctx context.Context, actor domain.Identity, in ports.ReferralInput) (*domain.Referral, error) {
	if err := requireIdentity(actor); err != nil {
		return nil, err
	}
	if err := requireRole(ctx, s.roles, actor.UserID, domain.RoleAlumni, domain.ErrAlumniRequired); err != nil {
		return nil, err
	}

	r := &domain.Referral{
		ID:           newID(),
		AlumnusID:    actor.UserID,
		JobTitle:     strings.TrimSpace(in.JobTitle),
		Company:      strings.TrimSpace(in.Company),
		Location:     strings.TrimSpace(in.Location),
		Description:  strings.TrimSpace(in.Description),
		ReferralLink: strings.TrimSpace(in.ReferralLink),
		Status:       domain.ReferralOpen,
	}
	switch {
	case r.JobTitle == "":
		return nil, domain.Missing("job_title")
	case r.Company == "":
		return nil, domain.Missing("company")
	case r.Description == "":
		return nil, domain.Missing("description")
	}

	now := time.Now().UTC()
	r.CreatedAt, r.UpdatedAt = now, now
	if err := s.referrals.Create(ctx, r); err != nil {
		return nil, storageErr("create referral", err)
	}

	s.logger.Info().Str("referral_id", r.ID).Str("alumnus_id", r.AlumnusID).Msg("referral posted")
	return r, nil
}

// CloseReferral moves an open referral to closed. Pending applications keep
// their own status.
func (s *ReferralService) CloseReferral(ctx context.Context, actor domain.Identity, referralID string) (*domain.Referral, error) {
	if err := requireIdentity(actor); err != nil {
		return nil, err
	}
	r, err := s.referrals.FindByID(ctx, referralID)
	if err != nil {
		return nil, storageErr("find referral", err)
	}
	if !policy.CanMutateReferral(actor.UserID, r) {
		return nil, domain.ErrNotOwner
	}
	if !r.Status.CanTransitionTo(domain.ReferralClosed) {
		return nil, domain.ErrInvalidStateTransition
	}

	now := time.Now().UTC()
	applied, err := s.referrals.UpdateStatus(ctx, r.ID, r.Status, domain.ReferralClosed, now)
	if err != nil {
		return nil, domain.Upstream("close referral", err)
	}
	if !applied {
		return nil, domain.ErrInvalidStateTransition
	}
	r.Status, r.UpdatedAt = domain.ReferralClosed, now

	s.logger.Info().Str("referral_id", r.ID).Msg("referral closed")
	return r, nil
}

// Apply submits the caller's application to an open referral. The lookup
// for an existing application only produces the friendly error early; the
// storage uniqueness constraint is what actually holds the invariant.
func (s *ReferralService) Apply(ctx context.Context, actor domain.Identity, in ports.ApplyInput) (*domain.Application, error) {
	if err := requireIdentity(actor); err != nil {
		return nil, err
	}
	if err := requireRole(ctx, s.roles, actor.UserID, domain.RoleStudent, domain.ErrStudentRequired); err != nil {
		return nil, err
	}

	message := strings.TrimSpace(in.Message)
	switch {
	case in.ReferralID == "":
		return nil, domain.Missing("referral_id")
	case message == "":
		return nil, domain.Missing("message")
	}

	r, err := s.referrals.FindByID(ctx, in.ReferralID)
	if err != nil {
		return nil, storageErr("find referral", err)
	}
	if r.Status != domain.ReferralOpen {
		return nil, domain.ErrReferralClosed
	}

	existing, err := s.applications.FindByReferralAndStudent(ctx, r.ID, actor.UserID)
	switch {
	case err == nil && existing != nil:
		return nil, domain.ErrDuplicateApplication
	case err != nil && !errors.Is(err, domain.ErrApplicationNotFound):
		return nil, domain.Upstream("find application", err)
	}

	now := time.Now().UTC()
	app := &domain.Application{
		ID:         newID(),
		ReferralID: r.ID,
		StudentID:  actor.UserID,
		Message:    message,
		ResumeURL:  strings.TrimSpace(in.ResumeURL),
		Status:     domain.ApplicationPending,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.applications.Create(ctx, app); err != nil {
		return nil, storageErr("create application", err)
	}

	s.logger.Info().Str("application_id", app.ID).Str("referral_id", r.ID).Str("student_id", actor.UserID).Msg("application submitted")
	s.notifier.ApplicationSubmitted(ctx, app, r)
	return app, nil
}

// DecideApplication accepts or rejects a pending application on behalf of
// the referral owner.
func (s *ReferralService) DecideApplication(ctx context.Context, actor domain.Identity, applicationID, newStatus string) (*domain.Application, error) {
	if err := requireIdentity(actor); err != nil {
		return nil, err
	}
	next, err := domain.ParseDecision(newStatus)
	if err != nil {
		return nil, err
	}

	app, err := s.applications.FindByID(ctx, applicationID)
	if err != nil {
		return nil, storageErr("find application", err)
	}
	r, err := s.referrals.FindByID(ctx, app.ReferralID)
	if err != nil {
		return nil, storageErr("find referral", err)
	}
	if !policy.CanDecideApplication(actor.UserID, app, r) {
		return nil, domain.ErrNotReferralOwner
	}
	if !app.Status.CanTransitionTo(next) {
		return nil, domain.ErrInvalidStateTransition
	}

	now := time.Now().UTC()
	applied, err := s.applications.UpdateStatus(ctx, app.ID, app.Status, next, now)
	if err != nil {
		return nil, domain.Upstream("update application status", err)
	}
	if !applied {
		return nil, domain.ErrInvalidStateTransition
	}
	app.Status, app.UpdatedAt = next, now

	s.logger.Info().Str("application_id", app.ID).Str("status", string(next)).Str("actor_id", actor.UserID).Msg("application decided")
	s.notifier.ApplicationDecided(ctx, app, r)
	return app, nil
}

func (s *ReferralService) GetReferral(ctx context.Context, actor domain.Identity, referralID string) (*domain.Referral, error) {
	if err := requireIdentity(actor); err != nil {
		return nil, err
	}
	r, err := s.referrals.FindByID(ctx, referralID)
	if err != nil {
		return nil, storageErr("find referral", err)
	}
	return r, nil
}

func (s *ReferralService) ListOpen(ctx context.Context, actor domain.Identity) ([]*domain.Referral, error) {
	if err := requireIdentity(actor); err != nil {
		return nil, err
	}
	list, err := s.referrals.ListByStatus(ctx, domain.ReferralOpen)
	if err != nil {
		return nil, domain.Upstream("list referrals", err)
	}
	return list, nil
}

// ListMine returns the referrals the caller posted, whatever their status.
func (s *ReferralService) ListMine(ctx context.Context, actor domain.Identity) ([]*domain.Referral, error) {
	if err := requireIdentity(actor); err != nil {
		return nil, err
	}
	list, err := s.referrals.ListByAlumnus(ctx, actor.UserID)
	if err != nil {
		return nil, domain.Upstream("list referrals", err)
	}
	return list, nil
}

// ListApplications is visible to the referral owner only.
func (s *ReferralService) ListApplications(ctx context.Context, actor domain.Identity, referralID string) ([]*domain.Application, error) {
	if err := requireIdentity(actor); err != nil {
		return nil, err
	}
	r, err := s.referrals.FindByID(ctx, referralID)
	if err != nil {
		return nil, storageErr("find referral", err)
	}
	if !policy.CanMutateReferral(actor.UserID, r) {
		return nil, domain.ErrNotReferralOwner
	}
	list, err := s.applications.ListByReferral(ctx, r.ID)
	if err != nil {
		return nil, domain.Upstream("list applications", err)
	}
	return list, nil
}

func (s *ReferralService) ListMyApplications(ctx context.Context, actor domain.Identity) ([]*domain.Application, error) {
	if err := requireIdentity(actor); err != nil {
		return nil, err
	}
	list, err := s.applications.ListByStudent(ctx, actor.UserID)
	if err != nil {
		return nil, domain.Upstream("list applications", err)
	}
	return list, nil
}
