package ports

import (
	"context"
	"time"

	"github.com/campuslink/campus-api/internal/core/domain"
)

type ReferralRepository interface {
	Create(ctx context.Context, r *domain.Referral) error
	FindByID(ctx context.Context, id string) (*domain.Referral, error)
	ListByStatus(ctx context.Context, status domain.ReferralStatus) ([]*domain.Referral, error)
	ListByAlumnus(ctx context.Context, alumnusID string) ([]*domain.Referral, error)
	// UpdateStatus is a conditional single-row write: it only applies when
	// the stored status still equals from, and reports whether it did.
	UpdateStatus(ctx context.Context, id string, from, to domain.ReferralStatus, at time.Time) (bool, error)
}

// ApplicationRepository stores applications, unique per (referral, student).
type ApplicationRepository interface {
	// Create inserts an application. A duplicate pair yields domain.ErrDuplicateApplication.
	Create(ctx context.Context, a *domain.Application) error
	FindByID(ctx context.Context, id string) (*domain.Application, error)
	FindByReferralAndStudent(ctx context.Context, referralID, studentID string) (*domain.Application, error)
	ListByReferral(ctx context.Context, referralID string) ([]*domain.Application, error)
	ListByStudent(ctx context.Context, studentID string) ([]*domain.Application, error)
	// UpdateStatus is a conditional single-row write guarded by from.
	UpdateStatus(ctx context.Context, id string, from, to domain.ApplicationStatus, at time.Time) (bool, error)
}
