package ports

import (
	"context"

	"github.com/campuslink/campus-api/internal/core/domain"
)

type ReferralInput struct {
	JobTitle     string
	Company      string
	Location     string
	Description  string
	ReferralLink string
}

type ApplyInput struct {
	ReferralID string
	Message    string
	ResumeURL  string
}

// ReferralService is the referral and application state machine.
type ReferralService interface {
	PostReferral(ctx context.Context, actor domain.Identity, in ReferralInput) (*domain.Referral, error)
	CloseReferral(ctx context.Context, actor domain.Identity, referralID string) (*domain.Referral, error)
	Apply(ctx context.Context, actor domain.Identity, in ApplyInput) (*domain.Application, error)
	DecideApplication(ctx context.Context, actor domain.Identity, applicationID, newStatus string) (*domain.Application, error)

	GetReferral(ctx context.Context, actor domain.Identity, referralID string) (*domain.Referral, error)
	ListOpen(ctx context.Context, actor domain.Identity) ([]*domain.Referral, error)
	ListMine(ctx context.Context, actor domain.Identity) ([]*domain.Referral, error)
	ListApplications(ctx context.Context, actor domain.Identity, referralID string) ([]*domain.Application, error)
	ListMyApplications(ctx context.Context, actor domain.Identity) ([]*domain.Application, error)
}

// Notifier delivers workflow notifications.
type Notifier interface {
	ApplicationSubmitted(ctx context.Context, app *domain.Application, referral *domain.Referral)
	ApplicationDecided(ctx context.Context, app *domain.Application, referral *domain.Referral)
}
