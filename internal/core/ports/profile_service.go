package ports

import (
	"context"
	"time"

	"github.com/campuslink/campus-api/internal/core/domain"
)

// ProfileView is the public profile of a user.
type ProfileView struct {
	Profile *domain.Profile
	Role    domain.Role
	Skills  []*domain.Skill
}

// JoinedCommunity pairs a membership with its community.
type JoinedCommunity struct {
	Community *domain.Community
	JoinedAt  time.Time
}

// FullProfile is visible to the user themselves and to admins.
type FullProfile struct {
	ProfileView
	Communities  []JoinedCommunity
	Referrals    []*domain.Referral
	Applications []*domain.Application
}

// AlumniResult is one hit of an alumni search.
type AlumniResult struct {
	Profile *domain.Profile
	Skills  []string
}

type ProfileService interface {
	GetProfile(ctx context.Context, actor domain.Identity, targetUserID string) (*ProfileView, error)
	GetFullProfile(ctx context.Context, actor domain.Identity, targetUserID string) (*FullProfile, error)
	UpdateProfile(ctx context.Context, actor domain.Identity, patch domain.ProfilePatch) (*domain.Profile, error)
	AddSkill(ctx context.Context, actor domain.Identity, name string) (*domain.Skill, error)
	RemoveSkill(ctx context.Context, actor domain.Identity, skillID string) error
	SearchAlumni(ctx context.Context, actor domain.Identity, query string) ([]AlumniResult, error)
}
