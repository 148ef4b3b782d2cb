package ports

import (
	"context"

	"github.com/campuslink/campus-api/internal/core/domain"
)

// RoleService resolves and administers roles.
type RoleService interface {
	// GetRole returns domain.DefaultRole when no explicit row exists.
	GetRole(ctx context.Context, userID string) (domain.Role, error)
	// EnsureDefault persists the default row when absent and returns the current role.
	EnsureDefault(ctx context.Context, userID string) (domain.Role, error)
	SetRole(ctx context.Context, actor domain.Identity, targetUserID, newRole string) (*domain.RoleAssignment, error)
}

// MembershipService is the community membership gate.
type MembershipService interface {
	IsMember(ctx context.Context, userID, communityID string) (bool, error)
	// RequireMember fails with domain.ErrNotMember when no join record exists.
	RequireMember(ctx context.Context, userID, communityID string) error
	Join(ctx context.Context, actor domain.Identity, communityID string) (*domain.Membership, error)
	ListMembers(ctx context.Context, actor domain.Identity, communityID string) ([]*domain.Membership, error)
}
