package ports

import (
	"context"

	"github.com/campuslink/campus-api/internal/core/domain"
)

type CommunityRepository interface {
	// Create inserts a community. A duplicate slug yields domain.ErrSlugTaken.
	Create(ctx context.Context, c *domain.Community) error
	Update(ctx context.Context, c *domain.Community) error
	// Delete removes the community with its memberships, posts, comments, and likes.
	Delete(ctx context.Context, id string) error
	FindByID(ctx context.Context, id string) (*domain.Community, error)
	FindBySlug(ctx context.Context, slug string) (*domain.Community, error)
	List(ctx context.Context) ([]*domain.Community, error)
}

// MembershipRepository stores join records, unique per (community, user).
type MembershipRepository interface {
	// Create inserts a membership. A duplicate pair yields domain.ErrAlreadyMember.
	Create(ctx context.Context, m *domain.Membership) error
	Exists(ctx context.Context, communityID, userID string) (bool, error)
	ListByCommunity(ctx context.Context, communityID string) ([]*domain.Membership, error)
	ListByUser(ctx context.Context, userID string) ([]*domain.Membership, error)
	CountByCommunity(ctx context.Context, communityID string) (int64, error)
}
