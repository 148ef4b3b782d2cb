package ports

import (
	"context"

	"github.com/campuslink/campus-api/internal/core/domain"
)

type PostRepository interface {
	Create(ctx context.Context, p *domain.Post) error
	Update(ctx context.Context, p *domain.Post) error
	// Delete removes the post with its comments and likes.
	Delete(ctx context.Context, id string) error
	FindByID(ctx context.Context, id string) (*domain.Post, error)
	// ListByCommunity returns posts newest first; ties keep insertion order.
	ListByCommunity(ctx context.Context, communityID string) ([]*domain.Post, error)
	CountByCommunity(ctx context.Context, communityID string) (int64, error)
}

type CommentRepository interface {
	Create(ctx context.Context, c *domain.Comment) error
	Delete(ctx context.Context, id string) error
	FindByID(ctx context.Context, id string) (*domain.Comment, error)
	// ListByPost returns comments oldest first.
	ListByPost(ctx context.Context, postID string) ([]*domain.Comment, error)
	CountByPost(ctx context.Context, postID string) (int64, error)
}

// LikeRepository stores like facts, unique per (post, user). Counts are
// always derived by cardinality.
type LikeRepository interface {
	// Insert adds a like. A duplicate pair yields domain.ErrAlreadyLiked.
	Insert(ctx context.Context, l *domain.Like) error
	// Delete removes the like and reports whether a row was removed.
	Delete(ctx context.Context, postID, userID string) (bool, error)
	Exists(ctx context.Context, postID, userID string) (bool, error)
	CountByPost(ctx context.Context, postID string) (int64, error)
}
