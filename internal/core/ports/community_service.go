package ports

import (
	"context"

	"github.com/campuslink/campus-api/internal/core/domain"
)

type CommunityInput struct {
	Name        string
	Slug        string
	Description string
}

type CommunityStatsResult struct {
	Community *domain.Community
	Stats     domain.CommunityStats
}

// CommunityService administers communities. Reads are open to any
// authenticated caller; mutations are admin-only.
type CommunityService interface {
	Create(ctx context.Context, actor domain.Identity, in CommunityInput) (*domain.Community, error)
	Update(ctx context.Context, actor domain.Identity, id string, in CommunityInput) (*domain.Community, error)
	Delete(ctx context.Context, actor domain.Identity, id string) error
	Stats(ctx context.Context, actor domain.Identity, id string) (*CommunityStatsResult, error)
	// Get accepts either an id or a slug.
	Get(ctx context.Context, actor domain.Identity, idOrSlug string) (*domain.Community, error)
	List(ctx context.Context, actor domain.Identity) ([]*domain.Community, error)
}

type PostInput struct {
	Title    string
	Content  string
	Type     string
	MediaURL string
}

// PostService manages community posts and comments under the membership gate.
type PostService interface {
	CreatePost(ctx context.Context, actor domain.Identity, communityID string, in PostInput) (*domain.Post, error)
	UpdatePost(ctx context.Context, actor domain.Identity, postID string, in PostInput) (*domain.Post, error)
	DeletePost(ctx context.Context, actor domain.Identity, postID string) error
	AddComment(ctx context.Context, actor domain.Identity, postID, content string) (*domain.Comment, error)
	ListComments(ctx context.Context, actor domain.Identity, postID string) ([]*domain.Comment, error)
	DeleteComment(ctx context.Context, actor domain.Identity, commentID string) error
}

type LikeResult struct {
	Action     domain.LikeAction
	Liked      bool
	LikesCount int64
}

// FeedService assembles point-in-time community feeds.
type FeedService interface {
	GetFeed(ctx context.Context, actor domain.Identity, communityID string) ([]domain.FeedItem, error)
	ToggleLike(ctx context.Context, actor domain.Identity, postID string) (*LikeResult, error)
}
