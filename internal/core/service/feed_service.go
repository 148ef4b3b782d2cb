package service

import (
	"context"
	"errors"
	"slices"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/campuslink/campus-api/internal/core/domain"
	"github.com/campuslink/campus-api/internal/core/ports"
)

// FeedService is the Feed Assembler. Every counter is derived at read time;
// nothing is cached between calls.
type FeedService struct {
	posts    ports.PostRepository
	comments ports.CommentRepository
	likes    ports.LikeRepository
	gate     memberGate
	logger   zerolog.Logger
}

func NewFeedService(
	posts ports.PostRepository,
	comments ports.CommentRepository,
	likes ports.LikeRepository,
	gate ports.MembershipService,
	logger zerolog.Logger,
) *FeedService {
	return &FeedService{posts: posts, comments: comments, likes: likes, gate: gate, logger: logger}
}

// GetFeed returns the community's posts newest first, each annotated with its
// like and comment counts and whether the viewer liked it.
func (s *FeedService) GetFeed(ctx context.Context, actor domain.Identity, communityID string) ([]domain.FeedItem, error) {
	if err := requireIdentity(actor); err != nil {
		return nil, err
	}
	if err := s.gate.RequireMember(ctx, actor.UserID, communityID); err != nil {
		return nil, err
	}

	posts, err := s.posts.ListByCommunity(ctx, communityID)
	if err != nil {
		return nil, domain.Upstream("list posts", err)
	}
	slices.SortStableFunc(posts, newestFirst)

	items := make([]domain.FeedItem, 0, len(posts))
	for _, p := range posts {
		item := domain.FeedItem{Post: *p}
		if item.LikesCount, err = s.likes.CountByPost(ctx, p.ID); err != nil {
			return nil, domain.Upstream("count likes", err)
		}
		if item.CommentsCount, err = s.comments.CountByPost(ctx, p.ID); err != nil {
			return nil, domain.Upstream("count comments", err)
		}
		if item.ViewerHasLiked, err = s.likes.Exists(ctx, p.ID, actor.UserID); err != nil {
			return nil, domain.Upstream("check like", err)
		}
		items = append(items, item)
	}
	return items, nil
}

// ToggleLike inverts the caller's like on a post. When a concurrent toggle
// lands first, the storage uniqueness guard decides and the result reports
// the state actually stored.
func (s *FeedService) ToggleLike(ctx context.Context, actor domain.Identity, postID string) (*ports.LikeResult, error) {
	if err := requireIdentity(actor); err != nil {
		return nil, err
	}
	p, err := s.posts.FindByID(ctx, postID)
	if err != nil {
		return nil, storageErr("find post", err)
	}
	if err := s.gate.RequireMember(ctx, actor.UserID, p.CommunityID); err != nil {
		return nil, err
	}

	liked, err := s.likes.Exists(ctx, postID, actor.UserID)
	if err != nil {
		return nil, domain.Upstream("check like", err)
	}

	action := domain.ActionLiked
	if liked {
		if _, err := s.likes.Delete(ctx, postID, actor.UserID); err != nil {
			return nil, domain.Upstream("delete like", err)
		}
		action = domain.ActionUnliked
	} else {
		err := s.likes.Insert(ctx, &domain.Like{PostID: postID, UserID: actor.UserID, CreatedAt: time.Now().UTC()})
		if err != nil && !errors.Is(err, domain.ErrAlreadyLiked) {
			return nil, storageErr("insert like", err)
		}
	}

	count, err := s.likes.CountByPost(ctx, postID)
	if err != nil {
		return nil, domain.Upstream("count likes", err)
	}

	s.logger.Debug().Str("post_id", postID).Str("user_id", actor.UserID).Str("action", string(action)).Msg("like toggled")
	return &ports.LikeResult{Action: action, Liked: action == domain.ActionLiked, LikesCount: count}, nil
}

func newestFirst(a, b *domain.Post) int {
	if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
		return c
	}
	return strings.Compare(b.ID, a.ID)
}
