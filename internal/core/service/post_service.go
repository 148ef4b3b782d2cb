package service

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/campuslink/campus-api/internal/core/domain"
	"github.com/campuslink/campus-api/internal/core/policy"
	"github.com/campuslink/campus-api/internal/core/ports"
)

// memberGate is the part of the Membership Gate content services depend on.
type memberGate interface {
	RequireMember(ctx context.Context, userID, communityID string) error
}

type PostService struct {
	posts    ports.PostRepository
	comments ports.CommentRepository
	gate     memberGate
	logger   zerolog.Logger
}

func NewPostService(posts ports.PostRepository, comments ports.CommentRepository, gate ports.MembershipService, logger zerolog.Logger) *PostService {
	return &PostService{posts: posts, comments: comments, gate: gate, logger: logger}
}

func (s *PostService) CreatePost(ctx context.Context, actor domain.Identity, communityID string, in ports.PostInput) (*domain.Post, error) {
	if err := requireIdentity(actor); err != nil {
		return nil, err
	}
	if err := s.gate.RequireMember(ctx, actor.UserID, communityID); err != nil {
		return nil, err
	}

	title := strings.TrimSpace(in.Title)
	content := strings.TrimSpace(in.Content)
	switch {
	case title == "":
		return nil, domain.Missing("title")
	case content == "":
		return nil, domain.Missing("content")
	case in.Type == "":
		return nil, domain.Missing("type")
	}
	postType, err := domain.ParsePostType(in.Type)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	p := &domain.Post{
		ID:          newID(),
		CommunityID: communityID,
		AuthorID:    actor.UserID,
		Title:       title,
		Content:     content,
		Type:        postType,
		MediaURL:    strings.TrimSpace(in.MediaURL),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.posts.Create(ctx, p); err != nil {
		return nil, storageErr("create post", err)
	}

	s.logger.Info().Str("post_id", p.ID).Str("community_id", communityID).Str("author_id", actor.UserID).Msg("post created")
	return p, nil
}

// UpdatePost edits a post. The caller must be its author and still a member
// of the community.
func (s *PostService) UpdatePost(ctx context.Context, actor domain.Identity, postID string, in ports.PostInput) (*domain.Post, error) {
	p, err := s.ownedPost(ctx, actor, postID)
	if err != nil {
		return nil, err
	}

	if in.Type != "" {
		t, err := domain.ParsePostType(in.Type)
		if err != nil {
			return nil, err
		}
		p.Type = t
	}
	if v := strings.TrimSpace(in.Title); v != "" {
		p.Title = v
	}
	if v := strings.TrimSpace(in.Content); v != "" {
		p.Content = v
	}
	if in.MediaURL != "" {
		p.MediaURL = strings.TrimSpace(in.MediaURL)
	}
	p.UpdatedAt = time.Now().UTC()

	if err := s.posts.Update(ctx, p); err != nil {
		return nil, storageErr("update post", err)
	}
	s.logger.Info().Str("post_id", p.ID).Msg("post updated")
	return p, nil
}

func (s *PostService) DeletePost(ctx context.Context, actor domain.Identity, postID string) error {
	p, err := s.ownedPost(ctx, actor, postID)
	if err != nil {
		return err
	}
	if err := s.posts.Delete(ctx, p.ID); err != nil {
		return storageErr("delete post", err)
	}
	s.logger.Info().Str("post_id", p.ID).Msg("post deleted")
	return nil
}

func (s *PostService) AddComment(ctx context.Context, actor domain.Identity, postID, content string) (*domain.Comment, error) {
	if _, err := s.visiblePost(ctx, actor, postID); err != nil {
		return nil, err
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, domain.Missing("content")
	}

	c := &domain.Comment{
		ID:        newID(),
		PostID:    postID,
		UserID:    actor.UserID,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.comments.Create(ctx, c); err != nil {
		return nil, storageErr("create comment", err)
	}
	s.logger.Info().Str("comment_id", c.ID).Str("post_id", postID).Msg("comment added")
	return c, nil
}

func (s *PostService) ListComments(ctx context.Context, actor domain.Identity, postID string) ([]*domain.Comment, error) {
	if _, err := s.visiblePost(ctx, actor, postID); err != nil {
		return nil, err
	}
	list, err := s.comments.ListByPost(ctx, postID)
	if err != nil {
		return nil, domain.Upstream("list comments", err)
	}
	return list, nil
}

// DeleteComment lets a comment's author remove it.
func (s *PostService) DeleteComment(ctx context.Context, actor domain.Identity, commentID string) error {
	if err := requireIdentity(actor); err != nil {
		return err
	}
	c, err := s.comments.FindByID(ctx, commentID)
	if err != nil {
		return storageErr("find comment", err)
	}
	if !policy.CanDeleteComment(actor.UserID, c) {
		return domain.ErrNotOwner
	}
	if err := s.comments.Delete(ctx, c.ID); err != nil {
		return storageErr("delete comment", err)
	}
	s.logger.Info().Str("comment_id", c.ID).Msg("comment deleted")
	return nil
}

// visiblePost loads a post and checks the caller belongs to its community.
func (s *PostService) visiblePost(ctx context.Context, actor domain.Identity, postID string) (*domain.Post, error) {
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
	return p, nil
}

func (s *PostService) ownedPost(ctx context.Context, actor domain.Identity, postID string) (*domain.Post, error) {
	p, err := s.visiblePost(ctx, actor, postID)
	if err != nil {
		return nil, err
	}
	if !policy.CanMutatePost(actor.UserID, p) {
		return nil, domain.ErrNotOwner
	}
	return p, nil
}
