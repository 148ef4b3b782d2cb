package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/campuslink/campus-api/internal/core/domain"
	"github.com/campuslink/campus-api/internal/core/ports"
)

type CommunityService struct {
	communities ports.CommunityRepository
	memberships ports.MembershipRepository
	posts       ports.PostRepository
	roles       roleGate
	logger      zerolog.Logger
}

func NewCommunityService(
	communities ports.CommunityRepository,
	memberships ports.MembershipRepository,
	posts ports.PostRepository,
	roles ports.RoleService,
	logger zerolog.Logger,
) *CommunityService {
	return &CommunityService{
		communities: communities,
		memberships: memberships,
		posts:       posts,
		roles:       roles,
		logger:      logger,
	}
}

func (s *CommunityService) Create(ctx context.Context, actor domain.Identity, in ports.CommunityInput) (*domain.Community, error) {
	if err := s.requireAdmin(ctx, actor); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.Missing("name")
	}
	slug, err := resolveSlug(in.Slug, name)
	if err != nil {
		return nil, err
	}

	c := &domain.Community{
		ID:          newID(),
		Name:        name,
		Slug:        slug,
		Description: strings.TrimSpace(in.Description),
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.communities.Create(ctx, c); err != nil {
		return nil, storageErr("create community", err)
	}

	s.logger.Info().Str("community_id", c.ID).Str("slug", c.Slug).Msg("community created")
	return c, nil
}

// Update overwrites the set fields of a community. An empty slug keeps the
// current one.
func (s *CommunityService) Update(ctx context.Context, actor domain.Identity, id string, in ports.CommunityInput) (*domain.Community, error) {
	if err := s.requireAdmin(ctx, actor); err != nil {
		return nil, err
	}
	c, err := s.communities.FindByID(ctx, id)
	if err != nil {
		return nil, storageErr("find community", err)
	}

	if name := strings.TrimSpace(in.Name); name != "" {
		c.Name = name
	}
	if in.Slug != "" {
		if !domain.ValidSlug(in.Slug) {
			return nil, domain.ErrInvalidSlug
		}
		c.Slug = in.Slug
	}
	if in.Description != "" {
		c.Description = strings.TrimSpace(in.Description)
	}

	if err := s.communities.Update(ctx, c); err != nil {
		return nil, storageErr("update community", err)
	}
	s.logger.Info().Str("community_id", c.ID).Msg("community updated")
	return c, nil
}

func (s *CommunityService) Delete(ctx context.Context, actor domain.Identity, id string) error {
	if err := s.requireAdmin(ctx, actor); err != nil {
		return err
	}
	if _, err := s.communities.FindByID(ctx, id); err != nil {
		return storageErr("find community", err)
	}
	if err := s.communities.Delete(ctx, id); err != nil {
		return storageErr("delete community", err)
	}
	s.logger.Info().Str("community_id", id).Str("actor_id", actor.UserID).Msg("community deleted")
	return nil
}

func (s *CommunityService) Stats(ctx context.Context, actor domain.Identity, id string) (*ports.CommunityStatsResult, error) {
	if err := s.requireAdmin(ctx, actor); err != nil {
		return nil, err
	}
	c, err := s.communities.FindByID(ctx, id)
	if err != nil {
		return nil, storageErr("find community", err)
	}
	members, err := s.memberships.CountByCommunity(ctx, id)
	if err != nil {
		return nil, domain.Upstream("count members", err)
	}
	posts, err := s.posts.CountByCommunity(ctx, id)
	if err != nil {
		return nil, domain.Upstream("count posts", err)
	}
	return &ports.CommunityStatsResult{
		Community: c,
		Stats:     domain.CommunityStats{Members: members, Posts: posts},
	}, nil
}

// Get looks a community up by id first and falls back to its slug.
func (s *CommunityService) Get(ctx context.Context, actor domain.Identity, idOrSlug string) (*domain.Community, error) {
	if err := requireIdentity(actor); err != nil {
		return nil, err
	}
	c, err := s.communities.FindByID(ctx, idOrSlug)
	if err == nil {
		return c, nil
	}
	if !errors.Is(err, domain.ErrCommunityNotFound) {
		return nil, storageErr("find community", err)
	}
	c, err = s.communities.FindBySlug(ctx, idOrSlug)
	if err != nil {
		return nil, storageErr("find community", err)
	}
	return c, nil
}

func (s *CommunityService) List(ctx context.Context, actor domain.Identity) ([]*domain.Community, error) {
	if err := requireIdentity(actor); err != nil {
		return nil, err
	}
	list, err := s.communities.List(ctx)
	if err != nil {
		return nil, domain.Upstream("list communities", err)
	}
	return list, nil
}

func (s *CommunityService) requireAdmin(ctx context.Context, actor domain.Identity) error {
	if err := requireIdentity(actor); err != nil {
		return err
	}
	return requireRole(ctx, s.roles, actor.UserID, domain.RoleAdmin, domain.ErrAdminRequired)
}

func resolveSlug(raw, name string) (string, error) {
	if raw != "" {
		if !domain.ValidSlug(raw) {
			return "", domain.ErrInvalidSlug
		}
		return raw, nil
	}
	slug := domain.Slugify(name)
	if slug == "" {
		return "", domain.ErrInvalidSlug
	}
	return slug, nil
}
