package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/campuslink/campus-api/internal/core/domain"
	"github.com/campuslink/campus-api/internal/core/ports"
)

type MembershipService struct {
	memberships ports.MembershipRepository
	communities ports.CommunityRepository
	logger      zerolog.Logger
}

func NewMembershipService(memberships ports.MembershipRepository, communities ports.CommunityRepository, logger zerolog.Logger) *MembershipService {
	return &MembershipService{memberships: memberships, communities: communities, logger: logger}
}

func (s *MembershipService) IsMember(ctx context.Context, userID, communityID string) (bool, error) {
	if userID == "" {
		return false, domain.ErrUnauthenticated
	}
	ok, err := s.memberships.Exists(ctx, communityID, userID)
	if err != nil {
		return false, domain.Upstream("check membership", err)
	}
	return ok, nil
}

// RequireMember is the gate every community-scoped operation passes through.
// A missing identity is reported as unauthenticated, never as forbidden.
func (s *MembershipService) RequireMember(ctx context.Context, userID, communityID string) error {
	ok, err := s.IsMember(ctx, userID, communityID)
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrNotMember
	}
	return nil
}

// Join records actor as a member. A second join for the same pair fails with
// domain.ErrAlreadyMember, whether caught by the pre-check or by storage.
func (s *MembershipService) Join(ctx context.Context, actor domain.Identity, communityID string) (*domain.Membership, error) {
	if err := requireIdentity(actor); err != nil {
		return nil, err
	}
	if _, err := s.communities.FindByID(ctx, communityID); err != nil {
		return nil, storageErr("find community", err)
	}

	exists, err := s.IsMember(ctx, actor.UserID, communityID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.ErrAlreadyMember
	}

	m := &domain.Membership{CommunityID: communityID, UserID: actor.UserID, JoinedAt: time.Now().UTC()}
	if err := s.memberships.Create(ctx, m); err != nil {
		return nil, storageErr("create membership", err)
	}

	s.logger.Info().Str("user_id", actor.UserID).Str("community_id", communityID).Msg("community joined")
	return m, nil
}

func (s *MembershipService) ListMembers(ctx context.Context, actor domain.Identity, communityID string) ([]*domain.Membership, error) {
	if err := requireIdentity(actor); err != nil {
		return nil, err
	}
	if err := s.RequireMember(ctx, actor.UserID, communityID); err != nil {
		return nil, err
	}
	members, err := s.memberships.ListByCommunity(ctx, communityID)
	if err != nil {
		return nil, domain.Upstream("list members", err)
	}
	return members, nil
}

// storageErr passes classified domain errors through and wraps anything
// else as an upstream failure.
func storageErr(op string, err error) error {
	var de *domain.Error
	if errors.As(err, &de) {
		return err
	}
	return domain.Upstream(op, err)
}
