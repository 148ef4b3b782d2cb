package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/campuslink/campus-api/internal/core/domain"
	"github.com/campuslink/campus-api/internal/core/policy"
	"github.com/campuslink/campus-api/internal/core/ports"
)

// ProfileDeps groups the repositories ProfileService reads across.
type ProfileDeps struct {
	Profiles     ports.ProfileRepository
	Skills       ports.SkillRepository
	RoleRows     ports.RoleRepository
	Memberships  ports.MembershipRepository
	Communities  ports.CommunityRepository
	Referrals    ports.ReferralRepository
	Applications ports.ApplicationRepository
}

type ProfileService struct {
	deps   ProfileDeps
	roles  ports.RoleService
	logger zerolog.Logger
}

func NewProfileService(deps ProfileDeps, roles ports.RoleService, logger zerolog.Logger) *ProfileService {
	return &ProfileService{deps: deps, roles: roles, logger: logger}
}

// GetProfile returns the public profile of targetUserID, or of the caller
// when target is empty. Viewing one's own profile persists the default role
// row if none exists yet.
func (s *ProfileService) GetProfile(ctx context.Context, actor domain.Identity, targetUserID string) (*ports.ProfileView, error) {
	if err := requireIdentity(actor); err != nil {
		return nil, err
	}
	target := targetOrSelf(actor, targetUserID)
	return s.view(ctx, actor, target)
}

// GetFullProfile is restricted to the user themselves and admins.
func (s *ProfileService) GetFullProfile(ctx context.Context, actor domain.Identity, targetUserID string) (*ports.FullProfile, error) {
	if err := requireIdentity(actor); err != nil {
		return nil, err
	}
	target := targetOrSelf(actor, targetUserID)
	if target != actor.UserID {
		if err := requireRole(ctx, s.roles, actor.UserID, domain.RoleAdmin, domain.ErrForbidden); err != nil {
			return nil, err
		}
	}

	v, err := s.view(ctx, actor, target)
	if err != nil {
		return nil, err
	}
	full := &ports.FullProfile{ProfileView: *v}

	memberships, err := s.deps.Memberships.ListByUser(ctx, target)
	if err != nil {
		return nil, domain.Upstream("list memberships", err)
	}
	for _, m := range memberships {
		c, err := s.deps.Communities.FindByID(ctx, m.CommunityID)
		if errors.Is(err, domain.ErrCommunityNotFound) {
			continue
		}
		if err != nil {
			return nil, storageErr("find community", err)
		}
		full.Communities = append(full.Communities, ports.JoinedCommunity{Community: c, JoinedAt: m.JoinedAt})
	}

	switch v.Role {
	case domain.RoleAlumni:
		if full.Referrals, err = s.deps.Referrals.ListByAlumnus(ctx, target); err != nil {
			return nil, domain.Upstream("list referrals", err)
		}
	case domain.RoleStudent:
		if full.Applications, err = s.deps.Applications.ListByStudent(ctx, target); err != nil {
			return nil, domain.Upstream("list applications", err)
		}
	}
	return full, nil
}

// UpdateProfile applies patch to the caller's own profile.
func (s *ProfileService) UpdateProfile(ctx context.Context, actor domain.Identity, patch domain.ProfilePatch) (*domain.Profile, error) {
	if err := requireIdentity(actor); err != nil {
		return nil, err
	}
	if patch.Name != nil && strings.TrimSpace(*patch.Name) == "" {
		return nil, domain.Missing("name")
	}
	p, err := s.deps.Profiles.FindByID(ctx, actor.UserID)
	if err != nil {
		return nil, storageErr("find profile", err)
	}
	patch.Apply(p)
	p.UpdatedAt = time.Now().UTC()
	if err := s.deps.Profiles.Update(ctx, p); err != nil {
		return nil, storageErr("update profile", err)
	}
	s.logger.Info().Str("user_id", actor.UserID).Msg("profile updated")
	return p, nil
}

func (s *ProfileService) AddSkill(ctx context.Context, actor domain.Identity, name string) (*domain.Skill, error) {
	if err := requireIdentity(actor); err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.Missing("skill_name")
	}
	sk := &domain.Skill{ID: newID(), UserID: actor.UserID, Name: name, CreatedAt: time.Now().UTC()}
	if err := s.deps.Skills.Create(ctx, sk); err != nil {
		return nil, storageErr("create skill", err)
	}
	s.logger.Info().Str("user_id", actor.UserID).Str("skill", name).Msg("skill added")
	return sk, nil
}

func (s *ProfileService) RemoveSkill(ctx context.Context, actor domain.Identity, skillID string) error {
	if err := requireIdentity(actor); err != nil {
		return err
	}
	sk, err := s.deps.Skills.FindByID(ctx, skillID)
	if err != nil {
		return storageErr("find skill", err)
	}
	if !policy.CanDeleteSkill(actor.UserID, sk) {
		return domain.ErrNotOwner
	}
	if err := s.deps.Skills.Delete(ctx, sk.ID); err != nil {
		return storageErr("delete skill", err)
	}
	s.logger.Info().Str("user_id", actor.UserID).Str("skill_id", sk.ID).Msg("skill removed")
	return nil
}

// SearchAlumni matches alumni profiles case-insensitively on name, title,
// bio, or any skill. An empty query returns every alumnus.
func (s *ProfileService) SearchAlumni(ctx context.Context, actor domain.Identity, query string) ([]ports.AlumniResult, error) {
	if err := requireIdentity(actor); err != nil {
		return nil, err
	}
	ids, err := s.deps.RoleRows.ListUserIDsByRole(ctx, domain.RoleAlumni)
	if err != nil {
		return nil, domain.Upstream("list alumni", err)
	}
	if len(ids) == 0 {
		return []ports.AlumniResult{}, nil
	}
	profiles, err := s.deps.Profiles.ListByIDs(ctx, ids)
	if err != nil {
		return nil, domain.Upstream("list profiles", err)
	}

	term := strings.ToLower(strings.TrimSpace(query))
	results := make([]ports.AlumniResult, 0, len(profiles))
	for _, p := range profiles {
		skills, err := s.deps.Skills.ListByUser(ctx, p.UserID)
		if err != nil {
			return nil, domain.Upstream("list skills", err)
		}
		names := make([]string, 0, len(skills))
		for _, sk := range skills {
			names = append(names, sk.Name)
		}
		if term != "" && !matchesAlumnus(p, names, term) {
			continue
		}
		results = append(results, ports.AlumniResult{Profile: p, Skills: names})
	}
	return results, nil
}

func (s *ProfileService) view(ctx context.Context, actor domain.Identity, target string) (*ports.ProfileView, error) {
	p, err := s.deps.Profiles.FindByID(ctx, target)
	if err != nil {
		return nil, storageErr("find profile", err)
	}

	var role domain.Role
	if target == actor.UserID {
		role, err = s.roles.EnsureDefault(ctx, target)
	} else {
		role, err = s.roles.GetRole(ctx, target)
	}
	if err != nil {
		return nil, err
	}

	skills, err := s.deps.Skills.ListByUser(ctx, target)
	if err != nil {
		return nil, domain.Upstream("list skills", err)
	}
	return &ports.ProfileView{Profile: p, Role: role, Skills: skills}, nil
}

func targetOrSelf(actor domain.Identity, target string) string {
	if target == "" || target == "me" {
		return actor.UserID
	}
	return target
}

func matchesAlumnus(p *domain.Profile, skills []string, term string) bool {
	for _, field := range []string{p.Name, p.Title, p.Bio} {
		if strings.Contains(strings.ToLower(field), term) {
			return true
		}
	}
	for _, sk := range skills {
		if strings.Contains(strings.ToLower(sk), term) {
			return true
		}
	}
	return false
}
