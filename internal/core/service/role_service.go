package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/campuslink/campus-api/internal/core/domain"
	"github.com/campuslink/campus-api/internal/core/ports"
)

type RoleService struct {
	repo     ports.RoleRepository
	accounts ports.AccountRepository
	logger   zerolog.Logger
}

func NewRoleService(repo ports.RoleRepository, accounts ports.AccountRepository, logger zerolog.Logger) *RoleService {
	return &RoleService{repo: repo, accounts: accounts, logger: logger}
}

// GetRole resolves the current role of userID, defaulting to student.
func (s *RoleService) GetRole(ctx context.Context, userID string) (domain.Role, error) {
	if userID == "" {
		return "", domain.ErrUnauthenticated
	}
	a, err := s.repo.Find(ctx, userID)
	if err != nil {
		return "", domain.Upstream("find role", err)
	}
	if a == nil {
		return domain.DefaultRole, nil
	}
	return a.Role, nil
}

// EnsureDefault writes the default assignment when the user has none.
func (s *RoleService) EnsureDefault(ctx context.Context, userID string) (domain.Role, error) {
	if userID == "" {
		return "", domain.ErrUnauthenticated
	}
	a, err := s.repo.Find(ctx, userID)
	if err != nil {
		return "", domain.Upstream("find role", err)
	}
	if a != nil {
		return a.Role, nil
	}

	now := time.Now().UTC()
	err = s.repo.InsertIfAbsent(ctx, &domain.RoleAssignment{
		UserID:    userID,
		Role:      domain.DefaultRole,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return "", domain.Upstream("insert default role", err)
	}
	// A concurrent SetRole may have won; report whatever is stored now.
	return s.GetRole(ctx, userID)
}

// SetRole assigns newRole to targetUserID. Only admins may call it, and the
// admin check runs before the role value is validated. The target must be a
// registered user.
func (s *RoleService) SetRole(ctx context.Context, actor domain.Identity, targetUserID, newRole string) (*domain.RoleAssignment, error) {
	if err := requireIdentity(actor); err != nil {
		return nil, err
	}
	if err := requireRole(ctx, s, actor.UserID, domain.RoleAdmin, domain.ErrAdminRequired); err != nil {
		return nil, err
	}
	if targetUserID == "" {
		return nil, domain.Missing("user_id")
	}
	role, err := domain.ParseRole(newRole)
	if err != nil {
		return nil, err
	}
	if _, err := s.accounts.FindByID(ctx, targetUserID); err != nil {
		return nil, storageErr("find user", err)
	}

	now := time.Now().UTC()
	a := &domain.RoleAssignment{UserID: targetUserID, Role: role, CreatedAt: now, UpdatedAt: now}
	if existing, err := s.repo.Find(ctx, targetUserID); err != nil {
		return nil, domain.Upstream("find role", err)
	} else if existing != nil {
		a.CreatedAt = existing.CreatedAt
	}
	if err := s.repo.Upsert(ctx, a); err != nil {
		return nil, storageErr("upsert role", err)
	}

	s.logger.Info().
		Str("actor_id", actor.UserID).
		Str("user_id", targetUserID).
		Str("role", string(role)).
		Msg("role assigned")
	return a, nil
}

// roleGate is the part of the Role Store other services depend on.
type roleGate interface {
	GetRole(ctx context.Context, userID string) (domain.Role, error)
}

func requireRole(ctx context.Context, roles roleGate, userID string, want domain.Role, denied error) error {
	role, err := roles.GetRole(ctx, userID)
	if err != nil {
		return err
	}
	if role != want {
		return denied
	}
	return nil
}
