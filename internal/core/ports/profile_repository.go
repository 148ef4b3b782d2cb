package ports

import (
	"context"

	"github.com/campuslink/campus-api/internal/core/domain"
)

type ProfileRepository interface {
	Create(ctx context.Context, p *domain.Profile) error
	Update(ctx context.Context, p *domain.Profile) error
	FindByID(ctx context.Context, userID string) (*domain.Profile, error)
	ListByIDs(ctx context.Context, userIDs []string) ([]*domain.Profile, error)
}

type SkillRepository interface {
	Create(ctx context.Context, s *domain.Skill) error
	Delete(ctx context.Context, id string) error
	FindByID(ctx context.Context, id string) (*domain.Skill, error)
	ListByUser(ctx context.Context, userID string) ([]*domain.Skill, error)
}
