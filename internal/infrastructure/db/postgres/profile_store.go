package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/campuslink/campus-api/internal/core/domain"
)

const profileColumns = `id, name, bio, title, github_url, linkedin_url, profile_pic_url, created_at, updated_at`

func scanProfile(row pgx.Row, p *domain.Profile) error {
	return row.Scan(&p.UserID, &p.Name, &p.Bio, &p.Title, &p.GithubURL, &p.LinkedinURL, &p.ProfilePicURL, &p.CreatedAt, &p.UpdatedAt)
}

type ProfileStore struct {
	pool *pgxpool.Pool
}

func NewProfileStore(pool *pgxpool.Pool) *ProfileStore {
	return &ProfileStore{pool: pool}
}

func (s *ProfileStore) Create(ctx context.Context, p *domain.Profile) error {
	query := `INSERT INTO profiles (` + profileColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := s.pool.Exec(ctx, query, p.UserID, p.Name, p.Bio, p.Title, p.GithubURL, p.LinkedinURL, p.ProfilePicURL, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert profile: %w", err)
	}
	return nil
}

func (s *ProfileStore) Update(ctx context.Context, p *domain.Profile) error {
	query := `
		UPDATE profiles
		SET name = $2, bio = $3, title = $4, github_url = $5, linkedin_url = $6, profile_pic_url = $7, updated_at = $8
		WHERE id = $1`

	tag, err := s.pool.Exec(ctx, query, p.UserID, p.Name, p.Bio, p.Title, p.GithubURL, p.LinkedinURL, p.ProfilePicURL, p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update profile: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrProfileNotFound
	}
	return nil
}

func (s *ProfileStore) FindByID(ctx context.Context, userID string) (*domain.Profile, error) {
	var p domain.Profile
	if err := scanProfile(s.pool.QueryRow(ctx, `SELECT `+profileColumns+` FROM profiles WHERE id = $1`, userID), &p); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrProfileNotFound
		}
		return nil, fmt.Errorf("get profile: %w", err)
	}
	return &p, nil
}

func (s *ProfileStore) ListByIDs(ctx context.Context, userIDs []string) ([]*domain.Profile, error) {
	rows, err := s.pool.Query(ctx, `SELECT `+profileColumns+` FROM profiles WHERE id = ANY($1) ORDER BY name`, userIDs)
	if err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	return scanAll(rows, func(r pgx.Rows, p *domain.Profile) error { return scanProfile(r, p) })
}

type SkillStore struct {
	pool *pgxpool.Pool
}

func NewSkillStore(pool *pgxpool.Pool) *SkillStore {
	return &SkillStore{pool: pool}
}

func (s *SkillStore) Create(ctx context.Context, sk *domain.Skill) error {
	query := `INSERT INTO skills (id, user_id, skill_name, created_at) VALUES ($1, $2, $3, $4)`

	if _, err := s.pool.Exec(ctx, query, sk.ID, sk.UserID, sk.Name, sk.CreatedAt); err != nil {
		return fmt.Errorf("insert skill: %w", err)
	}
	return nil
}

func (s *SkillStore) Delete(ctx context.Context, id string) error {
	if _, err := s.pool.Exec(ctx, `DELETE FROM skills WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete skill: %w", err)
	}
	return nil
}

func (s *SkillStore) FindByID(ctx context.Context, id string) (*domain.Skill, error) {
	var sk domain.Skill
	err := s.pool.QueryRow(ctx, `SELECT id, user_id, skill_name, created_at FROM skills WHERE id = $1`, id).
		Scan(&sk.ID, &sk.UserID, &sk.Name, &sk.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrSkillNotFound
		}
		return nil, fmt.Errorf("get skill: %w", err)
	}
	return &sk, nil
}

func (s *SkillStore) ListByUser(ctx context.Context, userID string) ([]*domain.Skill, error) {
	rows, err := s.pool.Query(ctx, `SELECT id, user_id, skill_name, created_at FROM skills WHERE user_id = $1 ORDER BY created_at, id`, userID)
	if err != nil {
		return nil, fmt.Errorf("list skills: %w", err)
	}
	return scanAll(rows, func(r pgx.Rows, sk *domain.Skill) error {
		return r.Scan(&sk.ID, &sk.UserID, &sk.Name, &sk.CreatedAt)
	})
}
