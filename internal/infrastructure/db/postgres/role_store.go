package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/campuslink/campus-api/internal/core/domain"
)

type RoleStore struct {
	pool *pgxpool.Pool
}

func NewRoleStore(pool *pgxpool.Pool) *RoleStore {
	return &RoleStore{pool: pool}
}

func (s *RoleStore) Find(ctx context.Context, userID string) (*domain.RoleAssignment, error) {
	query := `SELECT user_id, role, created_at, updated_at FROM user_roles WHERE user_id = $1`

	var a domain.RoleAssignment
	err := s.pool.QueryRow(ctx, query, userID).Scan(&a.UserID, &a.Role, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get role: %w", err)
	}
	return &a, nil
}

func (s *RoleStore) Upsert(ctx context.Context, a *domain.RoleAssignment) error {
	query := `
		INSERT INTO user_roles (user_id, role, created_at, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id) DO UPDATE SET role = EXCLUDED.role, updated_at = EXCLUDED.updated_at`

	if _, err := s.pool.Exec(ctx, query, a.UserID, a.Role, a.CreatedAt, a.UpdatedAt); err != nil {
		return translate(err, "upsert role")
	}
	return nil
}

func (s *RoleStore) InsertIfAbsent(ctx context.Context, a *domain.RoleAssignment) error {
	query := `
		INSERT INTO user_roles (user_id, role, created_at, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id) DO NOTHING`

	if _, err := s.pool.Exec(ctx, query, a.UserID, a.Role, a.CreatedAt, a.UpdatedAt); err != nil {
		return translate(err, "insert default role")
	}
	return nil
}

func (s *RoleStore) ListUserIDsByRole(ctx context.Context, role domain.Role) ([]string, error) {
	rows, err := s.pool.Query(ctx, `SELECT user_id FROM user_roles WHERE role = $1 ORDER BY user_id`, role)
	if err != nil {
		return nil, fmt.Errorf("list roles: %w", err)
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("scan roles: %w", err)
	}
	return ids, nil
}
