package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/campuslink/campus-api/internal/core/domain"
)

type AccountStore struct {
	pool *pgxpool.Pool
}

func NewAccountStore(pool *pgxpool.Pool) *AccountStore {
	return &AccountStore{pool: pool}
}

func (s *AccountStore) Create(ctx context.Context, u *domain.User) error {
	query := `
		INSERT INTO users (id, email, password_hash, provider, created_at)
		VALUES ($1, $2, $3, $4, $5)`

	_, err := s.pool.Exec(ctx, query, u.ID, u.Email, u.PasswordHash, u.Provider, u.CreatedAt)
	if err != nil {
		return translate(err, "insert user")
	}
	return nil
}

// Delete removes the user; profile, role, and content rows cascade.
func (s *AccountStore) Delete(ctx context.Context, id string) error {
	if _, err := s.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	return nil
}

func (s *AccountStore) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return s.findOne(ctx, `WHERE email = $1`, email)
}

func (s *AccountStore) FindByID(ctx context.Context, id string) (*domain.User, error) {
	return s.findOne(ctx, `WHERE id = $1`, id)
}

func (s *AccountStore) findOne(ctx context.Context, where string, arg any) (*domain.User, error) {
	query := `SELECT id, email, password_hash, provider, created_at FROM users ` + where

	var u domain.User
	err := s.pool.QueryRow(ctx, query, arg).Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Provider, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &u, nil
}

// scanAll drains rows through scan, closing them on return.
func scanAll[T any](rows pgx.Rows, scan func(pgx.Rows, *T) error) ([]*T, error) {
	defer rows.Close()

	out := make([]*T, 0)
	for rows.Next() {
		var item T
		if err := scan(rows, &item); err != nil {
			return nil, err
		}
		out = append(out, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
