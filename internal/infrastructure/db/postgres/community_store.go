package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/campuslink/campus-api/internal/core/domain"
)

const communityColumns = `id, name, slug, description, created_at`

func scanCommunity(row pgx.Row, c *domain.Community) error {
	return row.Scan(&c.ID, &c.Name, &c.Slug, &c.Description, &c.CreatedAt)
}

type CommunityStore struct {
	pool *pgxpool.Pool
}

func NewCommunityStore(pool *pgxpool.Pool) *CommunityStore {
	return &CommunityStore{pool: pool}
}

func (s *CommunityStore) Create(ctx context.Context, c *domain.Community) error {
	query := `INSERT INTO communities (` + communityColumns + `) VALUES ($1, $2, $3, $4, $5)`

	_, err := s.pool.Exec(ctx, query, c.ID, c.Name, c.Slug, c.Description, c.CreatedAt)
	if err != nil {
		return translate(err, "insert community")
	}
	return nil
}

func (s *CommunityStore) Update(ctx context.Context, c *domain.Community) error {
	query := `UPDATE communities SET name = $2, slug = $3, description = $4 WHERE id = $1`

	tag, err := s.pool.Exec(ctx, query, c.ID, c.Name, c.Slug, c.Description)
	if err != nil {
		return translate(err, "update community")
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrCommunityNotFound
	}
	return nil
}

// Delete relies on ON DELETE CASCADE for memberships, posts, comments, and likes.
func (s *CommunityStore) Delete(ctx context.Context, id string) error {
	if _, err := s.pool.Exec(ctx, `DELETE FROM communities WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete community: %w", err)
	}
	return nil
}

func (s *CommunityStore) FindByID(ctx context.Context, id string) (*domain.Community, error) {
	return s.findOne(ctx, `id = $1`, id)
}

func (s *CommunityStore) FindBySlug(ctx context.Context, slug string) (*domain.Community, error) {
	return s.findOne(ctx, `slug = $1`, slug)
}

func (s *CommunityStore) List(ctx context.Context) ([]*domain.Community, error) {
	rows, err := s.pool.Query(ctx, `SELECT `+communityColumns+` FROM communities ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list communities: %w", err)
	}
	return scanAll(rows, func(r pgx.Rows, c *domain.Community) error { return scanCommunity(r, c) })
}

func (s *CommunityStore) findOne(ctx context.Context, where string, arg any) (*domain.Community, error) {
	var c domain.Community
	err := scanCommunity(s.pool.QueryRow(ctx, `SELECT `+communityColumns+` FROM communities WHERE `+where, arg), &c)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCommunityNotFound
		}
		return nil, fmt.Errorf("get community: %w", err)
	}
	return &c, nil
}

type MembershipStore struct {
	pool *pgxpool.Pool
}

func NewMembershipStore(pool *pgxpool.Pool) *MembershipStore {
	return &MembershipStore{pool: pool}
}

// Create fails with domain.ErrAlreadyMember on a repeated pair. Unlike an
// ON CONFLICT DO NOTHING insert, a second join is reported, not swallowed.
func (s *MembershipStore) Create(ctx context.Context, m *domain.Membership) error {
	query := `
		INSERT INTO community_members (community_id, user_id, joined_at)
		VALUES ($1, $2, $3)`

	if _, err := s.pool.Exec(ctx, query, m.CommunityID, m.UserID, m.JoinedAt); err != nil {
		return translate(err, "add member")
	}
	return nil
}

func (s *MembershipStore) Exists(ctx context.Context, communityID, userID string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM community_members
			WHERE community_id = $1 AND user_id = $2
		)`

	var exists bool
	if err := s.pool.QueryRow(ctx, query, communityID, userID).Scan(&exists); err != nil {
		return false, fmt.Errorf("check membership: %w", err)
	}
	return exists, nil
}

func (s *MembershipStore) ListByCommunity(ctx context.Context, communityID string) ([]*domain.Membership, error) {
	return s.list(ctx, `WHERE community_id = $1 ORDER BY joined_at`, communityID)
}

func (s *MembershipStore) ListByUser(ctx context.Context, userID string) ([]*domain.Membership, error) {
	return s.list(ctx, `WHERE user_id = $1 ORDER BY joined_at DESC`, userID)
}

func (s *MembershipStore) CountByCommunity(ctx context.Context, communityID string) (int64, error) {
	var n int64
	err := s.pool.QueryRow(ctx, `SELECT count(*) FROM community_members WHERE community_id = $1`, communityID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count members: %w", err)
	}
	return n, nil
}

func (s *MembershipStore) list(ctx context.Context, clause string, arg any) ([]*domain.Membership, error) {
	rows, err := s.pool.Query(ctx, `SELECT community_id, user_id, joined_at FROM community_members `+clause, arg)
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	return scanAll(rows, func(r pgx.Rows, m *domain.Membership) error {
		return r.Scan(&m.CommunityID, &m.UserID, &m.JoinedAt)
	})
}
