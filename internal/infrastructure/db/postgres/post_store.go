package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/campuslink/campus-api/internal/core/domain"
)

const postColumns = `id, community_id, author_id, title, content, type, media_url, created_at, updated_at`

func scanPost(row pgx.Row, p *domain.Post) error {
	return row.Scan(&p.ID, &p.CommunityID, &p.AuthorID, &p.Title, &p.Content, &p.Type, &p.MediaURL, &p.CreatedAt, &p.UpdatedAt)
}

type PostStore struct {
	pool *pgxpool.Pool
}

func NewPostStore(pool *pgxpool.Pool) *PostStore {
	return &PostStore{pool: pool}
}

func (s *PostStore) Create(ctx context.Context, p *domain.Post) error {
	query := `INSERT INTO posts (` + postColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := s.pool.Exec(ctx, query, p.ID, p.CommunityID, p.AuthorID, p.Title, p.Content, p.Type, p.MediaURL, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert post: %w", err)
	}
	return nil
}

func (s *PostStore) Update(ctx context.Context, p *domain.Post) error {
	query := `
		UPDATE posts SET title = $2, content = $3, type = $4, media_url = $5, updated_at = $6
		WHERE id = $1`

	tag, err := s.pool.Exec(ctx, query, p.ID, p.Title, p.Content, p.Type, p.MediaURL, p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update post: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrPostNotFound
	}
	return nil
}

// Delete cascades to comments and likes through foreign keys.
func (s *PostStore) Delete(ctx context.Context, id string) error {
	if _, err := s.pool.Exec(ctx, `DELETE FROM posts WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	return nil
}

func (s *PostStore) FindByID(ctx context.Context, id string) (*domain.Post, error) {
	var p domain.Post
	if err := scanPost(s.pool.QueryRow(ctx, `SELECT `+postColumns+` FROM posts WHERE id = $1`, id), &p); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrPostNotFound
		}
		return nil, fmt.Errorf("get post: %w", err)
	}
	return &p, nil
}

func (s *PostStore) ListByCommunity(ctx context.Context, communityID string) ([]*domain.Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts WHERE community_id = $1 ORDER BY created_at DESC, id DESC`

	rows, err := s.pool.Query(ctx, query, communityID)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	return scanAll(rows, func(r pgx.Rows, p *domain.Post) error { return scanPost(r, p) })
}

func (s *PostStore) CountByCommunity(ctx context.Context, communityID string) (int64, error) {
	return countWhere(ctx, s.pool, `SELECT count(*) FROM posts WHERE community_id = $1`, communityID)
}

type CommentStore struct {
	pool *pgxpool.Pool
}

func NewCommentStore(pool *pgxpool.Pool) *CommentStore {
	return &CommentStore{pool: pool}
}

func (s *CommentStore) Create(ctx context.Context, c *domain.Comment) error {
	query := `INSERT INTO comments (id, post_id, user_id, content, created_at) VALUES ($1, $2, $3, $4, $5)`

	if _, err := s.pool.Exec(ctx, query, c.ID, c.PostID, c.UserID, c.Content, c.CreatedAt); err != nil {
		return fmt.Errorf("insert comment: %w", err)
	}
	return nil
}

func (s *CommentStore) Delete(ctx context.Context, id string) error {
	if _, err := s.pool.Exec(ctx, `DELETE FROM comments WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete comment: %w", err)
	}
	return nil
}

func (s *CommentStore) FindByID(ctx context.Context, id string) (*domain.Comment, error) {
	query := `SELECT id, post_id, user_id, content, created_at FROM comments WHERE id = $1`

	var c domain.Comment
	if err := s.pool.QueryRow(ctx, query, id).Scan(&c.ID, &c.PostID, &c.UserID, &c.Content, &c.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCommentNotFound
		}
		return nil, fmt.Errorf("get comment: %w", err)
	}
	return &c, nil
}

func (s *CommentStore) ListByPost(ctx context.Context, postID string) ([]*domain.Comment, error) {
	query := `SELECT id, post_id, user_id, content, created_at FROM comments WHERE post_id = $1 ORDER BY created_at, id`

	rows, err := s.pool.Query(ctx, query, postID)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	return scanAll(rows, func(r pgx.Rows, c *domain.Comment) error {
		return r.Scan(&c.ID, &c.PostID, &c.UserID, &c.Content, &c.CreatedAt)
	})
}

func (s *CommentStore) CountByPost(ctx context.Context, postID string) (int64, error) {
	return countWhere(ctx, s.pool, `SELECT count(*) FROM comments WHERE post_id = $1`, postID)
}

type LikeStore struct {
	pool *pgxpool.Pool
}

func NewLikeStore(pool *pgxpool.Pool) *LikeStore {
	return &LikeStore{pool: pool}
}

func (s *LikeStore) Insert(ctx context.Context, l *domain.Like) error {
	query := `INSERT INTO post_likes (post_id, user_id, created_at) VALUES ($1, $2, $3)`

	if _, err := s.pool.Exec(ctx, query, l.PostID, l.UserID, l.CreatedAt); err != nil {
		return translate(err, "insert like")
	}
	return nil
}

func (s *LikeStore) Delete(ctx context.Context, postID, userID string) (bool, error) {
	tag, err := s.pool.Exec(ctx, `DELETE FROM post_likes WHERE post_id = $1 AND user_id = $2`, postID, userID)
	if err != nil {
		return false, fmt.Errorf("delete like: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (s *LikeStore) Exists(ctx context.Context, postID, userID string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM post_likes WHERE post_id = $1 AND user_id = $2)`

	var exists bool
	if err := s.pool.QueryRow(ctx, query, postID, userID).Scan(&exists); err != nil {
		return false, fmt.Errorf("check like: %w", err)
	}
	return exists, nil
}

func (s *LikeStore) CountByPost(ctx context.Context, postID string) (int64, error) {
	return countWhere(ctx, s.pool, `SELECT count(*) FROM post_likes WHERE post_id = $1`, postID)
}

func countWhere(ctx context.Context, pool *pgxpool.Pool, query string, arg any) (int64, error) {
	var n int64
	if err := pool.QueryRow(ctx, query, arg).Scan(&n); err != nil {
		return 0, fmt.Errorf("count: %w", err)
	}
	return n, nil
}
