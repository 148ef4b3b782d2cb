package postgres

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/campuslink/campus-api/internal/core/domain"
)

//go:embed schema.sql
var schema string

const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"
)

type violation struct {
	code, constraint string
}

// constraintErrors names the domain error each enforced constraint stands for.
var constraintErrors = map[violation]error{
	{uniqueViolation, "users_email_key"}:                         domain.ErrEmailTaken,
	{uniqueViolation, "communities_slug_key"}:                    domain.ErrSlugTaken,
	{uniqueViolation, "community_members_pkey"}:                  domain.ErrAlreadyMember,
	{uniqueViolation, "post_likes_pkey"}:                         domain.ErrAlreadyLiked,
	{uniqueViolation, "applications_referral_student_key"}:       domain.ErrDuplicateApplication,
	{foreignKeyViolation, "community_members_community_id_fkey"}: domain.ErrCommunityNotFound,
	{foreignKeyViolation, "user_roles_user_id_fkey"}:             domain.ErrUserNotFound,
}

type DB struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// New creates a connection pool from a Postgres URL and verifies it with a
// ping.
func New(ctx context.Context, databaseURL string, logger zerolog.Logger) (*DB, error) {
	poolConfig, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse pool config: %w", err)
	}

	poolConfig.MaxConns = 25
	poolConfig.MinConns = 2
	poolConfig.MaxConnLifetime = time.Hour
	poolConfig.MaxConnIdleTime = 20 * time.Minute
	poolConfig.HealthCheckPeriod = time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping DB: %w", err)
	}

	logger.Info().Int32("max_conns", poolConfig.MaxConns).Msg("postgres connection established")
	return &DB{pool: pool, logger: logger}, nil
}

// Migrate applies the idempotent schema.
func (db *DB) Migrate(ctx context.Context) error {
	if _, err := db.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

func (db *DB) Close() {
	db.logger.Info().Msg("closing postgres connection pool")
	db.pool.Close()
}

func (db *DB) Pool() *pgxpool.Pool {
	return db.pool
}

func (db *DB) Health(ctx context.Context) error {
	return db.pool.Ping(ctx)
}

// translate returns the domain error for a violated constraint listed in
// constraintErrors, and otherwise wraps err with op.
func translate(err error, op string) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if de, ok := constraintErrors[violation{pgErr.Code, pgErr.ConstraintName}]; ok {
			return de
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}
