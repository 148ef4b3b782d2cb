package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/campuslink/campus-api/internal/core/domain"
)

const referralColumns = `id, alumnus_id, job_title, company, location, description, referral_link, status, created_at, updated_at`

func scanReferral(row pgx.Row, r *domain.Referral) error {
	return row.Scan(&r.ID, &r.AlumnusID, &r.JobTitle, &r.Company, &r.Location, &r.Description, &r.ReferralLink, &r.Status, &r.CreatedAt, &r.UpdatedAt)
}

type ReferralStore struct {
	pool *pgxpool.Pool
}

func NewReferralStore(pool *pgxpool.Pool) *ReferralStore {
	return &ReferralStore{pool: pool}
}

func (s *ReferralStore) Create(ctx context.Context, r *domain.Referral) error {
	query := `INSERT INTO referrals (` + referralColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := s.pool.Exec(ctx, query, r.ID, r.AlumnusID, r.JobTitle, r.Company, r.Location, r.Description, r.ReferralLink, r.Status, r.CreatedAt, r.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert referral: %w", err)
	}
	return nil
}

func (s *ReferralStore) FindByID(ctx context.Context, id string) (*domain.Referral, error) {
	var r domain.Referral
	if err := scanReferral(s.pool.QueryRow(ctx, `SELECT `+referralColumns+` FROM referrals WHERE id = $1`, id), &r); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrReferralNotFound
		}
		return nil, fmt.Errorf("get referral: %w", err)
	}
	return &r, nil
}

func (s *ReferralStore) ListByStatus(ctx context.Context, status domain.ReferralStatus) ([]*domain.Referral, error) {
	return s.list(ctx, `WHERE status = $1`, status)
}

func (s *ReferralStore) ListByAlumnus(ctx context.Context, alumnusID string) ([]*domain.Referral, error) {
	return s.list(ctx, `WHERE alumnus_id = $1`, alumnusID)
}

// UpdateStatus is a single conditional write; zero affected rows means the
// stored status no longer matched from.
func (s *ReferralStore) UpdateStatus(ctx context.Context, id string, from, to domain.ReferralStatus, at time.Time) (bool, error) {
	tag, err := s.pool.Exec(ctx, `UPDATE referrals SET status = $3, updated_at = $4 WHERE id = $1 AND status = $2`, id, from, to, at)
	if err != nil {
		return false, fmt.Errorf("update referral status: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (s *ReferralStore) list(ctx context.Context, where string, arg any) ([]*domain.Referral, error) {
	rows, err := s.pool.Query(ctx, `SELECT `+referralColumns+` FROM referrals `+where+` ORDER BY created_at DESC, id DESC`, arg)
	if err != nil {
		return nil, fmt.Errorf("list referrals: %w", err)
	}
	return scanAll(rows, func(r pgx.Rows, ref *domain.Referral) error { return scanReferral(r, ref) })
}

const applicationColumns = `id, referral_id, student_id, message, resume_url, status, created_at, updated_at`

func scanApplication(row pgx.Row, a *domain.Application) error {
	return row.Scan(&a.ID, &a.ReferralID, &a.StudentID, &a.Message, &a.ResumeURL, &a.Status, &a.CreatedAt, &a.UpdatedAt)
}

type ApplicationStore struct {
	pool *pgxpool.Pool
}

func NewApplicationStore(pool *pgxpool.Pool) *ApplicationStore {
	return &ApplicationStore{pool: pool}
}

func (s *ApplicationStore) Create(ctx context.Context, a *domain.Application) error {
	query := `INSERT INTO applications (` + applicationColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := s.pool.Exec(ctx, query, a.ID, a.ReferralID, a.StudentID, a.Message, a.ResumeURL, a.Status, a.CreatedAt, a.UpdatedAt)
	if err != nil {
		return translate(err, "insert application")
	}
	return nil
}

func (s *ApplicationStore) FindByID(ctx context.Context, id string) (*domain.Application, error) {
	return s.findOne(ctx, `WHERE id = $1`, id)
}

func (s *ApplicationStore) FindByReferralAndStudent(ctx context.Context, referralID, studentID string) (*domain.Application, error) {
	return s.findOne(ctx, `WHERE referral_id = $1 AND student_id = $2`, referralID, studentID)
}

func (s *ApplicationStore) ListByReferral(ctx context.Context, referralID string) ([]*domain.Application, error) {
	return s.list(ctx, `WHERE referral_id = $1`, referralID)
}

func (s *ApplicationStore) ListByStudent(ctx context.Context, studentID string) ([]*domain.Application, error) {
	return s.list(ctx, `WHERE student_id = $1`, studentID)
}

func (s *ApplicationStore) UpdateStatus(ctx context.Context, id string, from, to domain.ApplicationStatus, at time.Time) (bool, error) {
	tag, err := s.pool.Exec(ctx, `UPDATE applications SET status = $3, updated_at = $4 WHERE id = $1 AND status = $2`, id, from, to, at)
	if err != nil {
		return false, fmt.Errorf("update application status: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (s *ApplicationStore) findOne(ctx context.Context, where string, args ...any) (*domain.Application, error) {
	var a domain.Application
	if err := scanApplication(s.pool.QueryRow(ctx, `SELECT `+applicationColumns+` FROM applications `+where, args...), &a); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrApplicationNotFound
		}
		return nil, fmt.Errorf("get application: %w", err)
	}
	return &a, nil
}

func (s *ApplicationStore) list(ctx context.Context, where string, arg any) ([]*domain.Application, error) {
	rows, err := s.pool.Query(ctx, `SELECT `+applicationColumns+` FROM applications `+where+` ORDER BY created_at DESC, id DESC`, arg)
	if err != nil {
		return nil, fmt.Errorf("list applications: %w", err)
	}
	return scanAll(rows, func(r pgx.Rows, a *domain.Application) error { return scanApplication(r, a) })
}
