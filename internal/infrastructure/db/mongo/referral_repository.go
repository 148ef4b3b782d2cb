package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/campuslink/campus-api/internal/core/domain"
)

var newestFirst = bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}

type ReferralRepository struct {
	col *mongo.Collection
}

func NewReferralRepository(db *mongo.Database) *ReferralRepository {
	return &ReferralRepository{col: db.Collection(collectionReferrals)}
}

func (r *ReferralRepository) Create(ctx context.Context, ref *domain.Referral) error {
	return insert(ctx, r.col, ref, nil)
}

func (r *ReferralRepository) FindByID(ctx context.Context, id string) (*domain.Referral, error) {
	return findOne[domain.Referral](ctx, r.col, bson.M{"_id": id}, domain.ErrReferralNotFound)
}

func (r *ReferralRepository) ListByStatus(ctx context.Context, status domain.ReferralStatus) ([]*domain.Referral, error) {
	return findMany[domain.Referral](ctx, r.col, bson.M{"status": status}, options.Find().SetSort(newestFirst))
}

func (r *ReferralRepository) ListByAlumnus(ctx context.Context, alumnusID string) ([]*domain.Referral, error) {
	return findMany[domain.Referral](ctx, r.col, bson.M{"alumnus_id": alumnusID}, options.Find().SetSort(newestFirst))
}

func (r *ReferralRepository) UpdateStatus(ctx context.Context, id string, from, to domain.ReferralStatus, at time.Time) (bool, error) {
	return setStatusIf(ctx, r.col, id, string(from), string(to), at)
}

type ApplicationRepository struct {
	col *mongo.Collection
}

func NewApplicationRepository(db *mongo.Database) *ApplicationRepository {
	return &ApplicationRepository{col: db.Collection(collectionApplications)}
}

func (r *ApplicationRepository) Create(ctx context.Context, a *domain.Application) error {
	return insert(ctx, r.col, a, domain.ErrDuplicateApplication)
}

func (r *ApplicationRepository) FindByID(ctx context.Context, id string) (*domain.Application, error) {
	return findOne[domain.Application](ctx, r.col, bson.M{"_id": id}, domain.ErrApplicationNotFound)
}

func (r *ApplicationRepository) FindByReferralAndStudent(ctx context.Context, referralID, studentID string) (*domain.Application, error) {
	return findOne[domain.Application](ctx, r.col,
		bson.M{"referral_id": referralID, "student_id": studentID}, domain.ErrApplicationNotFound)
}

func (r *ApplicationRepository) ListByReferral(ctx context.Context, referralID string) ([]*domain.Application, error) {
	return findMany[domain.Application](ctx, r.col, bson.M{"referral_id": referralID}, options.Find().SetSort(newestFirst))
}

func (r *ApplicationRepository) ListByStudent(ctx context.Context, studentID string) ([]*domain.Application, error) {
	return findMany[domain.Application](ctx, r.col, bson.M{"student_id": studentID}, options.Find().SetSort(newestFirst))
}

func (r *ApplicationRepository) UpdateStatus(ctx context.Context, id string, from, to domain.ApplicationStatus, at time.Time) (bool, error) {
	return setStatusIf(ctx, r.col, id, string(from), string(to), at)
}
