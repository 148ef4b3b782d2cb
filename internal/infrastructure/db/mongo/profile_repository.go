package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/campuslink/campus-api/internal/core/domain"
)

type ProfileRepository struct {
	col *mongo.Collection
}

func NewProfileRepository(db *mongo.Database) *ProfileRepository {
	return &ProfileRepository{col: db.Collection(collectionProfiles)}
}

func (r *ProfileRepository) Create(ctx context.Context, p *domain.Profile) error {
	return insert(ctx, r.col, p, nil)
}

func (r *ProfileRepository) Update(ctx context.Context, p *domain.Profile) error {
	return replaceByID(ctx, r.col, p.UserID, p, domain.ErrProfileNotFound, nil)
}

func (r *ProfileRepository) FindByID(ctx context.Context, userID string) (*domain.Profile, error) {
	return findOne[domain.Profile](ctx, r.col, bson.M{"_id": userID}, domain.ErrProfileNotFound)
}

func (r *ProfileRepository) ListByIDs(ctx context.Context, userIDs []string) ([]*domain.Profile, error) {
	return findMany[domain.Profile](ctx, r.col, bson.M{"_id": bson.M{"$in": userIDs}},
		options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
}

type SkillRepository struct {
	col *mongo.Collection
}

func NewSkillRepository(db *mongo.Database) *SkillRepository {
	return &SkillRepository{col: db.Collection(collectionSkills)}
}

func (r *SkillRepository) Create(ctx context.Context, s *domain.Skill) error {
	return insert(ctx, r.col, s, nil)
}

func (r *SkillRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()
	_, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

func (r *SkillRepository) FindByID(ctx context.Context, id string) (*domain.Skill, error) {
	return findOne[domain.Skill](ctx, r.col, bson.M{"_id": id}, domain.ErrSkillNotFound)
}

func (r *SkillRepository) ListByUser(ctx context.Context, userID string) ([]*domain.Skill, error) {
	return findMany[domain.Skill](ctx, r.col, bson.M{"user_id": userID},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}))
}
