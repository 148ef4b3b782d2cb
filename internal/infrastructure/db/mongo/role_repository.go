package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/campuslink/campus-api/internal/core/domain"
)

// RoleRepository keys the role row by user id, so a user can never hold
// two rows.
type RoleRepository struct {
	col *mongo.Collection
}

func NewRoleRepository(db *mongo.Database) *RoleRepository {
	return &RoleRepository{col: db.Collection(collectionRoles)}
}

var errNoRole = errors.New("no role row")

func (r *RoleRepository) Find(ctx context.Context, userID string) (*domain.RoleAssignment, error) {
	a, err := findOne[domain.RoleAssignment](ctx, r.col, bson.M{"_id": userID}, errNoRole)
	if errors.Is(err, errNoRole) {
		return nil, nil
	}
	return a, err
}

func (r *RoleRepository) Upsert(ctx context.Context, a *domain.RoleAssignment) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.col.UpdateOne(ctx,
		bson.M{"_id": a.UserID},
		bson.M{
			"$set":         bson.M{"role": a.Role, "updated_at": a.UpdatedAt},
			"$setOnInsert": bson.M{"created_at": a.CreatedAt},
		},
		options.Update().SetUpsert(true),
	)
	return err
}

func (r *RoleRepository) InsertIfAbsent(ctx context.Context, a *domain.RoleAssignment) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.col.UpdateOne(ctx,
		bson.M{"_id": a.UserID},
		bson.M{"$setOnInsert": bson.M{"role": a.Role, "created_at": a.CreatedAt, "updated_at": a.UpdatedAt}},
		options.Update().SetUpsert(true),
	)
	// Two concurrent upserts can both miss and race on _id; the loser's row
	// already exists, which is what was asked for.
	if mongo.IsDuplicateKeyError(err) {
		return nil
	}
	return err
}

func (r *RoleRepository) ListUserIDsByRole(ctx context.Context, role domain.Role) ([]string, error) {
	rows, err := findMany[domain.RoleAssignment](ctx, r.col, bson.M{"role": role},
		options.Find().SetProjection(bson.M{"_id": 1}).SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(rows))
	for _, a := range rows {
		ids = append(ids, a.UserID)
	}
	return ids, nil
}
