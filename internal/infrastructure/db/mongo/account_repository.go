package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/campuslink/campus-api/internal/core/domain"
)

type AccountRepository struct {
	col *mongo.Collection
}

func NewAccountRepository(db *mongo.Database) *AccountRepository {
	return &AccountRepository{col: db.Collection(collectionUsers)}
}

func (r *AccountRepository) Create(ctx context.Context, user *domain.User) error {
	err := insert(ctx, r.col, user, domain.ErrEmailTaken)
	if err != nil && !errors.Is(err, domain.ErrEmailTaken) {
		return fmt.Errorf("insert user: %w", err)
	}
	return err
}

func (r *AccountRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return findOne[domain.User](ctx, r.col, bson.M{"email": email}, domain.ErrUserNotFound)
}

func (r *AccountRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	return findOne[domain.User](ctx, r.col, bson.M{"_id": id}, domain.ErrUserNotFound)
}

func (r *AccountRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()
	if _, err := r.col.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	return nil
}
