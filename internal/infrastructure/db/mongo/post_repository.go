package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/campuslink/campus-api/internal/core/domain"
)

type PostRepository struct {
	db  *mongo.Database
	col *mongo.Collection
}

func NewPostRepository(db *mongo.Database) *PostRepository {
	return &PostRepository{db: db, col: db.Collection(collectionPosts)}
}

func (r *PostRepository) Create(ctx context.Context, p *domain.Post) error {
	return insert(ctx, r.col, p, nil)
}

func (r *PostRepository) Update(ctx context.Context, p *domain.Post) error {
	return replaceByID(ctx, r.col, p.ID, p, domain.ErrPostNotFound, nil)
}

func (r *PostRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.db.Collection(collectionLikes).DeleteMany(ctx, bson.M{"post_id": id}); err != nil {
		return fmt.Errorf("delete likes: %w", err)
	}
	if _, err := r.db.Collection(collectionComments).DeleteMany(ctx, bson.M{"post_id": id}); err != nil {
		return fmt.Errorf("delete comments: %w", err)
	}
	if _, err := r.col.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	return nil
}

func (r *PostRepository) FindByID(ctx context.Context, id string) (*domain.Post, error) {
	return findOne[domain.Post](ctx, r.col, bson.M{"_id": id}, domain.ErrPostNotFound)
}

// ListByCommunity sorts newest first. Ids are time-ordered, so _id breaks
// timestamp ties in insertion order.
func (r *PostRepository) ListByCommunity(ctx context.Context, communityID string) ([]*domain.Post, error) {
	return findMany[domain.Post](ctx, r.col, bson.M{"community_id": communityID},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}))
}

func (r *PostRepository) CountByCommunity(ctx context.Context, communityID string) (int64, error) {
	return count(ctx, r.col, bson.M{"community_id": communityID})
}

type CommentRepository struct {
	col *mongo.Collection
}

func NewCommentRepository(db *mongo.Database) *CommentRepository {
	return &CommentRepository{col: db.Collection(collectionComments)}
}

func (r *CommentRepository) Create(ctx context.Context, c *domain.Comment) error {
	return insert(ctx, r.col, c, nil)
}

func (r *CommentRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()
	_, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

func (r *CommentRepository) FindByID(ctx context.Context, id string) (*domain.Comment, error) {
	return findOne[domain.Comment](ctx, r.col, bson.M{"_id": id}, domain.ErrCommentNotFound)
}

func (r *CommentRepository) ListByPost(ctx context.Context, postID string) ([]*domain.Comment, error) {
	return findMany[domain.Comment](ctx, r.col, bson.M{"post_id": postID},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}}))
}

func (r *CommentRepository) CountByPost(ctx context.Context, postID string) (int64, error) {
	return count(ctx, r.col, bson.M{"post_id": postID})
}

type LikeRepository struct {
	col *mongo.Collection
}

func NewLikeRepository(db *mongo.Database) *LikeRepository {
	return &LikeRepository{col: db.Collection(collectionLikes)}
}

func (r *LikeRepository) Insert(ctx context.Context, l *domain.Like) error {
	return insert(ctx, r.col, l, domain.ErrAlreadyLiked)
}

func (r *LikeRepository) Delete(ctx context.Context, postID, userID string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"post_id": postID, "user_id": userID})
	if err != nil {
		return false, err
	}
	return res.DeletedCount > 0, nil
}

func (r *LikeRepository) Exists(ctx context.Context, postID, userID string) (bool, error) {
	return exists(ctx, r.col, bson.M{"post_id": postID, "user_id": userID})
}

func (r *LikeRepository) CountByPost(ctx context.Context, postID string) (int64, error) {
	return count(ctx, r.col, bson.M{"post_id": postID})
}
