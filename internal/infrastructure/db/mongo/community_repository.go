package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/campuslink/campus-api/internal/core/domain"
)

type CommunityRepository struct {
	db  *mongo.Database
	col *mongo.Collection
}

func NewCommunityRepository(db *mongo.Database) *CommunityRepository {
	return &CommunityRepository{db: db, col: db.Collection(collectionCommunities)}
}

func (r *CommunityRepository) Create(ctx context.Context, c *domain.Community) error {
	return insert(ctx, r.col, c, domain.ErrSlugTaken)
}

func (r *CommunityRepository) Update(ctx context.Context, c *domain.Community) error {
	return replaceByID(ctx, r.col, c.ID, c, domain.ErrCommunityNotFound, domain.ErrSlugTaken)
}

// Delete removes the community after its dependents, children first, so an
// interrupted delete never leaves rows pointing at a missing parent.
func (r *CommunityRepository) Delete(ctx context.Context, id string) error {
	posts, err := findMany[domain.Post](ctx, r.db.Collection(collectionPosts), bson.M{"community_id": id},
		options.Find().SetProjection(bson.M{"_id": 1}))
	if err != nil {
		return fmt.Errorf("list community posts: %w", err)
	}
	postIDs := make([]string, 0, len(posts))
	for _, p := range posts {
		postIDs = append(postIDs, p.ID)
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	steps := []struct {
		coll   string
		filter bson.M
	}{
		{collectionLikes, bson.M{"post_id": bson.M{"$in": postIDs}}},
		{collectionComments, bson.M{"post_id": bson.M{"$in": postIDs}}},
		{collectionPosts, bson.M{"community_id": id}},
		{collectionMembers, bson.M{"community_id": id}},
		{collectionCommunities, bson.M{"_id": id}},
	}
	for _, step := range steps {
		if _, err := r.db.Collection(step.coll).DeleteMany(ctx, step.filter); err != nil {
			return fmt.Errorf("delete from %s: %w", step.coll, err)
		}
	}
	return nil
}

func (r *CommunityRepository) FindByID(ctx context.Context, id string) (*domain.Community, error) {
	return findOne[domain.Community](ctx, r.col, bson.M{"_id": id}, domain.ErrCommunityNotFound)
}

func (r *CommunityRepository) FindBySlug(ctx context.Context, slug string) (*domain.Community, error) {
	return findOne[domain.Community](ctx, r.col, bson.M{"slug": slug}, domain.ErrCommunityNotFound)
}

func (r *CommunityRepository) List(ctx context.Context) ([]*domain.Community, error) {
	return findMany[domain.Community](ctx, r.col, bson.M{}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
}

type MembershipRepository struct {
	col *mongo.Collection
}

func NewMembershipRepository(db *mongo.Database) *MembershipRepository {
	return &MembershipRepository{col: db.Collection(collectionMembers)}
}

func (r *MembershipRepository) Create(ctx context.Context, m *domain.Membership) error {
	return insert(ctx, r.col, m, domain.ErrAlreadyMember)
}

func (r *MembershipRepository) Exists(ctx context.Context, communityID, userID string) (bool, error) {
	return exists(ctx, r.col, bson.M{"community_id": communityID, "user_id": userID})
}

func (r *MembershipRepository) ListByCommunity(ctx context.Context, communityID string) ([]*domain.Membership, error) {
	return findMany[domain.Membership](ctx, r.col, bson.M{"community_id": communityID},
		options.Find().SetSort(bson.D{{Key: "joined_at", Value: 1}}))
}

func (r *MembershipRepository) ListByUser(ctx context.Context, userID string) ([]*domain.Membership, error) {
	return findMany[domain.Membership](ctx, r.col, bson.M{"user_id": userID},
		options.Find().SetSort(bson.D{{Key: "joined_at", Value: -1}}))
}

func (r *MembershipRepository) CountByCommunity(ctx context.Context, communityID string) (int64, error) {
	return count(ctx, r.col, bson.M{"community_id": communityID})
}
