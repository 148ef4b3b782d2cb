package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	defaultTimeout = 10 * time.Second
	indexTimeout   = 30 * time.Second
)

const (
	collectionUsers        = "users"
	collectionRoles        = "user_roles"
	collectionProfiles     = "profiles"
	collectionSkills       = "skills"
	collectionCommunities  = "communities"
	collectionMembers      = "community_members"
	collectionPosts        = "posts"
	collectionComments     = "comments"
	collectionLikes        = "post_likes"
	collectionReferrals    = "referrals"
	collectionApplications = "applications"
)

// Config captures the minimal settings required to establish a MongoDB connection.
type Config struct {
	URI      string
	Database string
	Timeout  time.Duration
}

// Connect establishes a MongoDB client, verifies connectivity with a ping, and
// returns both the client and the selected database. A default timeout is
// applied when none is provided.
func Connect(ctx context.Context, cfg Config) (*mongo.Client, *mongo.Database, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	connectCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, nil, fmt.Errorf("mongo connect: %w", err)
	}

	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(connectCtx)
		return nil, nil, fmt.Errorf("mongo ping: %w", err)
	}

	return client, client.Database(cfg.Database), nil
}

// EnsureIndexes creates every index the repositories rely on. The unique
// indexes hold the email, slug, and pair invariants.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	unique := options.Index().SetUnique(true)
	plan := map[string][]mongo.IndexModel{
		collectionUsers: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: unique},
		},
		collectionRoles: {
			{Keys: bson.D{{Key: "role", Value: 1}}},
		},
		collectionSkills: {
			{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: 1}}},
		},
		collectionCommunities: {
			{Keys: bson.D{{Key: "slug", Value: 1}}, Options: unique},
		},
		collectionMembers: {
			{Keys: bson.D{{Key: "community_id", Value: 1}, {Key: "user_id", Value: 1}}, Options: unique},
			{Keys: bson.D{{Key: "user_id", Value: 1}}},
		},
		collectionPosts: {
			{Keys: bson.D{{Key: "community_id", Value: 1}, {Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}},
		},
		collectionComments: {
			{Keys: bson.D{{Key: "post_id", Value: 1}, {Key: "created_at", Value: 1}}},
		},
		collectionLikes: {
			{Keys: bson.D{{Key: "post_id", Value: 1}, {Key: "user_id", Value: 1}}, Options: unique},
		},
		collectionReferrals: {
			{Keys: bson.D{{Key: "status", Value: 1}, {Key: "created_at", Value: -1}}},
			{Keys: bson.D{{Key: "alumnus_id", Value: 1}}},
		},
		collectionApplications: {
			{Keys: bson.D{{Key: "referral_id", Value: 1}, {Key: "student_id", Value: 1}}, Options: unique},
			{Keys: bson.D{{Key: "student_id", Value: 1}}},
		},
	}

	for coll, models := range plan {
		if _, err := db.Collection(coll).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("ensure indexes on %s: %w", coll, err)
		}
	}
	return nil
}

func findOne[T any](ctx context.Context, col *mongo.Collection, filter any, notFound error) (*T, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var out T
	if err := col.FindOne(ctx, filter).Decode(&out); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, notFound
		}
		return nil, err
	}
	return &out, nil
}

func findMany[T any](ctx context.Context, col *mongo.Collection, filter any, opts ...*options.FindOptions) ([]*T, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := col.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := make([]*T, 0)
	for cur.Next(ctx) {
		var item T
		if err := cur.Decode(&item); err != nil {
			return nil, err
		}
		out = append(out, &item)
	}
	return out, cur.Err()
}

func count(ctx context.Context, col *mongo.Collection, filter any) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()
	return col.CountDocuments(ctx, filter)
}

func exists(ctx context.Context, col *mongo.Collection, filter any) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	n, err := col.CountDocuments(ctx, filter, options.Count().SetLimit(1))
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// insert maps a unique-index violation to dup.
func insert(ctx context.Context, col *mongo.Collection, doc any, dup error) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := col.InsertOne(ctx, doc); err != nil {
		return mapDuplicate(err, dup)
	}
	return nil
}

// mapDuplicate returns dup for a unique-index violation when dup is set,
// and err unchanged otherwise.
func mapDuplicate(err, dup error) error {
	if dup != nil && mongo.IsDuplicateKeyError(err) {
		return dup
	}
	return err
}

// replaceByID overwrites the document with the given _id.
func replaceByID(ctx context.Context, col *mongo.Collection, id string, doc any, notFound, dup error) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := col.ReplaceOne(ctx, bson.M{"_id": id}, doc)
	if err != nil {
		return mapDuplicate(err, dup)
	}
	if res.MatchedCount == 0 {
		return notFound
	}
	return nil
}

// setStatusIf moves the document from one status to another and reports
// whether the stored status still matched from.
func setStatusIf(ctx context.Context, col *mongo.Collection, id string, from, to string, at time.Time) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := col.UpdateOne(ctx,
		bson.M{"_id": id, "status": from},
		bson.M{"$set": bson.M{"status": to, "updated_at": at.UTC()}},
	)
	if err != nil {
		return false, err
	}
	return res.MatchedCount == 1, nil
}
