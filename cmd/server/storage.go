package main

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/campuslink/campus-api/internal/core/ports"
	"github.com/campuslink/campus-api/internal/infrastructure/db/mongo"
	"github.com/campuslink/campus-api/internal/infrastructure/db/postgres"
	"github.com/campuslink/campus-api/internal/infrastructure/http/handlers"
	"github.com/campuslink/campus-api/internal/pkg/config"
)

// repositories is the storage backend selected by STORAGE_DRIVER.
type repositories struct {
	accounts     ports.AccountRepository
	roles        ports.RoleRepository
	profiles     ports.ProfileRepository
	skills       ports.SkillRepository
	communities  ports.CommunityRepository
	memberships  ports.MembershipRepository
	posts        ports.PostRepository
	comments     ports.CommentRepository
	likes        ports.LikeRepository
	referrals    ports.ReferralRepository
	applications ports.ApplicationRepository
}

// openStorage connects the configured backend and prepares its schema. The
// returned probe feeds the readiness check; closeFn releases the connection.
func openStorage(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*repositories, handlers.Dependency, func(), error) {
	switch cfg.StorageDriver {
	case config.DriverPostgres:
		return openPostgres(ctx, cfg, log)
	default:
		return openMongo(ctx, cfg, log)
	}
}

func openMongo(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*repositories, handlers.Dependency, func(), error) {
	client, db, err := mongo.Connect(ctx, mongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		return nil, handlers.Dependency{}, nil, fmt.Errorf("connect to mongodb: %w", err)
	}
	closeFn := func() {
		log.Info().Msg("disconnecting from mongodb")
		_ = client.Disconnect(context.Background())
	}

	if err := mongo.EnsureIndexes(ctx, db); err != nil {
		closeFn()
		return nil, handlers.Dependency{}, nil, fmt.Errorf("ensure indexes: %w", err)
	}
	log.Info().Str("database", cfg.Mongo.Database).Msg("mongodb ready")

	repos := &repositories{
		accounts:     mongo.NewAccountRepository(db),
		roles:        mongo.NewRoleRepository(db),
		profiles:     mongo.NewProfileRepository(db),
		skills:       mongo.NewSkillRepository(db),
		communities:  mongo.NewCommunityRepository(db),
		memberships:  mongo.NewMembershipRepository(db),
		posts:        mongo.NewPostRepository(db),
		comments:     mongo.NewCommentRepository(db),
		likes:        mongo.NewLikeRepository(db),
		referrals:    mongo.NewReferralRepository(db),
		applications: mongo.NewApplicationRepository(db),
	}
	probe := handlers.Dependency{
		Name:  "mongodb",
		Check: func(ctx context.Context) error { return client.Ping(ctx, nil) },
	}
	return repos, probe, closeFn, nil
}

func openPostgres(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*repositories, handlers.Dependency, func(), error) {
	database, err := postgres.New(ctx, cfg.Postgres.URL, log)
	if err != nil {
		return nil, handlers.Dependency{}, nil, fmt.Errorf("connect to postgres: %w", err)
	}
	if err := database.Migrate(ctx); err != nil {
		database.Close()
		return nil, handlers.Dependency{}, nil, fmt.Errorf("migrate: %w", err)
	}

	pool := database.Pool()
	repos := &repositories{
		accounts:     postgres.NewAccountStore(pool),
		roles:        postgres.NewRoleStore(pool),
		profiles:     postgres.NewProfileStore(pool),
		skills:       postgres.NewSkillStore(pool),
		communities:  postgres.NewCommunityStore(pool),
		memberships:  postgres.NewMembershipStore(pool),
		posts:        postgres.NewPostStore(pool),
		comments:     postgres.NewCommentStore(pool),
		likes:        postgres.NewLikeStore(pool),
		referrals:    postgres.NewReferralStore(pool),
		applications: postgres.NewApplicationStore(pool),
	}
	probe := handlers.Dependency{Name: "postgres", Check: database.Health}
	return repos, probe, database.Close, nil
}
