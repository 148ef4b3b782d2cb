// Command server runs the campus API.
//
// @title                       Campus API
// @version                     1.0
// @description                 Role-based campus network: communities, feeds, and alumni referrals.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	_ "github.com/campuslink/campus-api/docs"
	"github.com/campuslink/campus-api/internal/api"
	"github.com/campuslink/campus-api/internal/core/ports"
	"github.com/campuslink/campus-api/internal/core/service"
	"github.com/campuslink/campus-api/internal/infrastructure/db/redis"
	"github.com/campuslink/campus-api/internal/infrastructure/http/handlers"
	"github.com/campuslink/campus-api/internal/infrastructure/notify"
	"github.com/campuslink/campus-api/internal/infrastructure/oauth"
	"github.com/campuslink/campus-api/internal/pkg/config"
	"github.com/campuslink/campus-api/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 1. Config and logger
	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}
	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.Development(),
		Service: "campus-api",
	})

	// 2. Storage
	repos, storeProbe, closeStore, err := openStorage(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeStore()

	rdb, err := redis.Connect(ctx, redis.Config{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
	if err != nil {
		return fmt.Errorf("connect to redis: %w", err)
	}
	defer rdb.Close()
	redisProbe := handlers.Dependency{
		Name:  "redis",
		Check: func(ctx context.Context) error { return redis.Ping(ctx, rdb) },
	}

	// 3. Services
	svc := buildServices(cfg, repos, rdb, log)

	// 4. HTTP
	e := api.NewRouter(svc, log, storeProbe, redisProbe)

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Str("storage", cfg.StorageDriver).Msg("starting campus api")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}

func buildServices(cfg *config.Config, repos *repositories, rdb *goredis.Client, log zerolog.Logger) api.Services {
	var google ports.GoogleProvider
	googleCfg := oauth.GoogleConfig{
		ClientID:     cfg.Google.ClientID,
		ClientSecret: cfg.Google.ClientSecret,
		RedirectURL:  cfg.Google.RedirectURL,
	}
	if googleCfg.Enabled() {
		google = oauth.NewGoogle(googleCfg)
	} else {
		log.Info().Msg("google sign-in disabled")
	}

	accounts := service.NewAccountService(service.AccountDeps{
		Accounts: repos.accounts,
		Profiles: repos.profiles,
		Revoked:  redis.NewRevocationStore(rdb),
		States:   redis.NewOAuthStateStore(rdb),
		Google:   google,
	}, cfg.JWTSecret, cfg.JWTTTL, logger.Component("accounts"))

	roles := service.NewRoleService(repos.roles, repos.accounts, logger.Component("roles"))
	memberships := service.NewMembershipService(repos.memberships, repos.communities, logger.Component("memberships"))

	return api.Services{
		Accounts:    accounts,
		Roles:       roles,
		Memberships: memberships,
		Communities: service.NewCommunityService(repos.communities, repos.memberships, repos.posts, roles, logger.Component("communities")),
		Posts:       service.NewPostService(repos.posts, repos.comments, memberships, logger.Component("posts")),
		Feed:        service.NewFeedService(repos.posts, repos.comments, repos.likes, memberships, logger.Component("feed")),
		Referrals:   service.NewReferralService(repos.referrals, repos.applications, roles, notify.NewLogNotifier(log), logger.Component("referrals")),
		Profiles: service.NewProfileService(service.ProfileDeps{
			Profiles:     repos.profiles,
			Skills:       repos.skills,
			RoleRows:     repos.roles,
			Memberships:  repos.memberships,
			Communities:  repos.communities,
			Referrals:    repos.referrals,
			Applications: repos.applications,
		}, roles, logger.Component("profiles")),
	}
}
