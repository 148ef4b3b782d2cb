package api

import (
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/campuslink/campus-api/internal/api/handler"
	"github.com/campuslink/campus-api/internal/api/middleware"
	"github.com/campuslink/campus-api/internal/core/domain"
	"github.com/campuslink/campus-api/internal/core/ports"
	"github.com/campuslink/campus-api/internal/infrastructure/http/handlers"
)

// Services are the core operations the router exposes.
type Services struct {
	Accounts    ports.AccountService
	Roles       ports.RoleService
	Memberships ports.MembershipService
	Communities ports.CommunityService
	Posts       ports.PostService
	Feed        ports.FeedService
	Referrals   ports.ReferralService
	Profiles    ports.ProfileService
}

// NewRouter builds and returns the Echo instance with all routes registered.
// probes are checked by the readiness endpoint.
func NewRouter(svc Services, log zerolog.Logger, probes ...handlers.Dependency) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(log))
	e.Use(httpMetrics())

	// --- Operational surface (no auth required) ---
	e.GET("/health", handlers.NewHealthHandler().Liveness)
	e.GET("/health/ready", handlers.NewHealthDependenciesHandler(probes...).Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	authHandler := handler.NewAuthHandler(svc.Accounts)
	roleHandler := handler.NewRoleHandler(svc.Roles)
	communityHandler := handler.NewCommunityHandler(svc.Communities, svc.Memberships)
	postHandler := handler.NewPostHandler(svc.Posts, svc.Feed)
	referralHandler := handler.NewReferralHandler(svc.Referrals)
	profileHandler := handler.NewProfileHandler(svc.Profiles)

	v1 := e.Group("/v1")

	// --- Auth routes ---
	auth := v1.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.GET("/google/login", authHandler.GoogleLogin)
	auth.GET("/google/callback", authHandler.GoogleCallback)

	// Everything below requires a resolved identity.
	authed := v1.Group("", middleware.Auth(svc.Accounts))
	adminOnly := middleware.RBAC(svc.Roles, domain.ErrAdminRequired, domain.RoleAdmin)
	alumniOnly := middleware.RBAC(svc.Roles, domain.ErrAlumniRequired, domain.RoleAlumni)
	studentOnly := middleware.RBAC(svc.Roles, domain.ErrStudentRequired, domain.RoleStudent)

	authed.POST("/auth/logout", authHandler.Logout)

	// --- Roles ---
	authed.GET("/me/role", roleHandler.Me)
	authed.PUT("/users/:id/role", roleHandler.Set, adminOnly)

	// --- Communities ---
	authed.GET("/communities", communityHandler.List)
	authed.POST("/communities", communityHandler.Create, adminOnly)
	authed.GET("/communities/:id", communityHandler.Get)
	authed.PUT("/communities/:id", communityHandler.Update, adminOnly)
	authed.DELETE("/communities/:id", communityHandler.Delete, adminOnly)
	authed.GET("/communities/:id/stats", communityHandler.Stats, adminOnly)
	authed.POST("/communities/:id/join", communityHandler.Join)
	authed.GET("/communities/:id/members", communityHandler.Members)

	// --- Posts, comments, likes ---
	authed.GET("/communities/:id/feed", postHandler.Feed)
	authed.POST("/communities/:id/posts", postHandler.Create)
	authed.PUT("/posts/:id", postHandler.Update)
	authed.DELETE("/posts/:id", postHandler.Delete)
	authed.POST("/posts/:id/like", postHandler.ToggleLike)
	authed.GET("/posts/:id/comments", postHandler.Comments)
	authed.POST("/posts/:id/comments", postHandler.AddComment)
	authed.DELETE("/comments/:id", postHandler.DeleteComment)

	// --- Referrals ---
	authed.GET("/referrals", referralHandler.ListOpen)
	authed.POST("/referrals", referralHandler.Post, alumniOnly)
	authed.GET("/referrals/mine", referralHandler.Mine)
	authed.GET("/referrals/:id", referralHandler.Get)
	authed.POST("/referrals/:id/close", referralHandler.Close)
	authed.POST("/referrals/:id/applications", referralHandler.Apply, studentOnly)
	authed.GET("/referrals/:id/applications", referralHandler.Applications)
	authed.GET("/applications/mine", referralHandler.MyApplications)
	authed.PUT("/applications/:id/status", referralHandler.Decide)

	// --- Profiles ---
	authed.GET("/profiles/me", profileHandler.Get)
	authed.PUT("/profiles/me", profileHandler.Update)
	authed.POST("/profiles/me/skills", profileHandler.AddSkill)
	authed.GET("/profiles/:id", profileHandler.Get)
	authed.GET("/profiles/:id/full", profileHandler.Full)
	authed.DELETE("/skills/:id", profileHandler.RemoveSkill)
	authed.GET("/alumni", profileHandler.SearchAlumni)

	return e
}

// httpMetrics registers the request collectors with the default registry,
// which accepts them once per process.
var httpMetrics = sync.OnceValue(func() echo.MiddlewareFunc {
	return echoprometheus.NewMiddleware("campus")
})

// requestLogger writes one zerolog line per request.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			event := log.Info()
			if v.Status >= http.StatusInternalServerError {
				event = log.Error()
			}
			event.
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency.Round(time.Microsecond)).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}
