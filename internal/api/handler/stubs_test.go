package handler

import (
	"context"
	"io"
	"net/http/httptest"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/campuslink/campus-api/internal/api/middleware"
	"github.com/campuslink/campus-api/internal/core/domain"
	"github.com/campuslink/campus-api/internal/core/ports"
)

// newContext builds an echo context with the validator installed. identity
// may be empty for unauthenticated routes.
func newContext(method, target, body string, identity domain.Identity) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()

	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if identity.UserID != "" {
		middleware.WithIdentity(c, identity)
	}
	return c, rec
}

type stubAccountService struct {
	registerFn func(ctx context.Context, in ports.RegisterInput) (*ports.AuthResult, error)
	loginFn    func(ctx context.Context, email, password string) (*ports.AuthResult, error)
	logoutFn   func(ctx context.Context, actor domain.Identity) error
	googleURL  string
}

func (s *stubAccountService) Resolve(context.Context, string) (domain.Identity, error) {
	return domain.Identity{}, domain.ErrInvalidToken
}

func (s *stubAccountService) Register(ctx context.Context, in ports.RegisterInput) (*ports.AuthResult, error) {
	return s.registerFn(ctx, in)
}

func (s *stubAccountService) Login(ctx context.Context, email, password string) (*ports.AuthResult, error) {
	return s.loginFn(ctx, email, password)
}

func (s *stubAccountService) Logout(ctx context.Context, actor domain.Identity) error {
	return s.logoutFn(ctx, actor)
}

func (s *stubAccountService) GoogleLoginURL(context.Context) (string, error) {
	if s.googleURL == "" {
		return "", domain.ErrProviderDisabled
	}
	return s.googleURL, nil
}

func (s *stubAccountService) GoogleCallback(context.Context, string, string) (*ports.AuthResult, error) {
	return nil, domain.ErrInvalidOAuthFlow
}

type stubReferralService struct {
	ports.ReferralService
	applyFn  func(ctx context.Context, actor domain.Identity, in ports.ApplyInput) (*domain.Application, error)
	decideFn func(ctx context.Context, actor domain.Identity, id, status string) (*domain.Application, error)
	postFn   func(ctx context.Context, actor domain.Identity, in ports.ReferralInput) (*domain.Referral, error)
}

func (s *stubReferralService) Apply(ctx context.Context, actor domain.Identity, in ports.ApplyInput) (*domain.Application, error) {
	return s.applyFn(ctx, actor, in)
}

func (s *stubReferralService) DecideApplication(ctx context.Context, actor domain.Identity, id, status string) (*domain.Application, error) {
	return s.decideFn(ctx, actor, id, status)
}

func (s *stubReferralService) PostReferral(ctx context.Context, actor domain.Identity, in ports.ReferralInput) (*domain.Referral, error) {
	return s.postFn(ctx, actor, in)
}

type stubMembershipService struct {
	ports.MembershipService
	joinFn func(ctx context.Context, actor domain.Identity, communityID string) (*domain.Membership, error)
}

func (s *stubMembershipService) Join(ctx context.Context, actor domain.Identity, communityID string) (*domain.Membership, error) {
	return s.joinFn(ctx, actor, communityID)
}

type stubFeedService struct {
	feedFn   func(ctx context.Context, actor domain.Identity, communityID string) ([]domain.FeedItem, error)
	toggleFn func(ctx context.Context, actor domain.Identity, postID string) (*ports.LikeResult, error)
}

func (s *stubFeedService) GetFeed(ctx context.Context, actor domain.Identity, communityID string) ([]domain.FeedItem, error) {
	return s.feedFn(ctx, actor, communityID)
}

func (s *stubFeedService) ToggleLike(ctx context.Context, actor domain.Identity, postID string) (*ports.LikeResult, error) {
	return s.toggleFn(ctx, actor, postID)
}

type stubProfileService struct {
	ports.ProfileService
	getFn    func(ctx context.Context, actor domain.Identity, target string) (*ports.ProfileView, error)
	updateFn func(ctx context.Context, actor domain.Identity, patch domain.ProfilePatch) (*domain.Profile, error)
}

func (s *stubProfileService) GetProfile(ctx context.Context, actor domain.Identity, target string) (*ports.ProfileView, error) {
	return s.getFn(ctx, actor, target)
}

func (s *stubProfileService) UpdateProfile(ctx context.Context, actor domain.Identity, patch domain.ProfilePatch) (*domain.Profile, error) {
	return s.updateFn(ctx, actor, patch)
}
