package ports

import (
	"context"
	"time"

	"github.com/campuslink/campus-api/internal/core/domain"
)

// IdentityResolver maps an inbound session token to an identity. It fails
// closed: any doubt yields domain.ErrUnauthenticated.
type IdentityResolver interface {
	Resolve(ctx context.Context, token string) (domain.Identity, error)
}

// RegisterInput carries a new local account.
type RegisterInput struct {
	Email    string
	Password string
	Name     string
}

// AuthResult is returned by every sign-in path.
type AuthResult struct {
	Token     string
	ExpiresAt time.Time
	User      *domain.User
}

// GoogleUser is the verified subset of Google's userinfo response.
type GoogleUser struct {
	Email         string
	EmailVerified bool
	Name          string
	Picture       string
}

// GoogleProvider abstracts the OAuth2 code flow against Google.
type GoogleProvider interface {
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (*GoogleUser, error)
}

// AccountService is the local identity provider.
type AccountService interface {
	IdentityResolver
	Register(ctx context.Context, in RegisterInput) (*AuthResult, error)
	Login(ctx context.Context, email, password string) (*AuthResult, error)
	Logout(ctx context.Context, actor domain.Identity) error
	GoogleLoginURL(ctx context.Context) (string, error)
	GoogleCallback(ctx context.Context, state, code string) (*AuthResult, error)
}
