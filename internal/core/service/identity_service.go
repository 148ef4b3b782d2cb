package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/campuslink/campus-api/internal/core/domain"
	"github.com/campuslink/campus-api/internal/core/ports"
)

const (
	tokenIssuer    = "campus-api"
	oauthStateTTL  = 10 * time.Minute
	minPasswordLen = 8
)

// Claims is the session token payload. Roles are not carried in it; they
// are resolved from the Role Store on every call.
type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// AccountService implements registration, sign-in, and identity resolution.
type AccountService struct {
	accounts  ports.AccountRepository
	profiles  ports.ProfileRepository
	revoked   ports.TokenRevocationStore
	states    ports.OAuthStateStore
	google    ports.GoogleProvider
	jwtSecret string
	tokenTTL  time.Duration
	logger    zerolog.Logger
}

// AccountDeps groups the collaborators of AccountService. Google and States
// may be nil when social sign-in is not configured.
type AccountDeps struct {
	Accounts ports.AccountRepository
	Profiles ports.ProfileRepository
	Revoked  ports.TokenRevocationStore
	States   ports.OAuthStateStore
	Google   ports.GoogleProvider
}

func NewAccountService(deps AccountDeps, jwtSecret string, tokenTTL time.Duration, logger zerolog.Logger) *AccountService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &AccountService{
		accounts:  deps.Accounts,
		profiles:  deps.Profiles,
		revoked:   deps.Revoked,
		states:    deps.States,
		google:    deps.Google,
		jwtSecret: jwtSecret,
		tokenTTL:  tokenTTL,
		logger:    logger,
	}
}

// Resolve validates a session token and returns the caller's identity.
func (s *AccountService) Resolve(ctx context.Context, token string) (domain.Identity, error) {
	if strings.TrimSpace(token) == "" {
		return domain.Identity{}, domain.ErrUnauthenticated
	}

	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return []byte(s.jwtSecret), nil
	}, jwt.WithIssuer(tokenIssuer), jwt.WithExpirationRequired())
	if err != nil || !parsed.Valid {
		return domain.Identity{}, domain.ErrInvalidToken
	}
	if claims.Subject == "" || claims.ID == "" || claims.ExpiresAt == nil {
		return domain.Identity{}, domain.ErrInvalidToken
	}

	revoked, err := s.revoked.IsRevoked(ctx, claims.ID)
	if err != nil {
		s.logger.Warn().Err(err).Str("user_id", claims.Subject).Msg("revocation check failed, rejecting token")
		return domain.Identity{}, domain.ErrUnauthenticated
	}
	if revoked {
		return domain.Identity{}, domain.ErrInvalidToken
	}

	return domain.Identity{
		UserID:    claims.Subject,
		Email:     claims.Email,
		TokenID:   claims.ID,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

func (s *AccountService) Register(ctx context.Context, in ports.RegisterInput) (*ports.AuthResult, error) {
	email := normalizeEmail(in.Email)
	name := strings.TrimSpace(in.Name)
	switch {
	case email == "":
		return nil, domain.Missing("email")
	case in.Password == "":
		return nil, domain.Missing("password")
	case name == "":
		return nil, domain.Missing("name")
	case len(in.Password) < minPasswordLen:
		return nil, domain.ErrWeakPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, domain.Upstream("hash password", err)
	}

	user, err := s.createAccount(ctx, email, string(hash), domain.ProviderPassword, &domain.Profile{Name: name})
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("user_id", user.ID).Msg("account registered")
	return s.issue(user)
}

func (s *AccountService) Login(ctx context.Context, email, password string) (*ports.AuthResult, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.accounts.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}
	if user.PasswordHash == "" {
		return nil, domain.ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, domain.ErrInvalidCredentials
	}

	return s.issue(user)
}

// Logout revokes the caller's token until it would have expired anyway.
func (s *AccountService) Logout(ctx context.Context, actor domain.Identity) error {
	if actor.UserID == "" || actor.TokenID == "" {
		return domain.ErrUnauthenticated
	}
	ttl := time.Until(actor.ExpiresAt)
	if ttl <= 0 {
		return nil
	}
	if err := s.revoked.Revoke(ctx, actor.TokenID, ttl); err != nil {
		return domain.Upstream("revoke token", err)
	}
	s.logger.Info().Str("user_id", actor.UserID).Msg("session revoked")
	return nil
}

func (s *AccountService) GoogleLoginURL(ctx context.Context) (string, error) {
	if s.google == nil || s.states == nil {
		return "", domain.ErrProviderDisabled
	}
	state, err := randomState()
	if err != nil {
		return "", domain.Upstream("generate oauth state", err)
	}
	if err := s.states.Save(ctx, state, oauthStateTTL); err != nil {
		return "", domain.Upstream("save oauth state", err)
	}
	return s.google.AuthCodeURL(state), nil
}

func (s *AccountService) GoogleCallback(ctx context.Context, state, code string) (*ports.AuthResult, error) {
	if s.google == nil || s.states == nil {
		return nil, domain.ErrProviderDisabled
	}
	if state == "" || code == "" {
		return nil, domain.ErrInvalidOAuthFlow
	}

	ok, err := s.states.Consume(ctx, state)
	if err != nil {
		return nil, domain.Upstream("consume oauth state", err)
	}
	if !ok {
		return nil, domain.ErrInvalidOAuthFlow
	}

	gu, err := s.google.Exchange(ctx, code)
	if err != nil {
		s.logger.Warn().Err(err).Msg("google code exchange failed")
		return nil, domain.ErrInvalidOAuthFlow
	}
	email := normalizeEmail(gu.Email)
	if email == "" || !gu.EmailVerified {
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.accounts.FindByEmail(ctx, email)
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrUserNotFound):
		name := strings.TrimSpace(gu.Name)
		if name == "" {
			name = strings.SplitN(email, "@", 2)[0]
		}
		user, err = s.createAccount(ctx, email, "", domain.ProviderGoogle, &domain.Profile{
			Name:          name,
			ProfilePicURL: gu.Picture,
		})
		if err != nil {
			return nil, err
		}
		s.logger.Info().Str("user_id", user.ID).Msg("account registered via google")
	default:
		return nil, err
	}

	return s.issue(user)
}

func (s *AccountService) createAccount(ctx context.Context, email, hash, provider string, profile *domain.Profile) (*domain.User, error) {
	now := time.Now().UTC()
	user := &domain.User{
		ID:           newID(),
		Email:        email,
		PasswordHash: hash,
		Provider:     provider,
		CreatedAt:    now,
	}
	if err := s.accounts.Create(ctx, user); err != nil {
		return nil, storageErr("create account", err)
	}

	profile.UserID = user.ID
	profile.CreatedAt = now
	profile.UpdatedAt = now
	if err := s.profiles.Create(ctx, profile); err != nil {
		// An account without a profile would keep its email taken forever.
		if derr := s.accounts.Delete(context.WithoutCancel(ctx), user.ID); derr != nil {
			s.logger.Error().Err(derr).Str("user_id", user.ID).Msg("remove account after failed profile create")
		}
		return nil, storageErr("create profile", err)
	}
	return user, nil
}

func (s *AccountService) issue(user *domain.User) (*ports.AuthResult, error) {
	now := time.Now()
	exp := now.Add(s.tokenTTL)
	claims := Claims{
		Email: user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			ID:        newID(),
			Issuer:    tokenIssuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.jwtSecret))
	if err != nil {
		return nil, domain.Upstream("sign token", fmt.Errorf("user %s: %w", user.ID, err))
	}
	return &ports.AuthResult{Token: signed, ExpiresAt: exp.UTC(), User: user}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func randomState() (string, error) {
	b := make([]byte, 24)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
