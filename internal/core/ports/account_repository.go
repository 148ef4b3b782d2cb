package ports

import (
	"context"
	"time"

	"github.com/campuslink/campus-api/internal/core/domain"
)

// AccountRepository persists identity-provider accounts.
type AccountRepository interface {
	// Create inserts a user. A duplicate email yields domain.ErrEmailTaken.
	Create(ctx context.Context, user *domain.User) error
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	// Delete removes the user. Deleting an absent user is not an error.
	Delete(ctx context.Context, id string) error
}

// TokenRevocationStore remembers revoked session token ids until they expire.
type TokenRevocationStore interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// OAuthStateStore holds single-use sign-in state nonces.
type OAuthStateStore interface {
	Save(ctx context.Context, state string, ttl time.Duration) error
	// Consume deletes the state and reports whether it existed.
	Consume(ctx context.Context, state string) (bool, error)
}
