package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// OAuthStateStore keeps single-use sign-in state nonces.
// Key format: campus:oauth_state:<state>
type OAuthStateStore struct {
	client *redis.Client
}

func NewOAuthStateStore(client *redis.Client) *OAuthStateStore {
	return &OAuthStateStore{client: client}
}

func (s *OAuthStateStore) Save(ctx context.Context, state string, ttl time.Duration) error {
	if err := s.client.Set(ctx, stateKey(state), "1", ttl).Err(); err != nil {
		return fmt.Errorf("save oauth state: %w", err)
	}
	return nil
}

// Consume deletes the nonce. DEL is atomic, so of two concurrent callbacks
// with the same state only one sees it.
func (s *OAuthStateStore) Consume(ctx context.Context, state string) (bool, error) {
	n, err := s.client.Del(ctx, stateKey(state)).Result()
	if err != nil {
		return false, fmt.Errorf("consume oauth state: %w", err)
	}
	return n > 0, nil
}

func stateKey(state string) string {
	return key("oauth_state", state)
}
