package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/feedbackhub/portal/internal/core/ports"
)

const tokenKeyPrefix = "portal:token:"

// TokenStore keeps bearer tokens in Redis.
// Key format: portal:token:<browser_id>
type TokenStore struct {
	client redis.Cmdable
	ttl    time.Duration
}

var _ ports.TokenStore = (*TokenStore)(nil)

// NewTokenStore wraps client. A ttl of zero stores keys without expiry.
func NewTokenStore(client redis.Cmdable, ttl time.Duration) *TokenStore {
	return &TokenStore{client: client, ttl: ttl}
}

func (s *TokenStore) Get(ctx context.Context, browserID string) (string, bool, error) {
	token, err := s.client.Get(ctx, s.key(browserID)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("token get: %w", err)
	}
	if token == "" {
		return "", false, nil
	}
	return token, true, nil
}

func (s *TokenStore) Set(ctx context.Context, browserID, token string) error {
	if err := s.client.Set(ctx, s.key(browserID), token, s.ttl).Err(); err != nil {
		return fmt.Errorf("token set: %w", err)
	}
	return nil
}

func (s *TokenStore) Clear(ctx context.Context, browserID string) error {
	if err := s.client.Del(ctx, s.key(browserID)).Err(); err != nil {
		return fmt.Errorf("token clear: %w", err)
	}
	return nil
}

func (s *TokenStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *TokenStore) key(browserID string) string {
	return tokenKeyPrefix + browserID
}
