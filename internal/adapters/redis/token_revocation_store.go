package redis_adapter

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

const revocationKeyPrefix = "token:blacklist:jti:"

// revocationClient - подмножество команд Redis, нужное хранилищу отзыва.
type revocationClient interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *goredis.StatusCmd
	Exists(ctx context.Context, keys ...string) *goredis.IntCmd
}

// TokenRevocationStore хранит отозванные jti в Redis до истечения срока токена,
// так что выход действует на всех инстансах сервиса.
type TokenRevocationStore struct {
	client revocationClient
}

func NewTokenRevocationStore(client *goredis.Client) *TokenRevocationStore {
	return &TokenRevocationStore{client: client}
}

func (s *TokenRevocationStore) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	if err := s.client.Set(ctx, revocationKeyPrefix+tokenID, "1", ttl).Err(); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	return nil
}

func (s *TokenRevocationStore) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	exists, err := s.client.Exists(ctx, revocationKeyPrefix+tokenID).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check token revocation: %w", err)
	}
	return exists > 0, nil
}
