package redis

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/go-redis/redis/v8"
)

// TokenStore keeps the refresh-token allow-list. Only the SHA-256 of the
// token is stored; a token absent from the list is treated as revoked.
type TokenStore struct {
	Client *redis.Client
}

func NewTokenStore(client *redis.Client) *TokenStore {
	return &TokenStore{Client: client}
}

func key(token string) string {
	sum := sha256.Sum256([]byte(token))
	return "refresh_token:" + hex.EncodeToString(sum[:])
}

func (s *TokenStore) Store(ctx context.Context, token, userID string, ttl time.Duration) error {
	return s.Client.Set(ctx, key(token), userID, ttl).Err()
}

func (s *TokenStore) IsValid(ctx context.Context, token string) (bool, error) {
	_, err := s.Client.Get(ctx, key(token)).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *TokenStore) Revoke(ctx context.Context, token string) error {
	err := s.Client.Del(ctx, key(token)).Err()
	if err == redis.Nil {
		return nil
	}
	return err
}
