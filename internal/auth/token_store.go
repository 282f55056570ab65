package auth

import (
	"context"
	"time"

	"incubator/internal/cache"
)

const usedActivationKeyPrefix = "activation_used:"

// TokenStore remembers consumed activation codes in redis until they expire.
// A nil store or an unreachable redis accepts every code.
type TokenStore struct {
	cache *cache.Client
	now   func() time.Time
}

// NewTokenStore creates a new token store.
func NewTokenStore(cache *cache.Client) *TokenStore {
	return &TokenStore{cache: cache, now: time.Now}
}

// ConsumeActivation marks the activation token identified by claims as used.
// It reports false when the token was consumed before.
func (s *TokenStore) ConsumeActivation(ctx context.Context, claims *Claims) bool {
	if s == nil || claims.ID == "" {
		return true
	}
	ttl := time.Minute
	if claims.ExpiresAt != nil {
		if left := claims.ExpiresAt.Sub(s.now()); left > ttl {
			ttl = left
		}
	}
	return s.cache.SetNX(ctx, usedActivationKeyPrefix+claims.ID, []byte(claims.Email), ttl)
}

// ReleaseActivation forgets a consumed activation token so it can be retried.
func (s *TokenStore) ReleaseActivation(ctx context.Context, claims *Claims) {
	if s == nil || claims.ID == "" {
		return
	}
	_ = s.cache.Delete(ctx, usedActivationKeyPrefix+claims.ID)
}
