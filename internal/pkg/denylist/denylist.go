// Package denylist revokes access tokens before their natural expiry.
//
// Revocation is keyed by the token's JTI claim. Entries carry a TTL equal to
// the token's remaining lifetime, so the list never grows beyond the set of
// tokens that could still be replayed.
package denylist

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// Denylist records revoked token IDs and answers membership checks.
type Denylist interface {
	// Revoke marks the token ID as revoked until ttl elapses.
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
	// IsRevoked reports whether the token ID has been revoked.
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// Redis is a Denylist implementation backed by go-redis.
type Redis struct {
	client *redis.Client
	prefix string
}

// NewRedis creates a Redis-backed denylist.
func NewRedis(client *redis.Client) *Redis {
	return &Redis{
		client: client,
		prefix: "denylist:jti:",
	}
}

// Revoke marks the token ID as revoked until ttl elapses.
//
// A non-positive ttl means the token already expired; there is nothing to
// revoke.
func (r *Redis) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}

	return r.client.Set(ctx, r.prefix+jti, "1", ttl).Err()
}

// IsRevoked reports whether the token ID has been revoked.
func (r *Redis) IsRevoked(ctx context.Context, jti string) (bool, error) {
	err := r.client.Get(ctx, r.prefix+jti).Err()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	return true, nil
}
