package session

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RevocationStore tracks token ids revoked by logout before their
// natural expiry. Tokens are otherwise stateless; this is the only
// server-side state the session layer keeps.
type RevocationStore interface {
	Revoke(ctx context.Context, jti string, until time.Time) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

type RedisRevocationStore struct {
	client *redis.Client
	prefix string
}

// NewRedisRevocationStore creates a Redis-backed revocation list.
// Entries expire with the token they revoke, so the list never grows
// past the set of live tokens.
func NewRedisRevocationStore(client *redis.Client) *RedisRevocationStore {
	return &RedisRevocationStore{
		client: client,
		prefix: "revoked:",
	}
}

func (r *RedisRevocationStore) key(jti string) string {
	return r.prefix + jti
}

func (r *RedisRevocationStore) Revoke(ctx context.Context, jti string, until time.Time) error {
	if jti == "" {
		return fmt.Errorf("session: missing token id")
	}

	ttl := time.Until(until)
	if ttl <= 0 {
		// Already expired; nothing to revoke.
		return nil
	}

	return r.client.Set(ctx, r.key(jti), "1", ttl).Err()
}

func (r *RedisRevocationStore) IsRevoked(ctx context.Context, jti string) (bool, error) {
	_, err := r.client.Get(ctx, r.key(jti)).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
