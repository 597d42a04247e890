package session

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// Revoker remembers session ids that were logged out before they expired.
type Revoker interface {
	Revoke(ctx context.Context, id string, ttl time.Duration) error
	IsRevoked(ctx context.Context, id string) (bool, error)
}

// NopRevoker never revokes anything; logout then relies on the client
// dropping its cookie.
type NopRevoker struct{}

func (NopRevoker) Revoke(context.Context, string, time.Duration) error { return nil }

func (NopRevoker) IsRevoked(context.Context, string) (bool, error) { return false, nil }

type redisRevoker struct {
	rdb *redis.Client
}

// NewRedisRevoker keeps revoked ids in Redis until the token would have
// expired anyway.
func NewRedisRevoker(rdb *redis.Client) Revoker {
	return &redisRevoker{rdb: rdb}
}

func revokedKey(id string) string {
	return fmt.Sprintf("session:revoked:%s", id)
}

func (r *redisRevoker) Revoke(ctx context.Context, id string, ttl time.Duration) error {
	if id == "" || ttl <= 0 {
		return nil
	}
	return r.rdb.Set(ctx, revokedKey(id), "1", ttl).Err()
}

func (r *redisRevoker) IsRevoked(ctx context.Context, id string) (bool, error) {
	n, err := r.rdb.Exists(ctx, revokedKey(id)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
