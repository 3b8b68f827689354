package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// TokenDenylist records revoked token ids until their natural expiry.
// Sign-out writes an entry; the identity middleware consults it on every
// authenticated request.
type TokenDenylist interface {
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

type redisDenylist struct{ rdb *redis.Client }

func NewTokenDenylist(rdb *redis.Client) TokenDenylist { return &redisDenylist{rdb: rdb} }

func denyKey(jti string) string { return "revoked-token:" + jti }

func (d *redisDenylist) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		// Already expired — nothing to deny.
		return nil
	}
	if err := d.rdb.Set(ctx, denyKey(jti), 1, ttl).Err(); err != nil {
		return fmt.Errorf("token revoke: %w", err)
	}
	return nil
}

func (d *redisDenylist) IsRevoked(ctx context.Context, jti string) (bool, error) {
	n, err := d.rdb.Exists(ctx, denyKey(jti)).Result()
	if err != nil {
		return false, fmt.Errorf("token denylist check: %w", err)
	}
	return n > 0, nil
}
