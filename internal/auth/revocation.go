package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const revokedKeyPrefix = "revoked:"

// Revoker はログアウト済みトークンの失効リストです。
type Revoker interface {
	// Revoke は jti を until まで失効済みとして記録します。
	Revoke(ctx context.Context, jti string, until time.Time) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// NoopRevoker は失効リストを持たない実装です。
// ログアウト後もトークンは本来の有効期限まで有効なままになります。
type NoopRevoker struct{}

func (NoopRevoker) Revoke(context.Context, string, time.Time) error { return nil }

func (NoopRevoker) IsRevoked(context.Context, string) (bool, error) { return false, nil }

// RedisRevoker は失効済み jti を Redis に保存します。
// キーの TTL はトークンの残り有効期間に合わせるため、失効リストは自然に縮みます。
type RedisRevoker struct {
	rdb *redis.Client
	now func() time.Time
}

// NewRedisRevoker は RedisRevoker を作成します。
func NewRedisRevoker(rdb *redis.Client) *RedisRevoker {
	return &RedisRevoker{
		rdb: rdb,
		now: time.Now,
	}
}

func (r *RedisRevoker) Revoke(ctx context.Context, jti string, until time.Time) error {
	if jti == "" {
		return fmt.Errorf("jti is required")
	}
	ttl := until.Sub(r.now())
	if ttl <= 0 {
		// すでに期限切れのトークンは記録不要
		return nil
	}
	return r.rdb.Set(ctx, revokedKey(jti), "1", ttl).Err()
}

func (r *RedisRevoker) IsRevoked(ctx context.Context, jti string) (bool, error) {
	if jti == "" {
		return false, nil
	}
	n, err := r.rdb.Exists(ctx, revokedKey(jti)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func revokedKey(jti string) string {
	return revokedKeyPrefix + jti
}
