package main

import (
	"log/slog"

	redis "github.com/redis/go-redis/v9"

	"github.com/yourusername/storefront-api/internal/auth"
	"github.com/yourusername/storefront-api/internal/config"
	"github.com/yourusername/storefront-api/internal/jobs"
	"github.com/yourusername/storefront-api/internal/users"
)

// setupRevoker は REDIS_URL が設定されていればトークン失効リストを用意します。
// 未設定の場合、ログアウトはクッキーを消すだけでトークン自体は期限まで有効です。
func setupRevoker(cfg *config.Config) (auth.Revoker, func(), error) {
	if cfg.RedisURL == "" {
		return auth.NoopRevoker{}, func() {}, nil
	}
	opt, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, nil, err
	}
	redisClient := redis.NewClient(opt)
	return auth.NewRedisRevoker(redisClient), func() { _ = redisClient.Close() }, nil
}

func setupJobs(cfg *config.Config, store users.Store, logger *slog.Logger) (*jobs.Manager, error) {
	return jobs.NewManager(cfg, store, logger.With("component", "jobs"))
}
