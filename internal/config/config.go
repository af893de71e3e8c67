// Package config は環境変数から設定を読み込み、アプリケーション全体で使用する設定を提供します。
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
	EnvTest        = "test"
)

// Config はアプリケーションの設定を保持する構造体です。
type Config struct {
	// サーバー設定
	Env     string // 実行環境 (development, production, test)
	Port    string // APIサーバーのポート番号
	GinMode string // Ginの実行モード (debug, release, test)

	// CORS設定
	CORSAllowedOrigins string // CORS許可オリジン（カンマ区切り、* で全許可）

	// MongoDB設定
	MongoURI      string // MongoDB接続URI
	MongoDatabase string // 使用するデータベース名

	// トークン設定
	JWTSecret           string        // JWT署名用の秘密鍵
	JWTExpire           time.Duration // JWTの有効期限
	JWTCookieExpireDays int           // トークンクッキーの有効日数

	// Redis設定（空の場合は機能を無効化）
	RedisURL      string // ログアウト済みトークンの失効リスト用
	QueueRedisURL string // ログインイベント用 Asynq キュー
}

// Load は環境変数から設定を読み込みます。
// .env.local や config/config.env が存在する場合はそこから読み込みます。
func Load() (*Config, error) {
	loadEnvFile()

	env := getEnv("NODE_ENV", EnvDevelopment)
	defaultMode := "debug"
	if env == EnvProduction {
		defaultMode = "release"
	}

	jwtExpire, err := ParseExpire(getEnv("JWT_EXPIRE", "30d"))
	if err != nil {
		return nil, fmt.Errorf("JWT_EXPIRE: %w", err)
	}
	cookieExpireDays, err := getEnvAsInt("JWT_COOKIE_EXPIRE", 30)
	if err != nil {
		return nil, fmt.Errorf("JWT_COOKIE_EXPIRE: %w", err)
	}

	config := &Config{
		Env:     env,
		Port:    getEnv("PORT", "5000"),
		GinMode: getEnv("GIN_MODE", defaultMode),

		CORSAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "*"),

		MongoURI:      getEnv("MONGO_URI", "mongodb://127.0.0.1:27017"),
		MongoDatabase: getEnv("MONGO_DATABASE", "storefront"),

		JWTSecret:           getEnv("JWT_SECRET", ""),
		JWTExpire:           jwtExpire,
		JWTCookieExpireDays: cookieExpireDays,

		RedisURL:      getEnv("REDIS_URL", ""),
		QueueRedisURL: getEnv("QUEUE_REDIS_URL", ""),
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func loadEnvFile() {
	// godotenv.Load は既存の環境変数を上書きしない
	_ = godotenv.Load(filepath.Join("config", "config.env"))

	if err := godotenv.Load(".env.local"); err == nil {
		return
	}

	cwd, err := os.Getwd()
	if err != nil {
		return
	}

	parent := filepath.Dir(cwd)
	if parent == "" || parent == cwd {
		return
	}

	_ = godotenv.Load(filepath.Join(parent, ".env.local"))
}

// Validate は設定の妥当性を検証します。
func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if c.JWTExpire <= 0 {
		return fmt.Errorf("JWT_EXPIRE must be positive")
	}
	if c.JWTCookieExpireDays <= 0 {
		return fmt.Errorf("JWT_COOKIE_EXPIRE must be positive")
	}
	if c.MongoURI == "" {
		return fmt.Errorf("MONGO_URI is required")
	}
	if c.MongoDatabase == "" {
		return fmt.Errorf("MONGO_DATABASE is required")
	}
	if c.IsProduction() && len(c.JWTSecret) < 32 {
		return fmt.Errorf("JWT_SECRET must be at least 32 bytes in production")
	}
	return nil
}

// IsProduction は本番環境で動作しているかを返します。
func (c *Config) IsProduction() bool {
	return c.Env == EnvProduction
}

// IsDevelopment は開発環境で動作しているかを返します。
func (c *Config) IsDevelopment() bool {
	return c.Env == EnvDevelopment
}

// CookieLifetime はトークンクッキーの有効期間を返します。
func (c *Config) CookieLifetime() time.Duration {
	return time.Duration(c.JWTCookieExpireDays) * 24 * time.Hour
}

// AllowedOrigins は CORS 許可オリジンを配列で返します。
func (c *Config) AllowedOrigins() []string {
	var origins []string
	for _, o := range strings.Split(c.CORSAllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

// ParseExpire は "30d" のような日数表記と Go の Duration 表記 ("12h" など) を解釈します。
// 単位なしの数値は秒として扱います。
func ParseExpire(value string) (time.Duration, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, fmt.Errorf("empty duration")
	}
	if days, ok := strings.CutSuffix(value, "d"); ok {
		n, err := strconv.Atoi(days)
		if err != nil {
			return 0, fmt.Errorf("invalid day count %q", value)
		}
		return time.Duration(n) * 24 * time.Hour, nil
	}
	if secs, err := strconv.Atoi(value); err == nil {
		return time.Duration(secs) * time.Second, nil
	}
	return time.ParseDuration(value)
}

// getEnv は環境変数を取得し、存在しない場合はデフォルト値を返します。
func getEnv(key string, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvAsInt は環境変数を整数として取得します。未設定なら既定値を返します。
func getEnvAsInt(key string, defaultValue int) (int, error) {
	valueStr := strings.TrimSpace(os.Getenv(key))
	if valueStr == "" {
		return defaultValue, nil
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return 0, fmt.Errorf("invalid integer %q", valueStr)
	}
	return value, nil
}
