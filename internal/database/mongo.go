// Package database は MongoDB への接続管理を提供します。
package database

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/yourusername/storefront-api/internal/apperr"
	"github.com/yourusername/storefront-api/internal/config"
)

const connectTimeout = 10 * time.Second

// Mongo は MongoDB クライアントと使用するデータベースを保持します。
type Mongo struct {
	Client *mongo.Client
	DB     *mongo.Database
}

// Connect は設定に従って MongoDB に接続し、疎通確認まで行います。
func Connect(ctx context.Context, cfg *config.Config) (*Mongo, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is nil")
	}

	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		return nil, fmt.Errorf("failed to connect mongodb: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	return &Mongo{
		Client: client,
		DB:     client.Database(cfg.MongoDatabase),
	}, nil
}

// Close は接続を閉じます。
func (m *Mongo) Close(ctx context.Context) error {
	if m == nil || m.Client == nil {
		return nil
	}
	return m.Client.Disconnect(ctx)
}

// ParseID は16進文字列の ObjectID を解釈します。
// 不正な形式は存在しないリソースとして扱います。
func ParseID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, apperr.NotFound("Resource not found").Wrap(err)
	}
	return oid, nil
}

// TranslateError はドライバーのエラーを apperr の種別に変換します。
func TranslateError(err error) error {
	switch {
	case err == nil:
		return nil
	case mongo.IsDuplicateKeyError(err):
		return apperr.Validation("Duplicate field value entered").Wrap(err)
	case err == mongo.ErrNoDocuments:
		return apperr.NotFound("Resource not found").Wrap(err)
	default:
		return err
	}
}
