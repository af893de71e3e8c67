// Package jobs はログインイベントの非同期記録を提供します。
package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/hibiken/asynq"

	"github.com/yourusername/storefront-api/internal/apperr"
	"github.com/yourusername/storefront-api/internal/users"
)

// LoginWorker はログイン記録タスクを処理し、ユーザーの lastLoginAt を更新します。
type LoginWorker struct {
	store  users.Store
	logger *slog.Logger
}

// NewLoginWorker は LoginWorker を作成します。
func NewLoginWorker(store users.Store, logger *slog.Logger) *LoginWorker {
	if logger == nil {
		logger = slog.Default()
	}
	return &LoginWorker{store: store, logger: logger}
}

// ProcessTask は asynq.Handler の実装です。
func (w *LoginWorker) ProcessTask(ctx context.Context, task *asynq.Task) error {
	var payload LoginPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return fmt.Errorf("decode payload: %v: %w", err, asynq.SkipRetry)
	}
	if payload.UserID == "" {
		return fmt.Errorf("missing userId in payload: %w", asynq.SkipRetry)
	}

	if err := w.store.RecordLogin(ctx, payload.UserID, payload.At); err != nil {
		// 記録前に削除されたユーザーは再試行しない
		if apperr.IsKind(err, apperr.KindNotFound) {
			w.logger.WarnContext(ctx, "login recorded for missing user", "user_id", payload.UserID)
			return fmt.Errorf("user %s not found: %w", payload.UserID, asynq.SkipRetry)
		}
		return err
	}
	return nil
}
