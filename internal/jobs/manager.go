package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/yourusername/storefront-api/internal/config"
	"github.com/yourusername/storefront-api/internal/users"
)

// Manager はログインイベントの投入とワーカーの起動を担います。
type Manager struct {
	client *asynq.Client
	server *asynq.Server
	mux    *asynq.ServeMux
	logger *slog.Logger
}

// NewManager は Manager を初期化します。
func NewManager(cfg *config.Config, store users.Store, logger *slog.Logger) (*Manager, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}
	if store == nil {
		return nil, errors.New("store is nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	opt, err := asynq.ParseRedisURI(cfg.QueueRedisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis url: %w", err)
	}

	server := asynq.NewServer(
		opt,
		asynq.Config{
			Concurrency: 2,
			Queues: map[string]int{
				queueName: 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.Handle(TaskTypeLoginRecorded, NewLoginWorker(store, logger))

	return &Manager{
		client: asynq.NewClient(opt),
		server: server,
		mux:    mux,
		logger: logger,
	}, nil
}

// StartWorkers は Asynq サーバーをバックグラウンドで起動します。
// サーバーが異常終了した場合は返却したチャネルにエラーを送ります。
func (m *Manager) StartWorkers() <-chan error {
	errs := make(chan error, 1)
	go func() {
		if err := m.server.Run(m.mux); err != nil && !errors.Is(err, asynq.ErrServerClosed) {
			m.logger.Error("asynq server stopped with error", "error", err)
			errs <- err
		}
		close(errs)
	}()
	return errs
}

// Shutdown はサーバーとクライアントを閉じます。
func (m *Manager) Shutdown(ctx context.Context) error {
	m.server.Shutdown()
	return m.client.Close()
}

// RecordLogin はログイン記録タスクをキューに投入します。
func (m *Manager) RecordLogin(ctx context.Context, userID string, at time.Time) error {
	if userID == "" {
		return fmt.Errorf("userID is required")
	}
	task, err := NewLoginTask(userID, at)
	if err != nil {
		return err
	}
	_, err = m.client.EnqueueContext(ctx, task, asynq.MaxRetry(3), asynq.Timeout(30*time.Second))
	return err
}

// NewLoginTask はログイン記録タスクを作成します。
func NewLoginTask(userID string, at time.Time) (*asynq.Task, error) {
	body, err := json.Marshal(LoginPayload{UserID: userID, At: at.UTC()})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypeLoginRecorded, body, asynq.Queue(queueName)), nil
}
