// Package main はAPIサーバーのエントリーポイントです。
package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/yourusername/storefront-api/internal/apperr"
	"github.com/yourusername/storefront-api/internal/auth"
	"github.com/yourusername/storefront-api/internal/config"
	"github.com/yourusername/storefront-api/internal/database"
	"github.com/yourusername/storefront-api/internal/logging"
	"github.com/yourusername/storefront-api/internal/products"
	"github.com/yourusername/storefront-api/internal/users"
)

const shutdownTimeout = 10 * time.Second

// dependencies はルーティングに必要な依存をまとめたものです。
type dependencies struct {
	users    users.Store
	products products.Store
	revoker  auth.Revoker
	logins   auth.LoginRecorder
}

func main() {
	// 設定の読み込み
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	logger := logging.New(cfg)

	if err := run(cfg, logger); err != nil {
		logger.Error("server stopped with error", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	mongo, err := database.Connect(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := mongo.Close(closeCtx); err != nil {
			logger.Warn("failed to close mongodb", "error", err)
		}
	}()
	logger.Info("MongoDB connected", "database", cfg.MongoDatabase)

	userStore := users.NewMongoStore(mongo.DB)
	if err := userStore.EnsureIndexes(ctx); err != nil {
		return err
	}

	revoker, closeRevoker, err := setupRevoker(cfg)
	if err != nil {
		return err
	}
	defer closeRevoker()

	deps := dependencies{
		users:    userStore,
		products: products.NewMongoStore(mongo.DB),
		revoker:  revoker,
	}

	// バックグラウンドワーカーの異常終了はプロセスを止める
	var workerErrs <-chan error
	if cfg.QueueRedisURL != "" {
		manager, err := setupJobs(cfg, userStore, logger)
		if err != nil {
			return err
		}
		workerErrs = manager.StartWorkers()
		defer func() {
			if err := manager.Shutdown(context.Background()); err != nil {
				logger.Warn("failed to shut down job manager", "error", err)
			}
		}()
		deps.logins = manager
	}

	gin.SetMode(cfg.GinMode)
	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           newRouter(cfg, logger, deps),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErrs := make(chan error, 1)
	go func() {
		logger.Info("Starting API server", "addr", server.Addr, "env", cfg.Env)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErrs <- err
		}
		close(serveErrs)
	}()

	var runErr error
	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-serveErrs:
		runErr = err
	case err, ok := <-workerErrs:
		if ok {
			runErr = err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Warn("failed to shut down http server", "error", err)
	}
	return runErr
}

// handleHealth はヘルスチェックエンドポイントのハンドラーです。
func handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": "storefront-api",
	})
}

// newRouter はミドルウェアとルーティングを設定した gin.Engine を返します。
func newRouter(cfg *config.Config, logger *slog.Logger, deps dependencies) *gin.Engine {
	router := gin.New()
	router.Use(apperr.Recovery(logger))

	// リクエストログは開発環境のみ
	if cfg.IsDevelopment() {
		router.Use(logging.RequestLogger(logger))
	}
	router.Use(apperr.Middleware(logger))
	router.Use(cors.New(corsConfig(cfg)))

	router.GET("/health", handleHealth)

	issuer := auth.NewIssuer([]byte(cfg.JWTSecret), cfg.JWTExpire)
	authHandler := auth.NewHandler(deps.users, issuer, auth.NewSessionWriter(issuer, cfg), auth.HandlerOptions{
		Revoker: deps.revoker,
		Logins:  deps.logins,
		Logger:  logger,
	})
	protect := authHandler.Authenticator().Protect()

	v1 := router.Group("/api/v1")
	{
		authHandler.Register(v1.Group("/auth"))

		usersGroup := v1.Group("/auth/users")
		usersGroup.Use(protect)
		users.NewHandler(deps.users).Register(usersGroup)

		products.NewHandler(deps.products).Register(v1.Group("/products"), protect, auth.UserID)
	}

	router.NoRoute(func(c *gin.Context) {
		_ = c.Error(apperr.NotFound("Route not found"))
	})

	return router
}

func corsConfig(cfg *config.Config) cors.Config {
	corsConfig := cors.DefaultConfig()
	origins := cfg.AllowedOrigins()
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = origins
		// クッキーでトークンを送るため資格情報を許可する
		corsConfig.AllowCredentials = true
	}
	corsConfig.AllowHeaders = []string{
		"Origin",
		"Content-Type",
		"Accept",
		"Authorization",
	}
	return corsConfig
}
