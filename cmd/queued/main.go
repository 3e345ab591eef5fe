package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"go.uber.org/zap"

	"restaurant-queue-backend/config"
	"restaurant-queue-backend/internal/account"
	"restaurant-queue-backend/internal/api"
	"restaurant-queue-backend/internal/approval"
	"restaurant-queue-backend/internal/auth"
	"restaurant-queue-backend/internal/authz"
	"restaurant-queue-backend/internal/db"
	"restaurant-queue-backend/internal/ingest"
	"restaurant-queue-backend/internal/ledger"
	"restaurant-queue-backend/internal/notification"
	"restaurant-queue-backend/internal/prediction"
	"restaurant-queue-backend/internal/queue"
	"restaurant-queue-backend/internal/store"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "./config/config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		logger.Fatal("failed to load configuration",
			zap.String("path", configPath), zap.Error(err))
	}
	logger.Info("configuration loaded", zap.String("path", configPath))

	if cfg.Auth.JWTSecret == "" {
		logger.Fatal("auth.jwt_secret must be configured")
	}

	gormDB, err := db.Init(&cfg.Database)
	if err != nil {
		logger.Fatal("failed to initialize database", zap.Error(err))
	}
	logger.Info("database initialized")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	appStore := store.NewGormStore(gormDB)
	policy := authz.New(cfg.Auth.AdminUsername)
	jwtService := auth.NewJWTService(cfg.Auth.JWTSecret, cfg.Auth.TokenTTLHours)

	var webpushOptions *webpush.Options
	var pool *notification.WorkerPool
	if cfg.Push.PublicKey != "" && cfg.Push.PrivateKey != "" {
		webpushOptions = &webpush.Options{
			VAPIDPublicKey:  cfg.Push.PublicKey,
			VAPIDPrivateKey: cfg.Push.PrivateKey,
			Subscriber:      cfg.Push.Subject,
			TTL:             cfg.Push.TTL,
		}
		pool = notification.NewWorkerPool(cfg.WorkerPool.Size, appStore, webpushOptions, logger)
		pool.Start(ctx)
		logger.Info("notification worker pool started", zap.Int("size", cfg.WorkerPool.Size))
	} else {
		logger.Warn("VAPID keys not configured, push notifications disabled")
	}

	var notifier queue.Notifier
	if pool != nil {
		notifier = pool
	}
	queueSvc := queue.NewService(appStore, policy, notifier, logger)
	ledgerSvc := ledger.NewService(appStore, policy, logger)
	approvalSvc := approval.NewService(appStore, policy, logger)
	accountSvc := account.NewService(appStore, jwtService, logger)

	predictionClient := prediction.NewClient(cfg.Prediction, logger)
	predictionGateway := prediction.NewGateway(appStore, queueSvc, predictionClient, logger)

	ingestSvc := ingest.NewService(cfg, appStore, logger)
	go ingestSvc.Run(ctx)

	handler := api.NewHandler(
		appStore, policy,
		accountSvc, queueSvc, ledgerSvc, approvalSvc,
		predictionGateway, webpushOptions, logger,
	)
	router := api.NewRouter(cfg, handler, jwtService, logger)

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		logger.Info("HTTP server starting", zap.Int("port", cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	logger.Info("shutdown signal received, stopping services")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("HTTP server shutdown failed", zap.Error(err))
	}
	logger.Info("server gracefully stopped")
}
