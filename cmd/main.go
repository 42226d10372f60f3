package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mansoorceksport/tenantpanel/internal/config"
	"github.com/mansoorceksport/tenantpanel/internal/infrastructure/tenantapi"
	"github.com/mansoorceksport/tenantpanel/internal/middleware"
	"github.com/mansoorceksport/tenantpanel/internal/repository"
	"github.com/mansoorceksport/tenantpanel/internal/server"
	"github.com/mansoorceksport/tenantpanel/internal/service"
	"github.com/mansoorceksport/tenantpanel/internal/telemetry"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const memoryCacheSize = 1024

func main() {
	if err := run(); err != nil {
		// run has already released its resources
		zap.NewExample().Fatal("tenant panel exited", zap.Error(err))
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger, err := newLogger(cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("starting tenant panel", zap.String("port", cfg.Server.Port))

	ctx := context.Background()

	otelProvider, err := telemetry.Initialize(ctx, telemetry.Config{
		ServiceName:    cfg.OTEL.ServiceName,
		ServiceVersion: cfg.OTEL.ServiceVersion,
		Environment:    cfg.OTEL.Environment,
		OTLPEndpoint:   cfg.OTEL.Endpoint,
		OTLPHeaders:    telemetry.GrafanaAuthHeaders(cfg.OTEL.InstanceID, cfg.OTEL.Token),
		Enabled:        cfg.OTEL.Enabled,
	}, logger)
	if err != nil {
		logger.Warn("failed to initialize opentelemetry", zap.Error(err))
	}
	if otelProvider != nil {
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := otelProvider.Shutdown(shutdownCtx); err != nil {
				logger.Warn("opentelemetry shutdown failed", zap.Error(err))
			}
		}()
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := telemetry.NewMetrics(registry)

	deps := server.AppDependencies{
		Config:  cfg,
		Logger:  logger,
		Metrics: metrics,
		TenantClient: tenantapi.NewClient(tenantapi.Config{
			BaseURL: cfg.TenantAPI.BaseURL,
			Timeout: cfg.TenantAPI.Timeout,
		}, logger),
	}

	// Tenant name cache: Redis when configured, in-process otherwise
	if cfg.Redis.Addr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       0,
		})
		defer redisClient.Close()

		if err := redisClient.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("failed to connect to redis: %w", err)
		}
		logger.Info("redis connected", zap.String("addr", cfg.Redis.Addr))
		deps.NameCache = repository.NewRedisTenantNameCache(redisClient)
	} else {
		deps.NameCache = repository.NewMemoryTenantNameCache(memoryCacheSize, cfg.Redis.TenantNameTTL)
	}

	// Icons from object storage, bundled icons as fallback
	if cfg.S3.Endpoint != "" {
		assets, err := repository.NewS3AssetRepository(ctx, cfg.S3)
		if err != nil {
			logger.Warn("failed to initialize s3 asset repository", zap.Error(err))
		} else {
			deps.Assets = assets
		}
	}

	if cfg.Firebase.Enabled() {
		verifier, err := newFirebaseVerifier(ctx, cfg.Firebase)
		if err != nil {
			return fmt.Errorf("failed to initialize firebase: %w", err)
		}
		deps.Verifier = verifier
		logger.Info("firebase initialized")
	} else {
		logger.Warn("firebase not configured, sso login disabled")
	}

	app, err := server.NewApp(deps)
	if err != nil {
		return fmt.Errorf("failed to build app: %w", err)
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan
		logger.Info("shutting down gracefully")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			logger.Warn("shutdown incomplete", zap.Error(err))
		}
	}()

	if err := app.Listen(":" + cfg.Server.Port); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}

func newLogger(cfg config.LogConfig) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		level = zapcore.InfoLevel
	}

	zapCfg := zap.NewProductionConfig()
	if cfg.Development {
		zapCfg = zap.NewDevelopmentConfig()
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)
	return zapCfg.Build()
}

// newFirebaseVerifier returns the Firebase Auth client as a concrete verifier
func newFirebaseVerifier(ctx context.Context, cfg config.FirebaseConfig) (service.IdentityVerifier, error) {
	firebaseApp, err := middleware.InitFirebase(ctx, cfg.ProjectID, cfg.PrivateKey, cfg.ClientEmail)
	if err != nil {
		return nil, err
	}
	authClient, err := firebaseApp.Auth(ctx)
	if err != nil {
		return nil, err
	}
	return authClient, nil
}
