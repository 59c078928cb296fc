package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/nulzo/model-capability-api/cmd"
	"github.com/nulzo/model-capability-api/internal/audit"
	"github.com/nulzo/model-capability-api/internal/config"
	"github.com/nulzo/model-capability-api/internal/gateway"
	"github.com/nulzo/model-capability-api/internal/platform/logger"
	"github.com/nulzo/model-capability-api/internal/platform/otel"
	"github.com/nulzo/model-capability-api/internal/server"
	"github.com/nulzo/model-capability-api/internal/store"
	"github.com/nulzo/model-capability-api/internal/store/cache"
	"github.com/nulzo/model-capability-api/internal/store/sqlite"

	// Import providers to trigger init() registration
	_ "github.com/nulzo/model-capability-api/internal/provider/openai"
)

func main() {
	// 1. Configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		panic(err)
	}

	// 2. Logging
	logger.Initialize(logger.Config{
		Level:       cfg.Log.Level,
		Format:      cfg.Log.Format,
		EnableColor: cfg.Server.Env != "production",
	})
	log := logger.Get()
	defer logger.Sync()

	cmd.CheckForUpdates()

	// 3. Tracing (optional)
	if cfg.Tracing.Enabled {
		shutdownTracer, err := otel.InitTracer(otel.Config{
			ServiceName: cfg.Tracing.ServiceName,
			SampleRate:  cfg.Tracing.SampleRate,
		}, log, os.Stdout)
		if err != nil {
			log.Warn("Tracing disabled", zap.Error(err))
		} else {
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				_ = shutdownTracer(ctx)
			}()
		}
	}

	// 4. Storage. A broken database is not fatal: the service still answers
	// capability lookups, it just loses stored API keys and the audit trail.
	var repo store.Repository
	var ingestor audit.Ingestor = audit.Nop{}
	var auditSvc audit.Service

	repo, err = sqlite.NewSQLiteStorage(cfg.Database.DSN)
	if err != nil {
		log.Warn("Database unavailable, audit trail disabled", zap.Error(err))
		repo = nil
	} else {
		defer repo.Close()
		ingestor = audit.NewIngestor(log, repo)
		auditSvc = audit.NewService(repo)
	}

	// 5. Cache: redis when configured, in-process otherwise
	var cacheSvc cache.CacheService
	if cfg.Redis.Enabled {
		redisCache, err := cache.NewRedisCache(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			log.Warn("Redis unavailable, falling back to in-memory cache", zap.Error(err))
			cacheSvc = cache.NewMemoryCache()
		} else {
			cacheSvc = redisCache
		}
	} else {
		cacheSvc = cache.NewMemoryCache()
	}

	// 6. Gateway and providers
	service := gateway.NewService(log, ingestor, cacheSvc, cfg.Cache.VerifyTTL)
	registered := gateway.BootstrapProviders(service, cfg.Providers, log)
	log.Info("Providers registered", zap.Int("count", registered))

	ingestor.Start(context.Background())
	defer ingestor.Stop()

	// 7. HTTP server
	srv := server.New(cfg, log, service, auditSvc, repo)

	httpServer := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("Starting model capability API",
			zap.String("port", cfg.Server.Port),
			zap.String("env", cfg.Server.Env),
			zap.String("version", cmd.AppVersion),
		)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Server failed", zap.Error(err))
		}
	}()

	// 8. Wait for shutdown signal, then drain
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("Forced shutdown", zap.Error(err))
	}
}
