package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/bryanwahyu/purelabel/internal/application"
	appai "github.com/bryanwahyu/purelabel/internal/application/ai"
	applabels "github.com/bryanwahyu/purelabel/internal/application/labels"
	"github.com/bryanwahyu/purelabel/internal/config"
	domai "github.com/bryanwahyu/purelabel/internal/domain/ai"
	"github.com/bryanwahyu/purelabel/internal/domain/labels"
	"github.com/bryanwahyu/purelabel/internal/infra/ai/local"
	"github.com/bryanwahyu/purelabel/internal/infra/ai/openai"
	"github.com/bryanwahyu/purelabel/internal/infra/cache"
	mysqlp "github.com/bryanwahyu/purelabel/internal/infra/db/mysql"
	pgp "github.com/bryanwahyu/purelabel/internal/infra/db/postgres"
	"github.com/bryanwahyu/purelabel/internal/infra/httpserver"
	"github.com/bryanwahyu/purelabel/internal/infra/ocr"
	minioStore "github.com/bryanwahyu/purelabel/internal/infra/storage"
	"github.com/bryanwahyu/purelabel/internal/logger"
	"github.com/bryanwahyu/purelabel/internal/middleware"
)

func main() {
	// path config.yaml
	path := "config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		path = v
	}

	cfg, err := config.Load(path)
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}

	lg := logger.New(cfg.Log.Level, cfg.Log.Format)
	defer func() { _ = lg.Sync() }()

	ctx := context.Background()
	checks := map[string]middleware.HealthChecker{}
	metrics := middleware.NewMetrics()

	defaultEngine, err := labels.ParseEngine(cfg.Engine.Default, labels.EngineCloud)
	if err != nil {
		lg.Fatal("invalid default engine", zap.Error(err))
	}

	svc := &applabels.Service{
		Engines:       map[labels.Engine]labels.Analyzer{},
		DefaultEngine: defaultEngine,
		Observer:      metrics,
		Clock:         application.SystemClock{},
		Log:           lg,
	}

	// local engine, OCR is optional
	var extractor labels.TextExtractor
	if cfg.OCR.Region != "" {
		rk, err := ocr.NewRekognition(ctx, cfg.OCR.Region, cfg.OCR.MinConfidence)
		if err != nil {
			lg.Warn("ocr disabled", zap.Error(err))
		} else {
			extractor = rk
		}
	} else {
		lg.Info("ocr disabled: no region configured, local photo scans will fail")
	}
	svc.Engines[labels.EngineLocal] = local.New(extractor, cfg.Engine.LocalDelay, lg.Named("local"))

	// cloud engine
	if cfg.OpenAI.APIKey != "" {
		var resultCache domai.Cache
		if cfg.Redis.Addr != "" {
			rdb, err := cache.Connect(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
			if err != nil {
				lg.Warn("redis cache disabled", zap.Error(err))
			} else {
				defer rdb.Close()
				rc := cache.NewResultCache(rdb, cfg.Redis.TTL)
				resultCache = rc
				checks["redis"] = rc
			}
		}
		client := openai.NewClient(cfg.OpenAI.APIKey, cfg.OpenAI.Model, cfg.OpenAI.BaseURL)
		client.MaxTokens = cfg.OpenAI.MaxTokens
		cloud := appai.NewService(client, resultCache, lg.Named("cloud"))
		svc.Engines[labels.EngineCloud] = cloud
		svc.Chat = cloud
	} else {
		lg.Warn("cloud engine disabled: OPENAI_API_KEY is not set")
	}

	// scan history
	if cfg.HistoryEnabled() {
		db, repo, err := openHistory(ctx, cfg)
		if err != nil {
			lg.Fatal("database connect error", zap.String("driver", cfg.Database.Driver), zap.Error(err))
		}
		defer db.Close()
		svc.Repo = repo
		checks["database"] = &middleware.DatabaseHealthChecker{DB: db}
	}

	if cfg.Minio.Endpoint != "" {
		store, err := minioStore.New(ctx,
			cfg.Minio.Endpoint,
			cfg.Minio.Region,
			cfg.Minio.BucketName,
			cfg.Minio.AccessKey,
			cfg.Minio.SecretKey,
			cfg.Minio.UseSSL,
		)
		if err != nil {
			lg.Fatal("minio init error", zap.Error(err))
		}
		svc.Images = store
		checks["minio"] = store
	}

	handler := httpserver.NewRouter(svc, httpserver.Options{
		Log:         lg.Named("http"),
		Metrics:     metrics,
		Limiter:     middleware.NewRateLimiter(cfg.Server.RateLimit, cfg.Server.RateBurst),
		APIKeys:     cfg.Auth.APIKeys,
		CORSOrigins: cfg.Server.CORSOrigins,
		BodyLimit:   cfg.Server.BodyLimit,
		Checks:      checks,
	})

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		lg.Info("server listening",
			zap.String("addr", addr),
			zap.String("default_engine", string(defaultEngine)),
			zap.Bool("history", svc.Repo != nil))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			lg.Fatal("server error", zap.Error(err))
		}
	}()

	// graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	lg.Info("shutting down server...")

	ctx2, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx2); err != nil {
		lg.Error("shutdown error", zap.Error(err))
	}
}

func openHistory(ctx context.Context, cfg *config.Config) (*sql.DB, labels.Repository, error) {
	switch cfg.Database.Driver {
	case "postgres":
		db, err := pgp.Connect(ctx, cfg.PostgresDSN())
		if err != nil {
			return nil, nil, err
		}
		return db, pgp.NewScanRepository(db), nil
	default:
		db, err := mysqlp.Connect(ctx, cfg.MySQLDSN())
		if err != nil {
			return nil, nil, err
		}
		return db, mysqlp.NewScanRepository(db), nil
	}
}
