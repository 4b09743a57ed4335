package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/cropdev/crop-backend/api/gql"
	"github.com/cropdev/crop-backend/api/routes"
	"github.com/cropdev/crop-backend/internal/media"
	"github.com/cropdev/crop-backend/internal/posts"
	"github.com/cropdev/crop-backend/internal/users"
	"github.com/cropdev/crop-backend/pkg/config"
	"github.com/cropdev/crop-backend/pkg/db"
	"github.com/cropdev/crop-backend/pkg/i18n"
	"github.com/cropdev/crop-backend/pkg/logger"
	"github.com/cropdev/crop-backend/pkg/metrics"
	"github.com/cropdev/crop-backend/pkg/migrate"
	"github.com/cropdev/crop-backend/pkg/redis"
	"github.com/cropdev/crop-backend/pkg/storage/s3"
)

const shutdownTimeout = 15 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbClient, err := db.New(ctx, cfg.DB, db.Options{UseSQLite: cfg.FeatureFlags.UseSQLite}, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
		logg.Error(ctx, "failed to run dev migrations", err)
		os.Exit(1)
	}

	var redisClient *redis.Client
	if cfg.Redis.Enabled() {
		redisClient, err = redis.New(ctx, cfg.Redis, logg)
		if err != nil {
			logg.Error(ctx, "failed to bootstrap redis", err)
			os.Exit(1)
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				logg.Error(context.Background(), "error closing redis", err)
			}
		}()
	} else {
		logg.Warn(ctx, "redis not configured, upload rate limiting disabled")
	}

	storage, err := s3.NewClient(ctx, cfg.S3, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap object storage", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	mediaService, err := media.NewService(media.NewRepository(dbClient.DB()), storage, media.Options{
		MaxUploadBytes: cfg.Media.MaxUploadBytes(),
		SignedURLTTL:   cfg.S3.SignedURLTTL,
		Metrics:        metrics.NewUploadMetrics(registry),
		Logger:         logg,
	})
	if err != nil {
		logg.Error(ctx, "failed to create media service", err)
		os.Exit(1)
	}
	postService, err := posts.NewService(posts.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(ctx, "failed to create post service", err)
		os.Exit(1)
	}
	userService, err := users.NewService(users.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(ctx, "failed to create user service", err)
		os.Exit(1)
	}

	schema, err := gql.NewSchema(&gql.Resolver{
		Media:  mediaService,
		Posts:  postService,
		Users:  userService,
		Logger: logg,
	})
	if err != nil {
		logg.Error(ctx, "failed to build graphql schema", err)
		os.Exit(1)
	}

	localizer := i18n.New(cfg.App.DefaultLocale)
	i18n.SetDefault(localizer)

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx = logg.WithFields(ctx, map[string]any{
		"env":    cfg.App.Env,
		"addr":   addr,
		"bucket": storage.Bucket(),
	})

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(
			cfg,
			logg,
			localizer,
			registry,
			dbClient,
			redisClient,
			storage,
			userService,
			mediaService,
			postService,
			&schema,
		),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logg.Info(ctx, "starting api server")
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-ctx.Done():
		logg.Info(ctx, "shutting down api server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(shutdownCtx, "graceful shutdown failed", err)
		}
	}
}
