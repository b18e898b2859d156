package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-redis/redis/v8"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"

	"github.com/chapterhouse/bookclub/pkg/activity"
	"github.com/chapterhouse/bookclub/pkg/api"
	"github.com/chapterhouse/bookclub/pkg/config"
	"github.com/chapterhouse/bookclub/pkg/entitlements"
	"github.com/chapterhouse/bookclub/pkg/featureflags"
	"github.com/chapterhouse/bookclub/pkg/middleware"
	"github.com/chapterhouse/bookclub/pkg/observability"
	"github.com/chapterhouse/bookclub/pkg/store"
	"github.com/chapterhouse/bookclub/pkg/subscriptions"
)

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})

	cfg, err := config.LoadConfig()
	if err != nil {
		log.WithError(err).Fatal("failed to load configuration")
	}

	level, err := logrus.ParseLevel(cfg.Observability.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	log.SetLevel(level)

	db, err := sql.Open("postgres", cfg.Database.PostgresURL)
	if err != nil {
		log.WithError(err).Fatal("failed to open database")
	}
	defer db.Close()

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)

	ctx := context.Background()
	if err := db.PingContext(ctx); err != nil {
		log.WithError(err).Fatal("failed to ping database")
	}
	if err := store.RunMigrations(ctx, db); err != nil {
		log.WithError(err).Fatal("failed to run migrations")
	}
	log.Info("database ready")

	records := store.NewPostgresStore(db)
	subs := subscriptions.NewPostgresService(db)

	var flags featureflags.Provider
	if cfg.Flags.FilePath != "" {
		fileProvider, err := featureflags.NewFileProvider(cfg.Flags.FilePath, log)
		if err != nil {
			log.WithError(err).Fatal("failed to load feature flags file")
		}
		defer fileProvider.Close()
		flags = fileProvider
		log.WithField("path", cfg.Flags.FilePath).Info("file-backed feature flags enabled")
	} else {
		flags = featureflags.NewStaticProvider(nil)
	}

	var metrics *observability.Metrics
	registry := prometheus.NewRegistry()
	if cfg.Observability.MetricsEnabled {
		metrics = observability.NewMetrics(registry)
	}

	var redisClient *redis.Client
	if cfg.Cache.RedisAddr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Cache.RedisAddr,
			Password: cfg.Cache.RedisPassword,
			DB:       cfg.Cache.RedisDB,
		})
		if err := redisClient.Ping(ctx).Err(); err != nil {
			log.WithError(err).Fatal("failed to ping redis")
		}
		defer redisClient.Close()
		log.WithField("addr", cfg.Cache.RedisAddr).Info("redis secondary cache enabled")
	}

	classifier := entitlements.NewClassifier(records, flags, log, metrics)
	gate := entitlements.NewValidationGate(classifier, log)
	calculator := entitlements.NewCalculator(records, subs, flags, gate, log, metrics)

	cache, err := entitlements.NewCache(calculator.Calculate, &entitlements.CacheOptions{
		TTL:        cfg.Cache.TTL,
		MaxEntries: cfg.Cache.MaxEntries,
		Redis:      redisClient,
		Logger:     log,
		Metrics:    metrics,
	})
	if err != nil {
		log.WithError(err).Fatal("failed to create entitlement cache")
	}

	janitor, err := entitlements.NewJanitor(cache, cfg.Cache.PurgeInterval, log)
	if err != nil {
		log.WithError(err).Fatal("failed to create cache janitor")
	}
	janitor.Start()
	defer janitor.Stop()

	svc := entitlements.NewService(cache, log)
	recorder := activity.NewStoreRecorder(records, log, metrics)

	auth := middleware.NewAuthMiddleware(records, log, false)
	enforcement := middleware.NewEnforcementMiddleware(svc, recorder, log, metrics)
	limits := middleware.NewLimitChecker(svc, records, log)

	server := api.NewServer(svc, classifier, gate, limits, enforcement, log)

	httpServer := &http.Server{
		Addr:         cfg.Server.Host + ":" + cfg.Server.Port,
		Handler:      auth.Handler(server),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	healthMux := http.NewServeMux()
	healthMux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if err := db.PingContext(r.Context()); err != nil {
			http.Error(w, "database unavailable", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	})
	if metrics != nil {
		healthMux.Handle("/metrics", metrics.Handler())
	}
	healthServer := &http.Server{
		Addr:    cfg.Server.Host + ":" + cfg.Server.HealthPort,
		Handler: healthMux,
	}

	go func() {
		log.WithField("addr", healthServer.Addr).Info("health server listening")
		if err := healthServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Error("health server failed")
		}
	}()

	go func() {
		log.WithField("addr", httpServer.Addr).Info("entitlements server listening")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("server shutdown failed")
	}
	if err := healthServer.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("health server shutdown failed")
	}
	log.Info("shutdown complete")
}
