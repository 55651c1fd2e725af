package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/d60-Lab/gin-graphql/config"
	"github.com/d60-Lab/gin-graphql/internal/api"
	"github.com/d60-Lab/gin-graphql/internal/api/handler"
	"github.com/d60-Lab/gin-graphql/internal/api/middleware"
	"github.com/d60-Lab/gin-graphql/internal/apq"
	"github.com/d60-Lab/gin-graphql/internal/graph"
	"github.com/d60-Lab/gin-graphql/internal/loader"
	"github.com/d60-Lab/gin-graphql/internal/metrics"
	"github.com/d60-Lab/gin-graphql/internal/repository"
	"github.com/d60-Lab/gin-graphql/internal/service"
	"github.com/d60-Lab/gin-graphql/pkg/database"
	"github.com/d60-Lab/gin-graphql/pkg/logger"
	"github.com/d60-Lab/gin-graphql/pkg/tracing"
)

// @title gin-graphql API
// @version 1.0
// @description GraphQL service with per-request batched data loading.
// @BasePath /
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	if err := logger.Init(cfg.Log.Level, cfg.Log.Format); err != nil {
		panic(err)
	}
	defer logger.Sync()

	if cfg.Sentry.DSN != "" {
		if err := sentry.Init(sentry.ClientOptions{Dsn: cfg.Sentry.DSN, Environment: cfg.Sentry.Environment}); err != nil {
			logger.Fatal("sentry init failed", zap.Error(err))
		}
		defer sentry.Flush(2 * time.Second)
	}

	shutdownTracing, err := tracing.Setup(context.Background(), cfg.Tracing)
	if err != nil {
		logger.Fatal("tracing setup failed", zap.Error(err))
	}

	db, err := database.InitDB(cfg)
	if err != nil {
		logger.Fatal("database init failed", zap.Error(err))
	}
	defer database.Close(db)

	repos := repository.New(db)
	schema, err := graph.NewSchema(repos, service.New(repos))
	if err != nil {
		logger.Fatal("build schema failed", zap.Error(err))
	}

	promReg := prometheus.NewRegistry()
	promReg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(promReg)

	registry := loader.NewRegistry(loader.Sources{
		Users:         repos.Users,
		Profiles:      repos.Profiles,
		Posts:         repos.Posts,
		MemberTypes:   repos.MemberTypes,
		Subscriptions: repos.Subscriptions,
	},
		loader.WithWait(cfg.Loader.Wait),
		loader.WithMaxBatch(cfg.Loader.MaxBatch),
		loader.WithFusion(cfg.Loader.FuseSubscriptions),
		loader.WithObserver(m),
	)

	opts := []handler.Option{
		handler.WithMetrics(m),
		handler.WithTimeout(cfg.Server.RequestTimeout),
		handler.WithCheck("database", func(ctx context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		}),
	}
	if cfg.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		defer rdb.Close()
		opts = append(opts,
			handler.WithAPQ(apq.NewStore(rdb, cfg.Redis.APQTTL)),
			handler.WithCheck("redis", func(ctx context.Context) error { return rdb.Ping(ctx).Err() }),
		)
	}

	limiter := middleware.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst)
	router := api.NewRouter(cfg, api.RouterDeps{
		Handler:  handler.NewHandler(schema, opts...),
		Registry: registry,
		Limiter:  limiter,
		Gatherer: promReg,
	})

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		ticker := time.NewTicker(time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				limiter.Cleanup(10 * time.Minute)
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		logger.Info("server started", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("listen failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", zap.Error(err))
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		logger.Error("tracing shutdown failed", zap.Error(err))
	}
}
