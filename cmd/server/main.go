package main

import (
	"context"
	stdlog "log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	_ "github.com/tazhibayda/recipe-service/docs"
	"github.com/tazhibayda/recipe-service/internal/config"
	api "github.com/tazhibayda/recipe-service/internal/http"
	"github.com/tazhibayda/recipe-service/internal/images"
	"github.com/tazhibayda/recipe-service/internal/log"
	"github.com/tazhibayda/recipe-service/internal/metrics"
	"github.com/tazhibayda/recipe-service/internal/queue"
	"github.com/tazhibayda/recipe-service/internal/repo"
)

// @title Recipe Service API
// @version 0.1.0
// @description REST backend for the recipe-management application.
// @schemes http https
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg := config.Load()

	logger, err := log.Init(cfg.Prod)
	if err != nil {
		stdlog.Fatalf("log init: %v", err)
	}
	defer log.Sync()

	metrics.MustRegister()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	store, err := repo.NewStore(ctx, cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		logger.Fatal("mongo connect", zap.Error(err))
	}
	defer store.Close(context.Background())

	if err := store.EnsureIndexes(ctx); err != nil {
		logger.Fatal("ensure indexes", zap.Error(err))
	}

	imgs, err := images.NewStore(cfg.ImageDir)
	if err != nil {
		logger.Fatal("image store", zap.Error(err))
	}

	pub := queue.NewNoop()
	if cfg.RabbitURL != "" {
		p, err := queue.NewRabbit(cfg.RabbitURL, queue.Exchange)
		if err != nil {
			logger.Fatal("rabbit connect", zap.Error(err))
		}
		pub = p
	}
	defer pub.Close()

	h := api.NewHandler(store, store, imgs, cfg.JWTSecret, pub)
	h.Store = store
	if cfg.RedisAddr != "" {
		rds := repo.NewRedis(cfg.RedisAddr)
		if err := rds.Ping(ctx); err != nil {
			logger.Fatal("redis connect", zap.Error(err))
		}
		defer rds.Close()
		h.Redis = rds
		h.RateLimitPerMin = cfg.RateLimitPerMin
	}

	r := api.NewRouter(h)

	srvErr := make(chan error, 1)
	go func() { srvErr <- r.Run(":" + cfg.Port) }()

	logger.Info("recipe-service listening", zap.String("port", cfg.Port))

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	select {
	case s := <-sig:
		logger.Info("shutting down", zap.String("signal", s.String()))
	case err := <-srvErr:
		logger.Error("server error", zap.Error(err))
	}
}
