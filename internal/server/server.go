package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"internhub/internal/auth"
	"internhub/internal/config"
	"internhub/internal/dashboard"
	"internhub/internal/database"
	"internhub/internal/lifecycle"
	"internhub/internal/logging"
	"internhub/internal/metrics"
	"internhub/internal/middleware"
	"internhub/internal/repository"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type Server struct {
	Engine  http.Handler
	DB      *gorm.DB
	Config  *config.Config
	Log     *logrus.Logger
	closers []func() error
}

func Init(cfg *config.Config) (*Server, error) {
	log := logging.New(cfg.LogLevel, cfg.LogFormat)

	db, err := database.Open(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("❌ %w", err)
	}
	log.Info("✅ Connected to database")

	if err := database.Migrate(db, log); err != nil {
		return nil, fmt.Errorf("❌ %w", err)
	}

	s := &Server{DB: db, Config: cfg, Log: log}
	if sqlDB, err := db.DB(); err == nil {
		s.closers = append(s.closers, sqlDB.Close)
	}

	limiter := s.rateLimiter(cfg)

	m := metrics.New()
	store := repository.NewStore(db)
	s.Engine = NewRouter(Deps{
		Store:   store,
		Engine:  lifecycle.New(store, lifecycle.WithLogger(log), lifecycle.WithMetrics(m)),
		Stats:   dashboard.NewService(store, time.Now, log, m),
		Tokens:  auth.NewTokenManager(cfg.JWTSecret, cfg.JWTExpiry),
		Metrics: m,
		Limiter: limiter,
		Log:     log,
	})
	return s, nil
}

// rateLimiter prefers a shared Redis window when one is configured and
// reachable, and falls back to per-process token buckets.
func (s *Server) rateLimiter(cfg *config.Config) middleware.Limiter {
	if cfg.RateLimitRPS <= 0 {
		return nil
	}
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := client.Ping(ctx).Err(); err != nil {
			s.Log.WithError(err).Warn("⚠️  Redis unavailable, using in-memory rate limit")
			_ = client.Close()
			return middleware.NewMemoryLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
		}
		s.closers = append(s.closers, client.Close)
		s.Log.WithField("addr", cfg.RedisAddr).Info("✅ Connected to Redis, using shared rate limit")
		perMinute := int(cfg.RateLimitRPS * 60)
		if perMinute < 1 {
			perMinute = 1
		}
		return middleware.NewRedisLimiter(client, perMinute, time.Minute)
	}
	return middleware.NewMemoryLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
}

func (s *Server) Run() {
	srv := &http.Server{
		Addr:              ":" + s.Config.ServerPort,
		Handler:           s.Engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		s.Log.Infof("🚀 Server running on port %s", s.Config.ServerPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.Log.Fatalf("❌ Failed to listen: %s", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	s.Log.Info("🛑 Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		s.Log.Fatalf("❌ Server forced to shutdown: %s", err)
	}

	for _, closeFn := range s.closers {
		if err := closeFn(); err != nil {
			s.Log.WithError(err).Warn("close failed")
		}
	}

	s.Log.Info("✅ Server exited properly")
}
