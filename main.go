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

	"github.com/gin-gonic/gin"
	"github.com/postboard/posts-service/handlers"
	"github.com/postboard/posts-service/internal/config"
	"github.com/postboard/posts-service/internal/database"
	"github.com/postboard/posts-service/internal/post/handler"
	"github.com/postboard/posts-service/internal/post/repository"
	"github.com/postboard/posts-service/pkg/logger"
	"github.com/postboard/posts-service/pkg/metrics"
	"github.com/postboard/posts-service/pkg/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
)

var startTime = time.Now()

// deps are the runtime collaborators the router needs. ping is nil when the
// store has no external dependency to check.
type deps struct {
	store repository.Repository
	ping  func(ctx context.Context) error
	redis *redis.Client
}

func main() {
	// LOG_LEVEL is read again from config below; this covers config errors
	logger.Init(os.Getenv("LOG_LEVEL"))

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}
	logger.Init(cfg.LogLevel)
	logger.Infof("config loaded: storage=%s redis=%v rate_limit=%v", cfg.Storage.Mode, cfg.Redis.Addr() != "", cfg.RateLimit.Enabled)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var d deps
	switch cfg.Storage.Mode {
	case config.StorageMemory:
		logger.Warnf("using in-memory post store; data is lost on restart")
		d.store = repository.NewMemoryRepo()
	default:
		client, err := database.ConnectMongoWithRetry(ctx, cfg.MongoDB.URI, cfg.MongoDB.Timeout, cfg.MongoDB.ConnectAttempts, time.Second)
		if err != nil {
			logger.Fatalf("could not connect to MongoDB: %v", err)
		}
		defer func() { _ = client.Disconnect(context.Background()) }()
		d.store = repository.NewMongoRepo(ctx, client.Database(cfg.MongoDB.Database).Collection("posts"))
		d.ping = mongoPing(client, cfg.MongoDB.Timeout)
		logger.Infof("connected to MongoDB database %q", cfg.MongoDB.Database)
	}

	if addr := cfg.Redis.Addr(); addr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		if err := rdb.Ping(ctx).Err(); err != nil {
			logger.Warnf("failed to connect to Redis (%s): %v", addr, err)
			_ = rdb.Close()
		} else {
			logger.Infof("connected to Redis: %s", addr)
			d.redis = rdb
			defer rdb.Close()
		}
	}

	metrics.RegisterCollectors(prometheus.DefaultRegisterer)
	r := buildRouter(cfg, d)

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	go func() {
		logger.Infof("starting posts service on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("server failed: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Infof("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("graceful shutdown failed: %v", err)
	}
}

func mongoPing(client *mongo.Client, timeout time.Duration) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		ctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()
		return client.Ping(ctx, nil)
	}
}

func buildRouter(cfg *config.Config, d deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), logger.Middleware())

	if cfg.RateLimit.Enabled {
		if cfg.RateLimit.UseRedis && d.redis != nil {
			win := time.Duration(cfg.RateLimit.WindowSeconds) * time.Second
			r.Use(middleware.RedisRateLimitMiddleware(d.redis, cfg.RateLimit.RPS, cfg.RateLimit.Burst, win))
			logger.Infof("rate limiter: redis (rps=%.2f burst=%d)", cfg.RateLimit.RPS, cfg.RateLimit.Burst)
		} else {
			r.Use(middleware.RateLimitMiddleware(cfg.RateLimit.RPS, cfg.RateLimit.Burst))
			logger.Infof("rate limiter: memory (rps=%.2f burst=%d)", cfg.RateLimit.RPS, cfg.RateLimit.Burst)
		}
	}

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "healthy")
	})

	// readiness: 200 only when the post store can be reached
	r.GET("/ready", func(c *gin.Context) {
		ready := true
		status := map[string]bool{"storage": true}
		if d.ping != nil {
			if err := d.ping(c.Request.Context()); err != nil {
				logger.Warnf("readiness: storage ping failed: %v", err)
				status["storage"] = false
				ready = false
			}
		}
		if cfg.RateLimit.Enabled && cfg.RateLimit.UseRedis {
			status["redis"] = d.redis != nil
		}
		uptime := time.Since(startTime).String()
		if !ready {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not_ready", "deps": status, "uptime": uptime})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready", "deps": status, "uptime": uptime})
	})

	handler.RegisterPostRoutes(r, handler.NewHandler(d.store))
	handlers.RegisterSwagger(r)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	return r
}
