package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	apirest "github.com/amerihn/conference-event-planner/api/rest"
	"github.com/amerihn/conference-event-planner/api/sse"
	"github.com/amerihn/conference-event-planner/cache"
	"github.com/amerihn/conference-event-planner/config"
	mw "github.com/amerihn/conference-event-planner/middleware"
	"github.com/amerihn/conference-event-planner/planner"
	"github.com/amerihn/conference-event-planner/resource"
	"github.com/amerihn/conference-event-planner/scheduler"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

func main() {
	cfgPath := "config/config.yaml"
	if len(os.Args) > 1 {
		cfgPath = os.Args[1]
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	// ---- Logger ----
	var logger *zap.Logger
	var logErr error
	if cfg.Server.Debug {
		logger, logErr = zap.NewDevelopment()
	} else {
		logger, logErr = zap.NewProduction()
	}
	if logErr != nil {
		log.Fatalf("logger: %v", logErr)
	}
	defer logger.Sync()

	if cfg.Server.AdminKey == "" {
		logger.Warn("server.admin_key is not set; admin endpoints are disabled")
	}
	if cfg.Security.JWTSecret == "" {
		logger.Fatal("security.jwt_secret is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// ---- Cache / PubSub ----
	c, err := cache.NewCache(cfg.Cache)
	if err != nil {
		logger.Fatal("cache", zap.Error(err))
	}
	pubsub, err := cache.NewPubSub(cfg.Cache)
	if err != nil {
		logger.Fatal("pubsub", zap.Error(err))
	}
	backend := "local"
	if cfg.Cache.RedisAddr != "" {
		backend = "redis"
	}
	logger.Info("cache initialized", zap.String("backend", backend))

	// ---- Catalog seed ----
	seed, _, err := resource.Resolve(cfg.Catalogs, cfg.Catalog.SeedPath, logger)
	if err != nil {
		logger.Fatal("catalog seed", zap.Error(err))
	}

	// ---- Sessions ----
	sessions, err := planner.NewManager(planner.Options{
		Seed:          seed,
		Limits:        cfg.Catalog.Limits(),
		DefaultPeople: cfg.Session.DefaultPeople,
		IdleTTL:       cfg.Session.IdleTTL,
	}, c, pubsub, logger)
	if err != nil {
		logger.Fatal("session manager", zap.Error(err))
	}

	// ---- Scheduler ----
	sched := scheduler.New(logger)
	defer sched.Stop()
	sched.AddTicker("session_sweep", cfg.Session.SweepInterval, func(ctx context.Context) {
		if n := sessions.Sweep(ctx); n > 0 {
			logger.Info("idle sessions swept", zap.Int("removed", n), zap.Int("active", sessions.Count()))
		}
	})

	// ---- Gin HTTP Server ----
	if !cfg.Server.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(mw.TraceID(), mw.Logger(logger), mw.Recovery(logger))
	r.Use(mw.RateLimit(ctx, rate.Limit(cfg.Security.RateLimitRPS), cfg.Security.RateLimitBurst))
	r.Use(mw.CORS(cfg.Security.AllowedOrigins))

	r.GET("/health", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"status": "ok", "sessions": sessions.Count()})
	})

	apirest.Register(r.Group("/api"), sessions, sched, cfg.Server, cfg.Security, logger)

	// ---- SSE ----
	sseH := sse.NewHandler(sessions, cfg.Security, logger)
	r.GET("/sse", sseH.ServeSSE)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutting down")
	case err := <-errCh:
		logger.Error("server", zap.Error(err))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("server shutdown", zap.Error(err))
	}
}
