package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/learn2earn/backend/internal/auth"
	"github.com/learn2earn/backend/internal/config"
	"github.com/learn2earn/backend/internal/db"
	"github.com/learn2earn/backend/internal/events"
	apphttp "github.com/learn2earn/backend/internal/http"
	"github.com/learn2earn/backend/internal/http/handlers"
	"github.com/learn2earn/backend/internal/metrics"
	"github.com/learn2earn/backend/internal/middleware"
	"github.com/learn2earn/backend/internal/repositories"
	"github.com/learn2earn/backend/internal/services"
	"github.com/learn2earn/backend/migrations"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	log, _ := zap.NewProduction()
	defer log.Sync()

	cfg := config.Load()
	cfg.Validate(log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Metrics
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	rec := metrics.NewCollector(reg)

	// Snapshot backend
	var backend repositories.SnapshotBackend
	switch cfg.StoreBackend {
	case config.BackendPostgres:
		pool, err := db.NewPostgresPool(ctx, cfg.PostgresDSN, log)
		if err != nil {
			log.Fatal("failed to connect to postgres", zap.Error(err))
		}
		defer pool.Close()

		if err := db.RunMigrations(ctx, pool, migrations.FS, log); err != nil {
			log.Fatal("failed to run migrations", zap.Error(err))
		}
		backend = repositories.NewPostgresBackend(pool, cfg.StoreSnapshotKey)
	case config.BackendMemory:
		backend = repositories.NewMemoryBackend()
	default:
		backend = repositories.NewFileBackend(cfg.DBFile)
	}

	store := repositories.Open(ctx, backend, rec, log)

	// Redis (optional)
	var rdb *redis.Client
	if cfg.RedisURL != "" {
		client, err := db.NewRedisClient(ctx, cfg.RedisURL, log)
		if err != nil {
			log.Fatal("failed to connect to redis", zap.Error(err))
		}
		defer client.Close()
		rdb = client
	}

	// Events
	var publisher events.Publisher
	var subscriber events.Subscriber
	if rdb != nil {
		publisher = events.NewRedisPublisher(rdb, log)
		subscriber = events.NewRedisSubscriber(rdb, log)
	} else {
		bus := events.NewLocalBus()
		publisher, subscriber = bus, bus
	}

	// Services
	certifier := auth.NewCertifier(cfg.CertSecret, cfg.CertIssuer)
	hooks := services.NewLedgerHooks(publisher, rec, log)
	identityService := services.NewIdentityService(store, hooks, rec, log)
	walletService := services.NewWalletService(store, hooks, certifier, cfg.VerifyPayout, log)
	courseService := services.NewCourseService(store, hooks, certifier, log)
	resumeService := services.NewResumeService(store, log)

	if err := courseService.Bootstrap(ctx, services.DefaultCatalog()); err != nil {
		log.Fatal("failed to seed catalog", zap.Error(err))
	}

	// Rate limiting for the public auth routes
	var authLimiter fiber.Handler
	if rdb != nil {
		authLimiter = middleware.RateLimitMiddleware(rdb, cfg.RateLimitPerMinute, time.Minute, log)
	} else {
		local := middleware.NewLocalRateLimiter(cfg.RateLimitPerMinute, 5*time.Minute)
		defer local.Stop()
		authLimiter = local.Middleware(log)
	}

	// Handlers
	authHandler := handlers.NewAuthHandler(identityService, log)
	userHandler := handlers.NewUserHandler(identityService, log)
	walletHandler := handlers.NewWalletHandler(walletService, log)
	courseHandler := handlers.NewCourseHandler(courseService, log)
	resumeHandler := handlers.NewResumeHandler(resumeService, log)
	metaHandler := handlers.NewMetaHandler(courseService, log)
	wsHub := handlers.NewWSHub(identityService, subscriber, log)

	// Start WS hub
	if err := wsHub.Start(ctx); err != nil {
		log.Fatal("failed to subscribe to ledger events", zap.Error(err))
	}

	// Fiber app
	app := fiber.New(fiber.Config{
		ErrorHandler: apphttp.ErrorHandler(log),
	})

	apphttp.SetupRouter(app, cfg, log, rec, reg, authLimiter, identityService,
		authHandler, userHandler, walletHandler, courseHandler, resumeHandler, metaHandler, wsHub)

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")
		cancel()
		_ = app.Shutdown()
	}()

	addr := fmt.Sprintf(":%s", cfg.APIPort)
	log.Info("starting API server",
		zap.String("addr", addr),
		zap.String("store_backend", backend.Name()),
		zap.Bool("redis", rdb != nil),
	)
	if err := app.Listen(addr); err != nil {
		log.Error("server error", zap.Error(err))
	}

	flushCtx, flushCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer flushCancel()
	if err := store.Flush(flushCtx); err != nil {
		log.Error("final snapshot write failed", zap.Error(err))
	} else {
		log.Info("store flushed", zap.String("backend", backend.Name()))
	}
}
