package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/epicgamers652-droid/IN-APP/internal/cache"
	"github.com/epicgamers652-droid/IN-APP/internal/config"
	"github.com/epicgamers652-droid/IN-APP/internal/domain"
	"github.com/epicgamers652-droid/IN-APP/internal/handlers"
	"github.com/epicgamers652-droid/IN-APP/internal/kafka"
	"github.com/epicgamers652-droid/IN-APP/internal/migrations"
	"github.com/epicgamers652-droid/IN-APP/internal/observability"
	"github.com/epicgamers652-droid/IN-APP/internal/outbox"
	"github.com/epicgamers652-droid/IN-APP/internal/realtime"
	"github.com/epicgamers652-droid/IN-APP/internal/repository/postgres"
	"github.com/epicgamers652-droid/IN-APP/internal/router"
	"github.com/epicgamers652-droid/IN-APP/internal/scheduler"
	"github.com/epicgamers652-droid/IN-APP/internal/security"
	"github.com/epicgamers652-droid/IN-APP/internal/service"
	"github.com/epicgamers652-droid/IN-APP/internal/tx"
)

func main() {
	cfg := config.Load()

	// Observability
	observability.InitLogger(cfg.ServiceName)
	log := observability.Log
	defer log.Sync()

	if cfg.TracingEnabled {
		tp, err := observability.InitTracer(cfg.ServiceName, cfg.JaegerURL)
		if err != nil {
			log.Fatal("failed to initialize tracer", zap.Error(err))
		}
		defer func() {
			if err := tp.Shutdown(context.Background()); err != nil {
				log.Error("failed to shutdown tracer provider", zap.Error(err))
			}
		}()
	}

	// Database
	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		log.Fatal("db open failed", zap.Error(err))
	}
	defer db.Close()

	db.SetMaxOpenConns(cfg.DBMaxOpenConns)
	db.SetMaxIdleConns(cfg.DBMaxIdleConns)
	db.SetConnMaxLifetime(cfg.DBConnMaxLifetime)

	ctx := context.Background()
	if err := db.PingContext(ctx); err != nil {
		log.Fatal("db ping failed", zap.Error(err))
	}

	if cfg.MigrateOnStart {
		if err := migrations.Up(db); err != nil {
			log.Fatal("migrations failed", zap.Error(err))
		}
		log.Info("migrations applied")
	}

	// Redis
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	defer rdb.Close()

	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Warn("redis unreachable, caches will fall back to postgres", zap.Error(err))
	}

	// Kafka producer
	producer := kafka.NewProducer(cfg.KafkaBrokers)
	defer producer.Close()

	// Wire dependencies
	txMgr := &tx.Manager{DB: db}
	outboxRepo := outbox.NewRepository(db)
	recorder := outbox.NewRecorder(outboxRepo, cfg.KafkaTopicPrefix)

	users := postgres.NewUserRepository(db)
	posts := postgres.NewPostRepository(db)
	hashtags := postgres.NewHashtagRepository(db)
	stories := postgres.NewStoryRepository(db)
	messages := postgres.NewMessageRepository(db)

	tokens := security.NewTokenIssuer(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTAudience, cfg.JWTTTL)
	hasher := security.NewHasher(cfg.BcryptCost)

	directory := service.NewDirectory(users, cache.NewAuthorCache(rdb, cfg.CacheTTL))
	trending := cache.NewTrendingCache(rdb, cfg.TrendingTTL)

	authSvc := service.NewAuthService(users, txMgr, recorder, hasher, tokens)
	userSvc := service.NewUserService(users, txMgr, recorder, directory)
	postSvc := service.NewPostService(posts, users, hashtags, txMgr, recorder, directory, trending)
	hashtagSvc := service.NewHashtagService(hashtags, trending)
	storySvc := service.NewStoryService(stories, users, txMgr, recorder)
	messageSvc := service.NewMessageService(messages, users, txMgr, recorder, directory)
	searchSvc := service.NewSearchService(userSvc, postSvc, hashtagSvc)

	// Realtime delivery
	registry := realtime.NewRegistry()
	messageTopic := outbox.Topic(cfg.KafkaTopicPrefix, domain.EventMessageSent)
	dispatcher := realtime.NewDispatcher(registry, messageTopic)

	// Every instance needs every message.sent event for its own sockets, so
	// the default group is unique per process.
	group := cfg.KafkaConsumerGroup
	if group == "" {
		group = cfg.ServiceName + "-realtime-" + uuid.NewString()
	}
	consumer, err := kafka.NewConsumer(cfg.KafkaBrokers, []string{messageTopic}, group, dispatcher)
	if err != nil {
		log.Fatal("kafka consumer init failed", zap.Error(err))
	}
	defer consumer.Close()

	sweeper, err := scheduler.NewSweeper(cfg.StorySweepSchedule, storySvc)
	if err != nil {
		log.Fatal("story sweeper init failed", zap.Error(err))
	}

	pingDB := func(ctx context.Context) error { return db.PingContext(ctx) }

	// HTTP server with chi router
	mux := router.NewRouter(router.Handlers{
		Auth:     handlers.NewAuthHandler(authSvc),
		Posts:    handlers.NewPostHandler(postSvc, hashtagSvc),
		Users:    handlers.NewUserHandler(userSvc, postSvc),
		Stories:  handlers.NewStoryHandler(storySvc),
		Messages: handlers.NewMessageHandler(messageSvc),
		Search:   handlers.NewSearchHandler(searchSvc),
		Health:   handlers.NewHealthHandler(pingDB),
		Realtime: realtime.NewHandler(registry, tokens),
	}, tokens, router.Options{
		ServiceName:         cfg.ServiceName,
		AuthRateLimitPerMin: cfg.AuthRateLimitPerMin,
		RequestTimeout:      cfg.RequestTimeout,
	})

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           mux,
		ReadTimeout:       5 * time.Second,
		WriteTimeout:      cfg.HTTPWriteTimeout,
		IdleTimeout:       120 * time.Second,
		ReadHeaderTimeout: 3 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	go func() {
		log.Info("HTTP started", zap.String("service", cfg.ServiceName), zap.String("addr", cfg.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	// HTTP Observability server
	obsMux := chi.NewRouter()
	obsMux.Use(observability.MetricsMiddleware("obs"))
	obsMux.Handle("/metrics", promhttp.Handler())
	obsMux.Get("/health/live", observability.HealthLiveHandler)
	obsMux.Get("/health/ready", observability.HealthReadyHandler(map[string]observability.Check{
		"postgres": pingDB,
		"redis":    func(ctx context.Context) error { return rdb.Ping(ctx).Err() },
	}))

	obsSrv := &http.Server{Addr: cfg.ObsHTTPAddr, Handler: obsMux, ReadHeaderTimeout: 3 * time.Second}
	go func() {
		log.Info("Observability HTTP started", zap.String("addr", cfg.ObsHTTPAddr))
		if err := obsSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("Observability server failed", zap.Error(err))
		}
	}()

	// Context for background workers
	workerCtx, workerCancel := context.WithCancel(context.Background())
	publisher := outbox.NewPublisher(outboxRepo, txMgr, producer, cfg.OutboxPollInterval, cfg.OutboxBatchSize)
	go publisher.Start(workerCtx)
	consumer.Start(workerCtx)
	sweeper.Start()

	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	log.Info("shutting down...")

	ctxShut, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_ = srv.Shutdown(ctxShut)
	_ = obsSrv.Shutdown(ctxShut)
	registry.CloseAll()

	workerCancel()
	sweeper.Stop(ctxShut)

	log.Info("stopped", zap.String("service", cfg.ServiceName))
}
