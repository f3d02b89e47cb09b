package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"focusboard/config"
	mqcontracts "focusboard/contracts/mq"
	"focusboard/internal/dismissal"
	"focusboard/internal/mqhandler"
	"focusboard/internal/repository"
	"focusboard/internal/scoring"
	"focusboard/internal/service/priority"
	"focusboard/pkg/db"
	"focusboard/pkg/logger"
	"focusboard/pkg/mq"
	"focusboard/pkg/otel"
	"focusboard/pkg/redis"
	"focusboard/pkg/util"
)

var version = "dev"

func main() {
	// Load config
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log := logger.NewLogger(cfg.LogLevel)
	defer log.Sync()

	log.Info("Starting digest worker...")

	loc, err := cfg.Priority.Location()
	if err != nil {
		log.Fatal("Invalid timezone", zap.Error(err))
	}

	shutdownOTel, err := otel.Init(cfg.OTel, version, log)
	if err != nil {
		log.Fatal("OpenTelemetry init failed", zap.Error(err))
	}
	defer shutdownOTel()

	// Redis: dedup + retry counter + dismissals
	rdb, err := redis.Connect(context.Background(), cfg.Redis, log)
	if err != nil || rdb == nil {
		log.Fatal("Redis is required by the digest worker", zap.Error(err))
	}
	defer rdb.Close()

	deduper := util.NewDeduper(rdb, 36*time.Hour, log)
	retryCounter := util.NewRetryCounter(rdb, time.Hour)

	// DB
	pool, err := db.NewConnection(cfg.DB, log)
	if err != nil {
		log.Fatal("DB connection failed", zap.Error(err))
	}
	defer pool.Close()

	log.Info("DB ready")

	svc := priority.NewService(priority.Sources{
		Messages: repository.NewMessageRepository(pool, log),
		Tasks:    repository.NewTaskRepository(pool, log),
		Events:   repository.NewEventRepository(pool, log),
		Dates:    repository.NewExtractedDateRepository(pool, log),
		Clients:  repository.NewContactRepository(pool, log),
	}, scoring.NewScorer(scoring.DefaultConfig()), log,
		priority.WithSettings(priority.Settings{
			MaxCandidateAge: cfg.Priority.MaxCandidateAge(),
			ForwardWindow:   cfg.Priority.ForwardWindow(),
			FetchLimit:      cfg.Priority.FetchLimit,
			Breaker:         cfg.Priority.Breaker,
		}),
		priority.WithDismissals(dismissal.NewStore(rdb, log)),
	)

	// Publisher: notification.created + DLQ
	publisher, err := mq.NewPublisher(cfg.MQ.URL, cfg.MQ.Exchange)
	if err != nil {
		log.Fatal("Publisher init failed", zap.Error(err))
	}
	defer publisher.Close()

	digestHandler := mqhandler.NewDigestHandler(svc, publisher, deduper, retryCounter, cfg.Digest.MaxRetries, cfg.Priority.MaxLimit, loc, log)

	// -------------------------
	// Digest Consumer
	// -------------------------
	log.Info("Init consumer", zap.String("queue", cfg.Digest.Queue))
	consumer, err := mq.NewConsumer(mq.ConsumerConfig{
		URL:        cfg.MQ.URL,
		Exchange:   cfg.MQ.Exchange,
		Queue:      cfg.Digest.Queue,
		RoutingKey: mqcontracts.RoutingDigestRequested,
		Prefetch:   cfg.Digest.Prefetch,
	}, log)
	if err != nil {
		log.Fatal("Digest consumer init failed", zap.Error(err))
	}
	defer consumer.Close()
	consumer.SetHandler(digestHandler.Handle)
	consumer.SetDeadLetter(publisher, "digest-worker")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Info("Worker running")
	if err := consumer.StartConsuming(ctx); err != nil && ctx.Err() == nil {
		log.Fatal("Digest consumer crashed", zap.Error(err))
	}
	log.Info("Worker stopped")
}
