package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"focusboard/config"
	"focusboard/internal/api"
	"focusboard/internal/dismissal"
	"focusboard/internal/repository"
	"focusboard/internal/scoring"
	"focusboard/internal/service/priority"
	"focusboard/pkg/db"
	"focusboard/pkg/logger"
	"focusboard/pkg/otel"
	"focusboard/pkg/redis"
)

var version = "dev"

func main() {
	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log := logger.NewLogger(cfg.LogLevel)
	defer log.Sync()

	loc, err := cfg.Priority.Location()
	if err != nil {
		log.Fatal("Invalid timezone", zap.Error(err))
	}

	// 2. Tracing
	shutdownOTel, err := otel.Init(cfg.OTel, version, log)
	if err != nil {
		log.Fatal("OpenTelemetry init failed", zap.Error(err))
	}
	defer shutdownOTel()

	// 3. Init DB
	pool, err := db.NewConnection(cfg.DB, log)
	if err != nil {
		log.Fatal("DB initialization failed", zap.Error(err))
	}
	defer pool.Close()

	// 4. Init repositories
	sources := priority.Sources{
		Messages: repository.NewMessageRepository(pool, log),
		Tasks:    repository.NewTaskRepository(pool, log),
		Events:   repository.NewEventRepository(pool, log),
		Dates:    repository.NewExtractedDateRepository(pool, log),
		Clients:  repository.NewContactRepository(pool, log),
	}

	opts := []priority.Option{priority.WithSettings(priority.Settings{
		MaxCandidateAge: cfg.Priority.MaxCandidateAge(),
		ForwardWindow:   cfg.Priority.ForwardWindow(),
		FetchLimit:      cfg.Priority.FetchLimit,
		Breaker:         cfg.Priority.Breaker,
	})}

	// 5. Redis (optional): dismiss-for-today
	var dismissals api.Dismisser
	rdb, err := redis.Connect(context.Background(), cfg.Redis, log)
	switch {
	case err != nil:
		log.Warn("Redis unavailable, dismissals disabled", zap.Error(err))
	case rdb == nil:
		log.Warn("Redis not configured, dismissals disabled")
	default:
		defer rdb.Close()
		store := dismissal.NewStore(rdb, log)
		dismissals = store
		opts = append(opts, priority.WithDismissals(store))
	}

	// 6. Init services
	svc := priority.NewService(sources, scoring.NewScorer(scoring.DefaultConfig()), log, opts...)

	// 7. Router
	handler := api.NewPriorityHandler(svc, dismissals, api.PriorityHandlerConfig{
		DefaultLimit: cfg.Priority.DefaultLimit,
		MaxLimit:     cfg.Priority.MaxLimit,
		Location:     loc,
	}, log)
	router := api.NewRouter(handler, cfg.JWT.Secret, pool, log)

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router.Engine,
		ReadHeaderTimeout: cfg.Server.ReadTimeout,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Info("API server listening", zap.String("addr", srv.Addr), zap.String("version", version))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server start failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down API server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Graceful shutdown failed", zap.Error(err))
	}
}
