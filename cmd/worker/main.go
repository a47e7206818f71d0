package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"

	"github.com/jhoicas/logistica-api/internal/application/ingestion"
	"github.com/jhoicas/logistica-api/internal/infrastructure/metrics"
	"github.com/jhoicas/logistica-api/internal/infrastructure/postgres"
	"github.com/jhoicas/logistica-api/internal/infrastructure/queue"
	"github.com/jhoicas/logistica-api/pkg/config"
	"github.com/jhoicas/logistica-api/pkg/logger"
)

// Worker de ingesta: consume la cola asynq y escribe en PostgreSQL.
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, Service: "worker"})
	if cfg.Redis.Addr == "" {
		log.Fatal().Msg("REDIS_ADDR requerido para el worker")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	zl := log.Zerolog()
	processor := ingestion.NewProcessor(
		postgres.NewRecordRepository(pool),
		postgres.NewIngestionJobRepository(pool),
		metrics.NewMetrics(nil),
		cfg.Ingestion.Concurrency,
		zl,
	)

	worker := queue.NewWorker(queue.WorkerConfig{
		RedisOpts:   asynq.RedisClientOpt{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB},
		Concurrency: 2,
		Logger:      zl,
		Handlers: []queue.TaskHandler{
			{Type: queue.TaskIngestionProcess, Handler: queue.NewIngestionHandler(processor)},
		},
	})

	log.Info().Str("redis", cfg.Redis.Addr).Msg("worker iniciado")
	if err := worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatal().Err(err).Msg("worker detenido con error")
	}
	log.Info().Msg("worker detenido")
}
