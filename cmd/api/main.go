package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/hibiken/asynq"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jhoicas/logistica-api/internal/application/billing"
	"github.com/jhoicas/logistica-api/internal/application/ingestion"
	"github.com/jhoicas/logistica-api/internal/infrastructure/metrics"
	"github.com/jhoicas/logistica-api/internal/infrastructure/queue"
	infrasap "github.com/jhoicas/logistica-api/internal/infrastructure/sap"
	httpRouter "github.com/jhoicas/logistica-api/internal/interfaces/http"
	"github.com/jhoicas/logistica-api/pkg/config"
	"github.com/jhoicas/logistica-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: "api",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("store", cfg.Store.Driver).
		Msg("iniciando aplicación")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store, err := openStore(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("abrir almacenamiento")
	}
	defer store.close()

	appMetrics := metrics.NewMetrics(nil)
	settings := billing.Settings{
		TaxRate:         cfg.Billing.TaxRate,
		Currency:        cfg.Billing.Currency,
		CustomsFeeRate:  cfg.Billing.CustomsFeeRate,
		AuthorityPrefix: cfg.Billing.AuthorityPrefix,
	}

	// Sin endpoint solo se genera el XML
	var sender billing.ExternalSender
	if cfg.SAP.EndpointURL != "" {
		sender = infrasap.NewHTTPSender(cfg.SAP.EndpointURL, cfg.SAP.Timeout)
	}
	xmlBuilder := infrasap.NewXMLBuilder(cfg.SAP.CompanyCode, cfg.SAP.SenderID)

	zl := log.Zerolog()
	recordUC := billing.NewRecordUseCase(store.records)
	clientUC := billing.NewClientUseCase(store.clients, store.catalog)
	invoiceUC := billing.NewInvoiceUseCase(store.tx, store.records, store.invoices, store.clients, settings, zl)
	finalizeUC := billing.NewFinalizeInvoiceUseCase(
		store.tx, store.records, store.invoices, store.clients, store.catalog,
		xmlBuilder, sender, appMetrics, settings, zl,
	)

	// Con Redis los jobs van a la cola y los procesa cmd/worker; sin Redis, goroutines locales
	var (
		dispatcher ingestion.Dispatcher
		local      *ingestion.GoroutineDispatcher
	)
	if cfg.Redis.Addr != "" {
		client := queue.NewClient(asynq.RedisClientOpt{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		defer client.Close()
		dispatcher = client
	} else {
		processor := ingestion.NewProcessor(store.records, store.jobs, appMetrics, cfg.Ingestion.Concurrency, zl)
		local = ingestion.NewGoroutineDispatcher(processor, zl)
		dispatcher = local
	}
	ingestUC := ingestion.NewUseCase(store.clients, store.jobs, dispatcher, zl)

	janitor := ingestion.NewJanitor(store.jobs, cfg.Ingestion.Retention, 15*time.Minute, zl)
	go janitor.Run(ctx)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: cfg.SAP.Timeout + 10*time.Second,
		IdleTimeout:  time.Second * 60,
		BodyLimit:    20 * 1024 * 1024,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Logística API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	httpRouter.Router(app, httpRouter.RouterDeps{
		RecordUC:   recordUC,
		InvoiceUC:  invoiceUC,
		FinalizeUC: finalizeUC,
		ClientUC:   clientUC,
		IngestUC:   ingestUC,
		JWTSecret:  cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")
	cancel()

	shutdownCtx, stop := context.WithTimeout(context.Background(), 10*time.Second)
	defer stop()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}
	if local != nil {
		local.Wait()
	}

	log.Info().Msg("aplicación detenida")
}
