package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"docport/docs"
	"docport/internal/config"
	"docport/internal/database"
	"docport/internal/database/migration"
	"docport/internal/exchange"
	handlers "docport/internal/http/handler"
	"docport/internal/http/middleware"
	"docport/internal/lifecycle"
	"docport/internal/logging"
	"docport/internal/metrics"
	"docport/internal/notify"
	"docport/internal/otel"
	"docport/internal/repository"
	"docport/internal/repository/memory"
	"docport/internal/repository/postgres"
	"docport/internal/service"
	"docport/internal/storage"
)

// repositories groups the store-backed collaborators selected by STORE_DRIVER.
type repositories struct {
	docs   repository.DocumentRepository
	events repository.EventRepository
	orgs   repository.OrganizationRepository
	db     *sql.DB
}

// @title Docport API
// @version 1.0
// @description Document exchange between organizations.
// @BasePath /
func main() {
	// Load configuration from environment variables (.env auto-loaded if present)
	cfg := config.Load()
	log := logging.New(os.Stdout, cfg.LogLevel, cfg.Location())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := otel.Init(ctx, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize tracing")
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(sctx); err != nil {
			log.Warn().Err(err).Msg("tracing shutdown failed")
		}
	}()

	repos, err := openRepositories(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.StoreDriver).Msg("failed to initialize store")
	}
	if repos.db != nil {
		defer repos.db.Close()
	}

	objStore, err := openStorage(cfg)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.StorageDriver).Msg("failed to initialize object storage")
	}
	objStore = storage.WithBreaker(objStore, cfg.Breaker, log)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	lifecycleMetrics, err := metrics.NewLifecycle(reg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to register lifecycle metrics")
	}
	httpMetrics, err := middleware.NewPrometheusMiddleware(reg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to register http metrics")
	}

	engineOpts := []lifecycle.Option{
		lifecycle.WithDocumentTTL(cfg.Exchange.DocumentTTL),
		lifecycle.WithRecorder(lifecycleMetrics),
		lifecycle.WithLogger(log),
	}
	if cfg.NATS.URL != "" {
		pub, err := notify.Connect(cfg.NATS.URL, cfg.NATS.Subject, notify.Options{}, log)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to nats")
		}
		defer pub.Close()
		engineOpts = append(engineOpts, lifecycle.WithNotifier(pub))
	}

	engine := lifecycle.NewEngine(repos.docs, repos.events, engineOpts...)
	coord := exchange.NewCoordinator(engine, repos.docs, objStore,
		exchange.WithURLLifetimes(cfg.Exchange.UploadURLTTL, cfg.Exchange.DownloadURLTTL),
		exchange.WithHTTPClient(&http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
			Timeout:   cfg.Exchange.TransferTimeout,
		}),
		exchange.WithOrganizations(repos.orgs),
		exchange.WithOrphanRecorder(lifecycleMetrics),
		exchange.WithLogger(log),
	)
	docSvc := service.NewDocumentService(engine, coord, repos.docs, repos.orgs)

	// Handlers hand header and param values to the store, so they must outlive the request.
	app := fiber.New(fiber.Config{
		Immutable:    true,
		ErrorHandler: handlers.ErrorHandler(),
	})

	// Register global middleware
	app.Use(otelfiber.Middleware())
	// RequestID middleware adds/propagates X-Request-ID and stores it in context
	app.Use(middleware.RequestID())
	app.Use(middleware.Logger(log))
	app.Use(httpMetrics.Handler())

	// The health check only pings when a database backs the store.
	var pinger handlers.Pinger
	if repos.db != nil {
		pinger = repos.db
	}
	handlers.RegisterRoutes(app, pinger, reg, docSvc)

	// Swagger UI with dynamic host and scheme
	app.Get("/swagger/*", func(c *fiber.Ctx) error {
		scheme := c.Protocol()
		if proto := c.Get("X-Forwarded-Proto"); proto != "" {
			scheme = strings.Split(proto, ",")[0]
		}

		docs.SwaggerInfo.Host = c.Get("Host")
		docs.SwaggerInfo.Schemes = []string{scheme}

		return swagger.HandlerDefault(c)
	})

	go func() {
		<-ctx.Done()
		log.Info().Str("event", "shutdown").Msg("shutting down")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			log.Error().Err(err).Msg("graceful shutdown failed")
		}
	}()

	addr := ":" + cfg.Port
	log.Info().Str("addr", addr).Str("store", cfg.StoreDriver).Str("storage", cfg.StorageDriver).Msg("listening")
	if err := app.Listen(addr); err != nil {
		log.Fatal().Err(err).Msg("failed to start server")
	}
}

func openRepositories(ctx context.Context, cfg *config.AppConfig, log zerolog.Logger) (*repositories, error) {
	orgs, err := repository.ParseOrganizations(cfg.Organizations)
	if err != nil {
		return nil, err
	}

	switch cfg.StoreDriver {
	case "memory":
		store := memory.NewStore(orgs...)
		return &repositories{docs: store, events: store, orgs: store.Organizations()}, nil
	default:
		db, err := database.NewPostgres(ctx, cfg.Database)
		if err != nil {
			return nil, err
		}
		if err := migration.EnsureMigrated(ctx, db, log, cfg.Database.Host); err != nil {
			db.Close()
			return nil, err
		}
		orgRepo := postgres.NewOrganizationPostgres(db)
		added, err := orgRepo.Seed(ctx, orgs)
		if err != nil {
			db.Close()
			return nil, err
		}
		log.Info().Str("event", "organizations_seeded").Int("listed", len(orgs)).Int("added", added).Msg("organizations seeded")
		return &repositories{
			docs:   postgres.NewDocumentPostgres(db),
			events: postgres.NewEventPostgres(db),
			orgs:   orgRepo,
			db:     db,
		}, nil
	}
}

func openStorage(cfg *config.AppConfig) (storage.Storage, error) {
	if cfg.StorageDriver == "s3" {
		return storage.NewS3(cfg.S3)
	}
	return storage.NewMinIO(cfg.MinIO)
}
