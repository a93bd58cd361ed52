package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"

	httpapi "github.com/i474232898/weather-history-aggregation/internal/api/http"
	"github.com/i474232898/weather-history-aggregation/internal/climate"
	"github.com/i474232898/weather-history-aggregation/internal/climate/providers"
	"github.com/i474232898/weather-history-aggregation/internal/config"
	"github.com/i474232898/weather-history-aggregation/internal/logger"
	"github.com/i474232898/weather-history-aggregation/internal/metrics"
	"github.com/i474232898/weather-history-aggregation/internal/scheduler"
	"github.com/i474232898/weather-history-aggregation/internal/store"
)

func main() {
	ctx := context.Background()
	log := logger.Named("main")

	cfg, err := config.Load()
	if err != nil {
		log.Error(ctx, "failed to load config", logger.Error(err))
		os.Exit(1)
	}
	if err := logger.Init(os.Stdout, cfg.LogLevel); err != nil {
		log.Error(ctx, "invalid log level", logger.Error(err))
		os.Exit(1)
	}
	log = logger.Named("main")

	// Shared HTTP client for outbound provider calls.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	// Current-conditions providers double as the geocoder, tried in order.
	geocoder := climate.NewGeocoder([]climate.ConditionsProvider{
		providers.NewOpenWeatherProvider(httpClient, cfg.OpenWeatherAPIKey),
		providers.NewWeatherAPIProvider(httpClient, cfg.WeatherAPIKey),
	}, nil)

	var records climate.RecordsProvider
	switch cfg.RecordsProvider {
	case config.RecordsOpenMeteo:
		records = providers.NewOpenMeteoArchiveProvider(httpClient)
	default:
		records = providers.NewNOAAProvider(httpClient, cfg.NOAAToken)
	}
	fetcher := climate.NewFetcher(records,
		climate.WithConcurrency(cfg.FetchConcurrency),
		climate.WithCallTimeout(cfg.HTTPTimeout*2),
	)

	reports, health, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		log.Error(ctx, "failed to open report store", logger.Error(err))
		os.Exit(1)
	}
	defer closeStore()

	service := climate.NewService(geocoder, fetcher,
		climate.WithStore(reports),
		climate.WithHistoryYears(cfg.HistoryYears),
	)

	// Scheduler that periodically refreshes today's climatology for tracked places.
	sched := scheduler.New(cfg.Locations, cfg.FetchInterval, service)
	if err := sched.Start(); err != nil {
		log.Error(ctx, "failed to start scheduler", logger.Error(err))
		os.Exit(1)
	}
	defer sched.Stop()

	app := fiber.New(fiber.Config{
		AppName:               "weather-history-aggregation",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		// Summaries issue one remote call per year.
		WriteTimeout: 2 * time.Minute,
		ErrorHandler: httpapi.ErrorHandler,
	})

	app.Use(fiberlogger.New())
	app.Use(recover.New())
	app.Use(httpapi.Metrics)

	app.Get("/health", func(c *fiber.Ctx) error {
		status := "ok"
		if health != nil {
			if err := health(c.UserContext()); err != nil {
				return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
					"status": "degraded",
					"error":  err.Error(),
				})
			}
		}
		return c.JSON(fiber.Map{
			"status":  status,
			"service": "weather-history-aggregation",
			"records": records.Name(),
		})
	})
	app.Get("/metrics", adaptor.HTTPHandler(metrics.Handler()))

	httpapi.RegisterRoutes(app, service)

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Error(ctx, "fiber server stopped", logger.Error(err))
		}
	}()
	log.Info(ctx, "listening",
		logger.String("port", cfg.Port),
		logger.String("records_provider", records.Name()),
		logger.Int("tracked_places", len(cfg.Locations)),
	)

	sigCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-sigCtx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error(ctx, "error during shutdown", logger.Error(err))
	}
}

// openStore returns PostgreSQL storage when DATABASE_URL is set and the
// in-memory store otherwise.
func openStore(ctx context.Context, cfg *config.AppConfig) (climate.ReportStore, func(context.Context) error, func(), error) {
	if cfg.DatabaseURL == "" {
		return store.NewMemoryStore(cfg.StoreMaxHistory, cfg.StoreMaxAge), nil, func() {}, nil
	}

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, nil, err
	}
	pg := store.NewPostgresStore(pool)
	if err := pg.EnsureSchema(ctx); err != nil {
		pool.Close()
		return nil, nil, nil, err
	}
	return pg, pg.Health, pool.Close, nil
}
