package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	httpapi "github.com/i474232898/nmc-weather/internal/api/http"
	"github.com/i474232898/nmc-weather/internal/config"
	"github.com/i474232898/nmc-weather/internal/observability"
	"github.com/i474232898/nmc-weather/internal/scheduler"
	"github.com/i474232898/nmc-weather/internal/store"
	"github.com/i474232898/nmc-weather/internal/weather"
	"github.com/i474232898/nmc-weather/internal/weather/providers"
)

func main() {
	forceSetup := flag.Bool("setup", false, "ask for province and city again and replace the saved station")
	flag.Parse()

	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger := observability.NewLogger(cfg, os.Stderr)
	slog.SetDefault(logger)
	if cfg.EnvFileErr != nil {
		logger.Info("no .env file loaded", "error", cfg.EnvFileErr)
	}
	metrics := observability.NewMetrics()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Shared HTTP client for outbound NMC calls.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}
	nmc := providers.NewNMCProvider(httpClient, cfg.NMCBaseURL)

	station, err := loadStation(ctx, cfg, *forceSetup, nmc, os.Stdin, os.Stdout, logger)
	if err != nil {
		logger.Error("station setup failed", "error", err)
		stop()
		os.Exit(1)
	}
	logger.Info("station loaded",
		"province", station.Province, "city", station.City, "station", station.StationID)

	// In-memory report history with configured retention.
	memStore := store.NewMemoryStore(cfg.ReportHistory, cfg.ReportMaxAge)
	archive := store.NewFileArchive(cfg.ArchiveDir)

	service := weather.NewService(nmc, archive, memStore, logger, metrics,
		weather.WithLocation(cfg.Location))

	// The update cycle is the only scheduled work.
	sched := scheduler.New(cfg.FetchInterval, cfg.Location, func(ctx context.Context) {
		_, _ = service.RunCycle(ctx, station.StationID)
	}, logger)
	if err := sched.Start(ctx); err != nil {
		logger.Error("failed to start scheduler", "error", err)
		stop()
		os.Exit(1)
	}
	defer sched.Stop()

	var app *fiber.App
	if cfg.StatusServerEnabled {
		app = newStatusApp(service, station)
		go func() {
			if err := app.Listen(":" + cfg.Port); err != nil {
				logger.Error("status server stopped", "error", err)
			}
		}()
		logger.Info("status server listening", "port", cfg.Port)
	}

	// Wait for termination signal
	<-ctx.Done()
	logger.Info("shutting down")

	if app != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			logger.Error("error during shutdown", "error", err)
		}
	}
}

func newStatusApp(service *weather.Service, station config.StationConfig) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "nmc-weather",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          10 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error":   true,
				"message": err.Error(),
			})
		},
	})

	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "nmc-weather",
		})
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	httpapi.RegisterRoutes(app, service, station)
	return app
}
