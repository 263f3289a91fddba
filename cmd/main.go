package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/Houeta/leadgate/internal/config"
	"github.com/Houeta/leadgate/internal/intake"
	"github.com/Houeta/leadgate/internal/metrics"
	"github.com/Houeta/leadgate/internal/notifier"
	"github.com/Houeta/leadgate/internal/repository"
	"github.com/Houeta/leadgate/internal/server"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Constants for different environment types.
const (
	envLocal = "local"
	envDev   = "development"
	envProd  = "production"
)

// main is the entry point of the application.
func main() {
	// Create a context that will be canceled when an interrupt signal is received.
	// This allows for graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load application configuration.
	cfg := config.MustLoad()

	// Set up the logger based on the environment.
	logger := setupLogger(cfg.Env)

	// Create a separate registry for application metrics.
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	appMetrics := metrics.NewMetrics(reg)

	// Initialize the database connection.
	dtb, err := repository.NewDatabase(
		cfg.Database.Host, cfg.Database.Port, cfg.Database.User, cfg.Database.Password, cfg.Database.Name,
	)
	if err != nil {
		log.Fatalf("Failed to connect to DB: %v", err)
	}
	defer dtb.Close()

	// Create a new repository instance using the database connection.
	repo := repository.NewRepository(dtb)

	// Schema creation and the demo seed are idempotent, so every start runs them.
	if err = repo.EnsureSchema(ctx); err != nil {
		log.Fatalf("Failed to ensure schema: %v", err)
	}
	if err = repo.SeedDemoClient(ctx); err != nil {
		log.Fatalf("Failed to seed demo client: %v", err)
	}

	// Without a bot token the notifier degrades to a silent skip;
	// lead capture keeps working.
	var leadNotifier notifier.Interface
	if cfg.Telegram.Token == "" {
		logger.InfoContext(ctx, "No bot token configured, notifications disabled")
		leadNotifier = notifier.NewNoop(logger, appMetrics)
	} else {
		leadNotifier, err = notifier.NewTelegram(logger, appMetrics, cfg.Telegram)
		if err != nil {
			log.Fatalf("Failed to create notifier: %v", err)
		}
	}

	intakeSvc := intake.NewService(logger, repo, repo, leadNotifier, appMetrics)
	handler := server.NewHandler(logger, repo, repo, intakeSvc, appMetrics)
	health := server.NewHealthChecker(logger, dtb)
	router := server.NewRouter(handler, health, promhttp.HandlerFor(reg, promhttp.HandlerOpts{}), cfg.AdminToken)

	// Log that the application has started.
	logger.InfoContext(ctx, "Application started. Press Ctrl+C to stop.")

	// Start the HTTP server; it blocks until the context is canceled.
	server.Start(ctx, logger, router, cfg.Port)

	// Log graceful shutdown completion.
	logger.InfoContext(ctx, "Application stopped gracefully.")
}

// setupLogger initializes and returns a logger based on the environment provided.
func setupLogger(env string) *slog.Logger {
	var logger *slog.Logger

	switch env {
	case envLocal:
		logger = slog.New(
			slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
				Level:     slog.LevelDebug,
				AddSource: true,
			}),
		)
	case envDev:
		logger = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level:     slog.LevelInfo,
				AddSource: false,
			}),
		)
	case envProd:
		logger = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level:     slog.LevelWarn,
				AddSource: false,
				ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
					if a.Key == slog.TimeKey {
						return slog.Attr{}
					}
					return a
				},
			}),
		)
	default:
		logger = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level:     slog.LevelError,
				AddSource: false,
			}),
		)

		logger.Error(
			"The env parameter was not specified or was invalid. Logging will be minimal, by default.",
			slog.String("available_envs", "local, development, production"))
	}

	return logger
}
