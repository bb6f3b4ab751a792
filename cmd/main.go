package main

import (
	"context"
	"database/sql"
	"os"
	"os/signal"
	"syscall"

	"incubation_tracker/internal/config"
	"incubation_tracker/internal/handlers"
	"incubation_tracker/internal/logger"
	"incubation_tracker/internal/models"
	"incubation_tracker/internal/realtime"
	"incubation_tracker/internal/repository"
	"incubation_tracker/internal/repository/db"
	"incubation_tracker/internal/scheduler"
	"incubation_tracker/internal/server"
	"incubation_tracker/internal/service"
	"incubation_tracker/internal/webhook"
)

const configDir = "configs"

func main() {
	// load config.yml + env
	cfg, err := config.Load(configDir)
	if err != nil {
		logger.Get(logger.InfoLevel).Fatalw("error reading config", "err", err)
	}

	log := logger.Get(cfg.Log.Level)
	defer func() { _ = log.Sync() }()

	// open DB
	conn, err := db.InitDB(cfg.DB.Path)
	if err != nil {
		log.Fatalw("failed to init sqlite", "path", cfg.DB.Path, "err", err)
	}
	defer closeDB(conn, log)

	// context for background goroutines; canceled on SIGINT/SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// wire dependencies
	repos := repository.NewRepository(conn, log.Named("repository"))
	services := service.NewService(repos, service.Deps{
		Log:  log,
		Sink: newSink(cfg.Webhook, log),
		Realtime: realtime.Config{
			MaxReconnectAttempts: cfg.Realtime.MaxReconnectAttempts,
			ReconnectDelay:       cfg.Realtime.ReconnectDelay,
			PongWait:             cfg.Realtime.PongWait,
		},
		RealtimeURL: cfg.Realtime.URL,
	})

	err = services.SeedSettings(ctx, models.Settings{
		AlertsEnabled:        cfg.Alerts.Enabled,
		TemperatureTolerance: cfg.Alerts.Tolerance,
	})
	if err != nil {
		log.Fatalw("failed to seed settings", "err", err)
	}

	// bind before starting any background work
	srv, err := server.New(cfg.Server.Port, handlers.NewHandler(services, log.Named("http")).InitRoutes())
	if err != nil {
		log.Fatalw("failed to bind http port", "port", cfg.Server.Port, "err", err)
	}

	// simulated readings while no live feed is open
	go services.Simulator.Run(ctx, cfg.Simulator.Interval)

	// reminder checks
	sched := scheduler.New(cfg.Reminders.Schedule, services, services, log.Named("scheduler"))
	if err := sched.Start(); err != nil {
		log.Fatalw("failed to start reminder scheduler", "schedule", cfg.Reminders.Schedule, "err", err)
	}

	if cfg.Realtime.Enabled {
		if err := services.ConnectRealtime(ctx, ""); err != nil {
			log.Warnw("realtime connect failed; running on simulated data", "url", cfg.Realtime.URL, "err", err)
		}
	}

	log.Infow("http server listening", "addr", srv.Addr())
	if err := srv.Run(ctx); err != nil {
		log.Errorw("http server stopped", "err", err)
	}

	log.Infow("shutting down...")
	services.DisconnectRealtime()

	stopCtx, cancel := context.WithTimeout(context.Background(), server.ShutdownTimeout)
	defer cancel()
	sched.Stop(stopCtx)
}

// newSink returns nil unless a webhook URL is configured.
func newSink(cfg config.WebhookConfig, log *logger.Logger) service.Sink {
	if cfg.URL == "" {
		return nil
	}
	log.Infow("forwarding notifications to webhook", "url", cfg.URL)
	return webhook.NewClient(cfg.URL, cfg.Timeout)
}

func closeDB(conn *sql.DB, log *logger.Logger) {
	if err := conn.Close(); err != nil {
		log.Errorw("failed to close sqlite", "err", err)
	}
}
