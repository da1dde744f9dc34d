package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/eimantasp123/fitrone-back-end-sub000/internal/config"
	"github.com/eimantasp123/fitrone-back-end-sub000/internal/database"
	"github.com/eimantasp123/fitrone-back-end-sub000/internal/notifications"
	"github.com/eimantasp123/fitrone-back-end-sub000/internal/repository"
	"github.com/eimantasp123/fitrone-back-end-sub000/internal/server"
	"github.com/eimantasp123/fitrone-back-end-sub000/internal/sweeper"
	"github.com/eimantasp123/fitrone-back-end-sub000/internal/timewindow"
)

func main() {
	ensureEnvFile()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	db, err := database.Open(context.Background(), cfg.Database, logger)
	if err != nil {
		logger.Error("failed to connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer func() {
		db.Close()
	}()

	if err := database.RunMigrations(cfg.Database.DSN(), logger); err != nil {
		logger.Error("failed to run migrations", slog.String("error", err.Error()))
		os.Exit(1)
	}

	hub := notifications.NewHub()
	resolver := timewindow.NewResolver()

	e := server.New(cfg, logger, db, hub, resolver)
	httpServer := server.NewHTTPServer(cfg.Server, e)

	sweeperCtx, stopSweeper := context.WithCancel(context.Background())
	weekSweeper := sweeper.New(
		repository.NewWeeklyPlanRepository(db),
		repository.NewMenuTemplateRepository(db),
		repository.NewDayOrderRepository(db),
		resolver,
		hub,
		logger,
		cfg.Sweeper.Interval,
	)
	go weekSweeper.Run(sweeperCtx)

	go func() {
		if err := e.StartServer(httpServer); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server failed", slog.String("error", err.Error()))
		}
	}()

	shutdownSignal := make(chan os.Signal, 1)
	signal.Notify(shutdownSignal, syscall.SIGINT, syscall.SIGTERM)
	<-shutdownSignal

	stopSweeper()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", slog.String("error", err.Error()))
	}

	hub.Shutdown()
}

func ensureEnvFile() {
	if os.Getenv("ENV_FILE") != "" {
		return
	}

	if _, err := os.Stat(".env"); err == nil {
		_ = os.Setenv("ENV_FILE", ".env")
		return
	}

	if _, err := os.Stat("../.env"); err == nil {
		_ = os.Setenv("ENV_FILE", "../.env")
	}
}
