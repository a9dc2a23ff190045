package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/KevinMitsi/MotorX-backend-sub001/internal/config"
	"github.com/KevinMitsi/MotorX-backend-sub001/internal/db"
	httpapi "github.com/KevinMitsi/MotorX-backend-sub001/internal/http"
	"github.com/KevinMitsi/MotorX-backend-sub001/internal/notify"
	"github.com/KevinMitsi/MotorX-backend-sub001/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	zerolog.TimeFieldFormat = time.RFC3339
	level, _ := zerolog.ParseLevel(cfg.LogLevel)
	logger := log.Level(level).With().Str("service", "motorx-backend").Logger()

	ctx := context.Background()
	store, err := db.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect db")
	}
	defer store.Close()

	var notifier notify.Notifier
	if cfg.NotifyURL == "" {
		notifier = notify.MockNotifier{Logger: logger}
		logger.Info().Msg("using mock notifier")
	} else {
		notifier = notify.HTTPNotifier{BaseURL: cfg.NotifyURL}
	}

	scheduler := &service.Scheduler{
		Store:    store,
		Notifier: notifier,
		Logger:   logger,
	}

	router := httpapi.Router(cfg, store, scheduler, logger)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		logger.Info().Str("port", cfg.Port).Msg("server started")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctxShutdown)
	logger.Info().Msg("server stopped")
}
