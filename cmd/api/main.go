package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kavish/inventory-insight/internal/config"
	"github.com/kavish/inventory-insight/internal/database"
	"github.com/kavish/inventory-insight/internal/logging"
	"github.com/kavish/inventory-insight/internal/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("load config")
	}

	logging.Init(cfg.IsDevelopment())

	db, err := database.NewConnection(&cfg.Database)
	if err != nil {
		logging.Fatal().Err(err).Msg("connect to database")
	}
	defer db.Close()

	logging.Info().Msg("connected to database")

	srv := server.New(&cfg.Server, db)

	errCh := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		logging.Fatal().Err(err).Msg("server error")
	case sig := <-quit:
		logging.Info().Str("signal", sig.String()).Msg("shutdown signal received")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logging.Error().Err(err).Msg("graceful shutdown failed")
	}
}
