package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"showlog/internal/conn"
	"showlog/internal/store"
	"showlog/shared/go/config"
	"showlog/shared/go/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fallback := logging.New(logging.Config{Level: "error", Format: "text", Output: os.Stderr})
		fallback.Fatal().Err(err).Msg("load config")
	}

	logger := logging.New(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: os.Stderr,
	})
	logging.SetGlobal(logger)

	manager := conn.NewManager(cfg.Retry.MaxAttempts, cfg.Retry.BaseDelay)
	manager.Subscribe(func(state conn.State) {
		logger.Info().Str("state", string(state)).Msg("connection state changed")
	})

	db, err := openDatabase(context.Background(), cfg.Database.URL, manager)
	if err != nil {
		logger.Fatal().Err(err).Msg("open database")
	}
	defer db.Close()

	dataStore := store.New(db)
	handler := newHTTPHandler(cfg, dataStore, manager)

	server := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           handler,
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	logger.Info().Str("addr", server.Addr).Msg("API listening")
	if err := server.ListenAndServe(); err != nil {
		logger.Fatal().Err(err).Msg("server error")
	}
}
