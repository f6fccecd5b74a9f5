package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/dgallion1/recipeview/internal/api"
	"github.com/dgallion1/recipeview/internal/config"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := api.NewServer(nil, log, cfg)

	log.Info("starting recipeview", "port", cfg.Port, "auth", cfg.APIKey != "")
	if err := api.ListenAndServe(ctx, ":"+cfg.Port, srv, log); err != nil {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}
