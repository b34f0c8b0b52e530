package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/sedsgs/groundstation-data/internal/config"
	"github.com/sedsgs/groundstation-data/internal/database"
	"github.com/sedsgs/groundstation-data/internal/export"
)

func main() {
	configPath := flag.String("config", "configs/groundstation.local.yaml", "path to config file")
	outPath := flag.String("out", "telemetry.csv", "output CSV path")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg, err := config.LoadAndValidate(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	pool, err := database.Connect(ctx, cfg.Database.Postgres)
	if err != nil {
		logger.Error("failed to connect to database", "error", err,
			"hint", "is the groundstation database reachable?")
		os.Exit(1)
	}
	defer pool.Close()

	n, err := export.NewExporter(pool, logger).ToFile(ctx, *outPath)
	if err != nil {
		logger.Error("export failed", "error", err)
		os.Exit(1)
	}

	logger.Info("export complete", "path", *outPath, "rows", n)
}
