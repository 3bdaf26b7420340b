package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tvminh/blockflow/configs"
	"github.com/tvminh/blockflow/internal/importer"
	"github.com/tvminh/blockflow/internal/storage"
	"github.com/tvminh/blockflow/internal/vision"
)

func main() {
	var fromStr, toStr string
	flag.StringVar(&fromStr, "from", "", "First archive date, YYYY-MM-DD (required)")
	flag.StringVar(&toStr, "to", "", "Last archive date, YYYY-MM-DD (defaults to -from)")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	appConfig := configs.AppLoad()

	if fromStr == "" {
		fmt.Fprintf(os.Stderr, "Error: -from flag is required\n")
		fmt.Fprintf(os.Stderr, "Usage: %s -from 2025-01-01 [-to 2025-01-31]\n", os.Args[0])
		os.Exit(1)
	}
	if toStr == "" {
		toStr = fromStr
	}

	first, err := time.Parse("2006-01-02", fromStr)
	if err != nil {
		logger.Error("Invalid -from date", "error", err)
		os.Exit(1)
	}
	last, err := time.Parse("2006-01-02", toStr)
	if err != nil {
		logger.Error("Invalid -to date", "error", err)
		os.Exit(1)
	}

	blockStorage, err := storage.NewClickHouseStorage(appConfig.DBDSN)
	if err != nil {
		logger.Error("Failed to connect to DB", "error", err)
		os.Exit(1)
	}
	defer blockStorage.Close()

	visionCfg := vision.DefaultConfig(appConfig.Importer.DownloadDir)
	visionCfg.RequestsPerSecond = float64(appConfig.Importer.RequestsPerSecond)
	client := vision.NewClient(visionCfg, logger)

	svc := importer.NewImporter(client, blockStorage, logger, importer.Config{
		Symbols: appConfig.Importer.Symbols,
		Market:  vision.MarketType(appConfig.Importer.Market),
		Monthly: appConfig.Importer.Monthly,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := svc.ImportRange(ctx, first, last); err != nil {
		logger.Error("Import failed", "error", err)
		os.Exit(1)
	}

	logger.Info("Import complete")
}
