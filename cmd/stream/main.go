package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/tvminh/blockflow/configs"
	"github.com/tvminh/blockflow/internal/publisher"
	"github.com/tvminh/blockflow/internal/stream"
)

func main() {
	logger := stream.NewLogger()
	appConfig := configs.AppLoad()

	pub, err := publisher.NewPublisher(publisher.Config{
		Broker: appConfig.Kafka.Broker,
		Topic:  appConfig.Kafka.Topic,
	}, logger)
	if err != nil {
		logger.Fatalf("Failed to create publisher: %v", err)
	}
	defer pub.Close()

	svc := stream.NewStream(stream.Config{
		Market:  appConfig.Stream.Market,
		Symbols: appConfig.Stream.Symbols,
	}, pub, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Infof("Streaming %d symbols on %s", len(appConfig.Stream.Symbols), appConfig.Stream.Market)

	if err := svc.Run(ctx); err != nil {
		logger.Fatalf("Stream stopped with error: %v", err)
	}

	logger.Info("Stream shutdown complete")
}
