package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ncamp16-final-team1/IMJM-sub000/internal/bridge"
	"github.com/ncamp16-final-team1/IMJM-sub000/internal/config"
	"github.com/ncamp16-final-team1/IMJM-sub000/pkg/log"
	"github.com/ncamp16-final-team1/IMJM-sub000/pkg/pubsub"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logCfg := cfg.Log
	logCfg.ServiceName = "bridged"
	log.Init(logCfg)
	logger := log.L()
	logger.Info().Str("broker", cfg.Broker.URL).Msg("starting bridge consumer")

	bus, err := pubsub.NewRedisPubSub(cfg.Redis)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer bus.Close()

	b, err := bridge.New(cfg.Broker, bus)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to broker")
	}
	defer b.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		logger.Info().Msg("shutting down bridge consumer")
		cancel()
	}()

	if err := b.Run(ctx); err != nil {
		logger.Fatal().Err(err).Msg("bridge consumer failed")
	}

	logger.Info().Msg("bridge consumer stopped")
}
