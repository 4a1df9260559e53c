package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ncamp16-final-team1/IMJM-sub000/internal/config"
	"github.com/ncamp16-final-team1/IMJM-sub000/internal/delivery"
	"github.com/ncamp16-final-team1/IMJM-sub000/internal/domain"
	"github.com/ncamp16-final-team1/IMJM-sub000/internal/handler"
	"github.com/ncamp16-final-team1/IMJM-sub000/internal/hub"
	"github.com/ncamp16-final-team1/IMJM-sub000/internal/notification"
	"github.com/ncamp16-final-team1/IMJM-sub000/internal/repository"
	"github.com/ncamp16-final-team1/IMJM-sub000/internal/service"
	"github.com/ncamp16-final-team1/IMJM-sub000/internal/translation"
	"github.com/ncamp16-final-team1/IMJM-sub000/pkg/database"
	"github.com/ncamp16-final-team1/IMJM-sub000/pkg/log"
	"github.com/ncamp16-final-team1/IMJM-sub000/pkg/pubsub"
	"github.com/ncamp16-final-team1/IMJM-sub000/pkg/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log.Init(cfg.Log)
	logger := log.L()
	logger.Info().Int("port", cfg.Server.Port).Msg("starting chat service")

	db, err := database.New(&cfg.Database)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	if err := database.AutoMigrate(db,
		&domain.ChatRoomModel{},
		&domain.ChatMessageModel{},
		&domain.ChatPhotoModel{},
		&domain.TranslationCacheModel{},
	); err != nil {
		logger.Fatal().Err(err).Msg("failed to migrate database")
	}

	bus, err := pubsub.NewRedisPubSub(cfg.Redis)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer bus.Close()

	fanout, err := buildFanout(cfg, bus)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialise delivery fan-out")
	}
	defer fanout.Close()
	logger.Info().Str("strategy", cfg.Delivery.Strategy).Msg("delivery fan-out ready")

	notifier, err := notification.NewKafkaNotifier(cfg.Kafka)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialise kafka notifier")
	}
	defer notifier.Close()
	logger.Info().Str("brokers", cfg.Kafka.Brokers).Str("topic", cfg.Kafka.Topic).Msg("connected to kafka")

	photoStore, err := buildStorage(cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialise photo storage")
	}

	roomRepo := repository.NewGormRoomRepository(db)
	messageRepo := repository.NewGormMessageRepository(db)
	cacheRepo := repository.NewGormTranslationCache(db)
	directory := repository.NewGormDirectory(db)

	translator := translation.NewCachedTranslator(cacheRepo, translation.NewLLMClient(cfg.Translation))

	chatSvc := service.NewChatService(
		roomRepo, messageRepo, directory, directory,
		translator, fanout, notifier,
		cfg.Translation.Timeout, cfg.Delivery.Strategy,
	)

	wsHub := hub.NewHub()
	go wsHub.Run()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	forwarder := hub.NewForwarder(wsHub, bus)
	go func() {
		if err := forwarder.Run(ctx); err != nil && ctx.Err() == nil {
			logger.Error().Err(err).Msg("hub forwarder stopped")
		}
	}()

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery(), log.GinMiddleware(*logger))

	handler.NewHandler(chatSvc, photoStore).RegisterRoutes(router)
	handler.NewWSHandler(wsHub, cfg.WebSocket).RegisterRoutes(router)
	router.GET("/health", func(c *gin.Context) { c.String(http.StatusOK, "OK") })
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	if cfg.Storage.Driver == "local" || cfg.Storage.Driver == "" {
		router.Static("/uploads", cfg.Storage.Local.Root)
	}

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info().Str("addr", server.Addr).Msg("chat service listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down chat service")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Warn().Err(err).Msg("server forced to shutdown")
	}

	logger.Info().Msg("chat service stopped")
}

func buildFanout(cfg *config.Config, bus pubsub.PubSub) (delivery.Fanout, error) {
	switch cfg.Delivery.Strategy {
	case delivery.StrategyQueue:
		return delivery.NewQueueFanout(cfg.Broker)
	case delivery.StrategyPush, "":
		return delivery.NewPushFanout(bus), nil
	default:
		return nil, fmt.Errorf("unknown delivery strategy: %s", cfg.Delivery.Strategy)
	}
}

func buildStorage(cfg *config.Config) (storage.Storage, error) {
	switch cfg.Storage.Driver {
	case "s3":
		return storage.NewS3Storage(context.Background(), cfg.Storage.S3)
	case "local", "":
		return storage.NewLocalStorage(cfg.Storage.Local.Root, cfg.Storage.Local.BaseURL)
	default:
		return nil, fmt.Errorf("unknown storage driver: %s", cfg.Storage.Driver)
	}
}
