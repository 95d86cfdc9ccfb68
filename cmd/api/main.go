package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"

	"github.com/snaplinkhq/snaplink/internal/config"
	"github.com/snaplinkhq/snaplink/internal/domain"
	"github.com/snaplinkhq/snaplink/internal/geo"
	"github.com/snaplinkhq/snaplink/internal/handler"
	"github.com/snaplinkhq/snaplink/internal/logger"
	"github.com/snaplinkhq/snaplink/internal/logsink"
	"github.com/snaplinkhq/snaplink/internal/middleware"
	"github.com/snaplinkhq/snaplink/internal/registry"
	"github.com/snaplinkhq/snaplink/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	if err := logger.Initialize(logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		OutputPath: cfg.Log.OutputPath,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAgeDays: cfg.Log.MaxAgeDays,
		Compress:   cfg.Log.Compress,
	}); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	slogger := logger.Get()
	slogger.Info("Starting snaplink service",
		"port", cfg.Server.Port,
		"base_url", cfg.Server.BaseURL,
		"cleanup_interval", cfg.Cleanup.Interval,
	)

	sink := logsink.New(logsink.Config{
		CollectorURL: cfg.LogSink.CollectorURL,
		AuthToken:    cfg.LogSink.AuthToken,
		BufferSize:   cfg.LogSink.BufferSize,
		SendTimeout:  cfg.LogSink.SendTimeout,
	}, slogger)

	clock := domain.RealClock{}
	reg := registry.New(clock, sink)

	sweeper := registry.NewSweeper(reg, clock, cfg.Cleanup.Interval)
	sweeper.Start()

	geoResolver := geo.NewResolver(geo.Config{
		ProviderURL: cfg.Geo.ProviderURL,
		Timeout:     cfg.Geo.Timeout,
		CacheSize:   cfg.Geo.CacheSize,
		CacheTTL:    cfg.Geo.CacheTTL,
	})

	shortenerService := service.NewShortenerService(reg, geoResolver, sink, clock)

	shortenerHandler := handler.NewShortenerHandler(shortenerService, cfg.Server.BaseURL)
	statsHandler := handler.NewStatsHandler(shortenerService, cfg.Server.BaseURL)
	healthHandler := handler.NewHealthHandler(clock)

	router := setupRouter(shortenerHandler, statsHandler, healthHandler)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		slogger.Info("Server listening", "address", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slogger.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	gracefulShutdown(srv, cfg, sweeper, sink, slogger)
}

func setupRouter(
	shortenerHandler *handler.ShortenerHandler,
	statsHandler *handler.StatsHandler,
	healthHandler *handler.HealthHandler,
) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.Headers())
	router.Use(middleware.Logger())

	router.GET("/health", healthHandler.Health)

	router.POST("/shorturls", shortenerHandler.CreateShortURL)
	router.GET("/shorturls/:shortcode", statsHandler.GetStats)
	router.GET("/shorturls/:shortcode/qr", statsHandler.GetQRCode)

	router.GET("/:shortcode", shortenerHandler.Redirect)

	return router
}

func gracefulShutdown(srv *http.Server, cfg *config.Config, sweeper *registry.Sweeper, sink *logsink.Client, log *slog.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	sig := <-quit
	log.Info("Shutdown signal received", "signal", sig.String())

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Forced shutdown", "error", err)
	}

	sweeper.Stop()
	log.Info("Cleanup sweeper stopped")

	sink.Close()
	log.Info("Log sink flushed")

	log.Info("Graceful shutdown completed")
}
