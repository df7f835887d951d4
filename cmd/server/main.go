package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/vidrelay/vidrelay/internal/api"
	"github.com/vidrelay/vidrelay/internal/api/handler"
	"github.com/vidrelay/vidrelay/internal/config"
	"github.com/vidrelay/vidrelay/internal/extractor"
	"github.com/vidrelay/vidrelay/internal/history"
	"github.com/vidrelay/vidrelay/internal/service"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	// Parse flags
	configPath := flag.String("config", "", "Path to config file")
	showVersion := flag.Bool("version", false, "Show version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("vidrelay %s (built %s)\n", Version, BuildTime)
		os.Exit(0)
	}

	// Setup logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	logger.Info("starting vidrelay",
		"version", Version,
		"build_time", BuildTime,
	)

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Initialize dependencies
	hist, err := history.NewStore(cfg.History, logger)
	if err != nil {
		logger.Error("failed to init history store", "error", err)
		os.Exit(1)
	}
	defer hist.Close()

	ext, err := extractor.NewYTDLP(cfg.Extractor, logger)
	if err != nil {
		logger.Error("extractor unavailable", "binary", cfg.Extractor.Binary, "error", err)
		os.Exit(1)
	}

	// Initialize services
	relaySvc := service.NewRelayService(ext, hist, cfg.Extractor, logger)

	// Initialize handlers
	downloadHandler := handler.NewDownloadHandler(relaySvc, logger)
	healthHandler := handler.NewHealthHandler(hist)
	historyHandler := handler.NewHistoryHandler(hist, logger)
	uiHandler := handler.NewUIHandler()

	// Setup router
	router := api.NewRouter(downloadHandler, healthHandler, historyHandler, uiHandler)

	// Setup HTTP server. No write timeout: relay streams run for as long
	// as the extraction tool does.
	srv := &http.Server{
		Addr:        cfg.Server.Address(),
		Handler:     router,
		ReadTimeout: cfg.Server.ReadTimeout,
	}

	// Start server in goroutine
	go func() {
		logger.Info("starting HTTP server", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")

	// Graceful shutdown; in-flight relays get a grace period to finish.
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	logger.Info("shutdown complete")
}
