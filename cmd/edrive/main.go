package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ondrasimku/edrive-go/internal/config"
	httphandler "github.com/ondrasimku/edrive-go/internal/http"
	"github.com/ondrasimku/edrive-go/internal/log"
	"github.com/ondrasimku/edrive-go/internal/registry"
	"github.com/ondrasimku/edrive-go/internal/registry/memreg"
	"github.com/ondrasimku/edrive-go/internal/registry/redisreg"
	"github.com/ondrasimku/edrive-go/internal/service"
	"github.com/ondrasimku/edrive-go/internal/storage/local"
	"github.com/ondrasimku/edrive-go/internal/sweeper"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := log.NewLogger()

	blobs := local.New(cfg.StorageDir, cfg.MaxFileSize)

	var reg registry.Registry
	if cfg.RedisURL != "" {
		redisReg, err := redisreg.New(cfg.RedisURL)
		if err != nil {
			logger.Error("Failed to connect registry", "error", err)
			os.Exit(1)
		}
		defer redisReg.Close()
		reg = redisReg
		logger.Info("Using redis registry", "url", cfg.RedisURL)
	} else {
		reg = memreg.New()
		logger.Info("No redis URL configured, using in-memory registry")
	}

	svc := service.New(reg, blobs, logger)

	sweepCtx, stopSweeper := context.WithCancel(context.Background())
	defer stopSweeper()
	go sweeper.New(reg, blobs, logger, cfg.SweepInterval).Start(sweepCtx)

	router := httphandler.NewRouter(svc, cfg.MaxFileSize, logger)

	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: router,
	}

	go func() {
		logger.Info("Starting edrive service", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server")
	stopSweeper()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("Server exited")
}
