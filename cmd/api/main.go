package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"go.uber.org/zap"

	"orgapi/infrastructure/config"
	"orgapi/infrastructure/di"
	"orgapi/infrastructure/persistence/postgres"
	"orgapi/interfaces/http/rest"
	"orgapi/pkg/httpcache"

	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	// Load configuration; an invalid environment aborts startup
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	container := di.BuildContainer(cfg)

	logger, err := di.Resolve[*zap.Logger](container)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	pool, err := di.Resolve[*pgxpool.Pool](container)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer pool.Close()

	if err := postgres.Migrate(pool); err != nil {
		logger.Fatal("Failed to run migrations", zap.Error(err))
	}

	router, err := di.Resolve[*rest.Router](container)
	if err != nil {
		logger.Fatal("Failed to build router", zap.Error(err))
	}

	handler, err := router.Setup()
	if err != nil {
		logger.Fatal("Failed to set up routes", zap.Error(err))
	}

	srv := &http.Server{
		Addr:         ":" + strconv.Itoa(cfg.Port),
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("Starting server",
			zap.String("address", srv.Addr),
			zap.String("environment", cfg.Environment),
		)

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown error", zap.Error(err))
	}

	router.Close()
	if store, err := di.Resolve[*httpcache.Store](container); err == nil {
		store.Stop()
	}

	log.Println("Server stopped")
}
