// cmd/api/main.go
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/your-org/bookstore-backend/internal/config"
	"github.com/your-org/bookstore-backend/internal/infrastructure/database/gormdb"
	"github.com/your-org/bookstore-backend/internal/infrastructure/database/redis"
	"github.com/your-org/bookstore-backend/internal/interfaces/http"
	"github.com/your-org/bookstore-backend/internal/pkg/events"
	"github.com/your-org/bookstore-backend/internal/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	appLog := logger.New(cfg.Logging)
	appLog.WithFields(logrus.Fields{
		"version":     cfg.App.Version,
		"environment": cfg.App.Environment,
	}).Infof("Starting %s", cfg.App.Name)

	ctx := context.Background()

	db, err := gormdb.NewConnection(ctx, cfg, appLog)
	if err != nil {
		appLog.WithError(err).Fatal("Failed to connect to database")
	}
	defer func() {
		if err := gormdb.Close(db); err != nil {
			appLog.WithError(err).Warn("Failed to close database")
		}
	}()

	redisClient, err := redis.NewConnection(ctx, cfg, appLog)
	if err != nil {
		appLog.WithError(err).Fatal("Failed to connect to Redis")
	}
	defer redisClient.Close()

	publisher := events.New(cfg.Events, appLog)
	defer publisher.Close()

	services, err := http.NewServices(cfg, db, redisClient.GetClient(), publisher, appLog)
	if err != nil {
		appLog.WithError(err).Fatal("Failed to create services")
	}

	migration := gormdb.NewMigration(db, appLog)
	if err := migration.RunAutoMigrations(ctx); err != nil {
		appLog.WithError(err).Fatal("Database migration failed")
	}

	if cfg.App.SeedData {
		if err := migration.SeedInitialData(ctx, services.Catalog, services.Users); err != nil {
			appLog.WithError(err).Warn("Data seeding failed")
		}
	}

	server := http.NewServer(cfg, db, redisClient.GetClient(), services, appLog)

	go func() {
		if err := server.Start(); err != nil {
			appLog.WithError(err).Fatal("Failed to start HTTP server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	appLog.Info("Shutting down gracefully")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Stop(shutdownCtx); err != nil {
		appLog.WithError(err).Error("Failed to shutdown HTTP server gracefully")
	}

	appLog.Info("Server shutdown completed")
}
