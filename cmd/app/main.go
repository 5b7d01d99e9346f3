package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gymflow/internal/config"
	"gymflow/internal/db"
	"gymflow/internal/email"
	"gymflow/internal/logger"
	"gymflow/internal/scheduler"
	"gymflow/internal/server"

	"github.com/redis/go-redis/v9"
)

// @title Gymflow API
// @version 1.0
// @description Gym membership, payment approval and class scheduling API.
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Init(os.Getenv("APP_ENV"), "info")
		logger.Fatalf("Failed to load config: %v", err)
	}

	logger.Init(cfg.AppEnv, cfg.LogLevel)
	defer logger.Sync()
	logger.Info("Starting Gymflow application", "env", cfg.AppEnv)

	logger.Info("Connecting to database...")
	database, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()
	logger.Info("Database connected")

	if err := db.RunMigrations(database, cfg.MigrationsPath); err != nil {
		logger.Fatalf("Failed to run migrations: %v", err)
	}
	logger.Info("Migrations completed")

	redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	emailService := email.New(email.Config{
		From:     cfg.EmailFrom,
		FromName: cfg.EmailFromName,
		SMTPHost: cfg.SMTPHost,
		SMTPPort: cfg.SMTPPort,
		SMTPUser: cfg.SMTPUser,
		SMTPPass: cfg.SMTPPass,
	}, redisClient)
	defer emailService.Close()
	logger.Info("Email service initialized", "redis", cfg.RedisAddr)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go emailService.Start(ctx)

	srv := server.New(database, cfg, emailService)

	jobs := scheduler.New(time.Minute)
	if err := srv.RegisterJobs(jobs); err != nil {
		logger.Fatalf("Failed to register background jobs: %v", err)
	}
	jobs.Start()
	logger.Info("Background jobs scheduled",
		"expiry_sweep", cfg.ExpirySweepSchedule,
		"outbox_dispatch", cfg.OutboxDispatchSchedule)

	serverErrChan := make(chan error, 1)
	go func() {
		logger.Infof("Server starting on port %s", cfg.Port)
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			serverErrChan <- err
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		logger.Infof("Received signal: %v", sig)
	case err := <-serverErrChan:
		logger.Errorf("Server error: %v", err)
	}

	logger.Info("Shutting down gracefully...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("Error during server shutdown: %v", err)
	}
	jobs.Stop(shutdownCtx)
	cancel()

	logger.Info("Server stopped")
}
