package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/trade-logger/internal/config"
	"github.com/yourusername/trade-logger/internal/database"
	"github.com/yourusername/trade-logger/internal/health"
	"github.com/yourusername/trade-logger/internal/logger"
	"github.com/yourusername/trade-logger/internal/mailer"
	"github.com/yourusername/trade-logger/internal/metrics"
	"github.com/yourusername/trade-logger/internal/repository"
	"github.com/yourusername/trade-logger/internal/scheduler"
	"github.com/yourusername/trade-logger/internal/server"
	"github.com/yourusername/trade-logger/internal/service"
	"github.com/yourusername/trade-logger/internal/storage"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe()
	},
}

func runServe() error {
	cfg, err := config.Load(configFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if os.Getenv("AWS_SECRETS_ENABLED") == "true" {
		region := os.Getenv("AWS_REGION")
		secretName := os.Getenv("AWS_SECRET_NAME")
		if region == "" || secretName == "" {
			return fmt.Errorf("AWS_REGION and AWS_SECRET_NAME must be set when AWS_SECRETS_ENABLED is true")
		}
		if err := config.LoadSecretsFromAWS(cfg, region, secretName); err != nil {
			return fmt.Errorf("failed to load secrets: %w", err)
		}
	}

	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	appLog := logger.NewLogger(cfg.App.LogLevel)
	appLog.WithFields(logrus.Fields{
		"environment": cfg.App.Environment,
		"version":     Version,
		"commit":      GitCommit,
	}).Info("Trade Logger starting")

	if cfg.Metrics.Enabled {
		metrics.InitRegistry()
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := database.Initialize(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	appLog.Info("Database connection established")

	repos, err := repository.NewRepositories(db)
	if err != nil {
		return fmt.Errorf("failed to create repositories: %w", err)
	}

	audit := logger.NewAuditLogger(appLog)
	images := storage.NewImageStore(cfg.Uploads.Path, cfg.Uploads.MaxSizeBytes, appLog)

	authSvc := service.NewAuthService(repos.User, repos.Session, cfg.Auth, cfg.Limits, appLog, audit)
	tradeSvc := service.NewTradeService(repos.Trade, images, appLog, audit)
	strategySvc := service.NewStrategyService(repos.Strategy, repos.Trade, repos.User, images, appLog, audit)
	adminSvc := service.NewAdminService(repos.User, repos.Session, repos.Email, db, audit)

	mail := mailer.New(repos.Email, cfg.Mailer, appLog)

	sched := scheduler.New(repos.Session, mail, cfg.Auth, appLog)
	if err := sched.ScheduleSessionPurge(cfg.Scheduler.SessionPurgeCron); err != nil {
		return fmt.Errorf("failed to schedule session purge: %w", err)
	}
	if err := sched.ScheduleEmailDispatch(cfg.Scheduler.EmailDispatchCron); err != nil {
		return fmt.Errorf("failed to schedule email dispatch: %w", err)
	}
	if err := sched.Start(); err != nil {
		return fmt.Errorf("failed to start scheduler: %w", err)
	}

	checker := health.NewChecker(cfg.App.Name, Version, db)
	srv := server.New(cfg, authSvc, tradeSvc, strategySvc, adminSvc, images, checker, appLog)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		appLog.WithField("signal", sig).Info("Shutdown signal received")
	case err := <-errCh:
		if err != nil {
			return err
		}
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLog.WithError(err).Error("Error during server shutdown")
	}
	if err := sched.Stop(); err != nil {
		appLog.WithError(err).Error("Error during scheduler shutdown")
	}

	appLog.Info("Trade Logger shut down successfully")
	return nil
}
