package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/dmorales-dev/tradeflow-backend/internal/cron"
	"github.com/dmorales-dev/tradeflow-backend/internal/invoices"
	"github.com/dmorales-dev/tradeflow-backend/internal/jobs"
	"github.com/dmorales-dev/tradeflow-backend/pkg/config"
	"github.com/dmorales-dev/tradeflow-backend/pkg/db"
	"github.com/dmorales-dev/tradeflow-backend/pkg/logger"
	"github.com/dmorales-dev/tradeflow-backend/pkg/metrics"
	"github.com/dmorales-dev/tradeflow-backend/pkg/migrate"
	pkgredis "github.com/dmorales-dev/tradeflow-backend/pkg/redis"
)

func lockKey(env string) string {
	if env == "" {
		env = "local"
	}
	return fmt.Sprintf("tf:cron-worker:lock:%s", env)
}

func main() {
	logg := logger.New(logger.Options{ServiceName: "cron-worker"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "cron-worker",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := pkgredis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	jobRepo := jobs.NewRepository(dbClient.DB())
	invoiceRepo := invoices.NewRepository(dbClient.DB())

	invoiceSvc, err := invoices.NewService(invoices.ServiceParams{
		Repo:      invoiceRepo,
		JobRepo:   jobRepo,
		Tx:        dbClient,
		Invoicing: cfg.Invoicing,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create invoice service", err)
		os.Exit(1)
	}

	sweepMetrics := metrics.NewSweepJobMetrics(prometheus.DefaultRegisterer)

	lock, err := cron.NewRedisLock(redisClient, lockKey(cfg.App.Env), 0)
	if err != nil {
		logg.Error(context.Background(), "failed to create worker lock", err)
		os.Exit(1)
	}

	registry := cron.NewRegistry(
		cron.NewOverdueInvoicesJob(invoiceSvc, logg, sweepMetrics),
	)

	worker, err := cron.NewService(cron.ServiceParams{
		Logger:   logg,
		Registry: registry,
		Lock:     lock,
		Metrics:  sweepMetrics,
		Interval: cfg.Invoicing.OverdueSweepPeriod,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create cron service", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ctx = logg.WithField(ctx, "env", cfg.App.Env)
	logg.Info(ctx, "starting cron worker")

	if err := worker.Run(ctx); err != nil && ctx.Err() == nil {
		logg.Error(ctx, "cron worker stopped unexpectedly", err)
		os.Exit(1)
	}
	logg.Info(ctx, "cron worker stopped")
}
