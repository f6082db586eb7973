package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/dmorales-dev/tradeflow-backend/api/routes"
	"github.com/dmorales-dev/tradeflow-backend/internal/clients"
	"github.com/dmorales-dev/tradeflow-backend/internal/contractors"
	"github.com/dmorales-dev/tradeflow-backend/internal/invoices"
	"github.com/dmorales-dev/tradeflow-backend/internal/jobs"
	"github.com/dmorales-dev/tradeflow-backend/internal/leads"
	"github.com/dmorales-dev/tradeflow-backend/internal/materials"
	"github.com/dmorales-dev/tradeflow-backend/pkg/config"
	"github.com/dmorales-dev/tradeflow-backend/pkg/db"
	"github.com/dmorales-dev/tradeflow-backend/pkg/env"
	"github.com/dmorales-dev/tradeflow-backend/pkg/logger"
	"github.com/dmorales-dev/tradeflow-backend/pkg/metrics"
	"github.com/dmorales-dev/tradeflow-backend/pkg/migrate"
	pkgredis "github.com/dmorales-dev/tradeflow-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
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

	contractorRepo := contractors.NewRepository(dbClient.DB())
	clientRepo := clients.NewRepository(dbClient.DB())
	leadRepo := leads.NewRepository(dbClient.DB())
	jobRepo := jobs.NewRepository(dbClient.DB())
	invoiceRepo := invoices.NewRepository(dbClient.DB())

	contractorSvc, err := contractors.NewService(contractors.ServiceParams{
		Repo: contractorRepo,
		Tax:  cfg.Tax,
	})
	requireService(logg, "contractor", err)

	clientSvc, err := clients.NewService(clientRepo)
	requireService(logg, "client", err)

	leadSvc, err := leads.NewService(leads.ServiceParams{
		Repo:       leadRepo,
		ClientRepo: clientRepo,
		Tx:         dbClient,
	})
	requireService(logg, "lead", err)

	jobSvc, err := jobs.NewService(jobs.ServiceParams{
		Repo:           jobRepo,
		ContractorRepo: contractorRepo,
		Tx:             dbClient,
	})
	requireService(logg, "job", err)

	invoiceSvc, err := invoices.NewService(invoices.ServiceParams{
		Repo:      invoiceRepo,
		JobRepo:   jobRepo,
		Tx:        dbClient,
		Invoicing: cfg.Invoicing,
	})
	requireService(logg, "invoice", err)

	var materialSvc materials.Service
	if cfg.AI.BaseURL != "" {
		aiClient, err := materials.NewClient(cfg.AI)
		requireService(logg, "materials client", err)
		materialSvc, err = materials.NewService(materials.ServiceParams{Client: aiClient})
		requireService(logg, "materials", err)
	} else {
		logg.Warn(context.Background(), "materials service disabled: no AI base URL configured")
	}

	requestMetrics := metrics.NewRequestMetrics(prometheus.DefaultRegisterer)

	addr := ":" + env.Get("PORT", cfg.App.Port)
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.RouterParams{
			Config:         cfg,
			Logger:         logg,
			DBPinger:       dbClient,
			Redis:          redisClient,
			RequestMetrics: requestMetrics,
			Contractors:    contractorSvc,
			Clients:        clientSvc,
			Leads:          leadSvc,
			Jobs:           jobSvc,
			Invoices:       invoiceSvc,
			Materials:      materialSvc,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}

func requireService(logg *logger.Logger, name string, err error) {
	if err == nil {
		return
	}
	logg.Error(context.Background(), "failed to create "+name+" service", err)
	os.Exit(1)
}
