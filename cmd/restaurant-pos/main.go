package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	brokermessage "github.com/TechWithMary/restaurant-pos/internal/pos/adapter/broker_message"
	"github.com/TechWithMary/restaurant-pos/internal/pos/adapter/cache"
	posdb "github.com/TechWithMary/restaurant-pos/internal/pos/adapter/db"
	"github.com/TechWithMary/restaurant-pos/internal/pos/adapter/workflow"
	poshttp "github.com/TechWithMary/restaurant-pos/internal/pos/api/http"
	"github.com/TechWithMary/restaurant-pos/internal/pos/api/http/handle"
	"github.com/TechWithMary/restaurant-pos/internal/pos/app/core"
	"github.com/TechWithMary/restaurant-pos/internal/pos/app/services"
	"github.com/TechWithMary/restaurant-pos/internal/xpkg/config"
	"github.com/TechWithMary/restaurant-pos/internal/xpkg/db"
	"github.com/TechWithMary/restaurant-pos/internal/xpkg/logger"
)

func main() {
	cfg := config.Load()
	log := logger.New("restaurant-pos")

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	pool, err := db.Connect(ctx, cfg.DB)
	if err != nil {
		log.Error("db_connection_failed", "error", err)
		os.Exit(1)
	}
	defer pool.Close()
	log.Info("db_connected")

	store := posdb.NewStore(pool)
	if err := store.EnsureSchema(ctx); err != nil {
		log.Error("schema_migration_failed", "error", err)
		os.Exit(1)
	}

	publisher, err := brokermessage.New(ctx, cfg.RMQ, log)
	if err != nil {
		log.Error("mb_connection_failed", "error", err)
		os.Exit(1)
	}
	defer publisher.Close()
	log.Info("mb_connected")

	var resultCache core.IResultCache
	if cfg.RedisAddr != "" {
		resultCache = cache.NewRedis(cfg.RedisAddr)
		log.Info("idempotency_cache_backed_by_redis", "addr", cfg.RedisAddr)
	} else {
		resultCache = cache.NewMemory()
		log.Info("idempotency_cache_in_memory")
	}

	workflowClient := workflow.NewClient(cfg.WorkflowBaseURL)
	catalog := services.NewCatalogService(workflowClient, nil, log)

	var notifier core.ISettlementNotifier
	if cfg.WorkflowBaseURL != "" {
		notifier = workflowClient
	} else {
		log.Warn("workflow_externalization_disabled")
	}

	var gateway core.ICardGateway
	if cfg.GatewayBaseURL != "" {
		gateway = workflow.NewGateway(cfg.GatewayBaseURL)
	} else {
		log.Warn("card_gateway_verification_disabled")
	}

	locks := services.NewTableLocks()
	ledger := services.NewLedgerService(store, store, locks, log)
	tables := services.NewTableService(store, log)
	dispatch := services.NewDispatchService(store, store, publisher, locks, log)
	coordinator := services.NewSettlementCoordinator(
		store, store, store, resultCache, catalog, notifier, gateway, locks,
		services.SettlementConfig{
			TaxRate:        cfg.TaxRate,
			TaxID:          cfg.TaxID,
			Currency:       cfg.Currency,
			IdempotencyTTL: cfg.IdempotencyTTL,
		},
		log,
	)

	router := poshttp.NewRouter(poshttp.Handlers{
		Ledger:     handle.NewLedgerHandler(ledger, log),
		Tables:     handle.NewTableHandler(tables, log),
		Settlement: handle.NewSettlementHandler(coordinator, store, log),
		Dispatch:   handle.NewDispatchHandler(dispatch, log),
		Catalog:    handle.NewCatalogHandler(catalog, log),
		Health: handle.NewHealthHandler(map[string]func(ctx context.Context) error{
			"database": store.IsAlive,
			"broker":   func(context.Context) error { return publisher.IsAlive() },
		}),
	})

	server := poshttp.NewServer(cfg.HTTPPort, router, log)
	if err := server.Run(ctx); err != nil {
		log.Error("server_failed", "error", err)
		os.Exit(1)
	}
	log.Info("server_stopped")
}
