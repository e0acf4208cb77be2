// Package main provides the batch derivation entry point.
// Executes: load snapshot → {segmentation, liquidity} → publish marts.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"marketplace-analytics/internal/config"
	"marketplace-analytics/internal/domain"
	"marketplace-analytics/internal/observability"
	"marketplace-analytics/internal/orchestrator"
	"marketplace-analytics/internal/storage"
	"marketplace-analytics/internal/storage/clickhouse"
	"marketplace-analytics/internal/storage/memory"
	"marketplace-analytics/internal/storage/migrations"
	"marketplace-analytics/internal/storage/postgres"
)

func main() {
	referenceDate := flag.String("reference-date", "", "Reference date (YYYY-MM-DD), overrides MARKETPLACE_REFERENCE_DATE")
	useMemory := flag.Bool("use-memory", false, "Use in-memory storage with fixture data (dry run)")
	metricsAddr := flag.String("metrics-addr", "", "Prometheus metrics HTTP address (empty to disable)")
	verbose := flag.Bool("verbose", false, "Verbose output")
	flag.Parse()

	logger := log.New(os.Stdout, "[pipeline] ", log.LstdFlags)

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("Load config: %v", err)
	}
	if *referenceDate != "" {
		cfg.ReferenceDate = *referenceDate
	}

	// The reference date anchors every recency and tenure computation; a
	// run without one is rejected rather than defaulted.
	reference, err := cfg.RequireReferenceDate()
	if err != nil {
		logger.Fatalf("Reference date: %v", err)
	}

	if *metricsAddr != "" {
		go serveMetrics(logger, *metricsAddr)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Printf("Received signal %v, cancelling run...", sig)
		cancel()
	}()

	var stores *pipelineStores
	if *useMemory {
		stores = createMemoryStores()
		if err := loadFixtureData(ctx, stores.actionStore); err != nil {
			logger.Fatalf("Load fixtures: %v", err)
		}
	} else {
		var cleanup func()
		stores, cleanup, err = createDatabaseStores(ctx, cfg)
		if err != nil {
			logger.Fatalf("Connect stores: %v", err)
		}
		defer cleanup()
	}

	orch := orchestrator.New(orchestrator.Options{
		ActionStore:         stores.actionStore,
		UserSegmentStore:    stores.userSegmentStore,
		ItemStore:           stores.itemStore,
		CalendarStore:       stores.calendarStore,
		ItemLiquidityStore:  stores.itemLiquidityStore,
		DailyLiquidityStore: stores.dailyLiquidityStore,
		ReferenceDate:       reference,
		Logger:              logger,
		Verbose:             *verbose,
	})

	result, err := orch.Run(ctx)
	if err != nil {
		logger.Fatalf("Run failed: %v", err)
	}

	fmt.Printf("Run %s completed in %s:\n", result.RunID, result.Duration.Round(time.Millisecond))
	fmt.Printf("  Users classified: %d\n", result.UsersClassified)
	for _, segment := range domain.Segments {
		fmt.Printf("    %-8s %d\n", segment, result.SegmentCounts[segment])
	}
	fmt.Printf("  Items derived:    %d\n", result.ItemsDerived)
	fmt.Printf("  Days covered:     %d\n", result.DaysCovered)
	if result.OrphanedReplies > 0 {
		fmt.Printf("  Orphaned replies: %d\n", result.OrphanedReplies)
	}
	if result.NegativeLatencies > 0 {
		fmt.Printf("  Negative latencies: %d\n", result.NegativeLatencies)
	}
}

// pipelineStores holds all stores the orchestrator needs.
type pipelineStores struct {
	actionStore         storage.ActionStore
	userSegmentStore    storage.UserSegmentStore
	itemStore           storage.ItemStore
	calendarStore       storage.CalendarStore
	itemLiquidityStore  storage.ItemLiquidityStore
	dailyLiquidityStore storage.DailyLiquidityStore
}

// createMemoryStores creates all in-memory stores for a dry run.
func createMemoryStores() *pipelineStores {
	return &pipelineStores{
		actionStore:         memory.NewActionStore(),
		userSegmentStore:    memory.NewUserSegmentStore(),
		itemStore:           memory.NewItemStore(),
		calendarStore:       memory.NewCalendarStore(),
		itemLiquidityStore:  memory.NewItemLiquidityStore(),
		dailyLiquidityStore: memory.NewDailyLiquidityStore(),
	}
}

// createDatabaseStores connects ClickHouse and Postgres and applies migrations.
func createDatabaseStores(ctx context.Context, cfg *config.Config) (*pipelineStores, func(), error) {
	conn, err := migrations.RunClickhouseMigrations(ctx, cfg.ClickhouseDSN)
	if err != nil {
		return nil, nil, fmt.Errorf("clickhouse migrations: %w", err)
	}

	pool, err := postgres.NewPool(ctx, cfg.PostgresDSN)
	if err != nil {
		conn.Close()
		return nil, nil, fmt.Errorf("postgres pool: %w", err)
	}
	if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
		conn.Close()
		pool.Close()
		return nil, nil, fmt.Errorf("postgres migrations: %w", err)
	}

	stores := &pipelineStores{
		actionStore:         clickhouse.NewActionStore(conn),
		userSegmentStore:    postgres.NewUserSegmentStore(pool),
		itemStore:           postgres.NewItemStore(pool),
		calendarStore:       postgres.NewCalendarStore(pool),
		itemLiquidityStore:  postgres.NewItemLiquidityStore(pool),
		dailyLiquidityStore: postgres.NewDailyLiquidityStore(pool),
	}
	cleanup := func() {
		conn.Close()
		pool.Close()
	}
	return stores, cleanup, nil
}

// serveMetrics exposes /metrics and /health.
func serveMetrics(logger *log.Logger, addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", observability.Handler())
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	logger.Printf("Starting metrics server on %s", addr)
	if err := http.ListenAndServe(addr, mux); err != nil && err != http.ErrServerClosed {
		logger.Printf("Metrics server error: %v", err)
	}
}
