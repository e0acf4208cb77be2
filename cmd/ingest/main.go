// Package main provides the bulk ingestion entry point: it loads
// gzip-compressed NDJSON action files from an object store into the
// ClickHouse event store.
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
	"marketplace-analytics/internal/ingestion"
	"marketplace-analytics/internal/observability"
	"marketplace-analytics/internal/storage/clickhouse"
	"marketplace-analytics/internal/storage/migrations"
)

func main() {
	bucket := flag.String("bucket", "", "Object store bucket, overrides MARKETPLACE_S3_BUCKET")
	prefix := flag.String("prefix", "", "Object key prefix, overrides MARKETPLACE_S3_PREFIX")
	batchSize := flag.Int("batch-size", 10000, "Rows per event store insert batch")
	metricsAddr := flag.String("metrics-addr", "", "Prometheus metrics HTTP address (empty to disable)")
	flag.Parse()

	logger := log.New(os.Stdout, "[ingest] ", log.LstdFlags)

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("Load config: %v", err)
	}
	if *bucket != "" {
		cfg.S3Bucket = *bucket
	}
	if *prefix != "" {
		cfg.S3Prefix = *prefix
	}

	if *metricsAddr != "" {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", observability.Handler())
			logger.Printf("Starting metrics server on %s", *metricsAddr)
			if err := http.ListenAndServe(*metricsAddr, mux); err != nil && err != http.ErrServerClosed {
				logger.Printf("Metrics server error: %v", err)
			}
		}()
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Printf("Received signal %v, cancelling load...", sig)
		cancel()
	}()

	source, err := ingestion.NewMinioSource(ingestion.MinioSourceOptions{
		Endpoint:  cfg.S3Endpoint,
		AccessKey: cfg.S3AccessKey,
		SecretKey: cfg.S3SecretKey,
		UseSSL:    cfg.S3UseSSL,
		Bucket:    cfg.S3Bucket,
		Prefix:    cfg.S3Prefix,
	})
	if err != nil {
		logger.Fatalf("Object store: %v", err)
	}

	conn, err := migrations.RunClickhouseMigrations(ctx, cfg.ClickhouseDSN)
	if err != nil {
		logger.Fatalf("ClickHouse migrations: %v", err)
	}
	defer conn.Close()

	loader := ingestion.NewLoader(ingestion.LoaderOptions{
		Source:    source,
		Store:     clickhouse.NewActionStore(conn),
		BatchSize: *batchSize,
		Logger:    logger,
	})

	start := time.Now()
	result, err := loader.Run(ctx)
	if err != nil {
		logger.Fatalf("Load failed: %v", err)
	}

	observability.DefaultMetrics.ObjectsLoaded.Add(float64(result.ObjectsLoaded))
	observability.DefaultMetrics.ActionsLoaded.Add(float64(result.ActionsLoaded))
	observability.DefaultMetrics.LastSuccessfulIngestion.Set(float64(time.Now().Unix()))

	fmt.Printf("Loaded %d actions from %d objects in %s\n",
		result.ActionsLoaded, result.ObjectsLoaded, time.Since(start).Round(time.Millisecond))
}
