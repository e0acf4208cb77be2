// Package main provides read-only ingestion sanity checks: row counts per
// action type and a top-N recency scan.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"sort"
	"time"

	"marketplace-analytics/internal/config"
	"marketplace-analytics/internal/storage/clickhouse"
	"marketplace-analytics/internal/verification"
)

func main() {
	topN := flag.Int("top", 10, "Number of most recent actions to show")
	flag.Parse()

	logger := log.New(os.Stdout, "[verify] ", log.LstdFlags)

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("Load config: %v", err)
	}

	ctx := context.Background()

	conn, err := clickhouse.NewConn(ctx, cfg.ClickhouseDSN)
	if err != nil {
		logger.Fatalf("ClickHouse: %v", err)
	}
	defer conn.Close()

	verifier := verification.NewVerifier(clickhouse.NewActionStore(conn))
	report, err := verifier.Run(ctx, *topN)
	if err != nil {
		logger.Fatalf("Verification failed: %v", err)
	}

	fmt.Printf("Total actions:      %d\n", report.TotalActions)
	fmt.Printf("Qualifying actions: %d\n", report.QualifyingActions)

	types := make([]string, 0, len(report.CountsByType))
	for t := range report.CountsByType {
		types = append(types, t)
	}
	sort.Strings(types)
	for _, t := range types {
		fmt.Printf("  type %s: %d\n", t, report.CountsByType[t])
	}

	if len(report.MostRecent) > 0 {
		fmt.Printf("Most recent %d actions:\n", len(report.MostRecent))
		for _, a := range report.MostRecent {
			fmt.Printf("  %s  %s  user=%s item=%s\n",
				time.UnixMilli(a.Timestamp).UTC().Format(time.RFC3339), a.Type, a.UserID, a.ItemID)
		}
	}
}
