package ingestion

import (
	"bufio"
	"compress/gzip"
	"context"
	"fmt"
	"log"
	"time"

	"marketplace-analytics/internal/domain"
	"marketplace-analytics/internal/observability"
	"marketplace-analytics/internal/storage"
)

// Loader streams action files from an object source into the event store.
type Loader struct {
	source    ObjectSource
	store     storage.ActionStore
	batchSize int
	metrics   *observability.Metrics
	logger    *log.Logger
}

// LoaderOptions contains configuration for creating a Loader.
type LoaderOptions struct {
	Source    ObjectSource
	Store     storage.ActionStore
	BatchSize int // Default: 10000 rows per insert batch
	Metrics   *observability.Metrics
	Logger    *log.Logger
}

// NewLoader creates a new bulk loader.
func NewLoader(opts LoaderOptions) *Loader {
	batchSize := opts.BatchSize
	if batchSize <= 0 {
		batchSize = 10000
	}

	metrics := opts.Metrics
	if metrics == nil {
		metrics = observability.DefaultMetrics
	}

	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}

	return &Loader{
		source:    opts.Source,
		store:     opts.Store,
		batchSize: batchSize,
		metrics:   metrics,
		logger:    logger,
	}
}

// LoadResult contains counts from a completed load run.
type LoadResult struct {
	ObjectsLoaded int
	ActionsLoaded int
}

// Run lists all action files, streams each through gzip decompression and
// NDJSON parsing, and appends rows to the event store in batches. A
// malformed record fails the whole run. After the last object it refreshes
// the store's statistics so the freshly loaded parts are accounted for.
func (l *Loader) Run(ctx context.Context) (*LoadResult, error) {
	keys, err := l.source.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list action files: %w", err)
	}

	result := &LoadResult{}
	for _, key := range keys {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		n, err := l.loadObject(ctx, key)
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", key, err)
		}

		result.ObjectsLoaded++
		result.ActionsLoaded += n
		l.logger.Printf("Loaded %s: %d actions", key, n)
	}

	if result.ActionsLoaded > 0 {
		if err := l.store.RefreshStatistics(ctx); err != nil {
			return nil, fmt.Errorf("refresh statistics: %w", err)
		}
	}

	return result, nil
}

// loadObject streams one gzip-compressed NDJSON object into the store.
func (l *Loader) loadObject(ctx context.Context, key string) (int, error) {
	obj, err := l.source.Open(ctx, key)
	if err != nil {
		return 0, err
	}
	defer obj.Close()

	gz, err := gzip.NewReader(obj)
	if err != nil {
		return 0, fmt.Errorf("open gzip reader: %w", err)
	}
	defer gz.Close()

	var (
		batch   []*domain.Action
		total   int
		lineNum int
	)

	scanner := bufio.NewScanner(gz)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	for scanner.Scan() {
		lineNum++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		action, err := ParseAction(line)
		if err != nil {
			l.metrics.MalformedRecords.Inc()
			return 0, fmt.Errorf("line %d: %w", lineNum, err)
		}

		batch = append(batch, action)
		if len(batch) >= l.batchSize {
			if err := l.insertBatch(ctx, batch); err != nil {
				return 0, fmt.Errorf("insert batch: %w", err)
			}
			total += len(batch)
			batch = batch[:0]
		}
	}

	if err := scanner.Err(); err != nil {
		return 0, fmt.Errorf("read lines: %w", err)
	}

	if len(batch) > 0 {
		if err := l.insertBatch(ctx, batch); err != nil {
			return 0, fmt.Errorf("insert final batch: %w", err)
		}
		total += len(batch)
	}

	return total, nil
}

// insertBatch appends one batch to the event store, timing the insert.
func (l *Loader) insertBatch(ctx context.Context, batch []*domain.Action) error {
	start := time.Now()
	if err := l.store.InsertBulk(ctx, batch); err != nil {
		return err
	}
	l.metrics.IngestBatchDuration.Observe(time.Since(start).Seconds())
	return nil
}
