// Package orchestrator coordinates one full derivation run: it loads a
// snapshot of qualifying actions, computes user segments and liquidity
// metrics concurrently, and publishes all derived relations.
package orchestrator

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"marketplace-analytics/internal/calendar"
	"marketplace-analytics/internal/domain"
	"marketplace-analytics/internal/liquidity"
	"marketplace-analytics/internal/observability"
	"marketplace-analytics/internal/segmentation"
	"marketplace-analytics/internal/storage"
)

// Orchestrator executes the batch derivation pipeline.
// The two derivations are independent pure functions of the same immutable
// snapshot; publication happens only after both succeed, so a run either
// produces a complete consistent set of relations or none.
type Orchestrator struct {
	actionStore         storage.ActionStore
	userSegmentStore    storage.UserSegmentStore
	itemStore           storage.ItemStore
	calendarStore       storage.CalendarStore
	itemLiquidityStore  storage.ItemLiquidityStore
	dailyLiquidityStore storage.DailyLiquidityStore

	referenceDate domain.DateKey
	metrics       *observability.Metrics
	logger        *log.Logger
	verbose       bool
}

// Options for creating an Orchestrator.
type Options struct {
	ActionStore         storage.ActionStore
	UserSegmentStore    storage.UserSegmentStore
	ItemStore           storage.ItemStore
	CalendarStore       storage.CalendarStore
	ItemLiquidityStore  storage.ItemLiquidityStore
	DailyLiquidityStore storage.DailyLiquidityStore

	// ReferenceDate anchors all recency/tenure computation. Required.
	ReferenceDate domain.DateKey

	Metrics *observability.Metrics
	Logger  *log.Logger
	Verbose bool
}

// New creates a new Orchestrator.
func New(opts Options) *Orchestrator {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}

	metrics := opts.Metrics
	if metrics == nil {
		metrics = observability.DefaultMetrics
	}

	return &Orchestrator{
		actionStore:         opts.ActionStore,
		userSegmentStore:    opts.UserSegmentStore,
		itemStore:           opts.ItemStore,
		calendarStore:       opts.CalendarStore,
		itemLiquidityStore:  opts.ItemLiquidityStore,
		dailyLiquidityStore: opts.DailyLiquidityStore,
		referenceDate:       opts.ReferenceDate,
		metrics:             metrics,
		logger:              logger,
		verbose:             opts.Verbose,
	}
}

// RunResult contains results from one derivation run.
type RunResult struct {
	RunID             string
	UsersClassified   int
	SegmentCounts     map[string]int
	ItemsDerived      int
	DaysCovered       int
	OrphanedReplies   int
	NegativeLatencies int
	Duration          time.Duration
}

// Run executes the full derivation.
// Phases:
//  1. Load the qualifying-action snapshot
//  2. Derive user segments and liquidity metrics concurrently
//  3. Build the calendar dimension over the snapshot span
//  4. Publish all derived relations (each replaced atomically)
func (o *Orchestrator) Run(ctx context.Context) (*RunResult, error) {
	if o.referenceDate == 0 {
		return nil, fmt.Errorf("reference date is required")
	}

	start := time.Now()
	result := &RunResult{RunID: uuid.NewString()}
	o.log("Run %s: loading action snapshot...", result.RunID)

	actions, err := o.actionStore.GetQualifying(ctx)
	if err != nil {
		o.metrics.PipelineRunsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("load qualifying actions: %w", err)
	}
	o.log("  %d qualifying actions", len(actions))

	var (
		segments  []*domain.UserSegment
		liqResult *liquidity.Result
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := gctx.Err(); err != nil {
			return err
		}
		segments = segmentation.Derive(actions, o.referenceDate)
		return nil
	})
	g.Go(func() error {
		if err := gctx.Err(); err != nil {
			return err
		}
		var err error
		liqResult, err = liquidity.Derive(actions)
		return err
	})
	if err := g.Wait(); err != nil {
		o.metrics.PipelineRunsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("derive: %w", err)
	}

	var dates []*domain.CalendarDate
	if first, last, ok := calendar.Span(actions); ok {
		if o.referenceDate > last {
			last = o.referenceDate
		}
		dates = calendar.BuildDimension(first, last)
	}

	if liqResult.OrphanedReplies > 0 {
		o.logger.Printf("Run %s: %d orphaned replies dropped", result.RunID, liqResult.OrphanedReplies)
	}
	if liqResult.NegativeLatencies > 0 {
		o.logger.Printf("Run %s: %d replies dated before their item's post date", result.RunID, liqResult.NegativeLatencies)
	}

	if err := o.publish(ctx, segments, liqResult, dates); err != nil {
		o.metrics.PipelineRunsTotal.WithLabelValues("error").Inc()
		return nil, err
	}

	result.UsersClassified = len(segments)
	result.SegmentCounts = countSegments(segments)
	result.ItemsDerived = len(liqResult.Items)
	result.DaysCovered = len(liqResult.DailyLiquidity)
	result.OrphanedReplies = liqResult.OrphanedReplies
	result.NegativeLatencies = liqResult.NegativeLatencies
	result.Duration = time.Since(start)

	o.record(result, liqResult, dates)
	o.log("Run %s: complete in %s", result.RunID, result.Duration)
	return result, nil
}

// publish replaces every derived relation with the freshly computed rows.
func (o *Orchestrator) publish(ctx context.Context, segments []*domain.UserSegment, liq *liquidity.Result, dates []*domain.CalendarDate) error {
	if err := o.userSegmentStore.ReplaceAll(ctx, segments); err != nil {
		return fmt.Errorf("publish user_segment: %w", err)
	}
	if err := o.itemStore.ReplaceAll(ctx, liq.Items); err != nil {
		return fmt.Errorf("publish items: %w", err)
	}
	if err := o.calendarStore.ReplaceAll(ctx, dates); err != nil {
		return fmt.Errorf("publish dates: %w", err)
	}
	if err := o.itemLiquidityStore.ReplaceAll(ctx, liq.ItemLiquidity); err != nil {
		return fmt.Errorf("publish fact_item_liquidity: %w", err)
	}
	if err := o.dailyLiquidityStore.ReplaceAll(ctx, liq.DailyLiquidity); err != nil {
		return fmt.Errorf("publish fact_liquidity: %w", err)
	}
	return nil
}

// record updates run metrics after successful publication.
func (o *Orchestrator) record(result *RunResult, liq *liquidity.Result, dates []*domain.CalendarDate) {
	m := o.metrics
	m.PipelineRunsTotal.WithLabelValues("success").Inc()
	m.PipelineDuration.WithLabelValues("full").Observe(result.Duration.Seconds())
	m.UsersClassified.Set(float64(result.UsersClassified))
	for _, segment := range domain.Segments {
		m.SegmentUsers.WithLabelValues(segment).Set(float64(result.SegmentCounts[segment]))
	}
	m.ItemsDerived.Set(float64(result.ItemsDerived))
	m.DaysCovered.Set(float64(result.DaysCovered))
	m.OrphanedReplies.Add(float64(result.OrphanedReplies))
	m.NegativeLatencies.Add(float64(result.NegativeLatencies))
	m.MartRows.WithLabelValues("user_segment").Set(float64(result.UsersClassified))
	m.MartRows.WithLabelValues("items").Set(float64(len(liq.Items)))
	m.MartRows.WithLabelValues("dates").Set(float64(len(dates)))
	m.MartRows.WithLabelValues("fact_item_liquidity").Set(float64(len(liq.ItemLiquidity)))
	m.MartRows.WithLabelValues("fact_liquidity").Set(float64(len(liq.DailyLiquidity)))
	m.LastSuccessfulPipeline.Set(float64(time.Now().Unix()))
}

func countSegments(segments []*domain.UserSegment) map[string]int {
	counts := make(map[string]int)
	for _, s := range segments {
		counts[s.Segment]++
	}
	return counts
}

// log prints when verbose mode is enabled.
func (o *Orchestrator) log(format string, args ...interface{}) {
	if o.verbose {
		o.logger.Printf(format, args...)
	}
}
