package orchestrator

import (
	"context"
	"reflect"
	"testing"
	"time"

	"marketplace-analytics/internal/domain"
	"marketplace-analytics/internal/storage/memory"
)

type testStores struct {
	actions        *memory.ActionStore
	userSegment    *memory.UserSegmentStore
	items          *memory.ItemStore
	calendarDates  *memory.CalendarStore
	itemLiquidity  *memory.ItemLiquidityStore
	dailyLiquidity *memory.DailyLiquidityStore
}

func newTestStores() *testStores {
	return &testStores{
		actions:        memory.NewActionStore(),
		userSegment:    memory.NewUserSegmentStore(),
		items:          memory.NewItemStore(),
		calendarDates:  memory.NewCalendarStore(),
		itemLiquidity:  memory.NewItemLiquidityStore(),
		dailyLiquidity: memory.NewDailyLiquidityStore(),
	}
}

func newTestOrchestrator(stores *testStores, reference domain.DateKey) *Orchestrator {
	return New(Options{
		ActionStore:         stores.actions,
		UserSegmentStore:    stores.userSegment,
		ItemStore:           stores.items,
		CalendarStore:       stores.calendarDates,
		ItemLiquidityStore:  stores.itemLiquidity,
		DailyLiquidityStore: stores.dailyLiquidity,
		ReferenceDate:       reference,
	})
}

// seedScenario loads a small action log: u1 posts i1 on day 0, u2 replies on
// day 1, u1 replies on day 70, u3 views on day 70. Reference = day 100.
func seedScenario(t *testing.T, stores *testStores) domain.DateKey {
	t.Helper()

	day0 := time.Date(2025, time.January, 1, 9, 0, 0, 0, time.UTC)
	dayMillis := func(d int) int64 { return day0.AddDate(0, 0, d).UnixMilli() }

	err := stores.actions.InsertBulk(context.Background(), []*domain.Action{
		{UserID: "u1", Type: domain.ActionTypePost, Timestamp: dayMillis(0), ItemID: "i1"},
		{UserID: "u2", Type: domain.ActionTypeReply, Timestamp: dayMillis(1), ItemID: "i1"},
		{UserID: "u1", Type: domain.ActionTypeReply, Timestamp: dayMillis(70), ItemID: "i1"},
		{UserID: "u3", Type: "V", Timestamp: dayMillis(70)},
	})
	if err != nil {
		t.Fatalf("seed actions: %v", err)
	}

	return domain.DateKeyFromTime(day0) + 100
}

func TestOrchestrator_Run(t *testing.T) {
	stores := newTestStores()
	reference := seedScenario(t, stores)
	ctx := context.Background()

	result, err := newTestOrchestrator(stores, reference).Run(ctx)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	// u1: recency 30, tenure 100, count 2 → Dormant.
	// u2: recency 99, tenure 99, count 1 → Lost.
	// u3 only viewed and gets no segment.
	if result.UsersClassified != 2 {
		t.Errorf("Expected 2 users classified, got %d", result.UsersClassified)
	}
	segments, _ := stores.userSegment.GetAll(ctx)
	want := map[string]string{"u1": domain.SegmentDormant, "u2": domain.SegmentLost}
	for _, s := range segments {
		if want[s.UserID] != s.Segment {
			t.Errorf("User %s: expected %s, got %s", s.UserID, want[s.UserID], s.Segment)
		}
	}

	// i1 got replies at latencies 1 and 70: one within both windows.
	itemLiq, _ := stores.itemLiquidity.GetAll(ctx)
	if len(itemLiq) != 1 {
		t.Fatalf("Expected 1 item liquidity row, got %d", len(itemLiq))
	}
	if itemLiq[0].RepliesWithin1Day != 1 || itemLiq[0].RepliesWithin7Days != 1 {
		t.Errorf("Expected window counts 1/1, got %d/%d",
			itemLiq[0].RepliesWithin1Day, itemLiq[0].RepliesWithin7Days)
	}

	daily, _ := stores.dailyLiquidity.GetAll(ctx)
	if len(daily) != 1 {
		t.Fatalf("Expected 1 daily liquidity row, got %d", len(daily))
	}
	if daily[0].ItemsPosted != 1 || daily[0].Rate1D != 1.0 {
		t.Errorf("Expected items_posted=1 rate_1d=1.0, got %d/%f",
			daily[0].ItemsPosted, daily[0].Rate1D)
	}

	// Calendar spans from the first action through the reference date.
	dates, _ := stores.calendarDates.GetAll(ctx)
	if len(dates) != 101 {
		t.Errorf("Expected 101 calendar days, got %d", len(dates))
	}
}

func TestOrchestrator_RunIdempotent(t *testing.T) {
	stores := newTestStores()
	reference := seedScenario(t, stores)
	ctx := context.Background()
	orch := newTestOrchestrator(stores, reference)

	if _, err := orch.Run(ctx); err != nil {
		t.Fatalf("First run failed: %v", err)
	}
	segments1, _ := stores.userSegment.GetAll(ctx)
	items1, _ := stores.items.GetAll(ctx)
	itemLiq1, _ := stores.itemLiquidity.GetAll(ctx)
	daily1, _ := stores.dailyLiquidity.GetAll(ctx)

	if _, err := orch.Run(ctx); err != nil {
		t.Fatalf("Second run failed: %v", err)
	}
	segments2, _ := stores.userSegment.GetAll(ctx)
	items2, _ := stores.items.GetAll(ctx)
	itemLiq2, _ := stores.itemLiquidity.GetAll(ctx)
	daily2, _ := stores.dailyLiquidity.GetAll(ctx)

	if !reflect.DeepEqual(segments1, segments2) {
		t.Error("user_segment differs between identical runs")
	}
	if !reflect.DeepEqual(items1, items2) {
		t.Error("items differs between identical runs")
	}
	if !reflect.DeepEqual(itemLiq1, itemLiq2) {
		t.Error("fact_item_liquidity differs between identical runs")
	}
	if !reflect.DeepEqual(daily1, daily2) {
		t.Error("fact_liquidity differs between identical runs")
	}
}

func TestOrchestrator_RunEmptyLog(t *testing.T) {
	stores := newTestStores()
	ctx := context.Background()

	result, err := newTestOrchestrator(stores, 20000).Run(ctx)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if result.UsersClassified != 0 || result.ItemsDerived != 0 || result.DaysCovered != 0 {
		t.Errorf("Expected empty result, got %+v", result)
	}
	segments, _ := stores.userSegment.GetAll(ctx)
	if len(segments) != 0 {
		t.Errorf("Expected no segments, got %d", len(segments))
	}
}

func TestOrchestrator_RunRequiresReferenceDate(t *testing.T) {
	stores := newTestStores()

	if _, err := newTestOrchestrator(stores, 0).Run(context.Background()); err == nil {
		t.Fatal("Expected error without reference date")
	}
}

func TestOrchestrator_RunCountsAnomalies(t *testing.T) {
	stores := newTestStores()
	ctx := context.Background()

	day0 := time.Date(2025, time.January, 1, 9, 0, 0, 0, time.UTC)
	dayMillis := func(d int) int64 { return day0.AddDate(0, 0, d).UnixMilli() }

	err := stores.actions.InsertBulk(ctx, []*domain.Action{
		{UserID: "u1", Type: domain.ActionTypePost, Timestamp: dayMillis(5), ItemID: "i1"},
		// Reply before the post date.
		{UserID: "u2", Type: domain.ActionTypeReply, Timestamp: dayMillis(3), ItemID: "i1"},
		// Reply to an item never posted.
		{UserID: "u3", Type: domain.ActionTypeReply, Timestamp: dayMillis(6), ItemID: "ghost"},
	})
	if err != nil {
		t.Fatalf("seed actions: %v", err)
	}

	reference := domain.DateKeyFromTime(day0) + 10
	result, err := newTestOrchestrator(stores, reference).Run(ctx)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if result.OrphanedReplies != 1 {
		t.Errorf("Expected 1 orphaned reply, got %d", result.OrphanedReplies)
	}
	if result.NegativeLatencies != 1 {
		t.Errorf("Expected 1 negative latency, got %d", result.NegativeLatencies)
	}
}
