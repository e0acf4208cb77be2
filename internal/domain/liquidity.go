package domain

// Item is one posted item, derived from Post actions.
// Corresponds to items table in PostgreSQL.
type Item struct {
	ItemID   string
	PostDate DateKey
}

// JoinedReply is one output row of the item/reply join.
// LatencyDays is nil for an item that received no replies; the item row is
// still emitted so reply-less items survive into the liquidity facts.
type JoinedReply struct {
	ItemID      string
	PostDate    DateKey
	LatencyDays *int // reply date minus post date; may be negative
}

// ItemLiquidity holds per-item reply counts within each latency window.
// Corresponds to fact_item_liquidity table in PostgreSQL.
type ItemLiquidity struct {
	ItemID             string
	PostDate           DateKey
	RepliesWithin1Day  int
	RepliesWithin7Days int
}

// DailyLiquidity holds per-day liquidity counts and rates.
// Corresponds to fact_liquidity table in PostgreSQL.
type DailyLiquidity struct {
	PostDate        DateKey
	ItemsPosted     int
	Liquid1DCount   int     // items with >= 1 reply within 1 day
	Liquid3In7Count int     // items with >= 3 replies within 7 days
	Liquid5In7Count int     // items with >= 5 replies within 7 days
	Rate1D          float64 // Liquid1DCount / ItemsPosted
	Rate3In7        float64 // Liquid3In7Count / ItemsPosted
	Rate5In7        float64 // Liquid5In7Count / ItemsPosted
}

// Liquidity windows (days) and reply-count thresholds.
const (
	LiquidityWindow1Day  = 1
	LiquidityWindow7Days = 7

	LiquidityThreshold1 = 1
	LiquidityThreshold3 = 3
	LiquidityThreshold5 = 5
)
