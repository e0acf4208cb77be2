package liquidity

import (
	"fmt"
	"sort"

	"marketplace-analytics/internal/domain"
)

// AggregateItems reduces joined rows into one ItemLiquidity record per
// (item_id, post_date) group: counts of replies with latency within the
// 1-day and 7-day windows. Rows with nil latency contribute zero to both
// counts but still force the group to be emitted, so reply-less items
// appear with zero counts rather than being absent.
func AggregateItems(rows []*domain.JoinedReply) []*domain.ItemLiquidity {
	type itemKey struct {
		itemID   string
		postDate domain.DateKey
	}
	groups := make(map[itemKey]*domain.ItemLiquidity)

	for _, r := range rows {
		k := itemKey{r.ItemID, r.PostDate}
		g, ok := groups[k]
		if !ok {
			g = &domain.ItemLiquidity{ItemID: r.ItemID, PostDate: r.PostDate}
			groups[k] = g
		}
		if r.LatencyDays == nil {
			continue
		}
		if *r.LatencyDays <= domain.LiquidityWindow1Day {
			g.RepliesWithin1Day++
		}
		if *r.LatencyDays <= domain.LiquidityWindow7Days {
			g.RepliesWithin7Days++
		}
	}

	result := make([]*domain.ItemLiquidity, 0, len(groups))
	for _, g := range groups {
		result = append(result, g)
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].ItemID != result[j].ItemID {
			return result[i].ItemID < result[j].ItemID
		}
		return result[i].PostDate < result[j].PostDate
	})

	return result
}

// AggregateDaily reduces per-item liquidity into one DailyLiquidity record
// per post date:
//   - items_posted = number of items posted that day
//   - liquid_1d    = items with >= 1 reply within 1 day
//   - liquid_3in7d = items with >= 3 replies within 7 days
//   - liquid_5in7d = items with >= 5 replies within 7 days
//   - rates        = each count / items_posted
//
// items_posted cannot be zero for any emitted date since groups derive from
// at least one item; the guard below is an invariant check, not a reachable
// data path.
func AggregateDaily(items []*domain.ItemLiquidity) ([]*domain.DailyLiquidity, error) {
	byDate := make(map[domain.DateKey]*domain.DailyLiquidity)

	for _, it := range items {
		d, ok := byDate[it.PostDate]
		if !ok {
			d = &domain.DailyLiquidity{PostDate: it.PostDate}
			byDate[it.PostDate] = d
		}
		d.ItemsPosted++
		if it.RepliesWithin1Day >= domain.LiquidityThreshold1 {
			d.Liquid1DCount++
		}
		if it.RepliesWithin7Days >= domain.LiquidityThreshold3 {
			d.Liquid3In7Count++
		}
		if it.RepliesWithin7Days >= domain.LiquidityThreshold5 {
			d.Liquid5In7Count++
		}
	}

	result := make([]*domain.DailyLiquidity, 0, len(byDate))
	for _, d := range byDate {
		if d.ItemsPosted == 0 {
			return nil, fmt.Errorf("daily liquidity for %s: zero items posted", d.PostDate)
		}
		n := float64(d.ItemsPosted)
		d.Rate1D = float64(d.Liquid1DCount) / n
		d.Rate3In7 = float64(d.Liquid3In7Count) / n
		d.Rate5In7 = float64(d.Liquid5In7Count) / n
		result = append(result, d)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].PostDate < result[j].PostDate
	})

	return result, nil
}

// Result bundles all outputs of the liquidity pipeline for one run.
type Result struct {
	Items             []*domain.Item
	ItemLiquidity     []*domain.ItemLiquidity
	DailyLiquidity    []*domain.DailyLiquidity
	OrphanedReplies   int
	NegativeLatencies int
}

// Derive runs the full liquidity pipeline over one action snapshot:
// item derivation, item/reply join, then both aggregation stages.
func Derive(actions []*domain.Action) (*Result, error) {
	items := DeriveItems(actions)
	joined := JoinItemsReplies(items, actions)

	itemLiquidity := AggregateItems(joined.Rows)
	daily, err := AggregateDaily(itemLiquidity)
	if err != nil {
		return nil, err
	}

	return &Result{
		Items:             items,
		ItemLiquidity:     itemLiquidity,
		DailyLiquidity:    daily,
		OrphanedReplies:   joined.OrphanedReplies,
		NegativeLatencies: joined.NegativeLatencies,
	}, nil
}
