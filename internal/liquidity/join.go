// Package liquidity derives item/daily reply-liquidity metrics from the
// action log: a left-preserving join of posted items against their replies,
// then per-item and per-day aggregation of reply latency.
package liquidity

import (
	"sort"

	"marketplace-analytics/internal/domain"
)

// DeriveItems extracts the distinct (item_id, post_date) set from Post
// actions. An item re-posted on a later date yields one row per post date.
// Output is sorted by (item_id, post_date).
func DeriveItems(actions []*domain.Action) []*domain.Item {
	type itemKey struct {
		itemID   string
		postDate domain.DateKey
	}
	seen := make(map[itemKey]struct{})

	var items []*domain.Item
	for _, a := range actions {
		if a.Type != domain.ActionTypePost || a.ItemID == "" {
			continue
		}
		k := itemKey{a.ItemID, domain.DateKeyFromMillis(a.Timestamp)}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		items = append(items, &domain.Item{ItemID: k.itemID, PostDate: k.postDate})
	}

	sortItems(items)
	return items
}

// JoinResult carries the joined rows plus data-quality counters surfaced
// for observability.
type JoinResult struct {
	Rows              []*domain.JoinedReply
	OrphanedReplies   int // replies whose item_id matches no posted item
	NegativeLatencies int // replies dated before their item's post date
}

// JoinItemsReplies joins items against Reply actions on item_id with
// left-preserving outer semantics: every item appears at least once even
// with zero replies (nil latency), every matching reply contributes one row
// per item row it matches, and orphaned replies are dropped but counted.
//
// Latency is date(reply_ts) minus post_date in days; negative values are
// passed through numerically and counted as anomalies.
func JoinItemsReplies(items []*domain.Item, actions []*domain.Action) *JoinResult {
	byItemID := make(map[string][]*domain.Item)
	for _, it := range items {
		byItemID[it.ItemID] = append(byItemID[it.ItemID], it)
	}

	result := &JoinResult{}
	matched := make(map[*domain.Item]bool, len(items))

	for _, a := range actions {
		if a.Type != domain.ActionTypeReply || a.ItemID == "" {
			continue
		}

		itemRows, ok := byItemID[a.ItemID]
		if !ok {
			result.OrphanedReplies++
			continue
		}

		replyDate := domain.DateKeyFromMillis(a.Timestamp)
		for _, it := range itemRows {
			latency := int(replyDate - it.PostDate)
			if latency < 0 {
				result.NegativeLatencies++
			}
			l := latency
			result.Rows = append(result.Rows, &domain.JoinedReply{
				ItemID:      it.ItemID,
				PostDate:    it.PostDate,
				LatencyDays: &l,
			})
			matched[it] = true
		}
	}

	// Reply-less items still produce one row each.
	for _, it := range items {
		if !matched[it] {
			result.Rows = append(result.Rows, &domain.JoinedReply{
				ItemID:   it.ItemID,
				PostDate: it.PostDate,
			})
		}
	}

	sort.Slice(result.Rows, func(i, j int) bool {
		a, b := result.Rows[i], result.Rows[j]
		if a.ItemID != b.ItemID {
			return a.ItemID < b.ItemID
		}
		if a.PostDate != b.PostDate {
			return a.PostDate < b.PostDate
		}
		return lessLatency(a.LatencyDays, b.LatencyDays)
	})

	return result
}

// lessLatency orders nil latency first, then ascending.
func lessLatency(a, b *int) bool {
	switch {
	case a == nil:
		return b != nil
	case b == nil:
		return false
	default:
		return *a < *b
	}
}

func sortItems(items []*domain.Item) {
	sort.Slice(items, func(i, j int) bool {
		if items[i].ItemID != items[j].ItemID {
			return items[i].ItemID < items[j].ItemID
		}
		return items[i].PostDate < items[j].PostDate
	})
}
