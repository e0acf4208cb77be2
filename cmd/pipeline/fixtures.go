package main

import (
	"context"
	"fmt"
	"time"

	"marketplace-analytics/internal/domain"
	"marketplace-analytics/internal/storage"
)

// loadFixtureData seeds a small deterministic event log for dry runs.
// The set covers every segment label and both liquidity windows.
func loadFixtureData(ctx context.Context, store storage.ActionStore) error {
	base := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	at := func(day int, hour int) int64 {
		return base.AddDate(0, 0, day).Add(time.Duration(hour) * time.Hour).UnixMilli()
	}

	actions := []*domain.Action{
		// Long-gone poster: last seen far before the reference date.
		{UserID: "user-lost", Type: domain.ActionTypePost, Timestamp: at(0, 0), ItemID: "item-001", Device: "mw", B2C: false},

		// Established regular: old first action, active recently, many actions.
		{UserID: "user-repeat", Type: domain.ActionTypePost, Timestamp: at(5, 1), ItemID: "item-002", Device: "aa", B2C: false},
		{UserID: "user-repeat", Type: domain.ActionTypeReply, Timestamp: at(60, 2), ItemID: "item-001", Device: "aa", B2C: false},
		{UserID: "user-repeat", Type: domain.ActionTypeReply, Timestamp: at(88, 3), ItemID: "item-002", Device: "iw", B2C: false},

		// Faded user: between four and twelve weeks quiet.
		{UserID: "user-dormant", Type: domain.ActionTypeReply, Timestamp: at(50, 4), ItemID: "item-002", Device: "mw", B2C: true},

		// Recent arrivals.
		{UserID: "user-novice", Type: domain.ActionTypePost, Timestamp: at(80, 5), ItemID: "item-003", Device: "aa", B2C: false},
		{UserID: "user-trial", Type: domain.ActionTypeReply, Timestamp: at(87, 6), ItemID: "item-003", Device: "iw", B2C: false},

		// Fast replies onto item-002 for the 1-day liquidity window.
		{UserID: "user-dormant", Type: domain.ActionTypeReply, Timestamp: at(5, 20), ItemID: "item-002", Device: "mw", B2C: true},

		// Non-qualifying action types pass through ingestion untouched.
		{UserID: "user-novice", Type: "V", Timestamp: at(81, 1), ItemID: "item-003", Device: "aa", B2C: false},
	}

	if err := store.InsertBulk(ctx, actions); err != nil {
		return fmt.Errorf("insert fixture actions: %w", err)
	}
	return nil
}
