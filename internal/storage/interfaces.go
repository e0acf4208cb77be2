package storage

import (
	"context"

	"marketplace-analytics/internal/domain"
)

// ActionStore provides access to the append-only action log (the event store).
// The derivation pipelines only read from it; writes come from bulk ingestion.
type ActionStore interface {
	// InsertBulk appends a batch of actions. The log has no uniqueness
	// constraint, so duplicates are accepted as distinct rows.
	InsertBulk(ctx context.Context, actions []*domain.Action) error

	// GetAll retrieves every action, ordered by (user_id, action_ts).
	GetAll(ctx context.Context) ([]*domain.Action, error)

	// GetQualifying retrieves actions with type in {Post, Reply},
	// ordered by (user_id, action_ts).
	GetQualifying(ctx context.Context) ([]*domain.Action, error)

	// CountByType returns row counts grouped by action type.
	CountByType(ctx context.Context) (map[string]int64, error)

	// GetMostRecent retrieves the limit most recent actions, newest first.
	GetMostRecent(ctx context.Context, limit int) ([]*domain.Action, error)

	// RefreshStatistics refreshes storage statistics and compression
	// metadata after a bulk load. No-op for stores without the concept.
	RefreshStatistics(ctx context.Context) error
}

// UserSegmentStore provides access to the user_segment mart.
type UserSegmentStore interface {
	// ReplaceAll atomically replaces the full relation with the given rows.
	ReplaceAll(ctx context.Context, segments []*domain.UserSegment) error

	// GetAll retrieves all rows ordered by user_id.
	GetAll(ctx context.Context) ([]*domain.UserSegment, error)

	// GetByUserID retrieves one row. Returns ErrNotFound if absent.
	GetByUserID(ctx context.Context, userID string) (*domain.UserSegment, error)
}

// ItemStore provides access to the items mart.
type ItemStore interface {
	// ReplaceAll atomically replaces the full relation with the given rows.
	ReplaceAll(ctx context.Context, items []*domain.Item) error

	// GetAll retrieves all rows ordered by (item_id, post_date).
	GetAll(ctx context.Context) ([]*domain.Item, error)
}

// CalendarStore provides access to the dates dimension.
type CalendarStore interface {
	// ReplaceAll atomically replaces the full dimension with the given rows.
	ReplaceAll(ctx context.Context, dates []*domain.CalendarDate) error

	// GetAll retrieves all rows ordered by date key.
	GetAll(ctx context.Context) ([]*domain.CalendarDate, error)
}

// ItemLiquidityStore provides access to the fact_item_liquidity mart.
type ItemLiquidityStore interface {
	// ReplaceAll atomically replaces the full relation with the given rows.
	ReplaceAll(ctx context.Context, rows []*domain.ItemLiquidity) error

	// GetAll retrieves all rows ordered by (item_id, post_date).
	GetAll(ctx context.Context) ([]*domain.ItemLiquidity, error)

	// GetByPostDate retrieves rows for one post date, ordered by item_id.
	GetByPostDate(ctx context.Context, date domain.DateKey) ([]*domain.ItemLiquidity, error)
}

// DailyLiquidityStore provides access to the fact_liquidity mart.
type DailyLiquidityStore interface {
	// ReplaceAll atomically replaces the full relation with the given rows.
	ReplaceAll(ctx context.Context, rows []*domain.DailyLiquidity) error

	// GetAll retrieves all rows ordered by post_date.
	GetAll(ctx context.Context) ([]*domain.DailyLiquidity, error)

	// GetByPostDate retrieves one row. Returns ErrNotFound if absent.
	GetByPostDate(ctx context.Context, date domain.DateKey) (*domain.DailyLiquidity, error)
}
