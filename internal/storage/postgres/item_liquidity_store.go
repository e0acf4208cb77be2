package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"marketplace-analytics/internal/domain"
	"marketplace-analytics/internal/storage"
)

// ItemLiquidityStore implements storage.ItemLiquidityStore using PostgreSQL.
type ItemLiquidityStore struct {
	pool *Pool
}

// NewItemLiquidityStore creates a new ItemLiquidityStore.
func NewItemLiquidityStore(pool *Pool) *ItemLiquidityStore {
	return &ItemLiquidityStore{pool: pool}
}

// Compile-time interface check.
var _ storage.ItemLiquidityStore = (*ItemLiquidityStore)(nil)

// ReplaceAll atomically replaces the full relation with the given rows.
func (s *ItemLiquidityStore) ReplaceAll(ctx context.Context, rows []*domain.ItemLiquidity) error {
	for _, r := range rows {
		if r == nil || r.ItemID == "" {
			return storage.ErrInvalidInput
		}
	}

	columns := []string{"item_id", "post_date", "replies_within_1_day", "replies_within_7_days"}
	source := pgx.CopyFromSlice(len(rows), func(i int) ([]interface{}, error) {
		r := rows[i]
		return []interface{}{
			r.ItemID, r.PostDate.Time(), r.RepliesWithin1Day, r.RepliesWithin7Days,
		}, nil
	})

	return replaceAll(ctx, s.pool, "fact_item_liquidity", columns, source)
}

// GetAll retrieves all rows ordered by (item_id, post_date).
func (s *ItemLiquidityStore) GetAll(ctx context.Context) ([]*domain.ItemLiquidity, error) {
	query := `
		SELECT item_id, post_date, replies_within_1_day, replies_within_7_days
		FROM fact_item_liquidity
		ORDER BY item_id ASC, post_date ASC
	`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query item liquidity: %w", err)
	}
	defer rows.Close()

	return scanItemLiquidity(rows)
}

// GetByPostDate retrieves rows for one post date, ordered by item_id.
func (s *ItemLiquidityStore) GetByPostDate(ctx context.Context, date domain.DateKey) ([]*domain.ItemLiquidity, error) {
	query := `
		SELECT item_id, post_date, replies_within_1_day, replies_within_7_days
		FROM fact_item_liquidity
		WHERE post_date = $1
		ORDER BY item_id ASC
	`

	rows, err := s.pool.Query(ctx, query, date.Time())
	if err != nil {
		return nil, fmt.Errorf("query item liquidity by post date: %w", err)
	}
	defer rows.Close()

	return scanItemLiquidity(rows)
}

// scanItemLiquidity scans multiple rows into a slice.
func scanItemLiquidity(rows pgx.Rows) ([]*domain.ItemLiquidity, error) {
	var result []*domain.ItemLiquidity

	for rows.Next() {
		var r domain.ItemLiquidity
		var postDate time.Time
		err := rows.Scan(&r.ItemID, &postDate, &r.RepliesWithin1Day, &r.RepliesWithin7Days)
		if err != nil {
			return nil, fmt.Errorf("scan item liquidity row: %w", err)
		}
		r.PostDate = domain.DateKeyFromTime(postDate)
		result = append(result, &r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate item liquidity rows: %w", err)
	}
	return result, nil
}
