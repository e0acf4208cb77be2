package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"marketplace-analytics/internal/domain"
	"marketplace-analytics/internal/storage"
)

// DailyLiquidityStore implements storage.DailyLiquidityStore using PostgreSQL.
type DailyLiquidityStore struct {
	pool *Pool
}

// NewDailyLiquidityStore creates a new DailyLiquidityStore.
func NewDailyLiquidityStore(pool *Pool) *DailyLiquidityStore {
	return &DailyLiquidityStore{pool: pool}
}

// Compile-time interface check.
var _ storage.DailyLiquidityStore = (*DailyLiquidityStore)(nil)

const dailyLiquidityColumns = `
	post_date, items_posted,
	liquid_1d_count, liquid_3in7d_count, liquid_5in7d_count,
	rate_1d, rate_3in7d, rate_5in7d
`

// ReplaceAll atomically replaces the full relation with the given rows.
func (s *DailyLiquidityStore) ReplaceAll(ctx context.Context, rows []*domain.DailyLiquidity) error {
	for _, r := range rows {
		if r == nil || r.ItemsPosted <= 0 {
			return storage.ErrInvalidInput
		}
	}

	columns := []string{
		"post_date", "items_posted",
		"liquid_1d_count", "liquid_3in7d_count", "liquid_5in7d_count",
		"rate_1d", "rate_3in7d", "rate_5in7d",
	}
	source := pgx.CopyFromSlice(len(rows), func(i int) ([]interface{}, error) {
		r := rows[i]
		return []interface{}{
			r.PostDate.Time(), r.ItemsPosted,
			r.Liquid1DCount, r.Liquid3In7Count, r.Liquid5In7Count,
			r.Rate1D, r.Rate3In7, r.Rate5In7,
		}, nil
	})

	return replaceAll(ctx, s.pool, "fact_liquidity", columns, source)
}

// GetAll retrieves all rows ordered by post_date.
func (s *DailyLiquidityStore) GetAll(ctx context.Context) ([]*domain.DailyLiquidity, error) {
	query := `
		SELECT ` + dailyLiquidityColumns + `
		FROM fact_liquidity
		ORDER BY post_date ASC
	`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query daily liquidity: %w", err)
	}
	defer rows.Close()

	var result []*domain.DailyLiquidity
	for rows.Next() {
		r, err := scanDailyLiquidity(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate daily liquidity rows: %w", err)
	}
	return result, nil
}

// GetByPostDate retrieves one row. Returns ErrNotFound if absent.
func (s *DailyLiquidityStore) GetByPostDate(ctx context.Context, date domain.DateKey) (*domain.DailyLiquidity, error) {
	query := `
		SELECT ` + dailyLiquidityColumns + `
		FROM fact_liquidity
		WHERE post_date = $1
	`

	rows, err := s.pool.Query(ctx, query, date.Time())
	if err != nil {
		return nil, fmt.Errorf("query daily liquidity by post date: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("iterate daily liquidity rows: %w", err)
		}
		return nil, storage.ErrNotFound
	}

	return scanDailyLiquidity(rows)
}

// scanDailyLiquidity scans the current row.
func scanDailyLiquidity(rows pgx.Rows) (*domain.DailyLiquidity, error) {
	var r domain.DailyLiquidity
	var postDate time.Time

	err := rows.Scan(
		&postDate, &r.ItemsPosted,
		&r.Liquid1DCount, &r.Liquid3In7Count, &r.Liquid5In7Count,
		&r.Rate1D, &r.Rate3In7, &r.Rate5In7,
	)
	if err != nil {
		return nil, fmt.Errorf("scan daily liquidity row: %w", err)
	}

	r.PostDate = domain.DateKeyFromTime(postDate)
	return &r, nil
}
