package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"marketplace-analytics/internal/domain"
	"marketplace-analytics/internal/storage"
)

// CalendarStore implements storage.CalendarStore using PostgreSQL.
type CalendarStore struct {
	pool *Pool
}

// NewCalendarStore creates a new CalendarStore.
func NewCalendarStore(pool *Pool) *CalendarStore {
	return &CalendarStore{pool: pool}
}

// Compile-time interface check.
var _ storage.CalendarStore = (*CalendarStore)(nil)

// ReplaceAll atomically replaces the full dimension with the given rows.
func (s *CalendarStore) ReplaceAll(ctx context.Context, dates []*domain.CalendarDate) error {
	for _, d := range dates {
		if d == nil {
			return storage.ErrInvalidInput
		}
	}

	columns := []string{"date_key", "date", "day", "month", "year", "weekday", "quarter"}
	source := pgx.CopyFromSlice(len(dates), func(i int) ([]interface{}, error) {
		d := dates[i]
		return []interface{}{
			int32(d.Key), d.Date, d.Day, d.Month, d.Year, d.Weekday, d.Quarter,
		}, nil
	})

	return replaceAll(ctx, s.pool, "dates", columns, source)
}

// GetAll retrieves all rows ordered by date key.
func (s *CalendarStore) GetAll(ctx context.Context) ([]*domain.CalendarDate, error) {
	query := `
		SELECT date_key, date, day, month, year, weekday, quarter
		FROM dates
		ORDER BY date_key ASC
	`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query dates: %w", err)
	}
	defer rows.Close()

	var dates []*domain.CalendarDate
	for rows.Next() {
		var d domain.CalendarDate
		var key int32
		var date time.Time
		err := rows.Scan(&key, &date, &d.Day, &d.Month, &d.Year, &d.Weekday, &d.Quarter)
		if err != nil {
			return nil, fmt.Errorf("scan date row: %w", err)
		}
		d.Key = domain.DateKey(key)
		d.Date = date.UTC()
		dates = append(dates, &d)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate date rows: %w", err)
	}
	return dates, nil
}
