package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"marketplace-analytics/internal/domain"
	"marketplace-analytics/internal/storage"
)

// ItemStore implements storage.ItemStore using PostgreSQL.
type ItemStore struct {
	pool *Pool
}

// NewItemStore creates a new ItemStore.
func NewItemStore(pool *Pool) *ItemStore {
	return &ItemStore{pool: pool}
}

// Compile-time interface check.
var _ storage.ItemStore = (*ItemStore)(nil)

// ReplaceAll atomically replaces the full relation with the given rows.
func (s *ItemStore) ReplaceAll(ctx context.Context, items []*domain.Item) error {
	for _, it := range items {
		if it == nil || it.ItemID == "" {
			return storage.ErrInvalidInput
		}
	}

	source := pgx.CopyFromSlice(len(items), func(i int) ([]interface{}, error) {
		return []interface{}{items[i].ItemID, items[i].PostDate.Time()}, nil
	})

	return replaceAll(ctx, s.pool, "items", []string{"item_id", "post_date"}, source)
}

// GetAll retrieves all rows ordered by (item_id, post_date).
func (s *ItemStore) GetAll(ctx context.Context) ([]*domain.Item, error) {
	query := `
		SELECT item_id, post_date
		FROM items
		ORDER BY item_id ASC, post_date ASC
	`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query items: %w", err)
	}
	defer rows.Close()

	var items []*domain.Item
	for rows.Next() {
		var it domain.Item
		var postDate time.Time
		if err := rows.Scan(&it.ItemID, &postDate); err != nil {
			return nil, fmt.Errorf("scan item row: %w", err)
		}
		it.PostDate = domain.DateKeyFromTime(postDate)
		items = append(items, &it)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate item rows: %w", err)
	}
	return items, nil
}
