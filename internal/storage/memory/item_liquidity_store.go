package memory

import (
	"context"
	"sort"
	"sync"

	"marketplace-analytics/internal/domain"
	"marketplace-analytics/internal/storage"
)

// ItemLiquidityStore is an in-memory implementation of storage.ItemLiquidityStore.
type ItemLiquidityStore struct {
	mu   sync.RWMutex
	data []*domain.ItemLiquidity
}

// NewItemLiquidityStore creates a new in-memory item liquidity store.
func NewItemLiquidityStore() *ItemLiquidityStore {
	return &ItemLiquidityStore{}
}

// ReplaceAll atomically replaces the full relation with the given rows.
func (s *ItemLiquidityStore) ReplaceAll(_ context.Context, rows []*domain.ItemLiquidity) error {
	next := make([]*domain.ItemLiquidity, 0, len(rows))
	for _, r := range rows {
		if r == nil || r.ItemID == "" {
			return storage.ErrInvalidInput
		}
		copy := *r
		next = append(next, &copy)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = next
	return nil
}

// GetAll retrieves all rows ordered by (item_id, post_date).
func (s *ItemLiquidityStore) GetAll(_ context.Context) ([]*domain.ItemLiquidity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*domain.ItemLiquidity, 0, len(s.data))
	for _, r := range s.data {
		copy := *r
		result = append(result, &copy)
	}

	sortItemLiquidity(result)
	return result, nil
}

// GetByPostDate retrieves rows for one post date, ordered by item_id.
func (s *ItemLiquidityStore) GetByPostDate(_ context.Context, date domain.DateKey) ([]*domain.ItemLiquidity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.ItemLiquidity
	for _, r := range s.data {
		if r.PostDate == date {
			copy := *r
			result = append(result, &copy)
		}
	}

	sortItemLiquidity(result)
	return result, nil
}

func sortItemLiquidity(rows []*domain.ItemLiquidity) {
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].ItemID != rows[j].ItemID {
			return rows[i].ItemID < rows[j].ItemID
		}
		return rows[i].PostDate < rows[j].PostDate
	})
}

var _ storage.ItemLiquidityStore = (*ItemLiquidityStore)(nil)
