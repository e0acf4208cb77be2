package memory

import (
	"context"
	"sort"
	"sync"

	"marketplace-analytics/internal/domain"
	"marketplace-analytics/internal/storage"
)

// DailyLiquidityStore is an in-memory implementation of storage.DailyLiquidityStore.
type DailyLiquidityStore struct {
	mu   sync.RWMutex
	data map[domain.DateKey]*domain.DailyLiquidity
}

// NewDailyLiquidityStore creates a new in-memory daily liquidity store.
func NewDailyLiquidityStore() *DailyLiquidityStore {
	return &DailyLiquidityStore{
		data: make(map[domain.DateKey]*domain.DailyLiquidity),
	}
}

// ReplaceAll atomically replaces the full relation with the given rows.
func (s *DailyLiquidityStore) ReplaceAll(_ context.Context, rows []*domain.DailyLiquidity) error {
	next := make(map[domain.DateKey]*domain.DailyLiquidity, len(rows))
	for _, r := range rows {
		if r == nil || r.ItemsPosted <= 0 {
			return storage.ErrInvalidInput
		}
		copy := *r
		next[r.PostDate] = &copy
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = next
	return nil
}

// GetAll retrieves all rows ordered by post_date.
func (s *DailyLiquidityStore) GetAll(_ context.Context) ([]*domain.DailyLiquidity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*domain.DailyLiquidity, 0, len(s.data))
	for _, r := range s.data {
		copy := *r
		result = append(result, &copy)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].PostDate < result[j].PostDate
	})
	return result, nil
}

// GetByPostDate retrieves one row. Returns ErrNotFound if absent.
func (s *DailyLiquidityStore) GetByPostDate(_ context.Context, date domain.DateKey) (*domain.DailyLiquidity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.data[date]
	if !ok {
		return nil, storage.ErrNotFound
	}

	copy := *r
	return &copy, nil
}

var _ storage.DailyLiquidityStore = (*DailyLiquidityStore)(nil)
