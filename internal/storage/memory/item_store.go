package memory

import (
	"context"
	"sort"
	"sync"

	"marketplace-analytics/internal/domain"
	"marketplace-analytics/internal/storage"
)

// ItemStore is an in-memory implementation of storage.ItemStore.
type ItemStore struct {
	mu   sync.RWMutex
	data []*domain.Item
}

// NewItemStore creates a new in-memory item store.
func NewItemStore() *ItemStore {
	return &ItemStore{}
}

// ReplaceAll atomically replaces the full relation with the given rows.
func (s *ItemStore) ReplaceAll(_ context.Context, items []*domain.Item) error {
	next := make([]*domain.Item, 0, len(items))
	for _, it := range items {
		if it == nil || it.ItemID == "" {
			return storage.ErrInvalidInput
		}
		copy := *it
		next = append(next, &copy)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = next
	return nil
}

// GetAll retrieves all rows ordered by (item_id, post_date).
func (s *ItemStore) GetAll(_ context.Context) ([]*domain.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*domain.Item, 0, len(s.data))
	for _, it := range s.data {
		copy := *it
		result = append(result, &copy)
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].ItemID != result[j].ItemID {
			return result[i].ItemID < result[j].ItemID
		}
		return result[i].PostDate < result[j].PostDate
	})
	return result, nil
}

var _ storage.ItemStore = (*ItemStore)(nil)
