package memory

import (
	"context"
	"sort"
	"sync"

	"marketplace-analytics/internal/domain"
	"marketplace-analytics/internal/storage"
)

// CalendarStore is an in-memory implementation of storage.CalendarStore.
type CalendarStore struct {
	mu   sync.RWMutex
	data []*domain.CalendarDate
}

// NewCalendarStore creates a new in-memory calendar store.
func NewCalendarStore() *CalendarStore {
	return &CalendarStore{}
}

// ReplaceAll atomically replaces the full dimension with the given rows.
func (s *CalendarStore) ReplaceAll(_ context.Context, dates []*domain.CalendarDate) error {
	next := make([]*domain.CalendarDate, 0, len(dates))
	for _, d := range dates {
		if d == nil {
			return storage.ErrInvalidInput
		}
		copy := *d
		next = append(next, &copy)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = next
	return nil
}

// GetAll retrieves all rows ordered by date key.
func (s *CalendarStore) GetAll(_ context.Context) ([]*domain.CalendarDate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*domain.CalendarDate, 0, len(s.data))
	for _, d := range s.data {
		copy := *d
		result = append(result, &copy)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Key < result[j].Key
	})
	return result, nil
}

var _ storage.CalendarStore = (*CalendarStore)(nil)
