package memory

import (
	"context"
	"sort"
	"sync"

	"marketplace-analytics/internal/domain"
	"marketplace-analytics/internal/storage"
)

// UserSegmentStore is an in-memory implementation of storage.UserSegmentStore.
type UserSegmentStore struct {
	mu   sync.RWMutex
	data map[string]*domain.UserSegment // keyed by user_id
}

// NewUserSegmentStore creates a new in-memory user segment store.
func NewUserSegmentStore() *UserSegmentStore {
	return &UserSegmentStore{
		data: make(map[string]*domain.UserSegment),
	}
}

// ReplaceAll atomically replaces the full relation with the given rows.
func (s *UserSegmentStore) ReplaceAll(_ context.Context, segments []*domain.UserSegment) error {
	next := make(map[string]*domain.UserSegment, len(segments))
	for _, seg := range segments {
		if seg == nil || seg.UserID == "" || seg.Segment == "" {
			return storage.ErrInvalidInput
		}
		copy := *seg
		next[seg.UserID] = &copy
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = next
	return nil
}

// GetAll retrieves all rows ordered by user_id.
func (s *UserSegmentStore) GetAll(_ context.Context) ([]*domain.UserSegment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*domain.UserSegment, 0, len(s.data))
	for _, seg := range s.data {
		copy := *seg
		result = append(result, &copy)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].UserID < result[j].UserID
	})
	return result, nil
}

// GetByUserID retrieves one row. Returns ErrNotFound if absent.
func (s *UserSegmentStore) GetByUserID(_ context.Context, userID string) (*domain.UserSegment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seg, ok := s.data[userID]
	if !ok {
		return nil, storage.ErrNotFound
	}

	copy := *seg
	return &copy, nil
}

var _ storage.UserSegmentStore = (*UserSegmentStore)(nil)
