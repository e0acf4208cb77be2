package memory

import (
	"context"
	"sort"
	"sync"

	"marketplace-analytics/internal/domain"
	"marketplace-analytics/internal/storage"
)

// ActionStore is an in-memory implementation of storage.ActionStore.
// The log is append-only: rows are never updated or deleted.
type ActionStore struct {
	mu   sync.RWMutex
	data []*domain.Action
}

// NewActionStore creates a new in-memory action store.
func NewActionStore() *ActionStore {
	return &ActionStore{}
}

// InsertBulk appends a batch of actions.
func (s *ActionStore) InsertBulk(_ context.Context, actions []*domain.Action) error {
	if len(actions) == 0 {
		return nil
	}

	for _, a := range actions {
		if a == nil || a.UserID == "" || a.Type == "" {
			return storage.ErrInvalidInput
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, a := range actions {
		copy := *a
		s.data = append(s.data, &copy)
	}
	return nil
}

// GetAll retrieves every action, ordered by (user_id, action_ts).
func (s *ActionStore) GetAll(_ context.Context) ([]*domain.Action, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*domain.Action, 0, len(s.data))
	for _, a := range s.data {
		copy := *a
		result = append(result, &copy)
	}

	sortActions(result)
	return result, nil
}

// GetQualifying retrieves actions with type in {Post, Reply}.
func (s *ActionStore) GetQualifying(_ context.Context) ([]*domain.Action, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.Action
	for _, a := range s.data {
		if a.IsQualifying() {
			copy := *a
			result = append(result, &copy)
		}
	}

	sortActions(result)
	return result, nil
}

// CountByType returns row counts grouped by action type.
func (s *ActionStore) CountByType(_ context.Context) (map[string]int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	counts := make(map[string]int64)
	for _, a := range s.data {
		counts[a.Type]++
	}
	return counts, nil
}

// GetMostRecent retrieves the limit most recent actions, newest first.
func (s *ActionStore) GetMostRecent(_ context.Context, limit int) ([]*domain.Action, error) {
	if limit <= 0 {
		return nil, storage.ErrInvalidInput
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*domain.Action, 0, len(s.data))
	for _, a := range s.data {
		copy := *a
		result = append(result, &copy)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Timestamp > result[j].Timestamp
	})

	if len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

// RefreshStatistics is a no-op for the in-memory store.
func (s *ActionStore) RefreshStatistics(_ context.Context) error {
	return nil
}

func sortActions(actions []*domain.Action) {
	sort.Slice(actions, func(i, j int) bool {
		if actions[i].UserID != actions[j].UserID {
			return actions[i].UserID < actions[j].UserID
		}
		return actions[i].Timestamp < actions[j].Timestamp
	})
}

var _ storage.ActionStore = (*ActionStore)(nil)
