package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"marketplace-analytics/internal/domain"
	"marketplace-analytics/internal/storage"
)

// UserSegmentStore implements storage.UserSegmentStore using PostgreSQL.
type UserSegmentStore struct {
	pool *Pool
}

// NewUserSegmentStore creates a new UserSegmentStore.
func NewUserSegmentStore(pool *Pool) *UserSegmentStore {
	return &UserSegmentStore{pool: pool}
}

// Compile-time interface check.
var _ storage.UserSegmentStore = (*UserSegmentStore)(nil)

// ReplaceAll atomically replaces the full relation with the given rows.
func (s *UserSegmentStore) ReplaceAll(ctx context.Context, segments []*domain.UserSegment) error {
	for _, seg := range segments {
		if seg == nil || seg.UserID == "" || seg.Segment == "" {
			return storage.ErrInvalidInput
		}
	}

	source := pgx.CopyFromSlice(len(segments), func(i int) ([]interface{}, error) {
		return []interface{}{segments[i].UserID, segments[i].Segment}, nil
	})

	return replaceAll(ctx, s.pool, "user_segment", []string{"user_id", "segment"}, source)
}

// GetAll retrieves all rows ordered by user_id.
func (s *UserSegmentStore) GetAll(ctx context.Context) ([]*domain.UserSegment, error) {
	query := `
		SELECT user_id, segment
		FROM user_segment
		ORDER BY user_id ASC
	`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query user segments: %w", err)
	}
	defer rows.Close()

	var segments []*domain.UserSegment
	for rows.Next() {
		var seg domain.UserSegment
		if err := rows.Scan(&seg.UserID, &seg.Segment); err != nil {
			return nil, fmt.Errorf("scan user segment row: %w", err)
		}
		segments = append(segments, &seg)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate user segment rows: %w", err)
	}
	return segments, nil
}

// GetByUserID retrieves one row. Returns ErrNotFound if absent.
func (s *UserSegmentStore) GetByUserID(ctx context.Context, userID string) (*domain.UserSegment, error) {
	query := `
		SELECT user_id, segment
		FROM user_segment
		WHERE user_id = $1
	`

	var seg domain.UserSegment
	err := s.pool.QueryRow(ctx, query, userID).Scan(&seg.UserID, &seg.Segment)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("query user segment: %w", err)
	}
	return &seg, nil
}
