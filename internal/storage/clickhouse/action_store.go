package clickhouse

import (
	"context"
	"fmt"

	"marketplace-analytics/internal/domain"
	"marketplace-analytics/internal/storage"
)

// ActionStore implements storage.ActionStore using ClickHouse.
// The actions table is a MergeTree ordered by (user_id, action_ts); the
// ordering is a layout hint only and carries no correctness weight.
type ActionStore struct {
	conn *Conn
}

// NewActionStore creates a new ActionStore.
func NewActionStore(conn *Conn) *ActionStore {
	return &ActionStore{conn: conn}
}

// Compile-time interface check.
var _ storage.ActionStore = (*ActionStore)(nil)

// InsertBulk appends a batch of actions. The log is append-only with no
// uniqueness constraint; duplicate rows are accepted.
func (s *ActionStore) InsertBulk(ctx context.Context, actions []*domain.Action) error {
	if len(actions) == 0 {
		return nil
	}

	for _, a := range actions {
		if a == nil || a.UserID == "" || a.Type == "" {
			return storage.ErrInvalidInput
		}
	}

	batch, err := s.conn.PrepareBatch(ctx, `
		INSERT INTO actions (user_id, action_type, action_ts, item_id, device, b2c)
	`)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	for _, a := range actions {
		err = batch.Append(
			a.UserID, a.Type, uint64(a.Timestamp), a.ItemID, a.Device, a.B2C,
		)
		if err != nil {
			return fmt.Errorf("append to batch: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}

	return nil
}

// GetAll retrieves every action, ordered by (user_id, action_ts).
func (s *ActionStore) GetAll(ctx context.Context) ([]*domain.Action, error) {
	query := `
		SELECT user_id, action_type, action_ts, item_id, device, b2c
		FROM actions
		ORDER BY user_id ASC, action_ts ASC
	`

	rows, err := s.conn.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query all actions: %w", err)
	}
	defer rows.Close()

	return scanActions(rows)
}

// GetQualifying retrieves actions with type in {Post, Reply}.
func (s *ActionStore) GetQualifying(ctx context.Context) ([]*domain.Action, error) {
	query := `
		SELECT user_id, action_type, action_ts, item_id, device, b2c
		FROM actions
		WHERE action_type IN (?, ?)
		ORDER BY user_id ASC, action_ts ASC
	`

	rows, err := s.conn.Query(ctx, query, domain.ActionTypePost, domain.ActionTypeReply)
	if err != nil {
		return nil, fmt.Errorf("query qualifying actions: %w", err)
	}
	defer rows.Close()

	return scanActions(rows)
}

// CountByType returns row counts grouped by action type.
func (s *ActionStore) CountByType(ctx context.Context) (map[string]int64, error) {
	query := `
		SELECT action_type, count(*)
		FROM actions
		GROUP BY action_type
	`

	rows, err := s.conn.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query counts by type: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int64)
	for rows.Next() {
		var actionType string
		var count uint64
		if err := rows.Scan(&actionType, &count); err != nil {
			return nil, fmt.Errorf("scan count row: %w", err)
		}
		counts[actionType] = int64(count)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate count rows: %w", err)
	}
	return counts, nil
}

// GetMostRecent retrieves the limit most recent actions, newest first.
func (s *ActionStore) GetMostRecent(ctx context.Context, limit int) ([]*domain.Action, error) {
	if limit <= 0 {
		return nil, storage.ErrInvalidInput
	}

	query := `
		SELECT user_id, action_type, action_ts, item_id, device, b2c
		FROM actions
		ORDER BY action_ts DESC
		LIMIT ?
	`

	rows, err := s.conn.Query(ctx, query, uint64(limit))
	if err != nil {
		return nil, fmt.Errorf("query most recent actions: %w", err)
	}
	defer rows.Close()

	return scanActions(rows)
}

// RefreshStatistics forces a merge so storage statistics and compression
// metadata reflect the freshly loaded parts.
func (s *ActionStore) RefreshStatistics(ctx context.Context) error {
	if err := s.conn.Exec(ctx, `OPTIMIZE TABLE actions FINAL`); err != nil {
		return fmt.Errorf("optimize actions table: %w", err)
	}
	return nil
}

// chRows abstracts driver.Rows for scanning.
type chRows interface {
	Next() bool
	Scan(dest ...interface{}) error
	Err() error
}

// scanActions scans multiple rows into a slice.
func scanActions(rows chRows) ([]*domain.Action, error) {
	var actions []*domain.Action

	for rows.Next() {
		var a domain.Action
		var ts uint64

		err := rows.Scan(&a.UserID, &a.Type, &ts, &a.ItemID, &a.Device, &a.B2C)
		if err != nil {
			return nil, fmt.Errorf("scan action row: %w", err)
		}

		a.Timestamp = int64(ts)
		actions = append(actions, &a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate action rows: %w", err)
	}

	return actions, nil
}
