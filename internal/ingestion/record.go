package ingestion

import (
	"encoding/json"
	"fmt"
	"time"

	"marketplace-analytics/internal/domain"
)

// actionRecord is the wire format of one NDJSON line.
type actionRecord struct {
	UserID     string `json:"user_id"`
	ActionType string `json:"action_type"`
	ActionTS   string `json:"action_ts"` // RFC3339
	ItemID     string `json:"item_id"`
	Device     string `json:"device"`
	B2C        bool   `json:"b2c"`
}

// ParseAction parses and validates one NDJSON line into a domain Action.
func ParseAction(line []byte) (*domain.Action, error) {
	var rec actionRecord
	if err := json.Unmarshal(line, &rec); err != nil {
		return nil, fmt.Errorf("unmarshal action record: %w", err)
	}

	if rec.UserID == "" {
		return nil, fmt.Errorf("action record missing user_id")
	}
	if len(rec.ActionType) != 1 {
		return nil, fmt.Errorf("action record has invalid action_type %q", rec.ActionType)
	}
	if len(rec.Device) > 2 {
		return nil, fmt.Errorf("action record has invalid device code %q", rec.Device)
	}

	ts, err := time.Parse(time.RFC3339, rec.ActionTS)
	if err != nil {
		return nil, fmt.Errorf("parse action_ts %q: %w", rec.ActionTS, err)
	}

	return &domain.Action{
		UserID:    rec.UserID,
		Type:      rec.ActionType,
		Timestamp: ts.UnixMilli(),
		ItemID:    rec.ItemID,
		Device:    rec.Device,
		B2C:       rec.B2C,
	}, nil
}
