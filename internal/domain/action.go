package domain

// Action represents one row of the append-only user action log.
// Corresponds to actions table in ClickHouse.
type Action struct {
	UserID    string // user identifier
	Type      string // action type code, see ActionType* constants
	Timestamp int64  // Unix timestamp in milliseconds
	ItemID    string // item identifier, empty for non-item actions
	Device    string // 2-char device code
	B2C       bool   // business-to-consumer flag
}

// Action type codes. The raw log carries further codes; only posts and
// replies participate in derivation.
const (
	ActionTypePost  = "P"
	ActionTypeReply = "R"
)

// IsQualifying reports whether the action participates in segmentation
// and liquidity derivation.
func (a *Action) IsQualifying() bool {
	return a.Type == ActionTypePost || a.Type == ActionTypeReply
}
