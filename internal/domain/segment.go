package domain

// UserStats holds per-user temporal statistics anchored at the reference date.
type UserStats struct {
	UserID           string
	RecencyDays      int // age in days of the most recent qualifying action
	TenureDays       int // age in days of the first qualifying action
	InteractionCount int // number of qualifying actions
}

// UserSegment assigns one lifecycle segment label to a user.
// Corresponds to user_segment table in PostgreSQL.
type UserSegment struct {
	UserID  string
	Segment string
}

// Lifecycle segment labels.
const (
	SegmentLost    = "Lost"
	SegmentRepeat  = "Repeat"
	SegmentDormant = "Dormant"
	SegmentNovice  = "Novice"
	SegmentTrial   = "Trial"
)

// Segments lists all labels in classification priority order.
var Segments = []string{
	SegmentLost,
	SegmentRepeat,
	SegmentDormant,
	SegmentNovice,
	SegmentTrial,
}

// Classification thresholds, in days.
const (
	LostRecencyDays    = 84
	RepeatRecencyDays  = 28
	RepeatTenureDays   = 56
	DormantRecencyDays = 28
	NoviceTenureDays   = 7
)
