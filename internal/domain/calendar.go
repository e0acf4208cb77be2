package domain

import "time"

// DateKey encodes a calendar date as whole days since the Unix epoch (UTC).
// All day-difference arithmetic in the pipelines is DateKey subtraction.
type DateKey int32

const millisPerDay = 24 * 60 * 60 * 1000

// DateKeyFromMillis truncates a Unix-millisecond timestamp to its UTC date.
func DateKeyFromMillis(ms int64) DateKey {
	if ms < 0 {
		// Floor division for pre-epoch timestamps.
		return DateKey((ms - millisPerDay + 1) / millisPerDay)
	}
	return DateKey(ms / millisPerDay)
}

// DateKeyFromTime truncates a time.Time to its UTC date.
func DateKeyFromTime(t time.Time) DateKey {
	return DateKeyFromMillis(t.UnixMilli())
}

// Time returns midnight UTC of the date.
func (d DateKey) Time() time.Time {
	return time.Unix(int64(d)*24*60*60, 0).UTC()
}

// String formats the date as YYYY-MM-DD.
func (d DateKey) String() string {
	return d.Time().Format("2006-01-02")
}

// CalendarDate is one row of the dates dimension.
// Corresponds to dates table in PostgreSQL.
type CalendarDate struct {
	Key     DateKey   // days since epoch
	Date    time.Time // midnight UTC
	Day     int       // day of month, 1-31
	Month   int       // 1-12
	Year    int
	Weekday int // 0=Sunday .. 6=Saturday
	Quarter int // 1-4
}
