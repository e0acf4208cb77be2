// Package calendar builds the dates dimension external reporting tools
// join against, and locates the date span of an action snapshot.
package calendar

import (
	"marketplace-analytics/internal/domain"
)

// BuildDimension returns one CalendarDate row per day in [from, to]
// inclusive. Returns nil when the range is empty.
func BuildDimension(from, to domain.DateKey) []*domain.CalendarDate {
	if to < from {
		return nil
	}

	dates := make([]*domain.CalendarDate, 0, int(to-from)+1)
	for d := from; d <= to; d++ {
		t := d.Time()
		dates = append(dates, &domain.CalendarDate{
			Key:     d,
			Date:    t,
			Day:     t.Day(),
			Month:   int(t.Month()),
			Year:    t.Year(),
			Weekday: int(t.Weekday()),
			Quarter: (int(t.Month())-1)/3 + 1,
		})
	}
	return dates
}

// Span returns the earliest and latest action dates in the snapshot.
// ok is false for an empty snapshot.
func Span(actions []*domain.Action) (first, last domain.DateKey, ok bool) {
	for _, a := range actions {
		d := domain.DateKeyFromMillis(a.Timestamp)
		if !ok {
			first, last, ok = d, d, true
			continue
		}
		if d < first {
			first = d
		}
		if d > last {
			last = d
		}
	}
	return first, last, ok
}
