package domain

import (
	"testing"
	"time"
)

func TestDateKeyFromMillis_TruncatesToUTCDate(t *testing.T) {
	// Every instant of one UTC day maps to the same key.
	midnight := time.Date(2025, time.April, 1, 0, 0, 0, 0, time.UTC)
	almostMidnight := time.Date(2025, time.April, 1, 23, 59, 59, 0, time.UTC)

	k1 := DateKeyFromMillis(midnight.UnixMilli())
	k2 := DateKeyFromMillis(almostMidnight.UnixMilli())

	if k1 != k2 {
		t.Errorf("expected same key for same day, got %d and %d", k1, k2)
	}

	next := DateKeyFromMillis(midnight.AddDate(0, 0, 1).UnixMilli())
	if next != k1+1 {
		t.Errorf("expected next day key %d, got %d", k1+1, next)
	}
}

func TestDateKeyFromMillis_PreEpochFloors(t *testing.T) {
	// 1969-12-31 is day -1, not 0: truncation must floor, not round
	// toward zero.
	preEpoch := time.Date(1969, time.December, 31, 18, 0, 0, 0, time.UTC)

	if k := DateKeyFromMillis(preEpoch.UnixMilli()); k != -1 {
		t.Errorf("expected key -1, got %d", k)
	}
}

func TestDateKey_TimeRoundTrip(t *testing.T) {
	day := time.Date(2025, time.July, 4, 0, 0, 0, 0, time.UTC)
	k := DateKeyFromTime(day)

	if !k.Time().Equal(day) {
		t.Errorf("expected %s, got %s", day, k.Time())
	}
	if k.String() != "2025-07-04" {
		t.Errorf("expected 2025-07-04, got %s", k.String())
	}
}

func TestAction_IsQualifying(t *testing.T) {
	cases := []struct {
		actionType string
		want       bool
	}{
		{ActionTypePost, true},
		{ActionTypeReply, true},
		{"V", false},
		{"L", false},
		{"", false},
	}

	for _, tc := range cases {
		a := &Action{UserID: "u1", Type: tc.actionType}
		if got := a.IsQualifying(); got != tc.want {
			t.Errorf("type %q: expected %v, got %v", tc.actionType, tc.want, got)
		}
	}
}
