// Package segmentation derives per-user lifecycle segments from the action log.
// It computes recency/tenure/frequency statistics per user and applies a
// priority-ordered classification cascade.
package segmentation

import (
	"sort"

	"marketplace-analytics/internal/domain"
)

// ComputeUserStats derives per-user temporal statistics from qualifying
// actions (posts and replies), anchored at the reference date.
//
// Per action: age_days = reference - date(action_ts).
// Per user:
//   - recency_days = MIN(age_days)
//   - tenure_days  = MAX(age_days)
//   - interaction_count = COUNT(*)
//
// The count is a true occurrence count: actions sharing an identical
// timestamp each count once. Users with no qualifying action produce no
// record. Output is sorted by user_id for deterministic re-runs.
func ComputeUserStats(actions []*domain.Action, reference domain.DateKey) []*domain.UserStats {
	byUser := make(map[string]*domain.UserStats)

	for _, a := range actions {
		if !a.IsQualifying() {
			continue
		}

		age := int(reference - domain.DateKeyFromMillis(a.Timestamp))

		s, ok := byUser[a.UserID]
		if !ok {
			s = &domain.UserStats{
				UserID:      a.UserID,
				RecencyDays: age,
				TenureDays:  age,
			}
			byUser[a.UserID] = s
		} else {
			if age < s.RecencyDays {
				s.RecencyDays = age
			}
			if age > s.TenureDays {
				s.TenureDays = age
			}
		}
		s.InteractionCount++
	}

	result := make([]*domain.UserStats, 0, len(byUser))
	for _, s := range byUser {
		result = append(result, s)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].UserID < result[j].UserID
	})

	return result
}
