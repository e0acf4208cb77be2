package segmentation

import "marketplace-analytics/internal/domain"

// Classify assigns exactly one segment label per user.
// Output cardinality always equals input cardinality: the final else-branch
// makes the cascade total.
func Classify(stats []*domain.UserStats) []*domain.UserSegment {
	segments := make([]*domain.UserSegment, 0, len(stats))
	for _, s := range stats {
		segments = append(segments, &domain.UserSegment{
			UserID:  s.UserID,
			Segment: classifyOne(s),
		})
	}
	return segments
}

// classifyOne evaluates the rule cascade in fixed priority order.
// Rules are not mutually exclusive; order encodes precedence, first match wins.
func classifyOne(s *domain.UserStats) string {
	switch {
	case s.RecencyDays >= domain.LostRecencyDays:
		return domain.SegmentLost
	case s.RecencyDays <= domain.RepeatRecencyDays &&
		s.InteractionCount > 1 &&
		s.TenureDays >= domain.RepeatTenureDays:
		return domain.SegmentRepeat
	case s.RecencyDays >= domain.DormantRecencyDays:
		return domain.SegmentDormant
	case s.TenureDays >= domain.NoviceTenureDays:
		return domain.SegmentNovice
	default:
		return domain.SegmentTrial
	}
}

// Derive runs the full segmentation pipeline: statistics then classification.
func Derive(actions []*domain.Action, reference domain.DateKey) []*domain.UserSegment {
	return Classify(ComputeUserStats(actions, reference))
}
