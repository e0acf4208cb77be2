// Package verification runs read-only sanity checks against the ingested
// action log: row counts per action type and a top-N recency scan. It is
// not part of the derivation itself.
package verification

import (
	"context"
	"fmt"

	"marketplace-analytics/internal/domain"
	"marketplace-analytics/internal/storage"
)

// Report contains the results of one verification pass.
type Report struct {
	TotalActions      int64            // all rows in the event store
	QualifyingActions int64            // rows with type in {Post, Reply}
	CountsByType      map[string]int64 // rows per action type code
	MostRecent        []*domain.Action // newest actions, newest first
}

// Verifier runs sanity checks against an action store.
type Verifier struct {
	store storage.ActionStore
}

// NewVerifier creates a new Verifier.
func NewVerifier(store storage.ActionStore) *Verifier {
	return &Verifier{store: store}
}

// Run computes the verification report. topN bounds the recency scan.
func (v *Verifier) Run(ctx context.Context, topN int) (*Report, error) {
	counts, err := v.store.CountByType(ctx)
	if err != nil {
		return nil, fmt.Errorf("count actions by type: %w", err)
	}

	report := &Report{CountsByType: counts}
	for actionType, n := range counts {
		report.TotalActions += n
		if actionType == domain.ActionTypePost || actionType == domain.ActionTypeReply {
			report.QualifyingActions += n
		}
	}

	if topN > 0 {
		recent, err := v.store.GetMostRecent(ctx, topN)
		if err != nil {
			return nil, fmt.Errorf("scan most recent actions: %w", err)
		}
		report.MostRecent = recent
	}

	return report, nil
}
