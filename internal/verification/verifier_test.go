package verification

import (
	"context"
	"testing"

	"marketplace-analytics/internal/domain"
	"marketplace-analytics/internal/storage/memory"
)

func seedStore(t *testing.T) *memory.ActionStore {
	t.Helper()
	store := memory.NewActionStore()
	err := store.InsertBulk(context.Background(), []*domain.Action{
		{UserID: "u1", Type: domain.ActionTypePost, Timestamp: 1000, ItemID: "i1"},
		{UserID: "u2", Type: domain.ActionTypeReply, Timestamp: 3000, ItemID: "i1"},
		{UserID: "u3", Type: domain.ActionTypeReply, Timestamp: 2000, ItemID: "i1"},
		{UserID: "u4", Type: "V", Timestamp: 4000},
	})
	if err != nil {
		t.Fatalf("seed store: %v", err)
	}
	return store
}

func TestVerifier_Run(t *testing.T) {
	verifier := NewVerifier(seedStore(t))

	report, err := verifier.Run(context.Background(), 2)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if report.TotalActions != 4 {
		t.Errorf("Expected 4 total actions, got %d", report.TotalActions)
	}
	// Views do not qualify.
	if report.QualifyingActions != 3 {
		t.Errorf("Expected 3 qualifying actions, got %d", report.QualifyingActions)
	}
	if report.CountsByType["P"] != 1 || report.CountsByType["R"] != 2 || report.CountsByType["V"] != 1 {
		t.Errorf("Count mismatch: %v", report.CountsByType)
	}

	if len(report.MostRecent) != 2 {
		t.Fatalf("Expected 2 recent actions, got %d", len(report.MostRecent))
	}
	if report.MostRecent[0].Timestamp != 4000 || report.MostRecent[1].Timestamp != 3000 {
		t.Errorf("Expected newest first 4000/3000, got %d/%d",
			report.MostRecent[0].Timestamp, report.MostRecent[1].Timestamp)
	}
}

func TestVerifier_RunEmptyStore(t *testing.T) {
	verifier := NewVerifier(memory.NewActionStore())

	report, err := verifier.Run(context.Background(), 0)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if report.TotalActions != 0 || len(report.MostRecent) != 0 {
		t.Errorf("Expected empty report, got %+v", report)
	}
}
