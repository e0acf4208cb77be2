package memory

import (
	"context"
	"errors"
	"testing"

	"marketplace-analytics/internal/domain"
	"marketplace-analytics/internal/storage"
)

func TestUserSegmentStore_ReplaceAllAndGetAll(t *testing.T) {
	store := NewUserSegmentStore()
	ctx := context.Background()

	err := store.ReplaceAll(ctx, []*domain.UserSegment{
		{UserID: "u2", Segment: domain.SegmentLost},
		{UserID: "u1", Segment: domain.SegmentTrial},
	})
	if err != nil {
		t.Fatalf("ReplaceAll failed: %v", err)
	}

	result, err := store.GetAll(ctx)
	if err != nil {
		t.Fatalf("GetAll failed: %v", err)
	}

	if len(result) != 2 {
		t.Fatalf("Expected 2 segments, got %d", len(result))
	}
	if result[0].UserID != "u1" || result[1].UserID != "u2" {
		t.Errorf("Expected ordering u1,u2; got %s,%s", result[0].UserID, result[1].UserID)
	}
}

func TestUserSegmentStore_ReplaceAllOverwrites(t *testing.T) {
	store := NewUserSegmentStore()
	ctx := context.Background()

	store.ReplaceAll(ctx, []*domain.UserSegment{
		{UserID: "u1", Segment: domain.SegmentTrial},
		{UserID: "u2", Segment: domain.SegmentNovice},
	})

	// A re-run with fewer users leaves no stale rows behind.
	store.ReplaceAll(ctx, []*domain.UserSegment{
		{UserID: "u1", Segment: domain.SegmentRepeat},
	})

	result, _ := store.GetAll(ctx)
	if len(result) != 1 {
		t.Fatalf("Expected 1 segment after replace, got %d", len(result))
	}
	if result[0].Segment != domain.SegmentRepeat {
		t.Errorf("Expected Repeat, got %s", result[0].Segment)
	}
}

func TestUserSegmentStore_GetByUserID(t *testing.T) {
	store := NewUserSegmentStore()
	ctx := context.Background()

	store.ReplaceAll(ctx, []*domain.UserSegment{
		{UserID: "u1", Segment: domain.SegmentDormant},
	})

	seg, err := store.GetByUserID(ctx, "u1")
	if err != nil {
		t.Fatalf("GetByUserID failed: %v", err)
	}
	if seg.Segment != domain.SegmentDormant {
		t.Errorf("Expected Dormant, got %s", seg.Segment)
	}

	_, err = store.GetByUserID(ctx, "missing")
	if !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestUserSegmentStore_ReplaceAllValidation(t *testing.T) {
	store := NewUserSegmentStore()
	ctx := context.Background()

	store.ReplaceAll(ctx, []*domain.UserSegment{
		{UserID: "u1", Segment: domain.SegmentTrial},
	})

	err := store.ReplaceAll(ctx, []*domain.UserSegment{
		{UserID: "u2", Segment: ""},
	})
	if !errors.Is(err, storage.ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput, got %v", err)
	}

	// A rejected replace leaves the previous relation intact.
	result, _ := store.GetAll(ctx)
	if len(result) != 1 || result[0].UserID != "u1" {
		t.Errorf("Expected previous relation preserved, got %d rows", len(result))
	}
}
