package feedback

import (
	"errors"
	"testing"
	"time"
)

var now = time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

func TestSubmit(t *testing.T) {
	list, fb, err := Submit(nil, "bug", "export button broken", "a@b.c", now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fb.ID == "" || fb.Status != StatusPending {
		t.Fatalf("unexpected feedback: %+v", fb)
	}
	if len(list) != 1 {
		t.Fatalf("expected 1 record, got %d", len(list))
	}

	list, second, err := Submit(list, "idea", "weekly report", "", now.Add(time.Hour))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if list[0].ID != second.ID {
		t.Fatalf("newest record must come first")
	}
}

func TestSubmitEmptyContent(t *testing.T) {
	if _, _, err := Submit(nil, "bug", "   ", "", now); !errors.Is(err, ErrEmptyContent) {
		t.Fatalf("expected ErrEmptyContent, got %v", err)
	}
}

func TestUpdateStatus(t *testing.T) {
	list, fb, _ := Submit(nil, "bug", "x", "", now)

	updated, err := UpdateStatus(list, fb.ID, StatusResolved)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated[0].Status != StatusResolved {
		t.Fatalf("status not updated: %+v", updated[0])
	}
	if list[0].Status != StatusPending {
		t.Fatalf("input list must not be mutated")
	}

	if _, err := UpdateStatus(list, "ghost", StatusResolved); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := UpdateStatus(list, fb.ID, "archived"); !errors.Is(err, ErrBadStatus) {
		t.Fatalf("expected ErrBadStatus, got %v", err)
	}
}

func TestDelete(t *testing.T) {
	list, fb, _ := Submit(nil, "bug", "x", "", now)
	list, _, _ = Submit(list, "idea", "y", "", now)

	updated, err := Delete(list, fb.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(updated) != 1 || updated[0].ID == fb.ID {
		t.Fatalf("record not deleted: %+v", updated)
	}
	if _, err := Delete(updated, "ghost"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestComputeStats(t *testing.T) {
	if s := ComputeStats(nil); s.Total != 0 || s.ResolvedRate != 0 {
		t.Fatalf("empty list should yield zero stats: %+v", s)
	}

	var list []Feedback
	var ids []string
	for i := 0; i < 4; i++ {
		var fb Feedback
		list, fb, _ = Submit(list, "bug", "x", "", now)
		ids = append(ids, fb.ID)
	}
	list, _ = UpdateStatus(list, ids[0], StatusResolved)
	list, _ = UpdateStatus(list, ids[1], StatusReviewed)

	s := ComputeStats(list)
	if s.Total != 4 || s.Pending != 2 || s.Resolved != 1 {
		t.Fatalf("unexpected stats: %+v", s)
	}
	if s.ResolvedRate != 25 {
		t.Fatalf("expected 25%% resolved, got %d", s.ResolvedRate)
	}
}
