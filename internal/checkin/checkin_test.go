package checkin

import (
	"errors"
	"testing"
	"time"
)

func at(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 9, 0, 0, 0, time.UTC)
}

func TestCheckInIdempotent(t *testing.T) {
	today := at(2024, 3, 1)
	records, already := CheckIn(nil, today)
	if already {
		t.Fatalf("first check-in should not report already")
	}
	if len(records) != 1 || records[0].ConsecutiveDays != 1 {
		t.Fatalf("unexpected records: %+v", records)
	}

	again, already := CheckIn(records, today)
	if !already {
		t.Fatalf("second check-in on same day should report already")
	}
	if len(again) != 1 {
		t.Fatalf("record list must be unchanged, got %d records", len(again))
	}
}

func TestCheckInStreakGrowsAndResets(t *testing.T) {
	var records []Record
	var already bool

	for i := 0; i < 3; i++ {
		records, already = CheckIn(records, at(2024, 3, 1+i))
		if already {
			t.Fatalf("day %d unexpectedly already checked in", i+1)
		}
	}
	if got := records[2].ConsecutiveDays; got != 3 {
		t.Fatalf("third consecutive day should snapshot streak 3, got %d", got)
	}

	// Skip 2024-03-04; a gap resets the streak to 1.
	records, _ = CheckIn(records, at(2024, 3, 5))
	if got := records[3].ConsecutiveDays; got != 1 {
		t.Fatalf("gap should reset streak to 1, got %d", got)
	}
}

func TestCheckInCrossesMonthBoundary(t *testing.T) {
	records, _ := CheckIn(nil, at(2024, 1, 31))
	records, _ = CheckIn(records, at(2024, 2, 1))
	if got := records[1].ConsecutiveDays; got != 2 {
		t.Fatalf("Jan 31 -> Feb 1 is consecutive, got streak %d", got)
	}
}

func TestComputeStatsScenario(t *testing.T) {
	var records []Record
	records, _ = CheckIn(records, at(2024, 3, 1))
	records, _ = CheckIn(records, at(2024, 3, 2))
	// skip 2024-03-03
	records, _ = CheckIn(records, at(2024, 3, 4))

	stats, err := ComputeStats(records, at(2024, 3, 4))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stats.TotalDays != 3 {
		t.Fatalf("expected 3 total days, got %d", stats.TotalDays)
	}
	if stats.ConsecutiveDays != 1 {
		t.Fatalf("expected current streak 1, got %d", stats.ConsecutiveDays)
	}
	if stats.MaxConsecutiveDays != 2 {
		t.Fatalf("expected max streak 2, got %d", stats.MaxConsecutiveDays)
	}
	if stats.CurrentMonthDays != 3 {
		t.Fatalf("expected 3 check-ins this month, got %d", stats.CurrentMonthDays)
	}
	if stats.LastCheckInDate != "2024-03-04" {
		t.Fatalf("expected last date 2024-03-04, got %s", stats.LastCheckInDate)
	}
}

func TestComputeStatsTodayAbsent(t *testing.T) {
	var records []Record
	records, _ = CheckIn(records, at(2024, 3, 1))
	records, _ = CheckIn(records, at(2024, 3, 2))

	// Today (03-03) has no record: the backward walk starts at today and
	// stops immediately, so the streak excludes the run ending yesterday.
	stats, err := ComputeStats(records, at(2024, 3, 3))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stats.ConsecutiveDays != 0 {
		t.Fatalf("expected streak 0 when today is absent, got %d", stats.ConsecutiveDays)
	}
	if stats.MaxConsecutiveDays != 2 {
		t.Fatalf("expected max streak 2, got %d", stats.MaxConsecutiveDays)
	}
}

func TestComputeStatsMonthCount(t *testing.T) {
	var records []Record
	records, _ = CheckIn(records, at(2024, 2, 28))
	records, _ = CheckIn(records, at(2024, 2, 29))
	records, _ = CheckIn(records, at(2024, 3, 1))

	stats, err := ComputeStats(records, at(2024, 3, 15))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stats.CurrentMonthDays != 1 {
		t.Fatalf("expected 1 check-in in March, got %d", stats.CurrentMonthDays)
	}
	if stats.TotalDays != 3 {
		t.Fatalf("expected 3 total, got %d", stats.TotalDays)
	}
}

func TestComputeStatsEmpty(t *testing.T) {
	stats, err := ComputeStats(nil, at(2024, 3, 1))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stats.TotalDays != 0 || stats.ConsecutiveDays != 0 || stats.MaxConsecutiveDays != 0 || stats.LastCheckInDate != "" {
		t.Fatalf("expected zero stats, got %+v", stats)
	}
}

func TestComputeStatsMalformedDate(t *testing.T) {
	records := []Record{{ID: "x", Date: "not-a-date", ConsecutiveDays: 1}}
	if _, err := ComputeStats(records, at(2024, 3, 1)); !errors.Is(err, ErrBadDate) {
		t.Fatalf("expected ErrBadDate, got %v", err)
	}
}

func TestParseDay(t *testing.T) {
	if _, err := ParseDay("2024-03-01"); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	for _, bad := range []string{"", "03/01/2024", "2024-13-01", "yesterday"} {
		if _, err := ParseDay(bad); !errors.Is(err, ErrBadDate) {
			t.Fatalf("%q expected ErrBadDate, got %v", bad, err)
		}
	}
}

func TestCheckedInOn(t *testing.T) {
	records, _ := CheckIn(nil, at(2024, 3, 1))
	if !CheckedInOn(records, at(2024, 3, 1)) {
		t.Fatalf("expected checked in on 03-01")
	}
	if CheckedInOn(records, at(2024, 3, 2)) {
		t.Fatalf("expected not checked in on 03-02")
	}
}
