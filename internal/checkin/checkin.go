// Package checkin implements the daily check-in streak engine: an
// append-only, date-ascending list of one record per calendar day, plus the
// statistics derived from it.
package checkin

import (
	"errors"
	"fmt"
	"time"

	"tally/internal/core"
)

// DayFormat is the wire form of a calendar day.
const DayFormat = "2006-01-02"

// ErrBadDate is returned when a stored or supplied day string does not parse.
// Malformed dates must fail loudly instead of feeding into comparisons.
var ErrBadDate = errors.New("malformed date")

// Record is one day's check-in. ConsecutiveDays is the streak length as of
// this record's creation: a snapshot, never recomputed after the fact.
type Record struct {
	ID              string    `json:"id"`
	Date            string    `json:"date"` // YYYY-MM-DD
	Timestamp       time.Time `json:"timestamp"`
	ConsecutiveDays int       `json:"consecutiveDays"`
}

// Stats is derived from the full record list on demand.
type Stats struct {
	TotalDays          int
	ConsecutiveDays    int
	MaxConsecutiveDays int
	CurrentMonthDays   int
	LastCheckInDate    string
}

// ParseDay parses a YYYY-MM-DD string.
func ParseDay(s string) (time.Time, error) {
	t, err := time.Parse(DayFormat, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrBadDate, s)
	}
	return t, nil
}

// FormatDay renders t as YYYY-MM-DD.
func FormatDay(t time.Time) string {
	return t.Format(DayFormat)
}

// CheckIn appends a record for today's date unless one already exists.
// The records list is assumed date-ascending (check-ins are always for
// "today", so insertion order equals date order). When the last record is
// dated yesterday the new record continues its streak; any gap resets to 1.
//
// The returned slice is the input with at most one record appended;
// alreadyCheckedIn reports the idempotent no-op case.
func CheckIn(records []Record, today time.Time) ([]Record, bool) {
	day := FormatDay(today)
	for _, r := range records {
		if r.Date == day {
			return records, true
		}
	}

	streak := 1
	if n := len(records); n > 0 {
		yesterday := FormatDay(today.AddDate(0, 0, -1))
		if records[n-1].Date == yesterday {
			streak = records[n-1].ConsecutiveDays + 1
		}
	}

	return append(records, Record{
		ID:              core.NewID(),
		Date:            day,
		Timestamp:       today,
		ConsecutiveDays: streak,
	}), false
}

// CheckedInOn reports whether a record exists for the given day.
func CheckedInOn(records []Record, day time.Time) bool {
	want := FormatDay(day)
	for _, r := range records {
		if r.Date == want {
			return true
		}
	}
	return false
}

// ComputeStats derives check-in statistics from the full record list.
//
// The current streak walks backward from today, day by day, counting dates
// that have a record and stopping at the first gap. If today has no record
// yet the count starts at zero for today and the streak therefore excludes
// it, matching the snapshot semantics of CheckIn. The max streak is the
// running max of the stored per-record snapshots.
func ComputeStats(records []Record, today time.Time) (Stats, error) {
	var s Stats
	s.TotalDays = len(records)
	if len(records) == 0 {
		return s, nil
	}
	s.LastCheckInDate = records[len(records)-1].Date

	have := make(map[string]struct{}, len(records))
	for _, r := range records {
		if _, err := ParseDay(r.Date); err != nil {
			return Stats{}, err
		}
		have[r.Date] = struct{}{}
	}

	for d := today; ; d = d.AddDate(0, 0, -1) {
		if _, ok := have[FormatDay(d)]; !ok {
			break
		}
		s.ConsecutiveDays++
	}

	for _, r := range records {
		if r.ConsecutiveDays > s.MaxConsecutiveDays {
			s.MaxConsecutiveDays = r.ConsecutiveDays
		}
	}

	for _, r := range records {
		d, _ := ParseDay(r.Date)
		if d.Month() == today.Month() && d.Year() == today.Year() {
			s.CurrentMonthDays++
		}
	}

	return s, nil
}
