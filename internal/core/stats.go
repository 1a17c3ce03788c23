package core

import (
	"errors"
	"fmt"
	"sort"
	"time"
)

// Window is a named preset expanding to a half-open date range [start, end).
type Window string

const (
	WindowToday Window = "today"
	// WindowWeek is a rolling 7x24h window ending at now, not a calendar week.
	WindowWeek  Window = "week"
	WindowMonth Window = "month"
	WindowYear  Window = "year"
	WindowAll   Window = "all"
)

// ErrInvalidWindow is returned for a window name that matches no preset.
var ErrInvalidWindow = errors.New("invalid window preset")

// ParseWindow maps a window name to its preset. Unknown names fail instead
// of silently widening to the unbounded default.
func ParseWindow(s string) (Window, error) {
	w := Window(s)
	switch w {
	case WindowToday, WindowWeek, WindowMonth, WindowYear, WindowAll:
		return w, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidWindow, s)
}

// Stats summarizes the transactions inside a window.
type Stats struct {
	Income  Money
	Expense Money
	Balance Money
	Count   int
}

// CategorySlice is one row of a category breakdown, sorted descending by
// amount. Percentage is relative to the summed amount of the grouped set.
type CategorySlice struct {
	CategoryID string
	Name       string
	Icon       string
	Color      string
	Amount     Money
	Percentage float64
}

// Range expands a window preset relative to now. WindowAll returns zero
// times for both bounds; callers treat a zero bound as unbounded.
func (w Window) Range(now time.Time) (start, end time.Time) {
	switch w {
	case WindowToday:
		start = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		return start, now
	case WindowWeek:
		return now.Add(-7 * 24 * time.Hour), now
	case WindowMonth:
		start = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		return start, start.AddDate(0, 1, 0)
	case WindowYear:
		start = time.Date(now.Year(), 1, 1, 0, 0, 0, 0, now.Location())
		return start, start.AddDate(1, 0, 0)
	default:
		return time.Time{}, time.Time{}
	}
}

// InWindow reports whether t falls within [start, end). A zero bound is
// treated as unbounded on that side.
func InWindow(t, start, end time.Time) bool {
	if !start.IsZero() && t.Before(start) {
		return false
	}
	if !end.IsZero() && !t.Before(end) {
		return false
	}
	return true
}

// ComputeStats totals the transactions whose date falls within [start, end).
// Empty input yields zero-valued results.
func ComputeStats(txs []Transaction, start, end time.Time) Stats {
	var s Stats
	for _, tx := range txs {
		if !InWindow(tx.Date, start, end) {
			continue
		}
		switch tx.Type {
		case Income:
			s.Income = s.Income.Add(tx.Amount)
		case Expense:
			s.Expense = s.Expense.Add(tx.Amount)
		default:
			continue
		}
		s.Count++
	}
	s.Balance = s.Income.Sub(s.Expense)
	return s
}

// CategoryBreakdown groups the windowed transactions of one entry type by
// category and returns slices sorted descending by amount, truncated to topN
// (topN <= 0 keeps everything). Transactions referencing an unknown category
// resolve to the fallback category rather than being dropped.
func CategoryBreakdown(txs []Transaction, cats []Category, entryType EntryType, start, end time.Time, topN int) []CategorySlice {
	byID := make(map[string]Category, len(cats))
	for _, c := range cats {
		byID[c.ID] = c
	}

	totals := make(map[string]Money)
	var order []string
	for _, tx := range txs {
		if tx.Type != entryType || !InWindow(tx.Date, start, end) {
			continue
		}
		id := tx.CategoryID
		if _, ok := byID[id]; !ok {
			id = FallbackCategoryID
		}
		if _, seen := totals[id]; !seen {
			order = append(order, id)
		}
		totals[id] = totals[id].Add(tx.Amount)
	}
	if len(totals) == 0 {
		return nil
	}

	var grand Money
	for _, amt := range totals {
		grand = grand.Add(amt)
	}

	out := make([]CategorySlice, 0, len(totals))
	for _, id := range order {
		amt := totals[id]
		slice := CategorySlice{CategoryID: id, Amount: amt}
		if cat, ok := byID[id]; ok {
			slice.Name = cat.Name
			slice.Icon = cat.Icon
			slice.Color = cat.Color
		} else {
			slice.Name = "Other"
		}
		if grand.Cents > 0 {
			slice.Percentage = float64(amt.Cents) / float64(grand.Cents) * 100
		}
		out = append(out, slice)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Amount.Cents > out[j].Amount.Cents
	})
	if topN > 0 && len(out) > topN {
		out = out[:topN]
	}
	return out
}
