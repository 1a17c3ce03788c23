// Package feedback keeps user-submitted feedback records, newest first.
package feedback

import (
	"errors"
	"strings"
	"time"

	"tally/internal/core"
)

const (
	StatusPending  Status = "pending"
	StatusReviewed Status = "reviewed"
	StatusResolved Status = "resolved"
)

type Status string

var (
	ErrEmptyContent = errors.New("empty feedback content")
	ErrNotFound     = errors.New("feedback not found")
	ErrBadStatus    = errors.New("invalid feedback status")
)

type Feedback struct {
	ID        string    `json:"id"`
	Kind      string    `json:"kind,omitempty"`
	Content   string    `json:"content"`
	Contact   string    `json:"contact,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	Status    Status    `json:"status"`
}

type Stats struct {
	Total        int
	Pending      int
	Resolved     int
	ResolvedRate int // percent, rounded
}

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusReviewed, StatusResolved:
		return true
	}
	return false
}

// Submit prepends a new pending record and returns the updated list.
func Submit(list []Feedback, kind, content, contact string, now time.Time) ([]Feedback, Feedback, error) {
	if strings.TrimSpace(content) == "" {
		return list, Feedback{}, ErrEmptyContent
	}
	fb := Feedback{
		ID:        core.NewID(),
		Kind:      kind,
		Content:   content,
		Contact:   contact,
		CreatedAt: now,
		Status:    StatusPending,
	}
	return append([]Feedback{fb}, list...), fb, nil
}

// UpdateStatus sets the status of the record with the given id.
func UpdateStatus(list []Feedback, id string, status Status) ([]Feedback, error) {
	if !status.Valid() {
		return list, ErrBadStatus
	}
	for i := range list {
		if list[i].ID == id {
			out := append([]Feedback(nil), list...)
			out[i].Status = status
			return out, nil
		}
	}
	return list, ErrNotFound
}

// Delete removes the record with the given id.
func Delete(list []Feedback, id string) ([]Feedback, error) {
	for i := range list {
		if list[i].ID == id {
			out := append([]Feedback(nil), list[:i]...)
			return append(out, list[i+1:]...), nil
		}
	}
	return list, ErrNotFound
}

// ComputeStats counts records per status. ResolvedRate is 0 for an empty
// list.
func ComputeStats(list []Feedback) Stats {
	var s Stats
	s.Total = len(list)
	for _, fb := range list {
		switch fb.Status {
		case StatusPending:
			s.Pending++
		case StatusResolved:
			s.Resolved++
		}
	}
	if s.Total > 0 {
		s.ResolvedRate = int(float64(s.Resolved)/float64(s.Total)*100 + 0.5)
	}
	return s
}
