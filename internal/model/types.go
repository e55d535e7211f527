// Package model defines shared data structures.
package model

import "time"

// Config defines journal and notation settings.
type Config struct {
	DBPath string
	Source string
	Since  *time.Time
	Strict bool
	Limit  int
}

// EventKind names a journaled table operation.
type EventKind string

// Journaled operations, replayed in id order.
const (
	EventSuspicious EventKind = "suspicious"
	EventCandidate  EventKind = "candidate"
	EventConfirm    EventKind = "confirm"
)

// Valid reports whether k is a known event kind.
func (k EventKind) Valid() bool {
	switch k {
	case EventSuspicious, EventCandidate, EventConfirm:
		return true
	}
	return false
}

// Event is one journaled table operation.
type Event struct {
	ID         int64
	RecordedAt time.Time
	Kind       EventKind
	Suspicious string
	// Correct is empty for EventSuspicious.
	Correct string
	Source  string
}

// EventFilter narrows which events are replayed.
type EventFilter struct {
	// Since drops confirm events recorded before it; suspicious and
	// candidate events are always kept.
	Since  *time.Time
	Source string
}

// CorrectionAggregate is one (suspicious, correct) pair with its count.
type CorrectionAggregate struct {
	Suspicious string
	Correct    string
	Count      int
}

// MovePair is a suspicious move and the correction confirmed for it.
type MovePair struct {
	Suspicious string
	Correct    string
}
