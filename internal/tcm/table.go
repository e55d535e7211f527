// Package tcm implements the table of correct moves: for every suspicious
// move it counts how often each candidate correction was confirmed.
//
// A Table performs no locking. Callers sharing one across goroutines must
// serialize access themselves.
package tcm

import "sort"

// Table maps suspicious moves to candidate correct moves and their counts.
// The zero value is ready to use.
type Table struct {
	frequencies map[string]map[string]int
}

// New returns an empty Table.
func New() *Table {
	return &Table{frequencies: map[string]map[string]int{}}
}

// AddSuspiciousMove registers move with no corrections. Existing entries are kept.
func (t *Table) AddSuspiciousMove(move string) {
	if t.frequencies == nil {
		t.frequencies = map[string]map[string]int{}
	}
	if _, ok := t.frequencies[move]; !ok {
		t.frequencies[move] = map[string]int{}
	}
}

// AddCorrectMove registers correct under suspicious with a zero count.
// An existing count is left unchanged.
func (t *Table) AddCorrectMove(suspicious, correct string) error {
	moves, ok := t.frequencies[suspicious]
	if !ok {
		return &NotFoundError{Missing: ErrSuspiciousMoveNotFound, Suspicious: suspicious, AddFirst: true}
	}
	if _, ok := moves[correct]; !ok {
		moves[correct] = 0
	}
	return nil
}

// IncrementFrequency adds one confirmation of correct for suspicious.
func (t *Table) IncrementFrequency(suspicious, correct string) error {
	moves, ok := t.frequencies[suspicious]
	if !ok {
		return &NotFoundError{Missing: ErrSuspiciousMoveNotFound, Suspicious: suspicious}
	}
	if _, ok := moves[correct]; !ok {
		return &NotFoundError{Missing: ErrCorrectMoveNotFound, Suspicious: suspicious, Correct: correct}
	}
	moves[correct]++
	return nil
}

// GetCorrectMoves returns a copy of the corrections recorded for suspicious.
// The boolean is false when suspicious was never added; a known move with no
// corrections yields an empty, non-nil map.
func (t *Table) GetCorrectMoves(suspicious string) (map[string]int, bool) {
	moves, ok := t.frequencies[suspicious]
	if !ok {
		return nil, false
	}
	out := make(map[string]int, len(moves))
	for move, count := range moves {
		out[move] = count
	}
	return out, true
}

// Frequency returns the count for a single pair.
func (t *Table) Frequency(suspicious, correct string) (int, bool) {
	count, ok := t.frequencies[suspicious][correct]
	return count, ok
}

// SuspiciousMoves returns every suspicious move in lexical order.
func (t *Table) SuspiciousMoves() []string {
	out := make([]string, 0, len(t.frequencies))
	for move := range t.frequencies {
		out = append(out, move)
	}
	sort.Strings(out)
	return out
}

// Len returns the number of suspicious moves.
func (t *Table) Len() int {
	return len(t.frequencies)
}
