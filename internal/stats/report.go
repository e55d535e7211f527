// Package stats replays the correction journal and renders reports.
package stats

import (
	"context"
	"fmt"

	"github.com/verte-zerg/tcm/internal/model"
	"github.com/verte-zerg/tcm/internal/store"
	"github.com/verte-zerg/tcm/internal/tcm"
)

// EventLister is the part of the store replay needs.
type EventLister interface {
	ListEvents(ctx context.Context, filter model.EventFilter) ([]model.Event, error)
}

var _ EventLister = (*store.Store)(nil)

// Apply performs the table operation recorded by ev.
func Apply(table *tcm.Table, ev model.Event) error {
	switch ev.Kind {
	case model.EventSuspicious:
		table.AddSuspiciousMove(ev.Suspicious)
		return nil
	case model.EventCandidate:
		return table.AddCorrectMove(ev.Suspicious, ev.Correct)
	case model.EventConfirm:
		return table.IncrementFrequency(ev.Suspicious, ev.Correct)
	default:
		return fmt.Errorf("unknown event kind %q", ev.Kind)
	}
}

// ApplyAll applies events in order, stopping at the first failure.
func ApplyAll(table *tcm.Table, events []model.Event) error {
	for _, ev := range events {
		if err := Apply(table, ev); err != nil {
			if ev.ID > 0 {
				return fmt.Errorf("event %d: %w", ev.ID, err)
			}
			return err
		}
	}
	return nil
}

// BuildTable rebuilds a table from the journaled events matching filter.
func BuildTable(ctx context.Context, st EventLister, filter model.EventFilter) (*tcm.Table, error) {
	events, err := st.ListEvents(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	table := tcm.New()
	if err := ApplyAll(table, events); err != nil {
		return nil, fmt.Errorf("failed to replay journal: %w", err)
	}
	return table, nil
}

// RecordEvents returns the events that add suspicious, register correct and
// confirm it once.
func RecordEvents(suspicious, correct, source string) []model.Event {
	return []model.Event{
		{Kind: model.EventSuspicious, Suspicious: suspicious, Source: source},
		{Kind: model.EventCandidate, Suspicious: suspicious, Correct: correct, Source: source},
		{Kind: model.EventConfirm, Suspicious: suspicious, Correct: correct, Source: source},
	}
}
