package stats

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/verte-zerg/tcm/internal/model"
	"github.com/verte-zerg/tcm/internal/store"
	"github.com/verte-zerg/tcm/internal/tcm"
)

func TestBuildTable(t *testing.T) {
	dir := t.TempDir()
	st, err := store.Open(filepath.Join(dir, "journal.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})

	ctx := context.Background()
	events := RecordEvents("e2e5", "e2e4", "otb")
	events = append(events, RecordEvents("e2e5", "e2e4", "otb")...)
	events = append(events,
		model.Event{Kind: model.EventCandidate, Suspicious: "e2e5", Correct: "d2d4", Source: "otb"},
		model.Event{Kind: model.EventSuspicious, Suspicious: "Nf4", Source: "lichess"},
	)
	if err := st.AppendEvents(ctx, events); err != nil {
		t.Fatalf("append: %v", err)
	}

	table, err := BuildTable(ctx, st, model.EventFilter{})
	if err != nil {
		t.Fatalf("build table: %v", err)
	}
	moves, ok := table.GetCorrectMoves("e2e5")
	if !ok {
		t.Fatalf("expected e2e5 in table")
	}
	if moves["e2e4"] != 2 || moves["d2d4"] != 0 || len(moves) != 2 {
		t.Fatalf("unexpected corrections: %v", moves)
	}
	nf4, ok := table.GetCorrectMoves("Nf4")
	if !ok || len(nf4) != 0 {
		t.Fatalf("expected empty Nf4 entry, got %v (present=%v)", nf4, ok)
	}

	lichess, err := BuildTable(ctx, st, model.EventFilter{Source: "lichess"})
	if err != nil {
		t.Fatalf("build filtered table: %v", err)
	}
	if lichess.Len() != 1 {
		t.Fatalf("expected 1 suspicious move for lichess, got %d", lichess.Len())
	}
}

func TestBuildTableSinceKeepsSetupEvents(t *testing.T) {
	st, err := store.Open(filepath.Join(t.TempDir(), "journal.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})

	ctx := context.Background()
	now := time.Now()
	old := now.AddDate(0, 0, -3)
	events := []model.Event{
		{RecordedAt: old, Kind: model.EventSuspicious, Suspicious: "e2e5"},
		{RecordedAt: old, Kind: model.EventCandidate, Suspicious: "e2e5", Correct: "e2e4"},
		{RecordedAt: old, Kind: model.EventConfirm, Suspicious: "e2e5", Correct: "e2e4"},
		{RecordedAt: now, Kind: model.EventConfirm, Suspicious: "e2e5", Correct: "e2e4"},
	}
	if err := st.AppendEvents(ctx, events); err != nil {
		t.Fatalf("append: %v", err)
	}

	since := now.AddDate(0, 0, -1)
	table, err := BuildTable(ctx, st, model.EventFilter{Since: &since})
	if err != nil {
		t.Fatalf("build table: %v", err)
	}
	if count, ok := table.Frequency("e2e5", "e2e4"); !ok || count != 1 {
		t.Fatalf("expected only the recent confirmation, got %d (present=%v)", count, ok)
	}
}

type fakeLister struct {
	events []model.Event
	err    error
}

func (f fakeLister) ListEvents(context.Context, model.EventFilter) ([]model.Event, error) {
	return f.events, f.err
}

func TestBuildTableReplayError(t *testing.T) {
	lister := fakeLister{events: []model.Event{
		{ID: 7, Kind: model.EventConfirm, Suspicious: "e2e5", Correct: "e2e4"},
	}}
	_, err := BuildTable(context.Background(), lister, model.EventFilter{})
	if err == nil {
		t.Fatalf("expected replay error")
	}
	if !errors.Is(err, tcm.ErrSuspiciousMoveNotFound) {
		t.Fatalf("expected ErrSuspiciousMoveNotFound, got %v", err)
	}
	if !strings.Contains(err.Error(), "event 7") {
		t.Fatalf("expected event id in error, got %v", err)
	}
}

func TestBuildTableListError(t *testing.T) {
	_, err := BuildTable(context.Background(), fakeLister{err: errors.New("disk gone")}, model.EventFilter{})
	if err == nil || !strings.Contains(err.Error(), "disk gone") {
		t.Fatalf("expected list error, got %v", err)
	}
}

func TestApplyUnknownKind(t *testing.T) {
	if err := Apply(tcm.New(), model.Event{Kind: "reset"}); err == nil {
		t.Fatalf("expected unknown kind error")
	}
}

func TestApplyCandidateBeforeSuspicious(t *testing.T) {
	table := tcm.New()
	err := Apply(table, model.Event{Kind: model.EventCandidate, Suspicious: "e2e5", Correct: "e2e4"})
	if err == nil || !strings.Contains(err.Error(), "Please add it first.") {
		t.Fatalf("expected add-first error, got %v", err)
	}
}
