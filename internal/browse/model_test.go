package browse

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/tcm/internal/model"
	"github.com/verte-zerg/tcm/internal/stats"
)

type fakeLister struct {
	events []model.Event
	err    error
}

func (f *fakeLister) ListEvents(context.Context, model.EventFilter) ([]model.Event, error) {
	return f.events, f.err
}

func sampleLister() *fakeLister {
	events := stats.RecordEvents("e2e5", "e2e4", "")
	events = append(events, stats.RecordEvents("e2e5", "e2e4", "")...)
	events = append(events, stats.RecordEvents("Nf4", "Nf3", "")...)
	events = append(events, model.Event{Kind: model.EventSuspicious, Suspicious: "d2d5"})
	return &fakeLister{events: events}
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestNewModelLoadsPairs(t *testing.T) {
	m := NewModel(sampleLister(), model.EventFilter{})
	rows := m.grid.Rows()
	if len(rows) != 2 {
		t.Fatalf("expected 2 pair rows, got %d", len(rows))
	}
	if rows[0][0] != "e2e5" || rows[0][2] != "2" {
		t.Fatalf("unexpected first row: %v", rows[0])
	}
}

func TestFilterBySuspicious(t *testing.T) {
	m := NewModel(sampleLister(), model.EventFilter{})
	m.Update(runes("/"))
	if !m.filterMode {
		t.Fatalf("expected filter mode")
	}
	m.Update(runes("nf"))
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if m.filterMode {
		t.Fatalf("expected filter mode to end")
	}
	if m.query != "nf" {
		t.Fatalf("unexpected query %q", m.query)
	}
	rows := m.grid.Rows()
	if len(rows) != 1 || rows[0][0] != "Nf4" {
		t.Fatalf("unexpected filtered rows: %v", rows)
	}
}

func TestSuspiciousTab(t *testing.T) {
	m := NewModel(sampleLister(), model.EventFilter{})
	m.Update(tea.KeyMsg{Type: tea.KeyRight})
	if m.activeTab != tabSuspicious {
		t.Fatalf("expected suspicious tab")
	}
	rows := m.grid.Rows()
	if len(rows) != 3 {
		t.Fatalf("expected 3 suspicious rows, got %d", len(rows))
	}
	// Sorted lexically: Nf4, d2d5, e2e5.
	if rows[1][0] != "d2d5" || rows[1][3] != "-" {
		t.Fatalf("unexpected d2d5 row: %v", rows[1])
	}
	if rows[2][0] != "e2e5" || rows[2][2] != "2" || rows[2][3] != "e2e4" {
		t.Fatalf("unexpected e2e5 row: %v", rows[2])
	}
}

func TestReloadError(t *testing.T) {
	lister := sampleLister()
	m := NewModel(lister, model.EventFilter{})
	lister.err = errors.New("journal locked")
	m.Update(runes("r"))
	if m.errMsg == "" || !strings.Contains(m.errMsg, "journal locked") {
		t.Fatalf("expected reload error, got %q", m.errMsg)
	}
	if len(m.grid.Rows()) != 0 {
		t.Fatalf("expected rows cleared after failed reload")
	}
}

func TestViewRendersSummary(t *testing.T) {
	m := NewModel(sampleLister(), model.EventFilter{})
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 20})
	view := m.View()
	for _, want := range []string{"Pairs", "Suspicious: 3", "Confirmations: 3", "e2e5"} {
		if !strings.Contains(view, want) {
			t.Fatalf("view missing %q:\n%s", want, view)
		}
	}
}

func TestQuit(t *testing.T) {
	m := NewModel(sampleLister(), model.EventFilter{})
	_, cmd := m.Update(runes("q"))
	if cmd == nil {
		t.Fatalf("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("expected tea.QuitMsg")
	}
}
