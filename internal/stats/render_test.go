package stats

import (
	"bytes"
	"strings"
	"testing"

	"github.com/verte-zerg/tcm/internal/model"
	"github.com/verte-zerg/tcm/internal/tcm"
)

func TestRenderCorrections(t *testing.T) {
	var buf bytes.Buffer
	moves := map[string]int{"e2e4": 3, "e2e3": 1}
	if err := RenderCorrections(&buf, "e2e5", moves); err != nil {
		t.Fatalf("render: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"Corrections for e2e5", "e2e4", "75.00%", "25.00%", "#"} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Index(out, "e2e4") > strings.Index(out, "e2e3") {
		t.Fatalf("expected e2e4 before e2e3:\n%s", out)
	}
	if strings.Contains(out, "\x1b[") {
		t.Fatalf("expected no color codes for non-terminal writer")
	}
}

func TestRenderCorrectionsEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderCorrections(&buf, "Nf4", map[string]int{}); err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(buf.String(), "No correct moves recorded.") {
		t.Fatalf("unexpected output: %s", buf.String())
	}
}

func TestRenderTop(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderTop(&buf, nil); err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(buf.String(), "No corrections found.") {
		t.Fatalf("unexpected output: %s", buf.String())
	}

	buf.Reset()
	aggs := []model.CorrectionAggregate{{Suspicious: "Nf4", Correct: "Nf3", Count: 2}}
	if err := RenderTop(&buf, aggs); err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(buf.String(), "Nf4") || !strings.Contains(buf.String(), "100.00%") {
		t.Fatalf("unexpected output: %s", buf.String())
	}
}

func TestRenderSummary(t *testing.T) {
	table := tcm.New()
	table.AddSuspiciousMove("e2e5")
	_ = table.AddCorrectMove("e2e5", "e2e4")
	_ = table.IncrementFrequency("e2e5", "e2e4")
	_ = table.IncrementFrequency("e2e5", "e2e4")

	var buf bytes.Buffer
	counts := map[model.EventKind]int{model.EventSuspicious: 1, model.EventCandidate: 1, model.EventConfirm: 2}
	if err := RenderSummary(&buf, table, counts); err != nil {
		t.Fatalf("render: %v", err)
	}
	for _, want := range []string{"Suspicious moves: 1", "Candidate corrections: 1", "Confirmations: 2", "1 suspicious, 1 candidate, 2 confirm"} {
		if !strings.Contains(buf.String(), want) {
			t.Fatalf("summary missing %q:\n%s", want, buf.String())
		}
	}
}

func TestBarWidthFor(t *testing.T) {
	if got := BarWidthFor(80, 30); got != maxBarWidth {
		t.Fatalf("expected %d, got %d", maxBarWidth, got)
	}
	if got := BarWidthFor(40, 30); got != 9 {
		t.Fatalf("expected 9, got %d", got)
	}
	if got := BarWidthFor(20, 30); got != minBarWidth {
		t.Fatalf("expected %d, got %d", minBarWidth, got)
	}
}

func TestRenderBar(t *testing.T) {
	if got := renderBar(1, 100, 10, false); got != "#" {
		t.Fatalf("expected minimum bar, got %q", got)
	}
	if got := renderBar(0, 100, 10, false); got != "" {
		t.Fatalf("expected empty bar, got %q", got)
	}
	if got := renderBar(5, 10, 10, false); got != "#####" {
		t.Fatalf("unexpected bar %q", got)
	}
}
