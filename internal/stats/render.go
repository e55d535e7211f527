package stats

import (
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/verte-zerg/tcm/internal/model"
	"github.com/verte-zerg/tcm/internal/tcm"
)

const (
	barChar             = "#"
	minBarWidth         = 4
	maxBarWidth         = 40
	terminalWidthBackup = 80
	colorBar            = "\x1b[36m"
	colorReset          = "\x1b[0m"
)

// RenderCorrections prints the corrections recorded for one suspicious move.
func RenderCorrections(w io.Writer, suspicious string, moves map[string]int) error {
	if _, err := fmt.Fprintf(w, "Corrections for %s\n", suspicious); err != nil {
		return err
	}
	if len(moves) == 0 {
		_, err := fmt.Fprintln(w, "No correct moves recorded.")
		return err
	}
	ranked := RankCorrectMoves(suspicious, moves)
	total := 0
	for _, agg := range ranked {
		total += agg.Count
	}
	headers := []string{"Correct", "Count", "Share", ""}
	rows := make([][]string, 0, len(ranked))
	for _, agg := range ranked {
		rows = append(rows, []string{
			agg.Correct,
			fmt.Sprintf("%d", agg.Count),
			formatShare(agg.Count, total),
			"",
		})
	}
	return writeTableWithBars(w, headers, rows, ranked, total, map[int]bool{1: true, 2: true})
}

// RenderTop prints the most frequently confirmed pairs.
func RenderTop(w io.Writer, aggs []model.CorrectionAggregate) error {
	if len(aggs) == 0 {
		_, err := fmt.Fprintln(w, "No corrections found.")
		return err
	}
	total := 0
	for _, agg := range aggs {
		total += agg.Count
	}
	if _, err := fmt.Fprintln(w, "Top Corrections"); err != nil {
		return err
	}
	headers := []string{"Suspicious", "Correct", "Count", "Share", ""}
	rows := make([][]string, 0, len(aggs))
	for _, agg := range aggs {
		rows = append(rows, []string{
			agg.Suspicious,
			agg.Correct,
			fmt.Sprintf("%d", agg.Count),
			formatShare(agg.Count, total),
			"",
		})
	}
	return writeTableWithBars(w, headers, rows, aggs, total, map[int]bool{2: true, 3: true})
}

// RenderSummary prints table and journal totals.
func RenderSummary(w io.Writer, table *tcm.Table, counts map[model.EventKind]int) error {
	aggs := Flatten(table)
	confirmed := 0
	for _, agg := range aggs {
		confirmed += agg.Count
	}
	lines := []string{
		"Summary",
		fmt.Sprintf("Suspicious moves: %d", table.Len()),
		fmt.Sprintf("Candidate corrections: %d", len(aggs)),
		fmt.Sprintf("Confirmations: %d", confirmed),
		fmt.Sprintf("Journal events: %d suspicious, %d candidate, %d confirm",
			counts[model.EventSuspicious], counts[model.EventCandidate], counts[model.EventConfirm]),
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// writeTableWithBars fills the last column with a share bar and writes the table.
func writeTableWithBars(w io.Writer, headers []string, rows [][]string, aggs []model.CorrectionAggregate, total int, rightAlign map[int]bool) error {
	lines := formatTable(headers, rows, rightAlign)
	if len(lines) == 0 {
		return nil
	}
	barWidth := BarWidthFor(terminalWidth(), displayWidth(lines[0]))
	useColor := shouldUseColor(w)
	for i, line := range lines {
		if i > 0 {
			line = strings.TrimRight(line, " ") + " " + renderBar(aggs[i-1].Count, total, barWidth, useColor)
		}
		if _, err := fmt.Fprintln(w, strings.TrimRight(line, " ")); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

// BarWidthFor returns the bar width that fits next to a table of tableWidth.
func BarWidthFor(totalWidth, tableWidth int) int {
	if totalWidth <= 0 {
		totalWidth = terminalWidthBackup
	}
	width := totalWidth - tableWidth - 1
	if width < minBarWidth {
		width = minBarWidth
	}
	if width > maxBarWidth {
		width = maxBarWidth
	}
	return width
}

func renderBar(count, total, width int, useColor bool) string {
	if total <= 0 || count <= 0 || width <= 0 {
		return ""
	}
	n := count * width / total
	if n == 0 {
		n = 1
	}
	bar := strings.Repeat(barChar, n)
	if useColor {
		return colorBar + bar + colorReset
	}
	return bar
}

func formatShare(count, total int) string {
	if total <= 0 {
		return "0.00%"
	}
	return fmt.Sprintf("%.2f%%", float64(count)/float64(total)*100)
}

func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return terminalWidthBackup
	}
	return width
}

func shouldUseColor(w io.Writer) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(file.Fd()))
}
