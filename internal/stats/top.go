package stats

import (
	"sort"

	"github.com/verte-zerg/tcm/internal/model"
	"github.com/verte-zerg/tcm/internal/tcm"
)

// Flatten lists every (suspicious, correct) pair in table.
func Flatten(table *tcm.Table) []model.CorrectionAggregate {
	var out []model.CorrectionAggregate
	for _, suspicious := range table.SuspiciousMoves() {
		moves, _ := table.GetCorrectMoves(suspicious)
		for correct, count := range moves {
			out = append(out, model.CorrectionAggregate{
				Suspicious: suspicious,
				Correct:    correct,
				Count:      count,
			})
		}
	}
	SortByCount(out)
	return out
}

// SortByCount orders aggregates by count, highest first, then by moves.
func SortByCount(aggs []model.CorrectionAggregate) {
	sort.Slice(aggs, func(i, j int) bool {
		if aggs[i].Count != aggs[j].Count {
			return aggs[i].Count > aggs[j].Count
		}
		if aggs[i].Suspicious != aggs[j].Suspicious {
			return aggs[i].Suspicious < aggs[j].Suspicious
		}
		return aggs[i].Correct < aggs[j].Correct
	})
}

// TopCorrections returns the n most frequently confirmed pairs.
func TopCorrections(aggs []model.CorrectionAggregate, n int) []model.CorrectionAggregate {
	if n <= 0 || len(aggs) == 0 {
		return nil
	}
	items := make([]model.CorrectionAggregate, len(aggs))
	copy(items, aggs)
	SortByCount(items)
	if n > len(items) {
		n = len(items)
	}
	return items[:n]
}

// RankCorrectMoves orders the corrections of one suspicious move by count.
func RankCorrectMoves(suspicious string, moves map[string]int) []model.CorrectionAggregate {
	out := make([]model.CorrectionAggregate, 0, len(moves))
	for correct, count := range moves {
		out = append(out, model.CorrectionAggregate{Suspicious: suspicious, Correct: correct, Count: count})
	}
	SortByCount(out)
	return out
}
