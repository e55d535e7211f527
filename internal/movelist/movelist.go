// Package movelist loads suspicious/correct move pairs from files.
package movelist

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/verte-zerg/tcm/internal/model"
)

// LoadPairs reads one "suspicious correct" pair per line from path.
// Blank lines and lines starting with '#' are skipped.
func LoadPairs(path string) ([]model.MovePair, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			// Best-effort close for read-only pair list.
			_ = cerr
		}
	}()
	return ReadPairs(file)
}

// ReadPairs parses pairs from r.
func ReadPairs(r io.Reader) ([]model.MovePair, error) {
	var pairs []model.MovePair
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) != 2 {
			return nil, fmt.Errorf("line %d: expected \"<suspicious> <correct>\", got %q", lineNo, line)
		}
		pairs = append(pairs, model.MovePair{Suspicious: fields[0], Correct: fields[1]})
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(pairs) == 0 {
		return nil, fmt.Errorf("pair list is empty")
	}
	return pairs, nil
}
