// Package notation checks chess move strings before they reach the table.
package notation

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	// Coordinate moves such as e2e4 or e7e8q.
	uciPattern = regexp.MustCompile(`^[a-h][1-8][a-h][1-8][qrbn]?$`)
	// Standard algebraic moves such as e4, Nf3, exd5, Qh4xe1, e8=Q+.
	sanPattern    = regexp.MustCompile(`^(?:[KQRBN][a-h]?[1-8]?x?[a-h][1-8]|[a-h](?:x[a-h])?[1-8](?:=[QRBN])?)[+#]?$`)
	castlePattern = regexp.MustCompile(`^(?:O-O(?:-O)?|0-0(?:-0)?)[+#]?$`)
)

// Kind is the notation a move string was written in.
type Kind int

// Recognized notations.
const (
	Unknown Kind = iota
	UCI
	SAN
)

func (k Kind) String() string {
	switch k {
	case UCI:
		return "uci"
	case SAN:
		return "san"
	default:
		return "unknown"
	}
}

// Normalize trims surrounding whitespace.
func Normalize(move string) string {
	return strings.TrimSpace(move)
}

// Classify reports which notation move is written in.
func Classify(move string) Kind {
	switch {
	case uciPattern.MatchString(move):
		return UCI
	case sanPattern.MatchString(move), castlePattern.MatchString(move):
		return SAN
	default:
		return Unknown
	}
}

// Validate returns an error unless move is a UCI or SAN move.
func Validate(move string) error {
	if move == "" {
		return fmt.Errorf("move must not be empty")
	}
	if Classify(move) == Unknown {
		return fmt.Errorf("invalid move %q: expected UCI (e2e4) or SAN (Nf3)", move)
	}
	return nil
}
