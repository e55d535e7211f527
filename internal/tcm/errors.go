package tcm

import (
	"errors"
	"fmt"
)

var (
	// ErrSuspiciousMoveNotFound is matched by errors for unknown suspicious moves.
	ErrSuspiciousMoveNotFound = errors.New("suspicious move not found")
	// ErrCorrectMoveNotFound is matched by errors for unknown correct moves.
	ErrCorrectMoveNotFound = errors.New("correct move not found")
)

// NotFoundError reports a lookup of a move that was never added.
type NotFoundError struct {
	// Missing is ErrSuspiciousMoveNotFound or ErrCorrectMoveNotFound.
	Missing    error
	Suspicious string
	// Correct is only meaningful when Missing is ErrCorrectMoveNotFound.
	Correct string
	// AddFirst asks the caller to add the suspicious move before retrying.
	AddFirst bool
}

func (e *NotFoundError) Error() string {
	if e.Missing == ErrCorrectMoveNotFound {
		return fmt.Sprintf("Correct move '%s' does not exist for suspicious move '%s'.", e.Correct, e.Suspicious)
	}
	if e.AddFirst {
		return fmt.Sprintf("Suspicious move '%s' does not exist. Please add it first.", e.Suspicious)
	}
	return fmt.Sprintf("Suspicious move '%s' does not exist.", e.Suspicious)
}

// Is lets errors.Is match the sentinel for the missing level.
func (e *NotFoundError) Is(target error) bool {
	return target == e.Missing
}
