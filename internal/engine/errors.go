package engine

import (
	"errors"
	"fmt"

	"github.com/roach88/serress/internal/label"
)

// ErrorCode categorizes engine errors.
type ErrorCode string

const (
	// ErrCodeConflict indicates a determined cell was assigned a different label.
	ErrCodeConflict ErrorCode = "CONFLICT"

	// ErrCodeInvalidDimensions indicates a non-positive width or height.
	ErrCodeInvalidDimensions ErrorCode = "INVALID_DIMENSIONS"

	// ErrCodeStepsExceeded indicates a propagation pass exceeded its step budget.
	ErrCodeStepsExceeded ErrorCode = "STEPS_EXCEEDED"
)

// ConflictError is returned when an assignment disagrees with the label
// already determined for a cell. It means the seed data is inconsistent.
type ConflictError struct {
	Page      int
	P         int
	Q         int
	Existing  label.Label
	Attempted label.Label
}

// Error implements the error interface.
func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s: E_%d(%d,%d) is %s, cannot set %s",
		ErrCodeConflict, e.Page, e.P, e.Q, e.Existing, e.Attempted)
}

// Coord returns the position of the conflicting cell.
func (e *ConflictError) Coord() Coord {
	return Coord{Page: e.Page, P: e.P, Q: e.Q}
}

// InvalidDimensionsError is returned by NewSequence before any page is allocated.
type InvalidDimensionsError struct {
	Width  int
	Height int
}

// Error implements the error interface.
func (e *InvalidDimensionsError) Error() string {
	return fmt.Sprintf("%s: width and height must be positive, got %dx%d",
		ErrCodeInvalidDimensions, e.Width, e.Height)
}

// StepsExceededError is returned when a single propagation pass examines more
// cells than its budget allows. The rules are monotonic, so hitting the budget
// points at a bug rather than at the seed data.
type StepsExceededError struct {
	Steps int
	Limit int
}

// Error implements the error interface.
func (e *StepsExceededError) Error() string {
	return fmt.Sprintf("%s: propagation exceeded %d steps (%d taken)",
		ErrCodeStepsExceeded, e.Limit, e.Steps)
}

// IsConflict reports whether err wraps a *ConflictError.
func IsConflict(err error) bool {
	var ce *ConflictError
	return errors.As(err, &ce)
}

// IsInvalidDimensions reports whether err wraps an *InvalidDimensionsError.
func IsInvalidDimensions(err error) bool {
	var de *InvalidDimensionsError
	return errors.As(err, &de)
}

// IsStepsExceeded reports whether err wraps a *StepsExceededError.
func IsStepsExceeded(err error) bool {
	var se *StepsExceededError
	return errors.As(err, &se)
}
