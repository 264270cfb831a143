package catalog

import (
	"errors"
	"fmt"

	cueerrors "cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"
)

// CompileError is an invalid catalog entry, with its CUE source position.
type CompileError struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *CompileError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// LoadError is a directory that could not be read as a CUE package.
type LoadError struct {
	Dir     string
	Message string
	Err     error
}

func (e *LoadError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Dir, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Dir, e.Message)
}

func (e *LoadError) Unwrap() error { return e.Err }

// UnknownExampleError is a lookup that matched no key or name.
type UnknownExampleError struct {
	Name string
}

func (e *UnknownExampleError) Error() string {
	return fmt.Sprintf("unknown example %q", e.Name)
}

// IsUnknownExample reports whether err is an *UnknownExampleError.
func IsUnknownExample(err error) bool {
	var target *UnknownExampleError
	return errors.As(err, &target)
}

// IsLoadError reports whether err is a *LoadError.
func IsLoadError(err error) bool {
	var target *LoadError
	return errors.As(err, &target)
}

// formatCUEError keeps the first CUE error and its position.
func formatCUEError(err error) error {
	if err == nil {
		return nil
	}
	errs := cueerrors.Errors(err)
	if len(errs) == 0 {
		return err
	}
	first := errs[0]
	if positions := cueerrors.Positions(first); len(positions) > 0 {
		return &CompileError{Field: "cue", Message: first.Error(), Pos: positions[0]}
	}
	return &CompileError{Field: "cue", Message: first.Error()}
}
