package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"

	"github.com/roach88/serress/internal/catalog"
	"github.com/roach88/serress/internal/engine"
	"github.com/roach88/serress/internal/label"
)

// Exit codes for CLI commands.
const (
	ExitSuccess      = 0 // Successful execution
	ExitFailure      = 1 // Conflict, exhausted budget or failed scenarios
	ExitCommandError = 2 // Command error (bad flags, unknown example, missing files)
)

// Error code constants, shared by every command.
const (
	ErrCodeGeneric           = "E001" // Generic/unknown error
	ErrCodeLoadFailed        = "E004" // Catalog or scenario could not be loaded
	ErrCodeNotFound          = "E005" // Path not found
	ErrCodeConflict          = "E010" // Contradictory seeds
	ErrCodeInvalidDimensions = "E011" // Width or height below 1
	ErrCodeUnknownExample    = "E012" // No catalog entry with that name
	ErrCodeInvalidLabel      = "E013" // Label text could not be parsed
	ErrCodeStepsExceeded     = "E014" // Propagation budget exhausted
	ErrCodeScenarioFailed    = "E020" // One or more scenarios failed
)

// ExitError represents an error with a specific exit code.
// Use this to return errors with meaningful exit codes from CLI commands.
type ExitError struct {
	Code    int    // Exit code (use ExitFailure or ExitCommandError)
	Message string // Error message
	Err     error  // Underlying error (optional)

	reported bool // already written by an OutputFormatter
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// NewExitError creates a new ExitError with the given code and message.
func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

// WrapExitError wraps an existing error with an exit code.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode extracts the exit code from an error.
// Returns ExitFailure (1) if the error is not an ExitError.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// isReported reports whether err was already written to the user.
func isReported(err error) bool {
	var exitErr *ExitError
	return errors.As(err, &exitErr) && exitErr.reported
}

// Classify maps a domain error to its CLI error code and exit code.
func Classify(err error) (string, int) {
	var (
		compileErr *catalog.CompileError
		parseErr   *label.ParseError
		exitErr    *ExitError
	)
	switch {
	case engine.IsConflict(err):
		return ErrCodeConflict, ExitFailure
	case engine.IsStepsExceeded(err):
		return ErrCodeStepsExceeded, ExitFailure
	case engine.IsInvalidDimensions(err):
		return ErrCodeInvalidDimensions, ExitCommandError
	case catalog.IsUnknownExample(err):
		return ErrCodeUnknownExample, ExitCommandError
	case errors.Is(err, fs.ErrNotExist):
		return ErrCodeNotFound, ExitCommandError
	case catalog.IsLoadError(err), errors.As(err, &compileErr):
		return ErrCodeLoadFailed, ExitCommandError
	case errors.As(err, &parseErr):
		return ErrCodeInvalidLabel, ExitCommandError
	case errors.As(err, &exitErr):
		return ErrCodeGeneric, exitErr.Code
	default:
		return ErrCodeGeneric, ExitFailure
	}
}

// OutputFormatter handles JSON vs text output for CLI commands.
type OutputFormatter struct {
	Format    string
	Writer    io.Writer
	ErrWriter io.Writer // Separate writer for verbose/diagnostic output (defaults to Writer)
	Verbose   bool
	RunID     string // included in JSON responses when set
}

// CLIResponse is the standard JSON response format for CLI output.
type CLIResponse struct {
	Status string    `json:"status"`           // "ok" or "error"
	Data   any       `json:"data,omitempty"`   // success payload
	Error  *CLIError `json:"error,omitempty"`  // error details
	RunID  string    `json:"run_id,omitempty"` // correlates with log lines
}

// CLIError is the error structure for CLI responses.
type CLIError struct {
	Code    string `json:"code"`              // "E001", "E010", etc.
	Message string `json:"message"`           // human-readable message
	Details any    `json:"details,omitempty"` // additional context
}

// Success outputs a successful result in the configured format.
func (f *OutputFormatter) Success(data any) error {
	if f.Format == "json" {
		return json.NewEncoder(f.Writer).Encode(CLIResponse{
			Status: "ok",
			Data:   data,
			RunID:  f.RunID,
		})
	}

	fmt.Fprintln(f.Writer, data)
	return nil
}

// Error outputs an error in the configured format.
func (f *OutputFormatter) Error(code, message string, details any) error {
	if f.Format == "json" {
		return json.NewEncoder(f.Writer).Encode(CLIResponse{
			Status: "error",
			Error: &CLIError{
				Code:    code,
				Message: message,
				Details: details,
			},
			RunID: f.RunID,
		})
	}

	fmt.Fprintf(f.Writer, "Error [%s]: %s\n", code, message)
	if f.Verbose && details != nil {
		fmt.Fprintf(f.Writer, "Details: %v\n", details)
	}
	return nil
}

// Fail writes err with its classified code and returns the ExitError the
// command should return.
func (f *OutputFormatter) Fail(err error, details any) error {
	code, exit := Classify(err)
	if writeErr := f.Error(code, err.Error(), details); writeErr != nil {
		return writeErr
	}
	return &ExitError{Code: exit, Message: err.Error(), Err: err, reported: true}
}

// VerboseLog outputs a message only if verbose mode is enabled.
// Uses ErrWriter if set, otherwise falls back to Writer.
func (f *OutputFormatter) VerboseLog(format string, args ...any) {
	if !f.Verbose {
		return
	}
	fmt.Fprintf(f.GetErrWriter(), format+"\n", args...)
}

// GetErrWriter returns the appropriate writer for diagnostic output.
// Returns ErrWriter if set, otherwise Writer.
func (f *OutputFormatter) GetErrWriter() io.Writer {
	if f.ErrWriter != nil {
		return f.ErrWriter
	}
	return f.Writer
}
