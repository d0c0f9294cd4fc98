// Package toolerrors provides the structured error taxonomy used throughout
// the runtime. ToolError preserves a message and an optional
// cause chain while still implementing the standard error interface, and
// carries the fields needed to render a tool.Result failure envelope:
// Name, Guidance, and Retryable.
package toolerrors

import (
	"errors"
	"fmt"
)

// ToolError represents a structured failure produced by a tool invocation,
// the Toolkit dispatcher, or a GraphAgent run. Name is the taxonomy key
// looked up in a Tool's ErrorPolicy; Guidance is operator-
// facing remediation text; Retryable mirrors the error policy's decision at
// the point the error was finalized (false once retries are exhausted).
type ToolError struct {
	// Name is the taxonomy key (e.g. "ValidationError", "UserRejected",
	// "Canceled"); see the Name* constants below for the full taxonomy.
	Name string
	// Message is the human-readable summary of the failure.
	Message string
	// Guidance is optional remediation text surfaced from a Tool's
	// ErrorPolicy entry.
	Guidance string
	// Retryable records whether the error was eligible for another retry
	// attempt. Always false on the terminal Result — by construction a
	// retryable error is only returned once retries are exhausted.
	Retryable bool
	// Cause links to the underlying error, enabling error chains with
	// errors.Is/As.
	Cause error
}

// New constructs a non-retryable ToolError with the given taxonomy name and
// message.
func New(name, message string) *ToolError {
	if name == "" {
		name = "UnknownError"
	}
	return &ToolError{Name: name, Message: message}
}

// Errorf formats a message and returns it as a ToolError with the given name.
func Errorf(name, format string, args ...any) *ToolError {
	return New(name, fmt.Sprintf(format, args...))
}

// Wrap constructs a ToolError that wraps an underlying error, preserving it
// as Cause. If err is already a *ToolError, its fields are copied as the
// starting point; a non-empty name replaces the copied Name, and an empty
// name keeps it.
func Wrap(name string, err error) *ToolError {
	if err == nil {
		return New(name, "")
	}
	var te *ToolError
	if errors.As(err, &te) {
		out := *te
		if name != "" {
			out.Name = name
		}
		out.Cause = err
		return &out
	}
	return &ToolError{Name: name, Message: err.Error(), Cause: err}
}

// Error implements the error interface.
func (e *ToolError) Error() string {
	if e == nil {
		return ""
	}
	if e.Name != "" {
		return fmt.Sprintf("%s: %s", e.Name, e.Message)
	}
	return e.Message
}

// Unwrap returns the underlying cause to support errors.Is/As.
func (e *ToolError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// Is reports whether target is a *ToolError with the same Name, so callers
// can write errors.Is(err, toolerrors.New("Canceled", "")) style checks
// against a sentinel constructed purely for comparison.
func (e *ToolError) Is(target error) bool {
	var te *ToolError
	if !errors.As(target, &te) || te == nil || e == nil {
		return false
	}
	return e.Name == te.Name
}

// Well-known taxonomy names. Tools and the runtime should
// use these constants rather than ad hoc strings so that Is() comparisons
// are reliable.
const (
	NameValidationError      = "ValidationError"
	NameUserRejected         = "UserRejected"
	NameRetryableToolError   = "RetryableToolError"
	NameNonRetryableError    = "NonRetryableToolError"
	NameCanceled             = "Canceled"
	NameGraphValidationError = "GraphValidationError"
	NameNoEntryNodes         = "NoEntryNodes"
	NameEdgeAnalysisError    = "EdgeAnalysisError"
	NameCheckpointRestore    = "CheckpointRestoreError"
	NameUnregisteredTool     = "UnregisteredTool"
	NameAlreadyRegistered    = "AlreadyRegistered"
	NameUnknownError         = "UnknownError"
)
