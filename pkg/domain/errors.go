package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Validation failures. All of them are detected before any process is
// spawned and can be fixed by the caller.
var (
	ErrMissingField         = errors.New("missing field")
	ErrMalformedField       = errors.New("malformed field")
	ErrOutOfRange           = errors.New("value out of range")
	ErrAsymmetricMatrix     = errors.New("asymmetric matrix")
	ErrNonPhysical          = errors.New("non-physical material")
	ErrReciprocityViolation = errors.New("reciprocity violation")
	ErrSingularMatrix       = errors.New("singular matrix")
)

// ErrUnknownKind is returned when a material tag does not name a known variant.
var ErrUnknownKind = errors.New("unknown material kind")

// ErrNoTensor is returned when a 6x6 tensor is requested for a material that has none (springs).
var ErrNoTensor = errors.New("material has no constitutive tensor")

// ErrMaterialNotFound is returned when a material name cannot be found in a store.
var ErrMaterialNotFound = errors.New("material not found")

// ErrUnsupportedPlatform is returned when the host OS cannot run the solver at all.
var ErrUnsupportedPlatform = errors.New("unsupported platform")

// Execution failures.
var (
	ErrExecutableNotFound = errors.New("executable not found")
	ErrInvalidInput       = errors.New("invalid input")
	ErrProcessLaunch      = errors.New("process launch failed")
	ErrCancelled          = errors.New("cancelled")
)

// ValidationError represents a single field validation failure.
type ValidationError struct {
	Field  string // Field name, empty for whole-material checks
	Code   error  // One of the validation sentinels
	Reason string // Human-readable reason for failure
	Value  any    // The value that failed validation
}

func (e *ValidationError) Error() string {
	var sb strings.Builder
	sb.WriteString(e.Code.Error())
	if e.Field != "" {
		fmt.Fprintf(&sb, ": field %q", e.Field)
	}
	if e.Reason != "" {
		sb.WriteString(": ")
		sb.WriteString(e.Reason)
	}
	if e.Value != nil {
		fmt.Fprintf(&sb, " (got %v)", e.Value)
	}
	return sb.String()
}

func (e *ValidationError) Unwrap() error {
	return e.Code
}

// AggregateError represents multiple validation failures.
type AggregateError struct {
	Errors []error
}

func (e *AggregateError) Error() string {
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	msg := fmt.Sprintf("%d validation errors:\n", len(e.Errors))
	for i, err := range e.Errors {
		msg += fmt.Sprintf("  %d. %s\n", i+1, err.Error())
	}
	return msg
}

func (e *AggregateError) Unwrap() []error {
	return e.Errors
}

// ValidationErrors flattens err into its individual validation failures.
// Returns nil if err is nil.
func ValidationErrors(err error) []error {
	if err == nil {
		return nil
	}
	var aggr *AggregateError
	if errors.As(err, &aggr) {
		return aggr.Errors
	}
	return []error{err}
}

// ExecutionError wraps a solver execution failure with the operation and
// path involved. The underlying OS error is preserved in Err.
type ExecutionError struct {
	Op   string // "validate", "launch", "run"
	Path string
	Code error // One of the execution sentinels
	Err  error
}

func (e *ExecutionError) Error() string {
	msg := fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Code)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ExecutionError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Code}
	}
	return []error{e.Code, e.Err}
}
