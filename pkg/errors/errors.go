// Package errors provides structured error handling for Prism
package errors

import (
	"errors"
	"fmt"
	"runtime"
)

// ErrorType represents the category of error
type ErrorType string

const (
	// ErrorTypeInternal represents internal system errors
	ErrorTypeInternal ErrorType = "internal"
	// ErrorTypeConfig represents configuration errors
	ErrorTypeConfig ErrorType = "config"
	// ErrorTypeFile represents file and network read errors
	ErrorTypeFile ErrorType = "file"
	// ErrorTypeDataFormat represents malformed tabular input, such as a
	// missing or non-unique identifier column
	ErrorTypeDataFormat ErrorType = "data_format"
	// ErrorTypeEmptyDataset indicates that no numeric columns survived
	// cleaning
	ErrorTypeEmptyDataset ErrorType = "empty_dataset"
	// ErrorTypeDegenerateColumn indicates a zero-variance column during
	// standardization
	ErrorTypeDegenerateColumn ErrorType = "degenerate_column"
	// ErrorTypeRankDeficiency indicates perfectly collinear columns in the
	// decomposition input. It is a warning: the decomposition still
	// produces a basis, with near-zero variance on the dependent
	// directions.
	ErrorTypeRankDeficiency ErrorType = "rank_deficiency"
	// ErrorTypeInvalidThreshold indicates a cumulative-variance threshold
	// outside (0, 1]
	ErrorTypeInvalidThreshold ErrorType = "invalid_threshold"
	// ErrorTypeNoComponents indicates that the selection policy would
	// retain zero components
	ErrorTypeNoComponents ErrorType = "no_components"
)

// Error represents a structured error with context
type Error struct {
	Type    ErrorType
	Message string
	Cause   error
	Details map[string]interface{}
	Stack   []StackFrame
}

// StackFrame represents a single frame in the call stack
type StackFrame struct {
	Function string
	File     string
	Line     int
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// WithDetail adds a key-value detail to the error. Details carry the
// context a caller needs to diagnose a failed run: the offending column
// name, the row count, the threshold value.
func (e *Error) WithDetail(key string, value interface{}) *Error {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// Detail returns the detail stored under key, or nil if absent.
func (e *Error) Detail(key string) interface{} {
	if e.Details == nil {
		return nil
	}
	return e.Details[key]
}

// New creates a new error with the given type and message
func New(errType ErrorType, message string) *Error {
	return &Error{
		Type:    errType,
		Message: message,
		Stack:   captureStack(2),
	}
}

// Newf creates a new error with a formatted message
func Newf(errType ErrorType, format string, args ...interface{}) *Error {
	return &Error{
		Type:    errType,
		Message: fmt.Sprintf(format, args...),
		Stack:   captureStack(2),
	}
}

// Wrap wraps an existing error with additional context
func Wrap(err error, errType ErrorType, message string) *Error {
	if err == nil {
		return nil
	}

	// If already our error type, preserve the stack
	var existingErr *Error
	if errors.As(err, &existingErr) {
		return &Error{
			Type:    errType,
			Message: message,
			Cause:   err,
			Stack:   existingErr.Stack,
		}
	}

	return &Error{
		Type:    errType,
		Message: message,
		Cause:   err,
		Stack:   captureStack(2),
	}
}

// IsWarning returns true if the error is advisory rather than fatal to
// the pipeline run. Callers should log warnings and continue with the
// result that accompanies them.
func IsWarning(err error) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Type == ErrorTypeRankDeficiency
}

// As delegates to the standard library so callers do not need a second
// errors import.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// IsType checks if the error is of the given type
func IsType(err error, errType ErrorType) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Type == errType
}

// captureStack captures the current call stack
func captureStack(skip int) []StackFrame {
	const maxFrames = 32
	frames := make([]StackFrame, 0, maxFrames)

	for i := skip; i < maxFrames+skip; i++ {
		pc, file, line, ok := runtime.Caller(i)
		if !ok {
			break
		}

		fn := runtime.FuncForPC(pc)
		if fn == nil {
			continue
		}

		frames = append(frames, StackFrame{
			Function: fn.Name(),
			File:     file,
			Line:     line,
		})
	}

	return frames
}
