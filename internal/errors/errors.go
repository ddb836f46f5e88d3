// Package errors provides centralized error definitions and error handling utilities
// for taglog. It defines the sentinel errors shared by the logging core and the
// CLI, the typed errors returned at the transport dispatch boundary, and
// classification helpers.
//
// # Error Types
//
// Two typed errors exist:
//   - TransportError: a single transport failed to accept a record
//   - MisuseError: a programming error such as initializing the default
//     registry twice or using a facade that is not bound to a registry
//
// # Usage
//
// Creating errors:
//
//	err := errors.NewTransportError("file", ioErr)
//	err := errors.NewMisuseError("default registry", errors.ErrAlreadyInitialized)
//
// Checking errors:
//
//	if errors.Is(err, errors.ErrAlreadyInitialized) { ... }
//
//	var te *errors.TransportError
//	if errors.As(err, &te) { fmt.Println(te.Name) }
//
//	if errors.IsMisuse(err) { panic(err) }
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Re-export standard library functions for convenience.
// This allows callers to import only this package for all error handling.
var (
	Is     = errors.Is
	As     = errors.As
	Unwrap = errors.Unwrap
	New    = errors.New
	Join   = errors.Join
)

// Severity represents the severity level of an error.
type Severity int

const (
	// SeverityWarning is for errors that might indicate a problem but aren't critical.
	SeverityWarning Severity = iota
	// SeverityError is for errors that indicate a real problem.
	SeverityError
	// SeverityCritical is for errors that require immediate attention.
	SeverityCritical
)

// String returns the string representation of the severity level.
func (s Severity) String() string {
	switch s {
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	case SeverityCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// -----------------------------------------------------------------------------
// Sentinel Errors
// -----------------------------------------------------------------------------

// Configuration sentinel errors
var (
	// ErrInvalidLevel indicates that a level name or number is not recognized.
	ErrInvalidLevel = New("invalid log level")
	// ErrInvalidShard indicates a negative shard number.
	ErrInvalidShard = New("shard must be non-negative")
	// ErrInvalidDate indicates a day file name that is not a real calendar date.
	ErrInvalidDate = New("invalid date string")
	// ErrNoneLevel indicates an attempt to emit a record at the NONE level.
	ErrNoneLevel = New("cannot emit a record at level NONE")
)

// Misuse sentinel errors
var (
	// ErrAlreadyInitialized indicates that the default registry was already constructed.
	ErrAlreadyInitialized = New("singleton already initialized")
	// ErrNilRegistry indicates a Logger that was not created through logging.New.
	ErrNilRegistry = New("logger is not bound to a registry")
)

// I/O sentinel errors
var (
	// ErrTransportClosed indicates a write to a transport after Close.
	ErrTransportClosed = New("transport is closed")
)

// -----------------------------------------------------------------------------
// Base Error Interface
// -----------------------------------------------------------------------------

// LogError is the base interface for all taglog errors.
type LogError interface {
	error

	// Unwrap returns the underlying error, if any.
	Unwrap() error

	// Is reports whether this error matches the target error.
	Is(target error) bool

	// Severity returns the severity level of this error.
	Severity() Severity
}

// baseError provides common functionality for all error types.
type baseError struct {
	message  string
	cause    error
	severity Severity
}

// Error returns the error message.
func (e *baseError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.message, e.cause)
	}
	return e.message
}

// Unwrap returns the underlying error.
func (e *baseError) Unwrap() error {
	return e.cause
}

// Is checks if this error matches the target.
func (e *baseError) Is(target error) bool {
	if e.cause != nil {
		return errors.Is(e.cause, target)
	}
	return false
}

// Severity returns the error severity.
func (e *baseError) Severity() Severity {
	return e.severity
}

// -----------------------------------------------------------------------------
// Transport Errors
// -----------------------------------------------------------------------------

// TransportError reports that one registered transport failed to write a record.
// Dispatch to the remaining transports continues.
//
// Example:
//
//	err := errors.NewTransportError("file", io.ErrShortWrite).WithTag("Foo")
//	fmt.Println(err) // "transport error [transport=file, tag=Foo]: write failed: short write"
type TransportError struct {
	baseError
	Name string
	Tag  string
}

// NewTransportError creates a new TransportError for the named transport.
func NewTransportError(name string, cause error) *TransportError {
	return &TransportError{
		baseError: baseError{
			message:  "write failed",
			cause:    cause,
			severity: SeverityError,
		},
		Name: name,
	}
}

// WithTag records the tag of the record that failed to write.
func (e *TransportError) WithTag(tag string) *TransportError {
	e.Tag = tag
	return e
}

// WithSeverity sets the error severity.
func (e *TransportError) WithSeverity(s Severity) *TransportError {
	e.severity = s
	return e
}

// Error returns the formatted error message.
func (e *TransportError) Error() string {
	var parts []string
	if e.Name != "" {
		parts = append(parts, fmt.Sprintf("transport=%s", e.Name))
	}
	if e.Tag != "" {
		parts = append(parts, fmt.Sprintf("tag=%s", e.Tag))
	}

	prefix := "transport error"
	if len(parts) > 0 {
		prefix = fmt.Sprintf("transport error [%s]", strings.Join(parts, ", "))
	}

	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", prefix, e.message, e.cause)
	}
	return fmt.Sprintf("%s: %s", prefix, e.message)
}

// Is checks if this error matches the target.
func (e *TransportError) Is(target error) bool {
	if _, ok := target.(*TransportError); ok {
		return true
	}
	return e.baseError.Is(target)
}

// -----------------------------------------------------------------------------
// Misuse Errors
// -----------------------------------------------------------------------------

// MisuseError represents a programming error. It is never recovered from at
// runtime; callers surface it during initialization.
type MisuseError struct {
	baseError
	Subject string
}

// NewMisuseError creates a new MisuseError about the given subject.
func NewMisuseError(subject string, cause error) *MisuseError {
	return &MisuseError{
		baseError: baseError{
			message:  "misuse of " + subject,
			cause:    cause,
			severity: SeverityCritical,
		},
		Subject: subject,
	}
}

// Is checks if this error matches the target.
func (e *MisuseError) Is(target error) bool {
	if _, ok := target.(*MisuseError); ok {
		return true
	}
	return e.baseError.Is(target)
}

// -----------------------------------------------------------------------------
// Error Classification Helpers
// -----------------------------------------------------------------------------

// IsMisuse returns true if the error is a programming error: a MisuseError
// or one of the misuse sentinels.
func IsMisuse(err error) bool {
	if err == nil {
		return false
	}

	var misuse *MisuseError
	if As(err, &misuse) {
		return true
	}
	return Is(err, ErrAlreadyInitialized) || Is(err, ErrNilRegistry)
}

// GetSeverity returns the severity level of the error.
// Returns SeverityError for errors that don't implement LogError.
func GetSeverity(err error) Severity {
	if err == nil {
		return SeverityWarning
	}

	var logErr LogError
	if As(err, &logErr) {
		return logErr.Severity()
	}

	return SeverityError
}

// Wrap wraps an error with additional context message.
//
// Example:
//
//	err := errors.Wrap(baseErr, "failed to open log file")
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with a formatted context message.
func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}
