// Package errors provides error handling for inkwell.
//
// This package re-exports github.com/cockroachdb/errors, providing stack
// traces, error wrapping, and user-facing hints, plus the sentinel errors
// used across the engine.
//
// Usage:
//
//	// Create new error
//	err := errors.New("something went wrong")
//
//	// Wrap with context
//	if err := doSomething(); err != nil {
//	    return errors.Wrap(err, "failed to do something")
//	}
//
//	// Check errors
//	if errors.Is(err, errors.ErrImport) {
//	    // drop the importing item
//	}
//
// For full documentation see: https://pkg.go.dev/github.com/cockroachdb/errors
package errors

import (
	crdb "github.com/cockroachdb/errors"
)

// Core error creation and wrapping
var (
	New          = crdb.New
	Newf         = crdb.Newf
	Wrap         = crdb.Wrap
	Wrapf        = crdb.Wrapf
	WithStack    = crdb.WithStack
	WithMessage  = crdb.WithMessage
	WithMessagef = crdb.WithMessagef
)

// User-facing messages and details
var (
	WithHint    = crdb.WithHint
	WithHintf   = crdb.WithHintf
	WithDetail  = crdb.WithDetail
	WithDetailf = crdb.WithDetailf
)

// Error inspection
var (
	Is        = crdb.Is
	IsAny     = crdb.IsAny
	As        = crdb.As
	Unwrap    = crdb.Unwrap
	UnwrapAll = crdb.UnwrapAll
)

// Sentinel errors for the configuration and invocation pipeline.
// Wrap these with errors.Wrap() to add context while preserving the type,
// and check them with errors.Is().
var (
	// ErrConfig indicates a malformed field while loading a configuration spec.
	// The offending item is dropped from the catalog, never fatal.
	ErrConfig = New("invalid configuration")

	// ErrImport indicates a missing, cyclic, or type-mismatched import parent.
	// The importing item is dropped from the catalog.
	ErrImport = New("import failed")

	// ErrCredential indicates a server's required credential is not configured.
	// The server and its endpoints are dismissed.
	ErrCredential = New("missing credential")

	// ErrPathQuery indicates a path or filter expression could not be
	// compiled or evaluated. Per-item evaluation failures exclude the item
	// from the match set without aborting the query.
	ErrPathQuery = New("path query failed")

	// ErrNotFound indicates the requested prompt, endpoint, or input does
	// not exist in the current catalog snapshot.
	ErrNotFound = New("not found")

	// ErrTimeout indicates an invocation exceeded its time budget. The
	// in-flight call is abandoned, not cancelled.
	ErrTimeout = New("operation timed out")

	// ErrNoOutput indicates a completed invocation produced no usable
	// output text. No buffer mutation is attempted.
	ErrNoOutput = New("no output")
)

// IsNotFoundError checks if an error is or wraps ErrNotFound.
func IsNotFoundError(err error) bool {
	return err != nil && Is(err, ErrNotFound)
}

// IsTimeoutError checks if an error is or wraps ErrTimeout.
func IsTimeoutError(err error) bool {
	return err != nil && Is(err, ErrTimeout)
}

// NewConfigError creates a config error with a formatted message.
func NewConfigError(format string, args ...interface{}) error {
	return Wrap(ErrConfig, Newf(format, args...).Error())
}

// NewImportError creates an import error with a formatted message.
func NewImportError(format string, args ...interface{}) error {
	return Wrap(ErrImport, Newf(format, args...).Error())
}
