// Package errors provides error handling for oqa.
//
// It re-exports github.com/cockroachdb/errors so callers get stack traces,
// wrapping, and sentinel matching from a single import:
//
//	if err := doSomething(); err != nil {
//	    return errors.Wrap(err, "build oracle")
//	}
//
//	if errors.Is(err, errors.ErrUnknownTarget) {
//	    // target id not in the attribute table
//	}
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
	WithHint     = crdb.WithHint
	WithHintf    = crdb.WithHintf
	WithDetail   = crdb.WithDetail
	WithDetailf  = crdb.WithDetailf
)

// Error inspection
var (
	Is        = crdb.Is
	IsAny     = crdb.IsAny
	As        = crdb.As
	Unwrap    = crdb.Unwrap
	UnwrapAll = crdb.UnwrapAll
)

// Assertions
var (
	AssertionFailedf = crdb.AssertionFailedf
)

// Sentinel errors for the oracle computation and its surrounding tooling.
// Use with errors.Is(); wrap with errors.Wrap() to add context while
// preserving the kind.
var (
	// ErrEmptyTable indicates an oracle was constructed from a table with no objects
	ErrEmptyTable = New("attribute table is empty")

	// ErrUnknownTarget indicates a requested target id is absent from the table
	ErrUnknownTarget = New("unknown target id")

	// ErrNoTargets indicates an aggregation was requested over zero targets
	ErrNoTargets = New("no target ids given")

	// ErrInvalidInput indicates a malformed dataset file or table
	ErrInvalidInput = New("invalid input")

	// ErrNotFound indicates the requested resource does not exist
	ErrNotFound = New("not found")
)

// IsUnknownTarget checks if an error is or wraps ErrUnknownTarget
func IsUnknownTarget(err error) bool {
	return err != nil && Is(err, ErrUnknownTarget)
}

// IsNotFoundError checks if an error is or wraps ErrNotFound
func IsNotFoundError(err error) bool {
	return err != nil && Is(err, ErrNotFound)
}

// NewUnknownTargetError creates an unknown-target error naming the offending id
func NewUnknownTargetError(targetID string) error {
	return Wrapf(ErrUnknownTarget, "target %q", targetID)
}

// NewInvalidInputError creates an invalid-input error with a formatted message
func NewInvalidInputError(format string, args ...interface{}) error {
	return Wrap(ErrInvalidInput, Newf(format, args...).Error())
}
