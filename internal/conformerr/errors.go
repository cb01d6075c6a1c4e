// Package conformerr defines the failure taxonomy for formatconform.
//
// Every error raised while preparing or executing a conformance run maps to
// exactly one Class. The class decides how the runner reacts: setup failures
// abort a format before any case runs, authoring failures mark a single case
// as errored, and unsupported formats turn a whole fixture into skips.
package conformerr

import (
	"errors"
	"fmt"
)

// Class is a stable failure category.
type Class string

const (
	FixtureNotFound      Class = "FIXTURE_NOT_FOUND"
	FixtureMalformed     Class = "FIXTURE_MALFORMED"
	MissingParameter     Class = "MISSING_PARAMETER"
	UnsupportedValueKind Class = "UNSUPPORTED_VALUE_KIND"
	UnknownTemplateKey   Class = "UNKNOWN_TEMPLATE_KEY"
	UnsupportedFormat    Class = "UNSUPPORTED_FORMAT"
	CatalogInvalid       Class = "CATALOG_INVALID"
	LedgerIO             Class = "LEDGER_IO"
)

// Setup reports whether the class aborts a run before any case executes.
func (c Class) Setup() bool {
	switch c {
	case FixtureNotFound, FixtureMalformed, CatalogInvalid, LedgerIO:
		return true
	default:
		return false
	}
}

// Authoring reports whether the class points at a broken test definition
// rather than at the validator under test.
func (c Class) Authoring() bool {
	switch c {
	case MissingParameter, UnsupportedValueKind, UnknownTemplateKey:
		return true
	default:
		return false
	}
}

// Error is the structured error type for all harness failures.
type Error struct {
	Class   Class
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Class, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Class, e.Message)
}

// Unwrap returns the underlying cause, if any.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error with the given class and message.
func New(class Class, message string) *Error {
	return &Error{Class: class, Message: message}
}

// Newf creates a new Error with a formatted message.
func Newf(class Class, format string, args ...any) *Error {
	return &Error{Class: class, Message: fmt.Sprintf(format, args...)}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(class Class, message string, cause error) *Error {
	return &Error{Class: class, Message: message, Cause: cause}
}

// ClassOf returns the class of the first *Error in err's chain.
func ClassOf(err error) (Class, bool) {
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Class, true
	}
	return "", false
}

// Is reports whether err carries the given class anywhere in its chain.
func Is(err error, class Class) bool {
	for err != nil {
		var ce *Error
		if !errors.As(err, &ce) {
			return false
		}
		if ce.Class == class {
			return true
		}
		err = ce.Cause
	}
	return false
}
