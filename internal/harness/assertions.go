package harness

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/roach88/formatconform/internal/format"
	"github.com/roach88/formatconform/internal/ir"
)

// Assertion types, in the order Match checks them.
const (
	AssertKeyword  = "keyword"
	AssertFormat   = "format"
	AssertMessage  = "message"
	AssertContents = "contents"
	AssertValue    = "value"
)

// AssertionError is returned when a captured diagnostic does not match the
// fixture expectation.
type AssertionError struct {
	Type     string // Assertion type for categorization
	Expected string // Human-readable expected outcome
	Actual   string // Human-readable actual outcome
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder
	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s", e.Actual)
	return buf.String()
}

// Expectation is what a diagnostic must look like for an invalid case.
type Expectation struct {
	Format   string
	Message  string
	Contents ir.IRObject // nil skips the contents check
	Value    ir.IRValue
}

// Match compares a diagnostic against an expectation and returns the first
// mismatch, or nil.
//
// Checks run in order: keyword and format name, message text, contents,
// value. Contents are compared only when the expectation carries them, and
// as a subset: every expected key must be present in the diagnostic with an
// equal value, extra diagnostic keys are ignored.
func Match(actual format.Diagnostic, want Expectation) *AssertionError {
	if actual.Keyword != format.Keyword {
		return &AssertionError{
			Type:     AssertKeyword,
			Expected: strconv.Quote(format.Keyword),
			Actual:   strconv.Quote(actual.Keyword),
		}
	}

	if actual.Attribute != want.Format {
		return &AssertionError{
			Type:     AssertFormat,
			Expected: strconv.Quote(want.Format),
			Actual:   strconv.Quote(actual.Attribute),
		}
	}

	if actual.Message != want.Message {
		return &AssertionError{
			Type:     AssertMessage,
			Expected: strconv.Quote(want.Message),
			Actual:   strconv.Quote(actual.Message),
		}
	}

	if want.Contents != nil {
		for _, k := range want.Contents.SortedKeys() {
			got, ok := actual.Contents[k]
			if !ok {
				return &AssertionError{
					Type:     AssertContents + "." + k,
					Expected: ir.Render(want.Contents[k]),
					Actual:   "<absent>",
				}
			}
			if !ir.Equal(want.Contents[k], got) {
				return &AssertionError{
					Type:     AssertContents + "." + k,
					Expected: ir.Render(want.Contents[k]),
					Actual:   ir.Render(got),
				}
			}
		}
	}

	if !ir.Equal(want.Value, actual.Value) {
		return &AssertionError{
			Type:     AssertValue,
			Expected: renderValue(want.Value),
			Actual:   renderValue(actual.Value),
		}
	}

	return nil
}

func renderValue(v ir.IRValue) string {
	if v == nil {
		return "<absent>"
	}
	return ir.Render(v)
}
