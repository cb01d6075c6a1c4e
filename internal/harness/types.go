package harness

import (
	"context"

	"github.com/roach88/formatconform/internal/conformerr"
	"github.com/roach88/formatconform/internal/format"
	"github.com/roach88/formatconform/internal/ir"
)

// Status is the terminal state of a single case.
type Status string

const (
	StatusPassed  Status = "passed"
	StatusFailed  Status = "failed"
	StatusSkipped Status = "skipped"
	StatusErrored Status = "errored"
)

// CaseResult is the outcome of one fixture case.
type CaseResult struct {
	// Index is the case position in its fixture.
	Index int `json:"index"`

	// CaseID is a content hash of (format, index, input).
	CaseID string `json:"case_id"`

	// Input is the instance the attribute was run against.
	Input ir.IRValue `json:"input"`

	// Valid is the expected outcome from the fixture.
	Valid bool `json:"valid"`

	Status Status `json:"status"`

	// Reason explains a non-passing status. Empty when passed.
	Reason string `json:"reason,omitempty"`

	// ErrorClass is set for errored and skipped cases.
	ErrorClass conformerr.Class `json:"error_class,omitempty"`

	// Diagnostics holds everything the attribute reported.
	Diagnostics []format.Diagnostic `json:"diagnostics,omitempty"`
}

// Report aggregates the case results of one format.
type Report struct {
	Format   string `json:"format"`
	Resource string `json:"resource"`

	// Unsupported is true when no attribute is registered for Format.
	// Every case is then skipped.
	Unsupported bool `json:"unsupported,omitempty"`

	Cases []CaseResult `json:"cases"`

	Passed  int `json:"passed"`
	Failed  int `json:"failed"`
	Skipped int `json:"skipped"`
	Errored int `json:"errored"`
}

// add appends a result and updates the counters.
func (r *Report) add(c CaseResult) {
	r.Cases = append(r.Cases, c)
	switch c.Status {
	case StatusPassed:
		r.Passed++
	case StatusFailed:
		r.Failed++
	case StatusSkipped:
		r.Skipped++
	case StatusErrored:
		r.Errored++
	}
}

// OK reports whether no case failed or errored.
func (r *Report) OK() bool {
	return r.Failed == 0 && r.Errored == 0
}

// Failures returns the failed and errored cases, in fixture order.
func (r *Report) Failures() []CaseResult {
	var out []CaseResult
	for _, c := range r.Cases {
		if c.Status == StatusFailed || c.Status == StatusErrored {
			out = append(out, c)
		}
	}
	return out
}

// SetupFailure records a format whose run aborted before any case executed.
type SetupFailure struct {
	Format string           `json:"format"`
	Class  conformerr.Class `json:"class,omitempty"`
	Error  string           `json:"error"`
}

// Summary aggregates reports across formats.
type Summary struct {
	Reports       []*Report      `json:"reports"`
	SetupFailures []SetupFailure `json:"setup_failures,omitempty"`

	Passed  int `json:"passed"`
	Failed  int `json:"failed"`
	Skipped int `json:"skipped"`
	Errored int `json:"errored"`
}

func (s *Summary) addReport(r *Report) {
	s.Reports = append(s.Reports, r)
	s.Passed += r.Passed
	s.Failed += r.Failed
	s.Skipped += r.Skipped
	s.Errored += r.Errored
}

// OK reports whether every format ran and no case failed or errored.
func (s *Summary) OK() bool {
	return len(s.SetupFailures) == 0 && s.Failed == 0 && s.Errored == 0
}

// Recorder persists reports as they complete.
type Recorder interface {
	RecordReport(ctx context.Context, report *Report) error
}
