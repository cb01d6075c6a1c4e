package harness

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/roach88/formatconform/internal/conformerr"
	"github.com/roach88/formatconform/internal/fixture"
	"github.com/roach88/formatconform/internal/format"
	"github.com/roach88/formatconform/internal/ir"
	"github.com/roach88/formatconform/internal/message"
)

// Registry resolves format names to attributes.
type Registry interface {
	Lookup(name string) (format.Attribute, bool)
}

// FixtureSource yields the cases for a format.
type FixtureSource interface {
	ResourceName(formatName string) string
	Load(formatName string) ([]fixture.Case, error)
}

// Runner executes fixture cases against format attributes.
//
// A Runner holds no per-run state and may be reused across formats.
type Runner struct {
	registry Registry
	catalog  message.Catalog
	fixtures FixtureSource
	logger   *zap.SugaredLogger
	recorder Recorder
}

// Option configures a Runner.
type Option func(*Runner)

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger *zap.SugaredLogger) Option {
	return func(r *Runner) {
		r.logger = logger
	}
}

// WithRecorder persists every completed report.
func WithRecorder(rec Recorder) Option {
	return func(r *Runner) {
		r.recorder = rec
	}
}

// NewRunner creates a runner.
func NewRunner(registry Registry, catalog message.Catalog, fixtures FixtureSource, opts ...Option) *Runner {
	r := &Runner{
		registry: registry,
		catalog:  catalog,
		fixtures: fixtures,
		logger:   zap.NewNop().Sugar(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run executes every case of the fixture for formatName.
//
// Fixture setup failures (missing or malformed fixture) are returned as
// errors before any case executes. When no attribute is registered for
// formatName every case is skipped and the report is flagged unsupported.
// Cases are otherwise independent: an authoring error in one case marks it
// errored and the run continues.
func (r *Runner) Run(ctx context.Context, formatName string) (*Report, error) {
	cases, err := r.fixtures.Load(formatName)
	if err != nil {
		r.logger.Errorw("fixture setup failed", "format", formatName, "error", err)
		return nil, err
	}

	report := &Report{
		Format:   formatName,
		Resource: r.fixtures.ResourceName(formatName),
		Cases:    make([]CaseResult, 0, len(cases)),
	}

	attr, ok := r.registry.Lookup(formatName)
	if !ok {
		report.Unsupported = true
		r.logger.Warnw("format not supported, skipping fixture",
			"format", formatName, "cases", len(cases))
		for _, c := range cases {
			report.add(CaseResult{
				Index:      c.Index,
				CaseID:     caseID(formatName, c),
				Input:      c.Input,
				Valid:      c.Valid,
				Status:     StatusSkipped,
				Reason:     fmt.Sprintf("format %q is not supported", formatName),
				ErrorClass: conformerr.UnsupportedFormat,
			})
		}
	} else {
		for _, c := range cases {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			result := r.runCase(formatName, attr, c)
			r.logger.Debugw("case finished",
				"format", formatName,
				"index", c.Index,
				"status", result.Status)
			report.add(result)
		}
	}

	r.logger.Infow("format finished",
		"format", formatName,
		"passed", report.Passed,
		"failed", report.Failed,
		"skipped", report.Skipped,
		"errored", report.Errored)

	if r.recorder != nil {
		if err := r.recorder.RecordReport(ctx, report); err != nil {
			return report, conformerr.Wrap(conformerr.LedgerIO,
				fmt.Sprintf("failed to record report for %q", formatName), err)
		}
	}

	return report, nil
}

// RunAll runs each format in order. A setup failure is recorded in the
// summary and the remaining formats still run; context cancellation and
// ledger failures abort.
func (r *Runner) RunAll(ctx context.Context, formatNames []string) (*Summary, error) {
	summary := &Summary{}
	for _, name := range formatNames {
		report, err := r.Run(ctx, name)
		if err != nil {
			if ctx.Err() != nil || conformerr.Is(err, conformerr.LedgerIO) {
				return summary, err
			}
			class, _ := conformerr.ClassOf(err)
			summary.SetupFailures = append(summary.SetupFailures, SetupFailure{
				Format: name,
				Class:  class,
				Error:  err.Error(),
			})
			continue
		}
		summary.addReport(report)
	}
	return summary, nil
}

// runCase drives one case to a terminal status.
func (r *Runner) runCase(formatName string, attr format.Attribute, c fixture.Case) CaseResult {
	result := CaseResult{
		Index:  c.Index,
		CaseID: caseID(formatName, c),
		Input:  c.Input,
		Valid:  c.Valid,
	}

	sink := NewCaptureSink()
	err := attr.Validate(sink, r.catalog, format.NewData(formatName, c.Input))
	result.Diagnostics = sink.Diagnostics()
	if err != nil {
		return failed(result, fmt.Sprintf("attribute returned an error: %v", err))
	}

	if c.Valid {
		if !sink.Empty() {
			return failed(result, fmt.Sprintf(
				"expected no diagnostics for a valid instance, got %d (first: %q)",
				sink.Len(), result.Diagnostics[0].Message))
		}
		result.Status = StatusPassed
		return result
	}

	actual, ok := sink.Sole()
	if !ok {
		return failed(result, fmt.Sprintf("expected exactly one diagnostic, got %d", sink.Len()))
	}

	expected, err := message.Build(r.catalog, c.MessageKey, c.Params, c.Contents)
	if err != nil {
		result.Status = StatusErrored
		result.Reason = err.Error()
		result.ErrorClass, _ = conformerr.ClassOf(err)
		r.logger.Warnw("case definition error",
			"format", formatName,
			"index", c.Index,
			"error", err)
		return result
	}

	mismatch := Match(actual, Expectation{
		Format:   formatName,
		Message:  expected,
		Contents: c.Contents,
		Value:    c.Input,
	})
	if mismatch != nil {
		return failed(result, mismatch.Error())
	}

	result.Status = StatusPassed
	return result
}

func failed(result CaseResult, reason string) CaseResult {
	result.Status = StatusFailed
	result.Reason = reason
	return result
}

// caseID hashes the case identity. Inputs from the fixture loader always
// marshal, so a failure leaves the ID empty rather than aborting the case.
func caseID(formatName string, c fixture.Case) string {
	id, err := ir.CaseID(formatName, c.Index, c.Input)
	if err != nil {
		return ""
	}
	return id
}
