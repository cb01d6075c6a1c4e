package harness

import (
	"fmt"
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/formatconform/internal/ir"
)

// Snapshot returns the canonical JSON form of a report, used for golden
// comparison. Case IDs and captured diagnostics are left out; statuses,
// reasons and counters are what a conformance change shows up in.
func Snapshot(report *Report) ([]byte, error) {
	cases := make([]any, len(report.Cases))
	for i, c := range report.Cases {
		entry := map[string]any{
			"index":  c.Index,
			"input":  c.Input,
			"valid":  c.Valid,
			"status": string(c.Status),
		}
		if c.Reason != "" {
			entry["reason"] = c.Reason
		}
		if c.ErrorClass != "" {
			entry["error_class"] = string(c.ErrorClass)
		}
		cases[i] = entry
	}

	snapshot := map[string]any{
		"format":   report.Format,
		"resource": report.Resource,
		"cases":    cases,
		"passed":   report.Passed,
		"failed":   report.Failed,
		"skipped":  report.Skipped,
		"errored":  report.Errored,
	}
	if report.Unsupported {
		snapshot["unsupported"] = true
	}

	data, err := ir.MarshalCanonical(snapshot)
	if err != nil {
		return nil, fmt.Errorf("failed to snapshot report for %q: %w", report.Format, err)
	}
	return data, nil
}

// AssertGolden compares a report snapshot against
// testdata/golden/{name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./... -update
func AssertGolden(t *testing.T, name string, report *Report) error {
	t.Helper()

	data, err := Snapshot(report)
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, data)

	return nil
}
