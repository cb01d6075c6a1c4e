package harness

import (
	"context"
	"fmt"
	"testing"
)

// RunT runs the fixture for formatName inside a Go test, one subtest per
// case. The whole test is skipped when the format is not supported.
func RunT(t *testing.T, r *Runner, formatName string) *Report {
	t.Helper()

	report, err := r.Run(context.Background(), formatName)
	if err != nil {
		t.Fatalf("format %q: %v", formatName, err)
		return nil
	}

	if report.Unsupported {
		t.Skipf("format %q is not supported (%d cases skipped)", formatName, report.Skipped)
		return report
	}

	for _, c := range report.Cases {
		t.Run(fmt.Sprintf("case_%d", c.Index), func(t *testing.T) {
			switch c.Status {
			case StatusFailed:
				t.Errorf("input %s: %s", renderValue(c.Input), c.Reason)
			case StatusErrored:
				t.Errorf("input %s: broken case definition: %s", renderValue(c.Input), c.Reason)
			case StatusSkipped:
				t.Skip(c.Reason)
			}
		})
	}

	return report
}
