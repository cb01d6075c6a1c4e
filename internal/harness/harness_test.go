package harness

import (
	"context"
	"errors"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/formatconform/internal/conformerr"
	"github.com/roach88/formatconform/internal/fixture"
	"github.com/roach88/formatconform/internal/format"
	"github.com/roach88/formatconform/internal/format/builtin"
	"github.com/roach88/formatconform/internal/ir"
	"github.com/roach88/formatconform/internal/message"
	"github.com/roach88/formatconform/internal/testutil"
)

const testPrefix = "test"

func loaderFor(fixtures map[string]string) *fixture.Loader {
	fsys := fstest.MapFS{}
	for name, content := range fixtures {
		fsys["format/"+testPrefix+"/"+name+".json"] = &fstest.MapFile{Data: []byte(content)}
	}
	return fixture.NewLoader(fsys, testPrefix)
}

func registryWith(attrs ...*testutil.StubAttribute) *format.Registry {
	r := format.NewRegistry()
	for _, a := range attrs {
		r.MustRegister(a.Name, a)
	}
	return r
}

func runOne(t *testing.T, reg Registry, catalog message.Catalog, formatName, content string) *Report {
	t.Helper()
	runner := NewRunner(reg, catalog, loaderFor(map[string]string{formatName: content}))
	report, err := runner.Run(context.Background(), formatName)
	require.NoError(t, err)
	return report
}

func TestRun_EmailScenario(t *testing.T) {
	report := runOne(t, registryWith(testutil.Rejecting("email")), message.DefaultBundle(), "email", `[{
		"data": "not-an-email",
		"valid": false,
		"message": "err.format.invalid",
		"msgParams": ["value"],
		"msgData": {"value": "not-an-email"}
	}]`)

	require.Len(t, report.Cases, 1)
	c := report.Cases[0]
	assert.Equal(t, StatusPassed, c.Status, c.Reason)
	require.Len(t, c.Diagnostics, 1)
	assert.Equal(t, `string "not-an-email" is not valid against format "%attribute%"`, c.Diagnostics[0].Message)
	assert.True(t, report.OK())
}

func TestRun_DateValidScenario(t *testing.T) {
	report := runOne(t, builtin.Registry(), message.DefaultBundle(), "date",
		`[{"data": "2020-01-01", "valid": true}]`)

	require.Len(t, report.Cases, 1)
	assert.Equal(t, StatusPassed, report.Cases[0].Status, report.Cases[0].Reason)
	assert.Empty(t, report.Cases[0].Diagnostics)
	assert.Equal(t, 1, report.Passed)
}

func TestRun_UnsupportedFormatSkipsEveryCase(t *testing.T) {
	report := runOne(t, format.NewRegistry(), message.DefaultBundle(), "ipv9", `[
		{"data": "a", "valid": true},
		{"data": "b", "valid": false, "message": "err.format.invalid"},
		{"data": 3, "valid": true}
	]`)

	assert.True(t, report.Unsupported)
	assert.Equal(t, 3, report.Skipped)
	assert.Zero(t, report.Passed)
	assert.Zero(t, report.Failed)
	assert.Zero(t, report.Errored)
	for _, c := range report.Cases {
		assert.Equal(t, StatusSkipped, c.Status)
		assert.Equal(t, conformerr.UnsupportedFormat, c.ErrorClass)
	}
}

func TestRun_ValidInstanceWithDiagnosticFails(t *testing.T) {
	stub := testutil.Rejecting("date")
	report := runOne(t, registryWith(stub), message.DefaultBundle(), "date",
		`[{"data": "2020-01-01", "valid": true}]`)

	c := report.Cases[0]
	assert.Equal(t, StatusFailed, c.Status)
	assert.Contains(t, c.Reason, "expected no diagnostics for a valid instance, got 1")
	assert.False(t, report.OK())
}

func TestRun_ContentsMismatchWithEqualMessageFails(t *testing.T) {
	stub := &testutil.StubAttribute{
		Name: "email",
		Emit: 1,
		Mutate: func(d *format.Diagnostic) {
			d.Contents = ir.IRObject{"value": ir.IRString("something else")}
		},
	}
	report := runOne(t, registryWith(stub), message.DefaultBundle(), "email", `[{
		"data": "x",
		"valid": false,
		"message": "err.format.invalid",
		"msgParams": ["value"],
		"msgData": {"value": "x"}
	}]`)

	c := report.Cases[0]
	assert.Equal(t, StatusFailed, c.Status)
	assert.Contains(t, c.Reason, "Assertion failed: contents.value")
}

func TestRun_ContentsIgnoredWhenNotExpected(t *testing.T) {
	catalog := message.NewBundle("test", map[string]string{"err.bad": "bad value"})
	stub := &testutil.StubAttribute{
		Name: "email",
		Key:  "err.bad",
		Emit: 1,
		Args: ir.IRObject{"extra": ir.IRBool(true)},
	}
	report := runOne(t, registryWith(stub), catalog, "email",
		`[{"data": "x", "valid": false, "message": "err.bad"}]`)

	assert.Equal(t, StatusPassed, report.Cases[0].Status, report.Cases[0].Reason)
}

func TestRun_DiagnosticCountMismatch(t *testing.T) {
	tests := []struct {
		name   string
		emit   int
		reason string
	}{
		{"none", 0, "expected exactly one diagnostic, got 0"},
		{"two", 2, "expected exactly one diagnostic, got 2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stub := &testutil.StubAttribute{Name: "uuid", Emit: tt.emit}
			report := runOne(t, registryWith(stub), message.DefaultBundle(), "uuid",
				`[{"data": "x", "valid": false, "message": "err.format.invalid"}]`)

			assert.Equal(t, StatusFailed, report.Cases[0].Status)
			assert.Equal(t, tt.reason, report.Cases[0].Reason)
		})
	}
}

func TestRun_FieldMismatches(t *testing.T) {
	const fixtureJSON = `[{
		"data": "x",
		"valid": false,
		"message": "err.format.invalid",
		"msgParams": ["value"],
		"msgData": {"value": "x"}
	}]`

	tests := []struct {
		name   string
		mutate func(d *format.Diagnostic)
		want   string
	}{
		{"keyword", func(d *format.Diagnostic) { d.Keyword = "pattern" }, "Assertion failed: keyword"},
		{"format", func(d *format.Diagnostic) { d.Attribute = "uri" }, "Assertion failed: format"},
		{"message", func(d *format.Diagnostic) { d.Message = "nope" }, "Assertion failed: message"},
		{"value", func(d *format.Diagnostic) { d.Value = ir.IRString("y") }, "Assertion failed: value"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stub := &testutil.StubAttribute{Name: "email", Emit: 1, Mutate: tt.mutate}
			report := runOne(t, registryWith(stub), message.DefaultBundle(), "email", fixtureJSON)

			assert.Equal(t, StatusFailed, report.Cases[0].Status)
			assert.Contains(t, report.Cases[0].Reason, tt.want)
		})
	}
}

func TestRun_AuthoringErrorsMarkCaseErrored(t *testing.T) {
	stub := testutil.Rejecting("email")
	report := runOne(t, registryWith(stub), message.DefaultBundle(), "email", `[
		{"data": "a", "valid": false, "message": "err.format.invalid", "msgParams": ["value"]},
		{"data": "b", "valid": false, "message": "err.format.nope"},
		{"data": "c", "valid": false, "message": "err.format.invalid",
		 "msgParams": ["value"], "msgData": {"value": {"nested": true}}},
		{"data": "d", "valid": false, "message": "err.format.invalid",
		 "msgParams": ["value"], "msgData": {"value": "d"}}
	]`)

	require.Len(t, report.Cases, 4)
	assert.Equal(t, conformerr.MissingParameter, report.Cases[0].ErrorClass)
	assert.Equal(t, conformerr.UnknownTemplateKey, report.Cases[1].ErrorClass)
	assert.Equal(t, conformerr.UnsupportedValueKind, report.Cases[2].ErrorClass)
	for _, c := range report.Cases[:3] {
		assert.Equal(t, StatusErrored, c.Status)
		assert.NotEmpty(t, c.Reason)
	}

	// The run continues after authoring errors.
	assert.Equal(t, StatusPassed, report.Cases[3].Status, report.Cases[3].Reason)
	assert.Equal(t, 3, report.Errored)
	assert.Equal(t, 1, report.Passed)
	assert.Len(t, report.Failures(), 3)
	assert.Equal(t, 4, stub.Calls)
}

func TestRun_AttributeErrorFailsCase(t *testing.T) {
	stub := &testutil.StubAttribute{Name: "regex", Err: errors.New("engine exploded")}
	report := runOne(t, registryWith(stub), message.DefaultBundle(), "regex",
		`[{"data": "(", "valid": false, "message": "err.format.invalidRegex"}]`)

	assert.Equal(t, StatusFailed, report.Cases[0].Status)
	assert.Contains(t, report.Cases[0].Reason, "engine exploded")
}

func TestRun_NonStringInstancesPassBuiltins(t *testing.T) {
	report := runOne(t, builtin.Registry(), message.DefaultBundle(), "email", `[
		{"data": 12, "valid": true},
		{"data": null, "valid": true},
		{"data": {"a": 1}, "valid": true}
	]`)
	assert.Equal(t, 3, report.Passed)
}

func TestRun_CaseIDs(t *testing.T) {
	report := runOne(t, builtin.Registry(), message.DefaultBundle(), "uuid", `[
		{"data": "f81d4fae-7dec-11d0-a765-00a0c91e6bf6", "valid": true},
		{"data": "f81d4fae-7dec-11d0-a765-00a0c91e6bf6", "valid": true}
	]`)

	a, b := report.Cases[0].CaseID, report.Cases[1].CaseID
	assert.Len(t, a, 64)
	assert.NotEqual(t, a, b, "same input at different indexes must get distinct IDs")

	want, err := ir.CaseID("uuid", 0, ir.IRString("f81d4fae-7dec-11d0-a765-00a0c91e6bf6"))
	require.NoError(t, err)
	assert.Equal(t, want, a)
}

func TestRun_SetupFailures(t *testing.T) {
	runner := NewRunner(builtin.Registry(), message.DefaultBundle(), loaderFor(map[string]string{
		"date": `{"not": "an array"}`,
	}))

	_, err := runner.Run(context.Background(), "email")
	assert.True(t, conformerr.Is(err, conformerr.FixtureNotFound), "got %v", err)

	_, err = runner.Run(context.Background(), "date")
	assert.True(t, conformerr.Is(err, conformerr.FixtureMalformed), "got %v", err)
}

type recorderFunc func(ctx context.Context, report *Report) error

func (f recorderFunc) RecordReport(ctx context.Context, report *Report) error {
	return f(ctx, report)
}

func TestRun_Recorder(t *testing.T) {
	var recorded []*Report
	rec := recorderFunc(func(_ context.Context, r *Report) error {
		recorded = append(recorded, r)
		return nil
	})

	runner := NewRunner(builtin.Registry(), message.DefaultBundle(), loaderFor(map[string]string{
		"ipv4": `[{"data": "10.0.0.1", "valid": true}]`,
	}), WithRecorder(rec))

	report, err := runner.Run(context.Background(), "ipv4")
	require.NoError(t, err)
	require.Len(t, recorded, 1)
	assert.Same(t, report, recorded[0])
}

func TestRun_RecorderFailure(t *testing.T) {
	rec := recorderFunc(func(context.Context, *Report) error {
		return errors.New("disk full")
	})

	runner := NewRunner(builtin.Registry(), message.DefaultBundle(), loaderFor(map[string]string{
		"ipv4": `[{"data": "10.0.0.1", "valid": true}]`,
	}), WithRecorder(rec))

	report, err := runner.Run(context.Background(), "ipv4")
	require.Error(t, err)
	assert.True(t, conformerr.Is(err, conformerr.LedgerIO))
	assert.NotNil(t, report, "the report is still returned")
}

func TestRunAll(t *testing.T) {
	runner := NewRunner(builtin.Registry(), message.DefaultBundle(), loaderFor(map[string]string{
		"ipv4": `[{"data": "10.0.0.1", "valid": true},
		          {"data": "10.0.0.256", "valid": false, "message": "err.format.invalidIPv4Address",
		           "msgParams": ["value"], "msgData": {"value": "10.0.0.256"}}]`,
		"ipv6":    `[{"data": "::1", "valid": true}]`,
		"unknown": `[{"data": "x", "valid": true}]`,
	}))

	summary, err := runner.RunAll(context.Background(), []string{"ipv4", "missing", "ipv6", "unknown"})
	require.NoError(t, err)

	require.Len(t, summary.Reports, 3)
	assert.Equal(t, "ipv4", summary.Reports[0].Format)
	assert.Equal(t, "ipv6", summary.Reports[1].Format)
	assert.True(t, summary.Reports[2].Unsupported)

	require.Len(t, summary.SetupFailures, 1)
	assert.Equal(t, "missing", summary.SetupFailures[0].Format)
	assert.Equal(t, conformerr.FixtureNotFound, summary.SetupFailures[0].Class)

	assert.Equal(t, 3, summary.Passed)
	assert.Equal(t, 1, summary.Skipped)
	assert.False(t, summary.OK(), "setup failures make the summary fail")
}

func TestRunAll_Cancelled(t *testing.T) {
	runner := NewRunner(builtin.Registry(), message.DefaultBundle(), loaderFor(map[string]string{
		"ipv6": `[{"data": "::1", "valid": true}]`,
	}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := runner.RunAll(ctx, []string{"ipv6"})
	assert.ErrorIs(t, err, context.Canceled)
}
