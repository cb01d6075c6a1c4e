// Package harness runs format-attribute conformance fixtures.
//
// A Runner loads the fixture for a format, resolves the attribute from a
// Registry and drives every case to exactly one terminal Status:
//
//   - passed: the attribute behaved as the fixture expects
//   - failed: wrong diagnostic count, a field mismatch, or an attribute error
//   - errored: the case definition itself is broken (missing parameter,
//     unknown template key, unsupported argument kind)
//   - skipped: no attribute is registered for the format
//
// Cases run in fixture order, one at a time, each with its own CaptureSink.
// Only the catalog and the registry are shared, and neither is mutated.
//
// # Valid cases
//
// A case expected to be valid passes only when the attribute reports
// nothing. Any diagnostic fails it, whatever its content.
//
// # Invalid cases
//
// A case expected to be invalid needs exactly one diagnostic. That
// diagnostic is checked by Match against the message rebuilt from the
// catalog with message.Build, the fixture contents and the instance.
//
// # Go tests
//
// RunT adapts a Runner to a *testing.T, one subtest per case, and
// AssertGolden snapshots a Report under testdata/golden.
package harness
