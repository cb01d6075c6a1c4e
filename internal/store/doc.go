// Package store provides the SQLite-backed run ledger for formatconform.
//
// The ledger is append-only:
//   - Runs: one row per conformance run, identified by a UUIDv7
//   - Format reports: per-format totals, including the unsupported flag
//   - Case results: one row per fixture case with status and reason
//
// # Ordering
//
// Runs are ordered by created_seq, a logical sequence assigned by the
// store, never by timestamps. Case results are ordered by format name and
// case index.
//
// # Payloads
//
// Case inputs are stored as canonical JSON (see ir.MarshalCanonical) so the
// same input always produces the same text, and case_id is the
// content-addressed identity from ir.CaseID.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
package store
