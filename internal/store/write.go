package store

import (
	"context"
	"fmt"

	"github.com/roach88/formatconform/internal/conformerr"
	"github.com/roach88/formatconform/internal/harness"
)

// BeginRun records a new run for a fixture prefix and returns its ID.
// The run's created_seq is one past the highest recorded so far.
func (s *Store) BeginRun(ctx context.Context, prefix string) (string, error) {
	id := s.runID.Generate()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", conformerr.Wrap(conformerr.LedgerIO, "begin run: begin tx", err)
	}
	defer tx.Rollback() // No-op if committed

	var seq int64
	if err := tx.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(created_seq), 0) + 1 FROM runs`,
	).Scan(&seq); err != nil {
		return "", conformerr.Wrap(conformerr.LedgerIO, "begin run: next seq", err)
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO runs (id, prefix, created_seq) VALUES (?, ?, ?)`,
		id, prefix, seq,
	); err != nil {
		return "", conformerr.Wrap(conformerr.LedgerIO, "begin run: insert", err)
	}

	if err := tx.Commit(); err != nil {
		return "", conformerr.Wrap(conformerr.LedgerIO, "begin run: commit", err)
	}

	return id, nil
}

// RecordReport stores a format report and all of its case results under
// runID, atomically. Recording the same format twice for one run fails.
func (s *Store) RecordReport(ctx context.Context, runID string, report *harness.Report) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return conformerr.Wrap(conformerr.LedgerIO, "record report: begin tx", err)
	}
	defer tx.Rollback() // No-op if committed

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO format_reports
		(run_id, format, resource, unsupported, passed, failed, skipped, errored)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`,
		runID,
		report.Format,
		report.Resource,
		boolToInt(report.Unsupported),
		report.Passed,
		report.Failed,
		report.Skipped,
		report.Errored,
	); err != nil {
		return conformerr.Wrap(conformerr.LedgerIO,
			fmt.Sprintf("record report %q", report.Format), err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO case_results
		(run_id, format, case_index, case_id, status, reason, error_class, input)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return conformerr.Wrap(conformerr.LedgerIO, "record report: prepare", err)
	}
	defer stmt.Close()

	for _, c := range report.Cases {
		input, err := marshalInput(c.Input)
		if err != nil {
			return conformerr.Wrap(conformerr.LedgerIO,
				fmt.Sprintf("record report %q: case %d", report.Format, c.Index), err)
		}

		if _, err := stmt.ExecContext(ctx,
			runID,
			report.Format,
			c.Index,
			c.CaseID,
			string(c.Status),
			c.Reason,
			string(c.ErrorClass),
			input,
		); err != nil {
			return conformerr.Wrap(conformerr.LedgerIO,
				fmt.Sprintf("record report %q: case %d", report.Format, c.Index), err)
		}
	}

	if err := tx.Commit(); err != nil {
		return conformerr.Wrap(conformerr.LedgerIO, "record report: commit", err)
	}

	return nil
}

// Recorder binds runID so the store can be handed to a harness.Runner.
func (s *Store) Recorder(runID string) harness.Recorder {
	return &runRecorder{store: s, runID: runID}
}

type runRecorder struct {
	store *Store
	runID string
}

// RecordReport implements harness.Recorder.
func (r *runRecorder) RecordReport(ctx context.Context, report *harness.Report) error {
	return r.store.RecordReport(ctx, r.runID, report)
}
