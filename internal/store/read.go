package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/roach88/formatconform/internal/conformerr"
	"github.com/roach88/formatconform/internal/harness"
	"github.com/roach88/formatconform/internal/ir"
)

// RunRecord is a run with totals summed over its format reports.
type RunRecord struct {
	ID      string `json:"id"`
	Prefix  string `json:"prefix"`
	Seq     int64  `json:"seq"`
	Formats int    `json:"formats"`
	Passed  int    `json:"passed"`
	Failed  int    `json:"failed"`
	Skipped int    `json:"skipped"`
	Errored int    `json:"errored"`
}

// FormatRecord is a stored format report without its cases.
type FormatRecord struct {
	Format      string `json:"format"`
	Resource    string `json:"resource"`
	Unsupported bool   `json:"unsupported"`
	Passed      int    `json:"passed"`
	Failed      int    `json:"failed"`
	Skipped     int    `json:"skipped"`
	Errored     int    `json:"errored"`
}

// CaseRecord is a stored case result.
type CaseRecord struct {
	Format     string           `json:"format"`
	Index      int              `json:"index"`
	CaseID     string           `json:"case_id"`
	Status     harness.Status   `json:"status"`
	Reason     string           `json:"reason,omitempty"`
	ErrorClass conformerr.Class `json:"error_class,omitempty"`
	Input      ir.IRValue       `json:"input"`
}

// Runs returns the most recent runs, newest first.
// A limit of zero or less returns every run.
func (s *Store) Runs(ctx context.Context, limit int) ([]RunRecord, error) {
	query := `
		SELECT r.id, r.prefix, r.created_seq,
		       COUNT(f.format),
		       COALESCE(SUM(f.passed), 0),
		       COALESCE(SUM(f.failed), 0),
		       COALESCE(SUM(f.skipped), 0),
		       COALESCE(SUM(f.errored), 0)
		FROM runs r
		LEFT JOIN format_reports f ON f.run_id = r.id
		GROUP BY r.id
		ORDER BY r.created_seq DESC
	`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, conformerr.Wrap(conformerr.LedgerIO, "query runs", err)
	}
	defer rows.Close()

	runs := []RunRecord{}
	for rows.Next() {
		var r RunRecord
		if err := rows.Scan(&r.ID, &r.Prefix, &r.Seq, &r.Formats,
			&r.Passed, &r.Failed, &r.Skipped, &r.Errored); err != nil {
			return nil, conformerr.Wrap(conformerr.LedgerIO, "scan run", err)
		}
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, conformerr.Wrap(conformerr.LedgerIO, "iterate runs", err)
	}

	return runs, nil
}

// Run returns a single run by ID.
// Returns sql.ErrNoRows (wrapped) if not found.
func (s *Store) Run(ctx context.Context, runID string) (RunRecord, error) {
	var r RunRecord
	err := s.db.QueryRowContext(ctx, `
		SELECT r.id, r.prefix, r.created_seq,
		       COUNT(f.format),
		       COALESCE(SUM(f.passed), 0),
		       COALESCE(SUM(f.failed), 0),
		       COALESCE(SUM(f.skipped), 0),
		       COALESCE(SUM(f.errored), 0)
		FROM runs r
		LEFT JOIN format_reports f ON f.run_id = r.id
		WHERE r.id = ?
		GROUP BY r.id
	`, runID).Scan(&r.ID, &r.Prefix, &r.Seq, &r.Formats,
		&r.Passed, &r.Failed, &r.Skipped, &r.Errored)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return RunRecord{}, conformerr.Wrap(conformerr.LedgerIO,
				fmt.Sprintf("run %q not found", runID), err)
		}
		return RunRecord{}, conformerr.Wrap(conformerr.LedgerIO, "query run", err)
	}
	return r, nil
}

// FormatReports returns the format reports of a run ordered by format name.
func (s *Store) FormatReports(ctx context.Context, runID string) ([]FormatRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT format, resource, unsupported, passed, failed, skipped, errored
		FROM format_reports
		WHERE run_id = ?
		ORDER BY format COLLATE BINARY ASC
	`, runID)
	if err != nil {
		return nil, conformerr.Wrap(conformerr.LedgerIO, "query format reports", err)
	}
	defer rows.Close()

	reports := []FormatRecord{}
	for rows.Next() {
		var f FormatRecord
		var unsupported int
		if err := rows.Scan(&f.Format, &f.Resource, &unsupported,
			&f.Passed, &f.Failed, &f.Skipped, &f.Errored); err != nil {
			return nil, conformerr.Wrap(conformerr.LedgerIO, "scan format report", err)
		}
		f.Unsupported = unsupported != 0
		reports = append(reports, f)
	}
	if err := rows.Err(); err != nil {
		return nil, conformerr.Wrap(conformerr.LedgerIO, "iterate format reports", err)
	}

	return reports, nil
}

// CaseResults returns every case result of a run, ordered by format name
// then case index.
func (s *Store) CaseResults(ctx context.Context, runID string) ([]CaseRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT format, case_index, case_id, status, reason, error_class, input
		FROM case_results
		WHERE run_id = ?
		ORDER BY format COLLATE BINARY ASC, case_index ASC
	`, runID)
	if err != nil {
		return nil, conformerr.Wrap(conformerr.LedgerIO, "query case results", err)
	}
	defer rows.Close()

	results := []CaseRecord{}
	for rows.Next() {
		var (
			c          CaseRecord
			status     string
			errorClass string
			input      string
		)
		if err := rows.Scan(&c.Format, &c.Index, &c.CaseID, &status,
			&c.Reason, &errorClass, &input); err != nil {
			return nil, conformerr.Wrap(conformerr.LedgerIO, "scan case result", err)
		}
		c.Status = harness.Status(status)
		c.ErrorClass = conformerr.Class(errorClass)

		c.Input, err = unmarshalInput(input)
		if err != nil {
			return nil, conformerr.Wrap(conformerr.LedgerIO,
				fmt.Sprintf("case %s/%d", c.Format, c.Index), err)
		}
		results = append(results, c)
	}
	if err := rows.Err(); err != nil {
		return nil, conformerr.Wrap(conformerr.LedgerIO, "iterate case results", err)
	}

	return results, nil
}
