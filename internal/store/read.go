package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

const runColumns = `id, seq, module_path, module_hash, stage, entry_point, args, legacy_sequencing,
	result, result_type, result_bytes, error_code, error_message, engine_version, ir_version`

// RunFilter narrows ListRuns.
type RunFilter struct {
	ModuleHash string // empty matches every module
	Limit      int    // <= 0 means no limit
}

// ReadRun retrieves a single run by ID.
// Returns ErrRunNotFound if no such run was logged.
func (s *Store) ReadRun(ctx context.Context, id string) (Run, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM runs WHERE id = ?`, id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("read run %q: %w", id, ErrRunNotFound)
	}
	if err != nil {
		return Run{}, fmt.Errorf("read run %q: %w", id, err)
	}
	return run, nil
}

// ListRuns returns logged runs ordered by seq ASC, id ASC COLLATE BINARY.
//
// Returns an empty slice (not nil) if nothing matches.
func (s *Store) ListRuns(ctx context.Context, filter RunFilter) ([]Run, error) {
	query := `SELECT ` + runColumns + ` FROM runs`
	var args []any
	if filter.ModuleHash != "" {
		query += ` WHERE module_hash = ?`
		args = append(args, filter.ModuleHash)
	}
	query += ` ORDER BY seq ASC, id COLLATE BINARY ASC`
	if filter.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	runs := []Run{}
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (Run, error) {
	var (
		run         Run
		argsJSON    string
		resultText  sql.NullString
		resultType  sql.NullString
		resultBytes []byte
	)
	err := row.Scan(
		&run.ID,
		&run.Seq,
		&run.ModulePath,
		&run.ModuleHash,
		&run.Stage,
		&run.EntryPoint,
		&argsJSON,
		&run.LegacySequencing,
		&resultText,
		&resultType,
		&resultBytes,
		&run.ErrorCode,
		&run.ErrorMessage,
		&run.EngineVersion,
		&run.IRVersion,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Run{}, err
		}
		return Run{}, fmt.Errorf("scan run: %w", err)
	}

	run.Args, err = unmarshalArgs(argsJSON)
	if err != nil {
		return Run{}, fmt.Errorf("run %s: %w", run.ID, err)
	}
	if resultText.Valid {
		run.Result = &RunResult{
			Text:  resultText.String,
			Type:  resultType.String,
			Bytes: resultBytes,
		}
		if run.Result.Bytes == nil {
			run.Result.Bytes = []byte{}
		}
	}
	return run, nil
}
