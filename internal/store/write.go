package store

import (
	"context"
	"database/sql"
	"fmt"
)

// WriteRun appends a run to the log and returns its seq.
//
// Seq is assigned inside the INSERT as MAX(seq)+1, so concurrent writers
// never collide. Uses ON CONFLICT(id) DO NOTHING for idempotency: writing
// the same ID twice keeps the first row and returns its seq.
func (s *Store) WriteRun(ctx context.Context, run Run) (int64, error) {
	if run.ID == "" {
		return 0, fmt.Errorf("write run: empty id")
	}

	argsJSON, err := marshalArgs(run.Args)
	if err != nil {
		return 0, fmt.Errorf("write run: %w", err)
	}

	var (
		resultText  sql.NullString
		resultType  sql.NullString
		resultBytes []byte
	)
	if run.Result != nil {
		resultText = sql.NullString{String: run.Result.Text, Valid: true}
		resultType = sql.NullString{String: run.Result.Type, Valid: true}
		resultBytes = run.Result.Bytes
		if resultBytes == nil {
			resultBytes = []byte{}
		}
	}

	// "WHERE true" disambiguates the upsert clause from a join constraint.
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO runs
		(id, seq, module_path, module_hash, stage, entry_point, args, legacy_sequencing,
		 result, result_type, result_bytes, error_code, error_message, engine_version, ir_version)
		SELECT ?, COALESCE(MAX(seq), 0) + 1, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?
		FROM runs WHERE true
		ON CONFLICT(id) DO NOTHING
	`,
		run.ID,
		run.ModulePath,
		run.ModuleHash,
		run.Stage,
		run.EntryPoint,
		argsJSON,
		run.LegacySequencing,
		resultText,
		resultType,
		resultBytes,
		run.ErrorCode,
		run.ErrorMessage,
		run.EngineVersion,
		run.IRVersion,
	)
	if err != nil {
		return 0, fmt.Errorf("write run: %w", err)
	}

	var seq int64
	if err := s.db.QueryRowContext(ctx, `SELECT seq FROM runs WHERE id = ?`, run.ID).Scan(&seq); err != nil {
		return 0, fmt.Errorf("write run: read seq: %w", err)
	}
	return seq, nil
}
