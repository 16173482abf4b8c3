package store

import (
	"database/sql"
	_ "embed"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaSQL string

// schemaVersion is the user_version of a current run log.
const schemaVersion = 1

// migrations[v] upgrades a run log from user_version v to v+1.
// A new file, or a log written before versioning, starts at 0.
var migrations = []string{
	schemaSQL,
}

// pragmas are applied to every connection Open makes.
var pragmas = []string{
	"PRAGMA journal_mode = WAL",
	"PRAGMA synchronous = NORMAL",
	"PRAGMA busy_timeout = 5000",
}

// Store is the durable run log.
type Store struct {
	db *sql.DB
}

// Open opens the run log at path, creating and upgrading it as needed.
// ":memory:" gives a throwaway log.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// One connection: pragmas stick and writes never race for seq.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	st := &Store{db: db}
	if err := st.init(); err != nil {
		db.Close()
		return nil, err
	}
	return st, nil
}

func (s *Store) init() error {
	for _, p := range pragmas {
		if _, err := s.db.Exec(p); err != nil {
			return fmt.Errorf("failed to execute %q: %w", p, err)
		}
	}

	var version int
	if err := s.db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if version > schemaVersion {
		return fmt.Errorf("run log schema version %d is newer than supported version %d", version, schemaVersion)
	}
	for v := version; v < schemaVersion; v++ {
		if err := s.migrate(v); err != nil {
			return err
		}
	}
	return nil
}

// migrate applies migrations[from] and stamps the new version in one transaction.
func (s *Store) migrate(from int) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("migrate to v%d: %w", from+1, err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(migrations[from]); err != nil {
		return fmt.Errorf("migrate to v%d: %w", from+1, err)
	}
	if _, err := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d", from+1)); err != nil {
		return fmt.Errorf("migrate to v%d: set user_version: %w", from+1, err)
	}
	return tx.Commit()
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// verifyPragma checks that a pragma reads back as expected.
func (s *Store) verifyPragma(name, expected string) error {
	var value string
	if err := s.db.QueryRow("PRAGMA " + name).Scan(&value); err != nil {
		return fmt.Errorf("failed to query %s: %w", name, err)
	}
	if value != expected {
		return fmt.Errorf("%s = %q, expected %q", name, value, expected)
	}
	return nil
}
