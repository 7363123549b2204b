// Package history implements the optional compile-history store (C8,
// SPEC_FULL.md §4.8): every run's outcome is recorded to a SQL database so a
// team can later ask "how often does this source fail semantic checking."
// Grounded in sentra-language-sentra's internal/database package: a single
// *sql.DB behind a small typed API, drivers selected by DSN scheme and
// imported for their registration side effect only.
package history

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/denisenkom/go-mssqldb"
	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// Record is one completed (or failed) compiler run.
type Record struct {
	RunID        string
	SourcePath   string
	Success      bool
	FailedPhase  string
	WarningCount int
	TACBefore    int
	TACAfter     int
	Duration     time.Duration
	Timestamp    time.Time
}

// Store wraps the compile-history database.
type Store struct {
	db *sql.DB
}

// Open connects to dsn and ensures the compile_runs table exists. An empty
// scheme (no "scheme://" prefix) is treated as a sqlite file path, matching
// this backend's zero-configuration default.
func Open(dsn string) (*Store, error) {
	driver, source := splitDSN(dsn)
	db, err := sql.Open(driver, source)
	if err != nil {
		return nil, fmt.Errorf("history: open %s: %w", driver, err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("history: ping %s: %w", driver, err)
	}
	if _, err := db.Exec(createTableSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("history: migrate: %w", err)
	}
	return &Store{db: db}, nil
}

func splitDSN(dsn string) (driver, source string) {
	for _, scheme := range []string{"mysql", "postgres", "sqlserver"} {
		prefix := scheme + "://"
		if strings.HasPrefix(dsn, prefix) {
			return schemeDriver(scheme), strings.TrimPrefix(dsn, prefix)
		}
	}
	if dsn == "" {
		dsn = "rmc4_history.db"
	}
	return "sqlite", dsn
}

func schemeDriver(scheme string) string {
	switch scheme {
	case "postgres":
		return "postgres"
	case "sqlserver":
		return "sqlserver"
	default:
		return scheme
	}
}

const createTableSQL = `
CREATE TABLE IF NOT EXISTS compile_runs (
	run_id        TEXT PRIMARY KEY,
	source_path   TEXT NOT NULL,
	success       INTEGER NOT NULL,
	failed_phase  TEXT NOT NULL,
	warning_count INTEGER NOT NULL,
	tac_before    INTEGER NOT NULL,
	tac_after     INTEGER NOT NULL,
	duration_ms   INTEGER NOT NULL,
	recorded_at   TEXT NOT NULL
)`

// Insert writes one record. cmd/rmc4 runs this on an errgroup goroutine
// only after all seven phases have finished and waits for it before
// exiting, so history persistence never delays or reorders the core
// phases; a slow database does delay the process exit.
func (s *Store) Insert(r Record) error {
	_, err := s.db.Exec(
		`INSERT INTO compile_runs
			(run_id, source_path, success, failed_phase, warning_count, tac_before, tac_after, duration_ms, recorded_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.RunID, r.SourcePath, boolToInt(r.Success), r.FailedPhase, r.WarningCount,
		r.TACBefore, r.TACAfter, r.Duration.Milliseconds(), r.Timestamp.Format(time.RFC3339),
	)
	return err
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// Close releases the underlying connection pool.
func (s *Store) Close() error { return s.db.Close() }
