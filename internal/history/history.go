package history

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fenilsonani/tempclean/internal/cleaner"
	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

// Store is an append-only audit trail of sweeps. The sweep engine never reads
// it; only the CLI writes and lists records.
type Store struct {
	db *sql.DB
}

// Sweep is one recorded sweep
type Sweep struct {
	ID             string
	Directory      string
	Mode           string
	EntriesSeen    int
	EntriesRemoved int
	EntriesSkipped int
	ErrorCount     int
	SuccessRate    float64
	LogFilePath    string
	StartedAt      time.Time
	Duration       time.Duration
}

// Open opens (creating if needed) the history database at path
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create history directory %s: %w", dir, err)
		}
	}

	// _loc=auto parses DATETIME columns back into time.Time
	db, err := sql.Open("sqlite3", "file:"+path+"?_loc=auto")
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}
	defer func() {
		if err != nil {
			db.Close()
		}
	}()

	if _, err = db.Exec("SELECT 1"); err != nil {
		return nil, fmt.Errorf("failed to initialize history database (check permissions on %s): %w", path, err)
	}
	if _, err = db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return nil, fmt.Errorf("failed to enable WAL: %w", err)
	}
	if _, err = db.Exec("PRAGMA synchronous=NORMAL"); err != nil {
		return nil, fmt.Errorf("failed to set synchronous mode: %w", err)
	}

	s := &Store{db: db}
	if err = s.initSchema(); err != nil {
		return nil, fmt.Errorf("failed to create history schema: %w", err)
	}

	return s, nil
}

func (s *Store) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS sweeps (
		id TEXT PRIMARY KEY,
		directory TEXT NOT NULL,
		mode TEXT NOT NULL,
		entries_seen INTEGER NOT NULL,
		entries_removed INTEGER NOT NULL,
		entries_skipped INTEGER NOT NULL,
		error_count INTEGER NOT NULL,
		success_rate REAL NOT NULL,
		log_file TEXT,
		started_at DATETIME NOT NULL,
		duration_ms INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS sweep_errors (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		sweep_id TEXT NOT NULL REFERENCES sweeps(id) ON DELETE CASCADE,
		path TEXT NOT NULL,
		message TEXT NOT NULL,
		reason TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_sweeps_started_at ON sweeps(started_at);
	CREATE INDEX IF NOT EXISTS idx_sweep_errors_sweep ON sweep_errors(sweep_id);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Record stores a completed report and its errors, returning the new sweep ID
func (s *Store) Record(report *cleaner.Report) (string, error) {
	if report == nil {
		return "", fmt.Errorf("cannot record nil report")
	}

	id := uuid.NewString()

	tx, err := s.db.Begin()
	if err != nil {
		return "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
	INSERT INTO sweeps (
		id, directory, mode, entries_seen, entries_removed, entries_skipped,
		error_count, success_rate, log_file, started_at, duration_ms
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id,
		report.Directory,
		report.Mode.String(),
		report.EntriesSeen,
		report.EntriesRemoved,
		report.EntriesSkipped,
		len(report.Errors),
		report.SuccessRate,
		report.LogFilePath,
		report.StartedAt.UTC(),
		report.Duration.Milliseconds(),
	)
	if err != nil {
		return "", fmt.Errorf("failed to insert sweep: %w", err)
	}

	for _, e := range report.Errors {
		reason, _ := e.Reason.MarshalText()
		if _, err := tx.Exec(
			`INSERT INTO sweep_errors (sweep_id, path, message, reason) VALUES (?, ?, ?, ?)`,
			id, e.Path, e.Message, string(reason),
		); err != nil {
			return "", fmt.Errorf("failed to insert sweep error: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("failed to commit sweep: %w", err)
	}
	return id, nil
}

// Recent returns up to limit sweeps, newest first
func (s *Store) Recent(limit int) ([]Sweep, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(`
	SELECT id, directory, mode, entries_seen, entries_removed, entries_skipped,
		error_count, success_rate, log_file, started_at, duration_ms
	FROM sweeps
	ORDER BY started_at DESC, rowid DESC
	LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sweeps []Sweep
	for rows.Next() {
		var sw Sweep
		var logFile sql.NullString
		var durationMS int64

		if err := rows.Scan(
			&sw.ID, &sw.Directory, &sw.Mode, &sw.EntriesSeen, &sw.EntriesRemoved,
			&sw.EntriesSkipped, &sw.ErrorCount, &sw.SuccessRate, &logFile,
			&sw.StartedAt, &durationMS,
		); err != nil {
			return nil, err
		}

		sw.LogFilePath = logFile.String
		sw.Duration = time.Duration(durationMS) * time.Millisecond
		sweeps = append(sweeps, sw)
	}

	return sweeps, rows.Err()
}

// Errors returns the entry errors recorded for a sweep
func (s *Store) Errors(sweepID string) ([]cleaner.EntryError, error) {
	rows, err := s.db.Query(
		`SELECT path, message, reason FROM sweep_errors WHERE sweep_id = ? ORDER BY id`, sweepID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var errs []cleaner.EntryError
	for rows.Next() {
		var e cleaner.EntryError
		var reason string
		if err := rows.Scan(&e.Path, &e.Message, &reason); err != nil {
			return nil, err
		}
		e.Reason = parseReason(reason)
		errs = append(errs, e)
	}

	return errs, rows.Err()
}

// Close closes the database
func (s *Store) Close() error {
	return s.db.Close()
}

func parseReason(label string) cleaner.ErrorReason {
	for r := cleaner.ErrorPermissionDenied; r <= cleaner.ErrorUnknown; r++ {
		if text, _ := r.MarshalText(); string(text) == label {
			return r
		}
	}
	return cleaner.ErrorUnknown
}
