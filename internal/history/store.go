package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// ErrNotFound indicates no run matches the requested identifier.
var ErrNotFound = errors.New("history: run not found")

// Store manages run persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the history database inside stateDir.
func Open(stateDir string) (*Store, error) {
	if strings.TrimSpace(stateDir) == "" {
		return nil, errors.New("history: state directory required")
	}
	if err := os.MkdirAll(stateDir, 0o755); err != nil {
		return nil, fmt.Errorf("ensure state directory: %w", err)
	}

	dbPath := filepath.Join(stateDir, "history.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: dbPath}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}

	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path reports the database file location.
func (s *Store) Path() string {
	return s.path
}

// Add archives one finished run.
func (s *Store) Add(ctx context.Context, record Record) error {
	if record.ID == "" {
		return errors.New("history: record requires an id")
	}
	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO runs (
            id, input, output, speed, video_filters, audio_filters,
            crf, preset, duration_ms, status, error_message,
            started_at, finished_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		record.ID,
		record.Input,
		record.Output,
		record.Speed,
		record.VideoFilters,
		record.AudioFilters,
		record.CRF,
		record.Preset,
		record.DurationMS,
		record.Status,
		record.ErrorMessage,
		formatTime(record.StartedAt),
		formatTime(record.FinishedAt),
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	return nil
}

// List returns runs newest-first, capped at limit (0 = no cap).
func (s *Store) List(ctx context.Context, limit int) ([]Record, error) {
	query := `SELECT id, input, output, speed, video_filters, audio_filters,
        crf, preset, duration_ms, status, error_message, started_at, finished_at
        FROM runs ORDER BY started_at DESC`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return records, nil
}

// Get fetches a single run by its identifier or unambiguous prefix.
func (s *Store) Get(ctx context.Context, id string) (Record, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Record{}, ErrNotFound
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, input, output, speed, video_filters, audio_filters,
            crf, preset, duration_ms, status, error_message, started_at, finished_at
            FROM runs WHERE id LIKE ? LIMIT 2`,
		id+"%",
	)
	if err != nil {
		return Record{}, fmt.Errorf("get run: %w", err)
	}
	defer rows.Close()

	var matches []Record
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return Record{}, err
		}
		matches = append(matches, record)
	}
	if err := rows.Err(); err != nil {
		return Record{}, fmt.Errorf("iterate runs: %w", err)
	}

	switch len(matches) {
	case 0:
		return Record{}, ErrNotFound
	case 1:
		return matches[0], nil
	default:
		return Record{}, fmt.Errorf("history: id prefix %q is ambiguous", id)
	}
}

// Clear removes every archived run.
func (s *Store) Clear(ctx context.Context) (int64, error) {
	result, err := s.db.ExecContext(ctx, "DELETE FROM runs")
	if err != nil {
		return 0, fmt.Errorf("clear runs: %w", err)
	}
	removed, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return removed, nil
}

func scanRecord(rows *sql.Rows) (Record, error) {
	var record Record
	var startedAt, finishedAt string
	err := rows.Scan(
		&record.ID,
		&record.Input,
		&record.Output,
		&record.Speed,
		&record.VideoFilters,
		&record.AudioFilters,
		&record.CRF,
		&record.Preset,
		&record.DurationMS,
		&record.Status,
		&record.ErrorMessage,
		&startedAt,
		&finishedAt,
	)
	if err != nil {
		return Record{}, fmt.Errorf("scan run: %w", err)
	}
	record.StartedAt = parseTime(startedAt)
	record.FinishedAt = parseTime(finishedAt)
	return record, nil
}

func formatTime(value time.Time) string {
	if value.IsZero() {
		return ""
	}
	return value.UTC().Format(time.RFC3339Nano)
}

func parseTime(raw string) time.Time {
	if raw == "" {
		return time.Time{}
	}
	parsed, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return time.Time{}
	}
	return parsed
}
