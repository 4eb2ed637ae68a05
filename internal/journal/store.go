package journal

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"trackmux/internal/services"
)

// Run status values.
const (
	StatusRunning   = "running"
	StatusCompleted = "completed"
	StatusNoAudio   = "no_audio"
	StatusFailed    = "failed"
)

// Run is one recorded pipeline run.
type Run struct {
	ID          int64
	RunID       string
	SourcePath  string
	SingleTrack bool
	Status      string
	OutputPath  string
	Error       string
	StartedAt   time.Time
	FinishedAt  time.Time
	Streams     int
}

// StreamRecord is one re-encoded audio stream within a run.
type StreamRecord struct {
	StreamIndex   int
	ChannelLayout string
	Equivalent    float64
	BitrateKbps   int
	OutputPath    string
}

// Store manages run persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the journal database at path and applies
// the schema. The parent directory is created if needed.
func Open(path string) (*Store, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("journal: empty database path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("journal: create directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("journal: open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("journal: apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: path}
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

// RecordRun inserts a new run in the running state.
func (s *Store) RecordRun(ctx context.Context, runID, sourcePath string, singleTrack bool) error {
	timestamp := time.Now().UTC().Format(time.RFC3339Nano)
	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO runs (run_id, source_path, single_track, status, started_at)
         VALUES (?, ?, ?, ?, ?)`,
		runID,
		sourcePath,
		boolToInt(singleTrack),
		StatusRunning,
		timestamp,
	)
	if err != nil {
		return fmt.Errorf("journal: insert run: %w", err)
	}
	return nil
}

// RecordStream records one re-encoded stream for the given run.
func (s *Store) RecordStream(ctx context.Context, runID string, record StreamRecord) error {
	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO run_streams (run_id, stream_index, channel_layout, channel_equivalent, bitrate_kbps, output_path)
         VALUES (?, ?, ?, ?, ?, ?)`,
		runID,
		record.StreamIndex,
		nullableString(record.ChannelLayout),
		record.Equivalent,
		record.BitrateKbps,
		record.OutputPath,
	)
	if err != nil {
		return fmt.Errorf("journal: insert stream: %w", err)
	}
	return nil
}

// FinishRun moves a run to its terminal status. outputPath and errMessage
// may be empty; both are stored as NULL in that case.
func (s *Store) FinishRun(ctx context.Context, runID, status, outputPath, errMessage string) error {
	timestamp := time.Now().UTC().Format(time.RFC3339Nano)
	res, err := s.db.ExecContext(
		ctx,
		`UPDATE runs SET status = ?, output_path = ?, error_message = ?, finished_at = ?
         WHERE run_id = ?`,
		status,
		nullableString(outputPath),
		nullableString(errMessage),
		timestamp,
		runID,
	)
	if err != nil {
		return fmt.Errorf("journal: finish run: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("journal: finish run: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("journal: unknown run %q: %w", runID, services.ErrNotFound)
	}
	return nil
}

// ListRuns returns the most recent runs, newest first, including each run's
// recorded stream count. limit <= 0 returns everything.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	query := `SELECT r.id, r.run_id, r.source_path, r.single_track, r.status,
                     r.output_path, r.error_message, r.started_at, r.finished_at,
                     COUNT(rs.id)
              FROM runs r
              LEFT JOIN run_streams rs ON rs.run_id = r.run_id
              GROUP BY r.id
              ORDER BY r.started_at DESC, r.id DESC`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("journal: list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var (
			run         Run
			singleTrack int
			outputPath  sql.NullString
			errMessage  sql.NullString
			startedAt   string
			finishedAt  sql.NullString
		)
		if err := rows.Scan(&run.ID, &run.RunID, &run.SourcePath, &singleTrack, &run.Status,
			&outputPath, &errMessage, &startedAt, &finishedAt, &run.Streams); err != nil {
			return nil, fmt.Errorf("journal: scan run: %w", err)
		}
		run.SingleTrack = singleTrack != 0
		run.OutputPath = outputPath.String
		run.Error = errMessage.String
		run.StartedAt = parseTimestamp(startedAt)
		if finishedAt.Valid {
			run.FinishedAt = parseTimestamp(finishedAt.String)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("journal: list runs: %w", err)
	}
	return runs, nil
}

// ListStreams returns the recorded streams of one run in ascending index
// order.
func (s *Store) ListStreams(ctx context.Context, runID string) ([]StreamRecord, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT stream_index, channel_layout, channel_equivalent, bitrate_kbps, output_path
         FROM run_streams WHERE run_id = ? ORDER BY stream_index`,
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("journal: list streams: %w", err)
	}
	defer rows.Close()

	var records []StreamRecord
	for rows.Next() {
		var (
			record StreamRecord
			layout sql.NullString
		)
		if err := rows.Scan(&record.StreamIndex, &layout, &record.Equivalent,
			&record.BitrateKbps, &record.OutputPath); err != nil {
			return nil, fmt.Errorf("journal: scan stream: %w", err)
		}
		record.ChannelLayout = layout.String
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("journal: list streams: %w", err)
	}
	return records, nil
}

func nullableString(value string) any {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	return value
}

func boolToInt(value bool) int {
	if value {
		return 1
	}
	return 0
}

func parseTimestamp(value string) time.Time {
	parsed, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return time.Time{}
	}
	return parsed
}
