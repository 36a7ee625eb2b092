// Package storage provides the persistence backends for mathrush: key-value
// stores for the recent-history list and a SQLite archive of every run.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/Masterminds/squirrel"
	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/vovakirdan/mathrush/internal/history"
	"github.com/vovakirdan/mathrush/internal/quiz"
)

// ErrNotFound is returned by Get when the key does not exist.
var ErrNotFound = errors.New("storage: not found")

var sqlBuilder = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question)

// Store manages the SQLite database connection.
type Store struct {
	db *sql.DB
}

// RunRecord is one archived run.
type RunRecord struct {
	ID     int64
	Player string
	history.Summary
}

// RunFilter narrows archive queries. Zero values match everything.
type RunFilter struct {
	Player     string
	Mode       quiz.Mode
	Difficulty quiz.Difficulty
	Limit      int
}

// ModeStats contains aggregated statistics for one mode.
type ModeStats struct {
	Mode         quiz.Mode
	RunsCount    int
	BestScore    int
	AvgScore     float64
	AvgAccuracy  float64
	TotalStars   int
	LastPlayed   time.Time
	BestMaxCombo int
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	// Create parent directories
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}

	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS kv (
			key TEXT PRIMARY KEY,
			value BLOB NOT NULL,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id TEXT NOT NULL UNIQUE,
			player TEXT NOT NULL DEFAULT '',
			mode TEXT NOT NULL,
			difficulty TEXT NOT NULL,
			score INTEGER NOT NULL DEFAULT 0,
			accuracy REAL NOT NULL DEFAULT 0,
			max_combo INTEGER NOT NULL DEFAULT 0,
			speed_stars INTEGER NOT NULL DEFAULT 0,
			shield_used INTEGER NOT NULL DEFAULT 0,
			questions_answered INTEGER NOT NULL DEFAULT 0,
			time_taken_ms INTEGER NOT NULL DEFAULT 0,
			completed_at_ms INTEGER NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_runs_mode ON runs(mode, difficulty);
		CREATE INDEX IF NOT EXISTS idx_runs_player ON runs(player);
		CREATE INDEX IF NOT EXISTS idx_runs_top ON runs(mode, score DESC);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Get returns the value stored under key, or ErrNotFound.
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := s.db.QueryRowContext(ctx, "SELECT value FROM kv WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("storage: cannot read key %q: %w", key, err)
	}
	return value, nil
}

// Set stores value under key, replacing any previous value.
func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO kv (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value,
	)
	if err != nil {
		return fmt.Errorf("storage: cannot write key %q: %w", key, err)
	}
	return nil
}

// Delete removes key. Deleting a missing key is not an error.
func (s *Store) Delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM kv WHERE key = ?", key); err != nil {
		return fmt.Errorf("storage: cannot delete key %q: %w", key, err)
	}
	return nil
}

// ArchiveFor returns a history.Archive that tags runs with player.
func (s *Store) ArchiveFor(player string) history.Archive {
	return playerArchive{store: s, player: player}
}

// AppendRun archives a run for the anonymous local player.
func (s *Store) AppendRun(ctx context.Context, summary history.Summary) error {
	return s.appendRun(ctx, "", summary)
}

func (s *Store) appendRun(ctx context.Context, player string, summary history.Summary) error {
	query, args, err := sqlBuilder.Insert("runs").
		Columns(
			"run_id", "player", "mode", "difficulty", "score", "accuracy", "max_combo",
			"speed_stars", "shield_used", "questions_answered", "time_taken_ms", "completed_at_ms",
		).
		Values(
			summary.RunID, player, string(summary.Mode), string(summary.Difficulty), summary.Score,
			summary.Accuracy, summary.MaxCombo, summary.SpeedStars, summary.ShieldUsed,
			summary.QuestionsAnswered, summary.TimeTakenMs, summary.CompletedAt.UnixMilli(),
		).
		Suffix("ON CONFLICT(run_id) DO NOTHING").
		ToSql()
	if err != nil {
		return fmt.Errorf("storage: cannot build insert: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("storage: cannot archive run: %w", err)
	}
	return nil
}

// Runs lists archived runs, most recent first.
func (s *Store) Runs(ctx context.Context, filter RunFilter) ([]RunRecord, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}

	query := filter.apply(sqlBuilder.Select(
		"id", "run_id", "player", "mode", "difficulty", "score", "accuracy", "max_combo",
		"speed_stars", "shield_used", "questions_answered", "time_taken_ms", "completed_at_ms",
	).From("runs")).
		OrderBy("completed_at_ms DESC", "id DESC").
		Limit(uint64(limit))

	q, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("storage: cannot build query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query runs: %w", err)
	}
	defer rows.Close()

	var records []RunRecord
	for rows.Next() {
		var (
			r           RunRecord
			mode, diff  string
			completedMs int64
		)
		if err := rows.Scan(
			&r.ID, &r.RunID, &r.Player, &mode, &diff, &r.Score, &r.Accuracy, &r.MaxCombo,
			&r.SpeedStars, &r.ShieldUsed, &r.QuestionsAnswered, &r.TimeTakenMs, &completedMs,
		); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		r.Mode = quiz.Mode(mode)
		r.Difficulty = quiz.Difficulty(diff)
		r.CompletedAt = time.UnixMilli(completedMs).UTC()
		records = append(records, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return records, nil
}

// Stats aggregates archived runs per mode. Limit is ignored.
func (s *Store) Stats(ctx context.Context, filter RunFilter) ([]ModeStats, error) {
	query := filter.apply(sqlBuilder.Select(
		"mode", "COUNT(*)", "MAX(score)", "AVG(score)", "AVG(accuracy)",
		"SUM(speed_stars)", "MAX(completed_at_ms)", "MAX(max_combo)",
	).From("runs")).
		GroupBy("mode").
		OrderBy("mode")

	q, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("storage: cannot build query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get run stats: %w", err)
	}
	defer rows.Close()

	var stats []ModeStats
	for rows.Next() {
		var (
			st         ModeStats
			mode       string
			lastPlayed int64
		)
		if err := rows.Scan(&mode, &st.RunsCount, &st.BestScore, &st.AvgScore, &st.AvgAccuracy,
			&st.TotalStars, &lastPlayed, &st.BestMaxCombo); err != nil {
			return nil, fmt.Errorf("storage: cannot scan stats row: %w", err)
		}
		st.Mode = quiz.Mode(mode)
		st.LastPlayed = time.UnixMilli(lastPlayed).UTC()
		stats = append(stats, st)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return stats, nil
}

// ClearRuns deletes archived runs matching filter.
func (s *Store) ClearRuns(ctx context.Context, filter RunFilter) error {
	del := sqlBuilder.Delete("runs")
	if filter.Player != "" {
		del = del.Where(squirrel.Eq{"player": filter.Player})
	}
	if filter.Mode != "" {
		del = del.Where(squirrel.Eq{"mode": string(filter.Mode)})
	}
	if filter.Difficulty != "" {
		del = del.Where(squirrel.Eq{"difficulty": string(filter.Difficulty)})
	}

	q, args, err := del.ToSql()
	if err != nil {
		return fmt.Errorf("storage: cannot build delete: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, q, args...); err != nil {
		return fmt.Errorf("storage: cannot clear runs: %w", err)
	}
	return nil
}

func (f RunFilter) apply(q squirrel.SelectBuilder) squirrel.SelectBuilder {
	if f.Player != "" {
		q = q.Where(squirrel.Eq{"player": f.Player})
	}
	if f.Mode != "" {
		q = q.Where(squirrel.Eq{"mode": string(f.Mode)})
	}
	if f.Difficulty != "" {
		q = q.Where(squirrel.Eq{"difficulty": string(f.Difficulty)})
	}
	return q
}

type playerArchive struct {
	store  *Store
	player string
}

func (a playerArchive) AppendRun(ctx context.Context, summary history.Summary) error {
	return a.store.appendRun(ctx, a.player, summary)
}

// Ensure Store implements the history ports
var (
	_ history.KeyValue = (*Store)(nil)
	_ history.Archive  = (*Store)(nil)
)
