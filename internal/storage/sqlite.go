// Package storage provides SQLite-based persistence for scene runs and the
// finish events they produced.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// Store manages the SQLite database connection for run history.
type Store struct {
	db *sql.DB
}

// Run is one playback of a scene.
type Run struct {
	ID        string
	Scene     string
	Source    string  // "cli", "ssh" or "headless"
	Duration  float64 // timeline ms at the end of the run, 0 while running
	Finishes  int
	CreatedAt time.Time
	EndedAt   time.Time // zero while running
}

// FinishRecord is a finish event as stored.
type FinishRecord struct {
	ID           int64
	RunID        string
	AnimationID  string
	CurrentTime  float64
	TimelineTime float64
	CreatedAt    time.Time
}

// SceneStats contains aggregated statistics for a scene.
type SceneStats struct {
	Scene       string
	Runs        int
	Finishes    int
	AvgDuration float64
	LastPlayed  time.Time
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
		CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			scene TEXT NOT NULL,
			source TEXT NOT NULL,
			duration_ms REAL NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			ended_at DATETIME
		);
		CREATE INDEX IF NOT EXISTS idx_runs_scene ON runs(scene);

		CREATE TABLE IF NOT EXISTS finish_events (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
			animation_id TEXT NOT NULL,
			current_time_ms REAL NOT NULL,
			timeline_time_ms REAL NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_finish_events_run ON finish_events(run_id);
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

// StartRun records a new run of the given scene and returns its ID.
func (s *Store) StartRun(scene, source string) (string, error) {
	id := uuid.NewString()
	_, err := s.db.Exec(
		"INSERT INTO runs (id, scene, source) VALUES (?, ?, ?)",
		id, scene, source,
	)
	if err != nil {
		return "", fmt.Errorf("storage: cannot start run: %w", err)
	}
	return id, nil
}

// EndRun marks a run as ended after duration timeline ms.
func (s *Store) EndRun(runID string, duration float64) error {
	res, err := s.db.Exec(
		"UPDATE runs SET duration_ms = ?, ended_at = CURRENT_TIMESTAMP WHERE id = ?",
		duration, runID,
	)
	if err != nil {
		return fmt.Errorf("storage: cannot end run: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("storage: cannot end run %s: %w", runID, sql.ErrNoRows)
	}
	return nil
}

// RecordFinish stores a finish event of a run.
// Returns the ID of the inserted record.
func (s *Store) RecordFinish(runID, animationID string, currentTime, timelineTime float64) (int64, error) {
	result, err := s.db.Exec(
		`INSERT INTO finish_events (run_id, animation_id, current_time_ms, timeline_time_ms)
		 VALUES (?, ?, ?, ?)`,
		runID, animationID, currentTime, timelineTime,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot record finish: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}

	return id, nil
}

// RunByID retrieves a run. Returns nil if it does not exist.
func (s *Store) RunByID(runID string) (*Run, error) {
	row := s.db.QueryRow(
		`SELECT r.id, r.scene, r.source, r.duration_ms, r.created_at, r.ended_at,
		        (SELECT COUNT(*) FROM finish_events f WHERE f.run_id = r.id)
		 FROM runs r
		 WHERE r.id = ?`,
		runID,
	)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query run: %w", err)
	}
	return run, nil
}

// RecentRuns retrieves the most recent runs, newest first.
// An empty scene matches every scene.
func (s *Store) RecentRuns(scene string, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT r.id, r.scene, r.source, r.duration_ms, r.created_at, r.ended_at,
		        (SELECT COUNT(*) FROM finish_events f WHERE f.run_id = r.id)
		 FROM runs r
		 WHERE ? = '' OR r.scene = ?
		 ORDER BY r.created_at DESC, r.rowid DESC
		 LIMIT ?`,
		scene, scene, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		runs = append(runs, *run)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return runs, nil
}

// RunFinishes retrieves the finish events of a run in the order they fired.
func (s *Store) RunFinishes(runID string) ([]FinishRecord, error) {
	rows, err := s.db.Query(
		`SELECT id, run_id, animation_id, current_time_ms, timeline_time_ms, created_at
		 FROM finish_events
		 WHERE run_id = ?
		 ORDER BY id`,
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query finishes: %w", err)
	}
	defer rows.Close()

	var records []FinishRecord
	for rows.Next() {
		var r FinishRecord
		var createdAt any
		if err := rows.Scan(&r.ID, &r.RunID, &r.AnimationID, &r.CurrentTime, &r.TimelineTime, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		r.CreatedAt = parseTime(createdAt)
		records = append(records, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return records, nil
}

// ClearRuns deletes all runs of the given scene and their finish events.
func (s *Store) ClearRuns(scene string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("storage: cannot clear runs: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(
		"DELETE FROM finish_events WHERE run_id IN (SELECT id FROM runs WHERE scene = ?)",
		scene,
	); err != nil {
		return fmt.Errorf("storage: cannot clear finishes: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM runs WHERE scene = ?", scene); err != nil {
		return fmt.Errorf("storage: cannot clear runs: %w", err)
	}
	return tx.Commit()
}

// GetSceneStats retrieves aggregated statistics for every scene that has
// been played.
func (s *Store) GetSceneStats() (map[string]*SceneStats, error) {
	rows, err := s.db.Query(
		`SELECT r.scene, COUNT(*), COALESCE(SUM(
		            (SELECT COUNT(*) FROM finish_events f WHERE f.run_id = r.id)), 0),
		        COALESCE(AVG(r.duration_ms), 0), MAX(r.created_at)
		 FROM runs r
		 GROUP BY r.scene`,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get scene stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[string]*SceneStats)
	for rows.Next() {
		var st SceneStats
		var lastPlayed any
		if err := rows.Scan(&st.Scene, &st.Runs, &st.Finishes, &st.AvgDuration, &lastPlayed); err != nil {
			return nil, fmt.Errorf("storage: cannot scan stats row: %w", err)
		}
		st.LastPlayed = parseTime(lastPlayed)
		stats[st.Scene] = &st
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return stats, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (*Run, error) {
	var r Run
	var createdAt, endedAt any
	if err := row.Scan(&r.ID, &r.Scene, &r.Source, &r.Duration, &createdAt, &endedAt, &r.Finishes); err != nil {
		return nil, err
	}
	r.CreatedAt = parseTime(createdAt)
	r.EndedAt = parseTime(endedAt)
	return &r, nil
}

// parseTime handles both time.Time and string datetimes.
func parseTime(v any) time.Time {
	switch v := v.(type) {
	case time.Time:
		return v
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", v); err == nil {
			return parsed
		}
	}
	return time.Time{}
}
