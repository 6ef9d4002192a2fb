package queue

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"tafrigh/internal/config"
)

// ErrActiveRun indicates another non-terminal run already exists for the
// same episode.
var ErrActiveRun = errors.New("active run exists for episode")

// ErrNotFound indicates no run matched the query.
var ErrNotFound = errors.New("run not found")

// Store manages run ledger persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

const (
	sqliteBusyCode          = 5
	busyRetryAttempts       = 5
	busyRetryInitialBackoff = 10 * time.Millisecond
	busyRetryMaxBackoff     = 200 * time.Millisecond
)

// Open initializes or connects to the run ledger database.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}

	dbPath := cfg.QueueDatabasePath()
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

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

// NewRun inserts a pending run for the given source URL.
func (s *Store) NewRun(ctx context.Context, sourceURL string) (*Item, error) {
	timestamp := time.Now().UTC().Format(time.RFC3339Nano)
	res, err := s.execWithRetry(ctx,
		`INSERT INTO runs (source_url, status, created_at, updated_at) VALUES (?, ?, ?, ?)`,
		sourceURL, StatusPending, timestamp, timestamp,
	)
	if err != nil {
		return nil, fmt.Errorf("insert run: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(ctx, id)
}

// AssignEpisode records the episode identity resolved during acquisition.
// It fails with ErrActiveRun when another non-terminal run already carries
// the same episode id.
func (s *Store) AssignEpisode(ctx context.Context, id int64, episodeID, title, audioPath string) error {
	ctx = ensureContext(ctx)
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(1) FROM runs WHERE episode_id = ? AND id != ? AND status NOT IN (?, ?)`,
		episodeID, id, StatusCompleted, StatusFailed,
	).Scan(&count)
	if err != nil {
		return fmt.Errorf("check active runs: %w", err)
	}
	if count > 0 {
		return fmt.Errorf("%w: %s", ErrActiveRun, episodeID)
	}
	return s.execWithoutResultRetry(ctx,
		`UPDATE runs SET episode_id = ?, title = ?, audio_path = ?, updated_at = ? WHERE id = ?`,
		episodeID, title, audioPath, now(), id,
	)
}

// Update persists the item's mutable fields.
func (s *Store) Update(ctx context.Context, item *Item) error {
	if item == nil {
		return errors.New("nil item")
	}
	if !item.Status.Valid() {
		return fmt.Errorf("invalid status %q", item.Status)
	}
	return s.execWithoutResultRetry(ctx,
		`UPDATE runs SET
            source_url = ?, episode_id = ?, title = ?, status = ?, audio_path = ?,
            error_message = ?, progress_stage = ?, progress_percent = ?, progress_message = ?,
            updated_at = ?
         WHERE id = ?`,
		item.SourceURL, item.EpisodeID, item.Title, item.Status, item.AudioPath,
		item.ErrorMessage, item.ProgressStage, item.ProgressPercent, item.ProgressMessage,
		now(), item.ID,
	)
}

// GetByID fetches a run by primary key.
func (s *Store) GetByID(ctx context.Context, id int64) (*Item, error) {
	row := s.db.QueryRowContext(ensureContext(ctx), selectColumns+` WHERE id = ?`, id)
	return scanItem(row)
}

// GetByEpisodeID fetches the most recent run for an episode.
func (s *Store) GetByEpisodeID(ctx context.Context, episodeID string) (*Item, error) {
	row := s.db.QueryRowContext(ensureContext(ctx),
		selectColumns+` WHERE episode_id = ? ORDER BY id DESC LIMIT 1`, episodeID)
	return scanItem(row)
}

// List returns runs, optionally filtered by status, newest first.
func (s *Store) List(ctx context.Context, statuses ...Status) ([]*Item, error) {
	query := selectColumns
	args := make([]any, 0, len(statuses))
	if len(statuses) > 0 {
		placeholders := make([]string, len(statuses))
		for i, status := range statuses {
			placeholders[i] = "?"
			args = append(args, status)
		}
		query += ` WHERE status IN (` + strings.Join(placeholders, ", ") + `)`
	}
	query += ` ORDER BY id DESC`

	rows, err := s.db.QueryContext(ensureContext(ctx), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var items []*Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// Clear deletes terminal runs and returns the number removed.
func (s *Store) Clear(ctx context.Context) (int64, error) {
	res, err := s.execWithRetry(ctx,
		`DELETE FROM runs WHERE status IN (?, ?)`, StatusCompleted, StatusFailed)
	if err != nil {
		return 0, fmt.Errorf("clear runs: %w", err)
	}
	return res.RowsAffected()
}

const selectColumns = `SELECT id, source_url, episode_id, title, status, audio_path,
    error_message, progress_stage, progress_percent, progress_message,
    created_at, updated_at
    FROM runs`

type scannable interface {
	Scan(dest ...any) error
}

func scanItem(row scannable) (*Item, error) {
	var item Item
	var status, createdAt, updatedAt string
	err := row.Scan(
		&item.ID, &item.SourceURL, &item.EpisodeID, &item.Title, &status, &item.AudioPath,
		&item.ErrorMessage, &item.ProgressStage, &item.ProgressPercent, &item.ProgressMessage,
		&createdAt, &updatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan run: %w", err)
	}
	item.Status = Status(status)
	item.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
	item.UpdatedAt, _ = time.Parse(time.RFC3339Nano, updatedAt)
	return &item, nil
}

func now() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}

func ensureContext(ctx context.Context) context.Context {
	if ctx != nil {
		return ctx
	}
	return context.Background()
}

func isSQLiteBusy(err error) bool {
	if err == nil {
		return false
	}
	var coder interface{ Code() int }
	if errors.As(err, &coder) && coder.Code() == sqliteBusyCode {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") || strings.Contains(msg, "database is locked")
}

func retryOnBusy(ctx context.Context, op func() error) error {
	delay := busyRetryInitialBackoff
	var lastErr error
	for attempt := 0; attempt < busyRetryAttempts; attempt++ {
		lastErr = op()
		if lastErr == nil {
			return nil
		}
		if !isSQLiteBusy(lastErr) || attempt == busyRetryAttempts-1 {
			break
		}
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
		if next := delay * 2; next <= busyRetryMaxBackoff {
			delay = next
		}
	}
	return lastErr
}

func (s *Store) execWithRetry(ctx context.Context, query string, args ...any) (sql.Result, error) {
	ctx = ensureContext(ctx)
	var (
		res     sql.Result
		execErr error
	)
	if err := retryOnBusy(ctx, func() error {
		res, execErr = s.db.ExecContext(ctx, query, args...)
		return execErr
	}); err != nil {
		return nil, err
	}
	return res, nil
}

func (s *Store) execWithoutResultRetry(ctx context.Context, query string, args ...any) error {
	ctx = ensureContext(ctx)
	return retryOnBusy(ctx, func() error {
		_, err := s.db.ExecContext(ctx, query, args...)
		return err
	})
}
