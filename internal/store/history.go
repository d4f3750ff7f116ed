// Package store persists local oppla state using SQLite.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"oppla/internal/logging"
	syncpkg "oppla/internal/sync"
)

// HistoryStore keeps an append-only record of successful task syncs in
// ~/.oppla/oppla.db. The live ambient context stays in sync.Store; history
// exists so the user can see what they were synced to and when.
type HistoryStore struct {
	db     *sql.DB
	mu     sync.Mutex
	dbPath string
}

// HistoryEntry is one recorded sync.
type HistoryEntry struct {
	ID        int64
	AttemptID string
	Data      syncpkg.TaskSyncData
}

// NewHistoryStore initializes the SQLite database at the given path.
func NewHistoryStore(path string) (*HistoryStore, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	s := &HistoryStore{db: db, dbPath: path}
	if err := s.initialize(); err != nil {
		db.Close()
		return nil, err
	}

	logging.Store("history store ready at %s", path)
	return s, nil
}

// initialize creates the required tables.
func (s *HistoryStore) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS sync_history (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		attempt_id TEXT NOT NULL,
		account_id TEXT NOT NULL,
		account_name TEXT,
		product_id TEXT NOT NULL,
		product_name TEXT,
		board_id TEXT NOT NULL,
		big_bet TEXT,
		big_bet_description TEXT,
		task_id TEXT,
		work_item TEXT,
		work_item_description TEXT,
		synced_at DATETIME NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_sync_history_synced_at ON sync_history(synced_at);
	`

	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}
	return nil
}

// Record appends a successful sync to the history.
func (s *HistoryStore) Record(attemptID string, data syncpkg.TaskSyncData) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`
		INSERT INTO sync_history (
			attempt_id, account_id, account_name, product_id, product_name,
			board_id, big_bet, big_bet_description,
			task_id, work_item, work_item_description, synced_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		attemptID, data.AccountID, data.AccountName, data.ProductID, data.ProductName,
		data.BoardID, data.BigBet, data.BigBetDescription,
		data.TaskID, data.WorkItem, data.WorkItemDescription, data.SyncedAt.UTC())
	if err != nil {
		return fmt.Errorf("failed to record sync: %w", err)
	}

	logging.StoreDebug("recorded sync attempt %s (board=%s task=%s)", attemptID, data.BoardID, data.TaskID)
	return nil
}

// Recent returns up to limit entries, newest first.
func (s *HistoryStore) Recent(limit int) ([]HistoryEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(`
		SELECT id, attempt_id, account_id, account_name, product_id, product_name,
		       board_id, big_bet, big_bet_description,
		       task_id, work_item, work_item_description, synced_at
		FROM sync_history
		ORDER BY id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query sync history: %w", err)
	}
	defer rows.Close()

	var entries []HistoryEntry
	for rows.Next() {
		var e HistoryEntry
		var syncedAt time.Time
		if err := rows.Scan(
			&e.ID, &e.AttemptID,
			&e.Data.AccountID, &e.Data.AccountName,
			&e.Data.ProductID, &e.Data.ProductName,
			&e.Data.BoardID, &e.Data.BigBet, &e.Data.BigBetDescription,
			&e.Data.TaskID, &e.Data.WorkItem, &e.Data.WorkItemDescription,
			&syncedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan history row: %w", err)
		}
		e.Data.SyncedAt = syncedAt
		entries = append(entries, e)
	}

	return entries, rows.Err()
}

// Clear removes all recorded syncs.
func (s *HistoryStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.Exec(`DELETE FROM sync_history`); err != nil {
		return fmt.Errorf("failed to clear sync history: %w", err)
	}
	logging.Store("sync history cleared")
	return nil
}

// Close closes the database.
func (s *HistoryStore) Close() error {
	return s.db.Close()
}
