package sync

import (
	stdsync "sync"

	"oppla/internal/logging"
)

// Store holds the most recent successful sync payload for the lifetime of the
// process. It is an explicitly constructed handle passed to every component
// that needs ambient task context - tool invocations, the TUI, the MCP server -
// rather than a registered global.
//
// Safe for concurrent readers and writers. Readers get a snapshot copy; the
// value is replaced or cleared atomically, never mutated field by field.
type Store struct {
	mu   stdsync.RWMutex
	data *TaskSyncData
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{}
}

// Get returns a copy of the current payload and whether one is set.
// The snapshot does not track later Set/Clear calls; a search call merges
// against the snapshot taken at dispatch time.
func (s *Store) Get() (TaskSyncData, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.data == nil {
		return TaskSyncData{}, false
	}
	return *s.data, true
}

// Set replaces the stored payload. Last write wins when sync attempts race.
func (s *Store) Set(data TaskSyncData) {
	s.mu.Lock()
	copied := data
	s.data = &copied
	s.mu.Unlock()

	logging.Sync("context stored: account=%s product=%s board=%s task=%s",
		data.AccountID, data.ProductID, data.BoardID, data.TaskID)
}

// Clear resets the store to empty. Safe to call repeatedly.
func (s *Store) Clear() {
	s.mu.Lock()
	s.data = nil
	s.mu.Unlock()

	logging.Sync("context cleared")
}
