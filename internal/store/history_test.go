package store

import (
	"path/filepath"
	"testing"
	"time"

	syncpkg "oppla/internal/sync"
)

func newTestHistoryStore(t *testing.T) *HistoryStore {
	t.Helper()
	s, err := NewHistoryStore(filepath.Join(t.TempDir(), "oppla.db"))
	if err != nil {
		t.Fatalf("NewHistoryStore failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestHistoryRecordAndRecent(t *testing.T) {
	s := newTestHistoryStore(t)

	first := syncpkg.TaskSyncData{
		AccountID: "a1", ProductID: "p1", BoardID: "b1",
		BigBet:   "Q3 Launch",
		SyncedAt: time.Now().Add(-time.Hour),
	}
	second := syncpkg.TaskSyncData{
		AccountID: "a1", ProductID: "p1", BoardID: "b2",
		TaskID: "t9", WorkItem: "Fix bug",
		SyncedAt: time.Now(),
	}

	if err := s.Record("attempt-1", first); err != nil {
		t.Fatalf("Record failed: %v", err)
	}
	if err := s.Record("attempt-2", second); err != nil {
		t.Fatalf("Record failed: %v", err)
	}

	entries, err := s.Recent(10)
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}

	// Newest first
	if entries[0].AttemptID != "attempt-2" {
		t.Errorf("entries[0].AttemptID=%q, want attempt-2", entries[0].AttemptID)
	}
	if entries[0].Data.TaskID != "t9" || entries[0].Data.WorkItem != "Fix bug" {
		t.Errorf("entries[0].Data=%+v", entries[0].Data)
	}
	if entries[1].Data.BigBet != "Q3 Launch" {
		t.Errorf("entries[1].Data.BigBet=%q", entries[1].Data.BigBet)
	}
	if entries[1].Data.TaskID != "" {
		t.Errorf("board-level sync should have empty task_id, got %q", entries[1].Data.TaskID)
	}
}

func TestHistoryRecentLimit(t *testing.T) {
	s := newTestHistoryStore(t)

	for i := 0; i < 5; i++ {
		data := syncpkg.TaskSyncData{AccountID: "a", ProductID: "p", BoardID: "b", SyncedAt: time.Now()}
		if err := s.Record("attempt", data); err != nil {
			t.Fatalf("Record failed: %v", err)
		}
	}

	entries, err := s.Recent(3)
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}
	if len(entries) != 3 {
		t.Errorf("got %d entries, want 3", len(entries))
	}
}

func TestHistoryClear(t *testing.T) {
	s := newTestHistoryStore(t)

	data := syncpkg.TaskSyncData{AccountID: "a", ProductID: "p", BoardID: "b", SyncedAt: time.Now()}
	if err := s.Record("attempt", data); err != nil {
		t.Fatalf("Record failed: %v", err)
	}
	if err := s.Clear(); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	entries, err := s.Recent(10)
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("history not cleared: %d entries remain", len(entries))
	}
	// Clearing an empty store is fine
	if err := s.Clear(); err != nil {
		t.Errorf("second Clear failed: %v", err)
	}
}

func TestHistoryEmptyRecent(t *testing.T) {
	s := newTestHistoryStore(t)

	entries, err := s.Recent(10)
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("got %d entries from empty store", len(entries))
	}
}
