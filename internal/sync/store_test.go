package sync

import (
	stdsync "sync"
	"testing"
	"time"
)

func TestStoreGetEmpty(t *testing.T) {
	s := NewStore()
	if _, ok := s.Get(); ok {
		t.Error("fresh store should be empty")
	}
}

func TestStoreSetGetClear(t *testing.T) {
	s := NewStore()
	s.Set(TaskSyncData{AccountID: "a1", ProductID: "p1", BoardID: "b1", SyncedAt: time.Now()})

	got, ok := s.Get()
	if !ok {
		t.Fatal("store should hold a value after Set")
	}
	if got.BoardID != "b1" {
		t.Errorf("BoardID=%q", got.BoardID)
	}

	s.Clear()
	if _, ok := s.Get(); ok {
		t.Error("store should be empty after Clear")
	}

	// Clearing twice leaves the store empty both times
	s.Clear()
	if _, ok := s.Get(); ok {
		t.Error("store should still be empty after second Clear")
	}
}

func TestStoreSnapshotIsolation(t *testing.T) {
	s := NewStore()
	s.Set(TaskSyncData{AccountID: "a1", ProductID: "p1", BoardID: "b1"})

	snapshot, _ := s.Get()
	s.Set(TaskSyncData{AccountID: "a2", ProductID: "p2", BoardID: "b2"})

	if snapshot.AccountID != "a1" {
		t.Error("snapshot must not track later writes")
	}
}

func TestStoreConcurrentAccess(t *testing.T) {
	s := NewStore()

	var wg stdsync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				s.Set(TaskSyncData{AccountID: "a", ProductID: "p", BoardID: "b"})
				s.Clear()
			}
		}()
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				if data, ok := s.Get(); ok {
					// Replace-not-mutate: a reader never sees partial writes.
					if data.AccountID == "" || data.BoardID == "" {
						t.Error("observed partially written context")
						return
					}
				}
			}
		}()
	}
	wg.Wait()
}
