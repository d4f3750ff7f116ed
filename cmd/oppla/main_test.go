package main

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"oppla/internal/client"
	syncpkg "oppla/internal/sync"
)

func TestRunSyncStatusEmpty(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	logger = zap.NewNop()

	output := captureOutput(t, func() {
		if err := runSyncStatus(&cobra.Command{}, nil); err != nil {
			t.Fatalf("runSyncStatus returned error: %v", err)
		}
	})

	if !strings.Contains(output, "No task context synced") {
		t.Fatalf("expected empty-state message, got: %s", output)
	}
}

func TestRunSyncHistoryEmpty(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	logger = zap.NewNop()
	historyN = 10

	output := captureOutput(t, func() {
		if err := runSyncHistory(&cobra.Command{}, nil); err != nil {
			t.Fatalf("runSyncHistory returned error: %v", err)
		}
	})

	if !strings.Contains(output, "No syncs recorded yet") {
		t.Fatalf("expected empty-state message, got: %s", output)
	}
}

func TestRunSyncClear(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	logger = zap.NewNop()

	output := captureOutput(t, func() {
		if err := runSyncClear(&cobra.Command{}, nil); err != nil {
			t.Fatalf("runSyncClear returned error: %v", err)
		}
	})

	if !strings.Contains(output, "cleared") {
		t.Fatalf("expected clear confirmation, got: %s", output)
	}
}

func TestRunWhoamiNotSignedIn(t *testing.T) {
	api = client.New("https://app.oppla.ai", filepath.Join(t.TempDir(), "credentials.json"))

	output := captureOutput(t, func() {
		if err := runWhoami(&cobra.Command{}, nil); err != nil {
			t.Fatalf("runWhoami returned error: %v", err)
		}
	})

	if !strings.Contains(output, "Not signed in") {
		t.Fatalf("expected sign-in notice, got: %s", output)
	}
}

func TestPrintSyncData(t *testing.T) {
	data := syncpkg.TaskSyncData{
		AccountID: "a1", AccountName: "Acme",
		ProductID: "p1", ProductName: "Widget",
		BoardID: "b1", BigBet: "Q3 Launch",
		SyncedAt: time.Now(),
	}

	output := captureOutput(t, func() { printSyncData(data) })

	for _, want := range []string{"Acme", "Widget", "Q3 Launch", "Board-level sync"} {
		if !strings.Contains(output, want) {
			t.Fatalf("expected %q in output, got: %s", want, output)
		}
	}
}

func captureOutput(t *testing.T, fn func()) string {
	t.Helper()

	origOut := os.Stdout
	origErr := os.Stderr
	rOut, wOut, _ := os.Pipe()
	rErr, wErr, _ := os.Pipe()
	os.Stdout = wOut
	os.Stderr = wErr

	done := make(chan string)
	go func() {
		var buf bytes.Buffer
		_, _ = io.Copy(&buf, rOut)
		_, _ = io.Copy(&buf, rErr)
		done <- buf.String()
	}()

	fn()

	_ = wOut.Close()
	_ = wErr.Close()
	os.Stdout = origOut
	os.Stderr = origErr
	return <-done
}
