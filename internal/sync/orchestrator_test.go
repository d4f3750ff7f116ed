package sync

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"testing"
	"time"
)

type staticTokenSource struct {
	token string
	err   error
}

func (s staticTokenSource) AcquireLlmToken(ctx context.Context) (string, error) {
	return s.token, s.err
}

// browserStub parses the handoff URL the way the web app would and issues the
// callback GET with the given query.
func browserStub(t *testing.T, callbackQuery string, handoffURLs chan<- string) func(string) error {
	t.Helper()
	return func(handoffURL string) error {
		if handoffURLs != nil {
			handoffURLs <- handoffURL
		}
		u, err := url.Parse(handoffURL)
		if err != nil {
			return err
		}
		port, err := strconv.Atoi(u.Query().Get("callback_port"))
		if err != nil {
			return fmt.Errorf("bad callback_port: %w", err)
		}
		go func() {
			resp, err := testClient.Get(fmt.Sprintf("http://127.0.0.1:%d/?%s", port, callbackQuery))
			if err != nil {
				t.Errorf("callback GET failed: %v", err)
				return
			}
			resp.Body.Close()
		}()
		return nil
	}
}

func TestOrchestratorEndToEnd(t *testing.T) {
	store := NewStore()
	handoffURLs := make(chan string, 1)

	var states []State
	o := NewOrchestrator(
		staticTokenSource{token: "tok123"},
		store,
		"https://app.oppla.ai",
		10*time.Second,
		WithBrowserOpener(browserStub(t, "account_id=a1&product_id=p1&board_id=b1&task_id=t1&task_name=Fix+bug", handoffURLs)),
		WithStatusFunc(func(s Status) { states = append(states, s.State) }),
	)

	data, err := o.Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	handoff := <-handoffURLs
	u, err := url.Parse(handoff)
	if err != nil {
		t.Fatalf("handoff URL unparseable: %v", err)
	}
	port := u.Query().Get("callback_port")
	want := fmt.Sprintf("https://app.oppla.ai/home/ide?token=tok123&callback_port=%s", port)
	if handoff != want {
		t.Errorf("handoff URL = %q, want %q", handoff, want)
	}

	if data.AccountID != "a1" || data.ProductID != "p1" || data.BoardID != "b1" {
		t.Errorf("core ids = %+v", data)
	}
	if data.TaskID != "t1" || data.WorkItem != "Fix bug" {
		t.Errorf("task fields = %q/%q", data.TaskID, data.WorkItem)
	}

	stored, ok := store.Get()
	if !ok {
		t.Fatal("store empty after successful sync")
	}
	if stored.AccountID != data.AccountID || stored.TaskID != data.TaskID || !stored.SyncedAt.Equal(data.SyncedAt) {
		t.Errorf("store holds %+v, want the published payload %+v", stored, data)
	}

	wantStates := []State{StateAcquiringToken, StateListenerBound, StateAwaitingCallback, StateCompleted}
	if len(states) != len(wantStates) {
		t.Fatalf("states = %v, want %v", states, wantStates)
	}
	for i := range wantStates {
		if states[i] != wantStates[i] {
			t.Errorf("state[%d] = %v, want %v", i, states[i], wantStates[i])
		}
	}
}

func TestOrchestratorTokenFailureLeavesStoreUntouched(t *testing.T) {
	store := NewStore()
	authErr := errors.New("not signed in to Oppla")

	var last Status
	o := NewOrchestrator(
		staticTokenSource{err: authErr},
		store,
		"https://app.oppla.ai",
		time.Second,
		WithBrowserOpener(func(string) error {
			t.Error("browser must not open when token acquisition fails")
			return nil
		}),
		WithStatusFunc(func(s Status) { last = s }),
	)

	_, err := o.Run(context.Background())
	if !errors.Is(err, authErr) {
		t.Fatalf("err=%v, want the token source error", err)
	}
	if last.State != StateFailed {
		t.Errorf("final state = %v, want failed", last.State)
	}
	if _, ok := store.Get(); ok {
		t.Error("store must stay empty on auth failure")
	}
}

func TestOrchestratorTimeout(t *testing.T) {
	store := NewStore()

	o := NewOrchestrator(
		staticTokenSource{token: "tok"},
		store,
		"https://app.oppla.ai",
		200*time.Millisecond,
		// Browser never issues a callback; failure to open must not
		// abort the wait either.
		WithBrowserOpener(func(string) error { return errors.New("no browser installed") }),
	)

	_, err := o.Run(context.Background())
	if !errors.Is(err, ErrSyncTimeout) {
		t.Fatalf("err=%v, want ErrSyncTimeout", err)
	}
	if _, ok := store.Get(); ok {
		t.Error("store must stay empty on timeout")
	}
}

func TestOrchestratorLastWriteWins(t *testing.T) {
	store := NewStore()

	run := func(boardID string) {
		o := NewOrchestrator(
			staticTokenSource{token: "tok"},
			store,
			"https://app.oppla.ai",
			10*time.Second,
			WithBrowserOpener(browserStub(t, "account_id=a1&product_id=p1&board_id="+boardID, nil)),
		)
		if _, err := o.Run(context.Background()); err != nil {
			t.Fatalf("Run(%s) failed: %v", boardID, err)
		}
	}

	run("b1")
	run("b2")

	stored, ok := store.Get()
	if !ok {
		t.Fatal("store empty")
	}
	if stored.BoardID != "b2" {
		t.Errorf("BoardID=%q, want the later write b2", stored.BoardID)
	}
}
