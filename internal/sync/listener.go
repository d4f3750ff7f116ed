package sync

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"oppla/internal/logging"
)

// ErrSyncTimeout indicates the callback wait budget was exhausted with no
// valid callback received.
var ErrSyncTimeout = errors.New("sync timeout - no callback received")

// callbackHTML is served to the browser once the callback is captured. It
// tells the user the flow is complete and tries to close the tab.
const callbackHTML = `<!DOCTYPE html>
<html>
<head>
    <title>Sync Complete</title>
    <script>window.close();</script>
</head>
<body>
    <h1>Sync Complete!</h1>
    <p>You can close this tab and return to Oppla IDE.</p>
</body>
</html>`

// Listener receives a single sync callback on an ephemeral local port.
//
// The port is bound at construction so the caller can embed it in the handoff
// URL before blocking in Listen. Each Listener serves exactly one semantically
// valid callback per invocation; garbage requests (probes, favicon fetches,
// callbacks missing the required identifiers) are rejected without aborting
// the wait.
type Listener struct {
	ln net.Listener
}

// NewListener binds 127.0.0.1 on an OS-assigned port.
func NewListener() (*Listener, error) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return nil, fmt.Errorf("failed to bind sync callback port: %w", err)
	}
	return &Listener{ln: ln}, nil
}

// Port returns the bound ephemeral port.
func (l *Listener) Port() int {
	return l.ln.Addr().(*net.TCPAddr).Port
}

// Close releases the bound socket. Listen closes it on every exit path;
// Close exists so an owner tearing down before Listen ran can release it too.
func (l *Listener) Close() error {
	return l.ln.Close()
}

// Listen waits up to budget for one valid callback request, parses it into a
// TaskSyncData, responds with the completion page, and shuts the server down.
//
// A request is valid when its query carries non-empty account_id, product_id
// and board_id. Invalid requests get 400 and the wait continues - an attacker
// or stray probe must not be able to abort the whole wait, and must not be
// able to complete a sync with empty identifiers either. Failure to write the
// courtesy response is logged but does not discard the captured context.
//
// Returns ErrSyncTimeout when the budget expires, or ctx.Err() when the
// context is cancelled first.
func (l *Listener) Listen(ctx context.Context, budget time.Duration) (TaskSyncData, error) {
	resultCh := make(chan TaskSyncData, 1)

	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		data := ParseCallbackQuery(r.URL.Query())

		if !data.HasCoreIDs() {
			logging.SyncDebug("rejecting callback without core ids: %q", r.URL.RawQuery)
			http.Error(w, "Missing account_id, product_id or board_id", http.StatusBadRequest)
			return
		}

		w.Header().Set("Content-Type", "text/html")
		if _, err := w.Write([]byte(callbackHTML)); err != nil {
			// The context is already captured; losing the courtesy page
			// only costs the user an open tab.
			logging.SyncError("failed to respond to sync callback: %v", err)
		}

		select {
		case resultCh <- data:
		default:
			// A valid callback already won this invocation.
			logging.SyncDebug("duplicate callback ignored")
		}
	})

	server := &http.Server{Handler: mux}
	serveErrCh := make(chan error, 1)
	go func() {
		if err := server.Serve(l.ln); err != nil && err != http.ErrServerClosed {
			serveErrCh <- err
		}
	}()

	shutdown := func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}

	timer := time.NewTimer(budget)
	defer timer.Stop()

	select {
	case data := <-resultCh:
		shutdown()
		return data, nil
	case err := <-serveErrCh:
		_ = server.Close()
		return TaskSyncData{}, fmt.Errorf("sync callback server failed: %w", err)
	case <-timer.C:
		_ = server.Close()
		logging.Sync("callback wait timed out after %v on port %d", budget, l.Port())
		return TaskSyncData{}, ErrSyncTimeout
	case <-ctx.Done():
		_ = server.Close()
		return TaskSyncData{}, ctx.Err()
	}
}
