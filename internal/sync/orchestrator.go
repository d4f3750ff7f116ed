package sync

import (
	"context"
	"time"

	"github.com/google/uuid"

	"oppla/internal/logging"
)

// State identifies where a sync attempt is in its lifecycle.
type State int

const (
	StateIdle State = iota
	StateAcquiringToken
	StateListenerBound
	StateAwaitingCallback
	StateCompleted
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateAcquiringToken:
		return "acquiring_token"
	case StateListenerBound:
		return "listener_bound"
	case StateAwaitingCallback:
		return "awaiting_callback"
	case StateCompleted:
		return "completed"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Status is a progress event emitted as a sync attempt advances.
type Status struct {
	AttemptID  string
	State      State
	Port       int    // set from StateListenerBound onward
	HandoffURL string // set from StateAwaitingCallback onward
	Data       *TaskSyncData
	Err        error
}

// TokenSource provides the short-lived bearer token the handoff URL embeds.
type TokenSource interface {
	AcquireLlmToken(ctx context.Context) (string, error)
}

// Orchestrator drives one sync handshake end to end: acquire token, bind the
// callback listener, hand off to the browser, await the callback, publish the
// result to the store.
//
// Run blocks; callers that must stay responsive (the TUI) invoke it from a
// goroutine. Starting a second attempt while one is outstanding is permitted;
// the store update is last-write-wins.
type Orchestrator struct {
	tokens      TokenSource
	store       *Store
	appBaseURL  string
	budget      time.Duration
	openBrowser func(url string) error
	onStatus    func(Status)
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithBrowserOpener replaces the browser launcher. Tests use this to drive
// the callback themselves.
func WithBrowserOpener(open func(url string) error) Option {
	return func(o *Orchestrator) { o.openBrowser = open }
}

// WithStatusFunc registers a callback invoked on every state transition.
// It is called from the goroutine running Run.
func WithStatusFunc(fn func(Status)) Option {
	return func(o *Orchestrator) { o.onStatus = fn }
}

// NewOrchestrator creates an orchestrator publishing into store.
func NewOrchestrator(tokens TokenSource, store *Store, appBaseURL string, budget time.Duration, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		tokens:      tokens,
		store:       store,
		appBaseURL:  appBaseURL,
		budget:      budget,
		openBrowser: OpenBrowser,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

func (o *Orchestrator) notify(s Status) {
	logging.SyncDebug("attempt %s: %s", s.AttemptID, s.State)
	if o.onStatus != nil {
		o.onStatus(s)
	}
}

// Run executes one sync attempt. On success the payload has been published to
// the store before Run returns. On failure the store is left untouched.
//
// Token acquisition failures come back unwrapped so callers can test for
// client.ErrNotSignedIn and surface the sign-in remediation; a timed-out wait
// returns ErrSyncTimeout.
func (o *Orchestrator) Run(ctx context.Context) (TaskSyncData, error) {
	attemptID := uuid.NewString()
	status := Status{AttemptID: attemptID, State: StateAcquiringToken}
	o.notify(status)

	token, err := o.tokens.AcquireLlmToken(ctx)
	if err != nil {
		logging.SyncError("attempt %s: failed to acquire LLM token: %v", attemptID, err)
		status.State = StateFailed
		status.Err = err
		o.notify(status)
		return TaskSyncData{}, err
	}

	listener, err := NewListener()
	if err != nil {
		status.State = StateFailed
		status.Err = err
		o.notify(status)
		return TaskSyncData{}, err
	}

	status.State = StateListenerBound
	status.Port = listener.Port()
	o.notify(status)

	handoffURL := BuildHandoffURL(o.appBaseURL, token, listener.Port())
	logging.Sync("attempt %s: listener on port %d, opening %s", attemptID, listener.Port(), o.appBaseURL)

	// Fire and forget: the user can open the printed URL manually if the
	// launcher fails, so the wait continues either way.
	if err := o.openBrowser(handoffURL); err != nil {
		logging.SyncError("attempt %s: failed to open browser: %v", attemptID, err)
	}

	status.State = StateAwaitingCallback
	status.HandoffURL = handoffURL
	o.notify(status)

	data, err := listener.Listen(ctx, o.budget)
	if err != nil {
		status.State = StateFailed
		status.Err = err
		o.notify(status)
		return TaskSyncData{}, err
	}

	o.store.Set(data)

	status.State = StateCompleted
	status.Data = &data
	o.notify(status)
	return data, nil
}
