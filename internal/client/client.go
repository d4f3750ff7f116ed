// Package client talks to the Oppla API using the stored session credential.
// It issues the short-lived LLM bearer tokens that the sync handshake and the
// search/embedding clients attach to their requests.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"oppla/internal/logging"
)

// ErrNotSignedIn indicates no usable session credential is available.
// Callers should surface a sign-in remediation instead of the raw error.
var ErrNotSignedIn = errors.New("not signed in to Oppla")

// Credentials holds the long-lived session credential persisted after sign-in.
type Credentials struct {
	SessionToken string    `json:"session_token"`
	Email        string    `json:"email,omitempty"`
	SavedAt      time.Time `json:"saved_at,omitempty"`
}

// Client is the authenticated transport to the Oppla API.
type Client struct {
	baseURL   string
	credsFile string
	http      *http.Client

	mu    sync.Mutex
	creds *Credentials
}

// New creates a client against the given API base URL, loading credentials
// from credsFile if present.
func New(baseURL, credsFile string) *Client {
	c := &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		credsFile: credsFile,
		http: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
	_ = c.LoadCredentials()
	return c
}

// DefaultCredentialsPath returns ~/.oppla/credentials.json.
func DefaultCredentialsPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".oppla", "credentials.json")
	}
	return filepath.Join(home, ".oppla", "credentials.json")
}

// LoadCredentials loads the session credential from disk.
func (c *Client) LoadCredentials() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	data, err := os.ReadFile(c.credsFile)
	if err != nil {
		return err
	}

	var creds Credentials
	if err := json.Unmarshal(data, &creds); err != nil {
		return err
	}
	c.creds = &creds
	return nil
}

// SaveCredentials persists the session credential to disk.
func (c *Client) SaveCredentials(creds Credentials) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if creds.SavedAt.IsZero() {
		creds.SavedAt = time.Now()
	}

	data, err := json.MarshalIndent(&creds, "", "  ")
	if err != nil {
		return err
	}

	dir := filepath.Dir(c.credsFile)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	if err := os.WriteFile(c.credsFile, data, 0600); err != nil {
		return err
	}

	c.creds = &creds
	return nil
}

// ClearCredentials removes the stored session credential.
func (c *Client) ClearCredentials() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.creds = nil
	err := os.Remove(c.credsFile)
	if err != nil && os.IsNotExist(err) {
		return nil
	}
	return err
}

// SignedIn reports whether a session credential is loaded.
func (c *Client) SignedIn() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.creds != nil && c.creds.SessionToken != ""
}

// Email returns the signed-in account email, if known.
func (c *Client) Email() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.creds == nil {
		return ""
	}
	return c.creds.Email
}

// BaseURL returns the API base URL the client targets.
func (c *Client) BaseURL() string {
	return c.baseURL
}

type llmTokenResponse struct {
	Token string `json:"token"`
}

// AcquireLlmToken requests a short-lived LLM bearer token from the Oppla API.
// Returns ErrNotSignedIn when there is no session credential or the API
// rejects it. No internal retry - the caller decides whether to retry or
// surface the failure.
func (c *Client) AcquireLlmToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	creds := c.creds
	c.mu.Unlock()

	if creds == nil || creds.SessionToken == "" {
		return "", ErrNotSignedIn
	}

	timer := logging.StartTimer(logging.CategoryAPI, "AcquireLlmToken")
	defer timer.Stop()

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/api/v1/llm-token", nil)
	if err != nil {
		return "", fmt.Errorf("failed to create token request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+creds.SessionToken)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("llm-token request failed: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		// fall through to decode
	case http.StatusUnauthorized, http.StatusForbidden:
		logging.API("llm-token rejected with status %d", resp.StatusCode)
		return "", ErrNotSignedIn
	default:
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("llm-token returned status %d: %s", resp.StatusCode, string(body))
	}

	var tok llmTokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tok); err != nil {
		return "", fmt.Errorf("failed to decode llm-token response: %w", err)
	}
	if tok.Token == "" {
		return "", fmt.Errorf("llm-token response contained no token")
	}

	return tok.Token, nil
}
