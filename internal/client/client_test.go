package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c := New(srv.URL, filepath.Join(t.TempDir(), "credentials.json"))
	if err := c.SaveCredentials(Credentials{SessionToken: "session-abc", Email: "dev@example.com"}); err != nil {
		t.Fatalf("SaveCredentials failed: %v", err)
	}
	return c
}

func TestAcquireLlmToken(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/llm-token" {
			t.Errorf("path=%q, want /api/v1/llm-token", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer session-abc" {
			t.Errorf("Authorization=%q", got)
		}
		w.Write([]byte(`{"token":"tok123"}`))
	})

	tok, err := c.AcquireLlmToken(context.Background())
	if err != nil {
		t.Fatalf("AcquireLlmToken failed: %v", err)
	}
	if tok != "tok123" {
		t.Errorf("token=%q, want tok123", tok)
	}
}

func TestAcquireLlmTokenNotSignedIn(t *testing.T) {
	c := New("http://127.0.0.1:0", filepath.Join(t.TempDir(), "credentials.json"))

	_, err := c.AcquireLlmToken(context.Background())
	if !errors.Is(err, ErrNotSignedIn) {
		t.Fatalf("err=%v, want ErrNotSignedIn", err)
	}
}

func TestAcquireLlmTokenRejectedSession(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "expired", http.StatusUnauthorized)
	})

	_, err := c.AcquireLlmToken(context.Background())
	if !errors.Is(err, ErrNotSignedIn) {
		t.Fatalf("err=%v, want ErrNotSignedIn on 401", err)
	}
}

func TestAcquireLlmTokenServerError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	_, err := c.AcquireLlmToken(context.Background())
	if err == nil || errors.Is(err, ErrNotSignedIn) {
		t.Fatalf("err=%v, want wrapped server error", err)
	}
}

func TestCredentialsPersistence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials.json")

	c := New("https://app.oppla.ai", path)
	if c.SignedIn() {
		t.Error("fresh client should not be signed in")
	}

	if err := c.SaveCredentials(Credentials{SessionToken: "s1", Email: "a@b.c"}); err != nil {
		t.Fatalf("SaveCredentials failed: %v", err)
	}

	reloaded := New("https://app.oppla.ai", path)
	if !reloaded.SignedIn() {
		t.Fatal("reloaded client should be signed in")
	}
	if reloaded.Email() != "a@b.c" {
		t.Errorf("Email=%q", reloaded.Email())
	}

	if err := reloaded.ClearCredentials(); err != nil {
		t.Fatalf("ClearCredentials failed: %v", err)
	}
	if reloaded.SignedIn() {
		t.Error("client should not be signed in after clear")
	}
	// Clearing twice is fine
	if err := reloaded.ClearCredentials(); err != nil {
		t.Errorf("second ClearCredentials returned error: %v", err)
	}
}
