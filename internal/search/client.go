package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"oppla/internal/logging"
	syncpkg "oppla/internal/sync"
)

// Request is the JSON body sent to the search endpoint.
type Request struct {
	Query  string  `json:"query,omitempty"`
	Limit  int     `json:"limit,omitempty"`
	Filter *Filter `json:"filter,omitempty"`
}

// Result is a single search hit.
type Result struct {
	ID         string                 `json:"id"`
	Content    string                 `json:"content"`
	ResultType string                 `json:"type"`
	Similarity float32                `json:"similarity"`
	Metadata   map[string]interface{} `json:"metadata"`
}

// Response is the search endpoint's reply.
type Response struct {
	Results []Result `json:"results"`
	Total   int      `json:"total"`
	Query   string   `json:"query"`
}

// TokenSource provides the bearer token attached to search requests.
type TokenSource interface {
	AcquireLlmToken(ctx context.Context) (string, error)
}

// Client searches project planning context (big bets, work items,
// conversations) via the Oppla API.
type Client struct {
	baseURL string
	tokens  TokenSource
	store   *syncpkg.Store
	http    *http.Client
}

// NewClient creates a search client. The store supplies ambient context; it
// may be shared with a sync orchestrator publishing into it concurrently.
func NewClient(baseURL string, tokens TokenSource, store *syncpkg.Store) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		tokens:  tokens,
		store:   store,
		http: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

// Search validates the request, merges the ambient context into its filter
// and performs the call. The ambient snapshot is taken at dispatch time; a
// sync completing mid-flight does not retroactively rescope this search.
func (c *Client) Search(ctx context.Context, req Request) (*Response, error) {
	if req.Query == "" && (req.Filter == nil || req.Filter.ThreadID == "") {
		return nil, fmt.Errorf("either 'query' or 'filter.thread_id' must be provided")
	}

	var ambient *syncpkg.TaskSyncData
	if c.store != nil {
		if data, ok := c.store.Get(); ok {
			ambient = &data
		}
	}

	merged := MergeFilter(req.Filter, ambient)
	if !merged.IsZero() {
		req.Filter = &merged
	} else {
		req.Filter = nil
	}

	logging.SearchDebug("search: query=%q filter=%+v", req.Query, req.Filter)
	return c.perform(ctx, req)
}

func (c *Client) perform(ctx context.Context, req Request) (*Response, error) {
	timer := logging.StartTimer(logging.CategorySearch, "Search")
	defer timer.Stop()

	token, err := c.tokens.AcquireLlmToken(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire LLM API token: %w", err)
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal search request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/api/v1/search", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create search request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("search request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("search request failed with status %d: %s", resp.StatusCode, string(respBody))
	}

	var searchResp Response
	if err := json.NewDecoder(resp.Body).Decode(&searchResp); err != nil {
		return nil, fmt.Errorf("failed to parse search response: %w", err)
	}

	logging.Search("search returned %d results for query %q", searchResp.Total, searchResp.Query)
	return &searchResp, nil
}

// FormatResults renders a response as the human/agent-readable summary.
// Result content is truncated at 200 runes.
func FormatResults(resp *Response) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Found %d results", resp.Total)
	if resp.Query != "" {
		fmt.Fprintf(&sb, " for query %q", resp.Query)
	}

	if len(resp.Results) > 0 {
		sb.WriteString(":\n\n")
		for i, result := range resp.Results {
			content := result.Content
			if runes := []rune(content); len(runes) > 200 {
				content = string(runes[:200]) + "..."
			}
			fmt.Fprintf(&sb, "%d. [%s] (similarity: %.2f)\n%s\n\n",
				i+1, result.ResultType, result.Similarity, content)
		}
	}

	return sb.String()
}
