// Package mcptools exposes Oppla capabilities as MCP tools.
//
// Each tool follows the same pattern:
// - A struct with dependencies injected via constructor
// - Definition() returns the mcp.Tool schema
// - Handle() processes the request and returns a result
package mcptools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"oppla/internal/search"
)

// FileSearchTool handles the file_search MCP tool. It performs semantic
// search against the Oppla workspace, scoped by the ambient task context
// when one is synced.
type FileSearchTool struct {
	client *search.Client
}

// NewFileSearchTool creates a FileSearchTool.
func NewFileSearchTool(client *search.Client) *FileSearchTool {
	return &FileSearchTool{client: client}
}

// Definition returns the MCP tool definition for file_search.
func (t *FileSearchTool) Definition() mcp.Tool {
	return mcp.NewTool("file_search",
		mcp.WithDescription(
			"Semantic search across the Oppla workspace: tasks, threads, documents, and "+
				"comments. When a task is synced, results are automatically scoped to the "+
				"synced account, product, and board unless you override those filters.",
		),
		mcp.WithString("query",
			mcp.Description("Natural language search query. Required unless thread_id is set."),
		),
		mcp.WithString("type",
			mcp.Description("Type of content to search: conversations, tasks, compressed, or all"),
		),
		mcp.WithString("content_type",
			mcp.Description("Content to extract: work_item, big_bet, or auto"),
		),
		mcp.WithString("thread_id",
			mcp.Description("Restrict search to a single thread"),
		),
		mcp.WithString("account_id",
			mcp.Description("Override the synced account scope"),
		),
		mcp.WithString("product_id",
			mcp.Description("Override the synced product scope"),
		),
		mcp.WithString("board_id",
			mcp.Description("Override the synced board scope"),
		),
		mcp.WithString("task_id",
			mcp.Description("Restrict search to a single task"),
		),
		mcp.WithNumber("limit",
			mcp.Description("Max results (default: 10)"),
		),
	)
}

// Handle processes the file_search tool call.
func (t *FileSearchTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	filter := &search.Filter{
		SearchType:  req.GetString("type", ""),
		ContentType: req.GetString("content_type", ""),
		ThreadID:    req.GetString("thread_id", ""),
		AccountID:   req.GetString("account_id", ""),
		ProductID:   req.GetString("product_id", ""),
		BoardID:     req.GetString("board_id", ""),
		TaskID:      req.GetString("task_id", ""),
	}
	if filter.IsZero() {
		filter = nil
	}

	resp, err := t.client.Search(ctx, search.Request{
		Query:  req.GetString("query", ""),
		Limit:  intArg(req, "limit", 10),
		Filter: filter,
	})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("search failed: %v", err)), nil
	}

	return mcp.NewToolResultText(search.FormatResults(resp)), nil
}

// intArg extracts an integer argument from a tool request, returning
// defaultVal if the key is missing or not a number (JSON numbers are float64).
func intArg(req mcp.CallToolRequest, key string, defaultVal int) int {
	v, ok := req.GetArguments()[key].(float64)
	if !ok {
		return defaultVal
	}
	return int(v)
}
