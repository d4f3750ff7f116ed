package mcptools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	syncpkg "oppla/internal/sync"
)

// TaskContextTool handles the task_context MCP tool, reporting the
// currently synced task context so the model knows what the user is
// working on without asking.
type TaskContextTool struct {
	store *syncpkg.Store
}

// NewTaskContextTool creates a TaskContextTool.
func NewTaskContextTool(store *syncpkg.Store) *TaskContextTool {
	return &TaskContextTool{store: store}
}

// Definition returns the MCP tool definition for task_context.
func (t *TaskContextTool) Definition() mcp.Tool {
	return mcp.NewTool("task_context",
		mcp.WithDescription(
			"Get the task context currently synced from the Oppla web app: account, "+
				"product, board, and (when present) the specific task the user is working on. "+
				"Call this before searching or making task-scoped suggestions.",
		),
	)
}

// Handle processes the task_context tool call.
func (t *TaskContextTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	data, ok := t.store.Get()
	if !ok {
		return mcp.NewToolResultText(
			"No task context is synced. Ask the user to run 'oppla sync' or use the " +
				"Sync button in the Oppla web app.",
		), nil
	}

	var b strings.Builder
	b.WriteString("Current task context:\n\n")
	writeField(&b, "Account", data.AccountName, data.AccountID)
	writeField(&b, "Product", data.ProductName, data.ProductID)
	writeField(&b, "Big Bet", data.BigBet, data.BoardID)
	if data.BigBetDescription != "" {
		fmt.Fprintf(&b, "  %s\n", data.BigBetDescription)
	}
	if data.HasTask() {
		writeField(&b, "Work Item", data.WorkItem, data.TaskID)
		if data.WorkItemDescription != "" {
			fmt.Fprintf(&b, "  %s\n", data.WorkItemDescription)
		}
	} else {
		b.WriteString("No specific work item, synced at board level.\n")
	}
	fmt.Fprintf(&b, "\nSynced at: %s\n", data.SyncedAt.Format("2006-01-02 15:04:05 MST"))

	return mcp.NewToolResultText(b.String()), nil
}

func writeField(b *strings.Builder, label, name, id string) {
	switch {
	case name != "" && id != "":
		fmt.Fprintf(b, "%s: %s (%s)\n", label, name, id)
	case name != "":
		fmt.Fprintf(b, "%s: %s\n", label, name)
	case id != "":
		fmt.Fprintf(b, "%s: %s\n", label, id)
	}
}
