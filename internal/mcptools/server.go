package mcptools

import (
	"github.com/mark3labs/mcp-go/server"

	"oppla/internal/client"
	"oppla/internal/config"
	"oppla/internal/search"
	syncpkg "oppla/internal/sync"
)

// Version is set at build time via ldflags.
var Version = "dev"

// NewServer wires the MCP server with all Oppla tools registered. This is
// the composition root: concrete dependencies are created here and injected
// into the tools, no business logic lives in this file.
func NewServer(cli *client.Client, store *syncpkg.Store, cfg *config.UserConfig) *server.MCPServer {
	s := server.NewMCPServer(
		"oppla",
		Version,
		server.WithToolCapabilities(true),
		server.WithRecovery(),
		server.WithInstructions(serverInstructions()),
	)

	searchClient := search.NewClient(cfg.GetAPIBaseURL(), cli, store)

	searchTool := NewFileSearchTool(searchClient)
	s.AddTool(searchTool.Definition(), searchTool.Handle)

	contextTool := NewTaskContextTool(store)
	s.AddTool(contextTool.Definition(), contextTool.Handle)

	return s
}

func serverInstructions() string {
	return `You have access to Oppla, a product development workspace.

Call task_context at the start of a session to learn which account, product,
board, and task the user is currently synced to. Use file_search to find
tasks, threads, documents, and comments in the workspace. Searches are
automatically scoped to the synced context unless you override the filters.

If task_context reports nothing is synced, ask the user to run 'oppla sync'
or press the Sync button in the Oppla web app before making task-scoped
suggestions.`
}
