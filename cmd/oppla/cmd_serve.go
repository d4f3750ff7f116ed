package main

import (
	"fmt"

	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"oppla/internal/mcptools"
	syncpkg "oppla/internal/sync"
)

// serveCmd runs the MCP server over stdio
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the MCP server for AI assistants",
	Long: `Serves Oppla tools over the Model Context Protocol on stdio.

Add it to your assistant's MCP configuration:

  {
    "mcpServers": {
      "oppla": { "command": "oppla", "args": ["serve"] }
    }
  }

The server exposes file_search and task_context. Task context synced with
'oppla sync' is picked up on startup.`,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	store := syncpkg.NewStore()
	seedStoreFromHistory(store)

	s := mcptools.NewServer(api, store, userCfg)
	if err := server.ServeStdio(s); err != nil {
		return fmt.Errorf("mcp server failed: %w", err)
	}
	return nil
}
