package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"oppla/internal/client"
	"oppla/internal/config"
	"oppla/internal/logging"
)

var (
	// Global flags
	verbose bool

	// Resolved in PersistentPreRunE
	logger  *zap.Logger
	userCfg *config.UserConfig
	api     *client.Client
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "oppla",
	Short: "Oppla - task context sync and workspace search for your editor",
	Long: `oppla connects your terminal and editor to the Oppla web app.

Sync the task you are working on from the Oppla board, search the workspace
with that context applied, and expose both to AI assistants over MCP.

Run 'oppla sync' to pick a task in the browser and pull its context here.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		zapCfg := zap.NewProductionConfig()
		if verbose {
			zapCfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = zapCfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		home := config.OpplaHome()
		if err := logging.Initialize(home); err != nil {
			logger.Warn("file logging disabled", zap.Error(err))
		}

		userCfg, err = config.LoadUserConfig(filepath.Join(home, "config.json"))
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		api = client.New(userCfg.GetAPIBaseURL(), filepath.Join(home, "credentials.json"))
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logging.CloseAll()
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")

	rootCmd.AddCommand(syncCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(whoamiCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// historyPath returns the SQLite database used for sync history.
func historyPath() string {
	return filepath.Join(config.OpplaHome(), "oppla.db")
}
