package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"oppla/cmd/oppla/ui"
	"oppla/internal/client"
	storepkg "oppla/internal/store"
	syncpkg "oppla/internal/sync"
)

var (
	syncNoUI    bool
	syncTimeout time.Duration
	historyN    int
)

// syncCmd runs the browser handshake that pulls task context from the web app
var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Sync task context from the Oppla web app",
	Long: `Opens the Oppla web app in your browser so you can pick the task you are
working on. Once you confirm, the app sends the task context back to this
machine and it becomes available to 'oppla search' and the MCP server.

The browser talks back over a loopback port that exists only for the
duration of the sync.`,
	RunE: runSync,
}

var syncStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the most recently synced task context",
	RunE:  runSyncStatus,
}

var syncClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Forget all synced task context",
	RunE:  runSyncClear,
}

var syncHistoryCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent task syncs",
	RunE:  runSyncHistory,
}

func init() {
	syncCmd.Flags().BoolVar(&syncNoUI, "no-ui", false, "Print progress as plain text instead of the interactive panel")
	syncCmd.Flags().DurationVar(&syncTimeout, "timeout", 0, "How long to wait for the browser (default: from config, 5m)")
	syncHistoryCmd.Flags().IntVarP(&historyN, "limit", "n", 10, "Max entries to show")

	syncCmd.AddCommand(syncStatusCmd)
	syncCmd.AddCommand(syncClearCmd)
	syncCmd.AddCommand(syncHistoryCmd)
}

func runSync(cmd *cobra.Command, args []string) error {
	budget := syncTimeout
	if budget <= 0 {
		budget = userCfg.GetSyncTimeout()
	}

	hist, err := storepkg.NewHistoryStore(historyPath())
	if err != nil {
		return fmt.Errorf("failed to open sync history: %w", err)
	}
	defer hist.Close()

	store := syncpkg.NewStore()

	var data syncpkg.TaskSyncData
	var attemptID string
	if syncNoUI {
		data, err = runSyncPlain(cmd.Context(), store, budget, &attemptID)
	} else {
		data, err = runSyncUI(cmd.Context(), store, budget, &attemptID)
	}
	if err != nil {
		if errors.Is(err, client.ErrNotSignedIn) {
			fmt.Printf("\nYou are not signed in. Sign in at %s and run 'oppla login'.\n",
				syncpkg.SignInURL(userCfg.GetAppBaseURL()))
		}
		return err
	}

	if err := hist.Record(attemptID, data); err != nil {
		logger.Warn("failed to record sync history", zap.Error(err))
	}
	return nil
}

// runSyncPlain runs the handshake without the interactive panel.
func runSyncPlain(ctx context.Context, store *syncpkg.Store, budget time.Duration, attemptID *string) (syncpkg.TaskSyncData, error) {
	orch := syncpkg.NewOrchestrator(api, store, userCfg.GetAppBaseURL(), budget,
		syncpkg.WithStatusFunc(func(st syncpkg.Status) {
			*attemptID = st.AttemptID
			switch st.State {
			case syncpkg.StateAcquiringToken:
				fmt.Println("Acquiring handoff token...")
			case syncpkg.StateListenerBound:
				fmt.Printf("Listening on port %d\n", st.Port)
			case syncpkg.StateAwaitingCallback:
				fmt.Println("Waiting for the browser. If nothing opened, visit:")
				fmt.Printf("  %s\n", st.HandoffURL)
			}
		}))

	data, err := orch.Run(ctx)
	if err != nil {
		return data, err
	}
	printSyncData(data)
	return data, nil
}

// runSyncUI runs the handshake behind the bubbletea panel.
func runSyncUI(ctx context.Context, store *syncpkg.Store, budget time.Duration, attemptID *string) (syncpkg.TaskSyncData, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	p := tea.NewProgram(ui.NewSyncModel())

	type outcome struct {
		data syncpkg.TaskSyncData
		err  error
	}
	done := make(chan outcome, 1)

	go func() {
		orch := syncpkg.NewOrchestrator(api, store, userCfg.GetAppBaseURL(), budget,
			syncpkg.WithStatusFunc(func(st syncpkg.Status) {
				*attemptID = st.AttemptID
				p.Send(ui.StatusMsg(st))
			}))
		data, err := orch.Run(ctx)
		done <- outcome{data: data, err: err}
		p.Send(ui.DoneMsg{Err: err})
	}()

	if _, err := p.Run(); err != nil {
		cancel()
		<-done
		return syncpkg.TaskSyncData{}, fmt.Errorf("sync UI failed: %w", err)
	}

	// The user may have quit the panel before the handshake finished.
	cancel()
	out := <-done
	return out.data, out.err
}

func runSyncStatus(cmd *cobra.Command, args []string) error {
	hist, err := storepkg.NewHistoryStore(historyPath())
	if err != nil {
		return fmt.Errorf("failed to open sync history: %w", err)
	}
	defer hist.Close()

	entries, err := hist.Recent(1)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Println("No task context synced. Run 'oppla sync' to pick a task.")
		return nil
	}
	printSyncData(entries[0].Data)
	return nil
}

func runSyncClear(cmd *cobra.Command, args []string) error {
	hist, err := storepkg.NewHistoryStore(historyPath())
	if err != nil {
		return fmt.Errorf("failed to open sync history: %w", err)
	}
	defer hist.Close()

	if err := hist.Clear(); err != nil {
		return err
	}
	fmt.Println("Synced task context cleared.")
	return nil
}

func runSyncHistory(cmd *cobra.Command, args []string) error {
	hist, err := storepkg.NewHistoryStore(historyPath())
	if err != nil {
		return fmt.Errorf("failed to open sync history: %w", err)
	}
	defer hist.Close()

	entries, err := hist.Recent(historyN)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Println("No syncs recorded yet.")
		return nil
	}
	for _, e := range entries {
		line := e.Data.BigBet
		if e.Data.HasTask() && e.Data.WorkItem != "" {
			line += " / " + e.Data.WorkItem
		}
		fmt.Printf("%s  %s\n", e.Data.SyncedAt.Local().Format("2006-01-02 15:04"), line)
	}
	return nil
}

func printSyncData(data syncpkg.TaskSyncData) {
	fmt.Println("Synced task context:")
	printField := func(label, name, id string) {
		switch {
		case name != "" && id != "":
			fmt.Printf("  %-10s %s (%s)\n", label, name, id)
		case name != "":
			fmt.Printf("  %-10s %s\n", label, name)
		case id != "":
			fmt.Printf("  %-10s %s\n", label, id)
		}
	}
	printField("Account", data.AccountName, data.AccountID)
	printField("Product", data.ProductName, data.ProductID)
	printField("Big Bet", data.BigBet, data.BoardID)
	if data.HasTask() {
		printField("Work Item", data.WorkItem, data.TaskID)
	} else {
		fmt.Println("  Board-level sync, no specific work item.")
	}
	fmt.Printf("  %-10s %s\n", "Synced At", data.SyncedAt.Local().Format("2006-01-02 15:04:05"))
}
