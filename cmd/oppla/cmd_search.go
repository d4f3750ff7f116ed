package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"oppla/internal/search"
	storepkg "oppla/internal/store"
	syncpkg "oppla/internal/sync"
)

var (
	searchType        string
	searchContentType string
	searchThread      string
	searchAccount     string
	searchProduct     string
	searchBoard       string
	searchTask        string
	searchLimit       int
)

// searchCmd searches the Oppla workspace
var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search the Oppla workspace",
	Long: `Semantic search across tasks, threads, documents, and comments.

When a task context has been synced, results are scoped to the synced
account, product, and board unless you override those filters.

Examples:
  oppla search "login timeout"
  oppla search --type tasks "flaky test"
  oppla search --thread th_123`,
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().StringVar(&searchType, "type", "", "Content to search: conversations, tasks, compressed, all")
	searchCmd.Flags().StringVar(&searchContentType, "content-type", "", "Content to extract: work_item, big_bet, auto")
	searchCmd.Flags().StringVar(&searchThread, "thread", "", "Restrict to a single thread")
	searchCmd.Flags().StringVar(&searchAccount, "account", "", "Override the synced account scope")
	searchCmd.Flags().StringVar(&searchProduct, "product", "", "Override the synced product scope")
	searchCmd.Flags().StringVar(&searchBoard, "board", "", "Override the synced board scope")
	searchCmd.Flags().StringVar(&searchTask, "task", "", "Restrict to a single task")
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 10, "Max results")
}

func runSearch(cmd *cobra.Command, args []string) error {
	store := syncpkg.NewStore()
	seedStoreFromHistory(store)

	filter := &search.Filter{
		SearchType:  searchType,
		ContentType: searchContentType,
		ThreadID:    searchThread,
		AccountID:   searchAccount,
		ProductID:   searchProduct,
		BoardID:     searchBoard,
		TaskID:      searchTask,
	}
	if filter.IsZero() {
		filter = nil
	}

	resp, err := search.NewClient(userCfg.GetAPIBaseURL(), api, store).Search(cmd.Context(), search.Request{
		Query:  strings.Join(args, " "),
		Limit:  searchLimit,
		Filter: filter,
	})
	if err != nil {
		return err
	}

	fmt.Println(search.FormatResults(resp))
	return nil
}

// seedStoreFromHistory loads the most recent sync into the store so that
// one-shot commands get the same ambient scoping as a live session. Missing
// or empty history is not an error.
func seedStoreFromHistory(store *syncpkg.Store) {
	hist, err := storepkg.NewHistoryStore(historyPath())
	if err != nil {
		return
	}
	defer hist.Close()

	entries, err := hist.Recent(1)
	if err != nil || len(entries) == 0 {
		return
	}
	store.Set(entries[0].Data)
}
