package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"oppla/internal/embedding"
)

var embedFull bool

// embedCmd generates embeddings through the cloud endpoint, mainly for
// checking connectivity and the configured model.
var embedCmd = &cobra.Command{
	Use:   "embed [text]",
	Short: "Generate an embedding for a piece of text",
	Long: `Sends text to the Oppla embedding endpoint and prints the resulting
vector. Useful for verifying credentials and the configured model.

Example:
  oppla embed "login timeout on the settings page"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runEmbed,
}

func init() {
	embedCmd.Flags().BoolVar(&embedFull, "full", false, "Print the full vector instead of a preview")
	rootCmd.AddCommand(embedCmd)
}

func runEmbed(cmd *cobra.Command, args []string) error {
	engine := embedding.NewCloudEngine(userCfg.GetAPIBaseURL(), userCfg.GetEmbeddingModel(), api)

	vec, err := engine.Embed(cmd.Context(), strings.Join(args, " "))
	if err != nil {
		return err
	}

	fmt.Printf("Engine: %s\n", engine.Name())
	fmt.Printf("Dimensions: %d\n", len(vec))

	n := len(vec)
	if !embedFull && n > 8 {
		n = 8
	}
	parts := make([]string, 0, n)
	for _, v := range vec[:n] {
		parts = append(parts, fmt.Sprintf("%.4f", v))
	}
	suffix := ""
	if n < len(vec) {
		suffix = ", ..."
	}
	fmt.Printf("Vector: [%s%s]\n", strings.Join(parts, ", "), suffix)
	return nil
}
