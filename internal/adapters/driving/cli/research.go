package cli

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/scout/internal/core/domain"
)

var (
	researchNamespace string
	researchForce     bool
	researchJSON      bool
)

var researchCmd = &cobra.Command{
	Use:   "research [topic]",
	Short: "Search the web for a topic and index it",
	Long: `Searches the web for the topic, fetches and extracts the top pages,
and indexes their text into a namespace. An existing namespace is reused
unless --force is given.

The namespace defaults to a slug of the topic.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runResearch,
}

func init() {
	researchCmd.Flags().StringVarP(&researchNamespace, "namespace", "n", "", "namespace to index into (default: slug of the topic)")
	researchCmd.Flags().BoolVarP(&researchForce, "force", "f", false, "ingest even if the namespace already exists")
	researchCmd.Flags().BoolVar(&researchJSON, "json", false, "output the result as JSON")
	rootCmd.AddCommand(researchCmd)
}

func runResearch(cmd *cobra.Command, args []string) error {
	if err := requireServices(cmd); err != nil {
		return err
	}

	topic := strings.Join(args, " ")
	result, err := researchService.Research(cmd.Context(), topic, researchNamespace, researchForce)
	if err != nil {
		return fmt.Errorf("research failed: %w", err)
	}

	if researchJSON {
		return printJSON(cmd, result)
	}

	printTrace(cmd, result.Trace)
	cmd.Println()
	cmd.Printf("Namespace: %s\n", result.Namespace)
	if !result.Ingested || result.Summary == nil {
		cmd.Println("Already indexed. Use --force to ingest again.")
		return nil
	}

	printSummary(cmd, result.Summary)
	return nil
}

func printSummary(cmd *cobra.Command, sum *domain.IngestSummary) {
	cmd.Printf("Indexed %d page(s), %d chunk(s); skipped %d page(s) in %s\n",
		sum.IndexedPages, sum.IndexedChunks, sum.SkippedPages, sum.Duration.Round(time.Millisecond))
	if len(sum.Sources) == 0 {
		return
	}
	cmd.Println()
	cmd.Println("Sources:")
	for i, src := range sum.Sources {
		title := src.Title
		if title == "" {
			title = src.URL
		}
		cmd.Printf("  [%d] %s\n", i+1, title)
		cmd.Printf("      %s\n", src.URL)
	}
}

func printTrace(cmd *cobra.Command, trace []string) {
	for _, step := range trace {
		cmd.Println(step)
	}
}

// printJSON writes v to stdout even when cobra's messages go to stderr,
// so --json output can be piped.
func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}
	return nil
}
