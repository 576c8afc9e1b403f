package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var (
	askNamespace string
	askTopK      int
	askJSON      bool
	askTrace     bool
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Answer a question from an indexed namespace",
	Long: `Retrieves the chunks of the namespace most similar to the question and
asks the configured LLM to answer from them only, citing their URLs.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().StringVarP(&askNamespace, "namespace", "n", "", "namespace to answer from")
	askCmd.Flags().IntVarP(&askTopK, "top-k", "k", 0, "number of chunks to retrieve (default from configuration)")
	askCmd.Flags().BoolVar(&askJSON, "json", false, "output the result as JSON")
	askCmd.Flags().BoolVar(&askTrace, "trace", false, "print the agent trace before the answer")
	_ = askCmd.MarkFlagRequired("namespace")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	if err := requireServices(cmd); err != nil {
		return err
	}

	question := strings.Join(args, " ")
	result, err := researchService.Ask(cmd.Context(), question, askNamespace, askTopK)
	if err != nil {
		return fmt.Errorf("ask failed: %w", err)
	}

	if askJSON {
		return printJSON(cmd, result)
	}

	if askTrace {
		printTrace(cmd, result.Trace)
		cmd.Println()
	}
	cmd.Println(result.Content)
	if len(result.Citations) == 0 {
		return nil
	}
	cmd.Println()
	cmd.Println("Sources:")
	for i, c := range result.Citations {
		if c.Title != "" {
			cmd.Printf("  [%d] %s - %s\n", i+1, c.Title, c.URL)
		} else {
			cmd.Printf("  [%d] %s\n", i+1, c.URL)
		}
	}
	return nil
}
