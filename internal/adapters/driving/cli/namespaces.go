package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	namespacesJSON bool
	runsLimit      int
	runsJSON       bool
)

var namespacesCmd = &cobra.Command{
	Use:     "namespaces",
	Aliases: []string{"ns"},
	Short:   "Manage indexed namespaces",
	Long:    `Commands for listing, inspecting and deleting the namespaces filled by research.`,
}

var namespacesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List indexed namespaces",
	Args:  cobra.NoArgs,
	RunE:  runNamespacesList,
}

var namespacesDeleteCmd = &cobra.Command{
	Use:   "delete [namespace]",
	Short: "Delete a namespace and its chunks",
	Args:  cobra.ExactArgs(1),
	RunE:  runNamespacesDelete,
}

var namespacesRunsCmd = &cobra.Command{
	Use:   "runs [namespace]",
	Short: "Show recent ingestion runs",
	Long:  `Shows recent ingestion runs, newest first. Without a namespace, runs of every namespace are listed.`,
	Args:  cobra.MaximumNArgs(1),
	RunE:  runNamespacesRuns,
}

func init() {
	namespacesListCmd.Flags().BoolVar(&namespacesJSON, "json", false, "output namespaces as JSON")
	namespacesRunsCmd.Flags().IntVarP(&runsLimit, "limit", "l", 20, "maximum number of runs")
	namespacesRunsCmd.Flags().BoolVar(&runsJSON, "json", false, "output runs as JSON")

	namespacesCmd.AddCommand(namespacesListCmd)
	namespacesCmd.AddCommand(namespacesDeleteCmd)
	namespacesCmd.AddCommand(namespacesRunsCmd)
	rootCmd.AddCommand(namespacesCmd)
}

func runNamespacesList(cmd *cobra.Command, _ []string) error {
	if err := requireServices(cmd); err != nil {
		return err
	}

	namespaces, err := namespaceService.List(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list namespaces: %w", err)
	}

	if namespacesJSON {
		return printJSON(cmd, namespaces)
	}

	if len(namespaces) == 0 {
		cmd.Println("No namespaces indexed. Run 'scout research <topic>' first.")
		return nil
	}

	cmd.Println("Namespaces:")
	for _, ns := range namespaces {
		cmd.Printf("  %-32s %6d chunk(s)  %s\n", ns.Name, ns.Chunks, ns.CreatedAt.Local().Format("2006-01-02 15:04"))
	}
	return nil
}

func runNamespacesDelete(cmd *cobra.Command, args []string) error {
	if err := requireServices(cmd); err != nil {
		return err
	}

	if err := namespaceService.Delete(cmd.Context(), args[0]); err != nil {
		return fmt.Errorf("failed to delete namespace: %w", err)
	}
	cmd.Printf("Deleted namespace %s\n", args[0])
	return nil
}

func runNamespacesRuns(cmd *cobra.Command, args []string) error {
	if err := requireServices(cmd); err != nil {
		return err
	}

	namespace := ""
	if len(args) == 1 {
		namespace = args[0]
	}

	runs, err := namespaceService.Runs(cmd.Context(), namespace, runsLimit)
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}

	if runsJSON {
		return printJSON(cmd, runs)
	}

	if len(runs) == 0 {
		cmd.Println("No ingestion runs recorded.")
		return nil
	}

	for _, run := range runs {
		cmd.Printf("%s  %s  %s\n", run.StartedAt.Local().Format("2006-01-02 15:04"), run.Namespace, run.RunID)
		cmd.Printf("  topic: %s\n", run.Topic)
		cmd.Printf("  pages: %d indexed, %d skipped; chunks: %d\n",
			run.IndexedPages, run.SkippedPages, run.IndexedChunks)
	}
	return nil
}
