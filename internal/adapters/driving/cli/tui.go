package cli

import (
	"errors"
	"fmt"
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/scout/internal/adapters/driving/tui"
	"github.com/custodia-labs/scout/internal/logger"
)

var errNotTerminal = errors.New("the TUI needs an interactive terminal")

// stdoutIsTerminal is replaced in tests.
var stdoutIsTerminal = func() bool { return term.IsTerminal(int(os.Stdout.Fd())) }

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Open the interactive terminal UI",
	Long: `Open a full-screen interface to research topics, ask questions against a
namespace and browse or delete namespaces. Answers asked in one session
stay listed until you quit.

Press ? on the menu for key bindings and ctrl+c to quit from anywhere.`,
	Args: cobra.NoArgs,
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, _ []string) (err error) {
	if err := requireServices(cmd); err != nil {
		return err
	}

	app, err := tui.NewApp(tui.NewPorts(researchService, namespaceService))
	if err != nil {
		return fmt.Errorf("starting TUI: %w", err)
	}
	if !stdoutIsTerminal() {
		return errNotTerminal
	}

	// bubbletea restores the terminal before re-panicking; report the
	// panic as an error so deferred cleanup in main still runs.
	defer func() {
		if r := recover(); r != nil {
			logger.Error("tui panic: %v\n%s", r, debug.Stack())
			err = fmt.Errorf("TUI crashed: %v", r)
		}
	}()

	startPromptWatch(cmd.Context())
	return app.WithContext(cmd.Context()).Run()
}
