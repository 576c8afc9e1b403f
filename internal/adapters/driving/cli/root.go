// Package cli provides the cobra command tree for scout.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/scout/internal/adapters/driven/config"
	"github.com/custodia-labs/scout/internal/adapters/driven/config/file"
	"github.com/custodia-labs/scout/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/scout/internal/app"
	"github.com/custodia-labs/scout/internal/core/domain"
	"github.com/custodia-labs/scout/internal/core/ports/driven"
	"github.com/custodia-labs/scout/internal/core/ports/driving"
	"github.com/custodia-labs/scout/internal/logger"
)

var version = "dev"

// Root flags.
var (
	verbose   bool
	noConfig  bool
	configDir string
	envFile   string
)

// Services are built lazily by requireServices, or injected by tests.
var (
	researchService  driving.ResearchService
	namespaceService driving.NamespaceService
	closeServices    func() error
	watchPrompts     func(context.Context)
)

var rootCmd = &cobra.Command{
	Use:   "scout",
	Short: "Research a topic on the web and ask grounded questions about it",
	Long: `scout searches the web for a topic, extracts the readable text of the
top pages, and indexes it into a namespace of a local vector store.
Questions are answered from that namespace only, with source citations.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.BoolVarP(&verbose, "verbose", "v", false, "print debug logs to stderr")
	pf.BoolVar(&noConfig, "no-config", false, "ignore config.toml; read only the environment and .env")
	pf.StringVar(&configDir, "config-dir", "", "directory holding config.toml and prompts (default ~/.scout)")
	pf.StringVar(&envFile, "env-file", ".env", "dotenv file read after the environment")
}

// Execute runs the root command with the given build version.
// Cancelling ctx stops long-running commands such as mcp serve.
func Execute(ctx context.Context, v string) error {
	if v != "" {
		version = v
	}
	defer shutdown()
	// Results go to stdout; cobra keeps errors on stderr.
	rootCmd.SetOut(os.Stdout)
	return rootCmd.ExecuteContext(ctx)
}

func shutdown() {
	if closeServices == nil {
		return
	}
	if err := closeServices(); err != nil {
		logger.Warn("shutdown: %v", err)
	}
	closeServices = nil
	watchPrompts = nil
	researchService = nil
	namespaceService = nil
}

// startPromptWatch makes long-running commands reload edited prompts.
func startPromptWatch(ctx context.Context) {
	if watchPrompts != nil {
		watchPrompts(ctx)
	}
}

// openConfigStore returns the TOML store, or an empty one under --no-config.
func openConfigStore() (driven.ConfigStore, error) {
	if noConfig {
		return memory.NewConfigStore(nil), nil
	}
	dir := configDir
	if dir == "" {
		var err error
		if dir, err = file.DefaultDir(); err != nil {
			return nil, err
		}
	}
	return file.NewConfigStore(dir)
}

// loadConfig reads and validates the configuration and applies its log level.
func loadConfig() (domain.Config, error) {
	store, err := openConfigStore()
	if err != nil {
		return domain.Config{}, fmt.Errorf("opening config: %w", err)
	}
	cfg, err := config.Load(config.Options{EnvFile: envFile, Store: store})
	if err != nil {
		return domain.Config{}, err
	}
	logger.SetLevel(logger.ParseLevel(cfg.LogLevel))
	return cfg, nil
}

// requireServices builds the services on first use.
func requireServices(cmd *cobra.Command) error {
	if researchService != nil {
		return nil
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.PrintConfig {
		fmt.Fprint(cmd.ErrOrStderr(), cfg.Redacted())
	}

	opts := app.Options{}
	if configDir != "" {
		opts.PromptDir = filepath.Join(configDir, "prompts")
	}

	a, err := app.New(cmd.Context(), cfg, opts)
	if err != nil {
		return err
	}

	researchService = a.Research
	namespaceService = a.Namespaces
	closeServices = a.Close
	watchPrompts = a.WatchPrompts
	return nil
}

// ExitCode maps an error returned by Execute to the process exit status.
// Configuration and input errors exit 2, everything else 1.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, domain.ErrInvalidConfig), errors.Is(err, domain.ErrInvalidInput):
		return 2
	default:
		return 1
	}
}
