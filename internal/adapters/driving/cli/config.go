package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/scout/internal/adapters/driven/config"
	"github.com/custodia-labs/scout/internal/app"
)

var configPing bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect configuration",
	Long: `Commands for inspecting scout's configuration.

Settings come from, highest precedence first: the environment, the .env
file, ~/.scout/config.toml, and built-in defaults.`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration with keys masked",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		cmd.Print(cfg.Redacted())
		return nil
	},
}

var configCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate the configuration",
	Long:  `Validates the configuration. With --ping, also checks that the LLM and embedding providers answer.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if configPing {
			if err := app.Ping(cmd.Context(), cfg); err != nil {
				return fmt.Errorf("provider check failed: %w", err)
			}
			cmd.Println("Providers reachable.")
		}
		cmd.Println("Configuration OK.")
		return nil
	},
}

var configKeysCmd = &cobra.Command{
	Use:   "keys",
	Short: "List every setting with its environment variable and TOML key",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		cmd.Printf("%-26s %-26s %s\n", "ENV", "TOML", "DEFAULT")
		for _, row := range config.Describe() {
			cmd.Printf("%-26s %-26s %s\n", row[0], row[1], row[2])
		}
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <toml-key> [value]",
	Short: "Write a setting to config.toml",
	Long: `Writes a setting to config.toml using its dotted TOML key, as listed by
"scout config keys".

Numbers and booleans are stored typed. When the value is omitted it is read
from stdin without echo, which keeps API keys out of the shell history:

  scout config set keys.openai`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runConfigSet,
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	if noConfig {
		return errors.New("config set cannot be used with --no-config")
	}
	key := strings.TrimSpace(args[0])
	if !knownTOMLKey(key) {
		return fmt.Errorf("unknown setting %q; see \"scout config keys\"", key)
	}

	var raw string
	if len(args) == 2 {
		raw = args[1]
	} else {
		fmt.Fprintf(cmd.ErrOrStderr(), "Value for %s: ", key)
		raw = readSecret(cmd.InOrStdin())
		fmt.Fprintln(cmd.ErrOrStderr())
	}
	if raw == "" {
		return fmt.Errorf("no value given for %s", key)
	}

	store, err := openConfigStore()
	if err != nil {
		return fmt.Errorf("opening config: %w", err)
	}
	if err := store.Set(key, parseValue(raw)); err != nil {
		return fmt.Errorf("saving %s: %w", key, err)
	}

	shown := raw
	if strings.HasPrefix(key, "keys.") {
		shown = maskAPIKey(raw)
	}
	cmd.Printf("Set %s = %s in %s\n", key, shown, store.Path())
	return nil
}

func knownTOMLKey(key string) bool {
	for _, row := range config.Describe() {
		if row[1] == key {
			return true
		}
	}
	return false
}

// parseValue keeps integers, floats and booleans typed in the TOML file.
func parseValue(raw string) any {
	if i, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		return f
	}
	if b, err := strconv.ParseBool(raw); err == nil {
		return b
	}
	return raw
}

//nolint:errcheck // CLI helper, error ignored for UX
func readSecret(in io.Reader) string {
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		secret, err := term.ReadPassword(int(f.Fd()))
		if err == nil {
			return strings.TrimSpace(string(secret))
		}
	}
	line, _ := bufio.NewReader(in).ReadString('\n')
	return strings.TrimSpace(line)
}

func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}

func init() {
	configCheckCmd.Flags().BoolVar(&configPing, "ping", false, "contact the model providers")
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configCheckCmd)
	configCmd.AddCommand(configKeysCmd)
	configCmd.AddCommand(configSetCmd)
	rootCmd.AddCommand(configCmd)
}
