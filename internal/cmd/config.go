package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/runger/summon/internal/config"
)

var configCmd = &cobra.Command{
	Use:     "config [key] [value]",
	Short:   "Get or set configuration values",
	GroupID: groupSetup,
	Long: `Get or set summon configuration values.

Without arguments, lists all configuration keys.
With one argument, shows the value of that key.
With two arguments, sets the key to the value.

Configuration is stored in ~/.config/summon/config.yaml (XDG compliant);
a config.toml in the same directory takes precedence. A running launcher
picks up changes automatically.

Keys are in the format: section.key
Sections: log, launcher, filter, clipboard, files, search, window

Examples:
  summon config                          # List all keys
  summon config launcher.decay_ms        # Get the typing timeout
  summon config filter.algorithm fold    # Switch the matcher
  summon config files.ignore '*.o,*.tmp' # Hide build output`,
	Args: cobra.MaximumNArgs(2),
	RunE: runConfig,
}

func runConfig(cmd *cobra.Command, args []string) error {
	paths := config.DefaultPaths()
	cfg, err := config.LoadFromFile(paths.ConfigFile())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	out := cmd.OutOrStdout()
	switch len(args) {
	case 0:
		return listConfig(out, cfg, paths.ConfigFile())
	case 1:
		return getConfig(out, cfg, args[0])
	}
	return setConfig(out, cfg, paths, args[0], args[1])
}

func listConfig(out io.Writer, cfg *config.Config, file string) error {
	fmt.Fprintf(out, "%sConfiguration Keys%s\n", colorBold, colorReset)
	fmt.Fprintln(out, strings.Repeat("-", 40))
	fmt.Fprintln(out)

	var failedKeys []string
	for _, key := range config.ListKeys() {
		value, err := cfg.Get(key)
		if err != nil {
			failedKeys = append(failedKeys, key)
			continue
		}
		if value == "" {
			value = colorDim + "(not set)" + colorReset
		}
		fmt.Fprintf(out, "  %s%s%s = %s\n", colorCyan, key, colorReset, value)
	}

	if len(failedKeys) > 0 {
		fmt.Fprintf(out, "\n%sWarning:%s Failed to retrieve keys: %s\n", colorYellow, colorReset, strings.Join(failedKeys, ", "))
	}

	fmt.Fprintln(out)
	fmt.Fprintf(out, "Config file: %s\n", file)
	fmt.Fprintf(out, "Commands: %d defined (edit the file to change them)\n", len(cfg.Commands))
	return nil
}

func getConfig(out io.Writer, cfg *config.Config, key string) error {
	value, err := cfg.Get(key)
	if err != nil {
		return err
	}
	if value == "" {
		fmt.Fprintf(out, "%s(not set)%s\n", colorDim, colorReset)
	} else {
		fmt.Fprintln(out, value)
	}
	return nil
}

func setConfig(out io.Writer, cfg *config.Config, paths *config.Paths, key, value string) error {
	if err := cfg.Set(key, value); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if err := paths.EnsureDirectories(); err != nil {
		return fmt.Errorf("failed to create directories: %w", err)
	}

	file := paths.ConfigFile()
	if err := cfg.SaveToFile(file); err != nil {
		return err
	}
	fmt.Fprintf(out, "%s%s%s = %s\n", colorCyan, key, colorReset, value)
	fmt.Fprintf(out, "Saved to: %s\n", file)
	return nil
}
