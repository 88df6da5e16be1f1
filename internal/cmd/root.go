// Package cmd implements the summon command line.
package cmd

import (
	"github.com/spf13/cobra"
)

// Command groups shown in help.
const (
	groupLauncher = "launcher"
	groupData     = "data"
	groupSetup    = "setup"
)

var rootCmd = &cobra.Command{
	Use:   "summon",
	Short: "keyboard-driven launcher for the terminal",
	Long: `summon - keyboard-driven launcher for the terminal

Run it once with 'summon run' in a terminal you can raise, then bind
'summon show' and 'summon show --clipboard' to global hotkeys.`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddGroup(
		&cobra.Group{ID: groupLauncher, Title: "Launcher:"},
		&cobra.Group{ID: groupData, Title: "Data:"},
		&cobra.Group{ID: groupSetup, Title: "Setup:"},
	)
	rootCmd.AddCommand(runCmd, showCmd, hideCmd, quitCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(configCmd, versionCmd)
}
