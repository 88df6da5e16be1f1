package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Build metadata, set with -ldflags "-X github.com/runger/summon/internal/cmd.Version=...".
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var versionCmd = &cobra.Command{
	Use:     "version",
	Short:   "Print the summon version",
	GroupID: groupSetup,
	Args:    cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "summon %s (commit %s, built %s)\n", Version, GitCommit, BuildDate)
	},
}
