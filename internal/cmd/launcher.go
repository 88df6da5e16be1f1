package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/runger/summon/internal/config"
	"github.com/runger/summon/internal/daemon"
	"github.com/runger/summon/internal/ipc"
)

var (
	runVisible    bool
	showClipboard bool
)

var runCmd = &cobra.Command{
	Use:     "run",
	Short:   "Run the launcher in this terminal",
	GroupID: groupLauncher,
	Long: `Run the resident launcher in the current terminal.

The launcher starts hidden and waits for 'summon show'. Only one launcher
runs per user; a second 'summon run' exits with the PID of the first.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		paths := config.DefaultPaths()
		cfg, err := loadConfig(paths)
		if err != nil {
			return err
		}
		return daemon.Run(cmd.Context(), daemon.Options{
			Config:       cfg,
			ConfigPath:   paths.ConfigFile(),
			Paths:        paths,
			StartVisible: runVisible,
		})
	},
}

var showCmd = &cobra.Command{
	Use:     "show",
	Short:   "Show the launcher",
	GroupID: groupLauncher,
	Long: `Show the running launcher. Bind this to a global hotkey.

With --clipboard the current clipboard text is bound as the input and the
list shows the actions that accept it.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		t := ipc.TriggerShow
		if showClipboard {
			t = ipc.TriggerShowClipboard
		}
		return sendTrigger(cmd.Context(), cmd.ErrOrStderr(), "", t)
	},
}

var hideCmd = &cobra.Command{
	Use:     "hide",
	Short:   "Hide the launcher",
	GroupID: groupLauncher,
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return sendTrigger(cmd.Context(), cmd.ErrOrStderr(), "", ipc.TriggerHide)
	},
}

var quitCmd = &cobra.Command{
	Use:     "quit",
	Short:   "Stop the launcher",
	GroupID: groupLauncher,
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return sendTrigger(cmd.Context(), cmd.ErrOrStderr(), "", ipc.TriggerQuit)
	},
}

func init() {
	runCmd.Flags().BoolVar(&runVisible, "visible", false, "Show the launcher on start")
	showCmd.Flags().BoolVarP(&showClipboard, "clipboard", "c", false, "Bind the clipboard text as input")
}

func loadConfig(paths *config.Paths) (*config.Config, error) {
	cfg, err := config.LoadFromFile(paths.ConfigFile())
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

// sendTrigger delivers t to the launcher. An empty socketPath resolves the
// configured one.
func sendTrigger(ctx context.Context, stderr io.Writer, socketPath string, t ipc.Trigger) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if socketPath == "" {
		paths := config.DefaultPaths()
		cfg, err := loadConfig(paths)
		if err != nil {
			return err
		}
		socketPath = daemon.SocketPath(cfg, paths)
	}

	err := ipc.Send(ctx, socketPath, t)
	if errors.Is(err, ipc.ErrNotRunning) {
		fmt.Fprintf(stderr, "%ssummon is not running.%s Start it with 'summon run'.\n", colorYellow, colorReset)
	}
	return err
}
