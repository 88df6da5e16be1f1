package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/runger/summon/internal/config"
	"github.com/runger/summon/internal/launcher"
	"github.com/runger/summon/internal/storage"
)

var (
	historyLimit int
	historyRuns  bool
	historyClear bool
)

var historyCmd = &cobra.Command{
	Use:     "history",
	Short:   "Show persisted clipboard history",
	GroupID: groupData,
	Long: `Show the clipboard history saved by the launcher, newest first.

The launcher persists captures when clipboard.persist is enabled.

Examples:
  summon history              # Show the last 20 captures
  summon history -n 50        # Show the last 50 captures
  summon history --runs       # Show recent action runs instead
  summon history --clear      # Forget every capture`,
	Args: cobra.NoArgs,
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "Maximum number of entries to show")
	historyCmd.Flags().BoolVar(&historyRuns, "runs", false, "Show recent action runs")
	historyCmd.Flags().BoolVar(&historyClear, "clear", false, "Delete the clipboard history")
}

func runHistory(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	dbPath := config.DefaultPaths().DatabaseFile()
	if _, err := os.Stat(dbPath); err != nil {
		fmt.Fprintf(out, "No history available. Database not found at: %s\n", dbPath)
		return nil
	}

	store, err := storage.NewSQLiteStore(dbPath, nil)
	if err != nil {
		return fmt.Errorf("failed to open history: %w", err)
	}
	defer store.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	switch {
	case historyClear:
		if err := store.ClearClips(ctx); err != nil {
			return err
		}
		fmt.Fprintf(out, "%sClipboard history cleared.%s\n", colorGreen, colorReset)
		return nil
	case historyRuns:
		return printRuns(ctx, out, store, historyLimit)
	}
	return printClips(ctx, out, store, historyLimit, terminalWidth())
}

// printClips lists captures newest first, one line each.
func printClips(ctx context.Context, out io.Writer, store storage.Store, limit, width int) error {
	clips, err := store.RecentClips(ctx, limit)
	if err != nil {
		return err
	}
	if len(clips) == 0 {
		fmt.Fprintln(out, "No clipboard history.")
		return nil
	}

	const ageWidth = 16
	for _, c := range clips {
		age := humanize.Time(c.CapturedAt)
		text := strings.Join(strings.Fields(c.Text), " ")
		text = launcher.MiddleTruncate(text, max(width-ageWidth-2, 10))
		fmt.Fprintf(out, "%s%-*s%s  %s\n", colorDim, ageWidth, age, colorReset, text)
	}
	return nil
}

// printRuns lists recent action runs newest first.
func printRuns(ctx context.Context, out io.Writer, store storage.Store, limit int) error {
	runs, err := store.RecentRuns(ctx, limit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Fprintln(out, "No recorded runs.")
		return nil
	}

	for _, r := range runs {
		color := colorGreen
		switch r.Outcome {
		case storage.OutcomeFailed:
			color = colorRed
		case storage.OutcomeAbandoned:
			color = colorYellow
		}
		fmt.Fprintf(out, "%s%-9s%s  %s%s%s", color, r.Outcome, colorReset, colorCyan, r.Title, colorReset)
		if r.Outcome != storage.OutcomeFailed {
			fmt.Fprintf(out, " (%d items)", r.ItemCount)
		}
		fmt.Fprintf(out, "  %s%s%s\n", colorDim, humanize.Time(r.FinishedAt), colorReset)
		if r.Error != "" {
			fmt.Fprintf(out, "    %s\n", r.Error)
		}
	}
	return nil
}
