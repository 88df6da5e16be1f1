// Package actions implements the launcher's built-in and user-defined
// actions.
package actions

import (
	"context"
	"fmt"

	"github.com/google/shlex"
	"golang.org/x/sys/execabs"
)

// Opener hands a path or URL to the desktop.
type Opener interface {
	Open(ctx context.Context, target string) error
}

// CommandOpener runs a command line with the target appended, e.g.
// "xdg-open".
type CommandOpener struct {
	Command string
}

var _ Opener = CommandOpener{}

func (o CommandOpener) Open(ctx context.Context, target string) error {
	argv, err := shlex.Split(o.Command)
	if err != nil {
		return fmt.Errorf("opener: parse %q: %w", o.Command, err)
	}
	if len(argv) == 0 {
		return fmt.Errorf("opener: no command configured")
	}
	argv = append(argv, target)

	cmd := execabs.CommandContext(ctx, argv[0], argv[1:]...) //nolint:gosec // G204: opener comes from user config
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("opener: %s: %w: %s", argv[0], err, trimOutput(out))
	}
	return nil
}
