package actions

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/google/shlex"
	"golang.org/x/sys/execabs"

	"github.com/runger/summon/internal/config"
	"github.com/runger/summon/internal/item"
)

// placeholder in a command argument is replaced by the input text or path.
const placeholder = "{}"

// maxOutputItems caps how many output lines a command can turn into items.
const maxOutputItems = 1000

// Command runs a user-defined command line.
type Command struct {
	item.Base
	def config.CommandConfig
	argv []string
}

var _ item.Action = (*Command)(nil)

// NewCommand parses the command line of def.
func NewCommand(def config.CommandConfig) (*Command, error) {
	argv, err := shlex.Split(def.Command)
	if err != nil {
		return nil, fmt.Errorf("command %q: parse: %w", def.Name, err)
	}
	if len(argv) == 0 {
		return nil, fmt.Errorf("command %q: empty command line", def.Name)
	}
	if def.Accepts == "" {
		def.Accepts = config.AcceptsNothing
	}
	return &Command{def: def, argv: argv}, nil
}

func (c *Command) Describe() item.Item {
	subtitle := c.def.Subtitle
	if subtitle == "" {
		subtitle = c.def.Command
	}
	var icon *item.Icon
	if c.def.Icon != "" {
		icon = item.NamedIcon(c.def.Icon)
	}
	return item.Item{Title: c.def.Name, Subtitle: subtitle, Icon: icon, Action: c}
}

func (c *Command) AcceptsEmptyInput() bool { return c.def.Accepts == config.AcceptsNothing }

func (c *Command) AcceptsText() bool {
	return c.def.Accepts == config.AcceptsText || c.def.Accepts == config.AcceptsAny
}

func (c *Command) AcceptsReference(ref item.ItemData) bool {
	switch c.def.Accepts {
	case config.AcceptsAny:
		return true
	case config.AcceptsText:
		return ref.Kind == item.DataText
	case config.AcceptsPath:
		return ref.Kind == item.DataPath
	default:
		return false
	}
}

func (c *Command) ReturnsItems() bool { return c.def.ReturnsItems }

func (c *Command) Run(ctx context.Context) ([]item.Item, error) {
	if !c.AcceptsEmptyInput() {
		return c.Base.Run(ctx)
	}
	return c.exec(ctx, c.argv)
}

func (c *Command) RunWithText(ctx context.Context, text string) ([]item.Item, error) {
	if !c.AcceptsText() {
		return c.Base.RunWithText(ctx, text)
	}
	return c.exec(ctx, substitute(c.argv, text))
}

func (c *Command) RunWithReference(ctx context.Context, ref item.ItemData) ([]item.Item, error) {
	if !c.AcceptsReference(ref) {
		return c.Base.RunWithReference(ctx, ref)
	}
	return c.exec(ctx, substitute(c.argv, ref.String()))
}

// substitute replaces every placeholder with input, or appends input when
// the command line has none.
func substitute(argv []string, input string) []string {
	out := make([]string, 0, len(argv)+1)
	replaced := false
	for _, a := range argv {
		if strings.Contains(a, placeholder) {
			a = strings.ReplaceAll(a, placeholder, input)
			replaced = true
		}
		out = append(out, a)
	}
	if !replaced {
		out = append(out, input)
	}
	return out
}

func (c *Command) exec(ctx context.Context, argv []string) ([]item.Item, error) {
	var stdout, stderr bytes.Buffer
	cmd := execabs.CommandContext(ctx, argv[0], argv[1:]...) //nolint:gosec // G204: commands come from user config
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		msg := trimOutput(stderr.Bytes())
		if msg == "" {
			msg = err.Error()
		}
		return nil, item.Failed(fmt.Errorf("%s: %s", c.def.Name, msg))
	}

	if !c.def.ReturnsItems {
		return nil, nil
	}
	items := parseLines(stdout.Bytes())
	if len(items) == 0 {
		return nil, item.NewError(item.ErrNoData, c.def.Name+" produced no output")
	}
	return items, nil
}

func parseLines(out []byte) []item.Item {
	var items []item.Item
	sc := bufio.NewScanner(bytes.NewReader(out))
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() && len(items) < maxOutputItems {
		line := strings.TrimRight(sc.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		items = append(items, item.NewTextItem(line))
	}
	return items
}

// trimOutput returns the last non-empty line of process output.
func trimOutput(out []byte) string {
	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if s := strings.TrimSpace(lines[i]); s != "" {
			return s
		}
	}
	return ""
}
