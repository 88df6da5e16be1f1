package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Config represents the summon configuration.
type Config struct {
	Log       LogConfig       `yaml:"log" toml:"log"`
	Launcher  LauncherConfig  `yaml:"launcher" toml:"launcher"`
	Filter    FilterConfig    `yaml:"filter" toml:"filter"`
	Clipboard ClipboardConfig `yaml:"clipboard" toml:"clipboard"`
	Files     FilesConfig     `yaml:"files" toml:"files"`
	Search    SearchConfig    `yaml:"search" toml:"search"`
	Window    WindowConfig    `yaml:"window" toml:"window"`
	Commands  []CommandConfig `yaml:"commands" toml:"commands"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level" toml:"level"`   // debug, info, warn, error
	File   string `yaml:"file" toml:"file"`     // Log file path (overrides default)
	Format string `yaml:"format" toml:"format"` // text or logfmt
}

// LauncherConfig holds interaction settings.
type LauncherConfig struct {
	DecayMs    int    `yaml:"decay_ms" toml:"decay_ms"`       // Typing mode reverts after this much inactivity
	PageSize   int    `yaml:"page_size" toml:"page_size"`     // Visible rows
	SocketPath string `yaml:"socket_path" toml:"socket_path"` // Trigger socket (overrides default)
	Opener     string `yaml:"opener" toml:"opener"`           // Command used to open paths and URLs
}

// FilterConfig selects the matcher.
type FilterConfig struct {
	Algorithm string `yaml:"algorithm" toml:"algorithm"` // rank or fold
}

// ClipboardConfig holds clipboard history settings.
type ClipboardConfig struct {
	MaxEntries     int  `yaml:"max_entries" toml:"max_entries"`           // History capacity
	PollIntervalMs int  `yaml:"poll_interval_ms" toml:"poll_interval_ms"` // Clipboard sampling interval
	Persist        bool `yaml:"persist" toml:"persist"`                   // Keep history across restarts
	PersistSecrets bool `yaml:"persist_secrets" toml:"persist_secrets"`   // Also write clips that look like credentials
}

// FilesConfig configures the file browser.
type FilesConfig struct {
	Enabled    bool     `yaml:"enabled" toml:"enabled"`
	Root       string   `yaml:"root" toml:"root"`               // Directory listed first (default: home)
	ShowHidden bool     `yaml:"show_hidden" toml:"show_hidden"` // List dotfiles
	Ignore     []string `yaml:"ignore" toml:"ignore"`           // Glob patterns matched against names
}

// SearchConfig configures the web search action.
type SearchConfig struct {
	Enabled bool   `yaml:"enabled" toml:"enabled"`
	Name    string `yaml:"name" toml:"name"`
	URL     string `yaml:"url" toml:"url"` // %s is replaced by the escaped query
}

// WindowConfig holds commands run when the launcher is shown or hidden,
// e.g. to raise or lower a drop-down terminal.
type WindowConfig struct {
	OnShow string `yaml:"on_show" toml:"on_show"`
	OnHide string `yaml:"on_hide" toml:"on_hide"`
}

// Accepted input kinds for user commands.
const (
	AcceptsNothing = "nothing"
	AcceptsText    = "text"
	AcceptsPath    = "path"
	AcceptsAny     = "any"
)

// CommandConfig defines a user command shown in the launcher.
type CommandConfig struct {
	Name         string `yaml:"name" toml:"name"`
	Command      string `yaml:"command" toml:"command"` // Split like a shell; {} is replaced by the input
	Subtitle     string `yaml:"subtitle,omitempty" toml:"subtitle,omitempty"`
	Icon         string `yaml:"icon,omitempty" toml:"icon,omitempty"`
	Accepts      string `yaml:"accepts" toml:"accepts"`             // nothing, text, path or any
	ReturnsItems bool   `yaml:"returns_items" toml:"returns_items"` // Output lines become items
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Launcher: LauncherConfig{
			DecayMs:  1000,
			PageSize: 5,
			Opener:   defaultOpener(),
		},
		Filter: FilterConfig{
			Algorithm: "rank",
		},
		Clipboard: ClipboardConfig{
			MaxEntries:     50,
			PollIntervalMs: 500,
			Persist:        true,
		},
		Files: FilesConfig{
			Enabled: true,
			Ignore:  []string{"*.swp", "*~", "__pycache__"},
		},
		Search: SearchConfig{
			Enabled: true,
			Name:    "Search the Web",
			URL:     "https://duckduckgo.com/?q=%s",
		},
	}
}

func defaultOpener() string {
	switch runtime.GOOS {
	case "darwin":
		return "open"
	case "windows":
		return "explorer"
	default:
		return "xdg-open"
	}
}

// Load loads the configuration from the default config file.
func Load() (*Config, error) {
	return LoadFromFile(DefaultPaths().ConfigFile())
}

// LoadFromFile loads the configuration from a YAML or TOML file, chosen by
// extension. A missing file yields the defaults.
// Environment variable overrides are applied after file loading.
func LoadFromFile(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.ApplyEnvOverrides()
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := unmarshal(path, data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.ApplyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func isTOML(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".toml")
}

func unmarshal(path string, data []byte, cfg *Config) error {
	if isTOML(path) {
		return toml.Unmarshal(data, cfg)
	}
	return yaml.Unmarshal(data, cfg)
}

func marshal(path string, cfg *Config) ([]byte, error) {
	if isTOML(path) {
		return toml.Marshal(cfg)
	}
	return yaml.Marshal(cfg)
}

// SaveToFile saves the configuration to a specific file.
func (c *Config) SaveToFile(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := marshal(path, c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Get retrieves a configuration value by key (e.g., "clipboard.max_entries").
func (c *Config) Get(key string) (string, error) {
	section, field, err := splitKey(key)
	if err != nil {
		return "", err
	}

	switch section {
	case "log":
		return c.getLogField(field)
	case "launcher":
		return c.getLauncherField(field)
	case "filter":
		return c.getFilterField(field)
	case "clipboard":
		return c.getClipboardField(field)
	case "files":
		return c.getFilesField(field)
	case "search":
		return c.getSearchField(field)
	case "window":
		return c.getWindowField(field)
	default:
		return "", fmt.Errorf("unknown section: %s", section)
	}
}

// Set sets a configuration value by key.
func (c *Config) Set(key, value string) error {
	section, field, err := splitKey(key)
	if err != nil {
		return err
	}

	switch section {
	case "log":
		return c.setLogField(field, value)
	case "launcher":
		return c.setLauncherField(field, value)
	case "filter":
		return c.setFilterField(field, value)
	case "clipboard":
		return c.setClipboardField(field, value)
	case "files":
		return c.setFilesField(field, value)
	case "search":
		return c.setSearchField(field, value)
	case "window":
		return c.setWindowField(field, value)
	default:
		return fmt.Errorf("unknown section: %s", section)
	}
}

func splitKey(key string) (section, field string, err error) {
	parts := strings.Split(key, ".")
	if len(parts) != 2 {
		return "", "", errors.New("key must be in format 'section.key'")
	}
	return parts[0], parts[1], nil
}

func (c *Config) getLogField(field string) (string, error) {
	switch field {
	case "level":
		return c.Log.Level, nil
	case "file":
		return c.Log.File, nil
	case "format":
		return c.Log.Format, nil
	default:
		return "", fmt.Errorf("unknown field: log.%s", field)
	}
}

func (c *Config) setLogField(field, value string) error {
	switch field {
	case "level":
		if !isValidLogLevel(value) {
			return fmt.Errorf("invalid level: %s (must be debug, info, warn, or error)", value)
		}
		c.Log.Level = value
	case "file":
		c.Log.File = value
	case "format":
		if !isValidLogFormat(value) {
			return fmt.Errorf("invalid format: %s (must be text or logfmt)", value)
		}
		c.Log.Format = value
	default:
		return fmt.Errorf("unknown field: log.%s", field)
	}
	return nil
}

func (c *Config) getLauncherField(field string) (string, error) {
	switch field {
	case "decay_ms":
		return strconv.Itoa(c.Launcher.DecayMs), nil
	case "page_size":
		return strconv.Itoa(c.Launcher.PageSize), nil
	case "socket_path":
		return c.Launcher.SocketPath, nil
	case "opener":
		return c.Launcher.Opener, nil
	default:
		return "", fmt.Errorf("unknown field: launcher.%s", field)
	}
}

func (c *Config) setLauncherField(field, value string) error {
	switch field {
	case "decay_ms":
		v, err := parsePositive(field, value)
		if err != nil {
			return err
		}
		c.Launcher.DecayMs = v
	case "page_size":
		v, err := parsePositive(field, value)
		if err != nil {
			return err
		}
		c.Launcher.PageSize = v
	case "socket_path":
		c.Launcher.SocketPath = value
	case "opener":
		c.Launcher.Opener = value
	default:
		return fmt.Errorf("unknown field: launcher.%s", field)
	}
	return nil
}

func (c *Config) getFilterField(field string) (string, error) {
	switch field {
	case "algorithm":
		return c.Filter.Algorithm, nil
	default:
		return "", fmt.Errorf("unknown field: filter.%s", field)
	}
}

func (c *Config) setFilterField(field, value string) error {
	switch field {
	case "algorithm":
		if !isValidAlgorithm(value) {
			return fmt.Errorf("invalid algorithm: %s (must be rank or fold)", value)
		}
		c.Filter.Algorithm = value
	default:
		return fmt.Errorf("unknown field: filter.%s", field)
	}
	return nil
}

func (c *Config) getClipboardField(field string) (string, error) {
	switch field {
	case "max_entries":
		return strconv.Itoa(c.Clipboard.MaxEntries), nil
	case "poll_interval_ms":
		return strconv.Itoa(c.Clipboard.PollIntervalMs), nil
	case "persist":
		return strconv.FormatBool(c.Clipboard.Persist), nil
	case "persist_secrets":
		return strconv.FormatBool(c.Clipboard.PersistSecrets), nil
	default:
		return "", fmt.Errorf("unknown field: clipboard.%s", field)
	}
}

func (c *Config) setClipboardField(field, value string) error {
	switch field {
	case "max_entries":
		v, err := parsePositive(field, value)
		if err != nil {
			return err
		}
		c.Clipboard.MaxEntries = v
	case "poll_interval_ms":
		v, err := parsePositive(field, value)
		if err != nil {
			return err
		}
		c.Clipboard.PollIntervalMs = v
	case "persist", "persist_secrets":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid value for %s: %w", field, err)
		}
		if field == "persist" {
			c.Clipboard.Persist = b
		} else {
			c.Clipboard.PersistSecrets = b
		}
	default:
		return fmt.Errorf("unknown field: clipboard.%s", field)
	}
	return nil
}

func (c *Config) getFilesField(field string) (string, error) {
	switch field {
	case "enabled":
		return strconv.FormatBool(c.Files.Enabled), nil
	case "root":
		return c.Files.Root, nil
	case "show_hidden":
		return strconv.FormatBool(c.Files.ShowHidden), nil
	case "ignore":
		return strings.Join(c.Files.Ignore, ","), nil
	default:
		return "", fmt.Errorf("unknown field: files.%s", field)
	}
}

func (c *Config) setFilesField(field, value string) error {
	switch field {
	case "enabled", "show_hidden":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid value for %s: %w", field, err)
		}
		if field == "enabled" {
			c.Files.Enabled = b
		} else {
			c.Files.ShowHidden = b
		}
	case "root":
		c.Files.Root = value
	case "ignore":
		c.Files.Ignore = nil
		for _, p := range strings.Split(value, ",") {
			if p = strings.TrimSpace(p); p != "" {
				c.Files.Ignore = append(c.Files.Ignore, p)
			}
		}
	default:
		return fmt.Errorf("unknown field: files.%s", field)
	}
	return nil
}

func (c *Config) getSearchField(field string) (string, error) {
	switch field {
	case "enabled":
		return strconv.FormatBool(c.Search.Enabled), nil
	case "name":
		return c.Search.Name, nil
	case "url":
		return c.Search.URL, nil
	default:
		return "", fmt.Errorf("unknown field: search.%s", field)
	}
}

func (c *Config) setSearchField(field, value string) error {
	switch field {
	case "enabled":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid value for enabled: %w", err)
		}
		c.Search.Enabled = b
	case "name":
		c.Search.Name = value
	case "url":
		if !strings.Contains(value, "%s") {
			return fmt.Errorf("invalid url: %s (must contain %%s)", value)
		}
		c.Search.URL = value
	default:
		return fmt.Errorf("unknown field: search.%s", field)
	}
	return nil
}

func (c *Config) getWindowField(field string) (string, error) {
	switch field {
	case "on_show":
		return c.Window.OnShow, nil
	case "on_hide":
		return c.Window.OnHide, nil
	default:
		return "", fmt.Errorf("unknown field: window.%s", field)
	}
}

func (c *Config) setWindowField(field, value string) error {
	switch field {
	case "on_show":
		c.Window.OnShow = value
	case "on_hide":
		c.Window.OnHide = value
	default:
		return fmt.Errorf("unknown field: window.%s", field)
	}
	return nil
}

func parsePositive(field, value string) (int, error) {
	v, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid value for %s: %w", field, err)
	}
	if v <= 0 {
		return 0, fmt.Errorf("invalid %s: must be positive", field)
	}
	return v, nil
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if !isValidLogLevel(c.Log.Level) {
		return fmt.Errorf("log.level must be debug, info, warn, or error (got: %s)", c.Log.Level)
	}

	if !isValidLogFormat(c.Log.Format) {
		return fmt.Errorf("log.format must be text or logfmt (got: %s)", c.Log.Format)
	}

	if c.Launcher.DecayMs <= 0 {
		return errors.New("launcher.decay_ms must be > 0")
	}

	// Clamp page size to [1, 50]
	if c.Launcher.PageSize < 1 {
		c.Launcher.PageSize = 1
	}
	if c.Launcher.PageSize > 50 {
		c.Launcher.PageSize = 50
	}

	if !isValidAlgorithm(c.Filter.Algorithm) {
		return fmt.Errorf("filter.algorithm must be rank or fold (got: %s)", c.Filter.Algorithm)
	}

	if c.Clipboard.MaxEntries <= 0 {
		return errors.New("clipboard.max_entries must be > 0")
	}

	if c.Clipboard.PollIntervalMs <= 0 {
		return errors.New("clipboard.poll_interval_ms must be > 0")
	}

	if c.Search.Enabled && !strings.Contains(c.Search.URL, "%s") {
		return fmt.Errorf("search.url must contain %%s (got: %s)", c.Search.URL)
	}

	seen := make(map[string]bool, len(c.Commands))
	for i, cmd := range c.Commands {
		if strings.TrimSpace(cmd.Name) == "" {
			return fmt.Errorf("commands[%d].name is required", i)
		}
		if strings.TrimSpace(cmd.Command) == "" {
			return fmt.Errorf("commands[%d] (%s): command is required", i, cmd.Name)
		}
		if cmd.Accepts == "" {
			c.Commands[i].Accepts = AcceptsNothing
		} else if !isValidAccepts(cmd.Accepts) {
			return fmt.Errorf("commands[%d] (%s): accepts must be nothing, text, path, or any (got: %s)", i, cmd.Name, cmd.Accepts)
		}
		if seen[cmd.Name] {
			return fmt.Errorf("commands[%d]: duplicate name %q", i, cmd.Name)
		}
		seen[cmd.Name] = true
	}

	return nil
}

func isValidLogLevel(level string) bool {
	switch level {
	case "debug", "info", "warn", "error":
		return true
	default:
		return false
	}
}

func isValidLogFormat(format string) bool {
	return format == "text" || format == "logfmt"
}

func isValidAlgorithm(algorithm string) bool {
	return algorithm == "rank" || algorithm == "fold"
}

func isValidAccepts(accepts string) bool {
	switch accepts {
	case AcceptsNothing, AcceptsText, AcceptsPath, AcceptsAny:
		return true
	default:
		return false
	}
}

// ApplyEnvOverrides applies environment variable overrides to the config.
func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv("SUMMON_DEBUG"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil && b {
			c.Log.Level = "debug"
		}
	}
	if v := os.Getenv("SUMMON_LOG_LEVEL"); v != "" {
		if isValidLogLevel(v) {
			c.Log.Level = v
		}
	}
	if v := os.Getenv("SUMMON_SOCKET_PATH"); v != "" {
		c.Launcher.SocketPath = v
	}
}

// ListKeys returns all user-facing config keys.
func ListKeys() []string {
	return []string{
		"log.level",
		"log.file",
		"log.format",
		"launcher.decay_ms",
		"launcher.page_size",
		"launcher.socket_path",
		"launcher.opener",
		"filter.algorithm",
		"clipboard.max_entries",
		"clipboard.poll_interval_ms",
		"clipboard.persist",
		"clipboard.persist_secrets",
		"files.enabled",
		"files.root",
		"files.show_hidden",
		"files.ignore",
		"search.enabled",
		"search.name",
		"search.url",
		"window.on_show",
		"window.on_hide",
	}
}
