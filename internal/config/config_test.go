package config

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Log.Level != "info" {
		t.Errorf("Expected log.level=info, got %s", cfg.Log.Level)
	}
	if cfg.Launcher.DecayMs != 1000 {
		t.Errorf("Expected decay_ms=1000, got %d", cfg.Launcher.DecayMs)
	}
	if cfg.Launcher.PageSize != 5 {
		t.Errorf("Expected page_size=5, got %d", cfg.Launcher.PageSize)
	}
	if cfg.Filter.Algorithm != "rank" {
		t.Errorf("Expected algorithm=rank, got %s", cfg.Filter.Algorithm)
	}
	if cfg.Clipboard.MaxEntries != 50 {
		t.Errorf("Expected max_entries=50, got %d", cfg.Clipboard.MaxEntries)
	}
	if !cfg.Clipboard.Persist {
		t.Error("Expected clipboard.persist=true")
	}
	if !cfg.Search.Enabled {
		t.Error("Expected search.enabled=true")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Default config should validate: %v", err)
	}
}

// ============================================================================
// Get/Set
// ============================================================================

func TestConfigGet(t *testing.T) {
	cfg := DefaultConfig()

	tests := []struct {
		key      string
		expected string
	}{
		{"log.level", "info"},
		{"log.file", ""},
		{"log.format", "text"},
		{"launcher.decay_ms", "1000"},
		{"launcher.page_size", "5"},
		{"launcher.socket_path", ""},
		{"filter.algorithm", "rank"},
		{"clipboard.max_entries", "50"},
		{"clipboard.poll_interval_ms", "500"},
		{"clipboard.persist", "true"},
		{"clipboard.persist_secrets", "false"},
		{"files.enabled", "true"},
		{"files.show_hidden", "false"},
		{"files.ignore", "*.swp,*~,__pycache__"},
		{"search.enabled", "true"},
		{"search.url", "https://duckduckgo.com/?q=%s"},
		{"window.on_show", ""},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			got, err := cfg.Get(tt.key)
			if err != nil {
				t.Errorf("Get(%q) error: %v", tt.key, err)
				return
			}
			if got != tt.expected {
				t.Errorf("Get(%q) = %q, want %q", tt.key, got, tt.expected)
			}
		})
	}
}

func TestConfigSet(t *testing.T) {
	tests := []struct {
		key      string
		value    string
		expected string
	}{
		{"log.level", "debug", "debug"},
		{"log.file", "/tmp/summon.log", "/tmp/summon.log"},
		{"log.format", "logfmt", "logfmt"},
		{"launcher.decay_ms", "1500", "1500"},
		{"launcher.page_size", "9", "9"},
		{"launcher.opener", "open", "open"},
		{"filter.algorithm", "fold", "fold"},
		{"clipboard.max_entries", "3", "3"},
		{"clipboard.persist", "false", "false"},
		{"clipboard.persist_secrets", "true", "true"},
		{"files.root", "/srv", "/srv"},
		{"files.show_hidden", "true", "true"},
		{"files.ignore", "a, b ,,c", "a,b,c"},
		{"search.name", "Wiki", "Wiki"},
		{"search.url", "https://example.org/?s=%s", "https://example.org/?s=%s"},
		{"window.on_hide", "tdrop -a hide", "tdrop -a hide"},
	}

	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			cfg := DefaultConfig()
			if err := cfg.Set(tt.key, tt.value); err != nil {
				t.Errorf("Set(%q, %q) error: %v", tt.key, tt.value, err)
				return
			}

			got, err := cfg.Get(tt.key)
			if err != nil {
				t.Errorf("Get(%q) error: %v", tt.key, err)
				return
			}
			if got != tt.expected {
				t.Errorf("After Set, Get(%q) = %q, want %q", tt.key, got, tt.expected)
			}
		})
	}
}

func TestConfigGetInvalidKey(t *testing.T) {
	cfg := DefaultConfig()

	tests := []string{
		"invalid",
		"",
		".",
		"log.",
		".level",
		"log.level.extra",
		"unknown.field",
		"Log.level",
		"log.unknown",
		"launcher.unknown",
		"clipboard.unknown",
		"commands.name",
	}

	for _, key := range tests {
		t.Run(key, func(t *testing.T) {
			if _, err := cfg.Get(key); err == nil {
				t.Errorf("Get(%q) should have failed", key)
			}
		})
	}
}

func TestConfigSetInvalidValue(t *testing.T) {
	tests := []struct {
		key   string
		value string
	}{
		{"log.level", "verbose"},
		{"log.format", "json"},
		{"launcher.decay_ms", "soon"},
		{"launcher.decay_ms", "0"},
		{"launcher.page_size", "-1"},
		{"filter.algorithm", "regex"},
		{"clipboard.max_entries", "many"},
		{"clipboard.persist", "yes"},
		{"files.enabled", "on"},
		{"search.url", "https://example.org/"},
	}

	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			cfg := DefaultConfig()
			if err := cfg.Set(tt.key, tt.value); err == nil {
				t.Errorf("Set(%q, %q) should have failed", tt.key, tt.value)
			}
		})
	}
}

func TestListKeys_AllGettable(t *testing.T) {
	cfg := DefaultConfig()
	for _, key := range ListKeys() {
		if _, err := cfg.Get(key); err != nil {
			t.Errorf("ListKeys contains %q but Get failed: %v", key, err)
		}
	}
}

// ============================================================================
// Validation
// ============================================================================

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"bad level", func(c *Config) { c.Log.Level = "loud" }, "log.level"},
		{"zero decay", func(c *Config) { c.Launcher.DecayMs = 0 }, "decay_ms"},
		{"bad algorithm", func(c *Config) { c.Filter.Algorithm = "x" }, "filter.algorithm"},
		{"zero entries", func(c *Config) { c.Clipboard.MaxEntries = 0 }, "max_entries"},
		{"search url", func(c *Config) { c.Search.URL = "https://x" }, "search.url"},
		{"command without name", func(c *Config) {
			c.Commands = []CommandConfig{{Command: "ls"}}
		}, "name is required"},
		{"command without command", func(c *Config) {
			c.Commands = []CommandConfig{{Name: "ls"}}
		}, "command is required"},
		{"bad accepts", func(c *Config) {
			c.Commands = []CommandConfig{{Name: "ls", Command: "ls", Accepts: "stdin"}}
		}, "accepts"},
		{"duplicate", func(c *Config) {
			c.Commands = []CommandConfig{{Name: "ls", Command: "ls"}, {Name: "ls", Command: "ls -l"}}
		}, "duplicate"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() = %v, want error containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestValidate_ClampsPageSizeAndDefaultsAccepts(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Launcher.PageSize = 500
	cfg.Commands = []CommandConfig{{Name: "date", Command: "date"}}

	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if cfg.Launcher.PageSize != 50 {
		t.Errorf("PageSize = %d, want 50", cfg.Launcher.PageSize)
	}
	if cfg.Commands[0].Accepts != AcceptsNothing {
		t.Errorf("Accepts = %q, want %q", cfg.Commands[0].Accepts, AcceptsNothing)
	}
}

// ============================================================================
// Load / Save
// ============================================================================

func TestLoadFromFile_Missing(t *testing.T) {
	cfg, err := LoadFromFile(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("LoadFromFile: %v", err)
	}
	if cfg.Launcher.PageSize != 5 {
		t.Errorf("expected defaults, got page_size=%d", cfg.Launcher.PageSize)
	}
}

func TestLoadFromFile_YAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := `
launcher:
  decay_ms: 750
clipboard:
  max_entries: 10
commands:
  - name: Uptime
    command: uptime
    returns_items: true
  - name: Translate
    command: trans -b {}
    accepts: text
`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile: %v", err)
	}
	if cfg.Launcher.DecayMs != 750 {
		t.Errorf("decay_ms = %d, want 750", cfg.Launcher.DecayMs)
	}
	if cfg.Launcher.PageSize != 5 {
		t.Errorf("unset keys should keep defaults, page_size = %d", cfg.Launcher.PageSize)
	}
	if len(cfg.Commands) != 2 {
		t.Fatalf("commands = %d, want 2", len(cfg.Commands))
	}
	if cfg.Commands[0].Accepts != AcceptsNothing || !cfg.Commands[0].ReturnsItems {
		t.Errorf("unexpected first command: %+v", cfg.Commands[0])
	}
	if cfg.Commands[1].Accepts != AcceptsText {
		t.Errorf("second command accepts = %q, want text", cfg.Commands[1].Accepts)
	}
}

func TestLoadFromFile_TOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	data := `
[filter]
algorithm = "fold"

[[commands]]
name = "Lock"
command = "loginctl lock-session"
`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile: %v", err)
	}
	if cfg.Filter.Algorithm != "fold" {
		t.Errorf("algorithm = %q, want fold", cfg.Filter.Algorithm)
	}
	if len(cfg.Commands) != 1 || cfg.Commands[0].Name != "Lock" {
		t.Errorf("unexpected commands: %+v", cfg.Commands)
	}
}

func TestLoadFromFile_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("log:\n  level: shout\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFromFile(path); err == nil {
		t.Error("expected validation error")
	}

	if err := os.WriteFile(path, []byte("log: [unclosed"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFromFile(path); err == nil {
		t.Error("expected parse error")
	}
}

func TestSaveAndLoad_RoundTripFormats(t *testing.T) {
	for _, name := range []string{"config.yaml", "config.toml"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "nested", name)
			cfg := DefaultConfig()
			cfg.Clipboard.MaxEntries = 7
			cfg.Commands = []CommandConfig{{Name: "Date", Command: "date", Accepts: AcceptsNothing}}

			if err := cfg.SaveToFile(path); err != nil {
				t.Fatalf("SaveToFile: %v", err)
			}
			loaded, err := LoadFromFile(path)
			if err != nil {
				t.Fatalf("LoadFromFile: %v", err)
			}
			if loaded.Clipboard.MaxEntries != 7 {
				t.Errorf("max_entries = %d, want 7", loaded.Clipboard.MaxEntries)
			}
			if len(loaded.Commands) != 1 || loaded.Commands[0].Command != "date" {
				t.Errorf("commands not preserved: %+v", loaded.Commands)
			}
		})
	}
}

func TestApplyEnvOverrides(t *testing.T) {
	t.Setenv("SUMMON_LOG_LEVEL", "warn")
	t.Setenv("SUMMON_SOCKET_PATH", "/tmp/s.sock")

	cfg := DefaultConfig()
	cfg.ApplyEnvOverrides()
	if cfg.Log.Level != "warn" {
		t.Errorf("log.level = %s, want warn", cfg.Log.Level)
	}
	if cfg.Launcher.SocketPath != "/tmp/s.sock" {
		t.Errorf("socket_path = %s", cfg.Launcher.SocketPath)
	}

	t.Setenv("SUMMON_LOG_LEVEL", "")
	t.Setenv("SUMMON_DEBUG", "1")
	cfg = DefaultConfig()
	cfg.ApplyEnvOverrides()
	if cfg.Log.Level != "debug" {
		t.Errorf("SUMMON_DEBUG should force debug, got %s", cfg.Log.Level)
	}
}

func TestWatch_ReloadsOnWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("clipboard:\n  max_entries: 5\n"), 0644); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	got := make(chan *Config, 1)
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, path, nil, func(c *Config) {
			select {
			case got <- c:
			default:
			}
		})
	}()

	// Give the watcher time to register before writing.
	time.Sleep(100 * time.Millisecond)
	if err := os.WriteFile(path, []byte("clipboard:\n  max_entries: 9\n"), 0644); err != nil {
		t.Fatal(err)
	}

	select {
	case c := <-got:
		if c.Clipboard.MaxEntries != 9 {
			t.Errorf("max_entries = %d, want 9", c.Clipboard.MaxEntries)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("config was not reloaded")
	}

	cancel()
	if err := <-done; err != nil {
		t.Errorf("Watch returned %v", err)
	}
}
