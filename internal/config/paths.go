// Package config provides configuration management for summon.
package config

import (
	"os"
	"path/filepath"
	"runtime"
)

const appName = "summon"

// Paths locates everything summon keeps on disk.
type Paths struct {
	// ConfigDir holds config.yaml or config.toml (~/.config/summon).
	ConfigDir string

	// DataDir holds the history database and logs (~/.local/share/summon).
	DataDir string

	// RuntimeDir holds the trigger socket and the lock file.
	RuntimeDir string
}

// DefaultPaths resolves Paths from the XDG base directory variables, or
// from %APPDATA% and %LOCALAPPDATA% on Windows.
func DefaultPaths() *Paths {
	home := homeDir()

	if runtime.GOOS == "windows" {
		roaming := envOr("APPDATA", filepath.Join(home, "AppData", "Roaming"))
		local := envOr("LOCALAPPDATA", filepath.Join(home, "AppData", "Local"))
		return &Paths{
			ConfigDir:  filepath.Join(roaming, appName),
			DataDir:    filepath.Join(local, appName),
			RuntimeDir: filepath.Join(local, appName, "run"),
		}
	}

	runtimeDir := filepath.Join(home, "."+appName, "run")
	if dir := os.Getenv("XDG_RUNTIME_DIR"); dir != "" {
		runtimeDir = filepath.Join(dir, appName)
	}
	return &Paths{
		ConfigDir:  filepath.Join(envOr("XDG_CONFIG_HOME", filepath.Join(home, ".config")), appName),
		DataDir:    filepath.Join(envOr("XDG_DATA_HOME", filepath.Join(home, ".local", "share")), appName),
		RuntimeDir: runtimeDir,
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// ConfigFile returns config.toml when it exists, otherwise config.yaml.
func (p *Paths) ConfigFile() string {
	tomlPath := filepath.Join(p.ConfigDir, "config.toml")
	if _, err := os.Stat(tomlPath); err == nil {
		return tomlPath
	}
	return filepath.Join(p.ConfigDir, "config.yaml")
}

// DatabaseFile is the SQLite history database.
func (p *Paths) DatabaseFile() string { return filepath.Join(p.DataDir, "state.db") }

// SocketFile is the trigger socket.
func (p *Paths) SocketFile() string { return filepath.Join(p.RuntimeDir, appName+".sock") }

// LockFile is the single-instance lock.
func (p *Paths) LockFile() string { return filepath.Join(p.RuntimeDir, appName+".lock") }

// LogDir is the directory holding LogFile.
func (p *Paths) LogDir() string { return filepath.Join(p.DataDir, "logs") }

// LogFile is the launcher log; the terminal belongs to the UI.
func (p *Paths) LogFile() string { return filepath.Join(p.LogDir(), appName+".log") }

// EnsureDirectories creates every directory in p. RuntimeDir is made
// private because the socket lives there.
func (p *Paths) EnsureDirectories() error {
	for _, dir := range []string{p.ConfigDir, p.DataDir, p.LogDir()} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	if err := os.MkdirAll(p.RuntimeDir, 0o700); err != nil {
		return err
	}
	return os.Chmod(p.RuntimeDir, 0o700)
}

// HomeDir returns the user's home directory.
func HomeDir() string {
	return homeDir()
}

func homeDir() string {
	if home, err := os.UserHomeDir(); err == nil {
		return home
	}
	if runtime.GOOS == "windows" {
		return os.Getenv("USERPROFILE")
	}
	return os.Getenv("HOME")
}
