//go:build windows

package daemon

import (
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/sys/windows"
)

const windowsStillActive = 259

// LockFile keeps a single launcher per user. Windows has no flock, so the
// lock is the exclusive creation of the file.
type LockFile struct {
	path string
	file *os.File
}

// NewLockFile returns an unacquired lock at path.
func NewLockFile(path string) *LockFile {
	return &LockFile{path: path}
}

// HeldBy returns the PID recorded in lockPath. Presence of the file is
// taken as the lock being held.
func HeldBy(lockPath string) (pid int, held bool, err error) {
	f, err := os.Open(lockPath) //nolint:gosec // G304: lock file path is from trusted config
	if err != nil {
		if os.IsNotExist(err) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("open lock file: %w", err)
	}
	defer f.Close()
	return readPID(f), true, nil
}

// Acquire creates the lock file and records the current PID. A lock left
// by a dead process is replaced once.
func (l *LockFile) Acquire() error {
	if err := os.MkdirAll(filepath.Dir(l.path), 0o700); err != nil {
		return fmt.Errorf("failed to create lock directory: %w", err)
	}

	f, err := l.create()
	if os.IsExist(err) {
		pid, _, _ := HeldBy(l.path)
		if pid > 0 && isProcessAlive(pid) {
			return &AlreadyRunningError{PID: pid, Path: l.path}
		}
		if remErr := os.Remove(l.path); remErr == nil {
			f, err = l.create()
		}
	}
	if err != nil {
		return fmt.Errorf("failed to acquire lock on %s: %w", l.path, err)
	}

	if err := writePID(f); err != nil {
		f.Close()
		_ = os.Remove(l.path)
		return err
	}
	l.file = f
	return nil
}

func (l *LockFile) create() (*os.File, error) {
	return os.OpenFile(l.path, os.O_CREATE|os.O_EXCL|os.O_RDWR, 0o600) //nolint:gosec // G304: lock file path is from trusted config
}

// Release closes and removes the lock file. It is safe to call twice.
func (l *LockFile) Release() error {
	if l.file == nil {
		return nil
	}
	if err := l.file.Close(); err != nil {
		return fmt.Errorf("failed to close lock file: %w", err)
	}
	l.file = nil

	if err := os.Remove(l.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove lock file: %w", err)
	}
	return nil
}

// Path returns the lock file path.
func (l *LockFile) Path() string {
	return l.path
}

func isProcessAlive(pid int) bool {
	h, err := windows.OpenProcess(windows.PROCESS_QUERY_LIMITED_INFORMATION, false, uint32(pid)) //nolint:gosec // G115: pid is positive
	if err != nil {
		return false
	}
	defer windows.CloseHandle(h)

	var code uint32
	if err := windows.GetExitCodeProcess(h, &code); err != nil {
		return false
	}
	return code == windowsStillActive
}
