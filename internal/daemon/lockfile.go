//go:build !windows

package daemon

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/sys/unix"
)

// LockFile keeps a single launcher per user. The lock is an flock(2) held
// for the life of the process, so it disappears with a crashed holder.
type LockFile struct {
	file *os.File
	path string
}

// NewLockFile returns an unacquired lock at path.
func NewLockFile(path string) *LockFile {
	return &LockFile{path: path}
}

// HeldBy returns the PID recorded in lockPath if another process holds the
// lock.
func HeldBy(lockPath string) (pid int, held bool, err error) {
	f, err := os.OpenFile(lockPath, os.O_RDWR, 0) //nolint:gosec // G304: lock file path is from trusted config
	if err != nil {
		if os.IsNotExist(err) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("open lock file: %w", err)
	}
	defer f.Close()

	err = unix.Flock(int(f.Fd()), unix.LOCK_EX|unix.LOCK_NB) //nolint:gosec // G115: fd fits in int
	switch {
	case err == nil:
		_ = unix.Flock(int(f.Fd()), unix.LOCK_UN) //nolint:gosec // G115: fd fits in int
		return 0, false, nil
	case errors.Is(err, unix.EWOULDBLOCK):
		return readPID(f), true, nil
	default:
		return 0, false, fmt.Errorf("flock: %w", err)
	}
}

// Acquire takes the lock without blocking and records the current PID.
// A held lock yields *AlreadyRunningError.
func (l *LockFile) Acquire() error {
	if err := os.MkdirAll(filepath.Dir(l.path), 0o700); err != nil {
		return fmt.Errorf("failed to create lock directory: %w", err)
	}

	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_RDWR, 0o600) //nolint:gosec // G304: lock file path is from trusted config
	if err != nil {
		return fmt.Errorf("failed to open lock file: %w", err)
	}

	if err := unix.Flock(int(f.Fd()), unix.LOCK_EX|unix.LOCK_NB); err != nil { //nolint:gosec // G115: fd fits in int
		defer f.Close()
		if errors.Is(err, unix.EWOULDBLOCK) {
			return &AlreadyRunningError{PID: readPID(f), Path: l.path}
		}
		return fmt.Errorf("failed to acquire lock on %s: %w", l.path, err)
	}

	if err := writePID(f); err != nil {
		_ = unix.Flock(int(f.Fd()), unix.LOCK_UN) //nolint:gosec // G115: fd fits in int
		f.Close()
		return err
	}
	l.file = f
	return nil
}

// Release drops the lock and removes the file. It is safe to call twice.
func (l *LockFile) Release() error {
	if l.file == nil {
		return nil
	}
	_ = unix.Flock(int(l.file.Fd()), unix.LOCK_UN) //nolint:gosec // G115: fd fits in int

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
