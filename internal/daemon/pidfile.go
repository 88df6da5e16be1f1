package daemon

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// readPID parses the PID stored at the start of f. Unreadable or malformed
// content yields 0.
func readPID(f *os.File) int {
	if _, err := f.Seek(0, 0); err != nil {
		return 0
	}
	buf := make([]byte, 32)
	n, err := f.Read(buf)
	if err != nil || n == 0 {
		return 0
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(buf[:n])))
	if err != nil {
		return 0
	}
	return pid
}

// writePID replaces the content of f with the current PID.
func writePID(f *os.File) error {
	if err := f.Truncate(0); err != nil {
		return fmt.Errorf("failed to truncate lock file: %w", err)
	}
	if _, err := f.Seek(0, 0); err != nil {
		return fmt.Errorf("failed to seek lock file: %w", err)
	}
	if _, err := fmt.Fprintf(f, "%d\n", os.Getpid()); err != nil {
		return fmt.Errorf("failed to write PID to lock file: %w", err)
	}
	return f.Sync()
}

// AlreadyRunningError reports that another launcher holds the lock.
type AlreadyRunningError struct {
	PID  int
	Path string
}

func (e *AlreadyRunningError) Error() string {
	if e.PID > 0 {
		return fmt.Sprintf("summon already running (PID %d), lock file: %s", e.PID, e.Path)
	}
	return fmt.Sprintf("summon already running, lock file: %s", e.Path)
}
