//go:build windows

package cmd

import (
	"os"

	"golang.org/x/sys/windows"
)

// ttyColumns reports the visible width of the console behind f, or 0.
func ttyColumns(f *os.File) int {
	var info windows.ConsoleScreenBufferInfo
	if err := windows.GetConsoleScreenBufferInfo(windows.Handle(f.Fd()), &info); err != nil {
		return 0
	}
	return int(info.Window.Right-info.Window.Left) + 1
}
