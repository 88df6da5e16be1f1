package cmd

import (
	"os"
	"runtime"
	"strconv"
)

// Escape sequences used by the plain-text commands. They are blanked when
// the terminal should not receive colour.
var (
	colorRed    = "\033[0;31m"
	colorGreen  = "\033[0;32m"
	colorYellow = "\033[0;33m"
	colorCyan   = "\033[0;36m"
	colorDim    = "\033[2m"
	colorBold   = "\033[1m"
	colorReset  = "\033[0m"
)

func init() {
	if !shouldDisableColors() {
		return
	}
	for _, c := range []*string{&colorRed, &colorGreen, &colorYellow, &colorCyan, &colorDim, &colorBold, &colorReset} {
		*c = ""
	}
}

// shouldDisableColors honours NO_COLOR (https://no-color.org/) and
// TERM=dumb, and assumes legacy Windows consoles cannot render ANSI.
func shouldDisableColors() bool {
	if os.Getenv("NO_COLOR") != "" || os.Getenv("TERM") == "dumb" {
		return true
	}
	if runtime.GOOS != "windows" {
		return false
	}
	if os.Getenv("WT_SESSION") != "" || os.Getenv("TERM_PROGRAM") != "" {
		return false
	}
	return os.Getenv("ANSICON") == "" && os.Getenv("ConEmuANSI") != "ON"
}

// terminalWidth returns the width of stdout, then $COLUMNS, then 80.
func terminalWidth() int {
	if w := ttyColumns(os.Stdout); w > 0 {
		return w
	}
	if w, err := strconv.Atoi(os.Getenv("COLUMNS")); err == nil && w > 0 {
		return w
	}
	return 80
}
