package launcher

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"
)

// ansiRE matches CSI, OSC, charset and other two-byte escape sequences.
var ansiRE = regexp.MustCompile(`\x1b(?:` +
	`\[[0-9;?]*[A-Za-z]` +
	`|` +
	`\].*?(?:\x1b\\|\x07)` +
	`|` +
	`[()][A-B0-2]` +
	`|` +
	`[#()*+\-./][A-Za-z0-9]` +
	`)`)

// StripANSI removes ANSI escape sequences from s.
func StripANSI(s string) string {
	return ansiRE.ReplaceAllString(s, "")
}

// ValidateUTF8 replaces invalid byte sequences with U+FFFD.
func ValidateUTF8(s string) string {
	if utf8.ValidString(s) {
		return s
	}
	return strings.ToValidUTF8(s, string(utf8.RuneError))
}

// displayText makes item text safe to draw on one row: escapes are removed
// and newlines, tabs and other control characters become spaces.
func displayText(s string) string {
	s = StripANSI(ValidateUTF8(s))
	return strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return ' '
		}
		return r
	}, s)
}

// MiddleTruncate shortens s to maxWidth display columns by replacing its
// middle with an ellipsis.
func MiddleTruncate(s string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) <= maxWidth {
		return s
	}
	if maxWidth < 3 {
		return runewidth.Truncate(s, maxWidth, "")
	}
	remaining := maxWidth - 1
	head := runewidth.Truncate(s, (remaining+1)/2, "")
	return head + "…" + tail(s, remaining/2)
}

// tail returns the longest suffix of s at most width columns wide.
func tail(s string, width int) string {
	runes := []rune(s)
	w := 0
	start := len(runes)
	for i := len(runes) - 1; i >= 0; i-- {
		rw := runewidth.RuneWidth(runes[i])
		if w+rw > width {
			break
		}
		w += rw
		start = i
	}
	return string(runes[start:])
}
