package utils

import (
	"fmt"
	"regexp"

	"github.com/mattn/go-runewidth"
)

// HumanSize formats a byte count for logs ("512 B", "1.5 KiB").
func HumanSize(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for v := n / unit; v >= unit; v /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}

// Truncate shortens s to at most limit runes, marking the cut.
func Truncate(s string, limit int) string {
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	if limit <= 1 {
		return string(r[:limit])
	}
	return string(r[:limit-1]) + "…"
}

var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*m`)

// StripANSI removes color escape sequences.
func StripANSI(s string) string {
	return ansiPattern.ReplaceAllString(s, "")
}

// DisplayWidth is the terminal column width of s, ignoring color codes.
func DisplayWidth(s string) int {
	return runewidth.StringWidth(StripANSI(s))
}

// GetMaxWidth returns the widest display width among lines.
func GetMaxWidth(lines []string) int {
	maxWidth := 0
	for _, line := range lines {
		if w := DisplayWidth(line); w > maxWidth {
			maxWidth = w
		}
	}
	return maxWidth
}
