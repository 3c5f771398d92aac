package config

import (
	"fmt"
	"io"
	"runtime"
)

var (
	Version   = "dev"
	Commit    = "unknown"
	Date      = "unknown"
	GoVersion = runtime.Version()
)

// UserAgent identifies linkvault to GitHub and the webhook sink.
func UserAgent() string {
	return "linkvault/" + Version
}

func PrintVersion(w io.Writer) {
	_, _ = fmt.Fprintln(w, "linkvault - GitHub-backed URL store")
	_, _ = fmt.Fprintf(w, "  %-10s %s\n", "Version:", Version)
	_, _ = fmt.Fprintf(w, "  %-10s %s\n", "Go Version:", GoVersion)
	_, _ = fmt.Fprintf(w, "  %-10s %s\n", "Git Commit:", Commit)
	_, _ = fmt.Fprintf(w, "  %-10s %s\n", "Built:", Date)
	_, _ = fmt.Fprintf(w, "  %-10s %s/%s\n", "OS/Arch:", runtime.GOOS, runtime.GOARCH)
}
