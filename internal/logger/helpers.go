package logger

import (
	"io"
	"os"
)

var (
	FlagVerboseCount int  // -V, -VV
	FlagQuiet        bool // --quiet/-q
	FlagSilent       bool // --silent/-s
	FlagJSON         bool // --json-logs, forced on by `serve` when configured
)

// ConfigureLoggerFromFlags applies CLI flags on top of the configured level.
// Flags win: -V forces debug, -q keeps errors only, -s discards everything.
func ConfigureLoggerFromFlags(configuredLevel string, configuredJSON bool) {
	var out io.Writer = os.Stdout
	level := configuredLevel
	switch {
	case FlagSilent:
		level = "error"
		out = io.Discard
	case FlagQuiet:
		level = "error"
	case FlagVerboseCount > 0:
		level = "debug"
	}

	json := FlagJSON || configuredJSON
	Configure(Options{
		Level: level,
		JSON:  json,
		Color: !json,
		Out:   out,
	})
}
