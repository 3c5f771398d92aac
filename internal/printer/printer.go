package printer

import (
	"fmt"

	"github.com/fatih/color"
)

type ColorPrinter struct {
	Success func(format string, a ...interface{}) string
	Error   func(format string, a ...interface{}) string
	Warning func(format string, a ...interface{}) string
	Info    func(format string, a ...interface{}) string
	Debug   func(format string, a ...interface{}) string
	Muted   func(format string, a ...interface{}) string
}

// NewColorPrinter returns a printer that colorizes console output.
func NewColorPrinter() *ColorPrinter {
	return &ColorPrinter{
		Success: color.New(color.FgGreen).SprintfFunc(),
		Error:   color.New(color.FgRed).SprintfFunc(),
		Warning: color.New(color.FgYellow).SprintfFunc(),
		Info:    color.New(color.FgBlue).SprintfFunc(),
		Debug:   color.New(color.FgCyan).SprintfFunc(),
		Muted:   color.New(color.FgHiBlack).SprintfFunc(),
	}
}

// NewPlainPrinter is used for JSON logs, where escape codes would end up in the payload.
func NewPlainPrinter() *ColorPrinter {
	return &ColorPrinter{
		Success: fmt.Sprintf,
		Error:   fmt.Sprintf,
		Warning: fmt.Sprintf,
		Info:    fmt.Sprintf,
		Debug:   fmt.Sprintf,
		Muted:   fmt.Sprintf,
	}
}

// New picks the colored or plain printer.
func New(colored bool) *ColorPrinter {
	if colored {
		return NewColorPrinter()
	}
	return NewPlainPrinter()
}
