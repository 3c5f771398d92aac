package notifier

import (
	"fmt"
	"io"
	"strings"

	"github.com/MrSnakeDoc/linkvault/internal/config"
	"github.com/MrSnakeDoc/linkvault/internal/printer"
	"github.com/MrSnakeDoc/linkvault/internal/utils"
)

const (
	borderColor = "\033[38;5;39m"
	resetColor  = "\033[0m"
	padding     = 2
)

// DisplayServeBanner prints the boxed startup notice of `linkvault serve`.
func DisplayServeBanner(w io.Writer, addr string, cfg *config.Config) {
	p := printer.NewColorPrinter()

	writes := p.Success("enabled")
	if missing := cfg.MissingForWrite(); len(missing) > 0 {
		writes = p.Warning("disabled (missing %s)", strings.Join(missing, ", "))
	}

	reports := p.Success("enabled")
	if cfg.WebhookURL == "" {
		reports = p.Warning("disabled")
	}

	DisplayBox(w, []string{
		p.Success("linkvault %s", config.Version),
		fmt.Sprintf("%s %s", p.Info("listening on"), addr),
		fmt.Sprintf("%s %s/%s:%s", p.Info("store"), cfg.Owner, cfg.Repo, cfg.FilePath),
		fmt.Sprintf("%s %s   %s %s", p.Info("writes"), writes, p.Info("reports"), reports),
	})
}

// DisplayBox frames lines centered in a rounded border.
func DisplayBox(w io.Writer, lines []string) {
	maxWidth := utils.GetMaxWidth(lines) + padding*2
	topBottomBorder := borderColor + "╭" + strings.Repeat("─", maxWidth) + "╮" + resetColor
	sideBorder := borderColor + "│" + resetColor

	_, _ = fmt.Fprintln(w, topBottomBorder)
	for _, line := range lines {
		width := utils.DisplayWidth(line)
		paddingLeft := (maxWidth - width) / 2
		paddingRight := maxWidth - width - paddingLeft
		_, _ = fmt.Fprintf(w, "%s%s%s%s%s\n", sideBorder, strings.Repeat(" ", paddingLeft), line, strings.Repeat(" ", paddingRight), sideBorder)
	}
	_, _ = fmt.Fprintln(w, borderColor+"╰"+strings.Repeat("─", maxWidth)+"╯"+resetColor)
}
