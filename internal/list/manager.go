// Package list renders ranked views as console tables or JSON.
package list

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/MrSnakeDoc/linkvault/internal/catalog"
	"github.com/MrSnakeDoc/linkvault/internal/logger"
	"github.com/MrSnakeDoc/linkvault/internal/models"
	"github.com/MrSnakeDoc/linkvault/internal/printer"
	"github.com/MrSnakeDoc/linkvault/internal/utils"
	"github.com/olekukonko/tablewriter"
)

// Views accepted by --view.
var Views = []string{"newest", "popular", "downloads"}

const urlWidth = 60

// row is a view model for rendering.
type row struct {
	Rank      string
	URL       string
	Added     string
	Downloads string
	Access    string
}

type Lister struct {
	View  string
	Limit int
	JSON  bool
	Out   io.Writer
}

func New(view string, limit int, asJSON bool, out io.Writer) (*Lister, error) {
	if !utils.Includes(Views, view) {
		return nil, fmt.Errorf("unknown view %q (want one of %v)", view, Views)
	}
	return &Lister{View: view, Limit: limit, JSON: asJSON, Out: out}, nil
}

// Pick returns the selected view trimmed to Limit.
func (l *Lister) Pick(r catalog.Rankings) []models.URLRecord {
	var records []models.URLRecord
	switch l.View {
	case "popular":
		records = r.ByPopular
	case "downloads":
		records = r.ByDownloads
	default:
		records = r.ByNewest
	}
	if l.Limit > 0 {
		records = utils.TopN(records, l.Limit)
	}
	return records
}

// Execute renders the view.
func (l *Lister) Execute(r catalog.Rankings) error {
	records := l.Pick(r)

	if l.JSON {
		enc := json.NewEncoder(l.Out)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		return enc.Encode(records)
	}

	if len(records) == 0 {
		logger.Warn("No URLs to show.")
		return nil
	}

	p := printer.NewColorPrinter()
	table := logger.CreateTable([]string{"#", "URL", "Added", "Downloads", "Access"})

	rows := make([]row, len(records))
	for i, rec := range records {
		rows[i] = toRow(p, i+1, rec)
	}

	for _, r := range rows {
		if err := renderRow(table, r); err != nil {
			return fmt.Errorf("an error occurred while appending to the table: %w", err)
		}
	}

	if err := table.Render(); err != nil {
		return fmt.Errorf("an error occurred while rendering the table: %w", err)
	}
	return nil
}

func toRow(p *printer.ColorPrinter, rank int, rec models.URLRecord) row {
	added := p.Muted("—")
	if t, ok := rec.ParsedAddedAt(); ok {
		added = t.UTC().Format("2006-01-02 15:04")
	}

	downloads := "0"
	if rec.Downloads != nil {
		downloads = strconv.FormatFloat(*rec.Downloads, 'f', -1, 64)
	}

	access := p.Muted("—")
	if rec.AccessCount != nil {
		access = strconv.FormatInt(*rec.AccessCount, 10)
	}

	return row{
		Rank:      strconv.Itoa(rank),
		URL:       utils.Truncate(rec.URL, urlWidth),
		Added:     added,
		Downloads: downloads,
		Access:    access,
	}
}

func renderRow(table *tablewriter.Table, r row) error {
	return table.Append([]string{r.Rank, r.URL, r.Added, r.Downloads, r.Access})
}
