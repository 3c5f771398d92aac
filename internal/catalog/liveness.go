package catalog

import (
	"regexp"
	"strings"

	"github.com/MrSnakeDoc/linkvault/internal/models"
	"github.com/MrSnakeDoc/linkvault/internal/utils"
)

// Rule constrains the URL shape of one monitored host.
type Rule struct {
	// Host is matched as a substring of the URL.
	Host string
	// Shape must match for a URL of Host to be considered alive.
	Shape *regexp.Regexp
}

// GofileRule accepts only share links of the form https://gofile.io/d/<id>.
var GofileRule = Rule{
	Host:  "gofile.io",
	Shape: regexp.MustCompile(`^https://gofile\.io/d/[a-zA-Z0-9_-]+`),
}

// Filter classifies records by URL shape. It never touches the network:
// a URL of a monitored host is valid iff it has the expected shape, any
// other URL is valid.
type Filter struct {
	Rules []Rule
}

// DefaultFilter monitors gofile.io links.
func DefaultFilter() Filter {
	return Filter{Rules: []Rule{GofileRule}}
}

// Classify reports whether rec is still considered valid.
func (f Filter) Classify(rec models.URLRecord) bool {
	for _, rule := range f.Rules {
		if strings.Contains(rec.URL, rule.Host) {
			return rule.Shape.MatchString(rec.URL)
		}
	}
	return true
}

// Partition splits a batch; both halves keep their input order.
type Partition struct {
	Valid   []models.URLRecord
	Invalid []models.URLRecord
}

func (f Filter) FilterBatch(records []models.URLRecord) Partition {
	valid, invalid := utils.Split(records, f.Classify)
	return Partition{Valid: valid, Invalid: invalid}
}
