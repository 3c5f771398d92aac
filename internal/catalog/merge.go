package catalog

import "github.com/MrSnakeDoc/linkvault/internal/models"

// MergeResult is the outcome of folding an incoming batch into the store.
type MergeResult struct {
	Merged     []models.URLRecord
	Added      int
	Duplicates int
}

// Merge returns existing followed by the incoming records whose url is not
// already present. The first record seen for a url wins; a duplicate never
// overwrites it, including duplicates inside incoming itself.
func Merge(existing, incoming []models.URLRecord) MergeResult {
	seen := make(map[string]struct{}, len(existing)+len(incoming))
	merged := make([]models.URLRecord, 0, len(existing)+len(incoming))

	for _, r := range existing {
		seen[r.URL] = struct{}{}
		merged = append(merged, r)
	}

	added := 0
	for _, r := range incoming {
		if _, dup := seen[r.URL]; dup {
			continue
		}
		seen[r.URL] = struct{}{}
		merged = append(merged, r)
		added++
	}

	return MergeResult{
		Merged:     merged,
		Added:      added,
		Duplicates: len(incoming) - added,
	}
}
