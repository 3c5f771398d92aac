package catalog

import (
	"math/rand"
	"slices"
	"sync"
	"time"

	"github.com/MrSnakeDoc/linkvault/internal/models"
	"github.com/MrSnakeDoc/linkvault/internal/utils"
)

// DefaultLimit is the size of every ranked view.
const DefaultLimit = 100

// AccessSource supplies an access count for records that have none stored.
type AccessSource interface {
	AccessCount(rec models.URLRecord) int64
}

// AccessFunc adapts a function to AccessSource.
type AccessFunc func(rec models.URLRecord) int64

func (f AccessFunc) AccessCount(rec models.URLRecord) int64 { return f(rec) }

// RandomAccess draws placeholder counts in [0, 10000). It is the stand-in
// popularity signal until real access events are recorded; seed it to get a
// reproducible ordering.
type RandomAccess struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func NewRandomAccess(seed int64) *RandomAccess {
	return &RandomAccess{rng: rand.New(rand.NewSource(seed))}
}

// NewTimeSeededAccess reproduces the historical behavior: a new draw per request.
func NewTimeSeededAccess() *RandomAccess {
	return NewRandomAccess(time.Now().UnixNano())
}

func (r *RandomAccess) AccessCount(models.URLRecord) int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rng.Int63n(10000)
}

// Rankings bundles the three read views.
type Rankings struct {
	ByNewest    []models.URLRecord `json:"byNewest"`
	ByPopular   []models.URLRecord `json:"byPopular"`
	ByDownloads []models.URLRecord `json:"byDownloads"`
}

// EmptyRankings serializes as three empty arrays.
func EmptyRankings() Rankings {
	return Rankings{
		ByNewest:    []models.URLRecord{},
		ByPopular:   []models.URLRecord{},
		ByDownloads: []models.URLRecord{},
	}
}

// Projector derives ranked views. Inputs are never modified.
type Projector struct {
	Limit  int
	Access AccessSource
}

func NewProjector(access AccessSource) Projector {
	if access == nil {
		access = NewTimeSeededAccess()
	}
	return Projector{Limit: DefaultLimit, Access: access}
}

// ByNewest orders by added_at, most recent first; missing dates sort last.
func (p Projector) ByNewest(records []models.URLRecord) []models.URLRecord {
	out := clone(records)
	slices.SortStableFunc(out, newestFirst)
	return utils.TopN(out, p.limit())
}

// newestFirst compares parsed times directly so any year orders correctly.
// Records without a usable added_at come after all dated ones.
func newestFirst(a, b models.URLRecord) int {
	ta, okA := a.ParsedAddedAt()
	tb, okB := b.ParsedAddedAt()
	switch {
	case okA && okB:
		return tb.Compare(ta)
	case okA:
		return -1
	case okB:
		return 1
	}
	return 0
}

// ByDownloads orders by downloads, missing counted as 0.
func (p Projector) ByDownloads(records []models.URLRecord) []models.URLRecord {
	out := clone(records)
	utils.SortStableDesc(out, func(r models.URLRecord) float64 { return r.DownloadCount() })
	return utils.TopN(out, p.limit())
}

// ByPopular orders by access_count. Records without one get a synthesized
// count from the Access source; the returned records carry it.
func (p Projector) ByPopular(records []models.URLRecord) []models.URLRecord {
	out := make([]models.URLRecord, len(records))
	for i, r := range records {
		if r.AccessCount == nil {
			r = r.WithAccessCount(p.access().AccessCount(r))
		}
		out[i] = r
	}
	utils.SortStableDesc(out, func(r models.URLRecord) int64 { return *r.AccessCount })
	return utils.TopN(out, p.limit())
}

// Project computes all three views.
func (p Projector) Project(records []models.URLRecord) Rankings {
	return Rankings{
		ByNewest:    p.ByNewest(records),
		ByPopular:   p.ByPopular(records),
		ByDownloads: p.ByDownloads(records),
	}
}

func (p Projector) limit() int {
	if p.Limit <= 0 {
		return DefaultLimit
	}
	return p.Limit
}

func (p Projector) access() AccessSource {
	if p.Access == nil {
		return AccessFunc(func(models.URLRecord) int64 { return 0 })
	}
	return p.Access
}

func clone(records []models.URLRecord) []models.URLRecord {
	out := make([]models.URLRecord, len(records))
	copy(out, records)
	return out
}
