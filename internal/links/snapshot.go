package links

import (
	"context"
	"fmt"

	"github.com/MrSnakeDoc/linkvault/internal/catalog"
	"github.com/MrSnakeDoc/linkvault/internal/config"
	"github.com/MrSnakeDoc/linkvault/internal/errs"
	"github.com/MrSnakeDoc/linkvault/internal/logger"
	"github.com/MrSnakeDoc/linkvault/internal/models"
)

// Snapshot is the public ranked view of the store.
type Snapshot struct {
	Rankings      catalog.Rankings
	Total         int
	OriginalTotal int
	RemovedCount  int
	// Message or Err explain an empty result caused by a degraded read.
	Message string
	Err     error
}

// View reads the store without credentials and ranks its valid records.
// It never writes.
func (s *Service) View(ctx context.Context) Snapshot {
	read := s.store.ReadPublic(ctx, s.spec)
	if read.Degraded() {
		if read.Err != nil {
			logger.Warn("public read of %s degraded: %v", s.spec, read.Err)
		}
		return Snapshot{Rankings: catalog.EmptyRankings(), Message: read.Message, Err: read.Err}
	}
	return s.Rank(read.Document)
}

// Snapshot is View followed, when invalid records were found and a
// credential is configured, by a cleanup write. The cleanup outcome never
// changes the returned snapshot.
func (s *Service) Snapshot(ctx context.Context) Snapshot {
	snap := s.View(ctx)
	if snap.RemovedCount > 0 && s.cfg.HasToken() {
		if _, err := s.Prune(ctx); err != nil {
			logger.Warn("cleanup of %d invalid URLs failed: %v", snap.RemovedCount, err)
		}
	}
	return snap
}

// Rank filters doc and projects the valid records. It does no I/O.
func (s *Service) Rank(doc models.Document) Snapshot {
	part := s.filter.FilterBatch(doc.URLs)
	return Snapshot{
		Rankings:      s.projector.Project(part.Valid),
		Total:         len(part.Valid),
		OriginalTotal: len(doc.URLs),
		RemovedCount:  len(part.Invalid),
	}
}

// PruneResult reports a cleanup pass.
type PruneResult struct {
	Removed int
	Kept    int
	Token   string
}

// Prune removes invalid records from the authoritative copy of the store.
// It re-filters what it reads rather than trusting an earlier public read,
// which may be stale.
func (s *Service) Prune(ctx context.Context) (PruneResult, error) {
	if !s.cfg.HasToken() {
		return PruneResult{}, errs.New(errs.MissingConfig, config.EnvToken)
	}

	auth, err := s.store.ReadAuthoritative(ctx, s.spec, s.cfg.Token)
	if err != nil {
		return PruneResult{}, errs.Wrap(errs.StoreRead, err)
	}
	if auth.Warning != nil {
		return PruneResult{}, errs.Wrap(errs.StoreRead, auth.Warning)
	}

	part := s.filter.FilterBatch(auth.Document.URLs)
	res := PruneResult{Removed: len(part.Invalid), Kept: len(part.Valid), Token: string(auth.Token)}
	if auth.IsNew || len(part.Invalid) == 0 {
		return res, nil
	}

	removed := len(part.Invalid)
	doc := auth.Document.WithURLs(part.Valid)
	doc.LastUpdated = s.isoTime()
	doc.RemovedCount = &removed

	wr, err := s.store.Write(ctx, s.spec, doc, auth.Token, s.cfg.Token, fmt.Sprintf("Auto-remove %d deleted URLs", removed))
	if err != nil {
		return PruneResult{}, writeError(err)
	}
	res.Token = string(wr.Token)

	logger.Info("removed %d invalid URLs from %s", removed, s.spec)
	return res, nil
}
