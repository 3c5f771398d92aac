package links

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/MrSnakeDoc/linkvault/internal/catalog"
	"github.com/MrSnakeDoc/linkvault/internal/errs"
	"github.com/MrSnakeDoc/linkvault/internal/github"
	"github.com/MrSnakeDoc/linkvault/internal/logger"
	"github.com/MrSnakeDoc/linkvault/internal/models"
)

type SaveResult struct {
	Message    string
	Added      int
	Duplicates int
	Total      int
	IsNewFile  bool
	// Written is false when nothing new was submitted to an existing file.
	Written bool
	Token   string
}

// Save merges incoming into the store with one read-modify-write cycle.
// A conflicting concurrent write fails the call; nothing is retried.
func (s *Service) Save(ctx context.Context, incoming []models.URLRecord) (SaveResult, error) {
	if missing := s.cfg.MissingForWrite(); len(missing) > 0 {
		return SaveResult{}, errs.New(errs.MissingConfig, strings.Join(missing, ", "))
	}
	for i, r := range incoming {
		if strings.TrimSpace(r.URL) == "" {
			return SaveResult{}, errs.New(errs.RecordNoURL, i)
		}
	}

	auth, err := s.store.ReadAuthoritative(ctx, s.spec, s.cfg.Token)
	if err != nil {
		return SaveResult{}, errs.Wrap(errs.StoreRead, err)
	}
	if auth.Warning != nil {
		logger.Warn("%v", auth.Warning)
	}

	merged := catalog.Merge(auth.Document.URLs, incoming)
	res := SaveResult{
		Added:      merged.Added,
		Duplicates: merged.Duplicates,
		Total:      len(merged.Merged),
		IsNewFile:  auth.IsNew,
		Token:      string(auth.Token),
	}

	if merged.Added == 0 && !auth.IsNew {
		res.Message = "No new URLs to add"
		return res, nil
	}

	doc := auth.Document.WithURLs(merged.Merged)
	doc.LastUpdated = s.isoTime()
	message := fmt.Sprintf("Add %d new Gofile URLs (duplicates: %d)", merged.Added, merged.Duplicates)

	wr, err := s.store.Write(ctx, s.spec, doc, auth.Token, s.cfg.Token, message)
	if err != nil {
		return SaveResult{}, writeError(err)
	}

	res.Written = true
	res.Token = string(wr.Token)
	if auth.IsNew {
		res.Message = fmt.Sprintf("Created the file and added %d URLs", merged.Added)
	} else {
		res.Message = fmt.Sprintf("Added %d URLs", merged.Added)
	}

	logger.Info("%s (duplicates: %d, total: %d, token: %s)", res.Message, res.Duplicates, res.Total, wr.Token.Short())
	return res, nil
}

func writeError(err error) error {
	if errors.Is(err, github.ErrConflict) {
		return errs.Wrap(errs.WriteConflict, err)
	}
	return errs.Wrap(errs.StoreWrite, err)
}

// NewRecord stamps url with the current time, the way the front-end does
// before submitting.
func (s *Service) NewRecord(url string) models.URLRecord {
	return models.URLRecord{URL: url, AddedAt: s.isoTime()}
}
