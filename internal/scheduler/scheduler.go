// Package scheduler refreshes the local mirror from the remote store.
package scheduler

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/MrSnakeDoc/linkvault/internal/github"
	"github.com/MrSnakeDoc/linkvault/internal/logger"
	"github.com/MrSnakeDoc/linkvault/internal/store"
	"github.com/MrSnakeDoc/linkvault/internal/utils"
)

// Source is the authoritative side of the remote store.
type Source interface {
	ReadAuthoritative(ctx context.Context, spec github.PathSpec, credential string) (github.AuthoritativeRead, error)
}

type Result struct {
	Skipped bool
	Meta    store.Meta
}

// RefreshMirror mirrors the remote file into st.
//   - Skips the rewrite when the remote token equals the mirrored one (unless force).
//   - Persists the gzipped snapshot and meta.json atomically.
func RefreshMirror(ctx context.Context, st store.Store, src Source, spec github.PathSpec, credential string, force bool, now time.Time) (Result, error) {
	now = now.UTC()

	data, meta := st.GetHot()
	present := data != nil

	read, err := src.ReadAuthoritative(ctx, spec, credential)
	if err != nil {
		updateMetaLastChecked(ctx, st, now)
		return Result{}, fmt.Errorf("fetch: %w", err)
	}

	if present && !force && meta.Token == string(read.Token) {
		logger.Debug("mirror: skip, remote still at %s", read.Token.Short())
		meta.LastChecked = now
		if err := st.WriteMeta(ctx, meta); err != nil {
			return Result{}, fmt.Errorf("write meta: %w", err)
		}
		return Result{Skipped: true, Meta: meta}, nil
	}

	if read.Warning != nil {
		logger.Warn("mirror: %v", read.Warning)
	}
	if read.IsNew {
		logger.Warn("mirror: %s does not exist yet, mirroring an empty list", spec)
	}

	return persist(ctx, st, spec, read, now)
}

func persist(ctx context.Context, st store.Store, spec github.PathSpec, read github.AuthoritativeRead, now time.Time) (Result, error) {
	start := time.Now()

	snap, err := store.BuildSnapshot(read.Document)
	if err != nil {
		return Result{}, fmt.Errorf("build snapshot: %w", err)
	}

	logger.Debug("mirror: build took %s", time.Since(start).Truncate(time.Millisecond))

	meta := store.Meta{
		Token:       string(read.Token),
		Source:      spec.String(),
		FetchedAt:   now,
		Count:       snap.Count,
		SizeBytes:   snap.SizeBytes,
		SHA256:      snap.SHA256Hex,
		LastChecked: now,
	}
	if err := st.WriteSnapshot(ctx, bytes.NewReader(snap.Gzip), meta); err != nil {
		return Result{}, fmt.Errorf("write store: %w", err)
	}
	logger.Debug("mirror: wrote snapshot (items=%d, size=%s, token=%s)",
		meta.Count, utils.HumanSize(meta.SizeBytes), read.Token.Short())
	return Result{Meta: meta}, nil
}

func updateMetaLastChecked(ctx context.Context, st store.Store, ts time.Time) {
	m, err := st.ReadMeta(ctx)
	if err != nil {
		return
	}
	m.LastChecked = ts
	_ = st.WriteMeta(ctx, m)
}
