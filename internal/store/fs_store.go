// Package store keeps a local mirror of the remote URL file so the CLI can
// list rankings offline.
package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/MrSnakeDoc/linkvault/internal/logger"
	"github.com/MrSnakeDoc/linkvault/internal/models"
	"github.com/MrSnakeDoc/linkvault/internal/utils"
)

// ErrNoSnapshot means nothing has been mirrored yet.
var ErrNoSnapshot = errors.New("no local snapshot, run `linkvault pull` first")

type Store interface {
	// GetHot returns the gzipped snapshot from RAM (nil if not loaded yet).
	GetHot() (data []byte, meta Meta)

	// WriteSnapshot writes the gzipped snapshot atomically and updates meta + hot cache.
	WriteSnapshot(ctx context.Context, r io.Reader, meta Meta) error

	ReadMeta(ctx context.Context) (Meta, error)
	WriteMeta(ctx context.Context, m Meta) error

	// Load decodes the snapshot into a document.
	Load(ctx context.Context) (models.Document, Meta, error)
}

type FS struct {
	dir      string
	dataPath string
	metaPath string
	mu       sync.RWMutex
	hotData  []byte
	hotMeta  Meta
}

func NewFS(dataDir string) (*FS, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("mkdir %s: %w", dataDir, err)
	}
	s := &FS{
		dir:      dataDir,
		dataPath: filepath.Join(dataDir, "urls.json.gz"),
		metaPath: filepath.Join(dataDir, "meta.json"),
	}
	if err := s.loadHotFromDisk(); err != nil {
		logger.Debug("mirror: ignoring unreadable snapshot in %s: %v", dataDir, err)
	}
	return s, nil
}

func (s *FS) GetHot() ([]byte, Meta) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.hotData == nil {
		return nil, Meta{}
	}
	return append([]byte(nil), s.hotData...), s.hotMeta
}

// WriteSnapshot persists r as-is; r must be the complete gzipped payload.
func (s *FS) WriteSnapshot(ctx context.Context, r io.Reader, meta Meta) error {
	logger.Debug("mirror: writing %s (size=%s)", s.dataPath, utils.HumanSize(meta.SizeBytes))

	if err := utils.WriteFileAtomic(s.dataPath+".tmp", s.dataPath, r); err != nil {
		return err
	}
	if err := utils.WriteJSONAtomic(s.metaPath, meta); err != nil {
		return err
	}
	return s.loadHotFromDisk()
}

func (s *FS) ReadMeta(ctx context.Context) (met Meta, err error) {
	f, err := os.Open(s.metaPath)
	if err != nil {
		return Meta{}, err
	}

	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close failed: %w", cerr)
		}
	}()

	var m Meta
	if err := json.NewDecoder(f).Decode(&m); err != nil {
		return Meta{}, err
	}
	return m, nil
}

func (s *FS) WriteMeta(ctx context.Context, m Meta) error {
	if err := utils.WriteJSONAtomic(s.metaPath, m); err != nil {
		return err
	}
	s.mu.Lock()
	if s.hotData != nil {
		s.hotMeta = m
	}
	s.mu.Unlock()
	return nil
}

func (s *FS) Load(ctx context.Context) (doc models.Document, meta Meta, err error) {
	data, meta := s.GetHot()
	if data == nil {
		if err := s.loadHotFromDisk(); err != nil {
			return models.Document{}, Meta{}, err
		}
		if data, meta = s.GetHot(); data == nil {
			return models.Document{}, Meta{}, ErrNoSnapshot
		}
	}

	rc, err := utils.MaybeGunzip(io.NopCloser(bytes.NewReader(data)))
	if err != nil {
		return models.Document{}, Meta{}, fmt.Errorf("gunzip: %w", err)
	}
	defer utils.Try(rc.Close)

	raw, err := io.ReadAll(rc)
	if err != nil {
		return models.Document{}, Meta{}, fmt.Errorf("read snapshot: %w", err)
	}
	doc, err = models.ParseDocument(raw)
	if err != nil {
		return models.Document{}, Meta{}, fmt.Errorf("decode snapshot: %w", err)
	}
	return doc, meta, nil
}

// --- internals ---

func (s *FS) loadHotFromDisk() error {
	data, err := os.ReadFile(s.dataPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	m, err := s.ReadMeta(context.Background())
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.hotData = data
	s.hotMeta = m
	s.mu.Unlock()
	return nil
}

// ClearHotCacheForTest forces the next Load to go back to disk.
func (s *FS) ClearHotCacheForTest() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hotData = nil
	s.hotMeta = Meta{}
}
