// Package links runs the store workflows shared by the HTTP handlers and
// the CLI: the ranked read with its best-effort cleanup, the merging
// write, and report relaying.
package links

import (
	"context"
	"encoding/json"
	"time"

	"github.com/MrSnakeDoc/linkvault/internal/catalog"
	"github.com/MrSnakeDoc/linkvault/internal/config"
	"github.com/MrSnakeDoc/linkvault/internal/github"
	"github.com/MrSnakeDoc/linkvault/internal/models"
)

// RemoteStore is the GitHub-backed document store.
type RemoteStore interface {
	ReadPublic(ctx context.Context, spec github.PathSpec) github.PublicRead
	ReadAuthoritative(ctx context.Context, spec github.PathSpec, credential string) (github.AuthoritativeRead, error)
	Write(ctx context.Context, spec github.PathSpec, doc models.Document, token models.Token, credential, message string) (github.WriteResult, error)
}

// Relayer forwards report payloads.
type Relayer interface {
	Relay(ctx context.Context, payload json.RawMessage, sinkURL string) error
}

type Service struct {
	cfg       *config.Config
	store     RemoteStore
	relay     Relayer
	spec      github.PathSpec
	filter    catalog.Filter
	projector catalog.Projector
	now       func() time.Time
}

type Option func(*Service)

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func WithProjector(p catalog.Projector) Option {
	return func(s *Service) { s.projector = p }
}

func WithFilter(f catalog.Filter) Option {
	return func(s *Service) { s.filter = f }
}

func New(cfg *config.Config, store RemoteStore, relay Relayer, opts ...Option) *Service {
	s := &Service{
		cfg:       cfg,
		store:     store,
		relay:     relay,
		spec:      github.SpecFromConfig(cfg),
		filter:    catalog.DefaultFilter(),
		projector: catalog.NewProjector(nil),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Config is the configuration the service was built with.
func (s *Service) Config() *config.Config { return s.cfg }

// Remote is the underlying document store.
func (s *Service) Remote() RemoteStore { return s.store }

// Spec locates the store file.
func (s *Service) Spec() github.PathSpec { return s.spec }

// isoTime matches the millisecond UTC timestamps already present in stored files.
func (s *Service) isoTime() string {
	return s.now().UTC().Format("2006-01-02T15:04:05.000Z")
}
