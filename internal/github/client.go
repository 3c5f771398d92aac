// Package github treats a single JSON file in a GitHub repository as the
// URL store: an unauthenticated raw read for public traffic, and a
// token-carrying contents API read/write pair for mutations.
package github

import (
	"strings"
	"time"

	"github.com/MrSnakeDoc/linkvault/internal/config"
	"github.com/MrSnakeDoc/linkvault/internal/service"
)

// PathSpec locates the store file.
type PathSpec struct {
	Owner    string
	Repo     string
	Path     string
	Branches []string
}

// SpecFromConfig builds the PathSpec the configuration points at.
func SpecFromConfig(cfg *config.Config) PathSpec {
	branches := make([]string, len(cfg.Branches))
	copy(branches, cfg.Branches)
	return PathSpec{
		Owner:    cfg.Owner,
		Repo:     cfg.Repo,
		Path:     cfg.FilePath,
		Branches: branches,
	}
}

func (p PathSpec) String() string {
	return p.Owner + "/" + p.Repo + ":" + p.Path
}

type Client struct {
	http    service.HTTPClient
	apiBase string
	rawBase string
	timeout time.Duration
	now     func() time.Time
}

type Option func(*Client)

// WithHTTPClient replaces the transport, mostly for tests.
func WithHTTPClient(c service.HTTPClient) Option {
	return func(cl *Client) { cl.http = c }
}

// WithClock fixes the time used for cache-busting query values.
func WithClock(now func() time.Time) Option {
	return func(cl *Client) { cl.now = now }
}

func NewClient(cfg *config.Config, opts ...Option) *Client {
	c := &Client{
		http:    service.NewHTTPClient(cfg.Timeout),
		apiBase: strings.TrimRight(cfg.APIBaseURL, "/"),
		rawBase: strings.TrimRight(cfg.RawBaseURL, "/"),
		timeout: cfg.Timeout,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func authHeaders(credential string) map[string]string {
	return map[string]string{
		"Authorization": "token " + credential,
		"Accept":        "application/vnd.github.v3+json",
	}
}
