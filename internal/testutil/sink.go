package testutil

import (
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

// Sink is a webhook endpoint that records every delivery.
type Sink struct {
	Server *httptest.Server

	mu           sync.Mutex
	status       int
	bodies       [][]byte
	contentTypes []string
}

// NewSink starts a TLS webhook answering with status.
func NewSink(t *testing.T, status int) *Sink {
	t.Helper()
	s := &Sink{status: status}
	s.Server = httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		s.mu.Lock()
		s.bodies = append(s.bodies, body)
		s.contentTypes = append(s.contentTypes, r.Header.Get("Content-Type"))
		code := s.status
		s.mu.Unlock()
		w.WriteHeader(code)
	}))
	t.Cleanup(s.Server.Close)
	return s
}

func (s *Sink) URL() string { return s.Server.URL + "/api/webhooks/1/abc" }

func (s *Sink) Bodies() [][]byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([][]byte(nil), s.bodies...)
}

func (s *Sink) ContentTypes() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.contentTypes...)
}
