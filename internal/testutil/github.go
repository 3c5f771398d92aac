package testutil

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/MrSnakeDoc/linkvault/internal/config"
	"github.com/MrSnakeDoc/linkvault/internal/utils"
)

const (
	FakeOwner = "acme"
	FakeRepo  = "links"
	FakePath  = "data/urls.json"
	FakeToken = "ghp_testcredential1234"
)

// FakeGitHub serves the slice of the GitHub contents and raw APIs the store
// uses, for a single file. Writes are conditioned on the blob SHA like the
// real API: a stale sha gets 409, a missing sha on an existing file 422.
type FakeGitHub struct {
	Server *httptest.Server

	mu      sync.Mutex
	content []byte
	sha     string
	exists  bool

	// RawBranch is the only branch the raw endpoint serves the file on.
	RawBranch string
	// Large makes the contents API answer with encoding "none" and a download_url.
	Large bool
	// BeforePut runs inside a PUT before the sha check; use it to simulate
	// a concurrent writer.
	BeforePut func(f *FakeGitHub)

	failures []*failure

	Requests []string
	Puts     []string
	AuthSeen []string
	RawReads int
}

// NewFakeGitHub starts a TLS server with no file present.
func NewFakeGitHub(t *testing.T) *FakeGitHub {
	t.Helper()
	f := &FakeGitHub{RawBranch: "main"}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /repos/{owner}/{repo}/contents/{path...}", f.handleGet)
	mux.HandleFunc("PUT /repos/{owner}/{repo}/contents/{path...}", f.handlePut)
	mux.HandleFunc("GET /raw/{owner}/{repo}/{branch}/{path...}", f.handleRaw)
	mux.HandleFunc("GET /download/{path...}", f.handleDownload)

	f.Server = httptest.NewTLSServer(f.record(mux))
	t.Cleanup(f.Server.Close)
	return f
}

// Config points a configuration at the fake, with every write variable set.
func (f *FakeGitHub) Config(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.APIBaseURL = f.Server.URL
	cfg.RawBaseURL = f.Server.URL + "/raw"
	cfg.Timeout = 2 * time.Second
	for k, v := range map[string]string{
		config.EnvOwner:    FakeOwner,
		config.EnvRepo:     FakeRepo,
		config.EnvFilePath: FakePath,
		config.EnvToken:    FakeToken,
	} {
		if err := cfg.Set(k, v); err != nil {
			t.Fatalf("config set %s: %v", k, err)
		}
	}
	return cfg
}

// Seed replaces the file content as if committed out of band.
func (f *FakeGitHub) Seed(content string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seedLocked([]byte(content))
}

func (f *FakeGitHub) seedLocked(content []byte) {
	f.content = append([]byte(nil), content...)
	f.sha = utils.GitBlobSHA(f.content)
	f.exists = true
}

// Delete removes the file.
func (f *FakeGitHub) Delete() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.content, f.sha, f.exists = nil, "", false
}

// Content returns the current file bytes.
func (f *FakeGitHub) Content() []byte {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]byte(nil), f.content...)
}

// SHA is the current blob sha, empty when the file does not exist.
func (f *FakeGitHub) SHA() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sha
}

type failure struct {
	method string
	prefix string
	status int
	left   int
}

// Fail answers the next n requests matching method and path prefix with status.
func (f *FakeGitHub) Fail(method, prefix string, status, n int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failures = append(f.failures, &failure{method: method, prefix: prefix, status: status, left: n})
}

func (f *FakeGitHub) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.Requests = append(f.Requests, r.Method+" "+r.URL.Path)
		if auth := r.Header.Get("Authorization"); auth != "" {
			f.AuthSeen = append(f.AuthSeen, auth)
		}
		status := f.takeFailureLocked(r)
		f.mu.Unlock()

		if status != 0 {
			http.Error(w, `{"message":"injected failure"}`, status)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (f *FakeGitHub) takeFailureLocked(r *http.Request) int {
	for _, fl := range f.failures {
		if fl.left > 0 && r.Method == fl.method && strings.HasPrefix(r.URL.Path, fl.prefix) {
			fl.left--
			return fl.status
		}
	}
	return 0
}

func (f *FakeGitHub) handleGet(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if !f.exists || !f.matches(r) {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "Not Found"})
		return
	}

	entry := map[string]any{
		"sha":          f.sha,
		"size":         len(f.content),
		"download_url": f.Server.URL + "/download/" + r.PathValue("path"),
	}
	if f.Large {
		entry["encoding"] = "none"
		entry["content"] = ""
	} else {
		entry["encoding"] = "base64"
		entry["content"] = wrap60(base64.StdEncoding.EncodeToString(f.content))
	}
	writeJSON(w, http.StatusOK, entry)
}

func (f *FakeGitHub) handlePut(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Message string `json:"message"`
		Content string `json:"content"`
		SHA     string `json:"sha"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Problems parsing JSON"})
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if f.BeforePut != nil {
		hook := f.BeforePut
		f.BeforePut = nil
		f.mu.Unlock()
		hook(f)
		f.mu.Lock()
	}

	if !f.matches(r) {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "Not Found"})
		return
	}
	switch {
	case f.exists && body.SHA == "":
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"message": `Invalid request. "sha" wasn't supplied.`})
		return
	case f.exists && body.SHA != f.sha, !f.exists && body.SHA != "":
		writeJSON(w, http.StatusConflict, map[string]string{"message": fmt.Sprintf("%s does not match %s", r.PathValue("path"), body.SHA)})
		return
	}

	data, err := base64.StdEncoding.DecodeString(body.Content)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "content is not valid Base64"})
		return
	}

	status := http.StatusOK
	if !f.exists {
		status = http.StatusCreated
	}
	f.seedLocked(data)
	f.Puts = append(f.Puts, body.Message)

	writeJSON(w, status, map[string]any{
		"content": map[string]any{"sha": f.sha, "path": r.PathValue("path")},
		"commit":  map[string]any{"sha": utils.GitBlobSHA([]byte(body.Message + f.sha)), "message": body.Message},
	})
}

func (f *FakeGitHub) handleRaw(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.RawReads++

	if !f.exists || !f.matches(r) || r.PathValue("branch") != f.RawBranch {
		http.Error(w, "404: Not Found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write(f.content)
}

func (f *FakeGitHub) handleDownload(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.exists || r.PathValue("path") != FakePath {
		http.Error(w, "404: Not Found", http.StatusNotFound)
		return
	}
	_, _ = w.Write(f.content)
}

func (f *FakeGitHub) matches(r *http.Request) bool {
	return r.PathValue("owner") == FakeOwner &&
		r.PathValue("repo") == FakeRepo &&
		r.PathValue("path") == FakePath
}

func wrap60(s string) string {
	var b strings.Builder
	for len(s) > 60 {
		b.WriteString(s[:60])
		b.WriteByte('\n')
		s = s[60:]
	}
	b.WriteString(s)
	b.WriteByte('\n')
	return b.String()
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
