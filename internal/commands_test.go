package internal

import (
	"bytes"
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrSnakeDoc/linkvault/internal/config"
	"github.com/MrSnakeDoc/linkvault/internal/errs"
	"github.com/MrSnakeDoc/linkvault/internal/middleware"
	"github.com/MrSnakeDoc/linkvault/internal/models"
	"github.com/MrSnakeDoc/linkvault/internal/service"
	"github.com/MrSnakeDoc/linkvault/internal/testutil"
)

// cliEnv points the CLI at a fake GitHub through the environment, the way
// a deployment configures it.
func cliEnv(t *testing.T) *testutil.FakeGitHub {
	t.Helper()
	fake := testutil.NewFakeGitHub(t)

	t.Setenv("HOME", t.TempDir())
	t.Setenv(config.EnvOwner, testutil.FakeOwner)
	t.Setenv(config.EnvRepo, testutil.FakeRepo)
	t.Setenv(config.EnvFilePath, testutil.FakePath)
	t.Setenv(config.EnvToken, testutil.FakeToken)
	t.Setenv(config.EnvWebhookURL, "")
	t.Setenv(config.EnvAPIBase, fake.Server.URL)
	t.Setenv(config.EnvRawBase, fake.Server.URL+"/raw")
	t.Setenv(config.EnvMirrorDir, t.TempDir())
	t.Setenv(config.EnvTimeout, "2s")
	t.Setenv(config.EnvBranches, "")
	t.Setenv(config.EnvAddr, "")
	t.Setenv(config.EnvLogLevel, "")
	t.Setenv(config.EnvLogJSON, "")

	orig := middleware.NewHTTPClient
	middleware.NewHTTPClient = func(time.Duration) service.HTTPClient { return fake.Server.Client() }
	t.Cleanup(func() { middleware.NewHTTPClient = orig })

	return fake
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append(args, "--silent"))
	_, err := root.ExecuteC()
	return out.String(), err
}

func TestFlagValidation(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{name: "push without urls or --file", args: []string{"push"}},
		{name: "report without payload", args: []string{"report"}},
		{name: "report with --file and --message", args: []string{"report", "--file", "x.json", "--message", "hi"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cliEnv(t)
			t.Setenv(config.EnvWebhookURL, "https://hooks.example/x")

			_, err := run(t, tt.args...)
			if err == nil {
				t.Fatalf("expected error, got nil")
			}
			if !strings.Contains(err.Error(), "already logged") {
				t.Errorf("expected sentinel error, got: %v", err)
			}
		})
	}
}

func TestVersionFlag(t *testing.T) {
	out, err := run(t, "--version")
	require.NoError(t, err)
	assert.Contains(t, out, "linkvault")
	assert.Contains(t, out, config.Version)
}

func TestPushCmd_MergesIntoStore(t *testing.T) {
	fake := cliEnv(t)
	fake.Seed(`{"urls":[{"url":"https://gofile.io/d/old"}]}`)

	_, err := run(t, "push", "https://gofile.io/d/new", "https://gofile.io/d/old")
	require.NoError(t, err)

	doc, err := models.ParseDocument(fake.Content())
	require.NoError(t, err)
	require.Len(t, doc.URLs, 2)
	assert.Equal(t, "https://gofile.io/d/new", doc.URLs[1].URL)
	assert.NotEmpty(t, doc.URLs[1].AddedAt)
	assert.Equal(t, []string{"Add 1 new Gofile URLs (duplicates: 1)"}, fake.Puts)
}

func TestPushCmd_ReadsListFile(t *testing.T) {
	fake := cliEnv(t)
	path := filepath.Join(t.TempDir(), "batch.txt")
	require.NoError(t, os.WriteFile(path, []byte("# batch\nhttps://gofile.io/d/a\n\nhttps://gofile.io/d/b\n"), 0o600))

	_, err := run(t, "push", "--file", path)
	require.NoError(t, err)

	doc, err := models.ParseDocument(fake.Content())
	require.NoError(t, err)
	require.Len(t, doc.URLs, 2)
	assert.Equal(t, "https://gofile.io/d/b", doc.URLs[1].URL)
}

func TestPushCmd_ReadsJSONFile(t *testing.T) {
	fake := cliEnv(t)
	path := filepath.Join(t.TempDir(), "batch.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"urls":[{"url":"https://gofile.io/d/a","downloads":3}]}`), 0o600))

	_, err := run(t, "push", "-f", path)
	require.NoError(t, err)

	doc, err := models.ParseDocument(fake.Content())
	require.NoError(t, err)
	require.Len(t, doc.URLs, 1)
	assert.Equal(t, 3.0, doc.URLs[0].DownloadCount())
}

func TestPushCmd_RequiresWriteConfig(t *testing.T) {
	fake := cliEnv(t)
	t.Setenv(config.EnvToken, "")

	_, err := run(t, "push", "https://gofile.io/d/a")
	require.Error(t, err)

	coded, ok := errs.As(err)
	require.True(t, ok)
	assert.Equal(t, errs.MissingConfig, coded.Code)
	assert.Contains(t, err.Error(), config.EnvToken)
	assert.Empty(t, fake.Requests)
}

func TestListCmd_JSON(t *testing.T) {
	fake := cliEnv(t)
	fake.Seed(`{"urls":[
		{"url":"https://gofile.io/d/a","added_at":"2025-01-01T00:00:00.000Z","downloads":1},
		{"url":"https://gofile.io/d/b","added_at":"2025-01-02T00:00:00.000Z","downloads":9}
	]}`)

	out, err := run(t, "list", "--view", "downloads", "--json")
	require.NoError(t, err)

	var got []models.URLRecord
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Len(t, got, 2)
	assert.Equal(t, "https://gofile.io/d/b", got[0].URL)
}

func TestListCmd_UnknownView(t *testing.T) {
	cliEnv(t)
	_, err := run(t, "list", "--view", "oldest")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown view")
}

func TestPrune_RemovesInvalid(t *testing.T) {
	fake := cliEnv(t)
	fake.Seed(`{"urls":[{"url":"https://gofile.io/d/ok"},{"url":"https://gofile.io/bad"}]}`)

	_, err := run(t, "prune")
	require.NoError(t, err)

	doc, err := models.ParseDocument(fake.Content())
	require.NoError(t, err)
	require.Len(t, doc.URLs, 1)
	assert.Equal(t, []string{"Auto-remove 1 deleted URLs"}, fake.Puts)
}

func TestPullThenListOffline(t *testing.T) {
	fake := cliEnv(t)
	fake.Seed(`{"urls":[{"url":"https://gofile.io/d/a"},{"url":"https://gofile.io/bad"}]}`)

	_, err := run(t, "pull")
	require.NoError(t, err)

	// Remote changes after the pull are not visible offline.
	fake.Seed(`{"urls":[]}`)
	requests := len(fake.Requests)

	out, err := run(t, "list", "--offline", "--json")
	require.NoError(t, err)
	assert.Len(t, fake.Requests, requests)

	var got []models.URLRecord
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "https://gofile.io/d/a", got[0].URL)
}

func TestListOffline_WithoutMirror(t *testing.T) {
	cliEnv(t)
	_, err := run(t, "list", "--offline")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "linkvault pull")
}

func TestReportCmd_WrapsMessage(t *testing.T) {
	cliEnv(t)
	sink := testutil.NewSink(t, http.StatusNoContent)
	t.Setenv(config.EnvWebhookURL, sink.URL())

	_, err := run(t, "report", "--message", "broken link")
	require.NoError(t, err)

	bodies := sink.Bodies()
	require.Len(t, bodies, 1)
	assert.JSONEq(t, `{"content":"broken link"}`, string(bodies[0]))
}

func TestReportCmd_MissingWebhook(t *testing.T) {
	cliEnv(t)
	_, err := run(t, "report", "--message", "hi")
	require.Error(t, err)

	coded, ok := errs.As(err)
	require.True(t, ok)
	assert.Equal(t, errs.MissingWebhook, coded.Code)
}

func TestConfigCmd_SaveOmitsToken(t *testing.T) {
	cliEnv(t)
	path := filepath.Join(t.TempDir(), "config.yml")

	_, err := run(t, "config", "--save", path)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), testutil.FakeRepo)
	assert.NotContains(t, string(data), testutil.FakeToken)
}
