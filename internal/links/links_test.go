package links

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrSnakeDoc/linkvault/internal/catalog"
	"github.com/MrSnakeDoc/linkvault/internal/config"
	"github.com/MrSnakeDoc/linkvault/internal/errs"
	"github.com/MrSnakeDoc/linkvault/internal/github"
	"github.com/MrSnakeDoc/linkvault/internal/logger"
	"github.com/MrSnakeDoc/linkvault/internal/models"
	"github.com/MrSnakeDoc/linkvault/internal/notifier"
	"github.com/MrSnakeDoc/linkvault/internal/testutil"
)

func TestMain(m *testing.M) {
	logger.UseTestMode()
	os.Exit(m.Run())
}

type env struct {
	fake *testutil.FakeGitHub
	cfg  *config.Config
	svc  *Service
}

func newEnv(t *testing.T, mutate ...func(*config.Config)) env {
	t.Helper()
	fake := testutil.NewFakeGitHub(t)
	cfg := fake.Config(t)
	for _, m := range mutate {
		m(cfg)
	}
	client := github.NewClient(cfg, github.WithHTTPClient(fake.Server.Client()))
	relay := notifier.NewRelay(fake.Server.Client(), cfg.Timeout)
	clock := testutil.FixedClock()
	svc := New(cfg, client, relay,
		WithClock(clock.Now),
		WithProjector(catalog.NewProjector(catalog.NewRandomAccess(1))),
	)
	return env{fake: fake, cfg: cfg, svc: svc}
}

func records(urls ...string) []models.URLRecord {
	out := make([]models.URLRecord, len(urls))
	for i, u := range urls {
		out[i] = models.URLRecord{URL: u}
	}
	return out
}

func stored(t *testing.T, fake *testutil.FakeGitHub) models.Document {
	t.Helper()
	doc, err := models.ParseDocument(fake.Content())
	require.NoError(t, err)
	return doc
}

func TestSave_NewFileThenDuplicate(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	first, err := e.svc.Save(ctx, records("https://x/1"))
	require.NoError(t, err)
	assert.Equal(t, 1, first.Added)
	assert.Equal(t, 0, first.Duplicates)
	assert.True(t, first.IsNewFile)
	assert.True(t, first.Written)
	assert.Equal(t, "Created the file and added 1 URLs", first.Message)

	second, err := e.svc.Save(ctx, records("https://x/1"))
	require.NoError(t, err)
	assert.Equal(t, 0, second.Added)
	assert.Equal(t, 1, second.Duplicates)
	assert.Equal(t, 1, second.Total)
	assert.False(t, second.IsNewFile)

	assert.Equal(t, []string{"Add 1 new Gofile URLs (duplicates: 0)"}, e.fake.Puts)
}

func TestSave_AppendsAndKeepsUnknownFields(t *testing.T) {
	e := newEnv(t)
	e.fake.Seed(`{"urls":[{"url":"https://x/a","note":"keep"}],"owner":"me"}`)

	res, err := e.svc.Save(context.Background(), records("https://x/b", "https://x/a", "https://x/b"))
	require.NoError(t, err)
	assert.Equal(t, 1, res.Added)
	assert.Equal(t, 2, res.Duplicates)
	assert.Equal(t, 2, res.Total)
	assert.Equal(t, "Added 1 URLs", res.Message)

	doc := stored(t, e.fake)
	require.Len(t, doc.URLs, 2)
	assert.Equal(t, "https://x/a", doc.URLs[0].URL)
	assert.Equal(t, "https://x/b", doc.URLs[1].URL)
	assert.JSONEq(t, `"keep"`, string(doc.URLs[0].Extra["note"]))
	assert.JSONEq(t, `"me"`, string(doc.Extra["owner"]))
	assert.Equal(t, "2025-01-15T10:30:00.000Z", doc.LastUpdated)
}

func TestSave_MissingConfig(t *testing.T) {
	e := newEnv(t, func(c *config.Config) { c.Token = "" })

	_, err := e.svc.Save(context.Background(), records("https://x/1"))

	coded, ok := errs.As(err)
	require.True(t, ok)
	assert.Equal(t, errs.MissingConfig, coded.Code)
	assert.Contains(t, coded.Error(), config.EnvToken)
	assert.Empty(t, e.fake.Requests)
}

func TestSave_RecordWithoutURL(t *testing.T) {
	e := newEnv(t)

	_, err := e.svc.Save(context.Background(), []models.URLRecord{{URL: "https://x/1"}, {AddedAt: "2025-01-01"}})

	coded, ok := errs.As(err)
	require.True(t, ok)
	assert.Equal(t, errs.RecordNoURL, coded.Code)
	assert.Empty(t, e.fake.Requests)
}

func TestSave_ConcurrentWriterConflicts(t *testing.T) {
	e := newEnv(t)
	e.fake.Seed(`{"urls":[{"url":"https://x/a"}]}`)
	e.fake.BeforePut = func(f *testutil.FakeGitHub) {
		f.Seed(`{"urls":[{"url":"https://x/a"},{"url":"https://x/other"}]}`)
	}

	_, err := e.svc.Save(context.Background(), records("https://x/mine"))

	coded, ok := errs.As(err)
	require.True(t, ok)
	assert.Equal(t, errs.WriteConflict, coded.Code)
	assert.True(t, errors.Is(err, github.ErrConflict))
	assert.Equal(t, http.StatusConflict, coded.Status())

	doc := stored(t, e.fake)
	assert.Len(t, doc.URLs, 2)
	assert.Equal(t, "https://x/other", doc.URLs[1].URL)
}

func TestSave_RemoteFailures(t *testing.T) {
	t.Run("read", func(t *testing.T) {
		e := newEnv(t)
		e.fake.Fail(http.MethodGet, "/repos/", http.StatusForbidden, 1)

		_, err := e.svc.Save(context.Background(), records("https://x/1"))
		coded, ok := errs.As(err)
		require.True(t, ok)
		assert.Equal(t, errs.StoreRead, coded.Code)
		assert.NotContains(t, err.Error(), testutil.FakeToken)
	})

	t.Run("write", func(t *testing.T) {
		e := newEnv(t)
		e.fake.Fail(http.MethodPut, "/repos/", http.StatusInternalServerError, 1)

		_, err := e.svc.Save(context.Background(), records("https://x/1"))
		coded, ok := errs.As(err)
		require.True(t, ok)
		assert.Equal(t, errs.StoreWrite, coded.Code)
	})
}

func TestSave_UndecodableFileStartsFresh(t *testing.T) {
	e := newEnv(t)
	e.fake.Seed(`not json`)

	res, err := e.svc.Save(context.Background(), records("https://x/1"))
	require.NoError(t, err)
	assert.False(t, res.IsNewFile)
	assert.Equal(t, 1, res.Total)
	assert.Len(t, stored(t, e.fake).URLs, 1)
}

func TestSnapshot_RanksValidRecords(t *testing.T) {
	e := newEnv(t, func(c *config.Config) { c.Token = "" })
	e.fake.Seed(`{"urls":[
		{"url":"https://gofile.io/d/old","added_at":"2024-01-01T00:00:00Z","downloads":3},
		{"url":"https://gofile.io/d/new","added_at":"2025-01-01T00:00:00Z","downloads":1}
	]}`)

	snap := e.svc.Snapshot(context.Background())

	assert.NoError(t, snap.Err)
	assert.Equal(t, 2, snap.Total)
	assert.Equal(t, 2, snap.OriginalTotal)
	assert.Zero(t, snap.RemovedCount)
	assert.Equal(t, "https://gofile.io/d/new", snap.Rankings.ByNewest[0].URL)
	assert.Equal(t, "https://gofile.io/d/old", snap.Rankings.ByDownloads[0].URL)
	assert.Len(t, snap.Rankings.ByPopular, 2)
}

func TestSnapshot_CleansUpWithCredential(t *testing.T) {
	e := newEnv(t)
	e.fake.Seed(`{"urls":[{"url":"https://gofile.io/d/ok"},{"url":"https://gofile.io/broken"}],"keep":true}`)

	snap := e.svc.Snapshot(context.Background())

	assert.Equal(t, 1, snap.Total)
	assert.Equal(t, 2, snap.OriginalTotal)
	assert.Equal(t, 1, snap.RemovedCount)
	assert.Equal(t, []string{"Auto-remove 1 deleted URLs"}, e.fake.Puts)

	doc := stored(t, e.fake)
	require.Len(t, doc.URLs, 1)
	require.NotNil(t, doc.RemovedCount)
	assert.Equal(t, 1, *doc.RemovedCount)
	assert.Equal(t, "2025-01-15T10:30:00.000Z", doc.LastUpdated)
	assert.JSONEq(t, `true`, string(doc.Extra["keep"]))
}

func TestSnapshot_NoCleanupWithoutCredential(t *testing.T) {
	e := newEnv(t, func(c *config.Config) { c.Token = "" })
	e.fake.Seed(`{"urls":[{"url":"https://gofile.io/broken"}]}`)

	snap := e.svc.Snapshot(context.Background())

	assert.Equal(t, 0, snap.Total)
	assert.Equal(t, 1, snap.RemovedCount)
	assert.Empty(t, e.fake.Puts)
}

func TestSnapshot_CleanupFailureDoesNotAffectRead(t *testing.T) {
	e := newEnv(t)
	e.fake.Seed(`{"urls":[{"url":"https://gofile.io/d/ok"},{"url":"https://gofile.io/broken"}]}`)
	e.fake.Fail(http.MethodPut, "/repos/", http.StatusInternalServerError, 1)

	snap := e.svc.Snapshot(context.Background())

	assert.NoError(t, snap.Err)
	assert.Equal(t, 1, snap.Total)
	assert.Equal(t, 1, snap.RemovedCount)
	assert.Len(t, stored(t, e.fake).URLs, 2)
}

func TestSnapshot_InvalidJSONDegrades(t *testing.T) {
	e := newEnv(t)
	e.fake.Seed(`{"urls": [`)

	snap := e.svc.Snapshot(context.Background())

	require.Error(t, snap.Err)
	assert.Contains(t, snap.Err.Error(), "JSON parse error")
	assert.Equal(t, catalog.EmptyRankings(), snap.Rankings)
	assert.Zero(t, snap.Total)
}

func TestSnapshot_MissingFile(t *testing.T) {
	e := newEnv(t)

	snap := e.svc.Snapshot(context.Background())

	assert.Equal(t, "File not found", snap.Message)
	assert.NoError(t, snap.Err)
}

func TestPrune_NothingToRemove(t *testing.T) {
	e := newEnv(t)
	e.fake.Seed(`{"urls":[{"url":"https://gofile.io/d/ok"}]}`)

	res, err := e.svc.Prune(context.Background())
	require.NoError(t, err)
	assert.Zero(t, res.Removed)
	assert.Equal(t, 1, res.Kept)
	assert.Empty(t, e.fake.Puts)
}

func TestReport(t *testing.T) {
	sink := testutil.NewSink(t, http.StatusOK)

	t.Run("delivered", func(t *testing.T) {
		cfg := config.Default()
		cfg.WebhookURL = sink.URL()
		svc := New(cfg, nil, notifier.NewRelay(sink.Server.Client(), time.Second))

		require.NoError(t, svc.Report(context.Background(), json.RawMessage(`{"content":"hi"}`)))
		assert.Len(t, sink.Bodies(), 1)
	})

	t.Run("missing webhook", func(t *testing.T) {
		svc := New(config.Default(), nil, notifier.NewRelay(nil, time.Second))

		err := svc.Report(context.Background(), json.RawMessage(`{}`))
		coded, ok := errs.As(err)
		require.True(t, ok)
		assert.Equal(t, errs.MissingWebhook, coded.Code)
		assert.Equal(t, http.StatusInternalServerError, coded.Status())
	})

	t.Run("sink rejects", func(t *testing.T) {
		bad := testutil.NewSink(t, http.StatusTooManyRequests)
		cfg := config.Default()
		cfg.WebhookURL = bad.URL()
		svc := New(cfg, nil, notifier.NewRelay(bad.Server.Client(), time.Second))

		err := svc.Report(context.Background(), json.RawMessage(`{}`))
		coded, ok := errs.As(err)
		require.True(t, ok)
		assert.Equal(t, errs.SinkFailed, coded.Code)
	})
}

func TestRank_IsPure(t *testing.T) {
	e := newEnv(t)
	doc := models.EmptyDocument().WithURLs(records("https://gofile.io/d/a", "https://gofile.io/nope"))

	snap := e.svc.Rank(doc)

	assert.Equal(t, 1, snap.Total)
	assert.Equal(t, 1, snap.RemovedCount)
	assert.Empty(t, e.fake.Requests)
}

func TestNewRecord_StampsMilliseconds(t *testing.T) {
	e := newEnv(t)

	rec := e.svc.NewRecord("https://gofile.io/d/new")

	assert.Equal(t, "https://gofile.io/d/new", rec.URL)
	assert.Equal(t, "2025-01-15T10:30:00.000Z", rec.AddedAt)
}

func TestSave_MistypedFieldsKeepEveryRecord(t *testing.T) {
	e := newEnv(t)
	e.fake.Seed(`{"urls":[
		{"url":"https://gofile.io/d/a1","downloads":"12"},
		{"url":"https://gofile.io/d/a2","added_at":1700000000},
		{"url":"https://gofile.io/d/a3","access_count":2.5}
	]}`)
	ctx := context.Background()

	snap := e.svc.Snapshot(ctx)
	require.NoError(t, snap.Err)
	assert.Equal(t, 3, snap.Total)

	res, err := e.svc.Save(ctx, records("https://gofile.io/d/new"))
	require.NoError(t, err)
	assert.Equal(t, 1, res.Added)
	assert.Equal(t, 4, res.Total)

	doc := stored(t, e.fake)
	require.Len(t, doc.URLs, 4)
	assert.Equal(t, "https://gofile.io/d/a1", doc.URLs[0].URL)
	assert.JSONEq(t, `"12"`, string(doc.URLs[0].Extra["downloads"]))
	assert.JSONEq(t, `1700000000`, string(doc.URLs[1].Extra["added_at"]))
	assert.JSONEq(t, `2.5`, string(doc.URLs[2].Extra["access_count"]))
	assert.Equal(t, "https://gofile.io/d/new", doc.URLs[3].URL)
}

func TestView_NeverWrites(t *testing.T) {
	e := newEnv(t)
	e.fake.Seed(`{"urls":[{"url":"https://gofile.io/d/ok"},{"url":"https://gofile.io/bad"}]}`)

	snap := e.svc.View(context.Background())

	assert.Equal(t, 1, snap.Total)
	assert.Equal(t, 1, snap.RemovedCount)
	assert.Empty(t, e.fake.Puts)
	assert.Len(t, stored(t, e.fake).URLs, 2)
}
