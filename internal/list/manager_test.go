package list

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrSnakeDoc/linkvault/internal/catalog"
	"github.com/MrSnakeDoc/linkvault/internal/logger"
	"github.com/MrSnakeDoc/linkvault/internal/models"
	"github.com/MrSnakeDoc/linkvault/internal/utils"
)

func sampleRankings() catalog.Rankings {
	d := 12.0
	n := int64(40)
	recs := []models.URLRecord{
		{URL: "https://gofile.io/d/first", AddedAt: "2025-02-01T08:00:00Z", Downloads: &d, AccessCount: &n},
		{URL: "https://gofile.io/d/second"},
	}
	return catalog.Rankings{ByNewest: recs, ByPopular: recs[1:], ByDownloads: recs[:1]}
}

func TestNew_RejectsUnknownView(t *testing.T) {
	_, err := New("oldest", 10, false, nil)
	assert.Error(t, err)
}

func TestPick(t *testing.T) {
	r := sampleRankings()

	l, err := New("popular", 0, false, nil)
	require.NoError(t, err)
	assert.Equal(t, "https://gofile.io/d/second", l.Pick(r)[0].URL)

	l, err = New("newest", 1, false, nil)
	require.NoError(t, err)
	assert.Len(t, l.Pick(r), 1)
}

func TestExecute_JSON(t *testing.T) {
	var buf bytes.Buffer
	l, err := New("downloads", 0, true, &buf)
	require.NoError(t, err)

	require.NoError(t, l.Execute(sampleRankings()))

	var out []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	require.Len(t, out, 1)
	assert.Equal(t, "https://gofile.io/d/first", out[0]["url"])
}

func TestExecute_Table(t *testing.T) {
	var buf bytes.Buffer
	logger.Configure(logger.Options{Level: "info", Out: &buf})
	t.Cleanup(logger.UseTestMode)

	l, err := New("newest", 0, false, nil)
	require.NoError(t, err)
	require.NoError(t, l.Execute(sampleRankings()))

	out := utils.StripANSI(buf.String())
	assert.Contains(t, out, "https://gofile.io/d/first")
	assert.Contains(t, out, "2025-02-01 08:00")
	assert.Contains(t, out, "40")
}
