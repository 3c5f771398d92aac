package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConsoleOutputRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	Configure(Options{Level: "warn", Out: &buf})
	t.Cleanup(UseTestMode)

	Info("hidden %d", 1)
	Warn("shown %d", 2)

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "shown 2")
}

func TestJSONOutputCarriesFields(t *testing.T) {
	var buf bytes.Buffer
	Configure(Options{Level: "debug", JSON: true, Out: &buf})
	t.Cleanup(UseTestMode)

	With("request_id", "abc", "route", "/api/urls").Info("served %d urls", 3)

	line := strings.TrimSpace(buf.String())
	var decoded map[string]any
	require.NoError(t, json.Unmarshal([]byte(line), &decoded))
	assert.Equal(t, "served 3 urls", decoded["msg"])
	assert.Equal(t, "abc", decoded["request_id"])
	assert.Equal(t, "/api/urls", decoded["route"])
	assert.Equal(t, "info", decoded["level"])
}

func TestMessagesWithPercentAreNotReformatted(t *testing.T) {
	var buf bytes.Buffer
	Configure(Options{Level: "info", JSON: true, Out: &buf})
	t.Cleanup(UseTestMode)

	Info("100% done")

	assert.Contains(t, buf.String(), "100% done")
}

func TestSetLevelKeepsOutput(t *testing.T) {
	var buf bytes.Buffer
	Configure(Options{Level: "error", Out: &buf})
	t.Cleanup(UseTestMode)

	SetLevel("debug")
	Debug("now visible")

	assert.Contains(t, buf.String(), "now visible")
}
