package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func isolate(t *testing.T) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	for _, k := range []string{
		EnvOwner, EnvRepo, EnvFilePath, EnvToken, EnvWebhookURL,
		EnvAddr, EnvTimeout, EnvBranches, EnvAPIBase, EnvRawBase,
		EnvMirrorDir, EnvLogLevel, EnvLogJSON,
	} {
		t.Setenv(k, "")
	}
}

func TestLoad_DefaultsForReads(t *testing.T) {
	isolate(t)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "ROBA12551", cfg.Owner)
	assert.Equal(t, "twitter-trends-app", cfg.Repo)
	assert.Equal(t, "gofile-urls.json", cfg.FilePath)
	assert.Equal(t, []string{"main", "master"}, cfg.Branches)
	assert.Equal(t, 10*time.Second, cfg.Timeout)
	assert.False(t, cfg.HasToken())
	assert.Equal(t, WriteVariables, cfg.MissingForWrite())
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	isolate(t)
	t.Setenv(EnvOwner, "octo")
	t.Setenv(EnvRepo, "links")
	t.Setenv(EnvFilePath, "data/urls.json")
	t.Setenv(EnvToken, "ghp_secret_value")
	t.Setenv(EnvBranches, "trunk, main")
	t.Setenv(EnvTimeout, "3s")
	t.Setenv(EnvLogJSON, "true")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "octo", cfg.Owner)
	assert.Equal(t, "data/urls.json", cfg.FilePath)
	assert.Equal(t, []string{"trunk", "main"}, cfg.Branches)
	assert.Equal(t, 3*time.Second, cfg.Timeout)
	assert.True(t, cfg.LogJSON)
	assert.Empty(t, cfg.MissingForWrite())
	assert.Equal(t, "ghp_****", cfg.MaskedToken())
}

func TestLoad_InvalidTimeout(t *testing.T) {
	isolate(t)
	t.Setenv(EnvTimeout, "soon")

	_, err := Load("")
	require.Error(t, err)

	t.Setenv(EnvTimeout, "-1s")
	_, err = Load("")
	assert.True(t, errors.Is(err, ErrInvalidTimeout))
}

func TestLoad_FileThenEnv(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "config.yml")
	content := "owner: file-owner\nrepo: file-repo\nfile_path: f.json\ntimeout: 4s\nbranches: [dev]\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	t.Setenv(EnvRepo, "env-repo")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "file-owner", cfg.Owner)
	assert.Equal(t, "env-repo", cfg.Repo)
	assert.Equal(t, "f.json", cfg.FilePath)
	assert.Equal(t, 4*time.Second, cfg.Timeout)
	assert.Equal(t, []string{"dev"}, cfg.Branches)
	assert.Equal(t, []string{EnvToken}, cfg.MissingForWrite())
}

func TestLoad_ExplicitFileMustExist(t *testing.T) {
	isolate(t)

	_, err := Load(filepath.Join(t.TempDir(), "nope.yml"))
	assert.True(t, errors.Is(err, ErrConfigNotFound))
}

func TestEnvStatus(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Set(EnvOwner, "octo"))
	require.NoError(t, cfg.Set(EnvToken, "tok"))

	status := cfg.EnvStatus()
	assert.Equal(t, "Set", status[EnvOwner])
	assert.Equal(t, "Set", status[EnvToken])
	assert.Equal(t, "NOT SET", status[EnvRepo])
	assert.Equal(t, "NOT SET", status[EnvFilePath])

	assert.Error(t, cfg.Set("NOPE", "x"))
}

func TestSave_OmitsToken(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Set(EnvToken, "ghp_secret_value"))
	path := filepath.Join(t.TempDir(), "nested", "config.yml")

	require.NoError(t, cfg.Save(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "ghp_secret_value")
	assert.Contains(t, string(data), "owner: ROBA12551")
}

func TestMirrorPath(t *testing.T) {
	isolate(t)
	home := os.Getenv("HOME")

	cfg := Default()
	p, err := cfg.MirrorPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".local", "state", "linkvault"), p)

	cfg.MirrorDir = "/tmp/mirror"
	p, err = cfg.MirrorPath()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/mirror", p)
}
