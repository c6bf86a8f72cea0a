package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.ListenAddr)
	assert.Equal(t, 3, cfg.Interview.RapportExchanges)
	assert.Equal(t, 5, cfg.Interview.QuestionQuota)
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	body := `{
		"listen_addr": ":9090",
		"api_key": "file-key",
		"interview": {"rapport_exchanges": 2, "question_quota": 4}
	}`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.ListenAddr)
	assert.Equal(t, "file-key", cfg.APIKey)
	assert.Equal(t, 2, cfg.Interview.RapportExchanges)
	assert.Equal(t, 4, cfg.Interview.QuestionQuota)
}

func TestEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"api_key": "file-key"}`), 0o644))

	t.Setenv(EnvAPIKey, "env-key")
	t.Setenv(EnvListenAddr, ":7070")
	t.Setenv(EnvSearch, "true")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "env-key", cfg.APIKey)
	assert.Equal(t, ":7070", cfg.ListenAddr)
	assert.True(t, cfg.SearchEnabled)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	require.Error(t, err)
}

func TestValidateRequiresAPIKey(t *testing.T) {
	cfg := Default()
	require.Error(t, cfg.Validate())

	cfg.APIKey = "key"
	assert.NoError(t, cfg.Validate())
}
