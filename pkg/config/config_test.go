package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfig_Defaults(t *testing.T) {
	cfg := NewConfig()

	assert.Equal(t, "results", cfg.ResultsDir)
	assert.Equal(t, "report", cfg.OutputDir)
	assert.False(t, cfg.OnlyFailures)
	assert.False(t, cfg.ShowProgress)
	assert.True(t, cfg.HistoryEnabled)
	assert.Equal(t, 4, cfg.MaxConcurrentFeatures)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("BDD_REPORT_RESULTS_DIR", "/tmp/results")
	t.Setenv("BDD_REPORT_ONLY_FAILURES", "true")
	t.Setenv("BDD_REPORT_SHOW_PROGRESS", "true")
	t.Setenv("BDD_REPORT_LOG_LEVEL", "debug")

	cfg := NewConfig()
	cfg.LoadFromEnv()

	assert.Equal(t, "/tmp/results", cfg.ResultsDir)
	assert.True(t, cfg.OnlyFailures)
	assert.True(t, cfg.ShowProgress)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "report-config.yml")
	body := "resultsdir: from-file\nonlyfailures: true\nmaxconcurrentfeatures: 8\n"
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))

	cfg := NewConfig()
	require.NoError(t, cfg.LoadFromFile(path))

	assert.Equal(t, "from-file", cfg.ResultsDir)
	assert.True(t, cfg.OnlyFailures)
	assert.Equal(t, 8, cfg.MaxConcurrentFeatures)
}

func TestLoadFromFile_Missing(t *testing.T) {
	cfg := NewConfig()
	assert.Error(t, cfg.LoadFromFile(filepath.Join(t.TempDir(), "nope.yml")))
}

func TestValidate(t *testing.T) {
	cfg := NewConfig()
	assert.NoError(t, cfg.Validate())

	cfg.ResultsDir = ""
	assert.Error(t, cfg.Validate())

	cfg = NewConfig()
	cfg.OutputDir = ""
	assert.Error(t, cfg.Validate())

	cfg = NewConfig()
	cfg.MaxConcurrentFeatures = 0
	assert.Error(t, cfg.Validate())
}
