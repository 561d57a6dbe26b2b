package generator

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/your-org/bdd-html-report/pkg/config"
	"github.com/your-org/bdd-html-report/pkg/storage"
)

const loginFragment = `[
	{
		"name": "Login",
		"status": "passed",
		"tags": ["smoke"],
		"elements": [
			{
				"name": "Valid credentials",
				"status": "passed",
				"steps": [
					{
						"name": "open login page",
						"result": {"status": "passed", "timestamp": "2024-05-06T10:00:00", "duration": 1.0}
					},
					{
						"name": "submit form",
						"result": {"status": "passed", "timestamp": "2024-05-06T10:00:01", "duration": 2.0}
					}
				]
			}
		]
	}
]`

const logoutFragment = `[
	{
		"name": "Logout",
		"status": "failed",
		"elements": [
			{
				"name": "Expired session",
				"status": "failed",
				"steps": [
					{
						"name": "click logout",
						"result": {
							"status": "failed",
							"timestamp": "2024-05-06T10:05:00",
							"duration": 0.5,
							"error_message": ["session already gone"]
						}
					}
				]
			}
		]
	}
]`

func fixtureResultsDir(t *testing.T) string {
	t.Helper()
	resultsDir := t.TempDir()

	require.NoError(t, os.WriteFile(filepath.Join(resultsDir, "login-run.json"), []byte(loginFragment), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(resultsDir, "logout-run.json"), []byte(logoutFragment), 0644))

	scenarioDir := filepath.Join(resultsDir, "Login", "Valid credentials")
	require.NoError(t, os.MkdirAll(filepath.Join(scenarioDir, "logs"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(scenarioDir, "1 - submit form.png"), []byte("png"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(scenarioDir, "logs", "browser.console.log"), []byte("hello"), 0644))

	return resultsDir
}

func fixtureConfig(resultsDir, outputDir string) *config.Config {
	cfg := config.NewConfig()
	cfg.ResultsDir = resultsDir
	cfg.OutputDir = outputDir
	cfg.HistoryEnabled = false
	return cfg
}

func TestGenerate_OutputLayout(t *testing.T) {
	resultsDir := fixtureResultsDir(t)
	outputDir := filepath.Join(t.TempDir(), "report")

	gen := New(fixtureConfig(resultsDir, outputDir), nil, nil)
	require.NoError(t, gen.Generate())

	for _, path := range []string{
		"index.html",
		"flat.html",
		"Login.html",
		"Logout.html",
		filepath.Join("Login", "Valid credentials", "index.html"),
		filepath.Join("Logout", "Expired session", "index.html"),
		filepath.Join("Login", "Valid credentials", "1 - submit form.png"),
		filepath.Join("Login", "Valid credentials", "logs", "browser.console.log"),
		filepath.Join("Login", "Valid credentials", "logs", "browser.console.log.html"),
		filepath.Join("external", "report.css"),
	} {
		_, err := os.Stat(filepath.Join(outputDir, path))
		assert.NoError(t, err, "missing %s", path)
	}

	// no staging directory left behind
	entries, err := os.ReadDir(filepath.Dir(outputDir))
	require.NoError(t, err)
	require.Len(t, entries, 1)

	index, err := os.ReadFile(filepath.Join(outputDir, "index.html"))
	require.NoError(t, err)
	assert.Contains(t, string(index), "Login")
	assert.Contains(t, string(index), "Logout")
	assert.Contains(t, string(index), "3.5s")

	scenario, err := os.ReadFile(filepath.Join(outputDir, "Login", "Valid credentials", "index.html"))
	require.NoError(t, err)
	assert.Contains(t, string(scenario), "1%20-%20submit%20form.png")
}

func TestGenerate_OnlyFailures(t *testing.T) {
	resultsDir := fixtureResultsDir(t)
	outputDir := filepath.Join(t.TempDir(), "report")

	cfg := fixtureConfig(resultsDir, outputDir)
	cfg.OnlyFailures = true

	gen := New(cfg, nil, nil)
	require.NoError(t, gen.Generate())

	_, err := os.Stat(filepath.Join(outputDir, "Logout.html"))
	assert.NoError(t, err)

	// dropped features contribute nothing: no page, no artifact tree
	_, err = os.Stat(filepath.Join(outputDir, "Login.html"))
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(filepath.Join(outputDir, "Login"))
	assert.True(t, os.IsNotExist(err))

	index, err := os.ReadFile(filepath.Join(outputDir, "index.html"))
	require.NoError(t, err)
	assert.NotContains(t, string(index), "Login.html")
	assert.Contains(t, string(index), "500ms")
}

func TestGenerate_Idempotent(t *testing.T) {
	resultsDir := fixtureResultsDir(t)
	outputDir := filepath.Join(t.TempDir(), "report")

	gen := New(fixtureConfig(resultsDir, outputDir), nil, nil)

	require.NoError(t, gen.Generate())
	first, err := os.ReadFile(filepath.Join(outputDir, "index.html"))
	require.NoError(t, err)

	require.NoError(t, gen.Generate())
	second, err := os.ReadFile(filepath.Join(outputDir, "index.html"))
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestGenerate_HistoryStoredNextToReport(t *testing.T) {
	resultsDir := fixtureResultsDir(t)
	workDir := t.TempDir()
	t.Chdir(workDir)

	// relative output path: the history database must still land next to
	// the published report, not relative to some other working directory
	cfg := fixtureConfig(resultsDir, "report")
	cfg.HistoryEnabled = true

	gen := New(cfg, nil, nil)
	require.NoError(t, gen.Generate())

	db, err := storage.Open(workDir)
	require.NoError(t, err)
	defer db.Close()

	runs, err := db.RecentRuns(1)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, 2, runs[0].Scenarios)
	assert.Equal(t, 1, runs[0].Failed)
}

func TestGenerate_RejectsUnsafeFeatureNames(t *testing.T) {
	resultsDir := t.TempDir()
	fragment := `[{"name": "../escape", "status": "passed"}]`
	require.NoError(t, os.WriteFile(filepath.Join(resultsDir, "bad-run.json"), []byte(fragment), 0644))

	outputDir := filepath.Join(t.TempDir(), "report")
	gen := New(fixtureConfig(resultsDir, outputDir), nil, nil)

	err := gen.Generate()
	require.Error(t, err)

	// nothing was published
	_, statErr := os.Stat(outputDir)
	assert.True(t, os.IsNotExist(statErr))
}

func TestGenerate_MissingResultsDirIsEmptyReport(t *testing.T) {
	outputDir := filepath.Join(t.TempDir(), "report")
	gen := New(fixtureConfig(filepath.Join(t.TempDir(), "missing"), outputDir), nil, nil)

	require.NoError(t, gen.Generate())

	_, err := os.Stat(filepath.Join(outputDir, "index.html"))
	assert.NoError(t, err)
}
