package loader

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/your-org/bdd-html-report/pkg/models"
)

func writeFragment(t *testing.T, dir, name, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0644))
}

func TestLoad_MergesFragmentsInFilenameOrder(t *testing.T) {
	dir := t.TempDir()
	writeFragment(t, dir, "worker-2-run.json", `[{"name": "Beta", "status": "passed"}]`)
	writeFragment(t, dir, "worker-1-run.json", `[{"name": "Alpha", "status": "failed"}, {"name": "Gamma", "status": "passed"}]`)
	// does not match the fragment naming convention
	writeFragment(t, dir, "notes.json", `[{"name": "Ignored"}]`)

	features, err := New(dir, nil).Load()
	require.NoError(t, err)

	require.Len(t, features, 3)
	assert.Equal(t, "Alpha", features[0].Name)
	assert.Equal(t, "Gamma", features[1].Name)
	assert.Equal(t, "Beta", features[2].Name)
}

func TestLoad_SkipsMalformedFragments(t *testing.T) {
	dir := t.TempDir()
	writeFragment(t, dir, "a-run.json", `this is not json`)
	writeFragment(t, dir, "b-run.json", `[{"name": "Kept", "status": "passed"}]`)

	features, err := New(dir, nil).Load()
	require.NoError(t, err)

	require.Len(t, features, 1)
	assert.Equal(t, "Kept", features[0].Name)
}

func TestLoad_EmptyDirectory(t *testing.T) {
	features, err := New(t.TempDir(), nil).Load()
	require.NoError(t, err)
	assert.Empty(t, features)
}

func TestLoad_DecodesFullTree(t *testing.T) {
	dir := t.TempDir()
	writeFragment(t, dir, "full-run.json", `[
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
							"name": "submit form",
							"result": {
								"status": "passed",
								"timestamp": "2024-05-06T10:00:00",
								"duration": 1.25
							}
						}
					]
				}
			]
		}
	]`)

	features, err := New(dir, nil).Load()
	require.NoError(t, err)
	require.Len(t, features, 1)

	feature := features[0]
	assert.Equal(t, []string{"smoke"}, feature.Tags)
	require.Len(t, feature.Elements, 1)
	require.Len(t, feature.Elements[0].Steps, 1)

	result := feature.Elements[0].Steps[0].Result
	require.NotNil(t, result)
	assert.Equal(t, models.StatusPassed, result.Status)
	assert.Equal(t, "2024-05-06T10:00:00", result.RawTimestamp)
	assert.Equal(t, 1.25, result.Duration)
}

func TestLoad_ProgressMarks(t *testing.T) {
	dir := t.TempDir()
	writeFragment(t, dir, "a-run.json", `[]`)
	writeFragment(t, dir, "b-run.json", `[]`)
	writeFragment(t, dir, "broken-run.json", `{{{`)

	var buf bytes.Buffer
	_, err := New(dir, &buf).Load()
	require.NoError(t, err)

	// one mark per successfully parsed fragment
	assert.Equal(t, "rr", buf.String())
}

func TestOnlyFailed(t *testing.T) {
	features := []*models.Feature{
		{Name: "A", Status: models.StatusPassed},
		{Name: "B", Status: models.StatusFailed},
		{Name: "C", Status: models.StatusSkipped},
		{Name: "D", Status: models.StatusFailed},
	}

	kept := OnlyFailed(features)
	require.Len(t, kept, 2)
	assert.Equal(t, "B", kept[0].Name)
	assert.Equal(t, "D", kept[1].Name)
}
