package pages

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/your-org/bdd-html-report/pkg/models"
)

func TestBuild(t *testing.T) {
	features := []*models.Feature{
		{
			Name:   "Login",
			Status: models.StatusPassed,
			Elements: []*models.Scenario{
				{Name: "Valid credentials", Status: models.StatusPassed},
				{Name: "Wrong password", Status: models.StatusFailed},
			},
		},
		{
			Name:   "Health",
			Status: models.StatusUntested,
			Elements: []*models.Scenario{
				{Name: "never ran"},
			},
		},
	}
	totals := models.Totals{Scenarios: 2, Passed: 1, Failed: 1, Duration: 3.5}

	set := Build(features, totals)

	assert.Equal(t, totals, set.Index.Totals)
	assert.Len(t, set.Index.Features, 2)
	assert.Equal(t, "", set.Index.DirDepth)
	assert.Equal(t, totals, set.Flat.Totals)

	require.Len(t, set.Features, 2)
	assert.Equal(t, "Login", set.Features[0].Title)

	// untested features get a page but no scenario pages
	require.Len(t, set.Scenarios, 2)
	for _, page := range set.Scenarios {
		assert.Equal(t, "Login", page.Feature.Name)
		assert.Equal(t, "../../", page.DirDepth)
	}
}

func TestBuild_Empty(t *testing.T) {
	set := Build(nil, models.Totals{})
	assert.Empty(t, set.Features)
	assert.Empty(t, set.Scenarios)
	assert.Equal(t, "Test Report", set.Index.Title)
}
