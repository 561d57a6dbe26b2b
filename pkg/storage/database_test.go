package storage

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/your-org/bdd-html-report/pkg/models"
)

func openTestDB(t *testing.T) *Database {
	t.Helper()
	db, err := Open(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func sampleRun(generatedAt time.Time) *RunRecord {
	return &RunRecord{
		ID:          uuid.New().String(),
		GeneratedAt: generatedAt,
		Scenarios:   2,
		Passed:      1,
		Failed:      1,
		Steps:       3,
		Duration:    3.5,
	}
}

func TestSaveRun_RoundTrip(t *testing.T) {
	db := openTestDB(t)

	now := time.Now().UTC().Truncate(time.Second)
	run := sampleRun(now)
	features := []*models.Feature{
		{Name: "Login", Status: models.StatusPassed, TotalScenarios: 1, PassedCount: 1, TotalSteps: 2, Duration: 3.0},
		{Name: "Logout", Status: models.StatusFailed, TotalScenarios: 1, FailedCount: 1, TotalSteps: 1, Duration: 0.5},
	}

	require.NoError(t, db.SaveRun(run, features))

	runs, err := db.RecentRuns(10)
	require.NoError(t, err)
	require.Len(t, runs, 1)

	assert.Equal(t, run.ID, runs[0].ID)
	assert.True(t, runs[0].GeneratedAt.Equal(now), "GeneratedAt = %v, want %v", runs[0].GeneratedAt, now)
	assert.Equal(t, 2, runs[0].Scenarios)
	assert.Equal(t, 3.5, runs[0].Duration)
}

func TestRecentRuns_NewestFirstWithLimit(t *testing.T) {
	db := openTestDB(t)

	base := time.Now().UTC().Truncate(time.Second)
	var ids []string
	for i := 0; i < 3; i++ {
		run := sampleRun(base.Add(time.Duration(i) * time.Minute))
		ids = append(ids, run.ID)
		require.NoError(t, db.SaveRun(run, nil))
	}

	runs, err := db.RecentRuns(2)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, ids[2], runs[0].ID)
	assert.Equal(t, ids[1], runs[1].ID)
}

func TestFeatureRuns(t *testing.T) {
	db := openTestDB(t)

	now := time.Now().UTC().Truncate(time.Second)
	feature := &models.Feature{Name: "Login", Status: models.StatusFailed, TotalScenarios: 1, FailedCount: 1, Duration: 1.0}
	other := &models.Feature{Name: "Logout", Status: models.StatusPassed, TotalScenarios: 1, PassedCount: 1}

	run := sampleRun(now)
	require.NoError(t, db.SaveRun(run, []*models.Feature{feature, other}))

	records, err := db.FeatureRuns("Login", 10)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, run.ID, records[0].RunID)
	assert.Equal(t, models.StatusFailed, records[0].Status)
}

func TestRecentRuns_Empty(t *testing.T) {
	db := openTestDB(t)

	runs, err := db.RecentRuns(10)
	require.NoError(t, err)
	assert.Empty(t, runs)
}
