package report

import "github.com/your-org/bdd-html-report/pkg/models"

// classify buckets one scenario into the feature's rollup counters. A
// scenario that never reported a status is counted as skipped.
func classify(feature *models.Feature, scenario *models.Scenario) {
	feature.TotalScenarios++

	switch scenario.Status {
	case models.StatusPassed:
		feature.PassedCount++
	case models.StatusFailed:
		feature.FailedCount++
	case models.StatusSkipped, "":
		feature.SkippedCount++
	}
}
