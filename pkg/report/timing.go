package report

import (
	"fmt"
	"time"

	"github.com/your-org/bdd-html-report/pkg/models"
)

// Fragment timestamps are ISO-8601 with varying precision; workers on some
// platforms omit the zone offset.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
}

// deriveScenarioTiming walks the scenario's steps in order, fixing the
// scenario anchor on the first passed or failed step and computing every
// later timed step's offset from it. Skipped steps contribute no timestamp
// but their durations still count toward the scenario total.
func (a *Aggregator) deriveScenarioTiming(scenario *models.Scenario) error {
	var duration float64

	for _, step := range scenario.Steps {
		a.mark("s")

		result := step.Result
		if result == nil {
			continue
		}

		if result.Timed() {
			ts, err := parseTimestamp(result.RawTimestamp)
			if err != nil {
				return fmt.Errorf("step %q: %w", step.Name, err)
			}
			result.Timestamp = &ts

			if scenario.StartedAt == nil {
				anchor := ts
				scenario.StartedAt = &anchor
			}
			result.TimeOffset = ts.Sub(*scenario.StartedAt)
		}

		duration += result.Duration
	}

	scenario.Duration = duration
	scenario.TotalSteps = len(scenario.Steps)
	return nil
}

// deriveFeatureTiming fixes the feature anchor on the first scenario that
// reported one, computes each timed scenario's offset from it, and sums
// scenario durations and step counts. A feature with no timed scenarios
// carries no anchor at all.
func deriveFeatureTiming(feature *models.Feature) {
	for _, scenario := range feature.Scenarios() {
		if scenario.StartedAt != nil {
			if feature.StartedAt == nil {
				feature.StartedAt = scenario.StartedAt
			}
			scenario.TimeOffset = scenario.StartedAt.Sub(*feature.StartedAt)
		}

		feature.Duration += scenario.Duration
		feature.TotalSteps += scenario.TotalSteps
	}
}

func parseTimestamp(raw string) (time.Time, error) {
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, raw); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable timestamp %q", raw)
}
