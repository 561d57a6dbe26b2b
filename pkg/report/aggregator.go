package report

import (
	"fmt"
	"io"
	"regexp"

	"github.com/your-org/bdd-html-report/pkg/models"
)

// TagRule rewrites the display text of a tag. Rules are evaluated in order
// and the first matching pattern wins.
type TagRule struct {
	Pattern   *regexp.Regexp
	Transform func(tag string) string
}

// SubHeaderFunc derives one display line for a scenario page header.
type SubHeaderFunc func(scenario *models.Scenario) string

// LogRenderer turns raw console log text into markup. The generator wires
// in the logparser implementation; tests substitute their own.
type LogRenderer interface {
	Render(raw string) (string, error)
}

// Options configures an Aggregator. ArtifactsDir is the directory holding
// the per-feature artifact trees (screenshots and logs); during generation
// this is the staged report directory the trees were copied into.
type Options struct {
	ArtifactsDir string
	TagRules     []TagRule
	SubHeaders   []SubHeaderFunc
	LogRenderer  LogRenderer
	Progress     io.Writer // nil disables progress characters
}

// Aggregator annotates a merged feature tree with derived timing, artifact
// references, and rollup counts.
type Aggregator struct {
	opts Options
}

// NewAggregator creates an aggregator from explicit options; nothing is
// read from ambient state.
func NewAggregator(opts Options) *Aggregator {
	return &Aggregator{opts: opts}
}

// Aggregate processes every feature in order and returns the grand totals.
// A timestamp that cannot be parsed aborts the whole run: once one offset
// is untrustworthy the report's timing is untrustworthy everywhere.
func (a *Aggregator) Aggregate(features []*models.Feature) (models.Totals, error) {
	for _, feature := range features {
		if err := a.AggregateFeature(feature); err != nil {
			return models.Totals{}, err
		}
	}
	return Totals(features), nil
}

// AggregateFeature runs the full derivation pipeline for one feature. It
// only touches that feature's subtree, so distinct features may be
// aggregated concurrently as long as totals are reduced after the join.
func (a *Aggregator) AggregateFeature(feature *models.Feature) error {
	a.mark("F")

	if err := models.ValidateName(feature.Name); err != nil {
		return fmt.Errorf("unusable feature name: %w", err)
	}

	feature.DisplayTags = a.normalizeTags(feature.Tags)

	for _, scenario := range feature.Scenarios() {
		a.mark("S")

		if err := models.ValidateName(scenario.Name); err != nil {
			return fmt.Errorf("unusable scenario name in feature %q: %w", feature.Name, err)
		}

		scenario.DisplayTags = a.normalizeTags(scenario.Tags)
		scenario.SubHeaders = a.subHeaders(scenario)

		classify(feature, scenario)

		if err := a.deriveScenarioTiming(scenario); err != nil {
			return fmt.Errorf("feature %q scenario %q: %w", feature.Name, scenario.Name, err)
		}

		if err := a.associateArtifacts(feature, scenario); err != nil {
			return fmt.Errorf("feature %q scenario %q: %w", feature.Name, scenario.Name, err)
		}
	}

	deriveFeatureTiming(feature)
	return nil
}

// Totals reduces per-feature rollups into grand totals. Call only after
// every feature has been aggregated.
func Totals(features []*models.Feature) models.Totals {
	var totals models.Totals
	for _, feature := range features {
		totals.Add(feature)
	}
	return totals
}

func (a *Aggregator) subHeaders(scenario *models.Scenario) []string {
	if len(a.opts.SubHeaders) == 0 {
		return nil
	}
	headers := make([]string, 0, len(a.opts.SubHeaders))
	for _, handler := range a.opts.SubHeaders {
		headers = append(headers, handler(scenario))
	}
	return headers
}

func (a *Aggregator) mark(c string) {
	if a.opts.Progress != nil {
		fmt.Fprint(a.opts.Progress, c)
	}
}
