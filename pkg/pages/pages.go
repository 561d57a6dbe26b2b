// Package pages assembles the view models consumed by the rendering layer.
// Nothing here touches the filesystem; the generator decides where each
// rendered page lands.
package pages

import "github.com/your-org/bdd-html-report/pkg/models"

// Index summarizes all reported features with grand totals.
type Index struct {
	Title    string
	Features []*models.Feature
	Totals   models.Totals
	DirDepth string
}

// Flat lists every scenario across all features on one page.
type Flat struct {
	Title    string
	Features []*models.Feature
	Totals   models.Totals
	DirDepth string
}

// FeaturePage lists the scenarios of a single feature.
type FeaturePage struct {
	Title    string
	Feature  *models.Feature
	DirDepth string
}

// ScenarioPage lists the steps of a single scenario with its artifacts and
// logs. Scenario pages live two directories below the report root, which
// DirDepth encodes for relative link construction.
type ScenarioPage struct {
	Title    string
	Feature  *models.Feature
	Scenario *models.Scenario
	DirDepth string
}

// Set is the complete collection of page models for one report.
type Set struct {
	Index     Index
	Flat      Flat
	Features  []FeaturePage
	Scenarios []ScenarioPage
}

// Build assembles the page model set from an aggregated feature tree.
func Build(features []*models.Feature, totals models.Totals) *Set {
	set := &Set{
		Index: Index{
			Title:    "Test Report",
			Features: features,
			Totals:   totals,
		},
		Flat: Flat{
			Title:    "Flat Test Report",
			Features: features,
			Totals:   totals,
		},
	}

	for _, feature := range features {
		set.Features = append(set.Features, FeaturePage{
			Title:   feature.Name,
			Feature: feature,
		})

		for _, scenario := range feature.Scenarios() {
			set.Scenarios = append(set.Scenarios, ScenarioPage{
				Title:    scenario.Name,
				Feature:  feature,
				Scenario: scenario,
				DirDepth: "../../",
			})
		}
	}

	return set
}
