package generator

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/getgauge/common"
	"github.com/google/uuid"

	"github.com/your-org/bdd-html-report/pkg/config"
	"github.com/your-org/bdd-html-report/pkg/loader"
	"github.com/your-org/bdd-html-report/pkg/logger"
	"github.com/your-org/bdd-html-report/pkg/logparser"
	"github.com/your-org/bdd-html-report/pkg/models"
	"github.com/your-org/bdd-html-report/pkg/pages"
	"github.com/your-org/bdd-html-report/pkg/renderer"
	"github.com/your-org/bdd-html-report/pkg/report"
	"github.com/your-org/bdd-html-report/pkg/storage"
)

// Generator drives one report generation run: load fragments, aggregate,
// copy artifacts, render pages, publish, record history.
type Generator struct {
	cfg        *config.Config
	renderer   *renderer.Renderer
	tagRules   []report.TagRule
	subHeaders []report.SubHeaderFunc
}

// New creates a generator. Tag rules and subheader handlers are ordered;
// both may be nil.
func New(cfg *config.Config, tagRules []report.TagRule, subHeaders []report.SubHeaderFunc) *Generator {
	return &Generator{
		cfg:        cfg,
		renderer:   renderer.New(),
		tagRules:   tagRules,
		subHeaders: subHeaders,
	}
}

// Generate builds the complete report. The report tree is assembled in a
// staging directory next to the output path and only renamed into place
// once every page has been written, so a fatal error mid-run never leaves
// a half-written report behind.
func (g *Generator) Generate() error {
	startTime := time.Now()

	if err := g.cfg.Validate(); err != nil {
		return err
	}

	var progress io.Writer
	if g.cfg.ShowProgress {
		progress = os.Stdout
	}

	features, err := loader.New(g.cfg.ResultsDir, progress).Load()
	if err != nil {
		return err
	}
	if g.cfg.OnlyFailures {
		features = loader.OnlyFailed(features)
	}

	if err := validateNames(features); err != nil {
		return err
	}

	outputDir, err := filepath.Abs(g.cfg.OutputDir)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(outputDir), 0755); err != nil {
		return fmt.Errorf("failed to create output parent directory: %w", err)
	}

	stageDir, err := os.MkdirTemp(filepath.Dir(outputDir), ".report-stage-*")
	if err != nil {
		return fmt.Errorf("failed to create staging directory: %w", err)
	}
	defer os.RemoveAll(stageDir)

	if err := g.copyExternalAssets(stageDir); err != nil {
		return err
	}

	agg := report.NewAggregator(report.Options{
		ArtifactsDir: stageDir,
		TagRules:     g.tagRules,
		SubHeaders:   g.subHeaders,
		LogRenderer:  logparser.New(),
		Progress:     progress,
	})

	if err := g.processFeatures(agg, features, stageDir); err != nil {
		return err
	}

	// Totals are reduced only after every feature worker has joined.
	totals := report.Totals(features)
	set := pages.Build(features, totals)

	if progress != nil {
		fmt.Fprintln(progress)
	}

	if err := g.writePages(set, stageDir); err != nil {
		return err
	}

	if err := publish(stageDir, outputDir); err != nil {
		return err
	}

	if g.cfg.HistoryEnabled {
		if err := g.saveHistory(outputDir, features, totals, startTime); err != nil {
			logger.Warnf("Failed to save run history: %v", err)
		}
	}

	logger.Infof("Report generated in %v", time.Since(startTime).Round(time.Millisecond))
	logger.Infof("Open: file://%s/index.html", outputDir)
	return nil
}

// validateNames rejects path-unsafe feature and scenario names before any
// of them is used as a directory key.
func validateNames(features []*models.Feature) error {
	for _, feature := range features {
		if err := models.ValidateName(feature.Name); err != nil {
			return fmt.Errorf("unusable feature name: %w", err)
		}
		for _, scenario := range feature.Scenarios() {
			if err := models.ValidateName(scenario.Name); err != nil {
				return fmt.Errorf("feature %q: unusable scenario name: %w", feature.Name, err)
			}
		}
	}
	return nil
}

// processFeatures copies each feature's artifact tree into the stage
// directory and runs aggregation over it. Features are independent, so the
// work is spread across a bounded set of workers; the first error wins.
func (g *Generator) processFeatures(agg *report.Aggregator, features []*models.Feature, stageDir string) error {
	var wg sync.WaitGroup
	errs := make(chan error, len(features))
	semaphore := make(chan struct{}, g.cfg.MaxConcurrentFeatures)

	for _, feature := range features {
		wg.Add(1)
		go func(f *models.Feature) {
			defer wg.Done()
			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			if err := g.copyFeatureArtifacts(f, stageDir); err != nil {
				errs <- err
				return
			}
			if err := agg.AggregateFeature(f); err != nil {
				errs <- err
			}
		}(feature)
	}

	wg.Wait()
	close(errs)

	var firstErr error
	for err := range errs {
		if firstErr == nil {
			firstErr = err
		}
		logger.Errorf("Failed to process feature: %v", err)
	}
	return firstErr
}

// copyFeatureArtifacts mirrors the feature's artifact tree (screenshots and
// logs) from the results directory into the staged report. Skipped and
// untested features never produced one.
func (g *Generator) copyFeatureArtifacts(feature *models.Feature, stageDir string) error {
	if !feature.HasArtifacts() {
		return nil
	}

	src := filepath.Join(g.cfg.ResultsDir, feature.Name)
	if _, err := os.Stat(src); os.IsNotExist(err) {
		logger.Debugf("No artifact directory for feature %q", feature.Name)
		return nil
	}

	if _, err := common.MirrorDir(src, filepath.Join(stageDir, feature.Name)); err != nil {
		return fmt.Errorf("failed to copy artifacts for feature %q: %w", feature.Name, err)
	}
	return nil
}

// copyExternalAssets mirrors the configured static asset tree into
// external/; without one, the built-in stylesheet is written so the pages
// still have their chrome.
func (g *Generator) copyExternalAssets(stageDir string) error {
	externalDir := filepath.Join(stageDir, "external")

	if g.cfg.ExternalAssetsDir != "" {
		if _, err := common.MirrorDir(g.cfg.ExternalAssetsDir, externalDir); err != nil {
			return fmt.Errorf("failed to copy external assets: %w", err)
		}
		return nil
	}

	if err := os.MkdirAll(externalDir, 0755); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(externalDir, "report.css"), []byte(defaultStylesheet), 0644)
}

// writePages renders every page model and writes it into the stage tree.
func (g *Generator) writePages(set *pages.Set, stageDir string) error {
	if err := g.renderTo(filepath.Join(stageDir, "index.html"), "index", set.Index); err != nil {
		return err
	}
	if err := g.renderTo(filepath.Join(stageDir, "flat.html"), "flat", set.Flat); err != nil {
		return err
	}

	for _, page := range set.Features {
		if err := os.MkdirAll(filepath.Join(stageDir, page.Feature.Name), 0755); err != nil {
			return err
		}
		if err := g.renderTo(filepath.Join(stageDir, page.Feature.HTMLFileName()), "feature", page); err != nil {
			return err
		}
	}

	for _, page := range set.Scenarios {
		scenarioDir := filepath.Join(stageDir, page.Feature.Name, page.Scenario.Name)
		if err := os.MkdirAll(scenarioDir, 0755); err != nil {
			return err
		}
		if err := g.renderTo(filepath.Join(scenarioDir, "index.html"), "scenario", page); err != nil {
			return err
		}
	}

	return nil
}

func (g *Generator) renderTo(path, templateName string, data interface{}) error {
	html, err := g.renderer.Render(templateName, data)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, html, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// publish swaps the staged tree into the output path. Any previous report
// is removed first; the rename itself is a single filesystem operation.
func publish(stageDir, outputDir string) error {
	if _, err := os.Stat(outputDir); err == nil {
		if err := os.RemoveAll(outputDir); err != nil {
			return fmt.Errorf("failed to remove previous report: %w", err)
		}
	}
	if err := os.Rename(stageDir, outputDir); err != nil {
		return fmt.Errorf("failed to publish report: %w", err)
	}
	return nil
}

// saveHistory records the run next to the published report. outputDir is
// the absolute path the report was published to, so the history database
// lands in the same place regardless of the working directory.
func (g *Generator) saveHistory(outputDir string, features []*models.Feature, totals models.Totals, startTime time.Time) error {
	db, err := storage.Open(filepath.Dir(outputDir))
	if err != nil {
		return err
	}
	defer db.Close()

	run := &storage.RunRecord{
		ID:           uuid.New().String(),
		GeneratedAt:  startTime,
		OnlyFailures: g.cfg.OnlyFailures,
		Scenarios:    totals.Scenarios,
		Passed:       totals.Passed,
		Failed:       totals.Failed,
		Skipped:      totals.Skipped,
		Steps:        totals.Steps,
		Duration:     totals.Duration,
	}
	return db.SaveRun(run, features)
}

const defaultStylesheet = `body { font-family: -apple-system, "Segoe UI", sans-serif; margin: 2em; color: #1f2328; }
table { border-collapse: collapse; margin: 1em 0; }
th, td { border: 1px solid #d0d7de; padding: 0.4em 0.8em; text-align: left; }
th { background: #f6f8fa; }
.passed { color: #1a7f37; }
.failed { color: #cf222e; }
.skipped { color: #9a6700; }
.tags { color: #0969da; font-size: 0.85em; }
.sub-header { color: #57606a; margin: 0.2em 0; }
.meta { color: #57606a; }
.step { padding: 0.3em 0.6em; border-left: 3px solid #d0d7de; margin: 0.2em 0; }
.step.passed { border-left-color: #1a7f37; }
.step.failed { border-left-color: #cf222e; }
.step-timing { color: #57606a; font-size: 0.85em; margin-left: 1em; }
.doc-string, .data-table { background: #f6f8fa; padding: 0.5em; overflow-x: auto; }
.error { background: #ffebe9; padding: 0.5em; white-space: pre-wrap; }
.screenshot { max-width: 480px; display: block; margin: 0.5em 0; border: 1px solid #d0d7de; }
`
