package report

import (
	"fmt"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/your-org/bdd-html-report/pkg/logger"
	"github.com/your-org/bdd-html-report/pkg/models"
)

// ConsoleLogMarker identifies console-style logs among a scenario's log
// files; those additionally get a rendered HTML sibling.
const ConsoleLogMarker = ".console."

// associateArtifacts attaches on-disk screenshots to steps and enumerates
// the scenario's log files. Only existence is inspected for screenshots;
// console logs are read and rendered to an HTML sibling.
func (a *Aggregator) associateArtifacts(feature *models.Feature, scenario *models.Scenario) error {
	scenarioDir := filepath.Join(a.opts.ArtifactsDir, feature.Name, scenario.Name)

	for i, step := range scenario.Steps {
		name := screenshotName(i, step.Name)
		if _, err := os.Stat(filepath.Join(scenarioDir, name)); err == nil {
			step.Image = url.PathEscape(name)
		}
	}

	return a.collectLogs(scenario, scenarioDir)
}

// stepNameSanitizer flattens the characters the capture side cannot keep in
// a single path segment.
var stepNameSanitizer = strings.NewReplacer("/", "_", `"`, "_")

// screenshotName is the capture convention: step index, a separator, and
// the sanitized step name.
func screenshotName(index int, stepName string) string {
	return fmt.Sprintf("%d - %s.png", index, stepNameSanitizer.Replace(stepName))
}

func (a *Aggregator) collectLogs(scenario *models.Scenario, scenarioDir string) error {
	logsDir := filepath.Join(scenarioDir, "logs")
	entries, err := os.ReadDir(logsDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to list logs directory: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		a.mark("l")

		logFile := &models.LogFile{
			Name: entry.Name(),
			Path: path.Join("logs", entry.Name()),
		}

		if strings.Contains(entry.Name(), ConsoleLogMarker) {
			a.mark("c")
			// A log that fails to render keeps its raw path; one bad log
			// must not take down the whole report.
			if err := a.renderConsoleLog(filepath.Join(logsDir, entry.Name())); err != nil {
				logger.Warnf("failed to render console log %s: %v", entry.Name(), err)
			} else {
				logFile.Path += ".html"
			}
		}

		scenario.Logs = append(scenario.Logs, logFile)
	}

	return nil
}

func (a *Aggregator) renderConsoleLog(logPath string) error {
	if a.opts.LogRenderer == nil {
		return fmt.Errorf("no log renderer configured")
	}

	raw, err := os.ReadFile(logPath)
	if err != nil {
		return err
	}

	markup, err := a.opts.LogRenderer.Render(string(raw))
	if err != nil {
		return err
	}

	return os.WriteFile(logPath+".html", []byte(markup), 0644)
}
