package loader

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/your-org/bdd-html-report/pkg/logger"
	"github.com/your-org/bdd-html-report/pkg/models"
)

// FragmentPattern is the naming convention for per-run result files: every
// runner worker writes one `<prefix>run.json` document into the results
// directory.
const FragmentPattern = "*run.json"

// Loader reads run fragments from a results directory and merges them into
// one ordered feature sequence.
type Loader struct {
	resultsDir string
	progress   io.Writer // nil disables progress characters
}

// New creates a fragment loader for the given results directory.
func New(resultsDir string, progress io.Writer) *Loader {
	return &Loader{resultsDir: resultsDir, progress: progress}
}

// Load parses every run fragment in the results directory and concatenates
// the feature sequences in lexical filename order, so repeated runs over the
// same input merge identically. A fragment that cannot be read or parsed is
// logged and skipped; the merge itself never fails on bad input files.
func (l *Loader) Load() ([]*models.Feature, error) {
	pattern := filepath.Join(l.resultsDir, FragmentPattern)
	paths, err := filepath.Glob(pattern)
	if err != nil {
		return nil, fmt.Errorf("failed to scan results directory: %w", err)
	}

	logger.Infof("Starting to process %d files for report", len(paths))

	var features []*models.Feature
	for _, path := range paths {
		fragment, err := parseFragment(path)
		if err != nil {
			logger.Warnf("unable to read file %s, got error: %v", path, err)
			continue
		}
		features = append(features, fragment...)
		l.mark("r")
	}

	return features, nil
}

// OnlyFailed drops every feature whose status is not failed. Dropped
// features contribute nothing downstream: no artifacts, no rollups.
func OnlyFailed(features []*models.Feature) []*models.Feature {
	kept := make([]*models.Feature, 0, len(features))
	for _, feature := range features {
		if feature.Status == models.StatusFailed {
			kept = append(kept, feature)
		}
	}
	return kept
}

func parseFragment(path string) ([]*models.Feature, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var features []*models.Feature
	if err := json.Unmarshal(data, &features); err != nil {
		return nil, err
	}
	return features, nil
}

func (l *Loader) mark(c string) {
	if l.progress != nil {
		fmt.Fprint(l.progress, c)
	}
}
