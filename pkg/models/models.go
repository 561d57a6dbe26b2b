package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Execution statuses as they appear in run fragments.
const (
	StatusPassed   = "passed"
	StatusFailed   = "failed"
	StatusSkipped  = "skipped"
	StatusUntested = "untested"
)

// Feature is the top-level grouping of scenarios in a run fragment.
// The loader decodes the raw fields; the aggregation pipeline fills in
// the derived ones.
type Feature struct {
	Name     string      `json:"name"`
	Status   string      `json:"status"`
	Tags     []string    `json:"tags,omitempty"`
	Elements []*Scenario `json:"elements,omitempty"`

	// Derived during aggregation
	DisplayTags    string     `json:"-"`
	StartedAt      *time.Time `json:"-"`
	Duration       float64    `json:"-"` // seconds, sum of scenario durations
	TotalSteps     int        `json:"-"`
	TotalScenarios int        `json:"-"`
	PassedCount    int        `json:"-"`
	FailedCount    int        `json:"-"`
	SkippedCount   int        `json:"-"`
}

// Scenarios returns the scenarios to report on. Untested features carry
// placeholder elements that must not be reported.
func (f *Feature) Scenarios() []*Scenario {
	if f.Status == StatusUntested {
		return nil
	}
	return f.Elements
}

// HTMLFileName returns the per-feature page filename.
func (f *Feature) HTMLFileName() string {
	return f.Name + ".html"
}

// HasArtifacts reports whether the feature ran far enough to leave an
// artifact directory behind.
func (f *Feature) HasArtifacts() bool {
	return f.Status != StatusSkipped && f.Status != StatusUntested
}

// Scenario is one executable test case within a feature.
type Scenario struct {
	Name   string   `json:"name"`
	Status string   `json:"status,omitempty"`
	Tags   []string `json:"tags,omitempty"`
	Steps  []*Step  `json:"steps,omitempty"`

	// Derived during aggregation
	DisplayTags string        `json:"-"`
	SubHeaders  []string      `json:"-"`
	StartedAt   *time.Time    `json:"-"`
	TimeOffset  time.Duration `json:"-"` // relative to the feature anchor
	Duration    float64       `json:"-"` // seconds, sum of step durations
	TotalSteps  int           `json:"-"`
	Logs        []*LogFile    `json:"-"`
}

// Step is one action or assertion within a scenario.
type Step struct {
	Name   string    `json:"name"`
	Text   TextBlock `json:"text,omitempty"`
	Table  *Table    `json:"table,omitempty"`
	Result *Result   `json:"result,omitempty"`

	// Image holds the URL-escaped screenshot filename once the artifact
	// associator has confirmed the file exists.
	Image string `json:"-"`
}

// IsHeading reports whether the step is a comment heading rather than an
// executable step.
func (s *Step) IsHeading() bool {
	return strings.HasPrefix(s.Name, "#")
}

// DocString renders the step's multi-line text block in gherkin doc-string
// form, indented to line up under the step name.
func (s *Step) DocString(indent string) string {
	if len(s.Text) == 0 {
		return ""
	}
	lines := make([]string, 0, len(s.Text)+2)
	lines = append(lines, indent+`"""`)
	for _, line := range s.Text {
		lines = append(lines, indent+line)
	}
	lines = append(lines, indent+`"""`)
	return strings.Join(lines, "\n")
}

// Result is the outcome of executing a step.
type Result struct {
	Status       string
	RawTimestamp string
	Duration     float64 // seconds

	// HasError is set when the fragment carried an error_message field,
	// even when the message itself was the empty sentinel.
	HasError     bool
	ErrorMessage string

	// Derived during aggregation; Timestamp is only set for passed and
	// failed results.
	Timestamp  *time.Time
	TimeOffset time.Duration // relative to the scenario anchor
}

// UnmarshalJSON decodes a result and normalizes the error message: runner
// workers emit a single-element list holding null when a step failed
// without a message.
func (r *Result) UnmarshalJSON(data []byte) error {
	var raw struct {
		Status       string          `json:"status"`
		Timestamp    string          `json:"timestamp"`
		Duration     float64         `json:"duration"`
		ErrorMessage json.RawMessage `json:"error_message"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	r.Status = raw.Status
	r.RawTimestamp = raw.Timestamp
	r.Duration = raw.Duration

	if len(raw.ErrorMessage) == 0 || string(raw.ErrorMessage) == "null" {
		return nil
	}
	r.HasError = true

	var lines []*string
	if err := json.Unmarshal(raw.ErrorMessage, &lines); err != nil {
		// some producers write a plain string instead of a list
		var msg string
		if err := json.Unmarshal(raw.ErrorMessage, &msg); err != nil {
			return fmt.Errorf("error_message is neither list nor string: %w", err)
		}
		r.ErrorMessage = msg
		return nil
	}
	parts := make([]string, 0, len(lines))
	for _, line := range lines {
		if line != nil {
			parts = append(parts, *line)
		}
	}
	r.ErrorMessage = strings.Join(parts, "\n")
	return nil
}

// Timed reports whether the result contributes a timestamp to timing
// derivation. Skipped and untested steps never do.
func (r *Result) Timed() bool {
	return r.Status == StatusPassed || r.Status == StatusFailed
}

// TextBlock is a step's multi-line text, decoded from either a plain JSON
// string or a list of strings.
type TextBlock []string

func (t *TextBlock) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		*t = TextBlock{single}
		return nil
	}
	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return err
	}
	*t = TextBlock(many)
	return nil
}

// Table is a step's tabular data block.
type Table struct {
	Headings []string   `json:"headings"`
	Rows     [][]string `json:"rows"`
}

// Format renders the table in gherkin pipe form with aligned columns, each
// line prefixed with indent.
func (t *Table) Format(indent string) string {
	widths := make([]int, len(t.Headings))
	for i, h := range t.Headings {
		widths[i] = len(h)
	}
	for _, row := range t.Rows {
		for i, cell := range row {
			if i < len(widths) && len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	var b strings.Builder
	writeRow := func(cells []string) {
		b.WriteString(indent)
		b.WriteString("|")
		for i, cell := range cells {
			width := len(cell)
			if i < len(widths) {
				width = widths[i]
			}
			fmt.Fprintf(&b, " %-*s |", width, cell)
		}
		b.WriteString("\n")
	}
	writeRow(t.Headings)
	for _, row := range t.Rows {
		writeRow(row)
	}
	return strings.TrimRight(b.String(), "\n")
}

// LogFile is one file found under a scenario's logs directory. Path is the
// display path relative to the scenario directory; for console logs it
// points at the rendered HTML sibling.
type LogFile struct {
	Name string
	Path string
}

// Totals holds grand totals across all reported features.
type Totals struct {
	Scenarios int
	Passed    int
	Failed    int
	Skipped   int
	Steps     int
	Duration  float64 // seconds
}

// Add folds a feature's rollup counters into the totals.
func (t *Totals) Add(f *Feature) {
	t.Scenarios += f.TotalScenarios
	t.Passed += f.PassedCount
	t.Failed += f.FailedCount
	t.Skipped += f.SkippedCount
	t.Steps += f.TotalSteps
	t.Duration += f.Duration
}

// ValidateName rejects feature and scenario names that cannot be used as a
// single filesystem path segment. Names become directory keys in the report
// tree, so anything that would escape or nest is refused outright.
func ValidateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("name is empty")
	}
	if name == "." || name == ".." {
		return fmt.Errorf("name %q is a reserved path segment", name)
	}
	if strings.ContainsAny(name, "/\\\x00") {
		return fmt.Errorf("name %q contains path separator characters", name)
	}
	return nil
}
