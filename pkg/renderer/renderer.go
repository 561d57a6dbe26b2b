package renderer

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
	"time"
)

// Renderer turns page models into HTML bytes. It holds the parsed template
// set; all four page kinds share the same layout partials.
type Renderer struct {
	templates *template.Template
}

// New creates a renderer with the built-in templates.
func New() *Renderer {
	funcs := template.FuncMap{
		"formatDuration": FormatDuration,
		"formatOffset":   FormatOffset,
		"formatTime":     formatTime,
		"urlencode":      URLEncode,
	}

	t := template.New("report").Funcs(funcs)
	for name, src := range templateSources {
		t = template.Must(t.New(name).Parse(src))
	}
	return &Renderer{templates: t}
}

// Render executes the named template against the given page model.
func (r *Renderer) Render(name string, data interface{}) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.templates.ExecuteTemplate(&buf, name, data); err != nil {
		return nil, fmt.Errorf("failed to render %s: %w", name, err)
	}
	return buf.Bytes(), nil
}

// FormatDuration renders a duration in seconds for display.
func FormatDuration(seconds float64) string {
	d := time.Duration(seconds * float64(time.Second))
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	return fmt.Sprintf("%dm %ds", int(d.Minutes()), int(d.Seconds())%60)
}

// FormatOffset renders a time offset from an anchor as HH:MM:SS.
func FormatOffset(offset time.Duration) string {
	total := int(offset.Seconds())
	return fmt.Sprintf("%02d:%02d:%02d", total/3600, (total%3600)/60, total%60)
}

func formatTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02 15:04:05")
}

// URLEncode escapes the characters in feature and scenario names that break
// hrefs. Spaces are left alone; browsers handle those.
func URLEncode(s string) string {
	replacer := strings.NewReplacer(
		`"`, "%22",
		"'", "%27",
		"#", "%23",
	)
	return replacer.Replace(s)
}
