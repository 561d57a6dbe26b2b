package logparser

import (
	"fmt"
	"html"
	"strings"
)

// HTMLRenderer converts raw console log text into a standalone HTML page,
// one line per log line so browsers can anchor and wrap them individually.
type HTMLRenderer struct{}

// New creates the default console log renderer.
func New() *HTMLRenderer {
	return &HTMLRenderer{}
}

// Render escapes the raw text and wraps each line in its own element.
func (r *HTMLRenderer) Render(raw string) (string, error) {
	var b strings.Builder
	b.WriteString(header)
	for _, line := range strings.Split(strings.TrimRight(raw, "\n"), "\n") {
		fmt.Fprintf(&b, "<div class=\"log-line\">%s</div>\n", html.EscapeString(line))
	}
	b.WriteString(footer)
	return b.String(), nil
}

const header = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<style>
body { background: #1e1e1e; color: #d4d4d4; font-family: monospace; font-size: 13px; }
.log-line { white-space: pre-wrap; min-height: 1em; }
</style>
</head>
<body>
`

const footer = `</body>
</html>
`
