package renderer

// templateSources holds the built-in page templates. Shared partials are
// parsed into the same set so every page kind gets the same chrome.
var templateSources = map[string]string{
	"head": `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>{{.Title}}</title>
<link rel="stylesheet" href="{{.DirDepth}}external/report.css">
</head>
<body>
`,

	"foot": `</body>
</html>
`,

	"totals": `<table class="totals">
<tr><th>Scenarios</th><th>Passed</th><th>Failed</th><th>Skipped</th><th>Duration</th></tr>
<tr>
<td>{{.Scenarios}}</td>
<td class="passed">{{.Passed}}</td>
<td class="failed">{{.Failed}}</td>
<td class="skipped">{{.Skipped}}</td>
<td>{{formatDuration .Duration}}</td>
</tr>
</table>
`,

	"index": `{{template "head" .}}
<h1>{{.Title}}</h1>
{{template "totals" .Totals}}
<table class="features">
<tr><th>Feature</th><th>Status</th><th>Scenarios</th><th>Passed</th><th>Failed</th><th>Skipped</th><th>Steps</th><th>Started</th><th>Duration</th></tr>
{{range .Features}}
<tr class="{{.Status}}">
<td><a href="{{urlencode .Name}}.html">{{.Name}}</a>{{if .DisplayTags}} <span class="tags">{{.DisplayTags}}</span>{{end}}</td>
<td>{{.Status}}</td>
<td>{{.TotalScenarios}}</td>
<td>{{.PassedCount}}</td>
<td>{{.FailedCount}}</td>
<td>{{.SkippedCount}}</td>
<td>{{.TotalSteps}}</td>
<td>{{formatTime .StartedAt}}</td>
<td>{{formatDuration .Duration}}</td>
</tr>
{{end}}
</table>
{{template "foot" .}}`,

	"flat": `{{template "head" .}}
<h1>{{.Title}}</h1>
{{template "totals" .Totals}}
<table class="scenarios">
<tr><th>Feature</th><th>Scenario</th><th>Status</th><th>Steps</th><th>Offset</th><th>Duration</th></tr>
{{range $feature := .Features}}
{{range $feature.Scenarios}}
<tr class="{{.Status}}">
<td><a href="{{urlencode $feature.Name}}.html">{{$feature.Name}}</a></td>
<td><a href="{{urlencode $feature.Name}}/{{urlencode .Name}}/index.html">{{.Name}}</a></td>
<td>{{.Status}}</td>
<td>{{.TotalSteps}}</td>
<td>{{if .StartedAt}}{{formatOffset .TimeOffset}}{{end}}</td>
<td>{{formatDuration .Duration}}</td>
</tr>
{{end}}
{{end}}
</table>
{{template "foot" .}}`,

	"feature": `{{template "head" .}}
<h1>{{.Feature.Name}}</h1>
{{if .Feature.DisplayTags}}<p class="tags">{{.Feature.DisplayTags}}</p>{{end}}
<p class="meta">Status: <span class="{{.Feature.Status}}">{{.Feature.Status}}</span>
 | Started: {{formatTime .Feature.StartedAt}}
 | Duration: {{formatDuration .Feature.Duration}}</p>
<table class="scenarios">
<tr><th>Scenario</th><th>Status</th><th>Steps</th><th>Offset</th><th>Duration</th></tr>
{{range .Feature.Scenarios}}
<tr class="{{.Status}}">
<td><a href="{{urlencode $.Feature.Name}}/{{urlencode .Name}}/index.html">{{.Name}}</a>{{if .DisplayTags}} <span class="tags">{{.DisplayTags}}</span>{{end}}</td>
<td>{{.Status}}</td>
<td>{{.TotalSteps}}</td>
<td>{{if .StartedAt}}{{formatOffset .TimeOffset}}{{end}}</td>
<td>{{formatDuration .Duration}}</td>
</tr>
{{end}}
</table>
{{template "foot" .}}`,

	"scenario": `{{template "head" .}}
<h1>{{.Scenario.Name}}</h1>
{{range .Scenario.SubHeaders}}<p class="sub-header">{{.}}</p>
{{end}}
{{if .Scenario.DisplayTags}}<p class="tags">{{.Scenario.DisplayTags}}</p>{{end}}
<p class="meta">Feature: <a href="../../{{urlencode .Feature.Name}}.html">{{.Feature.Name}}</a>
 | Status: <span class="{{.Scenario.Status}}">{{.Scenario.Status}}</span>
 | Started: {{formatTime .Scenario.StartedAt}}
 | Duration: {{formatDuration .Scenario.Duration}}</p>
<div class="steps">
{{range .Scenario.Steps}}
{{if .IsHeading}}
<h4>{{.Name}}</h4>
{{else}}
<div class="step {{with .Result}}{{.Status}}{{end}}">
<span class="step-name">{{.Name}}</span>
{{with .Result}}
<span class="step-timing">{{formatOffset .TimeOffset}} ({{formatDuration .Duration}})</span>
{{end}}
{{if .Text}}<pre class="doc-string">{{.DocString "       "}}</pre>{{end}}
{{with .Table}}<pre class="data-table">{{.Format "       "}}</pre>{{end}}
{{if .Image}}<a href="{{.Image}}"><img class="screenshot" src="{{.Image}}" alt="screenshot"></a>{{end}}
{{with .Result}}{{if .HasError}}<pre class="error">{{.ErrorMessage}}</pre>{{end}}{{end}}
</div>
{{end}}
{{end}}
</div>
{{if .Scenario.Logs}}
<h3>Logs</h3>
<ul class="logs">
{{range .Scenario.Logs}}<li><a href="{{.Path}}">{{.Name}}</a></li>
{{end}}
</ul>
{{end}}
{{template "foot" .}}`,
}
