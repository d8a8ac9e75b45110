// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"io"

	"github.com/google/safehtml/template"

	"github.com/threadscale/scalingreport/scalechart"
	"github.com/threadscale/scalingreport/scalefmt"
	"github.com/threadscale/scalingreport/scalemath"
)

const reportHTML = `<!doctype html>
<html>
<head>
<meta charset="utf-8">
<title>Thread Scaling Report</title>
<style>
body { font-family: sans-serif; margin: 2em; }
.scaling { border-collapse: collapse; }
.scaling th { border-bottom: 1px solid #666; padding: 0 1em; }
.scaling td { text-align: right; padding: 0 1em; }
.scaling td:nth-child(1) { text-align: left; }
img { max-width: 100%; }
</style>
</head>
<body>
<h1>Thread Scaling Report</h1>
<p>Source: {{.Source}} ({{.Unit}})</p>
<h2>Detailed Analysis</h2>
<ul>
{{- range .Summary}}
<li>{{.}}
{{- end}}
</ul>
<h2>Charts</h2>
{{range .Charts -}}
<p><img src="{{.Src}}" alt="{{.Alt}}"></p>
{{end -}}
<h2>Samples</h2>
<table class="scaling">
<tr><th>Threads<th>Take 1 (μs)<th>Take 2 (μs)<th>Speedup<th>Efficiency 1<th>Efficiency 2
{{- range .Rows}}
<tr><td>{{.Threads}}<td>{{.Take1}}<td>{{.Take2}}<td>{{.Speedup}}<td>{{.Efficiency1}}<td>{{.Efficiency2}}
{{- end}}
</table>
</body>
</html>
`

var reportTemplate = template.Must(template.New("report").Parse(reportHTML))

type htmlChart struct {
	Src, Alt string
}

type htmlRow struct {
	Threads                  int
	Take1, Take2             string
	Speedup                  string
	Efficiency1, Efficiency2 string
}

type htmlReport struct {
	Source  string
	Unit    string
	Summary []string
	Charts  []htmlChart
	Rows    []htmlRow
}

// writeHTML writes the report page that will be stored at path.
func writeHTML(w io.Writer, path string, tab *scalefmt.Table, m *scalemath.Metrics, charts []scalechart.Artifact) error {
	s := m.Summary
	r := &htmlReport{
		Source: tab.FileName,
		Unit:   tab.Unit.String(),
		Summary: []string{
			fmt.Sprintf("%s: min time %s at %d threads", scalechart.LabelTake1, scalemath.FormatMicros(s.Take1.Time), s.Take1.Threads),
			fmt.Sprintf("%s: min time %s at %d threads", scalechart.LabelTake2, scalemath.FormatMicros(s.Take2.Time), s.Take2.Threads),
			"Average speedup of Take 2 over Take 1: " + scalemath.FormatRatio(s.MeanSpeedup),
			fmt.Sprintf("Maximum speedup: %s at %d threads", scalemath.FormatRatio(s.MaxSpeedup), s.MaxSpeedupThreads),
			"Geometric mean speedup: " + scalemath.FormatRatio(s.GeoMeanSpeedup),
		},
	}
	alts := []string{"Execution time and speedup by thread count", "Parallel efficiency by thread count"}
	for i, c := range charts {
		r.Charts = append(r.Charts, htmlChart{Src: relPath(path, c.Path), Alt: alts[i%len(alts)]})
	}
	take1, take2 := tab.Take1(), tab.Take2()
	for i, n := range tab.Threads() {
		r.Rows = append(r.Rows, htmlRow{
			Threads:     n,
			Take1:       fmt.Sprintf("%.0f", take1[i]),
			Take2:       fmt.Sprintf("%.0f", take2[i]),
			Speedup:     scalemath.FormatRatio(m.Speedup[i]),
			Efficiency1: fmt.Sprintf("%.1f%%", m.Efficiency1[i]),
			Efficiency2: fmt.Sprintf("%.1f%%", m.Efficiency2[i]),
		})
	}
	return reportTemplate.Execute(w, r)
}
