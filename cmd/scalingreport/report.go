// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/threadscale/scalingreport/scalechart"
	"github.com/threadscale/scalingreport/scalefmt"
	"github.com/threadscale/scalingreport/scalemath"
)

// renderReports renders the optional -csv, -json and -html outputs.
func renderReports(c *config, tab *scalefmt.Table, m *scalemath.Metrics, charts []scalechart.Artifact) ([]scalechart.Artifact, error) {
	var arts []scalechart.Artifact
	if c.csv != "" {
		var buf bytes.Buffer
		if err := scalefmt.WriteCSV(&buf, tab, m); err != nil {
			return nil, err
		}
		arts = append(arts, scalechart.Artifact{Path: c.csv, Data: buf.Bytes()})
	}
	if c.json != "" {
		data, err := json.MarshalIndent(newJSONReport(tab, m), "", "\t")
		if err != nil {
			return nil, err
		}
		arts = append(arts, scalechart.Artifact{Path: c.json, Data: append(data, '\n')})
	}
	if c.html != "" {
		var buf bytes.Buffer
		if err := writeHTML(&buf, c.html, tab, m, charts); err != nil {
			return nil, fmt.Errorf("rendering %s: %w", c.html, err)
		}
		arts = append(arts, scalechart.Artifact{Path: c.html, Data: buf.Bytes()})
	}
	return arts, nil
}

type jsonOptimum struct {
	Threads int     `json:"threads"`
	TimeUS  float64 `json:"time_us"`
}

type jsonRow struct {
	Threads     int     `json:"threads"`
	Take1US     float64 `json:"take1_us"`
	Take2US     float64 `json:"take2_us"`
	Speedup     float64 `json:"speedup"`
	Efficiency1 float64 `json:"efficiency1_pct"`
	Efficiency2 float64 `json:"efficiency2_pct"`
}

type jsonReport struct {
	Source            string      `json:"source"`
	Unit              string      `json:"unit"`
	BaseThreads       int         `json:"base_threads"`
	MeanSpeedup       float64     `json:"mean_speedup"`
	GeoMeanSpeedup    float64     `json:"geomean_speedup"`
	MaxSpeedup        float64     `json:"max_speedup"`
	MaxSpeedupThreads int         `json:"max_speedup_threads"`
	Take1             jsonOptimum `json:"take1_optimal"`
	Take2             jsonOptimum `json:"take2_optimal"`
	Rows              []jsonRow   `json:"rows"`
}

func newJSONReport(tab *scalefmt.Table, m *scalemath.Metrics) *jsonReport {
	s := m.Summary
	r := &jsonReport{
		Source:            tab.FileName,
		Unit:              tab.Unit.String(),
		BaseThreads:       s.BaseThreads,
		MeanSpeedup:       s.MeanSpeedup,
		GeoMeanSpeedup:    s.GeoMeanSpeedup,
		MaxSpeedup:        s.MaxSpeedup,
		MaxSpeedupThreads: s.MaxSpeedupThreads,
		Take1:             jsonOptimum{s.Take1.Threads, s.Take1.Time},
		Take2:             jsonOptimum{s.Take2.Threads, s.Take2.Time},
	}
	take1, take2 := tab.Take1(), tab.Take2()
	for i, n := range tab.Threads() {
		r.Rows = append(r.Rows, jsonRow{
			Threads:     n,
			Take1US:     take1[i],
			Take2US:     take2[i],
			Speedup:     m.Speedup[i],
			Efficiency1: m.Efficiency1[i],
			Efficiency2: m.Efficiency2[i],
		})
	}
	return r
}

// relPath returns target relative to the directory of from, so that
// a report can refer to charts next to it.
func relPath(from, target string) string {
	rel, err := filepath.Rel(filepath.Dir(from), target)
	if err != nil {
		return filepath.ToSlash(target)
	}
	return filepath.ToSlash(rel)
}
