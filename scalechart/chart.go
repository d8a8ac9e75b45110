// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package scalechart draws the charts of a thread-scaling report.
//
// Comparison plots both approaches' times against thread count with
// the speedup ratio on a secondary axis. Efficiency plots each
// approach's parallel efficiency. Render turns either plot into image
// bytes and WriteFiles stores a set of rendered charts.
package scalechart

import (
	"errors"
	"fmt"
	"image/color"
	"sort"
	"strconv"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/threadscale/scalingreport/scalemath"
)

// Input is the data behind both charts.
type Input struct {
	Threads []int
	Take1   []float64 // microseconds
	Take2   []float64 // microseconds

	Metrics *scalemath.Metrics
}

func (in Input) check() error {
	n := len(in.Threads)
	if n == 0 {
		return errors.New("no data")
	}
	if len(in.Take1) != n || len(in.Take2) != n {
		return fmt.Errorf("length mismatch: %d threads, %d/%d times", n, len(in.Take1), len(in.Take2))
	}
	if in.Metrics == nil || len(in.Metrics.Speedup) != n {
		return errors.New("metrics do not match data")
	}
	return nil
}

// Legend entries.
const (
	LabelTake1   = "Take 1 (with contention)"
	LabelTake2   = "Take 2 (optimized)"
	LabelSpeedup = "Speedup ratio"
	LabelIdeal   = "Ideal efficiency (100%)"
)

const (
	titleComparison = "Performance Comparison: False Sharing vs Optimized Approach"
	titleEfficiency = "Parallel Efficiency: False Sharing vs Optimized Approach"
)

var (
	colorTake1   = rgb(0xe7, 0x4c, 0x3c)
	colorTake2   = rgb(0x2e, 0xcc, 0x71)
	colorSpeedup = rgb(0x34, 0x98, 0xdb)
	colorIdeal   = color.NRGBA{0x80, 0x80, 0x80, 0xb3}
	colorPanel   = rgb(0xea, 0xea, 0xf2)
)

func rgb(r, g, b uint8) color.Color {
	return color.NRGBA{r, g, b, 0xff}
}

const (
	lineWidth   = 2
	pointRadius = 4
)

// ThreadTicks returns the x-axis ticks for the given thread counts.
// Every distinct count is labeled when there are at most 15 of them;
// otherwise every max(1, n/10)th distinct count is.
func ThreadTicks(threads []int) plot.ConstantTicks {
	distinct := append([]int(nil), threads...)
	sort.Ints(distinct)
	j := 0
	for i, n := range distinct {
		if i == 0 || n != distinct[j-1] {
			distinct[j] = n
			j++
		}
	}
	distinct = distinct[:j]

	step := 1
	if len(distinct) > 15 {
		step = len(distinct) / 10
		if step < 1 {
			step = 1
		}
	}
	var ticks plot.ConstantTicks
	for i := 0; i < len(distinct); i += step {
		n := distinct[i]
		ticks = append(ticks, plot.Tick{Value: float64(n), Label: strconv.Itoa(n)})
	}
	return ticks
}

// newPlot returns a plot in the report style: a light panel with a
// white grid, large titles and thread-count ticks on x.
func newPlot(title, ylabel string, threads []int) *plot.Plot {
	p := plot.New()
	p.Title.Text = title
	p.Title.TextStyle.Font.Size = 18
	p.Title.Padding = vg.Points(12)

	p.X.Label.Text = "Number of Threads"
	p.X.Label.TextStyle.Font.Size = 14
	p.X.Tick.Label.Font.Size = 12
	p.X.Tick.Marker = ThreadTicks(threads)
	p.Y.Label.Text = ylabel
	p.Y.Label.TextStyle.Font.Size = 14
	p.Y.Tick.Label.Font.Size = 12

	p.Legend.TextStyle.Font.Size = 12
	p.Legend.Top = true
	p.Legend.Padding = vg.Points(4)
	p.Legend.ThumbnailWidth = vg.Points(30)

	grid := plotter.NewGrid()
	grid.Vertical.Color = color.White
	grid.Horizontal.Color = color.White
	grid.Vertical.Width = vg.Points(1)
	grid.Horizontal.Width = vg.Points(1)
	p.Add(panel{colorPanel}, grid)
	return p
}

// series returns the line and point markers for one approach.
func series(threads []int, vals []float64, clr color.Color, shape draw.GlyphDrawer) (*plotter.Line, *plotter.Scatter, error) {
	xys := make(plotter.XYs, len(threads))
	for i, n := range threads {
		xys[i] = plotter.XY{X: float64(n), Y: vals[i]}
	}
	l, s, err := plotter.NewLinePoints(xys)
	if err != nil {
		return nil, nil, err
	}
	l.Color = clr
	l.Width = vg.Points(lineWidth)
	s.Color = clr
	s.Shape = shape
	s.Radius = vg.Points(pointRadius)
	return l, s, nil
}

// threadRange returns the x-axis range for threads: the data range
// widened by a margin so the end points are not on the frame.
func threadRange(threads []int) (min, max float64) {
	min, max = float64(threads[0]), float64(threads[0])
	for _, n := range threads {
		v := float64(n)
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	return pad(min, max, 0.05, 0.5)
}

// pad widens [min, max] by frac of its span on each side, or by
// single on each side if the span is zero.
func pad(min, max, frac, single float64) (float64, float64) {
	span := max - min
	if span == 0 {
		return min - single, max + single
	}
	return min - frac*span, max + frac*span
}

func span(vals ...[]float64) (min, max float64) {
	first := true
	for _, vs := range vals {
		for _, v := range vs {
			if first || v < min {
				min = v
			}
			if first || v > max {
				max = v
			}
			first = false
		}
	}
	return min, max
}

// Comparison returns the execution time chart. Both approaches'
// times share the left axis; the speedup ratio uses a secondary axis
// on the right. Each approach's fastest point is annotated and a
// summary box sits in the lower right of the panel.
func Comparison(in Input) (*plot.Plot, error) {
	if err := in.check(); err != nil {
		return nil, err
	}
	m := in.Metrics
	sum := m.Summary

	p := newPlot(titleComparison, "Execution Time (μs)", in.Threads)
	p.Legend.Left = true
	p.Legend.XOffs = vg.Points(8)
	p.Legend.YOffs = -vg.Points(8)

	l1, s1, err := series(in.Threads, in.Take1, colorTake1, draw.CircleGlyph{})
	if err != nil {
		return nil, fmt.Errorf("take 1: %w", err)
	}
	l2, s2, err := series(in.Threads, in.Take2, colorTake2, draw.SquareGlyph{})
	if err != nil {
		return nil, fmt.Errorf("take 2: %w", err)
	}

	tmin, tmax := span(in.Take1, in.Take2)
	ymin, ymax := pad(tmin, tmax, 0.05, 0.05*tmax)
	xmin, xmax := threadRange(in.Threads)

	right := newSecondaryAxis("Speedup Ratio", m.Speedup, ymin, ymax, p)
	speedup, err := plotter.NewLine(right.mapXYs(in.Threads, m.Speedup))
	if err != nil {
		return nil, fmt.Errorf("speedup: %w", err)
	}
	speedup.Color = colorSpeedup
	speedup.Width = vg.Points(lineWidth)
	speedup.Dashes = []vg.Length{vg.Points(6), vg.Points(4)}

	p.Add(l1, s1, l2, s2, speedup, right)
	p.Legend.Add(LabelTake1, l1, s1)
	p.Legend.Add(LabelTake2, l2, s2)
	p.Legend.Add(LabelSpeedup, speedup)

	p.Add(
		newAnnotation(sum.Take1, colorTake1),
		newAnnotation(sum.Take2, colorTake2),
		newTextBox(summaryText(sum), 0.75, 0.05),
	)

	// Fix the ranges last; Add widens them to the data.
	p.X.Min, p.X.Max = xmin, xmax
	p.Y.Min, p.Y.Max = ymin, ymax
	return p, nil
}

func summaryText(s scalemath.Summary) string {
	return strings.Join([]string{
		"Summary:",
		"Average speedup: " + scalemath.FormatRatio(s.MeanSpeedup),
		fmt.Sprintf("Max speedup: %s at %d threads", scalemath.FormatRatio(s.MaxSpeedup), s.MaxSpeedupThreads),
		fmt.Sprintf("Take 1 min time: %s at %d threads", scalemath.FormatMicros(s.Take1.Time), s.Take1.Threads),
		fmt.Sprintf("Take 2 min time: %s at %d threads", scalemath.FormatMicros(s.Take2.Time), s.Take2.Threads),
	}, "\n")
}

// Efficiency returns the parallel efficiency chart. The y axis is
// fixed to [0, 110] percent; values outside it are clipped by the
// chart only.
func Efficiency(in Input) (*plot.Plot, error) {
	if err := in.check(); err != nil {
		return nil, err
	}
	m := in.Metrics

	p := newPlot(titleEfficiency, "Efficiency (%)", in.Threads)
	p.Legend.XOffs = -vg.Points(8)
	p.Legend.YOffs = -vg.Points(8)

	l1, s1, err := series(in.Threads, m.Efficiency1, colorTake1, draw.CircleGlyph{})
	if err != nil {
		return nil, fmt.Errorf("take 1: %w", err)
	}
	l2, s2, err := series(in.Threads, m.Efficiency2, colorTake2, draw.SquareGlyph{})
	if err != nil {
		return nil, fmt.Errorf("take 2: %w", err)
	}
	xmin, xmax := threadRange(in.Threads)
	ideal, err := plotter.NewLine(plotter.XYs{{X: xmin, Y: 100}, {X: xmax, Y: 100}})
	if err != nil {
		return nil, err
	}
	ideal.Color = colorIdeal
	ideal.Width = vg.Points(lineWidth)
	ideal.Dashes = []vg.Length{vg.Points(6), vg.Points(4)}

	p.Add(ideal, l1, s1, l2, s2)
	p.Legend.Add(LabelTake1, l1, s1)
	p.Legend.Add(LabelTake2, l2, s2)
	p.Legend.Add(LabelIdeal, ideal)

	p.X.Min, p.X.Max = xmin, xmax
	p.Y.Min, p.Y.Max = 0, 110
	return p, nil
}
