// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scalechart

import (
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// A secondaryAxis is a y axis drawn along the right edge of the data
// area. Its values are mapped linearly onto the primary y range so
// that ordinary plotters can draw them.
type secondaryAxis struct {
	label string

	min, max   float64 // secondary range
	ymin, ymax float64 // primary range it is mapped onto

	ticks    []plot.Tick
	line     draw.LineStyle
	tickLen  vg.Length
	tickText text.Style
	text     text.Style
}

func newSecondaryAxis(label string, vals []float64, ymin, ymax float64, p *plot.Plot) *secondaryAxis {
	lo, hi := span(vals)
	lo, hi = pad(lo, hi, 0.05, 0.05*math.Abs(hi)+0.05)

	a := &secondaryAxis{
		label:   label,
		min:     lo,
		max:     hi,
		ymin:    ymin,
		ymax:    ymax,
		line:    p.Y.LineStyle,
		tickLen: p.Y.Tick.Length,
	}
	for _, t := range (plot.DefaultTicks{}).Ticks(lo, hi) {
		if !t.IsMinor() {
			a.ticks = append(a.ticks, t)
		}
	}

	a.tickText = p.Y.Tick.Label
	a.tickText.Color = colorSpeedup
	a.tickText.XAlign = draw.XLeft
	a.tickText.YAlign = draw.YCenter

	a.text = p.Y.Label.TextStyle
	a.text.Color = colorSpeedup
	a.text.Rotation = math.Pi / 2
	a.text.XAlign = draw.XCenter
	a.text.YAlign = draw.YTop
	return a
}

// toPrimary maps v from the secondary range onto the primary one.
func (a *secondaryAxis) toPrimary(v float64) float64 {
	return a.ymin + (v-a.min)/(a.max-a.min)*(a.ymax-a.ymin)
}

func (a *secondaryAxis) mapXYs(threads []int, vals []float64) plotter.XYs {
	xys := make(plotter.XYs, len(threads))
	for i, n := range threads {
		xys[i] = plotter.XY{X: float64(n), Y: a.toPrimary(vals[i])}
	}
	return xys
}

func (a *secondaryAxis) gap() vg.Length {
	return a.tickText.Width(" ")
}

func (a *secondaryAxis) tickLabelWidth() vg.Length {
	var w vg.Length
	for _, t := range a.ticks {
		if tw := a.tickText.Width(t.Label); tw > w {
			w = tw
		}
	}
	return w
}

// width is the space taken right of the data area.
func (a *secondaryAxis) width() vg.Length {
	return a.tickLen + 2*a.gap() + a.tickLabelWidth() + a.text.Height(a.label)
}

// Plot implements the plot.Plotter interface.
func (a *secondaryAxis) Plot(c draw.Canvas, plt *plot.Plot) {
	_, trY := plt.Transforms(&c)
	x := c.Max.X
	c.StrokeLine2(a.line, x, c.Min.Y, x, c.Max.Y)
	for _, t := range a.ticks {
		y := trY(a.toPrimary(t.Value))
		if !c.ContainsY(y) {
			continue
		}
		c.StrokeLine2(a.line, x, y, x+a.tickLen, y)
		c.FillText(a.tickText, vg.Point{X: x + a.tickLen + a.gap(), Y: y}, t.Label)
	}
	lx := x + a.tickLen + 2*a.gap() + a.tickLabelWidth()
	c.FillText(a.text, vg.Point{X: lx, Y: c.Center().Y}, a.label)
}

// GlyphBoxes implements the plot.GlyphBoxer interface. The box
// reserves room for the axis right of the data area.
func (a *secondaryAxis) GlyphBoxes(*plot.Plot) []plot.GlyphBox {
	return []plot.GlyphBox{{
		X:         1,
		Y:         0.5,
		Rectangle: vg.Rectangle{Max: vg.Point{X: a.width()}},
	}}
}
