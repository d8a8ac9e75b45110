// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scalechart

import (
	"fmt"
	"image/color"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/threadscale/scalingreport/scalemath"
)

// panel fills the data area.
type panel struct {
	color color.Color
}

func (p panel) Plot(c draw.Canvas, _ *plot.Plot) {
	c.SetColor(p.color)
	c.Fill(c.Rectangle.Path())
}

// An annotation points an arrow at an approach's fastest run and
// labels it.
type annotation struct {
	at    scalemath.Optimum
	color color.Color
	text  string
}

func newAnnotation(opt scalemath.Optimum, clr color.Color) *annotation {
	return &annotation{
		at:    opt,
		color: clr,
		text:  fmt.Sprintf("Optimal: %d threads (%s)", opt.Threads, scalemath.FormatMicros(opt.Time)),
	}
}

// OptimalLabel returns the annotation text for opt.
func OptimalLabel(opt scalemath.Optimum) string {
	return newAnnotation(opt, nil).text
}

const (
	arrowWidth = 1.5 // points
	headLength = 8
	headWidth  = 7
	boxPadding = 3
)

// Plot implements the plot.Plotter interface.
func (a *annotation) Plot(c draw.Canvas, plt *plot.Plot) {
	trX, trY := plt.Transforms(&c)
	x, y := float64(a.at.Threads), a.at.Time

	// The label sits one thread to the right and a little above the
	// point, mirrored when that would leave the axes.
	dx := 1.0
	if x+dx > plt.X.Max {
		dx = -dx
	}
	dy := 0.08 * (plt.Y.Max - plt.Y.Min)
	if y+dy > plt.Y.Max {
		dy = -dy
	}
	tip := vg.Point{X: trX(x), Y: trY(y)}
	from := vg.Point{X: trX(x + dx), Y: trY(y + dy)}

	// Stop short of the point so the marker stays visible.
	tip = from.Add(tip.Sub(from).Scale(0.95))
	drawArrow(&c, a.color, from, tip)

	sty := plt.Legend.TextStyle
	sty.Font.Size = 11
	sty.Color = a.color
	sty.XAlign = draw.XCenter
	sty.YAlign = draw.YCenter
	drawBox(&c, sty, from, a.text, color.NRGBA{0xff, 0xff, 0xff, 0xcc}, a.color)
}

func drawArrow(c *draw.Canvas, clr color.Color, from, tip vg.Point) {
	d := tip.Sub(from)
	l := vg.Length(math.Hypot(float64(d.X), float64(d.Y)))
	if l == 0 {
		return
	}
	u := d.Scale(1 / l)
	hl := vg.Points(headLength)
	if hl > l {
		hl = l
	}
	base := tip.Sub(u.Scale(hl))
	n := vg.Point{X: -u.Y, Y: u.X}.Scale(vg.Points(headWidth) / 2)

	c.StrokeLine2(draw.LineStyle{Color: clr, Width: vg.Points(arrowWidth)}, from.X, from.Y, base.X, base.Y)
	c.FillPolygon(clr, []vg.Point{tip, base.Add(n), base.Sub(n)})
}

// drawBox draws txt at pt over a filled, outlined box.
func drawBox(c *draw.Canvas, sty text.Style, pt vg.Point, txt string, fill, edge color.Color) {
	r := sty.Rectangle(txt).Add(pt)
	pad := vg.Point{X: vg.Points(boxPadding), Y: vg.Points(boxPadding)}
	r.Min = r.Min.Sub(pad)
	r.Max = r.Max.Add(pad)

	c.SetColor(fill)
	c.Fill(r.Path())
	c.SetLineStyle(draw.LineStyle{Color: edge, Width: vg.Points(1)})
	c.Stroke(r.Path())
	c.FillText(sty, pt, txt)
}

// A textBox is a block of text placed at a fixed fraction of the
// data area, regardless of the data.
type textBox struct {
	text   string
	fx, fy float64 // position of the box's bottom center
}

func newTextBox(txt string, fx, fy float64) *textBox {
	return &textBox{text: txt, fx: fx, fy: fy}
}

// Plot implements the plot.Plotter interface.
func (b *textBox) Plot(c draw.Canvas, plt *plot.Plot) {
	sty := plt.Legend.TextStyle
	sty.Font.Size = 11
	sty.Color = color.Black
	sty.XAlign = draw.XCenter
	sty.YAlign = draw.YBottom

	pt := vg.Point{X: c.X(b.fx), Y: c.Y(b.fy) + vg.Points(2*boxPadding)}
	drawBox(&c, sty, pt, b.text, color.NRGBA{0xff, 0xff, 0xff, 0xe6}, color.Gray{Y: 0x80})
}
