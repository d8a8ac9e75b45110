// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scalechart

import (
	"bytes"
	"fmt"
	"image/color"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
	"gonum.org/v1/plot/vg/vgpdf"
	"gonum.org/v1/plot/vg/vgsvg"
)

// Chart sizes and defaults.
const (
	Width            = 14 * vg.Inch
	ComparisonHeight = 10 * vg.Inch
	EfficiencyHeight = 8 * vg.Inch

	DefaultDPI     = 300
	DefaultPadding = vg.Inch / 2
	DefaultFormat  = "png"
)

// Formats lists the image formats Render supports.
var Formats = []string{"png", "svg", "pdf"}

// Options control how a plot is rendered.
type Options struct {
	Width, Height vg.Length

	// DPI applies to raster formats. Zero means DefaultDPI.
	DPI int

	// Format is one of Formats. Empty means DefaultFormat.
	Format string

	// Padding is white space around the chart. Zero means
	// DefaultPadding; use a negative value for none.
	Padding vg.Length
}

// Render draws p on a white page of the given size and returns the
// encoded image.
func Render(p *plot.Plot, opts Options) ([]byte, error) {
	if opts.Width <= 0 || opts.Height <= 0 {
		return nil, fmt.Errorf("bad chart size %vx%v", opts.Width, opts.Height)
	}
	if opts.DPI == 0 {
		opts.DPI = DefaultDPI
	}
	if opts.Format == "" {
		opts.Format = DefaultFormat
	}
	if opts.Padding == 0 {
		opts.Padding = DefaultPadding
	} else if opts.Padding < 0 {
		opts.Padding = 0
	}

	var can vg.CanvasWriterTo
	switch opts.Format {
	case "png":
		can = vgimg.PngCanvas{Canvas: vgimg.NewWith(vgimg.UseWH(opts.Width, opts.Height),
			vgimg.UseDPI(opts.DPI), vgimg.UseBackgroundColor(color.White))}
	case "svg":
		can = vgsvg.New(opts.Width, opts.Height)
	case "pdf":
		can = vgpdf.New(opts.Width, opts.Height)
	default:
		return nil, fmt.Errorf("unknown image format %q", opts.Format)
	}

	dc := draw.New(can)
	dc.SetColor(color.White)
	dc.Fill(dc.Rectangle.Path())
	pad := opts.Padding
	p.Draw(draw.Crop(dc, pad, -pad, pad, -pad))

	var buf bytes.Buffer
	if _, err := can.WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// An Artifact is a rendered chart and the file it belongs in.
type Artifact struct {
	Path string
	Data []byte
}

// WriteFiles writes every artifact to its path, replacing existing
// files. Each artifact is first written to a temporary file next to
// its destination; only when all of them have been written are they
// renamed into place. On error no destination is touched, unless a
// rename itself fails.
func WriteFiles(arts []Artifact) error {
	var tmps []string
	cleanup := func() {
		for _, name := range tmps {
			os.Remove(name)
		}
	}
	for _, a := range arts {
		f, err := os.CreateTemp(filepath.Dir(a.Path), "."+filepath.Base(a.Path)+".*")
		if err != nil {
			cleanup()
			return err
		}
		tmps = append(tmps, f.Name())
		_, err = f.Write(a.Data)
		if err == nil {
			err = f.Chmod(0644)
		}
		if cerr := f.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			cleanup()
			return fmt.Errorf("writing %s: %w", a.Path, err)
		}
	}
	for i, a := range arts {
		if err := os.Rename(tmps[i], a.Path); err != nil {
			cleanup()
			return err
		}
	}
	return nil
}
