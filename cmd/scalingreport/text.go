// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"io"

	"github.com/threadscale/scalingreport/cmd/scalingreport/internal/texttab"
	"github.com/threadscale/scalingreport/scalechart"
	"github.com/threadscale/scalingreport/scalefmt"
	"github.com/threadscale/scalingreport/scalemath"
	"github.com/threadscale/scalingreport/scaleunit"
)

func writeSummary(w io.Writer, s scalemath.Summary) {
	fmt.Fprintf(w, "\nDetailed Analysis:\n")
	fmt.Fprintf(w, "%s - Min time: %s at %d threads\n", scalechart.LabelTake1, scalemath.FormatMicros(s.Take1.Time), s.Take1.Threads)
	fmt.Fprintf(w, "%s - Min time: %s at %d threads\n", scalechart.LabelTake2, scalemath.FormatMicros(s.Take2.Time), s.Take2.Threads)
	fmt.Fprintf(w, "Average speedup of Take 2 over Take 1: %s\n", scalemath.FormatRatio(s.MeanSpeedup))
	fmt.Fprintf(w, "Maximum speedup: %s at %d threads\n", scalemath.FormatRatio(s.MaxSpeedup), s.MaxSpeedupThreads)
	fmt.Fprintf(w, "Geometric mean speedup: %s\n", scalemath.FormatRatio(s.GeoMeanSpeedup))
}

// writeRows prints one line per thread count. Times share one SI
// scale so the column lines up.
func writeRows(w io.Writer, tab *scalefmt.Table, m *scalemath.Metrics) error {
	take1, take2 := tab.Take1(), tab.Take2()
	scaler := scaleunit.MicrosScaler(append(append([]float64(nil), take1...), take2...))
	secs := func(us float64) string {
		return scaler.Format(us/1e6) + "s"
	}

	var t texttab.Table
	t.Row().Cell("Threads").
		Cell("Take 1", texttab.Right).
		Cell("Take 2", texttab.Right).
		Cell("Speedup", texttab.Right).
		Cell("Efficiency 1", texttab.Right).
		Cell("Efficiency 2", texttab.Right)
	for i, n := range tab.Threads() {
		t.Row().Cell(fmt.Sprint(n)).
			Cell(secs(take1[i]), texttab.Right).
			Cell(secs(take2[i]), texttab.Right).
			Cell(scalemath.FormatRatio(m.Speedup[i]), texttab.Right).
			Cell(fmt.Sprintf("%.1f%%", m.Efficiency1[i]), texttab.Right).
			Cell(fmt.Sprintf("%.1f%%", m.Efficiency2[i]), texttab.Right)
	}
	return t.Format(w)
}
