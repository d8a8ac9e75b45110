// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scalemath

import (
	"fmt"

	"github.com/aclements/go-moremath/stats"
	"gonum.org/v1/gonum/floats"
)

// Metrics holds every per-row metric derived from a sweep, plus its
// Summary. The slices are parallel to the input rows.
type Metrics struct {
	Speedup     []float64 // Take1/Take2
	Efficiency1 []float64 // Take 1 efficiency, percent
	Efficiency2 []float64 // Take 2 efficiency, percent

	Summary Summary
}

// A Summary condenses a sweep into the handful of numbers shown next
// to the charts.
type Summary struct {
	MeanSpeedup    float64
	GeoMeanSpeedup float64

	// MaxSpeedup is the largest per-row speedup, observed at
	// MaxSpeedupThreads (first such row on ties).
	MaxSpeedup        float64
	MaxSpeedupThreads int

	// Take1 and Take2 are each approach's fastest run.
	Take1, Take2 Optimum

	// BaseThreads is the smallest sampled thread count, the
	// reference point for efficiency.
	BaseThreads int
}

// Compute derives all metrics for a sweep. take1 and take2 are in
// microseconds. Any non-positive time is a *DomainError.
func Compute(threads []int, take1, take2 []float64) (*Metrics, error) {
	if err := checkLen(len(threads), len(take1)); err != nil {
		return nil, err
	}
	speedup, err := Speedup(take1, take2)
	if err != nil {
		return nil, err
	}
	eff1, err := Efficiency(threads, take1)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", Take1Column, err)
	}
	eff2, err := Efficiency(threads, take2)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", Take2Column, err)
	}

	m := &Metrics{Speedup: speedup, Efficiency1: eff1, Efficiency2: eff2}
	s := &m.Summary
	s.MeanSpeedup = stats.Mean(speedup)
	s.GeoMeanSpeedup = stats.GeoMean(speedup)
	imax := floats.MaxIdx(speedup)
	s.MaxSpeedup, s.MaxSpeedupThreads = speedup[imax], threads[imax]
	// Lengths were checked above; Optimal cannot fail.
	s.Take1, _ = Optimal(threads, take1)
	s.Take2, _ = Optimal(threads, take2)
	s.BaseThreads = threads[Base(threads)]
	return m, nil
}

// FormatRatio formats a speedup the way reports print it, e.g. "3.22x".
func FormatRatio(r float64) string {
	return fmt.Sprintf("%.2fx", r)
}

// FormatMicros formats a time in whole microseconds, truncating any
// fraction, e.g. "60000 μs".
func FormatMicros(us float64) string {
	return fmt.Sprintf("%d μs", int64(us))
}
