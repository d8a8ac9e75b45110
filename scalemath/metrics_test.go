// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scalemath

import (
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

var approx = cmpopts.EquateApprox(0, 1e-9)

// The sweep from the report's documentation: 1, 2 and 4 threads.
var (
	exThreads = []int{1, 2, 4}
	exTake1   = []float64{100000, 60000, 70000}
	exTake2   = []float64{50000, 20000, 15000}
)

func TestCompute(t *testing.T) {
	m, err := Compute(exThreads, exTake1, exTake2)
	if err != nil {
		t.Fatal(err)
	}

	if diff := cmp.Diff([]float64{2, 3, 70000.0 / 15000}, m.Speedup, approx); diff != "" {
		t.Errorf("speedup mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]float64{100, 100000.0 / 120000 * 100, 100000.0 / 280000 * 100}, m.Efficiency1, approx); diff != "" {
		t.Errorf("take 1 efficiency mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]float64{100, 125, 50000.0 / 60000 * 100}, m.Efficiency2, approx); diff != "" {
		t.Errorf("take 2 efficiency mismatch (-want +got):\n%s", diff)
	}

	want := Summary{
		MeanSpeedup:       (2 + 3 + 70000.0/15000) / 3,
		GeoMeanSpeedup:    math.Cbrt(28),
		MaxSpeedup:        70000.0 / 15000,
		MaxSpeedupThreads: 4,
		Take1:             Optimum{2, 60000},
		Take2:             Optimum{4, 15000},
		BaseThreads:       1,
	}
	if diff := cmp.Diff(want, m.Summary, approx); diff != "" {
		t.Errorf("summary mismatch (-want +got):\n%s", diff)
	}
	if got := FormatRatio(m.Summary.MeanSpeedup); got != "3.22x" {
		t.Errorf("mean speedup prints as %s, want 3.22x", got)
	}
	if got := FormatRatio(m.Summary.MaxSpeedup); got != "4.67x" {
		t.Errorf("max speedup prints as %s, want 4.67x", got)
	}
}

func TestEfficiencyBaseIsHundred(t *testing.T) {
	for _, test := range []struct {
		threads []int
		times   []float64
	}{
		{[]int{1, 2, 4}, []float64{3, 2, 1}},
		{[]int{8, 2, 4}, []float64{0.7, 1.3, 1.1}},
		{[]int{3}, []float64{123.456}},
		{[]int{2, 3, 5, 7, 11}, []float64{1e-3, 7e5, 13, 0.333, 42}},
	} {
		eff, err := Efficiency(test.threads, test.times)
		if err != nil {
			t.Fatal(err)
		}
		b := Base(test.threads)
		if eff[b] != 100 {
			t.Errorf("Efficiency(%v, %v)[base] = %v, want exactly 100", test.threads, test.times, eff[b])
		}
	}
}

func TestEfficiencyNotClamped(t *testing.T) {
	// Superlinear: 4 threads take a sixth of the 1 thread time.
	eff, err := Efficiency([]int{1, 4}, []float64{600, 100})
	if err != nil {
		t.Fatal(err)
	}
	if eff[1] != 150 {
		t.Errorf("superlinear efficiency = %v, want 150", eff[1])
	}
}

func TestOptimal(t *testing.T) {
	naive := func(threads []int, times []float64) Optimum {
		best := 0
		for i := range times {
			if times[i] < times[best] {
				best = i
			}
		}
		return Optimum{threads[best], times[best]}
	}
	for _, test := range []struct {
		threads []int
		times   []float64
		want    Optimum
	}{
		{exThreads, exTake1, Optimum{2, 60000}},
		{exThreads, exTake2, Optimum{4, 15000}},
		// Ties resolve to the first row.
		{[]int{2, 4, 8, 16}, []float64{9, 5, 7, 5}, Optimum{4, 5}},
		{[]int{2, 3}, []float64{1, 1}, Optimum{2, 1}},
	} {
		got, err := Optimal(test.threads, test.times)
		if err != nil {
			t.Fatal(err)
		}
		if got != test.want {
			t.Errorf("Optimal(%v, %v) = %+v, want %+v", test.threads, test.times, got, test.want)
		}
		if n := naive(test.threads, test.times); got != n {
			t.Errorf("Optimal(%v, %v) = %+v, linear scan found %+v", test.threads, test.times, got, n)
		}
	}
}

func TestDomainErrors(t *testing.T) {
	for _, test := range []struct {
		name   string
		take1  []float64
		take2  []float64
		column string
		row    int
	}{
		{"zero take2", []float64{1, 2}, []float64{1, 0}, Take2Column, 1},
		{"negative take2", []float64{1, 2}, []float64{-3, 1}, Take2Column, 0},
		{"NaN take2", []float64{1, 2}, []float64{1, math.NaN()}, Take2Column, 1},
		{"zero take1", []float64{0, 2}, []float64{1, 1}, Take1Column, 0},
	} {
		t.Run(test.name, func(t *testing.T) {
			_, err := Compute([]int{1, 2}, test.take1, test.take2)
			var de *DomainError
			if !errors.As(err, &de) {
				t.Fatalf("Compute error = %v, want *DomainError", err)
			}
			if de.Column != test.column || de.Row != test.row {
				t.Errorf("DomainError at %s row %d, want %s row %d", de.Column, de.Row, test.column, test.row)
			}
		})
	}
}

func TestComputeEmpty(t *testing.T) {
	if _, err := Compute(nil, nil, nil); err == nil {
		t.Errorf("Compute on an empty sweep succeeded")
	}
}

func TestFormatMicros(t *testing.T) {
	for _, test := range []struct {
		us   float64
		want string
	}{
		{60000, "60000 μs"},
		{15000.9, "15000 μs"},
		{0.5, "0 μs"},
	} {
		if got := FormatMicros(test.us); got != test.want {
			t.Errorf("FormatMicros(%v) = %q, want %q", test.us, got, test.want)
		}
	}
}
