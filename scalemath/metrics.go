// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package scalemath derives scaling metrics from a thread-count sweep
// of two competing implementations.
//
// The inputs are parallel slices: thread counts and, for each
// approach, the measured time at that thread count. Take 1 is the
// baseline (the implementation suffering from contention) and Take 2
// the optimized one. All times are in microseconds and must be
// positive; a non-positive time is reported as a *DomainError rather
// than producing an infinite or negative ratio.
package scalemath

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
)

// A DomainError reports a time that makes a metric undefined.
type DomainError struct {
	Column string  // Which time series, e.g. "Take2_Time_us"
	Row    int     // 0-based data row
	Value  float64 // The offending value
}

func (e *DomainError) Error() string {
	return fmt.Sprintf("%s in row %d is %v; times must be positive", e.Column, e.Row, e.Value)
}

// Column names used in DomainErrors.
const (
	Take1Column = "Take1_Time_us"
	Take2Column = "Take2_Time_us"
)

func checkPositive(col string, times []float64) error {
	for i, v := range times {
		// Written as !(v > 0) to also reject NaN.
		if !(v > 0) {
			return &DomainError{col, i, v}
		}
	}
	return nil
}

func checkLen(a, b int) error {
	if a != b {
		return fmt.Errorf("length mismatch: %d vs %d rows", a, b)
	}
	if a == 0 {
		return fmt.Errorf("no rows")
	}
	return nil
}

// Speedup returns take1[i]/take2[i] for every row. A ratio above 1
// means Take 2 is faster.
func Speedup(take1, take2 []float64) ([]float64, error) {
	if err := checkLen(len(take1), len(take2)); err != nil {
		return nil, err
	}
	if err := checkPositive(Take2Column, take2); err != nil {
		return nil, err
	}
	if err := checkPositive(Take1Column, take1); err != nil {
		return nil, err
	}
	return floats.DivTo(make([]float64, len(take1)), take1, take2), nil
}

// Base returns the index of the row with the smallest thread count.
// Ties resolve to the first such row.
func Base(threads []int) int {
	base := 0
	for i, n := range threads {
		if n < threads[base] {
			base = i
		}
	}
	return base
}

// Efficiency returns the parallel efficiency of every row as a
// percentage of ideal linear scaling from the smallest sampled thread
// count:
//
//	(baseTime * baseThreads) / (threads * time) * 100
//
// The base row always has an efficiency of exactly 100. Values above
// 100 (superlinear scaling) are returned as is.
func Efficiency(threads []int, times []float64) ([]float64, error) {
	if err := checkLen(len(threads), len(times)); err != nil {
		return nil, err
	}
	if err := checkPositive("time", times); err != nil {
		return nil, err
	}
	for i, n := range threads {
		if n <= 0 {
			return nil, fmt.Errorf("thread count in row %d is %d; must be positive", i, n)
		}
	}
	b := Base(threads)
	work := times[b] * float64(threads[b])
	eff := make([]float64, len(times))
	for i, t := range times {
		eff[i] = work / (float64(threads[i]) * t) * 100
	}
	return eff, nil
}

// An Optimum is the thread count at which an approach ran fastest.
type Optimum struct {
	Threads int
	Time    float64 // microseconds
}

// Optimal returns the row minimizing times. Ties resolve to the first
// occurrence in row order.
func Optimal(threads []int, times []float64) (Optimum, error) {
	if err := checkLen(len(threads), len(times)); err != nil {
		return Optimum{}, err
	}
	i := floats.MinIdx(times)
	return Optimum{threads[i], times[i]}, nil
}
