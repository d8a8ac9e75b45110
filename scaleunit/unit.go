// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package scaleunit converts the time units found in thread-scaling
// results into a common base unit and formats times for display.
//
// All times inside a report are held in microseconds (Micro). Input
// files may carry milliseconds, in which case the loader tidies them
// with Tidy before any arithmetic happens.
package scaleunit

import (
	"fmt"
	"strings"
)

// Micro is the base unit of every time in a report.
const Micro = "us"

// Symbol is how the base unit is printed to people.
const Symbol = "μs"

// factors maps a unit suffix to the factor that converts a value in
// that unit into microseconds.
var factors = map[string]float64{
	"ns":  1e-3,
	"us":  1,
	"μs":  1, // GREEK SMALL LETTER MU
	"µs":  1, // MICRO SIGN
	"ms":  1e3,
	"s":   1e6,
	"sec": 1e6,
}

// Factor returns the multiplicative factor that converts a value in
// unit to microseconds. It reports false for an unknown unit.
func Factor(unit string) (float64, bool) {
	f, ok := factors[strings.TrimSpace(unit)]
	return f, ok
}

// Tidy converts value, measured in unit, to microseconds.
// For example, Tidy(60, "ms") returns 60000.
func Tidy(value float64, unit string) (float64, error) {
	f, ok := Factor(unit)
	if !ok {
		return 0, fmt.Errorf("unknown time unit %q", unit)
	}
	if f == 1 {
		return value, nil
	}
	return value * f, nil
}

// TidyAll converts vals, measured in unit, to microseconds in place.
func TidyAll(vals []float64, unit string) error {
	f, ok := Factor(unit)
	if !ok {
		return fmt.Errorf("unknown time unit %q", unit)
	}
	for i := range vals {
		vals[i] *= f
	}
	return nil
}
