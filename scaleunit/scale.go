// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scaleunit

import (
	"fmt"
	"math"
	"strconv"
)

// A Scaler represents a scaling factor for a number and its SI
// prefix.
type Scaler struct {
	Prec   int     // Digits after the decimal point
	Factor float64 // Unscaled value of 1 Prefix (e.g., 1 k => 1000)
	Prefix string  // Unit prefix ("k", "m", "μ", ...)
}

// Format formats val and appends the prefix of s.
// For example, CommonScale([]float64{0.06}).Format(0.06) is "60.00m".
func (s Scaler) Format(val float64) string {
	buf := make([]byte, 0, 20)
	buf = strconv.AppendFloat(buf, val/s.Factor, 'f', s.Prec, 64)
	buf = append(buf, s.Prefix...)
	return string(buf)
}

type prefix struct {
	factor float64
	symbol string
	// Smallest values printed as 100.0, 10.00 and 1.000.
	t100, t10, t1 float64
}

var prefixes = mkPrefixes()

func mkPrefixes() []prefix {
	// The thresholds are parsed from their printed form so that
	// they agree exactly with how AppendFloat rounds.
	var ps []prefix
	exp := 9
	for _, p := range []string{"G", "M", "k", "", "m", "μ", "n"} {
		t100, _ := strconv.ParseFloat(fmt.Sprintf("99.995e%d", exp), 64)
		t10, _ := strconv.ParseFloat(fmt.Sprintf("9.9995e%d", exp), 64)
		t1, _ := strconv.ParseFloat(fmt.Sprintf(".99995e%d", exp), 64)
		ps = append(ps, prefix{math.Pow(10, float64(exp)), p, t100, t10, t1})
		exp -= 3
	}
	return ps
}

// CommonScale returns a Scaler that shows at least three significant
// digits for every value in vals. The scale is chosen by the non-zero
// value closest to zero.
func CommonScale(vals []float64) Scaler {
	var min float64
	for _, v := range vals {
		v = math.Abs(v)
		if v != 0 && (min == 0 || v < min) {
			min = v
		}
	}
	if min == 0 {
		return Scaler{3, 1, ""}
	}
	for _, p := range prefixes {
		switch {
		case min >= p.t100:
			return Scaler{1, p.factor, p.symbol}
		case min >= p.t10:
			return Scaler{2, p.factor, p.symbol}
		case min >= p.t1:
			return Scaler{3, p.factor, p.symbol}
		}
	}
	// Smaller than a nanounit; widen the precision instead.
	last := prefixes[len(prefixes)-1]
	return Scaler{6, last.factor, last.symbol}
}

// Scale formats val with at least three significant digits and an SI
// prefix.
func Scale(val float64) string {
	return CommonScale([]float64{val}).Format(val)
}

// FormatMicros formats a time given in microseconds as seconds with an
// SI prefix, such as "60.00ms" or "1.500s".
func FormatMicros(us float64) string {
	return Scale(us/1e6) + "s"
}

// MicrosScaler returns a Scaler for a column of times in microseconds,
// to be applied to the values converted to seconds.
func MicrosScaler(us []float64) Scaler {
	secs := make([]float64, len(us))
	for i, v := range us {
		secs[i] = v / 1e6
	}
	return CommonScale(secs)
}
