// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package scalefmt reads and writes thread-scaling result tables.
//
// A result table is a CSV file with one row per sampled thread count:
//
//	Threads,Take1_Time_ms,Take2_Time_ms,Take1_Time_us,Take2_Time_us
//	2,61,20,61234,20345
//	4,70,15,70012,15101
//
// Every row must carry the millisecond pair or the microsecond pair.
// When the microsecond columns are absent, or a row leaves them blank,
// they are derived from the millisecond columns. Rows are returned in
// ascending thread order; rows with equal thread counts keep the order
// in which they appear in the file.
package scalefmt

import (
	"github.com/aclements/go-gg/table"
	"github.com/threadscale/scalingreport/scalemath"
)

// Column names of a result table.
const (
	ColThreads = "Threads"
	ColTake1MS = "Take1_Time_ms"
	ColTake2MS = "Take2_Time_ms"
	ColTake1US = "Take1_Time_us"
	ColTake2US = "Take2_Time_us"

	// Derived columns, present only in exported tables.
	ColSpeedup     = "Speedup"
	ColEfficiency1 = "Efficiency_Take1_pct"
	ColEfficiency2 = "Efficiency_Take2_pct"
)

// Unit records where a table's microsecond times came from.
type Unit int

const (
	// UnitMicro means every row supplied microsecond times.
	UnitMicro Unit = iota
	// UnitMilli means at least one row's microsecond times were
	// converted from its millisecond columns.
	UnitMilli
)

func (u Unit) String() string {
	switch u {
	case UnitMicro:
		return "us"
	case UnitMilli:
		return "ms"
	}
	return "Unit(?)"
}

// A Table is a loaded result table. Its times are in microseconds.
type Table struct {
	// FileName is the name the table was read from, for
	// diagnostics.
	FileName string

	// Unit is UnitMilli if the microsecond columns were
	// synthesized from milliseconds.
	Unit Unit

	data *table.Table
}

// New returns a Table over the given rows, sorted by thread count.
// take1 and take2 are in microseconds.
func New(threads []int, take1, take2 []float64) *Table {
	var b table.Builder
	b.Add(ColThreads, threads).Add(ColTake1US, take1).Add(ColTake2US, take2)
	return &Table{Unit: UnitMicro, data: sortByThreads(b.Done())}
}

func sortByThreads(t *table.Table) *table.Table {
	return table.Flatten(table.SortBy(t, ColThreads))
}

// Len returns the number of rows in t.
func (t *Table) Len() int {
	return t.data.Len()
}

// Columns returns the column names of t in order.
func (t *Table) Columns() []string {
	return t.data.Columns()
}

// Threads returns the thread count of each row.
func (t *Table) Threads() []int {
	return t.data.MustColumn(ColThreads).([]int)
}

// Take1 returns the Take 1 time of each row, in microseconds.
func (t *Table) Take1() []float64 {
	return t.data.MustColumn(ColTake1US).([]float64)
}

// Take2 returns the Take 2 time of each row, in microseconds.
func (t *Table) Take2() []float64 {
	return t.data.MustColumn(ColTake2US).([]float64)
}

// Data returns the underlying column table.
func (t *Table) Data() *table.Table {
	return t.data
}

// Metrics computes the derived metrics of t.
func (t *Table) Metrics() (*scalemath.Metrics, error) {
	return scalemath.Compute(t.Threads(), t.Take1(), t.Take2())
}

// WithMetrics returns the export view of t: thread counts, both
// microsecond times and the derived columns from m.
func (t *Table) WithMetrics(m *scalemath.Metrics) *table.Table {
	var b table.Builder
	b.Add(ColThreads, t.Threads())
	b.Add(ColTake1US, t.Take1())
	b.Add(ColTake2US, t.Take2())
	b.Add(ColSpeedup, m.Speedup)
	b.Add(ColEfficiency1, m.Efficiency1)
	b.Add(ColEfficiency2, m.Efficiency2)
	return b.Done()
}
