// Copyright 2020 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package texttab lays out aligned plain-text tables.
package texttab

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"
)

// Table does layout of text-based tables.
//
// Row and Cell return the Table so callers can easily chain them to
// build up a row at once.
type Table struct {
	rows [][]cell
	// Margin separates adjacent columns. The zero value means two
	// spaces.
	Margin string
}

type cell struct {
	value     string
	alignment align
}

type CellOption func(c *cell)

var (
	Left  CellOption = func(c *cell) { c.alignment = alignLeft }
	Right CellOption = func(c *cell) { c.alignment = alignRight }
)

type align int

const (
	alignLeft align = iota
	alignRight
)

func (a align) pad(s string, w int) string {
	n := w - utf8.RuneCountInString(s)
	if n <= 0 {
		return s
	}
	if a == alignRight {
		return strings.Repeat(" ", n) + s
	}
	return s + strings.Repeat(" ", n)
}

// Row starts a new row in table t.
func (t *Table) Row() *Table {
	t.rows = append(t.rows, nil)
	return t
}

// Cell adds a cell at the end of the current row.
func (t *Table) Cell(value string, opts ...CellOption) *Table {
	if len(t.rows) == 0 {
		t.Row()
	}
	c := cell{value: value}
	for _, o := range opts {
		o(&c)
	}
	r := &t.rows[len(t.rows)-1]
	*r = append(*r, c)
	return t
}

// Format lays out table t and writes it to w. Trailing spaces are
// never printed.
func (t *Table) Format(w io.Writer) error {
	margin := t.Margin
	if margin == "" {
		margin = "  "
	}
	var ws []int
	for _, r := range t.rows {
		for i, c := range r {
			if i >= len(ws) {
				ws = append(ws, 0)
			}
			if n := utf8.RuneCountInString(c.value); n > ws[i] {
				ws[i] = n
			}
		}
	}

	var line strings.Builder
	for _, r := range t.rows {
		line.Reset()
		for i, c := range r {
			if i > 0 {
				line.WriteString(margin)
			}
			line.WriteString(c.alignment.pad(c.value, ws[i]))
		}
		if _, err := fmt.Fprintln(w, strings.TrimRight(line.String(), " ")); err != nil {
			return err
		}
	}
	return nil
}
