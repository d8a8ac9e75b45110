// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scalefmt

import (
	"encoding/csv"
	"fmt"
	"io"
	"reflect"
	"strconv"

	"github.com/threadscale/scalingreport/scalemath"
)

// WriteCSV writes t together with the derived metrics m to w as CSV.
// The columns are Threads, both microsecond times, Speedup and the
// two efficiency percentages.
func WriteCSV(w io.Writer, t *Table, m *scalemath.Metrics) error {
	if len(m.Speedup) != t.Len() {
		return fmt.Errorf("metrics have %d rows, table has %d", len(m.Speedup), t.Len())
	}
	data := t.WithMetrics(m)
	cols := data.Columns()

	cw := csv.NewWriter(w)
	if err := cw.Write(cols); err != nil {
		return err
	}
	rec := make([]string, len(cols))
	for i := 0; i < data.Len(); i++ {
		for j, name := range cols {
			switch col := data.MustColumn(name).(type) {
			case []int:
				rec[j] = strconv.Itoa(col[i])
			case []float64:
				rec[j] = strconv.FormatFloat(col[i], 'f', -1, 64)
			default:
				rec[j] = fmt.Sprint(reflect.ValueOf(col).Index(i))
			}
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
