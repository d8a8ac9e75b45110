// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scalefmt

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/aclements/go-gg/table"
	"github.com/threadscale/scalingreport/scaleunit"
)

// ErrMissingColumns is wrapped by the SyntaxError returned when a
// table has no Threads column or neither complete time-unit pair.
var ErrMissingColumns = errors.New("missing required columns")

// A SyntaxError represents a syntax error on a particular line of a
// result table.
type SyntaxError struct {
	FileName string
	Line     int
	Msg      string
	Err      error // underlying cause, if any
}

func (e *SyntaxError) Pos() (fileName string, line int) {
	return e.FileName, e.Line
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s:%d: %s", e.FileName, e.Line, e.Msg)
}

func (e *SyntaxError) Unwrap() error {
	return e.Err
}

// Load reads the result table at path.
func Load(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Read(f, path)
}

// layout is the position of each known column in the header, or -1.
type layout struct {
	threads, ms1, ms2, us1, us2 int
}

func (l layout) hasMS() bool { return l.ms1 >= 0 && l.ms2 >= 0 }
func (l layout) hasUS() bool { return l.us1 >= 0 && l.us2 >= 0 }

func parseHeader(rec []string) layout {
	l := layout{-1, -1, -1, -1, -1}
	for i, name := range rec {
		if i == 0 {
			name = strings.TrimPrefix(name, "\ufeff")
		}
		switch strings.TrimSpace(name) {
		case ColThreads:
			l.threads = i
		case ColTake1MS:
			l.ms1 = i
		case ColTake2MS:
			l.ms2 = i
		case ColTake1US:
			l.us1 = i
		case ColTake2US:
			l.us2 = i
		}
	}
	return l
}

// Read parses a result table from r. fileName is used in error
// messages; it is purely diagnostic.
func Read(r io.Reader, fileName string) (*Table, error) {
	if fileName == "" {
		fileName = "<unknown>"
	}
	cr := csv.NewReader(r)
	// Ragged rows are reported per line below.
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	syntaxErr := func(line int, err error, format string, args ...interface{}) *SyntaxError {
		return &SyntaxError{fileName, line, fmt.Sprintf(format, args...), err}
	}
	csvErr := func(err error) error {
		var pe *csv.ParseError
		if errors.As(err, &pe) {
			return syntaxErr(pe.Line, err, "%v", pe.Err)
		}
		return err
	}

	header, err := cr.Read()
	if err == io.EOF {
		return nil, syntaxErr(1, ErrMissingColumns, "empty table")
	} else if err != nil {
		return nil, csvErr(err)
	}
	l := parseHeader(header)
	if l.threads < 0 {
		return nil, syntaxErr(1, ErrMissingColumns, "no %s column", ColThreads)
	}
	if !l.hasMS() && !l.hasUS() {
		return nil, syntaxErr(1, ErrMissingColumns, "need %s/%s or %s/%s columns", ColTake1MS, ColTake2MS, ColTake1US, ColTake2US)
	}

	var (
		threads  []int
		ms1, ms2 []float64
		us1, us2 []float64

		converted bool // some row had no microsecond times
	)
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		} else if err != nil {
			return nil, csvErr(err)
		}
		line, _ := cr.FieldPos(0)

		cell := func(col int) string {
			if col < 0 || col >= len(rec) {
				return ""
			}
			return strings.TrimSpace(rec[col])
		}
		number := func(col int, name string) (float64, bool, error) {
			s := cell(col)
			if s == "" {
				return math.NaN(), false, nil
			}
			v, err := strconv.ParseFloat(s, 64)
			if err != nil {
				return 0, false, syntaxErr(line, err, "%s: bad number %q", name, s)
			}
			return v, true, nil
		}

		s := cell(l.threads)
		n, err := strconv.Atoi(s)
		if err != nil {
			return nil, syntaxErr(line, err, "%s: bad thread count %q", ColThreads, s)
		}
		if n <= 0 {
			return nil, syntaxErr(line, nil, "%s: thread count %d must be positive", ColThreads, n)
		}

		m1, okm1, err := number(l.ms1, ColTake1MS)
		if err != nil {
			return nil, err
		}
		m2, okm2, err := number(l.ms2, ColTake2MS)
		if err != nil {
			return nil, err
		}
		u1, oku1, err := number(l.us1, ColTake1US)
		if err != nil {
			return nil, err
		}
		u2, oku2, err := number(l.us2, ColTake2US)
		if err != nil {
			return nil, err
		}
		switch {
		case oku1 && oku2:
		case okm1 && okm2:
			converted = true
			u1, _ = scaleunit.Tidy(m1, "ms")
			u2, _ = scaleunit.Tidy(m2, "ms")
		default:
			return nil, syntaxErr(line, ErrMissingColumns, "row has neither %s/%s nor %s/%s", ColTake1MS, ColTake2MS, ColTake1US, ColTake2US)
		}

		threads = append(threads, n)
		ms1, ms2 = append(ms1, m1), append(ms2, m2)
		us1, us2 = append(us1, u1), append(us2, u2)
	}
	if len(threads) == 0 {
		return nil, syntaxErr(1, nil, "no data rows")
	}

	// Build the table as read, then add the microsecond columns.
	var src table.Builder
	src.Add(ColThreads, threads)
	if l.hasMS() {
		src.Add(ColTake1MS, ms1).Add(ColTake2MS, ms2)
	}
	t := table.NewBuilder(src.Done()).Add(ColTake1US, us1).Add(ColTake2US, us2).Done()

	unit := UnitMicro
	if converted {
		unit = UnitMilli
	}
	return &Table{FileName: fileName, Unit: unit, data: sortByThreads(t)}, nil
}
