// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Scalingreport charts how two implementations of a parallel workload
// scale with the number of threads.
//
// Usage:
//
//	scalingreport [flags]
//
// The input is a CSV table with one row per sampled thread count:
//
//	Threads,Take1_Time_ms,Take2_Time_ms,Take1_Time_us,Take2_Time_us
//	1,100,50,100231,50112
//	2,60,20,60012,20077
//
// "Take 1" is the implementation suffering from contention (for
// example false sharing) and "Take 2" the optimized one. The
// microsecond columns are optional; without them the millisecond
// columns are converted. Rows may appear in any order.
//
// Scalingreport writes two charts, benchmark_results.png (both
// execution times with the speedup ratio on a secondary axis) and
// efficiency_analysis.png (parallel efficiency relative to the smallest
// thread count), then prints a summary:
//
//	$ scalingreport
//	Converting millisecond data to microseconds
//	Plot has been saved as 'benchmark_results.png'
//	Efficiency analysis plot has been saved as 'efficiency_analysis.png'
//
//	Detailed Analysis:
//	Take 1 (with contention) - Min time: 60000 μs at 2 threads
//	Take 2 (optimized) - Min time: 15000 μs at 4 threads
//	Average speedup of Take 2 over Take 1: 3.22x
//	Maximum speedup: 4.67x at 4 threads
//	Geometric mean speedup: 3.04x
//
// The -rows flag adds a per-thread table. The -csv, -json and -html
// flags write the derived metrics, the summary and a self-contained
// report page. The -db flag archives the run in a SQL database
// (sqlite3 or mysql, chosen by -db-driver), and -gcs-bucket uploads
// everything that was written to Google Cloud Storage.
//
// No file is written unless the whole table is valid: a missing
// column, a malformed row or a non-positive time is reported and
// nothing is produced.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/go-sql-driver/mysql"
	"github.com/threadscale/scalingreport/scalechart"
	"github.com/threadscale/scalingreport/scalefmt"
	"github.com/threadscale/scalingreport/scalemath"
	"github.com/threadscale/scalingreport/storage/db"
	_ "github.com/threadscale/scalingreport/storage/db/sqlite3"
	"github.com/threadscale/scalingreport/storage/gcs"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"
)

var exit = os.Exit // replaced during testing

// errUsage is returned for bad command lines, after the usage
// message has been printed.
var errUsage = errors.New("usage")

func main() {
	log.SetPrefix("scalingreport: ")
	log.SetFlags(0)
	err := scalingreport(os.Stdin, os.Stdout, os.Stderr, os.Args[1:])
	switch {
	case err == nil:
	case errors.Is(err, flag.ErrHelp):
		exit(0)
	case errors.Is(err, errUsage):
		exit(2)
	default:
		log.Print(err)
		exit(1)
	}
}

type config struct {
	input     string
	outDir    string
	chart     string
	effChart  string
	format    string
	dpi       int
	rows      bool
	csv       string
	json      string
	html      string
	dbDriver  string
	dsn       string
	bucket    string
	prefix    string
	creds     string
	show      bool
	gcsClient func(ctx context.Context, bucket, prefix string) (uploader, error)
}

func parseFlags(wErr io.Writer, args []string) (*config, error) {
	var c config
	flags := flag.NewFlagSet("scalingreport", flag.ContinueOnError)
	flags.SetOutput(wErr)
	flags.Usage = func() {
		fmt.Fprintf(wErr, "usage: scalingreport [flags]\n")
		fmt.Fprintf(wErr, "flags:\n")
		flags.PrintDefaults()
	}
	flags.StringVar(&c.input, "i", "benchmark_results.csv", "read results from `file` (- for standard input)")
	flags.StringVar(&c.outDir, "o", ".", "write charts and reports to `dir`")
	flags.StringVar(&c.chart, "chart", "benchmark_results", "base `name` of the execution time chart")
	flags.StringVar(&c.effChart, "efficiency-chart", "efficiency_analysis", "base `name` of the efficiency chart")
	flags.StringVar(&c.format, "format", scalechart.DefaultFormat, "chart image `format`: "+strings.Join(scalechart.Formats, ", "))
	flags.IntVar(&c.dpi, "dpi", scalechart.DefaultDPI, "raster chart resolution in `dots` per inch")
	flags.BoolVar(&c.rows, "rows", false, "print a per-thread table after the summary")
	flags.StringVar(&c.csv, "csv", "", "write the table with derived metrics to `file`")
	flags.StringVar(&c.json, "json", "", "write the summary as JSON to `file`")
	flags.StringVar(&c.html, "html", "", "write an HTML report to `file`")
	flags.StringVar(&c.dbDriver, "db-driver", "sqlite3", "database `driver` for -db: sqlite3 or mysql")
	flags.StringVar(&c.dsn, "db", "", "archive the run in the database at `dsn`")
	flags.StringVar(&c.bucket, "gcs-bucket", "", "upload outputs to Cloud Storage `bucket`")
	flags.StringVar(&c.prefix, "gcs-prefix", "", "object name `prefix` for -gcs-bucket")
	flags.StringVar(&c.creds, "gcs-credentials", "", "service account key `file` for -gcs-bucket")
	flags.BoolVar(&c.show, "show", false, "open the charts in the system image viewer")
	if err := flags.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, err
		}
		return nil, errUsage
	}
	if flags.NArg() > 0 {
		fmt.Fprintf(wErr, "unexpected arguments: %s\n", strings.Join(flags.Args(), " "))
		flags.Usage()
		return nil, errUsage
	}
	known := false
	for _, f := range scalechart.Formats {
		known = known || f == c.format
	}
	if !known {
		fmt.Fprintf(wErr, "unknown -format %q\n", c.format)
		flags.Usage()
		return nil, errUsage
	}
	if c.dpi <= 0 {
		fmt.Fprintf(wErr, "-dpi must be positive\n")
		flags.Usage()
		return nil, errUsage
	}
	return &c, nil
}

func scalingreport(stdin io.Reader, w, wErr io.Writer, args []string) error {
	c, err := parseFlags(wErr, args)
	if err != nil {
		return err
	}
	return run(context.Background(), c, stdin, w)
}

func run(ctx context.Context, c *config, stdin io.Reader, w io.Writer) error {
	var tab *scalefmt.Table
	var err error
	if c.input == "-" {
		tab, err = scalefmt.Read(stdin, "<stdin>")
	} else {
		tab, err = scalefmt.Load(c.input)
	}
	if err != nil {
		return err
	}
	m, err := tab.Metrics()
	if err != nil {
		return fmt.Errorf("%s: %w", tab.FileName, err)
	}

	if tab.Unit == scalefmt.UnitMicro {
		fmt.Fprintf(w, "Using microsecond data from CSV file directly\n")
	} else {
		fmt.Fprintf(w, "Converting millisecond data to microseconds\n")
	}

	// Render everything before writing anything.
	in := scalechart.Input{Threads: tab.Threads(), Take1: tab.Take1(), Take2: tab.Take2(), Metrics: m}
	charts, err := renderCharts(c, in)
	if err != nil {
		return err
	}
	if err := scalechart.WriteFiles(charts); err != nil {
		return err
	}
	fmt.Fprintf(w, "Plot has been saved as '%s'\n", charts[0].Path)
	fmt.Fprintf(w, "Efficiency analysis plot has been saved as '%s'\n", charts[1].Path)

	writeSummary(w, m.Summary)
	if c.rows {
		fmt.Fprintf(w, "\n")
		if err := writeRows(w, tab, m); err != nil {
			return err
		}
	}

	reports, err := renderReports(c, tab, m, charts)
	if err != nil {
		return err
	}
	if len(reports) > 0 {
		if err := scalechart.WriteFiles(reports); err != nil {
			return err
		}
		fmt.Fprintf(w, "\n")
		for _, r := range reports {
			fmt.Fprintf(w, "Report has been saved as '%s'\n", r.Path)
		}
	}

	if c.dsn != "" {
		id, err := archive(ctx, c, tab, m)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "Run has been archived as run %d\n", id)
	}

	if c.bucket != "" {
		urls, err := publish(ctx, c, append(charts, reports...))
		if err != nil {
			return err
		}
		for _, u := range urls {
			fmt.Fprintf(w, "Uploaded %s\n", u)
		}
	}

	if c.show {
		return view(charts[0].Path, charts[1].Path)
	}
	return nil
}

func renderCharts(c *config, in scalechart.Input) ([]scalechart.Artifact, error) {
	times, err := scalechart.Comparison(in)
	if err != nil {
		return nil, err
	}
	eff, err := scalechart.Efficiency(in)
	if err != nil {
		return nil, err
	}
	var arts []scalechart.Artifact
	for _, ch := range []struct {
		name   string
		plot   *plot.Plot
		height vg.Length
	}{
		{c.chart, times, scalechart.ComparisonHeight},
		{c.effChart, eff, scalechart.EfficiencyHeight},
	} {
		data, err := scalechart.Render(ch.plot, scalechart.Options{
			Width:  scalechart.Width,
			Height: ch.height,
			DPI:    c.dpi,
			Format: c.format,
		})
		if err != nil {
			return nil, fmt.Errorf("rendering %s: %w", ch.name, err)
		}
		path := filepath.Join(c.outDir, ch.name+"."+c.format)
		arts = append(arts, scalechart.Artifact{Path: path, Data: data})
	}
	return arts, nil
}

func archive(ctx context.Context, c *config, tab *scalefmt.Table, m *scalemath.Metrics) (int64, error) {
	d, err := db.OpenSQL(c.dbDriver, c.dsn)
	if err != nil {
		return 0, fmt.Errorf("opening archive: %w", err)
	}
	defer d.Close()
	r := db.NewRun(tab.FileName, tab.Unit.String(), tab.Threads(), tab.Take1(), tab.Take2(), m)
	if err := d.InsertRun(ctx, r); err != nil {
		return 0, fmt.Errorf("archiving run: %w", err)
	}
	return r.ID, nil
}

// An uploader publishes files. It is satisfied by *gcs.Uploader.
type uploader interface {
	UploadAll(ctx context.Context, files []gcs.File) ([]string, error)
	Close() error
}

func publish(ctx context.Context, c *config, arts []scalechart.Artifact) ([]string, error) {
	newClient := c.gcsClient
	if newClient == nil {
		newClient = func(ctx context.Context, bucket, prefix string) (uploader, error) {
			return gcs.NewUploader(ctx, bucket, prefix, gcs.CredentialsFile(c.creds)...)
		}
	}
	u, err := newClient(ctx, c.bucket, c.prefix)
	if err != nil {
		return nil, err
	}
	defer u.Close()
	files := make([]gcs.File, len(arts))
	for i, a := range arts {
		files[i] = gcs.File{Name: a.Path, Data: a.Data}
	}
	return u.UploadAll(ctx, files)
}
