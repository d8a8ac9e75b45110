// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/threadscale/scalingreport/internal/diff"
	"github.com/threadscale/scalingreport/scalefmt"
	"github.com/threadscale/scalingreport/scalemath"
	"github.com/threadscale/scalingreport/storage/db"
	"github.com/threadscale/scalingreport/storage/gcs"
)

// Charts are rendered at a low resolution to keep the tests fast.
const lowDPI = "-dpi=20"

// testdata is resolved before any test changes directory.
var testdata = func() string {
	dir, err := filepath.Abs("testdata")
	if err != nil {
		panic(err)
	}
	return dir
}()

func TestDefaults(t *testing.T) {
	for _, test := range []struct{ name, input string }{
		{"ms", "ms.csv"},
		{"us", "us.csv"},
		// Row order in the file does not matter.
		{"ms", "unordered.csv"},
		// Rows falling back to ms make the whole table converted.
		{"mixed", "mixed.csv"},
	} {
		t.Run(test.input, func(t *testing.T) {
			golden(t, test.name, test.input, lowDPI)
		})
	}
}

func TestRows(t *testing.T) {
	golden(t, "rows", "ms.csv", lowDPI, "-rows")
}

func TestStdin(t *testing.T) {
	in, err := os.Open(filepath.Join(testdata, "ms.csv"))
	if err != nil {
		t.Fatal(err)
	}
	defer in.Close()
	chdirTemp(t)

	var got bytes.Buffer
	if err := scalingreport(in, &got, os.Stderr, []string{lowDPI, "-i", "-"}); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	compare(t, filepath.Join(testdata, "ms"), "stdout", got.Bytes())
}

func TestErrors(t *testing.T) {
	for _, test := range []struct {
		name  string
		input string
		check func(error) bool
	}{
		{"missing file", "nonexistent.csv", func(err error) bool { return errors.Is(err, fs.ErrNotExist) }},
		{"missing columns", "missing.csv", func(err error) bool {
			var se *scalefmt.SyntaxError
			return errors.Is(err, scalefmt.ErrMissingColumns) && errors.As(err, &se) && se.Line == 1
		}},
		{"zero time", "zero.csv", func(err error) bool {
			var de *scalemath.DomainError
			return errors.As(err, &de) && de.Column == scalemath.Take2Column && de.Row == 1
		}},
	} {
		t.Run(test.name, func(t *testing.T) {
			dir := chdirTemp(t)
			var stdout bytes.Buffer
			err := scalingreport(nil, &stdout, os.Stderr, []string{lowDPI, "-i", filepath.Join(testdata, test.input), "-csv", "derived.csv"})
			if err == nil {
				t.Fatalf("want error, got none")
			}
			if !test.check(err) {
				t.Errorf("unexpected error %#v", err)
			}
			if stdout.Len() > 0 {
				t.Errorf("unexpected output:\n%s", stdout.String())
			}
			if ents, _ := os.ReadDir(dir); len(ents) > 0 {
				t.Errorf("files written on error: %v", ents)
			}
		})
	}
}

func TestUsage(t *testing.T) {
	for _, args := range [][]string{
		{"extra"},
		{"-format", "gif"},
		{"-dpi", "0"},
		{"-no-such-flag"},
	} {
		var stderr bytes.Buffer
		err := scalingreport(nil, new(bytes.Buffer), &stderr, args)
		if !errors.Is(err, errUsage) {
			t.Errorf("%v: want usage error, got %v", args, err)
		}
		if !strings.Contains(stderr.String(), "usage: scalingreport") {
			t.Errorf("%v: usage not printed:\n%s", args, stderr.String())
		}
	}
}

func TestFormatAndOutDir(t *testing.T) {
	dir := chdirTemp(t)
	if err := os.Mkdir("out", 0777); err != nil {
		t.Fatal(err)
	}

	var stdout bytes.Buffer
	args := []string{"-i", filepath.Join(testdata, "ms.csv"), "-o", "out", "-format", "svg", "-chart", "times", "-efficiency-chart", "eff"}
	if err := scalingreport(nil, &stdout, os.Stderr, args); err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"times.svg", "eff.svg"} {
		path := filepath.Join("out", name)
		if !strings.Contains(stdout.String(), "'"+path+"'") {
			t.Errorf("output does not mention %s:\n%s", path, stdout.String())
		}
		data, err := os.ReadFile(filepath.Join(dir, path))
		if err != nil {
			t.Fatal(err)
		}
		if !bytes.HasPrefix(data, []byte("<?xml")) {
			t.Errorf("%s is not SVG", path)
		}
	}
}

func TestReports(t *testing.T) {
	chdirTemp(t)
	if err := os.Mkdir("out", 0777); err != nil {
		t.Fatal(err)
	}

	var stdout bytes.Buffer
	args := []string{lowDPI, "-i", filepath.Join(testdata, "ms.csv"), "-o", "out",
		"-csv", "derived.csv", "-json", "summary.json", "-html", filepath.Join("out", "report.html")}
	if err := scalingreport(nil, &stdout, os.Stderr, args); err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{
		"\n\nReport has been saved as 'derived.csv'\n",
		"Report has been saved as 'summary.json'\n",
		"Report has been saved as '" + filepath.Join("out", "report.html") + "'\n",
	} {
		if !strings.Contains(stdout.String(), want) {
			t.Errorf("output missing %q:\n%s", want, stdout.String())
		}
	}

	csv, err := os.ReadFile("derived.csv")
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(csv, []byte("Threads,Take1_Time_us,Take2_Time_us,Speedup,Efficiency_Take1_pct,Efficiency_Take2_pct\n1,100000,50000,2,100,100\n")) {
		t.Errorf("unexpected CSV:\n%s", csv)
	}

	data, err := os.ReadFile("summary.json")
	if err != nil {
		t.Fatal(err)
	}
	var got jsonReport
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatal(err)
	}
	if got.BaseThreads != 1 || got.MaxSpeedupThreads != 4 || len(got.Rows) != 3 {
		t.Errorf("unexpected JSON summary:\n%s", data)
	}
	if diff := cmp.Diff(jsonOptimum{Threads: 4, TimeUS: 15000}, got.Take2); diff != "" {
		t.Errorf("take2 optimum (-want +got):\n%s", diff)
	}

	html, err := os.ReadFile(filepath.Join("out", "report.html"))
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{
		`<img src="benchmark_results.png"`,
		`<img src="efficiency_analysis.png"`,
		"Maximum speedup: 4.67x at 4 threads",
		"<td>2<td>60000<td>20000<td>3.00x<td>83.3%<td>125.0%",
	} {
		if !bytes.Contains(html, []byte(want)) {
			t.Errorf("report missing %q", want)
		}
	}
}

func TestArchive(t *testing.T) {
	dir := chdirTemp(t)
	dsn := filepath.Join(dir, "runs.db")

	for _, want := range []string{"run 1", "run 2"} {
		var stdout bytes.Buffer
		if err := scalingreport(nil, &stdout, os.Stderr, []string{lowDPI, "-i", filepath.Join(testdata, "us.csv"), "-db", dsn}); err != nil {
			t.Fatal(err)
		}
		if !strings.HasSuffix(stdout.String(), "Run has been archived as "+want+"\n") {
			t.Errorf("unexpected output:\n%s", stdout.String())
		}
	}

	d, err := db.OpenSQL("sqlite3", dsn)
	if err != nil {
		t.Fatal(err)
	}
	defer d.Close()
	r, err := d.Run(context.Background(), 2)
	if err != nil {
		t.Fatal(err)
	}
	if r.Unit != "us" || len(r.Samples) != 3 || r.Summary.Take1.Time != 60012 {
		t.Errorf("unexpected run %+v", r)
	}
}

type fakeUploader struct {
	bucket, prefix string
	names          []string
	closed         bool
}

func (u *fakeUploader) UploadAll(ctx context.Context, files []gcs.File) ([]string, error) {
	var urls []string
	for _, f := range files {
		u.names = append(u.names, f.Name)
		urls = append(urls, "gs://"+u.bucket+"/"+gcs.ObjectName(u.prefix, f.Name))
	}
	return urls, nil
}

func (u *fakeUploader) Close() error {
	u.closed = true
	return nil
}

func TestPublish(t *testing.T) {
	chdirTemp(t)

	c, err := parseFlags(os.Stderr, []string{lowDPI, "-i", filepath.Join(testdata, "ms.csv"), "-json", "summary.json", "-gcs-bucket", "perf", "-gcs-prefix", "nightly/"})
	if err != nil {
		t.Fatal(err)
	}
	fake := new(fakeUploader)
	c.gcsClient = func(ctx context.Context, bucket, prefix string) (uploader, error) {
		fake.bucket, fake.prefix = bucket, prefix
		return fake, nil
	}

	var stdout bytes.Buffer
	if err := run(context.Background(), c, nil, &stdout); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"benchmark_results.png", "efficiency_analysis.png", "summary.json"}, fake.names); diff != "" {
		t.Errorf("uploaded files (-want +got):\n%s", diff)
	}
	if !fake.closed {
		t.Errorf("uploader not closed")
	}
	want := "Uploaded gs://perf/nightly/benchmark_results.png\nUploaded gs://perf/nightly/efficiency_analysis.png\nUploaded gs://perf/nightly/summary.json\n"
	if !strings.HasSuffix(stdout.String(), want) {
		t.Errorf("unexpected output:\n%s", stdout.String())
	}
}

func TestViewCommand(t *testing.T) {
	cmd := viewCommand("chart.png")
	if got := cmd.Args[len(cmd.Args)-1]; got != "chart.png" {
		t.Errorf("viewer opens %q, want chart.png", got)
	}
}

func TestRelPath(t *testing.T) {
	for _, test := range []struct{ from, target, want string }{
		{"report.html", "chart.png", "chart.png"},
		{"out/report.html", "out/chart.png", "chart.png"},
		{"report.html", "out/chart.png", "out/chart.png"},
		{"out/report.html", "chart.png", "../chart.png"},
	} {
		if got := relPath(filepath.FromSlash(test.from), filepath.FromSlash(test.target)); got != test.want {
			t.Errorf("relPath(%q, %q) = %q, want %q", test.from, test.target, got, test.want)
		}
	}
}

// golden runs scalingreport on a copy of testdata/input named
// benchmark_results.csv, in an empty directory, and compares its
// standard output with testdata/name.stdout.
func golden(t *testing.T, name, input string, args ...string) {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(testdata, input))
	if err != nil {
		t.Fatal(err)
	}
	dir := chdirTemp(t)
	if err := os.WriteFile("benchmark_results.csv", data, 0666); err != nil {
		t.Fatal(err)
	}

	var got, gotErr bytes.Buffer
	t.Logf("scalingreport %s", strings.Join(args, " "))
	if err := scalingreport(nil, &got, &gotErr, args); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}

	compare(t, filepath.Join(testdata, name), "stdout", got.Bytes())
	compare(t, filepath.Join(testdata, name), "stderr", gotErr.Bytes())

	for _, chart := range []string{"benchmark_results.png", "efficiency_analysis.png"} {
		data, err := os.ReadFile(filepath.Join(dir, chart))
		if err != nil {
			t.Fatal(err)
		}
		if !bytes.HasPrefix(data, []byte("\x89PNG")) {
			t.Errorf("%s is not a PNG", chart)
		}
	}
}

// chdirTemp changes into a fresh temporary directory for the rest of
// the test.
func chdirTemp(t *testing.T) string {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	dir := t.TempDir()
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Chdir(wd) })
	return dir
}

func compare(t *testing.T, name, sub string, got []byte) {
	t.Helper()

	wantPath := name + "." + sub
	want, err := os.ReadFile(wantPath)
	if err != nil {
		if os.IsNotExist(err) {
			// Treat a missing file as empty.
			want = nil
		} else {
			t.Fatal(err)
		}
	}

	if !diffs(t, want, got) {
		return
	}
	// diff printed the error.

	// Write a "got" file for reference.
	gotPath := name + ".got-" + sub
	if err := os.WriteFile(gotPath, got, 0666); err != nil {
		t.Fatalf("error writing %s: %s", gotPath, err)
	}
}

func diffs(t *testing.T, want, got []byte) bool {
	t.Helper()
	d := diff.Diff(want, got)
	if d == "" {
		return false
	}
	t.Errorf("\n%s", d)
	return true
}
