// Copyright 2017 The Go Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package db_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/threadscale/scalingreport/scalemath"
	. "github.com/threadscale/scalingreport/storage/db"
	"github.com/threadscale/scalingreport/storage/db/dbtest"
)

func testRun(t *testing.T) *Run {
	t.Helper()
	threads := []int{2, 4, 8}
	take1 := []float64{60000, 70000, 80000}
	take2 := []float64{30000, 15000, 20000}
	m, err := scalemath.Compute(threads, take1, take2)
	if err != nil {
		t.Fatal(err)
	}
	return NewRun("benchmark_results.csv", "ms", threads, take1, take2, m)
}

// TestRoundTrip verifies that a run reads back as it was inserted.
func TestRoundTrip(t *testing.T) {
	ctx := context.Background()
	db := dbtest.NewDB(t)

	defer SetNow(time.Time{})
	SetNow(time.Unix(86400, 5e8))

	r := testRun(t)
	if err := db.InsertRun(ctx, r); err != nil {
		t.Fatalf("InsertRun: %v", err)
	}
	if r.ID == 0 {
		t.Error("InsertRun did not set ID")
	}
	if want := time.Unix(86400, 0).UTC(); !r.Created.Equal(want) {
		t.Errorf("Created = %v, want %v", r.Created, want)
	}

	got, err := db.Run(ctx, r.ID)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if diff := cmp.Diff(r, got); diff != "" {
		t.Errorf("run mismatch (-inserted +loaded):\n%s", diff)
	}
	if got.Samples[1].Threads != 4 || got.Samples[1].Take2 != 15000 {
		t.Errorf("sample 1 = %+v", got.Samples[1])
	}

	n, err := db.CountRuns()
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Errorf("CountRuns = %d, want 1", n)
	}
}

// TestRunIDs verifies that every insert gets a fresh ID.
func TestRunIDs(t *testing.T) {
	ctx := context.Background()
	db := dbtest.NewDB(t)

	seen := make(map[int64]bool)
	for i := 0; i < 5; i++ {
		r := testRun(t)
		if err := db.InsertRun(ctx, r); err != nil {
			t.Fatalf("InsertRun: %v", err)
		}
		if seen[r.ID] {
			t.Errorf("duplicate run ID %d", r.ID)
		}
		seen[r.ID] = true
	}
	if n, err := db.CountRuns(); err != nil || n != 5 {
		t.Errorf("CountRuns = %d, %v; want 5", n, err)
	}
}

func TestMissingRun(t *testing.T) {
	db := dbtest.NewDB(t)
	_, err := db.Run(context.Background(), 42)
	if !errors.Is(err, ErrNoRun) {
		t.Errorf("Run(42) = %v, want ErrNoRun", err)
	}
}

// TestForeignKeys verifies that samples cannot refer to a missing run.
func TestForeignKeys(t *testing.T) {
	db := dbtest.NewDB(t)
	_, err := DBSQL(db).Exec("INSERT INTO Samples(RunID, RowID, Threads) VALUES (99, 0, 1)")
	if err == nil {
		t.Error("insert of orphan sample succeeded")
	}
}
