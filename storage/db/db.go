// Copyright 2016 The Go Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package db archives thread-scaling reports in a SQL database.
package db

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"text/template"
	"time"

	"github.com/threadscale/scalingreport/scalemath"
)

// DB is a high-level interface to a report archive. It's safe for
// concurrent use by multiple goroutines.
type DB struct {
	sql *sql.DB // underlying database connection
	// prepared statements
	insertRun    *sql.Stmt
	insertSample *sql.Stmt
}

// OpenSQL creates a DB backed by a SQL database. The parameters are
// the same as the parameters for sql.Open. Only mysql and sqlite3 are
// explicitly supported; other database engines will receive MySQL
// query syntax which may or may not be compatible.
func OpenSQL(driverName, dataSourceName string) (*DB, error) {
	db, err := sql.Open(driverName, dataSourceName)
	if err != nil {
		return nil, err
	}
	if hook := openHooks[driverName]; hook != nil {
		if err := hook(db); err != nil {
			db.Close()
			return nil, err
		}
	}
	d := &DB{sql: db}
	if err := d.createTables(driverName); err != nil {
		db.Close()
		return nil, err
	}
	if err := d.prepareStatements(); err != nil {
		db.Close()
		return nil, err
	}
	return d, nil
}

var openHooks = make(map[string]func(*sql.DB) error)

// RegisterOpenHook registers a hook to be called after opening a connection to driverName.
// This is used by the sqlite3 package to register a ConnectHook.
// It must be called from an init function.
func RegisterOpenHook(driverName string, hook func(*sql.DB) error) {
	openHooks[driverName] = hook
}

// createTmpl is the template used to prepare the CREATE statements
// for the database. It is evaluated with . as a map containing one
// entry whose key is the driver name.
var createTmpl = template.Must(template.New("create").Parse(`
CREATE TABLE IF NOT EXISTS Runs (
	RunID {{if .sqlite3}}INTEGER PRIMARY KEY AUTOINCREMENT{{else}}SERIAL PRIMARY KEY AUTO_INCREMENT{{end}},
	Source VARCHAR(1024),
	Unit VARCHAR(8),
	Created BIGINT,
	MeanSpeedup DOUBLE,
	GeoMeanSpeedup DOUBLE,
	MaxSpeedup DOUBLE,
	MaxSpeedupThreads INT,
	Take1Threads INT,
	Take1Time DOUBLE,
	Take2Threads INT,
	Take2Time DOUBLE,
	BaseThreads INT
);
CREATE TABLE IF NOT EXISTS Samples (
	RunID BIGINT UNSIGNED,
	RowID INT,
	Threads INT,
	Take1Time DOUBLE,
	Take2Time DOUBLE,
	Speedup DOUBLE,
	Efficiency1 DOUBLE,
	Efficiency2 DOUBLE,
	PRIMARY KEY (RunID, RowID),
	FOREIGN KEY (RunID) REFERENCES Runs(RunID) ON UPDATE CASCADE ON DELETE CASCADE
);
`))

// createTables creates any missing tables on the connection in
// db.sql. driverName is the same driver name passed to sql.Open and
// is used to select the correct syntax.
func (db *DB) createTables(driverName string) error {
	var buf bytes.Buffer
	if err := createTmpl.Execute(&buf, map[string]bool{driverName: true}); err != nil {
		return err
	}
	for _, q := range strings.Split(buf.String(), ";") {
		if strings.TrimSpace(q) == "" {
			continue
		}
		if _, err := db.sql.Exec(q); err != nil {
			return fmt.Errorf("create table: %v", err)
		}
	}
	return nil
}

// prepareStatements calls db.sql.Prepare on reusable SQL statements.
func (db *DB) prepareStatements() error {
	var err error
	db.insertRun, err = db.sql.Prepare(`INSERT INTO Runs(Source, Unit, Created,
	MeanSpeedup, GeoMeanSpeedup, MaxSpeedup, MaxSpeedupThreads,
	Take1Threads, Take1Time, Take2Threads, Take2Time, BaseThreads)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	db.insertSample, err = db.sql.Prepare(`INSERT INTO Samples(RunID, RowID, Threads,
	Take1Time, Take2Time, Speedup, Efficiency1, Efficiency2)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	return nil
}

// now is a hook for testing
var now = time.Now

// A Run is one archived report.
type Run struct {
	// ID is assigned by InsertRun.
	ID int64

	// Source names the table the report was made from.
	Source string
	// Unit is the unit the source table's times were given in.
	Unit string
	// Created is set by InsertRun, truncated to the second.
	Created time.Time

	Summary scalemath.Summary
	Samples []Sample
}

// A Sample is one row of a run: a thread count, both times in
// microseconds and the metrics derived from them.
type Sample struct {
	Threads      int
	Take1, Take2 float64
	Speedup      float64
	Efficiency1  float64
	Efficiency2  float64
}

// NewRun assembles a Run from a report's rows and metrics.
func NewRun(source, unit string, threads []int, take1, take2 []float64, m *scalemath.Metrics) *Run {
	r := &Run{Source: source, Unit: unit, Summary: m.Summary}
	for i, n := range threads {
		r.Samples = append(r.Samples, Sample{
			Threads:     n,
			Take1:       take1[i],
			Take2:       take2[i],
			Speedup:     m.Speedup[i],
			Efficiency1: m.Efficiency1[i],
			Efficiency2: m.Efficiency2[i],
		})
	}
	return r
}

// InsertRun stores r and its samples in a single transaction and
// sets r.ID and r.Created.
func (db *DB) InsertRun(ctx context.Context, r *Run) (err error) {
	tx, err := db.sql.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		} else {
			err = tx.Commit()
		}
	}()

	created := now().UTC().Truncate(time.Second)
	s := &r.Summary
	res, err := tx.StmtContext(ctx, db.insertRun).ExecContext(ctx,
		r.Source, r.Unit, created.Unix(),
		s.MeanSpeedup, s.GeoMeanSpeedup, s.MaxSpeedup, s.MaxSpeedupThreads,
		s.Take1.Threads, s.Take1.Time, s.Take2.Threads, s.Take2.Time, s.BaseThreads)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	stmt := tx.StmtContext(ctx, db.insertSample)
	for i, sm := range r.Samples {
		if _, err = stmt.ExecContext(ctx, id, i, sm.Threads, sm.Take1, sm.Take2, sm.Speedup, sm.Efficiency1, sm.Efficiency2); err != nil {
			return err
		}
	}
	r.ID, r.Created = id, created
	return nil
}

// ErrNoRun is returned by Run if no run has the requested ID.
var ErrNoRun = errors.New("no such run")

// Run loads the run with the given ID.
func (db *DB) Run(ctx context.Context, id int64) (*Run, error) {
	r := &Run{ID: id}
	s := &r.Summary
	var created int64
	err := db.sql.QueryRowContext(ctx, `SELECT Source, Unit, Created,
	MeanSpeedup, GeoMeanSpeedup, MaxSpeedup, MaxSpeedupThreads,
	Take1Threads, Take1Time, Take2Threads, Take2Time, BaseThreads
	FROM Runs WHERE RunID = ?`, id).Scan(&r.Source, &r.Unit, &created,
		&s.MeanSpeedup, &s.GeoMeanSpeedup, &s.MaxSpeedup, &s.MaxSpeedupThreads,
		&s.Take1.Threads, &s.Take1.Time, &s.Take2.Threads, &s.Take2.Time, &s.BaseThreads)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("run %d: %w", id, ErrNoRun)
	} else if err != nil {
		return nil, err
	}
	r.Created = time.Unix(created, 0).UTC()

	rows, err := db.sql.QueryContext(ctx, `SELECT Threads, Take1Time, Take2Time, Speedup, Efficiency1, Efficiency2
	FROM Samples WHERE RunID = ? ORDER BY RowID`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var sm Sample
		if err := rows.Scan(&sm.Threads, &sm.Take1, &sm.Take2, &sm.Speedup, &sm.Efficiency1, &sm.Efficiency2); err != nil {
			return nil, err
		}
		r.Samples = append(r.Samples, sm)
	}
	return r, rows.Err()
}

// CountRuns returns the number of runs in the archive.
func (db *DB) CountRuns() (int, error) {
	var n int
	err := db.sql.QueryRow("SELECT COUNT(*) FROM Runs").Scan(&n)
	return n, err
}

// Close closes the database connections, releasing any open resources.
func (db *DB) Close() error {
	if err := db.insertRun.Close(); err != nil {
		return err
	}
	if err := db.insertSample.Close(); err != nil {
		return err
	}
	return db.sql.Close()
}
