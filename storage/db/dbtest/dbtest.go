// Copyright 2017 The Go Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package dbtest opens empty report archives for tests.
package dbtest

import (
	"crypto/rand"
	"database/sql"
	"encoding/base64"
	"flag"
	"fmt"
	"path/filepath"
	"testing"

	_ "github.com/GoogleCloudPlatform/cloudsql-proxy/proxy/dialers/mysql"
	_ "github.com/go-sql-driver/mysql"
	"github.com/threadscale/scalingreport/storage/db"
	_ "github.com/threadscale/scalingreport/storage/db/sqlite3"
)

var (
	mysqlDSN = flag.String("mysql", "", "run tests on the MySQL server at this `dsn` (e.g. root:@tcp(localhost:3306)/) instead of SQLite")
	cloudsql = flag.String("cloudsql", "", "run tests on the Cloud SQL `instance` (project:region:name) instead of SQLite")
)

// serverDSN returns the DSN of the MySQL server selected by the flags,
// without a database name, or "" for SQLite. -cloudsql wins over
// -mysql.
func serverDSN() string {
	if *cloudsql != "" {
		return fmt.Sprintf("root:@cloudsql(%s)/", *cloudsql)
	}
	return *mysqlDSN
}

// createEmptyMySQLDB makes a new, empty database for the test.
func createEmptyMySQLDB(t *testing.T) (dsn string, cleanup func()) {
	buf := make([]byte, 6)
	if _, err := rand.Read(buf); err != nil {
		t.Fatal(err)
	}

	name := "scalingreport-test-" + base64.RawURLEncoding.EncodeToString(buf)

	prefix := serverDSN()

	db, err := sql.Open("mysql", prefix)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := db.Exec(fmt.Sprintf("CREATE DATABASE `%s`", name)); err != nil {
		db.Close()
		t.Fatal(err)
	}

	t.Logf("Using database %q", name)

	return prefix + name, func() {
		if _, err := db.Exec(fmt.Sprintf("DROP DATABASE `%s`", name)); err != nil {
			t.Error(err)
		}
		db.Close()
	}
}

// NewDB makes a connection to a testing database, either sqlite3 or
// MySQL depending on the -mysql and -cloudsql flags. The database is
// closed when the test finishes.
func NewDB(t *testing.T) *db.DB {
	driverName, dataSourceName := "sqlite3", filepath.Join(t.TempDir(), "archive.db")
	if serverDSN() != "" {
		var cleanup func()
		driverName = "mysql"
		dataSourceName, cleanup = createEmptyMySQLDB(t)
		t.Cleanup(cleanup)
	}
	d, err := db.OpenSQL(driverName, dataSourceName)
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	t.Cleanup(func() { d.Close() })

	// Make sure the database really is empty.
	runs, err := d.CountRuns()
	if err != nil {
		t.Fatal(err)
	}
	if runs != 0 {
		t.Fatalf("found %d row(s) in Runs, want 0", runs)
	}
	return d
}
