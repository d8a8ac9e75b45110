// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gcs

import (
	"context"
	"strings"
	"testing"
)

func TestObjectName(t *testing.T) {
	for _, test := range []struct {
		prefix, name, want string
	}{
		{"", "benchmark_results.png", "benchmark_results.png"},
		{"runs/42", "out/benchmark_results.png", "runs/42/benchmark_results.png"},
		{"/runs/42/", "efficiency_analysis.svg", "runs/42/efficiency_analysis.svg"},
		{"reports", "./report.html", "reports/report.html"},
	} {
		if got := ObjectName(test.prefix, test.name); got != test.want {
			t.Errorf("ObjectName(%q, %q) = %q, want %q", test.prefix, test.name, got, test.want)
		}
	}
}

func TestContentType(t *testing.T) {
	for name, want := range map[string]string{
		"a.png": "image/png",
		"a.pdf": "application/pdf",
		"a.xyz": "application/octet-stream",
	} {
		if got := ContentType(name); got != want {
			t.Errorf("ContentType(%q) = %q, want %q", name, got, want)
		}
	}
	if got := ContentType("a.svg"); !strings.HasPrefix(got, "image/svg+xml") {
		t.Errorf("ContentType(a.svg) = %q, want image/svg+xml", got)
	}
}

func TestNoBucket(t *testing.T) {
	if _, err := NewUploader(context.Background(), "", "x"); err == nil {
		t.Error("want error for empty bucket")
	}
}

func TestCredentialsFile(t *testing.T) {
	if opts := CredentialsFile(""); len(opts) != 0 {
		t.Errorf("CredentialsFile(\"\") = %d options, want 0", len(opts))
	}
	if opts := CredentialsFile("key.json"); len(opts) != 1 {
		t.Errorf("CredentialsFile(key.json) = %d options, want 1", len(opts))
	}
}
