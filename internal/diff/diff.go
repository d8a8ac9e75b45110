// Copyright 2017 The Go Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package diff reports differences between expected and actual
// output in tests.
package diff

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
)

// Diff returns a unified diff from want to got, with the files
// labeled "want" and "got". It returns "" if they are equal. If the
// diff command is unavailable, it returns both inputs quoted.
func Diff(want, got []byte) string {
	if string(want) == string(got) {
		return ""
	}
	cmd := "diff"
	if runtime.GOOS == "plan9" {
		cmd = "/bin/ape/diff"
	}
	if _, err := exec.LookPath(cmd); err != nil {
		return fmt.Sprintf("diff command unavailable\nwant:\n%s\ngot:\n%s", want, got)
	}

	d, err := os.MkdirTemp("", "scalingreport-diff")
	if err != nil {
		return err.Error()
	}
	defer os.RemoveAll(d)
	for name, data := range map[string][]byte{"want": want, "got": got} {
		if err := os.WriteFile(filepath.Join(d, name), data, 0666); err != nil {
			return err.Error()
		}
	}

	c := exec.Command(cmd, "-Nu", "want", "got")
	c.Dir = d
	data, err := c.CombinedOutput()
	if len(data) > 0 {
		// diff exits with a non-zero status when the files don't match.
		return string(data)
	}
	if err != nil {
		return err.Error()
	}
	return fmt.Sprintf("want:\n%sgot:\n%s", want, got)
}
