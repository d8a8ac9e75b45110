// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os/exec"
	"runtime"
)

// viewCommand returns the command that opens path in the desktop's
// default viewer.
func viewCommand(path string) *exec.Cmd {
	switch runtime.GOOS {
	case "darwin":
		return exec.Command("open", path)
	case "windows":
		return exec.Command("cmd", "/c", "start", "", path)
	}
	return exec.Command("xdg-open", path)
}

// view opens each path without waiting for the viewer to exit.
func view(paths ...string) error {
	for _, p := range paths {
		cmd := viewCommand(p)
		if err := cmd.Start(); err != nil {
			return fmt.Errorf("opening %s: %w", p, err)
		}
		go cmd.Wait()
	}
	return nil
}
