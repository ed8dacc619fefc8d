// © 2025 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

// Package version provides information about the running binary.
package version

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime/debug"
	"strings"
)

// CmdName returns the base name of the running program.
func CmdName() string {
	exe, err := os.Executable()
	if err != nil {
		return "licensify"
	}
	return strings.TrimSuffix(filepath.Base(exe), ".exe")
}

// Version returns a human-readable version string derived from build
// information embedded in the binary.
func Version() string {
	var sb strings.Builder
	sb.WriteString(CmdName())
	if bi, ok := debug.ReadBuildInfo(); ok {
		if bi.Main.Version != "" && bi.Main.Version != "(devel)" {
			fmt.Fprintf(&sb, " %s", bi.Main.Version)
		}
		fmt.Fprintf(&sb, " built with %s", bi.GoVersion)
	}
	sb.WriteString("\n")
	return sb.String()
}
