// © 2025 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

package licensify

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrDirNotFound is returned when no candidate target directory exists.
var ErrDirNotFound = errors.New("target directory not found")

// ResolveDir probes candidates in order and returns the first one that
// exists and is a directory. If none does, it returns ErrDirNotFound and
// nothing must be read or written.
func ResolveDir(candidates []string) (string, error) {
	for _, dir := range candidates {
		info, err := os.Stat(dir)
		if err == nil && info.IsDir() {
			return dir, nil
		}
	}
	return "", fmt.Errorf("%w (tried %s)", ErrDirNotFound, strings.Join(candidates, ", "))
}

// DefaultCandidates returns the directories probed when none is given
// explicitly: catp2p/src and src next to the executable, then src in the
// current directory.
func DefaultCandidates() []string {
	var candidates []string
	if exe, err := os.Executable(); err == nil {
		dir := filepath.Dir(exe)
		candidates = append(candidates,
			filepath.Join(dir, "catp2p", "src"),
			filepath.Join(dir, "src"),
		)
	}
	return append(candidates, "src")
}
