// © 2025 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

// Package licensify implements the license header engine.
//
// A run resolves a target directory, recursively enumerates the source
// files in it and prepends a license header comment block to each file
// that doesn't already have one. Files are never otherwise transformed:
// the only permitted mutation is prepending the header.
package licensify

import (
	"bytes"
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"go.astrophena.name/licensify/internal/logger"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/natefinch/atomic"
)

// Defaults used when no flag or config archive overrides them.
const (
	// DefaultExt is the file name suffix that selects files for processing.
	DefaultExt = ".rs"
	// DefaultGuard is the literal prefix that marks a file as already
	// licensed.
	DefaultGuard = "/* Copyright"
	// DefaultHeader is the built-in license header block.
	DefaultHeader = `/* Copyright 2025 Joao Guimaraes, Catp2p Project
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

`
)

// Config controls a single run of the engine.
type Config struct {
	// Dir is the directory to process. If empty, Candidates are probed
	// in order and the first existing directory is used.
	Dir string
	// Candidates are the directories probed when Dir is empty.
	Candidates []string
	// Ext is the file name suffix that selects files for processing.
	Ext string
	// Header is the comment block prepended to files that lack one. It
	// may contain a single %d verb that expands to the year of the
	// file's last modification.
	Header string
	// Guard is the literal prefix that marks a file as already licensed.
	// See HasMarker for its semantics.
	Guard string
	// Exclusions are doublestar patterns for paths that are never
	// touched, matched against the slash-separated file path.
	Exclusions []string
	// DryRun reports what would change without writing anything.
	DryRun bool
	// Logf receives the per-file progress lines and the final summary.
	// If nil, the run is silent.
	Logf logger.Logf
}

func (cfg *Config) isExcluded(path string) (bool, error) {
	slashed := filepath.ToSlash(path)
	for _, pattern := range cfg.Exclusions {
		ok, err := doublestar.Match(pattern, slashed)
		if err != nil {
			return false, fmt.Errorf("exclusion pattern %q: %w", pattern, err)
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}

// Summary reports the outcome of a run.
type Summary struct {
	Modified int // files that had the header added
	Failed   int // files that could not be read or written
	Total    int // files matched by the extension
}

// Run resolves the target directory and ensures every matched file in it
// begins with the configured header.
//
// A file that cannot be read or written is reported through cfg.Logf and
// counted in Summary.Failed; the run continues with the remaining files.
// Only a target directory that cannot be resolved aborts the run.
func Run(ctx context.Context, cfg Config) (Summary, error) {
	var sum Summary

	if cfg.Logf == nil {
		cfg.Logf = func(format string, args ...any) {}
	}

	dir := cfg.Dir
	if dir == "" {
		var err error
		dir, err = ResolveDir(cfg.Candidates)
		if err != nil {
			return sum, err
		}
	} else if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		return sum, fmt.Errorf("%w: %s", ErrDirNotFound, dir)
	}

	logger.Debug(ctx, "processing directory", slog.String("dir", dir))

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), cfg.Ext) {
			return nil
		}
		excluded, err := cfg.isExcluded(path)
		if err != nil {
			return err
		}
		if excluded {
			logger.Debug(ctx, "excluded", slog.String("path", path))
			return nil
		}
		sum.Total++
		modified, err := applyFile(ctx, &cfg, path, d)
		if err != nil {
			sum.Failed++
			cfg.Logf("Failed to process %s: %v", path, err)
			return nil
		}
		if modified {
			sum.Modified++
		}
		return nil
	})
	if err != nil {
		return sum, err
	}

	cfg.Logf("Added license headers to %d files out of %d total files.", sum.Modified, sum.Total)
	return sum, nil
}

// applyFile ensures a single file begins with the header. It reports
// whether the file was (or, in dry run mode, would have been) modified.
func applyFile(ctx context.Context, cfg *Config, path string, d fs.DirEntry) (bool, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return false, err
	}

	if HasMarker(content, cfg.Guard) {
		cfg.Logf("License header already exists in %s", path)
		return false, nil
	}
	if isBinary(content) {
		cfg.Logf("Skipping %s: content is not text", path)
		return false, nil
	}

	header := cfg.Header
	if strings.Contains(header, "%d") {
		info, err := d.Info()
		if err != nil {
			return false, err
		}
		header = fmt.Sprintf(header, info.ModTime().Year())
	}

	if cfg.DryRun {
		cfg.Logf("Would add license header to %s", path)
		return true, nil
	}

	var buf bytes.Buffer
	buf.WriteString(header)
	buf.Write(content)

	// Write through a temporary file and rename so that a failure
	// mid-write never leaves the original truncated.
	if err := atomic.WriteFile(path, &buf); err != nil {
		return false, err
	}

	logger.Debug(ctx, "rewrote file", slog.String("path", path), slog.Int("bytes", buf.Len()))
	cfg.Logf("Added license header to %s", path)
	return true, nil
}

// HasMarker reports whether content already begins with the guard prefix.
//
// This is a prefix heuristic, not a structural check: a file whose text
// merely happens to start with the guard is treated as licensed and left
// alone. The false-positive skip is a documented limitation of the guard,
// not something callers should try to correct for.
func HasMarker(content []byte, guard string) bool {
	return bytes.HasPrefix(content, []byte(guard))
}

// isBinary reports whether content can't be treated as text. Such files
// are skipped: prepending a comment block to them would corrupt them.
func isBinary(content []byte) bool {
	return bytes.IndexByte(content, 0) != -1 || !utf8.Valid(content)
}
