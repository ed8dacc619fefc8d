// © 2025 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

package licensify_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"go.astrophena.name/licensify/internal/licensify"
	"go.astrophena.name/licensify/internal/testutil"

	"golang.org/x/tools/txtar"
)

func extract(t *testing.T, archive string) string {
	t.Helper()
	dir := t.TempDir()
	testutil.ExtractTxtar(t, txtar.Parse([]byte(archive)), dir)
	return dir
}

func run(t *testing.T, cfg licensify.Config) licensify.Summary {
	t.Helper()
	sum, err := licensify.Run(context.Background(), cfg)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	return sum
}

func TestRun(t *testing.T) {
	t.Run("empty tree", func(t *testing.T) {
		sum := run(t, licensify.Config{
			Dir:    t.TempDir(),
			Ext:    ".rs",
			Header: licensify.DefaultHeader,
			Guard:  licensify.DefaultGuard,
		})
		testutil.AssertEqual(t, sum, licensify.Summary{})
	})

	t.Run("adds header", func(t *testing.T) {
		dir := extract(t, "-- main.rs --\nfn main() {}\n")

		var lines []string
		sum := run(t, licensify.Config{
			Dir:    dir,
			Ext:    ".rs",
			Header: licensify.DefaultHeader,
			Guard:  licensify.DefaultGuard,
			Logf: func(format string, args ...any) {
				lines = append(lines, fmt.Sprintf(format, args...))
			},
		})
		testutil.AssertEqual(t, sum, licensify.Summary{Modified: 1, Total: 1})

		got := testutil.ReadFile(t, filepath.Join(dir, "main.rs"))
		want := licensify.DefaultHeader + "fn main() {}\n"
		testutil.AssertEqual(t, string(got), want)

		testutil.AssertEqual(t, lines[len(lines)-1], "Added license headers to 1 files out of 1 total files.")
	})

	t.Run("already licensed", func(t *testing.T) {
		const content = "/* Copyright 2024 Someone */\n\nfn main() {}\n"
		dir := extract(t, "-- lib.rs --\n"+content)

		sum := run(t, licensify.Config{
			Dir:    dir,
			Ext:    ".rs",
			Header: licensify.DefaultHeader,
			Guard:  licensify.DefaultGuard,
		})
		testutil.AssertEqual(t, sum, licensify.Summary{Modified: 0, Total: 1})
		testutil.AssertEqual(t, string(testutil.ReadFile(t, filepath.Join(dir, "lib.rs"))), content)
	})

	t.Run("mixed tree", func(t *testing.T) {
		dir := t.TempDir()
		for i := range 10 {
			content := "fn main() {}\n"
			if i%2 == 0 {
				content = licensify.DefaultHeader + content
			}
			name := filepath.Join(dir, "sub", fmt.Sprintf("file%d.rs", i))
			if err := os.MkdirAll(filepath.Dir(name), 0o755); err != nil {
				t.Fatal(err)
			}
			if err := os.WriteFile(name, []byte(content), 0o644); err != nil {
				t.Fatal(err)
			}
		}

		sum := run(t, licensify.Config{
			Dir:    dir,
			Ext:    ".rs",
			Header: licensify.DefaultHeader,
			Guard:  licensify.DefaultGuard,
		})
		testutil.AssertEqual(t, sum, licensify.Summary{Modified: 5, Total: 10})
	})

	t.Run("idempotent", func(t *testing.T) {
		dir := extract(t, "-- a.rs --\nstruct A;\n-- b/c.rs --\nstruct C;\n")
		cfg := licensify.Config{
			Dir:    dir,
			Ext:    ".rs",
			Header: licensify.DefaultHeader,
			Guard:  licensify.DefaultGuard,
		}

		first := run(t, cfg)
		testutil.AssertEqual(t, first, licensify.Summary{Modified: 2, Total: 2})
		afterFirst := string(testutil.ReadFile(t, filepath.Join(dir, "a.rs")))

		second := run(t, cfg)
		testutil.AssertEqual(t, second, licensify.Summary{Modified: 0, Total: 2})
		testutil.AssertEqual(t, string(testutil.ReadFile(t, filepath.Join(dir, "a.rs"))), afterFirst)
	})

	t.Run("ignores other extensions", func(t *testing.T) {
		dir := extract(t, "-- build.toml --\nname = \"x\"\n-- main.rs --\nfn main() {}\n")

		sum := run(t, licensify.Config{
			Dir:    dir,
			Ext:    ".rs",
			Header: licensify.DefaultHeader,
			Guard:  licensify.DefaultGuard,
		})
		testutil.AssertEqual(t, sum, licensify.Summary{Modified: 1, Total: 1})
		testutil.AssertEqual(t, string(testutil.ReadFile(t, filepath.Join(dir, "build.toml"))), "name = \"x\"\n")
	})

	t.Run("exclusions", func(t *testing.T) {
		dir := extract(t, "-- gen/bindings.rs --\n// generated\n-- main.rs --\nfn main() {}\n")

		sum := run(t, licensify.Config{
			Dir:        dir,
			Ext:        ".rs",
			Header:     licensify.DefaultHeader,
			Guard:      licensify.DefaultGuard,
			Exclusions: []string{"**/gen/**"},
		})
		testutil.AssertEqual(t, sum, licensify.Summary{Modified: 1, Total: 1})
		testutil.AssertEqual(t, string(testutil.ReadFile(t, filepath.Join(dir, "gen", "bindings.rs"))), "// generated\n")
	})

	t.Run("dry run", func(t *testing.T) {
		dir := extract(t, "-- main.rs --\nfn main() {}\n")

		var lines []string
		sum := run(t, licensify.Config{
			Dir:    dir,
			Ext:    ".rs",
			Header: licensify.DefaultHeader,
			Guard:  licensify.DefaultGuard,
			DryRun: true,
			Logf: func(format string, args ...any) {
				lines = append(lines, fmt.Sprintf(format, args...))
			},
		})
		testutil.AssertEqual(t, sum, licensify.Summary{Modified: 1, Total: 1})
		testutil.AssertEqual(t, string(testutil.ReadFile(t, filepath.Join(dir, "main.rs"))), "fn main() {}\n")
		testutil.AssertEqual(t, lines[0], "Would add license header to "+filepath.Join(dir, "main.rs"))
	})

	t.Run("skips binary content", func(t *testing.T) {
		dir := t.TempDir()
		name := filepath.Join(dir, "blob.rs")
		if err := os.WriteFile(name, []byte{0x7f, 'E', 'L', 'F', 0x00, 0x01}, 0o644); err != nil {
			t.Fatal(err)
		}

		sum := run(t, licensify.Config{
			Dir:    dir,
			Ext:    ".rs",
			Header: licensify.DefaultHeader,
			Guard:  licensify.DefaultGuard,
		})
		testutil.AssertEqual(t, sum, licensify.Summary{Modified: 0, Total: 1})

		got := testutil.ReadFile(t, name)
		testutil.AssertEqual(t, got, []byte{0x7f, 'E', 'L', 'F', 0x00, 0x01})
	})

	t.Run("continues past unreadable file", func(t *testing.T) {
		dir := extract(t, "-- main.rs --\nfn main() {}\n")
		if err := os.Symlink(filepath.Join(dir, "missing"), filepath.Join(dir, "broken.rs")); err != nil {
			t.Skipf("symlinks unsupported: %v", err)
		}

		sum := run(t, licensify.Config{
			Dir:    dir,
			Ext:    ".rs",
			Header: licensify.DefaultHeader,
			Guard:  licensify.DefaultGuard,
		})
		testutil.AssertEqual(t, sum, licensify.Summary{Modified: 1, Failed: 1, Total: 2})
	})

	t.Run("year template", func(t *testing.T) {
		dir := extract(t, "-- main.rs --\nfn main() {}\n")
		name := filepath.Join(dir, "main.rs")
		modTime := time.Date(2023, time.July, 1, 0, 0, 0, 0, time.UTC)
		if err := os.Chtimes(name, modTime, modTime); err != nil {
			t.Fatal(err)
		}

		run(t, licensify.Config{
			Dir:    dir,
			Ext:    ".rs",
			Header: "// Copyright %d\n\n",
			Guard:  "// Copyright",
		})
		testutil.AssertEqual(t, string(testutil.ReadFile(t, name)), "// Copyright 2023\n\nfn main() {}\n")
	})

	t.Run("missing directory is fatal", func(t *testing.T) {
		dir := extract(t, "-- main.rs --\nfn main() {}\n")

		_, err := licensify.Run(context.Background(), licensify.Config{
			Candidates: []string{filepath.Join(t.TempDir(), "nope")},
			Ext:        ".rs",
			Header:     licensify.DefaultHeader,
			Guard:      licensify.DefaultGuard,
		})
		if !errors.Is(err, licensify.ErrDirNotFound) {
			t.Fatalf("want ErrDirNotFound, got %v", err)
		}

		// Nothing outside the candidate list may be touched.
		testutil.AssertEqual(t, string(testutil.ReadFile(t, filepath.Join(dir, "main.rs"))), "fn main() {}\n")
	})
}

func TestHasMarker(t *testing.T) {
	cases := map[string]struct {
		content string
		want    bool
	}{
		"real header":            {licensify.DefaultHeader + "fn main() {}", true},
		"no header":              {"fn main() {}", false},
		"coincidental prefix":    {"/* Copyright is a word that appears here by accident */", true},
		"guard not at start":     {"\n/* Copyright 2025 */", false},
		"different comment form": {"// Copyright 2025", false},
		"empty":                  {"", false},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			got := licensify.HasMarker([]byte(tc.content), licensify.DefaultGuard)
			testutil.AssertEqual(t, got, tc.want)
		})
	}
}
