// © 2025 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

/*
Licensify ensures source files carry a license header.

It locates a source directory, recursively walks it and prepends a license
header comment block to every matched file that doesn't already begin with
one. A file is considered already licensed when its content starts with a
guard prefix; this is a heuristic, so a file that merely happens to start
with the guard text is left alone.

Without the -dir flag, the tool probes catp2p/src and src next to the
executable, then src in the current directory, and processes the first one
that exists.

The defaults can be adjusted through an optional .licensify.txtar archive
in the working directory. The archive can contain the following files:

  - exclusions.json: a JSON array of path patterns to exclude from
    processing.
  - template.{ext}: the header block for a specific file extension
    (e.g. template.rs). It may contain a %d verb that expands to the
    year of the file's last modification.
  - header.{ext}: the guard prefix that identifies an existing header for
    a specific file extension (e.g. header.rs).

Each run prints one line per file and a final summary of how many files
were modified out of how many were matched. Files that cannot be read or
written are reported and the run continues; only a source directory that
cannot be found aborts the run.
*/
package main

import (
	_ "embed"

	"go.astrophena.name/licensify/internal/cli"
)

//go:embed doc.go
var doc []byte

func init() { cli.SetDocComment(doc) }
