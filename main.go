// © 2025 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"go.astrophena.name/licensify/internal/cli"
	"go.astrophena.name/licensify/internal/licensify"
	"go.astrophena.name/licensify/internal/logger"
)

func main() { cli.Main(new(app)) }

type app struct {
	dir        string
	ext        string
	headerFile string
	dry        bool
	verbose    bool
}

func (a *app) Flags(fs *flag.FlagSet) {
	fs.StringVar(&a.dir, "dir", "", "Process files in `directory` instead of probing the default locations.")
	fs.StringVar(&a.ext, "ext", licensify.DefaultExt, "Process files whose name ends with `suffix`.")
	fs.StringVar(&a.headerFile, "header", "", "Read the license header from `file` instead of using the built-in one.")
	fs.BoolVar(&a.dry, "dry", false, "Print the files that would have a license header added, without making changes.")
	fs.BoolVar(&a.verbose, "verbose", false, "Enable debug logging.")
}

func (a *app) Run(ctx context.Context) error {
	env := cli.GetEnv(ctx)

	if a.verbose {
		level := new(slog.LevelVar)
		level.Set(slog.LevelDebug)
		ctx = logger.Put(ctx, logger.New(env.Stderr, level))
	}

	cfg := licensify.Config{
		Dir:        a.dir,
		Candidates: licensify.DefaultCandidates(),
		Ext:        a.ext,
		Header:     licensify.DefaultHeader,
		Guard:      licensify.DefaultGuard,
		DryRun:     a.dry,
		Logf:       env.Logf,
	}

	over, err := licensify.LoadOverrides(licensify.ConfigFile)
	if err != nil {
		return err
	}
	over.Apply(&cfg)

	if a.headerFile != "" {
		b, err := os.ReadFile(a.headerFile)
		if err != nil {
			return fmt.Errorf("reading header file: %w", err)
		}
		cfg.Header = string(b)
	}

	_, err = licensify.Run(ctx, cfg)
	return err
}
