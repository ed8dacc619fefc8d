// © 2025 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

package licensify

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"golang.org/x/tools/txtar"
)

// ConfigFile is the optional txtar archive consulted in the working
// directory. It can contain the following files:
//
//   - exclusions.json: a JSON array of doublestar patterns for paths
//     that are never touched.
//   - template.{ext}: the header block for a specific file extension
//     (e.g. template.rs). It may contain a %d verb for the year.
//   - header.{ext}: the guard prefix that identifies an existing header
//     for a specific file extension (e.g. header.rs).
const ConfigFile = ".licensify.txtar"

// Overrides are per-extension settings loaded from a config archive.
type Overrides struct {
	Guards     map[string]string // guard prefix, keyed by extension
	Templates  map[string]string // header block, keyed by extension
	Exclusions []string
}

// LoadOverrides parses the config archive at path. A missing file is not
// an error and yields a nil Overrides.
func LoadOverrides(path string) (*Overrides, error) {
	ar, err := txtar.ParseFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	o := &Overrides{
		Guards:    make(map[string]string),
		Templates: make(map[string]string),
	}
	for _, f := range ar.Files {
		if f.Name == "exclusions.json" {
			if err := json.Unmarshal(f.Data, &o.Exclusions); err != nil {
				return nil, fmt.Errorf("parsing exclusions.json: %w", err)
			}
			continue
		}
		ext := filepath.Ext(f.Name)
		switch {
		case strings.HasPrefix(f.Name, "template"):
			o.Templates[ext] = string(f.Data)
		case strings.HasPrefix(f.Name, "header"):
			o.Guards[ext] = strings.TrimSuffix(string(f.Data), "\n")
		}
	}
	return o, nil
}

// Apply merges the overrides for cfg.Ext into cfg. It is a no-op on a nil
// receiver.
func (o *Overrides) Apply(cfg *Config) {
	if o == nil {
		return
	}
	if guard, ok := o.Guards[cfg.Ext]; ok {
		cfg.Guard = guard
	}
	if tmpl, ok := o.Templates[cfg.Ext]; ok {
		cfg.Header = tmpl
	}
	cfg.Exclusions = append(cfg.Exclusions, o.Exclusions...)
}
