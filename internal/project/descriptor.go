// Copyright 2015 Google Inc. All rights reserved
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package project loads solution and subproject descriptors from disk
// and stitches them into a dependency graph of build targets.
package project

import (
	"fmt"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/indigo-build/indigo/internal/options"
	"github.com/indigo-build/indigo/internal/pathutil"
)

// DescriptorFile is the conventional file name a subproject descriptor
// is read from, relative to its own directory.
const DescriptorFile = "subproject.toml"

// Descriptor is the on-disk declaration of one subproject: where its
// sources live, what it depends on, and how it should be compiled.
type Descriptor struct {
	Name            string          `toml:"name"`
	Directory       string          `toml:"-"`
	SourceDirectory string          `toml:"source_directory"`
	TestsDirectory  string          `toml:"tests_directory"`
	Options         options.Options `toml:"options"`
	Dependencies    []string        `toml:"dependencies"`
	Sources         []string        `toml:"sources"`
}

// LoadDescriptor reads the subproject descriptor rooted at directory
// (directory/subproject.toml) and normalizes its source list.
func LoadDescriptor(directory string) (*Descriptor, error) {
	path := filepath.Join(directory, DescriptorFile)
	var d Descriptor
	if _, err := toml.DecodeFile(path, &d); err != nil {
		return nil, fmt.Errorf("project: loading %s: %w", path, err)
	}
	d.Directory = directory
	if d.SourceDirectory == "" {
		d.SourceDirectory = "src"
	}
	if d.TestsDirectory == "" {
		d.TestsDirectory = "test"
	}
	if err := d.NormalizeSources(); err != nil {
		return nil, fmt.Errorf("project: %s: %w", d.Name, err)
	}
	return &d, nil
}

// NormalizeSources deduplicates the source list (keeping first
// occurrence order) and moves a main translation unit to the end. A
// descriptor naming both main.c and main.cpp is an invariant violation
// and is rejected.
func (d *Descriptor) NormalizeSources() error {
	seen := make(map[string]bool, len(d.Sources))
	deduped := make([]string, 0, len(d.Sources))
	for _, s := range d.Sources {
		if seen[s] {
			continue
		}
		seen[s] = true
		deduped = append(deduped, s)
	}

	var mainC, mainCPP string
	rest := deduped[:0:0]
	for _, s := range deduped {
		switch filepath.Base(s) {
		case "main.c":
			mainC = s
		case "main.cpp":
			mainCPP = s
		default:
			rest = append(rest, s)
		}
	}

	if mainC != "" && mainCPP != "" {
		return fmt.Errorf("project: both %s and %s present; a subproject may have at most one main translation unit", mainC, mainCPP)
	}

	if mainC != "" {
		rest = append(rest, mainC)
	}
	if mainCPP != "" {
		rest = append(rest, mainCPP)
	}
	d.Sources = rest
	return nil
}

// descriptorExists reports whether the descriptor file is present under
// directory, used by the graph to decide whether a name is a loadable
// subproject.
func descriptorExists(directory string) bool {
	return pathutil.Exists(filepath.Join(directory, DescriptorFile))
}
