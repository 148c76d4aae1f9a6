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

package project

import (
	"fmt"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// SolutionFile is the conventional file name a solution descriptor is
// read from, relative to the solution's root directory.
const SolutionFile = "solution.toml"

// Solution is the top-level descriptor: a name, a root directory, and
// an ordered list of top-level subproject names.
type Solution struct {
	Name            string   `toml:"name"`
	Directory       string   `toml:"-"`
	BuildDirectory  string   `toml:"build_directory"`
	OutputDirectory string   `toml:"output_directory"`
	Subprojects     []string `toml:"subprojects"`
}

// LoadSolution reads the solution descriptor rooted at directory.
func LoadSolution(directory string) (*Solution, error) {
	path := filepath.Join(directory, SolutionFile)
	var s Solution
	if _, err := toml.DecodeFile(path, &s); err != nil {
		return nil, fmt.Errorf("project: loading %s: %w", path, err)
	}
	s.Directory = directory
	if s.BuildDirectory == "" {
		s.BuildDirectory = filepath.Join(directory, ".build")
	}
	if s.OutputDirectory == "" {
		s.OutputDirectory = filepath.Join(directory, ".output")
	}
	return &s, nil
}
