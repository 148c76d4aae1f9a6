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
)

// Graph lazily loads subproject descriptors referenced (directly or
// transitively) by a Solution, and resolves --target selectors.
type Graph struct {
	solution    *Solution
	descriptors map[string]*Descriptor
}

// NewGraph wraps sol in a Graph ready to resolve subproject names.
func NewGraph(sol *Solution) *Graph {
	return &Graph{solution: sol, descriptors: make(map[string]*Descriptor)}
}

// Find loads (and caches) the descriptor named name, relative to the
// solution's root directory.
func (g *Graph) Find(name string) (*Descriptor, error) {
	if d, ok := g.descriptors[name]; ok {
		return d, nil
	}
	dir := filepath.Join(g.solution.Directory, name)
	if !descriptorExists(dir) {
		return nil, fmt.Errorf("project: no such subproject %q (expected %s)", name, filepath.Join(dir, DescriptorFile))
	}
	d, err := LoadDescriptor(dir)
	if err != nil {
		return nil, err
	}
	g.descriptors[name] = d
	return d, nil
}

// Targets returns "all" plus every subproject name reachable from the
// solution's declared top-level subprojects, transitively through
// dependencies, in discovery order. A dependency cycle is reported as an
// error rather than silently deduplicated away.
func (g *Graph) Targets() ([]string, error) {
	names := []string{"all"}
	done := map[string]bool{}
	visiting := map[string]bool{}

	var visit func(name string) error
	visit = func(name string) error {
		if done[name] {
			return nil
		}
		if visiting[name] {
			return fmt.Errorf("project: dependency cycle detected: %q depends on itself transitively", name)
		}
		visiting[name] = true
		names = append(names, name)

		d, err := g.Find(name)
		if err != nil {
			return err
		}
		for _, dep := range d.Dependencies {
			if err := visit(dep); err != nil {
				return err
			}
		}

		delete(visiting, name)
		done[name] = true
		return nil
	}

	for _, name := range g.solution.Subprojects {
		if err := visit(name); err != nil {
			return nil, err
		}
	}
	return names, nil
}

// Resolve returns the ordered list of top-level subproject names a
// --target selector should dispatch to: every declared subproject, in
// solution order, when selector is "" or "all"; otherwise the single
// named subproject (its dependencies are still visited, leaves-first,
// by the target's own OnCommand).
func (g *Graph) Resolve(selector string) ([]string, error) {
	if selector == "" || selector == "all" {
		return g.solution.Subprojects, nil
	}

	targets, err := g.Targets()
	if err != nil {
		return nil, err
	}
	for _, t := range targets {
		if t == selector {
			return []string{selector}, nil
		}
	}
	return nil, fmt.Errorf("project: unknown target %q", selector)
}
