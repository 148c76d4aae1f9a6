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
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func makeSolution(t *testing.T) *Solution {
	t.Helper()
	dir := t.TempDir()

	require.NoError(t, os.MkdirAll(filepath.Join(dir, "app"), 0o755))
	writeDescriptor(t, filepath.Join(dir, "app"), `
name = "app"
sources = ["main.cpp"]
dependencies = ["core"]
`)

	require.NoError(t, os.MkdirAll(filepath.Join(dir, "core"), 0o755))
	writeDescriptor(t, filepath.Join(dir, "core"), `
name = "core"
sources = ["core.ixx"]
`)

	return &Solution{Name: "example", Directory: dir, Subprojects: []string{"app"}}
}

func TestGraphTargetsIncludesTransitiveDeps(t *testing.T) {
	g := NewGraph(makeSolution(t))
	targets, err := g.Targets()
	require.NoError(t, err)
	require.Equal(t, []string{"all", "app", "core"}, targets)
}

func TestGraphResolveAll(t *testing.T) {
	g := NewGraph(makeSolution(t))
	names, err := g.Resolve("all")
	require.NoError(t, err)
	require.Equal(t, []string{"app"}, names)
}

func TestGraphResolveSpecificTarget(t *testing.T) {
	g := NewGraph(makeSolution(t))
	names, err := g.Resolve("core")
	require.NoError(t, err)
	require.Equal(t, []string{"core"}, names)
}

func TestGraphResolveUnknownTarget(t *testing.T) {
	g := NewGraph(makeSolution(t))
	_, err := g.Resolve("nope")
	require.Error(t, err)
}

func TestGraphFindCaches(t *testing.T) {
	g := NewGraph(makeSolution(t))
	d1, err := g.Find("core")
	require.NoError(t, err)
	d2, err := g.Find("core")
	require.NoError(t, err)
	require.Same(t, d1, d2)
}

func makeCyclicSolution(t *testing.T) *Solution {
	t.Helper()
	dir := t.TempDir()

	require.NoError(t, os.MkdirAll(filepath.Join(dir, "a"), 0o755))
	writeDescriptor(t, filepath.Join(dir, "a"), `
name = "a"
sources = ["a.ixx"]
dependencies = ["b"]
`)

	require.NoError(t, os.MkdirAll(filepath.Join(dir, "b"), 0o755))
	writeDescriptor(t, filepath.Join(dir, "b"), `
name = "b"
sources = ["b.ixx"]
dependencies = ["a"]
`)

	return &Solution{Name: "cyclic", Directory: dir, Subprojects: []string{"a"}}
}

func TestGraphTargetsDetectsCycle(t *testing.T) {
	g := NewGraph(makeCyclicSolution(t))
	_, err := g.Targets()
	require.Error(t, err)
	require.Contains(t, err.Error(), "cycle")
}

func TestGraphResolveDetectsCycle(t *testing.T) {
	g := NewGraph(makeCyclicSolution(t))
	_, err := g.Resolve("b")
	require.Error(t, err)
	require.Contains(t, err.Error(), "cycle")
}
