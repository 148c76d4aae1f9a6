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

package pathutil

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDotPath(t *testing.T) {
	cases := []struct {
		path     string
		addExt   string
		stripExt bool
		want     string
	}{
		{"a/b/c.ixx", ".obj", false, "a.b.c.ixx.obj"},
		{"a/b/c.ixx", ".ifc", true, "a.b.c.ifc"},
		{"main.cpp", ".obj", false, "main.cpp.obj"},
		{"test_x.uxx", ".exe", true, "test_x.exe"},
	}
	for _, c := range cases {
		got := DotPath(c.path, c.addExt, c.stripExt)
		require.Equal(t, c.want, got, "DotPath(%q, %q, %v)", c.path, c.addExt, c.stripExt)
	}
}

func TestDotPathInjective(t *testing.T) {
	paths := []string{"a/b/c.ixx", "a/b/c.cxx", "a/c.ixx", "x/y/z.ixx"}
	seen := map[string]string{}
	for _, p := range paths {
		d := DotPath(p, ".obj", false)
		if prev, ok := seen[d]; ok && prev != p {
			t.Fatalf("DotPath collision: %q and %q both map to %q", prev, p, d)
		}
		seen[d] = p
	}
}

func TestModifiedAfter(t *testing.T) {
	dir := t.TempDir()
	older := filepath.Join(dir, "older")
	newer := filepath.Join(dir, "newer")
	missing := filepath.Join(dir, "missing")

	require.NoError(t, os.WriteFile(older, []byte("x"), 0o644))
	time.Sleep(10 * time.Millisecond)
	require.NoError(t, os.WriteFile(newer, []byte("x"), 0o644))

	require.True(t, ModifiedAfter(newer, older))
	require.False(t, ModifiedAfter(older, newer))
	require.True(t, ModifiedAfter(newer, missing), "missing comparison file counts as infinitely old")
	require.False(t, ModifiedAfter(missing, older), "missing subject file is never considered modified")
}

func TestCleanDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "cache")
	require.NoError(t, CreateDir(dir))
	stray := filepath.Join(dir, "stray.obj")
	require.NoError(t, os.WriteFile(stray, []byte("x"), 0o644))

	require.NoError(t, CleanDir(dir))
	require.True(t, Exists(dir))
	require.False(t, Exists(stray))
}

func TestListDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "test_a.uxx"), []byte(""), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "test_b.uxx"), []byte(""), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.cpp"), []byte(""), 0o644))

	names, err := ListDir(dir, "test_", ".uxx")
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"test_a.uxx", "test_b.uxx"}, names)

	names, err = ListDir(filepath.Join(dir, "nope"), "test_", ".uxx")
	require.NoError(t, err)
	require.Empty(t, names)
}

func TestFileLine(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.cpp")
	require.NoError(t, os.WriteFile(path, []byte("one\ntwo\nthree\n"), 0o644))

	line, ok := FileLine(path, 2)
	require.True(t, ok)
	require.Equal(t, "two", line)

	_, ok = FileLine(path, 99)
	require.False(t, ok)

	_, ok = FileLine(filepath.Join(dir, "missing.cpp"), 1)
	require.False(t, ok)
}
