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

package msvc

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseCompilerOutputClean(t *testing.T) {
	stdout := "a.cpp\nMicrosoft (R) C/C++ Optimizing Compiler\nCopyright (C) Microsoft Corporation\n"
	locations, failed, lines := ParseCompilerOutput(stdout)
	require.False(t, failed)
	require.Empty(t, locations)
	require.Len(t, lines, 1)
	require.Equal(t, KindFilename, lines[0].Kind)
}

func TestParseCompilerOutputError(t *testing.T) {
	stdout := "a.cpp\nsrc/a.cpp(12): error C2065: 'x': undeclared identifier\n"
	locations, failed, lines := ParseCompilerOutput(stdout)
	require.True(t, failed)
	require.Equal(t, []string{"src/a.cpp(12)"}, locations)
	require.Len(t, lines, 2)
	require.Equal(t, KindError, lines[1].Kind)
}

func TestParseCompilerOutputDedupesLocations(t *testing.T) {
	stdout := "a.cpp\n" +
		"src/a.cpp(12): error C2065: 'x': undeclared identifier\n" +
		"src/a.cpp(12): error C2065: 'x': undeclared identifier (again)\n"
	locations, failed, _ := ParseCompilerOutput(stdout)
	require.True(t, failed)
	require.Equal(t, []string{"src/a.cpp(12)"}, locations)
}

func TestParseCompilerOutputWarningDoesNotFail(t *testing.T) {
	stdout := "a.cpp\nsrc/a.cpp(4): warning C4100: unreferenced parameter\n"
	_, failed, lines := ParseCompilerOutput(stdout)
	require.False(t, failed)
	require.Equal(t, KindWarning, lines[1].Kind)
}

func TestParseCompilerOutputEmpty(t *testing.T) {
	locations, failed, lines := ParseCompilerOutput("")
	require.Nil(t, locations)
	require.False(t, failed)
	require.Nil(t, lines)
}

func TestSplitLocation(t *testing.T) {
	file, line, ok := splitLocation("src/a.cpp(12)")
	require.True(t, ok)
	require.Equal(t, "src/a.cpp", file)
	require.Equal(t, 12, line)

	_, _, ok = splitLocation("not a location")
	require.False(t, ok)
}

func TestRenderErrorSummary(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.cpp")
	require.NoError(t, os.WriteFile(path, []byte("one\ntwo\nthree\n"), 0o644))

	var buf bytes.Buffer
	RenderErrorSummary(&buf, []string{path + "(2)"})
	require.Contains(t, buf.String(), "two")
	require.Contains(t, buf.String(), filepath.Base(path))
}
