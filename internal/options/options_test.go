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

package options

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	o := Default()
	require.True(t, o.EnableRTTI)
	require.True(t, o.EnableDebugInformation)
	require.True(t, o.DisableOptimizations)
	require.Equal(t, WarningAll, o.WarningLevel)
	require.True(t, o.TreatWarningsAsErrors)
}

func TestRelease(t *testing.T) {
	o := Release()
	require.False(t, o.DisableOptimizations)
	require.False(t, o.TreatWarningsAsErrors)
	require.True(t, o.EnableRTTI)
}

func TestLoadFileMissingYieldsDefault(t *testing.T) {
	o, err := LoadFile(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)
	require.Equal(t, Default(), o)
}

func TestLoadFileRoundTrips(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "options.toml")
	contents := `
enable_rtti = false
enable_debug_information = true
disable_optimizations = false
warning_level = 3
treat_warnings_as_errors = false
explicit_compiler_cxx_flags = ["/Zc:preprocessor"]
explicit_include_directories = ["../third_party/include"]

[explicit_properties]
toolset = "v143"
`
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))

	o, err := LoadFile(path)
	require.NoError(t, err)
	require.False(t, o.EnableRTTI)
	require.Equal(t, WarningExtra, o.WarningLevel)
	require.Equal(t, []string{"/Zc:preprocessor"}, o.ExplicitCompilerCXXFlags)
	require.Equal(t, "v143", o.ExplicitProperties["toolset"])
}

func TestLoadFileEmptyPath(t *testing.T) {
	o, err := LoadFile("")
	require.NoError(t, err)
	require.Equal(t, Default(), o)
}
