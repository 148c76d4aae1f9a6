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
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuildIFCMap(t *testing.T) {
	m := BuildIFCMap("build/ifc", []string{"my/module.ixx"}, []string{"my/header.hxx"})
	require.Len(t, m.Module, 1)
	require.Equal(t, "my.module", m.Module[0].Name)
	require.Len(t, m.HeaderUnit, 1)
	require.Equal(t, [2]string{"angle", "my/header.hxx"}, m.HeaderUnit[0].Name)
}

func TestWriteAndReadIFCMap(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ifcMap.toml")

	m := BuildIFCMap(dir, []string{"my/module.ixx"}, []string{"my/header.hxx"})
	require.NoError(t, WriteIFCMap(path, m))

	got, err := ReadIFCMap(path)
	require.NoError(t, err)
	require.Equal(t, m, got)
}
