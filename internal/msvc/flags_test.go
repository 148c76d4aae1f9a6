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
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/indigo-build/indigo/internal/options"
)

func TestCompileFlagsCxx(t *testing.T) {
	o := options.Default()
	flags := CompileFlags(true, o)
	require.Contains(t, flags, "/c")
	require.Contains(t, flags, "/EHsc")
	require.Contains(t, flags, "/std:c++latest")
	require.Contains(t, flags, "/GR")
	require.Contains(t, flags, "/Wall")
	require.Contains(t, flags, "/WX")
	require.Contains(t, flags, "/Zi")
	require.Contains(t, flags, "/Od")
}

func TestCompileFlagsC(t *testing.T) {
	o := options.Default()
	flags := CompileFlags(false, o)
	require.Contains(t, flags, "/std:c17")
	require.NotContains(t, flags, "/EHsc")
}

func TestCompileFlagsReleaseOptimized(t *testing.T) {
	o := options.Release()
	flags := CompileFlags(true, o)
	require.Contains(t, flags, "/Zi")
	require.Contains(t, flags, "/Ob2")
	require.Contains(t, flags, "/GL")
	require.NotContains(t, flags, "/WX")
}

func TestWarningLevelDisabled(t *testing.T) {
	flags := warningFlags(0, true)
	require.Empty(t, flags)
}

func TestWarningLevelClampsAboveMax(t *testing.T) {
	flags := warningLevelFlag(options.WarningLevel(9))
	require.Equal(t, "/Wall", flags)
}

func TestIXXFlags(t *testing.T) {
	flags := IXXFlags("my/module.ixx", nil, "src", "build/ifc", "build/cache")
	require.Contains(t, flags, "/interface")
	require.Contains(t, flags, "src/my/module.ixx")
	require.Contains(t, flags, "/ifcOutput")
	require.Contains(t, flags, "build/ifc/my.module.ifc")
	require.Contains(t, flags, "/Fobuild/cache/my.module.ixx.obj")
}

func TestHXXFlags(t *testing.T) {
	flags := HXXFlags("my/header.hxx", nil, "src", "build/ifc", "build/cache")
	require.Contains(t, flags, "/exportHeader")
	require.Contains(t, flags, "my/header.hxx")
	require.Contains(t, flags, "/headerName:angle")
	require.Contains(t, flags, "/headerUnit:angle")
	require.Contains(t, flags, "my/header.hxx=build/ifc/my.header.hxx.ifc")
}

func TestCPPFlagsMainOmitsIfcSearchDir(t *testing.T) {
	headerUnits := []string{"a.hxx"}
	mainFlags := CPPFlags("main.cpp", headerUnits, "src", "build/ifc", "build/cache", true)
	require.NotContains(t, mainFlags, "/ifcSearchDir")

	otherFlags := CPPFlags("foo.cpp", headerUnits, "src", "build/ifc", "build/cache", false)
	require.Contains(t, otherFlags, "/ifcSearchDir")
}

func TestCFlagsHasNoHeaderUnitConsumption(t *testing.T) {
	flags := CFlags("util.c", "src", "build/cache")
	require.Contains(t, flags, "/Tc")
	require.Contains(t, flags, "src/util.c")
	require.NotContains(t, flags, "/headerUnit:angle")
}

func TestUXXFlagsOmitsIfcSearchDir(t *testing.T) {
	flags := UXXFlags("test_thing.uxx", nil, "tests", "build/ifc", "build/cache")
	require.NotContains(t, flags, "/ifcSearchDir")
	require.Contains(t, flags, "/Tp")
	require.Contains(t, flags, "tests/test_thing.uxx")
}

func TestLinkFlagsDebugVsRelease(t *testing.T) {
	debug := LinkFlags(true, true)
	require.Contains(t, debug, "/DEBUG:FULL")
	require.NotContains(t, debug, "/LTCG")

	release := LinkFlags(false, false)
	require.Contains(t, release, "/LTCG")
	require.NotContains(t, release, "/WX")
}
