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

// Package msvc adapts the cl.exe/link.exe/lib.exe toolchain: flag
// synthesis, process dispatch with a bounded job pool, diagnostic
// classification, and the IFC map codec.
package msvc

import (
	"fmt"
	"strings"

	"github.com/indigo-build/indigo/internal/options"
	"github.com/indigo-build/indigo/internal/pathutil"
)

const (
	cStandard      = "/std:c17"
	cxxStandard    = "/std:c++latest"
	cxxExceptions  = "/EHsc"
	linkless       = "/c"
	warningLevelAll = "/Wall"
	treatWXAsErrors = "/WX"

	enableDebugInfo    = "/Zi"
	disableOptFlag     = "/Od"
	debugInfoSync      = "/FS"
	inlineExpansion    = "/Ob2"
	wholeProgramOpt    = "/GL"

	machineX64            = "/MACHINE:X64"
	linkTimeCodeGenFlag   = "/LTCG"
	linkEnableDebugInfo   = "/DEBUG:FULL"

	explicitCTU        = "/Tc"
	explicitCXXTU      = "/Tp"
	explicitModuleIntf = "/interface"
	exportGlobalHU     = "/exportHeader"
	headerNameAngle    = "/headerName:angle"
	includeGlobalHU    = "/headerUnit:angle"
	ifcSearchDir       = "/ifcSearchDir"
	ifcOutput          = "/ifcOutput"
	ifcMapFlag         = "/ifcMap"
)

func rttiFlag(enable bool) string {
	if enable {
		return "/GR"
	}
	return "/GR-"
}

func warningLevelFlag(level options.WarningLevel) string {
	if level > options.WarningMax {
		return warningLevelAll
	}
	return fmt.Sprintf("/W%d", level)
}

// warningFlags derives the /W.../WX pair from an Options record.
func warningFlags(level options.WarningLevel, treatAsErrors bool) []string {
	if level <= 0 {
		return nil
	}
	flags := []string{warningLevelFlag(level)}
	if treatAsErrors {
		flags = append(flags, treatWXAsErrors)
	}
	return flags
}

// debugFlags derives the debug/optimization flags from an Options
// record: /Zi /Od with debug info and optimizations disabled, /Zi /Ob2
// /GL with debug info and optimizations enabled, /Ob2 /GL without debug
// info and with optimizations enabled, and nothing when both are off.
func debugFlags(enableDebugInformation, disableOptimizations bool) []string {
	switch {
	case enableDebugInformation && disableOptimizations:
		return []string{enableDebugInfo, disableOptFlag}
	case enableDebugInformation && !disableOptimizations:
		return []string{enableDebugInfo, inlineExpansion, wholeProgramOpt}
	case !enableDebugInformation && disableOptimizations:
		return nil
	default:
		return []string{inlineExpansion, wholeProgramOpt}
	}
}

func includeDirFlag(dir string) string {
	return "/I" + dir
}

func objPathFlag(path string) string { return "/Fo" + path }
func pdbPathFlag(path string) string { return "/Fd" + path }
func exePathFlag(path string) string { return "/Fe" + path }

// CompileFlags is the common prefix shared by every .c/.cpp/.hxx/.ixx/
// .cxx/.uxx compile: the non-linking selector, the language standard,
// the exceptions model for C++, the RTTI toggle, warning controls, and
// debug/optimization controls.
func CompileFlags(cxx bool, o options.Options) []string {
	standard := cStandard
	flags := []string{linkless}
	if cxx {
		flags = append(flags, cxxExceptions)
		standard = cxxStandard
	}
	flags = append(flags, standard, rttiFlag(o.EnableRTTI))
	flags = append(flags, warningFlags(o.WarningLevel, o.TreatWarningsAsErrors)...)
	flags = append(flags, debugFlags(o.EnableDebugInformation, o.DisableOptimizations)...)
	return flags
}

// LinkFlags builds the common link.exe prefix.
func LinkFlags(treatWarningsAsErrors, debugInfo bool) []string {
	flags := []string{machineX64}
	if treatWarningsAsErrors {
		flags = append(flags, treatWXAsErrors)
	}
	if debugInfo {
		flags = append(flags, linkEnableDebugInfo)
	} else {
		flags = append(flags, linkTimeCodeGenFlag)
	}
	return flags
}

// LibFlags builds the common lib.exe (archiver) prefix.
func LibFlags(treatWarningsAsErrors, debugInfo bool) []string {
	flags := []string{machineX64}
	if treatWarningsAsErrors {
		flags = append(flags, treatWXAsErrors)
	}
	if !debugInfo {
		flags = append(flags, linkTimeCodeGenFlag)
	}
	return flags
}

// ModuleIFCPath returns where a named module interface's IFC is written.
func ModuleIFCPath(ixx, ifcSearchDirectory string) string {
	return pathutil.Join(ifcSearchDirectory, pathutil.DotPath(ixx, ".ifc", true))
}

// ModuleObjPath returns where a named module interface's object is cached.
func ModuleObjPath(ixx, cacheDirectory string) string {
	return pathutil.Join(cacheDirectory, pathutil.DotPath(ixx, ".obj", false))
}

// ModuleName returns the dotted module name a .ixx file exports.
func ModuleName(ixx string) string {
	return pathutil.DotPath(ixx, "", true)
}

// HeaderUnitIFCPath returns where an importable header unit's IFC is written.
func HeaderUnitIFCPath(hxx, ifcSearchDirectory string) string {
	return pathutil.Join(ifcSearchDirectory, pathutil.DotPath(hxx, ".ifc", false))
}

// HeaderUnitObjPath returns where an importable header unit's object is cached.
func HeaderUnitObjPath(hxx, cacheDirectory string) string {
	return pathutil.Join(cacheDirectory, pathutil.DotPath(hxx, ".obj", false))
}

// TUObjPath returns where a classical translation unit's object is cached.
func TUObjPath(src, cacheDirectory string) string {
	return pathutil.Join(cacheDirectory, pathutil.DotPath(src, ".obj", false))
}

// consumeHeaderUnitFlags emits the "already built, here's where to find
// it" form for every header unit currently in scope, plus (optionally)
// the shared IFC search directory flag so the compiler can resolve named
// modules too.
func consumeHeaderUnitFlags(headerUnits []string, ifcSearchDirectory string, withIfcSearchDir bool) []string {
	var flags []string
	for _, hxx := range headerUnits {
		ifc := HeaderUnitIFCPath(hxx, ifcSearchDirectory)
		flags = append(flags, includeGlobalHU, fmt.Sprintf("%s=%s", hxx, ifc))
	}
	if withIfcSearchDir {
		flags = append(flags, ifcSearchDir, ifcSearchDirectory)
	}
	return flags
}

// IXXFlags synthesizes the argument vector for compiling a module
// interface: consumer flags for header units already in scope, the
// interface designator, the IFC output path, and the object output path.
func IXXFlags(ixx string, headerUnits []string, sourceDirectory, ifcSearchDirectory, cacheDirectory string) []string {
	flags := consumeHeaderUnitFlags(headerUnits, ifcSearchDirectory, true)
	flags = append(flags,
		explicitModuleIntf, pathutil.Join(sourceDirectory, ixx),
		ifcOutput, ModuleIFCPath(ixx, ifcSearchDirectory),
		objPathFlag(ModuleObjPath(ixx, cacheDirectory)),
	)
	return flags
}

// CXXFlags synthesizes the argument vector for compiling a module
// implementation unit: no IFC is produced, only an object.
func CXXFlags(cxx string, headerUnits []string, sourceDirectory, ifcSearchDirectory, cacheDirectory string) []string {
	flags := consumeHeaderUnitFlags(headerUnits, ifcSearchDirectory, true)
	flags = append(flags,
		pathutil.Join(sourceDirectory, cxx),
		objPathFlag(ModuleObjPath(cxx, cacheDirectory)),
	)
	return flags
}

// HXXFlags synthesizes the argument vector for compiling an importable
// header unit: the export/self-import pair plus the IFC and object
// output paths, using the angle-bracket header-unit form.
func HXXFlags(hxx string, headerUnits []string, sourceDirectory, ifcSearchDirectory, cacheDirectory string) []string {
	ifc := HeaderUnitIFCPath(hxx, ifcSearchDirectory)
	flags := consumeHeaderUnitFlags(headerUnits, ifcSearchDirectory, true)
	flags = append(flags,
		exportGlobalHU, hxx,
		headerNameAngle,
		includeGlobalHU, fmt.Sprintf("%s=%s", hxx, ifc),
		ifcOutput, ifc,
		objPathFlag(HeaderUnitObjPath(hxx, cacheDirectory)),
	)
	return flags
}

// CFlags synthesizes the argument vector for compiling a classical C
// translation unit. C TUs don't consume header units or modules.
func CFlags(c, sourceDirectory, cacheDirectory string) []string {
	return []string{
		explicitCTU, pathutil.Join(sourceDirectory, c),
		objPathFlag(TUObjPath(c, cacheDirectory)),
	}
}

// CPPFlags synthesizes the argument vector for compiling a classical C++
// translation unit, main.cpp included. main.cpp omits the shared IFC
// search directory flag: by the time it compiles, its own module
// interfaces and header units are already archived into its own static
// library with its own published IFC map, so the caller appends that
// map's consumer flag explicitly instead of pointing it at a directory
// to scan.
func CPPFlags(cpp string, headerUnits []string, sourceDirectory, ifcSearchDirectory, cacheDirectory string, isMain bool) []string {
	flags := consumeHeaderUnitFlags(headerUnits, ifcSearchDirectory, !isMain)
	flags = append(flags,
		explicitCXXTU, pathutil.Join(sourceDirectory, cpp),
		objPathFlag(TUObjPath(cpp, cacheDirectory)),
	)
	return flags
}

// UXXFlags synthesizes the argument vector for compiling a unit-test
// translation unit out of the tests directory.
func UXXFlags(uxx string, headerUnits []string, testsDirectory, ifcSearchDirectory, cacheDirectory string) []string {
	flags := consumeHeaderUnitFlags(headerUnits, ifcSearchDirectory, false)
	flags = append(flags,
		explicitCXXTU, pathutil.Join(testsDirectory, uxx),
		objPathFlag(TUObjPath(uxx, cacheDirectory)),
	)
	return flags
}

// IncludeDirFlag exposes includeDirFlag for callers outside this package
// (the engine appends one per dependency source directory).
func IncludeDirFlag(dir string) string { return includeDirFlag(dir) }

// PDBPathFlag exposes pdbPathFlag for callers outside this package.
func PDBPathFlag(path string) string { return pdbPathFlag(path) }

// DebugInfoSyncFlag is appended alongside a PDB path whenever debug
// information is enabled, so concurrent cl.exe invocations don't race on
// the same .pdb.
const DebugInfoSyncFlag = debugInfoSync

// ExePathFlag exposes exePathFlag for callers outside this package: the
// cl.exe-native /Fe form, used only when cl.exe itself both compiles and
// links in a single invocation.
func ExePathFlag(path string) string { return exePathFlag(path) }

// LinkOutputFlag is the /OUT:<path> form link.exe and lib.exe both use
// for their output artifact, distinct from cl.exe's /Fe form above.
func LinkOutputFlag(path string) string { return "/OUT:" + path }

// IfcMapFlagPair returns the two-token /ifcMap <path> argument pair
// consumers append when a dependency (or this target) has an existing
// IFC map.
func IfcMapFlagPair(ifcMapPath string) []string { return []string{ifcMapFlag, ifcMapPath} }

// joinArgs is a debug helper for logging a flag vector as a single
// shell-like string.
func joinArgs(args []string) string { return strings.Join(args, " ") }
