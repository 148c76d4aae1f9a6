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

// Package engine is the per-subproject build state machine: it classifies
// sources, orders their compilation, resolves the link policy, and tracks
// enough state across a run to short-circuit a build or test pass that
// has nothing new to do.
package engine

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/hashicorp/go-multierror"
	"golang.org/x/sync/errgroup"

	"github.com/indigo-build/indigo/internal/msvc"
	"github.com/indigo-build/indigo/internal/options"
	"github.com/indigo-build/indigo/internal/pathutil"
	"github.com/indigo-build/indigo/internal/style"
)

// Config is everything New needs to stand up a Target that isn't derived
// from another Target.
type Config struct {
	Name            string
	RootDirectory   string
	SourceDirectory string
	BuildDirectory  string
	TestsDirectory  string
	Sources         []string
	Options         options.Options
	Dependencies    []*Target
}

// Target is the build engine for one subproject: it owns a classified
// view of its own source list, the object files it has produced, and
// enough bookkeeping to decide whether a build, link, or test pass can
// be skipped.
type Target struct {
	Name            string
	RootDirectory   string
	SourceDirectory string
	BuildDirectory  string
	CacheDirectory  string
	IFCDirectory    string
	TestsDirectory  string

	Options      options.Options
	Dependencies []*Target

	toolchain *msvc.Toolchain
	printer   style.Printer

	sourceFiles []string

	headerUnits      []string
	headerUnitSet    map[string]bool
	moduleInterfaces []string
	moduleIntfSet    map[string]bool

	translationUnits    []string
	mainTranslationUnit string

	objectFiles  []string
	objectSet    map[string]bool
	deferred     []func() error
	rebuiltFiles int
	visited      bool
	shouldRelink bool
}

// New constructs a Target, creating its build/cache/ifc directories.
func New(cfg Config, toolchain *msvc.Toolchain, printer style.Printer) (*Target, error) {
	if cfg.Name == "" {
		return nil, fmt.Errorf("engine: a target needs a name")
	}
	if cfg.SourceDirectory == "" || cfg.BuildDirectory == "" {
		return nil, fmt.Errorf("engine: %s: source and build directories are required", cfg.Name)
	}
	if printer == nil {
		printer = style.Noop{}
	}

	t := &Target{
		Name:            cfg.Name,
		RootDirectory:   cfg.RootDirectory,
		SourceDirectory: cfg.SourceDirectory,
		BuildDirectory:  cfg.BuildDirectory,
		CacheDirectory:  pathutil.Join(cfg.BuildDirectory, "obj"),
		IFCDirectory:    pathutil.Join(cfg.BuildDirectory, "ifc"),
		TestsDirectory:  cfg.TestsDirectory,
		Options:         cfg.Options,
		Dependencies:    cfg.Dependencies,
		toolchain:       toolchain,
		printer:         printer,
		sourceFiles:     cfg.Sources,
		headerUnitSet:   map[string]bool{},
		moduleIntfSet:   map[string]bool{},
		objectSet:       map[string]bool{},
	}

	for _, dir := range []string{t.BuildDirectory, t.CacheDirectory, t.IFCDirectory} {
		if err := pathutil.CreateDir(dir); err != nil {
			return nil, fmt.Errorf("engine: %s: %w", t.Name, err)
		}
	}
	return t, nil
}

// ExecutablePath is where this target's linked executable, if any, lands.
func (t *Target) ExecutablePath() string { return pathutil.Join(t.BuildDirectory, t.Name+".exe") }

// StaticLibraryPath is where this target's archived object code, if any, lands.
func (t *Target) StaticLibraryPath() string { return pathutil.Join(t.BuildDirectory, t.Name+".lib") }

// DebugInformationPath is where this target's program database lands
// when debug information is enabled.
func (t *Target) DebugInformationPath() string {
	return pathutil.Join(t.BuildDirectory, t.Name+".pdb")
}

// IFCMapPath is where this target publishes the manifest consumers use
// to resolve its named modules and header units.
func (t *Target) IFCMapPath() string { return pathutil.Join(t.IFCDirectory, "ifcMap.toml") }

// CachedObjectPath is where the object produced from compiling src is
// cached, independent of which kind of source file src is.
func (t *Target) CachedObjectPath(src string) string {
	return pathutil.Join(t.CacheDirectory, pathutil.DotPath(src, ".obj", false))
}

func (t *Target) addObjectFile(path string) {
	if t.objectSet[path] {
		return
	}
	t.objectSet[path] = true
	t.objectFiles = append(t.objectFiles, path)
}

func (t *Target) addHeaderUnit(hxx string) {
	if t.headerUnitSet[hxx] {
		return
	}
	t.headerUnitSet[hxx] = true
	t.headerUnits = append(t.headerUnits, hxx)
}

func (t *Target) addModuleInterface(ixx string) {
	if t.moduleIntfSet[ixx] {
		return
	}
	t.moduleIntfSet[ixx] = true
	t.moduleInterfaces = append(t.moduleInterfaces, ixx)
}

// Build compiles every source file modified since its cached object (or,
// when force is true, every source file unconditionally) and relinks if
// anything changed, including a dependency's static library.
func (t *Target) Build(ctx context.Context, force bool) error {
	if !pathutil.Exists(t.SourceDirectory) {
		return fmt.Errorf("engine: %s: source directory %s does not exist", t.Name, t.SourceDirectory)
	}
	if len(t.sourceFiles) == 0 {
		t.printer.OK("%s > nothing to build", t.Name)
		return nil
	}

	if force {
		if err := t.Clean(); err != nil {
			return err
		}
	}

	modified := t.modifiedSources(force)
	modified = t.resolveModifiedDependencies(modified)

	if len(modified) == 0 {
		relink, err := t.dependencyLibrariesChanged()
		if err != nil {
			return err
		}
		if !relink {
			t.printer.OK("%s > up to date", t.Name)
			return nil
		}
		t.shouldRelink = true
	}

	t.printer.Header("%s > building", t.Name)
	start := time.Now()

	for _, src := range modified {
		if err := t.compileSourceFile(ctx, src); err != nil {
			return err
		}
	}

	var linkErr error
	if t.hasMainSource() {
		linkErr = t.buildExecutable(ctx)
	} else {
		linkErr = t.buildStaticLibrary(ctx)
	}
	if linkErr != nil {
		return linkErr
	}

	t.printer.OK("%s > built in %s", t.Name, time.Since(start).Round(time.Millisecond))
	return nil
}

// hasMainSource reports whether the descriptor's source list names a
// main translation unit, independent of whether it has compiled yet.
func (t *Target) hasMainSource() bool {
	for _, s := range t.sourceFiles {
		base := filepath.Base(s)
		if base == "main.c" || base == "main.cpp" {
			return true
		}
	}
	return false
}

func (t *Target) modifiedSources(force bool) []string {
	if force {
		return append([]string(nil), t.sourceFiles...)
	}
	var modified []string
	for _, src := range t.sourceFiles {
		dir := t.SourceDirectory
		if t.isTestSource(src) {
			dir = t.TestsDirectory
		}
		if pathutil.ModifiedAfter(pathutil.Join(dir, src), t.CachedObjectPath(src)) {
			modified = append(modified, src)
		}
	}
	return modified
}

func (t *Target) isTestSource(src string) bool { return pathutil.Extension(src) == ".uxx" }

// resolveModifiedDependencies applies the conservative "touch one,
// recompile all" staleness policy: module interfaces reorder each
// other's ABI implicitly, so a single modified source invalidates the
// whole target rather than chasing the dependency sub-graph.
func (t *Target) resolveModifiedDependencies(modified []string) []string {
	if len(modified) == 0 {
		return modified
	}
	return append([]string(nil), t.sourceFiles...)
}

func (t *Target) dependencyLibrariesChanged() (bool, error) {
	for _, dep := range t.Dependencies {
		lib := dep.StaticLibraryPath()
		if !pathutil.Exists(lib) {
			return true, nil
		}
		target := t.StaticLibraryPath()
		if t.hasMainSource() {
			target = t.ExecutablePath()
		}
		if pathutil.ModifiedAfter(lib, target) {
			return true, nil
		}
	}
	return false, nil
}

// Clean removes this target's cache, IFC directory, and any linked
// artifacts, then resets in-memory build state.
func (t *Target) Clean() error {
	if err := pathutil.CleanDir(t.CacheDirectory); err != nil {
		return fmt.Errorf("engine: %s: %w", t.Name, err)
	}
	if err := pathutil.CleanDir(t.IFCDirectory); err != nil {
		return fmt.Errorf("engine: %s: %w", t.Name, err)
	}
	for _, p := range []string{t.ExecutablePath(), t.StaticLibraryPath(), t.DebugInformationPath()} {
		if pathutil.Exists(p) {
			if err := os.Remove(p); err != nil {
				return fmt.Errorf("engine: %s: %w", t.Name, err)
			}
		}
	}

	t.headerUnits = nil
	t.headerUnitSet = map[string]bool{}
	t.moduleInterfaces = nil
	t.moduleIntfSet = map[string]bool{}
	t.translationUnits = nil
	t.mainTranslationUnit = ""
	t.objectFiles = nil
	t.objectSet = map[string]bool{}
	t.deferred = nil
	t.rebuiltFiles = 0
	t.shouldRelink = false
	return nil
}

// OnCommand dispatches cmd to every dependency first (leaves-first,
// visited-deduplicated), then to this target.
func (t *Target) OnCommand(ctx context.Context, cmd string, force bool) error {
	if t.visited {
		return nil
	}
	t.visited = true

	for _, dep := range t.Dependencies {
		if err := dep.OnCommand(ctx, cmd, force); err != nil {
			return err
		}
	}

	switch cmd {
	case "build", "rebuild":
		return t.Build(ctx, force || cmd == "rebuild")
	case "clean":
		return t.Clean()
	case "test":
		return t.Test(ctx, force)
	case "config":
		return t.Config()
	default:
		return fmt.Errorf("engine: %s: unknown command %q", t.Name, cmd)
	}
}

// Config narrates this target's effective configuration, for the
// "config" verb.
func (t *Target) Config() error {
	t.printer.Header("%s", t.Name)
	t.printer.OK("  source directory: %s", t.SourceDirectory)
	t.printer.OK("  tests directory: %s", t.TestsDirectory)
	t.printer.OK("  build directory: %s", t.BuildDirectory)

	deps := make([]string, len(t.Dependencies))
	for i, dep := range t.Dependencies {
		deps[i] = dep.Name
	}
	t.printer.OK("  dependencies: %s", strings.Join(deps, ", "))
	t.printer.OK("  warning level: %d", t.Options.WarningLevel)
	t.printer.OK("  treat warnings as errors: %t", t.Options.TreatWarningsAsErrors)
	t.printer.OK("  debug information: %t", t.Options.EnableDebugInformation)
	t.printer.OK("  optimizations disabled: %t", t.Options.DisableOptimizations)
	return nil
}

func (t *Target) compileSourceFile(ctx context.Context, src string) error {
	switch pathutil.Extension(src) {
	case ".c":
		return t.compileC(ctx, src)
	case ".cpp":
		return t.compileCPP(ctx, src)
	case ".hxx":
		return t.compileHeaderUnit(ctx, src)
	case ".ixx":
		return t.compileModuleInterface(ctx, src)
	case ".cxx":
		return t.compileModuleImplementation(ctx, src)
	default:
		return &CompilationError{Target: t.Name, Source: src, Err: fmt.Errorf("unsupported source file extension %q", pathutil.Extension(src))}
	}
}

// commonCompileFlags is the prefix every compile shares: the base
// CompileFlags plus this target's own include directory, every
// dependency's include directory and (if it has one) IFC map, and a PDB
// path when debug information is enabled. Dependencies without a built
// static library are built eagerly, so a missing dependency build never
// surfaces as a confusing "symbol not found" link error instead.
func (t *Target) commonCompileFlags(ctx context.Context, cxx bool) ([]string, error) {
	flags := msvc.CompileFlags(cxx, t.Options)
	flags = append(flags, msvc.IncludeDirFlag(t.SourceDirectory))

	for _, dep := range t.Dependencies {
		if !pathutil.Exists(dep.StaticLibraryPath()) {
			if err := dep.Build(ctx, false); err != nil {
				return nil, err
			}
		}
		flags = append(flags, msvc.IncludeDirFlag(dep.SourceDirectory))
		if pathutil.Exists(dep.IFCMapPath()) {
			flags = append(flags, msvc.IfcMapFlagPair(dep.IFCMapPath())...)
		}
	}

	for _, dir := range t.Options.ExplicitIncludeDirectories {
		flags = append(flags, msvc.IncludeDirFlag(dir))
	}
	if t.Options.EnableDebugInformation {
		flags = append(flags, msvc.DebugInfoSyncFlag, msvc.PDBPathFlag(t.DebugInformationPath()))
	}
	if cxx {
		flags = append(flags, t.Options.ExplicitCompilerCXXFlags...)
	} else {
		flags = append(flags, t.Options.ExplicitCompilerCFlags...)
	}
	return flags, nil
}

// compileHeaderUnit and compileModuleInterface run synchronously: later
// sources in the same pass may need to consume the IFC they just
// produced, so the engine can't let them run in the background.

func (t *Target) compileHeaderUnit(ctx context.Context, hxx string) error {
	flags, err := t.commonCompileFlags(ctx, true)
	if err != nil {
		return err
	}
	flags = append(flags, msvc.HXXFlags(hxx, t.headerUnits, t.SourceDirectory, t.IFCDirectory, t.CacheDirectory)...)

	if err := t.toolchain.ProduceObject(ctx, flags); err != nil {
		return &CompilationError{Target: t.Name, Source: hxx, Err: err}
	}
	t.addHeaderUnit(hxx)
	t.addObjectFile(t.CachedObjectPath(hxx))
	t.rebuiltFiles++
	return nil
}

func (t *Target) compileModuleInterface(ctx context.Context, ixx string) error {
	flags, err := t.commonCompileFlags(ctx, true)
	if err != nil {
		return err
	}
	flags = append(flags, msvc.IXXFlags(ixx, t.headerUnits, t.SourceDirectory, t.IFCDirectory, t.CacheDirectory)...)

	if err := t.toolchain.ProduceObject(ctx, flags); err != nil {
		return &CompilationError{Target: t.Name, Source: ixx, Err: err}
	}
	t.addModuleInterface(ixx)
	t.addObjectFile(t.CachedObjectPath(ixx))
	t.rebuiltFiles++
	return nil
}

func (t *Target) compileModuleImplementation(ctx context.Context, cxx string) error {
	flags, err := t.commonCompileFlags(ctx, true)
	if err != nil {
		return err
	}
	flags = append(flags, msvc.CXXFlags(cxx, t.headerUnits, t.SourceDirectory, t.IFCDirectory, t.CacheDirectory)...)

	t.deferred = append(t.deferred, func() error {
		return t.toolchain.ProduceObjectAsync(ctx, cxx, flags, func(code int) bool {
			if code != 0 {
				return false
			}
			t.translationUnits = append(t.translationUnits, cxx)
			t.addObjectFile(t.CachedObjectPath(cxx))
			t.rebuiltFiles++
			return true
		})
	})
	return nil
}

func (t *Target) compileC(ctx context.Context, c string) error {
	flags, err := t.commonCompileFlags(ctx, false)
	if err != nil {
		return err
	}
	flags = append(flags, msvc.CFlags(c, t.SourceDirectory, t.CacheDirectory)...)

	isMain := filepath.Base(c) == "main.c"
	t.deferred = append(t.deferred, func() error {
		return t.toolchain.ProduceObjectAsync(ctx, c, flags, func(code int) bool {
			if code != 0 {
				return false
			}
			t.rebuiltFiles++
			if isMain {
				t.mainTranslationUnit = c
			} else {
				t.translationUnits = append(t.translationUnits, c)
				t.addObjectFile(t.CachedObjectPath(c))
			}
			return true
		})
	})
	return nil
}

func (t *Target) compileCPP(ctx context.Context, cpp string) error {
	if filepath.Base(cpp) == "main.cpp" {
		return t.compileMainCPP(ctx, cpp)
	}

	flags, err := t.commonCompileFlags(ctx, true)
	if err != nil {
		return err
	}
	flags = append(flags, msvc.CPPFlags(cpp, t.headerUnits, t.SourceDirectory, t.IFCDirectory, t.CacheDirectory, false)...)

	t.deferred = append(t.deferred, func() error {
		return t.toolchain.ProduceObjectAsync(ctx, cpp, flags, func(code int) bool {
			if code != 0 {
				return false
			}
			t.translationUnits = append(t.translationUnits, cpp)
			t.addObjectFile(t.CachedObjectPath(cpp))
			t.rebuiltFiles++
			return true
		})
	})
	return nil
}

// compileMainCPP compiles a target's main.cpp synchronously. It is
// always the last source in NormalizeSources' ordering, so every
// sibling source has already been compiled (or deferred) by the time
// this runs: it first archives those siblings into this target's own
// static library (publishing this target's own IFC map in the
// process, if it has one to publish), then compiles main.cpp itself
// with that IFC map's consumer flag appended so it can import its own
// module interfaces and header units exactly as it would a
// dependency's.
func (t *Target) compileMainCPP(ctx context.Context, cpp string) error {
	if err := t.buildStaticLibrary(ctx); err != nil {
		return err
	}

	flags, err := t.commonCompileFlags(ctx, true)
	if err != nil {
		return err
	}
	flags = append(flags, msvc.CPPFlags(cpp, t.headerUnits, t.SourceDirectory, t.IFCDirectory, t.CacheDirectory, true)...)
	if pathutil.Exists(t.IFCMapPath()) {
		flags = append(flags, msvc.IfcMapFlagPair(t.IFCMapPath())...)
	}

	if err := t.toolchain.ProduceObject(ctx, flags); err != nil {
		return &CompilationError{Target: t.Name, Source: cpp, Err: err}
	}
	t.mainTranslationUnit = cpp
	t.rebuiltFiles++
	return nil
}

// awaitDeferredCommands submits every queued deferred compile (which may
// itself block on FIFO backpressure) and then drains whatever the
// toolchain still has in flight, unconditionally: a link or archive step
// needs a verdict on the whole batch, not just the ones that happened to
// still be queued when the last compile was submitted.
func (t *Target) awaitDeferredCommands() error {
	if len(t.deferred) > 0 {
		deferred := t.deferred
		t.deferred = nil
		for _, cmd := range deferred {
			if err := cmd(); err != nil {
				return &CompilationError{Target: t.Name, Err: err}
			}
		}
	}
	if err := t.toolchain.AwaitJobs(); err != nil {
		return &CompilationError{Target: t.Name, Err: err}
	}
	return nil
}

// buildStaticLibrary archives every object this target has produced.
// Short-circuits when the archive already exists and nothing was
// rebuilt this pass. A target with no non-main sources at all (a
// main.cpp with no siblings) has nothing to archive; that's not an
// error, it just means buildExecutable has no own library to link in.
func (t *Target) buildStaticLibrary(ctx context.Context) error {
	if err := t.awaitDeferredCommands(); err != nil {
		return err
	}

	if len(t.objectFiles) == 0 {
		return nil
	}
	if pathutil.Exists(t.StaticLibraryPath()) && t.rebuiltFiles == 0 {
		t.printer.OK("%s > not archiving: no changes since last build", t.Name)
		return nil
	}

	flags := msvc.LibFlags(t.Options.TreatWarningsAsErrors, t.Options.EnableDebugInformation)
	flags = append(flags, t.objectFiles...)
	flags = append(flags, msvc.LinkOutputFlag(t.StaticLibraryPath()))

	if err := t.toolchain.ProduceStaticLibrary(ctx, flags); err != nil {
		return &CompilationError{Target: t.Name, Err: err}
	}

	return t.writeIFCMapIfNeeded()
}

// buildExecutable links this target's main translation unit against its
// own static library (when one exists: compileMainCPP archives a main.cpp
// target's siblings before compiling main.cpp, and a main.c target's
// siblings are archived here) and every dependency's static library.
// When nothing was recompiled this pass but a dependency's library
// changed, it relinks the main object cached by an earlier build.
func (t *Target) buildExecutable(ctx context.Context) error {
	if err := t.awaitDeferredCommands(); err != nil {
		return err
	}

	mainTU := t.mainTranslationUnit
	if mainTU == "" && t.shouldRelink {
		for _, s := range t.sourceFiles {
			if base := filepath.Base(s); base == "main.c" || base == "main.cpp" {
				mainTU = s
			}
		}
	}
	if mainTU == "" {
		return fmt.Errorf("engine: %s: declared a main translation unit but it did not compile", t.Name)
	}

	if pathutil.Exists(t.ExecutablePath()) && t.rebuiltFiles == 0 && !t.shouldRelink {
		t.printer.OK("%s > not linking: no changes since last build", t.Name)
		return nil
	}

	if filepath.Base(mainTU) == "main.c" {
		if err := t.buildStaticLibrary(ctx); err != nil {
			return err
		}
	}

	flags := msvc.LinkFlags(t.Options.TreatWarningsAsErrors, t.Options.EnableDebugInformation)
	flags = append(flags, t.CachedObjectPath(mainTU))
	if pathutil.Exists(t.StaticLibraryPath()) {
		flags = append(flags, t.StaticLibraryPath())
	}
	for _, dep := range t.Dependencies {
		flags = append(flags, dep.StaticLibraryPath())
	}
	flags = append(flags, t.Options.ExplicitLibraries...)
	flags = append(flags, t.Options.ExplicitLinkerFlags...)
	flags = append(flags, msvc.LinkOutputFlag(t.ExecutablePath()))

	if err := t.toolchain.ProduceExecutable(ctx, flags); err != nil {
		return &CompilationError{Target: t.Name, Err: err}
	}
	t.shouldRelink = false
	return nil
}

// writeIFCMapIfNeeded publishes the manifest consumers need to resolve
// this target's named modules and header units. Libraries that export
// neither don't need one.
func (t *Target) writeIFCMapIfNeeded() error {
	if len(t.headerUnits) == 0 && len(t.moduleInterfaces) == 0 {
		return nil
	}

	m := msvc.BuildIFCMap(t.IFCDirectory, t.moduleInterfaces, t.headerUnits)
	if old, err := os.ReadFile(t.IFCMapPath()); err == nil {
		logIFCMapDiff(t.Name, string(old), m)
	}
	if err := msvc.WriteIFCMap(t.IFCMapPath(), m); err != nil {
		return fmt.Errorf("engine: %s: writing ifc map: %w", t.Name, err)
	}
	return nil
}

// Test builds this target (if needed), then compiles, links, and runs
// every *.uxx unit test under its tests directory, bounding concurrency
// to the toolchain's own job limit. A target with no tests directory or
// no .uxx files is a no-op, not an error.
func (t *Target) Test(ctx context.Context, force bool) error {
	if t.TestsDirectory == "" || !pathutil.Exists(t.TestsDirectory) {
		return nil
	}
	uxxFiles, err := pathutil.ListDir(t.TestsDirectory, "", ".uxx")
	if err != nil {
		return fmt.Errorf("engine: %s: %w", t.Name, err)
	}
	if len(uxxFiles) == 0 {
		return nil
	}

	if err := t.Build(ctx, force); err != nil {
		return err
	}

	t.printer.Header("%s > running %d test(s)", t.Name, len(uxxFiles))
	sort.Strings(uxxFiles)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(t.toolchain.MaxJobs())

	var (
		mu     sync.Mutex
		failed []string
		errs   *multierror.Error
	)

	for _, uxx := range uxxFiles {
		uxx := uxx
		g.Go(func() error {
			ok, runErr := t.runTest(gctx, uxx, force)
			mu.Lock()
			defer mu.Unlock()
			if runErr != nil {
				errs = multierror.Append(errs, fmt.Errorf("%s: %w", uxx, runErr))
				return nil
			}
			if !ok {
				failed = append(failed, uxx)
			}
			return nil
		})
	}
	_ = g.Wait()

	if err := errs.ErrorOrNil(); err != nil {
		return err
	}
	if len(failed) > 0 {
		sort.Strings(failed)
		return &TestingError{Target: t.Name, Failed: failed}
	}

	t.printer.OK("%s > all tests passed", t.Name)
	return nil
}

func (t *Target) runTest(ctx context.Context, uxx string, force bool) (bool, error) {
	exe := pathutil.Join(t.CacheDirectory, pathutil.DotPath(uxx, ".exe", true))

	if force || pathutil.ModifiedAfter(pathutil.Join(t.TestsDirectory, uxx), exe) {
		flags, err := t.commonCompileFlags(ctx, true)
		if err != nil {
			return false, err
		}
		flags = append(flags, msvc.UXXFlags(uxx, t.headerUnits, t.TestsDirectory, t.IFCDirectory, t.CacheDirectory)...)
		if err := t.toolchain.ProduceObject(ctx, flags); err != nil {
			return false, &CompilationError{Target: t.Name, Source: uxx, Err: err}
		}

		linkFlags := msvc.LinkFlags(t.Options.TreatWarningsAsErrors, t.Options.EnableDebugInformation)
		linkFlags = append(linkFlags, t.CachedObjectPath(uxx))
		linkFlags = append(linkFlags, t.objectFiles...)
		for _, dep := range t.Dependencies {
			linkFlags = append(linkFlags, dep.StaticLibraryPath())
		}
		linkFlags = append(linkFlags, t.Options.ExplicitLibraries...)
		linkFlags = append(linkFlags, msvc.LinkOutputFlag(exe))
		if err := t.toolchain.ProduceExecutable(ctx, linkFlags); err != nil {
			return false, &CompilationError{Target: t.Name, Source: uxx, Err: err}
		}
	}

	code, err := t.toolchain.RunExecutable(ctx, exe, nil)
	if err != nil {
		return false, err
	}
	return code == 0, nil
}
