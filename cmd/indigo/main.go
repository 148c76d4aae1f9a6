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

// Command indigo drives the MSVC toolchain over a solution of
// module-and-header-unit-aware subprojects: build, rebuild, clean,
// test, and config.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/indigo-build/indigo/internal/engine"
	"github.com/indigo-build/indigo/internal/msvc"
	"github.com/indigo-build/indigo/internal/options"
	"github.com/indigo-build/indigo/internal/pathutil"
	"github.com/indigo-build/indigo/internal/project"
	"github.com/indigo-build/indigo/internal/style"
)

var (
	targetSelector string
	configVariant  string
	buildDirFlag   string
	outputDirFlag  string
	jobs           int
)

// usageError marks a failure the user can fix by changing their
// invocation (a bad --target, a missing solution.toml), distinct from a
// compilation or test failure partway through a real build.
type usageError struct{ err error }

func (u *usageError) Error() string { return u.err.Error() }
func (u *usageError) Unwrap() error { return u.err }

func main() {
	root := &cobra.Command{
		Use:          "indigo",
		Short:        "builds a C++ modules codebase with the MSVC toolchain",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVarP(&targetSelector, "target", "T", "all", `subproject to operate on, or "all"`)
	root.PersistentFlags().StringVarP(&configVariant, "config", "C", "debug", "build configuration: debug or release")
	root.PersistentFlags().StringVarP(&buildDirFlag, "build_directory", "B", "", "override the solution's build directory")
	root.PersistentFlags().StringVarP(&outputDirFlag, "output_directory", "O", "", "override the solution's output directory")
	root.PersistentFlags().IntVarP(&jobs, "jobs", "j", 0, "bound on concurrent compiles (default: logical CPUs)")

	root.AddCommand(
		newVerbCommand("build", "compile everything modified since the last build"),
		newVerbCommand("rebuild", "clean, then build unconditionally"),
		newVerbCommand("clean", "remove cached objects, IFCs, and linked artifacts"),
		newVerbCommand("test", "build and run every unit test"),
		newVerbCommand("config", "print each target's effective configuration"),
	)

	if err := root.Execute(); err != nil {
		os.Exit(exitCodeFor(err))
	}
}

func newVerbCommand(verb, short string) *cobra.Command {
	return &cobra.Command{
		Use:   verb,
		Short: short,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), verb)
		},
	}
}

func run(ctx context.Context, verb string) error {
	if configVariant != "debug" && configVariant != "release" {
		return &usageError{fmt.Errorf("--config must be \"debug\" or \"release\", got %q", configVariant)}
	}

	wd, err := os.Getwd()
	if err != nil {
		return err
	}

	sol, err := project.LoadSolution(wd)
	if err != nil {
		return &usageError{err}
	}
	if buildDirFlag != "" {
		sol.BuildDirectory = buildDirFlag
	}
	if outputDirFlag != "" {
		sol.OutputDirectory = outputDirFlag
	}

	graph := project.NewGraph(sol)
	names, err := graph.Resolve(targetSelector)
	if err != nil {
		return &usageError{err}
	}

	printer := style.New(os.Stdout)
	toolchain, err := msvc.New(jobs, printer)
	if err != nil {
		return err
	}

	cache := map[string]*engine.Target{}
	building := map[string]bool{}
	force := verb == "rebuild"

	for _, name := range names {
		t, err := buildTarget(sol, graph, toolchain, printer, cache, building, name)
		if err != nil {
			return err
		}
		if err := t.OnCommand(ctx, verb, force); err != nil {
			return err
		}
	}
	return nil
}

// buildTarget lazily constructs the engine.Target tree rooted at name,
// loading descriptors and recursing into dependencies depth-first so a
// subproject shared by two others is only ever built once. building
// tracks names on the current recursion path (cleared again on return),
// so a cyclic dependency set is reported as a usage error instead of
// recursing forever.
func buildTarget(sol *project.Solution, graph *project.Graph, toolchain *msvc.Toolchain, printer style.Printer, cache map[string]*engine.Target, building map[string]bool, name string) (*engine.Target, error) {
	if t, ok := cache[name]; ok {
		return t, nil
	}
	if building[name] {
		return nil, &usageError{fmt.Errorf("dependency cycle detected: %q depends on itself transitively", name)}
	}
	building[name] = true
	defer delete(building, name)

	d, err := graph.Find(name)
	if err != nil {
		return nil, &usageError{err}
	}

	deps := make([]*engine.Target, 0, len(d.Dependencies))
	for _, dep := range d.Dependencies {
		depTarget, err := buildTarget(sol, graph, toolchain, printer, cache, building, dep)
		if err != nil {
			return nil, err
		}
		deps = append(deps, depTarget)
	}

	t, err := engine.New(engine.Config{
		Name:            d.Name,
		RootDirectory:   d.Directory,
		SourceDirectory: pathutil.Join(d.Directory, d.SourceDirectory),
		BuildDirectory:  pathutil.Join(sol.BuildDirectory, d.Name),
		TestsDirectory:  pathutil.Join(d.Directory, d.TestsDirectory),
		Sources:         d.Sources,
		Options:         applyConfigVariant(d.Options),
		Dependencies:    deps,
	}, toolchain, printer)
	if err != nil {
		return nil, err
	}
	cache[name] = t
	return t, nil
}

// applyConfigVariant overlays the --config selection on top of a
// subproject's own options. Release only ever relaxes optimizations and
// warnings-as-errors; it never overrides a subproject's explicit RTTI or
// warning-level choice.
func applyConfigVariant(o options.Options) options.Options {
	if configVariant == "release" {
		o.DisableOptimizations = false
		o.TreatWarningsAsErrors = false
	}
	return o
}

// exitCodeFor maps a run() failure onto the process exit code: a failing
// unit test run is 2, a compile/link failure (or any other error partway
// through a build) is 1, and a usage error (bad flag, missing solution,
// unknown target, dependency cycle) gets a code of its own so it's never
// confused with a failing test.
func exitCodeFor(err error) int {
	var t *engine.TestingError
	if errors.As(err, &t) {
		fmt.Fprintln(os.Stderr, "indigo:", err)
		return 2
	}
	var u *usageError
	if errors.As(err, &u) {
		fmt.Fprintln(os.Stderr, "indigo:", u.Error())
		return 3
	}
	fmt.Fprintln(os.Stderr, "indigo:", err)
	return 1
}
