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
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"sync"

	"github.com/golang/glog"

	"github.com/indigo-build/indigo/internal/procutil"
	"github.com/indigo-build/indigo/internal/style"
)

// job is an in-flight async compile or link, tracked so the adapter can
// enforce FIFO backpressure and fail-fast.
type job struct {
	name     string
	proc     *procutil.Job
	callback func(code int) bool
}

// Toolchain locates cl.exe/link.exe/lib.exe and dispatches compiles and
// links through them, bounding concurrent subprocesses to maxJobs.
type Toolchain struct {
	cl, link, lib string
	maxJobs       int
	printer       style.Printer

	mu    sync.Mutex
	queue []*job
}

// Locate resolves the three MSVC tool binaries via PATH.
func Locate() (cl, link, lib string, err error) {
	cl, err = exec.LookPath("cl.exe")
	if err != nil {
		return "", "", "", fmt.Errorf("msvc: cl.exe not found on PATH; set up the developer command prompt first: %w", err)
	}
	link, err = exec.LookPath("link.exe")
	if err != nil {
		return "", "", "", fmt.Errorf("msvc: link.exe not found on PATH; set up the developer command prompt first: %w", err)
	}
	lib, err = exec.LookPath("lib.exe")
	if err != nil {
		return "", "", "", fmt.Errorf("msvc: lib.exe not found on PATH; set up the developer command prompt first: %w", err)
	}
	return cl, link, lib, nil
}

// New constructs a Toolchain. jobs <= 0 defaults to the logical CPU
// count. A nil printer discards narration.
func New(jobs int, printer style.Printer) (*Toolchain, error) {
	cl, link, lib, err := Locate()
	if err != nil {
		return nil, err
	}
	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}
	if printer == nil {
		printer = style.Noop{}
	}
	return &Toolchain{cl: cl, link: link, lib: lib, maxJobs: jobs, printer: printer}, nil
}

// MaxJobs reports the configured concurrency bound, so callers outside
// this package (the engine's test runner) can size their own worker
// pools to match rather than guessing a separate constant.
func (t *Toolchain) MaxJobs() int { return t.maxJobs }

func (t *Toolchain) logger(tool string) procutil.Logger {
	return func(name string, args []string) {
		glog.V(2).Infof("%s %s", filepath.Base(tool), joinArgs(args))
	}
}

// ProduceObject runs cl.exe synchronously (.hxx, .ixx, and main.cpp all
// need their result immediately: the IFC may be consumed by the next
// step in the same target).
func (t *Toolchain) ProduceObject(ctx context.Context, args []string) error {
	return t.exec(ctx, t.cl, args)
}

// ProduceExecutable runs link.exe synchronously.
func (t *Toolchain) ProduceExecutable(ctx context.Context, args []string) error {
	return t.exec(ctx, t.link, args)
}

// ProduceStaticLibrary runs lib.exe synchronously.
func (t *Toolchain) ProduceStaticLibrary(ctx context.Context, args []string) error {
	return t.exec(ctx, t.lib, args)
}

// RunExecutable runs an already-built binary (a unit test), synchronously.
func (t *Toolchain) RunExecutable(ctx context.Context, path string, args []string) (int, error) {
	res, err := procutil.Run(ctx, "", path, args, t.logger(path))
	if err != nil {
		return -1, err
	}
	return res.ExitCode, nil
}

func (t *Toolchain) exec(ctx context.Context, tool string, args []string) error {
	res, err := procutil.Run(ctx, "", tool, args, t.logger(tool))
	if err != nil {
		return err
	}
	locations, failed, lines := ParseCompilerOutput(res.Stdout)
	t.printLines(lines)
	if res.ExitCode != 0 || failed {
		t.renderSummary(locations)
		return fmt.Errorf("%s: exit code %d", filepath.Base(tool), res.ExitCode)
	}
	return nil
}

// ProduceObjectAsync submits a deferred cl.exe invocation. When the pool
// is saturated it first awaits the oldest in-flight job (FIFO
// backpressure); if that job failed, the adapter fail-fasts: it awaits
// and discards every other in-flight job and returns an error without
// submitting this one.
func (t *Toolchain) ProduceObjectAsync(ctx context.Context, name string, args []string, callback func(code int) bool) error {
	t.mu.Lock()
	for len(t.queue) >= t.maxJobs {
		oldest := t.queue[0]
		t.queue = t.queue[1:]
		t.mu.Unlock()
		if !t.awaitJob(oldest) {
			t.failFast()
			return fmt.Errorf("msvc: compile of %s not submitted: an earlier job failed", name)
		}
		t.mu.Lock()
	}

	proc, err := procutil.Start(ctx, "", t.cl, args, name, t.logger(t.cl))
	if err != nil {
		t.mu.Unlock()
		t.failFast()
		return err
	}
	t.queue = append(t.queue, &job{name: name, proc: proc, callback: callback})
	t.mu.Unlock()
	return nil
}

// AwaitJobs drains every currently queued async job, awaiting each one
// regardless of earlier failures (unlike submission-time backpressure,
// this path collects a verdict on the whole batch before linking).
func (t *Toolchain) AwaitJobs() error {
	t.mu.Lock()
	remaining := t.queue
	t.queue = nil
	t.mu.Unlock()

	if len(remaining) == 0 {
		return nil
	}
	ok := true
	for _, j := range remaining {
		if !t.awaitJob(j) {
			ok = false
		}
	}
	if !ok {
		return fmt.Errorf("msvc: one or more deferred compiles failed")
	}
	return nil
}

// failFast awaits and discards every queued job without inspecting the
// result, so their child processes are reaped before the adapter gives
// up on the batch.
func (t *Toolchain) failFast() {
	t.mu.Lock()
	remaining := t.queue
	t.queue = nil
	t.mu.Unlock()

	for _, j := range remaining {
		_, _ = j.proc.Wait(0)
	}
}

func (t *Toolchain) awaitJob(j *job) bool {
	res, err := j.proc.Wait(0)
	if err != nil {
		glog.Errorf("msvc: %s: %v", j.name, err)
		return false
	}
	locations, failed, lines := ParseCompilerOutput(res.Stdout)
	t.printLines(lines)
	if failed {
		t.renderSummary(locations)
		return false
	}
	if j.callback != nil {
		return j.callback(res.ExitCode)
	}
	return res.ExitCode == 0
}

func (t *Toolchain) printLines(lines []ClassifiedLine) {
	for _, l := range lines {
		switch l.Kind {
		case KindFilename:
			t.printer.Header("  %s", l.Text)
		case KindError:
			t.printer.Fail("  %s", l.Text)
		case KindWarning:
			glog.Warningf("%s", l.Text)
		case KindInfo:
			glog.V(1).Infof("%s", l.Text)
		}
	}
}

func (t *Toolchain) renderSummary(locations []string) {
	if len(locations) == 0 {
		return
	}
	t.printer.Fail("error locations summary:")
	RenderErrorSummary(os.Stdout, locations)
}
