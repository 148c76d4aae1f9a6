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

// Package procutil runs external processes synchronously or
// asynchronously and reports (stdout, stderr, exit code) back to the
// caller, the way kati's para.go/evalcmd.go runners invoke $(SHELL) -c
// and classify the result.
package procutil

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"syscall"
	"time"

	"github.com/golang/glog"
)

// Result is the outcome of one process invocation.
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Logger is invoked before a process starts, so callers can narrate what
// is about to run.
type Logger func(name string, args []string)

// Run executes name with args synchronously in dir (the empty string
// means the current directory) and returns its captured output.
func Run(ctx context.Context, dir, name string, args []string, logger Logger) (Result, error) {
	if logger != nil {
		logger(name, args)
	}
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	res := Result{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		ExitCode: exitStatus(err),
	}
	var exitErr *exec.ExitError
	if err != nil && !errors.As(err, &exitErr) {
		// exec itself failed (e.g. binary not found): surface that, not a
		// fabricated zero exit code.
		return res, err
	}
	return res, nil
}

// Job is a running or finished asynchronous invocation. It is the Go
// analogue of indigo's _Async_Command: a handle that can be awaited, and
// killed on timeout.
type Job struct {
	Name string

	cmd     *exec.Cmd
	stdout  bytes.Buffer
	stderr  bytes.Buffer
	waited  bool
	waitErr error
}

// Start launches name with args in dir and returns a handle the caller
// must eventually await with Wait.
func Start(ctx context.Context, dir, name string, args []string, jobName string, logger Logger) (*Job, error) {
	if logger != nil {
		logger(name, args)
	}
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir

	j := &Job{Name: jobName, cmd: cmd}
	cmd.Stdout = &j.stdout
	cmd.Stderr = &j.stderr

	if err := cmd.Start(); err != nil {
		return nil, err
	}
	return j, nil
}

// ErrTimeout is returned by Wait when the process had to be killed
// because it exceeded the requested timeout.
var ErrTimeout = errors.New("procutil: process timed out")

// Wait blocks until the job's process exits, or until timeout elapses (a
// zero timeout waits forever). On timeout the child is killed; the parent
// still reaps it (a final Wait() call drains any buffered output and
// collects the exit status on every supported host, matching
// _Async_Command._Await's POSIX/Windows post-kill drain).
func (j *Job) Wait(timeout time.Duration) (Result, error) {
	if j.waited {
		return Result{}, errors.New("procutil: job already awaited")
	}
	j.waited = true

	if timeout <= 0 {
		err := j.cmd.Wait()
		return j.result(), j.wrapErr(err)
	}

	done := make(chan error, 1)
	go func() { done <- j.cmd.Wait() }()

	select {
	case err := <-done:
		return j.result(), j.wrapErr(err)
	case <-time.After(timeout):
		glog.Warningf("procutil: %s exceeded %s, killing", j.Name, timeout)
		if j.cmd.Process != nil {
			_ = j.cmd.Process.Kill()
		}
		<-done // reap regardless of host OS
		return j.result(), ErrTimeout
	}
}

// Kill terminates the job's process without waiting for a natural exit.
// Used for keyboard-interrupt propagation: the caller still must Wait to
// reap the child.
func (j *Job) Kill() error {
	if j.cmd.Process == nil {
		return nil
	}
	return j.cmd.Process.Kill()
}

func (j *Job) result() Result {
	return Result{
		Stdout:   j.stdout.String(),
		Stderr:   j.stderr.String(),
		ExitCode: exitStatus(j.waitErr),
	}
}

func (j *Job) wrapErr(err error) error {
	j.waitErr = err
	if err == nil {
		return nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		// Non-zero exit is not itself a procutil-level error; callers
		// inspect Result.ExitCode.
		return nil
	}
	return err
}

// exitStatus extracts a process exit code from the error exec.Cmd.Run /
// exec.Cmd.Wait returns, the same pattern kati's worker.go uses.
func exitStatus(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		if ws, ok := exitErr.Sys().(syscall.WaitStatus); ok {
			return ws.ExitStatus()
		}
		return 1
	}
	return -1
}
