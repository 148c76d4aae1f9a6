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

package engine

import "fmt"

// CompilationError reports that a source file's compile, link, or
// archive step failed. Source is empty for link/archive failures that
// aren't attributable to a single translation unit.
type CompilationError struct {
	Target string
	Source string
	Err    error
}

func (e *CompilationError) Error() string {
	if e.Source == "" {
		return fmt.Sprintf("%s: compilation failed", e.Target)
	}
	return fmt.Sprintf("%s: compilation of %s failed", e.Target, e.Source)
}

func (e *CompilationError) Unwrap() error { return e.Err }

// TestingError reports that one or more unit tests for a target failed.
// It is raised once, after every outstanding test has finished running.
type TestingError struct {
	Target string
	Failed []string
}

func (e *TestingError) Error() string {
	return fmt.Sprintf("%s: %d test(s) failed: %v", e.Target, len(e.Failed), e.Failed)
}
