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

package style

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPrinterWritesFormattedLines(t *testing.T) {
	var buf bytes.Buffer
	p := New(&buf)

	p.Header(":target: %s > building", "core")
	p.OK("%s archived", "core.lib")
	p.Fail("%s: compile failed", "core/a.cpp")

	out := buf.String()
	require.Contains(t, out, ":target: core > building")
	require.Contains(t, out, "core.lib archived")
	require.Contains(t, out, "core/a.cpp: compile failed")
}

func TestNoopDiscardsOutput(t *testing.T) {
	var n Noop
	n.Header("x")
	n.OK("y")
	n.Fail("z")
}
