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

// Package style is the narrow console-styling collaborator the engine
// talks to. It never decides what to print, only how: callers supply the
// message, style picks the color.
package style

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

// Printer renders build narration lines. Implementations must not block
// on anything beyond writing to their underlying writer.
type Printer interface {
	Header(format string, args ...interface{})
	OK(format string, args ...interface{})
	Fail(format string, args ...interface{})
}

type colorPrinter struct {
	w               io.Writer
	header, ok, bad *color.Color
}

// New returns a Printer that writes to w, coloring header lines cyan, OK
// lines green, and failure lines red. Whether color is emitted is decided
// globally by fatih/color from whether os.Stdout is a terminal, not from w.
func New(w io.Writer) Printer {
	return &colorPrinter{
		w:      w,
		header: color.New(color.FgCyan, color.Bold),
		ok:     color.New(color.FgGreen),
		bad:    color.New(color.FgRed, color.Bold),
	}
}

func (p *colorPrinter) Header(format string, args ...interface{}) {
	p.header.Fprintln(p.w, fmt.Sprintf(format, args...))
}

func (p *colorPrinter) OK(format string, args ...interface{}) {
	p.ok.Fprintln(p.w, fmt.Sprintf(format, args...))
}

func (p *colorPrinter) Fail(format string, args ...interface{}) {
	p.bad.Fprintln(p.w, fmt.Sprintf(format, args...))
}

// Noop discards all narration; used in tests that don't care about output.
type Noop struct{}

func (Noop) Header(string, ...interface{}) {}
func (Noop) OK(string, ...interface{})     {}
func (Noop) Fail(string, ...interface{})   {}
