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
	"io"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"

	"github.com/indigo-build/indigo/internal/pathutil"
)

// LineKind classifies one line of cl.exe/link.exe/lib.exe stdout.
type LineKind int

const (
	KindBanner LineKind = iota
	KindFilename
	KindError
	KindWarning
	KindInfo
)

// ClassifiedLine is one classified stdout line.
type ClassifiedLine struct {
	Kind LineKind
	Text string
}

func isBannerLine(line string) bool {
	return strings.HasPrefix(line, "Microsoft (R)") || strings.HasPrefix(line, "Copyright (C)")
}

// ParseCompilerOutput classifies every line of a tool's stdout, in the
// same pass extracting deduplicated `path(line)` error locations. failed
// reports whether any error-classified line was seen. An error line this
// parser can't locate is recorded verbatim in locations, so locations is
// never empty when failed is true.
func ParseCompilerOutput(stdout string) (locations []string, failed bool, lines []ClassifiedLine) {
	if stdout == "" {
		return nil, false, nil
	}
	raw := strings.Split(stdout, "\n")
	for i := range raw {
		raw[i] = strings.TrimRight(raw[i], "\r")
	}

	rest := raw
	if len(raw) > 1 && !isBannerLine(raw[0]) {
		lines = append(lines, ClassifiedLine{KindFilename, raw[0]})
		rest = raw[1:]
	}

	seen := map[string]bool{}
	for _, line := range rest {
		if line == "" {
			continue
		}
		switch {
		case isBannerLine(line):
			continue
		case strings.Contains(line, "error C") || strings.Contains(line, "error LNK"):
			lines = append(lines, ClassifiedLine{KindError, line})
			failed = true
			loc := errorLocation(line)
			if !seen[loc] {
				seen[loc] = true
				locations = append(locations, loc)
			}
		case strings.Contains(line, "warning C") || strings.Contains(line, "warning LNK"):
			lines = append(lines, ClassifiedLine{KindWarning, line})
		default:
			lines = append(lines, ClassifiedLine{KindInfo, line})
		}
	}
	return locations, failed, lines
}

// errorLocation extracts the `path(line)` token a diagnostic line leads
// with. Lines that don't parse into that shape are returned verbatim so
// nothing is silently dropped from the summary.
func errorLocation(line string) string {
	parts := strings.Split(line, ":")
	loc := strings.TrimSpace(parts[0])
	if len(loc) < 3 && len(parts) > 1 {
		loc = strings.TrimSpace(parts[1])
	}
	if strings.HasSuffix(loc, ")") {
		return loc
	}
	return line
}

// splitLocation splits a `path(line)` token into its file and line
// number. ok is false if the token isn't in that shape.
func splitLocation(loc string) (file string, line int, ok bool) {
	idx := strings.LastIndex(loc, "(")
	if idx < 0 || !strings.HasSuffix(loc, ")") {
		return "", 0, false
	}
	n, err := strconv.Atoi(loc[idx+1 : len(loc)-1])
	if err != nil {
		return "", 0, false
	}
	return loc[:idx], n, true
}

// RenderErrorSummary writes a table of deduplicated error locations to w,
// one row per location: source file, line number, and the offending
// source line re-read off disk.
func RenderErrorSummary(w io.Writer, locations []string) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"file", "line", "source"})
	for _, loc := range locations {
		file, n, ok := splitLocation(loc)
		if !ok {
			table.Append([]string{loc, "", ""})
			continue
		}
		text := "N/A"
		if l, found := pathutil.FileLine(file, n); found {
			text = l
		}
		table.Append([]string{pathutil.FileName(file, false), strconv.Itoa(n), text})
	}
	table.Render()
}
