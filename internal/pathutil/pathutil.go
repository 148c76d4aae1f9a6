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

// Package pathutil collects the path and filesystem primitives the build
// engine needs: joining, dotted-path flattening of source files into flat
// artifact names, directory creation/cleaning, and mtime comparisons used
// by the incremental build planner.
package pathutil

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"

	"github.com/golang/glog"
)

// Join joins path elements using the host separator. It is filepath.Join:
// empty elements are ignored, so an empty root yields a relative path
// (Join("", "src") is "src").
func Join(elem ...string) string {
	return filepath.Join(elem...)
}

// Extension returns the file extension (including the leading dot) of path.
func Extension(path string) string {
	return filepath.Ext(path)
}

// FileName returns the base name of path, optionally with its extension
// stripped.
func FileName(path string, stripExt bool) string {
	name := filepath.Base(path)
	if stripExt {
		name = strings.TrimSuffix(name, filepath.Ext(name))
	}
	return name
}

// DotPath replaces every path separator in a relative source path with a
// dot, optionally stripping the original extension first and appending a
// new one. This is the sole mapping from nested source paths to flat
// artifact names used by the cache and IFC directories:
//
//	DotPath("a/b/c.ixx", ".obj", false) == "a.b.c.ixx.obj"
//	DotPath("a/b/c.ixx", ".ifc", true)  == "a.b.c.ifc"
//
// The mapping is injective over any set of relative paths that don't
// already differ only by separator choice (e.g. "a/b.c" and "a.b.c" would
// collide; the build engine's source lists never contain such pairs).
func DotPath(path string, addExt string, stripExt bool) string {
	clean := filepath.ToSlash(path)
	if stripExt {
		clean = strings.TrimSuffix(clean, filepath.Ext(clean))
	}
	dotted := strings.ReplaceAll(clean, "/", ".")
	return dotted + addExt
}

// Exists reports whether path exists on disk.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// CreateDir creates dir and any missing parents if they don't already
// exist.
func CreateDir(dir string) error {
	if Exists(dir) {
		return nil
	}
	glog.V(2).Infof("mkdir %s", dir)
	return os.MkdirAll(dir, 0o755)
}

// CleanDir removes dir (if present) and recreates it empty. Used by
// Target.Clean and by forced rebuilds.
func CleanDir(dir string) error {
	glog.V(1).Infof("clean %s", dir)
	if err := os.RemoveAll(dir); err != nil {
		return err
	}
	return os.MkdirAll(dir, 0o755)
}

// ModifiedAfter reports whether the file at path was modified more
// recently than the file at other. A missing "other" file counts as
// infinitely old (so path is considered modified); a missing path itself
// reports false.
func ModifiedAfter(path, other string) bool {
	pinfo, err := os.Stat(path)
	if err != nil {
		return false
	}
	oinfo, err := os.Stat(other)
	if err != nil {
		return true
	}
	return pinfo.ModTime().After(oinfo.ModTime())
}

// ListDir lists the base names of files directly under dir whose name
// starts with prefix and ends with suffix. A missing directory yields an
// empty, non-error result.
func ListDir(dir, prefix, suffix string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if prefix != "" && !strings.HasPrefix(name, prefix) {
			continue
		}
		if suffix != "" && !strings.HasSuffix(name, suffix) {
			continue
		}
		names = append(names, name)
	}
	return names, nil
}

// FileLine returns the 1-indexed line n of the file at path, used by the
// error-location summary to show the offending source line next to a
// compiler diagnostic. A missing file or out-of-range line returns ok ==
// false rather than an error: the summary pass must never crash on a
// diagnostic that outlived its source.
func FileLine(path string, n int) (line string, ok bool) {
	f, err := os.Open(path)
	if err != nil {
		return "", false
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	i := 0
	for scanner.Scan() {
		i++
		if i == n {
			return scanner.Text(), true
		}
	}
	return "", false
}
