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

import (
	"bytes"

	"github.com/BurntSushi/toml"
	"github.com/golang/glog"
	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/indigo-build/indigo/internal/msvc"
)

// logIFCMapDiff renders what changed in a target's published IFC map
// between builds, purely for -v=2 debugging: staleness bugs in the map
// (a module that silently stopped exporting, a path that drifted) are
// otherwise invisible once the file is overwritten.
func logIFCMapDiff(target, old string, updated msvc.IFCMap) {
	if !glog.V(2) {
		return
	}

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(updated); err != nil {
		return
	}

	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(old, buf.String(), false)
	if diffsEqual(diffs) {
		return
	}
	glog.V(2).Infof("%s: ifc map changed:\n%s", target, dmp.DiffPrettyText(diffs))
}

func diffsEqual(diffs []diffmatchpatch.Diff) bool {
	for _, d := range diffs {
		if d.Type != diffmatchpatch.DiffEqual {
			return false
		}
	}
	return true
}
