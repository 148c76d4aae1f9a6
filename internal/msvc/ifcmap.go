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
	"os"

	"github.com/BurntSushi/toml"
)

// IFCMapHeaderUnit is one [[header-unit]] entry: name is the two-element
// ['angle', '<include>'] form the compiler's /ifcMap consumer expects.
type IFCMapHeaderUnit struct {
	Name [2]string `toml:"name"`
	IFC  string    `toml:"ifc"`
}

// IFCMapModule is one [[module]] entry binding a dotted module name to
// its IFC file.
type IFCMapModule struct {
	Name string `toml:"name"`
	IFC  string `toml:"ifc"`
}

// IFCMap is the declarative manifest a built target emits so dependents
// can resolve its named modules and header units without rescanning its
// source tree.
type IFCMap struct {
	HeaderUnit []IFCMapHeaderUnit `toml:"header-unit"`
	Module     []IFCMapModule     `toml:"module"`
}

// BuildIFCMap constructs the manifest for a target's compiled header
// units and module interfaces, given their source-relative paths.
func BuildIFCMap(ifcSearchDirectory string, moduleInterfaces, headerUnits []string) IFCMap {
	m := IFCMap{}
	for _, hxx := range headerUnits {
		m.HeaderUnit = append(m.HeaderUnit, IFCMapHeaderUnit{
			Name: [2]string{"angle", hxx},
			IFC:  HeaderUnitIFCPath(hxx, ifcSearchDirectory),
		})
	}
	for _, ixx := range moduleInterfaces {
		m.Module = append(m.Module, IFCMapModule{
			Name: ModuleName(ixx),
			IFC:  ModuleIFCPath(ixx, ifcSearchDirectory),
		})
	}
	return m
}

// WriteIFCMap encodes m as TOML to path, truncating any existing file.
func WriteIFCMap(path string, m IFCMap) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return toml.NewEncoder(f).Encode(m)
}

// ReadIFCMap decodes the IFC map at path.
func ReadIFCMap(path string) (IFCMap, error) {
	var m IFCMap
	_, err := toml.DecodeFile(path, &m)
	return m, err
}
