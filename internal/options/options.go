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

// Package options holds the per-subproject compile configuration the
// flag synthesizer reads: warning level, debug info, optimization, RTTI,
// and the explicit-flag escape hatches.
package options

import (
	"os"

	"github.com/BurntSushi/toml"
)

// WarningLevel mirrors the MSVC /W switch.
type WarningLevel int

const (
	WarningBasic WarningLevel = iota + 1
	WarningAdvanced
	WarningExtra
	WarningMax
	WarningAll
)

// Options is the subproject-level compile configuration. Zero value is
// not meaningful on its own; use Default() or LoadFile.
type Options struct {
	EnableRTTI                 bool              `toml:"enable_rtti"`
	EnableDebugInformation     bool              `toml:"enable_debug_information"`
	DisableOptimizations       bool              `toml:"disable_optimizations"`
	WarningLevel               WarningLevel      `toml:"warning_level"`
	TreatWarningsAsErrors      bool              `toml:"treat_warnings_as_errors"`
	ExplicitCompilerCFlags     []string          `toml:"explicit_compiler_c_flags"`
	ExplicitCompilerCXXFlags   []string          `toml:"explicit_compiler_cxx_flags"`
	ExplicitLinkerFlags        []string          `toml:"explicit_linker_flags"`
	ExplicitIncludeDirectories []string          `toml:"explicit_include_directories"`
	ExplicitLibraries          []string          `toml:"explicit_libraries"`
	ExplicitProperties         map[string]string `toml:"explicit_properties"`
}

// Default matches the conservative, debug-oriented defaults every new
// subproject descriptor gets when it doesn't specify options.
func Default() Options {
	return Options{
		EnableRTTI:             true,
		EnableDebugInformation: true,
		DisableOptimizations:   true,
		WarningLevel:           WarningAll,
		TreatWarningsAsErrors:  true,
	}
}

// Release returns Default with the handful of fields a release build
// conventionally flips, leaving the rest (RTTI, warning level, explicit
// escape hatches) untouched.
func Release() Options {
	o := Default()
	o.EnableDebugInformation = true
	o.DisableOptimizations = false
	o.TreatWarningsAsErrors = false
	return o
}

// LoadFile reads a TOML-encoded Options record from path. A missing file
// yields Default rather than an error, matching the descriptor-optional
// contract every subproject gets when it doesn't carry its own options.
func LoadFile(path string) (Options, error) {
	o := Default()
	if path == "" {
		return o, nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return Default(), nil
	}
	if _, err := toml.DecodeFile(path, &o); err != nil {
		return Options{}, err
	}
	return o, nil
}
