//  Copyright (c) 2023 Uber Technologies, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package preproc implements the early preprocessing stage of a C/C++
// analysis front end: it cleans raw source text, expands #define macros
// textually, enumerates the distinct preprocessor configurations reachable
// through the conditional directives, and produces the per-configuration
// variant texts. The passes run strictly in order on fresh buffers; one
// invocation handles one translation unit and shares no state with any
// other. Malformed input degrades output quality instead of failing, so no
// operation returns an error.
package preproc

import (
	"io"

	"go.uber.org/preproc/cleaner"
	"go.uber.org/preproc/config"
	"go.uber.org/preproc/configuration"
	"go.uber.org/preproc/macro"
	"go.uber.org/preproc/util/orderedmap"
)

// Preprocess consumes the source stream and returns the mapping from
// configuration string to preprocessed text, in enumeration order. The
// unguarded configuration "" is always present and always first.
func Preprocess(r io.Reader) *orderedmap.OrderedMap[string, string] {
	return PreprocessWithOptions(r, config.DefaultOptions())
}

// PreprocessWithOptions is Preprocess with explicit engine options.
func PreprocessWithOptions(r io.Reader, opts config.Options) *orderedmap.OrderedMap[string, string] {
	processed, cfgs := split(r, opts)
	ret := orderedmap.New[string, string]()
	for _, cfg := range cfgs {
		ret.Store(cfg, configuration.Select(processed, cfg))
	}
	return ret
}

// PreprocessSplit consumes the source stream and returns the cleaned and
// macro-expanded text together with the ordered configuration list, so
// callers can select variants lazily via Code.
func PreprocessSplit(r io.Reader) (processed string, configurations []string) {
	return split(r, config.DefaultOptions())
}

// Code selects one configuration's variant from text previously returned by
// PreprocessSplit.
func Code(processed, cfg string) string {
	return configuration.Select(processed, cfg)
}

func split(r io.Reader, opts config.Options) (string, []string) {
	processed := macro.Expand(cleaner.Clean(r))
	return processed, configuration.ListWithOptions(processed, opts)
}
