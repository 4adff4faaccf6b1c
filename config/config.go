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

// Package config hosts the engine-wide limits and the per-invocation
// options of the preprocessing engine.
package config

// MaxConfigurations is the default cap on how many distinct configurations
// the enumerator returns for one translation unit. Deeply nested guard
// combinations in generated headers can otherwise fan out far beyond what
// downstream analysis can consume; hitting the cap truncates the list
// rather than failing, keeping the engine tolerant by construction. The
// unguarded configuration "" is never truncated away.
const MaxConfigurations = 1024

// Options holds the per-invocation knobs of the engine.
type Options struct {
	// MaxConfigurations caps the enumerated configuration list. Zero means
	// unlimited.
	MaxConfigurations int
}

// DefaultOptions returns the options used by the plain entry points.
func DefaultOptions() Options {
	return Options{MaxConfigurations: MaxConfigurations}
}
