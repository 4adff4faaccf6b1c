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

package configuration

import (
	"go.uber.org/preproc/config"
	"go.uber.org/preproc/directive"
)

// List walks the cleaned text and returns the distinct guard conjunctions
// under which any code is reached, using the default engine options. The
// unguarded configuration "" is seeded first and is always present.
func List(text string) []string {
	return ListWithOptions(text, config.DefaultOptions())
}

// ListWithOptions is List with explicit engine options. When the
// configuration cap is hit, newly discovered configurations are dropped and
// traversal continues, so the guard stack stays consistent for the
// configurations already collected.
func ListWithOptions(text string, opts config.Options) []string {
	ret := []string{""}
	seen := map[string]bool{"": true}

	var guards directive.Stack
	for _, line := range lines(text) {
		kind, ident := directive.Scan(line)
		switch kind {
		case directive.KindIfdef, directive.KindIfndef, directive.KindIf, directive.KindElif:
			if ident == "" {
				continue
			}
			if kind == directive.KindElif && guards.Len() > 0 {
				guards.Pop()
			}
			guards.Push(directive.ParseAtom(ident))

			cfg := guards.Configuration()
			if seen[cfg] {
				continue
			}
			if opts.MaxConfigurations > 0 && len(ret) >= opts.MaxConfigurations {
				continue
			}
			seen[cfg] = true
			ret = append(ret, cfg)

		case directive.KindElse:
			if top, ok := guards.Top(); ok {
				guards.ReplaceTop(top.Negate())
			}

		case directive.KindEndif:
			guards.Pop()
		}
	}

	return ret
}
