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
	"strings"

	"go.uber.org/preproc/directive"
)

// branchState tracks one open conditional chain during selection: whether
// the innermost branch is live under the configuration, and whether any
// branch of the chain has ever been live. The latter latches so that a
// later #elif or #else cannot re-open a chain that already matched.
type branchState struct {
	live      bool
	everLived bool
}

// Select returns the subset of the cleaned text that survives under cfg.
// Dead lines are blanked rather than removed, and every conditional
// directive line is blanked regardless, so the output has exactly one line
// per input line and directives never reach downstream lexing.
func Select(text, cfg string) string {
	var out strings.Builder
	out.Grow(len(text))

	var chain []branchState
	match := true

	for _, line := range lines(text) {
		kind, ident := directive.Scan(line)
		switch {
		case kind == directive.KindElif:
			if n := len(chain); n > 0 {
				if chain[n-1].everLived {
					chain[n-1].live = false
				} else if Match(cfg, ident) {
					chain[n-1].live = true
					chain[n-1].everLived = true
				}
			}

		case (kind == directive.KindIfdef || kind == directive.KindIf) && ident != "":
			live := Match(cfg, ident)
			chain = append(chain, branchState{live: live, everLived: live})

		case kind == directive.KindIfndef && ident != "":
			live := !Match(cfg, ident)
			chain = append(chain, branchState{live: live, everLived: live})

		case line == "#else":
			if n := len(chain); n > 0 {
				chain[n-1].live = !chain[n-1].everLived
			}

		case line == "#endif":
			if n := len(chain); n > 0 {
				chain = chain[:n-1]
			}
		}

		// The effective match flag is the conjunction of all open branches;
		// it only changes on directive lines.
		if strings.HasPrefix(line, "#") {
			match = true
			for _, st := range chain {
				match = match && st.live
			}
		}

		emit := line
		if !match {
			emit = ""
		}
		if strings.HasPrefix(line, "#if") || strings.HasPrefix(line, "#else") ||
			strings.HasPrefix(line, "#elif") || strings.HasPrefix(line, "#endif") {
			emit = ""
		}

		out.WriteString(emit)
		out.WriteByte('\n')
	}

	return out.String()
}
