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

import "strings"

// Match reports whether the guard atom def is live under configuration cfg.
// The sentinels decide unconditionally: "0" is never live, "1" always is.
// Otherwise def is live iff it is one of the `;`-separated components of
// cfg; the empty configuration matches no macro name.
func Match(cfg, def string) bool {
	switch def {
	case "0":
		return false
	case "1":
		return true
	}

	if cfg == "" {
		return false
	}
	for _, part := range strings.Split(cfg, ";") {
		if part == def {
			return true
		}
	}
	return false
}
