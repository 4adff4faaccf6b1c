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

// Package configuration enumerates the reachable conditional-compilation
// configurations of cleaned text, decides whether a guard is live under a
// configuration, and selects the per-configuration subset of the text.
//
// A configuration is a `;`-separated list of macro names in the order their
// guards were entered; "" is the unguarded path and is always reachable.
package configuration

import "strings"

// lines splits cleaned text the way a line-by-line reader would: the text
// after a final newline is not an extra empty line.
func lines(text string) []string {
	if text == "" {
		return nil
	}
	split := strings.Split(text, "\n")
	if split[len(split)-1] == "" {
		split = split[:len(split)-1]
	}
	return split
}
