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

// Package directive parses conditional-compilation directive lines of
// cleaned text and models the guard stack the enumerator and the selector
// share. A directive line is a cleaned-text line whose first character is
// '#'; the vocabulary here is restricted to the conditional family
// (#ifdef/#ifndef/#if/#elif/#else/#endif).
package directive

import "strings"

// Kind classifies a cleaned-text line for the purposes of conditional
// traversal.
type Kind uint8

const (
	// KindNone marks a line that is not a conditional directive.
	KindNone Kind = iota
	// KindIfdef marks a `#ifdef X` line.
	KindIfdef
	// KindIfndef marks a `#ifndef X` line.
	KindIfndef
	// KindIf marks a `#if X` line.
	KindIf
	// KindElif marks a `#elif X` line.
	KindElif
	// KindElse marks a line starting with `#else`.
	KindElse
	// KindEndif marks a line starting with `#endif`.
	KindEndif
)

// Getdef returns the guarded identifier on a directive line, or the empty
// string if the line is not the requested kind. When def is true the line
// must begin with `#ifdef `, `#if ` or `#elif `; when def is false it must
// begin with `#ifndef `. The keyword is stripped up to the first space and
// every remaining space is deleted, so a compound `#if` expression yields
// whatever residue is left. Callers must tolerate such residues.
func Getdef(line string, def bool) string {
	if def && !strings.HasPrefix(line, "#ifdef ") &&
		!strings.HasPrefix(line, "#if ") && !strings.HasPrefix(line, "#elif ") {
		return ""
	}
	if !def && !strings.HasPrefix(line, "#ifndef ") {
		return ""
	}

	line = line[strings.Index(line, " "):]
	return strings.ReplaceAll(line, " ", "")
}

// Scan classifies one cleaned-text line and extracts its guarded
// identifier, if any. Classification is by prefix, so trailing junk after
// `#else` or `#endif` still classifies; callers that need the exact-line
// forms check the line themselves.
func Scan(line string) (Kind, string) {
	if len(line) == 0 || line[0] != '#' {
		return KindNone, ""
	}
	switch {
	case strings.HasPrefix(line, "#ifndef "):
		return KindIfndef, Getdef(line, false)
	case strings.HasPrefix(line, "#ifdef "):
		return KindIfdef, Getdef(line, true)
	case strings.HasPrefix(line, "#elif "):
		return KindElif, Getdef(line, true)
	case strings.HasPrefix(line, "#if "):
		return KindIf, Getdef(line, true)
	case strings.HasPrefix(line, "#else"):
		return KindElse, ""
	case strings.HasPrefix(line, "#endif"):
		return KindEndif, ""
	}
	return KindNone, ""
}
