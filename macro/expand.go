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

// Package macro locates #define directives in cleaned text, removes them,
// and substitutes their object-like or function-like bodies at every call
// site. Expansion is textual and deliberately non-conforming: no recursive
// expansion, no rescanning of inserted text, no token pasting or
// stringification. Later definitions shadow earlier ones from their point
// onward.
package macro

import "strings"

// A Macro is one #define record: its name, ordered formal parameters and
// replacement token list. A macro is function-like iff '(' immediately
// follows the name in the definition with no intervening space.
type Macro struct {
	Name     string
	Params   []string
	Body     []Token
	FuncLike bool
}

// parseDefinition parses the definition text following "#define ". It
// returns false when no identifier starts the text, in which case the
// directive is dropped without expansion.
func parseDefinition(def string) (Macro, bool) {
	if def == "" || !isIdentStart(def[0]) {
		return Macro{}, false
	}
	j := 1
	for j < len(def) && isIdentCont(def[j]) {
		j++
	}
	m := Macro{Name: def[:j]}
	rest := def[j:]

	if !strings.HasPrefix(rest, "(") {
		m.Body = tokenize(rest)
		return m, true
	}

	m.FuncLike = true
	toks := tokenize(rest)
	// toks[0] is the '(' itself; formals are the name tokens up to the
	// first ')'.
	i := 1
	for ; i < len(toks); i++ {
		if toks[i].Str == ")" {
			i++
			break
		}
		if toks[i].Name {
			m.Params = append(m.Params, toks[i].Str)
		}
	}
	m.Body = toks[i:]
	return m, true
}

// Expand processes every #define of the cleaned text in source order. Each
// definition is removed (its line kept blank so line numbers survive) and
// its call sites from the definition point onward are rewritten. A
// definition with no terminating newline discards the remainder of the
// text; an invocation whose argument count does not match is left
// untouched.
func Expand(code string) string {
	defpos := 0
	for {
		idx := strings.Index(code[defpos:], "#define")
		if idx < 0 {
			break
		}
		defpos += idx

		// The definition extends to the next newline not preceded by a
		// backslash.
		endpos := indexFrom(code, "\n", defpos+6)
		for endpos > 0 && code[endpos-1] == '\\' {
			endpos = indexFrom(code, "\n", endpos+1)
		}
		if endpos < 0 {
			code = code[:defpos]
			break
		}

		def := code[defpos+8 : endpos+1]
		code = code[:defpos] + code[endpos:]

		// Absorb continuations into the definition, re-injecting one
		// newline per fold at the definition site to keep the line count.
		for {
			k := strings.Index(def, "\\\n")
			if k < 0 {
				break
			}
			def = def[:k] + def[k+2:]
			code = code[:defpos] + "\n" + code[defpos:]
			defpos++
		}

		m, ok := parseDefinition(def)
		if !ok {
			continue
		}
		code = expandOccurrences(code, defpos, m)
	}
	return code
}

// expandOccurrences rewrites every valid occurrence of m from the
// definition site onward and returns the new text.
func expandOccurrences(code string, defpos int, m Macro) string {
	pos1 := defpos
	for {
		next := indexFrom(code, m.Name, pos1+1)
		if next < 0 {
			return code
		}
		pos1 = next

		// The preceding character must not be part of an identifier.
		if pos1 > 0 && isIdentCont(code[pos1-1]) {
			continue
		}
		pos2 := pos1 + len(m.Name)

		// A #define of the same name shadows this macro from its definition
		// site onward; the occurrences past it belong to the newer body.
		if pos1 >= 8 && code[pos1-8:pos1] == "#define " &&
			(pos2 >= len(code) || !isIdentCont(code[pos2])) {
			return code
		}
		if m.FuncLike && pos2 >= len(code) {
			continue
		}

		var args []string
		if m.FuncLike {
			if code[pos2] != '(' {
				continue
			}
			parlevel := 0
			var par strings.Builder
			for ; pos2 < len(code); pos2++ {
				c := code[pos2]
				if c == '(' {
					parlevel++
					if parlevel == 1 {
						continue
					}
				} else if c == ')' {
					parlevel--
					if parlevel <= 0 {
						args = append(args, par.String())
						break
					}
				}

				if parlevel == 1 && c == ',' {
					args = append(args, par.String())
					par.Reset()
				} else if parlevel >= 1 {
					par.WriteByte(c)
				}
			}
			// An argument list that never closes leaves the occurrence
			// untouched.
			if pos2 >= len(code) {
				continue
			}
		}
		if len(args) != len(m.Params) {
			continue
		}

		replacement := substitute(m, args)
		end := pos2
		if m.FuncLike {
			end = pos2 + 1
		}
		code = code[:pos1] + replacement + code[end:]
		pos1 += len(replacement)
	}
}

// substitute rebuilds the macro body, replacing formal parameters with the
// matching argument text. One space is inserted between two adjacent name
// tokens; no other inter-token spacing is emitted. Adjacency is judged on
// the body tokens, not on the substituted text.
func substitute(m Macro, args []string) string {
	var out strings.Builder
	for i, tok := range m.Body {
		str := tok.Str
		if tok.Name {
			for pi, p := range m.Params {
				if str == p {
					str = args[pi]
					break
				}
			}
		}
		out.WriteString(str)
		if tok.Name && i+1 < len(m.Body) && m.Body[i+1].Name {
			out.WriteByte(' ')
		}
	}
	return out.String()
}

// indexFrom is strings.Index starting at a byte offset, returning an
// absolute position.
func indexFrom(s, sub string, from int) int {
	if from >= len(s) {
		return -1
	}
	i := strings.Index(s[from:], sub)
	if i < 0 {
		return -1
	}
	return from + i
}
