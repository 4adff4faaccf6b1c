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

package macro

// A Token is one lexical element of a macro definition. Name is set for
// identifier tokens, which are the only tokens eligible for parameter
// substitution and for the name-adjacency spacing rule.
type Token struct {
	Str  string
	Name bool
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentCont(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9')
}

// tokenize splits macro definition text into tokens. Identifiers and
// numbers are maximal runs, string and character literals stay single
// tokens with their escapes intact, and anything else is a one-byte
// punctuation token. Whitespace separates tokens and is dropped.
func tokenize(s string) []Token {
	var toks []Token
	i := 0
	for i < len(s) {
		c := s[i]
		switch {
		case c == ' ' || c == '\n' || c == '\t':
			i++

		case isIdentStart(c):
			j := i + 1
			for j < len(s) && isIdentCont(s[j]) {
				j++
			}
			toks = append(toks, Token{Str: s[i:j], Name: true})
			i = j

		case c >= '0' && c <= '9':
			j := i + 1
			for j < len(s) && (isIdentCont(s[j]) || s[j] == '.') {
				j++
			}
			toks = append(toks, Token{Str: s[i:j]})
			i = j

		case c == '"' || c == '\'':
			j := i + 1
			for j < len(s) {
				if s[j] == '\\' {
					j += 2
					continue
				}
				if s[j] == c {
					j++
					break
				}
				j++
			}
			if j > len(s) {
				j = len(s)
			}
			toks = append(toks, Token{Str: s[i:j]})
			i = j

		default:
			toks = append(toks, Token{Str: s[i : i+1]})
			i++
		}
	}
	return toks
}
