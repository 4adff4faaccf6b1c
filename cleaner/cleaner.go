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

// Package cleaner normalizes raw C/C++ source text into the canonical form
// the rest of the engine operates on: comments are stripped, whitespace is
// collapsed, line continuations are folded, and the restricted
// `#if defined(X)` form is rewritten to `#ifdef X`. String and character
// literals survive byte for byte, and the number of newlines is preserved so
// downstream diagnostics can still point at source lines.
package cleaner

import (
	"io"
	"strings"
)

// Read consumes the stream to exhaustion and performs the per-character
// cleanup pass. Line comments collapse to a single newline, block comments
// are replaced by the newlines they contained, runs of whitespace shrink to
// one space, and bytes with the high bit set are dropped. The cleaner is
// tolerant by construction: a short read or an unterminated comment or
// literal simply cleans the prefix that was seen.
func Read(r io.Reader) string {
	raw, _ := io.ReadAll(r)

	var code strings.Builder
	code.Grow(len(raw))
	i := 0
	next := func() (byte, bool) {
		if i >= len(raw) {
			return 0, false
		}
		b := raw[i]
		i++
		return b, true
	}

	// A space is dropped while ignoreSpace is set; the flag is refreshed
	// after every raw character so that spaces following ' ', '#' and '/'
	// never reach the output.
	ignoreSpace := true

	for {
		ch, ok := next()
		if !ok {
			break
		}

		if ch >= 0x80 {
			continue
		}

		if ch != '\n' && (isSpace(ch) || isControl(ch)) {
			ch = ' '
		}

		if ch == ' ' && ignoreSpace {
			continue
		}
		ignoreSpace = ch == ' ' || ch == '#' || ch == '/'

		switch ch {
		case '/':
			chNext, more := next()
			switch {
			case more && chNext == '/':
				for ok && ch != '\n' {
					ch, ok = next()
				}
				code.WriteByte('\n')

			case more && chNext == '*':
				var chPrev byte
				for ok && !(chPrev == '*' && ch == '/') {
					chPrev = ch
					ch, ok = next()
					if ok && ch == '\n' {
						code.WriteByte('\n')
					}
				}

			default:
				code.WriteByte('/')
				if more {
					code.WriteByte(chNext)
				}
			}

		case '"':
			code.WriteByte('"')
			for {
				ch, ok = next()
				if !ok {
					break
				}
				code.WriteByte(ch)
				if ch == '\\' {
					if esc, more := next(); more {
						code.WriteByte(esc)
					}
					// The escaped byte must not terminate the loop, so the
					// comparison below sees a neutral value instead of '"'.
					ch = 0
				}
				if ch == '"' {
					break
				}
			}

		case '\'':
			code.WriteByte('\'')
			if c, more := next(); more {
				code.WriteByte(c)
				if c == '\\' {
					if esc, more := next(); more {
						code.WriteByte(esc)
					}
				}
			}
			next() // closing quote: whatever byte is consumed, a quote is written
			code.WriteByte('\'')

		default:
			code.WriteByte(ch)
		}
	}

	return code.String()
}

// Clean runs the full cleanup pipeline on the stream: the per-character pass
// of Read followed by the textual post-passes. The result is the canonical
// cleaned text defined by the engine: tabs become spaces, the first line
// loses its indentation, spaces adjacent to newlines disappear, backslash
// continuations are folded without changing the line count, and
// `#if defined(X)` becomes `#ifdef X`. Clean is idempotent: feeding its
// output back through it is a no-op.
func Clean(r io.Reader) string {
	text := Read(r)
	text = strings.ReplaceAll(text, "\t", " ")
	text = strings.TrimLeft(text, " ")
	text = RemoveSpaceNearNL(text)
	text = foldContinuations(text)
	return ReplaceIfDefined(text)
}

// RemoveSpaceNearNL deletes every space that has a newline on either side
// of it, so cleaned lines never begin or end with a space.
func RemoveSpaceNearNL(str string) string {
	var tmp strings.Builder
	tmp.Grow(len(str))
	var prev byte
	for i := 0; i < len(str); i++ {
		if str[i] == ' ' &&
			((tmp.Len() > 0 && prev == '\n') ||
				(i+1 < len(str) && str[i+1] == '\n')) {
			continue
		}
		tmp.WriteByte(str[i])
		prev = str[i]
	}
	return tmp.String()
}

// foldContinuations removes each backslash-newline pair, joining the two
// physical lines. If no space precedes the backslash a single space is
// inserted at the joint, and one newline is re-inserted at the next line
// break so the total line count is unchanged. Pairs are folded from the end
// of the text backwards.
func foldContinuations(str string) string {
	for {
		loc := strings.LastIndex(str, "\\\n")
		if loc < 0 {
			break
		}
		str = str[:loc] + str[loc+2:]
		if loc > 0 && str[loc-1] != ' ' {
			str = str[:loc] + " " + str[loc:]
		}
		if nl := strings.Index(str[loc:], "\n"); nl >= 0 {
			p := loc + nl
			str = str[:p] + "\n" + str[p:]
		}
	}
	return str
}

// ReplaceIfDefined rewrites `#if defined(X)` directly followed by a newline
// into `#ifdef X`. Only this exact single-macro form is recognized; compound
// expressions are left untouched.
func ReplaceIfDefined(str string) string {
	pos := 0
	for {
		idx := strings.Index(str[pos:], "#if defined(")
		if idx < 0 {
			break
		}
		pos += idx
		pos2 := strings.Index(str[pos+9:], ")")
		if pos2 < 0 {
			break
		}
		pos2 += pos + 9
		if pos2+1 < len(str) && str[pos2+1] == '\n' {
			str = str[:pos2] + str[pos2+1:]
			str = str[:pos+3] + "def " + str[pos+12:]
		}
		pos++
	}
	return str
}

func isSpace(ch byte) bool {
	switch ch {
	case ' ', '\t', '\n', '\v', '\f', '\r':
		return true
	}
	return false
}

func isControl(ch byte) bool {
	return ch < 0x20 || ch == 0x7f
}
